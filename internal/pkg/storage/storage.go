// Package storage abstracts the blob store holding generated artifact
// images. The SSE stream carries images inline as base64; the store keeps
// the binary for later reads (story pages, exports) referenced by key from
// the fragment records.
package storage

import (
	"context"
	"fmt"
	"io"
)

// Storage is the blob store interface
type Storage interface {
	// Upload writes a blob and returns its public or internal URL
	Upload(ctx context.Context, key string, data io.Reader, contentType string) (string, error)

	// Download opens a blob for reading
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a blob; deleting a missing blob is not an error
	Delete(ctx context.Context, key string) error

	// Exists reports whether a blob exists
	Exists(ctx context.Context, key string) (bool, error)

	// Type returns the backend type
	Type() Type
}

// Type identifies a storage backend
type Type string

const (
	TypeLocal Type = "local" // local filesystem
	TypeOSS   Type = "oss"   // Aliyun OSS
)

// ArtifactKey builds the blob key for one generated image
func ArtifactKey(userID, storyID, itemKey string) string {
	return fmt.Sprintf("stories/%s/%s/%s.png", userID, storyID, itemKey)
}
