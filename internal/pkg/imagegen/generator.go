// Package imagegen defines the image generation capability consumed by the
// story orchestrator and the retry policy wrapped around it. Providers live
// behind the Generator interface; whether a backend makes one remote call or
// a generate-then-refine pair is invisible to callers.
package imagegen

import (
	"context"
	"fmt"
)

// GenContext identifies the run and item an image belongs to.
// Carried through to providers for logging and tracing only.
type GenContext struct {
	UserID  string
	StoryID string
	ItemKey string // "cover" or "sceneN"
}

// Generator produces one decoded image for a prompt. The same seed must
// yield stylistically consistent results across calls within one story.
type Generator interface {
	Generate(ctx context.Context, prompt string, seed int64, gc GenContext) ([]byte, error)
}

// ProviderError wraps a single failed generation attempt: transport errors,
// malformed responses, missing payloads
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
