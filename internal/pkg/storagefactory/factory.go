package storagefactory

import (
	"context"
	"fmt"

	"github.com/georgem7154/once-upon-a-prompt/internal/config"
	"github.com/georgem7154/once-upon-a-prompt/internal/pkg/storage"
	"github.com/georgem7154/once-upon-a-prompt/internal/pkg/storage/local"
	"github.com/georgem7154/once-upon-a-prompt/internal/pkg/storage/oss"
)

// NewStorage builds the configured storage backend
func NewStorage(ctx context.Context, cfg *config.StorageConfig) (storage.Storage, error) {
	switch cfg.Type {
	case "local":
		if cfg.Local == nil {
			return nil, fmt.Errorf("local storage config is required")
		}
		return local.NewLocalStorage(cfg.Local.BasePath, cfg.Local.BaseURL)
	case "oss":
		if cfg.OSS == nil {
			return nil, fmt.Errorf("OSS storage config is required")
		}
		return oss.NewOSSStorage(
			cfg.OSS.Endpoint,
			cfg.OSS.Bucket,
			cfg.OSS.AccessKeyID,
			cfg.OSS.AccessKeySecret,
		)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
