package storage

import (
	"context"
	"fmt"

	"github.com/vzahanych/weather-archive-app/internal/config"
)

// New builds the object store selected by cfg.Backend.
func New(ctx context.Context, cfg config.StorageConfig) (ObjectStore, error) {
	switch cfg.Backend {
	case config.BackendGCS, "":
		return NewGCSStore(ctx, cfg)
	case config.BackendFilesystem:
		return NewFilesystemStore(cfg.BaseDir, cfg.Bucket), nil
	case config.BackendMemory:
		return NewMemoryStore(cfg.Bucket), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
