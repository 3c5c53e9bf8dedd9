// Package upload validates uploaded files and stores them on local disk or in S3.
package upload

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/AssocCMS/AssocCMS/internal/config"
)

// Storage stores uploaded objects under a key.
type Storage interface {
	// Put stores r under key and returns the public URL of the object.
	Put(ctx context.Context, key, contentType string, r io.Reader) (string, error)
	// Delete removes the object stored under key.
	Delete(ctx context.Context, key string) error
	// Name returns the provider name, "local" or "s3".
	Name() string
}

// New returns the Storage configured in cfg.
func New(ctx context.Context, cfg config.Upload) (Storage, error) {
	switch cfg.Provider {
	case config.UploadLocal, "":
		return NewLocal(cfg.LocalDir, cfg.PublicURL)
	case config.UploadS3:
		return NewS3(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
}

// NewKey returns a fresh storage key yyyy/mm/<uuid><ext>.
func NewKey(now time.Time, ext string) string {
	return path.Join(now.UTC().Format("2006/01"), uuid.NewString()+ext)
}
