package entrypoint

import (
	"context"
	"fmt"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/storage"
	"github.com/mrlokans/bookshelf/internal/storage/local"
	"github.com/mrlokans/bookshelf/internal/storage/providers/s3"
)

// PictureStore is the configured storage backend plus what the router
// needs to know about it.
type PictureStore struct {
	Store storage.Store
	// LocalDir is set for the local backend, whose files the app serves itself.
	LocalDir string
	// Origins lists external origins pictures are loaded from.
	Origins []string
}

// NewPictureStore builds the backend selected by STORAGE_BACKEND.
func NewPictureStore(ctx context.Context, cfg config.Storage) (*PictureStore, error) {
	switch cfg.Backend {
	case config.StorageBackendLocal, "":
		store, err := local.NewStore(cfg.UploadDir, cfg.UploadURLPrefix)
		if err != nil {
			return nil, err
		}
		return &PictureStore{Store: store, LocalDir: store.Dir()}, nil

	case config.StorageBackendS3:
		store, err := s3.NewStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &PictureStore{Store: store, Origins: []string{store.BaseURL()}}, nil

	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
	}
}
