// Package storage abstracts where uploaded book pictures live.
//
// Backends:
//   - local: files on disk served by the app under a URL prefix
//   - providers/s3: objects in an S3 bucket
package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/mrlokans/bookshelf/internal/utils"
)

var ErrInvalidKey = errors.New("invalid storage key")

// Object identifies a stored file.
type Object struct {
	// Key is backend specific and is what Delete expects.
	Key string
	// URL is what pages link to.
	URL string
}

// Store defines the interface for picture storage backends.
type Store interface {
	// Save writes content and returns the stored object's key and public URL.
	Save(ctx context.Context, filename string, content io.Reader, contentType string) (*Object, error)

	// Delete removes a stored object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error

	// Check reports whether the backend can currently accept uploads.
	Check(ctx context.Context) error
}

// NewKey builds a collision-free key that keeps the sanitized original name
// readable, e.g. "3f2c...-my-cover.png".
func NewKey(prefix, filename string) string {
	name := utils.SanitizeFilename(filename)
	return prefix + uuid.New().String() + "-" + name
}

// ValidKey rejects keys that could escape the storage root.
func ValidKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return false
	}
	for _, segment := range strings.Split(key, "/") {
		if segment == "" || segment == "." || segment == ".." {
			return false
		}
	}
	return filepath.Clean(key) == key
}
