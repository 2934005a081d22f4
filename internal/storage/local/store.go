// Package local stores pictures on the local filesystem.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrlokans/bookshelf/internal/storage"
)

// Store implements storage.Store on top of a directory.
type Store struct {
	dir       string
	urlPrefix string
}

// NewStore creates the upload directory if needed. urlPrefix is the path the
// directory is served under, e.g. "/uploads".
func NewStore(dir, urlPrefix string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Store{
		dir:       dir,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
	}, nil
}

// Dir returns the directory files are written to.
func (s *Store) Dir() string {
	return s.dir
}

// URLPrefix returns the path the directory is served under.
func (s *Store) URLPrefix() string {
	return s.urlPrefix
}

// Check verifies the upload directory still exists.
func (s *Store) Check(ctx context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("upload directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("upload path %s is not a directory", s.dir)
	}
	return nil
}

func (s *Store) Save(ctx context.Context, filename string, content io.Reader, contentType string) (*storage.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := storage.NewKey("", filename)
	path := filepath.Join(s.dir, key)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to close file: %w", err)
	}

	return &storage.Object{
		Key: key,
		URL: s.urlPrefix + "/" + key,
	}, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if !storage.ValidKey(key) {
		return storage.ErrInvalidKey
	}
	err := os.Remove(filepath.Join(s.dir, key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

var _ storage.Store = (*Store)(nil)
