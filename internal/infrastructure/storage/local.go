// Package storage owns the uploaded image bytes. The core only ever sees the
// opaque filename this package hands back.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxUploadBytes caps a single upload at 16 MiB.
const DefaultMaxUploadBytes = 16 << 20

// allowedExtensions is the image extension allow-list; anything else is
// rejected, not coerced.
var allowedExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".webp": {},
}

var ErrDisallowedExtension = errors.New("file extension not allowed")
var ErrTooLarge = errors.New("file exceeds maximum upload size")

// LocalStore writes uploads to a directory on disk.
type LocalStore struct {
	dir      string
	maxBytes int64
}

// NewLocalStore creates the upload directory if needed and returns the store.
func NewLocalStore(dir string, maxBytes int64) (*LocalStore, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, maxBytes: maxBytes}, nil
}

// Save validates the extension and size, stores the bytes under a
// timestamp-and-token-prefixed name, and returns that stored filename.
func (s *LocalStore) Save(originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", ErrDisallowedExtension
	}

	name := fmt.Sprintf("%s_%s%s", time.Now().UTC().Format("20060102_150405"), uuid.NewString()[:8], ext)
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	// Read one byte past the cap to detect oversize input.
	written, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("write upload: %w", err)
	}
	if written > s.maxBytes {
		_ = os.Remove(path)
		return "", ErrTooLarge
	}

	return name, nil
}

// Open returns the stored file for serving. The filename must be one Save
// produced; path traversal in the argument is rejected.
func (s *LocalStore) Open(name string) (*os.File, error) {
	if name != filepath.Base(name) {
		return nil, os.ErrNotExist
	}
	return os.Open(filepath.Join(s.dir, name))
}

// Dir returns the directory uploads are stored in.
func (s *LocalStore) Dir() string {
	return s.dir
}
