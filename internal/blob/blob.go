// Package blob stores uploaded files under path-like keys.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Store is a path-addressable blob store.
type Store interface {
	// Put writes r under key, replacing any existing blob, and returns the
	// number of bytes written.
	Put(ctx context.Context, key string, r io.Reader) (int64, error)
	// Open returns a reader for key. Missing keys yield an error that
	// matches ErrNotExist.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// ErrNotExist is matched by errors returned for missing keys.
var ErrNotExist = fs.ErrNotExist

// ErrInvalidKey is returned for keys that are empty, absolute, or escape
// the store root.
type ErrInvalidKey struct {
	Key string
}

func (e *ErrInvalidKey) Error() string {
	return fmt.Sprintf("invalid blob key %q", e.Key)
}

// NewKey returns a fresh key of the form prefix/<uuid><ext>.
func NewKey(prefix, ext string) string {
	return path.Join(prefix, uuid.NewString()+ext)
}

// FSStore keeps blobs as files on an afero filesystem.
type FSStore struct {
	fs afero.Fs
}

// NewFSStore returns a store rooted at the top of fsys.
func NewFSStore(fsys afero.Fs) *FSStore {
	return &FSStore{fs: fsys}
}

// NewDirStore returns a store keeping blobs under dir on the OS filesystem.
func NewDirStore(dir string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	return NewFSStore(afero.NewBasePathFs(afero.NewOsFs(), dir)), nil
}

func cleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", &ErrInvalidKey{Key: key}
	}
	clean := path.Clean(key)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", &ErrInvalidKey{Key: key}
	}
	return clean, nil
}

// Put writes to a temporary file next to the target and renames it into
// place, so readers never see a partial blob.
func (s *FSStore) Put(ctx context.Context, key string, r io.Reader) (int64, error) {
	key, err := cleanKey(key)
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	dir := path.Dir(key)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create blob dir %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(s.fs, dir, ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("create temp blob: %w", err)
	}
	n, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = s.fs.Remove(tmp.Name())
		return 0, fmt.Errorf("write blob %s: %w", key, err)
	}
	if err := s.fs.Rename(tmp.Name(), key); err != nil {
		_ = s.fs.Remove(tmp.Name())
		return 0, fmt.Errorf("commit blob %s: %w", key, err)
	}
	return n, nil
}

func (s *FSStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	key, err := cleanKey(key)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := s.fs.Open(key)
	if err != nil {
		return nil, fmt.Errorf("open blob %s: %w", key, err)
	}
	return f, nil
}

func (s *FSStore) Delete(ctx context.Context, key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.fs.Remove(key); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete blob %s: %w", key, err)
	}
	return nil
}
