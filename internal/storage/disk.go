package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/xid"
)

// DiskStore keeps blobs as files in a single directory. Keys are
// xid-prefixed filenames, so they are unique, creation-ordered, and
// safe to serve back as static files.
type DiskStore struct {
	dir string
}

var _ BlobStore = (*DiskStore)(nil)

// NewDiskStore creates the upload directory if needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: creating upload dir %s: %w", dir, err)
	}
	return &DiskStore{dir: dir}, nil
}

// Dir returns the directory blobs are stored in, for static serving.
func (s *DiskStore) Dir() string {
	return s.dir
}

// Store writes the blob and returns its key. The original filename is
// kept as a suffix for readability but stripped of any path components.
func (s *DiskStore) Store(filename string, r io.Reader) (string, error) {
	base := sanitizeFilename(filename)
	key := xid.New().String() + "_" + base

	f, err := os.Create(filepath.Join(s.dir, key))
	if err != nil {
		return "", fmt.Errorf("storage: creating blob file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("storage: writing blob: %w", err)
	}

	return key, nil
}

// Release removes the blob behind key. A missing file is treated as
// already released.
func (s *DiskStore) Release(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || key != filepath.Base(key) {
		return fmt.Errorf("storage: invalid blob key %q", key)
	}

	err := os.Remove(filepath.Join(s.dir, key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: releasing blob %s: %w", key, err)
	}
	return nil
}

// sanitizeFilename reduces a client-supplied filename to a safe suffix.
func sanitizeFilename(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, `\`, `/`))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." {
		base = "upload"
	}
	return base
}
