package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DiskStore writes objects into a local directory served under baseURL.
type DiskStore struct {
	dir     string
	baseURL string
}

// NewDiskStore ensures dir exists and returns a store rooted there.
func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	return &DiskStore{dir: dir, baseURL: baseURL}, nil
}

// Dir returns the storage root.
func (s *DiskStore) Dir() string {
	return s.dir
}

// Put writes obj to disk. An existing object with the same name is an error.
func (s *DiskStore) Put(ctx context.Context, obj Object) (Descriptor, error) {
	if err := ctx.Err(); err != nil {
		return Descriptor{}, err
	}

	dst := filepath.Join(s.dir, filepath.Base(obj.Pathname))
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return Descriptor{}, fmt.Errorf("create blob: %w", err)
	}

	written, err := io.Copy(f, obj.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dst)
		return Descriptor{}, fmt.Errorf("write blob: %w", err)
	}

	obj.Size = written
	return describe(s.baseURL, obj), nil
}
