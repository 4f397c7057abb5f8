package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	shared "github.com/Esteb4ncd/solace-server/pkg"
)

var (
	// ErrNotFound is returned when an object does not exist.
	ErrNotFound = errors.New("object not found")
	// ErrInvalidPath is returned for bucket/object names that leave Root.
	ErrInvalidPath = errors.New("path escapes store root")
)

// DirStore is a BlobStore backed by a local directory. Buckets map to
// subdirectories of Root. Names that resolve outside Root are rejected.
type DirStore struct {
	Root string
}

var _ shared.BlobStore = (*DirStore)(nil)

func (d *DirStore) path(bucket, object string) (string, error) {
	rel := filepath.Join(bucket, filepath.FromSlash(object))
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%s/%s: %w", bucket, object, ErrInvalidPath)
	}
	return filepath.Join(d.Root, rel), nil
}

func (d *DirStore) Write(_ context.Context, bucket, object string, data []byte) error {
	p, err := d.path(bucket, object)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(p), err)
	}
	return os.WriteFile(p, data, 0644)
}

func (d *DirStore) Read(_ context.Context, bucket, object string) ([]byte, error) {
	p, err := d.path(bucket, object)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s/%s: %w", bucket, object, ErrNotFound)
	}
	return data, err
}
