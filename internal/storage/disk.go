package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// DiskStore writes files into a directory that the HTTP server exposes under publicPath.
type DiskStore struct {
	dir        string
	publicPath string
}

func NewDiskStore(dir, publicPath string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	if publicPath == "" {
		publicPath = "/uploads"
	}
	return &DiskStore{dir: dir, publicPath: "/" + strings.Trim(publicPath, "/")}, nil
}

func (s *DiskStore) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", ErrInvalidFile
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return path.Join(s.publicPath, name), nil
}

// Delete removes a file previously returned by Save. Unknown URLs are ignored.
func (s *DiskStore) Delete(ctx context.Context, url string) error {
	name, ok := strings.CutPrefix(url, s.publicPath+"/")
	if !ok || name != filepath.Base(name) {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
