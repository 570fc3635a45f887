package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore writes each blob to its own file inside a directory.
type FileStore struct {
	dir string
}

// NewFileStore returns a store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("file storage: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file storage: create %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Get reads the blob stored under key.
func (s *FileStore) Get(_ context.Context, key string) (string, error) {
	name, err := blobFileName(key)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("file storage read %s: %w", key, err)
	}
	return string(data), nil
}

// Put replaces the blob stored under key. The write goes to a temporary file
// in the same directory which is then renamed over the target.
func (s *FileStore) Put(_ context.Context, key, value string) error {
	name, err := blobFileName(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "."+name+".tmp-*")
	if err != nil {
		return fmt.Errorf("file storage create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.WriteString(value); err != nil {
		return fmt.Errorf("file storage write %s: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("file storage sync %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file storage close %s: %w", key, err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("file storage rename %s: %w", key, err)
	}
	return nil
}

// Delete removes the blob stored under key. Missing keys are ignored.
func (s *FileStore) Delete(_ context.Context, key string) error {
	name, err := blobFileName(key)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("file storage delete %s: %w", key, err)
	}
	return nil
}

func blobFileName(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrEmptyKey
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("file storage: invalid key %q", key)
	}
	return key + ".blob", nil
}
