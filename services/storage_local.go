package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage implements FileStorage on the local filesystem, rooted at a
// single upload directory. Used in development and as the default backend.
type LocalStorage struct {
	root string
}

// NewLocalStorage creates a local-disk backend rooted at dir
func NewLocalStorage(dir string) *LocalStorage {
	return &LocalStorage{root: dir}
}

// path resolves key inside the root, rejecting traversal outside it.
func (l *LocalStorage) path(key string) (string, error) {
	cleaned := filepath.Clean("/" + key)
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(l.root, cleaned), nil
}

// Write stores the content under root/key, creating parent directories.
// The file is synced before returning so a confirmed write is durable.
func (l *LocalStorage) Write(key string, r io.Reader) (err error) {
	fullPath, err := l.path(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer func() {
		if closeErr := dst.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close destination file: %w", closeErr)
		}
	}()

	if _, err := io.Copy(dst, r); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}

	if err := dst.Sync(); err != nil {
		return fmt.Errorf("failed to sync file: %w", err)
	}

	return nil
}

// Delete removes the file under key. A missing file is not an error.
func (l *LocalStorage) Delete(key string) error {
	fullPath, err := l.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// URL returns the serving path handled by the uploads controller.
func (l *LocalStorage) URL(key string) (string, error) {
	if key == "" {
		return "", nil
	}
	return "/api/v1/uploads/" + key, nil
}

// FullPath exposes the absolute path for a key, used by the uploads
// controller to serve local files.
func (l *LocalStorage) FullPath(key string) (string, error) {
	return l.path(key)
}
