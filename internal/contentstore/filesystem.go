package contentstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemStore keeps blobs under a root directory, one file per key.
// Keys use forward slashes and may not escape the root.
type FilesystemStore struct {
	root string
}

// NewFilesystemStore creates the root directory if needed.
func NewFilesystemStore(root string) (*FilesystemStore, error) {
	if root == "" {
		return nil, fmt.Errorf("content store root cannot be empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create content store root: %w", err)
	}
	return &FilesystemStore{root: root}, nil
}

// Put writes the bytes to a temp file and renames it into place, so a
// reader never observes a partially written object.
func (s *FilesystemStore) Put(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create object directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".put-*")
	if err != nil {
		return fmt.Errorf("create temp object: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close object: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("commit object: %w", err)
	}

	return nil
}

// Exists reports whether an object file is present for the key.
func (s *FilesystemStore) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	path, err := s.resolve(key)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat object: %w", err)
	}

	return true, nil
}

// Delete removes the object file. A missing key is not an error.
func (s *FilesystemStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove object: %w", err)
	}

	return nil
}

// GetStream opens the object file for reading.
func (s *FilesystemStore) GetStream(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%q: %w", key, ErrKeyNotFound)
		}
		return nil, fmt.Errorf("open object: %w", err)
	}

	return f, nil
}

// resolve maps a key to an absolute path under the root, rejecting keys
// that would escape it.
func (s *FilesystemStore) resolve(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("content key cannot be empty")
	}

	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid content key %q", key)
	}

	return filepath.Join(s.root, clean), nil
}
