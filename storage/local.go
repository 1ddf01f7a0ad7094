package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// LocalStorage implements Storage on the local filesystem. Uploads are staged
// in a temporary file and promoted with a single rename, so a partially
// written object is never visible to Exists or Download.
type LocalStorage struct {
	basePath string
}

// NewLocal creates a filesystem storage rooted at basePath.
func NewLocal(basePath string) (*LocalStorage, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve base path: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create base directory: %w", err)
	}
	return &LocalStorage{basePath: abs}, nil
}

func (s *LocalStorage) fullPath(key string) string {
	return filepath.Join(s.basePath, filepath.Clean("/"+key))
}

// Upload writes data to a staging file and renames it into place.
func (s *LocalStorage) Upload(_ context.Context, key string, reader io.Reader) error {
	full := s.fullPath(key)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("storage: create directory: %w", err)
	}

	staging := full + ".staging-" + uuid.NewString()
	f, err := os.OpenFile(staging, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("storage: create staging file: %w", err)
	}
	if _, err := io.Copy(f, reader); err != nil {
		f.Close()
		os.Remove(staging)
		return fmt.Errorf("storage: write object: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(staging)
		return fmt.Errorf("storage: close staging file: %w", err)
	}
	if err := os.Rename(staging, full); err != nil {
		os.Remove(staging)
		return fmt.Errorf("storage: commit object: %w", err)
	}
	return nil
}

// Download returns a reader for the object at the given key.
func (s *LocalStorage) Download(_ context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(s.fullPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("storage: object not found: %s", key)
		}
		return nil, fmt.Errorf("storage: open object: %w", err)
	}
	return f, nil
}

// Delete removes the object. Returns nil if it does not exist.
func (s *LocalStorage) Delete(_ context.Context, key string) error {
	if err := os.Remove(s.fullPath(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: delete object: %w", err)
	}
	return nil
}

// Exists checks whether the object exists.
func (s *LocalStorage) Exists(_ context.Context, key string) (bool, error) {
	info, err := os.Stat(s.fullPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("storage: stat object: %w", err)
	}
	return !info.IsDir(), nil
}

// List returns metadata for all objects whose key starts with prefix.
func (s *LocalStorage) List(_ context.Context, prefix string) ([]ObjectInfo, error) {
	var objects []ObjectInfo
	err := filepath.Walk(s.basePath, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		rel, err := filepath.Rel(s.basePath, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}
		objects = append(objects, ObjectInfo{
			Key:          key,
			Size:         info.Size(),
			LastModified: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storage: list objects: %w", err)
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	return objects, nil
}
