package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStorage implements Storage in memory. It stands in for an external
// system of record in tests, e.g. when exercising store-backed completion
// checks without a real index.
type MemoryStorage struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	// failing simulates an unreachable backend when true.
	failing bool
}

type memoryObject struct {
	data     []byte
	modified time.Time
}

// NewMemory creates an empty in-memory storage.
func NewMemory() *MemoryStorage {
	return &MemoryStorage{objects: make(map[string]memoryObject)}
}

// SetFailing toggles simulated backend unavailability: every operation
// returns an error while enabled.
func (s *MemoryStorage) SetFailing(failing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing = failing
}

func (s *MemoryStorage) errIfFailing() error {
	if s.failing {
		return fmt.Errorf("storage: backend unavailable")
	}
	return nil
}

// Upload stores the full content under the key.
func (s *MemoryStorage) Upload(_ context.Context, key string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("storage: read upload: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errIfFailing(); err != nil {
		return err
	}
	s.objects[key] = memoryObject{data: data, modified: time.Now()}
	return nil
}

// Download returns a reader over the stored content.
func (s *MemoryStorage) Download(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.errIfFailing(); err != nil {
		return nil, err
	}
	obj, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("storage: object not found: %s", key)
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

// Delete removes the object. Returns nil if it does not exist.
func (s *MemoryStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errIfFailing(); err != nil {
		return err
	}
	delete(s.objects, key)
	return nil
}

// Exists checks whether the object exists.
func (s *MemoryStorage) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.errIfFailing(); err != nil {
		return false, err
	}
	_, ok := s.objects[key]
	return ok, nil
}

// List returns metadata for all objects whose key starts with prefix.
func (s *MemoryStorage) List(_ context.Context, prefix string) ([]ObjectInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.errIfFailing(); err != nil {
		return nil, err
	}
	var objects []ObjectInfo
	for key, obj := range s.objects {
		if strings.HasPrefix(key, prefix) {
			objects = append(objects, ObjectInfo{
				Key:          key,
				Size:         int64(len(obj.data)),
				LastModified: obj.modified,
			})
		}
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	return objects, nil
}
