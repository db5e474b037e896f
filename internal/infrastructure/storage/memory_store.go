package storage

import (
	"context"
	"errors"
	"strings"
	"sync"

	catalogapp "github.com/storeadmin/backend/internal/application/catalog"
)

var _ catalogapp.ImageStorage = (*MemoryImageStore)(nil)

// Object is a stored blob
type Object struct {
	ContentType string
	Data        []byte
}

// MemoryImageStore keeps images in process memory. It backs development runs
// with storage disabled and serves the objects itself under baseURL.
type MemoryImageStore struct {
	mu      sync.RWMutex
	objects map[string]Object
	baseURL string
}

// NewMemoryImageStore creates a MemoryImageStore whose URLs start with baseURL
func NewMemoryImageStore(baseURL string) *MemoryImageStore {
	return &MemoryImageStore{
		objects: make(map[string]Object),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Put stores a copy of data under key
func (s *MemoryImageStore) Put(_ context.Context, key, contentType string, data []byte) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	buf := make([]byte, len(data))
	copy(buf, data)

	s.mu.Lock()
	s.objects[key] = Object{ContentType: contentType, Data: buf}
	s.mu.Unlock()

	return s.baseURL + "/" + key, nil
}

// Get returns the object stored under key
func (s *MemoryImageStore) Get(key string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj, ok
}

// Delete removes key. Missing keys are not an error.
func (s *MemoryImageStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored objects
func (s *MemoryImageStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
