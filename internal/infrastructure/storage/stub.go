package storage

import (
	"context"
	"errors"
	"strings"
	"sync"

	memorycardapp "github.com/memoriascard/backend/internal/application/memorycard"
)

// Ensure StubPhotoStorage implements PhotoStorage
var _ memorycardapp.PhotoStorage = (*StubPhotoStorage)(nil)

// StubPhotoStorage keeps uploads in memory.
// Use this for development and tests when no bucket is configured.
type StubPhotoStorage struct {
	// BaseURL prefixes public URLs.
	// Defaults to "https://storage.example.com" if not set
	BaseURL string

	mu      sync.RWMutex
	objects map[string]StubObject
}

// StubObject is an upload kept by StubPhotoStorage
type StubObject struct {
	Data        []byte
	ContentType string
}

// NewStubPhotoStorage creates a new StubPhotoStorage
func NewStubPhotoStorage() *StubPhotoStorage {
	return &StubPhotoStorage{
		BaseURL: "https://storage.example.com",
		objects: make(map[string]StubObject),
	}
}

// Upload keeps data under key
func (s *StubPhotoStorage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.objects[key]; exists {
		return errors.New("object already exists")
	}
	s.objects[key] = StubObject{Data: append([]byte(nil), data...), ContentType: contentType}
	return nil
}

// PublicURL returns BaseURL joined with key
func (s *StubPhotoStorage) PublicURL(key string) string {
	return strings.TrimRight(s.BaseURL, "/") + "/" + key
}

// Delete drops the object; deleting a missing key succeeds
func (s *StubPhotoStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// Object returns the upload stored under key
func (s *StubPhotoStorage) Object(key string) (StubObject, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj, ok
}

// Len returns the number of stored objects
func (s *StubPhotoStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
