// Package testutil provides shared test doubles and fixtures for backend tests.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"sync"
)

// PNG returns an encoded PNG of the given dimensions for upload tests.
func PNG(width, height int) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		panic(fmt.Sprintf("testutil: encode png: %v", err))
	}
	return buf.Bytes()
}

// TruncatedPNG returns PNG bytes cut off mid-stream: the content type sniffs
// as an image but decoding fails.
func TruncatedPNG() []byte {
	return PNG(10, 10)[:20]
}

// BlobStoreStub is an in-memory blob store implementation for tests.
type BlobStoreStub struct {
	mu      sync.Mutex
	objects map[string][]byte
	Err     error // returned from Upload when set
}

// NewBlobStoreStub creates an in-memory blob store stub for tests.
func NewBlobStoreStub() *BlobStoreStub {
	return &BlobStoreStub{objects: make(map[string][]byte)}
}

// Upload stores the object in memory.
func (s *BlobStoreStub) Upload(_ context.Context, path string, data []byte, _ string) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[path] = data
	return nil
}

// PublicURL returns a deterministic URL for the stored path.
func (s *BlobStoreStub) PublicURL(path string) string {
	return "http://blob.test/" + path
}

// Object returns a stored object and whether it exists.
func (s *BlobStoreStub) Object(path string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[path]
	return data, ok
}

// Paths lists every stored object path.
func (s *BlobStoreStub) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	paths := make([]string, 0, len(s.objects))
	for p := range s.objects {
		paths = append(paths, p)
	}
	return paths
}
