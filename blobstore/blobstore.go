package blobstore

import (
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
)

// URLPrefix is the path under which stored blobs are served
const URLPrefix = "/blobs/"

// Blob holds one stored byte payload and its content type
type Blob struct {
	Data        []byte
	ContentType string
}

// Store maps encoded bytes to dereferenceable URLs. Blobs live until they
// are released or the process exits; callers own the lifetime of what they
// put in. Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	blobs map[string]Blob
}

// New creates an empty store
func New() *Store {
	return &Store{blobs: make(map[string]Blob)}
}

// Put stores the bytes and returns a URL of the form /blobs/<ulid>
func (s *Store) Put(data []byte, contentType string) string {
	id := ulid.Make().String()

	s.mu.Lock()
	s.blobs[id] = Blob{Data: data, ContentType: contentType}
	s.mu.Unlock()

	return URLPrefix + id
}

// Get dereferences a blob by its id or full URL
func (s *Store) Get(ref string) (Blob, bool) {
	id := strings.TrimPrefix(ref, URLPrefix)

	s.mu.RLock()
	blob, ok := s.blobs[id]
	s.mu.RUnlock()
	return blob, ok
}

// Release frees the blob behind an id or URL, reporting whether it existed
func (s *Store) Release(ref string) bool {
	id := strings.TrimPrefix(ref, URLPrefix)

	s.mu.Lock()
	_, ok := s.blobs[id]
	delete(s.blobs, id)
	s.mu.Unlock()
	return ok
}

// Len returns the number of stored blobs
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
