// Package docstore provides an in-memory slot store.
// Used by tests and by the browser build when localStorage is unavailable.
package docstore

import (
	"sync"
)

// Store holds slot values in memory.
// Thread-safe for concurrent access from WASM callbacks.
type Store struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// Document is one stored slot value.
type Document struct {
	Key     string
	Value   string
	Version int64 // bumped on every write, for change detection
}

// New creates an empty document store.
func New() *Store {
	return &Store{
		docs: make(map[string]*Document),
	}
}

// Get returns the value for key. ok is false when the key was never set.
func (s *Store) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if doc, ok := s.docs[key]; ok {
		return doc.Value, true, nil
	}
	return "", false, nil
}

// Set replaces the value for key.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var version int64 = 1
	if prev, ok := s.docs[key]; ok {
		version = prev.Version + 1
	}
	s.docs[key] = &Document{
		Key:     key,
		Value:   value,
		Version: version,
	}
	return nil
}

// Delete removes key.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.docs, key)
	return nil
}

// Version returns the write counter for key, 0 if absent.
func (s *Store) Version(key string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if doc, ok := s.docs[key]; ok {
		return doc.Version
	}
	return 0
}
