package flowstore

import "sync"

// InMemory is a thread-safe in-memory implementation of the Store interface
type InMemory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewInMemory creates a new in-memory flow state store
func NewInMemory() *InMemory {
	return &InMemory{
		values: make(map[string]string),
	}
}

// Set stores or replaces a value
func (s *InMemory) Set(key, value string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
}

// Get retrieves a value by key
func (s *InMemory) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	return value, ok
}

// Delete removes a value
func (s *InMemory) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
}

// Clear removes every stored value
func (s *InMemory) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values = make(map[string]string)
}
