// Package credentials holds the process-wide bearer token written by the
// login/logout flow and read by the resource client on every call.
package credentials

import (
	"strings"
	"sync"
)

// Store is the credential store contract. Token is read fresh on every call;
// implementations must never hand out a stale copy after Set or Clear.
type Store interface {
	Token() (string, bool)
	Set(token string) error
	Clear() error
	Subscribe(fn func(token string)) (unsubscribe func())
}

// MemoryStore keeps the token in process memory.
type MemoryStore struct {
	mu        sync.RWMutex
	token     string
	listeners map[int]func(string)
	nextID    int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{listeners: make(map[int]func(string))}
}

func (s *MemoryStore) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

func (s *MemoryStore) Set(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errEmptyToken
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	s.notify(token)
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	s.notify("")
	return nil
}

// Subscribe registers fn to be called after every Set or Clear.
func (s *MemoryStore) Subscribe(fn func(token string)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *MemoryStore) notify(token string) {
	s.mu.RLock()
	fns := make([]func(string), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(token)
	}
}
