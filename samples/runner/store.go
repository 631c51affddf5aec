package runner

import (
	"sync"

	"gitlab.com/akita/simcmp/comparison"
)

// Store keeps the results of finished runs in completion order.
type Store struct {
	mu      sync.RWMutex
	order   []string
	results map[string]*comparison.Result
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		results: make(map[string]*comparison.Result),
	}
}

// Add records a result. A result with a known run ID replaces the old one.
func (s *Store) Add(r *comparison.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.results[r.RunID]; !found {
		s.order = append(s.order, r.RunID)
	}
	s.results[r.RunID] = r
}

// Get returns the result with the run ID.
func (s *Store) Get(id string) (*comparison.Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, found := s.results[id]
	return r, found
}

// List returns all results.
func (s *Store) List() []*comparison.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*comparison.Result, len(s.order))
	for i, id := range s.order {
		list[i] = s.results[id]
	}
	return list
}
