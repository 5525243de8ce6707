package payload

import (
	"fmt"
	"slices"
	"sync"
)

// Store holds the bundle of every page.
type Store struct {
	mu      sync.RWMutex
	bundles map[string]Bundle
}

func NewStore(bundles map[string]Bundle) *Store {
	if bundles == nil {
		bundles = make(map[string]Bundle)
	}
	return &Store{bundles: bundles}
}

// Bundle returns the document of page.
func (s *Store) Bundle(page string) (Bundle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bundles[page]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPage, page)
	}
	return b, nil
}

// Put replaces the document of page.
func (s *Store) Put(page string, b Bundle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bundles[page] = b
}

// Replace swaps every document at once.
func (s *Store) Replace(bundles map[string]Bundle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bundles = bundles
}

// Pages lists the pages that have a document, sorted.
func (s *Store) Pages() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pages := make([]string, 0, len(s.bundles))
	for p := range s.bundles {
		pages = append(pages, p)
	}
	slices.Sort(pages)
	return pages
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bundles)
}
