// Package memory keeps a reason catalog in process memory for development and tests.
package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/JakeFAU/notfound-service/internal/reasons"
)

// Source serves entries held in memory.
type Source struct {
	mu      sync.RWMutex
	entries []reasons.Entry
	present bool
	fetches atomic.Int64
}

// New creates a Source holding entries. With no entries the source reports itself missing
// until Put is called.
func New(entries ...reasons.Entry) *Source {
	s := &Source{}
	if len(entries) > 0 {
		s.Put(entries)
	}
	return s
}

// Put replaces the stored entries. The slice is copied.
func (s *Source) Put(entries []reasons.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append([]reasons.Entry(nil), entries...)
	s.present = true
}

// Delete makes the source report itself missing.
func (s *Source) Delete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.present = false
}

// Fetch returns a copy of the stored entries.
func (s *Source) Fetch(_ context.Context) ([]reasons.Entry, error) {
	s.fetches.Add(1)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.present {
		return nil, fmt.Errorf("%w: %s", reasons.ErrSourceNotFound, s.Location())
	}
	return append([]reasons.Entry(nil), s.entries...), nil
}

// Fetches reports how many times Fetch was called.
func (s *Source) Fetches() int64 {
	return s.fetches.Load()
}

// Location implements reasons.Source.
func (s *Source) Location() string {
	return "memory://"
}

// Close implements io.Closer.
func (s *Source) Close() error {
	return nil
}
