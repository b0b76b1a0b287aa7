// Package session keeps completed pipeline sessions in memory so the
// API can serve them without a database round trip. Postgres remains
// the durable copy.
package session

import (
	"sort"
	"sync"

	"github.com/arnav/rapidreach/internal/types"
)

// Record pairs the durable session row with the deck artifact, which is
// never persisted.
type Record struct {
	Result *types.SDRResult
	Deck   *types.Deck
}

// Store is a concurrency-safe in-memory session map.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Record
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Record)}
}

// Put stores or replaces a session record.
func (s *Store) Put(sessionID string, rec *Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = rec
}

// Get returns the record for sessionID, or nil if unknown.
func (s *Store) Get(sessionID string) *Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[sessionID]
}

// List returns all records, newest first.
func (s *Store) List() []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*Record, 0, len(s.sessions))
	for _, rec := range s.sessions {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Result.CreatedAt.After(records[j].Result.CreatedAt)
	})
	return records
}

// Len reports how many sessions are held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
