// Package memory provides the in-process history store
package memory

import (
	"context"
	"sync"

	"github.com/shelfie/shelfie/internal/domain/analysis"
	"github.com/shelfie/shelfie/internal/ports/outbound"
)

// HistoryStore keeps bounded per-kind history in memory, newest first
type HistoryStore struct {
	entries map[analysis.HistoryKind][]analysis.HistoryEntry
	mutex   sync.RWMutex
}

// NewHistoryStore creates a new in-memory history store
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{
		entries: make(map[analysis.HistoryKind][]analysis.HistoryEntry),
	}
}

var _ outbound.HistoryStore = (*HistoryStore)(nil)

// Push prepends entry and evicts the oldest entries beyond limit
func (s *HistoryStore) Push(_ context.Context, entry analysis.HistoryEntry, limit int) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	list := append([]analysis.HistoryEntry{entry}, s.entries[entry.Kind]...)
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	s.entries[entry.Kind] = list
	return nil
}

// Recent returns a copy of the entries for kind, newest first
func (s *HistoryStore) Recent(_ context.Context, kind analysis.HistoryKind) ([]analysis.HistoryEntry, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	list := s.entries[kind]
	out := make([]analysis.HistoryEntry, len(list))
	copy(out, list)
	return out, nil
}

// Clear drops all entries
func (s *HistoryStore) Clear(_ context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.entries = make(map[analysis.HistoryKind][]analysis.HistoryEntry)
	return nil
}
