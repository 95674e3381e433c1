package store

import (
	"context"
	"sync"

	"github.com/formpath/formpath/pkg/schema"
)

// MemoryStore keeps snapshots in process memory. Useful for tests and for
// running the wizard without touching the filesystem.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]snapshot
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]snapshot)}
}

// Save overwrites the snapshot for formID.
func (s *MemoryStore) Save(ctx context.Context, formID string, answers schema.AnswerSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := newSnapshot(answers.Clone())
	s.items[Key(formID)] = snap
	return nil
}

// Load retrieves the snapshot for formID.
func (s *MemoryStore) Load(ctx context.Context, formID string) (schema.AnswerSet, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.items[Key(formID)]
	if !ok {
		return schema.AnswerSet{}, false, nil
	}
	return snap.answerSet().Clone(), true, nil
}

// Clear removes the snapshot for formID.
func (s *MemoryStore) Clear(ctx context.Context, formID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, Key(formID))
	return nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close() error { return nil }

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
