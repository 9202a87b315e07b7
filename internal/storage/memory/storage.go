package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/mcoot/draftboard/internal/model"
	"github.com/mcoot/draftboard/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	// encoded so callers never share snapshot memory with the store
	snapshots map[model.SessionID][]byte
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		snapshots: make(map[model.SessionID][]byte),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveSnapshot(_ context.Context, id model.SessionID, snap *model.Snapshot) error {
	data, err := storage.Encode(snap)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[id] = data
	return nil
}

func (s *Storage) LoadSnapshot(_ context.Context, id model.SessionID) (*model.Snapshot, error) {
	s.mu.RLock()
	data, ok := s.snapshots[id]
	s.mu.RUnlock()

	if !ok {
		return nil, model.ErrSnapshotNotFound
	}
	return storage.Decode(data)
}

func (s *Storage) DeleteSnapshot(_ context.Context, id model.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, id)
	return nil
}

func (s *Storage) Sessions(_ context.Context) ([]model.SessionID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]model.SessionID, 0, len(s.snapshots))
	for id := range s.snapshots {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func (s *Storage) Close() error {
	return nil
}
