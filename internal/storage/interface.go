package storage

import (
	"context"

	"github.com/mcoot/draftboard/internal/model"
)

// Storage defines the interface for draft snapshot persistence. Snapshots
// are keyed by session id and stored as JSON by every backend.
type Storage interface {
	SaveSnapshot(ctx context.Context, id model.SessionID, snap *model.Snapshot) error
	// LoadSnapshot returns model.ErrSnapshotNotFound when nothing is stored
	LoadSnapshot(ctx context.Context, id model.SessionID) (*model.Snapshot, error)
	DeleteSnapshot(ctx context.Context, id model.SessionID) error
	// Sessions lists stored session ids in ascending order
	Sessions(ctx context.Context) ([]model.SessionID, error)

	Close() error
}

// Session binds a Storage to one session id
type Session struct {
	store Storage
	id    model.SessionID
}

// ForSession returns a Session for id
func ForSession(store Storage, id model.SessionID) *Session {
	return &Session{store: store, id: id}
}

// ID returns the bound session id
func (s *Session) ID() model.SessionID {
	return s.id
}

// Save persists snap for the session
func (s *Session) Save(ctx context.Context, snap *model.Snapshot) error {
	return s.store.SaveSnapshot(ctx, s.id, snap)
}

// Load reads the session's snapshot
func (s *Session) Load(ctx context.Context) (*model.Snapshot, error) {
	return s.store.LoadSnapshot(ctx, s.id)
}

// Clear removes the session's snapshot
func (s *Session) Clear(ctx context.Context) error {
	return s.store.DeleteSnapshot(ctx, s.id)
}
