// Package sqlite stores draft snapshots in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mcoot/draftboard/internal/model"
	"github.com/mcoot/draftboard/internal/storage"
)

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

// Storage is a SQLite-backed implementation of the storage interface
type Storage struct {
	db *sql.DB
}

// New opens (creating if needed) the database at path
func New(path string) (*Storage, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if path != MemoryPath {
		parent := filepath.Dir(path)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// a single connection keeps an in-memory database alive and serializes writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pragmas := []string{`PRAGMA busy_timeout = 5000;`}
	if path != MemoryPath {
		pragmas = append(pragmas, `PRAGMA journal_mode = WAL;`)
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Storage{db: db}, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS draft_snapshots (
    session_id TEXT PRIMARY KEY,
    data TEXT NOT NULL,
    saved_at_ms INTEGER NOT NULL
)`)
	return err
}

// Close closes the database
func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveSnapshot(ctx context.Context, id model.SessionID, snap *model.Snapshot) error {
	data, err := storage.Encode(snap)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO draft_snapshots (session_id, data, saved_at_ms)
VALUES (?, ?, ?)
ON CONFLICT(session_id) DO UPDATE SET
    data = excluded.data,
    saved_at_ms = excluded.saved_at_ms
`, string(id), string(data), snap.SavedAt.UnixMilli())
	return err
}

func (s *Storage) LoadSnapshot(ctx context.Context, id model.SessionID) (*model.Snapshot, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM draft_snapshots WHERE session_id = ?`, string(id),
	).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrSnapshotNotFound
		}
		return nil, err
	}
	return storage.Decode([]byte(data))
}

func (s *Storage) DeleteSnapshot(ctx context.Context, id model.SessionID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM draft_snapshots WHERE session_id = ?`, string(id))
	return err
}

func (s *Storage) Sessions(ctx context.Context) ([]model.SessionID, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT session_id FROM draft_snapshots ORDER BY session_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []model.SessionID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, model.SessionID(id))
	}
	return ids, rows.Err()
}
