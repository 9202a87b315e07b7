package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/draftboard/internal/model"
	"github.com/mcoot/draftboard/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	storage *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	st, err := New(MemoryPath)
	s.Require().NoError(err)
	s.storage = st
	s.Storage = st
	s.Ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	_ = s.storage.Close()
}

func (s *StorageSuite) TestEmptyPath() {
	_, err := New("  ")
	s.Error(err)
}

func (s *StorageSuite) TestFileDatabaseSurvivesReopen() {
	path := filepath.Join(s.T().TempDir(), "nested", "draft.db")

	first, err := New(path)
	s.Require().NoError(err)
	s.Require().NoError(first.SaveSnapshot(s.Ctx, "league-1", storagetest.Snapshot(5)))
	s.Require().NoError(first.Close())

	second, err := New(path)
	s.Require().NoError(err)
	defer second.Close()

	got, err := second.LoadSnapshot(s.Ctx, "league-1")
	s.Require().NoError(err)
	s.Equal(5, got.CurrentPick)
}

func (s *StorageSuite) TestCorruptSnapshot() {
	_, err := s.storage.db.ExecContext(s.Ctx,
		`INSERT INTO draft_snapshots (session_id, data, saved_at_ms) VALUES (?, ?, ?)`,
		"league-1", "{not json", 0)
	s.Require().NoError(err)

	_, err = s.storage.LoadSnapshot(s.Ctx, "league-1")
	s.ErrorIs(err, model.ErrInvalidSnapshot)
}
