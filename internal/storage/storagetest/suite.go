// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/draftboard/internal/model"
	"github.com/mcoot/draftboard/internal/storage"
)

// Suite runs the shared storage tests.
// Backends embed it and set Storage and Ctx in SetupTest.
type Suite struct {
	suite.Suite
	Storage storage.Storage
	Ctx     context.Context
}

// Snapshot builds a small snapshot with one drafted player and one keeper
func Snapshot(currentPick int) *model.Snapshot {
	settings := model.Settings{
		NumTeams:   2,
		DraftStyle: model.DraftStyleSnake,
		Roster: model.RosterSettings{
			{Position: model.PositionQB, Count: 1},
			{Position: model.PositionBENCH, Count: 1},
		},
		AutoDraftSpeed: model.SpeedFast,
	}.Normalize()

	drafted := model.Player{ID: "p1", Name: "Alpha", Position: model.PositionQB, Team: "KC", Rank: 1, Tier: model.IntPtr(1)}
	drafted.Assign(model.StatusDrafted, 1, 1, 1, settings.TeamName(1))
	keeper := model.Player{ID: "p2", Name: "Bravo", Position: model.PositionQB, Team: "BUF", Rank: 2}
	keeper.Assign(model.StatusKeeper, 2, 1, 2, settings.TeamName(2))
	flagged := model.Player{ID: "p3", Name: "Charlie", Position: model.PositionQB, Team: "CIN", Rank: 3, Status: model.StatusAvailable, IsWatched: true}

	return &model.Snapshot{
		Version:     model.SnapshotVersion,
		SavedAt:     time.Date(2026, 8, 30, 19, 0, 0, 0, time.UTC),
		Settings:    settings,
		CurrentPick: currentPick,
		AutoDraft:   model.AutoDraftState{Enabled: true, Continuous: true},
		Players:     []model.Player{drafted, keeper, flagged},
	}
}

func (s *Suite) TestSaveAndLoadSnapshot() {
	want := Snapshot(3)
	s.Require().NoError(s.Storage.SaveSnapshot(s.Ctx, "league-1", want))

	got, err := s.Storage.LoadSnapshot(s.Ctx, "league-1")
	s.Require().NoError(err)
	s.True(want.SavedAt.Equal(got.SavedAt))
	got.SavedAt = want.SavedAt
	s.Equal(want, got)
}

func (s *Suite) TestLoadSnapshotNotFound() {
	_, err := s.Storage.LoadSnapshot(s.Ctx, "missing")
	s.ErrorIs(err, model.ErrSnapshotNotFound)
}

func (s *Suite) TestSaveSnapshotOverwrites() {
	s.Require().NoError(s.Storage.SaveSnapshot(s.Ctx, "league-1", Snapshot(3)))
	s.Require().NoError(s.Storage.SaveSnapshot(s.Ctx, "league-1", Snapshot(4)))

	got, err := s.Storage.LoadSnapshot(s.Ctx, "league-1")
	s.Require().NoError(err)
	s.Equal(4, got.CurrentPick)
}

func (s *Suite) TestSavedSnapshotIsCopied() {
	snap := Snapshot(3)
	s.Require().NoError(s.Storage.SaveSnapshot(s.Ctx, "league-1", snap))
	snap.Players[0].Name = "changed"
	*snap.Players[0].Tier = 9

	got, err := s.Storage.LoadSnapshot(s.Ctx, "league-1")
	s.Require().NoError(err)
	s.Equal("Alpha", got.Players[0].Name)
	s.Equal(1, got.Players[0].TierValue())
}

func (s *Suite) TestSaveNilSnapshot() {
	err := s.Storage.SaveSnapshot(s.Ctx, "league-1", nil)
	s.ErrorIs(err, model.ErrInvalidSnapshot)
}

func (s *Suite) TestDeleteSnapshot() {
	s.Require().NoError(s.Storage.SaveSnapshot(s.Ctx, "league-1", Snapshot(3)))
	s.Require().NoError(s.Storage.DeleteSnapshot(s.Ctx, "league-1"))

	_, err := s.Storage.LoadSnapshot(s.Ctx, "league-1")
	s.ErrorIs(err, model.ErrSnapshotNotFound)

	// deleting again is not an error
	s.NoError(s.Storage.DeleteSnapshot(s.Ctx, "league-1"))
}

func (s *Suite) TestSessions() {
	ids, err := s.Storage.Sessions(s.Ctx)
	s.Require().NoError(err)
	s.Empty(ids)

	for _, id := range []model.SessionID{"b", "a", "c"} {
		s.Require().NoError(s.Storage.SaveSnapshot(s.Ctx, id, Snapshot(3)))
	}
	s.Require().NoError(s.Storage.DeleteSnapshot(s.Ctx, "c"))

	ids, err = s.Storage.Sessions(s.Ctx)
	s.Require().NoError(err)
	s.Equal([]model.SessionID{"a", "b"}, ids)
}

func (s *Suite) TestSessionBinding() {
	sess := storage.ForSession(s.Storage, "league-2")
	s.Equal(model.SessionID("league-2"), sess.ID())

	_, err := sess.Load(s.Ctx)
	s.ErrorIs(err, model.ErrSnapshotNotFound)

	s.Require().NoError(sess.Save(s.Ctx, Snapshot(3)))
	got, err := sess.Load(s.Ctx)
	s.Require().NoError(err)
	s.Equal(3, got.CurrentPick)

	s.Require().NoError(sess.Clear(s.Ctx))
	_, err = sess.Load(s.Ctx)
	s.ErrorIs(err, model.ErrSnapshotNotFound)
}
