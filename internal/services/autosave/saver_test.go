package autosave_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/draftboard/internal/dependencies/mocks"
	"github.com/mcoot/draftboard/internal/model"
	"github.com/mcoot/draftboard/internal/services/autosave"
	"github.com/mcoot/draftboard/internal/testutil"
)

type recordingStore struct {
	mu    sync.Mutex
	saves []*model.Snapshot
	err   error
	saved chan struct{}
}

func newRecordingStore() *recordingStore {
	return &recordingStore{saved: make(chan struct{}, 16)}
}

func (r *recordingStore) Save(_ context.Context, snap *model.Snapshot) error {
	r.mu.Lock()
	defer func() {
		r.mu.Unlock()
		r.saved <- struct{}{}
	}()
	if r.err != nil {
		return r.err
	}
	r.saves = append(r.saves, snap)
	return nil
}

func (r *recordingStore) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saves)
}

func (r *recordingStore) last() *model.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves[len(r.saves)-1]
}

type SaverSuite struct {
	suite.Suite
	clock *clockwork.FakeClock
	store *recordingStore
	pick  int
	saver *autosave.Saver
	ctx   context.Context
}

func TestSaverSuite(t *testing.T) {
	suite.Run(t, new(SaverSuite))
}

func (s *SaverSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2026, 8, 30, 19, 0, 0, 0, time.UTC))
	s.store = newRecordingStore()
	s.pick = 1
	s.ctx = context.Background()
	s.saver = autosave.New(s.store, func() *model.Snapshot {
		return &model.Snapshot{Version: model.SnapshotVersion, CurrentPick: s.pick}
	}, s.clock, 0, testutil.NopLogger())
}

func (s *SaverSuite) awaitTimer() {
	ctx, cancel := context.WithTimeout(s.ctx, time.Second)
	defer cancel()
	s.Require().NoError(s.clock.BlockUntilContext(ctx, 1))
}

func (s *SaverSuite) awaitSave() {
	select {
	case <-s.store.saved:
	case <-time.After(time.Second):
		s.FailNow("timed out waiting for save")
	}
}

func (s *SaverSuite) TestSavesAfterQuietPeriod() {
	s.saver.HandleEvent(model.Event{Type: model.EventPlayerDrafted})
	s.awaitTimer()
	s.True(s.saver.Pending())

	s.clock.Advance(autosave.DefaultQuietPeriod - time.Millisecond)
	s.Equal(0, s.store.count())

	s.clock.Advance(time.Millisecond)
	s.awaitSave()
	s.Equal(1, s.store.count())
	s.False(s.saver.Pending())
}

func (s *SaverSuite) TestDebouncesBursts() {
	for range 5 {
		s.saver.HandleEvent(model.Event{Type: model.EventPlayerDrafted})
		s.clock.Advance(100 * time.Millisecond)
	}
	s.pick = 6
	s.awaitTimer()
	s.Equal(0, s.store.count())

	s.clock.Advance(autosave.DefaultQuietPeriod)
	s.awaitSave()
	s.Equal(1, s.store.count())
	s.Equal(6, s.store.last().CurrentPick)
}

func (s *SaverSuite) TestIgnoresFallbackEvents() {
	s.saver.HandleEvent(model.Event{Type: model.EventAutoDraftFallback})
	s.False(s.saver.Pending())
}

func (s *SaverSuite) TestFlushSavesImmediately() {
	s.saver.Schedule()
	s.Require().NoError(s.saver.Flush(s.ctx))
	s.awaitSave()
	s.Equal(1, s.store.count())
	s.False(s.saver.Pending())

	// the cancelled timer never saves again
	s.clock.Advance(time.Second)
	s.Never(func() bool { return s.store.count() > 1 }, 50*time.Millisecond, 10*time.Millisecond)
}

func (s *SaverSuite) TestDiscardDropsPendingSave() {
	s.saver.Schedule()
	s.awaitTimer()
	s.saver.Discard()
	s.False(s.saver.Pending())

	s.clock.Advance(autosave.DefaultQuietPeriod)
	s.Never(func() bool { return s.store.count() > 0 }, 50*time.Millisecond, 10*time.Millisecond)
}

func (s *SaverSuite) TestFailureIsLoggedNotPropagated() {
	s.store.err = errors.New("disk full")
	s.saver.Schedule()
	s.awaitTimer()
	s.clock.Advance(autosave.DefaultQuietPeriod)
	s.awaitSave()

	s.Eventually(func() bool {
		return errors.Is(s.saver.LastError(), model.ErrPersistenceFailure)
	}, time.Second, 5*time.Millisecond)

	err := s.saver.Flush(s.ctx)
	s.ErrorIs(err, model.ErrPersistenceFailure)
}

func (s *SaverSuite) TestCloseFlushesPendingSave() {
	s.saver.Schedule()
	s.Require().NoError(s.saver.Close(s.ctx))
	s.awaitSave()
	s.Equal(1, s.store.count())

	// closed savers ignore further events
	s.saver.HandleEvent(model.Event{Type: model.EventPlayerDrafted})
	s.False(s.saver.Pending())
	s.NoError(s.saver.Close(s.ctx))
}

func (s *SaverSuite) TestCloseWithoutPendingSaveDoesNothing() {
	s.Require().NoError(s.saver.Close(s.ctx))
	s.Equal(0, s.store.count())
}
