// Package autosave persists the draft a short while after it stops changing.
package autosave

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mcoot/draftboard/internal/dependencies/clock"
	"github.com/mcoot/draftboard/internal/model"
)

const (
	// DefaultQuietPeriod is how long the draft must be idle before a save
	DefaultQuietPeriod = 500 * time.Millisecond
	// SaveTimeout bounds a background save
	SaveTimeout = 5 * time.Second
)

// Store persists snapshots for one session. storage.Session satisfies it.
type Store interface {
	Save(ctx context.Context, snap *model.Snapshot) error
}

// SnapshotFunc captures the current state to save
type SnapshotFunc func() *model.Snapshot

// Saver debounces saves triggered by draft events
type Saver struct {
	store    Store
	snapshot SnapshotFunc
	clock    clock.Clock
	quiet    time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	timer   clockwork.Timer
	gen     uint64
	closed  bool
	saveMu  sync.Mutex
	lastErr error
}

// New creates a Saver. A non-positive quiet period uses DefaultQuietPeriod.
func New(store Store, snapshot SnapshotFunc, clk clock.Clock, quiet time.Duration, logger *slog.Logger) *Saver {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &Saver{
		store:    store,
		snapshot: snapshot,
		clock:    clk,
		quiet:    quiet,
		logger:   logger.With(slog.String("component", "autosave")),
	}
}

// HandleEvent schedules a save for events that change persisted state
func (s *Saver) HandleEvent(evt model.Event) {
	if evt.Type == model.EventAutoDraftFallback {
		return
	}
	s.Schedule()
}

// Schedule replaces any pending save with one after the quiet period
func (s *Saver) Schedule() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.timer = s.clock.AfterFunc(s.quiet, func() { s.fire(gen) })
}

// Pending reports whether a save is scheduled
func (s *Saver) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

func (s *Saver) fire(gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.gen {
		// superseded by a later Schedule or Flush
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), SaveTimeout)
	defer cancel()
	if err := s.save(ctx); err != nil {
		s.logger.Error("autosave failed", slog.Any("error", err))
	}
}

// cancelPending stops the timer and invalidates any callback already running
func (s *Saver) cancelPending() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

// Flush saves immediately, cancelling any pending save
func (s *Saver) Flush(ctx context.Context) error {
	s.mu.Lock()
	s.cancelPending()
	s.mu.Unlock()
	return s.save(ctx)
}

// Discard drops any pending save without writing it
func (s *Saver) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelPending()
}

// LastError returns the error from the most recent save, if it failed
func (s *Saver) LastError() error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	return s.lastErr
}

func (s *Saver) save(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	snap := s.snapshot()
	if err := s.store.Save(ctx, snap); err != nil {
		s.lastErr = fmt.Errorf("%w: %w", model.ErrPersistenceFailure, err)
		return s.lastErr
	}
	s.lastErr = nil
	s.logger.Debug("draft saved",
		slog.Int("current_pick", snap.CurrentPick),
		slog.Int("players", len(snap.Players)),
	)
	return nil
}

// Close saves any pending change and stops further saves
func (s *Saver) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	pending := s.timer != nil
	s.cancelPending()
	s.closed = true
	s.mu.Unlock()

	if !pending {
		return nil
	}
	return s.save(ctx)
}
