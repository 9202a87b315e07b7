// Package draft owns the player store and every operation that changes it.
//
// The Engine is the single writer for a draft session. Draft, undo, restart,
// keeper and settings operations are serialized by one mutex, and listeners
// are notified after the mutex is released.
package draft

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/mcoot/draftboard/internal/dependencies/clock"
	"github.com/mcoot/draftboard/internal/model"
	"github.com/mcoot/draftboard/internal/services/schedule"
)

// Listener receives events after each committed change. Listeners run on the
// goroutine that made the change and must not block.
type Listener func(model.Event)

// Engine is the draft state machine for a single session
type Engine struct {
	mu          sync.Mutex
	settings    model.Settings
	schedule    schedule.Schedule
	store       *store
	currentPick int

	clock  clock.Clock
	logger *slog.Logger

	listenersMu sync.RWMutex
	listeners   []Listener
}

// New creates an Engine with no players
func New(settings model.Settings, clk clock.Clock, logger *slog.Logger) (*Engine, error) {
	settings = settings.Normalize()
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	st, err := newStore(nil)
	if err != nil {
		return nil, err
	}
	return &Engine{
		settings:    settings,
		schedule:    schedule.FromSettings(settings),
		store:       st,
		currentPick: 1,
		clock:       clk,
		logger:      logger.With(slog.String("component", "draft-engine")),
	}, nil
}

// Subscribe registers a listener for committed changes
func (e *Engine) Subscribe(fn Listener) {
	e.listenersMu.Lock()
	defer e.listenersMu.Unlock()
	e.listeners = append(e.listeners, fn)
}

func (e *Engine) publish(events []model.Event) {
	e.listenersMu.RLock()
	listeners := append([]Listener(nil), e.listeners...)
	e.listenersMu.RUnlock()

	for _, evt := range events {
		for _, fn := range listeners {
			fn(evt)
		}
	}
}

// mutate runs fn under the engine lock and publishes the events it returns
// once the lock is released
func (e *Engine) mutate(fn func() ([]model.Event, error)) error {
	e.mu.Lock()
	events, err := fn()
	e.mu.Unlock()
	if err != nil {
		return err
	}
	e.publish(events)
	return nil
}

func (e *Engine) event(t model.EventType, id model.PlayerID, payload any) model.Event {
	return model.Event{
		Type:        t,
		Timestamp:   e.clock.Now(),
		CurrentPick: e.currentPick,
		PlayerID:    id,
		Payload:     payload,
	}
}

// nextFree returns the first pick at or after from that no player holds
func (e *Engine) nextFree(from int) int {
	used := e.store.usedPicks()
	pick := max(from, 1)
	for {
		if _, ok := used[pick]; !ok {
			return pick
		}
		pick++
	}
}

func (e *Engine) isComplete() bool {
	taken := e.store.count(model.StatusDrafted) + e.store.count(model.StatusKeeper)
	return taken >= e.settings.Capacity() ||
		e.store.count(model.StatusAvailable) == 0 ||
		e.currentPick > e.settings.Capacity()
}

// completionEvents returns a draft complete event when the last pick was just made
func (e *Engine) completionEvents(wasComplete bool) []model.Event {
	if wasComplete || !e.isComplete() {
		return nil
	}
	e.logger.Info("draft complete", slog.Int("picks", e.currentPick-1))
	return []model.Event{e.event(model.EventDraftComplete, "", nil)}
}

// DraftPlayer assigns an available player to the team on the clock and
// advances the cursor past any keeper-reserved picks
func (e *Engine) DraftPlayer(id model.PlayerID) (model.Player, error) {
	return e.draft(id, 0, model.OriginManual)
}

// DraftPlayerAt drafts like DraftPlayer, but only if the cursor is still at
// expectedPick. The orchestrator uses it to commit the pick it evaluated.
func (e *Engine) DraftPlayerAt(id model.PlayerID, expectedPick int, origin model.PickOrigin) (model.Player, error) {
	return e.draft(id, expectedPick, origin)
}

func (e *Engine) draft(id model.PlayerID, expectedPick int, origin model.PickOrigin) (model.Player, error) {
	var result model.Player
	err := e.mutate(func() ([]model.Event, error) {
		if expectedPick > 0 && expectedPick != e.currentPick {
			return nil, fmt.Errorf("%w: expected pick %d, cursor at %d", model.ErrStalePick, expectedPick, e.currentPick)
		}

		p, err := e.store.get(id)
		if err != nil {
			return nil, err
		}
		if !p.IsAvailable() {
			return nil, fmt.Errorf("%w: %s is %s", model.ErrNotAvailable, p.Name, p.Status)
		}

		cur := e.currentPick
		if cur > e.settings.Capacity() {
			return nil, model.ErrDraftComplete
		}
		if holder, ok := e.store.reservedPicks()[cur]; ok && holder != id {
			return nil, fmt.Errorf("%w: pick %d", model.ErrPickReserved, cur)
		}

		wasComplete := e.isComplete()
		teamID := e.schedule.TeamAt(cur)
		p.Assign(model.StatusDrafted, cur, e.schedule.RoundOf(cur), teamID, e.settings.TeamName(teamID))
		e.currentPick = e.nextFree(cur + 1)
		result = p.Clone()

		e.logger.Info("player drafted",
			slog.String("player_id", string(p.ID)),
			slog.String("player_name", p.Name),
			slog.Int("pick", cur),
			slog.Int("team_id", teamID),
			slog.String("origin", string(origin)),
		)

		events := []model.Event{e.event(model.EventPlayerDrafted, p.ID, model.PickPayloadFor(result, origin))}
		return append(events, e.completionEvents(wasComplete)...), nil
	})
	return result, err
}

// UndoLastDraft reverts the most recent non-keeper pick and moves the cursor
// back to it. It returns nil when nothing has been drafted.
func (e *Engine) UndoLastDraft() (*model.Player, error) {
	var undone *model.Player
	err := e.mutate(func() ([]model.Event, error) {
		last := e.store.lastDrafted()
		if last == nil {
			return nil, nil
		}
		if last.Status == model.StatusKeeper {
			return nil, model.ErrCannotUndoKeeper
		}

		payload := model.PickPayloadFor(*last, "")
		vacated := last.PickNumber
		last.Release()
		e.currentPick = vacated

		cp := last.Clone()
		undone = &cp

		e.logger.Info("draft undone",
			slog.String("player_id", string(last.ID)),
			slog.Int("pick", vacated),
		)
		return []model.Event{e.event(model.EventDraftUndone, last.ID, payload)}, nil
	})
	return undone, err
}

// RestartDraft returns every drafted player to the pool. Keepers stay.
func (e *Engine) RestartDraft() error {
	return e.mutate(func() ([]model.Event, error) {
		released := 0
		e.store.each(func(p *model.Player) {
			if p.Status == model.StatusDrafted {
				p.Release()
				released++
			}
		})
		e.currentPick = e.nextFree(1)

		e.logger.Info("draft restarted", slog.Int("released", released))
		return []model.Event{e.event(model.EventDraftRestarted, "", model.ImportPayload{PlayerCount: released})}, nil
	})
}

// NewDraft clears every pick, keeper and flag and resets the cursor to 1
func (e *Engine) NewDraft() error {
	return e.mutate(func() ([]model.Event, error) {
		e.store.each(func(p *model.Player) {
			p.Release()
			p.IsWatched = false
			p.IsAvoided = false
		})
		e.currentPick = 1

		e.logger.Info("new draft started", slog.Int("players", e.store.len()))
		return []model.Event{e.event(model.EventDraftReset, "", model.ImportPayload{PlayerCount: e.store.len()})}, nil
	})
}

// AddKeeper reserves the pick a team holds in a round for an available player
func (e *Engine) AddKeeper(id model.PlayerID, teamID, round int) (model.Player, error) {
	var result model.Player
	err := e.mutate(func() ([]model.Event, error) {
		p, err := e.store.get(id)
		if err != nil {
			return nil, err
		}
		if !p.IsAvailable() {
			return nil, fmt.Errorf("%w: %s is %s", model.ErrNotAvailable, p.Name, p.Status)
		}
		if teamID < 1 || teamID > e.settings.NumTeams {
			return nil, fmt.Errorf("%w: %d", model.ErrInvalidTeam, teamID)
		}
		if round < 1 || round > e.settings.Rounds() {
			return nil, fmt.Errorf("%w: %d", model.ErrInvalidRound, round)
		}

		pick := e.schedule.PickFor(teamID, round)
		if holder, ok := e.store.usedPicks()[pick]; ok {
			return nil, fmt.Errorf("%w: pick %d is held by %s", model.ErrPickCollision, pick, holder)
		}

		wasComplete := e.isComplete()
		p.Assign(model.StatusKeeper, pick, round, teamID, e.settings.TeamName(teamID))
		if e.currentPick == pick {
			e.currentPick = e.nextFree(pick)
		}
		result = p.Clone()

		e.logger.Info("keeper added",
			slog.String("player_id", string(p.ID)),
			slog.Int("team_id", teamID),
			slog.Int("round", round),
			slog.Int("pick", pick),
		)
		events := []model.Event{e.event(model.EventKeeperAdded, p.ID, model.PickPayloadFor(result, ""))}
		return append(events, e.completionEvents(wasComplete)...), nil
	})
	return result, err
}

// RemoveKeeper returns a keeper to the pool. The cursor is never rewound.
func (e *Engine) RemoveKeeper(id model.PlayerID) (model.Player, error) {
	var result model.Player
	err := e.mutate(func() ([]model.Event, error) {
		p, err := e.store.get(id)
		if err != nil {
			return nil, err
		}
		if p.Status != model.StatusKeeper {
			return nil, fmt.Errorf("%w: %s", model.ErrNotKeeper, p.Name)
		}

		payload := model.PickPayloadFor(*p, "")
		p.Release()
		result = p.Clone()

		e.logger.Info("keeper removed",
			slog.String("player_id", string(p.ID)),
			slog.Int("pick", payload.PickNumber),
		)
		return []model.Event{e.event(model.EventKeeperRemoved, p.ID, payload)}, nil
	})
	return result, err
}

// SetWatched flags a player as watched. Watching clears the avoided flag.
func (e *Engine) SetWatched(id model.PlayerID, watched bool) (model.Player, error) {
	return e.setFlags(id, func(p *model.Player) {
		p.IsWatched = watched
		if watched {
			p.IsAvoided = false
		}
	})
}

// SetAvoided flags a player as avoided. Avoiding clears the watched flag.
func (e *Engine) SetAvoided(id model.PlayerID, avoided bool) (model.Player, error) {
	return e.setFlags(id, func(p *model.Player) {
		p.IsAvoided = avoided
		if avoided {
			p.IsWatched = false
		}
	})
}

func (e *Engine) setFlags(id model.PlayerID, apply func(p *model.Player)) (model.Player, error) {
	var result model.Player
	err := e.mutate(func() ([]model.Event, error) {
		p, err := e.store.get(id)
		if err != nil {
			return nil, err
		}
		apply(p)
		result = p.Clone()

		e.logger.Debug("player flags updated",
			slog.String("player_id", string(p.ID)),
			slog.Bool("watched", p.IsWatched),
			slog.Bool("avoided", p.IsAvoided),
		)
		return []model.Event{e.event(model.EventPlayerFlagged, p.ID, model.FlagPayload{
			IsWatched: p.IsWatched,
			IsAvoided: p.IsAvoided,
		})}, nil
	})
	return result, err
}

// AdvancePastReserved moves the cursor off a pick some player already holds.
// It reports whether the cursor moved.
func (e *Engine) AdvancePastReserved() bool {
	moved := false
	_ = e.mutate(func() ([]model.Event, error) {
		next := e.nextFree(e.currentPick)
		if next == e.currentPick {
			return nil, nil
		}
		e.logger.Info("skipping reserved pick",
			slog.Int("from", e.currentPick),
			slog.Int("to", next),
		)
		e.currentPick = next
		moved = true
		return nil, nil
	})
	return moved
}
