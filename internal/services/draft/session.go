package draft

import (
	"fmt"
	"log/slog"

	"github.com/mcoot/draftboard/internal/model"
	"github.com/mcoot/draftboard/internal/services/schedule"
)

// UpdateSettings replaces the league settings. Keeper pick numbers are
// re-derived from their team and round, and drafted players are re-assigned
// to whichever team owns their pick under the new order. The update is
// rejected if two players would hold the same pick or a pick falls outside
// the new league. The cursor resumes at the first free pick after the last
// drafted one.
func (e *Engine) UpdateSettings(settings model.Settings) error {
	settings = settings.Normalize()
	if err := settings.Validate(); err != nil {
		return err
	}
	sched := schedule.FromSettings(settings)

	return e.mutate(func() ([]model.Event, error) {
		type reassignment struct {
			player *model.Player
			pick   int
			round  int
			teamID int
		}

		var changes []reassignment
		held := make(map[int]model.PlayerID)
		var conflict error

		e.store.each(func(p *model.Player) {
			if conflict != nil || p.Status == model.StatusAvailable {
				return
			}

			r := reassignment{player: p}
			switch p.Status {
			case model.StatusKeeper:
				if p.TeamID > settings.NumTeams {
					conflict = fmt.Errorf("%w: keeper %s belongs to team %d", model.ErrSettingsConflict, p.Name, p.TeamID)
					return
				}
				if p.Round > settings.Rounds() {
					conflict = fmt.Errorf("%w: keeper %s is in round %d", model.ErrSettingsConflict, p.Name, p.Round)
					return
				}
				r.teamID = p.TeamID
				r.round = p.Round
				r.pick = sched.PickFor(p.TeamID, p.Round)
			default:
				if p.PickNumber > settings.Capacity() {
					conflict = fmt.Errorf("%w: %s was taken at pick %d", model.ErrSettingsConflict, p.Name, p.PickNumber)
					return
				}
				r.pick = p.PickNumber
				r.teamID = sched.TeamAt(p.PickNumber)
				r.round = sched.RoundOf(p.PickNumber)
			}

			if other, ok := held[r.pick]; ok {
				conflict = fmt.Errorf("%w: %s and %s would both hold pick %d", model.ErrSettingsConflict, other, p.ID, r.pick)
				return
			}
			held[r.pick] = p.ID
			changes = append(changes, r)
		})
		if conflict != nil {
			return nil, conflict
		}

		e.settings = settings
		e.schedule = sched
		for _, c := range changes {
			c.player.Assign(c.player.Status, c.pick, c.round, c.teamID, settings.TeamName(c.teamID))
		}
		// keepers may have vacated picks behind the cursor
		resume := 1
		if last := e.store.lastDrafted(); last != nil {
			resume = last.PickNumber + 1
		}
		e.currentPick = e.nextFree(resume)

		e.logger.Info("settings updated",
			slog.Int("num_teams", settings.NumTeams),
			slog.String("draft_style", string(settings.DraftStyle)),
			slog.Int("rounds", settings.Rounds()),
			slog.Int("reassigned", len(changes)),
		)
		return []model.Event{e.event(model.EventSettingsUpdated, "", nil)}, nil
	})
}

// Import replaces the player store. Every player starts available and the
// cursor returns to pick 1.
func (e *Engine) Import(players []model.Player) error {
	fresh := make([]model.Player, 0, len(players))
	for _, p := range players {
		if p.Rank < 1 {
			return fmt.Errorf("%w: %s has rank %d", model.ErrInvalidImport, p.Name, p.Rank)
		}
		if !p.Position.IsPlayerPosition() {
			return fmt.Errorf("%w: %s has position %q", model.ErrInvalidImport, p.Name, p.Position)
		}
		p = p.Clone()
		p.Release()
		p.IsWatched = false
		p.IsAvoided = false
		fresh = append(fresh, p)
	}
	st, err := newStore(fresh)
	if err != nil {
		return err
	}

	return e.mutate(func() ([]model.Event, error) {
		e.store = st
		e.currentPick = 1

		e.logger.Info("players imported", slog.Int("players", st.len()))
		return []model.Event{e.event(model.EventPlayersImported, "", model.ImportPayload{PlayerCount: st.len()})}, nil
	})
}

// Snapshot captures the engine state for persistence. The caller fills in
// the auto-draft state.
func (e *Engine) Snapshot() *model.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return &model.Snapshot{
		Version:     model.SnapshotVersion,
		SavedAt:     e.clock.Now(),
		Settings:    e.settings.Clone(),
		CurrentPick: e.currentPick,
		Players:     e.store.snapshot(),
	}
}

// Restore replaces the engine state with a snapshot after checking that it
// satisfies every store invariant
func (e *Engine) Restore(snap *model.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("%w: nil snapshot", model.ErrInvalidSnapshot)
	}
	if snap.Version < 1 || snap.Version > model.SnapshotVersion {
		return fmt.Errorf("%w: unsupported version %d", model.ErrInvalidSnapshot, snap.Version)
	}
	settings := snap.Settings.Normalize()
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("%w: %w", model.ErrInvalidSnapshot, err)
	}
	st, err := newStore(snap.Players)
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrInvalidSnapshot, err)
	}
	if err := validateStore(st, settings); err != nil {
		return err
	}
	if snap.CurrentPick < 1 {
		return fmt.Errorf("%w: current pick %d", model.ErrInvalidSnapshot, snap.CurrentPick)
	}
	if holder, ok := st.usedPicks()[snap.CurrentPick]; ok {
		return fmt.Errorf("%w: current pick %d is held by %s", model.ErrInvalidSnapshot, snap.CurrentPick, holder)
	}

	return e.mutate(func() ([]model.Event, error) {
		e.settings = settings
		e.schedule = schedule.FromSettings(settings)
		e.store = st
		e.currentPick = snap.CurrentPick

		e.logger.Info("snapshot restored",
			slog.Int("players", st.len()),
			slog.Int("current_pick", snap.CurrentPick),
		)
		return []model.Event{e.event(model.EventSnapshotRestored, "", model.ImportPayload{PlayerCount: st.len()})}, nil
	})
}

func validateStore(st *store, settings model.Settings) error {
	sched := schedule.FromSettings(settings)
	held := make(map[int]model.PlayerID)
	var invalid error

	st.each(func(p *model.Player) {
		if invalid != nil {
			return
		}
		fail := func(format string, args ...any) {
			invalid = fmt.Errorf("%w: player %s: %s", model.ErrInvalidSnapshot, p.ID, fmt.Sprintf(format, args...))
		}

		if !p.Status.IsValid() {
			fail("unknown status %q", p.Status)
			return
		}
		if p.IsWatched && p.IsAvoided {
			fail("both watched and avoided")
			return
		}
		if p.Status == model.StatusAvailable {
			if p.PickNumber != 0 || p.Round != 0 || p.TeamID != 0 || p.TeamName != "" {
				fail("available with pick fields set")
			}
			return
		}

		if p.PickNumber < 1 || p.PickNumber > settings.Capacity() {
			fail("pick %d out of range", p.PickNumber)
			return
		}
		if sched.TeamAt(p.PickNumber) != p.TeamID {
			fail("pick %d belongs to team %d, not %d", p.PickNumber, sched.TeamAt(p.PickNumber), p.TeamID)
			return
		}
		if sched.RoundOf(p.PickNumber) != p.Round {
			fail("pick %d is in round %d, not %d", p.PickNumber, sched.RoundOf(p.PickNumber), p.Round)
			return
		}
		if other, ok := held[p.PickNumber]; ok {
			fail("pick %d also held by %s", p.PickNumber, other)
			return
		}
		held[p.PickNumber] = p.ID
	})
	return invalid
}
