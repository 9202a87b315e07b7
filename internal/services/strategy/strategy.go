// Package strategy holds the named draft strategies automated teams use to
// choose a player, and the variability draw that perturbs their choice.
package strategy

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/mcoot/draftboard/internal/dependencies/random"
	"github.com/mcoot/draftboard/internal/model"
	"github.com/mcoot/draftboard/internal/services/roster"
)

// Strategy chooses one player for a team
type Strategy interface {
	// Name is the registry key
	Name() string
	// Description is a one-line summary shown to users
	Description() string
	// Choose picks from draftable, which is ordered by rank and only holds
	// players the team can roster. It returns false when nothing fits.
	Choose(draftable []model.Player, team *model.Team) (model.PlayerID, bool)
}

// Info describes a registered strategy
type Info struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}

// Service evaluates registered strategies
type Service struct {
	strategies map[string]Strategy
	random     random.Random
	logger     *slog.Logger
}

// NewService creates a Service over the given strategies
func NewService(strategies map[string]Strategy, rnd random.Random, logger *slog.Logger) *Service {
	return &Service{
		strategies: strategies,
		random:     rnd,
		logger:     logger.With(slog.String("component", "strategy-service")),
	}
}

// Defaults returns every built-in strategy keyed by name
func Defaults() map[string]Strategy {
	all := []Strategy{
		bestAvailable{},
		tierBased{},
		positionalNeed{},
		balanced{valueWeight: 0.6, needWeight: 0.4},
		wrHeavy{},
		rbHeavy{},
		newSequence(model.StrategyRobustRB, "Heavy focus on RB early to secure the backfield", []model.Position{
			model.PositionRB, model.PositionRB, model.PositionWR, model.PositionRB,
			model.PositionWR, model.PositionTE, model.PositionQB, model.PositionRB,
			model.PositionWR, model.PositionTE, model.PositionDST, model.PositionK,
		}),
		heroRB{},
		heroWR{},
		zeroRB{},
		lateQB{},
		earlyQB{},
	}
	out := make(map[string]Strategy, len(all))
	for _, st := range all {
		out[st.Name()] = st
	}
	return out
}

// Lookup returns a strategy by name, ignoring case
func (s *Service) Lookup(name string) (Strategy, error) {
	st, ok := s.strategies[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownStrategy, name)
	}
	return st, nil
}

// Names returns registered strategy names in display order
func (s *Service) Names() []string {
	var names []string
	for _, name := range model.ValidStrategies() {
		if _, ok := s.strategies[name]; ok {
			names = append(names, name)
		}
	}
	var extra []string
	for name := range s.strategies {
		if !slices.Contains(names, name) {
			extra = append(extra, name)
		}
	}
	slices.Sort(extra)
	return append(names, extra...)
}

// Info lists the registered strategies, with manual drafting first
func (s *Service) Info() []Info {
	out := []Info{{
		Name:        model.StrategyManual,
		DisplayName: model.StrategyDisplayName(model.StrategyManual),
		Description: "Manual drafting",
	}}
	for _, name := range s.Names() {
		st := s.strategies[name]
		out = append(out, Info{
			Name:        name,
			DisplayName: model.StrategyDisplayName(name),
			Description: st.Description(),
		})
	}
	return out
}

// Evaluate runs a strategy for a team and applies variability to its choice
func (s *Service) Evaluate(ctx context.Context, available []model.Player, team model.Team, strategy string, variability float64) (model.PlayerID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	st, err := s.Lookup(strategy)
	if err != nil {
		return "", err
	}

	draftable := Draftable(available, &team)
	choice, ok := st.Choose(draftable, &team)
	if !ok {
		return "", fmt.Errorf("%w: %s found no draftable player", model.ErrStrategyUnavailable, st.Name())
	}

	final := ApplyVariability(draftable, choice, variability, s.random)
	if final != choice {
		s.logger.Debug("variability applied",
			slog.String("strategy", st.Name()),
			slog.Int("team_id", team.ID),
			slog.String("optimal", string(choice)),
			slog.String("selected", string(final)),
			slog.Float64("variability", variability),
		)
	}
	return final, nil
}

// Draftable returns the available players the team can still roster,
// ordered by rank
func Draftable(available []model.Player, team *model.Team) []model.Player {
	out := make([]model.Player, 0, len(available))
	for _, p := range available {
		if p.IsAvailable() && roster.CanPlace(team, p.Position) {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b model.Player) int {
		return a.Rank - b.Rank
	})
	return out
}

// bestAt returns the best ranked draftable player at pos. It returns false
// when there is none or the team has no room for the position.
func bestAt(draftable []model.Player, team *model.Team, pos model.Position) (model.PlayerID, bool) {
	if !roster.CanPlace(team, pos) {
		return "", false
	}
	for _, p := range draftable {
		if p.Position == pos {
			return p.ID, true
		}
	}
	return "", false
}

func best(draftable []model.Player) (model.PlayerID, bool) {
	if len(draftable) == 0 {
		return "", false
	}
	return draftable[0].ID, true
}

var needPositions = []model.Position{
	model.PositionQB, model.PositionRB, model.PositionWR,
	model.PositionTE, model.PositionDST, model.PositionK,
}

// NeedPriority scores how badly a team needs each position. Empty dedicated
// slots score 10 each; a flex-eligible position with no dedicated slot left
// scores 5 per empty FLEX slot instead.
func NeedPriority(team *model.Team) map[model.Position]int {
	out := make(map[model.Position]int, len(needPositions))
	flex := team.EmptySlots(model.PositionFLEX)
	for _, pos := range needPositions {
		empty := team.EmptySlots(pos)
		out[pos] = empty * 10
		if empty == 0 && pos.IsFlexEligible() {
			out[pos] = flex * 5
		}
	}
	return out
}

// byNeed picks the best player at the neediest position, falling back to
// the best player overall. Ties between positions keep needPositions order.
func byNeed(draftable []model.Player, team *model.Team) (model.PlayerID, bool) {
	priorities := NeedPriority(team)
	positions := slices.Clone(needPositions)
	slices.SortStableFunc(positions, func(a, b model.Position) int {
		return priorities[b] - priorities[a]
	})
	for _, pos := range positions {
		if priorities[pos] <= 0 {
			break
		}
		for _, p := range draftable {
			if p.Position == pos {
				return p.ID, true
			}
		}
	}
	return best(draftable)
}
