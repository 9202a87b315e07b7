package strategy

import (
	"github.com/mcoot/draftboard/internal/model"
)

// rule targets a position while its condition holds
type rule struct {
	when bool
	pos  model.Position
}

// firstMatch returns the best player at the first rule whose condition holds
// and which has someone to draft, falling back to the best player overall
func firstMatch(draftable []model.Player, team *model.Team, rules ...rule) (model.PlayerID, bool) {
	for _, r := range rules {
		if !r.when {
			continue
		}
		if id, ok := bestAt(draftable, team, r.pos); ok {
			return id, true
		}
	}
	return best(draftable)
}

// counts is a team's position tally at the moment of a pick
type counts struct {
	qb, rb, wr, te int
	picks          int
}

func countsOf(team *model.Team) counts {
	return counts{
		qb:    team.CountPosition(model.PositionQB),
		rb:    team.CountPosition(model.PositionRB),
		wr:    team.CountPosition(model.PositionWR),
		te:    team.CountPosition(model.PositionTE),
		picks: team.FilledCount(),
	}
}

type bestAvailable struct{}

func (bestAvailable) Name() string { return model.StrategyBPA }
func (bestAvailable) Description() string {
	return "Always draft the highest-ranked available player who can fill a roster spot"
}
func (bestAvailable) Choose(draftable []model.Player, _ *model.Team) (model.PlayerID, bool) {
	return best(draftable)
}

type tierBased struct{}

func (tierBased) Name() string { return model.StrategyTier }
func (tierBased) Description() string {
	return "Prioritize players from the best available tier, then by rank within tier"
}
func (tierBased) Choose(draftable []model.Player, _ *model.Team) (model.PlayerID, bool) {
	var pick *model.Player
	for i := range draftable {
		p := &draftable[i]
		if !p.HasTier() {
			continue
		}
		if pick == nil || p.TierValue() < pick.TierValue() {
			pick = p
		}
	}
	if pick == nil {
		return best(draftable)
	}
	return pick.ID, true
}

type positionalNeed struct{}

func (positionalNeed) Name() string { return model.StrategyPositional }
func (positionalNeed) Description() string {
	return "Draft based on roster needs and positional scarcity"
}
func (positionalNeed) Choose(draftable []model.Player, team *model.Team) (model.PlayerID, bool) {
	return byNeed(draftable, team)
}

// balanced scores each player on a weighted mix of rank value and need
type balanced struct {
	valueWeight float64
	needWeight  float64
}

func (balanced) Name() string { return model.StrategyBalanced }
func (balanced) Description() string {
	return "Balance between best player available and positional need"
}
func (b balanced) Choose(draftable []model.Player, team *model.Team) (model.PlayerID, bool) {
	if len(draftable) == 0 {
		return "", false
	}
	maxRank := 0
	for _, p := range draftable {
		maxRank = max(maxRank, p.Rank)
	}
	priorities := NeedPriority(team)

	var pick model.PlayerID
	bestScore := -1.0
	for _, p := range draftable {
		value := float64(maxRank-p.Rank+1) / float64(maxRank)
		need := float64(priorities[p.Position]) / 100
		score := b.valueWeight*value + b.needWeight*need
		if score > bestScore {
			bestScore = score
			pick = p.ID
		}
	}
	return pick, true
}

// sequence follows a fixed position order for the first picks, then drafts
// by need
type sequence struct {
	name        string
	description string
	order       []model.Position
}

func newSequence(name, description string, order []model.Position) sequence {
	return sequence{name: name, description: description, order: order}
}

func (s sequence) Name() string        { return s.name }
func (s sequence) Description() string { return s.description }
func (s sequence) Choose(draftable []model.Player, team *model.Team) (model.PlayerID, bool) {
	filled := team.FilledCount()
	if filled >= len(s.order) {
		return byNeed(draftable, team)
	}
	if id, ok := bestAt(draftable, team, s.order[filled]); ok {
		return id, true
	}
	return best(draftable)
}

type wrHeavy struct{}

func (wrHeavy) Name() string        { return model.StrategyWRHeavy }
func (wrHeavy) Description() string { return "Prioritize WR early and often to build receiving corps" }
func (wrHeavy) Choose(draftable []model.Player, team *model.Team) (model.PlayerID, bool) {
	c := countsOf(team)
	return firstMatch(draftable, team,
		rule{c.picks < 6 && c.wr < 3, model.PositionWR},
		rule{c.qb == 0 && c.picks >= 4, model.PositionQB},
		rule{c.rb == 0 && c.picks >= 3, model.PositionRB},
		rule{c.wr < 5, model.PositionWR},
	)
}

type rbHeavy struct{}

func (rbHeavy) Name() string        { return model.StrategyRBHeavy }
func (rbHeavy) Description() string { return "Load up on RBs early to secure backfield depth" }
func (rbHeavy) Choose(draftable []model.Player, team *model.Team) (model.PlayerID, bool) {
	c := countsOf(team)
	return firstMatch(draftable, team,
		rule{c.picks < 5 && c.rb < 3, model.PositionRB},
		rule{c.qb == 0 && c.picks >= 4, model.PositionQB},
		rule{c.wr < 2, model.PositionWR},
		rule{c.rb < 5, model.PositionRB},
	)
}

type heroRB struct{}

func (heroRB) Name() string        { return model.StrategyHeroRB }
func (heroRB) Description() string { return "Take elite RB early, then focus on WR/TE" }
func (heroRB) Choose(draftable []model.Player, team *model.Team) (model.PlayerID, bool) {
	c := countsOf(team)
	support := c.picks < 6 && c.rb >= 1
	return firstMatch(draftable, team,
		rule{c.picks == 0, model.PositionRB},
		rule{support && c.wr < 3, model.PositionWR},
		rule{support && c.te < 2, model.PositionTE},
		rule{c.qb == 0 && c.picks >= 4, model.PositionQB},
	)
}

type heroWR struct{}

func (heroWR) Name() string        { return model.StrategyHeroWR }
func (heroWR) Description() string { return "Take elite WR early, then focus on RB/TE depth" }
func (heroWR) Choose(draftable []model.Player, team *model.Team) (model.PlayerID, bool) {
	c := countsOf(team)
	support := c.picks < 6 && c.wr >= 1
	return firstMatch(draftable, team,
		rule{c.picks == 0, model.PositionWR},
		rule{support && c.rb < 3, model.PositionRB},
		rule{support && c.te < 2, model.PositionTE},
		rule{support && c.wr < 2, model.PositionWR},
		rule{c.qb == 0 && c.picks >= 3 && c.picks <= 7, model.PositionQB},
		rule{c.rb < 4, model.PositionRB},
		rule{c.wr < 4, model.PositionWR},
	)
}

type zeroRB struct{}

func (zeroRB) Name() string        { return model.StrategyZeroRB }
func (zeroRB) Description() string { return "Wait on RB while focusing on WR/TE early" }
func (zeroRB) Choose(draftable []model.Player, team *model.Team) (model.PlayerID, bool) {
	c := countsOf(team)
	return firstMatch(draftable, team,
		rule{c.picks < 5 && c.wr < 3, model.PositionWR},
		rule{c.picks < 5 && c.te < 2, model.PositionTE},
		rule{c.qb == 0 && c.picks >= 3 && c.picks <= 6, model.PositionQB},
		rule{c.picks >= 5 && c.rb < 2, model.PositionRB},
	)
}

type lateQB struct{}

func (lateQB) Name() string { return model.StrategyLateQB }
func (lateQB) Description() string {
	return "Wait on QB until later rounds while building skill positions"
}
func (lateQB) Choose(draftable []model.Player, team *model.Team) (model.PlayerID, bool) {
	c := countsOf(team)
	early := c.picks < 7 && c.qb == 0
	return firstMatch(draftable, team,
		rule{early && c.rb < 2, model.PositionRB},
		rule{early && c.wr < 3, model.PositionWR},
		rule{early && c.te < 1, model.PositionTE},
		rule{c.qb == 0 && c.picks >= 7, model.PositionQB},
	)
}

type earlyQB struct{}

func (earlyQB) Name() string { return model.StrategyEarlyQB }
func (earlyQB) Description() string {
	return "Secure elite QB early before building other positions"
}
func (earlyQB) Choose(draftable []model.Player, team *model.Team) (model.PlayerID, bool) {
	c := countsOf(team)
	return firstMatch(draftable, team,
		rule{c.picks < 3 && c.qb == 0, model.PositionQB},
		rule{c.rb < 2, model.PositionRB},
		rule{c.wr < 3, model.PositionWR},
	)
}
