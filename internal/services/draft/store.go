package draft

import (
	"fmt"
	"sort"

	"github.com/mcoot/draftboard/internal/model"
)

// store holds the authoritative player records. It is not safe for
// concurrent use; the Engine serializes access.
type store struct {
	order   []model.PlayerID
	players map[model.PlayerID]*model.Player
}

func newStore(players []model.Player) (*store, error) {
	s := &store{
		order:   make([]model.PlayerID, 0, len(players)),
		players: make(map[model.PlayerID]*model.Player, len(players)),
	}
	for _, p := range players {
		if p.ID == "" {
			return nil, fmt.Errorf("%w: player %q has no id", model.ErrInvalidImport, p.Name)
		}
		if _, dup := s.players[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate player id %s", model.ErrInvalidImport, p.ID)
		}
		cp := p.Clone()
		s.order = append(s.order, p.ID)
		s.players[p.ID] = &cp
	}
	return s, nil
}

func (s *store) get(id model.PlayerID) (*model.Player, error) {
	p, ok := s.players[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrPlayerNotFound, id)
	}
	return p, nil
}

func (s *store) len() int {
	return len(s.order)
}

// each visits players in import order
func (s *store) each(fn func(p *model.Player)) {
	for _, id := range s.order {
		fn(s.players[id])
	}
}

// snapshot returns copies of every player in import order
func (s *store) snapshot() []model.Player {
	out := make([]model.Player, 0, len(s.order))
	s.each(func(p *model.Player) {
		out = append(out, p.Clone())
	})
	return out
}

// filter returns copies of matching players ordered by rank, ties broken by import order
func (s *store) filter(keep func(p *model.Player) bool) []model.Player {
	var out []model.Player
	s.each(func(p *model.Player) {
		if keep(p) {
			out = append(out, p.Clone())
		}
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Rank < out[j].Rank
	})
	return out
}

// reservedPicks maps keeper pick numbers to the keeper holding them
func (s *store) reservedPicks() map[int]model.PlayerID {
	out := make(map[int]model.PlayerID)
	s.each(func(p *model.Player) {
		if p.Status == model.StatusKeeper {
			out[p.PickNumber] = p.ID
		}
	})
	return out
}

// usedPicks maps every taken pick number to the player holding it
func (s *store) usedPicks() map[int]model.PlayerID {
	out := make(map[int]model.PlayerID)
	s.each(func(p *model.Player) {
		if p.Status != model.StatusAvailable {
			out[p.PickNumber] = p.ID
		}
	})
	return out
}

// lastDrafted returns the drafted player with the highest pick number
func (s *store) lastDrafted() *model.Player {
	var last *model.Player
	s.each(func(p *model.Player) {
		if p.Status == model.StatusDrafted && (last == nil || p.PickNumber > last.PickNumber) {
			last = p
		}
	})
	return last
}

func (s *store) count(status model.PlayerStatus) int {
	n := 0
	s.each(func(p *model.Player) {
		if p.Status == status {
			n++
		}
	})
	return n
}
