package model

// RosterSlot is one position on a team's roster
type RosterSlot struct {
	Position Position `json:"position"`
	Player   *Player  `json:"player,omitempty"`
	IsKeeper bool     `json:"is_keeper,omitempty"`
}

// IsEmpty reports whether no player fills the slot
func (s RosterSlot) IsEmpty() bool {
	return s.Player == nil
}

// Team is a derived view of a team's draft board. It is rebuilt from the
// player store on every read and never stored.
type Team struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	Strategy    string       `json:"strategy"`
	Variability float64      `json:"variability"`
	Roster      []RosterSlot `json:"roster"`

	// Unplaced holds players assigned to the team that found no free slot
	Unplaced []Player `json:"unplaced,omitempty"`
}

// FilledCount returns the number of filled roster slots
func (t *Team) FilledCount() int {
	n := 0
	for _, slot := range t.Roster {
		if !slot.IsEmpty() {
			n++
		}
	}
	return n
}

// EmptySlots returns the number of empty slots of exactly the given position
func (t *Team) EmptySlots(pos Position) int {
	n := 0
	for _, slot := range t.Roster {
		if slot.Position == pos && slot.IsEmpty() {
			n++
		}
	}
	return n
}

// CountPosition counts players at pos in the matching slots plus any in FLEX
func (t *Team) CountPosition(pos Position) int {
	n := 0
	for _, slot := range t.Roster {
		if slot.IsEmpty() {
			continue
		}
		if slot.Position == pos {
			n++
		} else if slot.Position == PositionFLEX && slot.Player.Position == pos {
			n++
		}
	}
	return n
}

// Players returns every player on the team, including unplaced ones
func (t *Team) Players() []Player {
	out := make([]Player, 0, len(t.Roster)+len(t.Unplaced))
	for _, slot := range t.Roster {
		if !slot.IsEmpty() {
			out = append(out, *slot.Player)
		}
	}
	return append(out, t.Unplaced...)
}

// Clone returns a deep copy of the team
func (t Team) Clone() Team {
	out := t
	out.Roster = make([]RosterSlot, len(t.Roster))
	for i, slot := range t.Roster {
		out.Roster[i] = slot
		if slot.Player != nil {
			p := slot.Player.Clone()
			out.Roster[i].Player = &p
		}
	}
	out.Unplaced = append([]Player(nil), t.Unplaced...)
	return out
}
