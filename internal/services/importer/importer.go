// Package importer turns ranking exports into players.
package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/mcoot/draftboard/internal/model"
)

// namespace seeds player ids so the same athlete gets the same id on every import
var namespace = uuid.MustParse("5b6f1c3e-2d84-4a77-9a3c-0f1e8d2b7c41")

// PlayerID derives a stable id from a player's name, position and team
func PlayerID(name string, pos model.Position, team string) model.PlayerID {
	key := strings.ToLower(strings.Join([]string{
		strings.TrimSpace(name),
		string(pos),
		strings.TrimSpace(team),
	}, "|"))
	return model.PlayerID(uuid.NewSHA1(namespace, []byte(key)).String())
}

// Row is one ranking entry before validation
type Row struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	Team     string `json:"team"`
	Rank     int    `json:"rank"`
	Tier     *int   `json:"tier,omitempty"`
}

// FromJSON reads a JSON array of rows
func FromJSON(r io.Reader) ([]model.Player, error) {
	var rows []Row
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrInvalidImport, err)
	}
	return Build(rows)
}

// Build validates rows and converts them to available players
func Build(rows []Row) ([]model.Player, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no players", model.ErrInvalidImport)
	}
	players := make([]model.Player, 0, len(rows))
	seen := make(map[model.PlayerID]int, len(rows))
	for i, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: row %d has no name", model.ErrInvalidImport, i+1)
		}
		pos, err := model.ParsePosition(stripPositionRank(row.Position))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d (%s): %w", model.ErrInvalidImport, i+1, name, err)
		}
		if row.Rank < 1 {
			return nil, fmt.Errorf("%w: row %d (%s) has rank %d", model.ErrInvalidImport, i+1, name, row.Rank)
		}
		if row.Tier != nil && *row.Tier < 1 {
			return nil, fmt.Errorf("%w: row %d (%s) has tier %d", model.ErrInvalidImport, i+1, name, *row.Tier)
		}

		team := strings.ToUpper(strings.TrimSpace(row.Team))
		id := PlayerID(name, pos, team)
		if first, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: rows %d and %d are both %s", model.ErrInvalidImport, first, i+1, name)
		}
		seen[id] = i + 1

		p := model.Player{
			ID:       id,
			Name:     name,
			Position: pos,
			Team:     team,
			Rank:     row.Rank,
			Status:   model.StatusAvailable,
		}
		if row.Tier != nil {
			p.Tier = model.IntPtr(*row.Tier)
		}
		players = append(players, p)
	}
	return players, nil
}

// stripPositionRank turns positional ranks like "WR12" into "WR"
func stripPositionRank(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), "0123456789")
}
