package importer

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mcoot/draftboard/internal/model"
)

// header aliases, matched case-insensitively
var columnAliases = map[string][]string{
	"rank":     {"rank", "rk", "#", "ovr", "overall"},
	"name":     {"player", "name", "player name"},
	"position": {"pos", "position"},
	"team":     {"team", "tm"},
	"tier":     {"tier"},
}

// playerWithTeam matches "Josh Allen (BUF)"
var playerWithTeam = regexp.MustCompile(`^(.+?)\s*\(([A-Za-z]{2,4})\)$`)

// FromHTML reads the first table whose header names rank, player and
// position columns
func FromHTML(r io.Reader) ([]model.Player, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrInvalidImport, err)
	}

	var rows []Row
	var parseErr error
	found := false
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		columns := headerColumns(table)
		if _, ok := columns["rank"]; !ok {
			return true
		}
		if _, ok := columns["name"]; !ok {
			return true
		}
		if _, ok := columns["position"]; !ok {
			return true
		}
		found = true
		rows, parseErr = tableRows(table, columns)
		return false
	})
	if parseErr != nil {
		return nil, parseErr
	}
	if !found {
		return nil, fmt.Errorf("%w: no table with rank, player and position columns", model.ErrInvalidImport)
	}
	return Build(rows)
}

// headerColumns maps known column names to their cell index
func headerColumns(table *goquery.Selection) map[string]int {
	header := table.Find("thead tr").First()
	if header.Length() == 0 {
		header = table.Find("tr").First()
	}

	columns := make(map[string]int)
	header.Find("th, td").Each(func(i int, cell *goquery.Selection) {
		text := strings.ToLower(strings.TrimSpace(cell.Text()))
		for column, aliases := range columnAliases {
			if _, seen := columns[column]; seen {
				continue
			}
			for _, alias := range aliases {
				if text == alias {
					columns[column] = i
				}
			}
		}
	})
	return columns
}

func tableRows(table *goquery.Selection, columns map[string]int) ([]Row, error) {
	required := max(columns["rank"], columns["name"], columns["position"])

	var rows []Row
	var rowErr error
	table.Find("tr").EachWithBreak(func(i int, tr *goquery.Selection) bool {
		cells := tr.Find("td")
		if cells.Length() <= required {
			// header rows and tier breaks spanning the table
			return true
		}
		text := func(column string) string {
			idx, ok := columns[column]
			if !ok || idx >= cells.Length() {
				return ""
			}
			return strings.Join(strings.Fields(cells.Eq(idx).Text()), " ")
		}

		rankText := text("rank")
		if rankText == "" {
			return true
		}
		rank, err := strconv.Atoi(rankText)
		if err != nil {
			rowErr = fmt.Errorf("%w: row %d has rank %q", model.ErrInvalidImport, i+1, rankText)
			return false
		}

		row := Row{
			Name:     text("name"),
			Position: text("position"),
			Team:     text("team"),
			Rank:     rank,
		}
		if m := playerWithTeam.FindStringSubmatch(row.Name); m != nil && row.Team == "" {
			row.Name, row.Team = m[1], m[2]
		}
		if tierText := text("tier"); tierText != "" {
			tier, err := strconv.Atoi(tierText)
			if err != nil {
				rowErr = fmt.Errorf("%w: row %d has tier %q", model.ErrInvalidImport, i+1, tierText)
				return false
			}
			row.Tier = &tier
		}
		rows = append(rows, row)
		return true
	})
	return rows, rowErr
}
