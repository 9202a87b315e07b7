package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/mcoot/draftboard/internal/api/response"
	"github.com/mcoot/draftboard/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	w      io.Writer
	format string
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(w io.Writer, format string) *Output {
	if w == nil {
		w = os.Stdout
	}
	return &Output{w: w, format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Health:
		o.printHealth(v)
	case response.Draft:
		o.printDraft(v)
	case model.DraftStats:
		o.printStats(v)
	case response.Teams:
		o.printTeams(v)
	case response.Players:
		o.printPlayers(v)
	case model.Player:
		o.printPlayer(v)
	case response.Pick:
		o.printPick(v)
	case response.Undo:
		o.printUndo(v)
	case response.AutoDraft:
		o.printAutoDraft(v)
	case model.Settings:
		o.printSettings(v)
	case response.Strategies:
		o.printStrategies(v)
	case response.Import:
		fmt.Fprintf(o.w, "Imported %d players\n", v.Imported)
	case []Availability:
		o.printAvailability(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Availability is one row of a prediction, joined with the player
type Availability struct {
	Player      model.Player `json:"player"`
	Probability float64      `json:"probability"`
}

func (o *Output) table(header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	return tw
}

func (o *Output) printHealth(h response.Health) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
	fmt.Fprintf(o.w, "Session: %s\n", h.SessionID)
	fmt.Fprintf(o.w, "Players: %d\n", h.Players)
}

func (o *Output) printStats(s model.DraftStats) {
	if s.IsComplete {
		fmt.Fprintln(o.w, "Draft complete")
	} else {
		fmt.Fprintf(o.w, "Pick: %d (round %d, pick %d)\n", s.CurrentPick, s.CurrentRound, s.PickInRound)
		fmt.Fprintf(o.w, "On the clock: %s\n", s.TeamOnClockName)
	}
	fmt.Fprintf(o.w, "Drafted: %d  Keepers: %d  Available: %d\n", s.Drafted, s.Keepers, s.Available)
	fmt.Fprintf(o.w, "Picks remaining: %d of %d\n", s.PicksRemaining, s.TotalPicks)
}

func (o *Output) printDraft(d response.Draft) {
	o.printStats(d.Stats)
	fmt.Fprintf(o.w, "League: %d teams, %s\n", d.Settings.NumTeams, d.Settings.DraftStyle)
	o.printAutoDraft(d.AutoDraft)
	if d.TeamOnClock != nil && !d.Stats.IsComplete {
		fmt.Fprintf(o.w, "Strategy on the clock: %s\n", model.StrategyDisplayName(d.TeamOnClock.Strategy))
	}
}

func (o *Output) printTeams(t response.Teams) {
	for i, team := range t.Teams {
		if i > 0 {
			fmt.Fprintln(o.w)
		}
		fmt.Fprintf(o.w, "%s (%d) - %s\n", team.Name, team.ID, model.StrategyDisplayName(team.Strategy))
		for _, slot := range team.Roster {
			if slot.Player == nil {
				fmt.Fprintf(o.w, "  %-5s -\n", slot.Position)
				continue
			}
			keeper := ""
			if slot.IsKeeper {
				keeper = " [K]"
			}
			fmt.Fprintf(o.w, "  %-5s %s (%s, pick %d)%s\n", slot.Position, slot.Player.Name, slot.Player.Position, slot.Player.PickNumber, keeper)
		}
		for _, p := range team.Unplaced {
			fmt.Fprintf(o.w, "  %-5s %s (%s, pick %d)\n", "+", p.Name, p.Position, p.PickNumber)
		}
	}
}

func (o *Output) printPlayers(p response.Players) {
	tw := o.table("RANK", "ID", "NAME", "POS", "TEAM", "TIER", "STATUS", "PICK", "FLAGS")
	for _, player := range p.Players {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			player.Rank, player.ID, player.Name, player.Position, player.Team,
			tierText(player), player.Status, pickText(player), flagText(player))
	}
	_ = tw.Flush()
	fmt.Fprintf(o.w, "%d players\n", p.Count)
}

func (o *Output) printPlayer(p model.Player) {
	fmt.Fprintf(o.w, "%s (%s)\n", p.Name, p.ID)
	fmt.Fprintf(o.w, "Position: %s  Team: %s  Rank: %d  Tier: %s\n", p.Position, p.Team, p.Rank, tierText(p))
	fmt.Fprintf(o.w, "Status: %s\n", p.Status)
	if p.Status != model.StatusAvailable {
		fmt.Fprintf(o.w, "Pick: %d (round %d) by %s\n", p.PickNumber, p.Round, p.TeamName)
	}
	if flags := flagText(p); flags != "" {
		fmt.Fprintf(o.w, "Flags: %s\n", flags)
	}
}

func (o *Output) printPick(p response.Pick) {
	fmt.Fprintf(o.w, "Pick %d: %s drafts %s (%s)\n", p.Player.PickNumber, p.Player.TeamName, p.Player.Name, p.Player.Position)
	if p.IsComplete {
		fmt.Fprintln(o.w, "Draft complete!")
	} else {
		fmt.Fprintf(o.w, "Next pick: %d\n", p.CurrentPick)
	}
}

func (o *Output) printUndo(u response.Undo) {
	if u.Player == nil {
		fmt.Fprintln(o.w, "Nothing to undo")
		return
	}
	fmt.Fprintf(o.w, "Undid pick %d: %s\n", u.CurrentPick, u.Player.Name)
}

func (o *Output) printAutoDraft(a response.AutoDraft) {
	state := "off"
	if a.Enabled {
		state = "on"
	}
	mode := "single pick"
	if a.Continuous {
		mode = "continuous"
	}
	fmt.Fprintf(o.w, "Auto-draft: %s (%s, %s)\n", state, mode, a.Speed)
}

func (o *Output) printSettings(s model.Settings) {
	fmt.Fprintf(o.w, "Teams: %d\n", s.NumTeams)
	fmt.Fprintf(o.w, "Style: %s\n", s.DraftStyle)
	fmt.Fprintf(o.w, "Speed: %s\n", s.AutoDraftSpeed)
	slots := make([]string, 0, len(s.Roster))
	for _, r := range s.Roster {
		slots = append(slots, fmt.Sprintf("%s x%d", r.Position, r.Count))
	}
	fmt.Fprintf(o.w, "Roster: %s\n", strings.Join(slots, ", "))

	tw := o.table("ID", "NAME", "STRATEGY", "VARIABILITY")
	for _, t := range s.Teams {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\n", t.ID, t.Name, t.Strategy, t.Variability)
	}
	_ = tw.Flush()
}

func (o *Output) printStrategies(s response.Strategies) {
	tw := o.table("NAME", "DISPLAY", "DESCRIPTION")
	for _, st := range s.Strategies {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", st.Name, st.DisplayName, st.Description)
	}
	_ = tw.Flush()
}

func (o *Output) printAvailability(rows []Availability) {
	tw := o.table("RANK", "NAME", "POS", "AVAILABLE")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.0f%%\n", r.Player.Rank, r.Player.Name, r.Player.Position, r.Probability*100)
	}
	_ = tw.Flush()
}

func tierText(p model.Player) string {
	if !p.HasTier() {
		return "-"
	}
	return fmt.Sprint(p.TierValue())
}

func pickText(p model.Player) string {
	if p.Status == model.StatusAvailable {
		return "-"
	}
	return fmt.Sprintf("%d/%s", p.PickNumber, p.TeamName)
}

func flagText(p model.Player) string {
	var flags []string
	if p.IsWatched {
		flags = append(flags, "watched")
	}
	if p.IsAvoided {
		flags = append(flags, "avoided")
	}
	return strings.Join(flags, ",")
}
