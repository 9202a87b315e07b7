package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mcoot/draftboard/internal/model"
)

func newEventsCmd() *cobra.Command {
	var since uint64

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Stream draft events",
		Long: `Connect to the server's event stream and print draft events as they happen.

Events include:
  - player_drafted / draft_undone: Picks made and reverted
  - keeper_added / keeper_removed: Keeper reservations changed
  - player_flagged: Watch or avoid flags changed
  - draft_restarted / draft_reset / draft_complete: Draft lifecycle
  - settings_updated / players_imported / snapshot_restored: Board replaced
  - autodraft_changed / autodraft_fallback: Auto-draft state and fallbacks

With --since the server first replays the events after that id, if it still
has them. Press Ctrl+C to disconnect.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return streamEvents(ctx, cmd.OutOrStdout(), since, cmd.Flags().Changed("since"))
		},
	}

	cmd.Flags().Uint64Var(&since, "since", 0, "Replay events after this event id")

	return cmd
}

// StreamEvent is one message read from the event stream
type StreamEvent struct {
	ID    string          `json:"id,omitempty"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func streamEvents(ctx context.Context, w io.Writer, since uint64, resume bool) error {
	url := strings.TrimSuffix(cfg.ServerURL, "/") + "/api/v1/events"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	if resume {
		req.Header.Set("Last-Event-ID", strconv.FormatUint(since, 10))
	}

	// No client timeout: the stream stays open until cancelled
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	jsonOutput := cfg.Output == "json"
	enc := json.NewEncoder(w)

	var current StreamEvent
	var data []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, ":"):
			// keepalive
		case strings.HasPrefix(line, "id: "):
			current.ID = strings.TrimPrefix(line, "id: ")
		case strings.HasPrefix(line, "event: "):
			current.Event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = append(data, strings.TrimPrefix(line, "data: "))
		case line == "":
			if current.Event != "" {
				current.Data = json.RawMessage(strings.Join(data, "\n"))
				if jsonOutput {
					if err := enc.Encode(current); err != nil {
						return err
					}
				} else {
					fmt.Fprintln(w, describeEvent(current))
				}
			}
			current = StreamEvent{}
			data = nil
		}
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, context.Canceled) && ctx.Err() == nil {
		return fmt.Errorf("stream error: %w", err)
	}
	if !jsonOutput {
		fmt.Fprintln(w, "Disconnected")
	}
	return nil
}

// describeEvent renders one stream event as a line of text
func describeEvent(se StreamEvent) string {
	prefix := se.Event
	if se.ID != "" {
		prefix = "#" + se.ID + " " + se.Event
	}

	var evt model.Event
	if err := json.Unmarshal(se.Data, &evt); err != nil || evt.Type == "" {
		return fmt.Sprintf("%s: %s", prefix, strings.ReplaceAll(string(se.Data), "\n", " "))
	}
	stamp := evt.Timestamp.Local().Format("15:04:05")
	return fmt.Sprintf("[%s] %s: %s", stamp, prefix, summarize(evt.Type, se.Data, evt.CurrentPick))
}

func summarize(t model.EventType, raw json.RawMessage, currentPick int) string {
	switch t {
	case model.EventPlayerDrafted, model.EventDraftUndone, model.EventKeeperAdded, model.EventKeeperRemoved:
		var p struct {
			Payload model.PickPayload `json:"payload"`
		}
		if json.Unmarshal(raw, &p) == nil && p.Payload.PlayerName != "" {
			pp := p.Payload
			s := fmt.Sprintf("%s (%s) pick %d, round %d, %s", pp.PlayerName, pp.Position, pp.PickNumber, pp.Round, pp.TeamName)
			if pp.Origin != "" {
				s += " [" + string(pp.Origin) + "]"
			}
			return s
		}
	case model.EventAutoDraftChanged:
		var p struct {
			Payload model.AutoDraftPayload `json:"payload"`
		}
		if json.Unmarshal(raw, &p) == nil {
			state := "off"
			if p.Payload.Enabled {
				state = "on"
			}
			return fmt.Sprintf("auto-draft %s (speed %s, continuous %t)", state, p.Payload.Speed, p.Payload.Continuous)
		}
	case model.EventAutoDraftFallback:
		var p struct {
			Payload model.FallbackPayload `json:"payload"`
		}
		if json.Unmarshal(raw, &p) == nil {
			return fmt.Sprintf("team %d fell back from %s: %s", p.Payload.TeamID, p.Payload.Strategy, p.Payload.Reason)
		}
	case model.EventPlayersImported, model.EventDraftReset:
		var p struct {
			Payload model.ImportPayload `json:"payload"`
		}
		if json.Unmarshal(raw, &p) == nil {
			return fmt.Sprintf("%d players loaded", p.Payload.PlayerCount)
		}
	}
	return fmt.Sprintf("now on pick %d", currentPick)
}
