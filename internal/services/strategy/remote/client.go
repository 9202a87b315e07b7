// Package remote evaluates draft strategies through another draftboard
// instance's auto-draft endpoint.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mcoot/draftboard/internal/model"
)

// EvaluatePath is the collaborator endpoint, relative to the base URL
const EvaluatePath = "/api/v1/auto-draft"

// EvaluateRequest is the body POSTed to the collaborator
type EvaluateRequest struct {
	AvailablePlayers []model.Player `json:"available_players"`
	TeamRoster       model.Team     `json:"team_roster"`
	Strategy         string         `json:"strategy"`
	Variability      float64        `json:"variability"`
}

// EvaluateResponse is the collaborator's answer. A nil PlayerID means the
// strategy found no pick.
type EvaluateResponse struct {
	PlayerID     *model.PlayerID `json:"player_id"`
	PlayerName   string          `json:"player_name,omitempty"`
	StrategyUsed string          `json:"strategy_used,omitempty"`
	Reasoning    string          `json:"reasoning,omitempty"`
}

// Client calls a remote strategy collaborator
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client. The timeout bounds each request on top of any
// context deadline.
func NewClient(baseURL, token string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.With(slog.String("component", "remote-strategy")),
	}
}

// Evaluate asks the collaborator to choose a player
func (c *Client) Evaluate(ctx context.Context, available []model.Player, team model.Team, strategy string, variability float64) (model.PlayerID, error) {
	data, err := json.Marshal(EvaluateRequest{
		AvailablePlayers: available,
		TeamRoster:       team,
		Strategy:         strategy,
		Variability:      variability,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+EvaluatePath, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", model.ErrStrategyUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %w", model.ErrStrategyUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("collaborator returned an error",
			slog.Int("status", resp.StatusCode),
			slog.String("strategy", strategy),
		)
		return "", fmt.Errorf("%w: HTTP %d: %s", model.ErrStrategyUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out EvaluateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("%w: failed to parse response: %w", model.ErrStrategyUnavailable, err)
	}
	if out.PlayerID == nil || *out.PlayerID == "" {
		return "", fmt.Errorf("%w: no player selected", model.ErrStrategyUnavailable)
	}
	return *out.PlayerID, nil
}
