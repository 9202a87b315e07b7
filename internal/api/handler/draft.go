package handler

import (
	"net/http"

	"github.com/mcoot/draftboard/internal/api/apierr"
	"github.com/mcoot/draftboard/internal/api/request"
	"github.com/mcoot/draftboard/internal/api/response"
	"github.com/mcoot/draftboard/internal/services/bot"
	"github.com/mcoot/draftboard/internal/services/draft"
)

// DraftHandler handles the draft board endpoints
type DraftHandler struct {
	engine *draft.Engine
	bot    *bot.Service
}

// NewDraftHandler creates a new draft handler
func NewDraftHandler(engine *draft.Engine, botService *bot.Service) *DraftHandler {
	return &DraftHandler{
		engine: engine,
		bot:    botService,
	}
}

// Get handles GET /api/v1/draft
func (h *DraftHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings := h.engine.Settings()
	resp := response.Draft{
		Stats:     h.engine.Stats(),
		Settings:  settings,
		AutoDraft: response.AutoDraftFromState(h.bot.State(), settings.AutoDraftSpeed),
	}
	if team, ok := h.engine.TeamOnClock(); ok {
		resp.TeamOnClock = &team
	}
	response.OK(w, resp)
}

// Pick handles POST /api/v1/draft/picks
func (h *DraftHandler) Pick(w http.ResponseWriter, r *http.Request) {
	var req request.PickRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.PlayerID == "" {
		WriteError(w, apierr.NewInvalidRequestError("player_id is required"))
		return
	}

	player, err := h.engine.DraftPlayer(req.PlayerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.Pick{
		Player:      player,
		CurrentPick: h.engine.CurrentPick(),
		IsComplete:  h.engine.IsComplete(),
	})
}

// Undo handles DELETE /api/v1/draft/picks/last
func (h *DraftHandler) Undo(w http.ResponseWriter, r *http.Request) {
	player, err := h.engine.UndoLastDraft()
	if err != nil {
		WriteError(w, err)
		return
	}
	response.OK(w, response.Undo{
		Player:      player,
		CurrentPick: h.engine.CurrentPick(),
	})
}

// Restart handles POST /api/v1/draft/restart
func (h *DraftHandler) Restart(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.RestartDraft(); err != nil {
		WriteError(w, err)
		return
	}
	h.Get(w, r)
}

// New handles POST /api/v1/draft/new
func (h *DraftHandler) New(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.NewDraft(); err != nil {
		WriteError(w, err)
		return
	}
	h.Get(w, r)
}

// Teams handles GET /api/v1/teams
func (h *DraftHandler) Teams(w http.ResponseWriter, r *http.Request) {
	response.OK(w, response.Teams{Teams: h.engine.Teams()})
}

// Stats handles GET /api/v1/stats
func (h *DraftHandler) Stats(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.engine.Stats())
}
