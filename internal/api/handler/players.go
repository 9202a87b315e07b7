package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/draftboard/internal/api/apierr"
	"github.com/mcoot/draftboard/internal/api/request"
	"github.com/mcoot/draftboard/internal/api/response"
	"github.com/mcoot/draftboard/internal/model"
	"github.com/mcoot/draftboard/internal/services/draft"
)

// PlayerHandler handles player listing, flags and keepers
type PlayerHandler struct {
	engine *draft.Engine
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(engine *draft.Engine) *PlayerHandler {
	return &PlayerHandler{engine: engine}
}

// List handles GET /api/v1/players?status=&position=&watched=
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter draft.PlayerFilter

	if s := q.Get("status"); s != "" {
		status := model.PlayerStatus(s)
		if !status.IsValid() {
			WriteError(w, apierr.NewInvalidRequestError("unknown status "+strconv.Quote(s)))
			return
		}
		filter.Status = status
	}
	if s := q.Get("position"); s != "" {
		pos, err := model.ParsePosition(s)
		if err != nil {
			WriteError(w, apierr.NewInvalidRequestError("unknown position "+strconv.Quote(s)))
			return
		}
		filter.Position = pos
	}
	if s := q.Get("watched"); s != "" {
		watched, err := strconv.ParseBool(s)
		if err != nil {
			WriteError(w, apierr.NewInvalidRequestError("watched must be a boolean"))
			return
		}
		filter.WatchedOnly = watched
	}

	response.OK(w, response.PlayersFrom(h.engine.Players(filter)))
}

// Get handles GET /api/v1/players/{id}
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	player, err := h.engine.Player(model.PlayerID(mux.Vars(r)["id"]))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.OK(w, player)
}

// Patch handles PATCH /api/v1/players/{id}
func (h *PlayerHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["id"])

	var req request.FlagRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Watched == nil && req.Avoided == nil {
		WriteError(w, apierr.NewInvalidRequestError("watched or avoided is required"))
		return
	}
	if req.Watched != nil && req.Avoided != nil && *req.Watched && *req.Avoided {
		WriteError(w, apierr.NewInvalidRequestError("a player cannot be both watched and avoided"))
		return
	}

	var (
		player model.Player
		err    error
	)
	if req.Watched != nil && !*req.Watched {
		if player, err = h.engine.SetWatched(id, false); err != nil {
			WriteError(w, err)
			return
		}
	}
	if req.Avoided != nil && !*req.Avoided {
		if player, err = h.engine.SetAvoided(id, false); err != nil {
			WriteError(w, err)
			return
		}
	}
	if req.Watched != nil && *req.Watched {
		if player, err = h.engine.SetWatched(id, true); err != nil {
			WriteError(w, err)
			return
		}
	}
	if req.Avoided != nil && *req.Avoided {
		if player, err = h.engine.SetAvoided(id, true); err != nil {
			WriteError(w, err)
			return
		}
	}

	response.OK(w, player)
}

// Keepers handles GET /api/v1/keepers
func (h *PlayerHandler) Keepers(w http.ResponseWriter, r *http.Request) {
	response.OK(w, response.PlayersFrom(h.engine.Keepers()))
}

// AddKeeper handles POST /api/v1/keepers
func (h *PlayerHandler) AddKeeper(w http.ResponseWriter, r *http.Request) {
	var req request.KeeperRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.PlayerID == "" {
		WriteError(w, apierr.NewInvalidRequestError("player_id is required"))
		return
	}

	player, err := h.engine.AddKeeper(req.PlayerID, req.TeamID, req.Round)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, player)
}

// RemoveKeeper handles DELETE /api/v1/keepers/{player_id}
func (h *PlayerHandler) RemoveKeeper(w http.ResponseWriter, r *http.Request) {
	player, err := h.engine.RemoveKeeper(model.PlayerID(mux.Vars(r)["player_id"]))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.OK(w, player)
}
