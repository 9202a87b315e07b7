package handler

import (
	"net/http"

	"github.com/mcoot/draftboard/internal/api/apierr"
	"github.com/mcoot/draftboard/internal/api/request"
	"github.com/mcoot/draftboard/internal/api/response"
	"github.com/mcoot/draftboard/internal/model"
	"github.com/mcoot/draftboard/internal/services/bot"
	"github.com/mcoot/draftboard/internal/services/draft"
)

// SettingsHandler handles league settings and the auto-draft toggles
type SettingsHandler struct {
	engine *draft.Engine
	bot    *bot.Service
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(engine *draft.Engine, botService *bot.Service) *SettingsHandler {
	return &SettingsHandler{
		engine: engine,
		bot:    botService,
	}
}

// Get handles GET /api/v1/settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.engine.Settings())
}

// Update handles PUT /api/v1/settings
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var settings model.Settings
	if !decodeJSON(w, r, &settings) {
		return
	}
	if settings.AutoDraftSpeed == "" {
		settings.AutoDraftSpeed = h.engine.Settings().AutoDraftSpeed
	}

	if err := h.engine.UpdateSettings(settings); err != nil {
		WriteError(w, err)
		return
	}
	response.OK(w, h.engine.Settings())
}

// GetAutoDraft handles GET /api/v1/autodraft
func (h *SettingsHandler) GetAutoDraft(w http.ResponseWriter, r *http.Request) {
	h.writeAutoDraft(w)
}

// UpdateAutoDraft handles PUT /api/v1/autodraft
func (h *SettingsHandler) UpdateAutoDraft(w http.ResponseWriter, r *http.Request) {
	var req request.AutoDraftRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Speed != nil {
		if !req.Speed.IsValid() {
			WriteError(w, apierr.NewInvalidRequestError("unknown speed "+string(*req.Speed)))
			return
		}
		settings := h.engine.Settings()
		if settings.AutoDraftSpeed != *req.Speed {
			settings.AutoDraftSpeed = *req.Speed
			if err := h.engine.UpdateSettings(settings); err != nil {
				WriteError(w, err)
				return
			}
		}
	}
	if req.Continuous != nil {
		h.bot.SetContinuous(*req.Continuous)
	}
	if req.Enabled != nil {
		h.bot.SetAutoDrafting(*req.Enabled)
	}

	h.writeAutoDraft(w)
}

func (h *SettingsHandler) writeAutoDraft(w http.ResponseWriter) {
	response.OK(w, response.AutoDraftFromState(h.bot.State(), h.engine.Settings().AutoDraftSpeed))
}
