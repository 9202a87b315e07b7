package handler

import (
	"errors"
	"net/http"

	"github.com/mcoot/draftboard/internal/api/apierr"
	"github.com/mcoot/draftboard/internal/api/request"
	"github.com/mcoot/draftboard/internal/api/response"
	"github.com/mcoot/draftboard/internal/model"
	"github.com/mcoot/draftboard/internal/services/draft"
	"github.com/mcoot/draftboard/internal/services/predict"
	"github.com/mcoot/draftboard/internal/services/strategy"
	"github.com/mcoot/draftboard/internal/services/strategy/remote"
)

// StrategyHandler serves the strategy registry, strategy evaluation for
// remote collaborators, and availability predictions
type StrategyHandler struct {
	engine     *draft.Engine
	strategies *strategy.Service
	predictor  *predict.Service
}

// NewStrategyHandler creates a new strategy handler
func NewStrategyHandler(engine *draft.Engine, strategies *strategy.Service, predictor *predict.Service) *StrategyHandler {
	return &StrategyHandler{
		engine:     engine,
		strategies: strategies,
		predictor:  predictor,
	}
}

// List handles GET /api/v1/strategies
func (h *StrategyHandler) List(w http.ResponseWriter, r *http.Request) {
	response.OK(w, response.Strategies{Strategies: h.strategies.Info()})
}

// Evaluate handles POST /api/v1/auto-draft. A strategy that finds nothing
// to draft answers with a null player_id rather than an error.
func (h *StrategyHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req remote.EvaluateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Variability < 0 || req.Variability > 1 {
		WriteError(w, apierr.NewInvalidRequestError("variability must be between 0 and 1"))
		return
	}

	st, err := h.strategies.Lookup(req.Strategy)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := remote.EvaluateResponse{
		StrategyUsed: st.Name(),
		Reasoning:    st.Description(),
	}
	id, err := h.strategies.Evaluate(r.Context(), req.AvailablePlayers, req.TeamRoster, st.Name(), req.Variability)
	switch {
	case errors.Is(err, model.ErrStrategyUnavailable):
		response.OK(w, resp)
		return
	case err != nil:
		WriteError(w, err)
		return
	}

	resp.PlayerID = &id
	for _, p := range req.AvailablePlayers {
		if p.ID == id {
			resp.PlayerName = p.Name
			break
		}
	}
	response.OK(w, resp)
}

// Predict handles POST /api/v1/predictions
func (h *StrategyHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var req request.PredictRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Trials < 0 || req.Trials > predict.MaxTrials {
		WriteError(w, apierr.NewInvalidRequestError("trials out of range"))
		return
	}

	settings := h.engine.Settings()
	variability := make(map[int]float64, len(settings.Teams))
	for _, t := range settings.Teams {
		variability[t.ID] = t.Variability
	}
	keepers := h.engine.Keepers()
	reserved := make([]int, 0, len(keepers))
	for _, k := range keepers {
		reserved = append(reserved, k.PickNumber)
	}

	trials := req.Trials
	if trials == 0 {
		trials = predict.DefaultTrials
	}
	probabilities, err := h.predictor.Predict(r.Context(), predict.Request{
		Available:       h.engine.AvailablePlayers(),
		Teams:           h.engine.Teams(),
		CurrentPick:     h.engine.CurrentPick(),
		MyTeamID:        req.MyTeamID,
		Settings:        settings,
		Trials:          trials,
		TeamVariability: variability,
		Reserved:        reserved,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.Prediction{
		MyTeamID:      req.MyTeamID,
		Trials:        trials,
		Probabilities: probabilities,
	})
}
