package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/draftboard/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodeNotAvailable        = "NOT_AVAILABLE"
	CodeNotKeeper           = "NOT_KEEPER"
	CodePickReserved        = "PICK_RESERVED"
	CodeCannotUndoKeeper    = "CANNOT_UNDO_KEEPER"
	CodeStalePick           = "STALE_PICK"
	CodeDraftComplete       = "DRAFT_COMPLETE"
	CodeInvalidTeam         = "INVALID_TEAM"
	CodeInvalidRound        = "INVALID_ROUND"
	CodePickCollision       = "PICK_COLLISION"
	CodeInvalidSettings     = "INVALID_SETTINGS"
	CodeSettingsConflict    = "SETTINGS_CONFLICT"
	CodeUnknownStrategy     = "UNKNOWN_STRATEGY"
	CodeStrategyUnavailable = "STRATEGY_UNAVAILABLE"
	CodeAutoDraftBusy       = "AUTODRAFT_BUSY"
	CodeSnapshotNotFound    = "SNAPSHOT_NOT_FOUND"
	CodeInvalidSnapshot     = "INVALID_SNAPSHOT"
	CodeInvalidImport       = "INVALID_IMPORT"
	CodePersistenceFailure  = "PERSISTENCE_FAILURE"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status an error is reported with
func Status(err error) int {
	return toHTTPError(err).status
}

// mapping pairs a sentinel error with its response. Messages come from the
// wrapped error so clients see which player, team or pick was at fault.
var mapping = []struct {
	target error
	status int
	code   string
}{
	{model.ErrPlayerNotFound, http.StatusNotFound, CodePlayerNotFound},
	{model.ErrSnapshotNotFound, http.StatusNotFound, CodeSnapshotNotFound},
	{model.ErrNotAvailable, http.StatusConflict, CodeNotAvailable},
	{model.ErrNotKeeper, http.StatusConflict, CodeNotKeeper},
	{model.ErrPickReserved, http.StatusConflict, CodePickReserved},
	{model.ErrCannotUndoKeeper, http.StatusConflict, CodeCannotUndoKeeper},
	{model.ErrStalePick, http.StatusConflict, CodeStalePick},
	{model.ErrDraftComplete, http.StatusConflict, CodeDraftComplete},
	{model.ErrPickCollision, http.StatusConflict, CodePickCollision},
	{model.ErrSettingsConflict, http.StatusConflict, CodeSettingsConflict},
	{model.ErrAutoDraftBusy, http.StatusConflict, CodeAutoDraftBusy},
	{model.ErrInvalidTeam, http.StatusBadRequest, CodeInvalidTeam},
	{model.ErrInvalidRound, http.StatusBadRequest, CodeInvalidRound},
	{model.ErrInvalidSettings, http.StatusBadRequest, CodeInvalidSettings},
	{model.ErrUnknownStrategy, http.StatusBadRequest, CodeUnknownStrategy},
	{model.ErrInvalidSnapshot, http.StatusBadRequest, CodeInvalidSnapshot},
	{model.ErrInvalidImport, http.StatusBadRequest, CodeInvalidImport},
	{model.ErrInvalidRequest, http.StatusBadRequest, CodeInvalidRequest},
	{model.ErrStrategyUnavailable, http.StatusBadGateway, CodeStrategyUnavailable},
	{model.ErrPersistenceFailure, http.StatusInternalServerError, CodePersistenceFailure},
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	for _, m := range mapping {
		if errors.Is(err, m.target) {
			return &httpError{m.status, APIError{m.code, err.Error()}}
		}
	}
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
