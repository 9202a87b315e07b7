package handler

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/mcoot/draftboard/internal/api/apierr"
	"github.com/mcoot/draftboard/internal/api/response"
	"github.com/mcoot/draftboard/internal/model"
	"github.com/mcoot/draftboard/internal/services/autosave"
	"github.com/mcoot/draftboard/internal/services/draft"
	"github.com/mcoot/draftboard/internal/services/importer"
	"github.com/mcoot/draftboard/internal/storage"
	"github.com/mcoot/draftboard/internal/web/sse"
)

// maxImportBytes bounds uploaded rankings
const maxImportBytes = 10 << 20

// SessionHandler handles imports, persistence and the event stream
type SessionHandler struct {
	engine  *draft.Engine
	session *storage.Session
	saver   *autosave.Saver
	hub     *sse.Hub
	logger  *slog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(engine *draft.Engine, session *storage.Session, saver *autosave.Saver, hub *sse.Hub, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		engine:  engine,
		session: session,
		saver:   saver,
		hub:     hub,
		logger:  logger,
	}
}

// Health handles GET /api/v1/health
func (h *SessionHandler) Health(w http.ResponseWriter, r *http.Request) {
	stats := h.engine.Stats()
	response.OK(w, response.Health{
		Status:    "ok",
		SessionID: string(h.session.ID()),
		Players:   stats.Drafted + stats.Keepers + stats.Available,
	})
}

// Import handles POST /api/v1/import. HTML bodies are parsed as a rankings
// page, anything else as a JSON array of rows.
func (h *SessionHandler) Import(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxImportBytes)

	mediaType := "application/json"
	if ct := r.Header.Get("Content-Type"); ct != "" {
		parsed, _, err := mime.ParseMediaType(ct)
		if err != nil {
			WriteError(w, apierr.NewInvalidRequestError("invalid content type"))
			return
		}
		mediaType = parsed
	}

	var (
		players []model.Player
		err     error
	)
	switch mediaType {
	case "text/html", "application/xhtml+xml":
		players, err = importer.FromHTML(body)
	case "application/json", "text/json":
		players, err = importer.FromJSON(body)
	default:
		WriteError(w, apierr.NewInvalidRequestError("unsupported content type "+mediaType))
		return
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, apierr.NewInvalidRequestError("import body too large"))
			return
		}
		WriteError(w, err)
		return
	}

	if err := h.engine.Import(players); err != nil {
		WriteError(w, err)
		return
	}
	h.logger.Info("players imported",
		slog.Int("count", len(players)),
		slog.String("format", mediaType),
	)
	response.JSON(w, http.StatusCreated, response.Import{Imported: len(players)})
}

// Clear handles DELETE /api/v1/session. The in-memory draft is untouched;
// only the persisted snapshot is removed.
func (h *SessionHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.saver.Discard()
	if err := h.session.Clear(r.Context()); err != nil {
		WriteError(w, err)
		return
	}
	h.logger.Info("saved session cleared", slog.String("session_id", string(h.session.ID())))
	response.NoContent(w)
}

// Events handles GET /api/v1/events
func (h *SessionHandler) Events(w http.ResponseWriter, r *http.Request) {
	sse.ServeSSE(w, r, h.hub)
}
