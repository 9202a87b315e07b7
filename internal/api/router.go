package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/mcoot/draftboard/internal/api/handler"
	"github.com/mcoot/draftboard/internal/api/middleware"
	"github.com/mcoot/draftboard/internal/services/auth"
	"github.com/mcoot/draftboard/internal/services/autosave"
	"github.com/mcoot/draftboard/internal/services/bot"
	"github.com/mcoot/draftboard/internal/services/draft"
	"github.com/mcoot/draftboard/internal/services/predict"
	"github.com/mcoot/draftboard/internal/services/strategy"
	"github.com/mcoot/draftboard/internal/storage"
	"github.com/mcoot/draftboard/internal/web/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *auth.Service
	Engine         *draft.Engine
	BotService     *bot.Service
	Strategies     *strategy.Service
	Predictor      *predict.Service
	Session        *storage.Session
	Saver          *autosave.Saver
	Hub            *sse.Hub
	AllowedOrigins []string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	draftHandler := handler.NewDraftHandler(cfg.Engine, cfg.BotService)
	playerHandler := handler.NewPlayerHandler(cfg.Engine)
	settingsHandler := handler.NewSettingsHandler(cfg.Engine, cfg.BotService)
	strategyHandler := handler.NewStrategyHandler(cfg.Engine, cfg.Strategies, cfg.Predictor)
	sessionHandler := handler.NewSessionHandler(cfg.Engine, cfg.Session, cfg.Saver, cfg.Hub, cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))
	api.Use(middleware.Auth(cfg.AuthService))

	// Draft routes
	api.HandleFunc("/draft", draftHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/draft/picks", draftHandler.Pick).Methods(http.MethodPost)
	api.HandleFunc("/draft/picks/last", draftHandler.Undo).Methods(http.MethodDelete)
	api.HandleFunc("/draft/restart", draftHandler.Restart).Methods(http.MethodPost)
	api.HandleFunc("/draft/new", draftHandler.New).Methods(http.MethodPost)
	api.HandleFunc("/teams", draftHandler.Teams).Methods(http.MethodGet)
	api.HandleFunc("/stats", draftHandler.Stats).Methods(http.MethodGet)

	// Player and keeper routes
	api.HandleFunc("/players", playerHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/players/{id}", playerHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/players/{id}", playerHandler.Patch).Methods(http.MethodPatch)
	api.HandleFunc("/keepers", playerHandler.Keepers).Methods(http.MethodGet)
	api.HandleFunc("/keepers", playerHandler.AddKeeper).Methods(http.MethodPost)
	api.HandleFunc("/keepers/{player_id}", playerHandler.RemoveKeeper).Methods(http.MethodDelete)

	// Settings routes
	api.HandleFunc("/settings", settingsHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/settings", settingsHandler.Update).Methods(http.MethodPut)
	api.HandleFunc("/autodraft", settingsHandler.GetAutoDraft).Methods(http.MethodGet)
	api.HandleFunc("/autodraft", settingsHandler.UpdateAutoDraft).Methods(http.MethodPut)

	// Strategy routes
	api.HandleFunc("/strategies", strategyHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/auto-draft", strategyHandler.Evaluate).Methods(http.MethodPost)
	api.HandleFunc("/predictions", strategyHandler.Predict).Methods(http.MethodPost)

	// Session routes
	api.HandleFunc("/health", sessionHandler.Health).Methods(http.MethodGet)
	api.HandleFunc("/import", sessionHandler.Import).Methods(http.MethodPost)
	api.HandleFunc("/session", sessionHandler.Clear).Methods(http.MethodDelete)
	api.HandleFunc("/events", sessionHandler.Events).Methods(http.MethodGet)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedOrigins: origins,
		AllowedHeaders: []string{"Authorization", "Content-Type", "Accept", "Last-Event-ID"},
	})

	return c.Handler(r)
}
