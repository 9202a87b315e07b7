package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mcoot/draftboard/internal/dependencies/clock"
	"github.com/mcoot/draftboard/internal/dependencies/random"
	"github.com/mcoot/draftboard/internal/events"
	"github.com/mcoot/draftboard/internal/model"
	"github.com/mcoot/draftboard/internal/services/auth"
	"github.com/mcoot/draftboard/internal/services/autosave"
	"github.com/mcoot/draftboard/internal/services/bot"
	"github.com/mcoot/draftboard/internal/services/draft"
	"github.com/mcoot/draftboard/internal/services/importer"
	"github.com/mcoot/draftboard/internal/services/predict"
	"github.com/mcoot/draftboard/internal/services/strategy"
	"github.com/mcoot/draftboard/internal/services/strategy/remote"
	"github.com/mcoot/draftboard/internal/storage"
	"github.com/mcoot/draftboard/internal/storage/memory"
	redisstorage "github.com/mcoot/draftboard/internal/storage/redis"
	"github.com/mcoot/draftboard/internal/storage/sqlite"
	"github.com/mcoot/draftboard/internal/web/sse"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

// DefaultSessionID is used when no session id is configured
const DefaultSessionID model.SessionID = "default"

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage
	Session *storage.Session

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Engine      *draft.Engine
	Strategies  *strategy.Service
	Evaluator   bot.Evaluator
	BotService  *bot.Service
	Predictor   *predict.Service
	AuthService *auth.Service
	Saver       *autosave.Saver

	// Event fan-out
	Bus  *events.Bus
	Hub  *sse.Hub
	NATS *events.NATSPublisher

	logger *slog.Logger
}

// Config holds configuration for the application factory
type Config struct {
	// SessionID keys the persisted snapshot. Empty uses DefaultSessionID.
	SessionID model.SessionID
	// Settings is the league used when no snapshot exists.
	// If zero value, defaults to model.DefaultSettings()
	Settings model.Settings
	// AuthConfig holds configuration for the auth service (optional)
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLitePath is the database file (required if StorageType is "sqlite")
	SQLitePath string
	// StrategyURL points at a remote strategy collaborator. Empty evaluates
	// strategies in process.
	StrategyURL     string
	StrategyToken   string
	StrategyTimeout time.Duration
	// AutosaveQuietPeriod is how long the draft must be idle before saving
	AutosaveQuietPeriod time.Duration
	// NATS publishes draft events when set
	NATS *events.NATSConfig
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := newStorage(cfg)
	if err != nil {
		return nil, err
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	app, err := newWithDependencies(cfg, store, clk, rnd, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	if cfg.NATS != nil && cfg.NATS.URL != "" {
		publisher, err := events.ConnectNATS(*cfg.NATS, app.Session.ID(), logger)
		if err != nil {
			_ = app.Close(context.Background())
			return nil, err
		}
		app.NATS = publisher
		app.Bus.Subscribe(publisher.HandleEvent)
	}

	return app, nil
}

func newStorage(cfg Config) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	case StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		return sqlite.New(cfg.SQLitePath)
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'sqlite'")
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(cfg Config, store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) (*App, error) {
	settings := cfg.Settings
	if settings.NumTeams == 0 {
		settings = model.DefaultSettings()
	}
	sessionID := cfg.SessionID
	if sessionID == "" {
		sessionID = DefaultSessionID
	}

	engine, err := draft.New(settings, clk, logger)
	if err != nil {
		return nil, err
	}
	authService, err := auth.New(cfg.AuthConfig, clk)
	if err != nil {
		return nil, err
	}

	strategies := strategy.NewService(strategy.Defaults(), rnd, logger)
	var evaluator bot.Evaluator = strategies
	if cfg.StrategyURL != "" {
		evaluator = remote.NewClient(cfg.StrategyURL, cfg.StrategyToken, cfg.StrategyTimeout, logger)
	}
	botService := bot.NewService(engine, evaluator, clk, cfg.StrategyTimeout, logger)
	predictor := predict.NewService(strategy.Defaults(), rnd, logger)

	session := storage.ForSession(store, sessionID)
	saver := autosave.New(session, func() *model.Snapshot {
		snap := engine.Snapshot()
		snap.AutoDraft = botService.State()
		return snap
	}, clk, cfg.AutosaveQuietPeriod, logger)

	hub := sse.NewHub(sessionID, logger)
	go hub.Run()

	// Engine and orchestrator events fan out through one bus
	bus := events.NewBus(logger)
	bus.Subscribe(botService.HandleEvent)
	bus.Subscribe(saver.HandleEvent)
	bus.Subscribe(sse.NewBroadcaster(hub, logger).HandleEvent)
	engine.Subscribe(bus.Publish)
	botService.Subscribe(bus.Publish)

	return &App{
		Storage:     store,
		Session:     session,
		Clock:       clk,
		Random:      rnd,
		Engine:      engine,
		Strategies:  strategies,
		Evaluator:   evaluator,
		BotService:  botService,
		Predictor:   predictor,
		AuthService: authService,
		Saver:       saver,
		Bus:         bus,
		Hub:         hub,
		logger:      logger,
	}, nil
}

// Restore loads the saved session. It reports false when no snapshot exists.
func (a *App) Restore(ctx context.Context) (bool, error) {
	snap, err := a.Session.Load(ctx)
	if errors.Is(err, model.ErrSnapshotNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	// engine first so the orchestrator stays idle while the board changes
	if err := a.Engine.Restore(snap); err != nil {
		return false, err
	}
	a.BotService.Restore(snap.AutoDraft)
	return true, nil
}

// ImportFile loads rankings from a JSON or HTML file, chosen by extension
func (a *App) ImportFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var players []model.Player
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		players, err = importer.FromHTML(f)
	default:
		players, err = importer.FromJSON(f)
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	if err := a.Engine.Import(players); err != nil {
		return 0, err
	}
	return len(players), nil
}

// Start restores the saved session, or imports rankingsPath when there is
// nothing to restore
func (a *App) Start(ctx context.Context, rankingsPath string) error {
	restored, err := a.Restore(ctx)
	if err != nil {
		return err
	}
	if restored {
		stats := a.Engine.Stats()
		a.logger.Info("session restored",
			slog.String("session_id", string(a.Session.ID())),
			slog.Int("current_pick", stats.CurrentPick),
			slog.Int("drafted", stats.Drafted),
		)
		return nil
	}
	if rankingsPath == "" {
		return nil
	}
	n, err := a.ImportFile(rankingsPath)
	if err != nil {
		return err
	}
	a.logger.Info("rankings imported", slog.String("path", rankingsPath), slog.Int("players", n))
	return nil
}

// Close flushes pending saves and releases every resource
func (a *App) Close(ctx context.Context) error {
	var errs []error
	a.BotService.Close()
	if err := a.Saver.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	a.Hub.Close()
	if a.NATS != nil {
		if err := a.NATS.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.Storage.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
