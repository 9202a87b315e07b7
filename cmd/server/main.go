package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mcoot/draftboard/internal/api"
	"github.com/mcoot/draftboard/internal/config"
	"github.com/mcoot/draftboard/internal/events"
	"github.com/mcoot/draftboard/internal/factory"
	"github.com/mcoot/draftboard/internal/model"
	"github.com/mcoot/draftboard/internal/services/auth"
	redisstorage "github.com/mcoot/draftboard/internal/storage/redis"
)

func main() {
	var configPath string

	cmd := &cobra.Command{
		Use:   "draftboard",
		Short: "Serve the fantasy draft board API",
		Long: `Serve the draft board API for one draft session.

Configuration comes from the YAML file given by --config (or DRAFTBOARD_CONFIG),
then a .env file in the working directory, then the environment.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", os.Getenv("DRAFTBOARD_CONFIG"), "path to a YAML config file")

	if err := cmd.Execute(); err != nil {
		slog.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// Set up logging with JSON output
	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// Create application factory
	app, err := factory.New(factoryConfig(cfg, logger))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Start(ctx, cfg.RankingsPath); err != nil {
		_ = app.Close(context.Background())
		return err
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		AuthService:    app.AuthService,
		Engine:         app.Engine,
		BotService:     app.BotService,
		Strategies:     app.Strategies,
		Predictor:      app.Predictor,
		Session:        app.Session,
		Saver:          app.Saver,
		Hub:            app.Hub,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	serverCfg := api.DefaultServerConfig()
	serverCfg.Host = cfg.Server.Host
	serverCfg.Port = cfg.Server.Port
	serverCfg.ReadTimeout = cfg.Server.ReadTimeout
	serverCfg.WriteTimeout = cfg.Server.WriteTimeout
	serverCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout

	server := api.NewServer(router, serverCfg, logger)
	server.OnShutdown(app.Hub.Close)
	if err := server.Listen(); err != nil {
		_ = app.Close(context.Background())
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received")
		return server.Shutdown(context.Background())
	})

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("session_id", cfg.SessionID),
		slog.String("storage", cfg.Storage.Type),
	)

	serveErr := g.Wait()
	// saves any pending change before storage closes
	closeErr := app.Close(context.Background())
	if err := errors.Join(serveErr, closeErr); err != nil {
		return err
	}

	logger.Info("server stopped")
	return nil
}

func factoryConfig(cfg config.Config, logger *slog.Logger) factory.Config {
	fc := factory.Config{
		SessionID:           model.SessionID(cfg.SessionID),
		Settings:            cfg.League,
		AuthConfig:          auth.DefaultConfig(),
		Logger:              logger,
		StorageType:         cfg.Storage.Type,
		SQLitePath:          cfg.Storage.SQLitePath,
		StrategyURL:         cfg.Strategy.RemoteURL,
		StrategyToken:       cfg.Strategy.Token,
		StrategyTimeout:     cfg.Strategy.Timeout,
		AutosaveQuietPeriod: cfg.Autosave.QuietPeriod,
	}
	fc.AuthConfig.PasswordHash = cfg.Auth.PasswordHash

	if cfg.Storage.Type == config.StorageRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.Storage.RedisURL
		redisCfg.SnapshotTTL = cfg.Storage.SnapshotTTL
		fc.RedisConfig = &redisCfg
	}

	if cfg.NATS.URL != "" {
		natsCfg := events.DefaultNATSConfig()
		natsCfg.URL = cfg.NATS.URL
		if cfg.NATS.SubjectPrefix != "" {
			natsCfg.SubjectPrefix = cfg.NATS.SubjectPrefix
		}
		fc.NATS = &natsCfg
	}

	return fc
}
