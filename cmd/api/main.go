// Package main provides the entry point for the event planner API server.
package main

import (
	"context"
	"os"

	"github.com/narvanalabs/eventplanner/internal/api"
	"github.com/narvanalabs/eventplanner/internal/assistant"
	"github.com/narvanalabs/eventplanner/internal/auth"
	"github.com/narvanalabs/eventplanner/internal/planner"
	"github.com/narvanalabs/eventplanner/internal/shutdown"
	"github.com/narvanalabs/eventplanner/internal/store"
	"github.com/narvanalabs/eventplanner/internal/store/memstore"
	pgstore "github.com/narvanalabs/eventplanner/internal/store/postgres"
	"github.com/narvanalabs/eventplanner/pkg/config"
	"github.com/narvanalabs/eventplanner/pkg/logger"
)

func main() {
	log := logger.Default()

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	log = logger.FromConfig(cfg.LogLevel, cfg.LogFormat)

	loc, err := cfg.Location()
	if err != nil {
		log.Error("invalid EVENT_TIMEZONE", "error", err)
		os.Exit(1)
	}

	st, err := openStore(cfg, log)
	if err != nil {
		log.Error("failed to open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}

	authService := auth.NewService(&auth.Config{
		JWTSecret:   []byte(cfg.JWTSecret),
		TokenExpiry: cfg.JWTExpiry,
	}, log.WithComponent("auth").Logger)

	plannerService := planner.NewService(st,
		planner.WithLocation(loc),
		planner.WithLogger(log.WithComponent("planner").Logger),
	)

	var assistantService *assistant.Service
	if cfg.AI.Enabled {
		client := assistant.NewClient(assistant.ClientConfig{
			URL:     cfg.AI.APIURL,
			APIKey:  cfg.AI.APIKey,
			Model:   cfg.AI.Model,
			Timeout: cfg.AI.Timeout,
		})
		assistantService = assistant.NewService(client, log.WithComponent("assistant").Logger)
		if cfg.AI.APIKey == "" {
			log.Warn("AI_API_KEY not set, assistant endpoints will serve fallbacks")
		}
	}

	server := api.NewServer(cfg, st, plannerService, assistantService, authService, log.Logger)

	coordinator := shutdown.NewCoordinator(
		shutdown.WithTimeout(cfg.ShutdownTimeout),
		shutdown.WithLogger(log.Logger),
	)
	// Registered first so it closes last.
	coordinator.Register(shutdown.NewCloserComponent("store", st))
	coordinator.Register(shutdown.NewFuncComponent("http", server.Shutdown))

	ctx, cancel := context.WithCancelCause(context.Background())
	go func() {
		// Start only returns early when the listener fails.
		if err := server.Start(context.Background()); err != nil {
			log.Error("server error", "error", err)
			cancel(err)
		}
	}()

	coordinator.WaitForSignal(ctx)
	coordinator.Wait()
	log.Info("server stopped", "exit_code", coordinator.ExitCode())
	if context.Cause(ctx) != nil {
		os.Exit(1)
	}
	os.Exit(coordinator.ExitCode())
}

func openStore(cfg *config.Config, log *logger.Logger) (store.Store, error) {
	if cfg.StoreDriver == config.DriverMemory {
		log.Warn("using in-memory store, data is lost on restart")
		return memstore.New(), nil
	}

	pgCfg := pgstore.DefaultConfig(cfg.DatabaseDSN)
	pgCfg.MaxOpenConns = cfg.DBMaxOpenConns
	pg, err := pgstore.NewPostgresStore(pgCfg, log.WithComponent("store").Logger)
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			return nil, err
		}
		log.Info("database schema up to date")
	}
	return pg, nil
}
