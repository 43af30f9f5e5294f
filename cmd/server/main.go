// Package main is the entry point for the inflation impact planner.
// The application projects inflation paths, simulates purchasing-power and
// portfolio scenarios, and serves allocation recommendations over HTTP.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/asterios/inflacast/internal/config"
	"github.com/asterios/inflacast/internal/database"
	"github.com/asterios/inflacast/internal/modules/forecast"
	"github.com/asterios/inflacast/internal/modules/impact"
	"github.com/asterios/inflacast/internal/modules/inflation"
	inflationjobs "github.com/asterios/inflacast/internal/modules/inflation/jobs"
	"github.com/asterios/inflacast/internal/modules/planning"
	"github.com/asterios/inflacast/internal/modules/profile"
	"github.com/asterios/inflacast/internal/modules/projection"
	"github.com/asterios/inflacast/internal/modules/reports"
	"github.com/asterios/inflacast/internal/modules/scenarios"
	"github.com/asterios/inflacast/internal/scheduler"
	"github.com/asterios/inflacast/internal/server"
	"github.com/asterios/inflacast/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Str("data_dir", cfg.DataDir).Msg("Starting inflacast")

	db, err := database.New(database.Config{Path: cfg.DatabasePath(), Name: "planner"})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open planner database")
	}
	defer db.Close()

	profiles := profile.NewRepository(db.Conn(), log)
	if err := profiles.Init(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize profile store")
	}
	snapshots := inflation.NewRepository(db.Conn(), log)
	if err := snapshots.Init(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize inflation store")
	}

	handlers := server.NewHandlers(
		profiles,
		snapshots,
		forecast.New(forecast.DefaultConfig(), log),
		scenarios.New(log),
		projection.New(log),
		planning.NewService(log),
		impact.NewService(log),
		reports.NewGenerator(log),
		cfg.SimulationSeed,
		log,
	)

	srv := server.New(server.Config{
		Log:      log,
		DB:       db,
		Config:   cfg,
		Handlers: handlers,
	})

	// Scheduled refresh keeps the stored snapshot moving; the job is also
	// exposed for manual triggering through the API.
	sched := scheduler.New(log)
	refreshJob := inflationjobs.NewRefreshJob(snapshots, cfg.SimulationSeed, log)
	if err := sched.AddJob(cfg.RefreshSchedule, refreshJob); err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.RefreshSchedule).Msg("Failed to schedule inflation refresh")
	}
	srv.SetRefreshJob(sched, refreshJob)
	sched.Start()
	defer sched.Stop()

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Fatal().Err(err).Msg("HTTP server failed")
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("Shutdown complete")
}
