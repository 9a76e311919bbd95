package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/utakatalp/league-forecaster/internal/api"
	"github.com/utakatalp/league-forecaster/internal/config"
	"github.com/utakatalp/league-forecaster/internal/forecast"
	"github.com/utakatalp/league-forecaster/internal/store"
	"github.com/utakatalp/league-forecaster/internal/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.Init(telemetry.ParseLogLevel(cfg.LogLevel))
	log := telemetry.L()

	leagues, err := config.LoadLeagues(cfg.LeaguesPath)
	if err != nil {
		log.Fatalf("loading leagues: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := store.Connect(ctx, cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Fatalf("opening store: %v", err)
	}
	defer repo.Close()

	svc := forecast.New(repo, forecast.Options{
		Model:   leagues.Model,
		Trials:  cfg.SimTrials,
		Workers: cfg.SimWorkers,
		Logger:  log,
	})
	handler := api.NewHandler(svc, cfg.CurrentSeason, cfg.SimRatePerSec, log)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("http server: %v", err)
			os.Exit(1)
		}
	}()
	log.WithField("addr", cfg.HTTPAddr).WithField("driver", cfg.DBDriver).Info("server listening")

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
}
