// Command refresh recomputes standings and head-to-head records for every
// configured league and prints each TOTAL table.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/utakatalp/league-forecaster/internal/config"
	"github.com/utakatalp/league-forecaster/internal/forecast"
	"github.com/utakatalp/league-forecaster/internal/league"
	"github.com/utakatalp/league-forecaster/internal/store"
	"github.com/utakatalp/league-forecaster/internal/telemetry"
)

func main() {
	cfg := config.Load()
	season := flag.Int("season", cfg.CurrentSeason, "season to refresh (year it starts in)")
	only := flag.String("league", "", "refresh a single league")
	flag.Parse()

	telemetry.Init(telemetry.ParseLogLevel(cfg.LogLevel))
	log := telemetry.L()

	leagues, err := config.LoadLeagues(cfg.LeaguesPath)
	if err != nil {
		log.Fatalf("loading leagues: %v", err)
	}
	names := leagues.Leagues
	if *only != "" {
		names = []string{*only}
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
		Workers: cfg.SimWorkers,
		Logger:  log,
	})

	failed := 0
	for _, name := range names {
		rep, err := svc.RefreshLeague(ctx, name, *season)
		if err != nil {
			// retried wholesale on the next run
			log.WithField("league", name).WithError(err).Error("refresh failed")
			failed++
			continue
		}
		var total []league.StandingsRow
		for _, r := range rep.Standings {
			if r.Split == league.SplitTotal {
				total = append(total, r)
			}
		}
		league.PrintTable(os.Stdout, fmt.Sprintf("%s %d/%02d", name, *season, (*season+1)%100), total)
		fmt.Println()
	}

	if failed > 0 {
		stop()
		repo.Close()
		os.Exit(1)
	}
}
