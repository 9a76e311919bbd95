package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/utakatalp/league-forecaster/internal/forecast"
	"github.com/utakatalp/league-forecaster/internal/league"
)

// Forecaster is the subset of forecast.Service the handlers call.
type Forecaster interface {
	ComputeStandings(ctx context.Context, leagueName string, season int) ([]league.StandingsRow, error)
	Standings(ctx context.Context, leagueName string, season int, split league.Split) ([]league.StandingsRow, error)
	ComputeHeadToHead(ctx context.Context, teamA, teamB string) (league.Head2HeadRecord, error)
	HeadToHead(ctx context.Context, teamA, teamB string) (league.Head2HeadRecord, error)
	ComputeTeamStats(ctx context.Context, team1, team2, mode string, season int) ([2]league.TeamStatsSummary, error)
	SimulateMatch(ctx context.Context, homeTeam, awayTeam string, season int, opts league.SimOptions) (league.SimulationResult, error)
}

// Handler exposes the forecaster over HTTP.
//
// Routes:
//
//	GET  /standings?league=&season=&split=
//	POST /management/standings?league=&season=
//	GET  /h2h/teams?team1=&team2=
//	POST /management/h2h?team1=&team2=
//	GET  /teamstats/{mode}?team1=&team2=&season=
//	GET  /matches/simulation?homeTeam=&awayTeam=&season=&n=&seed=
//	GET  /health
type Handler struct {
	svc           Forecaster
	currentSeason int
	simLimiter    *rate.Limiter
	log           logrus.FieldLogger
}

// NewHandler builds a Handler. simPerSec <= 0 disables the simulation
// rate limit.
func NewHandler(svc Forecaster, currentSeason, simPerSec int, log logrus.FieldLogger) *Handler {
	limit := rate.Inf
	if simPerSec > 0 {
		limit = rate.Limit(simPerSec)
	}
	return &Handler{
		svc:           svc,
		currentSeason: currentSeason,
		simLimiter:    rate.NewLimiter(limit, max(simPerSec, 1)),
		log:           log,
	}
}

// Router returns a gorilla/mux router with every route registered.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", h.health).Methods(http.MethodGet)
	r.HandleFunc("/standings", h.getStandings).Methods(http.MethodGet)
	r.HandleFunc("/h2h/teams", h.getHeadToHead).Methods(http.MethodGet)
	r.HandleFunc("/teamstats/{mode}", h.getTeamStats).Methods(http.MethodGet)
	r.HandleFunc("/matches/simulation", h.getSimulation).Methods(http.MethodGet)
	r.HandleFunc("/management/standings", h.updateStandings).Methods(http.MethodPost)
	r.HandleFunc("/management/h2h", h.updateHeadToHead).Methods(http.MethodPost)
	return r
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) getStandings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	leagueName := q.Get("league")
	if leagueName == "" {
		h.badRequest(w, "league is required")
		return
	}
	season, err := h.season(q.Get("season"))
	if err != nil {
		h.badRequest(w, err.Error())
		return
	}
	split := league.SplitTotal
	if s := q.Get("split"); s != "" {
		if split, err = league.ParseSplit(strings.ToUpper(s)); err != nil {
			h.badRequest(w, err.Error())
			return
		}
	}

	rows, err := h.svc.Standings(r.Context(), leagueName, season, split)
	if err != nil {
		h.fail(w, "fetching standings", err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) updateStandings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	leagueName := q.Get("league")
	if leagueName == "" {
		h.badRequest(w, "league is required")
		return
	}
	season, err := h.season(q.Get("season"))
	if err != nil {
		h.badRequest(w, err.Error())
		return
	}

	rows, err := h.svc.ComputeStandings(r.Context(), leagueName, season)
	if err != nil {
		h.fail(w, "updating standings", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("standings updated for %s %d", leagueName, season),
		"rows":    len(rows),
	})
}

func (h *Handler) getHeadToHead(w http.ResponseWriter, r *http.Request) {
	team1, team2, ok := h.teams(w, r, "team1", "team2")
	if !ok {
		return
	}
	rec, err := h.svc.HeadToHead(r.Context(), team1, team2)
	if err != nil {
		h.fail(w, "fetching head2head", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) updateHeadToHead(w http.ResponseWriter, r *http.Request) {
	team1, team2, ok := h.teams(w, r, "team1", "team2")
	if !ok {
		return
	}
	rec, err := h.svc.ComputeHeadToHead(r.Context(), team1, team2)
	if err != nil {
		h.fail(w, "updating head2head", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) getTeamStats(w http.ResponseWriter, r *http.Request) {
	mode := mux.Vars(r)["mode"]
	team1, team2, ok := h.teams(w, r, "team1", "team2")
	if !ok {
		return
	}
	season, err := h.season(r.URL.Query().Get("season"))
	if err != nil {
		h.badRequest(w, err.Error())
		return
	}

	stats, err := h.svc.ComputeTeamStats(r.Context(), team1, team2, mode, season)
	if err != nil {
		h.fail(w, "fetching team stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) getSimulation(w http.ResponseWriter, r *http.Request) {
	if !h.simLimiter.Allow() {
		writeError(w, http.StatusTooManyRequests, "too many simulation requests")
		return
	}

	home, away, ok := h.teams(w, r, "homeTeam", "awayTeam")
	if !ok {
		return
	}
	q := r.URL.Query()
	season, err := h.season(q.Get("season"))
	if err != nil {
		h.badRequest(w, err.Error())
		return
	}

	var opts league.SimOptions
	if s := q.Get("n"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			h.badRequest(w, "n must be a positive integer")
			return
		}
		opts.Trials = n
	}
	if s := q.Get("seed"); s != "" {
		seed, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			h.badRequest(w, "seed must be an unsigned integer")
			return
		}
		opts.Seed = &seed
	}

	res, err := h.svc.SimulateMatch(r.Context(), home, away, season, opts)
	if err != nil {
		h.fail(w, "simulating match", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// teams reads two required team names. Underscores in names stand for
// spaces, so Manchester_City and Manchester City are the same team.
func (h *Handler) teams(w http.ResponseWriter, r *http.Request, key1, key2 string) (string, string, bool) {
	q := r.URL.Query()
	a, b := teamName(q.Get(key1)), teamName(q.Get(key2))
	if a == "" || b == "" {
		h.badRequest(w, fmt.Sprintf("%s and %s are required", key1, key2))
		return "", "", false
	}
	return a, b, true
}

func teamName(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "_", " "))
}

func (h *Handler) season(s string) (int, error) {
	if s == "" {
		return h.currentSeason, nil
	}
	season, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid season %q", s)
	}
	return season, nil
}

func (h *Handler) badRequest(w http.ResponseWriter, msg string) {
	writeError(w, http.StatusBadRequest, msg)
}

// fail maps service errors onto status codes.
func (h *Handler) fail(w http.ResponseWriter, action string, err error) {
	switch {
	case errors.Is(err, forecast.ErrUnknownMode), errors.Is(err, forecast.ErrSameTeam):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, forecast.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		h.log.WithError(err).Error(action)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("error %s: %v", action, err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
