package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utakatalp/league-forecaster/internal/league"
)

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("CURRENT_SEASON", "2023")
	t.Setenv("SIM_TRIALS", "not-a-number")

	cfg := Load()
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 2023, cfg.CurrentSeason)
	assert.Equal(t, 10000, cfg.SimTrials)
}

func TestLoad_SeasonDefaultsToCurrent(t *testing.T) {
	t.Setenv("CURRENT_SEASON", "")

	cfg := Load()
	assert.Equal(t, league.SeasonOf(time.Now()), cfg.CurrentSeason)
}

func TestLoadLeagues_MissingFile(t *testing.T) {
	l, err := LoadLeagues(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultLeagues(), l)
}

func TestLoadLeagues_PartialModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leagues.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
leagues:
  - Premier League
model:
  h2h_scale: 0.2
`), 0o644))

	l, err := LoadLeagues(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Premier League"}, l.Leagues)
	assert.InDelta(t, 0.2, l.Model.H2HScale, 1e-12)
	assert.InDelta(t, 0.2, l.Model.PointsWeight, 1e-12)
	assert.InDelta(t, 0.01, l.Model.MinLambda, 1e-12)
}

func TestLoadLeagues_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leagues.yaml")
	require.NoError(t, os.WriteFile(path, []byte("leagues: [unterminated"), 0o644))
	_, err := LoadLeagues(path)
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBDriver: "sqlite", SQLitePath: "data/x.db", DatabaseURL: "postgres://db"}
	assert.Equal(t, "data/x.db", cfg.DSN())

	cfg.DBDriver = "postgres"
	assert.Equal(t, "postgres://db", cfg.DSN())
}
