package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/utakatalp/league-forecaster/internal/league"
)

// Leagues is the contents of leagues.yaml.
type Leagues struct {
	Leagues []string     `yaml:"leagues"`
	Model   league.Model `yaml:"model"`
}

// DefaultLeagues covers the five leagues the match feed carries.
func DefaultLeagues() Leagues {
	return Leagues{
		Leagues: []string{"Premier League", "Bundesliga", "Ligue 1", "Serie A", "La Liga"},
		Model:   league.DefaultModel(),
	}
}

// LoadLeagues reads path over the defaults. A missing file is not an error.
// Model weights left out of the file keep their default values.
func LoadLeagues(path string) (Leagues, error) {
	out := DefaultLeagues()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return out, nil
	}
	if err != nil {
		return Leagues{}, fmt.Errorf("read leagues: %w", err)
	}

	var file Leagues
	file.Model = out.Model
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Leagues{}, fmt.Errorf("parse leagues: %w", err)
	}
	if len(file.Leagues) > 0 {
		out.Leagues = file.Leagues
	}
	out.Model = file.Model
	return out, nil
}
