package store

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/lib/pq"
)

type dialect struct {
	name   string
	schema []string
	rebind func(query string) string
	// last5 column encoding
	idsValue func(ids []int64) driver.Valuer
	idsDest  func(ids *[]int64) any
}

var postgresDialect = dialect{
	name: "postgres",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS matches (
			id         BIGSERIAL   PRIMARY KEY,
			league     TEXT        NOT NULL,
			kickoff    TIMESTAMPTZ NOT NULL,
			home_team  TEXT        NOT NULL,
			away_team  TEXT        NOT NULL,
			fthg       INT,
			ftag       INT,
			hs  INT, "as" INT,
			hst INT, ast  INT,
			hc  INT, ac   INT,
			hy  INT, ay   INT,
			hr  INT, ar   INT,
			hf  INT, af   INT,
			UNIQUE (kickoff, home_team, away_team)
		);`,
		`CREATE INDEX IF NOT EXISTS matches_home_idx ON matches (home_team, kickoff);`,
		`CREATE INDEX IF NOT EXISTS matches_away_idx ON matches (away_team, kickoff);`,
		`CREATE TABLE IF NOT EXISTS standings (
			league        TEXT NOT NULL,
			team          TEXT NOT NULL,
			season        INT  NOT NULL,
			split         TEXT NOT NULL,
			position      INT  NOT NULL DEFAULT 0,
			played        INT  NOT NULL DEFAULT 0,
			won           INT  NOT NULL DEFAULT 0,
			drawn         INT  NOT NULL DEFAULT 0,
			lost          INT  NOT NULL DEFAULT 0,
			goals_for     INT  NOT NULL DEFAULT 0,
			goals_against INT  NOT NULL DEFAULT 0,
			form          TEXT NOT NULL DEFAULT '',
			recent_gf     INT  NOT NULL DEFAULT 0,
			recent_ga     INT  NOT NULL DEFAULT 0,
			PRIMARY KEY (team, season, split)
		);`,
		`CREATE TABLE IF NOT EXISTS head2head (
			team1      TEXT     NOT NULL,
			team2      TEXT     NOT NULL,
			mp         INT      NOT NULL DEFAULT 0,
			team1_wins INT      NOT NULL DEFAULT 0,
			team2_wins INT      NOT NULL DEFAULT 0,
			draws      INT      NOT NULL DEFAULT 0,
			last5      BIGINT[] NOT NULL DEFAULT '{}',
			PRIMARY KEY (team1, team2)
		);`,
	},
	rebind: dollarPlaceholders,
	idsValue: func(ids []int64) driver.Valuer {
		return pq.Int64Array(ids)
	},
	idsDest: func(ids *[]int64) any {
		return (*pq.Int64Array)(ids)
	},
}

var sqliteDialect = dialect{
	name: "sqlite",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS matches (
			id         INTEGER  PRIMARY KEY AUTOINCREMENT,
			league     TEXT     NOT NULL,
			kickoff    DATETIME NOT NULL,
			home_team  TEXT     NOT NULL,
			away_team  TEXT     NOT NULL,
			fthg       INTEGER,
			ftag       INTEGER,
			hs  INTEGER, "as" INTEGER,
			hst INTEGER, ast  INTEGER,
			hc  INTEGER, ac   INTEGER,
			hy  INTEGER, ay   INTEGER,
			hr  INTEGER, ar   INTEGER,
			hf  INTEGER, af   INTEGER,
			UNIQUE (kickoff, home_team, away_team)
		);`,
		`CREATE INDEX IF NOT EXISTS matches_home_idx ON matches (home_team, kickoff);`,
		`CREATE INDEX IF NOT EXISTS matches_away_idx ON matches (away_team, kickoff);`,
		`CREATE TABLE IF NOT EXISTS standings (
			league        TEXT    NOT NULL,
			team          TEXT    NOT NULL,
			season        INTEGER NOT NULL,
			split         TEXT    NOT NULL,
			position      INTEGER NOT NULL DEFAULT 0,
			played        INTEGER NOT NULL DEFAULT 0,
			won           INTEGER NOT NULL DEFAULT 0,
			drawn         INTEGER NOT NULL DEFAULT 0,
			lost          INTEGER NOT NULL DEFAULT 0,
			goals_for     INTEGER NOT NULL DEFAULT 0,
			goals_against INTEGER NOT NULL DEFAULT 0,
			form          TEXT    NOT NULL DEFAULT '',
			recent_gf     INTEGER NOT NULL DEFAULT 0,
			recent_ga     INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (team, season, split)
		);`,
		`CREATE TABLE IF NOT EXISTS head2head (
			team1      TEXT    NOT NULL,
			team2      TEXT    NOT NULL,
			mp         INTEGER NOT NULL DEFAULT 0,
			team1_wins INTEGER NOT NULL DEFAULT 0,
			team2_wins INTEGER NOT NULL DEFAULT 0,
			draws      INTEGER NOT NULL DEFAULT 0,
			last5      TEXT    NOT NULL DEFAULT '[]',
			PRIMARY KEY (team1, team2)
		);`,
	},
	rebind: func(q string) string { return q },
	idsValue: func(ids []int64) driver.Valuer {
		return jsonIDs(ids)
	},
	idsDest: func(ids *[]int64) any {
		return (*jsonIDs)(ids)
	},
}

// dollarPlaceholders rewrites ? placeholders to $1, $2, ...
func dollarPlaceholders(q string) string {
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// placeholders returns "?, ?, ..." with n entries.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// jsonIDs stores match IDs as a JSON array in a TEXT column.
type jsonIDs []int64

func (j jsonIDs) Value() (driver.Value, error) {
	if j == nil {
		j = jsonIDs{}
	}
	b, err := json.Marshal([]int64(j))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (j *jsonIDs) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*j = jsonIDs{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("scan last5: unexpected type %T", src)
	}
	ids := []int64{}
	if err := json.Unmarshal(raw, &ids); err != nil {
		return fmt.Errorf("scan last5: %w", err)
	}
	*j = ids
	return nil
}
