// Package dbtest provides shared fixtures for tests that need a populated
// rankings store. This is an internal package for test infrastructure only.
package dbtest

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	// sqlite driver for temp-file stores.
	_ "modernc.org/sqlite"

	"github.com/okian/courtside/internal/config"
	"github.com/okian/courtside/internal/domain/query"
)

// Schema creates both tables in a form accepted by sqlite and postgres.
var Schema = []string{
	`CREATE TABLE competitors (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		country TEXT
	)`,
	`CREATE TABLE competitor_rankings (
		competitor_id INTEGER NOT NULL REFERENCES competitors(id),
		rank INTEGER NOT NULL,
		points INTEGER NOT NULL,
		movement INTEGER NOT NULL DEFAULT 0,
		competitions_played INTEGER NOT NULL DEFAULT 0
	)`,
}

// Competitor is one fixture row. An empty Country is stored as NULL and
// Unranked competitors get no ranking row.
type Competitor struct {
	ID                 int
	Name               string
	Country            string
	Rank               int
	Points             int
	Movement           int
	CompetitionsPlayed int
	Unranked           bool
}

// Sample is the three-competitor worked example.
func Sample() []Competitor {
	return []Competitor{
		{ID: 1, Name: "A", Country: "USA", Rank: 1, Points: 1000, Movement: 0, CompetitionsPlayed: 20},
		{ID: 2, Name: "B", Country: "USA", Rank: 2, Points: 900, Movement: 1, CompetitionsPlayed: 18},
		{ID: 3, Name: "C", Country: "FRA", Rank: 3, Points: 1100, Movement: -1, CompetitionsPlayed: 22},
	}
}

// Extended adds a points tie, a competitor without country, one without any
// ranking, and uneven country sizes to Sample.
//
//	USA: A 1000, B 900, I 501  -> 3 rows, avg 800.33
//	ESP: D 700, G 300          -> 2 rows, avg 500
//	FRA: C 1100, F 1100        -> 2 rows, avg 1100
func Extended() []Competitor {
	return append(Sample(),
		Competitor{ID: 4, Name: "D", Country: "ESP", Rank: 4, Points: 700, Movement: 2, CompetitionsPlayed: 15},
		Competitor{ID: 5, Name: "E", Rank: 5, Points: 650, Movement: -3, CompetitionsPlayed: 9},
		Competitor{ID: 6, Name: "F", Country: "FRA", Rank: 6, Points: 1100, Movement: 0, CompetitionsPlayed: 30},
		Competitor{ID: 7, Name: "G", Country: "ESP", Rank: 7, Points: 300, Movement: 5, CompetitionsPlayed: 4},
		Competitor{ID: 8, Name: "H", Country: "USA", Unranked: true},
		Competitor{ID: 9, Name: "I", Country: "USA", Rank: 8, Points: 501, Movement: -1, CompetitionsPlayed: 11},
	)
}

// Seed creates the schema and inserts fixtures through db.
func Seed(ctx context.Context, db *sql.DB, d query.Dialect, fixtures []Competitor) error {
	for _, stmt := range Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	insertCompetitor := query.Rebind(d, "INSERT INTO competitors (id, name, country) VALUES (?, ?, ?)")
	insertRanking := query.Rebind(d, `INSERT INTO competitor_rankings
		(competitor_id, rank, points, movement, competitions_played) VALUES (?, ?, ?, ?, ?)`)

	for _, c := range fixtures {
		var country any
		if c.Country != "" {
			country = c.Country
		}
		if _, err := db.ExecContext(ctx, insertCompetitor, c.ID, c.Name, country); err != nil {
			return fmt.Errorf("insert competitor %s: %w", c.Name, err)
		}
		if c.Unranked {
			continue
		}
		if _, err := db.ExecContext(ctx, insertRanking,
			c.ID, c.Rank, c.Points, c.Movement, c.CompetitionsPlayed); err != nil {
			return fmt.Errorf("insert ranking %s: %w", c.Name, err)
		}
	}
	return nil
}

// SQLite writes fixtures to a fresh database file under t.TempDir and
// returns coordinates pointing at it. Passing nil fixtures yields empty tables.
func SQLite(t testing.TB, fixtures []Competitor) config.DatabaseConfig {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rankings.db")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer func() { _ = db.Close() }()

	if err := Seed(context.Background(), db, query.Question, fixtures); err != nil {
		t.Fatalf("seed sqlite: %v", err)
	}
	return config.DatabaseConfig{Driver: config.DriverSQLite, Path: path}
}

// Missing returns sqlite coordinates of a file that does not exist.
func Missing(t testing.TB) config.DatabaseConfig {
	t.Helper()
	return config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "absent", "rankings.db"),
	}
}
