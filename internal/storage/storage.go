// Package storage archives model runs in a local SQLite database so
// repeated solves for a site can be compared over time.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/permafrostlab/frostline/internal/log"
	"github.com/permafrostlab/frostline/pkg/ku"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	site TEXT NOT NULL,
	created_at TEXT NOT NULL,
	regime TEXT NOT NULL,
	mean_annual_temp REAL NOT NULL,
	annual_amplitude REAL NOT NULL,
	snow_depth REAL NOT NULL,
	snow_density REAL NOT NULL,
	water_content REAL NOT NULL,
	tps REAL NOT NULL,
	aps REAL NOT NULL,
	zal REAL NOT NULL,
	tgs REAL NOT NULL,
	ags REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_site_created ON runs (site, created_at);
`

// RunRecord is one archived model run.
type RunRecord struct {
	ID        string
	Site      string
	CreatedAt time.Time
	Regime    string
	Tps       float64
	Aps       float64
	Zal       float64
	Tgs       float64
	Ags       float64
}

// Store is a SQLite-backed run archive.
type Store struct {
	db *sql.DB
}

// New opens (creating if necessary) the archive database at path.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open run archive: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize run archive schema: %w", err)
	}
	return &Store{db: db}, nil
}

// SaveRun records one solve for a site and returns the generated run id.
func (s *Store) SaveRun(site string, in ku.Inputs, res ku.Result) (string, error) {
	id := uuid.New().String()
	_, err := s.db.Exec(`
		INSERT INTO runs (id, site, created_at, regime,
			mean_annual_temp, annual_amplitude, snow_depth, snow_density, water_content,
			tps, aps, zal, tgs, ags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, site, time.Now().UTC().Format(time.RFC3339Nano), res.Regime.String(),
		in.Climate.MeanAnnualTemp, in.Climate.AnnualAmplitude,
		in.Snow.Depth, in.Snow.Density, in.Soil.WaterContent,
		res.Tps, res.Aps, res.Zal,
		res.Diagnostics.Tgs, res.Diagnostics.Ags,
	)
	if err != nil {
		return "", fmt.Errorf("failed to save run for %q: %w", site, err)
	}
	log.Debugf("archived run %s for site %s", id, site)
	return id, nil
}

// Runs returns up to limit archived runs for a site, newest first. A
// non-positive limit returns all of them.
func (s *Store) Runs(site string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`
		SELECT id, site, created_at, regime, tps, aps, zal, tgs, ags
		FROM runs WHERE site = ?
		ORDER BY created_at DESC LIMIT ?`, site, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs for %q: %w", site, err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var r RunRecord
		var created string
		if err := rows.Scan(&r.ID, &r.Site, &created, &r.Regime, &r.Tps, &r.Aps, &r.Zal, &r.Tgs, &r.Ags); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("failed to parse run timestamp %q: %w", created, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Close closes the archive database.
func (s *Store) Close() error {
	return s.db.Close()
}
