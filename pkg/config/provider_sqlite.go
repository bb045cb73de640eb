package config

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteProvider implements SiteProvider for SQLite site databases.
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider opens the given SQLite database and verifies the
// connection.
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}
	return &SQLiteProvider{db: db, dbPath: dbPath}, nil
}

// LoadSites loads every site, its texture fractions, and any
// texture-class overrides from the database.
func (s *SQLiteProvider) LoadSites() ([]SiteData, error) {
	query := `
		SELECT name, mean_annual_temp, annual_amplitude,
		       snow_depth, snow_density,
		       veg_winter_height, veg_summer_height,
		       veg_frozen_diffusivity, veg_thawed_diffusivity,
		       water_content
		FROM sites
		ORDER BY name
	`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query sites: %w", err)
	}
	defer rows.Close()

	var sites []SiteData
	for rows.Next() {
		var site SiteData
		var snowDepth, snowDensity sql.NullFloat64
		var vegWinter, vegSummer, dvf, dvt sql.NullFloat64

		err := rows.Scan(
			&site.Name, &site.Climate.MeanAnnualTemp, &site.Climate.AnnualAmplitude,
			&snowDepth, &snowDensity, &vegWinter, &vegSummer, &dvf, &dvt,
			&site.Soil.WaterContent,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		site.Snow = SnowData{Depth: snowDepth.Float64, Density: snowDensity.Float64}
		site.Vegetation = VegetationData{
			WinterHeight:      vegWinter.Float64,
			SummerHeight:      vegSummer.Float64,
			FrozenDiffusivity: dvf.Float64,
			ThawedDiffusivity: dvt.Float64,
		}
		sites = append(sites, site)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sites: %w", err)
	}

	for i := range sites {
		if err := s.loadFractions(&sites[i]); err != nil {
			return nil, err
		}
		if err := s.loadClasses(&sites[i]); err != nil {
			return nil, err
		}
	}
	return sites, nil
}

func (s *SQLiteProvider) loadFractions(site *SiteData) error {
	rows, err := s.db.Query(`SELECT class, fraction FROM site_fractions WHERE site = ? ORDER BY class`, site.Name)
	if err != nil {
		return fmt.Errorf("failed to query fractions for %q: %w", site.Name, err)
	}
	defer rows.Close()

	site.Soil.Fractions = make(map[string]float64)
	for rows.Next() {
		var class string
		var fraction float64
		if err := rows.Scan(&class, &fraction); err != nil {
			return fmt.Errorf("failed to scan fraction for %q: %w", site.Name, err)
		}
		site.Soil.Fractions[class] = fraction
	}
	return rows.Err()
}

func (s *SQLiteProvider) loadClasses(site *SiteData) error {
	query := `
		SELECT name, bulk_density, heat_capacity,
		       thawed_dry, thawed_wet, frozen_dry, frozen_wet
		FROM texture_classes WHERE site = ? ORDER BY name
	`
	rows, err := s.db.Query(query, site.Name)
	if err != nil {
		return fmt.Errorf("failed to query texture classes for %q: %w", site.Name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var tc TextureClassData
		err := rows.Scan(&tc.Name, &tc.BulkDensity, &tc.HeatCapacity,
			&tc.ThawedDry, &tc.ThawedWet, &tc.FrozenDry, &tc.FrozenWet)
		if err != nil {
			return fmt.Errorf("failed to scan texture class for %q: %w", site.Name, err)
		}
		site.Classes = append(site.Classes, tc)
	}
	return rows.Err()
}

// GetSite returns one site by name.
func (s *SQLiteProvider) GetSite(name string) (*SiteData, error) {
	sites, err := s.LoadSites()
	if err != nil {
		return nil, err
	}
	return findSite(sites, name)
}

// IsReadOnly returns false; SQLite site databases can be edited in
// place with the sqlite3 shell.
func (s *SQLiteProvider) IsReadOnly() bool { return false }

// Close closes the database connection.
func (s *SQLiteProvider) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
