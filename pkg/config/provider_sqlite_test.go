package config

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func createSiteDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sites.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE sites (
			name TEXT PRIMARY KEY,
			mean_annual_temp REAL NOT NULL,
			annual_amplitude REAL NOT NULL,
			snow_depth REAL,
			snow_density REAL,
			veg_winter_height REAL,
			veg_summer_height REAL,
			veg_frozen_diffusivity REAL,
			veg_thawed_diffusivity REAL,
			water_content REAL NOT NULL
		)`,
		`CREATE TABLE site_fractions (
			site TEXT NOT NULL REFERENCES sites(name),
			class TEXT NOT NULL,
			fraction REAL NOT NULL
		)`,
		`CREATE TABLE texture_classes (
			site TEXT NOT NULL REFERENCES sites(name),
			name TEXT NOT NULL,
			bulk_density REAL NOT NULL,
			heat_capacity REAL NOT NULL,
			thawed_dry REAL NOT NULL,
			thawed_wet REAL NOT NULL,
			frozen_dry REAL NOT NULL,
			frozen_wet REAL NOT NULL
		)`,
		`INSERT INTO sites VALUES ('barrow', -10.81, 19.04, 0.28, 240, 0, 0, NULL, NULL, 0.41)`,
		`INSERT INTO site_fractions VALUES ('barrow', 'sand', 0.60), ('barrow', 'silt', 0.30), ('barrow', 'clay', 0.10)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("executing %q: %v", stmt[:30], err)
		}
	}
	return path
}

func TestSQLiteProviderLoadSites(t *testing.T) {
	p, err := NewSQLiteProvider(createSiteDB(t))
	if err != nil {
		t.Fatalf("NewSQLiteProvider: %v", err)
	}
	defer p.Close()

	sites, err := p.LoadSites()
	if err != nil {
		t.Fatalf("LoadSites: %v", err)
	}
	if len(sites) != 1 {
		t.Fatalf("got %d sites, expected 1", len(sites))
	}

	site := sites[0]
	if site.Name != "barrow" {
		t.Errorf("site name = %q, expected barrow", site.Name)
	}
	if site.Snow.Depth != 0.28 || site.Snow.Density != 240 {
		t.Errorf("unexpected snow config: %+v", site.Snow)
	}
	if got := site.Soil.Fractions["silt"]; got != 0.30 {
		t.Errorf("silt fraction = %g, expected 0.30", got)
	}
	if len(site.Classes) != 0 {
		t.Errorf("got %d texture-class overrides, expected none", len(site.Classes))
	}
	if p.IsReadOnly() {
		t.Error("SQLite provider should not report read-only")
	}
}

func TestSQLiteProviderGetSite(t *testing.T) {
	p, err := NewSQLiteProvider(createSiteDB(t))
	if err != nil {
		t.Fatalf("NewSQLiteProvider: %v", err)
	}
	defer p.Close()

	site, err := p.GetSite("barrow")
	if err != nil {
		t.Fatalf("GetSite: %v", err)
	}
	if site.Climate.AnnualAmplitude != 19.04 {
		t.Errorf("amplitude = %g, expected 19.04", site.Climate.AnnualAmplitude)
	}
	if _, err := p.GetSite("nowhere"); err == nil {
		t.Error("GetSite accepted an unknown site name")
	}
}
