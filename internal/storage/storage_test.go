package storage

import (
	"path/filepath"
	"testing"

	"github.com/permafrostlab/frostline/pkg/ku"
)

func testInputs() ku.Inputs {
	return ku.Inputs{
		Climate: ku.Climate{MeanAnnualTemp: -10.81, AnnualAmplitude: 19.04},
		Snow:    ku.Snow{Depth: 0.28, Density: 240},
		Soil: ku.SoilTexture{
			Fractions:    map[string]float64{"sand": 0.60, "silt": 0.30, "clay": 0.10},
			WaterContent: 0.41,
		},
	}
}

func TestSaveAndListRuns(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer store.Close()

	in := testInputs()
	res, err := ku.Solve(in)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	id1, err := store.SaveRun("barrow", in, res)
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if id1 == "" {
		t.Fatal("SaveRun returned an empty id")
	}
	if _, err := store.SaveRun("barrow", in, res); err != nil {
		t.Fatalf("second SaveRun: %v", err)
	}

	runs, err := store.Runs("barrow", 0)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, expected 2", len(runs))
	}
	r := runs[0]
	if r.Site != "barrow" || r.Regime != "frozen" {
		t.Errorf("unexpected run record: %+v", r)
	}
	if r.Tps != res.Tps || r.Zal != res.Zal {
		t.Errorf("stored Tps/Zal = %g/%g, expected %g/%g", r.Tps, r.Zal, res.Tps, res.Zal)
	}
	if r.CreatedAt.IsZero() {
		t.Error("run record has a zero timestamp")
	}

	limited, err := store.Runs("barrow", 1)
	if err != nil {
		t.Fatalf("Runs(limit=1): %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("got %d runs with limit 1", len(limited))
	}

	none, err := store.Runs("nowhere", 0)
	if err != nil {
		t.Fatalf("Runs(nowhere): %v", err)
	}
	if len(none) != 0 {
		t.Errorf("got %d runs for an unknown site", len(none))
	}
}
