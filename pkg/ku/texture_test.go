package ku

import (
	"math"
	"testing"
)

func TestSoilPropertiesSingleClass(t *testing.T) {
	// A pure-sand column degenerates the geometric means to the class
	// constants themselves.
	tex := SoilTexture{
		Fractions:    map[string]float64{"sand": 1.0},
		WaterContent: 0.25,
	}
	sp, err := soilProperties(tex, DefaultTextureClasses())
	if err != nil {
		t.Fatalf("soilProperties: %v", err)
	}

	sand := DefaultTextureClasses()[0]
	if sand.Name != "sand" {
		t.Fatalf("default table order changed, first class is %q", sand.Name)
	}
	approx(t, "density", sp.density, sand.BulkDensity, 1e-9)
	approx(t, "heat capacity", sp.heatCapacity, sand.HeatCapacity, 1e-9)
	approx(t, "Kt", sp.Kt, (sand.ThawedDry+sand.ThawedWet)/2, 1e-9)
	approx(t, "Kf", sp.Kf, (sand.FrozenDry+sand.FrozenWet)/2, 1e-9)
	approx(t, "L", sp.L, 334000.0*1000.0*0.25, 1e-3)

	if sp.Ct <= sp.Cf {
		t.Errorf("Ct = %g should exceed Cf = %g (liquid water holds more heat than ice)", sp.Ct, sp.Cf)
	}
}

func TestSoilPropertiesComposite(t *testing.T) {
	tex := SoilTexture{
		Fractions:    map[string]float64{"sand": 0.60, "silt": 0.30, "clay": 0.10},
		WaterContent: 0.41,
	}
	sp, err := soilProperties(tex, DefaultTextureClasses())
	if err != nil {
		t.Fatalf("soilProperties: %v", err)
	}
	approx(t, "density", sp.density, 1448.40, 0.01)
	approx(t, "heat capacity", sp.heatCapacity, 774.29, 0.01)
	approx(t, "Kt", sp.Kt, 1.0763, 1e-4)
	approx(t, "Kf", sp.Kf, 1.3039, 1e-4)
}

func TestSoilPropertiesUnknownClass(t *testing.T) {
	tex := SoilTexture{
		Fractions:    map[string]float64{"gravel": 1.0},
		WaterContent: 0.3,
	}
	if _, err := soilProperties(tex, DefaultTextureClasses()); err == nil {
		t.Fatal("soilProperties accepted an unknown texture class")
	}
}

func TestSolveWithExtendedTable(t *testing.T) {
	// Adding a class requires no formula changes; a peat-bearing column
	// must still solve cleanly.
	classes := append(DefaultTextureClasses(), TextureClass{
		Name: "peat", BulkDensity: 300, HeatCapacity: 1900,
		ThawedDry: 0.08, ThawedWet: 0.50, FrozenDry: 0.10, FrozenWet: 1.00,
	})

	in := referenceInputs()
	in.Classes = classes
	in.Soil.Fractions = map[string]float64{"sand": 0.40, "silt": 0.30, "clay": 0.10, "peat": 0.20}

	res, err := Solve(in)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if math.IsNaN(res.Zal) || res.Zal <= 0 {
		t.Errorf("Zal = %g, expected finite positive thickness", res.Zal)
	}
	// Peat insulates: the column conducts less than the mineral-only mix.
	mineral, err := Solve(referenceInputs())
	if err != nil {
		t.Fatalf("Solve mineral: %v", err)
	}
	if res.Diagnostics.Kt >= mineral.Diagnostics.Kt {
		t.Errorf("Kt with peat = %g, expected below mineral %g", res.Diagnostics.Kt, mineral.Diagnostics.Kt)
	}
}

func TestTextureClassCheck(t *testing.T) {
	bad := TextureClass{Name: "sand", BulkDensity: 1500, HeatCapacity: 750, ThawedDry: 0.35, ThawedWet: 2.2, FrozenDry: 0.4}
	if err := bad.check(); err == nil {
		t.Error("check accepted a class with a zero conductivity")
	}
	if err := (TextureClass{}).check(); err == nil {
		t.Error("check accepted an empty class")
	}
}
