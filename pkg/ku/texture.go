package ku

import (
	"fmt"
	"math"
	"sort"
)

// TextureClass holds the fixed reference constants for one soil texture
// class. Conductivities are given as wet and dry end members; the model
// uses their arithmetic mean per class.
type TextureClass struct {
	Name         string
	BulkDensity  float64 // kg/m³
	HeatCapacity float64 // specific heat, J/(kg·K)
	ThawedDry    float64 // W/(m·K)
	ThawedWet    float64 // W/(m·K)
	FrozenDry    float64 // W/(m·K)
	FrozenWet    float64 // W/(m·K)
}

func (tc TextureClass) check() error {
	if tc.Name == "" {
		return fmt.Errorf("%w: texture class with empty name", ErrInvalidInput)
	}
	for _, v := range []float64{tc.BulkDensity, tc.HeatCapacity, tc.ThawedDry, tc.ThawedWet, tc.FrozenDry, tc.FrozenWet} {
		if v <= 0 {
			return fmt.Errorf("%w: texture class %q has a non-positive constant", ErrInvalidInput, tc.Name)
		}
	}
	return nil
}

// DefaultTextureClasses returns the built-in reference table for sand,
// silt, and clay. Callers may extend or replace it via Inputs.Classes;
// additional classes need no changes to the formulas.
func DefaultTextureClasses() []TextureClass {
	return []TextureClass{
		{Name: "sand", BulkDensity: 1500, HeatCapacity: 750, ThawedDry: 0.35, ThawedWet: 2.20, FrozenDry: 0.40, FrozenWet: 2.62},
		{Name: "silt", BulkDensity: 1400, HeatCapacity: 800, ThawedDry: 0.25, ThawedWet: 1.50, FrozenDry: 0.30, FrozenWet: 1.90},
		{Name: "clay", BulkDensity: 1300, HeatCapacity: 850, ThawedDry: 0.25, ThawedWet: 1.20, FrozenDry: 0.30, FrozenWet: 1.50},
	}
}

// soilProps are the composite thermal properties of the soil column.
type soilProps struct {
	density      float64 // kg/m³
	heatCapacity float64 // J/(kg·K)
	Ct, Cf       float64 // volumetric heat capacities, J/(m³·K)
	Kt, Kf       float64 // conductivities, W/(m·K)
	L            float64 // volumetric latent heat of the soil water, J/m³
}

// soilProperties composites the per-class constants into column-level
// thermal properties by fraction-weighted geometric means and adds the
// soil-water contributions to the volumetric heat capacities.
func soilProperties(tex SoilTexture, classes []TextureClass) (soilProps, error) {
	byName := make(map[string]TextureClass, len(classes))
	for _, tc := range classes {
		byName[tc.Name] = tc
	}

	// Fixed iteration order keeps the composite products bit-for-bit
	// reproducible regardless of map layout.
	names := make([]string, 0, len(tex.Fractions))
	for name := range tex.Fractions {
		names = append(names, name)
	}
	sort.Strings(names)

	density, heatCap, kt, kf := 1.0, 1.0, 1.0, 1.0
	for _, name := range names {
		tc, ok := byName[name]
		if !ok {
			return soilProps{}, fmt.Errorf("%w: unknown texture class %q", ErrInvalidInput, name)
		}
		f := tex.Fractions[name]
		density *= math.Pow(tc.BulkDensity, f)
		heatCap *= math.Pow(tc.HeatCapacity, f)
		kt *= math.Pow((tc.ThawedDry+tc.ThawedWet)/2, f)
		kf *= math.Pow((tc.FrozenDry+tc.FrozenWet)/2, f)
	}

	dryVol := density * heatCap
	return soilProps{
		density:      density,
		heatCapacity: heatCap,
		Ct:           dryVol + waterVolHeatCapacity*tex.WaterContent,
		Cf:           dryVol + iceVolHeatCapacity*tex.WaterContent,
		Kt:           kt,
		Kf:           kf,
		L:            waterVolLatentHeat * tex.WaterContent,
	}, nil
}
