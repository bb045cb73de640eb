// Package ku implements Kudryavtsev's analytical permafrost model as
// formalized by Sazonova & Zhang (2003). Given site-level climate, snow,
// vegetation, and soil-texture parameters, it computes the mean annual
// temperature at the top of permafrost (TTOP) and the active layer
// thickness (ALT) in closed form. The entire computation is a pure,
// deterministic function of its inputs: no iteration, no I/O, and no
// shared state, so Solve may be called concurrently from independent
// call sites.
package ku

import (
	"errors"
	"fmt"
	"math"
)

// Model-wide physical constants. Volumetric quantities are per unit
// volume of soil water, so they carry the density of water (1000 kg/m³).
const (
	// SecondsPerYear is the annual period tau used throughout the model.
	SecondsPerYear = 365.0 * 24.0 * 3600.0

	waterVolHeatCapacity = 4190.0 * 1000.0   // liquid water, J/(m³·K)
	iceVolHeatCapacity   = 2025.0 * 1000.0   // ice, J/(m³·K)
	waterVolLatentHeat   = 334000.0 * 1000.0 // fusion, J/m³ per unit water fraction
)

var (
	// ErrInvalidInput indicates a configuration that was rejected before
	// any computation began: a negative thickness, density, or water
	// content, a texture fraction outside [0,1], a reference to an
	// unknown texture class, or a climate with |Ta| >= Aa (the air
	// temperature never crosses its annual mean, leaving the season
	// partition undefined).
	ErrInvalidInput = errors.New("ku: invalid input")

	// ErrDomain indicates that an otherwise well-formed input drove the
	// closed-form solution outside its mathematical domain: an arcsine
	// argument beyond [-1,1], a non-positive logarithm operand, or a
	// vanishing denominator. No NaN or Inf is ever returned in its place.
	ErrDomain = errors.New("ku: input outside model domain")
)

// Climate holds the annual air temperature statistics driving the model.
type Climate struct {
	MeanAnnualTemp  float64 // Ta, °C
	AnnualAmplitude float64 // Aa, °C; must exceed |Ta|
}

// Snow describes the seasonal snow cover.
type Snow struct {
	Depth   float64 // Hsn, average season thickness, m
	Density float64 // rho_sn, kg/m³; required positive when Depth > 0
}

// Vegetation describes the insulating vegetation mat for each season.
type Vegetation struct {
	WinterHeight      float64 // Hvg1, m
	SummerHeight      float64 // Hvg2, m
	FrozenDiffusivity float64 // Dvf, m²/s, governs the winter layer
	ThawedDiffusivity float64 // Dvt, m²/s, governs the summer layer
}

// SoilTexture gives the composition of the soil column. Fractions are
// keyed by texture class name and are trusted to sum to roughly one;
// each fraction must lie in [0,1] and name a class present in the
// texture table, but the sum itself is a documented precondition rather
// than a runtime check.
type SoilTexture struct {
	Fractions    map[string]float64
	WaterContent float64 // W_vol, volumetric, dimensionless fraction in (0,1]
}

// Inputs is the full site configuration for one model invocation.
// A nil Classes slice selects DefaultTextureClasses.
type Inputs struct {
	Climate    Climate
	Snow       Snow
	Vegetation Vegetation
	Soil       SoilTexture
	Classes    []TextureClass
}

// Regime identifies which conductivity/capacity pair governs the
// closed-form solution, selected once per run by the sign of the TTOP
// numerator.
type Regime int

const (
	Frozen Regime = iota
	Thawed
)

func (r Regime) String() string {
	switch r {
	case Frozen:
		return "frozen"
	case Thawed:
		return "thawed"
	}
	return fmt.Sprintf("Regime(%d)", int(r))
}

// Diagnostics exposes the intermediate quantities of the pipeline for
// testing and reporting. All values are in SI units; temperatures in °C.
type Diagnostics struct {
	BulkDensity  float64 // composite soil bulk density, kg/m³
	HeatCapacity float64 // composite specific heat, J/(kg·K)
	Ct, Cf       float64 // thawed/frozen volumetric heat capacity, J/(m³·K)
	Kt, Kf       float64 // thawed/frozen conductivity, W/(m·K)
	LatentHeat   float64 // L, J/m³

	Ksn, Csn      float64 // snow conductivity and volumetric heat capacity
	Cef           float64 // effective frozen heat capacity under phase change
	Mu            float64 // snow/ground admittance ratio
	DampingFactor float64 // s; 1 means no snow attenuation

	Tgs, Ags float64 // ground-surface temperature and amplitude after snow+vegetation

	ColdSeason, WarmSeason float64 // tao1, tao2 in seconds; always sum to one year
	Zc                     float64 // characteristic penetration depth, m
}

// Result is the outcome of one model invocation.
type Result struct {
	Regime Regime
	Tps    float64 // TTOP: mean annual temperature at the permafrost table, °C
	Aps    float64 // temperature amplitude at the permafrost table, °C
	Zal    float64 // ALT: active layer thickness, m

	Diagnostics Diagnostics
}

// Solve runs the full pipeline: soil properties from texture, snow and
// vegetation insulation, regime selection, and the TTOP/ALT closed
// forms. Inputs are validated up front; errors wrap ErrInvalidInput or
// ErrDomain.
func Solve(in Inputs) (Result, error) {
	classes := in.Classes
	if classes == nil {
		classes = DefaultTextureClasses()
	}

	if err := validate(in, classes); err != nil {
		return Result{}, err
	}

	sp, err := soilProperties(in.Soil, classes)
	if err != nil {
		return Result{}, err
	}

	seas := seasonLengths(in.Climate)

	sn := snowEffect(in.Climate, in.Snow, sp, seas)
	Tgs, Ags := vegetationEffect(in.Vegetation, seas, sn.Tvg, sn.Avg)

	sol, err := solveTTOP(Tgs, Ags, sp)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Regime: sol.regime,
		Tps:    sol.Tps,
		Aps:    sol.Aps,
		Zal:    sol.Zal,
		Diagnostics: Diagnostics{
			BulkDensity:   sp.density,
			HeatCapacity:  sp.heatCapacity,
			Ct:            sp.Ct,
			Cf:            sp.Cf,
			Kt:            sp.Kt,
			Kf:            sp.Kf,
			LatentHeat:    sp.L,
			Ksn:           sn.Ksn,
			Csn:           sn.Csn,
			Cef:           sn.Cef,
			Mu:            sn.mu,
			DampingFactor: sn.s,
			Tgs:           Tgs,
			Ags:           Ags,
			ColdSeason:    seas.cold,
			WarmSeason:    seas.warm,
			Zc:            sol.Zc,
		},
	}, nil
}

func validate(in Inputs, classes []TextureClass) error {
	c := in.Climate
	if c.AnnualAmplitude <= 0 {
		return fmt.Errorf("%w: annual amplitude %g must be positive", ErrInvalidInput, c.AnnualAmplitude)
	}
	if math.Abs(c.MeanAnnualTemp) >= c.AnnualAmplitude {
		return fmt.Errorf("%w: |mean annual temperature| %g must be less than the annual amplitude %g",
			ErrInvalidInput, math.Abs(c.MeanAnnualTemp), c.AnnualAmplitude)
	}

	if in.Snow.Depth < 0 {
		return fmt.Errorf("%w: snow depth %g is negative", ErrInvalidInput, in.Snow.Depth)
	}
	if in.Snow.Density < 0 {
		return fmt.Errorf("%w: snow density %g is negative", ErrInvalidInput, in.Snow.Density)
	}
	if in.Snow.Depth > 0 && in.Snow.Density == 0 {
		return fmt.Errorf("%w: snow density must be positive when snow depth is %g", ErrInvalidInput, in.Snow.Depth)
	}

	v := in.Vegetation
	if v.WinterHeight < 0 || v.SummerHeight < 0 {
		return fmt.Errorf("%w: vegetation heights %g/%g must be non-negative", ErrInvalidInput, v.WinterHeight, v.SummerHeight)
	}
	if v.WinterHeight > 0 && v.FrozenDiffusivity <= 0 {
		return fmt.Errorf("%w: frozen vegetation diffusivity must be positive when winter height is %g",
			ErrInvalidInput, v.WinterHeight)
	}
	if v.SummerHeight > 0 && v.ThawedDiffusivity <= 0 {
		return fmt.Errorf("%w: thawed vegetation diffusivity must be positive when summer height is %g",
			ErrInvalidInput, v.SummerHeight)
	}

	w := in.Soil.WaterContent
	if w <= 0 || w > 1 {
		return fmt.Errorf("%w: volumetric water content %g must be in (0,1]", ErrInvalidInput, w)
	}
	if len(in.Soil.Fractions) == 0 {
		return fmt.Errorf("%w: no soil texture fractions given", ErrInvalidInput)
	}
	byName := make(map[string]TextureClass, len(classes))
	for _, tc := range classes {
		if err := tc.check(); err != nil {
			return err
		}
		byName[tc.Name] = tc
	}
	for name, f := range in.Soil.Fractions {
		if f < 0 || f > 1 {
			return fmt.Errorf("%w: texture fraction %q=%g outside [0,1]", ErrInvalidInput, name, f)
		}
		if _, ok := byName[name]; !ok {
			return fmt.Errorf("%w: unknown texture class %q", ErrInvalidInput, name)
		}
	}
	return nil
}

// seasons carries the partition of the year into the cold period (air
// below the annual mean crossing) and the warm remainder, in seconds.
// cold+warm is exactly one year.
type seasons struct {
	cold float64 // tao1
	warm float64 // tao2
}

func seasonLengths(c Climate) seasons {
	// Duration of the cold season from the first-harmonic annual cycle:
	// the fraction of the year the sinusoid spends below zero.
	cold := SecondsPerYear * (0.5 - math.Asin(c.MeanAnnualTemp/c.AnnualAmplitude)/math.Pi)
	return seasons{cold: cold, warm: SecondsPerYear - cold}
}
