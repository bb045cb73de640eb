package ku

import "math"

// snowResult carries the snow-adjusted surface boundary values together
// with the intermediates worth surfacing in diagnostics.
type snowResult struct {
	Tvg, Avg float64 // temperature and amplitude below the snow layer

	Ksn, Csn float64
	Cef      float64
	mu       float64
	s        float64
}

// snowConductivity estimates snow thermal conductivity from density
// using the Sturm et al. (1997) quadratic; density in kg/m³.
func snowConductivity(density float64) float64 {
	r := density / 1000.0 // g/cm³
	return 0.138 - 1.01*r + 3.233*r*r
}

// snowEffect computes the damping of the annual air-temperature wave by
// the snow layer. The layer is treated as a thermal transmission line
// over the frozen ground half-space: the admittance mismatch mu sets an
// oscillatory reflection correction on top of the plain exponential
// attenuation. With zero snow depth the damping factor is exactly one
// and the air values pass through unchanged.
func snowEffect(c Climate, sn Snow, sp soilProps, seas seasons) snowResult {
	out := snowResult{Tvg: c.MeanAnnualTemp, Avg: c.AnnualAmplitude, s: 1}
	if sn.Depth == 0 {
		return out
	}

	out.Ksn = snowConductivity(sn.Density)
	out.Csn = sn.Density * 2090.0 // specific heat of ice, J/(kg·K)

	// Sensible-to-latent heat ratios for the amplitude and the mean.
	alpha := 2 * c.AnnualAmplitude * sp.Cf / sp.L
	beta := 2 * math.Abs(c.MeanAnnualTemp) * sp.Cf / sp.L

	// Effective frozen heat capacity accounting for phase-change energy
	// released over the freezing front's annual excursion.
	out.Cef = sp.Cf * (alpha - beta) / ((alpha - beta) - math.Log((alpha+1)/(beta+1)))

	out.mu = math.Sqrt(out.Ksn*out.Csn) / math.Sqrt(sp.Kf*out.Cef)

	// Damping over the cold season: exponential attenuation plus the
	// reflection cross-term, normalized so s -> 1 as depth -> 0.
	diffusivity := out.Ksn / out.Csn
	x := sn.Depth * math.Sqrt(math.Pi/(diffusivity*seas.cold))
	out.s = (math.Exp(-2*x) + out.mu*math.Exp(-x)*math.Cos(x)) / (1 + out.mu)

	detaA := c.AnnualAmplitude * (1 - out.s)
	detaAsn := detaA * seas.cold / SecondsPerYear
	detaTsn := detaAsn * 2 / math.Pi // first-harmonic amplitude-to-mean conversion

	out.Tvg = c.MeanAnnualTemp + detaTsn
	out.Avg = c.AnnualAmplitude - detaAsn
	return out
}
