package ku

import "math"

// vegetationEffect applies the winter and summer vegetation layers to
// the snow-adjusted surface values, yielding the final ground-surface
// boundary condition Tgs/Ags. Each layer damps its season's temperature
// range by a one-dimensional heat-diffusion penetration factor; the two
// seasons are then recombined weighted by their durations, with the
// usual 2/pi harmonic conversion from amplitude to mean.
func vegetationEffect(v Vegetation, seas seasons, Tvg, Avg float64) (Tgs, Ags float64) {
	var detaA1, detaA2 float64

	if v.WinterHeight > 0 {
		p := v.WinterHeight * math.Sqrt(math.Pi/(2*v.FrozenDiffusivity*seas.cold))
		detaA1 = (Avg - Tvg) * (1 - math.Exp(-p))
	}
	if v.SummerHeight > 0 {
		p := v.SummerHeight * math.Sqrt(math.Pi/(2*v.ThawedDiffusivity*seas.warm))
		detaA2 = (Avg + Tvg) * (1 - math.Exp(-p))
	}

	detaAv := (detaA1*seas.cold + detaA2*seas.warm) / SecondsPerYear
	detaTv := (detaA1*seas.cold - detaA2*seas.warm) / SecondsPerYear * (2 / math.Pi)

	return Tvg + detaTv, Avg - detaAv
}
