package ku

import (
	"fmt"
	"math"
)

// solution is the solver's terminal state: the selected regime, the
// regime-specific constants that produced it, and the three outputs.
type solution struct {
	regime Regime
	Tps    float64
	Aps    float64
	Zc     float64
	Zal    float64
}

// solveTTOP selects the governing thermal regime from the sign of the
// TTOP numerator and evaluates the closed-form TTOP and ALT equations.
// All arcsine, logarithm, and division operands are checked where they
// are consumed; violations report ErrDomain rather than propagating a
// non-finite value.
func solveTTOP(Tgs, Ags float64, sp soilProps) (solution, error) {
	if Ags <= 0 {
		return solution{}, fmt.Errorf("%w: ground-surface amplitude %g is non-positive", ErrDomain, Ags)
	}
	ratio := Tgs / Ags
	if math.Abs(ratio) > 1 {
		return solution{}, fmt.Errorf("%w: |Tgs|=%g exceeds ground-surface amplitude %g", ErrDomain, math.Abs(Tgs), Ags)
	}

	// Weighted mean of the surface temperature over the two half-cycles,
	// with the conductivity asymmetry captured by the arcsine term.
	num := 0.5*Tgs*(sp.Kf+sp.Kt) +
		Ags*(sp.Kt-sp.Kf)/math.Pi*(ratio*math.Asin(ratio)+math.Sqrt(1-ratio*ratio))

	sol := solution{}
	var kStar, C, K float64
	if num <= 0 {
		sol.regime = Frozen
		kStar, C, K = sp.Kf, sp.Cf, sp.Kf
	} else {
		sol.regime = Thawed
		kStar, C, K = sp.Kt, sp.Ct, sp.Kt
	}
	if kStar <= 0 || C <= 0 {
		return solution{}, fmt.Errorf("%w: non-positive %s-ground properties K=%g C=%g", ErrDomain, sol.regime, kStar, C)
	}

	sol.Tps = num / kStar

	// Amplitude at the permafrost table from the transcendental balance,
	// closed form. The log operands and the log itself must stay positive,
	// which requires Ags > |Tps|.
	halfL := sp.L / (2 * C)
	absTps := math.Abs(sol.Tps)
	if Ags+halfL <= 0 || absTps+halfL <= 0 {
		return solution{}, fmt.Errorf("%w: non-positive logarithm operand in amplitude balance", ErrDomain)
	}
	if Ags <= absTps {
		return solution{}, fmt.Errorf("%w: |Tps|=%g reaches ground-surface amplitude %g", ErrDomain, absTps, Ags)
	}
	sol.Aps = (Ags-absTps)/math.Log((Ags+halfL)/(absTps+halfL)) - halfL

	// Active layer thickness: leading diffusion-depth term plus the
	// latent-heat correction, both normalized by 2*Aps*C + L.
	denom := 2*sol.Aps*C + sp.L
	if denom <= 0 {
		return solution{}, fmt.Errorf("%w: non-positive thaw-depth denominator %g", ErrDomain, denom)
	}
	sol.Zc = 2 * (Ags - absTps) * math.Sqrt(K*SecondsPerYear*C/math.Pi) / denom

	diffusionDepth := math.Sqrt(K * SecondsPerYear / (math.Pi * C))
	corrDenom := 2*sol.Aps*C*sol.Zc + sp.L*sol.Zc + denom*diffusionDepth
	if corrDenom <= 0 {
		return solution{}, fmt.Errorf("%w: non-positive correction denominator %g", ErrDomain, corrDenom)
	}
	sol.Zal = (2*(Ags-absTps)*math.Sqrt(K*C*SecondsPerYear/math.Pi) +
		(2*sol.Aps*C*sol.Zc+sp.L*sol.Zc)*sp.L*diffusionDepth/corrDenom) / denom

	return sol, nil
}
