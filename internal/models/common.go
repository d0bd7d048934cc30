package models

import (
	"fmt"
	"math"

	"github.com/san-kum/cellsim/internal/params"
)

const (
	faradayConst = 96485.33212 // C/mol
	gasConst     = 8.314462618 // J/(mol.K)

	// Stoichiometry is clamped away from the endpoints where the OCV fits
	// and sqrt kinetics blow up.
	stoichFloor = 1e-6
)

// electrode bundles the geometry, transport, and thermodynamic window of
// one porous electrode.
type electrode struct {
	radius       float64 // particle radius [m]
	diff         float64 // solid diffusivity [m2/s]
	thickness    float64 // electrode thickness [m]
	activeFrac   float64 // active material volume fraction
	porosity     float64
	cMax         float64 // max lithium concentration [mol/m3]
	kReact       float64 // reaction rate constant [m/s]
	stoichAtZero float64 // stoichiometry at 0% SOC
	stoichAtFull float64 // stoichiometry at 100% SOC
}

// surfaceArea is the total interfacial area a*L*A [m2] with specific area
// a = 3*eps_am/R.
func (e electrode) surfaceArea(plateArea float64) float64 {
	return 3.0 * e.activeFrac / e.radius * e.thickness * plateArea
}

// stoichAtSOC interpolates the stoichiometry window. For the positive
// electrode the window is decreasing (stoichAtZero > stoichAtFull).
func (e electrode) stoichAtSOC(soc float64) float64 {
	return e.stoichAtZero + soc*(e.stoichAtFull-e.stoichAtZero)
}

// socAtStoich inverts stoichAtSOC.
func (e electrode) socAtStoich(x float64) float64 {
	return (x - e.stoichAtZero) / (e.stoichAtFull - e.stoichAtZero)
}

func loadElectrode(set params.Set, radius, diff, thickness, active, porosity, cMax, kReact, atZero, atFull params.Key) (electrode, error) {
	var e electrode
	var err error

	read := func(dst *float64, k params.Key) {
		if err != nil {
			return
		}
		*dst, err = set.Float(k)
	}

	read(&e.radius, radius)
	read(&e.diff, diff)
	read(&e.thickness, thickness)
	read(&e.activeFrac, active)
	read(&e.porosity, porosity)
	read(&e.cMax, cMax)
	read(&e.kReact, kReact)
	read(&e.stoichAtZero, atZero)
	read(&e.stoichAtFull, atFull)
	if err != nil {
		return electrode{}, err
	}

	if e.radius <= 0 || e.diff <= 0 || e.thickness <= 0 || e.cMax <= 0 {
		return electrode{}, fmt.Errorf("models: non-positive electrode geometry (radius=%g diff=%g thickness=%g cMax=%g)", e.radius, e.diff, e.thickness, e.cMax)
	}
	return e, nil
}

func loadNegative(set params.Set) (electrode, error) {
	return loadElectrode(set,
		params.NegParticleRadius, params.NegDiffusivity, params.NegThickness,
		params.NegActiveFraction, params.NegPorosity, params.NegMaxConcentration,
		params.NegReactionRate, params.NegStoichAtZeroSOC, params.NegStoichAtFullSOC)
}

func loadPositive(set params.Set) (electrode, error) {
	return loadElectrode(set,
		params.PosParticleRadius, params.PosDiffusivity, params.PosThickness,
		params.PosActiveFraction, params.PosPorosity, params.PosMaxConcentration,
		params.PosReactionRate, params.PosStoichAtZeroSOC, params.PosStoichAtFullSOC)
}

func clampStoich(x float64) float64 {
	if x < stoichFloor {
		return stoichFloor
	}
	if x > 1-stoichFloor {
		return 1 - stoichFloor
	}
	return x
}

// exchangeCurrent returns the exchange current density i0 [A/m2] for a
// surface stoichiometry and an electrolyte concentration ratio ce/ceRef.
func (e electrode) exchangeCurrent(xSurf, ceRatio float64) float64 {
	xs := clampStoich(xSurf)
	if ceRatio < stoichFloor {
		ceRatio = stoichFloor
	}
	return faradayConst * e.kReact * e.cMax * math.Sqrt(ceRatio) * math.Sqrt(xs*(1-xs))
}

// overpotential returns the Butler-Volmer surface overpotential [V] for a
// molar flux j [mol/(m2.s)], symmetric transfer coefficients assumed.
func overpotential(j, i0, tempK float64) float64 {
	return 2 * gasConst * tempK / faradayConst * math.Asinh(faradayConst*j/(2*i0))
}

// particleDerivative computes dX/dt for the shell stoichiometries of a
// spherical particle under an outward molar surface flux [mol/(m2.s)].
// Finite-volume discretization on n equal-width shells; dst must have
// length n and is returned for chaining.
func particleDerivative(dst, shells []float64, diff, radius, surfFlux, cMax float64) []float64 {
	n := len(shells)
	dr := radius / float64(n)

	// Flux through the face at r_k, positive outward, scaled by r^2.
	flux := func(k int) float64 {
		if k == 0 {
			return 0
		}
		r := float64(k) * dr
		if k == n {
			return r * r * surfFlux / cMax
		}
		return -diff * r * r * (shells[k] - shells[k-1]) / dr
	}

	for k := 0; k < n; k++ {
		rIn := float64(k) * dr
		rOut := float64(k+1) * dr
		vol := (rOut*rOut*rOut - rIn*rIn*rIn) / 3.0
		dst[k] = (flux(k) - flux(k+1)) / vol
	}
	return dst
}

// surfaceStoich extrapolates the outer shell value to the particle surface
// assuming the boundary flux gradient over the outer half shell.
func surfaceStoich(shells []float64, diff, radius, surfFlux, cMax float64) float64 {
	n := len(shells)
	dr := radius / float64(n)
	return clampStoich(shells[n-1] - surfFlux/cMax*(dr/2)/diff)
}

// meanStoich volume-averages the shell stoichiometries.
func meanStoich(shells []float64, radius float64) float64 {
	n := len(shells)
	dr := radius / float64(n)
	total := 0.0
	volume := 0.0
	for k := 0; k < n; k++ {
		rIn := float64(k) * dr
		rOut := float64(k+1) * dr
		vol := rOut*rOut*rOut - rIn*rIn*rIn
		total += shells[k] * vol
		volume += vol
	}
	return total / volume
}

// bruggeman corrects a transport property for porosity.
func bruggeman(value, porosity float64) float64 {
	return value * math.Pow(porosity, 1.5)
}
