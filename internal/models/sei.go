package models

import (
	"math"

	"github.com/san-kum/cellsim/internal/params"
)

// seiFilm is the reaction-limited SEI growth mechanism on the negative
// electrode. The film adds two states: thickness [m] and cumulative
// lithium inventory loss [C]. Growth rate is set purely by the side
// reaction kinetics (no transport limitation through the film).
type seiFilm struct {
	j0               float64 // kinetic rate constant [A/m2]
	molarVolume      float64 // partial molar volume [m3/mol]
	conductivity     float64 // film ionic conductivity [S/m]
	ocp              float64 // side reaction open-circuit potential [V]
	initialThickness float64 // [m]
}

func loadSEI(set params.Set) (seiFilm, error) {
	var f seiFilm
	var err error

	read := func(dst *float64, k params.Key) {
		if err != nil {
			return
		}
		*dst, err = set.Float(k)
	}

	read(&f.j0, params.SEIKineticRate)
	read(&f.molarVolume, params.SEIMolarVolume)
	read(&f.conductivity, params.SEIConductivity)
	read(&f.ocp, params.SEIOpenCircuitPotential)
	read(&f.initialThickness, params.SEIInitialThickness)
	if err != nil {
		return seiFilm{}, err
	}
	return f, nil
}

// sideCurrentDensity returns the SEI side reaction current density [A/m2],
// negative (reduction). Cathodic Tafel kinetics driven by the solid-phase
// potential of the negative electrode relative to the SEI reaction
// potential; the rate is negligible unless the electrode is being driven
// well below the SEI potential, i.e. during charge.
func (f seiFilm) sideCurrentDensity(etaN, xSurf, tempK float64) float64 {
	etaSEI := etaN + ocvNegative(xSurf) - f.ocp
	return -f.j0 * math.Exp(-faradayConst*etaSEI/(2*gasConst*tempK))
}

// growthRate converts a side reaction current density into film thickness
// growth [m/s]. Two electrons per SEI formula unit.
func (f seiFilm) growthRate(sideCurrent float64) float64 {
	return -sideCurrent * f.molarVolume / (2 * faradayConst)
}

// filmResistance returns the lumped film resistance [Ohm] over an
// interfacial area [m2].
func (f seiFilm) filmResistance(thickness, surfaceArea float64) float64 {
	return thickness / (f.conductivity * surfaceArea)
}
