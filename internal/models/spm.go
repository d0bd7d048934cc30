package models

import (
	"github.com/san-kum/cellsim/internal/params"
	"github.com/san-kum/cellsim/internal/sim"
)

// Shells per particle for the single particle variants.
const spmShells = 10

// SPM is the single particle model: one representative particle per
// electrode with finite-volume spherical diffusion, uniform electrolyte
// concentration, Butler-Volmer kinetics, and a lumped series resistance.
//
// State layout: [negative shells | positive shells | SEI thickness,
// lithium loss] with the trailing pair present only when the SEI option
// is enabled.
type SPM struct {
	neg, pos electrode
	opts     Options
	nr       int

	area       float64 // electrode plate area [m2]
	seriesR    float64 // lumped ohmic resistance [Ohm]
	tempK      float64
	initialSOC float64

	sei *seiFilm
}

func newSPM(set params.Set, opts Options) (*SPM, error) {
	m := &SPM{opts: opts, nr: spmShells}

	var err error
	if m.neg, err = loadNegative(set); err != nil {
		return nil, err
	}
	if m.pos, err = loadPositive(set); err != nil {
		return nil, err
	}
	if m.area, err = set.Float(params.ElectrodeArea); err != nil {
		return nil, err
	}
	if m.seriesR, err = set.Float(params.SeriesResistance); err != nil {
		return nil, err
	}
	if m.tempK, err = set.Float(params.AmbientTemperature); err != nil {
		return nil, err
	}
	if m.initialSOC, err = set.Float(params.InitialSOC); err != nil {
		return nil, err
	}

	if opts.SEI == SEIReactionLimited {
		film, err := loadSEI(set)
		if err != nil {
			return nil, err
		}
		m.sei = &film
	}

	return m, nil
}

func (m *SPM) Variant() Variant { return SPMVariant }
func (m *SPM) Name() string     { return string(SPMVariant) }

func (m *SPM) StateDim() int {
	dim := 2 * m.nr
	if m.sei != nil {
		dim += 2
	}
	return dim
}

func (m *SPM) InitialState() sim.State {
	x := make(sim.State, m.StateDim())
	xn := m.neg.stoichAtSOC(m.initialSOC)
	yp := m.pos.stoichAtSOC(m.initialSOC)
	for k := 0; k < m.nr; k++ {
		x[k] = xn
		x[m.nr+k] = yp
	}
	if m.sei != nil {
		x[2*m.nr] = m.sei.initialThickness
		x[2*m.nr+1] = 0
	}
	return x
}

func (m *SPM) Derive(x sim.State, current float64, t float64) sim.State {
	dst := make(sim.State, m.StateDim())
	negShells := x[:m.nr]
	posShells := x[m.nr : 2*m.nr]

	surfN := m.neg.surfaceArea(m.area)
	surfP := m.pos.surfaceArea(m.area)

	// Molar flux out of the negative particle surface. Positive current
	// (discharge) delithiates the negative electrode.
	fluxN := current / (faradayConst * surfN)

	if m.sei != nil {
		xs := surfaceStoich(negShells, m.neg.diff, m.neg.radius, fluxN, m.neg.cMax)
		i0 := m.neg.exchangeCurrent(xs, 1)
		etaN := overpotential(fluxN, i0, m.tempK)

		side := m.sei.sideCurrentDensity(etaN, xs, m.tempK)
		sideTotal := side * surfN // [A], negative during charge

		// Side reaction steals current from intercalation.
		fluxN = (current - sideTotal) / (faradayConst * surfN)

		dst[2*m.nr] = m.sei.growthRate(side)
		dst[2*m.nr+1] = -sideTotal
	}

	fluxP := -current / (faradayConst * surfP)

	particleDerivative(dst[:m.nr], negShells, m.neg.diff, m.neg.radius, fluxN, m.neg.cMax)
	particleDerivative(dst[m.nr:2*m.nr], posShells, m.pos.diff, m.pos.radius, fluxP, m.pos.cMax)

	return dst
}

func (m *SPM) Voltage(x sim.State, current float64) float64 {
	negShells := x[:m.nr]
	posShells := x[m.nr : 2*m.nr]

	surfN := m.neg.surfaceArea(m.area)
	surfP := m.pos.surfaceArea(m.area)
	fluxN := current / (faradayConst * surfN)
	fluxP := -current / (faradayConst * surfP)

	xs := surfaceStoich(negShells, m.neg.diff, m.neg.radius, fluxN, m.neg.cMax)
	ys := surfaceStoich(posShells, m.pos.diff, m.pos.radius, fluxP, m.pos.cMax)

	etaN := overpotential(fluxN, m.neg.exchangeCurrent(xs, 1), m.tempK)
	etaP := overpotential(fluxP, m.pos.exchangeCurrent(ys, 1), m.tempK)

	resistance := m.seriesR
	if m.sei != nil {
		resistance += m.sei.filmResistance(x[2*m.nr], surfN)
	}

	return ocvPositive(ys) + etaP - ocvNegative(xs) - etaN - current*resistance
}

func (m *SPM) SOC(x sim.State) float64 {
	soc := m.neg.socAtStoich(meanStoich(x[:m.nr], m.neg.radius))
	if soc < 0 {
		return 0
	}
	if soc > 1 {
		return 1
	}
	return soc
}

// SEIThickness reports the film thickness [m], or zero when the SEI
// mechanism is disabled.
func (m *SPM) SEIThickness(x sim.State) float64 {
	if m.sei == nil {
		return 0
	}
	return x[2*m.nr]
}

// LithiumLoss reports the cumulative inventory loss [C] to the SEI.
func (m *SPM) LithiumLoss(x sim.State) float64 {
	if m.sei == nil {
		return 0
	}
	return x[2*m.nr+1]
}
