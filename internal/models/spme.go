package models

import (
	"math"

	"github.com/san-kum/cellsim/internal/params"
	"github.com/san-kum/cellsim/internal/sim"
)

// Electrolyte grid for the SPMe and DFN variants: cells per region of the
// negative electrode / separator / positive electrode sandwich.
const (
	gridNegCells = 5
	gridSepCells = 2
	gridPosCells = 5
)

// elyteGrid is a 1D finite-volume grid across the cell sandwich.
type elyteGrid struct {
	widths   []float64 // cell widths [m]
	porosity []float64
	diff     float64 // bulk electrolyte diffusivity [m2/s]
	negCells int
	sepCells int
	posCells int
}

func newElyteGrid(negThickness, sepThickness, posThickness, negPorosity, sepPorosity, posPorosity, diff float64) elyteGrid {
	g := elyteGrid{
		diff:     diff,
		negCells: gridNegCells,
		sepCells: gridSepCells,
		posCells: gridPosCells,
	}
	total := g.negCells + g.sepCells + g.posCells
	g.widths = make([]float64, total)
	g.porosity = make([]float64, total)

	for c := 0; c < total; c++ {
		switch {
		case c < g.negCells:
			g.widths[c] = negThickness / float64(g.negCells)
			g.porosity[c] = negPorosity
		case c < g.negCells+g.sepCells:
			g.widths[c] = sepThickness / float64(g.sepCells)
			g.porosity[c] = sepPorosity
		default:
			g.widths[c] = posThickness / float64(g.posCells)
			g.porosity[c] = posPorosity
		}
	}
	return g
}

func (g elyteGrid) cells() int { return len(g.widths) }

// derivative computes dce/dt for concentrations ce under per-cell molar
// sources src [mol/(m3.s)], writing into dst. Zero-flux boundaries at the
// current collectors.
func (g elyteGrid) derivative(dst, ce, src []float64) {
	n := g.cells()

	// Diffusive molar flux through the face between cells c-1 and c,
	// positive in +x.
	faceFlux := func(c int) float64 {
		if c == 0 || c == n {
			return 0
		}
		dEff := (bruggeman(g.diff, g.porosity[c-1]) + bruggeman(g.diff, g.porosity[c])) / 2
		dist := (g.widths[c-1] + g.widths[c]) / 2
		return -dEff * (ce[c] - ce[c-1]) / dist
	}

	for c := 0; c < n; c++ {
		net := faceFlux(c) - faceFlux(c+1)
		dst[c] = (net/g.widths[c] + src[c]) / g.porosity[c]
	}
}

// regionMean averages concentration over [lo, hi).
func (g elyteGrid) regionMean(ce []float64, lo, hi int) float64 {
	total := 0.0
	width := 0.0
	for c := lo; c < hi; c++ {
		total += ce[c] * g.widths[c]
		width += g.widths[c]
	}
	return total / width
}

// SPMe extends the single particle model with electrolyte diffusion across
// the sandwich, adding concentration and electrolyte ohmic overpotentials.
//
// State layout: [SPM states | electrolyte concentrations].
type SPMe struct {
	spm  *SPM
	grid elyteGrid

	ceInit float64
	kappa  float64 // electrolyte conductivity [S/m]
	tPlus  float64 // cation transference number
	sepL   float64
}

func newSPMe(set params.Set, opts Options) (*SPMe, error) {
	spm, err := newSPM(set, opts)
	if err != nil {
		return nil, err
	}

	m := &SPMe{spm: spm}
	if m.ceInit, err = set.Float(params.ElectrolyteConcentration); err != nil {
		return nil, err
	}
	if m.kappa, err = set.Float(params.ElectrolyteConductivity); err != nil {
		return nil, err
	}
	if m.tPlus, err = set.Float(params.TransferenceNumber); err != nil {
		return nil, err
	}
	if m.sepL, err = set.Float(params.SepThickness); err != nil {
		return nil, err
	}
	sepPorosity, err := set.Float(params.SepPorosity)
	if err != nil {
		return nil, err
	}
	diff, err := set.Float(params.ElectrolyteDiffusivity)
	if err != nil {
		return nil, err
	}

	m.grid = newElyteGrid(
		spm.neg.thickness, m.sepL, spm.pos.thickness,
		spm.neg.porosity, sepPorosity, spm.pos.porosity,
		diff)

	return m, nil
}

func (m *SPMe) Variant() Variant { return SPMeVariant }
func (m *SPMe) Name() string     { return string(SPMeVariant) }

func (m *SPMe) StateDim() int {
	return m.spm.StateDim() + m.grid.cells()
}

func (m *SPMe) InitialState() sim.State {
	x := make(sim.State, m.StateDim())
	copy(x, m.spm.InitialState())
	for c := 0; c < m.grid.cells(); c++ {
		x[m.spm.StateDim()+c] = m.ceInit
	}
	return x
}

func (m *SPMe) Derive(x sim.State, current float64, t float64) sim.State {
	dst := make(sim.State, m.StateDim())
	split := m.spm.StateDim()

	copy(dst[:split], m.spm.Derive(x[:split], current, t))

	// Electrolyte sources: lithium enters the electrolyte at the negative
	// electrode on discharge, leaves at the positive.
	src := make([]float64, m.grid.cells())
	srcNeg := (1 - m.tPlus) * current / (faradayConst * m.spm.neg.thickness * m.spm.area)
	srcPos := -(1 - m.tPlus) * current / (faradayConst * m.spm.pos.thickness * m.spm.area)
	for c := 0; c < m.grid.cells(); c++ {
		switch {
		case c < m.grid.negCells:
			src[c] = srcNeg
		case c >= m.grid.negCells+m.grid.sepCells:
			src[c] = srcPos
		}
	}

	m.grid.derivative(dst[split:], x[split:], src)
	return dst
}

func (m *SPMe) Voltage(x sim.State, current float64) float64 {
	split := m.spm.StateDim()
	ce := x[split:]
	spm := m.spm

	ceNeg := m.grid.regionMean(ce, 0, m.grid.negCells)
	cePos := m.grid.regionMean(ce, m.grid.negCells+m.grid.sepCells, m.grid.cells())

	negShells := x[:spm.nr]
	posShells := x[spm.nr : 2*spm.nr]

	surfN := spm.neg.surfaceArea(spm.area)
	surfP := spm.pos.surfaceArea(spm.area)
	fluxN := current / (faradayConst * surfN)
	fluxP := -current / (faradayConst * surfP)

	xs := surfaceStoich(negShells, spm.neg.diff, spm.neg.radius, fluxN, spm.neg.cMax)
	ys := surfaceStoich(posShells, spm.pos.diff, spm.pos.radius, fluxP, spm.pos.cMax)

	etaN := overpotential(fluxN, spm.neg.exchangeCurrent(xs, ceNeg/m.ceInit), spm.tempK)
	etaP := overpotential(fluxP, spm.pos.exchangeCurrent(ys, cePos/m.ceInit), spm.tempK)

	thermal := gasConst * spm.tempK / faradayConst
	concOver := 2 * thermal * (1 - m.tPlus) * math.Log(cePos/ceNeg)

	kappaN := bruggeman(m.kappa, spm.neg.porosity)
	kappaS := bruggeman(m.kappa, m.grid.porosity[m.grid.negCells])
	kappaP := bruggeman(m.kappa, spm.pos.porosity)
	ohmicE := current / spm.area * (spm.neg.thickness/(3*kappaN) + m.sepL/kappaS + spm.pos.thickness/(3*kappaP))

	resistance := spm.seriesR
	if spm.sei != nil {
		resistance += spm.sei.filmResistance(x[2*spm.nr], surfN)
	}

	return ocvPositive(ys) + etaP - ocvNegative(xs) - etaN + concOver - ohmicE - current*resistance
}

func (m *SPMe) SOC(x sim.State) float64 {
	return m.spm.SOC(x[:m.spm.StateDim()])
}

// ElectrolyteConcentration exposes the per-cell concentrations [mol/m3].
func (m *SPMe) ElectrolyteConcentration(x sim.State) []float64 {
	split := m.spm.StateDim()
	ce := make([]float64, m.grid.cells())
	copy(ce, x[split:])
	return ce
}
