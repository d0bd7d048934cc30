package models

import (
	"math"

	"github.com/san-kum/cellsim/internal/params"
	"github.com/san-kum/cellsim/internal/sim"
)

// Shells per particle in the DFN; coarser than the SPM since every
// through-cell node carries its own particle.
const dfnShells = 5

// DFN is the Doyle-Fuller-Newman porous-electrode model on a 1D
// through-cell grid. Each electrode node carries its own spherical
// particle; the reaction current is distributed across nodes in
// proportion to the local exchange current density, which concentrates
// reaction near the separator at high rates. Electrolyte diffusion runs
// on the same grid as the SPMe.
//
// State layout: [negative particles (node-major) | positive particles |
// SEI thickness, lithium loss (optional) | electrolyte concentrations].
type DFN struct {
	neg, pos electrode
	opts     Options
	nr       int
	grid     elyteGrid

	area       float64
	seriesR    float64
	tempK      float64
	initialSOC float64
	ceInit     float64
	kappa      float64
	tPlus      float64
	sepL       float64

	sei *seiFilm
}

func newDFN(set params.Set, opts Options) (*DFN, error) {
	m := &DFN{opts: opts, nr: dfnShells}

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
		m.neg.thickness, m.sepL, m.pos.thickness,
		m.neg.porosity, sepPorosity, m.pos.porosity,
		diff)

	if opts.SEI == SEIReactionLimited {
		film, err := loadSEI(set)
		if err != nil {
			return nil, err
		}
		m.sei = &film
	}

	return m, nil
}

func (m *DFN) Variant() Variant { return DFNVariant }
func (m *DFN) Name() string     { return string(DFNVariant) }

func (m *DFN) negNodes() int { return m.grid.negCells }
func (m *DFN) posNodes() int { return m.grid.posCells }

func (m *DFN) particleStates() int {
	return (m.negNodes() + m.posNodes()) * m.nr
}

func (m *DFN) seiOffset() int { return m.particleStates() }

func (m *DFN) ceOffset() int {
	off := m.particleStates()
	if m.sei != nil {
		off += 2
	}
	return off
}

func (m *DFN) StateDim() int {
	return m.ceOffset() + m.grid.cells()
}

func (m *DFN) InitialState() sim.State {
	x := make(sim.State, m.StateDim())
	xn := m.neg.stoichAtSOC(m.initialSOC)
	yp := m.pos.stoichAtSOC(m.initialSOC)

	for node := 0; node < m.negNodes(); node++ {
		for k := 0; k < m.nr; k++ {
			x[node*m.nr+k] = xn
		}
	}
	posBase := m.negNodes() * m.nr
	for node := 0; node < m.posNodes(); node++ {
		for k := 0; k < m.nr; k++ {
			x[posBase+node*m.nr+k] = yp
		}
	}

	if m.sei != nil {
		x[m.seiOffset()] = m.sei.initialThickness
	}
	for c := 0; c < m.grid.cells(); c++ {
		x[m.ceOffset()+c] = m.ceInit
	}
	return x
}

// nodeSurface is the interfacial area of one electrode node [m2].
func (m *DFN) nodeSurface(e electrode, nodes int) float64 {
	return 3.0 * e.activeFrac / e.radius * (e.thickness / float64(nodes)) * m.area
}

// distributeCurrent splits the total current across an electrode's nodes
// in proportion to local exchange current density.
func (m *DFN) distributeCurrent(e electrode, shells sim.State, nodes int, nodeBase int, ce []float64, ceBase int, total float64) []float64 {
	weights := make([]float64, nodes)
	sum := 0.0
	for node := 0; node < nodes; node++ {
		outer := shells[nodeBase+node*m.nr+m.nr-1]
		ceRatio := ce[ceBase+node] / m.ceInit
		weights[node] = e.exchangeCurrent(outer, ceRatio)
		sum += weights[node]
	}

	currents := make([]float64, nodes)
	for node := 0; node < nodes; node++ {
		currents[node] = total * weights[node] / sum
	}
	return currents
}

func (m *DFN) Derive(x sim.State, current float64, t float64) sim.State {
	dst := make(sim.State, m.StateDim())
	ce := x[m.ceOffset():]
	posBase := m.negNodes() * m.nr

	negCurrent := current

	if m.sei != nil {
		// Electrode-averaged SEI side reaction, uniform across nodes.
		xsAvg := 0.0
		for node := 0; node < m.negNodes(); node++ {
			xsAvg += clampStoich(x[node*m.nr+m.nr-1])
		}
		xsAvg /= float64(m.negNodes())

		surfN := m.neg.surfaceArea(m.area)
		flux := current / (faradayConst * surfN)
		etaN := overpotential(flux, m.neg.exchangeCurrent(xsAvg, 1), m.tempK)

		side := m.sei.sideCurrentDensity(etaN, xsAvg, m.tempK)
		sideTotal := side * surfN

		negCurrent = current - sideTotal
		dst[m.seiOffset()] = m.sei.growthRate(side)
		dst[m.seiOffset()+1] = -sideTotal
	}

	negCurrents := m.distributeCurrent(m.neg, x, m.negNodes(), 0, ce, 0, negCurrent)
	posCurrents := m.distributeCurrent(m.pos, x, m.posNodes(), posBase, ce, m.grid.negCells+m.grid.sepCells, -current)

	src := make([]float64, m.grid.cells())

	surfNegNode := m.nodeSurface(m.neg, m.negNodes())
	for node := 0; node < m.negNodes(); node++ {
		flux := negCurrents[node] / (faradayConst * surfNegNode)
		base := node * m.nr
		particleDerivative(dst[base:base+m.nr], x[base:base+m.nr], m.neg.diff, m.neg.radius, flux, m.neg.cMax)
		src[node] = (1 - m.tPlus) * negCurrents[node] / (faradayConst * m.grid.widths[node] * m.area)
	}

	surfPosNode := m.nodeSurface(m.pos, m.posNodes())
	for node := 0; node < m.posNodes(); node++ {
		flux := posCurrents[node] / (faradayConst * surfPosNode)
		base := posBase + node*m.nr
		particleDerivative(dst[base:base+m.nr], x[base:base+m.nr], m.pos.diff, m.pos.radius, flux, m.pos.cMax)
		cell := m.grid.negCells + m.grid.sepCells + node
		src[cell] = (1 - m.tPlus) * posCurrents[node] / (faradayConst * m.grid.widths[cell] * m.area)
	}

	m.grid.derivative(dst[m.ceOffset():], ce, src)
	return dst
}

// Voltage evaluates the terminal voltage between the current collectors,
// using the collector-adjacent nodes of each electrode.
func (m *DFN) Voltage(x sim.State, current float64) float64 {
	ce := x[m.ceOffset():]
	posBase := m.negNodes() * m.nr

	negCurrents := m.distributeCurrent(m.neg, x, m.negNodes(), 0, ce, 0, current)
	posCurrents := m.distributeCurrent(m.pos, x, m.posNodes(), posBase, ce, m.grid.negCells+m.grid.sepCells, -current)

	surfNegNode := m.nodeSurface(m.neg, m.negNodes())
	surfPosNode := m.nodeSurface(m.pos, m.posNodes())

	// Negative collector sits at node 0; positive at the far node.
	lastPos := m.posNodes() - 1
	fluxN := negCurrents[0] / (faradayConst * surfNegNode)
	fluxP := posCurrents[lastPos] / (faradayConst * surfPosNode)

	negShells := x[0:m.nr]
	posShells := x[posBase+lastPos*m.nr : posBase+(lastPos+1)*m.nr]

	xs := surfaceStoich(negShells, m.neg.diff, m.neg.radius, fluxN, m.neg.cMax)
	ys := surfaceStoich(posShells, m.pos.diff, m.pos.radius, fluxP, m.pos.cMax)

	ceN := ce[0] / m.ceInit
	ceP := ce[m.grid.cells()-1] / m.ceInit

	etaN := overpotential(fluxN, m.neg.exchangeCurrent(xs, ceN), m.tempK)
	etaP := overpotential(fluxP, m.pos.exchangeCurrent(ys, ceP), m.tempK)

	thermal := gasConst * m.tempK / faradayConst
	concOver := 2 * thermal * (1 - m.tPlus) * math.Log(ce[m.grid.cells()-1]/ce[0])

	kappaN := bruggeman(m.kappa, m.neg.porosity)
	kappaS := bruggeman(m.kappa, m.grid.porosity[m.grid.negCells])
	kappaP := bruggeman(m.kappa, m.pos.porosity)
	ohmicE := current / m.area * (m.neg.thickness/(3*kappaN) + m.sepL/kappaS + m.pos.thickness/(3*kappaP))

	resistance := m.seriesR
	if m.sei != nil {
		resistance += m.sei.filmResistance(x[m.seiOffset()], m.neg.surfaceArea(m.area))
	}

	return ocvPositive(ys) + etaP - ocvNegative(xs) - etaN + concOver - ohmicE - current*resistance
}

func (m *DFN) SOC(x sim.State) float64 {
	total := 0.0
	for node := 0; node < m.negNodes(); node++ {
		base := node * m.nr
		total += meanStoich(x[base:base+m.nr], m.neg.radius)
	}
	soc := m.neg.socAtStoich(total / float64(m.negNodes()))
	if soc < 0 {
		return 0
	}
	if soc > 1 {
		return 1
	}
	return soc
}
