package models

import (
	"math"
	"testing"

	"github.com/san-kum/cellsim/internal/params"
	"github.com/san-kum/cellsim/internal/sim"
)

func buildModel(t *testing.T, v Variant, opts Options) sim.Model {
	t.Helper()
	set, err := params.Load("chen2020")
	if err != nil {
		t.Fatal(err)
	}
	def, err := New(v, opts)
	if err != nil {
		t.Fatal(err)
	}
	m, err := def.Build(set)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestEquilibriumIsStationary(t *testing.T) {
	for _, v := range Variants() {
		m := buildModel(t, v, DefaultOptions())
		dx := m.Derive(m.InitialState(), 0, 0)
		for k, d := range dx {
			if d != 0 {
				t.Errorf("%q: nonzero derivative at rest, dx[%d] = %g", v, k, d)
			}
		}
	}
}

func TestRestVoltageInWindow(t *testing.T) {
	for _, v := range Variants() {
		m := buildModel(t, v, DefaultOptions())
		voltage := m.Voltage(m.InitialState(), 0)
		if voltage < 3.0 || voltage > 4.8 {
			t.Errorf("%q: rest voltage at full charge = %.3f V", v, voltage)
		}
	}
}

// At rest with a relaxed electrolyte, every variant collapses to the same
// open-circuit voltage.
func TestVariantsAgreeAtRest(t *testing.T) {
	spm := buildModel(t, SPMVariant, DefaultOptions())
	want := spm.Voltage(spm.InitialState(), 0)

	for _, v := range []Variant{SPMeVariant, DFNVariant} {
		m := buildModel(t, v, DefaultOptions())
		got := m.Voltage(m.InitialState(), 0)
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("%q: rest voltage %.6f, spm gives %.6f", v, got, want)
		}
	}
}

func TestDischargeDropsVoltage(t *testing.T) {
	for _, v := range Variants() {
		m := buildModel(t, v, DefaultOptions())
		x0 := m.InitialState()
		rest := m.Voltage(x0, 0)
		loaded := m.Voltage(x0, 5.0) // 1C for the chen2020 cell
		if loaded >= rest {
			t.Errorf("%q: voltage under load %.3f >= rest %.3f", v, loaded, rest)
		}
	}
}

func TestDischargeMovesLithium(t *testing.T) {
	m := buildModel(t, SPMVariant, DefaultOptions()).(*SPM)
	x0 := m.InitialState()
	dx := m.Derive(x0, 5.0, 0)

	// Discharge delithiates the negative outer shell and lithiates the
	// positive one.
	if dx[m.nr-1] >= 0 {
		t.Errorf("negative outer shell derivative = %g, want < 0", dx[m.nr-1])
	}
	if dx[2*m.nr-1] <= 0 {
		t.Errorf("positive outer shell derivative = %g, want > 0", dx[2*m.nr-1])
	}
}

func TestSOCDecreasesUnderDischarge(t *testing.T) {
	for _, v := range Variants() {
		m := buildModel(t, v, DefaultOptions())
		x := m.InitialState()
		if soc := m.SOC(x); soc != 1.0 {
			t.Errorf("%q: initial SOC = %g, want 1", v, soc)
		}

		// Forward Euler at 1C; small steps keep the electrolyte grid stable.
		dt := 0.05
		for i := 0; i < 400; i++ {
			dx := m.Derive(x, 5.0, float64(i)*dt)
			for k := range x {
				x[k] += dt * dx[k]
			}
		}
		if soc := m.SOC(x); soc >= 1.0 {
			t.Errorf("%q: SOC after 20s discharge = %g, want < 1", v, soc)
		}
		if !x.IsValid() {
			t.Errorf("%q: state went non-finite during discharge", v)
		}
	}
}

func TestSEIGrowsFasterUnderCharge(t *testing.T) {
	m := buildModel(t, SPMVariant, Options{SEI: SEIReactionLimited}).(*SPM)
	x0 := m.InitialState()

	growthAt := func(current float64) float64 {
		return m.Derive(x0, current, 0)[2*m.nr]
	}

	rest := growthAt(0)
	charge := growthAt(-5.0)
	if rest <= 0 {
		t.Errorf("rest growth rate = %g, want > 0", rest)
	}
	if charge <= rest {
		t.Errorf("charge growth %g not above rest growth %g", charge, rest)
	}

	// Lithium loss accumulates as the film grows.
	if loss := m.Derive(x0, -5.0, 0)[2*m.nr+1]; loss <= 0 {
		t.Errorf("lithium loss rate under charge = %g, want > 0", loss)
	}
}

func TestSEIFilmAddsResistance(t *testing.T) {
	m := buildModel(t, SPMVariant, Options{SEI: SEIReactionLimited}).(*SPM)
	x := m.InitialState()
	before := m.Voltage(x, 5.0)

	x[2*m.nr] *= 100 // thicken the film
	after := m.Voltage(x, 5.0)
	if after >= before {
		t.Errorf("thicker film raised discharge voltage: %.4f -> %.4f", before, after)
	}
}

func TestElectrolyteSourceConservation(t *testing.T) {
	m := buildModel(t, SPMeVariant, DefaultOptions()).(*SPMe)
	x := m.InitialState()
	dx := m.Derive(x, 5.0, 0)

	split := m.spm.StateDim()
	if dx[split] <= 0 {
		t.Errorf("negative-side electrolyte derivative = %g, want > 0 on discharge", dx[split])
	}
	last := m.StateDim() - 1
	if dx[last] >= 0 {
		t.Errorf("positive-side electrolyte derivative = %g, want < 0 on discharge", dx[last])
	}

	// Total electrolyte lithium is conserved: sources cancel and diffusion
	// only redistributes.
	total := 0.0
	for c := 0; c < m.grid.cells(); c++ {
		total += dx[split+c] * m.grid.widths[c] * m.grid.porosity[c]
	}
	if math.Abs(total) > 1e-9 {
		t.Errorf("electrolyte inventory drift = %g mol/(m2.s)", total)
	}
}

func TestDFNCurrentDistribution(t *testing.T) {
	m := buildModel(t, DFNVariant, DefaultOptions()).(*DFN)
	x := m.InitialState()
	ce := x[m.ceOffset():]

	currents := m.distributeCurrent(m.neg, x, m.negNodes(), 0, ce, 0, 5.0)
	sum := 0.0
	for _, i := range currents {
		if i <= 0 {
			t.Errorf("node current %g, want > 0 on a uniform state", i)
		}
		sum += i
	}
	if math.Abs(sum-5.0) > 1e-12 {
		t.Errorf("node currents sum to %g, want 5", sum)
	}
}
