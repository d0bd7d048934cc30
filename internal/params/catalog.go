package params

import (
	"fmt"
	"sort"
)

// catalog maps set names to builders. Builders return fresh maps so loaded
// sets never share storage.
var catalog = map[string]func() map[Key]Value{
	"chen2020":    chen2020,
	"marquis2019": marquis2019,
	"ecker2015":   ecker2015,
}

// Load returns the named reference parameter set. Unknown names fail; there
// is no fallback default.
func Load(name string) (Set, error) {
	build, ok := catalog[name]
	if !ok {
		return Set{}, fmt.Errorf("%w: %q (available: %v)", ErrUnknownSet, name, Names())
	}
	return newSet(name, build()), nil
}

// Names lists the catalog in sorted order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// chen2020 describes an LG M50 21700 cylindrical cell (NMC811/graphite-SiOx),
// after Chen et al. 2020.
func chen2020() map[Key]Value {
	return map[Key]Value{
		CurrentFunction:    Scalar(5.0),
		NominalCapacity:    Scalar(5.0),
		LowerVoltageCutoff: Scalar(2.5),
		UpperVoltageCutoff: Scalar(4.2),
		InitialSOC:         Scalar(1.0),
		SeriesResistance:   Scalar(0.010),
		ElectrodeArea:      Scalar(0.1027),
		AmbientTemperature: Scalar(298.15),

		NegParticleRadius:   Scalar(5.86e-6),
		NegDiffusivity:      Scalar(3.3e-14),
		NegThickness:        Scalar(85.2e-6),
		NegActiveFraction:   Scalar(0.75),
		NegPorosity:         Scalar(0.25),
		NegMaxConcentration: Scalar(33133),
		NegReactionRate:     Scalar(1.3e-9),
		NegStoichAtZeroSOC:  Scalar(0.0279),
		NegStoichAtFullSOC:  Scalar(0.9014),

		PosParticleRadius:   Scalar(5.22e-6),
		PosDiffusivity:      Scalar(4.0e-15),
		PosThickness:        Scalar(75.6e-6),
		PosActiveFraction:   Scalar(0.665),
		PosPorosity:         Scalar(0.335),
		PosMaxConcentration: Scalar(63104),
		PosReactionRate:     Scalar(7.0e-10),
		PosStoichAtZeroSOC:  Scalar(0.9084),
		PosStoichAtFullSOC:  Scalar(0.2661),

		SepThickness:             Scalar(12.0e-6),
		SepPorosity:              Scalar(0.47),
		ElectrolyteConcentration: Scalar(1000),
		ElectrolyteDiffusivity:   Scalar(3.0e-10),
		ElectrolyteConductivity:  Scalar(0.95),
		TransferenceNumber:       Scalar(0.2594),

		SEIKineticRate:          Scalar(1.5e-7),
		SEIMolarVolume:          Scalar(9.585e-5),
		SEIConductivity:         Scalar(5.0e-6),
		SEIOpenCircuitPotential: Scalar(0.4),
		SEIInitialThickness:     Scalar(5.0e-9),
	}
}

// marquis2019 describes a Kokam SLPB pouch cell (LCO/graphite), after
// Marquis et al. 2019.
func marquis2019() map[Key]Value {
	return map[Key]Value{
		CurrentFunction:    Scalar(0.680),
		NominalCapacity:    Scalar(0.680),
		LowerVoltageCutoff: Scalar(3.105),
		UpperVoltageCutoff: Scalar(4.1),
		InitialSOC:         Scalar(1.0),
		SeriesResistance:   Scalar(0.025),
		ElectrodeArea:      Scalar(0.0809),
		AmbientTemperature: Scalar(298.15),

		NegParticleRadius:   Scalar(1.0e-5),
		NegDiffusivity:      Scalar(3.9e-14),
		NegThickness:        Scalar(100.0e-6),
		NegActiveFraction:   Scalar(0.60),
		NegPorosity:         Scalar(0.30),
		NegMaxConcentration: Scalar(24983),
		NegReactionRate:     Scalar(1.7e-9),
		NegStoichAtZeroSOC:  Scalar(0.026),
		NegStoichAtFullSOC:  Scalar(0.830),

		PosParticleRadius:   Scalar(1.0e-5),
		PosDiffusivity:      Scalar(1.0e-13),
		PosThickness:        Scalar(100.0e-6),
		PosActiveFraction:   Scalar(0.50),
		PosPorosity:         Scalar(0.30),
		PosMaxConcentration: Scalar(51218),
		PosReactionRate:     Scalar(2.4e-9),
		PosStoichAtZeroSOC:  Scalar(0.936),
		PosStoichAtFullSOC:  Scalar(0.442),

		SepThickness:             Scalar(25.0e-6),
		SepPorosity:              Scalar(0.40),
		ElectrolyteConcentration: Scalar(1000),
		ElectrolyteDiffusivity:   Scalar(5.35e-10),
		ElectrolyteConductivity:  Scalar(1.10),
		TransferenceNumber:       Scalar(0.4),

		SEIKineticRate:          Scalar(1.0e-7),
		SEIMolarVolume:          Scalar(9.585e-5),
		SEIConductivity:         Scalar(5.0e-6),
		SEIOpenCircuitPotential: Scalar(0.4),
		SEIInitialThickness:     Scalar(5.0e-9),
	}
}

// ecker2015 describes a Kokam 7.5 Ah high-power pouch cell (NMC/graphite),
// after Ecker et al. 2015.
func ecker2015() map[Key]Value {
	return map[Key]Value{
		CurrentFunction:    Scalar(7.5),
		NominalCapacity:    Scalar(7.5),
		LowerVoltageCutoff: Scalar(2.7),
		UpperVoltageCutoff: Scalar(4.2),
		InitialSOC:         Scalar(1.0),
		SeriesResistance:   Scalar(0.006),
		ElectrodeArea:      Scalar(0.3787),
		AmbientTemperature: Scalar(296.15),

		NegParticleRadius:   Scalar(1.37e-5),
		NegDiffusivity:      Scalar(1.4e-14),
		NegThickness:        Scalar(74.0e-6),
		NegActiveFraction:   Scalar(0.372),
		NegPorosity:         Scalar(0.329),
		NegMaxConcentration: Scalar(31920),
		NegReactionRate:     Scalar(2.0e-9),
		NegStoichAtZeroSOC:  Scalar(0.034),
		NegStoichAtFullSOC:  Scalar(0.870),

		PosParticleRadius:   Scalar(6.5e-6),
		PosDiffusivity:      Scalar(1.0e-14),
		PosThickness:        Scalar(54.0e-6),
		PosActiveFraction:   Scalar(0.404),
		PosPorosity:         Scalar(0.296),
		PosMaxConcentration: Scalar(48580),
		PosReactionRate:     Scalar(1.1e-9),
		PosStoichAtZeroSOC:  Scalar(0.942),
		PosStoichAtFullSOC:  Scalar(0.272),

		SepThickness:             Scalar(20.0e-6),
		SepPorosity:              Scalar(0.508),
		ElectrolyteConcentration: Scalar(1000),
		ElectrolyteDiffusivity:   Scalar(2.6e-10),
		ElectrolyteConductivity:  Scalar(0.95),
		TransferenceNumber:       Scalar(0.26),

		SEIKineticRate:          Scalar(1.2e-7),
		SEIMolarVolume:          Scalar(9.585e-5),
		SEIConductivity:         Scalar(5.0e-6),
		SEIOpenCircuitPotential: Scalar(0.4),
		SEIInitialThickness:     Scalar(5.0e-9),
	}
}
