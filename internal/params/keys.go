package params

// Key names a physical quantity in a parameter set. The set of keys is
// closed: lookups and overrides against unknown keys fail rather than
// silently extending the set.
type Key string

// Cell-level parameters.
const (
	CurrentFunction    Key = "Current function [A]"
	NominalCapacity    Key = "Nominal cell capacity [A.h]"
	LowerVoltageCutoff Key = "Lower voltage cut-off [V]"
	UpperVoltageCutoff Key = "Upper voltage cut-off [V]"
	InitialSOC         Key = "Initial state of charge"
	SeriesResistance   Key = "Series resistance [Ohm]"
	ElectrodeArea      Key = "Electrode plate area [m2]"
	AmbientTemperature Key = "Ambient temperature [K]"
)

// Negative electrode parameters.
const (
	NegParticleRadius    Key = "Negative particle radius [m]"
	NegDiffusivity       Key = "Negative particle diffusivity [m2.s-1]"
	NegThickness         Key = "Negative electrode thickness [m]"
	NegActiveFraction    Key = "Negative electrode active material volume fraction"
	NegPorosity          Key = "Negative electrode porosity"
	NegMaxConcentration  Key = "Maximum concentration in negative electrode [mol.m-3]"
	NegReactionRate      Key = "Negative electrode reaction rate constant [m.s-1]"
	NegStoichAtZeroSOC   Key = "Negative electrode stoichiometry at 0% SOC"
	NegStoichAtFullSOC   Key = "Negative electrode stoichiometry at 100% SOC"
)

// Positive electrode parameters.
const (
	PosParticleRadius    Key = "Positive particle radius [m]"
	PosDiffusivity       Key = "Positive particle diffusivity [m2.s-1]"
	PosThickness         Key = "Positive electrode thickness [m]"
	PosActiveFraction    Key = "Positive electrode active material volume fraction"
	PosPorosity          Key = "Positive electrode porosity"
	PosMaxConcentration  Key = "Maximum concentration in positive electrode [mol.m-3]"
	PosReactionRate      Key = "Positive electrode reaction rate constant [m.s-1]"
	PosStoichAtZeroSOC   Key = "Positive electrode stoichiometry at 0% SOC"
	PosStoichAtFullSOC   Key = "Positive electrode stoichiometry at 100% SOC"
)

// Separator and electrolyte parameters.
const (
	SepThickness            Key = "Separator thickness [m]"
	SepPorosity             Key = "Separator porosity"
	ElectrolyteConcentration Key = "Initial concentration in electrolyte [mol.m-3]"
	ElectrolyteDiffusivity  Key = "Electrolyte diffusivity [m2.s-1]"
	ElectrolyteConductivity Key = "Electrolyte conductivity [S.m-1]"
	TransferenceNumber      Key = "Cation transference number"
)

// SEI degradation parameters (used by the reaction-limited SEI option).
const (
	SEIKineticRate      Key = "SEI kinetic rate constant [A.m-2]"
	SEIMolarVolume      Key = "SEI partial molar volume [m3.mol-1]"
	SEIConductivity     Key = "SEI ionic conductivity [S.m-1]"
	SEIOpenCircuitPotential Key = "SEI open-circuit potential [V]"
	SEIInitialThickness Key = "Initial SEI thickness [m]"
)
