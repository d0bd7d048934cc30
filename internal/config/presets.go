package config

// Presets are ready-made runs keyed by model and scenario name. The
// electrolyte grid in the spme and dfn variants limits explicit steppers
// to sub-second steps.
var Presets = map[string]map[string]*Config{
	"spm": {
		"1c-discharge": {
			Model: "spm", ParameterSet: "chen2020", Integrator: "rk4",
			Dt: 1.0, Duration: 3700.0,
			Protocol: ProtocolConfig{Type: "crate", CRate: 1.0},
		},
		"2c-discharge": {
			Model: "spm", ParameterSet: "chen2020", Integrator: "rk4",
			Dt: 0.5, Duration: 1900.0,
			Protocol: ProtocolConfig{Type: "crate", CRate: 2.0},
		},
		"pulse": {
			Model: "spm", ParameterSet: "chen2020", Integrator: "rk4",
			Dt: 1.0, Duration: 3600.0,
			Protocol: ProtocolConfig{
				Type:          "drive",
				DriveTimes:    []float64{0, 600, 600.5, 1200, 1200.5, 3600},
				DriveCurrents: []float64{5, 5, 0, 0, 5, 5},
			},
		},
		"cccv-charge": {
			Model: "spm", ParameterSet: "chen2020", Integrator: "rk4",
			Dt: 1.0, Duration: 10000.0,
			Protocol: ProtocolConfig{
				Type: "cccv", Amps: -2.5, HoldVoltage: 4.2, CutoffCurrent: 0.05,
			},
		},
		"aging": {
			Model: "spm", SEI: "reaction-limited", ParameterSet: "chen2020",
			Integrator: "rk4", Dt: 1.0, Duration: 7200.0,
			Protocol: ProtocolConfig{Type: "cc", Amps: -2.5},
		},
	},
	"spme": {
		"1c-discharge": {
			Model: "spme", ParameterSet: "chen2020", Integrator: "rk4",
			Dt: 0.05, Duration: 3700.0,
			Protocol: ProtocolConfig{Type: "crate", CRate: 1.0},
		},
		"high-rate": {
			Model: "spme", ParameterSet: "ecker2015", Integrator: "rk4",
			Dt: 0.02, Duration: 700.0,
			Protocol: ProtocolConfig{Type: "crate", CRate: 5.0},
		},
	},
	"dfn": {
		"1c-discharge": {
			Model: "dfn", ParameterSet: "chen2020", Integrator: "rk4",
			Dt: 0.05, Duration: 3700.0,
			Protocol: ProtocolConfig{Type: "crate", CRate: 1.0},
		},
		"adaptive": {
			Model: "dfn", ParameterSet: "chen2020", Integrator: "rk45",
			Dt: 0.01, Duration: 3700.0, Adaptive: true, Tolerance: 1e-6,
			Protocol: ProtocolConfig{Type: "crate", CRate: 1.0},
		},
	},
}

func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	return names
}
