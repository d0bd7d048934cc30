package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt        = 1.0
	DefaultDuration  = 3600.0
	DefaultTolerance = 1e-6
	DefaultCRate     = 1.0
	DefaultSet       = "chen2020"
)

type Config struct {
	Model        string             `yaml:"model"`
	SEI          string             `yaml:"sei"`
	ParameterSet string             `yaml:"parameter_set"`
	Overrides    map[string]float64 `yaml:"overrides"`
	Integrator   string             `yaml:"integrator"`
	Dt           float64            `yaml:"dt"`
	Duration     float64            `yaml:"duration"`
	Adaptive     bool               `yaml:"adaptive"`
	Tolerance    float64            `yaml:"tolerance"`
	Protocol     ProtocolConfig     `yaml:"protocol"`
}

type ProtocolConfig struct {
	Type  string  `yaml:"type"` // cc, crate, rest, cccv, drive
	Amps  float64 `yaml:"amps"`
	CRate float64 `yaml:"crate"`

	HoldVoltage   float64 `yaml:"hold_voltage"`
	CutoffCurrent float64 `yaml:"cutoff_current"`

	DriveTimes    []float64 `yaml:"drive_times"`
	DriveCurrents []float64 `yaml:"drive_currents"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:        "spm",
		SEI:          "none",
		ParameterSet: DefaultSet,
		Integrator:   "rk4",
		Dt:           DefaultDt,
		Duration:     DefaultDuration,
		Tolerance:    DefaultTolerance,
		Protocol: ProtocolConfig{
			Type:  "crate",
			CRate: DefaultCRate,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
