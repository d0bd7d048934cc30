package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/cellsim/internal/config"
	"github.com/san-kum/cellsim/internal/models"
	"github.com/san-kum/cellsim/internal/params"
)

func TestBuildIntegrator(t *testing.T) {
	for _, name := range Integrators() {
		ig, err := BuildIntegrator(name)
		if err != nil || ig == nil {
			t.Errorf("BuildIntegrator(%q) = %v, %v", name, ig, err)
		}
	}
	if _, err := BuildIntegrator("leapfrog"); err == nil {
		t.Error("unknown integrator accepted")
	}
}

func TestLoadParamsOverrides(t *testing.T) {
	set, err := LoadParams("chen2020", map[string]float64{
		"Current function [A]": 7.5,
	})
	if err != nil {
		t.Fatal(err)
	}
	got, err := set.Float(params.CurrentFunction)
	if err != nil || got != 7.5 {
		t.Errorf("override: %g, %v", got, err)
	}

	if _, err := LoadParams("chen2020", map[string]float64{"Frobnication rate": 1}); !errors.Is(err, params.ErrUnknownKey) {
		t.Errorf("unknown override key error = %v", err)
	}
	if _, err := LoadParams("unobtainium2077", nil); !errors.Is(err, params.ErrUnknownSet) {
		t.Errorf("unknown set error = %v", err)
	}
}

func TestBuildProtocolTypes(t *testing.T) {
	set := chenSet(t)

	tests := []struct {
		name string
		pc   config.ProtocolConfig
		// current expected at t=0 with voltage well inside the window
		want float64
	}{
		{"default uses current function", config.ProtocolConfig{}, 5.0},
		{"cc", config.ProtocolConfig{Type: "cc", Amps: 2.0}, 2.0},
		{"crate", config.ProtocolConfig{Type: "crate", CRate: 2.0}, 10.0},
		{"rest", config.ProtocolConfig{Type: "rest"}, 0.0},
		{"cccv", config.ProtocolConfig{Type: "cccv", Amps: -2.5, HoldVoltage: 4.2, CutoffCurrent: 0.05}, -2.5},
		{"drive", config.ProtocolConfig{
			Type:          "drive",
			DriveTimes:    []float64{0, 3600},
			DriveCurrents: []float64{3, 3},
		}, 3.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := BuildProtocol(tt.pc, set)
			if err != nil {
				t.Fatal(err)
			}
			if got := prog.Current(nil, 3.6, 0); got != tt.want {
				t.Errorf("current = %g, want %g", got, tt.want)
			}
		})
	}

	if _, err := BuildProtocol(config.ProtocolConfig{Type: "sinusoid"}, set); err == nil {
		t.Error("unknown protocol type accepted")
	}
	if _, err := BuildProtocol(config.ProtocolConfig{Type: "drive", DriveTimes: []float64{0}}, set); err == nil {
		t.Error("degenerate drive profile accepted")
	}
}

func TestBuildRejectsBadConfigs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   error
	}{
		{"unknown model", func(c *config.Config) { c.Model = "p4d" }, models.ErrUnknownVariant},
		{"unknown sei", func(c *config.Config) { c.SEI = "porous" }, models.ErrUnknownOption},
		{"unknown set", func(c *config.Config) { c.ParameterSet = "nope" }, params.ErrUnknownSet},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.mutate(cfg)
			if _, err := Build(cfg); !errors.Is(err, tt.want) {
				t.Errorf("Build error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBuildAndRunShortDischarge(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Duration = 60

	run, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if run.Config.LowerVoltageCutoff != 2.5 || run.Config.UpperVoltageCutoff != 4.2 {
		t.Errorf("cutoffs = %g, %g", run.Config.LowerVoltageCutoff, run.Config.UpperVoltageCutoff)
	}

	sol, err := run.Simulator.Run(context.Background(), run.Span, run.Config)
	if err != nil {
		t.Fatal(err)
	}
	if sol.Empty() {
		t.Fatal("empty solution")
	}
	if sol.LastTime() != 60 {
		t.Errorf("last time = %g, want 60", sol.LastTime())
	}
	if sol.SOC[len(sol.SOC)-1] >= sol.SOC[0] {
		t.Error("SOC did not decrease under discharge")
	}
}
