package experiment

import (
	"fmt"

	"github.com/san-kum/cellsim/internal/config"
	"github.com/san-kum/cellsim/internal/interp"
	"github.com/san-kum/cellsim/internal/models"
	"github.com/san-kum/cellsim/internal/params"
	"github.com/san-kum/cellsim/internal/protocol"
	"github.com/san-kum/cellsim/internal/sim"
)

// Run bundles everything a solve needs.
type Run struct {
	Simulator *Simulation
	Span      sim.Span
	Config    sim.Config
}

// Simulation pairs a simulator with the parameter snapshot it was built
// from, so callers can report what actually ran.
type Simulation struct {
	*sim.Simulator
	Params params.Set
}

// LoadParams resolves the named set and applies scalar overrides as an
// immutable snapshot.
func LoadParams(name string, overrides map[string]float64) (params.Set, error) {
	set, err := params.Load(name)
	if err != nil {
		return params.Set{}, err
	}
	if len(overrides) == 0 {
		return set, nil
	}

	patch := make(map[params.Key]params.Value, len(overrides))
	for k, v := range overrides {
		patch[params.Key(k)] = params.Scalar(v)
	}
	return set.With(patch)
}

// Build assembles a runnable simulation from a config.
func Build(cfg *config.Config) (*Run, error) {
	set, err := LoadParams(cfg.ParameterSet, cfg.Overrides)
	if err != nil {
		return nil, err
	}

	variant, err := models.ParseVariant(cfg.Model)
	if err != nil {
		return nil, err
	}
	opts := models.DefaultOptions()
	if cfg.SEI != "" {
		opts.SEI = models.SEIMode(cfg.SEI)
	}
	def, err := models.New(variant, opts)
	if err != nil {
		return nil, err
	}
	model, err := def.Build(set)
	if err != nil {
		return nil, err
	}

	integrator, err := BuildIntegrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}

	prog, err := BuildProtocol(cfg.Protocol, set)
	if err != nil {
		return nil, err
	}

	simCfg := sim.DefaultConfig()
	simCfg.Dt = cfg.Dt
	simCfg.Adaptive = cfg.Adaptive
	if cfg.Tolerance > 0 {
		simCfg.Tolerance = cfg.Tolerance
	}
	if lower, err := set.Float(params.LowerVoltageCutoff); err == nil {
		simCfg.LowerVoltageCutoff = lower
	}
	if upper, err := set.Float(params.UpperVoltageCutoff); err == nil {
		simCfg.UpperVoltageCutoff = upper
	}

	return &Run{
		Simulator: &Simulation{
			Simulator: sim.New(model, integrator, prog),
			Params:    set,
		},
		Span:   sim.Span{Start: 0, End: cfg.Duration},
		Config: simCfg,
	}, nil
}

// BuildProtocol resolves a protocol config against a parameter set (the
// set supplies nominal capacity for C-rate programs and the default
// current function).
func BuildProtocol(pc config.ProtocolConfig, set params.Set) (sim.Protocol, error) {
	switch pc.Type {
	case "", "default":
		// The set's current function drives the cell.
		v, err := set.Get(params.CurrentFunction)
		if err != nil {
			return nil, err
		}
		if v.IsFunction() {
			return protocol.Profile{Fn: func(t float64) float64 { return v.At(t) }}, nil
		}
		amps, _ := v.Float()
		return protocol.ConstantCurrent{Amps: amps}, nil

	case "cc":
		return protocol.ConstantCurrent{Amps: pc.Amps}, nil

	case "crate":
		capacity, err := set.Float(params.NominalCapacity)
		if err != nil {
			return nil, err
		}
		return protocol.CRate(pc.CRate, capacity), nil

	case "rest":
		return protocol.Rest{}, nil

	case "cccv":
		return protocol.NewCCCV(pc.Amps, pc.HoldVoltage, pc.CutoffCurrent)

	case "drive":
		p, err := interp.NewPiecewiseLinear(pc.DriveTimes, pc.DriveCurrents)
		if err != nil {
			return nil, err
		}
		return protocol.Profile{Fn: p.Func()}, nil
	}

	return nil, fmt.Errorf("experiment: unknown protocol type %q", pc.Type)
}
