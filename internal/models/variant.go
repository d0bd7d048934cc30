package models

import (
	"errors"
	"fmt"

	"github.com/san-kum/cellsim/internal/params"
	"github.com/san-kum/cellsim/internal/sim"
)

// Variant selects one of the implemented model fidelities.
type Variant string

const (
	SPMVariant  Variant = "spm"
	SPMeVariant Variant = "spme"
	DFNVariant  Variant = "dfn"
)

func (v Variant) String() string { return string(v) }

// Variants lists the closed set of model tags.
func Variants() []Variant {
	return []Variant{SPMVariant, SPMeVariant, DFNVariant}
}

// SEIMode selects the degradation mechanism, if any.
type SEIMode string

const (
	SEINone            SEIMode = "none"
	SEIReactionLimited SEIMode = "reaction-limited"
)

var (
	// ErrUnknownVariant indicates a model tag outside the closed set.
	ErrUnknownVariant = errors.New("models: unknown model variant")

	// ErrUnknownOption indicates an unsupported option value.
	ErrUnknownOption = errors.New("models: unknown model option")
)

// Options carries optional physics switches.
type Options struct {
	SEI SEIMode
}

// DefaultOptions disables all optional mechanisms.
func DefaultOptions() Options {
	return Options{SEI: SEINone}
}

// Definition is a validated model handle: a variant tag plus options,
// not yet bound to parameters.
type Definition struct {
	variant Variant
	opts    Options
}

// New validates the variant and option tags. Invalid tags fail here, at
// construction, rather than surfacing later inside a solve.
func New(variant Variant, opts Options) (*Definition, error) {
	switch variant {
	case SPMVariant, SPMeVariant, DFNVariant:
	default:
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownVariant, string(variant), Variants())
	}

	if opts.SEI == "" {
		opts.SEI = SEINone
	}
	switch opts.SEI {
	case SEINone, SEIReactionLimited:
	default:
		return nil, fmt.Errorf("%w: SEI=%q", ErrUnknownOption, string(opts.SEI))
	}

	return &Definition{variant: variant, opts: opts}, nil
}

// ParseVariant maps a user-facing tag to a Variant.
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case SPMVariant, SPMeVariant, DFNVariant:
		return Variant(s), nil
	}
	return "", fmt.Errorf("%w: %q (available: %v)", ErrUnknownVariant, s, Variants())
}

func (d *Definition) Variant() Variant { return d.variant }
func (d *Definition) Options() Options { return d.opts }

// Build realizes the definition against a parameter set, returning the
// concrete model. Missing parameters fail here.
func (d *Definition) Build(set params.Set) (sim.Model, error) {
	switch d.variant {
	case SPMVariant:
		return newSPM(set, d.opts)
	case SPMeVariant:
		return newSPMe(set, d.opts)
	case DFNVariant:
		return newDFN(set, d.opts)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, string(d.variant))
}
