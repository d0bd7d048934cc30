package experiment

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/san-kum/cellsim/internal/params"
	"github.com/san-kum/cellsim/internal/protocol"
	"github.com/san-kum/cellsim/internal/sim"
)

// ErrBadExperiment wraps all experiment text parse failures.
var ErrBadExperiment = errors.New("experiment: cannot parse")

var (
	dischargeRe = regexp.MustCompile(`^(discharge|charge) at (.+?) (for|until) (.+)$`)
	restRe      = regexp.MustCompile(`^rest for (.+)$`)
	holdRe      = regexp.MustCompile(`^hold at ([0-9.]+) v until ([0-9.]+) (a|ma)$`)
)

// Parse turns experiment text into a protocol sequence. Each line is one
// step, in the conventional phrasing:
//
//	Discharge at 1C for 1 hour
//	Rest for 10 minutes
//	Charge at 2.5 A until 4.2 V
//	Hold at 4.2 V until 50 mA
//
// C-rates are resolved against the set's nominal capacity.
func Parse(lines []string, set params.Set) (*protocol.Sequence, error) {
	steps := make([]protocol.Step, 0, len(lines))
	for _, line := range lines {
		text := strings.ToLower(strings.TrimSpace(line))
		if text == "" {
			continue
		}
		step, err := parseStep(text, set)
		if err != nil {
			return nil, err
		}
		step.Name = strings.TrimSpace(line)
		steps = append(steps, step)
	}
	return protocol.NewSequence(steps...)
}

func parseStep(text string, set params.Set) (protocol.Step, error) {
	if m := restRe.FindStringSubmatch(text); m != nil {
		dur, err := parseDuration(m[1])
		if err != nil {
			return protocol.Step{}, err
		}
		return protocol.Step{Program: protocol.Rest{}, Duration: dur}, nil
	}

	if m := holdRe.FindStringSubmatch(text); m != nil {
		voltage, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return protocol.Step{}, fmt.Errorf("%w: hold voltage %q", ErrBadExperiment, m[1])
		}
		cutoff, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return protocol.Step{}, fmt.Errorf("%w: cutoff current %q", ErrBadExperiment, m[2])
		}
		if m[3] == "ma" {
			cutoff /= 1000
		}
		// A hold is the CV tail of a CCCV program; the CC current just needs
		// to bound the regulated current from below.
		prog, err := protocol.NewCCCV(-1e3, voltage, cutoff)
		if err != nil {
			return protocol.Step{}, err
		}
		return protocol.Step{Program: prog}, nil
	}

	if m := dischargeRe.FindStringSubmatch(text); m != nil {
		amps, err := parseCurrent(m[2], set)
		if err != nil {
			return protocol.Step{}, err
		}
		if m[1] == "charge" {
			amps = -amps
		}
		prog := protocol.ConstantCurrent{Amps: amps}

		switch m[3] {
		case "for":
			dur, err := parseDuration(m[4])
			if err != nil {
				return protocol.Step{}, err
			}
			return protocol.Step{Program: prog, Duration: dur}, nil
		case "until":
			target, err := parseVoltage(m[4])
			if err != nil {
				return protocol.Step{}, err
			}
			return protocol.Step{Program: untilVoltage{prog: prog, target: target, charging: amps < 0}}, nil
		}
	}

	return protocol.Step{}, fmt.Errorf("%w: %q", ErrBadExperiment, text)
}

// parseCurrent understands "1C", "C/2", "2.5 a", "2.5a", "500 ma".
func parseCurrent(s string, set params.Set) (float64, error) {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "c/") {
		denom, err := strconv.ParseFloat(s[2:], 64)
		if err != nil || denom == 0 {
			return 0, fmt.Errorf("%w: rate %q", ErrBadExperiment, s)
		}
		return crateAmps(1/denom, set)
	}
	if strings.HasSuffix(s, "c") {
		rate, err := strconv.ParseFloat(strings.TrimSuffix(s, "c"), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: rate %q", ErrBadExperiment, s)
		}
		return crateAmps(rate, set)
	}

	scale := 1.0
	switch {
	case strings.HasSuffix(s, "ma"):
		s, scale = strings.TrimSuffix(s, "ma"), 1e-3
	case strings.HasSuffix(s, "a"):
		s = strings.TrimSuffix(s, "a")
	}
	amps, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: current %q", ErrBadExperiment, s)
	}
	return amps * scale, nil
}

func crateAmps(rate float64, set params.Set) (float64, error) {
	capacity, err := set.Float(params.NominalCapacity)
	if err != nil {
		return 0, err
	}
	return rate * capacity, nil
}

func parseDuration(s string) (float64, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return 0, fmt.Errorf("%w: duration %q", ErrBadExperiment, s)
	}
	value, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%w: duration %q", ErrBadExperiment, s)
	}
	switch strings.TrimSuffix(fields[1], "s") {
	case "hour":
		return value * 3600, nil
	case "minute":
		return value * 60, nil
	case "second":
		return value, nil
	}
	return 0, fmt.Errorf("%w: duration unit %q", ErrBadExperiment, fields[1])
}

func parseVoltage(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "v"))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: voltage %q", ErrBadExperiment, s)
	}
	return v, nil
}

// untilVoltage runs a program until the terminal voltage crosses a
// target: downward for discharge steps, upward for charge steps.
type untilVoltage struct {
	prog     sim.Protocol
	target   float64
	charging bool
}

func (u untilVoltage) Current(x sim.State, voltage float64, t float64) float64 {
	return u.prog.Current(x, voltage, t)
}

func (u untilVoltage) Complete(_ sim.State, voltage float64, _ float64) bool {
	if u.charging {
		return voltage >= u.target
	}
	return voltage <= u.target
}
