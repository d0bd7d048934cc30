// Package protocol implements the current programs a simulation can run:
// constant current, rests, interpolated drive profiles, constant
// current / constant voltage charging, and step sequences.
//
// Sign convention follows the rest of the module: positive current
// discharges the cell.
package protocol

import (
	"fmt"

	"github.com/san-kum/cellsim/internal/sim"
)

// ConstantCurrent holds a fixed applied current [A].
type ConstantCurrent struct {
	Amps float64
}

func (p ConstantCurrent) Current(_ sim.State, _ float64, _ float64) float64 {
	return p.Amps
}

// Rest applies zero current.
type Rest struct{}

func (Rest) Current(_ sim.State, _ float64, _ float64) float64 { return 0 }

// CRate expresses a constant current as a multiple of the cell's nominal
// capacity. Positive rates discharge.
func CRate(rate, capacityAh float64) ConstantCurrent {
	return ConstantCurrent{Amps: rate * capacityAh}
}

// Profile drives the cell with a time-dependent current, typically a
// piecewise-linear interpolant over measured drive-cycle data.
type Profile struct {
	Fn func(t float64) float64
}

func (p Profile) Current(_ sim.State, _ float64, t float64) float64 {
	return p.Fn(t)
}

// CCCV charges at a constant current until the hold voltage is reached,
// then regulates current to hold that voltage, finishing when the
// regulated current tapers below the cutoff.
type CCCV struct {
	ChargeCurrent float64 // [A], negative
	HoldVoltage   float64 // [V]
	CutoffCurrent float64 // [A], magnitude of the taper cutoff
	Gain          float64 // voltage regulation gain [A/V]
}

// NewCCCV builds a CC-CV charge step. chargeCurrent must be negative
// (charging); a zero gain gets a default sized to the charge current.
func NewCCCV(chargeCurrent, holdVoltage, cutoffCurrent float64) (*CCCV, error) {
	if chargeCurrent >= 0 {
		return nil, fmt.Errorf("protocol: CCCV charge current must be negative, got %g", chargeCurrent)
	}
	if cutoffCurrent <= 0 {
		return nil, fmt.Errorf("protocol: CCCV cutoff current must be positive, got %g", cutoffCurrent)
	}
	return &CCCV{
		ChargeCurrent: chargeCurrent,
		HoldVoltage:   holdVoltage,
		CutoffCurrent: cutoffCurrent,
		Gain:          -20 * chargeCurrent, // full current recovered at 50 mV below hold
	}, nil
}

func (p *CCCV) Current(_ sim.State, voltage float64, _ float64) float64 {
	// Proportional regulation toward the hold voltage, clamped between the
	// CC charge current and zero. Below the hold voltage this saturates at
	// the CC current; near it the current tapers.
	i := -p.Gain * (p.HoldVoltage - voltage)
	if i < p.ChargeCurrent {
		i = p.ChargeCurrent
	}
	if i > 0 {
		i = 0
	}
	return i
}

// Complete reports the end of the CV taper.
func (p *CCCV) Complete(_ sim.State, voltage float64, _ float64) bool {
	i := p.Current(nil, voltage, 0)
	return i > p.ChargeCurrent && -i <= p.CutoffCurrent
}
