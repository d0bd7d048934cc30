// Package analysis post-processes solved trajectories.
//
//   - [DifferentialCapacity]: dQ/dV curves for phase-transition peaks
//   - [CapacityAtRate]: delivered capacity between voltage limits
//   - [FFT] / [PowerSpectrum]: ripple content of drive-cycle currents
package analysis
