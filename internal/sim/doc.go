// Package sim provides core simulation primitives for lithium-ion cells.
//
// The package defines the fundamental interfaces and types for time-domain
// simulation of electrochemical cell models:
//
//   - [State]: vector of internal model states (particle concentrations, ...)
//   - [Model]: a cell model (dX/dt = f(X, I, t) plus voltage/SOC outputs)
//   - [Integrator]: numerical time stepper
//   - [Protocol]: the current program applied to the cell
//   - [Simulator]: binds model, integrator, and protocol into a run
//
// # Example
//
//	model, _ := def.Build(set)
//	integ := integrators.NewRK4()
//	s := sim.New(model, integ, protocol.NewCRate(1, 5.0))
//	sol, _ := s.Run(ctx, sim.Span{End: 3600}, cfg)
//
// # Conventions
//
// Applied current is in amperes with positive values discharging the cell.
// Time is in seconds. Voltage is the terminal voltage in volts.
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. For parallel parameter sweeps,
// use the [Ensemble] type which safely manages multiple simulation runs.
package sim
