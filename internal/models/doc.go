// Package models implements the electrochemical cell models.
//
// Three variants are available, in increasing fidelity and cost:
//
//   - [SPM]: single particle model; one representative particle per
//     electrode with spherical diffusion, uniform electrolyte
//   - [SPMe]: SPM plus electrolyte diffusion across the cell sandwich
//   - [DFN]: Doyle-Fuller-Newman porous-electrode model; a particle per
//     through-cell node with reaction current distributed by local
//     exchange current density
//
// All variants share finite-volume spherical particle discretization,
// Butler-Volmer kinetics, and fitted open-circuit potentials. The optional
// reaction-limited SEI growth mechanism adds a film thickness state on the
// negative electrode, a film resistance, and a lithium inventory loss.
//
// Models are described by a [Definition] (variant tag plus options),
// validated at construction, and realized against a parameter set with
// [Definition.Build].
package models
