// Package experiment assembles runnable simulations from declarative
// descriptions: a config file, a preset, or a plain-text experiment like
// "Discharge at 1C for 1 hour".
package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/cellsim/internal/integrators"
	"github.com/san-kum/cellsim/internal/sim"
)

var integratorRegistry = map[string]func() sim.Integrator{
	"euler": func() sim.Integrator { return integrators.NewEuler() },
	"rk4":   func() sim.Integrator { return integrators.NewRK4() },
	"rk45":  func() sim.Integrator { return integrators.NewRK45() },
}

// BuildIntegrator resolves an integrator by name.
func BuildIntegrator(name string) (sim.Integrator, error) {
	build, ok := integratorRegistry[name]
	if !ok {
		return nil, fmt.Errorf("experiment: unknown integrator %q (available: %v)", name, Integrators())
	}
	return build(), nil
}

// Integrators lists the registered stepper names.
func Integrators() []string {
	names := make([]string, 0, len(integratorRegistry))
	for name := range integratorRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
