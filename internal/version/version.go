// Package version exposes the build version of cellsim.
package version

import "fmt"

// Overridden at build time via -ldflags "-X .../internal/version.version=...".
var (
	version = "0.3.0"
	commit  = "dev"
)

// Version returns the semantic version string.
func Version() string { return version }

// Full returns the version together with the build commit.
func Full() string { return fmt.Sprintf("cellsim %s (%s)", version, commit) }
