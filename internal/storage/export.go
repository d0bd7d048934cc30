package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/cellsim/internal/sim"
)

// ExportData is the standalone JSON export of a run.
type ExportData struct {
	Model        string             `json:"model"`
	ParameterSet string             `json:"parameter_set"`
	Integrator   string             `json:"integrator"`
	Dt           float64            `json:"dt"`
	Samples      int                `json:"samples"`
	Termination  string             `json:"termination"`
	Times        []float64          `json:"times"`
	Current      []float64          `json:"current"`
	Voltage      []float64          `json:"voltage"`
	SOC          []float64          `json:"soc"`
	Metrics      map[string]float64 `json:"metrics"`
}

func exportData(model, parameterSet, integrator string, dt float64, sol *sim.Solution) ExportData {
	return ExportData{
		Model:        model,
		ParameterSet: parameterSet,
		Integrator:   integrator,
		Dt:           dt,
		Samples:      len(sol.Times),
		Termination:  string(sol.Termination),
		Times:        sol.Times,
		Current:      sol.Current,
		Voltage:      sol.Voltage,
		SOC:          sol.SOC,
		Metrics:      sol.Metrics,
	}
}

// ExportJSON writes a run as indented JSON to path.
func ExportJSON(path, model, parameterSet, integrator string, dt float64, sol *sim.Solution) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return writeJSON(file, model, parameterSet, integrator, dt, sol)
}

// ExportJSONStdout writes a run as indented JSON to standard output.
func ExportJSONStdout(model, parameterSet, integrator string, dt float64, sol *sim.Solution) error {
	return writeJSON(os.Stdout, model, parameterSet, integrator, dt, sol)
}

func writeJSON(w io.Writer, model, parameterSet, integrator string, dt float64, sol *sim.Solution) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(exportData(model, parameterSet, integrator, dt, sol))
}
