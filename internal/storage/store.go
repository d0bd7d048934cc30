// Package storage persists simulation runs: a JSON metadata document per
// run plus a CSV trajectory, under a content-addressed run directory.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/cellsim/internal/sim"
)

type Store struct {
	dir string
}

// RunMeta is the JSON sidecar describing a stored run.
type RunMeta struct {
	ID           string             `json:"id"`
	Model        string             `json:"model"`
	ParameterSet string             `json:"parameter_set"`
	Integrator   string             `json:"integrator"`
	Dt           float64            `json:"dt"`
	Duration     float64            `json:"duration"`
	Samples      int                `json:"samples"`
	Termination  string             `json:"termination"`
	Metrics      map[string]float64 `json:"metrics"`
	CreatedAt    time.Time          `json:"created_at"`
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.dir, 0755)
}

func (s *Store) runDir(id string) string {
	return filepath.Join(s.dir, id)
}

// Save writes the solution and returns the generated run id.
func (s *Store) Save(model, parameterSet, integrator string, dt, duration float64, sol *sim.Solution) (string, error) {
	id := fmt.Sprintf("%s-%s", model, time.Now().UTC().Format("20060102-150405.000"))
	dir := s.runDir(id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	meta := RunMeta{
		ID:           id,
		Model:        model,
		ParameterSet: parameterSet,
		Integrator:   integrator,
		Dt:           dt,
		Duration:     duration,
		Samples:      len(sol.Times),
		Termination:  string(sol.Termination),
		Metrics:      sol.Metrics,
		CreatedAt:    time.Now().UTC(),
	}

	metaFile, err := os.Create(filepath.Join(dir, "meta.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()
	encoder := json.NewEncoder(metaFile)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(meta); err != nil {
		return "", err
	}

	if err := s.writeTrace(filepath.Join(dir, "trace.csv"), sol); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) writeTrace(path string, sol *sim.Solution) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"time_s", "current_a", "voltage_v", "soc"}); err != nil {
		return err
	}
	for i := range sol.Times {
		row := []string{
			strconv.FormatFloat(sol.Times[i], 'g', -1, 64),
			strconv.FormatFloat(sol.Current[i], 'g', -1, 64),
			strconv.FormatFloat(sol.Voltage[i], 'g', -1, 64),
			strconv.FormatFloat(sol.SOC[i], 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// Load reads a run's metadata.
func (s *Store) Load(id string) (*RunMeta, error) {
	data, err := os.ReadFile(filepath.Join(s.runDir(id), "meta.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadTrace reads a run's trajectory back from CSV.
func (s *Store) LoadTrace(id string) (*sim.Solution, error) {
	file, err := os.Open(filepath.Join(s.runDir(id), "trace.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("storage: empty trace for run %s", id)
	}

	sol := &sim.Solution{Metrics: map[string]float64{}}
	for _, row := range rows[1:] {
		if len(row) != 4 {
			return nil, fmt.Errorf("storage: malformed trace row in run %s", id)
		}
		vals := make([]float64, 4)
		for j, cell := range row {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("storage: bad value %q in run %s", cell, id)
			}
			vals[j] = v
		}
		sol.Times = append(sol.Times, vals[0])
		sol.Current = append(sol.Current, vals[1])
		sol.Voltage = append(sol.Voltage, vals[2])
		sol.SOC = append(sol.SOC, vals[3])
	}
	return sol, nil
}

// List returns stored run ids, newest first.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			ids = append(ids, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(ids)))
	return ids, nil
}

// Delete removes a stored run.
func (s *Store) Delete(id string) error {
	return os.RemoveAll(s.runDir(id))
}
