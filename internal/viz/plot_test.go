package viz

import (
	"strings"
	"testing"

	"github.com/san-kum/cellsim/internal/sim"
)

func traceSolution(n int) *sim.Solution {
	sol := &sim.Solution{Termination: sim.TerminationFinalTime}
	for i := 0; i < n; i++ {
		sol.Times = append(sol.Times, float64(i))
		sol.Current = append(sol.Current, 5.0)
		sol.Voltage = append(sol.Voltage, 4.0-0.001*float64(i))
		sol.SOC = append(sol.SOC, 1.0-0.0001*float64(i))
	}
	return sol
}

func TestPlotSeries(t *testing.T) {
	sol := traceSolution(200)
	for _, series := range []Series{SeriesVoltage, SeriesCurrent, SeriesSOC} {
		out, err := Plot(sol, series)
		if err != nil {
			t.Fatalf("Plot(%s): %v", series, err)
		}
		if out == "" {
			t.Errorf("Plot(%s) produced no output", series)
		}
	}

	if _, err := Plot(sol, Series("impedance")); err == nil {
		t.Error("unknown series accepted")
	}
	if _, err := Plot(&sim.Solution{}, SeriesVoltage); err == nil {
		t.Error("empty solution accepted")
	}
}

func TestPlotMentionsCaption(t *testing.T) {
	out, err := Plot(traceSolution(50), SeriesVoltage)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Voltage [V]") {
		t.Error("caption missing from plot")
	}
	if !strings.Contains(out, "50 samples") {
		t.Error("sample count missing from footer")
	}
}

func TestCompare(t *testing.T) {
	sols := []*sim.Solution{traceSolution(100), traceSolution(100)}
	out, err := Compare(sols, []string{"1C", "2C"}, SeriesVoltage)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "1C") || !strings.Contains(out, "2C") {
		t.Error("labels missing from comparison")
	}

	if _, err := Compare(nil, nil, SeriesVoltage); err == nil {
		t.Error("empty comparison accepted")
	}
}

func TestDownsample(t *testing.T) {
	data := make([]float64, 1000)
	for i := range data {
		data[i] = float64(i)
	}

	out := downsample(data, 100)
	if len(out) != 100 {
		t.Fatalf("len = %d, want 100", len(out))
	}
	if out[0] != 0 || out[99] != 999 {
		t.Errorf("endpoints = %g, %g; want 0, 999", out[0], out[99])
	}

	short := []float64{1, 2, 3}
	if got := downsample(short, 100); len(got) != 3 {
		t.Errorf("short input resampled to %d", len(got))
	}
}
