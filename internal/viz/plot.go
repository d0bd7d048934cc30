// Package viz renders solved trajectories in the terminal: asciigraph
// line plots for traces and a Bubble Tea live view for watching a solve
// as it runs.
package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/cellsim/internal/sim"
)

const (
	plotWidth  = 100
	plotHeight = 18
)

// Series selects which trace of a solution to plot.
type Series string

const (
	SeriesVoltage Series = "voltage"
	SeriesCurrent Series = "current"
	SeriesSOC     Series = "soc"
)

func seriesData(sol *sim.Solution, series Series) ([]float64, string, error) {
	switch series {
	case SeriesVoltage:
		return sol.Voltage, "Voltage [V]", nil
	case SeriesCurrent:
		return sol.Current, "Current [A]", nil
	case SeriesSOC:
		return sol.SOC, "State of charge", nil
	}
	return nil, "", fmt.Errorf("viz: unknown series %q", series)
}

// Plot renders one trace of a solution as an ASCII line chart.
func Plot(sol *sim.Solution, series Series) (string, error) {
	if sol.Empty() {
		return "", fmt.Errorf("viz: empty solution")
	}
	data, caption, err := seriesData(sol, series)
	if err != nil {
		return "", err
	}

	graph := asciigraph.Plot(downsample(data, plotWidth),
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(caption),
	)

	var b strings.Builder
	b.WriteString(graph)
	b.WriteString("\n")
	b.WriteString(Subtle.Render(fmt.Sprintf("t: %.0f .. %.0f s, %d samples, %s",
		sol.FirstTime(), sol.LastTime(), len(sol.Times), sol.Termination)))
	b.WriteString("\n")
	return b.String(), nil
}

// PlotAll renders voltage, current, and SOC stacked.
func PlotAll(sol *sim.Solution) (string, error) {
	var b strings.Builder
	for _, series := range []Series{SeriesVoltage, SeriesCurrent, SeriesSOC} {
		plot, err := Plot(sol, series)
		if err != nil {
			return "", err
		}
		b.WriteString(plot)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// Compare overlays the same series from several solutions.
func Compare(sols []*sim.Solution, labels []string, series Series) (string, error) {
	if len(sols) == 0 {
		return "", fmt.Errorf("viz: nothing to compare")
	}
	data := make([][]float64, 0, len(sols))
	var caption string
	for _, sol := range sols {
		if sol.Empty() {
			return "", fmt.Errorf("viz: empty solution")
		}
		d, c, err := seriesData(sol, series)
		if err != nil {
			return "", err
		}
		caption = c
		data = append(data, downsample(d, plotWidth))
	}

	graph := asciigraph.PlotMany(data,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Green, asciigraph.Blue, asciigraph.Yellow),
	)

	var b strings.Builder
	b.WriteString(graph)
	b.WriteString("\n")
	for i, label := range labels {
		if i >= len(sols) {
			break
		}
		b.WriteString(Subtle.Render(fmt.Sprintf("  series %d: %s", i+1, label)))
		b.WriteString("\n")
	}
	return b.String(), nil
}

// downsample reduces a trace to at most width points by striding.
func downsample(data []float64, width int) []float64 {
	if len(data) <= width || width <= 0 {
		return data
	}
	out := make([]float64, 0, width)
	stride := float64(len(data)-1) / float64(width-1)
	for i := 0; i < width; i++ {
		out = append(out, data[int(float64(i)*stride)])
	}
	return out
}
