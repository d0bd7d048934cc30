// Command cellsim is the lithium-ion cell simulation lab CLI: run and
// store solves, plot and analyze stored runs, and serve the HTTP API.
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/san-kum/cellsim/internal/analysis"
	"github.com/san-kum/cellsim/internal/api"
	"github.com/san-kum/cellsim/internal/config"
	"github.com/san-kum/cellsim/internal/experiment"
	"github.com/san-kum/cellsim/internal/metrics"
	"github.com/san-kum/cellsim/internal/models"
	"github.com/san-kum/cellsim/internal/params"
	"github.com/san-kum/cellsim/internal/sim"
	"github.com/san-kum/cellsim/internal/storage"
	"github.com/san-kum/cellsim/internal/version"
	"github.com/san-kum/cellsim/internal/viz"
)

var (
	dataDir       string
	dt            float64
	duration      float64
	parameterSet  string
	seiMode       string
	integrator    string
	adaptive      bool
	tolerance     float64
	overrides     []string
	configFile    string
	preset        string
	protocolType  string
	amps          float64
	crate         float64
	holdVoltage   float64
	cutoffCurrent float64
	showPlot      bool
	// Plot and compare series selection
	series string
	// Parameter sweep
	sweepParam  string
	sweepValues string
	// Analysis
	voltageFloor float64
	// Export
	outFile string
	// API server
	addr    string
	verbose bool
	// Experiment model selection
	modelName string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cellsim",
		Short: "lithium-ion cell simulation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".cellsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run a simulation and store the result",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep [s]")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration [s]")
	runCmd.Flags().StringVar(&parameterSet, "parameters", config.DefaultSet, "parameter set")
	runCmd.Flags().StringVar(&seiMode, "sei", "none", "sei degradation mode")
	runCmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator")
	runCmd.Flags().BoolVar(&adaptive, "adaptive", false, "adaptive stepping")
	runCmd.Flags().Float64Var(&tolerance, "tol", config.DefaultTolerance, "adaptive tolerance")
	runCmd.Flags().StringArrayVar(&overrides, "override", nil, "parameter override, name=value (repeatable)")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().StringVar(&protocolType, "protocol", "", "protocol type (cc, crate, rest, cccv)")
	runCmd.Flags().Float64Var(&amps, "amps", 0, "constant current [A]")
	runCmd.Flags().Float64Var(&crate, "crate", config.DefaultCRate, "discharge rate [C]")
	runCmd.Flags().Float64Var(&holdVoltage, "hold", 0, "cccv hold voltage [V]")
	runCmd.Flags().Float64Var(&cutoffCurrent, "cutoff", 0, "cccv cutoff current [A]")
	runCmd.Flags().BoolVar(&showPlot, "plot", false, "plot traces after the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&series, "series", "all", "series to plot (voltage, current, soc, all)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run traces as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run traces as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSONRun,
	}
	exportJSONCmd.Flags().StringVar(&outFile, "out", "", "output path (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			sort.Strings(presets)
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	parametersCmd := &cobra.Command{
		Use:   "parameters [set]",
		Short: "list parameter sets, or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showParameters,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [model] [rate1] [rate2] ...",
		Short: "compare discharge rates on the same cell",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareRates,
	}
	compareCmd.Flags().Float64Var(&dt, "dt", 0.05, "timestep [s]")
	compareCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration [s]")
	compareCmd.Flags().StringVar(&parameterSet, "parameters", config.DefaultSet, "parameter set")
	compareCmd.Flags().StringVar(&series, "series", "voltage", "series to compare")

	sweepCmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "sweep one parameter across a family of runs",
		Args:  cobra.ExactArgs(1),
		RunE:  sweepParameter,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "", "parameter name to sweep")
	sweepCmd.Flags().StringVar(&sweepValues, "values", "", "comma-separated values")
	sweepCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep [s]")
	sweepCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration [s]")
	sweepCmd.Flags().StringVar(&parameterSet, "parameters", config.DefaultSet, "parameter set")
	sweepCmd.Flags().Float64Var(&crate, "crate", config.DefaultCRate, "discharge rate [C]")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "differential capacity and frequency analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().Float64Var(&voltageFloor, "floor", 3.0, "voltage floor for capacity [V]")

	experimentCmd := &cobra.Command{
		Use:   "experiment [file]",
		Short: "run an experiment described in plain text",
		Args:  cobra.ExactArgs(1),
		RunE:  runExperiment,
	}
	experimentCmd.Flags().StringVar(&parameterSet, "parameters", config.DefaultSet, "parameter set")
	experimentCmd.Flags().StringVar(&seiMode, "sei", "none", "sei degradation mode")
	experimentCmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator")
	experimentCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep [s]")
	experimentCmd.Flags().Float64Var(&duration, "time", 24*3600.0, "time limit [s]")
	experimentCmd.Flags().StringArrayVar(&overrides, "override", nil, "parameter override, name=value (repeatable)")
	experimentCmd.Flags().StringVar(&modelName, "model", "spm", "cell model")

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "watch a simulation as it runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep [s]")
	liveCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration [s]")
	liveCmd.Flags().StringVar(&parameterSet, "parameters", config.DefaultSet, "parameter set")
	liveCmd.Flags().StringVar(&seiMode, "sei", "none", "sei degradation mode")
	liveCmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator")
	liveCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	liveCmd.Flags().Float64Var(&crate, "crate", config.DefaultCRate, "discharge rate [C]")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the HTTP API",
		RunE:  serveAPI,
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	serveCmd.Flags().BoolVar(&verbose, "verbose", false, "debug logging")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.Full())
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportJSONCmd,
		presetsCmd, parametersCmd, compareCmd, sweepCmd, analyzeCmd, experimentCmd,
		liveCmd, serveCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// parseOverrides turns repeated name=value flags into a parameter patch.
func parseOverrides(pairs []string) (map[string]float64, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("override %q is not name=value", pair)
		}
		value, err := cast.ToFloat64E(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("override %q: %w", pair, err)
		}
		out[strings.TrimSpace(name)] = value
	}
	return out, nil
}

// resolveConfig builds the run config: defaults, then preset, then config
// file, then any flags the user actually set.
func resolveConfig(cmd *cobra.Command, model string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(model, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
		c := *p
		cfg = &c
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	cfg.Model = model
	flags := cmd.Flags()
	if flags.Changed("parameters") {
		cfg.ParameterSet = parameterSet
	}
	if flags.Changed("sei") {
		cfg.SEI = seiMode
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("adaptive") {
		cfg.Adaptive = adaptive
	}
	if flags.Changed("tol") {
		cfg.Tolerance = tolerance
	}
	if flags.Changed("protocol") {
		cfg.Protocol.Type = protocolType
	}
	if flags.Changed("amps") {
		cfg.Protocol.Amps = amps
	}
	if flags.Changed("crate") {
		cfg.Protocol.CRate = crate
	}
	if flags.Changed("hold") {
		cfg.Protocol.HoldVoltage = holdVoltage
	}
	if flags.Changed("cutoff") {
		cfg.Protocol.CutoffCurrent = cutoffCurrent
	}

	patch, err := parseOverrides(overrides)
	if err != nil {
		return nil, err
	}
	if len(patch) > 0 {
		merged := make(map[string]float64, len(cfg.Overrides)+len(patch))
		for k, v := range cfg.Overrides {
			merged[k] = v
		}
		for k, v := range patch {
			merged[k] = v
		}
		cfg.Overrides = merged
	}

	return cfg, nil
}

func attachMetrics(run *experiment.Run) {
	run.Simulator.AddMetric(metrics.NewThroughput())
	run.Simulator.AddMetric(metrics.NewEnergy())
	run.Simulator.AddMetric(metrics.NewMinVoltage())
	if run.Config.LowerVoltageCutoff > 0 && run.Config.UpperVoltageCutoff > 0 {
		run.Simulator.AddMetric(metrics.NewVoltageWindow(
			run.Config.LowerVoltageCutoff, run.Config.UpperVoltageCutoff))
	}
}

func printMetrics(sol *sim.Solution) {
	if len(sol.Metrics) == 0 {
		return
	}
	names := make([]string, 0, len(sol.Metrics))
	for name := range sol.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, sol.Metrics[name])
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}

	run, err := experiment.Build(cfg)
	if err != nil {
		return err
	}
	attachMetrics(run)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("running %s on %s...\n", cfg.Model, cfg.ParameterSet)
	start := time.Now()

	sol, err := run.Simulator.Run(context.Background(), run.Span, run.Config)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg.Model, cfg.ParameterSet, cfg.Integrator, cfg.Dt, cfg.Duration, sol)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d\n", len(sol.Times))
	fmt.Printf("termination: %s\n", sol.Termination)
	printMetrics(sol)

	if showPlot {
		out, err := viz.PlotAll(sol)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Print(out)
	}

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	ids, err := st.List()
	if err != nil {
		return err
	}

	if len(ids) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tSET\tINTEG\tDT\tDURATION\tSAMPLES\tTERMINATION")

	for _, id := range ids {
		meta, err := st.Load(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.3gs\t%.0fs\t%d\t%s\n",
			meta.ID,
			meta.Model,
			meta.ParameterSet,
			meta.Integrator,
			meta.Dt,
			meta.Duration,
			meta.Samples,
			meta.Termination,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	sol, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}
	sol.Termination = sim.Termination(meta.Termination)

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s (%s)\n\n", meta.Model, meta.ParameterSet)

	if series == "all" {
		out, err := viz.PlotAll(sol)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	}

	out, err := viz.Plot(sol, viz.Series(series))
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	sol, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
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

func exportJSONRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	sol, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}
	sol.Termination = sim.Termination(meta.Termination)
	sol.Metrics = meta.Metrics

	if outFile == "" {
		return storage.ExportJSONStdout(meta.Model, meta.ParameterSet, meta.Integrator, meta.Dt, sol)
	}
	return storage.ExportJSON(outFile, meta.Model, meta.ParameterSet, meta.Integrator, meta.Dt, sol)
}

func showParameters(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		for _, name := range params.Names() {
			fmt.Println(name)
		}
		return nil
	}

	set, err := params.Load(args[0])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARAMETER\tVALUE")
	for _, k := range set.Keys() {
		v, _ := set.Get(k)
		if v.IsFunction() {
			fmt.Fprintf(w, "%s\tfunction(t)\n", k)
			continue
		}
		f, _ := v.Float()
		fmt.Fprintf(w, "%s\t%g\n", k, f)
	}
	return w.Flush()
}

func compareRates(cmd *cobra.Command, args []string) error {
	model := args[0]

	sols := make([]*sim.Solution, 0, len(args)-1)
	labels := make([]string, 0, len(args)-1)
	for _, raw := range args[1:] {
		rate, err := cast.ToFloat64E(raw)
		if err != nil {
			return fmt.Errorf("bad rate %q: %w", raw, err)
		}

		cfg := config.DefaultConfig()
		cfg.Model = model
		cfg.ParameterSet = parameterSet
		cfg.Dt = dt
		cfg.Duration = duration
		cfg.Protocol = config.ProtocolConfig{Type: "crate", CRate: rate}

		run, err := experiment.Build(cfg)
		if err != nil {
			return err
		}
		sol, err := run.Simulator.Run(context.Background(), run.Span, run.Config)
		if err != nil {
			return err
		}
		sols = append(sols, sol)
		labels = append(labels, fmt.Sprintf("%gC (%s)", rate, sol.Termination))
	}

	out, err := viz.Compare(sols, labels, viz.Series(series))
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func sweepParameter(cmd *cobra.Command, args []string) error {
	if sweepParam == "" || sweepValues == "" {
		return fmt.Errorf("sweep requires --param and --values")
	}

	fields := strings.Split(sweepValues, ",")
	values := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := cast.ToFloat64E(strings.TrimSpace(f))
		if err != nil {
			return fmt.Errorf("bad sweep value %q: %w", f, err)
		}
		values = append(values, v)
	}

	sims := make([]*sim.Simulator, 0, len(values))
	var span sim.Span
	var simCfg sim.Config
	for i, v := range values {
		cfg := config.DefaultConfig()
		cfg.Model = args[0]
		cfg.ParameterSet = parameterSet
		cfg.Dt = dt
		cfg.Duration = duration
		cfg.Protocol = config.ProtocolConfig{Type: "crate", CRate: crate}
		cfg.Overrides = map[string]float64{sweepParam: v}

		run, err := experiment.Build(cfg)
		if err != nil {
			return err
		}
		run.Simulator.AddMetric(metrics.NewThroughput())
		sims = append(sims, run.Simulator.Simulator)
		if i == 0 {
			span, simCfg = run.Span, run.Config
		}
	}

	fmt.Printf("sweeping %q over %d values...\n\n", sweepParam, len(values))
	sols, err := sim.NewEnsemble(sims).Run(context.Background(), span, simCfg)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VALUE\tTERMINATION\tSAMPLES\tFINAL V\tTHROUGHPUT [Ah]")
	for i, sol := range sols {
		fmt.Fprintf(w, "%g\t%s\t%d\t%.3f\t%.3f\n",
			values[i],
			sol.Termination,
			len(sol.Times),
			sol.Voltage[len(sol.Voltage)-1],
			sol.Metrics["throughput_ah"],
		)
	}
	return w.Flush()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	sol, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("analysis: %s\n", meta.ID)
	fmt.Printf("model: %s (%s)\n\n", meta.Model, meta.ParameterSet)

	points, err := analysis.DifferentialCapacity(sol)
	if err != nil {
		fmt.Printf("differential capacity: %v\n", err)
	} else {
		data := make([]float64, len(points))
		for i, p := range points {
			data[i] = p.DQDV
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("dQ/dV [Ah/V]"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	fmt.Printf("capacity above %.2f V: %.3f Ah\n", voltageFloor, analysis.CapacityAtRate(sol, voltageFloor))

	if freq := analysis.DominantFrequency(sol.Current, meta.Dt); freq > 0 {
		fmt.Printf("dominant current frequency: %.4f hz (period %.1f s)\n", freq, 1/freq)
	}

	return nil
}

func runExperiment(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	patch, err := parseOverrides(overrides)
	if err != nil {
		return err
	}
	set, err := experiment.LoadParams(parameterSet, patch)
	if err != nil {
		return err
	}

	seq, err := experiment.Parse(strings.Split(string(data), "\n"), set)
	if err != nil {
		return err
	}

	variant, err := models.ParseVariant(modelName)
	if err != nil {
		return err
	}
	opts := models.DefaultOptions()
	if seiMode != "" {
		opts.SEI = models.SEIMode(seiMode)
	}
	def, err := models.New(variant, opts)
	if err != nil {
		return err
	}
	model, err := def.Build(set)
	if err != nil {
		return err
	}

	integ, err := experiment.BuildIntegrator(integrator)
	if err != nil {
		return err
	}

	s := sim.New(model, integ, seq)
	s.AddMetric(metrics.NewThroughput())
	s.AddMetric(metrics.NewEnergy())

	simCfg := sim.DefaultConfig()
	simCfg.Dt = dt
	if lower, err := set.Float(params.LowerVoltageCutoff); err == nil {
		simCfg.LowerVoltageCutoff = lower
	}
	if upper, err := set.Float(params.UpperVoltageCutoff); err == nil {
		simCfg.UpperVoltageCutoff = upper
	}

	fmt.Printf("running experiment on %s (%s)...\n", modelName, parameterSet)
	sol, err := s.Run(context.Background(), sim.Span{Start: 0, End: duration}, simCfg)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(modelName, parameterSet, integrator, dt, duration, sol)
	if err != nil {
		return err
	}

	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("finished at t=%.0f s after %d of %d steps: %s\n",
		sol.LastTime(), seq.StepIndex(), seq.Len(), sol.Termination)
	printMetrics(sol)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}

	run, err := experiment.Build(cfg)
	if err != nil {
		return err
	}

	live := viz.NewLive(
		run.Simulator.Model(),
		run.Simulator.Integrator(),
		run.Simulator.Protocol(),
		run.Span,
		run.Config,
	)

	_, err = tea.NewProgram(live).Run()
	return err
}

func serveAPI(cmd *cobra.Command, args []string) error {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	log.WithField("version", version.Version()).Info("starting cellsim api")
	return api.NewServer(log).Listen(addr)
}
