package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/tinytorch/internal/config"
	"github.com/san-kum/tinytorch/internal/dataset"
	"github.com/san-kum/tinytorch/internal/derive"
	"github.com/san-kum/tinytorch/internal/dynamo"
	"github.com/san-kum/tinytorch/internal/experiment"
	"github.com/san-kum/tinytorch/internal/learn"
	"github.com/san-kum/tinytorch/internal/plot"
	"github.com/san-kum/tinytorch/internal/systems"
	"github.com/san-kum/tinytorch/internal/tui"
)

var (
	dataDir    string
	dt         float64
	duration   float64
	theta      float64
	omega      float64
	pos        float64
	vel        float64
	pluck      float64
	seed       int64
	integrator string
	variant    string
	configFile string
	preset     string
	// phase plot axes
	xAxis int
	yAxis int
	// fit parameters
	epochs    int
	learnRate float64
	trainFrac float64
	// plot output
	svgOut string
	// frame rate for live view
	frameRate int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tinytorch",
		Short: "simulation lab for full and reduced dynamical models",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "foundation", "dataset directory")

	runCmd := &cobra.Command{
		Use:   "run [family]",
		Short: "run a simulation and store it in the dataset",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().Float64Var(&dt, "dt", 0.01, "timestep")
	runCmd.Flags().Float64Var(&duration, "time", 10.0, "duration")
	runCmd.Flags().Float64Var(&theta, "theta", 0.5, "initial angle")
	runCmd.Flags().Float64Var(&omega, "omega", 0.0, "initial angular velocity")
	runCmd.Flags().Float64Var(&pos, "pos", 1.0, "initial position (duffing)")
	runCmd.Flags().Float64Var(&vel, "vel", 0.0, "initial velocity (duffing)")
	runCmd.Flags().Float64Var(&pluck, "pluck", 0.0, "pluck amplitude (masschain, 0 = default)")
	runCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	runCmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator")
	runCmd.Flags().StringVar(&variant, "variant", "full", "system variant (full or reduced)")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	compareCmd := &cobra.Command{
		Use:   "compare [family]",
		Short: "run full and reduced variants and report divergence",
		Args:  cobra.ExactArgs(1),
		RunE:  compareVariants,
	}
	compareCmd.Flags().Float64Var(&dt, "dt", 0.01, "timestep")
	compareCmd.Flags().Float64Var(&duration, "time", 10.0, "duration")
	compareCmd.Flags().Float64Var(&theta, "theta", 0.5, "initial angle")
	compareCmd.Flags().Float64Var(&omega, "omega", 0.0, "initial angular velocity")
	compareCmd.Flags().Float64Var(&pos, "pos", 1.0, "initial position (duffing)")
	compareCmd.Flags().Float64Var(&vel, "vel", 0.0, "initial velocity (duffing)")
	compareCmd.Flags().Float64Var(&pluck, "pluck", 0.0, "pluck amplitude (masschain, 0 = default)")
	compareCmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator")
	compareCmd.Flags().Int64Var(&seed, "seed", 42, "random seed")

	derivativesCmd := &cobra.Command{
		Use:   "derivatives [run_id]",
		Short: "compute and store finite-difference derivatives for a run",
		Args:  cobra.ExactArgs(1),
		RunE:  computeDerivatives,
	}

	fitCmd := &cobra.Command{
		Use:   "fit [run_id]",
		Short: "train a neural surrogate on a run's derivative dataset",
		Args:  cobra.ExactArgs(1),
		RunE:  fitDerivatives,
	}
	fitCmd.Flags().IntVar(&epochs, "epochs", 500, "training epochs")
	fitCmd.Flags().Float64Var(&learnRate, "lr", 0.01, "learning rate")
	fitCmd.Flags().Float64Var(&trainFrac, "train-frac", 0.8, "training fraction")
	fitCmd.Flags().Int64Var(&seed, "seed", 42, "random seed")
	fitCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml, fit section)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgOut, "svg", "", "write SVG figures under this directory instead of plotting to the terminal")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase space plot",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&xAxis, "x-axis", 0, "state index for x-axis")
	phaseCmd.Flags().IntVar(&yAxis, "y-axis", 1, "state index for y-axis")

	spectrumCmd := &cobra.Command{
		Use:   "spectrum [run_id]",
		Short: "frequency analysis of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  spectrumRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [family]",
		Short: "list available presets for a family",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for family: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	liveCmd := &cobra.Command{
		Use:   "live [family]",
		Short: "run a simulation with live visualization",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&dt, "dt", 0.01, "timestep")
	liveCmd.Flags().Float64Var(&theta, "theta", 0.5, "initial angle")
	liveCmd.Flags().Float64Var(&omega, "omega", 0.0, "initial angular velocity")
	liveCmd.Flags().Float64Var(&pos, "pos", 1.0, "initial position (duffing)")
	liveCmd.Flags().Float64Var(&vel, "vel", 0.0, "initial velocity (duffing)")
	liveCmd.Flags().Float64Var(&pluck, "pluck", 0.0, "pluck amplitude (masschain, 0 = default)")
	liveCmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator")
	liveCmd.Flags().StringVar(&variant, "variant", "full", "system variant")
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	rootCmd.AddCommand(runCmd, compareCmd, derivativesCmd, fitCmd, listCmd,
		plotCmd, phaseCmd, spectrumCmd, presetsCmd, exportCSVCmd, exportJSONCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initStateFor builds the initial state from the flag values via the
// config layer, so flags and config files share one code path.
func initStateFor(family string, sys dynamo.System) dynamo.State {
	cfg := &config.Config{
		Family: family,
		InitState: config.InitStateConfig{
			Theta: theta,
			Omega: omega,
			Pos:   pos,
			Vel:   vel,
			Pluck: pluck,
		},
	}
	return cfg.GetInitState(sys)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	family := args[0]

	if preset != "" {
		cfg := config.GetPreset(family, preset)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(family))
		}
		dt = cfg.Dt
		duration = cfg.Duration
		integrator = cfg.Integrator
		variant = cfg.Variant
		theta = cfg.InitState.Theta
		omega = cfg.InitState.Omega
		pos = cfg.InitState.Pos
		vel = cfg.InitState.Vel
		pluck = cfg.InitState.Pluck
	}

	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		// CLI flags override the config file
		if !cmd.Flags().Changed("dt") {
			dt = cfg.Dt
		}
		if !cmd.Flags().Changed("time") {
			duration = cfg.Duration
		}
		if !cmd.Flags().Changed("integrator") {
			integrator = cfg.Integrator
		}
		if !cmd.Flags().Changed("variant") {
			variant = cfg.Variant
		}
		if !cmd.Flags().Changed("theta") {
			theta = cfg.InitState.Theta
		}
		if !cmd.Flags().Changed("omega") {
			omega = cfg.InitState.Omega
		}
		if !cmd.Flags().Changed("pos") {
			pos = cfg.InitState.Pos
		}
		if !cmd.Flags().Changed("vel") {
			vel = cfg.InitState.Vel
		}
		if !cmd.Flags().Changed("pluck") {
			pluck = cfg.InitState.Pluck
		}
		if cfg.Seed != 0 && !cmd.Flags().Changed("seed") {
			seed = cfg.Seed
		}
		if cfg.DataDir != "" && !cmd.Flags().Changed("data") {
			dataDir = cfg.DataDir
		}
	}

	v, ok := systems.ParseVariant(variant)
	if !ok {
		return fmt.Errorf("unknown variant: %s (use full or reduced)", variant)
	}

	store := dataset.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}

	registry := experiment.NewRegistry()

	sys, err := registry.GetSystem(family, v)
	if err != nil {
		return err
	}
	integ, err := registry.GetIntegrator(integrator)
	if err != nil {
		return err
	}

	cfg := experiment.Config{
		Family:     family,
		Variant:    v,
		Integrator: integrator,
		InitState:  initStateFor(family, sys),
		Dt:         dt,
		Duration:   duration,
		Seed:       seed,
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(sys, integ, registry.DefaultMetrics(sys)); err != nil {
		return err
	}

	fmt.Printf("running %s (%s) simulation...\n", family, variant)
	start := time.Now()

	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := store.Save(family, variant, dt, duration, seed, integrator, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d\n", len(result.States))
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func compareVariants(cmd *cobra.Command, args []string) error {
	family := args[0]

	registry := experiment.NewRegistry()

	// the comparison starts from full coordinates
	fullSys, err := registry.GetSystem(family, systems.Full)
	if err != nil {
		return err
	}

	cmp, err := registry.Compare(context.Background(), family, integrator,
		initStateFor(family, fullSys), dt, duration, seed)
	if err != nil {
		return err
	}

	fmt.Printf("comparing %s variants (dt=%.4f, duration=%.1fs, %s)\n\n",
		family, dt, duration, integrator)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VARIANT\tSAMPLES\tENERGY_DRIFT")
	fmt.Fprintf(w, "full\t%d\t%.2e\n", len(cmp.Full.States), cmp.Full.EnergyDrift)
	fmt.Fprintf(w, "reduced\t%d\t%.2e\n", len(cmp.Reduced.States), cmp.Reduced.EnergyDrift)
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nreduction rmse:    %.6f\n", cmp.RMSE)
	fmt.Printf("max abs error:     %.6f\n", cmp.MaxAbsError)
	if v, ok := cmp.Reduced.Metrics["reduction_error"]; ok {
		fmt.Printf("streamed rmse:     %.6f\n", v)
	}

	return nil
}

func computeDerivatives(cmd *cobra.Command, args []string) error {
	runID := args[0]

	store := dataset.New(dataDir)
	states, times, err := store.LoadStates(runID)
	if err != nil {
		return err
	}

	derivs, err := derive.TimeDerivatives(states, times)
	if err != nil {
		return err
	}

	path, err := store.SaveDerivatives(runID, derivs, times)
	if err != nil {
		return err
	}

	fmt.Printf("derivatives for %s: %d samples\n", runID, len(derivs))
	fmt.Printf("written to %s\n", path)
	return nil
}

func fitDerivatives(cmd *cobra.Command, args []string) error {
	runID := args[0]

	opts := learn.DefaultOptions()

	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		// CLI flags override the config file
		if !cmd.Flags().Changed("epochs") && cfg.Fit.Epochs > 0 {
			epochs = cfg.Fit.Epochs
		}
		if !cmd.Flags().Changed("lr") && cfg.Fit.LearningRate > 0 {
			learnRate = cfg.Fit.LearningRate
		}
		if !cmd.Flags().Changed("train-frac") && cfg.Fit.TrainFrac > 0 {
			trainFrac = cfg.Fit.TrainFrac
		}
		if cfg.Seed != 0 && !cmd.Flags().Changed("seed") {
			seed = cfg.Seed
		}
		if len(cfg.Fit.Hidden) > 0 {
			opts.Hidden = cfg.Fit.Hidden
		}
		if cfg.Fit.Activation != "" {
			opts.Activation = cfg.Fit.Activation
		}
		if cfg.DataDir != "" && !cmd.Flags().Changed("data") {
			dataDir = cfg.DataDir
		}
	}

	store := dataset.New(dataDir)

	opts.Epochs = epochs
	opts.LearningRate = float32(learnRate)
	opts.TrainFrac = trainFrac
	opts.Seed = seed

	fmt.Printf("fitting surrogate for %s (%d epochs)...\n", runID, opts.Epochs)
	start := time.Now()

	res, err := learn.FitDerivatives(store, runID, opts)
	if err != nil {
		return err
	}

	fmt.Printf("trained in %v on %d samples (%d held out)\n",
		time.Since(start), res.TrainRows, res.TestRows)
	fmt.Printf("initial loss: %.6f\n", res.LossHistory[0])
	fmt.Printf("final loss:   %.6f\n", res.LossHistory[len(res.LossHistory)-1])
	fmt.Printf("val rmse:     %.6f\n", res.ValRMSE)

	losses := make([]float64, len(res.LossHistory))
	for i, l := range res.LossHistory {
		losses[i] = float64(l)
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(losses,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("training loss"),
	))

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	store := dataset.New(dataDir)
	runs, err := store.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFAMILY\tVARIANT\tTIME\tDURATION\tDT\tINTEG")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%.4fs\t%s\n",
			run.ID,
			run.Family,
			run.Variant,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
		)
	}

	return w.Flush()
}

func stateLabels(family, variantName string) []string {
	v, ok := systems.ParseVariant(variantName)
	if !ok {
		return nil
	}
	sys, err := experiment.NewRegistry().GetSystem(family, v)
	if err != nil {
		return nil
	}
	if labeled, ok := sys.(dynamo.Labeled); ok {
		return labeled.StateLabels()
	}
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	store := dataset.New(dataDir)
	meta, err := store.Load(runID)
	if err != nil {
		return err
	}

	states, times, err := store.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	labels := stateLabels(meta.Family, meta.Variant)

	if svgOut != "" {
		fw := plot.NewFigWriter(svgOut)
		paths, err := fw.WriteRun(meta, states, times, labels)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Println(p)
		}
		return nil
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("family: %s (%s)\n", meta.Family, meta.Variant)
	fmt.Printf("samples: %d\n\n", len(states))
	fmt.Print(plot.Series(states, labels))
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	runID := args[0]

	store := dataset.New(dataDir)
	meta, err := store.Load(runID)
	if err != nil {
		return err
	}

	states, _, err := store.LoadStates(runID)
	if err != nil {
		return err
	}

	out, err := plot.Phase(states, xAxis, yAxis)
	if err != nil {
		return err
	}

	fmt.Printf("phase space plot: %s\n", meta.ID)
	fmt.Printf("family: %s (%s)\n", meta.Family, meta.Variant)
	fmt.Printf("x-axis: x%d, y-axis: x%d\n\n", xAxis, yAxis)
	fmt.Print(out)
	return nil
}

func spectrumRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	store := dataset.New(dataDir)
	meta, err := store.Load(runID)
	if err != nil {
		return err
	}

	states, _, err := store.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 || len(states[0]) == 0 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("family: %s (%s)\n\n", meta.Family, meta.Variant)

	signal := plot.Component(states, 0)
	ps := derive.PowerSpectrum(signal)

	fmt.Println(plot.Spectrum(ps, "power spectrum (x0)"))
	fmt.Println()

	freq := derive.DominantFrequency(signal, meta.Dt)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	store := dataset.New(dataDir)
	states, times, err := store.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"time"}
	for i := range states[0] {
		header = append(header, fmt.Sprintf("x%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range states {
		row := []string{strconv.FormatFloat(times[i], 'f', 6, 64)}
		for _, val := range states[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	store := dataset.New(dataDir)
	meta, err := store.Load(runID)
	if err != nil {
		return err
	}

	states, times, err := store.LoadStates(runID)
	if err != nil {
		return err
	}

	out := struct {
		Metadata *dataset.RunMetadata `json:"metadata"`
		Times    []float64            `json:"times"`
		States   []dynamo.State       `json:"states"`
	}{meta, times, states}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func runLive(cmd *cobra.Command, args []string) error {
	family := args[0]

	v, ok := systems.ParseVariant(variant)
	if !ok {
		return fmt.Errorf("unknown variant: %s", variant)
	}

	registry := experiment.NewRegistry()
	sys, err := registry.GetSystem(family, v)
	if err != nil {
		return err
	}
	integ, err := registry.GetIntegrator(integrator)
	if err != nil {
		return err
	}

	x0 := initStateFor(family, sys)
	if x0 == nil {
		if d, ok := sys.(systems.Defaulter); ok {
			x0 = d.DefaultState()
		} else {
			return fmt.Errorf("no initial state for %s", family)
		}
	}

	m := tui.NewModel(sys, integ, x0, dt, family, frameRate)
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
