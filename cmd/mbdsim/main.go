package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/edaniels/golog"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/mbdsim/internal/analysis"
	"github.com/san-kum/mbdsim/internal/config"
	"github.com/san-kum/mbdsim/internal/metrics"
	"github.com/san-kum/mbdsim/internal/scene"
	"github.com/san-kum/mbdsim/internal/sim"
	"github.com/san-kum/mbdsim/internal/solver"
	"github.com/san-kum/mbdsim/internal/store"
	"github.com/san-kum/mbdsim/internal/tui"
)

var (
	dataDir     string
	dt          float64
	duration    float64
	theta       float64
	omega       float64
	theta2      float64
	omega2      float64
	pos         float64
	vel         float64
	height      float64
	speed       float64
	scheme      string
	terrainName string
	configFile  string
	preset      string
	// Phase plot axes
	xAxis int
	yAxis int
	// Analyze channel
	channel int
	// Frame rate for live view
	frameRate int
	// Sweep parameters
	sweepRuns   int
	sweepSpread float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mbdsim",
		Short: "articulated rigid body simulation lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to the interactive TUI when no command given
			return tui.RunInteractive()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".mbdsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a scenario and save the trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	addScenarioFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [scenario]",
		Short: "benchmark stepping throughput",
		Args:  cobra.ExactArgs(1),
		RunE:  benchScenario,
	}

	analyzeCmd := &cobra.Command{
		Use:     "analyze [run_id]",
		Aliases: []string{"spectrum"},
		Short:   "frequency analysis of a saved run",
		Args:    cobra.ExactArgs(1),
		RunE:    analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&channel, "channel", 0, "state index to analyze")

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "run a scenario with an inline terminal view",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase space plot",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&xAxis, "x-axis", 0, "state index for x-axis")
	phaseCmd.Flags().IntVar(&yAxis, "y-axis", 1, "state index for y-axis")

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
		RunE:  exportJSONRun,
	}

	lyapunovCmd := &cobra.Command{
		Use:   "lyapunov [scenario]",
		Short: "estimate the largest Lyapunov exponent",
		Args:  cobra.ExactArgs(1),
		RunE:  lyapunovScenario,
	}
	addScenarioFlags(lyapunovCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "run an initial-condition sweep concurrently",
		Args:  cobra.ExactArgs(1),
		RunE:  sweepScenario,
	}
	addScenarioFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&sweepRuns, "runs", 8, "number of runs")
	sweepCmd.Flags().Float64Var(&sweepSpread, "spread", 0.1, "spread added to the initial angle across runs")

	compareCmd := &cobra.Command{
		Use:   "compare [scenario] [scheme1] [scheme2] ...",
		Short: "compare integration schemes on the same scenario",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareSchemes,
	}
	addScenarioFlags(compareCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list available presets for a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for scenario: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list buildable scenarios",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range scene.Names() {
				fmt.Println(name)
			}
		},
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive terminal mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.RunInteractive()
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, benchCmd, analyzeCmd,
		liveCmd, phaseCmd, exportCSVCmd, exportJSONCmd, lyapunovCmd, sweepCmd,
		compareCmd, presetsCmd, scenariosCmd, tuiCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().StringVar(&scheme, "scheme", "rk4", "integration scheme")
	cmd.Flags().StringVar(&terrainName, "terrain", "flat", "terrain (car)")
	cmd.Flags().Float64Var(&theta, "theta", config.DefaultTheta, "initial angle")
	cmd.Flags().Float64Var(&omega, "omega", 0.0, "initial angular velocity")
	cmd.Flags().Float64Var(&theta2, "theta2", config.DefaultTheta, "second angle (double_pendulum)")
	cmd.Flags().Float64Var(&omega2, "omega2", 0.0, "second angular velocity (double_pendulum)")
	cmd.Flags().Float64Var(&pos, "pos", 0.0, "initial displacement (slider)")
	cmd.Flags().Float64Var(&vel, "vel", 0.0, "initial velocity (slider)")
	cmd.Flags().Float64Var(&height, "height", 1.0, "initial drop height (brick)")
	cmd.Flags().Float64Var(&speed, "speed", 0.0, "initial forward speed (car)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// loadRunConfig resolves the effective configuration for one run: preset,
// then config file, then CLI flags, each layer overriding the previous.
func loadRunConfig(cmd *cobra.Command, scenario string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.Preset(scenario, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(scenario))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	cfg.Scenario = scenario

	f := cmd.Flags()
	if f.Changed("dt") || cfg.Dt == 0 {
		cfg.Dt = dt
	}
	if f.Changed("time") || cfg.Duration == 0 {
		cfg.Duration = duration
	}
	if f.Changed("scheme") || cfg.Scheme == "" {
		cfg.Scheme = scheme
	}
	if f.Changed("terrain") || cfg.Terrain == "" {
		cfg.Terrain = terrainName
	}
	if f.Changed("theta") {
		cfg.InitState.Theta = theta
	}
	if f.Changed("omega") {
		cfg.InitState.Omega = omega
	}
	if f.Changed("theta2") {
		cfg.InitState.Theta2 = theta2
	}
	if f.Changed("omega2") {
		cfg.InitState.Omega2 = omega2
	}
	if f.Changed("pos") {
		cfg.InitState.Pos = pos
	}
	if f.Changed("vel") {
		cfg.InitState.Vel = vel
	}
	if f.Changed("height") {
		cfg.InitState.Height = height
	}
	if f.Changed("speed") {
		cfg.InitState.Speed = speed
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildSimulator(cfg *config.Config, logger golog.Logger) (*sim.Simulator, *scene.Scene, *sim.Plant, error) {
	sc, err := scene.Build(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	stepper, err := solver.FromName(cfg.Scheme)
	if err != nil {
		return nil, nil, nil, err
	}

	plant := sim.NewPlant(sc.Mechanism, sc.Gravity, sc.Generators...)
	simr := sim.New(plant, stepper, logger)
	simr.AddMetric(metrics.NewEnergyDrift(plant.Energy))
	simr.AddMetric(metrics.NewStability(1e6))
	simr.AddMetric(metrics.NewPeakVelocity(sc.Mechanism.NQ()))
	return simr, sc, plant, nil
}

func storeChannels(sc *scene.Scene) []store.Channel {
	out := make([]store.Channel, len(sc.Channels))
	for i, ch := range sc.Channels {
		out[i] = store.Channel{Label: ch.Label, Index: ch.Index}
	}
	return out
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig(cmd, args[0])
	if err != nil {
		return err
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	logger := golog.NewDevelopmentLogger("mbdsim")
	simr, sc, _, err := buildSimulator(cfg, logger)
	if err != nil {
		return err
	}

	fmt.Printf("running %s (%s, dt=%g)...\n", cfg.Scenario, cfg.Scheme, cfg.Dt)
	start := time.Now()

	result, err := simr.Run(context.Background(), sc.Initial, sim.Config{
		Dt:       cfg.Dt,
		Duration: cfg.Duration,
		Record:   true,
	})
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg.Scenario, cfg.Dt, cfg.Duration, cfg.Scheme, cfg.Terrain, storeChannels(sc), result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.Steps)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6g\n", name, val)
	}

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDURATION\tDT\tSCHEME\tTERRAIN")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4gs\t%s\t%s\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Scheme,
			run.Terrain,
		)
	}

	return w.Flush()
}

// channelLabel resolves a state index to its recorded label, if any.
func channelLabel(meta *store.RunMetadata, idx int) string {
	for _, ch := range meta.Channels {
		if ch.Index == idx {
			return ch.Label
		}
	}
	return fmt.Sprintf("x%d", idx)
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(states))

	// Plot the recorded channels when known, otherwise the first few
	// state components.
	indices := make([]int, 0, len(meta.Channels))
	for _, ch := range meta.Channels {
		indices = append(indices, ch.Index)
	}
	if len(indices) == 0 {
		n := len(states[0])
		if n > 6 {
			n = 6
		}
		for i := 0; i < n; i++ {
			indices = append(indices, i)
		}
	}

	for _, idx := range indices {
		data := make([]float64, len(states))
		for i := range states {
			if idx < len(states[i]) {
				data[i] = states[i][idx]
			}
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s vs time", channelLabel(meta, idx))),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func benchScenario(cmd *cobra.Command, args []string) error {
	scenario := args[0]

	durations := []float64{1.0, 5.0}
	dts := []float64{0.0005, 0.001, 0.005}
	if scenario == "car" {
		// stiff tires need small steps
		dts = []float64{0.0002, 0.0005, 0.001}
	}

	logger := golog.NewDevelopmentLogger("mbdsim")

	fmt.Printf("benchmarking %s\n\n", scenario)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DURATION\tDT\tSTEPS\tTIME\tSTEPS/SEC")

	for _, dur := range durations {
		for _, stepDt := range dts {
			cfg := config.DefaultConfig()
			cfg.Scenario = scenario
			cfg.Dt = stepDt
			cfg.Duration = dur
			cfg.Normalize()

			simr, sc, _, err := buildSimulator(cfg, logger)
			if err != nil {
				return err
			}

			start := time.Now()
			result, err := simr.Run(context.Background(), sc.Initial, sim.Config{
				Dt:       stepDt,
				Duration: dur,
			})
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			stepsPerSec := float64(result.Steps) / elapsed.Seconds()
			fmt.Fprintf(w, "%.1fs\t%.4gs\t%d\t%v\t%.0f\n",
				dur, stepDt, result.Steps, elapsed.Round(time.Microsecond), stepsPerSec)
		}
	}

	return w.Flush()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, times, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if len(states) < 4 {
		return fmt.Errorf("not enough data")
	}
	if channel >= len(states[0]) {
		return fmt.Errorf("channel %d out of range (state dim %d)", channel, len(states[0]))
	}

	label := channelLabel(meta, channel)
	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("scenario: %s, channel: %s\n\n", meta.Scenario, label)

	data := make([]float64, len(states))
	for i := range states {
		data[i] = states[i][channel]
	}

	sampleDt := meta.Dt
	if len(times) > 1 {
		sampleDt = (times[len(times)-1] - times[0]) / float64(len(times)-1)
	}

	spec, err := analysis.NewSpectrum(data, sampleDt)
	if err != nil {
		return err
	}

	plotData := spec.Mags
	if len(plotData) >= 8 {
		plotData = plotData[:len(plotData)/4]
	}

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("amplitude spectrum (%s)", label)),
	)
	fmt.Println(graph)
	fmt.Println()

	freq, mag := spec.Peak()
	fmt.Printf("dominant frequency: %.3f hz (magnitude %.4g)\n", freq, mag)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig(cmd, args[0])
	if err != nil {
		return err
	}

	sc, err := scene.Build(cfg)
	if err != nil {
		return err
	}

	stepper, err := solver.FromName(cfg.Scheme)
	if err != nil {
		return err
	}

	plant := sim.NewPlant(sc.Mechanism, sc.Gravity, sc.Generators...)
	rt, err := sim.NewRealTime(plant, stepper, cfg.Dt, sc.Initial)
	if err != nil {
		return err
	}
	rt.SetMaxSubsteps(int(0.1/cfg.Dt) + 1)

	if frameRate <= 0 {
		frameRate = 30
	}
	renderer := tui.NewLiveRenderer(cfg.Scenario, frameRate)
	renderer.Start()
	defer renderer.Stop()

	frame := time.Second / time.Duration(frameRate)
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	deadline := time.Now().Add(time.Duration(cfg.Duration * float64(time.Second)))
	last := time.Now()
	for now := range ticker.C {
		if _, err := rt.Advance(now.Sub(last).Seconds()); err != nil {
			return err
		}
		last = now

		snap := rt.Snapshot()
		renderer.OnStep(snap.State, snap.Time)

		if now.After(deadline) {
			break
		}
	}

	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	if len(states[0]) <= xAxis || len(states[0]) <= yAxis {
		return fmt.Errorf("state dimension too small for selected axes")
	}

	fmt.Printf("phase space plot: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("x-axis: %s, y-axis: %s\n\n", channelLabel(meta, xAxis), channelLabel(meta, yAxis))

	xData := make([]float64, len(states))
	yData := make([]float64, len(states))
	for i := range states {
		xData[i] = states[i][xAxis]
		yData[i] = states[i][yAxis]
	}

	xMin, xMax := xData[0], xData[0]
	yMin, yMax := yData[0], yData[0]
	for i := range xData {
		if xData[i] < xMin {
			xMin = xData[i]
		}
		if xData[i] > xMax {
			xMax = xData[i]
		}
		if yData[i] < yMin {
			yMin = yData[i]
		}
		if yData[i] > yMax {
			yMax = yData[i]
		}
	}

	xRange := xMax - xMin
	yRange := yMax - yMin
	if xRange == 0 {
		xRange = 1
	}
	if yRange == 0 {
		yRange = 1
	}

	width := 70
	height := 20
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for i := range xData {
		px := int(float64(width-1) * (xData[i] - xMin) / xRange)
		py := int(float64(height-1) * (yData[i] - yMin) / yRange)
		py = height - 1 - py
		if px >= 0 && px < width && py >= 0 && py < height {
			// glyph ages with simulation time
			if i < len(xData)/3 {
				canvas[py][px] = '.'
			} else if i < 2*len(xData)/3 {
				canvas[py][px] = 'o'
			} else {
				canvas[py][px] = '●'
			}
		}
	}

	fmt.Printf("  %.2f ┌", yMax)
	fmt.Print(strings.Repeat("─", width))
	fmt.Println("┐")

	for i := range canvas {
		if i == height/2 {
			fmt.Printf("  %.2f │", (yMax+yMin)/2)
		} else {
			fmt.Print("       │")
		}
		fmt.Print(string(canvas[i]))
		fmt.Println("│")
	}

	fmt.Printf("  %.2f └", yMin)
	fmt.Print(strings.Repeat("─", width))
	fmt.Println("┘")

	fmt.Printf("       %.2f", xMin)
	fmt.Print(strings.Repeat(" ", width-20))
	fmt.Printf("%.2f\n", xMax)

	fmt.Printf("\nLegend: . = early, o = middle, ● = late\n")

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	states, times, err := st.LoadStates(args[0])
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

func exportJSONRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	states, times, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}

	result := &sim.Result{
		States:  states,
		Times:   times,
		Steps:   len(states),
		Metrics: meta.Metrics,
	}

	return store.ExportJSONStdout(meta.Scenario, meta.Scheme, meta.Terrain, meta.Dt, meta.Duration, meta.Channels, result)
}

func lyapunovScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig(cmd, args[0])
	if err != nil {
		return err
	}

	sc, err := scene.Build(cfg)
	if err != nil {
		return err
	}

	if _, err := solver.FromName(cfg.Scheme); err != nil {
		return err
	}
	newStepper := func() solver.Stepper {
		s, _ := solver.FromName(cfg.Scheme)
		return s
	}

	plant := sim.NewPlant(sc.Mechanism, sc.Gravity, sc.Generators...)

	fmt.Printf("estimating largest Lyapunov exponent for %s (dt=%g, duration=%.1fs)...\n",
		cfg.Scenario, cfg.Dt, cfg.Duration)

	lam, err := analysis.LyapunovExponent(plant, newStepper, sc.Initial, cfg.Dt, cfg.Duration, 1e-8)
	if err != nil {
		return err
	}

	fmt.Printf("lambda: %.4f /s\n", lam)
	switch {
	case lam > 0.05:
		fmt.Println("trajectories diverge: chaotic")
	case lam < -0.05:
		fmt.Println("trajectories converge: dissipative")
	default:
		fmt.Println("near zero: regular motion")
	}
	return nil
}

func sweepScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig(cmd, args[0])
	if err != nil {
		return err
	}
	if sweepRuns < 1 {
		return fmt.Errorf("need at least 1 run")
	}

	logger := golog.NewDevelopmentLogger("mbdsim")

	// each run gets its own mechanism; plants are stateful
	thetas := make([]float64, sweepRuns)
	sims := make([]*sim.Simulator, sweepRuns)
	inits := make([][]float64, sweepRuns)
	for run := 0; run < sweepRuns; run++ {
		runCfg := *cfg
		frac := 0.0
		if sweepRuns > 1 {
			frac = float64(run)/float64(sweepRuns-1) - 0.5
		}
		runCfg.InitState.Theta = cfg.InitState.Theta + sweepSpread*frac
		thetas[run] = runCfg.InitState.Theta

		simr, sc, _, err := buildSimulator(&runCfg, logger)
		if err != nil {
			return err
		}
		sims[run] = simr
		inits[run] = sc.Initial
	}

	ensemble := sim.NewEnsemble(sweepRuns, func(run int) (*sim.Simulator, []float64) {
		return sims[run], inits[run]
	})

	fmt.Printf("sweeping %s over %d runs (theta %+.3f..%+.3f)...\n",
		cfg.Scenario, sweepRuns,
		cfg.InitState.Theta-sweepSpread/2, cfg.InitState.Theta+sweepSpread/2)

	start := time.Now()
	results, err := ensemble.Run(context.Background(), sim.Config{
		Dt:       cfg.Dt,
		Duration: cfg.Duration,
	})
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tTHETA0\tFINAL_X0\tENERGY_DRIFT\tPEAK_VEL")
	for i, r := range results {
		if r == nil {
			continue
		}
		finalX0 := 0.0
		if len(r.Final) > 0 {
			finalX0 = r.Final[0]
		}
		fmt.Fprintf(w, "%d\t%+.4f\t%+.6f\t%.2e\t%.3f\n",
			i, thetas[i], finalX0, r.Metrics["energy_drift"], r.Metrics["peak_velocity"])
	}
	return w.Flush()
}

func compareSchemes(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig(cmd, args[0])
	if err != nil {
		return err
	}
	schemes := args[1:]

	logger := golog.NewDevelopmentLogger("mbdsim")

	fmt.Printf("comparing schemes for %s (dt=%.4g, duration=%.1fs)\n\n", cfg.Scenario, cfg.Dt, cfg.Duration)
	fmt.Printf("%-10s  %-12s  %-12s  %-10s\n", "scheme", "final_x0", "energy_drift", "time_ms")
	fmt.Println(strings.Repeat("-", 50))

	for _, name := range schemes {
		cfg.Scheme = name
		simr, sc, _, err := buildSimulator(cfg, logger)
		if err != nil {
			fmt.Printf("%-10s  error: %v\n", name, err)
			continue
		}

		start := time.Now()
		result, err := simr.Run(context.Background(), sc.Initial, sim.Config{
			Dt:       cfg.Dt,
			Duration: cfg.Duration,
		})
		elapsed := time.Since(start)

		if err != nil {
			fmt.Printf("%-10s  error: %v\n", name, err)
			continue
		}

		finalX0 := 0.0
		if len(result.Final) > 0 {
			finalX0 = result.Final[0]
		}

		fmt.Printf("%-10s  %12.6f  %12.2e  %10.2f\n",
			name, finalX0, result.Metrics["energy_drift"], float64(elapsed.Microseconds())/1000)
	}

	return nil
}
