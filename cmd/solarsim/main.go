package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/solarsim/internal/cmdutil"
	"github.com/san-kum/solarsim/internal/config"
	"github.com/san-kum/solarsim/internal/cosmos"
	"github.com/san-kum/solarsim/internal/experiment"
	"github.com/san-kum/solarsim/internal/metrics"
	"github.com/san-kum/solarsim/internal/physics"
	"github.com/san-kum/solarsim/internal/scenario"
	"github.com/san-kum/solarsim/internal/sim"
	"github.com/san-kum/solarsim/internal/spacefile"
	"github.com/san-kum/solarsim/internal/storage"
	"github.com/san-kum/solarsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	quiet      bool

	dt          float64
	ticks       int
	sampleEvery int
	outFile     string
	bound       float64

	// live view
	frameRate     int
	stepsPerFrame int
	theme         string

	// run inspection
	bodyIndex int
	plotBody  int
	refIndex  int
	orbit     bool
	braille   bool

	// compare
	dtList string

	// generate
	genSeed    uint64
	genSystems int
	genPlanets int
	genMoons   float64

	// sensitivity
	perturbation float64

	// monte carlo
	trials int
	mcEps  float64
	mcSeed uint64
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffb000"))

func main() {
	rootCmd := &cobra.Command{
		Use:           "solarsim",
		Short:         "planar celestial n-body simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return viz.RunPicker(presetEntries(cfg), cfg.Theme)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress warnings")

	runCmd := &cobra.Command{
		Use:   "run [file|preset|random[:seed]]",
		Short: "run a simulation and store it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep in seconds")
	runCmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "number of ticks")
	runCmd.Flags().IntVar(&sampleEvery, "sample", config.DefaultSampleEvery, "store every n-th tick")
	runCmd.Flags().StringVarP(&outFile, "out", "o", "", "write the final state to this file")
	runCmd.Flags().Float64Var(&bound, "bound", 0, "stability radius (0 = 10x initial extent)")

	liveCmd := &cobra.Command{
		Use:   "live [file|preset|random[:seed]]",
		Short: "run simulation with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep in seconds")
	liveCmd.Flags().IntVar(&ticks, "ticks", 0, "stop after n ticks (0 = run until quit)")
	liveCmd.Flags().IntVar(&stepsPerFrame, "steps", 6, "ticks per frame")
	liveCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	liveCmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot body trajectories of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotBody, "body", -1, "body index (-1 = all)")
	plotCmd.Flags().BoolVar(&orbit, "orbit", false, "draw the x/y path instead of coordinates over time")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata and samples as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render the orbits of a run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	svgCmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme")
	svgCmd.Flags().BoolVar(&braille, "braille", false, "render through the terminal Braille canvas")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "estimate the orbital period of a body",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&bodyIndex, "body", 1, "body index")
	analyzeCmd.Flags().IntVar(&refIndex, "ref", 0, "reference body index (-1 = origin)")

	compareCmd := &cobra.Command{
		Use:   "compare [file|preset|random[:seed]]",
		Short: "compare timesteps over the same simulated span",
		Args:  cobra.ExactArgs(1),
		RunE:  compareTimesteps,
	}
	compareCmd.Flags().StringVar(&dtList, "dts", "600,3600,21600", "comma separated timesteps")
	compareCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "reference timestep for the span")
	compareCmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "reference ticks for the span")
	compareCmd.Flags().IntVar(&bodyIndex, "body", 1, "body whose final position is reported")

	sensitivityCmd := &cobra.Command{
		Use:   "sensitivity [file|preset|random[:seed]]",
		Short: "estimate separation growth of a perturbed body",
		Args:  cobra.ExactArgs(1),
		RunE:  sensitivity,
	}
	sensitivityCmd.Flags().IntVar(&bodyIndex, "body", 1, "perturbed body index")
	sensitivityCmd.Flags().Float64Var(&perturbation, "eps", 1000, "initial displacement in meters")
	sensitivityCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep in seconds")
	sensitivityCmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "number of ticks")

	scriptCmd := &cobra.Command{
		Use:   "script [file.yaml]",
		Short: "run and store a scripted sequence of simulations",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [file|preset|random[:seed]]",
		Short: "run randomly perturbed copies of a system and count stable ones",
		Args:  cobra.ExactArgs(1),
		RunE:  monteCarlo,
	}
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Float64Var(&mcEps, "eps", 1e9, "maximum displacement per axis in meters")
	monteCarloCmd.Flags().Uint64Var(&mcSeed, "seed", 1, "random seed")
	monteCarloCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep in seconds")
	monteCarloCmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "number of ticks")
	monteCarloCmd.Flags().Float64Var(&bound, "bound", 0, "stability radius (0 = 10x initial extent)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios",
		RunE:  listPresets,
	}

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "write a random system in the record format",
		Args:  cobra.NoArgs,
		RunE:  generate,
	}
	defaults := scenario.DefaultOptions()
	generateCmd.Flags().Uint64Var(&genSeed, "seed", uint64(time.Now().UnixNano()), "random seed")
	generateCmd.Flags().IntVar(&genSystems, "systems", defaults.Systems, "number of systems")
	generateCmd.Flags().IntVar(&genPlanets, "planets", defaults.Planets, "planets per system")
	generateCmd.Flags().Float64Var(&genMoons, "moons", defaults.MoonChance, "probability of a satellite per planet")
	generateCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	validateCmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "parse a record file and report its bodies and interactions",
		Args:  cobra.ExactArgs(1),
		RunE:  validateFile,
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, svgCmd, analyzeCmd,
		compareCmd, sensitivityCmd, scriptCmd, monteCarloCmd, presetsCmd, generateCmd, validateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig returns the --config file or the defaults. Explicit flags are
// applied by the callers.
func loadConfig() (*config.Config, error) {
	if configFile == "" {
		cfg := config.DefaultConfig()
		cfg.Quiet = quiet
		return cfg, nil
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if quiet {
		cfg.Quiet = true
	}
	return cfg, nil
}

// resolveScenario picks the scenario from the argument, then the config
// input, then the config's inline bodies.
func resolveScenario(cfg *config.Config, args []string) (*experiment.Scenario, error) {
	src := experiment.Sources{Warn: os.Stderr, Quiet: cfg.Quiet}
	switch {
	case len(args) > 0:
		return src.Resolve(args[0])
	case cfg.Input != "":
		return src.Resolve(cfg.Input)
	case len(cfg.Bodies) > 0:
		return experiment.FromConfig(configFile, cfg)
	}
	return nil, fmt.Errorf("no scenario given (presets: %s)", strings.Join(config.ListPresets(), ", "))
}

// stepSettings layers defaults, the config file, the scenario suggestion
// and explicit flags, in increasing precedence.
func stepSettings(cmd *cobra.Command, cfg *config.Config, scn *experiment.Scenario) (float64, int) {
	d, n := cfg.Dt, cfg.Ticks
	if configFile == "" {
		if scn.Dt > 0 {
			d = scn.Dt
		}
		if scn.Ticks > 0 {
			n = scn.Ticks
		}
	}
	if cmd.Flags().Changed("dt") {
		d = dt
	}
	if cmd.Flags().Changed("ticks") {
		n = ticks
	}
	return d, n
}

// dataDirFor prefers an explicit --data over the config file.
func dataDirFor(cmd *cobra.Command, cfg *config.Config) string {
	if configFile == "" || cmd.Flags().Changed("data") {
		return dataDir
	}
	return cfg.DataDir
}

func openStore(cmd *cobra.Command) (*storage.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return storage.New(dataDirFor(cmd, cfg)), nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	scn, err := resolveScenario(cfg, args)
	if err != nil {
		return err
	}

	d, n := stepSettings(cmd, cfg, scn)
	every := cfg.SampleEvery
	if cmd.Flags().Changed("sample") {
		every = sampleEvery
	}
	out := cfg.Output
	if cmd.Flags().Changed("out") {
		out = outFile
	}
	st := storage.New(dataDirFor(cmd, cfg))
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(scn, experiment.Config{Dt: d, Ticks: n, SampleEvery: every, Bound: bound})
	if err := exp.Setup(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Println(headerStyle.Render(fmt.Sprintf("running %s: %d bodies, %d ticks of %gs", scn.Name, scn.Registry.Len(), n, d)))
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(scn.Name, exp.SimConfig(), result, scn.Registry)
	if err != nil {
		return err
	}

	if out != "" {
		if err := spacefile.Save(out, scn.Registry.Bodies()); err != nil {
			return err
		}
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d (%.2f days)\n", result.TicksTaken, float64(result.TicksTaken)*d/86400)
	for _, e := range result.Errors {
		cmdutil.Warnf(os.Stderr, false, "%v", e)
	}
	if out != "" {
		fmt.Printf("final state: %s\n", out)
	}
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Printf("  %s: %.6g\n", name, result.Metrics[name])
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	th := cfg.Theme
	if cmd.Flags().Changed("theme") {
		th = theme
	}
	if len(args) == 0 && cfg.Input == "" && len(cfg.Bodies) == 0 {
		return viz.RunPicker(presetEntries(cfg), th)
	}

	scn, err := resolveScenario(cfg, args)
	if err != nil {
		return err
	}
	d, n := stepSettings(cmd, cfg, scn)
	if !cmd.Flags().Changed("ticks") {
		n = 0
	}
	fps := cfg.FPS
	if cmd.Flags().Changed("fps") {
		fps = frameRate
	}

	return viz.Run(scn.Registry, viz.Options{
		Name:          scn.Name,
		Dt:            d,
		StepsPerFrame: stepsPerFrame,
		MaxTicks:      n,
		FPS:           fps,
		Theme:         th,
	})
}

func presetEntries(cfg *config.Config) []viz.Entry {
	names := config.ListPresets()
	entries := make([]viz.Entry, 0, len(names))
	for _, name := range names {
		p := config.GetPreset(name)
		entries = append(entries, viz.Entry{
			Name:        name,
			Description: p.Description,
			Load: func() (*cosmos.Registry, viz.Options, error) {
				reg, err := p.Registry()
				return reg, viz.Options{Name: name, Dt: p.Dt, StepsPerFrame: 6, FPS: cfg.FPS}, err
			},
		})
	}
	return entries
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tBODIES\tTICKS\tDT\tSPAN")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%gs\t%.2fd\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			len(run.Bodies),
			run.TicksTaken,
			run.Dt,
			run.Duration()/86400,
		)
	}

	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDT\tTICKS\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%gs\t%d\t%s\n", name, p.Dt, p.Ticks, p.Description)
	}
	return w.Flush()
}

func generate(cmd *cobra.Command, args []string) error {
	opts := scenario.DefaultOptions()
	opts.Seed = genSeed
	opts.Systems = genSystems
	opts.Planets = genPlanets
	opts.MoonChance = genMoons

	reg, err := scenario.Generate(opts)
	if err != nil {
		return err
	}

	if outFile == "" {
		fmt.Printf("# solarsim generate --seed %d --systems %d --planets %d --moons %g\n", opts.Seed, opts.Systems, opts.Planets, opts.MoonChance)
		return spacefile.Write(os.Stdout, reg.Bodies())
	}
	if err := spacefile.Save(outFile, reg.Bodies()); err != nil {
		return err
	}
	fmt.Printf("wrote %d bodies to %s (seed %d)\n", reg.Len(), outFile, opts.Seed)
	return nil
}

func validateFile(cmd *cobra.Command, args []string) error {
	loaded, err := spacefile.Load(args[0], spacefile.Options{Warn: os.Stderr, Quiet: quiet})
	if err != nil {
		return err
	}
	reg := loaded.Registry

	fmt.Printf("%s: %d bodies", args[0], reg.Len())
	for _, k := range cosmos.Kinds {
		fmt.Printf(", %d %s", reg.Count(k), strings.ToLower(k.String()))
	}
	fmt.Println()
	if len(loaded.Skipped) > 0 {
		fmt.Printf("skipped %d line(s) with unknown kinds\n", len(loaded.Skipped))
	}

	census := physics.Census(reg.Bodies())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nINTERACTION\tORDERED PAIRS")
	for _, in := range []physics.Interaction{physics.Newtonian, physics.Binding, physics.Suppressed, physics.None} {
		fmt.Fprintf(w, "%s\t%d\n", in, census[in])
	}
	return w.Flush()
}

func compareTimesteps(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	scn, err := resolveScenario(cfg, args)
	if err != nil {
		return err
	}
	d, n := stepSettings(cmd, cfg, scn)

	dts, err := parseFloats(dtList)
	if err != nil {
		return err
	}
	if bodyIndex < 0 || bodyIndex >= scn.Registry.Len() {
		return fmt.Errorf("body %d out of range (0..%d)", bodyIndex, scn.Registry.Len()-1)
	}

	ctx, cancel := signalContext()
	defer cancel()

	ens := sim.NewEnsemble(scn.Registry, dts, func() []sim.Metric {
		return []sim.Metric{metrics.NewEnergy(), metrics.NewMomentumDrift(), metrics.NewSpinDrift()}
	})
	span := d * float64(n)
	fmt.Println(headerStyle.Render(fmt.Sprintf("comparing %d timesteps over %.2f days", len(dts), span/86400)))

	start := time.Now()
	members, err := ens.Run(ctx, sim.Config{Dt: d, Ticks: n, SampleEvery: n, ValidateState: true})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "DT\tTICKS\tX%d\tY%d\tMEAN KE\tMOMENTUM DRIFT\tSPIN DRIFT\tSTATUS\n", bodyIndex, bodyIndex)
	for _, m := range members {
		b := m.Registry.At(bodyIndex)
		status := "ok"
		if len(m.Result.Errors) > 0 {
			status = m.Result.Errors[0].Error()
		}
		fmt.Fprintf(w, "%gs\t%d\t%.6g\t%.6g\t%.6g\t%.3g\t%.3g\t%s\n",
			m.Dt, m.Result.TicksTaken, b.Pos().X, b.Pos().Y,
			m.Result.Metrics["kinetic_energy"], m.Result.Metrics["momentum_drift"],
			m.Result.Metrics["angular_momentum_drift"], status)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\ncompleted in %v\n", time.Since(start))
	return nil
}

func parseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid timestep %q: %w", p, err)
		}
		if !(v > 0) {
			return nil, fmt.Errorf("timestep must be positive, got %v", v)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no timesteps given")
	}
	return out, nil
}
