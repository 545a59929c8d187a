package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/san-kum/emergent/internal/config"
	"github.com/san-kum/emergent/internal/experiment"
	"github.com/san-kum/emergent/internal/params"
	"github.com/san-kum/emergent/internal/storage"
	"github.com/san-kum/emergent/internal/viz"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	preset     string
	sets       []string
	seed       int64
	ticks      uint64
	integrator string
	frameRate  int
	theme      string
	watch      bool
	// plot / svg
	spectrum bool
	outFile  string
	stroke   string
	// sweep / seeds / analyze
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	trials     int
	lyapSteps  int
	// analyze --bifurcation
	bifParam     string
	bifMin       float64
	bifMax       float64
	bifSteps     int
	bifComponent int
	// search
	axes     []string
	metric   string
	maximize bool
)

var log = slog.Default()

// main registers the commands and opens the demo picker when no subcommand
// is given.
func main() {
	rootCmd := &cobra.Command{
		Use:   "emergent",
		Short: "gallery of emergent and chaotic systems",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(log)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPicker()
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".emergent", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list demos",
		RunE:  listDemos,
	}

	infoCmd := &cobra.Command{
		Use:   "info [demo]",
		Short: "describe a demo and its parameters",
		Args:  cobra.ExactArgs(1),
		RunE:  demoInfo,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [demo]",
		Short: "list available presets for a demo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for demo: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	liveCmd := &cobra.Command{
		Use:   "live [demo]",
		Short: "run a demo with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addRunFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "colour theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	runCmd := &cobra.Command{
		Use:   "run [demo]",
		Short: "run a demo headless and record it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDemo,
	}
	addRunFlags(runCmd)
	runCmd.Flags().Uint64Var(&ticks, "ticks", config.DefaultTicks, "number of ticks")
	runCmd.Flags().BoolVar(&watch, "watch", false, "draw frames to the terminal while running")

	configCmd := &cobra.Command{
		Use:   "config [demo]",
		Short: "write the resolved run configuration as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE:  writeConfig,
	}
	addRunFlags(configCmd)
	configCmd.Flags().Uint64Var(&ticks, "ticks", config.DefaultTicks, "number of ticks")
	configCmd.Flags().StringVarP(&outFile, "out", "o", "emergent.yaml", "output file")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario and record it",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&watch, "watch", false, "draw frames to the terminal while running")
	scenarioCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate with --watch")

	sweepCmd := &cobra.Command{
		Use:   "sweep [demo]",
		Short: "run a demo across a range of one parameter",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().Uint64Var(&ticks, "ticks", 500, "ticks per run")
	sweepCmd.Flags().StringVar(&sweepParam, "param", "", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.MarkFlagRequired("param")

	searchCmd := &cobra.Command{
		Use:     "search [demo]",
		Short:   "grid-search parameters for the best metric",
		Example: "  emergent search reaction-diffusion --axis feed=0.02:0.06:5 --axis kill=0.05:0.065:4 --metric mean_B --maximize",
		Args:    cobra.ExactArgs(1),
		RunE:    runSearch,
	}
	addRunFlags(searchCmd)
	searchCmd.Flags().Uint64Var(&ticks, "ticks", 300, "ticks per run")
	searchCmd.Flags().StringArrayVar(&axes, "axis", nil, "search axis as name=min:max:steps (repeatable)")
	searchCmd.Flags().StringVar(&metric, "metric", "finite_ratio", "metric to optimise")
	searchCmd.Flags().BoolVar(&maximize, "maximize", false, "pick the largest metric instead of the smallest")
	searchCmd.MarkFlagRequired("axis")

	seedsCmd := &cobra.Command{
		Use:   "seeds [demo]",
		Short: "repeat a demo over consecutive seeds",
		Args:  cobra.ExactArgs(1),
		RunE:  runSeeds,
	}
	addRunFlags(seedsCmd)
	seedsCmd.Flags().Uint64Var(&ticks, "ticks", 500, "ticks per run")
	seedsCmd.Flags().IntVar(&trials, "n", 10, "number of seeds")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [demo]",
		Short: "estimate the Lyapunov exponent, phase portrait and divergence, or plot a bifurcation diagram",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeDemo,
	}
	addRunFlags(analyzeCmd)
	analyzeCmd.Flags().Uint64Var(&ticks, "ticks", 400, "ticks for the divergence chart")
	analyzeCmd.Flags().IntVar(&lyapSteps, "lyapunov-steps", 20000, "integration steps for the Lyapunov estimate")
	analyzeCmd.Flags().StringVar(&bifParam, "bifurcation", "", "parameter to sweep for a bifurcation diagram")
	analyzeCmd.Flags().Float64Var(&bifMin, "bif-min", 0, "first value (default: the knob minimum)")
	analyzeCmd.Flags().Float64Var(&bifMax, "bif-max", 0, "last value (default: the knob maximum)")
	analyzeCmd.Flags().IntVar(&bifSteps, "bif-steps", 80, "number of parameter values")
	analyzeCmd.Flags().IntVar(&bifComponent, "component", -1, "state component to record (default: last)")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure ticks per second of every demo",
		RunE:  benchDemos,
	}
	benchCmd.Flags().Uint64Var(&ticks, "ticks", 200, "ticks per demo")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().BoolVar(&spectrum, "spectrum", false, "plot the power spectrum of x instead")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "export a recorded run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.svg)")
	svgCmd.Flags().StringVar(&stroke, "stroke", "", "single stroke colour; default colours each series")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON on stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
		},
	}

	rootCmd.AddCommand(listCmd, infoCmd, presetsCmd, liveCmd, runCmd, configCmd, scenarioCmd, sweepCmd, searchCmd, seedsCmd, analyzeCmd, benchCmd, runsCmd, plotCmd, svgCmd, exportJSONCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset parameters")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "override a parameter, name=value (repeatable)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	cmd.Flags().StringVar(&integrator, "integrator", "", "integrator (euler, semi-implicit-euler, rk4, rk45, verlet)")
	cmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
}

// resolveConfig layers the config file, the preset and --set assignments.
// Flags override the config file only when given explicitly.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if len(args) > 0 {
		cfg.Demo = args[0]
	}

	flags := cmd.Flags()
	if flags.Changed("seed") || configFile == "" {
		cfg.Seed = seed
	}
	if flags.Lookup("ticks") != nil && (flags.Changed("ticks") || configFile == "") {
		cfg.Ticks = ticks
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("fps") {
		if frameRate <= 0 {
			return nil, fmt.Errorf("fps must be positive, got %d", frameRate)
		}
		cfg.FPS = frameRate
	}
	if flags.Lookup("theme") != nil && flags.Changed("theme") {
		cfg.Theme = theme
	}

	if preset != "" {
		withPreset, err := cfg.WithPreset(preset)
		if err != nil {
			return nil, err
		}
		cfg = withPreset
	}
	overrides, err := params.ParseAssignments(sets)
	if err != nil {
		return nil, err
	}
	cfg.Overlay(overrides)
	return cfg, nil
}

func experimentConfig(cfg *config.Config) experiment.Config {
	return experiment.Config{
		Demo:       cfg.Demo,
		Integrator: cfg.Integrator,
		Seed:       cfg.Seed,
		Ticks:      cfg.Ticks,
		Params:     cfg.Params,
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func listDemos(cmd *cobra.Command, args []string) error {
	reg := experiment.NewRegistry()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTITLE\tINTEGRATOR\tPRESETS")
	for _, name := range reg.List() {
		d, _ := reg.Get(name)
		integ := d.Integrator
		if integ == "" {
			integ = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.Name, d.Title, integ, strings.Join(config.ListPresets(name), ", "))
	}
	return w.Flush()
}

func demoInfo(cmd *cobra.Command, args []string) error {
	reg := experiment.NewRegistry()
	d, err := reg.Get(args[0])
	if err != nil {
		return err
	}
	schema, err := reg.Schema(d.Name)
	if err != nil {
		return err
	}

	var md strings.Builder
	fmt.Fprintf(&md, "# %s\n\n%s\n\n## Parameters\n\n", d.Title, strings.TrimSpace(d.Description))
	md.WriteString("| name | range | default | |\n|---|---|---|---|\n")
	for _, k := range schema {
		note := k.Label
		if k.Structural {
			note += " (restarts)"
		}
		fmt.Fprintf(&md, "| `%s` | %g – %g | %g | %s |\n", k.Name, k.Range.Min, k.Range.Max, k.Range.Default, note)
	}
	if presets := config.ListPresets(d.Name); len(presets) > 0 {
		fmt.Fprintf(&md, "\n## Presets\n\n%s\n", "`"+strings.Join(presets, "`, `")+"`")
	}

	out, err := glamour.Render(md.String(), "dark")
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func vizOptions(reg *experiment.Registry, cfg *config.Config) viz.Options {
	d, _ := reg.Get(cfg.Demo)
	return viz.Options{ScreenY: d.ScreenY, Dots: d.Dots, Phase: d.Phase, FPS: cfg.FPS, Theme: cfg.Theme}
}

// launch builds a live model for cfg. Logging is discarded while the
// terminal is in full-screen mode.
func launch(reg *experiment.Registry, cfg *config.Config) (viz.Model, error) {
	d, err := reg.Get(cfg.Demo)
	if err != nil {
		return viz.Model{}, err
	}
	exp := experiment.New(experimentConfig(cfg))
	if err := exp.Setup(reg, slog.New(slog.NewTextHandler(io.Discard, nil))); err != nil {
		return viz.Model{}, err
	}
	return viz.NewModel(d.Title, exp.Controller(), exp.Source(), cfg.Seed, vizOptions(reg, cfg)), nil
}

func runPicker() error {
	reg := experiment.NewRegistry()
	entries := make([]viz.Entry, 0)
	for _, name := range reg.List() {
		d, _ := reg.Get(name)
		entries = append(entries, viz.Entry{Name: d.Name, Title: d.Title})
	}
	return viz.Run(viz.NewPicker(entries, func(name string) (viz.Model, error) {
		cfg := config.DefaultConfig()
		cfg.Demo = name
		cfg.Seed = time.Now().UnixNano()
		return launch(reg, cfg)
	}))
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	m, err := launch(experiment.NewRegistry(), cfg)
	if err != nil {
		return err
	}
	return viz.Run(m)
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if _, err := experiment.NewRegistry().Get(cfg.Demo); err != nil {
		return err
	}
	if err := config.Save(outFile, cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}
