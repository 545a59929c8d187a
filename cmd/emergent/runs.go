package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/emergent/internal/analysis"
	"github.com/san-kum/emergent/internal/automation"
	"github.com/san-kum/emergent/internal/dynamo"
	"github.com/san-kum/emergent/internal/experiment"
	"github.com/san-kum/emergent/internal/export"
	"github.com/san-kum/emergent/internal/integrators"
	"github.com/san-kum/emergent/internal/ode"
	"github.com/san-kum/emergent/internal/optim"
	"github.com/san-kum/emergent/internal/sim"
	"github.com/san-kum/emergent/internal/storage"
	"github.com/san-kum/emergent/internal/viz"
)

const (
	watchCols = 70
	watchRows = 20
)

func openStore() (*storage.Store, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

// finish closes the recorder and reports the run; an interrupted run is
// still recorded.
func finish(rec *storage.Recorder, res *sim.Result, runErr error, elapsed time.Duration) error {
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		rec.Close(nil)
		return runErr
	}
	if err := rec.Close(res.Metrics); err != nil {
		return err
	}
	if runErr != nil {
		fmt.Println("interrupted")
	}
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", rec.ID())
	fmt.Printf("ticks: %d\n", res.Ticks)
	if res.Resets > 1 {
		fmt.Printf("resets: %d\n", res.Resets)
	}
	printMetrics(res.Metrics)
	return nil
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	reg := experiment.NewRegistry()
	d, err := reg.Get(cfg.Demo)
	if err != nil {
		return err
	}

	ec := experimentConfig(cfg)
	if watch {
		ec.Interval = cfg.Interval()
	}
	exp := experiment.New(ec)
	if err := exp.Setup(reg, log); err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	integ := cfg.Integrator
	if integ == "" {
		integ = d.Integrator
	}
	rec, err := st.Create(storage.RunMetadata{
		Demo:       cfg.Demo,
		Seed:       cfg.Seed,
		Integrator: integ,
		Params:     exp.Controller().Params(),
	})
	if err != nil {
		return err
	}
	ctrl := exp.Controller()
	ctrl.AddRenderer(rec)
	if watch {
		fr := viz.NewFrameRenderer(os.Stdout, watchCols, watchRows, vizOptions(reg, cfg))
		fr.Start()
		defer fr.Stop()
		ctrl.AddRenderer(fr)
	}

	ctx, cancel := signalContext()
	defer cancel()

	log.Info("running", "demo", cfg.Demo, "ticks", cfg.Ticks, "seed", cfg.Seed)
	start := time.Now()
	res, err := exp.Run(ctx)
	return finish(rec, res, err, time.Since(start))
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	reg := experiment.NewRegistry()
	d, err := reg.Get(sc.Demo)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	integ := sc.Integrator
	if integ == "" {
		integ = d.Integrator
	}
	rec, err := st.Create(storage.RunMetadata{Demo: sc.Demo, Seed: sc.Seed, Integrator: integ, Params: sc.Params})
	if err != nil {
		return err
	}
	renderers := []dynamo.Renderer{rec}
	if watch {
		fr := viz.NewFrameRenderer(os.Stdout, watchCols, watchRows, viz.Options{ScreenY: d.ScreenY, Dots: d.Dots, FPS: frameRate})
		fr.Start()
		defer fr.Stop()
		renderers = append(renderers, fr)
	}

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	res, err := automation.RunScenario(ctx, sc, reg, log, renderers...)
	if res == nil {
		rec.Close(nil)
		return err
	}
	return finish(rec, res, err, time.Since(start))
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Demo:       cfg.Demo,
		Integrator: cfg.Integrator,
		ParamName:  sweepParam,
		ParamMin:   sweepMin,
		ParamMax:   sweepMax,
		NumSteps:   sweepSteps,
		Ticks:      cfg.Ticks,
		Seed:       cfg.Seed,
		Params:     cfg.Params,
	}, experiment.NewRegistry(), log)
	if err != nil {
		return err
	}

	var names []string
	for name := range results[0].Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(sweepParam)+"\t"+strings.ToUpper(strings.Join(names, "\t")))
	for _, r := range results {
		row := []string{fmt.Sprintf("%.4g", r.ParamValue)}
		for _, name := range names {
			row = append(row, fmt.Sprintf("%.6f", r.Metrics[name]))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	var names []string
	var ranges [][]float64
	for _, a := range axes {
		name, values, err := parseAxis(a)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	ctx, cancel := signalContext()
	defer cancel()

	g := optim.NewGridSearch(names, ranges)
	g.Maximize = maximize
	log.Info("searching", "demo", cfg.Demo, "points", g.Size(), "metric", metric, "maximize", maximize)

	start := time.Now()
	best, value, err := g.Search(ctx, optim.ExperimentBuilder(experiment.NewRegistry(), experimentConfig(cfg), log), metric)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range best.Keys() {
		fmt.Fprintf(w, "%s\t%.6g\n", name, best[name])
	}
	fmt.Fprintf(w, "%s\t%.6f\n", metric, value)
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d runs in %v\n", g.Size(), time.Since(start).Round(time.Millisecond))
	return nil
}

// parseAxis reads name=min:max:steps.
func parseAxis(s string) (string, []float64, error) {
	name, spec, ok := strings.Cut(s, "=")
	parts := strings.Split(spec, ":")
	if !ok || name == "" || len(parts) != 3 {
		return "", nil, fmt.Errorf("axis %q: want name=min:max:steps", s)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, fmt.Errorf("axis %q: %w", s, err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, fmt.Errorf("axis %q: %w", s, err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 1 {
		return "", nil, fmt.Errorf("axis %q: steps must be a positive integer", s)
	}
	return name, optim.Linspace(lo, hi, n), nil
}

func runSeeds(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunSeeds(ctx, experimentConfig(cfg), trials, experiment.NewRegistry(), log)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tSTABLE\tFINITE_RATIO")
	for _, t := range results {
		fmt.Fprintf(w, "%d\t%v\t%.6f\n", t.Seed, t.Stable, t.Metrics["finite_ratio"])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	stable, unstable := automation.SeedStats(results)
	fmt.Printf("\nstable: %d  unstable: %d\n", stable, unstable)
	return nil
}

func analyzeDemo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	reg := experiment.NewRegistry()
	d, err := reg.Get(cfg.Demo)
	if err != nil {
		return err
	}
	exp := experiment.New(experimentConfig(cfg))
	if err := exp.Setup(reg, log); err != nil {
		return err
	}
	name := cfg.Integrator
	if name == "" {
		name = d.Integrator
	}
	if bifParam != "" {
		return bifurcate(cmd, exp, name)
	}
	ens, ok := exp.Kernel().(*ode.Ensemble)
	if !ok {
		return fmt.Errorf("%s is not a continuous demo", cfg.Demo)
	}

	integ, err := integrators.ByName(name)
	if err != nil {
		return err
	}
	dt := exp.Controller().Params().Get("dt")
	states := ens.States()
	lambda := analysis.LyapunovExponent(ens.Field(), integ, states[0].Clone(), dt, lyapSteps, 1e-8)

	fmt.Printf("demo: %s (%s, dt=%g)\n", cfg.Demo, name, dt)
	fmt.Printf("largest lyapunov exponent: %.4f per unit time (%.5f per tick)\n", lambda, lambda*dt)
	if lambda > 0 {
		fmt.Printf("lyapunov time: %.2f\n", 1/lambda)
	}

	space, bounds, caption := analysis.PhaseSpace{X: 0, Y: 2}, analysis.Bounds{}, "x vs z"
	if d.Phase {
		space, bounds, caption = analysis.AnglePlane, analysis.AngleBounds, "θ1 vs θ2"
	}
	portrait := analysis.NewPortrait(ens, space, int(cfg.Ticks))
	exp.Controller().AddRenderer(portrait)
	var tracker *analysis.Tracker
	if len(states) >= 2 {
		tracker = analysis.NewTracker(ens, 0)
		exp.Controller().AddRenderer(tracker)
	}
	ctx, cancel := signalContext()
	defer cancel()
	if _, err := exp.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if plot := analysis.PortraitToASCII(portrait.Trails(), 64, 24, bounds); plot != "" {
		fmt.Printf("\nphase portrait (%s)\n%s", caption, plot)
	}
	if tracker == nil {
		return nil
	}
	series := finiteValues(tracker.Series())
	if len(series) < 2 {
		fmt.Println("\nensemble diverged to non-finite states")
		return nil
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(series,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("mean divergence of %d instances", len(states))),
	))
	return nil
}

// bifurcate sweeps bifParam over its range and prints the settled values of
// one state component. Continuous demos and iterated maps are supported.
func bifurcate(cmd *cobra.Command, exp *experiment.Experiment, integrator string) error {
	k := exp.Kernel()
	knob, ok := k.Schema().Lookup(bifParam)
	if !ok {
		return fmt.Errorf("%s has no parameter %q", k.Name(), bifParam)
	}
	lo, hi := knob.Range.Min, knob.Range.Max
	if cmd.Flags().Changed("bif-min") {
		lo = bifMin
	}
	if cmd.Flags().Changed("bif-max") {
		hi = bifMax
	}
	base := exp.Controller().Params()
	sw := analysis.Sweep{
		Param:     bifParam,
		Values:    optim.Linspace(lo, hi, bifSteps),
		Transient: 2000,
		Record:    3000,
	}

	var data []analysis.BifurcationPoint
	switch k := k.(type) {
	case *ode.Ensemble:
		x0 := k.States()[0]
		sw.StateIndex = component(len(x0))
		integ, err := integrators.ByName(integrator)
		if err != nil {
			return err
		}
		data = analysis.BifurcationDiagram(k.Field(), integ, base, x0, sw)
	case *ode.MapKernel:
		x0 := k.Start()
		sw.StateIndex = component(len(x0))
		sw.Transient, sw.Record = 500, 1000
		data = analysis.MapBifurcation(k.Map(), base, x0, sw)
	default:
		return fmt.Errorf("%s has no state to sweep", k.Name())
	}
	if data == nil {
		return fmt.Errorf("component %d out of range", bifComponent)
	}

	fmt.Printf("bifurcation of %s over %s in [%g, %g], component %d\n", k.Name(), bifParam, lo, hi, sw.StateIndex)
	fmt.Print(analysis.BifurcationToASCII(data, 80, 24))
	return nil
}

// component resolves --component against a state of n components.
func component(n int) int {
	if bifComponent < 0 {
		return n - 1
	}
	return bifComponent
}

func benchDemos(cmd *cobra.Command, args []string) error {
	reg := experiment.NewRegistry()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DEMO\tTICKS\tTIME\tTICKS/SEC")
	for _, name := range reg.List() {
		exp := experiment.New(experiment.Config{Demo: name, Seed: 42, Ticks: ticks})
		if err := exp.Setup(reg, log); err != nil {
			return err
		}
		start := time.Now()
		res, err := exp.Run(context.Background())
		if err != nil {
			return err
		}
		elapsed := time.Since(start)
		fmt.Fprintf(w, "%s\t%d\t%v\t%.0f\n", name, res.Ticks, elapsed.Round(time.Millisecond), float64(res.Ticks)/elapsed.Seconds())
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDEMO\tTIME\tTICKS\tSEED\tINTEG")
	for _, run := range runs {
		integ := run.Integrator
		if integ == "" {
			integ = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			run.ID,
			run.Demo,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Ticks,
			run.Seed,
			integ,
		)
	}
	return w.Flush()
}

func finiteValues(vs []float64) []float64 {
	out := make([]float64, 0, len(vs))
	for _, v := range vs {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadPoints(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("demo: %s\n", meta.Demo)
	fmt.Printf("ticks: %d\n\n", meta.Ticks)

	if len(series) == 0 {
		return plotFields(st, runID)
	}

	first := series[0]
	xs := make([]float64, len(first))
	ys := make([]float64, len(first))
	for i, p := range first {
		xs[i], ys[i] = p.X, p.Y
	}

	if spectrum {
		ps := analysis.PowerSpectrum(xs)
		if len(ps) < 4 {
			return fmt.Errorf("run %s: too few samples for a spectrum", runID)
		}
		fmt.Println(asciigraph.Plot(ps[:len(ps)/4],
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum (x)"),
		))
		freq := analysis.DominantFrequency(xs, 1)
		fmt.Printf("\ndominant frequency: %.5f cycles/tick\n", freq)
		if freq > 0 {
			fmt.Printf("period: %.1f ticks\n", 1/freq)
		}
		return nil
	}

	for _, axis := range []struct {
		name string
		data []float64
	}{{"x", xs}, {"y", ys}} {
		data := finiteValues(axis.data)
		if len(data) < 2 {
			continue
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s vs tick (series 0 of %d)", axis.name, len(series))),
		))
		fmt.Println()
	}
	return nil
}

func plotFields(st *storage.Store, runID string) error {
	fields, err := st.LoadFields(runID)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		data := finiteValues(fields[name])
		if len(data) < 2 {
			continue
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("mean "+name+" vs tick"),
		))
		fmt.Println()
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	series, err := st.LoadPoints(runID)
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return fmt.Errorf("run %s has no trajectories", runID)
	}

	var svg string
	if stroke != "" {
		svg = export.TrajectorySVG(series[0], 800, 800, stroke)
	} else {
		svg = export.SeriesSVG(series, 800, 800, viz.ThemeDark.Gradient())
	}
	if svg == "" {
		return fmt.Errorf("run %s has fewer than two finite points", runID)
	}

	out := outFile
	if out == "" {
		out = runID + ".svg"
	}
	if err := os.WriteFile(out, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", out)
	return nil
}
