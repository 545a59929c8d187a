// Package automation scripts parameter changes over time and runs batches
// of headless experiments.
package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/emergent/internal/dynamo"
	"github.com/san-kum/emergent/internal/experiment"
	"github.com/san-kum/emergent/internal/params"
	"github.com/san-kum/emergent/internal/sim"
)

// Scenario is a demo run with parameter changes pinned to ticks.
type Scenario struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Demo        string             `yaml:"demo"`
	Integrator  string             `yaml:"integrator"`
	Seed        int64              `yaml:"seed"`
	Ticks       uint64             `yaml:"ticks"`
	Params      map[string]float64 `yaml:"params"`
	Steps       []ScenarioStep     `yaml:"steps"`
}

// ScenarioStep sets parameters at tick At. With Ramp > 0 each value moves
// linearly from its previous value over Ramp ticks.
type ScenarioStep struct {
	At   uint64             `yaml:"at"`
	Ramp uint64             `yaml:"ramp"`
	Set  map[string]float64 `yaml:"set"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	if scenario.Demo == "" {
		return nil, fmt.Errorf("scenario %s: missing demo", path)
	}
	return &scenario, nil
}

// Script is a ParameterSource driven by a scenario's steps. It is also a
// Renderer: every unpaused frame advances its clock by one tick.
type Script struct {
	mu    sync.RWMutex
	steps []ScenarioStep
	tick  uint64
}

func NewScript(steps []ScenarioStep) *Script {
	s := &Script{steps: append([]ScenarioStep(nil), steps...)}
	sort.SliceStable(s.steps, func(i, j int) bool { return s.steps[i].At < s.steps[j].At })
	return s
}

func (s *Script) OnTick(snap dynamo.Snapshot) {
	if snap.Paused {
		return
	}
	s.mu.Lock()
	s.tick++
	s.mu.Unlock()
}

// Tick is the number of frames the script has seen.
func (s *Script) Tick() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tick
}

// Value returns the scripted value of name at the current tick, or false
// before the first step that sets it.
func (s *Script) Value(name string) (float64, bool) {
	s.mu.RLock()
	now := s.tick
	s.mu.RUnlock()
	return s.valueAt(name, now)
}

func (s *Script) valueAt(name string, now uint64) (float64, bool) {
	var (
		v     float64
		known bool
	)
	for _, st := range s.steps {
		if st.At > now {
			break
		}
		target, ok := st.Set[name]
		if !ok {
			continue
		}
		if st.Ramp == 0 || !known || now >= st.At+st.Ramp {
			v, known = target, true
			continue
		}
		frac := float64(now-st.At) / float64(st.Ramp)
		v = v + (target-v)*frac
	}
	return v, known
}

// RunScenario runs sc headless. Scripted values take precedence over the
// scenario's params; extra renderers see every frame.
func RunScenario(ctx context.Context, sc *Scenario, reg *experiment.Registry, log *slog.Logger, renderers ...dynamo.Renderer) (*sim.Result, error) {
	if log == nil {
		log = slog.Default()
	}
	script := NewScript(sc.Steps)
	exp := experiment.New(experiment.Config{
		Demo:       sc.Demo,
		Integrator: sc.Integrator,
		Seed:       sc.Seed,
		Ticks:      sc.Ticks,
		Params:     sc.Params,
	})
	if err := exp.Setup(reg, log, script); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	ctrl := exp.Controller()
	ctrl.AddRenderer(script)
	for _, r := range renderers {
		ctrl.AddRenderer(r)
	}

	log.Info("running scenario", "name", sc.Name, "demo", sc.Demo, "ticks", sc.Ticks, "steps", len(sc.Steps))
	return exp.Run(ctx)
}

// ParameterSweep runs one demo across evenly spaced values of one knob.
type ParameterSweep struct {
	Demo       string
	Integrator string
	ParamName  string
	ParamMin   float64
	ParamMax   float64
	NumSteps   int
	Ticks      uint64
	Seed       int64
	Params     params.Values
}

type SweepResult struct {
	ParamValue float64
	Metrics    map[string]float64
}

func RunSweep(ctx context.Context, sweep *ParameterSweep, reg *experiment.Registry, log *slog.Logger) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}
	if log == nil {
		log = slog.Default()
	}
	results := make([]SweepResult, 0, sweep.NumSteps)
	paramStep := (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep
		p := sweep.Params.Clone()
		if p == nil {
			p = params.Values{}
		}
		p[sweep.ParamName] = paramVal

		exp := experiment.New(experiment.Config{
			Demo:       sweep.Demo,
			Integrator: sweep.Integrator,
			Seed:       sweep.Seed,
			Ticks:      sweep.Ticks,
			Params:     p,
		})
		if err := exp.Setup(reg, log); err != nil {
			return nil, err
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}

		results = append(results, SweepResult{ParamValue: paramVal, Metrics: result.Metrics})
		log.Debug("sweep step", "step", i+1, "of", sweep.NumSteps, sweep.ParamName, paramVal)
	}

	return results, nil
}

// SeedTrial is one run of RunSeeds.
type SeedTrial struct {
	Seed    int64
	Metrics map[string]float64
	// Stable reports that every head stayed finite.
	Stable bool
}

// RunSeeds repeats a demo with seeds first..first+n-1.
func RunSeeds(ctx context.Context, cfg experiment.Config, n int, reg *experiment.Registry, log *slog.Logger) ([]SeedTrial, error) {
	if log == nil {
		log = slog.Default()
	}
	trials := make([]SeedTrial, 0, n)
	first := cfg.Seed
	for i := 0; i < n; i++ {
		c := cfg
		c.Seed = first + int64(i)
		exp := experiment.New(c)
		if err := exp.Setup(reg, log); err != nil {
			return nil, err
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}
		trials = append(trials, SeedTrial{
			Seed:    c.Seed,
			Metrics: result.Metrics,
			Stable:  result.Metrics["finite_ratio"] == 1,
		})
	}
	return trials, nil
}

func SeedStats(trials []SeedTrial) (stableCount int, unstableCount int) {
	for _, t := range trials {
		if t.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
