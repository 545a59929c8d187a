package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/emergent/internal/dynamo"
	"github.com/san-kum/emergent/internal/params"
	"github.com/san-kum/emergent/internal/sim"
)

type Config struct {
	Demo       string
	Integrator string
	Seed       int64
	Ticks      uint64
	Interval   time.Duration
	Params     params.Values
}

// Experiment is a demo kernel wired to a controller and its metrics.
type Experiment struct {
	cfg        Config
	kernel     dynamo.Kernel
	controller *sim.Controller
	source     *params.Static
}

func New(cfg Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup builds the kernel from reg. extra sources are consulted before the
// config parameters, so a scenario can override a preset.
func (e *Experiment) Setup(reg *Registry, log *slog.Logger, extra ...params.Source) error {
	k, err := reg.Build(e.cfg.Demo, e.cfg.Integrator)
	if err != nil {
		return err
	}
	for name := range e.cfg.Params {
		if _, ok := k.Schema().Lookup(name); !ok {
			return fmt.Errorf("demo %s: %w: %s", e.cfg.Demo, dynamo.ErrUnknownParameter, name)
		}
	}
	if log == nil {
		log = slog.Default()
	}

	e.kernel = k
	e.source = params.NewStatic(e.cfg.Params)
	chain := append(params.Chain{}, extra...)
	chain = append(chain, e.source)

	e.controller = sim.New(k, chain, sim.WithSeed(e.cfg.Seed), sim.WithLogger(log))
	for _, m := range reg.DefaultMetrics(e.cfg.Demo, k) {
		e.controller.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.controller == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.controller.Run(ctx, sim.Config{Ticks: e.cfg.Ticks, Interval: e.cfg.Interval})
}

// Controller returns the underlying controller for adding renderers.
func (e *Experiment) Controller() *sim.Controller { return e.controller }

// Source is the writable parameter source, e.g. for live sliders.
func (e *Experiment) Source() *params.Static { return e.source }

func (e *Experiment) Kernel() dynamo.Kernel { return e.kernel }

func (e *Experiment) Config() Config { return e.cfg }
