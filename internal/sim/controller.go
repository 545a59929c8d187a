// Package sim drives a kernel: it polls parameters once per tick, steps
// the kernel, and hands the committed snapshot to every renderer.
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/san-kum/emergent/internal/dynamo"
	"github.com/san-kum/emergent/internal/metrics"
	"github.com/san-kum/emergent/internal/params"
)

// Config bounds a run. Zero Ticks runs until the context ends; zero
// Interval ticks as fast as possible.
type Config struct {
	Ticks    uint64
	Interval time.Duration
}

type Result struct {
	Ticks   uint64
	Resets  int
	Metrics map[string]float64
}

// Controller owns one kernel. Tick, Pause, Resume and Restart may be
// called from different goroutines; renderers run on the ticking one.
type Controller struct {
	mu        sync.Mutex
	kernel    dynamo.Kernel
	source    params.Source
	seed      int64
	current   params.Values
	paused    bool
	diverged  bool
	resets    int
	ticks     uint64
	renderers []dynamo.Renderer
	metrics   metrics.Set
	log       *slog.Logger
}

type Option func(*Controller)

func WithSeed(seed int64) Option { return func(c *Controller) { c.seed = seed } }

func WithLogger(l *slog.Logger) Option { return func(c *Controller) { c.log = l } }

func WithRenderer(r dynamo.Renderer) Option {
	return func(c *Controller) { c.renderers = append(c.renderers, r) }
}

// New resolves the source once and resets the kernel to it.
func New(k dynamo.Kernel, src params.Source, opts ...Option) *Controller {
	c := &Controller{
		kernel: k,
		source: src,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("kernel", k.Name())
	c.current = params.Resolve(k.Schema(), src)
	k.Reset(c.seed, c.current)
	return c
}

func (c *Controller) AddRenderer(r dynamo.Renderer) {
	c.mu.Lock()
	c.renderers = append(c.renderers, r)
	c.mu.Unlock()
}

func (c *Controller) AddMetric(m metrics.Metric) {
	c.mu.Lock()
	c.metrics = append(c.metrics, m)
	c.mu.Unlock()
}

func (c *Controller) Kernel() dynamo.Kernel { return c.kernel }

// Params returns the values resolved on the last tick.
func (c *Controller) Params() params.Values {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current.Clone()
}

// SetSource replaces the parameter source; the next tick polls it.
func (c *Controller) SetSource(src params.Source) {
	c.mu.Lock()
	c.source = src
	c.mu.Unlock()
}

func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.paused {
		c.paused = true
		c.log.Debug("paused", "tick", c.ticks)
	}
}

func (c *Controller) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused {
		c.paused = false
		c.log.Debug("resumed", "tick", c.ticks)
	}
}

// Toggle flips the pause state and reports whether the controller is now
// paused.
func (c *Controller) Toggle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = !c.paused
	c.log.Debug("toggled", "paused", c.paused, "tick", c.ticks)
	return c.paused
}

func (c *Controller) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// Restart resets the kernel with the current values and a new seed.
func (c *Controller) Restart(seed int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seed = seed
	c.resetLocked("restart")
}

func (c *Controller) resetLocked(reason string) {
	c.kernel.Reset(c.seed, c.current)
	c.metrics.Reset()
	c.diverged = false
	c.resets++
	c.log.Info("reset", "reason", reason, "seed", c.seed)
}

// Tick polls the source, resets on a structural change, steps unless
// paused, and renders the committed state. The returned snapshot is the
// one every renderer saw.
func (c *Controller) Tick() dynamo.Snapshot {
	c.mu.Lock()
	next := params.Resolve(c.kernel.Schema(), c.source)
	if c.kernel.Schema().StructuralChange(c.current, next) {
		c.current = next
		c.resetLocked("structural parameter changed")
	}
	c.current = next

	if !c.paused {
		c.kernel.Step(next)
		c.ticks++
	}
	snap := c.kernel.Snapshot()
	snap.Paused = c.paused

	if !c.diverged && hasNonFinite(snap) {
		c.diverged = true
		c.log.Warn("non-finite state, skipping unrenderable points", "tick", snap.Tick)
	}
	renderers := c.renderers
	set := c.metrics
	c.mu.Unlock()

	if !snap.Paused {
		set.OnTick(snap)
	}
	for _, r := range renderers {
		r.OnTick(snap)
	}
	return snap
}

func hasNonFinite(s dynamo.Snapshot) bool {
	for _, p := range s.Heads {
		if !p.Finite() {
			return true
		}
	}
	return false
}

// Run ticks until cfg.Ticks steps have been taken or ctx ends.
func (c *Controller) Run(ctx context.Context, cfg Config) (*Result, error) {
	return c.RunWithCallback(ctx, cfg, nil)
}

// RunWithCallback is Run with a per-tick hook; returning false stops the run.
func (c *Controller) RunWithCallback(ctx context.Context, cfg Config, callback func(dynamo.Snapshot) bool) (*Result, error) {
	var tick <-chan time.Time
	if cfg.Interval > 0 {
		t := time.NewTicker(cfg.Interval)
		defer t.Stop()
		tick = t.C
	}

	start := c.Ticks()
	var err error
	for cfg.Ticks == 0 || c.Ticks()-start < cfg.Ticks {
		if tick != nil {
			select {
			case <-ctx.Done():
				err = ctx.Err()
			case <-tick:
			}
		} else {
			select {
			case <-ctx.Done():
				err = ctx.Err()
			default:
			}
		}
		if err != nil {
			break
		}

		snap := c.Tick()
		if callback != nil && !callback(snap) {
			break
		}
		if cfg.Ticks > 0 && snap.Paused && tick == nil {
			err = fmt.Errorf("sim: paused with %d ticks remaining and no interval", cfg.Ticks-(c.Ticks()-start))
			break
		}
	}

	c.mu.Lock()
	res := &Result{Ticks: c.ticks - start, Resets: c.resets, Metrics: c.metrics.Values()}
	c.mu.Unlock()
	return res, err
}

// Ticks is the number of steps taken; paused ticks are not counted.
func (c *Controller) Ticks() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticks
}

// Metrics returns the current value of every metric.
func (c *Controller) Metrics() map[string]float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.metrics.Values()
}
