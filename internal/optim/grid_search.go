// Package optim searches demo parameter grids for the run that best
// satisfies a recorded metric.
package optim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/emergent/internal/experiment"
	"github.com/san-kum/emergent/internal/params"
)

var ErrNoCandidates = errors.New("optim: no candidate produced a finite metric")

// Builder turns one grid point into a ready experiment.
type Builder func(p params.Values) (*experiment.Experiment, error)

// GridSearch evaluates every combination of the given values, one axis per
// parameter name.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	// Maximize selects the largest metric instead of the smallest.
	Maximize bool
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n < 2 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

// Size is the number of grid points.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search runs every grid point and returns the best parameters and metric
// value. Ties keep the earliest point; non-finite metrics never win.
func (g *GridSearch) Search(ctx context.Context, build Builder, metricName string) (params.Values, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("optim: %d names for %d ranges", len(g.paramNames), len(g.ranges))
	}
	if g.Size() == 0 {
		return nil, 0, ErrNoCandidates
	}

	best := math.Inf(1)
	if g.Maximize {
		best = math.Inf(-1)
	}
	var bestParams params.Values

	err := g.searchRecursive(ctx, 0, params.Values{}, build, metricName, &best, &bestParams)
	if err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, ErrNoCandidates
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current params.Values,
	build Builder,
	metricName string,
	best *float64,
	bestParams *params.Values,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		exp, err := build(current)
		if err != nil {
			return err
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return err
		}

		val, ok := result.Metrics[metricName]
		if !ok {
			return fmt.Errorf("optim: demo %s records no metric %q", exp.Config().Demo, metricName)
		}
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil
		}
		if g.better(val, *best) {
			*best = val
			*bestParams = current.Clone()
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := current.Clone()
		next[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, next, build, metricName, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

func (g *GridSearch) better(v, best float64) bool {
	if g.Maximize {
		return v > best
	}
	return v < best
}

// ExperimentBuilder builds each grid point from base, with the point's
// values layered over base.Params.
func ExperimentBuilder(reg *experiment.Registry, base experiment.Config, log *slog.Logger) Builder {
	if log == nil {
		log = slog.Default()
	}
	return func(p params.Values) (*experiment.Experiment, error) {
		cfg := base
		cfg.Params = base.Params.Clone()
		if cfg.Params == nil {
			cfg.Params = params.Values{}
		}
		for k, v := range p {
			cfg.Params[k] = v
		}
		exp := experiment.New(cfg)
		if err := exp.Setup(reg, log); err != nil {
			return nil, err
		}
		log.Debug("search point", "demo", cfg.Demo, "params", p)
		return exp, nil
	}
}
