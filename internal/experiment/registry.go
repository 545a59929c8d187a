package experiment

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/emergent/internal/analysis"
	"github.com/san-kum/emergent/internal/compute"
	"github.com/san-kum/emergent/internal/diffusion"
	"github.com/san-kum/emergent/internal/dynamo"
	"github.com/san-kum/emergent/internal/epicycle"
	"github.com/san-kum/emergent/internal/flock"
	"github.com/san-kum/emergent/internal/fractal"
	"github.com/san-kum/emergent/internal/integrators"
	"github.com/san-kum/emergent/internal/langton"
	"github.com/san-kum/emergent/internal/metrics"
	"github.com/san-kum/emergent/internal/ode"
	"github.com/san-kum/emergent/internal/params"
	"github.com/san-kum/emergent/internal/physics"
)

// Demo is one entry of the gallery.
type Demo struct {
	Name  string
	Title string
	// Description is markdown.
	Description string
	// Integrator is the default scheme for continuous demos, empty otherwise.
	Integrator string
	// ScreenY marks demos whose Y axis points down.
	ScreenY bool
	// Dots marks demos whose trail is a point cloud rather than a path.
	Dots bool
	// Phase marks pendulum demos whose angles are shown as a phase portrait.
	Phase   bool
	build   func(integ dynamo.Integrator) (dynamo.Kernel, error)
	metrics func(k dynamo.Kernel) []metrics.Metric
}

type Registry struct {
	demos map[string]Demo
}

func NewRegistry() *Registry {
	r := &Registry{demos: make(map[string]Demo)}
	for _, d := range gallery() {
		r.Register(d)
	}
	return r
}

func (r *Registry) Register(d Demo) { r.demos[d.Name] = d }

func (r *Registry) Get(name string) (Demo, error) {
	d, ok := r.demos[name]
	if !ok {
		return Demo{}, fmt.Errorf("%w: %s", dynamo.ErrUnknownKernel, name)
	}
	return d, nil
}

// Build constructs the named demo's kernel. An empty integrator selects the
// demo default; discrete demos ignore it.
func (r *Registry) Build(name, integrator string) (dynamo.Kernel, error) {
	d, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	var integ dynamo.Integrator
	if d.Integrator != "" {
		if integrator == "" {
			integrator = d.Integrator
		}
		integ, err = integrators.ByName(integrator)
		if err != nil {
			return nil, fmt.Errorf("demo %s: %w", name, err)
		}
	}
	return d.build(integ)
}

// Schema returns the parameter schema of the named demo.
func (r *Registry) Schema(name string) (params.Schema, error) {
	k, err := r.Build(name, "")
	if err != nil {
		return nil, err
	}
	return k.Schema(), nil
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.demos))
	for name := range r.demos {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns the metrics worth tracking for k.
func (r *Registry) DefaultMetrics(name string, k dynamo.Kernel) []metrics.Metric {
	ms := []metrics.Metric{metrics.NewFiniteRatio()}
	if d, ok := r.demos[name]; ok && d.metrics != nil {
		ms = append(ms, d.metrics(k)...)
	}
	return ms
}

func attractor(name string, schema params.Schema, f interface {
	physics.Field
	DefaultState() dynamo.State
}, integ dynamo.Integrator) (dynamo.Kernel, error) {
	return ode.NewEnsemble(ode.Config{
		Name:       name,
		Schema:     schema,
		Field:      f,
		Integrator: integ,
		Capacity:   5000,
		Initial: func(int64, params.Values) []dynamo.State {
			return []dynamo.State{f.DefaultState()}
		},
		Emit: physics.XYZ,
	})
}

var ambientSchema = params.Schema{
	{Name: "g", Label: "Gravity", Range: params.Range{Min: 1, Max: 20, Default: 10}, Step: 0.1},
	{Name: "m1", Range: params.Range{Min: 1, Max: 50, Default: 10}, Step: 1},
	{Name: "m2", Range: params.Range{Min: 1, Max: 50, Default: 10}, Step: 1},
	{Name: "l1", Range: params.Range{Min: 50, Max: 300, Default: 132}, Step: 5},
	{Name: "l2", Range: params.Range{Min: 50, Max: 300, Default: 132}, Step: 5},
	{Name: "dt", Label: "Tick scale", Range: params.Range{Min: 0.01, Max: 1, Default: physics.DefaultPendulumDt}, Step: 0.01},
}

// divergenceWindow bounds the divergence history kept for charts.
const divergenceWindow = 600

func pendulumEnergy(k dynamo.Kernel) []metrics.Metric {
	e, ok := k.(*ode.Ensemble)
	if !ok {
		return nil
	}
	p, ok := e.Field().(*physics.DoublePendulum)
	if !ok {
		return nil
	}
	return []metrics.Metric{
		metrics.NewSpread(),
		analysis.NewTracker(e, divergenceWindow),
		metrics.NewEnergyDrift(func() float64 {
			sum := 0.0
			for _, x := range e.States() {
				sum += p.Energy(x)
			}
			return sum
		}),
	}
}

func gallery() []Demo {
	return []Demo{
		{
			Name:        "lorenz",
			Title:       "Lorenz attractor",
			Description: lorenzDoc,
			Integrator:  "euler",
			build: func(integ dynamo.Integrator) (dynamo.Kernel, error) {
				return attractor("lorenz", physics.LorenzSchema, physics.NewLorenz(), integ)
			},
		},
		{
			Name:        "aizawa",
			Title:       "Aizawa attractor",
			Description: aizawaDoc,
			Integrator:  "euler",
			build: func(integ dynamo.Integrator) (dynamo.Kernel, error) {
				return attractor("aizawa", physics.AizawaSchema, physics.NewAizawa(), integ)
			},
		},
		{
			Name:        "double-pendulum",
			Phase:       true,
			Title:       "Double pendulum ensemble",
			Description: pendulumDoc,
			ScreenY:     true,
			Integrator:  "semi-implicit-euler",
			build: func(integ dynamo.Integrator) (dynamo.Kernel, error) {
				p := physics.NewDoublePendulum()
				return ode.NewEnsemble(ode.Config{
					Name:       "double-pendulum",
					Schema:     physics.DoublePendulumSchema,
					Field:      p,
					Integrator: integ,
					Capacity:   1000,
					Initial: func(_ int64, v params.Values) []dynamo.State {
						return physics.Fan(v.Get("angle"), v.Get("offset"), v.Int("count"))
					},
					Emit: p.Tip,
					Arms: p.Arms,
				})
			},
			metrics: pendulumEnergy,
		},
		{
			Name:        "ambient-pendulum",
			Phase:       true,
			Title:       "Ambient pendulums",
			Description: ambientDoc,
			ScreenY:     true,
			Integrator:  "semi-implicit-euler",
			build: func(integ dynamo.Integrator) (dynamo.Kernel, error) {
				p := physics.NewDoublePendulum()
				return ode.NewEnsemble(ode.Config{
					Name:       "ambient-pendulum",
					Schema:     ambientSchema,
					Field:      p,
					Integrator: integ,
					Capacity:   150,
					Initial: func(int64, params.Values) []dynamo.State {
						return physics.Spread(math.Pi/2, 0.08, 3)
					},
					Emit: p.Tip,
					Arms: p.Arms,
				})
			},
			metrics: pendulumEnergy,
		},
		{
			Name:        "clifford",
			Title:       "Clifford attractor",
			Description: cliffordDoc,
			Dots:        true,
			build: func(dynamo.Integrator) (dynamo.Kernel, error) {
				c := physics.NewClifford()
				return ode.NewMapKernel("clifford", physics.CliffordSchema, c, c.DefaultState(), 50000)
			},
		},
		{
			Name:        "reaction-diffusion",
			Title:       "Gray-Scott reaction-diffusion",
			Description: diffusionDoc,
			build: func(dynamo.Integrator) (dynamo.Kernel, error) {
				return diffusion.NewKernel(diffusion.WithPool(compute.NewPool(0))), nil
			},
			metrics: func(dynamo.Kernel) []metrics.Metric {
				return []metrics.Metric{metrics.NewFieldMean("A"), metrics.NewFieldMean("B")}
			},
		},
		{
			Name:        "boids",
			Title:       "Boids",
			Description: boidsDoc,
			ScreenY:     true,
			build: func(dynamo.Integrator) (dynamo.Kernel, error) {
				return flock.New(flock.NewSpatialHash(flock.Schema.Defaults().Get("viewDistance"))), nil
			},
			metrics: func(dynamo.Kernel) []metrics.Metric {
				return []metrics.Metric{metrics.NewSpread()}
			},
		},
		{
			Name:        "langton",
			Title:       "Langton's ant",
			Description: langtonDoc,
			ScreenY:     true,
			build: func(dynamo.Integrator) (dynamo.Kernel, error) {
				return langton.NewKernel(), nil
			},
			metrics: func(dynamo.Kernel) []metrics.Metric {
				return []metrics.Metric{metrics.NewFieldMean("cells")}
			},
		},
		{
			Name:        "epicycles",
			Title:       "Fourier epicycles",
			Description: epicycleDoc,
			build: func(dynamo.Integrator) (dynamo.Kernel, error) {
				return epicycle.NewTracer(), nil
			},
		},
		{
			Name:        "fractal-tree",
			Title:       "Fractal tree",
			Description: fractalDoc,
			build: func(dynamo.Integrator) (dynamo.Kernel, error) {
				return fractal.NewTree(), nil
			},
		},
	}
}
