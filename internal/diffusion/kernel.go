package diffusion

import (
	"github.com/san-kum/emergent/internal/compute"
	"github.com/san-kum/emergent/internal/dynamo"
	"github.com/san-kum/emergent/internal/params"
)

const (
	SeedPatches = 0
	SeedNoise   = 1
)

var Schema = params.Schema{
	{Name: "feed", Label: "Feed rate", Range: params.Range{Min: 0.01, Max: 0.1, Default: 0.055}, Step: 0.001},
	{Name: "kill", Label: "Kill rate", Range: params.Range{Min: 0.01, Max: 0.1, Default: 0.062}, Step: 0.001},
	{Name: "Da", Label: "Diffusion A", Range: params.Range{Min: 0.1, Max: 2.0, Default: 1.0}, Step: 0.01},
	{Name: "Db", Label: "Diffusion B", Range: params.Range{Min: 0.1, Max: 1.0, Default: 0.5}, Step: 0.01},
	{Name: "dt", Range: params.Range{Min: 0.1, Max: 1.0, Default: 1.0}, Step: 0.05},
	{Name: "iterations", Label: "Sub-steps", Range: params.Range{Min: 1, Max: 50, Default: 10}, Step: 1},
	{Name: "width", Range: params.Range{Min: 20, Max: 400, Default: 200}, Step: 10, Structural: true},
	{Name: "height", Range: params.Range{Min: 20, Max: 400, Default: 200}, Step: 10, Structural: true},
	{Name: "patches", Label: "Seed patches", Range: params.Range{Min: 0, Max: 50, Default: 10}, Step: 1, Structural: true},
	{Name: "patchSize", Label: "Patch size", Range: params.Range{Min: 1, Max: 40, Default: 15}, Step: 1, Structural: true},
	{Name: "seeding", Label: "Seeding (0 patches, 1 noise)", Range: params.Range{Min: SeedPatches, Max: SeedNoise, Default: SeedPatches}, Step: 1, Structural: true},
}

// Kernel adapts a Solver to the controller. Rates are re-read every tick;
// only the structural knobs rebuild the grid.
type Kernel struct {
	solver *Solver
	pool   *compute.Pool
	tick   uint64
}

type Option func(*Kernel)

// WithPool runs each sub-step's rows on p.
func WithPool(p *compute.Pool) Option {
	return func(k *Kernel) { k.pool = p }
}

func NewKernel(opts ...Option) *Kernel {
	k := &Kernel{}
	for _, opt := range opts {
		opt(k)
	}
	k.Reset(0, Schema.Defaults())
	return k
}

func (k *Kernel) Name() string          { return "reaction-diffusion" }
func (k *Kernel) Schema() params.Schema { return Schema }

func (k *Kernel) Reset(seed int64, v params.Values) {
	v = Schema.Clamp(v)
	w, h := v.Int("width"), v.Int("height")
	if k.solver == nil || k.solver.Width() != w || k.solver.Height() != h {
		// Clamped dimensions are always >= 20, so this cannot fail.
		s, err := NewSolver(w, h)
		if err != nil {
			panic(err)
		}
		s.SetPool(k.pool)
		k.solver = s
	} else {
		k.solver.Clear()
	}
	seederFor(v).Seed(k.solver, seed)
	k.tick = 0
}

func seederFor(v params.Values) Seeder {
	if v.Int("seeding") == SeedNoise {
		return Noise{Scale: 20, Threshold: 0.15}
	}
	return Patches{Count: v.Int("patches"), Size: v.Int("patchSize"), Margin: 10}
}

func (k *Kernel) Step(v params.Values) {
	r := Rates{
		Feed: v.Get("feed"),
		Kill: v.Get("kill"),
		Da:   v.Get("Da"),
		Db:   v.Get("Db"),
		Dt:   v.Get("dt"),
	}
	n := v.Int("iterations")
	for i := 0; i < n; i++ {
		k.solver.Iterate(r)
	}
	k.tick++
}

func (k *Kernel) Snapshot() dynamo.Snapshot {
	return dynamo.Snapshot{
		Kernel: k.Name(),
		Tick:   k.tick,
		Fields: map[string]*dynamo.GridView{
			"A": k.solver.A().View(),
			"B": k.solver.B().View(),
		},
	}
}

// Solver exposes the underlying grids.
func (k *Kernel) Solver() *Solver { return k.solver }
