package sim_test

import (
	"context"
	"io"
	"log/slog"
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/emergent/internal/diffusion"
	"github.com/san-kum/emergent/internal/dynamo"
	"github.com/san-kum/emergent/internal/metrics"
	"github.com/san-kum/emergent/internal/params"
	"github.com/san-kum/emergent/internal/sim"
)

var counterSchema = params.Schema{
	{Name: "rate", Range: params.Range{Min: 0, Max: 10, Default: 1}},
	{Name: "size", Range: params.Range{Min: 1, Max: 5, Default: 2}, Structural: true},
}

// counter adds rate to every one of its size cells per step.
type counter struct {
	cells  []float64
	tick   uint64
	resets int
	seen   []float64
	poison bool
}

func (c *counter) Name() string          { return "counter" }
func (c *counter) Schema() params.Schema { return counterSchema }

func (c *counter) Reset(_ int64, v params.Values) {
	c.cells = make([]float64, v.Int("size"))
	c.tick = 0
	c.resets++
}

func (c *counter) Step(v params.Values) {
	c.seen = append(c.seen, v.Get("rate"))
	for i := range c.cells {
		c.cells[i] += v.Get("rate")
	}
	if c.poison {
		c.cells[0] = math.NaN()
	}
	c.tick++
}

func (c *counter) Snapshot() dynamo.Snapshot {
	heads := make([]dynamo.Point, len(c.cells))
	for i, v := range c.cells {
		heads[i] = dynamo.Point{X: v}
	}
	return dynamo.Snapshot{Kernel: c.Name(), Tick: c.tick, Heads: heads}
}

type recorder struct{ snaps []dynamo.Snapshot }

func (r *recorder) OnTick(s dynamo.Snapshot) { r.snaps = append(r.snaps, s) }

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

var _ = Describe("Controller", func() {
	var (
		k   *counter
		src *params.Static
		rec *recorder
		c   *sim.Controller
	)

	BeforeEach(func() {
		k = &counter{}
		src = params.NewStatic(nil)
		rec = &recorder{}
		c = sim.New(k, src, sim.WithLogger(quiet), sim.WithRenderer(rec))
	})

	It("resets the kernel to the resolved defaults on construction", func() {
		Expect(k.resets).To(Equal(1))
		Expect(k.cells).To(HaveLen(2))
		Expect(c.Params()).To(Equal(params.Values{"rate": 1, "size": 2}))
	})

	It("polls the source every tick and clamps", func() {
		c.Tick()
		src.Set("rate", 3)
		c.Tick()
		src.Set("rate", 99)
		c.Tick()
		Expect(k.seen).To(Equal([]float64{1, 3, 10}))
	})

	It("retunes live without resetting", func() {
		c.Tick()
		src.Set("rate", 2)
		c.Tick()
		Expect(k.resets).To(Equal(1))
		Expect(k.cells[0]).To(Equal(3.0))
	})

	It("resets when a structural knob changes", func() {
		c.Tick()
		c.Tick()
		src.Set("size", 4)
		snap := c.Tick()
		Expect(k.resets).To(Equal(2))
		Expect(snap.Heads).To(HaveLen(4))
		Expect(snap.Tick).To(Equal(uint64(1)))
	})

	It("renders the committed state after each step", func() {
		c.Tick()
		c.Tick()
		Expect(rec.snaps).To(HaveLen(2))
		Expect(rec.snaps[1].Tick).To(Equal(uint64(2)))
		Expect(rec.snaps[1].Heads[0].X).To(Equal(2.0))
	})

	It("keeps rendering but stops stepping while paused", func() {
		c.Tick()
		c.Pause()
		c.Tick()
		c.Tick()
		Expect(c.Ticks()).To(Equal(uint64(1)))
		Expect(rec.snaps).To(HaveLen(3))
		Expect(rec.snaps[2].Paused).To(BeTrue())
		Expect(rec.snaps[2].Heads[0].X).To(Equal(1.0))

		Expect(c.Toggle()).To(BeFalse())
		c.Tick()
		Expect(c.Ticks()).To(Equal(uint64(2)))
	})

	It("restarts with a new seed on demand", func() {
		c.Tick()
		c.Restart(7)
		Expect(k.resets).To(Equal(2))
		Expect(k.cells[0]).To(Equal(0.0))
	})

	It("keeps ticking after the state turns non-finite", func() {
		ratio := metrics.NewFiniteRatio()
		c.AddMetric(ratio)
		k.poison = true
		Expect(func() {
			for i := 0; i < 10; i++ {
				c.Tick()
			}
		}).NotTo(Panic())
		Expect(c.Ticks()).To(Equal(uint64(10)))
		Expect(ratio.Value()).To(Equal(0.5))
	})

	Describe("Run", func() {
		It("stops after the requested ticks", func() {
			res, err := c.Run(context.Background(), sim.Config{Ticks: 25})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Ticks).To(Equal(uint64(25)))
			Expect(rec.snaps).To(HaveLen(25))
		})

		It("returns the context error on cancellation", func() {
			ctx, cancel := context.WithCancel(context.Background())
			go func() {
				time.Sleep(20 * time.Millisecond)
				cancel()
			}()
			res, err := c.Run(ctx, sim.Config{Interval: time.Millisecond})
			Expect(err).To(MatchError(context.Canceled))
			Expect(res.Ticks).To(BeNumerically(">", 0))
		})

		It("stops when the callback declines", func() {
			res, err := c.RunWithCallback(context.Background(), sim.Config{Ticks: 100}, func(s dynamo.Snapshot) bool {
				return s.Tick < 5
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Ticks).To(Equal(uint64(5)))
		})

		It("refuses to spin while paused without an interval", func() {
			c.Pause()
			_, err := c.Run(context.Background(), sim.Config{Ticks: 3})
			Expect(err).To(HaveOccurred())
		})
	})
})

var _ = Describe("Controller with reaction-diffusion", func() {
	It("applies feed and kill to the next sub-step without rebuilding the grid", func() {
		src := params.NewStatic(params.Values{"width": 40, "height": 40, "iterations": 2})
		k := diffusion.NewKernel()
		c := sim.New(k, src, sim.WithLogger(quiet), sim.WithSeed(3))

		first := c.Tick()
		grid := k.Solver()
		src.Merge(params.Values{"feed": 0.035, "kill": 0.065})
		second := c.Tick()

		Expect(k.Solver()).To(BeIdenticalTo(grid))
		Expect(second.Tick).To(Equal(first.Tick + 1))
		Expect(c.Params()["feed"]).To(Equal(0.035))
	})
})
