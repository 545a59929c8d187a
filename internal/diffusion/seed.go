package diffusion

import (
	"math/rand"

	"github.com/aquilax/go-perlin"
)

// Seeder places the initial B mass that destabilises the fixed point.
type Seeder interface {
	Seed(s *Solver, seed int64)
}

// Patches stamps Count random squares of side Size, kept Margin cells
// away from the border.
type Patches struct {
	Count  int
	Size   int
	Margin int
}

func (p Patches) Seed(s *Solver, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	w, h := s.Width(), s.Height()
	spanX := w - 2*p.Margin
	spanY := h - 2*p.Margin
	if spanX < 1 || spanY < 1 {
		spanX, spanY = w, h
	}
	for i := 0; i < p.Count; i++ {
		x := p.Margin + rng.Intn(spanX)
		y := p.Margin + rng.Intn(spanY)
		s.Stamp(x, y, p.Size)
	}
}

// Noise sets B=1 wherever 2D Perlin noise sampled at Scale cells per unit
// exceeds Threshold.
type Noise struct {
	Scale     float64
	Threshold float64
}

func (n Noise) Seed(s *Solver, seed int64) {
	p := perlin.NewPerlin(2, 2, 3, seed)
	scale := n.Scale
	if scale <= 0 {
		scale = 20
	}
	for y := 1; y < s.Height()-1; y++ {
		for x := 1; x < s.Width()-1; x++ {
			if p.Noise2D(float64(x)/scale, float64(y)/scale) > n.Threshold {
				s.b.Set(x, y, 1)
			}
		}
	}
}
