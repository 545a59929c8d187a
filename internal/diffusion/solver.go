// Package diffusion implements the Gray-Scott reaction-diffusion model on a
// double-buffered grid with a frozen one-cell border.
package diffusion

import (
	"fmt"

	"github.com/san-kum/emergent/internal/compute"
	"github.com/san-kum/emergent/internal/dynamo"
)

// Stencil weights of the 9-point Laplacian. The centre weight is
// -(4·Axis + 4·Diagonal) = -1.
const (
	Axis     = 0.2
	Diagonal = 0.05
)

// Rates are the coefficients of one sub-step.
type Rates struct {
	Feed, Kill float64
	Da, Db     float64
	Dt         float64
}

// Solver owns the A and B fields and their next buffers.
type Solver struct {
	a, b         *dynamo.Grid
	nextA, nextB *dynamo.Grid
	pool         *compute.Pool
}

// NewSolver returns a w×h solver at the trivial fixed point A=1, B=0.
func NewSolver(w, h int) (*Solver, error) {
	if w < 3 || h < 3 {
		return nil, fmt.Errorf("diffusion: %dx%d leaves no interior: %w", w, h, dynamo.ErrInvalidDimensions)
	}
	s := &Solver{}
	for _, g := range []**dynamo.Grid{&s.a, &s.b, &s.nextA, &s.nextB} {
		grid, err := dynamo.NewGrid(w, h)
		if err != nil {
			return nil, err
		}
		*g = grid
	}
	s.Clear()
	return s, nil
}

// SetPool spreads the interior rows of each sub-step across p. Every row of
// the next buffers depends only on the current ones, so the result is the
// same for any number of workers. A nil pool runs serially.
func (s *Solver) SetPool(p *compute.Pool) { s.pool = p }

func (s *Solver) Width() int  { return s.a.W }
func (s *Solver) Height() int { return s.a.H }

// A and B expose the committed fields.
func (s *Solver) A() *dynamo.Grid { return s.a }
func (s *Solver) B() *dynamo.Grid { return s.b }

// Clear restores A=1, B=0 in both the current and next buffers, so the
// border cells, which are never written by Iterate, agree after every swap.
func (s *Solver) Clear() {
	s.a.Fill(1)
	s.nextA.Fill(1)
	s.b.Fill(0)
	s.nextB.Fill(0)
}

// Laplacian evaluates the 9-point stencil at interior index i of a row-major
// field of width w. Weighting neighbour differences rather than raw values
// makes the result exactly zero on any uniform patch.
func Laplacian(f []float64, i, w int) float64 {
	c := f[i]
	axis := (f[i-w] - c) + (f[i+w] - c) + (f[i-1] - c) + (f[i+1] - c)
	diag := (f[i-w-1] - c) + (f[i-w+1] - c) + (f[i+w-1] - c) + (f[i+w+1] - c)
	return axis*Axis + diag*Diagonal
}

// Iterate runs one Jacobi sub-step over the interior, clamps to [0,1] and
// swaps buffers.
func (s *Solver) Iterate(r Rates) {
	s.pool.Rows(s.a.H-2, func(lo, hi int) {
		s.sweep(r, lo+1, hi+1)
	})
	s.a, s.nextA = s.nextA, s.a
	s.b, s.nextB = s.nextB, s.b
}

// sweep writes interior rows [y0, y1) of the next buffers.
func (s *Solver) sweep(r Rates, y0, y1 int) {
	w := s.a.W
	a, b := s.a.Cells(), s.b.Cells()
	na, nb := s.nextA.Cells(), s.nextB.Cells()

	for y := y0; y < y1; y++ {
		row := y * w
		for x := 1; x < w-1; x++ {
			i := row + x
			av, bv := a[i], b[i]
			abb := av * bv * bv
			na[i] = clamp01(av + (r.Da*Laplacian(a, i, w)-abb+r.Feed*(1-av))*r.Dt)
			nb[i] = clamp01(bv + (r.Db*Laplacian(b, i, w)+abb-(r.Kill+r.Feed)*bv)*r.Dt)
		}
	}
}

// Diffuse applies the diffusion term alone to both fields, with no reaction.
func (s *Solver) Diffuse(da, db, dt float64) {
	s.Iterate(Rates{Da: da, Db: db, Dt: dt})
}

// Stamp sets B=1 on the size×size square at (x0, y0), clipped to the
// interior.
func (s *Solver) Stamp(x0, y0, size int) {
	for y := max(y0, 1); y < min(y0+size, s.b.H-1); y++ {
		for x := max(x0, 1); x < min(x0+size, s.b.W-1); x++ {
			s.b.Set(x, y, 1)
		}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
