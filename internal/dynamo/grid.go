package dynamo

import "fmt"

// Grid stores a 2D field of float64 cells in row-major order.
type Grid struct {
	W, H  int
	cells []float64
}

// NewGrid allocates a zeroed grid. Both dimensions must be positive.
func NewGrid(w, h int) (*Grid, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("grid %dx%d: %w", w, h, ErrInvalidDimensions)
	}
	return &Grid{W: w, H: h, cells: make([]float64, w*h)}, nil
}

// Cells exposes the backing slice so solvers can read and write directly.
func (g *Grid) Cells() []float64 { return g.cells }

// Index returns the linear slice index for (x, y).
func (g *Grid) Index(x, y int) int { return y*g.W + x }

func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.W && y >= 0 && y < g.H
}

// At returns the cell at (x, y), or 0 outside the grid.
func (g *Grid) At(x, y int) float64 {
	if !g.InBounds(x, y) {
		return 0
	}
	return g.cells[y*g.W+x]
}

// Set writes v at (x, y). Out-of-bounds writes are dropped.
func (g *Grid) Set(x, y int, v float64) {
	if g.InBounds(x, y) {
		g.cells[y*g.W+x] = v
	}
}

func (g *Grid) Fill(v float64) {
	for i := range g.cells {
		g.cells[i] = v
	}
}

// CopyFrom copies src into g. Shapes must match.
func (g *Grid) CopyFrom(src *Grid) error {
	if src.W != g.W || src.H != g.H {
		return fmt.Errorf("copy %dx%d into %dx%d: %w", src.W, src.H, g.W, g.H, ErrInvalidDimensions)
	}
	copy(g.cells, src.cells)
	return nil
}

// View returns a detached copy suitable for a snapshot.
func (g *Grid) View() *GridView {
	c := make([]float64, len(g.cells))
	copy(c, g.cells)
	return &GridView{W: g.W, H: g.H, Cells: c}
}

// GridView is an immutable copy of a grid handed to renderers.
type GridView struct {
	W, H  int
	Cells []float64
}

func (v *GridView) At(x, y int) float64 {
	if x < 0 || x >= v.W || y < 0 || y >= v.H {
		return 0
	}
	return v.Cells[y*v.W+x]
}

// Mean returns the average cell value.
func (v *GridView) Mean() float64 {
	if len(v.Cells) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range v.Cells {
		sum += c
	}
	return sum / float64(len(v.Cells))
}
