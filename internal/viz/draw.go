package viz

import (
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mazznoer/colorgrad"

	"github.com/san-kum/emergent/internal/dynamo"
)

// Options describe how a demo is drawn.
type Options struct {
	// ScreenY keeps +Y pointing down (pendulums, boids, grids).
	ScreenY bool
	// Dots draws trails as unconnected points (iterated maps).
	Dots bool
	// Phase adds a θ1 vs θ2 portrait of the ensemble to the panel.
	Phase bool
	FPS   int
	Theme string
}

// Scene draws point snapshots onto a Braille canvas.
type Scene struct {
	Canvas *Canvas
	Camera *Camera
	Frame  *Frame
	dots   bool

	xs, ys []float64
}

func NewScene(w, h int, opts Options) *Scene {
	f := NewFrame(opts.FPS)
	f.ScreenY = opts.ScreenY
	return &Scene{Canvas: NewCanvas(w, h), Camera: NewCamera(), Frame: f, dots: opts.Dots}
}

// Draw renders trails, segments and heads of snap. Non-finite points are
// skipped and break the line they belong to.
func (s *Scene) Draw(snap dynamo.Snapshot) {
	s.Canvas.Clear()
	s.fit(snap)
	dw, dh := s.Canvas.Dots()

	for _, tr := range snap.Trails {
		prevOK := false
		var px, py int
		for _, p := range tr {
			x, y, ok := s.project(p, dw, dh)
			if !ok {
				prevOK = false
				continue
			}
			if s.dots || !prevOK {
				s.Canvas.Set(x, y)
			} else {
				s.line(px, py, x, y, dw, dh)
			}
			px, py, prevOK = x, y, true
		}
	}
	for _, seg := range snap.Segments {
		x0, y0, ok0 := s.project(seg.From, dw, dh)
		x1, y1, ok1 := s.project(seg.To, dw, dh)
		if ok0 && ok1 {
			s.line(x0, y0, x1, y1, dw, dh)
		}
	}
	for _, p := range snap.Heads {
		if x, y, ok := s.project(p, dw, dh); ok {
			s.Canvas.Set(x, y)
			s.Canvas.Set(x+1, y)
			s.Canvas.Set(x, y+1)
			s.Canvas.Set(x+1, y+1)
		}
	}
}

func (s *Scene) project(p dynamo.Point, dw, dh int) (int, int, bool) {
	if !p.Finite() {
		return 0, 0, false
	}
	x, y := s.Camera.Apply(p)
	return s.Frame.Map(x, y, s.Camera.Zoom, dw, dh)
}

// line starts the walk from the visible end.
func (s *Scene) line(x0, y0, x1, y1, dw, dh int) {
	in := func(x, y int) bool { return x >= 0 && y >= 0 && x < dw && y < dh }
	switch {
	case in(x0, y0):
		s.Canvas.DrawLine(x0, y0, x1, y1)
	case in(x1, y1):
		s.Canvas.DrawLine(x1, y1, x0, y0)
	}
}

func (s *Scene) fit(snap dynamo.Snapshot) {
	s.xs, s.ys = s.xs[:0], s.ys[:0]
	add := func(p dynamo.Point) {
		if !p.Finite() {
			return
		}
		x, y := s.Camera.Apply(p)
		s.xs = append(s.xs, x)
		s.ys = append(s.ys, y)
	}
	for _, tr := range snap.Trails {
		for _, p := range tr {
			add(p)
		}
	}
	for _, seg := range snap.Segments {
		add(seg.From)
		add(seg.To)
	}
	for _, p := range snap.Heads {
		add(p)
	}
	s.Frame.Fit(s.xs, s.ys)
}

// FieldNames returns the snapshot's field names, "B" first when present.
func FieldNames(snap dynamo.Snapshot) []string {
	names := make([]string, 0, len(snap.Fields))
	for name := range snap.Fields {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if names[i] == "B" || names[j] == "B" {
			return names[i] == "B"
		}
		return names[i] < names[j]
	})
	return names
}

const shadeLevels = 64

// Shader renders grid fields with half-block characters, two grid rows per
// terminal row, coloured along a gradient.
type Shader struct {
	palette [shadeLevels]lipgloss.Color
}

func NewShader(grad colorgrad.Gradient) *Shader {
	s := &Shader{}
	for i := range s.palette {
		s.palette[i] = lipgloss.Color(grad.At(float64(i) / (shadeLevels - 1)).Hex())
	}
	return s
}

func (s *Shader) level(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	v = math.Max(0, math.Min(1, v))
	return int(math.Round(v * (shadeLevels - 1)))
}

// Render samples g onto cols x rows terminal cells. Values are clamped to
// [0, 1]; NaN renders as 0.
func (s *Shader) Render(g *dynamo.GridView, cols, rows int) string {
	if g == nil || g.W == 0 || g.H == 0 || cols < 1 || rows < 1 {
		return ""
	}
	var b strings.Builder
	for r := 0; r < rows; r++ {
		if r > 0 {
			b.WriteByte('\n')
		}
		top := (2 * r) * g.H / (2 * rows)
		bot := (2*r + 1) * g.H / (2 * rows)
		for c := 0; c < cols; c++ {
			x := c * g.W / cols
			st := lipgloss.NewStyle().
				Foreground(s.palette[s.level(g.At(x, top))]).
				Background(s.palette[s.level(g.At(x, bot))])
			b.WriteString(st.Render("▀"))
		}
	}
	return b.String()
}
