package viz

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/san-kum/emergent/internal/dynamo"
)

// Camera rotates 3D points before the orthographic projection onto the
// canvas. 2D points have Z = 0 and are unaffected by a zero rotation.
type Camera struct {
	Yaw, Pitch float64
	Zoom       float64
}

func NewCamera() *Camera {
	return &Camera{Zoom: 1}
}

func (c *Camera) Rotate(dYaw, dPitch float64) {
	c.Yaw += dYaw
	c.Pitch += dPitch
}

func (c *Camera) ZoomIn()  { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut() { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// Apply returns the screen-plane coordinates of p.
func (c *Camera) Apply(p dynamo.Point) (float64, float64) {
	cy, sy := math.Cos(c.Yaw), math.Sin(c.Yaw)
	x, z := p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cp, sp := math.Cos(c.Pitch), math.Sin(c.Pitch)
	y := p.Y*cp - z*sp
	return x, y
}

// spring follows a target value with critically damped motion.
type spring struct {
	s        harmonica.Spring
	pos, vel float64
	primed   bool
}

func (s *spring) step(target float64) float64 {
	if !s.primed {
		s.pos, s.vel, s.primed = target, 0, true
		return s.pos
	}
	s.pos, s.vel = s.s.Update(s.pos, s.vel, target)
	return s.pos
}

// Frame maps projected points onto canvas dots. Its centre and span
// follow the data bounds through springs.
type Frame struct {
	cx, cy, span spring
	// ScreenY keeps +Y pointing down.
	ScreenY bool
}

func NewFrame(fps int) *Frame {
	if fps < 1 {
		fps = 30
	}
	sp := harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0)
	return &Frame{cx: spring{s: sp}, cy: spring{s: sp}, span: spring{s: sp}}
}

// Fit moves the frame one step towards the bounds of the finite points.
// With no finite points the frame holds still.
func (f *Frame) Fit(xs, ys []float64) {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i := range xs {
		x, y := xs[i], ys[i]
		if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	if minX > maxX {
		return
	}
	span := math.Max(maxX-minX, maxY-minY) * 1.1
	if span <= 0 {
		span = 1
	}
	f.cx.step((minX + maxX) / 2)
	f.cy.step((minY + maxY) / 2)
	f.span.step(span)
}

// Map converts a screen-plane point to canvas dots for a dw x dh canvas.
func (f *Frame) Map(x, y, zoom float64, dw, dh int) (int, int, bool) {
	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, 0, false
	}
	span := f.span.pos
	if span <= 0 {
		span = 1
	}
	scale := float64(min(dw, dh)) / span * zoom
	dy := (y - f.cy.pos) * scale
	if !f.ScreenY {
		dy = -dy
	}
	sx := float64(dw)/2 + (x-f.cx.pos)*scale
	sy := float64(dh)/2 + dy
	// Keep far-off points representable as ints.
	const lim = 1 << 20
	if math.Abs(sx) > lim || math.Abs(sy) > lim {
		return 0, 0, false
	}
	return int(sx), int(sy), true
}
