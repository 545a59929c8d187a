package viz

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/emergent/internal/dynamo"
)

const (
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// FrameRenderer is a Renderer that redraws the scene on a plain terminal,
// at most FPS times per second. It is used to watch headless runs.
type FrameRenderer struct {
	out       io.Writer
	scene     *Scene
	shader    *Shader
	frameRate int
	lastFrame time.Time
	now       func() time.Time
}

func NewFrameRenderer(out io.Writer, cols, rows int, opts Options) *FrameRenderer {
	if opts.FPS < 1 {
		opts.FPS = 30
	}
	return &FrameRenderer{
		out:       out,
		scene:     NewScene(cols, rows, opts),
		shader:    NewShader(GetTheme(opts.Theme).Gradient()),
		frameRate: opts.FPS,
		now:       time.Now,
	}
}

func (r *FrameRenderer) OnTick(s dynamo.Snapshot) {
	now := r.now()
	if now.Sub(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = now

	var b strings.Builder
	b.WriteString(clearScreen)
	fmt.Fprintf(&b, "  %s  tick %d\n", s.Kernel, s.Tick)
	b.WriteString("  " + strings.Repeat("-", r.scene.Canvas.Width) + "\n")
	if names := FieldNames(s); len(names) > 0 {
		b.WriteString(r.shader.Render(s.Fields[names[0]], r.scene.Canvas.Width, r.scene.Canvas.Height))
		b.WriteString("\n")
	} else {
		r.scene.Draw(s)
		for _, row := range r.scene.Canvas.Rows() {
			b.WriteString("  " + row + "\n")
		}
	}
	b.WriteString("  " + strings.Repeat("-", r.scene.Canvas.Width) + "\n")

	if heads := dynamo.FinitePoints(s.Heads); len(heads) > 0 {
		p := heads[0]
		fmt.Fprintf(&b, "  x=%.3f y=%.3f z=%.3f  (%d of %d finite)\n", p.X, p.Y, p.Z, len(heads), len(s.Heads))
	}
	io.WriteString(r.out, b.String())
}

func (r *FrameRenderer) Start() { io.WriteString(r.out, hideCursor) }
func (r *FrameRenderer) Stop()  { io.WriteString(r.out, showCursor) }
