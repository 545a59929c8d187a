package viz

import (
	"bytes"
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/emergent/internal/dynamo"
	"github.com/san-kum/emergent/internal/experiment"
	"github.com/san-kum/emergent/internal/fractal"
	"github.com/san-kum/emergent/internal/params"
	"github.com/san-kum/emergent/internal/sim"
)

func TestCanvasSetUnset(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(4, 0)

	if got := c.String(); got != "⠁⢀" {
		t.Errorf("canvas = %q", got)
	}
	if !c.IsSet(3, 3) || c.IsSet(1, 1) {
		t.Error("IsSet mismatch")
	}
	c.Unset(0, 0)
	if c.IsSet(0, 0) {
		t.Error("Unset left dot")
	}
	c.Clear()
	if got := c.String(); got != "⠀⠀" {
		t.Errorf("cleared canvas = %q", got)
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(4, 2)
	c.DrawLine(0, 0, 7, 7)
	for i := 0; i < 8; i++ {
		if !c.IsSet(i, i) {
			t.Errorf("diagonal dot (%d,%d) not set", i, i)
		}
	}
	if len(c.Rows()) != 2 || utf8.RuneCountInString(c.Rows()[0]) != 4 {
		t.Errorf("rows = %q", c.Rows())
	}
}

func TestCanvasResize(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Set(0, 0)
	c.Resize(3, 1)
	if w, h := c.Dots(); w != 6 || h != 4 {
		t.Errorf("dots = %dx%d", w, h)
	}
	if c.IsSet(0, 0) {
		t.Error("resize kept contents")
	}
}

func TestCameraIdentity(t *testing.T) {
	x, y := NewCamera().Apply(dynamo.Point{X: 1, Y: 2, Z: 3})
	if x != 1 || y != 2 {
		t.Errorf("Apply = %v, %v", x, y)
	}
}

func TestFrameCentresData(t *testing.T) {
	f := NewFrame(30)
	f.Fit([]float64{-1, 1, math.NaN()}, []float64{-1, 1, 0})

	x, y, ok := f.Map(0, 0, 1, 100, 100)
	if !ok || x != 50 || y != 50 {
		t.Errorf("centre maps to %d,%d", x, y)
	}
	_, top, _ := f.Map(0, 1, 1, 100, 100)
	if top >= 50 {
		t.Errorf("+Y maps below centre: %d", top)
	}
	f.ScreenY = true
	_, down, _ := f.Map(0, 1, 1, 100, 100)
	if down <= 50 {
		t.Errorf("screen +Y maps above centre: %d", down)
	}
	if _, _, ok := f.Map(math.Inf(1), 0, 1, 100, 100); ok {
		t.Error("infinite point mapped")
	}
}

func TestSceneSkipsNonFinite(t *testing.T) {
	s := NewScene(20, 10, Options{})
	s.Draw(dynamo.Snapshot{
		Trails: [][]dynamo.Point{{{X: 0}, {X: math.NaN()}, {X: 1, Y: 1}, {X: 2}}},
		Heads:  []dynamo.Point{{X: math.Inf(1)}},
	})
	if strings.Trim(s.Canvas.String(), "⠀\n") == "" {
		t.Error("nothing drawn")
	}
}

func TestShaderRender(t *testing.T) {
	sh := NewShader(ThemeDark.Gradient())
	g := &dynamo.GridView{W: 4, H: 4, Cells: make([]float64, 16)}
	g.Cells[5] = math.NaN()
	out := sh.Render(g, 3, 2)
	if n := strings.Count(out, "▀"); n != 6 {
		t.Errorf("cells rendered = %d, want 6", n)
	}
	if sh.Render(nil, 3, 2) != "" {
		t.Error("nil grid rendered")
	}
}

func TestFieldNames(t *testing.T) {
	snap := dynamo.Snapshot{Fields: map[string]*dynamo.GridView{"A": {}, "B": {}, "cells": {}}}
	got := FieldNames(snap)
	if strings.Join(got, ",") != "B,A,cells" {
		t.Errorf("FieldNames = %v", got)
	}
}

func TestSparkline(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		width  int
		want   string
	}{
		{"rising", []float64{0, 1}, 5, "▁█"},
		{"flat", []float64{2, 2, 2}, 3, "▁▁▁"},
		{"truncated", []float64{5, 0, 1}, 2, "▁█"},
		{"gap", []float64{0, math.NaN(), 1}, 3, "▁ █"},
		{"empty width", []float64{1}, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sparkline(tt.values, tt.width); got != tt.want {
				t.Errorf("Sparkline = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBar(t *testing.T) {
	if got := Bar(5, 0, 10, 4); got != "[==--]" {
		t.Errorf("Bar = %q", got)
	}
	if got := Bar(20, 0, 10, 4); got != "[====]" {
		t.Errorf("Bar clamp = %q", got)
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("nope").Name != "dark" {
		t.Error("unknown theme did not fall back")
	}
	seen := map[string]bool{}
	th := ThemeDark
	for range Themes {
		seen[th.Name] = true
		th = NextTheme(th)
	}
	if len(seen) != len(Themes) || th.Name != ThemeDark.Name {
		t.Errorf("NextTheme cycle visited %v", seen)
	}
}

func TestFrameRendererThrottles(t *testing.T) {
	var buf bytes.Buffer
	r := NewFrameRenderer(&buf, 20, 5, Options{FPS: 10})
	clock := time.Unix(100, 0)
	r.now = func() time.Time { return clock }

	snap := dynamo.Snapshot{Kernel: "lorenz", Tick: 1, Trails: [][]dynamo.Point{{{X: 0}, {X: 1}}}, Heads: []dynamo.Point{{X: 1}}}
	r.OnTick(snap)
	r.OnTick(snap)
	clock = clock.Add(200 * time.Millisecond)
	r.OnTick(snap)

	if n := strings.Count(buf.String(), clearScreen); n != 2 {
		t.Errorf("frames = %d, want 2", n)
	}
	if !strings.Contains(buf.String(), "lorenz  tick 1") {
		t.Errorf("missing header in %q", buf.String())
	}
}

func newTreeModel(t *testing.T) (Model, *params.Static) {
	t.Helper()
	src := params.NewStatic(nil)
	ctrl := sim.New(fractal.NewTree(), src, sim.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	return NewModel("fractal-tree", ctrl, src, 1, Options{FPS: 30}), src
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelTicksAndPauses(t *testing.T) {
	m, _ := newTreeModel(t)
	next, cmd := m.Update(TickMsg(time.Now()))
	m = next.(Model)
	if cmd == nil || m.snap.Tick != 1 {
		t.Fatalf("tick = %d, cmd = %v", m.snap.Tick, cmd)
	}

	next, _ = m.Update(key(" "))
	m = next.(Model)
	next, _ = m.Update(TickMsg(time.Now()))
	m = next.(Model)
	if !m.snap.Paused || m.snap.Tick != 1 {
		t.Errorf("paused tick = %d, paused = %v", m.snap.Tick, m.snap.Paused)
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("view does not show pause")
	}
}

func TestModelTunesSelectedKnob(t *testing.T) {
	m, src := newTreeModel(t)
	next, _ := m.Update(key("tab"))
	m = next.(Model)
	next, _ = m.Update(key("up"))
	m = next.(Model)

	if v, ok := src.Value("angle"); !ok || v != 26 {
		t.Errorf("angle = %v, %v; want 26", v, ok)
	}
	next, _ = m.Update(TickMsg(time.Now()))
	m = next.(Model)
	if got := m.ctrl.Params().Get("angle"); got != 26 {
		t.Errorf("controller angle = %v", got)
	}
}

func TestModelRestartAdvancesSeed(t *testing.T) {
	m, _ := newTreeModel(t)
	next, _ := m.Update(TickMsg(time.Now()))
	m = next.(Model)
	next, _ = m.Update(key("r"))
	m = next.(Model)
	if m.seed != 2 {
		t.Errorf("seed = %d", m.seed)
	}
	if m.ctrl.Kernel().Snapshot().Tick != 0 {
		t.Error("restart did not reset the kernel")
	}
}

func TestModelPhasePortrait(t *testing.T) {
	k, err := experiment.NewRegistry().Build("double-pendulum", "")
	if err != nil {
		t.Fatal(err)
	}
	src := params.NewStatic(nil)
	ctrl := sim.New(k, src, sim.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	m := NewModel("double-pendulum", ctrl, src, 1, Options{FPS: 30, ScreenY: true, Phase: true})

	for i := 0; i < 5; i++ {
		next, _ := m.Update(TickMsg(time.Now()))
		m = next.(Model)
	}
	trails := m.portrait.Trails()
	if len(trails) != 10 {
		t.Fatalf("portrait has %d trails, want one per pendulum", len(trails))
	}
	if len(trails[0]) != 5 {
		t.Errorf("trail has %d points, want 5", len(trails[0]))
	}
	if view := m.View(); !strings.Contains(view, "θ1 vs θ2") {
		t.Error("view is missing the phase portrait")
	}

	next, _ := m.Update(key("r"))
	m = next.(Model)
	if len(m.portrait.Trails()) != 0 {
		t.Error("restart kept the portrait")
	}

	tree, _ := newTreeModel(t)
	if tree.portrait != nil || strings.Contains(tree.View(), "θ1 vs θ2") {
		t.Error("non-pendulum demo has a phase portrait")
	}
}

func TestPickerOpensDemo(t *testing.T) {
	launched := ""
	p := NewPicker([]Entry{{Name: "a"}, {Name: "fractal-tree"}}, func(name string) (Model, error) {
		launched = name
		m, _ := newTreeModel(t)
		return m, nil
	})
	next, _ := p.Update(key("j"))
	p = next.(Picker)
	next, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	p = next.(Picker)
	if launched != "fractal-tree" || p.state != stateSim || cmd == nil {
		t.Fatalf("launched %q state %d", launched, p.state)
	}
	next, _ = p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	p = next.(Picker)
	if p.state != stateMenu || !strings.Contains(p.View(), "EMERGENT") {
		t.Error("esc did not return to menu")
	}
}
