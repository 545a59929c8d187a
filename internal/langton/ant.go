// Package langton implements Langton's ant on a square torus.
package langton

import (
	"github.com/san-kum/emergent/internal/dynamo"
	"github.com/san-kum/emergent/internal/params"
	"github.com/san-kum/emergent/internal/trail"
)

// Heading, clockwise from up. Y grows downward.
type Heading int

const (
	Up Heading = iota
	Right
	Down
	Left
)

var moves = [4][2]int{Up: {0, -1}, Right: {1, 0}, Down: {0, 1}, Left: {-1, 0}}

// PathLen is the number of recent ant positions kept for rendering.
const PathLen = 256

var Schema = params.Schema{
	{Name: "steps", Label: "Steps per tick", Range: params.Range{Min: 10, Max: 2000, Default: 250}, Step: 10},
	{Name: "size", Label: "Grid size", Range: params.Range{Min: 100, Max: 400, Default: 200}, Step: 10, Structural: true},
}

// Ant walks a grid of 0/1 cells.
type Ant struct {
	grid    *dynamo.Grid
	x, y    int
	heading Heading
	path    *trail.Buffer[dynamo.Point]
	steps   uint64
	tick    uint64
}

// NewAnt returns an ant at the centre of an empty size×size grid, facing up.
func NewAnt(size int) (*Ant, error) {
	g, err := dynamo.NewGrid(size, size)
	if err != nil {
		return nil, err
	}
	return &Ant{
		grid: g,
		x:    size / 2,
		y:    size / 2,
		path: trail.MustNew[dynamo.Point](PathLen),
	}, nil
}

// Kernel wraps an Ant for the controller.
type Kernel struct {
	*Ant
}

func NewKernel() *Kernel {
	k := &Kernel{}
	k.Reset(0, Schema.Defaults())
	return k
}

func (k *Kernel) Name() string          { return "langton" }
func (k *Kernel) Schema() params.Schema { return Schema }

func (k *Kernel) Reset(_ int64, v params.Values) {
	a, err := NewAnt(Schema.Clamp(v).Int("size"))
	if err != nil {
		panic(err)
	}
	k.Ant = a
}

func (k *Kernel) Step(v params.Values) {
	n := v.Int("steps")
	for i := 0; i < n; i++ {
		k.Advance()
	}
	k.tick++
}

// Advance performs one ant step: on a clear cell turn right, on a set cell
// turn left, flip the cell, move forward and wrap.
func (a *Ant) Advance() {
	if a.grid.At(a.x, a.y) == 0 {
		a.heading = (a.heading + 1) % 4
		a.grid.Set(a.x, a.y, 1)
	} else {
		a.heading = (a.heading + 3) % 4
		a.grid.Set(a.x, a.y, 0)
	}
	m := moves[a.heading]
	a.x = (a.x + m[0] + a.grid.W) % a.grid.W
	a.y = (a.y + m[1] + a.grid.H) % a.grid.H
	a.path.Push(dynamo.Point{X: float64(a.x), Y: float64(a.y)})
	a.steps++
}

// Position returns the ant's cell and heading.
func (a *Ant) Position() (x, y int, h Heading) { return a.x, a.y, a.heading }

// Steps is the number of ant moves since reset.
func (a *Ant) Steps() uint64 { return a.steps }

// Population is the number of set cells.
func (a *Ant) Population() int {
	n := 0
	for _, c := range a.grid.Cells() {
		if c != 0 {
			n++
		}
	}
	return n
}

func (k *Kernel) Snapshot() dynamo.Snapshot {
	return dynamo.Snapshot{
		Kernel: k.Name(),
		Tick:   k.tick,
		Trails: [][]dynamo.Point{k.path.Slice()},
		Heads:  []dynamo.Point{{X: float64(k.x), Y: float64(k.y)}},
		Fields: map[string]*dynamo.GridView{"cells": k.grid.View()},
	}
}
