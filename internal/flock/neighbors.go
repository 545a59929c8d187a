package flock

import (
	"math"

	"github.com/san-kum/emergent/internal/dynamo"
)

// NeighborFinder answers radius queries over the positions of one tick.
// Implementations must report every j != i with distance < r exactly once;
// order is irrelevant.
type NeighborFinder interface {
	Rebuild(pos []dynamo.Vec2)
	Within(i int, r float64, fn func(j int, d float64))
}

// BruteForce checks every pair. It is the reference finder.
type BruteForce struct {
	pos []dynamo.Vec2
}

func (b *BruteForce) Rebuild(pos []dynamo.Vec2) { b.pos = pos }

func (b *BruteForce) Within(i int, r float64, fn func(j int, d float64)) {
	p := b.pos[i]
	for j, q := range b.pos {
		if j == i {
			continue
		}
		if d := p.Dist(q); d < r {
			fn(j, d)
		}
	}
}

type cellKey struct{ x, y int }

// SpatialHash bins agents into square cells of side Cell. Queries with
// r <= Cell only visit the 3×3 block around the agent.
type SpatialHash struct {
	Cell  float64
	pos   []dynamo.Vec2
	cells map[cellKey][]int
}

func NewSpatialHash(cell float64) *SpatialHash {
	return &SpatialHash{Cell: cell, cells: make(map[cellKey][]int)}
}

func (h *SpatialHash) key(p dynamo.Vec2) cellKey {
	return cellKey{int(math.Floor(p.X / h.Cell)), int(math.Floor(p.Y / h.Cell))}
}

func (h *SpatialHash) Rebuild(pos []dynamo.Vec2) {
	h.pos = pos
	for k, v := range h.cells {
		h.cells[k] = v[:0]
	}
	for i, p := range pos {
		k := h.key(p)
		h.cells[k] = append(h.cells[k], i)
	}
}

func (h *SpatialHash) Within(i int, r float64, fn func(j int, d float64)) {
	p := h.pos[i]
	reach := int(math.Ceil(r / h.Cell))
	c := h.key(p)
	for dy := -reach; dy <= reach; dy++ {
		for dx := -reach; dx <= reach; dx++ {
			for _, j := range h.cells[cellKey{c.x + dx, c.y + dy}] {
				if j == i {
					continue
				}
				if d := p.Dist(h.pos[j]); d < r {
					fn(j, d)
				}
			}
		}
	}
}
