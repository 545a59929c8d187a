// Package export writes recorded trajectories as SVG.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/mazznoer/colorgrad"

	"github.com/san-kum/emergent/internal/dynamo"
)

const background = "#0a0a0a"

type bounds struct {
	minX, maxX, minY, maxY float64
}

func fit(series [][]dynamo.Point) (bounds, bool) {
	b := bounds{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
	for _, pts := range series {
		for _, p := range pts {
			if !p.Finite() {
				continue
			}
			b.minX, b.maxX = math.Min(b.minX, p.X), math.Max(b.maxX, p.X)
			b.minY, b.maxY = math.Min(b.minY, p.Y), math.Max(b.maxY, p.Y)
		}
	}
	if b.minX > b.maxX {
		return b, false
	}

	rangeX, rangeY := b.maxX-b.minX, b.maxY-b.minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	b.minX -= rangeX * 0.1
	b.maxX += rangeX * 0.1
	b.minY -= rangeY * 0.1
	b.maxY += rangeY * 0.1
	return b, true
}

// path returns the d attribute for pts. Every non-finite point ends the
// current subpath; the next finite point starts a new one.
func path(pts []dynamo.Point, b bounds, width, height int) string {
	var sb strings.Builder
	pen := false
	for _, p := range pts {
		if !p.Finite() {
			pen = false
			continue
		}
		x := (p.X - b.minX) / (b.maxX - b.minX) * float64(width)
		y := float64(height) - (p.Y-b.minY)/(b.maxY-b.minY)*float64(height)
		if pen {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		} else {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			pen = true
		}
	}
	return sb.String()
}

func header(sb *strings.Builder, width, height int) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

// TrajectorySVG draws the XY projection of points as one stroked path.
// It returns "" when fewer than two points are finite.
func TrajectorySVG(points []dynamo.Point, width, height int, stroke string) string {
	if len(dynamo.FinitePoints(points)) < 2 {
		return ""
	}
	b, _ := fit([][]dynamo.Point{points})

	var sb strings.Builder
	header(&sb, width, height)
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="%s"/>
</svg>`, stroke, path(points, b, width, height))
	return sb.String()
}

// SeriesSVG draws every series in a shared frame, colouring series i at
// position i/(n-1) along grad.
func SeriesSVG(series [][]dynamo.Point, width, height int, grad colorgrad.Gradient) string {
	b, ok := fit(series)
	if !ok {
		return ""
	}

	var sb strings.Builder
	header(&sb, width, height)
	for i, pts := range series {
		d := path(pts, b, width, height)
		if d == "" {
			continue
		}
		t := 0.0
		if len(series) > 1 {
			t = float64(i) / float64(len(series)-1)
		}
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1" stroke-opacity="0.85" d="%s"/>
`, grad.At(t).Hex(), d)
	}
	sb.WriteString("</svg>")
	return sb.String()
}
