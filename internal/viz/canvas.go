package viz

import (
	"strings"
)

// Braille patterns hold 2x4 dots per cell:
//
//	1 4
//	2 5
//	3 6
//	7 8
//
// starting at U+2800.
const brailleBase = 0x2800

var pixelMap = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a Braille dot matrix of Width x Height terminal cells, that is
// (2*Width) x (4*Height) addressable dots.
type Canvas struct {
	Width, Height int
	dots          []uint8
}

func NewCanvas(w, h int) *Canvas {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return &Canvas{Width: w, Height: h, dots: make([]uint8, w*h)}
}

// Dots returns the canvas size in dots.
func (c *Canvas) Dots() (int, int) { return c.Width * 2, c.Height * 4 }

func (c *Canvas) cell(x, y int) (int, uint8, bool) {
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return 0, 0, false
	}
	return row*c.Width + col, pixelMap[y%4][x%2], true
}

// Set lights the dot at (x, y). Out-of-range dots are ignored.
func (c *Canvas) Set(x, y int) {
	if i, bit, ok := c.cell(x, y); ok {
		c.dots[i] |= bit
	}
}

func (c *Canvas) Unset(x, y int) {
	if i, bit, ok := c.cell(x, y); ok {
		c.dots[i] &^= bit
	}
}

func (c *Canvas) IsSet(x, y int) bool {
	i, bit, ok := c.cell(x, y)
	return ok && c.dots[i]&bit != 0
}

func (c *Canvas) Clear() {
	clear(c.dots)
}

// Resize discards the contents when the size changes.
func (c *Canvas) Resize(w, h int) {
	if w == c.Width && h == c.Height {
		return
	}
	*c = *NewCanvas(w, h)
}

// DrawLine draws a line using Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	// Lines far off screen are clipped to a bounded walk.
	limit := 4 * (c.Width*2 + c.Height*4)
	for n := 0; n <= limit; n++ {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Rows returns one string per terminal row.
func (c *Canvas) Rows() []string {
	rows := make([]string, c.Height)
	line := make([]rune, c.Width)
	for r := range rows {
		for col := range line {
			line[col] = rune(brailleBase + int(c.dots[r*c.Width+col]))
		}
		rows[r] = string(line)
	}
	return rows
}

func (c *Canvas) String() string {
	return strings.Join(c.Rows(), "\n")
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
