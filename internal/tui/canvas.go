// Package tui provides a live terminal view of a running simulation.
package tui

import "strings"

// Braille cells pack 2x4 dots per character, unicode offset 0x2800.
var dotBits = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille drawing surface. Coordinates are sub-pixels: the
// drawable area is (Width*2) x (Height*4).
type Canvas struct {
	Width, Height int
	cells         []rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, cells: make([]rune, w*h)}
	c.Clear()
	return c
}

func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = 0x2800
	}
}

func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.cells[row*c.Width+col] |= dotBits[y%4][x%2]
}

// Line draws with Bresenham stepping in sub-pixel space.
func (c *Canvas) Line(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy

	for {
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

// Blob draws a filled square of the given radius, for masses and bobs.
func (c *Canvas) Blob(x, y, r int) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			c.Set(x+dx, y+dy)
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for row := 0; row < c.Height; row++ {
		b.WriteString(string(c.cells[row*c.Width : (row+1)*c.Width]))
		b.WriteByte('\n')
	}
	return b.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
