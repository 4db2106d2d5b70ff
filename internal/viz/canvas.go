package viz

import "strings"

// blank is the empty braille pattern; a set dot ORs its bit into it.
const blank = 0x2800

// Bit for the dot at column dx and row dy of a 2x4 braille cell.
var dots = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of braille cells addressed in dot coordinates, so a
// canvas of w x h cells holds 2w x 4h dots. Dots outside are ignored.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, Grid: make([][]rune, h)}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Dots returns the canvas size in dot coordinates.
func (c *Canvas) Dots() (int, int) { return c.Width * 2, c.Height * 4 }

func (c *Canvas) cell(x, y int) (*rune, rune, bool) {
	w, h := c.Dots()
	if x < 0 || y < 0 || x >= w || y >= h {
		return nil, 0, false
	}
	return &c.Grid[y/4][x/2], dots[y%4][x%2], true
}

func (c *Canvas) Set(x, y int) {
	if p, bit, ok := c.cell(x, y); ok {
		*p |= bit
	}
}

// Lit reports whether the dot at (x, y) is set.
func (c *Canvas) Lit(x, y int) bool {
	p, bit, ok := c.cell(x, y)
	return ok && *p&bit != 0
}

func (c *Canvas) Clear() {
	for _, row := range c.Grid {
		for j := range row {
			row[j] = blank
		}
	}
}

// DrawLine sets the dots nearest to the segment, one per step along its
// longer axis. Both end points are set.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := x1-x0, y1-y0
	n := max(abs(dx), abs(dy))
	if n == 0 {
		c.Set(x0, y0)
		return
	}
	for i := range n + 1 {
		c.Set(x0+divRound(i*dx, n), y0+divRound(i*dy, n))
	}
}

// FillRect sets every dot in the inclusive rectangle.
func (c *Canvas) FillRect(x0, y0, x1, y1 int) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			c.Set(x, y)
		}
	}
}

// Disc sets every dot within radius r of (cx, cy).
func (c *Canvas) Disc(cx, cy, r int) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				c.Set(cx+dx, cy+dy)
			}
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	b.Grow(c.Height * (c.Width*3 + 1))
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// divRound divides a by a positive n, rounding half away from zero.
func divRound(a, n int) int {
	if a < 0 {
		return -((-a*2 + n) / (2 * n))
	}
	return (a*2 + n) / (2 * n)
}
