package analysis

import (
	"strings"

	"github.com/san-kum/invpend/internal/control"
)

type Point struct{ X, Y float64 }

// PhasePortrait is the trajectory of two state components of a run.
type PhasePortrait struct {
	XIndex, YIndex int
	Points         []Point
}

// NewPhasePortrait pairs state components xIdx and yIdx of the recorded
// states. It returns nil if either index is out of range.
func NewPhasePortrait(states [][4]float64, xIdx, yIdx int) *PhasePortrait {
	if xIdx < 0 || xIdx >= 4 || yIdx < 0 || yIdx >= 4 {
		return nil
	}
	p := &PhasePortrait{XIndex: xIdx, YIndex: yIdx, Points: make([]Point, len(states))}
	for i, x := range states {
		p.Points[i] = Point{x[xIdx], x[yIdx]}
	}
	return p
}

// Bounds returns the bounding box of the points widened by 10% on each side.
// A degenerate extent is widened to 1 first.
func (p *PhasePortrait) Bounds() (minX, maxX, minY, maxY float64) {
	minX, maxX = p.Points[0].X, p.Points[0].X
	minY, maxY = p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points[1:] {
		minX, maxX = min(minX, pt.X), max(maxX, pt.X)
		minY, maxY = min(minY, pt.Y), max(maxY, pt.Y)
	}
	pad := func(lo, hi float64) (float64, float64) {
		r := hi - lo
		if r == 0 {
			r = 1
		}
		return lo - 0.1*r, hi + 0.1*r
	}
	minX, maxX = pad(minX, maxX)
	minY, maxY = pad(minY, maxY)
	return
}

type textGrid struct {
	cells      [][]rune
	minX, minY float64
	sx, sy     float64
}

func (g *textGrid) at(x, y float64) (row, col int, ok bool) {
	h, w := len(g.cells), len(g.cells[0])
	col = int((x - g.minX) * g.sx)
	row = h - 1 - int((y-g.minY)*g.sy)
	return row, col, row >= 0 && row < h && col >= 0 && col < w
}

func (g *textGrid) column(x float64, r rune) {
	_, col, ok := g.at(x, g.minY)
	if !ok {
		return
	}
	for row := range g.cells {
		g.cells[row][col] = r
	}
}

// ASCII renders the trajectory on a width x height grid. Axes pass through
// the origin when it is in view, 'o' marks the first sample and '@' the
// last. With the pendulum angle on the x axis, ':' columns mark the edges of
// the balance region.
func (p *PhasePortrait) ASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX, minY, maxY := p.Bounds()
	g := &textGrid{
		cells: make([][]rune, height),
		minX:  minX,
		minY:  minY,
		sx:    float64(width-1) / (maxX - minX),
		sy:    float64(height-1) / (maxY - minY),
	}
	for i := range g.cells {
		g.cells[i] = []rune(strings.Repeat(" ", width))
	}

	if minX <= 0 && maxX >= 0 {
		g.column(0, '│')
	}
	if minY <= 0 && maxY >= 0 {
		if row, _, ok := g.at(minX, 0); ok {
			for col, c := range g.cells[row] {
				if c == '│' {
					g.cells[row][col] = '┼'
				} else {
					g.cells[row][col] = '─'
				}
			}
		}
	}
	if p.XIndex == 2 {
		g.column(-control.BalanceAngle, ':')
		g.column(control.BalanceAngle, ':')
	}

	for _, pt := range p.Points {
		if row, col, ok := g.at(pt.X, pt.Y); ok {
			g.cells[row][col] = '•'
		}
	}
	first, last := p.Points[0], p.Points[len(p.Points)-1]
	if row, col, ok := g.at(last.X, last.Y); ok {
		g.cells[row][col] = '@'
	}
	if row, col, ok := g.at(first.X, first.Y); ok {
		g.cells[row][col] = 'o'
	}

	var sb strings.Builder
	for _, row := range g.cells {
		sb.WriteString(string(row))
		sb.WriteByte('\n')
	}
	return sb.String()
}
