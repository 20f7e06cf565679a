package nav

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jakecoffman/cp"
)

const (
	defaultMaxNodes = 4096
	blockedRune     = '#'
)

var ErrEmptyGrid = errors.New("nav: empty grid")

// Grid is a walkable-cell mesh. Cell (0,0) covers world [0,CellSize) on both axes.
type Grid struct {
	Width    int
	Height   int
	CellSize float64
	MaxNodes int

	blocked []bool
}

// NewGrid returns a fully walkable grid.
func NewGrid(width, height int, cellSize float64) (*Grid, error) {
	if width <= 0 || height <= 0 || cellSize <= 0 {
		return nil, fmt.Errorf("nav: grid %dx%d cell %.2f: %w", width, height, cellSize, ErrEmptyGrid)
	}
	return &Grid{
		Width:    width,
		Height:   height,
		CellSize: cellSize,
		MaxNodes: defaultMaxNodes,
		blocked:  make([]bool, width*height),
	}, nil
}

// ParseGrid builds a grid from rows of '.' (walkable) and '#' (blocked).
// Row 0 is y=0. Short rows are padded as walkable.
func ParseGrid(rows []string, cellSize float64) (*Grid, error) {
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	g, err := NewGrid(width, len(rows), cellSize)
	if err != nil {
		return nil, err
	}
	for y, r := range rows {
		for x, ch := range strings.TrimRight(r, "\r") {
			if ch == blockedRune {
				g.SetBlocked(x, y, true)
			}
		}
	}
	return g, nil
}

func (g *Grid) inBounds(x, y int) bool {
	return g != nil && x >= 0 && y >= 0 && x < g.Width && y < g.Height
}

func (g *Grid) SetBlocked(x, y int, blocked bool) {
	if !g.inBounds(x, y) {
		return
	}
	g.blocked[y*g.Width+x] = blocked
}

// Blocked reports whether a cell is impassable. Out of bounds cells are blocked.
func (g *Grid) Blocked(x, y int) bool {
	if !g.inBounds(x, y) {
		return true
	}
	return g.blocked[y*g.Width+x]
}

// CellAt maps a world point to its cell.
func (g *Grid) CellAt(p cp.Vector) (Cell, bool) {
	if g == nil {
		return Cell{}, false
	}
	c := Cell{X: int(math.Floor(p.X / g.CellSize)), Y: int(math.Floor(p.Y / g.CellSize))}
	return c, g.inBounds(c.X, c.Y)
}

// Center returns the world position of a cell's centre.
func (g *Grid) Center(c Cell) cp.Vector {
	return cp.Vector{X: (float64(c.X) + 0.5) * g.CellSize, Y: (float64(c.Y) + 0.5) * g.CellSize}
}

// Walkable reports whether p lies in a walkable cell.
func (g *Grid) Walkable(p cp.Vector) bool {
	c, ok := g.CellAt(p)
	return ok && !g.Blocked(c.X, c.Y)
}

// Bounds returns the world-space bounding box of the grid.
func (g *Grid) Bounds() cp.BB {
	return cp.BB{L: 0, B: 0, R: float64(g.Width) * g.CellSize, T: float64(g.Height) * g.CellSize}
}

// SampleWalkable returns point itself when it is walkable, otherwise the
// centre of the nearest walkable cell within radius.
func (g *Grid) SampleWalkable(point cp.Vector, radius float64) (cp.Vector, bool) {
	if g == nil || radius < 0 {
		return cp.Vector{}, false
	}
	if g.Walkable(point) {
		return point, true
	}

	span := int(math.Ceil(radius/g.CellSize)) + 1
	cx := int(math.Floor(point.X / g.CellSize))
	cy := int(math.Floor(point.Y / g.CellSize))

	best := cp.Vector{}
	bestDist := math.MaxFloat64
	found := false
	for y := max(cy-span, 0); y <= min(cy+span, g.Height-1); y++ {
		for x := max(cx-span, 0); x <= min(cx+span, g.Width-1); x++ {
			if g.Blocked(x, y) {
				continue
			}
			c := g.Center(Cell{X: x, Y: y})
			d := c.Distance(point)
			if d <= radius && d < bestDist {
				best, bestDist, found = c, d, true
			}
		}
	}
	return best, found
}

// Path returns world waypoints from -> to, excluding the start cell. The last
// waypoint is to itself. nil means unreachable.
func (g *Grid) Path(from, to cp.Vector) []cp.Vector {
	start, ok := g.CellAt(from)
	if !ok {
		return nil
	}
	goal, ok := g.CellAt(to)
	if !ok {
		return nil
	}
	cells := AStar(start, goal, g.Width, g.Height, g.Blocked, g.MaxNodes)
	if len(cells) == 0 {
		return nil
	}
	out := make([]cp.Vector, 0, len(cells))
	for _, c := range cells[1:] {
		out = append(out, g.Center(c))
	}
	if len(out) == 0 {
		return []cp.Vector{to}
	}
	out[len(out)-1] = to
	return out
}
