package cover

import (
	"math"

	"github.com/eak1mov/go-tilecover/tile"
	"github.com/paulmach/orb"
)

// traversal walks a chain of segments through the tile grid
// (Amanatides & Woo) and marks every entered cell in set.
// The previous cell is tracked across the whole chain, not per segment.
type traversal struct {
	set     tileSet
	zoom    uint32
	trace   bool
	ring    []cell
	prev    cell
	started bool
}

// lineCover marks the cells crossed by line at zoom.
func lineCover(set tileSet, line []orb.Point, zoom uint32) {
	t := traversal{set: set, zoom: zoom}
	t.walk(line)
}

// ringCover marks the cells crossed by ring at zoom and returns its row trace:
// the visited cells with horizontal repeats removed. When the trace ends on the
// row it started on, the last entry is dropped so the seam is not counted twice.
func ringCover(set tileSet, ring []orb.Point, zoom uint32) []cell {
	t := traversal{set: set, zoom: zoom, trace: true}
	t.walk(ring)
	if n := len(t.ring); n > 1 && t.prev.y == t.ring[0].y {
		t.ring = t.ring[:n-1]
	}
	return t.ring
}

func (t *traversal) visit(c cell) {
	t.set.addCell(c, t.zoom)
	if t.trace && (!t.started || c.y != t.prev.y) {
		t.ring = append(t.ring, c)
	}
	t.prev = c
	t.started = true
}

func (t *traversal) walk(line []orb.Point) {
	for i := 0; i+1 < len(line); i++ {
		start := tile.Fraction(line[i], t.zoom)
		stop := tile.Fraction(line[i+1], t.zoom)

		x0, y0 := start[0], start[1]
		dx, dy := stop[0]-x0, stop[1]-y0
		if dx == 0 && dy == 0 {
			continue
		}

		sx, sy := direction(dx), direction(dy)
		c := cell{x: int64(math.Floor(x0)), y: int64(math.Floor(y0))}
		tMaxX, tdx := crossing(x0, dx, c.x)
		tMaxY, tdy := crossing(y0, dy, c.y)

		if !t.started || c != t.prev {
			t.visit(c)
		}

		// ties step along y
		for tMaxX < 1 || tMaxY < 1 {
			if tMaxX < tMaxY {
				tMaxX += tdx
				c.x += sx
			} else {
				tMaxY += tdy
				c.y += sy
			}
			t.visit(c)
		}
	}
}

func direction(d float64) int64 {
	if d > 0 {
		return 1
	}
	return -1
}

// crossing returns the parametric distance from v0 to the first grid line
// crossed along one axis, and the distance between consecutive grid lines.
func crossing(v0, d float64, c int64) (tMax, tDelta float64) {
	if d == 0 {
		return math.Inf(1), math.Inf(1)
	}
	edge := float64(c)
	if d > 0 {
		edge++
	}
	return math.Abs((edge - v0) / d), math.Abs(1 / d)
}
