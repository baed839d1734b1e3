package cover

import (
	"fmt"
	"slices"

	"github.com/paulmach/orb"
)

// polygonCover marks the boundary cells of every ring of polygon and
// appends the interior cells found by the scanline fill to c.fill.
func (c *coverer) polygonCover(polygon orb.Polygon) error {
	var intersections []cell

	for _, ring := range polygon {
		trace := ringCover(c.set, ring, c.zoom)

		n := len(trace)
		for j := range n {
			k, m := (j+n-1)%n, (j+1)%n
			y := trace[j].y

			// neither a local extremum nor a repeat of the next row
			if (y > trace[k].y || y > trace[m].y) &&
				(y < trace[k].y || y < trace[m].y) &&
				y != trace[m].y {
				intersections = append(intersections, trace[j])
			}
		}
	}

	if len(intersections)%2 != 0 {
		if c.strictRings {
			return fmt.Errorf("%w: %d scanline intersections", ErrMalformedRing, len(intersections))
		}
		c.logger.Warn("tilecover: odd number of scanline intersections, last one ignored",
			"count", len(intersections), "zoom", c.zoom)
	}

	slices.SortFunc(intersections, compareCells)

	for i := 0; i+1 < len(intersections); i += 2 {
		c.fillRow(intersections[i], intersections[i+1])
	}
	return nil
}

// fillRow appends the cells strictly between from and to on the row of from
// that are not already covered.
func (c *coverer) fillRow(from, to cell) {
	size := int64(1) << c.zoom
	if from.y < 0 || from.y >= size {
		return
	}
	for x := max(from.x+1, 0); x < min(to.x, size); x++ {
		t := cell{x: x, y: from.y}.tile(c.zoom)
		if !c.set.has(t) {
			c.fill = append(c.fill, t)
		}
	}
}
