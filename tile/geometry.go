package tile

import (
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

// At returns the tile containing the lon/lat point at zoom z.
// Latitudes beyond the web mercator limit snap to the first or last row;
// longitude 180 snaps to the last column.
func At(p orb.Point, z uint32) ID {
	return clamp(FromMapTile(maptile.At(p, maptile.Zoom(z))))
}

// Fraction returns the position of the lon/lat point in tile units at zoom z.
// Longitude 180 is moved just inside the last column, matching At.
func Fraction(p orb.Point, z uint32) orb.Point {
	f := maptile.Fraction(p, maptile.Zoom(z))
	if size := float64(uint64(1) << z); f[0] >= size {
		f[0] = math.Nextafter(size, 0)
	}
	return f
}

func clamp(t ID) ID {
	last := uint32(1<<t.Z - 1)
	t.X = min(t.X, last)
	t.Y = min(t.Y, last)
	return t
}

func FromMapTile(t maptile.Tile) ID {
	return ID{X: t.X, Y: t.Y, Z: uint32(t.Z)}
}

func (t ID) MapTile() maptile.Tile {
	return maptile.New(t.X, t.Y, maptile.Zoom(t.Z))
}

// Bound returns the lon/lat bounding box of the tile.
func (t ID) Bound() orb.Bound {
	return t.MapTile().Bound()
}

// Polygon returns the tile outline as a closed lon/lat polygon.
func (t ID) Polygon() orb.Polygon {
	return t.Bound().ToPolygon()
}

// Center returns the lon/lat center of the tile bounding box.
func (t ID) Center() orb.Point {
	return t.Bound().Center()
}

// Quadkey returns the quadkey string of the tile, one base-4 digit per zoom level.
// The root tile has an empty quadkey.
func (t ID) Quadkey() string {
	if t.Z == 0 {
		return ""
	}
	digits := strconv.FormatUint(t.MapTile().Quadkey(), 4)
	return strings.Repeat("0", int(t.Z)-len(digits)) + digits
}
