// Package viewport turns a map view into the tiles displayed at its zoom.
package viewport

import (
	"fmt"
	"math"

	"github.com/eak1mov/go-tilecover/cover"
	"github.com/eak1mov/go-tilecover/tile"
	"github.com/paulmach/orb"
)

// MaxLongitude is the longitude a view edge is clamped to once the view wraps
// around the antimeridian.
const MaxLongitude = 179.99999

// Polygon returns the view bound as a closed clockwise ring starting at the
// south-west corner: SW, NW, NE, SE, SW.
// Longitudes beyond ±180 are clamped to ±MaxLongitude; latitudes are kept.
func Polygon(b orb.Bound) orb.Polygon {
	ring := orb.Ring{
		{b.Min.Lon(), b.Min.Lat()},
		{b.Min.Lon(), b.Max.Lat()},
		{b.Max.Lon(), b.Max.Lat()},
		{b.Max.Lon(), b.Min.Lat()},
		{b.Min.Lon(), b.Min.Lat()},
	}
	for i, p := range ring {
		ring[i] = clampLongitude(p)
	}
	return orb.Polygon{ring}
}

func clampLongitude(p orb.Point) orb.Point {
	switch {
	case p.Lon() < -180:
		return orb.Point{-MaxLongitude, p.Lat()}
	case p.Lon() > 180:
		return orb.Point{MaxLongitude, p.Lat()}
	}
	return p
}

// Zoom returns the integer tile zoom displayed at a fractional map zoom.
func Zoom(mapZoom float64) (uint32, error) {
	if math.IsNaN(mapZoom) || mapZoom < 0 || math.Ceil(mapZoom) > tile.MaxZoom {
		return 0, fmt.Errorf("%w: map zoom %v", cover.ErrInvalidZoomRange, mapZoom)
	}
	return uint32(math.Ceil(mapZoom)), nil
}

// Tiles returns the tiles covering the view at the tile zoom of mapZoom,
// in ascending key order.
func Tiles(b orb.Bound, mapZoom float64, opts ...cover.Option) ([]tile.ID, error) {
	z, err := Zoom(mapZoom)
	if err != nil {
		return nil, err
	}
	return cover.Tiles(Polygon(b), cover.SingleZoom(z), opts...)
}
