// Package cover computes the tiles of a slippy-map grid that cover a geometry.
//
// Coverage is rasterized at the maximum zoom: lines with a grid traversal,
// polygons with the traversal of their rings followed by a scanline fill.
// Complete groups of four sibling tiles are then merged into their parent
// down to the minimum zoom, producing the minimal mixed-zoom cover.
//
// Geometry is expected in longitude/latitude degrees. Calls share no state
// and can run concurrently.
package cover

import (
	"fmt"
	"math"

	"github.com/eak1mov/go-tilecover/tile"
	"github.com/paulmach/orb"
)

// coverer owns the containers of a single Tiles call.
type coverer struct {
	config
	zoom uint32
	set  tileSet
	fill []tile.ID
}

// Tiles returns the tiles covering geometry within limits.
//
// Supported geometries are orb.Point, orb.MultiPoint, orb.LineString,
// orb.MultiLineString, orb.Polygon and orb.MultiPolygon; anything else fails
// with ErrUnsupportedGeometry. A Point always yields its single tile at
// limits.MaxZoom. With MinZoom == MaxZoom tiles are returned in ascending key
// order; otherwise they are the merged cover.
func Tiles(geometry orb.Geometry, limits Limits, opts ...Option) ([]tile.ID, error) {
	c := coverer{config: newConfig(opts), zoom: limits.MaxZoom, set: make(tileSet)}

	if err := c.validate(limits); err != nil {
		return nil, err
	}
	if err := checkGeometry(geometry); err != nil {
		return nil, err
	}

	c.logger.Debug("tilecover: rasterize", "type", geometry.GeoJSONType(), "zoom", c.zoom)

	switch g := geometry.(type) {
	case orb.Point:
		return []tile.ID{tile.At(g, c.zoom)}, nil
	case orb.MultiPoint:
		for _, p := range g {
			c.set.add(tile.At(p, c.zoom))
		}
	case orb.LineString:
		lineCover(c.set, g, c.zoom)
	case orb.MultiLineString:
		for _, line := range g {
			lineCover(c.set, line, c.zoom)
		}
	case orb.Polygon:
		if err := c.polygonCover(g); err != nil {
			return nil, err
		}
	case orb.MultiPolygon:
		for _, polygon := range g {
			if err := c.polygonCover(polygon); err != nil {
				return nil, err
			}
		}
	}

	for _, t := range c.fill {
		c.set.add(t)
	}
	tiles := c.set.tiles()

	c.logger.Debug("tilecover: rasterized", "tiles", len(tiles), "filled", len(c.fill))

	if limits.MinZoom == limits.MaxZoom {
		return tiles, nil
	}
	return mergeTiles(c.set, tiles, limits, c.logger), nil
}

// checkGeometry rejects unsupported geometry kinds and coordinates that are
// not finite or have a longitude outside [-180, 180].
func checkGeometry(geometry orb.Geometry) error {
	var points []orb.Point
	switch g := geometry.(type) {
	case orb.Point:
		points = []orb.Point{g}
	case orb.MultiPoint:
		points = g
	case orb.LineString:
		points = g
	case orb.MultiLineString:
		for _, line := range g {
			points = append(points, line...)
		}
	case orb.Polygon:
		for _, ring := range g {
			points = append(points, ring...)
		}
	case orb.MultiPolygon:
		for _, polygon := range g {
			for _, ring := range polygon {
				points = append(points, ring...)
			}
		}
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedGeometry, geometry)
	}

	for _, p := range points {
		lon, lat := p.Lon(), p.Lat()
		if math.IsNaN(lon) || math.IsNaN(lat) || math.IsInf(lat, 0) || lon < -180 || lon > 180 {
			return fmt.Errorf("%w: %v", ErrInvalidCoordinate, p)
		}
	}
	return nil
}
