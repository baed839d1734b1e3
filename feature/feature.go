// Package feature renders tiles as GeoJSON features: a filled outline per tile
// and a label point at its center.
package feature

import (
	"fmt"
	"iter"

	"github.com/eak1mov/go-tilecover/tile"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"
)

// Outline returns the tile outline polygon with the properties
// "even" (checkerboard parity of x+y) and "quadkey".
func Outline(t tile.ID) *geojson.Feature {
	f := geojson.NewFeature(t.Polygon())
	f.Properties["even"] = (t.X+t.Y)%2 == 0
	f.Properties["quadkey"] = t.Quadkey()
	return f
}

// Label returns a point at the center of the tile bounding box carrying
// a human readable description of the tile.
func Label(t tile.ID) *geojson.Feature {
	quadkey := t.Quadkey()
	f := geojson.NewFeature(t.Center())
	f.ID = t.Key().String()
	f.Properties["text"] = fmt.Sprintf("Tile (x,y,z): [%d,%d,%d]\nQuadkey: %s\nZoom: %d", t.X, t.Y, t.Z, quadkey, t.Z)
	f.Properties["quadkey"] = quadkey
	f.Properties["zoom"] = t.Z
	f.Properties["area_m2"] = geo.Area(t.Polygon())
	return f
}

func Outlines(tiles []tile.ID) *geojson.FeatureCollection {
	return collect(tiles, Outline)
}

func Labels(tiles []tile.ID) *geojson.FeatureCollection {
	return collect(tiles, Label)
}

func collect(tiles []tile.ID, render func(tile.ID) *geojson.Feature) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, t := range tiles {
		fc.Append(render(t))
	}
	return fc
}

// Payload returns the JSON encoded outline of the tile, as stored by the tile sinks.
func Payload(t tile.ID) ([]byte, error) {
	data, err := Outline(t).MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode tile %v: %w", t, err)
	}
	return data, nil
}

// Write stores the outline payload of every tile in w. It does not finalize w.
func Write(w tile.Writer, tiles iter.Seq[tile.ID]) error {
	for t := range tiles {
		data, err := Payload(t)
		if err != nil {
			return err
		}
		if err := w.WriteTile(t, data); err != nil {
			return fmt.Errorf("write tile %v: %w", t, err)
		}
	}
	return nil
}
