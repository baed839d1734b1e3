package cover

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// UnmarshalGeometry decodes a GeoJSON geometry, or the geometry of a GeoJSON
// feature. Unknown geometry types fail with ErrUnsupportedGeometry; a
// GeometryCollection decodes fine but is rejected later by Tiles.
func UnmarshalGeometry(data []byte) (orb.Geometry, error) {
	var object struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &object); err != nil {
		return nil, fmt.Errorf("tilecover: decode geojson: %w", err)
	}

	var geometry orb.Geometry
	switch object.Type {
	case "Feature":
		feature, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, geojsonError(err)
		}
		geometry = feature.Geometry
	case "FeatureCollection":
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedGeometry, object.Type)
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, geojsonError(err)
		}
		geometry = g.Geometry()
	}

	if geometry == nil {
		return nil, fmt.Errorf("%w: empty geometry", ErrUnsupportedGeometry)
	}
	return geometry, nil
}

func geojsonError(err error) error {
	if errors.Is(err, geojson.ErrInvalidGeometry) {
		return fmt.Errorf("%w: %w", ErrUnsupportedGeometry, err)
	}
	return fmt.Errorf("tilecover: decode geojson: %w", err)
}
