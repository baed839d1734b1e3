package feature_test

import (
	"encoding/json"
	"errors"
	"slices"
	"testing"

	"github.com/eak1mov/go-tilecover/feature"
	"github.com/eak1mov/go-tilecover/tile"
	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/require"
)

func TestOutline(t *testing.T) {
	tests := []struct {
		tileID  tile.ID
		even    bool
		quadkey string
	}{
		{tile.ID{X: 0, Y: 0, Z: 0}, true, ""},
		{tile.ID{X: 1, Y: 0, Z: 1}, false, "1"},
		{tile.ID{X: 1, Y: 1, Z: 1}, true, "3"},
		{tile.ID{X: 3, Y: 5, Z: 3}, true, "213"},
	}
	for _, tt := range tests {
		f := feature.Outline(tt.tileID)
		require.Equal(t, tt.tileID.Polygon(), f.Geometry)
		require.Equal(t, tt.even, f.Properties.MustBool("even"), "even(%v)", tt.tileID)
		require.Equal(t, tt.quadkey, f.Properties.MustString("quadkey"), "quadkey(%v)", tt.tileID)
	}
}

func TestLabel(t *testing.T) {
	f := feature.Label(tile.ID{X: 1, Y: 0, Z: 1})
	require.Equal(t, orb.Point{90, tile.ID{X: 1, Y: 0, Z: 1}.Center().Lat()}, f.Geometry)
	require.Equal(t, "Tile (x,y,z): [1,0,1]\nQuadkey: 1\nZoom: 1", f.Properties.MustString("text"))
	require.Equal(t, "1", f.Properties.MustString("quadkey"))
	require.Equal(t, uint32(1), f.Properties["zoom"])
	require.Equal(t, tile.ID{X: 1, Y: 0, Z: 1}.Key().String(), f.ID)
}

func TestLabelArea(t *testing.T) {
	root := feature.Label(tile.ID{X: 0, Y: 0, Z: 0}).Properties.MustFloat64("area_m2")
	require.Greater(t, root, 0.0)

	sum := 0.0
	for child := range tile.Descendants(tile.ID{X: 0, Y: 0, Z: 0}, 2) {
		sum += feature.Label(child).Properties.MustFloat64("area_m2")
	}
	require.InEpsilon(t, root, sum, 1e-9)

	// mercator tiles shrink towards the poles
	polar := feature.Label(tile.ID{X: 0, Y: 0, Z: 4}).Properties.MustFloat64("area_m2")
	inner := feature.Label(tile.ID{X: 0, Y: 7, Z: 4}).Properties.MustFloat64("area_m2")
	require.Greater(t, inner, polar)
}

func TestCollections(t *testing.T) {
	tiles := []tile.ID{{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 5, Y: 2, Z: 4}}

	outlines := feature.Outlines(tiles)
	labels := feature.Labels(tiles)
	require.Len(t, outlines.Features, len(tiles))
	require.Len(t, labels.Features, len(tiles))

	for i, tileID := range tiles {
		require.Equal(t, tileID.Quadkey(), outlines.Features[i].Properties.MustString("quadkey"))
		require.Equal(t, tileID.Quadkey(), labels.Features[i].Properties.MustString("quadkey"))
		require.True(t, tileID.Bound().Contains(labels.Features[i].Geometry.(orb.Point)))
	}

	empty, err := json.Marshal(feature.Outlines(nil))
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"FeatureCollection","features":[]}`, string(empty))
}

func TestPayload(t *testing.T) {
	tileID := tile.ID{X: 6, Y: 9, Z: 4}
	data, err := feature.Payload(tileID)
	require.NoError(t, err)

	f, err := geojson.UnmarshalFeature(data)
	require.NoError(t, err)
	if diff := cmp.Diff(tileID.Polygon(), f.Geometry); diff != "" {
		t.Errorf("Payload geometry mismatch (-want+got):\n%v", diff)
	}
	require.True(t, f.Properties.MustBool("even"))
	require.Equal(t, tileID.Quadkey(), f.Properties.MustString("quadkey"))
}

type memoryWriter struct {
	tiles map[tile.ID][]byte
	fail  tile.ID
}

func (w *memoryWriter) WriteTile(tileID tile.ID, tileData []byte) error {
	if tileID == w.fail {
		return errors.New("disk full")
	}
	w.tiles[tileID] = tileData
	return nil
}

func (w *memoryWriter) Finalize() error { return nil }

func TestWrite(t *testing.T) {
	tiles := []tile.ID{{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 5, Y: 2, Z: 4}}
	w := &memoryWriter{tiles: make(map[tile.ID][]byte), fail: tile.ID{Z: 9}}
	require.NoError(t, feature.Write(w, slices.Values(tiles)))
	require.Len(t, w.tiles, len(tiles))
	for _, tileID := range tiles {
		want, err := feature.Payload(tileID)
		require.NoError(t, err)
		require.Equal(t, want, w.tiles[tileID])
	}

	w = &memoryWriter{tiles: make(map[tile.ID][]byte), fail: tiles[1]}
	err := feature.Write(w, slices.Values(tiles))
	require.ErrorContains(t, err, "disk full")
	require.Len(t, w.tiles, 1)
}
