package cover_test

import (
	"testing"

	"github.com/eak1mov/go-tilecover/cover"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalGeometry(t *testing.T) {
	for _, tc := range []struct {
		name string
		data string
		want orb.Geometry
	}{
		{
			name: "Point",
			data: `{"type":"Point","coordinates":[1,2]}`,
			want: orb.Point{1, 2},
		},
		{
			name: "LineString",
			data: `{"type":"LineString","coordinates":[[1,2],[3,4]]}`,
			want: orb.LineString{{1, 2}, {3, 4}},
		},
		{
			name: "Feature",
			data: `{"type":"Feature","properties":{},"geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}}`,
			want: orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := cover.UnmarshalGeometry([]byte(tc.data))
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestUnmarshalGeometryErrors(t *testing.T) {
	for _, data := range []string{
		`{"type":"Circle","coordinates":[1,2]}`,
		`{"type":"FeatureCollection","features":[]}`,
		`{"type":"Feature","properties":{},"geometry":null}`,
	} {
		_, err := cover.UnmarshalGeometry([]byte(data))
		require.ErrorIs(t, err, cover.ErrUnsupportedGeometry, "UnmarshalGeometry(%v)", data)
	}

	_, err := cover.UnmarshalGeometry([]byte(`{"type":`))
	require.Error(t, err)
	require.NotErrorIs(t, err, cover.ErrUnsupportedGeometry)

	collection, err := cover.UnmarshalGeometry([]byte(`{"type":"GeometryCollection","geometries":[{"type":"Point","coordinates":[1,2]}]}`))
	require.NoError(t, err)
	_, err = cover.Tiles(collection, cover.SingleZoom(2))
	require.ErrorIs(t, err, cover.ErrUnsupportedGeometry)
}
