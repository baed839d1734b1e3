package format_test

import (
	"testing"

	"github.com/eak1mov/go-tilecover/pm/format"
	"github.com/eak1mov/go-tilecover/tile"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestTileCodeRoundTrip(t *testing.T) {
	for z := range uint32(10) {
		for tileID := range tile.Descendants(tile.ID{}, z) {
			if diff := cmp.Diff(tileID, format.TileFromCode(format.TileCode(tileID))); diff != "" {
				t.Errorf("TileFromCode(TileCode(%v)) mismatch (-want+got):\n%v", tileID, diff)
			}
		}
	}
	for z := range uint32(tile.MaxZoom + 1) {
		last := uint32(1<<z - 1)
		for _, tileID := range []tile.ID{{X: 0, Y: 0, Z: z}, {X: last, Y: last, Z: z}, {X: last, Y: 0, Z: z}} {
			if diff := cmp.Diff(tileID, format.TileFromCode(format.TileCode(tileID))); diff != "" {
				t.Errorf("TileFromCode(TileCode(%v)) mismatch (-want+got):\n%v", tileID, diff)
			}
		}
	}
}

func TestTileCode(t *testing.T) {
	tests := []struct {
		tileID tile.ID
		want   uint64
	}{
		{tile.ID{X: 0, Y: 0, Z: 0}, 0},
		{tile.ID{X: 0, Y: 0, Z: 1}, 1},
		{tile.ID{X: 0, Y: 1, Z: 1}, 2},
		{tile.ID{X: 1, Y: 1, Z: 1}, 3},
		{tile.ID{X: 1, Y: 0, Z: 1}, 4},
		{tile.ID{X: 0, Y: 0, Z: 2}, 5},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, format.TileCode(tt.tileID), "TileCode(%v)", tt.tileID)
	}
}
