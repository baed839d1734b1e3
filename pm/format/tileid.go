package format

import (
	"math/bits"

	"github.com/eak1mov/go-tilecover/tile"
	"github.com/google/hilbert"
)

// TileCode returns the archive tile code: the number of tiles on all
// shallower zooms plus the hilbert index of the tile on its own zoom.
func TileCode(tileID tile.ID) uint64 {
	h, _ := hilbert.NewHilbert(1 << tileID.Z)
	index, _ := h.MapInverse(int(tileID.X), int(tileID.Y))
	return uint64(index) + tilesAbove(tileID.Z)
}

// TileFromCode is the inverse of TileCode.
func TileFromCode(code uint64) tile.ID {
	z := uint32(bits.Len64(3*code+1)-1) / 2
	h, _ := hilbert.NewHilbert(1 << z)
	x, y, _ := h.Map(int(code - tilesAbove(z)))
	return tile.ID{X: uint32(x), Y: uint32(y), Z: z}
}

func tilesAbove(z uint32) uint64 {
	return (1<<(2*z) - 1) / 3
}
