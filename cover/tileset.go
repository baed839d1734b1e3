package cover

import (
	"cmp"
	"slices"

	"github.com/eak1mov/go-tilecover/tile"
)

// cell is an integer grid position at the zoom being rasterized.
// It may lie just outside the grid when a traversal ends on the world edge.
type cell struct {
	x int64
	y int64
}

func (c cell) inGrid(zoom uint32) bool {
	size := int64(1) << zoom
	return c.x >= 0 && c.x < size && c.y >= 0 && c.y < size
}

func (c cell) tile(zoom uint32) tile.ID {
	return tile.ID{X: uint32(c.x), Y: uint32(c.y), Z: zoom}
}

// compareCells orders cells by row, then column.
func compareCells(a, b cell) int {
	if c := cmp.Compare(a.y, b.y); c != 0 {
		return c
	}
	return cmp.Compare(a.x, b.x)
}

// tileSet maps tile keys to a presence flag. During merge a present tile
// can be retracted by setting its flag to false.
type tileSet map[tile.Key]bool

func (s tileSet) add(t tile.ID) {
	s[t.Key()] = true
}

func (s tileSet) has(t tile.ID) bool {
	return s[t.Key()]
}

func (s tileSet) retract(t tile.ID) {
	s[t.Key()] = false
}

func (s tileSet) addCell(c cell, zoom uint32) {
	if c.inGrid(zoom) {
		s.add(c.tile(zoom))
	}
}

// tiles returns the present tiles in ascending key order.
func (s tileSet) tiles() []tile.ID {
	keys := make([]tile.Key, 0, len(s))
	for key, present := range s {
		if present {
			keys = append(keys, key)
		}
	}
	slices.SortFunc(keys, tile.Key.Compare)

	tiles := make([]tile.ID, len(keys))
	for i, key := range keys {
		tiles[i] = tile.DecodeKey(key)
	}
	return tiles
}
