// Package internal holds helpers shared by the tests.
package internal

import (
	"math"

	"github.com/eak1mov/go-tilecover/tile"
	"github.com/paulmach/orb"
)

// TilePoint returns the lon/lat point at fractional tile position (fx, fy) at zoom z.
func TilePoint(fx, fy float64, z uint32) orb.Point {
	size := float64(uint64(1) << z)
	lon := fx/size*360 - 180
	lat := math.Atan(math.Sinh(math.Pi*(1-2*fy/size))) * 180 / math.Pi
	return orb.Point{lon, lat}
}

// TileRing returns a closed ring through the given fractional tile positions at zoom z.
func TileRing(z uint32, positions ...[2]float64) orb.Ring {
	ring := make(orb.Ring, 0, len(positions)+1)
	for _, p := range positions {
		ring = append(ring, TilePoint(p[0], p[1], z))
	}
	return append(ring, ring[0])
}

// Leaves expands tiles to their descendants at zoom z.
// The returned count is the number of leaves produced, including repeats.
func Leaves(tiles []tile.ID, z uint32) (map[tile.ID]bool, int) {
	leaves := make(map[tile.ID]bool)
	count := 0
	for _, t := range tiles {
		for leaf := range tile.Descendants(t, z) {
			leaves[leaf] = true
			count++
		}
	}
	return leaves, count
}

// Overlapping returns the first pair of tiles where one contains the other.
func Overlapping(tiles []tile.ID) (tile.ID, tile.ID, bool) {
	seen := make(map[tile.ID]bool, len(tiles))
	for _, t := range tiles {
		if seen[t] {
			return t, t, true
		}
		seen[t] = true
	}
	for _, t := range tiles {
		for ancestor := t; ancestor.Z > 0; {
			ancestor = ancestor.Parent()
			if seen[ancestor] {
				return ancestor, t, true
			}
		}
	}
	return tile.ID{}, tile.ID{}, false
}
