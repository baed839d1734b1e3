package tile

import (
	"errors"
	"iter"
	"slices"
)

var errVisitStopped = errors.New("visit stopped")

// Descendants returns an iterator over all tiles covered by t at zoom z,
// in row-major order. It yields t itself when z == t.Z and nothing when z < t.Z.
func Descendants(t ID, z uint32) iter.Seq[ID] {
	return func(yield func(ID) bool) {
		if z < t.Z {
			return
		}
		shift := z - t.Z
		minX, minY := uint64(t.X)<<shift, uint64(t.Y)<<shift
		size := uint64(1) << shift
		for y := minY; y < minY+size; y++ {
			for x := minX; x < minX+size; x++ {
				if !yield(ID{X: uint32(x), Y: uint32(y), Z: z}) {
					return
				}
			}
		}
	}
}

// All returns an iterator over the tiles of v. A visit error is stored in *err
// and ends the iteration.
func All(v Visitor, err *error) iter.Seq2[ID, []byte] {
	return func(yield func(ID, []byte) bool) {
		visitErr := v.VisitTiles(func(tileID ID, tileData []byte) error {
			if !yield(tileID, tileData) {
				return errVisitStopped
			}
			return nil
		})
		if visitErr != nil && !errors.Is(visitErr, errVisitStopped) {
			*err = visitErr
		}
	}
}

// Stored returns the ids of all tiles of v in ascending key order.
func Stored(v Visitor) ([]ID, error) {
	var tiles []ID
	err := v.VisitTiles(func(tileID ID, _ []byte) error {
		tiles = append(tiles, tileID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	SortByKey(tiles)
	return tiles, nil
}

// SortByKey sorts valid tiles in ascending key order.
func SortByKey(tiles []ID) {
	slices.SortFunc(tiles, func(a, b ID) int {
		return a.Key().Compare(b.Key())
	})
}
