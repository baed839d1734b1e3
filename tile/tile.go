// Package tile provides the tile coordinate type, its packed key codec
// and the tile geometry helpers shared by the cover and the sinks.
package tile

import "fmt"

// MaxZoom is the deepest zoom a tile coordinate (and its key) can address.
const MaxZoom = 31

// ID represents tile coordinates in the XYZ scheme (Tiled web map).
type ID struct {
	X uint32
	Y uint32
	Z uint32
}

func (t ID) Valid() bool {
	return t.Z <= MaxZoom && t.X < (1<<t.Z) && t.Y < (1<<t.Z)
}

func (t ID) String() string {
	return fmt.Sprintf("%d/%d/%d", t.Z, t.X, t.Y)
}

// Parent returns the tile one zoom level up. The root tile is its own parent.
func (t ID) Parent() ID {
	if t.Z == 0 {
		return t
	}
	return ID{X: t.X >> 1, Y: t.Y >> 1, Z: t.Z - 1}
}

// Contains reports whether other is t itself or one of its descendants.
func (t ID) Contains(other ID) bool {
	if other.Z < t.Z {
		return false
	}
	shift := other.Z - t.Z
	return other.X>>shift == t.X && other.Y>>shift == t.Y
}

// Writer defines an interface for persisting tiles of a cover.
type Writer interface {
	// WriteTile writes a single tile with its payload.
	WriteTile(tileID ID, tileData []byte) error

	// Finalize completes the writing process: flushes buffers, writes header and indices.
	// It must be called before closing the Writer.
	Finalize() error
}

// Visitor is implemented by the sink readers.
type Visitor interface {
	// VisitTiles calls visitor for every stored tile and stops at the first error.
	// Order is implementation-defined.
	VisitTiles(visitor func(ID, []byte) error) error
}
