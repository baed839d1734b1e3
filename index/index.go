// Package index stores a cover as a flat binary index plus a data file.
// Each index record maps tile coordinates to the location of the payload
// in the data file; the layout is trivial to read from other languages.
package index

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/eak1mov/go-tilecover/tile"
)

// Item is a single little-endian index record.
type Item struct {
	X      uint32
	Y      uint32
	Z      uint32
	Length uint32
	Offset uint64
}

// ItemSize is the encoded size of an Item in bytes.
var ItemSize = binary.Size(Item{})

func (i Item) TileID() tile.ID {
	return tile.ID{X: i.X, Y: i.Y, Z: i.Z}
}

func WriteAll(items []Item, writer io.Writer) error {
	return binary.Write(writer, binary.LittleEndian, items)
}

func ReadAll(indexData []byte) ([]Item, error) {
	if len(indexData)%ItemSize != 0 {
		return nil, fmt.Errorf("tilecover: index size %d is not a multiple of %d", len(indexData), ItemSize)
	}
	items := make([]Item, len(indexData)/ItemSize)
	if err := binary.Read(bytes.NewReader(indexData), binary.LittleEndian, items); err != nil {
		return nil, err
	}
	return items, nil
}
