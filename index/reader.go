package index

import (
	"fmt"
	"os"

	"github.com/eak1mov/go-tilecover/tile"
)

// Reader implements tile.Visitor over an index and its data file.
type Reader struct {
	items    []Item
	dataFile *os.File
}

func NewReader(indexPath, dataPath string) (*Reader, error) {
	indexData, err := os.ReadFile(indexPath)
	if err != nil {
		return nil, err
	}
	items, err := ReadAll(indexData)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if !item.TileID().Valid() {
			return nil, fmt.Errorf("tilecover: invalid tile %v in index", item.TileID())
		}
	}
	dataFile, err := os.Open(dataPath)
	if err != nil {
		return nil, err
	}
	return &Reader{items: items, dataFile: dataFile}, nil
}

func (r *Reader) Close() error {
	return r.dataFile.Close()
}

// Items returns the index records in stored order.
func (r *Reader) Items() []Item {
	return r.items
}

// VisitTiles visits tiles in index order.
func (r *Reader) VisitTiles(visitor func(tile.ID, []byte) error) error {
	for _, item := range r.items {
		tileData := make([]byte, item.Length)
		if _, err := r.dataFile.ReadAt(tileData, int64(item.Offset)); err != nil {
			return fmt.Errorf("read tile %v: %w", item.TileID(), err)
		}
		if err := visitor(item.TileID(), tileData); err != nil {
			return err
		}
	}
	return nil
}
