package index

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/eak1mov/go-tilecover/tile"
)

// Writer implements tile.Writer. Payloads are appended to the data file in
// write order; the index, sorted by tile key, is written on Finalize.
type Writer struct {
	indexPath  string
	dataFile   *os.File
	dataWriter *bufio.Writer
	offset     uint64
	items      []Item
}

func NewWriter(indexPath, dataPath string) (*Writer, error) {
	dataFile, err := os.Create(dataPath)
	if err != nil {
		return nil, err
	}
	return &Writer{
		indexPath:  indexPath,
		dataFile:   dataFile,
		dataWriter: bufio.NewWriter(dataFile),
	}, nil
}

func (w *Writer) WriteTile(tileID tile.ID, tileData []byte) error {
	if !tileID.Valid() {
		return fmt.Errorf("tilecover: invalid tile %v", tileID)
	}
	if _, err := w.dataWriter.Write(tileData); err != nil {
		return err
	}
	w.items = append(w.items, Item{
		X:      tileID.X,
		Y:      tileID.Y,
		Z:      tileID.Z,
		Length: uint32(len(tileData)),
		Offset: w.offset,
	})
	w.offset += uint64(len(tileData))
	return nil
}

func (w *Writer) Finalize() error {
	if err := w.dataWriter.Flush(); err != nil {
		return err
	}

	slices.SortFunc(w.items, func(a, b Item) int {
		return a.TileID().Key().Compare(b.TileID().Key())
	})

	indexFile, err := os.Create(w.indexPath)
	if err != nil {
		return err
	}
	indexWriter := bufio.NewWriter(indexFile)
	err = WriteAll(w.items, indexWriter)
	if err == nil {
		err = indexWriter.Flush()
	}
	return errors.Join(err, indexFile.Close())
}

func (w *Writer) Close() error {
	return w.dataFile.Close()
}
