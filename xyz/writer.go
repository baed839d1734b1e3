package xyz

import (
	"os"
	"path/filepath"

	"github.com/eak1mov/go-tilecover/tile"
)

// Writer implements tile.Writer for the XYZ directory layout.
type Writer struct {
	pattern *pattern
	written int
}

// NewWriter creates a new Writer for the given file pattern (e.g. "/home/user/cover/{z}/{x}/{y}.geojson").
func NewWriter(filePattern string) (*Writer, error) {
	p, err := parsePattern(filePattern)
	if err != nil {
		return nil, err
	}
	return &Writer{pattern: p}, nil
}

func (w *Writer) WriteTile(tileID tile.ID, tileData []byte) error {
	filePath := w.pattern.path(tileID)
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(filePath, tileData, 0644); err != nil {
		return err
	}
	w.written++
	return nil
}

// Finalize is a no-op: every tile is a complete file once written.
func (w *Writer) Finalize() error {
	return nil
}

// Written returns the number of tiles written so far.
func (w *Writer) Written() int {
	return w.written
}
