package xyz

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/eak1mov/go-tilecover/tile"
)

// Reader implements tile.Visitor for the XYZ directory layout.
type Reader struct {
	pattern *pattern
}

// NewReader creates a new Reader for the given file pattern.
func NewReader(filePattern string) (*Reader, error) {
	p, err := parsePattern(filePattern)
	if err != nil {
		return nil, err
	}
	return &Reader{pattern: p}, nil
}

// ReadTile returns the stored payload or an empty slice when the tile is missing.
func (r *Reader) ReadTile(tileID tile.ID) ([]byte, error) {
	tileData, err := os.ReadFile(r.pattern.path(tileID))
	if os.IsNotExist(err) {
		return make([]byte, 0), nil
	}
	return tileData, err
}

// VisitTiles walks the directory tree. Files not matching the pattern are skipped.
func (r *Reader) VisitTiles(visitor func(tile.ID, []byte) error) error {
	return filepath.WalkDir(r.pattern.root(), func(filePath string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		tileID, ok, err := r.pattern.parse(filePath)
		if !ok {
			return err
		}
		tileData, err := os.ReadFile(filePath)
		if err != nil {
			return err
		}
		return visitor(tileID, tileData)
	})
}
