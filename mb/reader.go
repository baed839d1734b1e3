// Package mb stores a cover in the MBTiles format (a sqlite database) and reads it back.
//
// Note: User must properly initialize the sqlite3 library generic driver
// (e.g. import _ "github.com/mattn/go-sqlite3") before using this package.
package mb

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/eak1mov/go-tilecover/tile"
	"github.com/paulmach/orb"
)

// Reader implements tile.Visitor for the MBTiles format.
type Reader struct {
	db     *sql.DB
	lookup *sql.Stmt
}

// NewReader opens the MBTiles file read-only.
// The returned Reader must be closed after use to release database resources.
func NewReader(filePath string) (*Reader, error) {
	db, err := sql.Open("sqlite3", "file:"+filePath+"?mode=ro")
	if err != nil {
		return nil, err
	}
	lookup, err := db.Prepare(`SELECT tile_data FROM tiles
		WHERE zoom_level = ? AND tile_column = ? AND tile_row = ?`)
	if err != nil {
		return nil, errors.Join(err, db.Close())
	}
	return &Reader{db: db, lookup: lookup}, nil
}

func (r *Reader) Close() error {
	return errors.Join(r.lookup.Close(), r.db.Close())
}

// flipRow converts between XYZ and TMS rows; the conversion is its own inverse.
func flipRow(z, y uint32) uint32 {
	return (1 << z) - 1 - y
}

func (r *Reader) ReadMetadata() (map[string]string, error) {
	rows, err := r.db.Query("SELECT name, value FROM metadata")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metadata := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		metadata[name] = value
	}
	return metadata, rows.Err()
}

// Bounds parses the "bounds" metadata entry.
func (r *Reader) Bounds() (orb.Bound, error) {
	var value string
	err := r.db.QueryRow("SELECT value FROM metadata WHERE name = 'bounds'").Scan(&value)
	if err != nil {
		return orb.Bound{}, fmt.Errorf("read bounds: %w", err)
	}
	var b orb.Bound
	if _, err := fmt.Sscanf(value, "%g,%g,%g,%g", &b.Min[0], &b.Min[1], &b.Max[0], &b.Max[1]); err != nil {
		return orb.Bound{}, fmt.Errorf("parse bounds %q: %w", value, err)
	}
	return b, nil
}

// ReadTile returns the stored payload or an empty slice when the tile is missing.
func (r *Reader) ReadTile(tileID tile.ID) ([]byte, error) {
	tileData := make([]byte, 0)
	err := r.lookup.QueryRow(tileID.Z, tileID.X, flipRow(tileID.Z, tileID.Y)).Scan(&tileData)
	if errors.Is(err, sql.ErrNoRows) {
		return make([]byte, 0), nil
	}
	return tileData, err
}

func (r *Reader) VisitTiles(visitor func(tile.ID, []byte) error) error {
	rows, err := r.db.Query("SELECT zoom_level, tile_column, tile_row, tile_data FROM tiles")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var z, x, row uint32
		var tileData []byte
		if err := rows.Scan(&z, &x, &row, &tileData); err != nil {
			return err
		}
		if z > tile.MaxZoom || row >= 1<<z || x >= 1<<z {
			return fmt.Errorf("tilecover: invalid tile row %d/%d/%d", z, x, row)
		}
		if err := visitor(tile.ID{X: x, Y: flipRow(z, row), Z: z}, tileData); err != nil {
			return err
		}
	}
	return rows.Err()
}
