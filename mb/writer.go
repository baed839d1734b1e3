package mb

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/eak1mov/go-tilecover/tile"
	"github.com/paulmach/orb"
)

const (
	schema = `CREATE TABLE metadata (name TEXT, value TEXT);
CREATE TABLE tiles (zoom_level INTEGER, tile_column INTEGER, tile_row INTEGER, tile_data BLOB);`
	insertTile     = "INSERT INTO tiles (zoom_level, tile_column, tile_row, tile_data) VALUES (?, ?, ?, ?)"
	insertMetadata = "INSERT INTO metadata (name, value) VALUES (?, ?)"
	tileIndex      = "CREATE UNIQUE INDEX tile_index ON tiles (zoom_level, tile_column, tile_row)"
)

// Writer implements tile.Writer for the MBTiles format.
// Metadata keys minzoom, maxzoom, bounds and format are derived from the
// written tiles unless given explicitly with WithMetadata.
type Writer struct {
	db       *sql.DB
	stmt     *sql.Stmt
	logger   *slog.Logger
	metadata map[string]string

	count   int
	minZoom uint32
	maxZoom uint32
	bound   orb.Bound
}

type writerConfig struct {
	Metadata map[string]string
	Logger   *slog.Logger
}

type WriterOption func(*writerConfig)

func WithMetadata(metadata map[string]string) WriterOption {
	return func(c *writerConfig) { c.Metadata = metadata }
}

func WithLogger(logger *slog.Logger) WriterOption {
	return func(c *writerConfig) { c.Logger = logger }
}

// NewWriter creates the MBTiles file at filePath and prepares it for writing tiles.
func NewWriter(filePath string, opts ...WriterOption) (*Writer, error) {
	config := writerConfig{
		Logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&config)
	}

	var err error
	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	if _, err = db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}
	stmt, err := db.Prepare(insertTile)
	if err != nil {
		return nil, err
	}

	return &Writer{
		db:       db,
		stmt:     stmt,
		logger:   config.Logger,
		metadata: maps.Clone(config.Metadata),
	}, nil
}

func (w *Writer) Close() error {
	return errors.Join(w.stmt.Close(), w.db.Close())
}

func (w *Writer) WriteTile(tileID tile.ID, tileData []byte) error {
	if !tileID.Valid() {
		return fmt.Errorf("tilecover: invalid tile %v", tileID)
	}
	z := tileID.Z
	if _, err := w.stmt.Exec(z, tileID.X, flipRow(z, tileID.Y), tileData); err != nil {
		return err
	}

	if w.count == 0 {
		w.minZoom, w.maxZoom, w.bound = z, z, tileID.Bound()
	} else {
		w.minZoom, w.maxZoom = min(w.minZoom, z), max(w.maxZoom, z)
		w.bound = w.bound.Union(tileID.Bound())
	}
	w.count++
	return nil
}

func (w *Writer) derivedMetadata() map[string]string {
	metadata := map[string]string{"format": "geojson"}
	if w.count > 0 {
		metadata["minzoom"] = fmt.Sprint(w.minZoom)
		metadata["maxzoom"] = fmt.Sprint(w.maxZoom)
		metadata["bounds"] = fmt.Sprintf("%g,%g,%g,%g",
			w.bound.Min.Lon(), w.bound.Min.Lat(), w.bound.Max.Lon(), w.bound.Max.Lat())
	}
	maps.Copy(metadata, w.metadata)
	return metadata
}

func (w *Writer) Finalize() error {
	metadata := w.derivedMetadata()
	w.logger.Debug("tilecover: writing metadata", "entries", len(metadata))
	for _, name := range slices.Sorted(maps.Keys(metadata)) {
		if _, err := w.db.Exec(insertMetadata, name, metadata[name]); err != nil {
			return fmt.Errorf("write metadata %v: %w", name, err)
		}
	}

	w.logger.Debug("tilecover: creating index", "tiles", w.count)
	if _, err := w.db.Exec(tileIndex); err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	w.logger.Debug("tilecover: mbtiles done")
	return nil
}
