// Package pm stores a cover as a PMTiles v3 archive and reads it back.
package pm

import (
	"bufio"
	"cmp"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"

	"github.com/eak1mov/go-tilecover/pm/format"
	"github.com/eak1mov/go-tilecover/tile"
	"github.com/paulmach/orb"
)

var ErrDuplicateTile = errors.New("tilecover: tile written twice")

// Writer implements tile.Writer for PMTiles archives.
// Tiles with identical payloads share their data.
type Writer struct {
	logger *slog.Logger
	file   *os.File
	header format.Header

	tileWriter *bufio.Writer
	tileOffset uint64

	entries  []format.Entry
	contents map[[md5.Size]byte]int // payload digest -> entry index

	minZoom uint32
	maxZoom uint32
	bound   orb.Bound
}

type writerConfig struct {
	Metadata map[string]any
	Logger   *slog.Logger
}

type WriterOption func(*writerConfig)

// WithMetadata sets entries of the archive JSON metadata.
// They take precedence over the derived "format" entry.
func WithMetadata(metadata map[string]any) WriterOption {
	return func(c *writerConfig) { c.Metadata = metadata }
}

func WithLogger(logger *slog.Logger) WriterOption {
	return func(c *writerConfig) { c.Logger = logger }
}

// NewWriter creates the archive at filePath. Metadata is written immediately,
// the header and directories on Finalize.
func NewWriter(filePath string, opts ...WriterOption) (*Writer, error) {
	config := writerConfig{
		Logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&config)
	}

	metadata := map[string]any{"format": "geojson"}
	maps.Copy(metadata, config.Metadata)
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	metadataData, err := format.Compress(metadataJSON, format.CompressionGzip)
	if err != nil {
		return nil, err
	}

	file, err := os.Create(filePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			file.Close()
		}
	}()

	header := format.Header{
		HeaderMagic:         format.HeaderMagicV3,
		Clustered:           true,
		InternalCompression: format.CompressionGzip,
		TileCompression:     format.CompressionNone,
		TileType:            format.TileTypeUnknown,
	}

	offset := uint64(format.HeaderRootDirMaxLength)
	if _, err = file.Seek(int64(offset), io.SeekStart); err != nil {
		return nil, err
	}
	if _, err = file.Write(metadataData); err != nil {
		return nil, err
	}
	header.MetadataOffset = offset
	header.MetadataLength = uint64(len(metadataData))
	header.TileDataOffset = offset + header.MetadataLength

	return &Writer{
		logger:     config.Logger,
		file:       file,
		header:     header,
		tileWriter: bufio.NewWriter(file),
		contents:   make(map[[md5.Size]byte]int),
	}, nil
}

func (w *Writer) WriteTile(tileID tile.ID, tileData []byte) error {
	if !tileID.Valid() {
		return fmt.Errorf("tilecover: invalid tile %v", tileID)
	}
	if len(w.entries) == 0 {
		w.minZoom, w.maxZoom, w.bound = tileID.Z, tileID.Z, tileID.Bound()
	} else {
		w.minZoom, w.maxZoom = min(w.minZoom, tileID.Z), max(w.maxZoom, tileID.Z)
		w.bound = w.bound.Union(tileID.Bound())
	}

	entry := format.Entry{
		TileCode:  format.TileCode(tileID),
		Offset:    w.tileOffset,
		Length:    uint32(len(tileData)),
		RunLength: 1,
	}

	digest := md5.Sum(tileData)
	if idx, ok := w.contents[digest]; ok {
		entry.Offset = w.entries[idx].Offset
		w.entries = append(w.entries, entry)
		return nil
	}

	if _, err := w.tileWriter.Write(tileData); err != nil {
		return err
	}
	w.tileOffset += uint64(len(tileData))
	w.contents[digest] = len(w.entries)
	w.entries = append(w.entries, entry)
	return nil
}

func (w *Writer) Finalize() error {
	if w.tileWriter == nil {
		panic("tilecover: finalize called twice")
	}

	w.logger.Debug("tilecover: flush tile data", "bytes", w.tileOffset)
	if err := w.tileWriter.Flush(); err != nil {
		return err
	}
	w.tileWriter = nil

	slices.SortFunc(w.entries, func(a, b format.Entry) int {
		return cmp.Compare(a.TileCode, b.TileCode)
	})
	for i := 1; i < len(w.entries); i++ {
		if w.entries[i].TileCode == w.entries[i-1].TileCode {
			return fmt.Errorf("%w: %v", ErrDuplicateTile, format.TileFromCode(w.entries[i].TileCode))
		}
	}

	h := &w.header
	h.TileDataLength = w.tileOffset
	h.AddressedTilesCount = uint64(len(w.entries))
	h.TileContentsCount = uint64(len(w.contents))
	if len(w.entries) > 0 {
		h.MinZoom, h.MaxZoom, h.CenterZoom = uint8(w.minZoom), uint8(w.maxZoom), uint8(w.minZoom)
		h.SetBounds(w.bound)
	}

	w.entries = format.CompactEntries(w.entries)
	h.TileEntriesCount = uint64(len(w.entries))

	w.logger.Debug("tilecover: serialize directories", "entries", len(w.entries))
	rootData, leavesData, err := format.SerializeAll(w.entries, h.InternalCompression)
	if err != nil {
		return err
	}

	leavesOffset, err := w.file.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	if _, err := w.file.Write(leavesData); err != nil {
		return err
	}
	h.LeafDirectoryOffset = uint64(leavesOffset)
	h.LeafDirectoryLength = uint64(len(leavesData))

	h.RootOffset = format.RootDirOffset
	h.RootLength = uint64(len(rootData))
	if _, err := w.file.WriteAt(rootData, format.RootDirOffset); err != nil {
		return err
	}
	if _, err := w.file.WriteAt(format.SerializeHeader(h), 0); err != nil {
		return err
	}

	err = w.file.Close()
	w.file = nil
	if err != nil {
		return err
	}

	w.logger.Debug("tilecover: pmtiles done", "tiles", h.AddressedTilesCount)
	return nil
}

// Close releases the file of an unfinished archive. It is a no-op after Finalize.
func (w *Writer) Close() error {
	if w.file == nil {
		return nil
	}
	return w.file.Close()
}
