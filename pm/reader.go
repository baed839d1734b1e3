package pm

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/eak1mov/go-tilecover/pm/format"
	"github.com/eak1mov/go-tilecover/tile"
)

// Reader implements tile.Visitor for PMTiles archives.
type Reader struct {
	file   *os.File
	header *format.Header
}

func NewReader(filePath string) (*Reader, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	r := &Reader{file: file}

	headerData, err := r.read(0, format.HeaderLength)
	if err == nil {
		r.header, err = format.DeserializeHeader(headerData)
	}
	if err != nil {
		file.Close()
		return nil, err
	}
	return r, nil
}

func (r *Reader) Close() error {
	return r.file.Close()
}

func (r *Reader) read(offset, length uint64) ([]byte, error) {
	buffer := make([]byte, length)
	if _, err := r.file.ReadAt(buffer, int64(offset)); err != nil {
		return nil, fmt.Errorf("read %d bytes at %d: %w", length, offset, err)
	}
	return buffer, nil
}

func (r *Reader) Header() format.Header {
	return *r.header
}

func (r *Reader) ReadMetadata() (map[string]any, error) {
	data, err := r.read(r.header.MetadataOffset, r.header.MetadataLength)
	if err != nil {
		return nil, err
	}
	data, err = format.Decompress(data, r.header.InternalCompression)
	if err != nil {
		return nil, err
	}
	var metadata map[string]any
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	return metadata, nil
}

func (r *Reader) readDirectory(offset, length uint64) ([]format.Entry, error) {
	data, err := r.read(offset, length)
	if err != nil {
		return nil, err
	}
	data, err = format.Decompress(data, r.header.InternalCompression)
	if err != nil {
		return nil, err
	}
	return format.DeserializeDirectory(data)
}

// ReadTile returns the stored payload or an empty slice when the tile is missing.
func (r *Reader) ReadTile(tileID tile.ID) ([]byte, error) {
	code := format.TileCode(tileID)
	offset, length := r.header.RootOffset, r.header.RootLength
	for {
		entries, err := r.readDirectory(offset, length)
		if err != nil {
			return nil, err
		}
		entry, found := format.FindEntry(entries, code)
		if !found {
			return make([]byte, 0), nil
		}
		if entry.RunLength > 0 {
			return r.read(r.header.TileDataOffset+entry.Offset, uint64(entry.Length))
		}
		offset, length = r.header.LeafDirectoryOffset+entry.Offset, uint64(entry.Length)
	}
}

// VisitTiles visits tiles in tile code order, following leaf directories depth first.
func (r *Reader) VisitTiles(visitor func(tile.ID, []byte) error) error {
	var traverse func(offset, length uint64) error
	traverse = func(offset, length uint64) error {
		entries, err := r.readDirectory(offset, length)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if entry.RunLength == 0 {
				if err := traverse(r.header.LeafDirectoryOffset+entry.Offset, uint64(entry.Length)); err != nil {
					return err
				}
				continue
			}
			tileData, err := r.read(r.header.TileDataOffset+entry.Offset, uint64(entry.Length))
			if err != nil {
				return err
			}
			for i := range uint64(entry.RunLength) {
				if err := visitor(format.TileFromCode(entry.TileCode+i), tileData); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return traverse(r.header.RootOffset, r.header.RootLength)
}
