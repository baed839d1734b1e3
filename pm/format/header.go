// Package format implements the binary layout of PMTiles v3 archives:
// the fixed header, varint directories, hilbert tile codes and internal compression.
package format

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

type Compression uint8

const (
	CompressionUnknown Compression = iota
	CompressionNone
	CompressionGzip
	CompressionBrotli
	CompressionZstd
)

type TileType uint8

const (
	TileTypeUnknown TileType = iota
	TileTypeMvt
	TileTypePng
	TileTypeJpeg
	TileTypeWebp
	TileTypeAvif
)

// Header is the fixed-size archive header, stored little-endian in field order.
type Header struct {
	HeaderMagic         uint64
	RootOffset          uint64
	RootLength          uint64
	MetadataOffset      uint64
	MetadataLength      uint64
	LeafDirectoryOffset uint64
	LeafDirectoryLength uint64
	TileDataOffset      uint64
	TileDataLength      uint64
	AddressedTilesCount uint64
	TileEntriesCount    uint64
	TileContentsCount   uint64
	Clustered           bool
	InternalCompression Compression
	TileCompression     Compression
	TileType            TileType
	MinZoom             uint8
	MaxZoom             uint8
	MinLonE7            int32
	MinLatE7            int32
	MaxLonE7            int32
	MaxLatE7            int32
	CenterZoom          uint8
	CenterLonE7         int32
	CenterLatE7         int32
}

const (
	headerMagic     uint64 = 0x73656C69544D50 // "PMTiles"
	headerMagicMask uint64 = 1<<56 - 1
	HeaderMagicV3   uint64 = headerMagic | (0x03 << 56)

	HeaderLength = 127

	// the root directory must end within the first 16 KiB of the archive
	HeaderRootDirMaxLength = 16 << 10
	RootDirOffset          = HeaderLength
	RootDirMaxLength       = HeaderRootDirMaxLength - HeaderLength
)

var (
	ErrInvalidHeader  = errors.New("tilecover: invalid pmtiles header")
	ErrInvalidVersion = errors.New("tilecover: unsupported pmtiles version")
)

const e7 = 1e7

// SetBounds stores b and its center in the header. The center zoom is left as is.
func (h *Header) SetBounds(b orb.Bound) {
	h.MinLonE7, h.MinLatE7 = toE7(b.Min.Lon()), toE7(b.Min.Lat())
	h.MaxLonE7, h.MaxLatE7 = toE7(b.Max.Lon()), toE7(b.Max.Lat())
	center := b.Center()
	h.CenterLonE7, h.CenterLatE7 = toE7(center.Lon()), toE7(center.Lat())
}

// Bounds returns the header bounds in degrees.
func (h *Header) Bounds() orb.Bound {
	return orb.Bound{
		Min: orb.Point{float64(h.MinLonE7) / e7, float64(h.MinLatE7) / e7},
		Max: orb.Point{float64(h.MaxLonE7) / e7, float64(h.MaxLatE7) / e7},
	}
}

func toE7(degrees float64) int32 {
	return int32(math.Round(degrees * e7))
}

func SerializeHeader(header *Header) []byte {
	buffer := bytes.NewBuffer(make([]byte, 0, HeaderLength))
	// writes into a bytes.Buffer never fail
	_ = binary.Write(buffer, binary.LittleEndian, header)
	return buffer.Bytes()
}

func DeserializeHeader(data []byte) (*Header, error) {
	var header Header
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}
	if header.HeaderMagic&headerMagicMask != headerMagic {
		return nil, ErrInvalidHeader
	}
	if header.HeaderMagic != HeaderMagicV3 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidVersion, header.HeaderMagic>>56)
	}
	return &header, nil
}
