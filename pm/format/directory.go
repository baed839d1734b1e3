package format

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
)

var ErrInvalidDirectory = errors.New("tilecover: invalid pmtiles directory")

// Entry is a directory record. RunLength 0 marks a pointer to a leaf directory,
// otherwise RunLength consecutive tile codes share the same data.
type Entry struct {
	TileCode  uint64
	Offset    uint64
	Length    uint32
	RunLength uint32
}

// SerializeDirectory encodes entries sorted by tile code as columns of uvarints:
// code deltas, run lengths, lengths, then offsets where 0 means "right after
// the previous entry" and anything else is the offset plus one.
func SerializeDirectory(entries []Entry) []byte {
	columns := []func(i int) uint64{
		func(i int) uint64 {
			if i == 0 {
				return entries[0].TileCode
			}
			return entries[i].TileCode - entries[i-1].TileCode
		},
		func(i int) uint64 { return uint64(entries[i].RunLength) },
		func(i int) uint64 { return uint64(entries[i].Length) },
		func(i int) uint64 {
			if i > 0 && entries[i].Offset == entries[i-1].Offset+uint64(entries[i-1].Length) {
				return 0
			}
			return entries[i].Offset + 1
		},
	}

	buf := binary.AppendUvarint(nil, uint64(len(entries)))
	for _, column := range columns {
		for i := range entries {
			buf = binary.AppendUvarint(buf, column(i))
		}
	}
	return buf
}

func DeserializeDirectory(data []byte) ([]Entry, error) {
	r := bytes.NewReader(data)
	count, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDirectory, err)
	}
	if count > uint64(len(data)) {
		return nil, fmt.Errorf("%w: %d entries in %d bytes", ErrInvalidDirectory, count, len(data))
	}
	entries := make([]Entry, count)

	columns := []func(e []Entry, i int, v uint64){
		func(e []Entry, i int, v uint64) {
			if i > 0 {
				v += e[i-1].TileCode
			}
			e[i].TileCode = v
		},
		func(e []Entry, i int, v uint64) { e[i].RunLength = uint32(v) },
		func(e []Entry, i int, v uint64) { e[i].Length = uint32(v) },
		func(e []Entry, i int, v uint64) {
			if v == 0 && i > 0 {
				e[i].Offset = e[i-1].Offset + uint64(e[i-1].Length)
			} else {
				e[i].Offset = v - 1
			}
		},
	}
	for _, column := range columns {
		for i := range entries {
			v, err := binary.ReadUvarint(r)
			if err != nil {
				return nil, fmt.Errorf("%w: entry %d: %w", ErrInvalidDirectory, i, err)
			}
			column(entries, i, v)
		}
	}
	return entries, nil
}

// CompactEntries merges runs of consecutive tile codes pointing at the same data.
// Entries must be sorted by tile code.
func CompactEntries(entries []Entry) []Entry {
	if len(entries) == 0 {
		return entries
	}
	wi := 0
	for ri := 1; ri < len(entries); ri++ {
		last := &entries[wi]
		if entries[ri].Offset == last.Offset && entries[ri].TileCode == last.TileCode+uint64(last.RunLength) {
			last.RunLength++
		} else {
			wi++
			entries[wi] = entries[ri]
		}
	}
	return entries[:wi+1]
}

// FindEntry returns the entry holding tileCode, or the leaf pointer to follow.
func FindEntry(entries []Entry, tileCode uint64) (Entry, bool) {
	idx := sort.Search(len(entries), func(i int) bool {
		return entries[i].TileCode > tileCode
	})
	if idx == 0 {
		return Entry{}, false
	}

	entry := entries[idx-1]
	if entry.RunLength == 0 || tileCode < entry.TileCode+uint64(entry.RunLength) {
		return entry, true
	}
	return Entry{}, false
}

// SerializeAll encodes the directory tree and returns the compressed root
// and the concatenated compressed leaves. Leaves are used only when the root
// alone exceeds RootDirMaxLength.
func SerializeAll(entries []Entry, compression Compression) (root, leaves []byte, err error) {
	root, err = Compress(SerializeDirectory(entries), compression)
	if err != nil || len(root) <= RootDirMaxLength {
		return root, nil, err
	}

	entrySize := float64(len(root)) / float64(len(entries))
	maxRootEntries := float64(RootDirMaxLength) * 0.9 / entrySize
	leafSize := max(float64(len(entries))/maxRootEntries, 4096, math.Sqrt(float64(len(entries))))

	for len(root) > RootDirMaxLength {
		var rootEntries []Entry
		leaves = leaves[:0]

		for chunk := range slices.Chunk(entries, int(leafSize)) {
			leaf, err := Compress(SerializeDirectory(chunk), compression)
			if err != nil {
				return nil, nil, err
			}
			rootEntries = append(rootEntries, Entry{
				TileCode: chunk[0].TileCode,
				Offset:   uint64(len(leaves)),
				Length:   uint32(len(leaf)),
			})
			leaves = append(leaves, leaf...)
		}

		root, err = Compress(SerializeDirectory(rootEntries), compression)
		if err != nil {
			return nil, nil, err
		}
		leafSize *= 1.1
	}

	return root, leaves, nil
}
