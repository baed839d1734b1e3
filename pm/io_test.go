package pm_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"maps"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/eak1mov/go-tilecover/cover"
	"github.com/eak1mov/go-tilecover/feature"
	"github.com/eak1mov/go-tilecover/internal"
	"github.com/eak1mov/go-tilecover/pm"
	"github.com/eak1mov/go-tilecover/pm/format"
	"github.com/eak1mov/go-tilecover/tile"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func writeArchive(t *testing.T, filePath string, tiles map[tile.ID][]byte, opts ...pm.WriterOption) {
	t.Helper()

	writer, err := pm.NewWriter(filePath, opts...)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	defer writer.Close()

	for tileID, tileData := range tiles {
		if err := writer.WriteTile(tileID, tileData); err != nil {
			t.Fatalf("WriteTile(%v) failed: %v", tileID, err)
		}
	}
	if err := writer.Finalize(); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
}

func readArchive(t *testing.T, filePath string) map[tile.ID][]byte {
	t.Helper()

	reader, err := pm.NewReader(filePath)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	var visitErr error
	tiles := maps.Collect(tile.All(reader, &visitErr))
	require.NoError(t, visitErr)
	return tiles
}

func TestWriterReader(t *testing.T) {
	for name, geometry := range internal.GeometryCases(t, "../testdata") {
		t.Run(name, func(t *testing.T) {
			tiles, err := cover.Tiles(geometry, cover.Limits{MinZoom: 2, MaxZoom: 7})
			require.NoError(t, err)
			tile.SortByKey(tiles)

			filePath := filepath.Join(t.TempDir(), "cover.pmtiles")
			writer, err := pm.NewWriter(filePath, pm.WithMetadata(map[string]any{"name": name}))
			require.NoError(t, err)
			defer writer.Close()
			require.NoError(t, feature.Write(writer, slices.Values(tiles)))
			require.NoError(t, writer.Finalize())

			reader, err := pm.NewReader(filePath)
			require.NoError(t, err)
			defer reader.Close()

			stored, err := tile.Stored(reader)
			require.NoError(t, err)
			if diff := cmp.Diff(tiles, stored); diff != "" {
				t.Errorf("Stored mismatch (-want+got):\n%v", diff)
			}

			for _, tileID := range tiles {
				want, err := feature.Payload(tileID)
				require.NoError(t, err)
				got, err := reader.ReadTile(tileID)
				require.NoError(t, err)
				require.Equal(t, want, got, "ReadTile(%v)", tileID)
			}

			metadata, err := reader.ReadMetadata()
			require.NoError(t, err)
			require.Equal(t, map[string]any{"name": name, "format": "geojson"}, metadata)

			header := reader.Header()
			require.Equal(t, uint64(len(tiles)), header.AddressedTilesCount)
			require.Equal(t, uint64(len(tiles)), header.TileContentsCount)
			require.Equal(t, format.CompressionNone, header.TileCompression)
			require.True(t, header.Clustered)
			require.GreaterOrEqual(t, header.MinZoom, uint8(2))
			require.LessOrEqual(t, header.MaxZoom, uint8(7))
			for _, tileID := range tiles {
				center := tileID.Center()
				bound := header.Bounds().Pad(1e-6)
				require.True(t, bound.Contains(center), "bounds %v miss tile %v", bound, tileID)
			}
		})
	}
}

func TestSharedPayloads(t *testing.T) {
	tiles := make(map[tile.ID][]byte)
	for tileID := range tile.Descendants(tile.ID{}, 3) {
		tiles[tileID] = fmt.Appendf(nil, "row %d", tileID.Y)
	}
	filePath := filepath.Join(t.TempDir(), "shared.pmtiles")
	writeArchive(t, filePath, tiles)

	if diff := cmp.Diff(tiles, readArchive(t, filePath)); diff != "" {
		t.Errorf("tiles mismatch (-want+got):\n%v", diff)
	}

	reader, err := pm.NewReader(filePath)
	require.NoError(t, err)
	defer reader.Close()
	header := reader.Header()
	require.Equal(t, uint64(64), header.AddressedTilesCount)
	require.Equal(t, uint64(8), header.TileContentsCount)
	require.Less(t, header.TileEntriesCount, uint64(64))
	require.Equal(t, uint8(3), header.MinZoom)
	require.Equal(t, uint8(3), header.MaxZoom)
}

func TestLeafDirectories(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 8))
	tiles := make(map[tile.ID][]byte)
	for tileID := range tile.Descendants(tile.ID{}, 8) {
		if len(tiles) == 50000 {
			break
		}
		tiles[tileID] = append(fmt.Appendf(nil, "%v:", tileID), bytes.Repeat([]byte{'x'}, rng.IntN(250))...)
	}

	filePath := filepath.Join(t.TempDir(), "large.pmtiles")
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	writeArchive(t, filePath, tiles, pm.WithLogger(logger))
	require.Contains(t, logs.String(), "serialize directories")

	reader, err := pm.NewReader(filePath)
	require.NoError(t, err)
	defer reader.Close()
	require.NotZero(t, reader.Header().LeafDirectoryLength)

	for _, tileID := range []tile.ID{{X: 0, Y: 0, Z: 8}, {X: 100, Y: 100, Z: 8}, {X: 255, Y: 194, Z: 8}} {
		data, err := reader.ReadTile(tileID)
		require.NoError(t, err)
		require.Equal(t, tiles[tileID], data, "ReadTile(%v)", tileID)
	}
	data, err := reader.ReadTile(tile.ID{X: 255, Y: 255, Z: 8})
	require.NoError(t, err)
	require.Empty(t, data)

	if diff := cmp.Diff(tiles, readArchive(t, filePath)); diff != "" {
		t.Errorf("tiles mismatch (-want+got):\n%v", diff)
	}
}

func TestEmptyArchive(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "empty.pmtiles")
	writeArchive(t, filePath, nil)
	require.Empty(t, readArchive(t, filePath))
}

func TestDuplicateTile(t *testing.T) {
	writer, err := pm.NewWriter(filepath.Join(t.TempDir(), "dup.pmtiles"))
	require.NoError(t, err)
	defer writer.Close()

	require.NoError(t, writer.WriteTile(tile.ID{X: 1, Y: 1, Z: 1}, []byte("a")))
	require.NoError(t, writer.WriteTile(tile.ID{X: 1, Y: 1, Z: 1}, []byte("b")))
	require.ErrorIs(t, writer.Finalize(), pm.ErrDuplicateTile)

	require.Error(t, writer.WriteTile(tile.ID{X: 0, Y: 4, Z: 2}, nil))
}

func TestInvalidArchive(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "garbage.pmtiles")
	require.NoError(t, os.WriteFile(filePath, bytes.Repeat([]byte("garbage"), 100), 0644))
	_, err := pm.NewReader(filePath)
	require.ErrorIs(t, err, format.ErrInvalidHeader)

	_, err = pm.NewReader(filepath.Join(t.TempDir(), "missing.pmtiles"))
	require.Error(t, err)
}
