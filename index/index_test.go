package index_test

import (
	"bytes"
	"path/filepath"
	"slices"
	"testing"

	"github.com/eak1mov/go-tilecover/cover"
	"github.com/eak1mov/go-tilecover/feature"
	"github.com/eak1mov/go-tilecover/index"
	"github.com/eak1mov/go-tilecover/internal"
	"github.com/eak1mov/go-tilecover/tile"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestItemSize(t *testing.T) {
	require.Equal(t, 24, index.ItemSize)
}

func TestReadWriteAll(t *testing.T) {
	items := []index.Item{
		{X: 1, Y: 2, Z: 3, Length: 4, Offset: 5},
		{X: 0, Y: 0, Z: 0, Length: 0, Offset: 1 << 40},
	}
	var buffer bytes.Buffer
	require.NoError(t, index.WriteAll(items, &buffer))
	require.Equal(t, 2*index.ItemSize, buffer.Len())

	got, err := index.ReadAll(buffer.Bytes())
	require.NoError(t, err)
	if diff := cmp.Diff(items, got); diff != "" {
		t.Errorf("ReadAll mismatch (-want+got):\n%v", diff)
	}

	_, err = index.ReadAll(buffer.Bytes()[:index.ItemSize+3])
	require.Error(t, err)

	empty, err := index.ReadAll(nil)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestWriterReader(t *testing.T) {
	for name, geometry := range internal.GeometryCases(t, "../testdata") {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			tiles, err := cover.Tiles(geometry, cover.Limits{MinZoom: 1, MaxZoom: 6})
			require.NoError(t, err)
			tile.SortByKey(tiles)

			dir := t.TempDir()
			indexPath, dataPath := filepath.Join(dir, "cover.index"), filepath.Join(dir, "cover.data")

			writer, err := index.NewWriter(indexPath, dataPath)
			require.NoError(t, err)
			defer writer.Close()
			// reversed write order; the index is sorted by key anyway
			reversed := slices.Clone(tiles)
			slices.Reverse(reversed)
			require.NoError(t, feature.Write(writer, slices.Values(reversed)))
			require.NoError(t, writer.Finalize())

			reader, err := index.NewReader(indexPath, dataPath)
			require.NoError(t, err)
			defer reader.Close()

			items := reader.Items()
			require.Len(t, items, len(tiles))
			for i, item := range items {
				require.Equal(t, tiles[i], item.TileID())
			}

			err = reader.VisitTiles(func(tileID tile.ID, tileData []byte) error {
				want, err := feature.Payload(tileID)
				require.NoError(t, err)
				require.Equal(t, want, tileData, "payload of %v", tileID)
				return nil
			})
			require.NoError(t, err)
		})
	}
}

func TestInvalidTile(t *testing.T) {
	dir := t.TempDir()
	writer, err := index.NewWriter(filepath.Join(dir, "i"), filepath.Join(dir, "d"))
	require.NoError(t, err)
	defer writer.Close()
	require.Error(t, writer.WriteTile(tile.ID{X: 4, Y: 0, Z: 2}, nil))
}
