package cover

import (
	"log/slog"

	"github.com/eak1mov/go-tilecover/tile"
)

// mergeTiles collapses complete 2x2 sibling groups into their parent, level by
// level from limits.MaxZoom up to limits.MinZoom. set and tiles must hold the
// same tiles at limits.MaxZoom, without duplicates.
//
// A tile is either retracted (absorbed by its parent) or emitted as is; only
// parents produced at one level are considered at the next.
func mergeTiles(set tileSet, tiles []tile.ID, limits Limits, logger *slog.Logger) []tile.ID {
	var merged []tile.ID

	for z := limits.MaxZoom; z > limits.MinZoom; z-- {
		parentSet := make(tileSet)
		var parents []tile.ID

		for _, t := range tiles {
			if t.X%2 != 0 || t.Y%2 != 0 {
				continue
			}
			right := tile.ID{X: t.X + 1, Y: t.Y, Z: z}
			below := tile.ID{X: t.X, Y: t.Y + 1, Z: z}
			diagonal := tile.ID{X: t.X + 1, Y: t.Y + 1, Z: z}
			if !set.has(right) || !set.has(below) || !set.has(diagonal) {
				continue
			}

			set.retract(t)
			set.retract(right)
			set.retract(below)
			set.retract(diagonal)

			parent := tile.ID{X: t.X / 2, Y: t.Y / 2, Z: z - 1}
			if parent.Z == limits.MinZoom {
				merged = append(merged, parent)
			} else {
				parentSet.add(parent)
				parents = append(parents, parent)
			}
		}

		kept := 0
		for _, t := range tiles {
			if set.has(t) {
				merged = append(merged, t)
				kept++
			}
		}
		logger.Debug("tilecover: merge", "zoom", z, "tiles", len(tiles), "kept", kept, "retracted", len(tiles)-kept)

		set, tiles = parentSet, parents
	}

	return merged
}
