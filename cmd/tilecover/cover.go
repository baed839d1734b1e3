package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/eak1mov/go-tilecover/cover"
	"github.com/eak1mov/go-tilecover/feature"
	"github.com/eak1mov/go-tilecover/tile"
	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"
)

type coverCmd struct {
	inputPath      string
	minZoom        uint
	maxZoom        uint
	outputFormat   string
	outputPath     string
	outputDataPath string
	labelsPath     string
	strict         bool
	verbose        bool
}

func (c *coverCmd) Name() string     { return "cover" }
func (c *coverCmd) Synopsis() string { return "compute the tile cover of a GeoJSON geometry" }
func (c *coverCmd) Usage() string {
	return "tilecover cover -i <path> -max <zoom> [-min <zoom>] [-o <path> -of <format> -t <path> -labels <path>]\n"
}
func (c *coverCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input GeoJSON geometry or feature")
	f.UintVar(&c.minZoom, "min", 0, "Minimum zoom of the merged cover (default: max zoom)")
	f.UintVar(&c.maxZoom, "max", 0, "Zoom of the rasterized cover")
	f.StringVar(&c.outputPath, "o", "", "Output path (stdout for geojson if empty)")
	f.StringVar(&c.outputFormat, "of", "", "Output format (geojson, xyz, mbtiles, pmtiles, index)")
	f.StringVar(&c.outputDataPath, "t", "", "Output data path for the index format")
	f.StringVar(&c.labelsPath, "labels", "", "Also write tile label points as GeoJSON to this path")
	f.BoolVar(&c.strict, "strict", false, "Fail on rings with an odd number of scanline intersections")
	f.BoolVar(&c.verbose, "v", false, "Verbose logging")
}

func (c *coverCmd) limits(f *flag.FlagSet) cover.Limits {
	minSet := false
	f.Visit(func(fl *flag.Flag) {
		if fl.Name == "min" {
			minSet = true
		}
	})
	if !minSet {
		return cover.SingleZoom(uint32(c.maxZoom))
	}
	return cover.Limits{MinZoom: uint32(c.minZoom), MaxZoom: uint32(c.maxZoom)}
}

func (c *coverCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	logger := newLogger(c.verbose)

	data, err := os.ReadFile(c.inputPath)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	geometry, err := cover.UnmarshalGeometry(data)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	if c.maxZoom > tile.MaxZoom || c.minZoom > tile.MaxZoom {
		log.Printf("zoom out of range [0, %d]", tile.MaxZoom)
		return subcommands.ExitUsageError
	}

	opts := []cover.Option{cover.WithLogger(logger)}
	if c.strict {
		opts = append(opts, cover.WithStrictRings())
	}
	tiles, err := cover.Tiles(geometry, c.limits(f), opts...)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	tile.SortByKey(tiles)
	logger.Info("cover computed", "tiles", len(tiles))

	if c.labelsPath != "" {
		if err := writeJSON(c.labelsPath, feature.Labels(tiles)); err != nil {
			log.Println(err)
			return subcommands.ExitFailure
		}
	}

	format := deduceFormat(c.outputFormat, c.outputPath)
	if format == "geojson" {
		err = writeJSON(c.outputPath, feature.Outlines(tiles))
	} else {
		err = c.writeTileset(format, tiles, logger)
	}
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}

func (c *coverCmd) writeTileset(format string, tiles []tile.ID, logger *slog.Logger) error {
	writer, err := openWriter(format, c.outputPath, c.outputDataPath, logger)
	if err != nil {
		return err
	}
	defer closeIfCloser(writer)

	bar := progressbar.New(len(tiles))
	progress := func(yield func(tile.ID) bool) {
		for _, t := range tiles {
			if !yield(t) {
				return
			}
			bar.Add(1)
		}
	}
	err = feature.Write(writer, progress)
	bar.Finish()
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}

	return writer.Finalize()
}
