package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/eak1mov/go-tilecover/cover"
	"github.com/eak1mov/go-tilecover/feature"
	"github.com/eak1mov/go-tilecover/viewport"
	"github.com/google/subcommands"
	"github.com/paulmach/orb"
)

type viewportCmd struct {
	bbox        string
	mapZoom     float64
	outlinePath string
	labelsPath  string
	verbose     bool
}

func (c *viewportCmd) Name() string     { return "viewport" }
func (c *viewportCmd) Synopsis() string { return "list the tiles displayed by a map view" }
func (c *viewportCmd) Usage() string {
	return "tilecover viewport -bbox <west,south,east,north> -z <map zoom> [-o <path> -labels <path>]\n"
}
func (c *viewportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.bbox, "bbox", "", "View bound in degrees: west,south,east,north (longitudes may exceed ±180)")
	f.Float64Var(&c.mapZoom, "z", 0, "Fractional map zoom")
	f.StringVar(&c.outlinePath, "o", "", "Output path of the tile outlines (stdout if empty)")
	f.StringVar(&c.labelsPath, "labels", "", "Output path of the tile labels")
	f.BoolVar(&c.verbose, "v", false, "Verbose logging")
}

func parseBound(s string) (orb.Bound, error) {
	var west, south, east, north float64
	if _, err := fmt.Sscanf(s, "%g,%g,%g,%g", &west, &south, &east, &north); err != nil {
		return orb.Bound{}, fmt.Errorf("invalid bbox %q: %w", s, err)
	}
	if west > east || south > north {
		return orb.Bound{}, fmt.Errorf("invalid bbox %q: min corner exceeds max corner", s)
	}
	return orb.Bound{Min: orb.Point{west, south}, Max: orb.Point{east, north}}, nil
}

func (c *viewportCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	bound, err := parseBound(c.bbox)
	if err != nil {
		log.Println(err)
		return subcommands.ExitUsageError
	}

	tiles, err := viewport.Tiles(bound, c.mapZoom, cover.WithLogger(newLogger(c.verbose)))
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	if err := writeJSON(c.outlinePath, feature.Outlines(tiles)); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	if c.labelsPath != "" {
		if err := writeJSON(c.labelsPath, feature.Labels(tiles)); err != nil {
			log.Println(err)
			return subcommands.ExitFailure
		}
	}

	return subcommands.ExitSuccess
}
