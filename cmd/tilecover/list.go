package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/eak1mov/go-tilecover/tile"
	"github.com/google/subcommands"
)

type listCmd struct {
	inputFormat   string
	inputPath     string
	inputDataPath string
}

func (c *listCmd) Name() string     { return "list" }
func (c *listCmd) Synopsis() string { return "list the tiles stored in a tileset" }
func (c *listCmd) Usage() string {
	return "tilecover list -i <path> [-if <format> -t <path>]\n"
}
func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input path")
	f.StringVar(&c.inputFormat, "if", "", "Input format (xyz, mbtiles, pmtiles, index)")
	f.StringVar(&c.inputDataPath, "t", "", "Input data path for the index format")
}

func (c *listCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	reader, err := openReader(deduceFormat(c.inputFormat, c.inputPath), c.inputPath, c.inputDataPath)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	defer closeIfCloser(reader)

	tiles, err := tile.Stored(reader)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	for _, t := range tiles {
		fmt.Printf("%v\t%v\n", t, t.Key())
	}
	return subcommands.ExitSuccess
}
