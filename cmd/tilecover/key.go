package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/eak1mov/go-tilecover/tile"
	"github.com/google/subcommands"
)

type keyCmd struct{}

func (c *keyCmd) Name() string     { return "key" }
func (c *keyCmd) Synopsis() string { return "convert between z/x/y tiles and packed tile keys" }
func (c *keyCmd) Usage() string {
	return "tilecover key <z/x/y | key>...\n"
}
func (c *keyCmd) SetFlags(_ *flag.FlagSet) {}

func parseTile(s string) (tile.ID, error) {
	var t tile.ID
	if _, err := fmt.Sscanf(s, "%d/%d/%d", &t.Z, &t.X, &t.Y); err != nil {
		return tile.ID{}, fmt.Errorf("invalid tile %q: %w", s, err)
	}
	if !t.Valid() {
		return tile.ID{}, fmt.Errorf("invalid tile %q: out of range", s)
	}
	return t, nil
}

func (c *keyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() == 0 {
		log.Print(c.Usage())
		return subcommands.ExitUsageError
	}

	for _, arg := range f.Args() {
		if strings.Contains(arg, "/") {
			t, err := parseTile(arg)
			if err != nil {
				log.Println(err)
				return subcommands.ExitFailure
			}
			fmt.Printf("%v\t%v\n", t, t.Key())
			continue
		}

		key, err := tile.ParseKey(arg)
		if err != nil {
			log.Println(err)
			return subcommands.ExitFailure
		}
		t := tile.DecodeKey(key)
		if !t.Valid() {
			log.Printf("key %v decodes to out of range tile %v", key, t)
			return subcommands.ExitFailure
		}
		fmt.Printf("%v\t%v\tquadkey=%v\n", key, t, t.Quadkey())
	}

	return subcommands.ExitSuccess
}
