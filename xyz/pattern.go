// Package xyz stores a cover as a directory tree, one file per tile,
// with paths like "/z/x/y.geojson".
package xyz

import (
	"cmp"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/eak1mov/go-tilecover/tile"
)

var ErrInvalidPattern = errors.New("tilecover: invalid file pattern")

var placeholders = [...]string{"{x}", "{y}", "{z}"}

// pattern maps tiles to file paths and back.
type pattern struct {
	template string
	re       *regexp.Regexp
}

func parsePattern(template string) (*pattern, error) {
	expr := regexp.QuoteMeta(template)
	for _, p := range placeholders {
		if n := strings.Count(template, p); n != 1 {
			return nil, fmt.Errorf("%w: placeholder %v found %d times in %q", ErrInvalidPattern, p, n, template)
		}
		expr = strings.Replace(expr, regexp.QuoteMeta(p), "(?P<"+p[1:2]+`>\d+)`, 1)
	}
	re, err := regexp.Compile("^" + expr + "$")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}
	return &pattern{template: template, re: re}, nil
}

func (p *pattern) path(tileID tile.ID) string {
	return strings.NewReplacer(
		"{x}", strconv.FormatUint(uint64(tileID.X), 10),
		"{y}", strconv.FormatUint(uint64(tileID.Y), 10),
		"{z}", strconv.FormatUint(uint64(tileID.Z), 10),
	).Replace(p.template)
}

// root is the deepest directory shared by every tile path.
func (p *pattern) root() string {
	a, b := p.path(tile.ID{}), p.path(tile.ID{X: 1, Y: 1, Z: 1})
	for a != b {
		a, b = filepath.Dir(a), filepath.Dir(b)
	}
	return a
}

// parse returns ok == false for paths the pattern does not produce.
func (p *pattern) parse(filePath string) (tileID tile.ID, ok bool, err error) {
	m := p.re.FindStringSubmatch(filePath)
	if m == nil {
		return tile.ID{}, false, nil
	}
	coord := func(name string) uint32 {
		v, perr := strconv.ParseUint(m[p.re.SubexpIndex(name)], 10, 32)
		err = cmp.Or(err, perr)
		return uint32(v)
	}
	tileID = tile.ID{X: coord("x"), Y: coord("y"), Z: coord("z")}
	if err != nil {
		return tile.ID{}, false, fmt.Errorf("parse tile path %v: %w", filePath, err)
	}
	if !tileID.Valid() {
		return tile.ID{}, false, fmt.Errorf("tile path %v: invalid tile %v", filePath, tileID)
	}
	return tileID, true, nil
}
