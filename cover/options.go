package cover

import (
	"fmt"
	"log/slog"

	"github.com/eak1mov/go-tilecover/tile"
)

// Limits bounds the zoom range of a cover. Coverage is computed at MaxZoom,
// complete groups of four sibling tiles are then merged up to MinZoom.
type Limits struct {
	MinZoom uint32
	MaxZoom uint32
}

// SingleZoom returns limits that compute coverage at zoom z without merging.
func SingleZoom(z uint32) Limits {
	return Limits{MinZoom: z, MaxZoom: z}
}

type config struct {
	logger      *slog.Logger
	maxZoomSpan uint32
	strictRings bool
}

type Option func(*config)

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithMaxZoomSpan rejects limits with MaxZoom-MinZoom above span.
func WithMaxZoomSpan(span uint32) Option {
	return func(c *config) { c.maxZoomSpan = span }
}

// WithStrictRings makes polygons with an odd number of scanline
// intersections fail with ErrMalformedRing. By default a warning is
// logged and the unpaired intersection is ignored.
func WithStrictRings() Option {
	return func(c *config) { c.strictRings = true }
}

func newConfig(opts []Option) config {
	c := config{
		logger:      slog.New(slog.DiscardHandler),
		maxZoomSpan: tile.MaxZoom,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c *config) validate(limits Limits) error {
	if limits.MinZoom > limits.MaxZoom {
		return fmt.Errorf("%w: min zoom %d above max zoom %d", ErrInvalidZoomRange, limits.MinZoom, limits.MaxZoom)
	}
	if limits.MaxZoom > tile.MaxZoom {
		return fmt.Errorf("%w: max zoom %d above %d", ErrInvalidZoomRange, limits.MaxZoom, tile.MaxZoom)
	}
	if span := limits.MaxZoom - limits.MinZoom; span > c.maxZoomSpan {
		return fmt.Errorf("%w: zoom span %d above %d", ErrInvalidZoomRange, span, c.maxZoomSpan)
	}
	return nil
}
