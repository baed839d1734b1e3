package cover

import "errors"

var (
	ErrUnsupportedGeometry = errors.New("tilecover: unsupported geometry")
	ErrInvalidZoomRange    = errors.New("tilecover: invalid zoom range")
	ErrInvalidCoordinate   = errors.New("tilecover: invalid coordinate")

	// ErrMalformedRing reports an odd number of scanline intersections,
	// which only happens for self-intersecting or otherwise non-simple rings.
	ErrMalformedRing = errors.New("tilecover: malformed ring")
)
