package tile

import (
	"cmp"
	"errors"
	"fmt"
	"math/big"
)

// Key is a packed tile identifier, the unsigned integer (dim*y + x)*32 + z
// with dim = 2*2^z. Zoom takes the low 5 bits, so z must stay below 32.
//
// The doubled dim keeps keys of off-grid coordinates apart, at the price of
// one extra bit per axis: from zoom 30 on the value no longer fits in 64 bits,
// so Key holds it as a 128-bit pair. Keys are comparable and ordered.
type Key struct {
	hi uint64
	lo uint64
}

const zoomBits = 5

var ErrInvalidKey = errors.New("tilecover: invalid tile key")

// EncodeKey packs a tile coordinate into a Key.
// It panics if the coordinate is outside the grid of its zoom.
func EncodeKey(t ID) Key {
	if !t.Valid() {
		panic(fmt.Sprintf("tilecover: tile %v out of range", t))
	}
	shift := uint(t.Z) + 1 + zoomBits // log2(dim * 32)
	y := uint64(t.Y)
	return Key{
		hi: y >> (64 - shift),
		lo: y<<shift | uint64(t.X)<<zoomBits | uint64(t.Z),
	}
}

// DecodeKey unpacks a Key. DecodeKey(EncodeKey(t)) == t for every valid t.
func DecodeKey(k Key) ID {
	z := uint(k.lo & (1<<zoomBits - 1))
	dimBits := z + 1
	mask := uint64(1)<<dimBits - 1

	xyLo := k.lo>>zoomBits | k.hi<<(64-zoomBits)
	xyHi := k.hi >> zoomBits

	x := xyLo & mask
	y := (xyLo>>dimBits | xyHi<<(64-dimBits)) & mask
	return ID{X: uint32(x), Y: uint32(y), Z: uint32(z)}
}

// Key is a shorthand for EncodeKey(t).
func (t ID) Key() Key {
	return EncodeKey(t)
}

func (k Key) Compare(other Key) int {
	if c := cmp.Compare(k.hi, other.hi); c != 0 {
		return c
	}
	return cmp.Compare(k.lo, other.lo)
}

func (k Key) bigInt() *big.Int {
	v := new(big.Int).SetUint64(k.hi)
	v.Lsh(v, 64)
	return v.Or(v, new(big.Int).SetUint64(k.lo))
}

// String returns the decimal representation of the key.
func (k Key) String() string {
	return k.bigInt().String()
}

// ParseKey parses a decimal key as produced by Key.String.
func ParseKey(s string) (Key, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 || v.BitLen() > 128 {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	lo := new(big.Int).And(v, new(big.Int).SetUint64(^uint64(0)))
	return Key{hi: new(big.Int).Rsh(v, 64).Uint64(), lo: lo.Uint64()}, nil
}
