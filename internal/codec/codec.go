// Package codec converts between little-endian byte strings and arbitrary-precision integers.
//
// Every value on the wire is a little-endian integer, while math/big works exclusively with
// big-endian byte strings, so all conversions reverse their inputs.
package codec

import (
	"math/big"
)

// Int decodes a little-endian byte string into a non-negative integer.
func Int(le []byte) *big.Int {
	return new(big.Int).SetBytes(Reverse(le))
}

// Bytes encodes n as a little-endian byte string exactly size bytes long. It panics if n is
// negative or does not fit.
func Bytes(n *big.Int, size int) []byte {
	if n.Sign() < 0 {
		panic("codec: negative integer")
	}

	b := make([]byte, size)
	n.FillBytes(b)

	return reverseInPlace(b)
}

// Reverse returns a reversed copy of b.
func Reverse(b []byte) []byte {
	c := make([]byte, len(b))
	copy(c, b)

	return reverseInPlace(c)
}

// Concat returns the concatenation of the given byte strings in a newly-allocated slice.
func Concat(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}

	b := make([]byte, 0, n)
	for _, p := range parts {
		b = append(b, p...)
	}

	return b
}

func reverseInPlace(b []byte) []byte {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}

	return b
}
