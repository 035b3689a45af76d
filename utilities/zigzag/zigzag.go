// Package zigzag maps signed integers onto unsigned ones so that values with a
// small magnitude, positive or negative, end up close to zero:
//
//	0 -> 0, -1 -> 1, 1 -> 2, -2 -> 3, 2 -> 4, ...
//
// The mapping is a bijection at every width, and a value encoded at one width
// has the same bit pattern as the same value encoded at any wider width. This
// lets the packers treat signed data exactly like unsigned data.
package zigzag

import (
	"unsafe"

	"golang.org/x/exp/constraints"
	"lukechampine.com/uint128"
)

// Encode maps a signed integer of any width to its zigzag form, returned in a
// uint64.
func Encode[T constraints.Signed](value T) uint64 {
	bits := uint(unsafe.Sizeof(value)) * 8
	mask := ^uint64(0) >> (64 - bits)
	return uint64((value<<1)^(value>>(bits-1))) & mask
}

// Decode reverses [Encode]. The result is truncated to the width of T, so
// callers must make sure the encoded value fits in T first.
func Decode[T constraints.Signed](encoded uint64) T {
	return T(int64(encoded>>1) ^ -int64(encoded&1))
}

// Encode128 maps a 128-bit two's complement integer to its zigzag form.
func Encode128(value uint128.Uint128) uint128.Uint128 {
	sign := uint128.Zero
	if value.Hi>>63 != 0 {
		sign = uint128.Max
	}
	return value.Lsh(1).Xor(sign)
}

// Decode128 reverses [Encode128], returning a 128-bit two's complement value.
func Decode128(encoded uint128.Uint128) uint128.Uint128 {
	sign := uint128.Zero
	if encoded.Lo&1 != 0 {
		sign = uint128.Max
	}
	return encoded.Rsh(1).Xor(sign)
}
