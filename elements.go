package arrayobj

import (
	"encoding/binary"
	"math"
	"math/bits"

	"github.com/dargueta/arrayobj/utilities/zigzag"
	"lukechampine.com/uint128"
)

// Int128 is a 128-bit two's complement signed integer.
type Int128 struct {
	Lo uint64
	Hi int64
}

// Int128From64 sign-extends `value` to 128 bits.
func Int128From64(value int64) Int128 {
	hi := int64(0)
	if value < 0 {
		hi = -1
	}
	return Int128{Lo: uint64(value), Hi: hi}
}

func (i Int128) asUnsigned() uint128.Uint128 {
	return uint128.New(i.Lo, uint64(i.Hi))
}

// String returns the value in base 10.
func (i Int128) String() string {
	if i.Hi >= 0 {
		return i.asUnsigned().String()
	}
	// Two's complement negation; can't overflow since the value is negative.
	magnitude := i.asUnsigned().Xor(uint128.Max).Add64(1)
	return "-" + magnitude.String()
}

type unsignedElement interface {
	uint8 | uint16 | uint32 | uint64 | uint
}

type signedElement interface {
	int8 | int16 | int32 | int64 | int
}

type realElement interface {
	float32 | float64
}

type complexElement interface {
	complex64 | complex128
}

// Element is the set of native types arrays can be created from and converted
// to.
type Element interface {
	unsignedElement | uint128.Uint128 |
		signedElement | Int128 |
		realElement | complexElement |
		string
}

// elementCodec describes how a native type maps to the canonical layout.
type elementCodec[T Element] struct {
	dataType DataType
	// width is the size of one element in bytes, or of one part for complex
	// numbers. It's 0 for strings.
	width int

	// appendValue writes a value in canonical form. Not used for strings.
	appendValue func(dst []byte, value T) []byte

	// fromWide converts an integer that's known to fit in T. For unsigned
	// targets it's the value itself, for signed targets its zigzag encoding.
	fromWide func(wide uint128.Uint128) T

	// fromParts converts a real or complex number read from an array.
	fromParts func(re, im float64) T

	toText   func(value T) string
	fromText func(text string) T
}

// codecFor returns the codec for T.
func codecFor[T Element]() elementCodec[T] {
	var zero T
	var codec any

	switch any(zero).(type) {
	case uint8:
		codec = unsignedCodec[uint8](1)
	case uint16:
		codec = unsignedCodec[uint16](2)
	case uint32:
		codec = unsignedCodec[uint32](4)
	case uint64:
		codec = unsignedCodec[uint64](8)
	case uint:
		codec = unsignedCodec[uint](bits.UintSize / 8)
	case uint128.Uint128:
		codec = elementCodec[uint128.Uint128]{
			dataType:    UnsignedInteger,
			width:       16,
			appendValue: appendWide[uint128.Uint128](16, func(v uint128.Uint128) uint128.Uint128 { return v }),
			fromWide:    func(wide uint128.Uint128) uint128.Uint128 { return wide },
		}
	case int8:
		codec = signedCodec[int8](1)
	case int16:
		codec = signedCodec[int16](2)
	case int32:
		codec = signedCodec[int32](4)
	case int64:
		codec = signedCodec[int64](8)
	case int:
		codec = signedCodec[int](bits.UintSize / 8)
	case Int128:
		codec = elementCodec[Int128]{
			dataType: SignedInteger,
			width:    16,
			appendValue: appendWide[Int128](16, func(v Int128) uint128.Uint128 {
				return zigzag.Encode128(v.asUnsigned())
			}),
			fromWide: func(wide uint128.Uint128) Int128 {
				decoded := zigzag.Decode128(wide)
				return Int128{Lo: decoded.Lo, Hi: int64(decoded.Hi)}
			},
		}
	case float32:
		codec = elementCodec[float32]{
			dataType: Real,
			width:    4,
			appendValue: func(dst []byte, v float32) []byte {
				return binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
			},
			fromParts: func(re, _ float64) float32 { return float32(re) },
		}
	case float64:
		codec = elementCodec[float64]{
			dataType: Real,
			width:    8,
			appendValue: func(dst []byte, v float64) []byte {
				return binary.LittleEndian.AppendUint64(dst, math.Float64bits(v))
			},
			fromParts: func(re, _ float64) float64 { return re },
		}
	case complex64:
		codec = elementCodec[complex64]{
			dataType: Complex,
			width:    4,
			appendValue: func(dst []byte, v complex64) []byte {
				dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(real(v)))
				return binary.LittleEndian.AppendUint32(dst, math.Float32bits(imag(v)))
			},
			fromParts: func(re, im float64) complex64 { return complex(float32(re), float32(im)) },
		}
	case complex128:
		codec = elementCodec[complex128]{
			dataType: Complex,
			width:    8,
			appendValue: func(dst []byte, v complex128) []byte {
				dst = binary.LittleEndian.AppendUint64(dst, math.Float64bits(real(v)))
				return binary.LittleEndian.AppendUint64(dst, math.Float64bits(imag(v)))
			},
			fromParts: func(re, im float64) complex128 { return complex(re, im) },
		}
	case string:
		codec = elementCodec[string]{
			dataType: String,
			toText:   func(v string) string { return v },
			fromText: func(text string) string { return text },
		}
	}
	return codec.(elementCodec[T])
}

func unsignedCodec[T unsignedElement](width int) elementCodec[T] {
	return elementCodec[T]{
		dataType: UnsignedInteger,
		width:    width,
		appendValue: appendWide[T](width, func(v T) uint128.Uint128 {
			return uint128.From64(uint64(v))
		}),
		fromWide: func(wide uint128.Uint128) T { return T(wide.Lo) },
	}
}

func signedCodec[T signedElement](width int) elementCodec[T] {
	return elementCodec[T]{
		dataType: SignedInteger,
		width:    width,
		appendValue: appendWide[T](width, func(v T) uint128.Uint128 {
			return uint128.From64(zigzag.Encode(v))
		}),
		fromWide: func(wide uint128.Uint128) T { return zigzag.Decode[T](wide.Lo) },
	}
}

// appendWide returns a function appending the lowest `width` bytes of the
// canonical form of an integer.
func appendWide[T Element](width int, toWide func(T) uint128.Uint128) func([]byte, T) []byte {
	return func(dst []byte, value T) []byte {
		var buffer [16]byte
		toWide(value).PutBytes(buffer[:])
		return append(dst, buffer[:width]...)
	}
}

// readWide reads a little-endian unsigned integer of up to 16 bytes.
func readWide(element []byte) uint128.Uint128 {
	var buffer [16]byte
	copy(buffer[:], element)
	return uint128.FromBytes(buffer[:])
}

// readFloat reads one little-endian float of 4 or 8 bytes.
func readFloat(element []byte) float64 {
	if len(element) == 4 {
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(element)))
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(element))
}

// bitLength returns the number of bits needed to represent `value`.
func bitLength(value uint128.Uint128) int {
	if value.Hi != 0 {
		return 64 + bits.Len64(value.Hi)
	}
	return bits.Len64(value.Lo)
}
