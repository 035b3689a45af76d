// Package varint implements the unsigned variable-length integer encoding used
// for array shapes: seven bits per byte, least significant group first, with
// the high bit of every byte except the last set as a continuation marker.
package varint

import (
	"errors"
	"fmt"
	"io"
)

const continuationBit = 0b1000_0000
const payloadMask = 0b0111_1111

// MaxEncodedLength is the largest number of bytes a single uint64 can occupy.
const MaxEncodedLength = 10

// ErrOverflow is returned when an encoded number doesn't fit in 64 bits.
var ErrOverflow = errors.New("varint overflows a 64-bit integer")

// Append encodes each number in order and appends the result to dst.
func Append(dst []byte, numbers ...uint64) []byte {
	for _, number := range numbers {
		for number >= continuationBit {
			dst = append(dst, byte(number)|continuationBit)
			number >>= 7
		}
		dst = append(dst, byte(number))
	}
	return dst
}

// Encode returns the concatenated encodings of all the given numbers.
func Encode(numbers []uint64) []byte {
	return Append(make([]byte, 0, len(numbers)*2), numbers...)
}

// EncodedLength returns the number of bytes [Append] would write for `number`.
func EncodedLength(number uint64) int {
	n := 1
	for number >= continuationBit {
		number >>= 7
		n++
	}
	return n
}

// Decode reads up to `maxCount` numbers from the beginning of `src`. It returns
// the numbers and the total number of bytes consumed.
//
// If `src` runs out before `maxCount` numbers have been read, the error wraps
// [io.ErrUnexpectedEOF].
func Decode(src []byte, maxCount int) ([]uint64, int, error) {
	return decode(func(i int) (byte, bool) {
		if i >= len(src) {
			return 0, false
		}
		return src[i], true
	}, maxCount)
}

// DecodeBackward is like [Decode] but reads bytes starting from the *end* of
// `src` and moving toward the beginning. This is how shapes are stored in a
// footer: the footer is written reversed, so reading it back to front restores
// the original order of the bytes.
//
// The number of bytes consumed is counted from the end of `src`.
func DecodeBackward(src []byte, maxCount int) ([]uint64, int, error) {
	return decode(func(i int) (byte, bool) {
		if i >= len(src) {
			return 0, false
		}
		return src[len(src)-1-i], true
	}, maxCount)
}

func decode(byteAt func(int) (byte, bool), maxCount int) ([]uint64, int, error) {
	numbers := make([]uint64, 0, maxCount)
	offset := 0

	for len(numbers) < maxCount {
		var number uint64
		shift := uint(0)

		for groupIndex := 0; ; groupIndex++ {
			currentByte, ok := byteAt(offset)
			if !ok {
				return numbers, offset, fmt.Errorf(
					"%w: number %d of %d is incomplete",
					io.ErrUnexpectedEOF,
					len(numbers)+1,
					maxCount,
				)
			}
			offset++

			if groupIndex == MaxEncodedLength-1 && currentByte > 1 {
				return numbers, offset, ErrOverflow
			}

			number |= uint64(currentByte&payloadMask) << shift
			shift += 7
			if currentByte&continuationBit == 0 {
				break
			}
		}
		numbers = append(numbers, number)
	}
	return numbers, offset, nil
}
