package arrayobj

import (
	"fmt"

	"github.com/dargueta/arrayobj/utilities/varint"
)

// appendFooter appends the footer of an array with the given shape to `dst`.
//
// The footer is the trailer byte followed by the shape as varints, written in
// reverse. A decoder can thus pop the trailer from the end, learn the number of
// dimensions, and read that many varints going backward.
func appendFooter(dst []byte, trailer byte, shape []uint64) []byte {
	encodedShape := varint.Encode(shape)
	for i := len(encodedShape) - 1; i >= 0; i-- {
		dst = append(dst, encodedShape[i])
	}
	return append(dst, trailer)
}

func makeTrailer(class, format byte, shape []uint64) byte {
	return class | format | byte(len(shape))
}

func isShortClass(class byte) bool {
	return class == ClassShortUnsignedInteger || class == ClassShortSignedInteger
}

// readFooter splits a packed array into its payload, trailer byte and shape. The
// shape is nil for the short classes. The payload aliases `packed`.
func readFooter(packed []byte) ([]byte, byte, []uint64, error) {
	if len(packed) == 0 {
		return nil, 0, nil, ErrUnableToDecode.WithMessage("input is empty")
	}

	trailer := packed[len(packed)-1]
	rest := packed[:len(packed)-1]
	if isShortClass(trailer & TypeMask) {
		return rest, trailer, nil, nil
	}

	dimensions := int(trailer & DimensionMask)
	shape, consumed, err := varint.DecodeBackward(rest, dimensions)
	if err != nil {
		return nil, 0, nil, ErrUnableToDecode.Wrap(
			fmt.Errorf("failed to read %d-dimensional shape: %w", dimensions, err))
	}
	return rest[:len(rest)-consumed], trailer, shape, nil
}

// classFor returns the footer type class of a non-short array.
func classFor(dataType DataType) byte {
	switch dataType {
	case UnsignedInteger:
		return ClassUnsignedInteger
	case SignedInteger:
		return ClassSignedInteger
	case Real:
		return ClassReal
	case Complex:
		return ClassComplex
	default:
		return ClassString
	}
}
