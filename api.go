// Package arrayobj is a self-describing binary format for scalars and
// N-dimensional arrays of integers, real numbers, complex numbers and strings.
//
// An [ArrayObject] is packed into a byte slice with [ArrayObject.Pack] and
// restored with [Unpack]. Packing picks the smallest of a few representations
// for the data (see the compression package) and appends a footer describing
// the type, format and shape, so no external schema is needed to read it back.
//
//	original := []uint32{1, 2, 3, 4}
//	packed, err := arrayobj.FromSlice(original).Pack()
//	...
//	unpacked, err := arrayobj.Unpack(packed)
//	...
//	restored, err := arrayobj.ToSlice[uint32](unpacked)
package arrayobj

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/dargueta/arrayobj/utilities/compression"
)

// DataType is the kind of elements stored in an array.
type DataType uint8

const (
	UnsignedInteger DataType = iota
	SignedInteger
	Real
	Complex
	String
)

func (t DataType) String() string {
	switch t {
	case UnsignedInteger:
		return "UnsignedInteger"
	case SignedInteger:
		return "SignedInteger"
	case Real:
		return "Real"
	case Complex:
		return "Complex"
	case String:
		return "String"
	default:
		return fmt.Sprintf("DataType(%d)", uint8(t))
	}
}

// ArrayObject is an array of elements of a single [DataType], with a shape.
//
// The elements are kept in a canonical, uncompressed layout: little endian,
// every element the same width. Signed integers are stored zigzag encoded,
// complex numbers as interleaved real and imaginary parts, and strings as UTF-8
// joined by a 0xFF byte.
type ArrayObject struct {
	data     []byte
	shape    []uint64
	dataType DataType
}

// New creates an array from elements already in the canonical layout described
// in [ArrayObject]. An empty shape means a scalar.
//
// `data` is used directly, not copied.
func New(dataType DataType, data []byte, shape []uint64) (*ArrayObject, error) {
	if len(shape) > MaxDimensions {
		return nil, ErrTooLargeDimension.WithMessage(
			fmt.Sprintf("expected at most %d, got %d", MaxDimensions, len(shape)))
	}

	count, ok := product(shape)
	if !ok {
		return nil, ErrNumberOfElementsMismatch.WithMessage(
			fmt.Sprintf("shape %v has too many elements", shape))
	}
	if err := checkLayout(dataType, data, count); err != nil {
		return nil, err
	}

	return &ArrayObject{
		data:     data,
		shape:    append([]uint64{}, shape...),
		dataType: dataType,
	}, nil
}

// checkLayout makes sure `data` is a valid canonical buffer of `count` elements.
func checkLayout(dataType DataType, data []byte, count uint64) error {
	switch dataType {
	case UnsignedInteger, SignedInteger, Real, Complex:
		if count == 0 {
			if len(data) != 0 {
				return ErrNumberOfElementsMismatch.WithMessage(
					fmt.Sprintf("empty array has %d bytes of data", len(data)))
			}
			return nil
		}

		components := count
		if dataType == Complex {
			components *= 2
		}
		if uint64(len(data))%components != 0 {
			return ErrNumberOfElementsMismatch.WithMessage(
				fmt.Sprintf("%d bytes can't be split into %d elements", len(data), count))
		}

		width := int(uint64(len(data)) / components)
		if !isValidWidth(dataType, width) {
			return ErrWrongDataType.WithMessage(
				fmt.Sprintf("%s elements can't be %d bytes wide", dataType, width))
		}
		return nil

	case String:
		if count == 0 {
			if len(data) != 0 {
				return ErrNumberOfElementsMismatch.WithMessage(
					fmt.Sprintf("empty array has %d bytes of data", len(data)))
			}
			return nil
		}

		found := uint64(bytes.Count(data, []byte{compression.Separator})) + 1
		if found != count {
			return ErrNumberOfElementsMismatch.WithMessage(
				fmt.Sprintf("expected %d strings, found %d", count, found))
		}
		for _, element := range compression.SplitJoined(data) {
			if !utf8.Valid(element) {
				return ErrWrongDataType.WithMessage(fmt.Sprintf("invalid UTF-8 in %q", element))
			}
		}
		return nil

	default:
		return ErrWrongDataType.WithMessage(fmt.Sprintf("unknown data type %d", uint8(dataType)))
	}
}

func isValidWidth(dataType DataType, width int) bool {
	switch dataType {
	case UnsignedInteger, SignedInteger:
		return compression.IsValidIntegerWidth(width)
	case Real, Complex:
		return width == 4 || width == 8
	default:
		return false
	}
}

// product returns the number of elements in an array of the given shape. The
// second return value is false if the product overflows.
func product(shape []uint64) (uint64, bool) {
	for _, dim := range shape {
		if dim == 0 {
			return 0, true
		}
	}

	total := uint64(1)
	for _, dim := range shape {
		if total > (^uint64(0))/dim {
			return 0, false
		}
		total *= dim
	}
	return total, true
}

// Len returns the total number of elements in the array. Scalars have one.
func (obj *ArrayObject) Len() int {
	count, _ := product(obj.shape)
	return int(count)
}

// Shape returns a copy of the shape of the array. Scalars have an empty shape.
func (obj *ArrayObject) Shape() []uint64 {
	return append([]uint64{}, obj.shape...)
}

// Dimension returns the number of dimensions of the array; 0 for scalars.
func (obj *ArrayObject) Dimension() int {
	return len(obj.shape)
}

// DataSize returns the size of the uncompressed elements, in bytes.
func (obj *ArrayObject) DataSize() int {
	return len(obj.data)
}

// DataType returns the type of the elements.
func (obj *ArrayObject) DataType() DataType {
	return obj.dataType
}

// Bits returns the number of bits each element is currently stored with. For
// complex numbers this is the width of one part. Strings don't have a width, so
// the second return value is false for them. Empty arrays report 0.
func (obj *ArrayObject) Bits() (int, bool) {
	if obj.dataType == String {
		return 0, false
	}
	return 8 * obj.elementWidth(), true
}

// elementWidth returns the width of a single element in bytes (of a single part
// for complex numbers), or 0 for empty arrays and strings.
func (obj *ArrayObject) elementWidth() int {
	count := obj.Len()
	if count == 0 || obj.dataType == String {
		return 0
	}
	if obj.dataType == Complex {
		count *= 2
	}
	return len(obj.data) / count
}
