package arrayobj

import (
	"fmt"
	"strings"

	"github.com/dargueta/arrayobj/utilities/compression"
	"lukechampine.com/uint128"
)

// FromScalar creates a scalar (zero-dimensional) array holding `value`.
//
// Strings that aren't valid UTF-8 have each invalid sequence replaced with
// U+FFFD, the same as converting them to a slice of runes would.
func FromScalar[T Element](value T) *ArrayObject {
	return fromValues([]T{value}, nil)
}

// FromSlice creates a one-dimensional array from `values`. The slice isn't
// retained.
func FromSlice[T Element](values []T) *ArrayObject {
	return fromValues(values, []uint64{uint64(len(values))})
}

// FromShaped creates an array of the given shape from `values`, which are in
// row-major order.
func FromShaped[T Element](values []T, shape []uint64) (*ArrayObject, error) {
	if err := checkShape(shape, uint64(len(values))); err != nil {
		return nil, err
	}
	return fromValues(values, shape), nil
}

// FromParts creates a one-dimensional complex array from separate real and
// imaginary parts.
func FromParts[T realElement](re, im []T) (*ArrayObject, error) {
	return FromPartsShaped(re, im, []uint64{uint64(len(re))})
}

// FromPartsShaped is like [FromParts] but creates an array of the given shape.
func FromPartsShaped[T realElement](re, im []T, shape []uint64) (*ArrayObject, error) {
	if len(re) != len(im) {
		return nil, ErrVectorLengthMismatch.WithMessage(
			fmt.Sprintf("%d real parts, %d imaginary parts", len(re), len(im)))
	}
	if err := checkShape(shape, uint64(len(re))); err != nil {
		return nil, err
	}

	codec := codecFor[T]()
	data := make([]byte, 0, 2*codec.width*len(re))
	for i := range re {
		data = codec.appendValue(data, re[i])
		data = codec.appendValue(data, im[i])
	}
	return &ArrayObject{
		data:     data,
		shape:    append([]uint64{}, shape...),
		dataType: Complex,
	}, nil
}

func checkShape(shape []uint64, count uint64) error {
	if len(shape) > MaxDimensions {
		return ErrTooLargeDimension.WithMessage(
			fmt.Sprintf("expected at most %d, got %d", MaxDimensions, len(shape)))
	}
	expected, ok := product(shape)
	if !ok || expected != count {
		return ErrNumberOfElementsMismatch.WithMessage(
			fmt.Sprintf("shape %v doesn't hold %d elements", shape, count))
	}
	return nil
}

func fromValues[T Element](values []T, shape []uint64) *ArrayObject {
	codec := codecFor[T]()
	obj := &ArrayObject{
		shape:    append([]uint64{}, shape...),
		dataType: codec.dataType,
	}

	if codec.dataType == String {
		parts := make([]string, len(values))
		for i, value := range values {
			parts[i] = strings.ToValidUTF8(codec.toText(value), "\uFFFD")
		}
		obj.data = []byte(strings.Join(parts, string([]byte{compression.Separator})))
		return obj
	}

	size := codec.width * len(values)
	if codec.dataType == Complex {
		size *= 2
	}
	obj.data = make([]byte, 0, size)
	for _, value := range values {
		obj.data = codec.appendValue(obj.data, value)
	}
	return obj
}

////////////////////////////////////////////////////////////////////////////////

// ToScalar converts a zero-dimensional array to a native value.
func ToScalar[T Element](obj *ArrayObject, options ...ConvertOption) (T, error) {
	var zero T
	if obj.Dimension() != 0 {
		return zero, ErrWrongDataType.WithMessage(
			fmt.Sprintf("expected a scalar, got a %d-dimensional array", obj.Dimension()))
	}
	values, err := toValues[T](obj, newConvertOptions(options))
	if err != nil {
		return zero, err
	}
	return values[0], nil
}

// ToSlice converts a one-dimensional array to a slice of native values.
func ToSlice[T Element](obj *ArrayObject, options ...ConvertOption) ([]T, error) {
	if obj.Dimension() != 1 {
		return nil, ErrWrongDataType.WithMessage(
			fmt.Sprintf("expected a 1-dimensional array, got %d dimensions", obj.Dimension()))
	}
	return toValues[T](obj, newConvertOptions(options))
}

// ToShaped converts an array with at least one dimension to native values in
// row-major order, and returns its shape.
func ToShaped[T Element](obj *ArrayObject, options ...ConvertOption) ([]T, []uint64, error) {
	if obj.Dimension() == 0 {
		return nil, nil, ErrWrongDataType.WithMessage("expected an array, got a scalar")
	}
	values, err := toValues[T](obj, newConvertOptions(options))
	if err != nil {
		return nil, nil, err
	}
	return values, obj.Shape(), nil
}

// ToParts splits a complex array into its real and imaginary parts, and returns
// its shape.
func ToParts[T realElement](obj *ArrayObject, options ...ConvertOption) (re, im []T, shape []uint64, err error) {
	if obj.dataType != Complex {
		return nil, nil, nil, ErrWrongDataType.WithMessage(
			fmt.Sprintf("expected Complex, got %s", obj.dataType))
	}

	codec := codecFor[T]()
	storedWidth := obj.elementWidth()
	if err := checkFloatWidth(storedWidth, codec.width, newConvertOptions(options)); err != nil {
		return nil, nil, nil, err
	}

	count := obj.Len()
	re = make([]T, count)
	im = make([]T, count)
	for i := 0; i < count; i++ {
		offset := 2 * i * storedWidth
		re[i] = codec.fromParts(readFloat(obj.data[offset:offset+storedWidth]), 0)
		im[i] = codec.fromParts(readFloat(obj.data[offset+storedWidth:offset+2*storedWidth]), 0)
	}
	return re, im, obj.Shape(), nil
}

func toValues[T Element](obj *ArrayObject, options convertOptions) ([]T, error) {
	codec := codecFor[T]()
	count := obj.Len()

	switch codec.dataType {
	case UnsignedInteger, SignedInteger:
		if obj.dataType != UnsignedInteger && obj.dataType != SignedInteger {
			return nil, ErrWrongDataType.WithMessage(
				fmt.Sprintf("can't convert %s to an integer", obj.dataType))
		}
		return toIntegers(obj, codec)

	case Real, Complex:
		if obj.dataType != codec.dataType {
			return nil, ErrWrongDataType.WithMessage(
				fmt.Sprintf("can't convert %s to %s", obj.dataType, codec.dataType))
		}
		storedWidth := obj.elementWidth()
		if err := checkFloatWidth(storedWidth, codec.width, options); err != nil {
			return nil, err
		}

		stride := storedWidth
		if codec.dataType == Complex {
			stride *= 2
		}
		values := make([]T, count)
		for i := range values {
			element := obj.data[i*stride : (i+1)*stride]
			re := readFloat(element[:storedWidth])
			im := 0.0
			if codec.dataType == Complex {
				im = readFloat(element[storedWidth:])
			}
			values[i] = codec.fromParts(re, im)
		}
		return values, nil

	default:
		if obj.dataType != String {
			return nil, ErrWrongDataType.WithMessage(
				fmt.Sprintf("can't convert %s to a string", obj.dataType))
		}
		values := make([]T, 0, count)
		if count == 0 {
			return values, nil
		}
		for _, part := range compression.SplitJoined(obj.data) {
			values = append(values, codec.fromText(string(part)))
		}
		if len(values) != count {
			return nil, ErrInvariantViolation.WithMessage(
				fmt.Sprintf("expected %d strings, found %d", count, len(values)))
		}
		return values, nil
	}
}

// checkFloatWidth fails if converting floats stored with `storedWidth` bytes to
// `targetWidth` bytes isn't allowed.
func checkFloatWidth(storedWidth, targetWidth int, options convertOptions) error {
	if storedWidth > targetWidth && !options.allowLossyFloat {
		return ErrLossyConversion.WithMessage(
			fmt.Sprintf("data is %d bits, requested %d bits", 8*storedWidth, 8*targetWidth))
	}
	return nil
}

// toIntegers converts every integer in `obj` to T, failing if any of them is
// out of T's range.
func toIntegers[T Element](obj *ArrayObject, codec elementCodec[T]) ([]T, error) {
	count := obj.Len()
	values := make([]T, count)
	if count == 0 {
		return values, nil
	}

	storedWidth := obj.elementWidth()
	if !compression.IsValidIntegerWidth(storedWidth) {
		return nil, ErrInvariantViolation.WithMessage(
			fmt.Sprintf("integers can't be %d bytes wide", storedWidth))
	}

	targetBits := 8 * codec.width
	for i := range values {
		stored := readWide(obj.data[i*storedWidth : (i+1)*storedWidth])

		magnitude, negative := stored, false
		if obj.dataType == SignedInteger {
			negative = stored.Lo&1 == 1
			magnitude = stored.Rsh(1)
			if negative {
				magnitude = magnitude.Add64(1)
			}
		}

		if !integerFits(magnitude, negative, targetBits, codec.dataType == SignedInteger) {
			sign := ""
			if negative {
				sign = "-"
			}
			return nil, ErrIncompatibleConversion.WithMessage(
				fmt.Sprintf(
					"element %d (%s%s, stored as %d-bit %s) doesn't fit in %d bits",
					i,
					sign,
					magnitude.String(),
					8*storedWidth,
					obj.dataType,
					targetBits,
				),
			)
		}

		wide := magnitude
		if codec.dataType == SignedInteger {
			// Zigzag encode again: 2m for m >= 0, 2(m-1) + 1 for -m.
			if negative {
				wide = magnitude.Sub64(1).Lsh(1).Add64(1)
			} else {
				wide = magnitude.Lsh(1)
			}
		}
		values[i] = codec.fromWide(wide)
	}
	return values, nil
}

// integerFits reports whether the integer with the given magnitude and sign is
// representable in `bits` bits.
func integerFits(magnitude uint128.Uint128, negative bool, bits int, signed bool) bool {
	if !signed {
		return !negative && bitLength(magnitude) <= bits
	}
	if negative {
		// -2^(bits-1) is the smallest value.
		return bitLength(magnitude.Sub64(1)) <= bits-1
	}
	return bitLength(magnitude) <= bits-1
}
