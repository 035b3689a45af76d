package compression

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/boljen/go-bitmap"
)

// FloatOption identifies how an array of floating-point numbers is packed.
type FloatOption int

const (
	// FloatAsIs stores the elements unmodified.
	FloatAsIs FloatOption = iota
	// FloatFixedLength stores every element in single precision.
	FloatFixedLength
	// FloatVariableLength stores each element in single or double precision,
	// whichever is exact. See [PackVariableFloat].
	FloatVariableLength
)

// Width codes stored in the two-bit slots of a variable-length group header.
const (
	floatCodeSingle = 1
	floatCodeDouble = 2
)

// FloatPlan is the result of [InspectFloat].
type FloatPlan struct {
	Option FloatOption
	// Width is the new element width for [FloatFixedLength].
	Width int
	// Size is the total payload size in bytes for [FloatVariableLength].
	Size int

	// narrow has a bit set for every element that converts to single precision
	// without loss.
	narrow bitmap.Bitmap
}

// narrowDouble returns the single-precision form of the little-endian double in
// `element`, if and only if converting it back gives exactly the same bits.
func narrowDouble(element []byte) (float32, bool) {
	if element[0] != 0 {
		return 0, false
	}
	bits := binary.LittleEndian.Uint64(element)
	single := float32(math.Float64frombits(bits))
	if math.Float64bits(float64(single)) != bits {
		return 0, false
	}
	return single, true
}

// InspectFloat decides the cheapest way to store the little-endian floats in
// `data`, each of which is `width` bytes (4 or 8). Complex arrays are inspected
// as a flat array of their real and imaginary parts.
func InspectFloat(data []byte, width int) FloatPlan {
	if width == 4 || len(data) == 0 {
		return FloatPlan{Option: FloatAsIs}
	}

	count := len(data) / width
	narrow := bitmap.New(count)
	narrowCount := 0
	for i := 0; i < count; i++ {
		if _, ok := narrowDouble(data[i*width : (i+1)*width]); ok {
			narrow.Set(i, true)
			narrowCount++
		}
	}

	fixedWidth := 4
	if narrowCount < count {
		fixedWidth = 8
	}
	fixedSize := fixedWidth * count
	variableSize := 4*narrowCount + 8*(count-narrowCount) + groupHeaderCount(count)

	if fixedSize > variableSize {
		if variableSize < len(data) {
			return FloatPlan{Option: FloatVariableLength, Size: variableSize, narrow: narrow}
		}
	} else if fixedSize < len(data) {
		return FloatPlan{Option: FloatFixedLength, Width: fixedWidth, narrow: narrow}
	}
	return FloatPlan{Option: FloatAsIs}
}

// PackFixedFloat converts every double in `data` to single precision. Only
// narrowing from 8 to 4 bytes is supported.
func PackFixedFloat(data []byte, width, newWidth int) ([]byte, error) {
	if width != 8 || newWidth != 4 {
		return nil, fmt.Errorf(
			"%w: can't pack %d-byte floats into %d bytes", ErrSizeMismatch, width, newWidth)
	}

	count := len(data) / width
	packed := make([]byte, count*newWidth)
	for i := 0; i < count; i++ {
		double := math.Float64frombits(binary.LittleEndian.Uint64(data[i*width:]))
		binary.LittleEndian.PutUint32(packed[i*newWidth:], math.Float32bits(float32(double)))
	}
	return packed, nil
}

// PackVariableFloat stores every double in `data` in single precision where
// that's lossless, and in double precision otherwise.
//
// As with integers, elements are written in groups of four preceded by a header
// byte with a two-bit code per element, first element in the highest bits: 1
// for single precision, 2 for double precision. Unused slots are zero.
//
// `plan` must come from [InspectFloat] on the same data.
func PackVariableFloat(data []byte, plan FloatPlan) ([]byte, error) {
	const width = 8
	count := len(data) / width
	writer := newPayloadWriter(plan.Size)

	for groupStart := 0; groupStart < count; groupStart += 4 {
		groupEnd := groupStart + 4
		if groupEnd > count {
			groupEnd = count
		}

		header := byte(0)
		for i := groupStart; i < groupEnd; i++ {
			code := byte(floatCodeDouble)
			if plan.narrow.Get(i) {
				code = floatCodeSingle
			}
			header |= code << (6 - 2*(i-groupStart))
		}
		writer.PutByte(header)

		for i := groupStart; i < groupEnd; i++ {
			element := data[i*width : (i+1)*width]
			if plan.narrow.Get(i) {
				single, _ := narrowDouble(element)
				writer.Put(binary.LittleEndian.AppendUint32(nil, math.Float32bits(single)))
			} else {
				writer.Put(element)
			}
		}
	}
	return writer.Finish()
}

// UnpackVariableFloat decodes `count` elements written by [PackVariableFloat].
// If any element is in double precision, all single-precision elements are
// widened so the result has a uniform width.
func UnpackVariableFloat(packed []byte, count int) ([]byte, error) {
	if count > len(packed)/4 {
		return nil, fmt.Errorf(
			"%w: %d bytes can't hold %d floats", ErrMalformedPayload, len(packed), count)
	}

	reader := newCursor(packed)
	elements := make([][]byte, 0, count)
	hasDouble := false

	for len(elements) < count {
		header, err := reader.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("missing header for element %d: %w", len(elements), err)
		}

		for slot := 0; slot < 4 && len(elements) < count; slot++ {
			var element []byte
			switch code := (header >> (6 - 2*slot)) & 0b11; code {
			case floatCodeSingle:
				element, err = reader.Next(4)
			case floatCodeDouble:
				element, err = reader.Next(8)
				hasDouble = true
			default:
				err = fmt.Errorf("%w: invalid float width code %d", ErrMalformedPayload, code)
			}
			if err != nil {
				return nil, fmt.Errorf("failed to read element %d: %w", len(elements), err)
			}
			elements = append(elements, element)
		}
	}

	if err := reader.expectExhausted(); err != nil {
		return nil, err
	}

	width := 4
	if hasDouble {
		width = 8
	}
	unpacked := make([]byte, 0, width*count)
	for _, element := range elements {
		if len(element) < width {
			single := math.Float32frombits(binary.LittleEndian.Uint32(element))
			unpacked = binary.LittleEndian.AppendUint64(unpacked, math.Float64bits(float64(single)))
		} else {
			unpacked = append(unpacked, element...)
		}
	}
	return unpacked, nil
}
