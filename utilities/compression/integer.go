package compression

import (
	"fmt"
)

// IntegerOption identifies how an integer array is packed.
type IntegerOption int

const (
	// IntegerAsIs stores the elements unmodified.
	IntegerAsIs IntegerOption = iota
	// IntegerFixedLength stores every element with the same, smaller width.
	IntegerFixedLength
	// IntegerVariableLength picks a width per element, see [PackVariableInteger].
	IntegerVariableLength
	// IntegerShort embeds a scalar below 32 directly in the footer byte.
	IntegerShort
	// IntegerShortVariable stores a single element with its high zero bytes
	// trimmed off.
	IntegerShortVariable
)

// ShortValueLimit is the exclusive upper bound for values that fit in the
// footer byte.
const ShortValueLimit = 32

// Width codes stored in the two-bit slots of a variable-length group header.
const (
	integerCode1Byte = 0
	integerCode2Byte = 1
	integerCode4Byte = 2
	integerCode8Byte = 3
)

// escapeBit marks the eighth payload byte of a variable-length element as an
// escape holding the element's true width instead of data.
const escapeBit = 0b1000_0000

// fixedWidths lists the element widths an integer array can be stored with,
// indexed by size class.
var fixedWidths = [...]int{1, 2, 4, 8, 16}

// IntegerPlan is the result of [InspectInteger].
type IntegerPlan struct {
	Option IntegerOption
	// Width is the new element width for [IntegerFixedLength].
	Width int
	// Size is the total payload size in bytes for [IntegerVariableLength].
	Size int
}

// IsValidIntegerWidth reports whether `width` is a width integers can be
// stored with.
func IsValidIntegerWidth(width int) bool {
	for _, w := range fixedWidths {
		if w == width {
			return true
		}
	}
	return false
}

// MinimalWidth returns the number of bytes needed to hold the little-endian
// unsigned integer in `element`, i.e. its length without high zero bytes. Zero
// needs one byte.
func MinimalWidth(element []byte) int {
	for i := len(element) - 1; i > 0; i-- {
		if element[i] != 0 {
			return i + 1
		}
	}
	return 1
}

// sizeClass maps a minimal width to an index into fixedWidths.
func sizeClass(minWidth int) int {
	switch {
	case minWidth == 1:
		return 0
	case minWidth == 2:
		return 1
	case minWidth <= 4:
		return 2
	case minWidth <= 8:
		return 3
	default:
		return 4
	}
}

// variableElementSize returns the number of bytes an element with the given
// minimal width occupies in variable-length form.
func variableElementSize(element []byte, minWidth int) int {
	switch sizeClass(minWidth) {
	case 0:
		return 1
	case 1:
		return 2
	case 2:
		return 4
	case 3:
		if element[7]&escapeBit != 0 {
			// The eighth byte would be mistaken for an escape, so it needs one.
			return 9
		}
		return 8
	default:
		return minWidth + 1
	}
}

// groupHeaderCount returns the number of header bytes needed by a variable-length
// payload of `count` elements.
func groupHeaderCount(count int) int {
	return (count + 3) / 4
}

// InspectInteger decides the cheapest way to store the unsigned little-endian
// integers in `data`, each of which is `width` bytes. `shape` is the shape of
// the array; an empty shape means a scalar. Signed integers must be zigzag
// encoded beforehand.
//
// `data` must contain at least one element.
func InspectInteger(data []byte, width int, shape []uint64) IntegerPlan {
	if len(shape) == 0 && len(data) > 0 && data[0] < ShortValueLimit && isZero(data[1:]) {
		return IntegerPlan{Option: IntegerShort}
	}

	count := len(data) / width
	if count == 1 && data[len(data)-1] == 0 {
		return IntegerPlan{Option: IntegerShortVariable}
	}

	largestClass := 0
	variableSize := groupHeaderCount(count)
	for offset := 0; offset < len(data); offset += width {
		element := data[offset : offset+width]
		minWidth := MinimalWidth(element)

		class := sizeClass(minWidth)
		if class > largestClass {
			largestClass = class
		}
		variableSize += variableElementSize(element, minWidth)
	}

	fixedWidth := fixedWidths[largestClass]
	fixedSize := fixedWidth * count

	if fixedSize > variableSize {
		if variableSize < len(data) {
			return IntegerPlan{Option: IntegerVariableLength, Size: variableSize}
		}
	} else if fixedSize < len(data) {
		return IntegerPlan{Option: IntegerFixedLength, Width: fixedWidth}
	}
	return IntegerPlan{Option: IntegerAsIs}
}

func isZero(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return false
		}
	}
	return true
}

// PackFixedInteger truncates every `width`-byte element in `data` to its lowest
// `newWidth` bytes. The caller is responsible for making sure no element loses
// significant bytes.
func PackFixedInteger(data []byte, width, newWidth int) []byte {
	count := len(data) / width
	packed := make([]byte, 0, count*newWidth)
	for offset := 0; offset < len(data); offset += width {
		packed = append(packed, data[offset:offset+newWidth]...)
	}
	return packed
}

// PackVariableInteger writes every element of `data` with its own width.
//
// Elements are written in groups of four. Each group starts with a header byte
// holding a two-bit width code for each element, first element in the highest
// bits: 0 for 1 byte, 1 for 2 bytes, 2 for 4 bytes, and 3 for 8 or more bytes.
// Unused slots in the last group are zero.
//
// Elements with code 3 need special handling. If the element is wider than 8
// bytes, or its eighth byte has the high bit set, the first seven bytes are
// written, then an escape byte holding the element's true width with the high
// bit set, then the remaining bytes. A decoder can thus tell an escape apart
// from data by looking at the high bit of the eighth byte.
//
// `size` must be the size returned by [InspectInteger].
func PackVariableInteger(data []byte, width int, size int) ([]byte, error) {
	writer := newPayloadWriter(size)
	groupSize := 4 * width

	for groupStart := 0; groupStart < len(data); groupStart += groupSize {
		groupEnd := groupStart + groupSize
		if groupEnd > len(data) {
			groupEnd = len(data)
		}

		header := byte(0)
		slot := 0
		for offset := groupStart; offset < groupEnd; offset += width {
			code := sizeClass(MinimalWidth(data[offset : offset+width]))
			if code > integerCode8Byte {
				code = integerCode8Byte
			}
			header |= byte(code) << (6 - 2*slot)
			slot++
		}
		writer.PutByte(header)

		for offset := groupStart; offset < groupEnd; offset += width {
			element := data[offset : offset+width]
			minWidth := MinimalWidth(element)

			switch sizeClass(minWidth) {
			case 0:
				writer.Put(element[:1])
			case 1:
				writer.Put(element[:2])
			case 2:
				writer.Put(element[:4])
			case 3:
				if element[7]&escapeBit == 0 {
					writer.Put(element[:8])
				} else {
					writer.Put(element[:7])
					writer.PutByte(8 | escapeBit)
					writer.Put(element[7:8])
				}
			default:
				writer.Put(element[:7])
				writer.PutByte(byte(minWidth) | escapeBit)
				writer.Put(element[7:minWidth])
			}
		}
	}
	return writer.Finish()
}

// TrimInteger returns a copy of a single little-endian integer without its
// high zero bytes. Zero becomes an empty slice.
func TrimInteger(element []byte) []byte {
	end := len(element)
	for end > 0 && element[end-1] == 0 {
		end--
	}
	trimmed := make([]byte, end)
	copy(trimmed, element)
	return trimmed
}

// roundUpWidth returns the smallest valid integer width that is at least
// `width`, or 0 if there is none.
func roundUpWidth(width int) int {
	for _, w := range fixedWidths {
		if w >= width {
			return w
		}
	}
	return 0
}

// ExpandFixedInteger validates a fixed-length integer payload holding `count`
// elements and returns it in canonical form.
//
// A single element may have been stored by [TrimInteger], in which case it's
// zero-padded up to the next valid width.
func ExpandFixedInteger(payload []byte, count uint64) ([]byte, error) {
	switch count {
	case 0:
		if len(payload) != 0 {
			return nil, fmt.Errorf(
				"%w: empty integer array has %d bytes of payload",
				ErrMalformedPayload,
				len(payload),
			)
		}
		return payload, nil
	case 1:
		width := roundUpWidth(len(payload))
		if width == 0 {
			return nil, fmt.Errorf(
				"%w: single integer can't be %d bytes long", ErrMalformedPayload, len(payload))
		}
		expanded := make([]byte, width)
		copy(expanded, payload)
		return expanded, nil
	}

	if uint64(len(payload))%count != 0 || !IsValidIntegerWidth(int(uint64(len(payload))/count)) {
		return nil, fmt.Errorf(
			"%w: %d bytes can't hold %d integers of a valid width",
			ErrMalformedPayload,
			len(payload),
			count,
		)
	}
	return payload, nil
}

// UnpackVariableInteger decodes `count` elements written by
// [PackVariableInteger]. Every element is zero-extended to the width of the
// widest element, rounded up to a valid integer width.
func UnpackVariableInteger(packed []byte, count int) ([]byte, error) {
	// Every element takes at least one byte, so this bounds `count` before we
	// allocate anything for it.
	if count > len(packed) {
		return nil, fmt.Errorf(
			"%w: %d bytes can't hold %d integers", ErrMalformedPayload, len(packed), count)
	}

	reader := newCursor(packed)
	elements := make([][]byte, 0, count)
	maxWidth := 0

	for len(elements) < count {
		header, err := reader.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("missing header for element %d: %w", len(elements), err)
		}

		for slot := 0; slot < 4 && len(elements) < count; slot++ {
			code := (header >> (6 - 2*slot)) & 0b11
			element, err := readVariableInteger(reader, code)
			if err != nil {
				return nil, fmt.Errorf("failed to read element %d: %w", len(elements), err)
			}
			if len(element) > maxWidth {
				maxWidth = len(element)
			}
			elements = append(elements, element)
		}
	}

	if err := reader.expectExhausted(); err != nil {
		return nil, err
	}
	if count == 0 {
		return []byte{}, nil
	}

	width := roundUpWidth(maxWidth)
	unpacked := make([]byte, width*count)
	for i, element := range elements {
		copy(unpacked[i*width:], element)
	}
	return unpacked, nil
}

func readVariableInteger(reader *cursor, code byte) ([]byte, error) {
	switch code {
	case integerCode1Byte:
		return reader.Next(1)
	case integerCode2Byte:
		return reader.Next(2)
	case integerCode4Byte:
		return reader.Next(4)
	}

	element, err := reader.Next(8)
	if err != nil {
		return nil, err
	}
	if element[7]&escapeBit == 0 {
		return element, nil
	}

	// The eighth byte is an escape holding the true width of the element. The
	// smallest width that needs one is 8, the largest is 16.
	trueWidth := int(element[7] &^ escapeBit)
	if trueWidth < 8 || trueWidth > 16 {
		return nil, fmt.Errorf(
			"%w: escape byte %#02x gives invalid width %d",
			ErrMalformedPayload,
			element[7],
			trueWidth,
		)
	}

	rest, err := reader.Next(trueWidth - 7)
	if err != nil {
		return nil, err
	}
	full := make([]byte, 0, trueWidth)
	full = append(full, element[:7]...)
	return append(full, rest...), nil
}
