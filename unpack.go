package arrayobj

import (
	"bytes"
	"fmt"

	"github.com/dargueta/arrayobj/utilities/compression"
)

// Unpack decodes an array encoded by [ArrayObject.Pack] or
// [ArrayObject.PackAsItIs]. `packed` isn't modified or retained.
//
// Any structural problem with the input is reported as [ErrUnableToDecode].
func Unpack(packed []byte) (*ArrayObject, error) {
	payload, trailer, shape, err := readFooter(packed)
	if err != nil {
		return nil, err
	}

	class := trailer & TypeMask
	format := trailer & FormatMask

	if isShortClass(class) {
		if len(payload) != 0 {
			return nil, ErrUnableToDecode.WithMessage(
				fmt.Sprintf("short integer is followed by %d bytes of data", len(payload)))
		}
		dataType := UnsignedInteger
		if class == ClassShortSignedInteger {
			dataType = SignedInteger
		}
		return &ArrayObject{
			data:     []byte{trailer & ShortDataMask},
			shape:    []uint64{},
			dataType: dataType,
		}, nil
	}

	count, ok := product(shape)
	if !ok {
		return nil, ErrUnableToDecode.WithMessage(
			fmt.Sprintf("shape %v has too many elements", shape))
	}

	var dataType DataType
	var data []byte

	switch class {
	case ClassUnsignedInteger, ClassSignedInteger:
		dataType = UnsignedInteger
		if class == ClassSignedInteger {
			dataType = SignedInteger
		}
		if format == FormatVariableLength {
			// Every element takes at least one byte.
			if count > uint64(len(payload)) {
				return nil, ErrUnableToDecode.WithMessage(
					fmt.Sprintf("%d bytes can't hold %d integers", len(payload), count))
			}
			data, err = compression.UnpackVariableInteger(payload, int(count))
		} else {
			data, err = compression.ExpandFixedInteger(payload, count)
		}

	case ClassReal, ClassComplex:
		dataType = Real
		if class == ClassComplex {
			dataType = Complex
		}
		// Every element takes at least four bytes, so this also keeps the number
		// of parts from overflowing.
		if count > uint64(len(payload)) {
			return nil, ErrUnableToDecode.WithMessage(
				fmt.Sprintf("%d bytes can't hold %d %s elements", len(payload), count, dataType))
		}
		components := count
		if dataType == Complex {
			components *= 2
		}
		if format == FormatVariableLength {
			data, err = compression.UnpackVariableFloat(payload, int(components))
		} else {
			data = payload
		}

	case ClassString:
		dataType = String
		if format == FormatDictionary {
			data, err = compression.UnpackDictionary(payload, count)
		} else {
			data = payload
		}

	default:
		return nil, ErrUnableToDecode.WithMessage(fmt.Sprintf("unknown type class %#02x", class))
	}

	if err != nil {
		return nil, ErrUnableToDecode.Wrap(err)
	}
	if err = checkLayout(dataType, data, count); err != nil {
		return nil, ErrUnableToDecode.Wrap(err)
	}

	return &ArrayObject{
		data:     bytes.Clone(data),
		shape:    shape,
		dataType: dataType,
	}, nil
}
