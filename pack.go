package arrayobj

import (
	"fmt"

	"github.com/dargueta/arrayobj/utilities/compression"
)

// Pack encodes the array in the smallest representation available for its
// data, followed by a footer describing it.
//
// The returned error is always [ErrInvariantViolation]; it means a bug in this
// package, not a problem with the array.
func (obj *ArrayObject) Pack() ([]byte, error) {
	class := classFor(obj.dataType)
	if obj.Len() == 0 {
		return appendFooter(nil, makeTrailer(class, FormatFixedLength, obj.shape), obj.shape), nil
	}

	switch obj.dataType {
	case UnsignedInteger, SignedInteger:
		return obj.packInteger(class)
	case Real, Complex:
		return obj.packFloat(class)
	case String:
		return obj.packStrings(class)
	default:
		return nil, ErrInvariantViolation.WithMessage(
			fmt.Sprintf("can't pack unknown data type %d", uint8(obj.dataType)))
	}
}

// PackAsItIs encodes the array without trying to make it smaller.
func (obj *ArrayObject) PackAsItIs() ([]byte, error) {
	return obj.packVerbatim(classFor(obj.dataType)), nil
}

// packVerbatim copies the elements unmodified and adds a fixed-length (or joined)
// footer.
func (obj *ArrayObject) packVerbatim(class byte) []byte {
	packed := make([]byte, 0, len(obj.data)+len(obj.shape)*2+1)
	packed = append(packed, obj.data...)
	return appendFooter(packed, makeTrailer(class, FormatFixedLength, obj.shape), obj.shape)
}

func (obj *ArrayObject) packInteger(class byte) ([]byte, error) {
	width := obj.elementWidth()
	plan := compression.InspectInteger(obj.data, width, obj.shape)

	var payload []byte
	format := byte(FormatFixedLength)

	switch plan.Option {
	case compression.IntegerShort:
		if obj.dataType == SignedInteger {
			return []byte{ClassShortSignedInteger | obj.data[0]}, nil
		}
		return []byte{ClassShortUnsignedInteger | obj.data[0]}, nil

	case compression.IntegerShortVariable:
		payload = compression.TrimInteger(obj.data)

	case compression.IntegerFixedLength:
		payload = compression.PackFixedInteger(obj.data, width, plan.Width)

	case compression.IntegerVariableLength:
		var err error
		payload, err = compression.PackVariableInteger(obj.data, width, plan.Size)
		if err != nil {
			return nil, ErrInvariantViolation.Wrap(err)
		}
		format = FormatVariableLength

	default:
		return obj.packVerbatim(class), nil
	}

	return appendFooter(payload, makeTrailer(class, format, obj.shape), obj.shape), nil
}

func (obj *ArrayObject) packFloat(class byte) ([]byte, error) {
	width := obj.elementWidth()
	plan := compression.InspectFloat(obj.data, width)

	var payload []byte
	var err error
	format := byte(FormatFixedLength)

	switch plan.Option {
	case compression.FloatFixedLength:
		payload, err = compression.PackFixedFloat(obj.data, width, plan.Width)
	case compression.FloatVariableLength:
		payload, err = compression.PackVariableFloat(obj.data, plan)
		format = FormatVariableLength
	default:
		return obj.packVerbatim(class), nil
	}

	if err != nil {
		return nil, ErrInvariantViolation.Wrap(err)
	}
	return appendFooter(payload, makeTrailer(class, format, obj.shape), obj.shape), nil
}

func (obj *ArrayObject) packStrings(class byte) ([]byte, error) {
	plan := compression.InspectStrings(obj.data, uint64(obj.Len()))
	if plan.Option != compression.StringDictionary {
		return obj.packVerbatim(class), nil
	}

	payload, err := compression.PackDictionary(plan)
	if err != nil {
		return nil, ErrInvariantViolation.Wrap(err)
	}
	return appendFooter(payload, makeTrailer(class, FormatDictionary, obj.shape), obj.shape), nil
}
