package arrayobj

import (
	"fmt"

	"github.com/dargueta/arrayobj/utilities/zigzag"
)

// DescribeFooter returns a one-line, human-readable description of the footer
// of a packed array, e.g.
//
//	SignedInteger, variable length, shape [256], 448 bytes of payload
//
// Only the footer is parsed; the payload isn't validated.
func DescribeFooter(packed []byte) (string, error) {
	payload, trailer, shape, err := readFooter(packed)
	if err != nil {
		return "", err
	}

	class := trailer & TypeMask
	switch class {
	case ClassShortUnsignedInteger:
		return fmt.Sprintf("UnsignedInteger scalar %d, stored in the footer", trailer&ShortDataMask), nil
	case ClassShortSignedInteger:
		value := zigzag.Decode[int8](uint64(trailer & ShortDataMask))
		return fmt.Sprintf("SignedInteger scalar %d, stored in the footer", value), nil
	}

	var dataType DataType
	switch class {
	case ClassUnsignedInteger:
		dataType = UnsignedInteger
	case ClassSignedInteger:
		dataType = SignedInteger
	case ClassReal:
		dataType = Real
	case ClassComplex:
		dataType = Complex
	case ClassString:
		dataType = String
	default:
		return "", ErrUnableToDecode.WithMessage(fmt.Sprintf("unknown type class %#02x", class))
	}

	format := "fixed length"
	if dataType == String {
		format = "joined"
		if trailer&FormatMask == FormatDictionary {
			format = "dictionary"
		}
	} else if trailer&FormatMask == FormatVariableLength {
		format = "variable length"
	}

	return fmt.Sprintf(
		"%s, %s, shape %v, %d bytes of payload",
		dataType,
		format,
		shape,
		len(payload),
	), nil
}
