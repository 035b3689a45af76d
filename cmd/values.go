package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dargueta/arrayobj"
	"golang.org/x/exp/constraints"
	"lukechampine.com/uint128"
)

// elementRow is one line of the CSV files read by `pack` and written by `dump`.
type elementRow struct {
	Index string `csv:"index"`
	Value string `csv:"value"`
}

// elementType converts between array elements and their text form for one
// native type.
type elementType struct {
	// parse is nil for types that can only be dumped.
	parse  func(texts []string, shape []uint64) (*arrayobj.ArrayObject, error)
	format func(obj *arrayobj.ArrayObject, options ...arrayobj.ConvertOption) ([]string, error)
}

func newElementType[T arrayobj.Element](
	parse func(string) (T, error), format func(T) string,
) elementType {
	result := elementType{
		format: func(obj *arrayobj.ArrayObject, options ...arrayobj.ConvertOption) ([]string, error) {
			var values []T
			if obj.Dimension() == 0 {
				value, err := arrayobj.ToScalar[T](obj, options...)
				if err != nil {
					return nil, err
				}
				values = []T{value}
			} else {
				var err error
				values, _, err = arrayobj.ToShaped[T](obj, options...)
				if err != nil {
					return nil, err
				}
			}

			texts := make([]string, len(values))
			for i, value := range values {
				texts[i] = format(value)
			}
			return texts, nil
		},
	}

	if parse != nil {
		result.parse = func(texts []string, shape []uint64) (*arrayobj.ArrayObject, error) {
			values := make([]T, len(texts))
			for i, text := range texts {
				value, err := parse(text)
				if err != nil {
					return nil, fmt.Errorf("row %d: %w", i+1, err)
				}
				values[i] = value
			}
			return arrayobj.FromShaped(values, shape)
		}
	}
	return result
}

func parseUnsigned[T constraints.Unsigned](bits int) func(string) (T, error) {
	return func(text string) (T, error) {
		value, err := strconv.ParseUint(strings.TrimSpace(text), 10, bits)
		return T(value), err
	}
}

func parseSigned[T constraints.Signed](bits int) func(string) (T, error) {
	return func(text string) (T, error) {
		value, err := strconv.ParseInt(strings.TrimSpace(text), 10, bits)
		return T(value), err
	}
}

func parseFloat[T constraints.Float](bits int) func(string) (T, error) {
	return func(text string) (T, error) {
		value, err := strconv.ParseFloat(strings.TrimSpace(text), bits)
		return T(value), err
	}
}

func formatUnsigned[T constraints.Unsigned](value T) string {
	return strconv.FormatUint(uint64(value), 10)
}

func formatSigned[T constraints.Signed](value T) string {
	return strconv.FormatInt(int64(value), 10)
}

var elementTypes = map[string]elementType{
	"uint8":  newElementType(parseUnsigned[uint8](8), formatUnsigned[uint8]),
	"uint16": newElementType(parseUnsigned[uint16](16), formatUnsigned[uint16]),
	"uint32": newElementType(parseUnsigned[uint32](32), formatUnsigned[uint32]),
	"uint64": newElementType(parseUnsigned[uint64](64), formatUnsigned[uint64]),
	"uint128": newElementType(
		func(text string) (uint128.Uint128, error) {
			return uint128.FromString(strings.TrimSpace(text))
		},
		uint128.Uint128.String,
	),
	"int8":   newElementType(parseSigned[int8](8), formatSigned[int8]),
	"int16":  newElementType(parseSigned[int16](16), formatSigned[int16]),
	"int32":  newElementType(parseSigned[int32](32), formatSigned[int32]),
	"int64":  newElementType(parseSigned[int64](64), formatSigned[int64]),
	"int128": newElementType[arrayobj.Int128](nil, arrayobj.Int128.String),
	"float32": newElementType(parseFloat[float32](32), func(value float32) string {
		return strconv.FormatFloat(float64(value), 'g', -1, 32)
	}),
	"float64": newElementType(parseFloat[float64](64), func(value float64) string {
		return strconv.FormatFloat(value, 'g', -1, 64)
	}),
	"complex64": newElementType(
		func(text string) (complex64, error) {
			value, err := strconv.ParseComplex(strings.TrimSpace(text), 64)
			return complex64(value), err
		},
		func(value complex64) string {
			return strconv.FormatComplex(complex128(value), 'g', -1, 64)
		},
	),
	"complex128": newElementType(
		func(text string) (complex128, error) {
			return strconv.ParseComplex(strings.TrimSpace(text), 128)
		},
		func(value complex128) string {
			return strconv.FormatComplex(value, 'g', -1, 128)
		},
	),
	"string": newElementType(
		func(text string) (string, error) { return text, nil },
		func(value string) string { return value },
	),
}

// defaultDumpType is the type elements are dumped as when the user doesn't ask
// for one. It can hold any value of the data type.
var defaultDumpType = map[arrayobj.DataType]string{
	arrayobj.UnsignedInteger: "uint128",
	arrayobj.SignedInteger:   "int128",
	arrayobj.Real:            "float64",
	arrayobj.Complex:         "complex128",
	arrayobj.String:          "string",
}

func packableTypeNames() string {
	names := []string{}
	for name, handler := range elementTypes {
		if handler.parse != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// parseShape parses a comma-separated list of dimensions. "scalar" is the empty
// shape, and an empty string means a 1-D array of `count` elements.
func parseShape(text string, count int) ([]uint64, error) {
	text = strings.TrimSpace(text)
	switch text {
	case "":
		return []uint64{uint64(count)}, nil
	case "scalar":
		return []uint64{}, nil
	}

	parts := strings.Split(text, ",")
	shape := make([]uint64, len(parts))
	for i, part := range parts {
		dim, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid dimension %q: %w", part, err)
		}
		shape[i] = dim
	}
	return shape, nil
}

// formatIndex returns the row-major multi-index of element `i` in an array of
// the given shape, e.g. "1:0:2".
func formatIndex(i uint64, shape []uint64) string {
	if len(shape) == 0 {
		return ""
	}

	parts := make([]string, len(shape))
	for d := len(shape) - 1; d >= 0; d-- {
		parts[d] = strconv.FormatUint(i%shape[d], 10)
		i /= shape[d]
	}
	return strings.Join(parts, ":")
}
