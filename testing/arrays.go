package testing

import (
	"io"
	"math"
	"testing"

	"github.com/dargueta/arrayobj"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"
	"lukechampine.com/uint128"
)

// RoundTrip packs `obj` into an in-memory stream and reads it back. It's
// guaranteed to either return the unpacked array or fail the test and abort.
//
// If `expectedSize` isn't negative, the packed array must be exactly that many
// bytes.
func RoundTrip(t *testing.T, obj *arrayobj.ArrayObject, expectedSize int) *arrayobj.ArrayObject {
	packed, err := obj.Pack()
	require.NoError(t, err, "failed to pack array")
	if expectedSize >= 0 {
		require.Equal(t, expectedSize, len(packed), "packed array is wrong size")
	}

	verbatim, err := obj.PackAsItIs()
	require.NoError(t, err, "failed to pack array verbatim")
	assert.LessOrEqual(
		t, len(packed), len(verbatim), "packed array is bigger than the verbatim one")

	stream := bytesextra.NewReadWriteSeeker(make([]byte, len(packed)))
	written, err := obj.WriteTo(stream)
	require.NoError(t, err, "failed to write array to stream")
	require.EqualValues(t, len(packed), written, "wrong number of bytes written")

	_, err = stream.Seek(0, io.SeekStart)
	require.NoError(t, err, "failed to rewind stream")

	unpacked, err := arrayobj.ReadObject(stream)
	require.NoError(t, err, "failed to unpack array")

	AssertSameArray(t, obj, unpacked)
	return unpacked
}

// AssertSameArray fails the test if the arrays differ in type, shape, or the
// values of their elements. Elements may be stored with different widths.
func AssertSameArray(t *testing.T, expected, actual *arrayobj.ArrayObject) {
	require.Equal(t, expected.DataType(), actual.DataType(), "data type is wrong")
	require.Equal(t, expected.Shape(), actual.Shape(), "shape is wrong")
	assert.Equal(t, expected.Len(), actual.Len(), "number of elements is wrong")
	assert.Equal(t, elementValues(t, expected), elementValues(t, actual), "array contents differ")
}

// elementValues converts every element of `obj` to the widest native type for
// its data type.
func elementValues(t *testing.T, obj *arrayobj.ArrayObject) any {
	switch obj.DataType() {
	case arrayobj.UnsignedInteger:
		return convertAll[uint128.Uint128](t, obj)
	case arrayobj.SignedInteger:
		return convertAll[arrayobj.Int128](t, obj)
	case arrayobj.Real:
		// Compare bit patterns so NaNs are equal to themselves.
		values := convertAll[float64](t, obj)
		patterns := make([]uint64, len(values))
		for i, v := range values {
			patterns[i] = math.Float64bits(v)
		}
		return patterns
	case arrayobj.Complex:
		values := convertAll[complex128](t, obj)
		patterns := make([]uint64, 0, 2*len(values))
		for _, v := range values {
			patterns = append(patterns, math.Float64bits(real(v)), math.Float64bits(imag(v)))
		}
		return patterns
	default:
		return convertAll[string](t, obj)
	}
}

func convertAll[T arrayobj.Element](t *testing.T, obj *arrayobj.ArrayObject) []T {
	if obj.Dimension() == 0 {
		value, err := arrayobj.ToScalar[T](obj)
		require.NoError(t, err, "failed to convert scalar")
		return []T{value}
	}

	values, _, err := arrayobj.ToShaped[T](obj)
	require.NoError(t, err, "failed to convert array")
	return values
}
