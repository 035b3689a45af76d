package arrayobj_test

import (
	"math"
	"testing"

	"github.com/dargueta/arrayobj"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"
)

func TestToScalar__WidensIntegers(t *testing.T) {
	obj := arrayobj.FromScalar(uint8(200))

	wide, err := arrayobj.ToScalar[uint64](obj)
	require.NoError(t, err)
	assert.EqualValues(t, 200, wide)

	signed, err := arrayobj.ToScalar[int16](obj)
	require.NoError(t, err)
	assert.EqualValues(t, 200, signed)

	huge, err := arrayobj.ToScalar[uint128.Uint128](obj)
	require.NoError(t, err)
	assert.Equal(t, uint128.From64(200), huge)
}

func TestToScalar__IncompatibleInteger(t *testing.T) {
	testCases := []struct {
		name    string
		obj     *arrayobj.ArrayObject
		convert func(*arrayobj.ArrayObject) error
	}{
		{
			"UnsignedTooBigForSigned",
			arrayobj.FromScalar(uint8(200)),
			func(obj *arrayobj.ArrayObject) error {
				_, err := arrayobj.ToScalar[int8](obj)
				return err
			},
		},
		{
			"NegativeToUnsigned",
			arrayobj.FromScalar(int32(-1)),
			func(obj *arrayobj.ArrayObject) error {
				_, err := arrayobj.ToScalar[uint64](obj)
				return err
			},
		},
		{
			"TooBigForNarrowType",
			arrayobj.FromScalar(uint32(70000)),
			func(obj *arrayobj.ArrayObject) error {
				_, err := arrayobj.ToScalar[uint16](obj)
				return err
			},
		},
		{
			"TooNegativeForNarrowType",
			arrayobj.FromScalar(int16(-129)),
			func(obj *arrayobj.ArrayObject) error {
				_, err := arrayobj.ToScalar[int8](obj)
				return err
			},
		},
		{
			"MaxUint64ToInt64",
			arrayobj.FromScalar(uint64(math.MaxUint64)),
			func(obj *arrayobj.ArrayObject) error {
				_, err := arrayobj.ToScalar[int64](obj)
				return err
			},
		},
		{
			"OneElementOfManyDoesNotFit",
			arrayobj.FromSlice([]int64{1, 2, math.MaxInt32 + 1}),
			func(obj *arrayobj.ArrayObject) error {
				_, err := arrayobj.ToSlice[int32](obj)
				return err
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.convert(tc.obj), arrayobj.ErrIncompatibleConversion)
		})
	}
}

func TestToScalar__SignedLimits(t *testing.T) {
	for _, v := range []int8{math.MinInt8, -1, 0, 1, math.MaxInt8} {
		restored, err := arrayobj.ToScalar[int8](arrayobj.FromScalar(int64(v)))
		require.NoError(t, err)
		assert.Equal(t, v, restored)
	}

	restored, err := arrayobj.ToScalar[arrayobj.Int128](arrayobj.FromScalar(int64(-1)))
	require.NoError(t, err)
	assert.Equal(t, arrayobj.Int128From64(-1), restored)

	minimum := arrayobj.Int128{Lo: 0, Hi: math.MinInt64}
	restored, err = arrayobj.ToScalar[arrayobj.Int128](arrayobj.FromScalar(minimum))
	require.NoError(t, err)
	assert.Equal(t, minimum, restored)

	_, err = arrayobj.ToScalar[int64](arrayobj.FromScalar(minimum))
	assert.ErrorIs(t, err, arrayobj.ErrIncompatibleConversion)
}

func TestToScalar__WrongDataType(t *testing.T) {
	_, err := arrayobj.ToScalar[int32](arrayobj.FromScalar(1.5))
	assert.ErrorIs(t, err, arrayobj.ErrWrongDataType)

	_, err = arrayobj.ToScalar[float64](arrayobj.FromScalar(uint8(1)))
	assert.ErrorIs(t, err, arrayobj.ErrWrongDataType)

	_, err = arrayobj.ToScalar[complex128](arrayobj.FromScalar(1.5))
	assert.ErrorIs(t, err, arrayobj.ErrWrongDataType)

	_, err = arrayobj.ToScalar[string](arrayobj.FromScalar(1.5))
	assert.ErrorIs(t, err, arrayobj.ErrWrongDataType)

	_, err = arrayobj.ToScalar[uint8](arrayobj.FromScalar("1"))
	assert.ErrorIs(t, err, arrayobj.ErrWrongDataType)
}

func TestConvert__WrongDimension(t *testing.T) {
	_, err := arrayobj.ToScalar[int32](arrayobj.FromSlice([]int32{1}))
	assert.ErrorIs(t, err, arrayobj.ErrWrongDataType)

	_, err = arrayobj.ToSlice[int32](arrayobj.FromScalar(int32(1)))
	assert.ErrorIs(t, err, arrayobj.ErrWrongDataType)

	_, _, err = arrayobj.ToShaped[int32](arrayobj.FromScalar(int32(1)))
	assert.ErrorIs(t, err, arrayobj.ErrWrongDataType)

	matrix, err := arrayobj.FromShaped([]int32{1, 2, 3, 4}, []uint64{2, 2})
	require.NoError(t, err)
	_, err = arrayobj.ToSlice[int32](matrix)
	assert.ErrorIs(t, err, arrayobj.ErrWrongDataType)
}

func TestFromShaped__Errors(t *testing.T) {
	_, err := arrayobj.FromShaped([]int32{1, 2, 3}, []uint64{2, 2})
	assert.ErrorIs(t, err, arrayobj.ErrNumberOfElementsMismatch)

	_, err = arrayobj.FromShaped([]int32{}, make([]uint64, arrayobj.MaxDimensions+1))
	assert.ErrorIs(t, err, arrayobj.ErrTooLargeDimension)

	_, err = arrayobj.FromShaped([]int32{}, []uint64{math.MaxUint64, 2})
	assert.ErrorIs(t, err, arrayobj.ErrNumberOfElementsMismatch)
}

func TestInt128String(t *testing.T) {
	assert.Equal(t, "0", arrayobj.Int128From64(0).String())
	assert.Equal(t, "-5", arrayobj.Int128From64(-5).String())
	assert.Equal(t, "9223372036854775807", arrayobj.Int128From64(math.MaxInt64).String())
	assert.Equal(
		t,
		"-170141183460469231731687303715884105728",
		arrayobj.Int128{Lo: 0, Hi: math.MinInt64}.String(),
	)
}
