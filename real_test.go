package arrayobj_test

import (
	"math"
	"testing"

	"github.com/dargueta/arrayobj"
	atesting "github.com/dargueta/arrayobj/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Produces doubles that can't be narrowed to single precision.
func wideDouble(i int) float64 {
	return float64(i)*math.Pi + 0.01
}

// Produces doubles that are exact in single precision.
func narrowDouble(i int) float64 {
	return float64(i) / 8
}

func TestSingleReal(t *testing.T) {
	for i := -128; i < 128; i++ {
		original := wideDouble(i)
		unpacked := atesting.RoundTrip(t, arrayobj.FromScalar(original), 9)
		restored, err := arrayobj.ToScalar[float64](unpacked)
		require.NoError(t, err)
		require.Equal(t, original, restored)
	}

	for i := -128; i < 128; i++ {
		original := narrowDouble(i)
		unpacked := atesting.RoundTrip(t, arrayobj.FromScalar(original), 5)
		restored, err := arrayobj.ToScalar[float64](unpacked)
		require.NoError(t, err)
		require.Equal(t, original, restored)
	}

	for i := -128; i < 128; i++ {
		original := float32(i) * 0.01
		unpacked := atesting.RoundTrip(t, arrayobj.FromScalar(original), 5)
		restored, err := arrayobj.ToScalar[float32](unpacked)
		require.NoError(t, err)
		require.Equal(t, original, restored)
	}
}

func TestArrayReal__AsIs(t *testing.T) {
	original := make([]float64, 256)
	for i := range original {
		original[i] = wideDouble(i - 128)
	}

	unpacked := atesting.RoundTrip(t, arrayobj.FromSlice(original), 256*8+3)
	restored, err := arrayobj.ToSlice[float64](unpacked)
	require.NoError(t, err)
	assert.Equal(t, original, restored)
}

func TestArrayReal__Fixed(t *testing.T) {
	original := make([]float64, 256)
	for i := range original {
		original[i] = narrowDouble(i - 128)
	}

	unpacked := atesting.RoundTrip(t, arrayobj.FromSlice(original), 256*4+3)
	bits, _ := unpacked.Bits()
	assert.Equal(t, 32, bits, "narrowed array should be stored in single precision")

	restored, err := arrayobj.ToSlice[float64](unpacked)
	require.NoError(t, err)
	assert.Equal(t, original, restored)
}

func TestArrayReal__Variable(t *testing.T) {
	original := make([]float64, 256)
	for i := range original {
		original[i] = 0.2 * float64(i-128)
	}

	unpacked := atesting.RoundTrip(t, arrayobj.FromSlice(original), 1908+3)
	restored, err := arrayobj.ToSlice[float64](unpacked)
	require.NoError(t, err)
	assert.Equal(t, original, restored)
}

func TestZeroLengthReal(t *testing.T) {
	unpacked := atesting.RoundTrip(t, arrayobj.FromSlice([]float64{}), 2)
	restored, err := arrayobj.ToSlice[float64](unpacked)
	require.NoError(t, err)
	assert.Empty(t, restored)
}

func TestLossyConversion(t *testing.T) {
	obj := arrayobj.FromScalar(math.Pi)

	_, err := arrayobj.ToScalar[float32](obj)
	assert.ErrorIs(t, err, arrayobj.ErrLossyConversion)

	narrowed, err := arrayobj.ToScalar[float32](obj, arrayobj.AllowLossyFloat())
	require.NoError(t, err)
	assert.Equal(t, float32(math.Pi), narrowed)
}

func TestNarrowedRealToSinglePrecision(t *testing.T) {
	// 0.5 is stored in single precision after packing, so it can be read back
	// as a float32 without loss.
	unpacked := atesting.RoundTrip(t, arrayobj.FromScalar(0.5), 5)

	restored, err := arrayobj.ToScalar[float32](unpacked)
	require.NoError(t, err)
	assert.Equal(t, float32(0.5), restored)
}
