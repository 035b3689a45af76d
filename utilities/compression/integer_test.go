package compression_test

import (
	"encoding/binary"
	"io"
	"testing"

	c "github.com/dargueta/arrayobj/utilities/compression"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeUint32s(values ...uint32) []byte {
	data := []byte{}
	for _, v := range values {
		data = binary.LittleEndian.AppendUint32(data, v)
	}
	return data
}

func encodeUint64s(values ...uint64) []byte {
	data := []byte{}
	for _, v := range values {
		data = binary.LittleEndian.AppendUint64(data, v)
	}
	return data
}

// encodeUint128Powers returns the 16-byte little-endian encodings of 1 << i for
// every i in [0, 128).
func encodeUint128Powers() []byte {
	data := make([]byte, 16*128)
	for i := 0; i < 128; i++ {
		data[16*i+i/8] = 1 << (i % 8)
	}
	return data
}

func TestMinimalWidth(t *testing.T) {
	assert.Equal(t, 1, c.MinimalWidth([]byte{0, 0, 0, 0}))
	assert.Equal(t, 1, c.MinimalWidth([]byte{0xff, 0, 0, 0}))
	assert.Equal(t, 2, c.MinimalWidth([]byte{0, 1, 0, 0}))
	assert.Equal(t, 3, c.MinimalWidth([]byte{0, 0, 1, 0}))
	assert.Equal(t, 8, c.MinimalWidth(encodeUint64s(1<<63)))
}

func TestInspectInteger__Short(t *testing.T) {
	for v := uint32(0); v < c.ShortValueLimit; v++ {
		plan := c.InspectInteger(encodeUint32s(v), 4, []uint64{})
		assert.Equal(t, c.IntegerShort, plan.Option, "value %d", v)
	}

	// Not a scalar, so the value can't go in the footer.
	plan := c.InspectInteger(encodeUint32s(3), 4, []uint64{1})
	assert.Equal(t, c.IntegerShortVariable, plan.Option)
}

func TestInspectInteger__ShortVariable(t *testing.T) {
	data := encodeUint32s(300)
	plan := c.InspectInteger(data, 4, []uint64{})
	require.Equal(t, c.IntegerShortVariable, plan.Option)
	assert.Equal(t, []byte{0x2c, 0x01}, c.TrimInteger(data))
}

func TestInspectInteger__SingleFullWidth(t *testing.T) {
	plan := c.InspectInteger(encodeUint32s(0x01000000), 4, []uint64{})
	assert.Equal(t, c.IntegerAsIs, plan.Option)
}

func TestInspectInteger__AsIs(t *testing.T) {
	plan := c.InspectInteger([]byte{200, 201, 202}, 1, []uint64{3})
	assert.Equal(t, c.IntegerAsIs, plan.Option)
}

func TestFixedInteger(t *testing.T) {
	values := make([]uint32, 256)
	expected := make([]byte, 256)
	for i := range values {
		values[i] = uint32(i)
		expected[i] = byte(i)
	}
	data := encodeUint32s(values...)

	plan := c.InspectInteger(data, 4, []uint64{256})
	require.Equal(t, c.IntegerFixedLength, plan.Option)
	require.Equal(t, 1, plan.Width)
	assert.Equal(t, expected, c.PackFixedInteger(data, 4, plan.Width))
}

func TestVariableInteger__Basic(t *testing.T) {
	data := encodeUint32s(5, 300, 7, 70000)

	plan := c.InspectInteger(data, 4, []uint64{4})
	require.Equal(t, c.IntegerVariableLength, plan.Option)
	require.Equal(t, 9, plan.Size)

	packed, err := c.PackVariableInteger(data, 4, plan.Size)
	require.NoError(t, err)
	assert.Equal(
		t,
		[]byte{0b00_01_00_10, 0x05, 0x2c, 0x01, 0x07, 0x70, 0x11, 0x01, 0x00},
		packed,
	)

	unpacked, err := c.UnpackVariableInteger(packed, 4)
	require.NoError(t, err)
	assert.Equal(t, data, unpacked)
}

func TestVariableInteger__PartialLastGroup(t *testing.T) {
	data := encodeUint32s(1, 2, 3, 4, 5, 1<<20)

	plan := c.InspectInteger(data, 4, []uint64{6})
	require.Equal(t, c.IntegerVariableLength, plan.Option)
	require.Equal(t, 2+5+4, plan.Size)

	packed, err := c.PackVariableInteger(data, 4, plan.Size)
	require.NoError(t, err)
	assert.Equal(t, byte(0b00_10_00_00), packed[5], "second group header is wrong")

	unpacked, err := c.UnpackVariableInteger(packed, 6)
	require.NoError(t, err)
	assert.Equal(t, data, unpacked)
}

func TestVariableInteger__EightByteEscape(t *testing.T) {
	data := encodeUint64s(1<<63, 1, 2, 3, 4, 5, 6, 7)

	plan := c.InspectInteger(data, 8, []uint64{8})
	require.Equal(t, c.IntegerVariableLength, plan.Option)
	require.Equal(t, 18, plan.Size)

	packed, err := c.PackVariableInteger(data, 8, plan.Size)
	require.NoError(t, err)
	assert.Equal(
		t,
		[]byte{
			0b11_00_00_00, 0, 0, 0, 0, 0, 0, 0, 0x88, 0x80, 1, 2, 3,
			0b00_00_00_00, 4, 5, 6, 7,
		},
		packed,
	)

	unpacked, err := c.UnpackVariableInteger(packed, 8)
	require.NoError(t, err)
	assert.Equal(t, data, unpacked)
}

func TestVariableInteger__WideEscape(t *testing.T) {
	data := encodeUint128Powers()

	plan := c.InspectInteger(data, 16, []uint64{128})
	require.Equal(t, c.IntegerVariableLength, plan.Option)
	require.Equal(t, 1241, plan.Size)

	packed, err := c.PackVariableInteger(data, 16, plan.Size)
	require.NoError(t, err)

	unpacked, err := c.UnpackVariableInteger(packed, 128)
	require.NoError(t, err)
	assert.Equal(t, data, unpacked)
}

func TestVariableInteger__WidensToValidWidth(t *testing.T) {
	// Two bytes of payload for a 9-byte element: 7 data bytes, escape, 2 more.
	packed := []byte{0b11_00_00_00, 1, 0, 0, 0, 0, 0, 0, 0x89, 0, 1}
	unpacked, err := c.UnpackVariableInteger(packed, 1)
	require.NoError(t, err)

	expected := make([]byte, 16)
	expected[0] = 1
	expected[8] = 1
	assert.Equal(t, expected, unpacked)
}

func TestUnpackVariableInteger__Errors(t *testing.T) {
	_, err := c.UnpackVariableInteger([]byte{0b01_00_00_00, 1}, 1)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF, "truncated element")

	_, err = c.UnpackVariableInteger([]byte{0, 1, 2}, 1)
	assert.ErrorIs(t, err, c.ErrMalformedPayload, "trailing bytes")

	_, err = c.UnpackVariableInteger([]byte{0b11_00_00_00, 0, 0, 0, 0, 0, 0, 0, 0x85}, 1)
	assert.ErrorIs(t, err, c.ErrMalformedPayload, "escape with invalid width")

	_, err = c.UnpackVariableInteger([]byte{0, 1}, 5)
	assert.ErrorIs(t, err, c.ErrMalformedPayload, "more elements than bytes")
}

func TestExpandFixedInteger(t *testing.T) {
	expanded, err := c.ExpandFixedInteger([]byte{}, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{0}, expanded)

	expanded, err = c.ExpandFixedInteger([]byte{1, 2, 3}, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 0}, expanded)

	expanded, err = c.ExpandFixedInteger([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9}, 1)
	require.NoError(t, err)
	assert.Len(t, expanded, 16)

	expanded, err = c.ExpandFixedInteger([]byte{1, 2, 3, 4}, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, expanded)

	_, err = c.ExpandFixedInteger([]byte{1}, 0)
	assert.ErrorIs(t, err, c.ErrMalformedPayload)

	_, err = c.ExpandFixedInteger(make([]byte, 17), 1)
	assert.ErrorIs(t, err, c.ErrMalformedPayload)

	_, err = c.ExpandFixedInteger(make([]byte, 7), 3)
	assert.ErrorIs(t, err, c.ErrMalformedPayload)

	_, err = c.ExpandFixedInteger(make([]byte, 6), 2)
	assert.ErrorIs(t, err, c.ErrMalformedPayload, "3-byte elements aren't valid")
}

func TestPackVariableInteger__WrongSize(t *testing.T) {
	data := encodeUint32s(5, 300, 7, 70000)
	_, err := c.PackVariableInteger(data, 4, 12)
	assert.ErrorIs(t, err, c.ErrSizeMismatch)
}
