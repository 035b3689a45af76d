package varint_test

import (
	"io"
	"math"
	"testing"

	"github.com/dargueta/arrayobj/utilities/varint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type varintTestCase struct {
	Name    string
	Numbers []uint64
	Encoded []byte
}

var varintTestCases = []varintTestCase{
	{"empty", []uint64{}, []byte{}},
	{"zero", []uint64{0}, []byte{0}},
	{"one byte max", []uint64{127}, []byte{0x7f}},
	{"two bytes min", []uint64{128}, []byte{0x80, 0x01}},
	{"256", []uint64{256}, []byte{0x80, 0x02}},
	{"several", []uint64{3, 300, 0}, []byte{0x03, 0xac, 0x02, 0x00}},
	{
		"max uint64",
		[]uint64{math.MaxUint64},
		[]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01},
	},
}

func TestEncode(t *testing.T) {
	for _, test := range varintTestCases {
		t.Run(test.Name, func(t *testing.T) {
			assert.Equal(t, test.Encoded, varint.Encode(test.Numbers))

			total := 0
			for _, n := range test.Numbers {
				total += varint.EncodedLength(n)
			}
			assert.Equal(t, len(test.Encoded), total, "EncodedLength disagrees with Encode")
		})
	}
}

func TestDecode(t *testing.T) {
	for _, test := range varintTestCases {
		t.Run(test.Name, func(t *testing.T) {
			numbers, n, err := varint.Decode(test.Encoded, len(test.Numbers))
			require.NoError(t, err)
			assert.Equal(t, test.Numbers, numbers)
			assert.Equal(t, len(test.Encoded), n)
		})
	}
}

func TestDecode__StopsAtMaxCount(t *testing.T) {
	numbers, n, err := varint.Decode([]byte{0x05, 0x80, 0x01, 0x09}, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint64{5, 128}, numbers)
	assert.Equal(t, 3, n, "wrong number of bytes consumed")
}

func TestDecode__Truncated(t *testing.T) {
	_, _, err := varint.Decode([]byte{0x80, 0x80}, 1)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, _, err = varint.Decode([]byte{0x01}, 2)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestDecode__Overflow(t *testing.T) {
	encoded := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x02}
	_, _, err := varint.Decode(encoded, 1)
	assert.ErrorIs(t, err, varint.ErrOverflow)
}

func TestDecodeBackward(t *testing.T) {
	// A footer stores the varints reversed, with unrelated payload in front.
	encoded := varint.Encode([]uint64{256, 3, 1 << 40})
	buffer := []byte{0xaa, 0xbb}
	for i := len(encoded) - 1; i >= 0; i-- {
		buffer = append(buffer, encoded[i])
	}

	numbers, n, err := varint.DecodeBackward(buffer, 3)
	require.NoError(t, err)
	assert.Equal(t, []uint64{256, 3, 1 << 40}, numbers)
	assert.Equal(t, len(encoded), n)
}

func TestDecodeBackward__ZeroCount(t *testing.T) {
	numbers, n, err := varint.DecodeBackward([]byte{1, 2, 3}, 0)
	require.NoError(t, err)
	assert.Empty(t, numbers)
	assert.Equal(t, 0, n)
}
