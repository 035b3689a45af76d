package testing

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// RandomBytes fills a new buffer of `size` bytes from crypto/rand, stopping the
// test if the system's random source can't be read.
func RandomBytes(size int, t *testing.T) []byte {
	data := make([]byte, size)

	_, err := rand.Read(data)
	require.NoErrorf(t, err, "failed to generate %d random bytes", size)
	return data
}
