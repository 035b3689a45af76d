package compression

import (
	"errors"
	"fmt"
	"io"

	"github.com/noxer/bytewriter"
	"github.com/xaionaro-go/bytesextra"
)

// ErrSizeMismatch indicates that a packer wrote a different number of bytes
// than its inspection step predicted. It always means a bug in this package.
var ErrSizeMismatch = errors.New("packed size differs from inspected size")

// ErrMalformedPayload is returned by the decoders when a packed payload is
// structurally invalid.
var ErrMalformedPayload = errors.New("malformed payload")

// payloadWriter builds a packed payload whose final size is known in advance.
type payloadWriter struct {
	buffer  []byte
	writer  *bytewriter.Writer
	written int
	err     error
}

func newPayloadWriter(size int) *payloadWriter {
	buffer := make([]byte, size)
	return &payloadWriter{
		buffer: buffer,
		writer: bytewriter.New(buffer),
	}
}

func (w *payloadWriter) Put(p []byte) {
	if w.err != nil {
		return
	}
	n, err := w.writer.Write(p)
	w.written += n
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	if err != nil {
		w.err = fmt.Errorf("%w: buffer of %d bytes is full: %s", ErrSizeMismatch, len(w.buffer), err)
	}
}

func (w *payloadWriter) PutByte(b byte) {
	w.Put([]byte{b})
}

// Finish returns the payload, or an error if it wasn't filled exactly.
func (w *payloadWriter) Finish() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	if w.written != len(w.buffer) {
		return nil, fmt.Errorf(
			"%w: expected %d bytes, wrote %d", ErrSizeMismatch, len(w.buffer), w.written)
	}
	return w.buffer, nil
}

////////////////////////////////////////////////////////////////////////////////

// cursor reads a packed payload from front to back without modifying it.
type cursor struct {
	stream io.Reader
	size   int
	offset int
}

func newCursor(data []byte) *cursor {
	return &cursor{
		stream: bytesextra.NewReadWriteSeeker(data),
		size:   len(data),
	}
}

// Remaining returns the number of bytes not read yet.
func (c *cursor) Remaining() int {
	return c.size - c.offset
}

// Next returns the next `n` bytes as a new slice.
func (c *cursor) Next(n int) ([]byte, error) {
	if n > c.Remaining() {
		return nil, fmt.Errorf(
			"%w: need %d bytes at offset %d, only %d left",
			io.ErrUnexpectedEOF,
			n,
			c.offset,
			c.Remaining(),
		)
	}
	chunk := make([]byte, n)
	read, err := io.ReadFull(c.stream, chunk)
	c.offset += read
	if err != nil {
		return nil, fmt.Errorf("failed to read %d bytes at offset %d: %w", n, c.offset, err)
	}
	return chunk, nil
}

func (c *cursor) ReadByte() (byte, error) {
	chunk, err := c.Next(1)
	if err != nil {
		return 0, err
	}
	return chunk[0], nil
}

// ReadUntil returns every byte up to the next occurrence of `delimiter`. The
// delimiter is consumed but not included in the result.
func (c *cursor) ReadUntil(delimiter byte) ([]byte, error) {
	result := []byte{}
	for {
		currentByte, err := c.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("delimiter %#02x not found: %w", delimiter, err)
		}
		if currentByte == delimiter {
			return result, nil
		}
		result = append(result, currentByte)
	}
}

// expectExhausted fails if any bytes are left after decoding.
func (c *cursor) expectExhausted() error {
	if c.Remaining() != 0 {
		return fmt.Errorf(
			"%w: %d unexpected trailing bytes at offset %d",
			ErrMalformedPayload,
			c.Remaining(),
			c.offset,
		)
	}
	return nil
}
