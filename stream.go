package arrayobj

import (
	"io"
)

// WriteTo packs the array with [ArrayObject.Pack] and writes it to `w`.
func (obj *ArrayObject) WriteTo(w io.Writer) (int64, error) {
	packed, err := obj.Pack()
	if err != nil {
		return 0, err
	}

	n, err := w.Write(packed)
	if err == nil && n < len(packed) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return int64(n), ErrExternal.Wrap(err)
	}
	return int64(n), nil
}

// ReadObject reads `r` to the end and unpacks what it read. A packed array
// doesn't record its own length, so it must be the only thing left in `r`.
func ReadObject(r io.Reader) (*ArrayObject, error) {
	packed, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrExternal.Wrap(err)
	}
	return Unpack(packed)
}
