package arrayobj

import (
	"fmt"
	"slices"

	"github.com/dargueta/arrayobj/utilities/compression"
	"github.com/hashicorp/go-multierror"
)

// TryConcat stacks arrays of the same shape, data type and size along a new
// leading dimension. Concatenating n arrays of shape [a, b] gives an array of
// shape [n, a, b].
//
// Every array that differs from the first is reported in the returned error,
// which is an [ErrConcatShapeMismatch].
func TryConcat(objs []*ArrayObject) (*ArrayObject, error) {
	if len(objs) == 0 {
		return nil, ErrConcatShapeMismatch.WithMessage("no arrays to concatenate")
	}

	first := objs[0]
	if first.Dimension() >= MaxDimensions {
		return nil, ErrTooLargeDimension.WithMessage(
			fmt.Sprintf(
				"result would have %d dimensions, at most %d allowed",
				first.Dimension()+1,
				MaxDimensions,
			),
		)
	}

	var mismatches error
	for i, obj := range objs[1:] {
		switch {
		case obj.dataType != first.dataType:
			mismatches = multierror.Append(mismatches, fmt.Errorf(
				"array %d is %s, expected %s", i+1, obj.dataType, first.dataType))
		case !slices.Equal(obj.shape, first.shape):
			mismatches = multierror.Append(mismatches, fmt.Errorf(
				"array %d has shape %v, expected %v", i+1, obj.shape, first.shape))
		case len(obj.data) != len(first.data):
			mismatches = multierror.Append(mismatches, fmt.Errorf(
				"array %d has %d bytes of data, expected %d", i+1, len(obj.data), len(first.data)))
		}
	}
	if mismatches != nil {
		return nil, ErrConcatShapeMismatch.Wrap(mismatches)
	}

	// Strings from different members still need a separator between them.
	joinStrings := first.dataType == String && first.Len() > 0
	capacity := len(objs) * len(first.data)
	if joinStrings {
		capacity += len(objs) - 1
	}

	data := make([]byte, 0, capacity)
	for i, obj := range objs {
		if joinStrings && i > 0 {
			data = append(data, compression.Separator)
		}
		data = append(data, obj.data...)
	}

	shape := make([]uint64, 0, len(first.shape)+1)
	shape = append(shape, uint64(len(objs)))
	shape = append(shape, first.shape...)

	return &ArrayObject{
		data:     data,
		shape:    shape,
		dataType: first.dataType,
	}, nil
}
