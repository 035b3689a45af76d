package arrayobj

type convertOptions struct {
	allowLossyFloat bool
}

// ConvertOption configures how an array is converted to native values.
type ConvertOption func(*convertOptions)

// AllowLossyFloat permits converting double-precision data to float32 or
// complex64. Without it such conversions fail with [ErrLossyConversion].
func AllowLossyFloat() ConvertOption {
	return func(o *convertOptions) {
		o.allowLossyFloat = true
	}
}

func newConvertOptions(optFns []ConvertOption) convertOptions {
	o := convertOptions{}
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}
