package arrayobj

// Layout of the footer byte at the very end of a packed array:
//
//	TTT F DDDD
//
// TTT is the type class, F the format flag and DDDD the number of dimensions.
// For the two short classes the low five bits hold the value itself instead.
const (
	TypeMask      = 0b111_0_0000
	FormatMask    = 0b000_1_0000
	DimensionMask = 0b000_0_1111
	ShortDataMask = 0b000_1_1111
)

// Type classes
const (
	ClassShortUnsignedInteger = 0b000_0_0000
	ClassShortSignedInteger   = 0b001_0_0000
	ClassUnsignedInteger      = 0b010_0_0000
	ClassSignedInteger        = 0b011_0_0000
	ClassReal                 = 0b100_0_0000
	ClassComplex              = 0b101_0_0000
	ClassString               = 0b110_0_0000
)

// Formats for numeric classes
const (
	FormatFixedLength    = 0b000_0_0000
	FormatVariableLength = 0b000_1_0000
)

// Formats for strings
const (
	FormatJoined     = 0b000_0_0000
	FormatDictionary = 0b000_1_0000
)

// MaxDimensions is the largest number of dimensions an array can have, limited
// by the four bits available in the footer.
const MaxDimensions = DimensionMask
