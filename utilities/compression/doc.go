// Package compression implements the packers that shrink the payload of an
// array before it's written out.
//
// This isn't general-purpose compression. Arrays of numbers usually waste space
// in two ways: the values don't need the full width of their type, or (for
// strings) the same values are repeated many times. The packers here only
// exploit those two things, and every one of them falls back to storing the
// data as it is when that's the smallest option.
//
// Each packer works in two steps. The Inspect* function looks at the data and
// returns a plan with the cheapest option and the exact size of the packed
// payload; the Pack* function then writes the payload into a buffer of exactly
// that size. Decoders read the payload with a cursor and never modify it.
//
// Integers (signed integers are zigzag encoded first so they look unsigned)
// can be packed with:
//
//   - a fixed length: every element is truncated to the smallest of 1, 2, 4, 8
//     or 16 bytes that holds the largest element.
//   - a variable length: every element gets its own width, grouped four to a
//     header byte of two-bit width codes. For example, the values 5, 300, 7 and
//     70000 stored as 32-bit integers take 16 bytes but pack to 9:
//
//     00 01 00 10 | 05 | 2C 01 | 07 | 70 11 01 00
//
//   - a single element without its high zero bytes, or a scalar below 32
//     embedded in the footer byte with no payload at all.
//
// Floating-point numbers can only shrink from double to single precision, and
// only when the conversion is exact. Either all elements are narrowed (fixed
// length), or each one is narrowed if possible (variable length, two-bit codes
// as with integers).
//
// Strings are stored joined by 0xFF, or as a dictionary of distinct strings
// followed by one index byte per element.
package compression
