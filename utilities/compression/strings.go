package compression

import (
	"bytes"
	"fmt"
)

// Separator is the byte that joins strings in an array. It never occurs in
// valid UTF-8.
const Separator = 0xff

// MaxDictionarySize is the largest number of distinct strings a dictionary can
// hold, since every element refers to its entry with a single byte.
const MaxDictionarySize = 255

// StringOption identifies how an array of strings is packed.
type StringOption int

const (
	// StringJoined stores the strings joined by [Separator], unmodified.
	StringJoined StringOption = iota
	// StringDictionary stores each distinct string once and replaces every
	// element with its index in the dictionary. See [PackDictionary].
	StringDictionary
)

// StringPlan is the result of [InspectStrings].
type StringPlan struct {
	Option StringOption
	// Dictionary holds the distinct strings in order of first occurrence.
	Dictionary [][]byte
	// Size is the total payload size in bytes for [StringDictionary].
	Size int

	// indices gives the dictionary slot of every element.
	indices []byte
}

// SplitJoined splits strings joined by [Separator]. The returned slices alias
// `data`.
func SplitJoined(data []byte) [][]byte {
	return bytes.Split(data, []byte{Separator})
}

// InspectStrings decides whether the `count` strings joined in `data` are
// smaller when stored as a dictionary.
func InspectStrings(data []byte, count uint64) StringPlan {
	if count <= 1 {
		return StringPlan{Option: StringJoined}
	}

	slots := map[string]int{}
	plan := StringPlan{
		Option:  StringDictionary,
		indices: make([]byte, 0, count),
	}
	keysSize := 0

	for _, element := range SplitJoined(data) {
		slot, ok := slots[string(element)]
		if !ok {
			slot = len(plan.Dictionary)
			if slot >= MaxDictionarySize {
				return StringPlan{Option: StringJoined}
			}
			slots[string(element)] = slot
			plan.Dictionary = append(plan.Dictionary, element)
			keysSize += len(element)
		}
		plan.indices = append(plan.indices, byte(slot))
	}

	// One byte for the key count, the keys each followed by a separator, then
	// one index byte per element.
	plan.Size = 1 + keysSize + len(plan.Dictionary) + len(plan.indices)
	if plan.Size >= len(data) {
		return StringPlan{Option: StringJoined}
	}
	return plan
}

// PackDictionary writes the dictionary form of a string array:
//
//	key count (1 byte) | key 0 | 0xff | key 1 | 0xff | ... | index 0 | index 1 | ...
//
// `plan` must come from [InspectStrings] and have the [StringDictionary] option.
func PackDictionary(plan StringPlan) ([]byte, error) {
	if plan.Option != StringDictionary {
		return nil, fmt.Errorf("%w: plan is not a dictionary", ErrSizeMismatch)
	}

	writer := newPayloadWriter(plan.Size)
	writer.PutByte(byte(len(plan.Dictionary)))
	for _, key := range plan.Dictionary {
		writer.Put(key)
		writer.PutByte(Separator)
	}
	writer.Put(plan.indices)
	return writer.Finish()
}

// UnpackDictionary restores the `count` joined strings stored by
// [PackDictionary].
func UnpackDictionary(packed []byte, count uint64) ([]byte, error) {
	reader := newCursor(packed)
	keyCount, err := reader.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("missing dictionary size: %w", err)
	}

	dictionary := make([][]byte, keyCount)
	for i := range dictionary {
		dictionary[i], err = reader.ReadUntil(Separator)
		if err != nil {
			return nil, fmt.Errorf("failed to read dictionary key %d of %d: %w", i, keyCount, err)
		}
	}

	if uint64(reader.Remaining()) != count {
		return nil, fmt.Errorf(
			"%w: expected %d dictionary indices, found %d",
			ErrMalformedPayload,
			count,
			reader.Remaining(),
		)
	}

	indices, err := reader.Next(reader.Remaining())
	if err != nil {
		return nil, err
	}

	unpacked := []byte{}
	for i, index := range indices {
		if int(index) >= len(dictionary) {
			return nil, fmt.Errorf(
				"%w: element %d refers to key %d, dictionary only has %d",
				ErrMalformedPayload,
				i,
				index,
				len(dictionary),
			)
		}
		if i > 0 {
			unpacked = append(unpacked, Separator)
		}
		unpacked = append(unpacked, dictionary[index]...)
	}
	return unpacked, nil
}
