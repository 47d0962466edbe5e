// Package field packs and unpacks unsigned integer fields of a 32-bit
// instruction word at arbitrary bit offsets and widths.
package field

// Spec is a single field of an instruction word. Value is masked to
// Width bits at pack time; higher bits are silently discarded.
type Spec struct {
	Value  uint32 // Field value, low Width bits significant.
	Offset uint   // Bit offset of the field, bit 0 = least significant.
	Width  uint   // Field width in bits, 1..32.
}

// Mask returns a mask of the low 'width' bits.
func Mask(width uint) uint32 {
	return uint32((uint64(1) << width) - 1)
}

// Pack ORs the fields into a single 32-bit word. Field order does not
// affect the result. Overlapping fields are a caller error and are not
// detected.
func Pack(fields ...Spec) (word uint32) {
	for _, f := range fields {
		word |= (f.Value & Mask(f.Width)) << f.Offset
	}

	return
}

// Unpack extracts the field at 'offset' of 'width' bits from the word.
func Unpack(word uint32, offset, width uint) (value uint32) {
	return (word >> offset) & Mask(width)
}
