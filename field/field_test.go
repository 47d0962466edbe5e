package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMask(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(uint32(0x1), Mask(1))
	assert.Equal(uint32(0x1f), Mask(5))
	assert.Equal(uint32(0x7f), Mask(7))
	assert.Equal(uint32(0xffffffff), Mask(32))
}

func TestPack(t *testing.T) {
	assert := assert.New(t)

	// LOAD_CONST,0,123 from the reference vectors.
	word := Pack(
		Spec{Value: 13, Offset: 0, Width: 5},
		Spec{Value: 0, Offset: 5, Width: 7},
		Spec{Value: 123, Offset: 12, Width: 11},
	)
	assert.Equal(uint32(0x0007B00D), word)

	// Field order does not matter.
	swapped := Pack(
		Spec{Value: 123, Offset: 12, Width: 11},
		Spec{Value: 0, Offset: 5, Width: 7},
		Spec{Value: 13, Offset: 0, Width: 5},
	)
	assert.Equal(word, swapped)
}

func TestPackWraparound(t *testing.T) {
	assert := assert.New(t)

	// Values wider than the field keep only the low bits.
	assert.Equal(uint32(0x3), Pack(Spec{Value: 0xffff_fff3, Offset: 0, Width: 4}))
	assert.Equal(uint32(0x30), Pack(Spec{Value: 0xf3, Offset: 4, Width: 4}))
}

func TestUnpack(t *testing.T) {
	assert := assert.New(t)

	word := uint32(0x0007B00D)
	assert.Equal(uint32(13), Unpack(word, 0, 5))
	assert.Equal(uint32(0), Unpack(word, 5, 7))
	assert.Equal(uint32(123), Unpack(word, 12, 11))
}

func TestRoundTrip(t *testing.T) {
	assert := assert.New(t)

	values := []uint32{0, 1, 0x55, 0xffff, 0xffff_ffff}
	for offset := uint(0); offset < 32; offset++ {
		for width := uint(1); width <= 32-offset; width++ {
			for _, value := range values {
				word := Pack(Spec{Value: value, Offset: offset, Width: width})
				assert.Equal(value&Mask(width), Unpack(word, offset, width))
			}
		}
	}
}
