package isa

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeVectors(t *testing.T) {
	assert := assert.New(t)

	// Reference encoding vectors.
	table := [](struct {
		name  string
		code  Code
		word  uint32
		bytes [4]byte
	}){
		{"load_const", MakeCodeLoadConst(0, 123), 0x0007B00D, [4]byte{0x0D, 0xB0, 0x07, 0x00}},
		{"write_mem", MakeCodeWriteMem(0, 100), 0x0006400F, [4]byte{0x0F, 0x40, 0x06, 0x00}},
		{"read_mem", MakeCodeReadMem(2, 1, 0), 0x0000101A, [4]byte{0x1A, 0x10, 0x00, 0x00}},
	}

	for _, entry := range table {
		assert.Equal(entry.word, uint32(entry.code), entry.name)
		assert.Equal(entry.bytes, entry.code.Bytes(), entry.name)
		assert.Equal(entry.code, CodeFrom(entry.bytes[:]), entry.name)
	}
}

func TestCodeDecode(t *testing.T) {
	assert := assert.New(t)

	code := MakeCodeLoadConst(5, 1023)
	assert.Equal(OP_LOAD_CONST, code.Op())
	b, c := code.LoadConstDecode()
	assert.Equal(uint32(5), b)
	assert.Equal(uint32(1023), c)

	code = MakeCodeReadMem(2, 1, 63)
	assert.Equal(OP_READ_MEM, code.Op())
	b, c, d := code.ReadMemDecode()
	assert.Equal(uint32(2), b)
	assert.Equal(uint32(1), c)
	assert.Equal(uint32(63), d)

	code = MakeCodeWriteMem(12, 800)
	assert.Equal(OP_WRITE_MEM, code.Op())
	b, c = code.WriteMemDecode()
	assert.Equal(uint32(12), b)
	assert.Equal(uint32(800), c)

	code = MakeCodePow(11, 12, 0, 10)
	assert.Equal(OP_POW, code.Op())
	b, c, d, e := code.PowDecode()
	assert.Equal(uint32(11), b)
	assert.Equal(uint32(12), c)
	assert.Equal(uint32(0), d)
	assert.Equal(uint32(10), e)
}

func TestCodeFieldWraparound(t *testing.T) {
	assert := assert.New(t)

	// Oversized field values keep only the low bits of the field.
	code := MakeCodeLoadConst(0x80|3, 0x800|77)
	b, c := code.LoadConstDecode()
	assert.Equal(uint32(3), b)
	assert.Equal(uint32(77), c)
}

func TestCodeString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("LOAD_CONST,0,123", MakeCodeLoadConst(0, 123).String())
	assert.Equal("WRITE_MEM,0,100", MakeCodeWriteMem(0, 100).String())
	assert.Equal("READ_MEM,2,1,0", MakeCodeReadMem(2, 1, 0).String())
	assert.Equal("POW,11,12,0,10", MakeCodePow(11, 12, 0, 10).String())
	assert.Equal("Op(0) 0x00000000", Code(0).String())
}
