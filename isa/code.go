package isa

import (
	"encoding/binary"
	"fmt"

	"github.com/ezrec/uvm/field"
)

// Op is the opcode dispatch value held in bits 0-4 of every instruction.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_LOAD_CONST = Op(13) // LOAD_CONST
	OP_WRITE_MEM  = Op(15) // WRITE_MEM
	OP_POW        = Op(22) // POW
	OP_READ_MEM   = Op(26) // READ_MEM
)

// OP_WIDTH is the bit width of the opcode dispatch field.
const OP_WIDTH = 5

// CODE_BYTES is the serialized size of one instruction word.
const CODE_BYTES = 4

// Code is a single 32-bit instruction word.
type Code uint32

// MakeCodeLoadConst creates a LOAD_CONST instruction: reg[b] = c.
func MakeCodeLoadConst(b, c uint32) Code {
	return Code(field.Pack(
		field.Spec{Value: uint32(OP_LOAD_CONST), Offset: 0, Width: OP_WIDTH},
		field.Spec{Value: b, Offset: 5, Width: 7},
		field.Spec{Value: c, Offset: 12, Width: 11},
	))
}

// MakeCodeReadMem creates a READ_MEM instruction: reg[c] = mem[reg[b]+d].
func MakeCodeReadMem(b, c, d uint32) Code {
	return Code(field.Pack(
		field.Spec{Value: uint32(OP_READ_MEM), Offset: 0, Width: OP_WIDTH},
		field.Spec{Value: b, Offset: 5, Width: 7},
		field.Spec{Value: c, Offset: 12, Width: 7},
		field.Spec{Value: d, Offset: 19, Width: 6},
	))
}

// MakeCodeWriteMem creates a WRITE_MEM instruction: mem[c] = reg[b].
func MakeCodeWriteMem(b, c uint32) Code {
	return Code(field.Pack(
		field.Spec{Value: uint32(OP_WRITE_MEM), Offset: 0, Width: OP_WIDTH},
		field.Spec{Value: b, Offset: 5, Width: 7},
		field.Spec{Value: c, Offset: 12, Width: 14},
	))
}

// MakeCodePow creates a POW instruction:
// reg[c] = mem[reg[e]+d] raised to the power mem[reg[b]].
func MakeCodePow(b, c, d, e uint32) Code {
	return Code(field.Pack(
		field.Spec{Value: uint32(OP_POW), Offset: 0, Width: OP_WIDTH},
		field.Spec{Value: b, Offset: 5, Width: 7},
		field.Spec{Value: c, Offset: 12, Width: 7},
		field.Spec{Value: d, Offset: 19, Width: 6},
		field.Spec{Value: e, Offset: 25, Width: 7},
	))
}

// Op returns the opcode dispatch value from the instruction word.
func (code Code) Op() Op {
	return Op(field.Unpack(uint32(code), 0, OP_WIDTH))
}

// LoadConstDecode decodes and returns the target register and constant.
func (code Code) LoadConstDecode() (b, c uint32) {
	b = field.Unpack(uint32(code), 5, 7)
	c = field.Unpack(uint32(code), 12, 11)
	return
}

// ReadMemDecode decodes and returns the base register, destination
// register, and offset.
func (code Code) ReadMemDecode() (b, c, d uint32) {
	b = field.Unpack(uint32(code), 5, 7)
	c = field.Unpack(uint32(code), 12, 7)
	d = field.Unpack(uint32(code), 19, 6)
	return
}

// WriteMemDecode decodes and returns the source register and memory address.
func (code Code) WriteMemDecode() (b, c uint32) {
	b = field.Unpack(uint32(code), 5, 7)
	c = field.Unpack(uint32(code), 12, 14)
	return
}

// PowDecode decodes and returns the exponent-address register, the
// destination register, the base offset, and the base-address register.
func (code Code) PowDecode() (b, c, d, e uint32) {
	b = field.Unpack(uint32(code), 5, 7)
	c = field.Unpack(uint32(code), 12, 7)
	d = field.Unpack(uint32(code), 19, 6)
	e = field.Unpack(uint32(code), 25, 7)
	return
}

// Bytes returns the 4-byte little-endian serialization of the word.
func (code Code) Bytes() (buf [CODE_BYTES]byte) {
	binary.LittleEndian.PutUint32(buf[:], uint32(code))
	return
}

// CodeFrom deserializes one instruction word from the first 4 bytes of buf.
func CodeFrom(buf []byte) Code {
	return Code(binary.LittleEndian.Uint32(buf))
}

// String returns the assembly row representation of this instruction.
func (code Code) String() (out string) {
	op := code.Op()

	switch op {
	case OP_LOAD_CONST:
		b, c := code.LoadConstDecode()
		out = fmt.Sprintf("%v,%v,%v", op, b, c)
	case OP_READ_MEM:
		b, c, d := code.ReadMemDecode()
		out = fmt.Sprintf("%v,%v,%v,%v", op, b, c, d)
	case OP_WRITE_MEM:
		b, c := code.WriteMemDecode()
		out = fmt.Sprintf("%v,%v,%v", op, b, c)
	case OP_POW:
		b, c, d, e := code.PowDecode()
		out = fmt.Sprintf("%v,%v,%v,%v,%v", op, b, c, d, e)
	default:
		out = fmt.Sprintf("%v 0x%08x", op, uint32(code))
	}

	return
}
