// Package isa defines the instruction set of the UVM virtual machine.
//
// Every instruction is a single 32-bit word. Bits 0-4 always hold the
// opcode dispatch value; the remaining bits are opcode-specific fields.
// Words are serialized as 4 bytes in little-endian order, one word per
// instruction, and double as the unit of machine memory.
package isa
