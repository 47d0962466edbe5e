package asm

import (
	"iter"

	"github.com/ezrec/uvm/isa"
)

// Record is a single validated IR record, tagged by opcode. Only the
// operand fields relevant to the tag are significant; the operand
// count has already been checked against the mnemonic's arity.
type Record struct {
	LineNo int    // Source line of the row.
	Row    string // Original row text, for diagnostics.

	Op         isa.Op // Record tag.
	B, C, D, E uint32 // Operands, in row order.
}

// Code encodes the record into its instruction word.
func (rec Record) Code() (code isa.Code, err error) {
	switch rec.Op {
	case isa.OP_LOAD_CONST:
		code = isa.MakeCodeLoadConst(rec.B, rec.C)
	case isa.OP_READ_MEM:
		code = isa.MakeCodeReadMem(rec.B, rec.C, rec.D)
	case isa.OP_WRITE_MEM:
		code = isa.MakeCodeWriteMem(rec.B, rec.C)
	case isa.OP_POW:
		code = isa.MakeCodePow(rec.B, rec.C, rec.D, rec.E)
	default:
		err = ErrEncoding(rec.Op)
	}

	return
}

// Program is an ordered sequence of IR records, one instruction word each.
type Program struct {
	Records []Record
}

// Debug returns the record that occupies the given word address, or
// nil if the address is past the end of the program.
func (prog *Program) Debug(pc int) (rec *Record) {
	if pc >= 0 && pc < len(prog.Records) {
		rec = &prog.Records[pc]
	}

	return
}

// Codes iterates (word address, record) pairs in program order.
func (prog *Program) Codes() iter.Seq2[int, Record] {
	return func(yield func(pc int, rec Record) bool) {
		for n, rec := range prog.Records {
			if !yield(n, rec) {
				return
			}
		}
	}
}

// Assemble encodes the program as a little-endian byte stream, 4 bytes
// per record, in record order.
func (prog *Program) Assemble() (bin []byte, err error) {
	bin = make([]byte, 0, len(prog.Records)*isa.CODE_BYTES)

	for _, rec := range prog.Records {
		var code isa.Code
		code, err = rec.Code()
		if err != nil {
			err = &ErrSyntax{LineNo: rec.LineNo, Line: rec.Row, Err: err}
			bin = nil
			return
		}
		buf := code.Bytes()
		bin = append(bin, buf[:]...)
	}

	return
}
