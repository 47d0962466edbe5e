package vm

import (
	"errors"

	"github.com/ezrec/uvm/isa"
	"github.com/ezrec/uvm/translate"
)

var f = translate.From

var (
	// ErrNegativeExponent rejects POW with an exponent below zero.
	ErrNegativeExponent = errors.New(f("negative exponent"))

	// ErrRangeInvalid rejects a memory view range with end before start.
	ErrRangeInvalid = errors.New(f("invalid range"))
)

// ErrConfig reports a non-positive machine configuration value.
type ErrConfig struct {
	What  string
	Value int
}

func (err *ErrConfig) Error() string {
	return f("%v must be positive, got %d", err.What, err.Value)
}

// ErrAlignment reports a binary whose byte length is not word-aligned.
type ErrAlignment int

func (err ErrAlignment) Error() string {
	return f("binary length %d is not a multiple of %d", int(err), isa.CODE_BYTES)
}

// ErrProgramSize reports a program that does not fit the configured memory.
type ErrProgramSize struct {
	Words      int
	MemorySize int
}

func (err *ErrProgramSize) Error() string {
	return f("program too large: %d words, memory size %d", err.Words, err.MemorySize)
}

// ErrOutOfBounds reports a register index or memory address outside
// the configured bounds, identifying the offending operand.
type ErrOutOfBounds struct {
	What  string // Operand description.
	Index int64  // Offending index or address.
	Limit int    // Exclusive upper bound; valid range is 0..Limit-1.
}

func (err *ErrOutOfBounds) Error() string {
	return f("%v: %d out of bounds (0..%d)", err.What, err.Index, err.Limit-1)
}

// ErrUnknownOpcode reports a word whose dispatch field matches no opcode.
type ErrUnknownOpcode isa.Code

func (err ErrUnknownOpcode) Error() string {
	return f("unknown opcode A=%d in word 0x%08x", int(isa.Code(err).Op()), uint32(err))
}

func (err ErrUnknownOpcode) Is(other error) (ok bool) {
	_, ok = other.(ErrUnknownOpcode)
	return
}

// ErrCode annotates an execution failure with the faulting instruction.
type ErrCode isa.Code

func (err ErrCode) Error() string {
	return f("instruction 0x%08x %v", uint32(err), isa.Code(err).String())
}

func (err ErrCode) Is(other error) (ok bool) {
	_, ok = other.(ErrCode)
	return
}
