package harness

import (
	"github.com/ezrec/uvm/translate"
)

var f = translate.From

// ErrBytesLength reports an EXPECT BYTES script that is not a single
// instruction; encoding checks compare exactly one word.
type ErrBytesLength int

func (err ErrBytesLength) Error() string {
	return f("EXPECT BYTES needs a single instruction, program is %d bytes", int(err))
}

// ErrBytesMismatch reports a machine-code encoding mismatch.
type ErrBytesMismatch struct {
	Want []byte
	Got  []byte
}

func (err *ErrBytesMismatch) Error() string {
	return f("machine code mismatch: expected % x, got % x", err.Want, err.Got)
}

// ErrMemMismatch reports a final memory cell that differs from its expectation.
type ErrMemMismatch struct {
	Address int
	Want    int64
	Got     int64
}

func (err *ErrMemMismatch) Error() string {
	return f("MEM[%d] mismatch: expected %d, got %d", err.Address, err.Want, err.Got)
}

// ErrRegMismatch reports a final register that differs from its expectation.
type ErrRegMismatch struct {
	Index int
	Want  int64
	Got   int64
}

func (err *ErrRegMismatch) Error() string {
	return f("REG[%d] mismatch: expected %d, got %d", err.Index, err.Want, err.Got)
}

// ErrDirective reports an EXPECT directive that could not be parsed.
type ErrDirective struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrDirective) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrDirective) Unwrap() error {
	return err.Err
}

// ErrScript locates a failure in a script file.
type ErrScript struct {
	Path string
	Err  error
}

func (err *ErrScript) Error() string {
	return f("%v: %v", err.Path, err.Err)
}

func (err *ErrScript) Unwrap() error {
	return err.Err
}
