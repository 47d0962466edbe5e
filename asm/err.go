package asm

import (
	"errors"

	"github.com/ezrec/uvm/isa"
	"github.com/ezrec/uvm/translate"
)

var f = translate.From

var (
	// Translator errors
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
)

// ErrSyntax locates a translation error on its source row.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrArity reports a row whose argument count does not match its mnemonic.
type ErrArity struct {
	Mnemonic string
	Want     int
	Got      int
}

func (err *ErrArity) Error() string {
	return f("%v expects %d arguments, got %d", err.Mnemonic, err.Want, err.Got)
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMnemonicUnknown string

func (err ErrMnemonicUnknown) Error() string {
	return f("'%v' is not a known mnemonic", string(err))
}

// ErrEncoding reports an IR record whose tag has no encoder. It is
// unreachable for records produced by Parse.
type ErrEncoding isa.Op

func (err ErrEncoding) Error() string {
	return f("no encoding for record tag %d", int(err))
}

func (err ErrEncoding) Is(other error) (ok bool) {
	_, ok = other.(ErrEncoding)
	return
}
