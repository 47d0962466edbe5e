// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/uvm/isa"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// mnemonic binds a row mnemonic to its record tag and argument count.
type mnemonic struct {
	op    isa.Op
	arity int
}

var mnemonicMap = map[string]mnemonic{
	"LOAD_CONST": {isa.OP_LOAD_CONST, 2},
	"READ_MEM":   {isa.OP_READ_MEM, 3},
	"WRITE_MEM":  {isa.OP_WRITE_MEM, 2},
	"POW":        {isa.OP_POW, 4},
}

// Assembler is a single pass translator from row text to IR records.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the translation.
	Record  []Record // List of generated IR records.

	predefine map[string]string // Predefines
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the 32-bit value of a single argument token.
// Negative numbers wrap two's-complement; oversized values keep their
// low 32 bits, per the codec's wraparound policy.
func (asm *Assembler) valueOf(word string) (value uint32, err error) {
	v64, err := strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = uint32(v64)

	return
}

// parenEval does translation-time $(...) evaluations.
func (asm *Assembler) parenEval(expr string) (value uint32, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value32 uint32
		value32, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates.
			continue
		}
		pred[key] = starlark.MakeInt(int(value32))
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = uint32(st_int64)
	return
}

var parenRe = regexp.MustCompile(`\$\([^\$]*\)`)

// parseRow splits a source row into trimmed comma-delimited fields.
// Blank rows and rows whose first field begins with '#' yield no
// fields. A '.equ' row defines an equate and yields no fields.
func (asm *Assembler) parseRow(line string, lineno int) (fields []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Blank row, or first field starts the comment marker.
	first := strings.TrimSpace(line)
	if first == "" || strings.HasPrefix(first, "#") {
		return
	}

	// Do $() evaluations before splitting, so expressions may
	// contain commas.
	line = parenRe.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#v", value)
	})
	if err != nil {
		return
	}

	for _, single := range strings.Split(line, ",") {
		fields = append(fields, strings.TrimSpace(single))
	}
	if fields[0] == "" {
		fields = nil
		return
	}

	// .equ,CONST,VALUE
	if fields[0] == ".equ" {
		if len(fields) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[fields[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[fields[1]] = fields[2]
		fields = nil
		return
	}

	// Substitute equates.
	for n, word := range fields {
		equate, ok := asm.Equate[word]
		if ok {
			fields[n] = equate
		}
	}

	return
}

// toRecord validates one row of fields as an IR record.
func (asm *Assembler) toRecord(fields []string, lineno int, line string) (rec Record, err error) {
	mn, ok := mnemonicMap[strings.ToUpper(fields[0])]
	if !ok {
		err = ErrMnemonicUnknown(fields[0])
		return
	}

	args := fields[1:]
	if len(args) != mn.arity {
		err = &ErrArity{Mnemonic: mn.op.String(), Want: mn.arity, Got: len(args)}
		return
	}

	vals := make([]uint32, len(args))
	for n, arg := range args {
		vals[n], err = asm.valueOf(arg)
		if err != nil {
			return
		}
	}

	rec = Record{LineNo: lineno, Row: line, Op: mn.op}
	out := []*uint32{&rec.B, &rec.C, &rec.D, &rec.E}
	for n := range vals {
		*out[n] = vals[n]
	}

	return
}

// Parse parses an input stream into a Program of IR records. Output
// record order equals input row order.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Record = asm.Record[:0]
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		line = scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, line)
		}

		var fields []string
		fields, err = asm.parseRow(line, lineno)
		if err != nil {
			return
		}
		if len(fields) == 0 {
			continue
		}

		var rec Record
		rec, err = asm.toRecord(fields, lineno, line)
		if err != nil {
			return
		}

		asm.Record = append(asm.Record, rec)
	}
	err = scanner.Err()
	if err != nil {
		return
	}

	prog = &Program{
		Records: slices.Clone(asm.Record),
	}

	return
}

// Assemble translates a textual program into its binary byte stream.
func Assemble(input io.Reader) (bin []byte, err error) {
	asm := &Assembler{}

	prog, err := asm.Parse(input)
	if err != nil {
		return
	}

	return prog.Assemble()
}
