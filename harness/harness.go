// Package harness assembles and executes program scripts, comparing
// the outcome against EXPECT directives carried in comment rows:
//
//	# EXPECT BYTES: 0D B0 07 00
//	# EXPECT MEM[100]=123
//	# EXPECT REG[1]=123
//
// A BYTES directive checks the encoding of a single-instruction
// script; MEM and REG directives check the final machine state.
package harness

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"errors"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/ezrec/uvm/asm"
	"github.com/ezrec/uvm/isa"
	"github.com/ezrec/uvm/vm"
)

var (
	bytesRe = regexp.MustCompile(`(?i)^\s*#\s*EXPECT\s+BYTES\s*:\s*(.+?)\s*$`)
	memRe   = regexp.MustCompile(`(?i)^\s*#\s*EXPECT\s+MEM\[(\d+)\]\s*=\s*(-?\d+)\s*$`)
	regRe   = regexp.MustCompile(`(?i)^\s*#\s*EXPECT\s+REG\[(\d+)\]\s*=\s*(-?\d+)\s*$`)
)

// Cell is one expected index/value pair.
type Cell struct {
	Index int
	Value int64
}

// Expect is the set of directives parsed from a script.
type Expect struct {
	Bytes []byte // Expected machine code, nil if absent.
	Mem   []Cell // Expected final memory cells.
	Reg   []Cell // Expected final registers.
}

// ParseExpect extracts EXPECT directives from a script's comment rows.
// Other comments are ignored.
func ParseExpect(script string) (exp *Expect, err error) {
	exp = &Expect{}

	scanner := bufio.NewScanner(strings.NewReader(script))
	var lineno int
	for scanner.Scan() {
		line := scanner.Text()
		lineno += 1

		if m := bytesRe.FindStringSubmatch(line); m != nil {
			// Hex bytes may be spaced ("0D B0 07 00") or packed.
			var expect []byte
			expect, err = hex.DecodeString(strings.ReplaceAll(m[1], " ", ""))
			if err != nil {
				err = &ErrDirective{LineNo: lineno, Line: line, Err: err}
				return
			}
			exp.Bytes = expect
			continue
		}

		if m := memRe.FindStringSubmatch(line); m != nil {
			exp.Mem = append(exp.Mem, directiveCell(m))
			continue
		}

		if m := regRe.FindStringSubmatch(line); m != nil {
			exp.Reg = append(exp.Reg, directiveCell(m))
			continue
		}
	}
	err = scanner.Err()

	return
}

// directiveCell converts matched index/value groups. The regexps only
// match decimal integers, so conversion cannot fail.
func directiveCell(m []string) Cell {
	index, _ := strconv.Atoi(m[1])
	value, _ := strconv.ParseInt(m[2], 10, 64)
	return Cell{Index: index, Value: value}
}

// Result is the outcome of one script run.
type Result struct {
	Binary  []byte      // Assembled machine code.
	Machine *vm.Machine // Final machine state; nil for encoding-only scripts.
}

// Runner executes scripts against a configurable machine.
type Runner struct {
	Verbose       bool
	MemorySize    int // Machine memory size; default vm.MEMORY_SIZE.
	RegisterCount int // Machine register count; default vm.REGISTER_COUNT.
}

// RunScript assembles and checks one script.
func (r *Runner) RunScript(script string) (result *Result, err error) {
	exp, err := ParseExpect(script)
	if err != nil {
		return
	}

	bin, err := asm.Assemble(strings.NewReader(script))
	if err != nil {
		return
	}
	result = &Result{Binary: bin}

	if exp.Bytes != nil {
		if len(bin) != isa.CODE_BYTES {
			err = ErrBytesLength(len(bin))
			return
		}
		if !bytes.Equal(bin, exp.Bytes) {
			err = &ErrBytesMismatch{Want: exp.Bytes, Got: bin}
			return
		}
		if len(exp.Mem) == 0 && len(exp.Reg) == 0 {
			// Encoding-only script.
			return
		}
	}

	memorySize := r.MemorySize
	if memorySize == 0 {
		memorySize = vm.MEMORY_SIZE
	}
	registerCount := r.RegisterCount
	if registerCount == 0 {
		registerCount = vm.REGISTER_COUNT
	}

	m, err := vm.Execute(bin, memorySize, registerCount)
	result.Machine = m
	if err != nil {
		return
	}

	for _, cell := range exp.Mem {
		var cells []int64
		cells, err = m.MemoryRange(cell.Index, cell.Index)
		if err != nil {
			return
		}
		if cells[0] != cell.Value {
			err = &ErrMemMismatch{Address: cell.Index, Want: cell.Value, Got: cells[0]}
			return
		}
	}

	for _, cell := range exp.Reg {
		if cell.Index < 0 || cell.Index >= len(m.Register) {
			err = &ErrRegMismatch{Index: cell.Index, Want: cell.Value}
			return
		}
		if m.Register[cell.Index] != cell.Value {
			err = &ErrRegMismatch{Index: cell.Index, Want: cell.Value, Got: m.Register[cell.Index]}
			return
		}
	}

	return
}

// RunFile runs the script at path.
func (r *Runner) RunFile(path string) (result *Result, err error) {
	script, err := os.ReadFile(path)
	if err != nil {
		return
	}

	result, err = r.RunScript(string(script))
	if err != nil {
		err = &ErrScript{Path: path, Err: err}
	}

	return
}

// RunDir runs every *.csv script under dir in name order, continuing
// past failures. The returned error joins all script failures.
func (r *Runner) RunDir(dir string) (passed, failed int, err error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return
	}

	var errs []error
	for _, path := range paths {
		_, ferr := r.RunFile(path)
		if ferr != nil {
			failed += 1
			errs = append(errs, ferr)
			if r.Verbose {
				log.Printf("FAILED: %v", ferr)
			}
			continue
		}
		passed += 1
		if r.Verbose {
			log.Printf("OK: %v", path)
		}
	}
	err = errors.Join(errs...)

	return
}
