package vm

import (
	"errors"
	"fmt"
	"log"
	"math/big"

	"github.com/ezrec/uvm/isa"
)

const (
	MEMORY_SIZE    = 65536 // Default memory size, in words.
	REGISTER_COUNT = 32    // Default register count.
)

// Machine is the state of one program run: a register bank, a combined
// code+data memory, and a program counter. A machine is owned by a
// single run; after Run returns the caller treats it as a snapshot.
type Machine struct {
	Verbose bool // Set to enable verbose logging.

	Register []int64 // Register bank, zero initialized.
	Memory   []int64 // Combined code+data word-addressable memory.
	Pc       int     // Program counter, a word index into Memory.

	programLen int // Word count of the loaded program, fixed at load time.
}

// NewMachine creates a halted machine with zeroed registers and memory.
func NewMachine(memorySize, registerCount int) (m *Machine, err error) {
	if memorySize <= 0 {
		err = &ErrConfig{What: "memory size", Value: memorySize}
		return
	}
	if registerCount <= 0 {
		err = &ErrConfig{What: "register count", Value: registerCount}
		return
	}

	m = &Machine{
		Register: make([]int64, registerCount),
		Memory:   make([]int64, memorySize),
	}

	return
}

// String returns the current machine state as a string.
func (m *Machine) String() (text string) {
	text = fmt.Sprintf("   pc: %v/%v\n", m.Pc, m.programLen)
	for n, val := range m.Register {
		if val != 0 {
			text += fmt.Sprintf("  r%02d: %v\n", n, val)
		}
	}

	return
}

// Load copies a binary program into memory starting at address 0, one
// little-endian 4-byte word per instruction, and resets the program
// counter. The word count becomes the program length: the termination
// boundary for this run, regardless of later writes into the program's
// address range.
func (m *Machine) Load(bin []byte) (err error) {
	if len(bin)%isa.CODE_BYTES != 0 {
		err = ErrAlignment(len(bin))
		return
	}

	words := len(bin) / isa.CODE_BYTES
	if words > len(m.Memory) {
		err = &ErrProgramSize{Words: words, MemorySize: len(m.Memory)}
		return
	}

	for n := range words {
		m.Memory[n] = int64(uint32(isa.CodeFrom(bin[n*isa.CODE_BYTES:])))
	}
	m.programLen = words
	m.Pc = 0

	if m.Verbose {
		log.Printf("vm: loaded %v words", words)
	}

	return
}

// ProgramLen returns the word count of the loaded program.
func (m *Machine) ProgramLen() int {
	return m.programLen
}

// Halted reports whether the program counter has reached the fixed
// program boundary.
func (m *Machine) Halted() bool {
	return m.Pc >= m.programLen
}

// Step fetches the word at the program counter, advances the counter,
// then decodes and executes the word. The executed operation observes
// the post-increment counter. done is true once the machine halts.
func (m *Machine) Step() (done bool, err error) {
	if m.Halted() {
		done = true
		return
	}

	code := isa.Code(uint32(m.Memory[m.Pc]))
	m.Pc += 1

	err = m.execute(code)
	if err != nil {
		return
	}

	done = m.Halted()

	return
}

// Run steps the machine until it halts or an instruction faults.
func (m *Machine) Run() (err error) {
	var done bool
	for !done {
		done, err = m.Step()
		if err != nil {
			return
		}
	}

	return
}

// MemoryRange exposes mem[start..end] inclusive as a read-only view.
func (m *Machine) MemoryRange(start, end int) (cells []int64, err error) {
	if end < start {
		err = ErrRangeInvalid
		return
	}
	if start < 0 {
		err = &ErrOutOfBounds{What: "range start", Index: int64(start), Limit: len(m.Memory)}
		return
	}
	if end >= len(m.Memory) {
		err = &ErrOutOfBounds{What: "range end", Index: int64(end), Limit: len(m.Memory)}
		return
	}

	cells = m.Memory[start : end+1]

	return
}

// execute dispatches a single decoded instruction. All bounds checks
// happen before any state mutation, so a faulting instruction has no
// partial effect; state mutated by earlier instructions is preserved.
func (m *Machine) execute(code isa.Code) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrCode(code), err)
		}
	}()

	if m.Verbose {
		log.Printf("%04x: %v", m.Pc-1, code)
	}

	switch code.Op() {
	case isa.OP_LOAD_CONST:
		b, c := code.LoadConstDecode()
		err = m.checkRegister("LOAD_CONST register B", b)
		if err != nil {
			return
		}
		m.Register[b] = int64(c)
	case isa.OP_READ_MEM:
		b, c, d := code.ReadMemDecode()
		err = m.checkRegister("READ_MEM register B", b)
		if err != nil {
			return
		}
		err = m.checkRegister("READ_MEM register C", c)
		if err != nil {
			return
		}
		addr := m.Register[b] + int64(d)
		err = m.checkAddress("READ_MEM address", addr)
		if err != nil {
			return
		}
		m.Register[c] = m.Memory[addr]
	case isa.OP_WRITE_MEM:
		b, c := code.WriteMemDecode()
		err = m.checkRegister("WRITE_MEM register B", b)
		if err != nil {
			return
		}
		err = m.checkAddress("WRITE_MEM address", int64(c))
		if err != nil {
			return
		}
		m.Memory[c] = m.Register[b]
	case isa.OP_POW:
		b, c, d, e := code.PowDecode()
		err = m.checkRegister("POW register B", b)
		if err != nil {
			return
		}
		err = m.checkRegister("POW register C", c)
		if err != nil {
			return
		}
		err = m.checkRegister("POW register E", e)
		if err != nil {
			return
		}
		addr1 := m.Register[e] + int64(d)
		err = m.checkAddress("POW operand1 address", addr1)
		if err != nil {
			return
		}
		addr2 := m.Register[b]
		err = m.checkAddress("POW operand2 address", addr2)
		if err != nil {
			return
		}
		var out int64
		out, err = pow(m.Memory[addr1], m.Memory[addr2])
		if err != nil {
			return
		}
		m.Register[c] = out
	default:
		err = ErrUnknownOpcode(code)
	}

	return
}

// checkRegister validates a register index before use.
func (m *Machine) checkRegister(what string, index uint32) (err error) {
	if int(index) >= len(m.Register) {
		err = &ErrOutOfBounds{What: what, Index: int64(index), Limit: len(m.Register)}
	}

	return
}

// checkAddress validates a memory address before access.
func (m *Machine) checkAddress(what string, addr int64) (err error) {
	if addr < 0 || addr >= int64(len(m.Memory)) {
		err = &ErrOutOfBounds{What: what, Index: addr, Limit: len(m.Memory)}
	}

	return
}

// two64 is the wrapping modulus for POW results.
var two64 = new(big.Int).Lsh(big.NewInt(1), 64)

// pow raises base to exp as integers, wrapping modulo 2^64 and storing
// the result two's-complement. Negative exponents are rejected.
func pow(base, exp int64) (out int64, err error) {
	if exp < 0 {
		err = ErrNegativeExponent
		return
	}

	b := new(big.Int).SetInt64(base)
	b.Mod(b, two64)
	e := new(big.Int).SetInt64(exp)

	out = int64(b.Exp(b, e, two64).Uint64())

	return
}

// Execute loads a binary program into a fresh machine and runs it to
// completion. On failure the machine is still returned, reflecting
// every mutation up to the faulting instruction.
func Execute(bin []byte, memorySize, registerCount int) (m *Machine, err error) {
	m, err = NewMachine(memorySize, registerCount)
	if err != nil {
		return
	}

	err = m.Load(bin)
	if err != nil {
		return
	}

	err = m.Run()

	return
}
