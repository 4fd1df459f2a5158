// Package vm implements the byte-addressable stack-machine emulator: a
// single-threaded fetch-decode-execute loop over a fixed memory, four
// registers, a zero flag, and an output sink.
package vm

import (
	"fmt"

	"github.com/wingez/gxpu/internal/isa"
)

// MemorySize is the default size of the emulator's addressable memory. It
// is 256 bytes (not the 128 bytes one early draft of the system used) so
// that StackStart, the highest address of memory, is itself an in-bounds
// push target for a single byte address.
const MemorySize = 256

// StackStart is the initial value loaded into SP and FP by the program
// prologue: the highest address of a full-size memory.
const StackStart = 0xff

// DefaultMaxClockCycles bounds a run when the caller does not specify one.
const DefaultMaxClockCycles = 1000

// RuntimeError is raised for out-of-bounds memory access or a malformed
// loaded image.
type RuntimeError struct {
	Msg string
}

func (e *RuntimeError) Error() string { return e.Msg }

// InvalidInstructionError is raised when the byte fetched as an opcode has
// no registered instruction.
type InvalidInstructionError struct {
	Opcode byte
	PC     uint8
}

func (e *InvalidInstructionError) Error() string {
	return fmt.Sprintf("invalid instruction 0x%02x at pc=0x%02x", e.Opcode, e.PC)
}

// CyclesExceededError is raised when a run exhausts its cycle budget without
// the program halting.
type CyclesExceededError struct {
	MaxClockCycles int
}

func (e *CyclesExceededError) Error() string {
	return fmt.Sprintf("execution did not halt within %d cycles", e.MaxClockCycles)
}

// Emulator is a single stack machine instance: its memory, registers, zero
// flag, output sink, and the instruction set driving its run loop.
type Emulator struct {
	memory []byte

	a  uint16
	pc uint8
	fp uint8
	sp uint8

	zeroFlag bool

	output []byte

	instructions *isa.Set
}

// Option configures a New emulator.
type Option func(*Emulator)

// WithMemorySize overrides the default 256-byte memory. Tests use this to
// exercise out-of-bounds behavior with a deliberately small memory; size
// must be in 1..256, since addresses are single bytes.
func WithMemorySize(size int) Option {
	return func(e *Emulator) { e.memory = make([]byte, size) }
}

// New returns an Emulator bound to the given instruction set, with zeroed
// memory and registers.
func New(instructions *isa.Set, opts ...Option) *Emulator {
	e := &Emulator{memory: make([]byte, MemorySize), instructions: instructions}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Size returns the emulator's addressable memory size in bytes.
func (e *Emulator) Size() int { return len(e.memory) }

// Reset clears the registers and zero flag. Memory is untouched.
func (e *Emulator) Reset() {
	e.a = 0
	e.pc = 0
	e.fp = 0
	e.sp = 0
	e.zeroFlag = false
	e.output = nil
}

// ClearMemory zeroes the whole memory array.
func (e *Emulator) ClearMemory() {
	for i := range e.memory {
		e.memory[i] = 0
	}
}

// SetAllMemory zeroes memory then loads program as its prefix. program must
// not be longer than the emulator's memory size; every byte of program is
// already range-limited to 0..255 by the Go byte type.
func (e *Emulator) SetAllMemory(program []byte) error {
	if len(program) > len(e.memory) {
		return &RuntimeError{Msg: fmt.Sprintf("program of %d bytes exceeds memory size %d", len(program), len(e.memory))}
	}
	e.ClearMemory()
	copy(e.memory, program)
	return nil
}

// A returns the full word-wide A register.
func (e *Emulator) A() uint16 { return e.a }

// SetA sets the full word-wide A register.
func (e *Emulator) SetA(v uint16) { e.a = v }

// ALow returns the lower byte of A, the only half the default instruction
// set ever reads or writes to memory.
func (e *Emulator) ALow() byte { return byte(e.a & 0xff) }

// SetALow sets the lower byte of A, leaving the upper byte untouched.
func (e *Emulator) SetALow(v byte) { e.a = (e.a &^ 0xff) | uint16(v) }

// AHigh returns the upper byte of A.
func (e *Emulator) AHigh() byte { return byte(e.a >> 8) }

func (e *Emulator) PC() uint8     { return e.pc }
func (e *Emulator) SetPC(v uint8) { e.pc = v }
func (e *Emulator) FP() uint8     { return e.fp }
func (e *Emulator) SetFP(v uint8) { e.fp = v }
func (e *Emulator) SP() uint8     { return e.sp }
func (e *Emulator) SetSP(v uint8) { e.sp = v }

func (e *Emulator) ZeroFlag() bool     { return e.zeroFlag }
func (e *Emulator) SetZeroFlag(v bool) { e.zeroFlag = v }

// ReadMemory returns the byte at addr, or a RuntimeError if addr is outside
// the emulator's memory.
func (e *Emulator) ReadMemory(addr uint8) (byte, error) {
	if int(addr) >= len(e.memory) {
		return 0, &RuntimeError{Msg: fmt.Sprintf("read out of bounds at address 0x%02x (memory size %d)", addr, len(e.memory))}
	}
	return e.memory[addr], nil
}

// WriteMemory stores val at addr, or returns a RuntimeError if addr is
// outside the emulator's memory.
func (e *Emulator) WriteMemory(addr uint8, val byte) error {
	if int(addr) >= len(e.memory) {
		return &RuntimeError{Msg: fmt.Sprintf("write out of bounds at address 0x%02x (memory size %d)", addr, len(e.memory))}
	}
	e.memory[addr] = val
	return nil
}

// Push stores b at SP then increments SP; the stack grows upward.
func (e *Emulator) Push(b byte) error {
	if err := e.WriteMemory(e.sp, b); err != nil {
		return err
	}
	e.sp++
	return nil
}

// Pop decrements SP then returns the byte now at SP.
func (e *Emulator) Pop() (byte, error) {
	e.sp--
	return e.ReadMemory(e.sp)
}

// Output appends b to the accumulated output.
func (e *Emulator) Output(b byte) {
	e.output = append(e.output, b)
}

// OutputBytes returns the bytes written via OUT so far, in emission order.
func (e *Emulator) OutputBytes() []byte {
	return e.output
}

// getAndIncPC reads memory[PC] and post-increments PC.
func (e *Emulator) getAndIncPC() (byte, error) {
	b, err := e.ReadMemory(e.pc)
	if err != nil {
		return 0, err
	}
	e.pc++
	return b, nil
}

// Run executes instructions until one signals halt or the cycle budget
// (maxClockCycles; DefaultMaxClockCycles if <= 0) is exhausted. It returns
// the output bytes produced.
func (e *Emulator) Run(maxClockCycles int) ([]byte, error) {
	if maxClockCycles <= 0 {
		maxClockCycles = DefaultMaxClockCycles
	}

	for cycle := 0; cycle < maxClockCycles; cycle++ {
		opcodePC := e.pc
		opcode, err := e.getAndIncPC()
		if err != nil {
			return e.output, err
		}
		instr := e.instructions.Lookup(opcode)
		if instr == nil {
			return e.output, &InvalidInstructionError{Opcode: opcode, PC: opcodePC}
		}

		operandBytes := make([]byte, len(instr.VariableOrder))
		for i := range operandBytes {
			b, err := e.getAndIncPC()
			if err != nil {
				return e.output, err
			}
			operandBytes[i] = b
		}
		operands := isa.DecodeOperands(instr.VariableOrder, operandBytes)

		halt, err := instr.Behavior(e, operands)
		if err != nil {
			return e.output, err
		}
		if halt {
			return e.output, nil
		}
	}
	return e.output, &CyclesExceededError{MaxClockCycles: maxClockCycles}
}

var _ isa.Machine = (*Emulator)(nil)
