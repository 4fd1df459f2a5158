package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/wingez/gxpu/internal/asm"
	"github.com/wingez/gxpu/internal/defaultisa"
	"github.com/wingez/gxpu/internal/isa"
)

// parseHexBytes parses a whitespace-separated sequence of two-digit hex
// bytes, the textual form gxpu compile/asm print.
func parseHexBytes(s string) ([]byte, error) {
	fields := strings.Fields(s)
	out := make([]byte, 0, len(fields))
	for _, f := range fields {
		b, err := hex.DecodeString(f)
		if err != nil || len(b) != 1 {
			return nil, fmt.Errorf("invalid hex byte %q", f)
		}
		out = append(out, b[0])
	}
	return out, nil
}

// loadProgram reads path as either textual mnemonic assembly (asAsm
// true) or whitespace-separated hex bytes, and returns the assembled
// program alongside the instruction set it was built against.
func loadProgram(path string, asAsm bool) (*isa.Set, []byte, error) {
	set := defaultisa.New()

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	if asAsm {
		program, err := asm.AssembleMnemonicFile(set, f)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
		return set, program, nil
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	program, err := parseHexBytes(string(src))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, program, nil
}

// disassembleWithOffsets mirrors asm.Disassemble but also records the byte
// offset each rendered line starts at, so the debugger can map a live PC
// back to the line under the cursor.
func disassembleWithOffsets(set *isa.Set, program []byte) ([]string, []int, error) {
	var lines []string
	var offsets []int
	i := 0
	for i < len(program) {
		id := program[i]
		instr := set.Lookup(id)
		if instr == nil {
			return nil, nil, fmt.Errorf("no instruction registered for opcode 0x%02x at offset %d", id, i)
		}
		if i+instr.Size > len(program) {
			return nil, nil, fmt.Errorf("truncated instruction %q at offset %d", instr.Mnemonic, i)
		}
		line, err := instr.Disassemble(program[i+1 : i+instr.Size])
		if err != nil {
			return nil, nil, err
		}
		lines = append(lines, line)
		offsets = append(offsets, i)
		i += instr.Size
	}
	return lines, offsets, nil
}
