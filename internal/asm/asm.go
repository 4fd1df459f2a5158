// Package asm provides the textual assembler and disassembler: a
// round-trippable mnemonic view of a compiled byte sequence, used for
// testing and diagnostics.
package asm

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wingez/gxpu/internal/isa"
	"github.com/wingez/gxpu/internal/strsplit"
)

// BuilderError is raised when a line matches no instruction template, or
// when disassembly runs off the end of the program or hits an
// unregistered opcode.
type BuilderError struct {
	Msg string
}

func (e *BuilderError) Error() string { return e.Msg }

var wordDelimiters = []rune{' ', ','}

// AssembleMnemonic assembles a single logical line into the bytes of one
// instruction. An empty or comment-only ("#...") line assembles to nothing.
func AssembleMnemonic(set *isa.Set, line string) ([]byte, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil, nil
	}

	inputWords := strsplit.Many(trimmed, wordDelimiters)
	for _, instr := range set.InsertionOrder() {
		templateWords := strsplit.Many(instr.Mnemonic, wordDelimiters)
		if len(templateWords) != len(inputWords) {
			continue
		}
		values, ok := matchWords(templateWords, inputWords)
		if !ok {
			continue
		}
		b, err := instr.Build(values)
		if err != nil {
			return nil, &BuilderError{Msg: err.Error()}
		}
		return b, nil
	}
	return nil, &BuilderError{Msg: fmt.Sprintf("no instruction matches %q", line)}
}

// matchWords attempts to match an input line's words against one
// instruction's template words, position by position, returning the
// decoded operand values on success.
func matchWords(templateWords, inputWords []string) (map[string]byte, bool) {
	values := make(map[string]byte)
	for i, tw := range templateWords {
		iw := inputWords[i]

		hashIdx := strings.IndexByte(tw, '#')
		if hashIdx < 0 {
			if !strings.EqualFold(tw, iw) {
				return nil, false
			}
			continue
		}

		iHashIdx := strings.IndexByte(iw, '#')
		if iHashIdx < 0 {
			return nil, false
		}
		if !strings.EqualFold(tw[:hashIdx], iw[:iHashIdx]) {
			return nil, false
		}
		n, err := strconv.Atoi(iw[iHashIdx+1:])
		if err != nil || n < 0 || n > 0xff {
			return nil, false
		}
		values[tw[hashIdx+1:]] = byte(n)
	}
	return values, true
}

// AssembleMnemonicFile assembles every line of r in order, concatenating
// their bytes into one program.
func AssembleMnemonicFile(set *isa.Set, r io.Reader) ([]byte, error) {
	var out []byte
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		b, err := AssembleMnemonic(set, scanner.Text())
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Disassemble walks program instruction by instruction and returns one
// rendered mnemonic line per instruction.
func Disassemble(set *isa.Set, program []byte) ([]string, error) {
	var lines []string
	i := 0
	for i < len(program) {
		id := program[i]
		instr := set.Lookup(id)
		if instr == nil {
			return nil, &BuilderError{Msg: fmt.Sprintf("no instruction registered for opcode 0x%02x at offset %d", id, i)}
		}
		if i+instr.Size > len(program) {
			return nil, &BuilderError{Msg: fmt.Sprintf("truncated instruction %q at offset %d", instr.Mnemonic, i)}
		}
		line, err := instr.Disassemble(program[i+1 : i+instr.Size])
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
		i += instr.Size
	}
	return lines, nil
}
