// Package colorize renders disassembly and debugger output with a small,
// consistent color scheme, the way a terminal disassembler view does.
package colorize

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	addressStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	mnemonicStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	operandStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	registerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("117"))
	outputStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("120"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("204")).Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)
)

// Disabled reports whether color output has been suppressed via NO_COLOR,
// the convention respected by most terminal tooling.
func Disabled() bool {
	return os.Getenv("NO_COLOR") != ""
}

func render(style lipgloss.Style, s string) string {
	if Disabled() {
		return s
	}
	return style.Render(s)
}

// Address formats a one-byte memory address as a hex label.
func Address(addr uint8) string {
	return render(addressStyle, fmt.Sprintf("0x%02x", addr))
}

// Mnemonic formats an instruction's opcode word.
func Mnemonic(s string) string { return render(mnemonicStyle, s) }

// Operand formats one decoded operand of a disassembled instruction.
func Operand(s string) string { return render(operandStyle, s) }

// Register formats a register name/value pair such as "A=0x05".
func Register(name string, value uint8) string {
	return render(registerStyle, fmt.Sprintf("%s=0x%02x", name, value))
}

// Output formats a byte captured from the program's OUT stream.
func Output(s string) string { return render(outputStyle, s) }

// Error formats a runtime or assembly error message.
func Error(s string) string { return render(errorStyle, s) }

// Cursor marks the instruction the program counter currently points at.
func Cursor(s string) string { return render(cursorStyle, s) }
