// Command gxpudbg is an interactive, single-step debugger for compiled gxpu
// programs: it loads a program, then lets a user step the emulator one
// instruction at a time while watching registers and disassembly update
// live; the program's output is shown once it halts.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var asmInput bool

func main() {
	root := &cobra.Command{
		Use:   "gxpudbg <program-file>",
		Short: "Interactively step a compiled gxpu program",
		Args:  cobra.ExactArgs(1),
		RunE:  runDebugger,
	}
	root.Flags().BoolVar(&asmInput, "asm", false, "treat the input file as textual mnemonic assembly instead of hex bytes")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
