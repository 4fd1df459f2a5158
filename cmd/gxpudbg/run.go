package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func runDebugger(cmd *cobra.Command, args []string) error {
	path := args[0]

	set, program, err := loadProgram(path, asmInput)
	if err != nil {
		return err
	}

	lines, offsets, err := disassembleWithOffsets(set, program)
	if err != nil {
		return fmt.Errorf("disassembling %s: %w", path, err)
	}

	m, err := newModel(set, program, lines, offsets)
	if err != nil {
		return err
	}

	_, err = tea.NewProgram(m).Run()
	return err
}
