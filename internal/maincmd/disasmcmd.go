package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/wingez/gxpu/internal/asm"
	"github.com/wingez/gxpu/internal/defaultisa"
)

func (c *Cmd) Disasm(ctx context.Context, stdio mainer.Stdio, args []string) error {
	set := defaultisa.New()
	for _, path := range args {
		src, err := os.ReadFile(path)
		if err != nil {
			return printError(stdio, err)
		}
		program, err := parseHexBytes(string(src))
		if err != nil {
			return printError(stdio, fmt.Errorf("%s: %w", path, err))
		}
		lines, err := asm.Disassemble(set, program)
		if err != nil {
			return printError(stdio, fmt.Errorf("%s: %w", path, err))
		}
		for _, line := range lines {
			fmt.Fprintln(stdio.Stdout, line)
		}
	}
	return nil
}
