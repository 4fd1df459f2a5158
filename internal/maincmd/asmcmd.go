package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/wingez/gxpu/internal/asm"
	"github.com/wingez/gxpu/internal/defaultisa"
)

func (c *Cmd) Asm(ctx context.Context, stdio mainer.Stdio, args []string) error {
	set := defaultisa.New()
	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			return printError(stdio, err)
		}
		program, err := asm.AssembleMnemonicFile(set, f)
		f.Close()
		if err != nil {
			return printError(stdio, fmt.Errorf("%s: %w", path, err))
		}
		fmt.Fprintln(stdio.Stdout, formatHexBytes(program))
	}
	return nil
}
