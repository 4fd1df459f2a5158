package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/wingez/gxpu/internal/codegen"
	"github.com/wingez/gxpu/internal/config"
	"github.com/wingez/gxpu/internal/defaultisa"
	"github.com/wingez/gxpu/internal/types"
	"github.com/wingez/gxpu/internal/vm"
)

func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	rt, err := config.Load(c.ConfigPath)
	if err != nil {
		return printError(stdio, err)
	}

	set := defaultisa.New()

	for _, path := range args {
		prog, err := parseFile(path)
		if err != nil {
			return printError(stdio, err)
		}

		registry := types.NewRegistry()
		compiled, err := codegen.CompileProgram(prog, set, registry)
		if err != nil {
			return printError(stdio, err)
		}

		emu := vm.New(set, vm.WithMemorySize(rt.MemorySize))
		if err := emu.SetAllMemory(compiled.Code); err != nil {
			return printError(stdio, err)
		}

		output, err := emu.Run(rt.MaxClockCycles)
		for _, b := range output {
			fmt.Fprintf(stdio.Stdout, "%d\n", b)
		}
		if err != nil {
			return printError(stdio, err)
		}
	}
	return nil
}
