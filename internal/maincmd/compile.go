package maincmd

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/mna/mainer"

	"github.com/wingez/gxpu/internal/codegen"
	"github.com/wingez/gxpu/internal/defaultisa"
	"github.com/wingez/gxpu/internal/types"
)

func (c *Cmd) Compile(ctx context.Context, stdio mainer.Stdio, args []string) error {
	for _, path := range args {
		prog, err := parseFile(path)
		if err != nil {
			return printError(stdio, err)
		}

		set := defaultisa.New()
		registry := types.NewRegistry()
		compiled, err := codegen.CompileProgram(prog, set, registry)
		if err != nil {
			return printError(stdio, err)
		}

		fmt.Fprintln(stdio.Stdout, formatHexBytes(compiled.Code))
	}
	return nil
}

func formatHexBytes(program []byte) string {
	words := make([]string, len(program))
	for i, b := range program {
		words[i] = hex.EncodeToString([]byte{b})
	}
	return strings.Join(words, " ")
}
