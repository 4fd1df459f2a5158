package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/wingez/gxpu/internal/lexer"
	"github.com/wingez/gxpu/internal/parser"
)

func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	for _, path := range args {
		prog, err := parseFile(path)
		if err != nil {
			return printError(stdio, err)
		}
		for _, st := range prog.Structs {
			fmt.Fprintf(stdio.Stdout, "struct %s:\n", st.Name)
			for _, m := range st.Members {
				fmt.Fprintf(stdio.Stdout, "  %s\n", m.Name)
			}
		}
		for _, fn := range prog.Functions {
			fmt.Fprintf(stdio.Stdout, "def %s(", fn.Name)
			for i, p := range fn.Params {
				if i > 0 {
					fmt.Fprint(stdio.Stdout, ", ")
				}
				fmt.Fprint(stdio.Stdout, p.Name)
			}
			fmt.Fprintf(stdio.Stdout, "): %d statement(s)\n", len(fn.Body))
		}
	}
	return nil
}

func parseFile(path string) (*parser.Program, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	toks, err := lexer.Tokenize(string(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	prog, err := parser.ParseProgram(toks)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return prog, nil
}
