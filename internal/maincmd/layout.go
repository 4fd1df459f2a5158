package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/wingez/gxpu/internal/frame"
	"github.com/wingez/gxpu/internal/types"
)

func (c *Cmd) Layout(ctx context.Context, stdio mainer.Stdio, args []string) error {
	for _, path := range args {
		prog, err := parseFile(path)
		if err != nil {
			return printError(stdio, err)
		}

		registry := types.NewRegistry()
		for _, st := range prog.Structs {
			members := make([]types.MemberDecl, len(st.Members))
			for i, m := range st.Members {
				typeName := m.TypeName
				if typeName == "" {
					typeName = types.Byte.Name
				}
				members[i] = types.MemberDecl{Name: m.Name, TypeName: typeName}
			}
			if _, err := registry.DefineStruct(st.Name, members); err != nil {
				return printError(stdio, err)
			}
		}

		for _, fn := range prog.Functions {
			layout, err := frame.Build(fn, registry)
			if err != nil {
				return printError(stdio, err)
			}
			fmt.Fprintf(stdio.Stdout, "%s: total_size=%d size_of_vars=%d size_of_params=%d\n",
				fn.Name, layout.TotalSize, layout.SizeOfVars, layout.SizeOfParams)
			for _, line := range layout.Description() {
				fmt.Fprintf(stdio.Stdout, "  %s\n", line)
			}
		}
	}
	return nil
}
