// Package codegen lowers a parsed program into a flat byte sequence that
// targets the default instruction set: prologue/epilogue sequencing,
// statement and value-provider lowering, and forward-jump backpatching.
package codegen

import (
	"github.com/wingez/gxpu/internal/ast"
	"github.com/wingez/gxpu/internal/compileerr"
	"github.com/wingez/gxpu/internal/defaultisa"
	"github.com/wingez/gxpu/internal/frame"
	"github.com/wingez/gxpu/internal/isa"
	"github.com/wingez/gxpu/internal/parser"
	"github.com/wingez/gxpu/internal/token"
	"github.com/wingez/gxpu/internal/types"
	"github.com/wingez/gxpu/internal/vm"
)

// CompiledFunction is one function's compiled record: where its code
// starts and the frame layout its body was compiled against.
type CompiledFunction struct {
	Name         string
	ReturnType   types.DataType
	NumParams    int
	SizeOfParams int
	Layout       *frame.Layout
	EntryAddress int
}

// Program is a whole compiled unit: the flat byte sequence loaded at
// address 0, and every function's compiled record by name.
type Program struct {
	Code      []byte
	Functions map[string]*CompiledFunction
}

// generator holds the mutable state of a single compilation: the growing
// code buffer, the instruction set it targets, the type registry, and the
// bookkeeping needed to resolve calls to functions not yet compiled.
type generator struct {
	set      *isa.Set
	registry *types.Registry

	code      []byte
	functions map[string]*CompiledFunction

	// pendingCalls maps a callee name to the operand-byte positions of every
	// CALL site referencing it, whether or not the callee has been compiled
	// yet. All of them are resolved in one pass once every function (and
	// the reserved call to "main") has been compiled.
	pendingCalls map[string][]int
}

func newGenerator(set *isa.Set, registry *types.Registry) *generator {
	return &generator{
		set:          set,
		registry:     registry,
		functions:    make(map[string]*CompiledFunction),
		pendingCalls: make(map[string][]int),
	}
}

func (g *generator) instr(mnemonic string) *isa.Instruction {
	i := g.set.ByMnemonic(mnemonic)
	if i == nil {
		panic("codegen: instruction set is missing required mnemonic " + mnemonic)
	}
	return i
}

func (g *generator) put(b []byte) int {
	pos := len(g.code)
	g.code = append(g.code, b...)
	return pos
}

func (g *generator) putAt(b []byte, pos int) {
	copy(g.code[pos:], b)
}

func (g *generator) reserve(n int) int {
	pos := len(g.code)
	g.code = append(g.code, make([]byte, n)...)
	return pos
}

// emit builds and appends one instruction by mnemonic name with the given
// operand values. Operand mismatches here would be a bug in this package,
// not a condition callers of CompileProgram should ever see.
func (g *generator) emit(mnemonic string, operands map[string]byte) {
	b, err := g.instr(mnemonic).Build(operands)
	if err != nil {
		panic(err)
	}
	g.put(b)
}

func (g *generator) emit0(mnemonic string) {
	g.emit(mnemonic, map[string]byte{})
}

// emitCall reserves space for a CALL to calleeName and records its operand
// position for later resolution, whether calleeName's entry address is
// already known or still forward-referenced.
func (g *generator) emitCall(calleeName string) {
	callInstr := g.instr(defaultisa.CallConst)
	pos := g.reserve(callInstr.Size)
	g.code[pos] = byte(callInstr.ID)
	g.pendingCalls[calleeName] = append(g.pendingCalls[calleeName], pos+1)
}

func (g *generator) resolvePendingCalls() error {
	for name, positions := range g.pendingCalls {
		cf, ok := g.functions[name]
		if !ok {
			return compileerr.Newf(token.Pos{}, "call to unknown function %q", name)
		}
		for _, pos := range positions {
			g.code[pos] = byte(cf.EntryAddress)
		}
	}
	g.pendingCalls = make(map[string][]int)
	return nil
}

// reserveInstr reserves space for one instruction of the given mnemonic and
// stamps its opcode byte immediately, leaving its operand bytes zeroed until
// patchInstr fills them in. Used for forward jumps, whose target address
// isn't known until the jumped-over code has been compiled.
func (g *generator) reserveInstr(mnemonic string) (int, *isa.Instruction) {
	instr := g.instr(mnemonic)
	pos := g.reserve(instr.Size)
	g.code[pos] = byte(instr.ID)
	return pos, instr
}

// patchInstr re-encodes instr's operands at pos, overwriting the zeroed
// bytes left by reserveInstr.
func (g *generator) patchInstr(pos int, instr *isa.Instruction, operands map[string]byte) {
	b, err := instr.Build(operands)
	if err != nil {
		panic(err)
	}
	g.putAt(b, pos)
}

// CompileProgram compiles every struct and function definition in prog into
// one Program targeting set, using registry for type resolution.
func CompileProgram(prog *parser.Program, set *isa.Set, registry *types.Registry) (*Program, error) {
	g := newGenerator(set, registry)

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
			return nil, compileerr.Newf(st.Pos, "%s", err.Error())
		}
	}

	// Function signatures are registered before any body is compiled, so a
	// call to a function declared later in the source still knows its
	// return size and parameter count when lowering the call sequence. Only
	// EntryAddress and Layout are filled in once the body is actually
	// compiled, below.
	for _, fn := range prog.Functions {
		if _, exists := g.functions[fn.Name]; exists {
			return nil, compileerr.Newf(fn.Pos, "duplicate function %q", fn.Name)
		}
		returnType := types.Void
		if fn.ReturnTypeName != "" {
			rt, ok := registry.Lookup(fn.ReturnTypeName)
			if !ok {
				return nil, compileerr.Newf(fn.Pos, "unknown return type %q for function %q", fn.ReturnTypeName, fn.Name)
			}
			returnType = rt
		}
		sizeOfParams, err := frame.SizeOfParams(fn.Params, registry)
		if err != nil {
			return nil, err
		}
		g.functions[fn.Name] = &CompiledFunction{
			Name:         fn.Name,
			ReturnType:   returnType,
			NumParams:    len(fn.Params),
			SizeOfParams: sizeOfParams,
			EntryAddress: -1,
		}
	}

	g.emit(defaultisa.LdfpConst, map[string]byte{"val": vm.StackStart})
	g.emit(defaultisa.LdspConst, map[string]byte{"val": vm.StackStart})
	g.emitCall("main")
	g.emit0(defaultisa.Exit)

	for _, fn := range prog.Functions {
		if err := g.compileFunction(fn); err != nil {
			return nil, err
		}
	}

	mainFn, ok := g.functions["main"]
	if !ok {
		return nil, compileerr.Newf(token.Pos{}, `program has no function named "main"`)
	}
	if mainFn.NumParams != 0 || mainFn.ReturnType.Size != 0 {
		return nil, compileerr.Newf(token.Pos{}, `"main" must take no parameters and return void`)
	}

	if err := g.resolvePendingCalls(); err != nil {
		return nil, err
	}

	return &Program{Code: g.code, Functions: g.functions}, nil
}

// CompileStatements compiles a bare statement list as if it were the body
// of a zero-parameter, void-returning "main": the collaborator surface used
// for script-style inputs that skip the "def" wrapper entirely.
func CompileStatements(stmts []ast.Statement, set *isa.Set, registry *types.Registry) (*Program, error) {
	main := &ast.Function{Name: "main", Body: stmts}
	prog := &parser.Program{Functions: []*ast.Function{main}}
	return CompileProgram(prog, set, registry)
}

func (g *generator) compileFunction(fn *ast.Function) error {
	layout, err := frame.Build(fn, g.registry)
	if err != nil {
		return err
	}

	cf := g.functions[fn.Name]
	cf.Layout = layout
	cf.EntryAddress = len(g.code)

	// FP is pinned to SP right where CALL left it: the boundary between the
	// pushed metadata below (addressed FP-minus) and the locals carved out
	// above it next (addressed FP-plus). Locals must be claimed by growing
	// SP, not just referenced by address, so a later call's PUSHA doesn't
	// overwrite them.
	g.emit0(defaultisa.LdfpSp)
	if layout.SizeOfVars > 0 {
		g.emit(defaultisa.AddspConst, map[string]byte{"val": byte(layout.SizeOfVars)})
	}

	fc := &funcCompiler{gen: g, layout: layout}
	if err := fc.compileStatements(fn.Body); err != nil {
		return err
	}
	fc.emitEpilogue()

	return nil
}
