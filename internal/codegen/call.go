package codegen

import (
	"github.com/wingez/gxpu/internal/ast"
	"github.com/wingez/gxpu/internal/compileerr"
	"github.com/wingez/gxpu/internal/defaultisa"
)

// compileCallSequence lowers a call to call.Name: reserve the result slot
// (if the callee returns a value) by growing SP past it, push each argument
// left to right, CALL, then shrink SP back past the arguments - CALL's own
// prologue/epilogue handles the pushed metadata, so this only needs to undo
// the two steps this function took itself. It returns the callee's return
// size so the caller can decide whether a result is sitting on top of the
// stack to be retrieved (as a value) or discarded (as a statement).
//
// The callee's signature is looked up by name regardless of whether its
// body has been compiled yet: every function's signature is registered
// before any body is lowered, so forward calls resolve their argument and
// return-slot bookkeeping exactly like calls to an already-compiled
// function. Only the CALL target address itself is deferred, through the
// generator's pending-call table.
func (fc *funcCompiler) compileCallSequence(call *ast.Call) (int, error) {
	callee, ok := fc.gen.functions[call.Name]
	if !ok {
		return 0, compileerr.Newf(call.Pos, "call to unknown function %q", call.Name)
	}
	if len(call.Args) != callee.NumParams {
		return 0, compileerr.Newf(call.Pos, "%q takes %d argument(s), got %d", call.Name, callee.NumParams, len(call.Args))
	}

	if callee.ReturnType.Size > 0 {
		fc.gen.emit(defaultisa.AddspConst, map[string]byte{"val": byte(callee.ReturnType.Size)})
	}

	for _, arg := range call.Args {
		if err := fc.compileValue(arg); err != nil {
			return 0, err
		}
		fc.gen.emit0(defaultisa.Pusha)
	}

	fc.gen.emitCall(call.Name)

	if callee.SizeOfParams > 0 {
		fc.gen.emit(defaultisa.SubspConst, map[string]byte{"val": byte(callee.SizeOfParams)})
	}

	return callee.ReturnType.Size, nil
}

// compileCallStatement lowers a call used on its own line: the call
// sequence runs as usual, and any returned value is discarded by shrinking
// the stack pointer back past the reserved result slot.
func (fc *funcCompiler) compileCallStatement(s *ast.Call) error {
	returnSize, err := fc.compileCallSequence(s)
	if err != nil {
		return err
	}
	if returnSize > 0 {
		fc.gen.emit(defaultisa.SubspConst, map[string]byte{"val": byte(returnSize)})
	}
	return nil
}
