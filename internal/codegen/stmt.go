package codegen

import (
	"github.com/wingez/gxpu/internal/ast"
	"github.com/wingez/gxpu/internal/compileerr"
	"github.com/wingez/gxpu/internal/defaultisa"
	"github.com/wingez/gxpu/internal/frame"
	"github.com/wingez/gxpu/internal/token"
)

// funcCompiler lowers one function's body against the frame layout computed
// for it. It shares the generator (and so the growing code buffer and
// pending-call table) with every other function compiled in the same
// program.
type funcCompiler struct {
	gen    *generator
	layout *frame.Layout
}

// emitEpilogue unwinds the current frame's locals (if any) and returns,
// unifying every exit path - fallthrough at the end of the body, or an
// explicit return statement - on the same two-instruction sequence rather
// than a frame-size-carrying variant of RET. RET itself resets SP to FP
// before popping the saved PC and FP, so the SUBSP here is redundant with
// that reset; it is kept to leave SP consistent with FP for any code
// compiled to run between the two, the way the original toolchain's
// epilogue stayed defensive about stack balance rather than relying on RET.
func (fc *funcCompiler) emitEpilogue() {
	if fc.layout.SizeOfVars > 0 {
		fc.gen.emit(defaultisa.SubspConst, map[string]byte{"val": byte(fc.layout.SizeOfVars)})
	}
	fc.gen.emit0(defaultisa.Ret)
}

func (fc *funcCompiler) compileStatements(stmts []ast.Statement) error {
	for _, stmt := range stmts {
		if err := fc.compileStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (fc *funcCompiler) compileStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.Assign:
		return fc.compileAssign(s)
	case *ast.Print:
		return fc.compilePrint(s)
	case *ast.Call:
		return fc.compileCallStatement(s)
	case *ast.While:
		return fc.compileWhile(s)
	case *ast.If:
		return fc.compileIf(s)
	case *ast.Return:
		return fc.compileReturn(s)
	default:
		return compileerr.Newf(token.Pos{}, "unsupported statement %T", stmt)
	}
}

func (fc *funcCompiler) compilePrint(s *ast.Print) error {
	if err := fc.compileValue(s.Value); err != nil {
		return err
	}
	fc.gen.emit0(defaultisa.Out)
	return nil
}

func (fc *funcCompiler) compileAssign(s *ast.Assign) error {
	if err := fc.compileValue(s.Value); err != nil {
		return err
	}
	offset, above, err := fc.resolveTargetOffset(s.Target)
	if err != nil {
		return err
	}
	fc.gen.emit(selectFpMnemonic(above, defaultisa.StaFpPlus, defaultisa.StaFpMinus), map[string]byte{"offset": offset})
	return nil
}

func (fc *funcCompiler) compileReturn(s *ast.Return) error {
	if s.Value != nil {
		if err := fc.compileValue(s.Value); err != nil {
			return err
		}
		offset, ok := fc.layout.OffsetOf("result")
		if !ok {
			return compileerr.Newf(s.Pos, "return with a value but the function has no declared return type")
		}
		above, _ := fc.layout.AboveFP("result")
		fc.gen.emit(selectFpMnemonic(above, defaultisa.StaFpPlus, defaultisa.StaFpMinus), map[string]byte{"offset": byte(offset)})
	}
	fc.emitEpilogue()
	return nil
}

// compileIf lowers "if cond: body [else: elseBody]". The jump past the body
// (to the else branch, or to the statement after the if) can't be encoded
// until the body itself has been compiled, so its address operand is
// reserved and backpatched once the target is known.
func (fc *funcCompiler) compileIf(s *ast.If) error {
	if err := fc.compileValue(s.Cond); err != nil {
		return err
	}
	fc.gen.emit0(defaultisa.Tsta)
	skipBodyPos, skipBodyInstr := fc.gen.reserveInstr(defaultisa.JmpzConst)

	if err := fc.compileStatements(s.Body); err != nil {
		return err
	}

	if s.ElseBody == nil {
		fc.gen.patchInstr(skipBodyPos, skipBodyInstr, map[string]byte{"addr": byte(len(fc.gen.code))})
		return nil
	}

	skipElsePos, skipElseInstr := fc.gen.reserveInstr(defaultisa.JmpConst)
	fc.gen.patchInstr(skipBodyPos, skipBodyInstr, map[string]byte{"addr": byte(len(fc.gen.code))})

	if err := fc.compileStatements(s.ElseBody); err != nil {
		return err
	}
	fc.gen.patchInstr(skipElsePos, skipElseInstr, map[string]byte{"addr": byte(len(fc.gen.code))})
	return nil
}

// compileWhile lowers "while cond: body". The loop-back jump targets the
// condition re-evaluation, already at a known address, so only the
// loop-exit jump needs reserve-then-patch treatment.
func (fc *funcCompiler) compileWhile(s *ast.While) error {
	condStart := len(fc.gen.code)

	if err := fc.compileValue(s.Cond); err != nil {
		return err
	}
	fc.gen.emit0(defaultisa.Tsta)
	exitPos, exitInstr := fc.gen.reserveInstr(defaultisa.JmpzConst)

	if err := fc.compileStatements(s.Body); err != nil {
		return err
	}
	fc.gen.emit(defaultisa.JmpConst, map[string]byte{"addr": byte(condStart)})

	fc.gen.patchInstr(exitPos, exitInstr, map[string]byte{"addr": byte(len(fc.gen.code))})
	return nil
}

// selectFpMnemonic picks the FP-plus or FP-minus form of an instruction
// family depending on which side of FP a slot lives on: above (a local,
// carved out by the prologue's post-LDFP ADDSP) uses plus, at-or-below
// (the result slot or a parameter, pushed before CALL set FP) uses minus.
func selectFpMnemonic(above bool, plusMnemonic, minusMnemonic string) string {
	if above {
		return plusMnemonic
	}
	return minusMnemonic
}

// resolveIdentifierOffset resolves a plain (unmodified) identifier
// reference to its FP-relative offset and which side of FP it is on.
func (fc *funcCompiler) resolveIdentifierOffset(name string, pos token.Pos) (byte, bool, error) {
	offset, ok := fc.layout.OffsetOf(name)
	if !ok {
		return 0, false, compileerr.Newf(pos, "undeclared identifier %q", name)
	}
	above, _ := fc.layout.AboveFP(name)
	return byte(offset), above, nil
}

// resolveTargetOffset resolves an assignment target to the FP-relative
// offset its value should be stored at, and which side of FP it is on. An
// unmodified target resolves directly to its own slot; a struct member
// chain descends field by field. Ascending field offsets correspond to
// ascending absolute addresses within the struct's storage, so they combine
// with the base slot's offset by subtraction on the below-FP side (where
// increasing address means a smaller FP-minus offset) and by addition on
// the above-FP side (where increasing address means a larger FP-plus
// offset).
func (fc *funcCompiler) resolveTargetOffset(t ast.AssignTarget) (byte, bool, error) {
	base, ok := fc.layout.OffsetOf(t.Name)
	if !ok {
		return 0, false, compileerr.Newf(t.Pos, "undeclared identifier %q", t.Name)
	}
	above, _ := fc.layout.AboveFP(t.Name)
	if len(t.Modifiers) == 0 {
		return byte(base), above, nil
	}

	curType, ok := fc.layout.TypeOf(t.Name)
	if !ok {
		return 0, false, compileerr.Newf(t.Pos, "undeclared identifier %q", t.Name)
	}

	offset := base
	for _, mod := range t.Modifiers {
		if curType.Struct == nil {
			return 0, false, compileerr.Newf(t.Pos, "%q is not a struct, cannot access member %q", t.Name, mod.Field)
		}
		field, ok := curType.Struct.FieldByName(mod.Field)
		if !ok {
			return 0, false, compileerr.Newf(t.Pos, "struct %q has no member %q", curType.Name, mod.Field)
		}
		if above {
			offset += field.Offset
		} else {
			offset -= field.Offset
		}
		curType = field.Type
	}
	if offset < 0 {
		return 0, false, compileerr.Newf(t.Pos, "member access on %q overflows its frame slot", t.Name)
	}
	return byte(offset), above, nil
}
