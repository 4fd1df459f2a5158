package codegen

import (
	"github.com/wingez/gxpu/internal/ast"
	"github.com/wingez/gxpu/internal/compileerr"
	"github.com/wingez/gxpu/internal/defaultisa"
	"github.com/wingez/gxpu/internal/token"
)

// compileValue lowers v so its result ends up in A. Addition and
// Subtraction's right operand is restricted by the parser to a Constant or
// Identifier, so the accumulating ADDA/SUBA form never needs to spill A to
// the stack first.
func (fc *funcCompiler) compileValue(v ast.ValueProvider) error {
	switch val := v.(type) {
	case *ast.Constant:
		fc.gen.emit(defaultisa.LdaConst, map[string]byte{"val": val.Value})
		return nil

	case *ast.Identifier:
		offset, above, err := fc.resolveIdentifierOffset(val.Name, val.Pos)
		if err != nil {
			return err
		}
		fc.gen.emit(selectFpMnemonic(above, defaultisa.LdaFpPlus, defaultisa.LdaFpMinus), map[string]byte{"offset": offset})
		return nil

	case *ast.Addition:
		return fc.compileBinary(val.Left, val.Right, defaultisa.AddaFpPlus, defaultisa.AddaFpMinus, defaultisa.AddaConst)

	case *ast.Subtraction:
		return fc.compileBinary(val.Left, val.Right, defaultisa.SubaFpPlus, defaultisa.SubaFpMinus, defaultisa.SubaConst)

	case *ast.Call:
		returnSize, err := fc.compileCallSequence(val)
		if err != nil {
			return err
		}
		if returnSize == 0 {
			return compileerr.Newf(val.Pos, "call to %q used as a value but it returns void", val.Name)
		}
		fc.gen.emit0(defaultisa.Popa)
		return nil

	default:
		return compileerr.Newf(token.Pos{}, "unsupported value expression %T", v)
	}
}

// compileBinary lowers "left op right", where right is restricted to a
// Constant or an Identifier: left is lowered into A, then one accumulating
// instruction folds right in directly, by FP-relative offset or by literal.
// plusMnemonic/minusMnemonic are the FP-plus and FP-minus forms of the same
// accumulating instruction; which one applies depends on which side of FP
// right's identifier lives on.
func (fc *funcCompiler) compileBinary(left, right ast.ValueProvider, plusMnemonic, minusMnemonic, constMnemonic string) error {
	if err := fc.compileValue(left); err != nil {
		return err
	}
	switch r := right.(type) {
	case *ast.Constant:
		fc.gen.emit(constMnemonic, map[string]byte{"val": r.Value})
		return nil
	case *ast.Identifier:
		offset, above, err := fc.resolveIdentifierOffset(r.Name, r.Pos)
		if err != nil {
			return err
		}
		fc.gen.emit(selectFpMnemonic(above, plusMnemonic, minusMnemonic), map[string]byte{"offset": offset})
		return nil
	default:
		return compileerr.Newf(token.Pos{}, "operation too complex: right-hand operand must be a constant or identifier")
	}
}
