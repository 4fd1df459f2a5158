// Package defaultisa registers the concrete opcode table the code generator
// targets: the fixed set of instructions listed as authoritative in the
// emulator's contract.
package defaultisa

import (
	"github.com/wingez/gxpu/internal/isa"
)

// Mnemonic names, exported so the code generator can build by name without
// restating the literal templates.
const (
	Invalid          = "invalid"
	Exit             = "EXIT"
	Out              = "OUT"
	LdaConst         = "LDA #val"
	LdfpConst        = "LDFP #val"
	LdspConst        = "LDSP #val"
	LdfpSp           = "LDFP SP"
	LdaFpPlus        = "LDA FP, #offset"
	LdaFpMinus       = "LDA FP, -#offset"
	StaFpPlus        = "STA FP, #offset"
	StaFpMinus       = "STA FP, -#offset"
	AddaConst        = "ADDA #val"
	AddaFpPlus       = "ADDA FP, #offset"
	AddaFpMinus      = "ADDA FP, -#offset"
	SubaConst        = "SUBA #val"
	SubaFpPlus       = "SUBA FP, #offset"
	SubaFpMinus      = "SUBA FP, -#offset"
	AddspConst       = "ADDSP #val"
	SubspConst       = "SUBSP #val"
	Pusha            = "PUSHA"
	Popa             = "POPA"
	CallConst        = "CALL #addr"
	Ret              = "RET"
	JmpConst         = "JMP #addr"
	Tsta             = "TSTA"
	JmpzConst        = "JMPZ #addr"
)

// invalidOpcodeError is returned by the sentinel id-0 instruction. It is
// never reached by a well-formed compiled program; only a malformed image
// that happens to fetch byte 0 as an opcode hits it.
type invalidOpcodeError struct{}

func (e *invalidOpcodeError) Error() string { return "invalid instruction" }

// New builds the instruction set every compiled program targets: the
// invalid opcode at id 0 followed by the rest in the order listed in the
// authoritative emulator contract table.
func New() *isa.Set {
	set := isa.NewSet()

	must(set.Add(Invalid, func(m isa.Machine, _ map[string]byte) (bool, error) {
		return false, &invalidOpcodeError{}
	}, isa.WithID(0)))

	must(set.Add(Exit, func(m isa.Machine, _ map[string]byte) (bool, error) {
		return true, nil
	}, isa.WithGroup("control flow")))

	must(set.Add(Out, func(m isa.Machine, _ map[string]byte) (bool, error) {
		m.Output(m.ALow())
		return false, nil
	}, isa.WithGroup("io")))

	must(set.Add(LdaConst, func(m isa.Machine, ops map[string]byte) (bool, error) {
		m.SetALow(ops["val"])
		return false, nil
	}, isa.WithGroup("register load")))

	must(set.Add(LdfpConst, func(m isa.Machine, ops map[string]byte) (bool, error) {
		m.SetFP(ops["val"])
		return false, nil
	}, isa.WithGroup("register load")))

	must(set.Add(LdspConst, func(m isa.Machine, ops map[string]byte) (bool, error) {
		m.SetSP(ops["val"])
		return false, nil
	}, isa.WithGroup("register load")))

	must(set.Add(LdfpSp, func(m isa.Machine, _ map[string]byte) (bool, error) {
		m.SetFP(m.SP())
		return false, nil
	}, isa.WithGroup("register load")))

	must(set.Add(LdaFpPlus, func(m isa.Machine, ops map[string]byte) (bool, error) {
		v, err := m.ReadMemory(m.FP() + ops["offset"])
		if err != nil {
			return false, err
		}
		m.SetALow(v)
		return false, nil
	}, isa.WithGroup("memory")))

	must(set.Add(LdaFpMinus, func(m isa.Machine, ops map[string]byte) (bool, error) {
		v, err := m.ReadMemory(m.FP() - ops["offset"])
		if err != nil {
			return false, err
		}
		m.SetALow(v)
		return false, nil
	}, isa.WithGroup("memory")))

	must(set.Add(StaFpPlus, func(m isa.Machine, ops map[string]byte) (bool, error) {
		return false, m.WriteMemory(m.FP()+ops["offset"], m.ALow())
	}, isa.WithGroup("memory")))

	must(set.Add(StaFpMinus, func(m isa.Machine, ops map[string]byte) (bool, error) {
		return false, m.WriteMemory(m.FP()-ops["offset"], m.ALow())
	}, isa.WithGroup("memory")))

	must(set.Add(AddaConst, func(m isa.Machine, ops map[string]byte) (bool, error) {
		m.SetALow(m.ALow() + ops["val"])
		return false, nil
	}, isa.WithGroup("arithmetic")))

	must(set.Add(AddaFpPlus, func(m isa.Machine, ops map[string]byte) (bool, error) {
		v, err := m.ReadMemory(m.FP() + ops["offset"])
		if err != nil {
			return false, err
		}
		m.SetALow(m.ALow() + v)
		return false, nil
	}, isa.WithGroup("arithmetic")))

	must(set.Add(AddaFpMinus, func(m isa.Machine, ops map[string]byte) (bool, error) {
		v, err := m.ReadMemory(m.FP() - ops["offset"])
		if err != nil {
			return false, err
		}
		m.SetALow(m.ALow() + v)
		return false, nil
	}, isa.WithGroup("arithmetic")))

	must(set.Add(SubaConst, func(m isa.Machine, ops map[string]byte) (bool, error) {
		m.SetALow(m.ALow() - ops["val"])
		return false, nil
	}, isa.WithGroup("arithmetic")))

	must(set.Add(SubaFpPlus, func(m isa.Machine, ops map[string]byte) (bool, error) {
		v, err := m.ReadMemory(m.FP() + ops["offset"])
		if err != nil {
			return false, err
		}
		m.SetALow(m.ALow() - v)
		return false, nil
	}, isa.WithGroup("arithmetic")))

	must(set.Add(SubaFpMinus, func(m isa.Machine, ops map[string]byte) (bool, error) {
		v, err := m.ReadMemory(m.FP() - ops["offset"])
		if err != nil {
			return false, err
		}
		m.SetALow(m.ALow() - v)
		return false, nil
	}, isa.WithGroup("arithmetic")))

	must(set.Add(AddspConst, func(m isa.Machine, ops map[string]byte) (bool, error) {
		m.SetSP(m.SP() + ops["val"])
		return false, nil
	}, isa.WithGroup("stack")))

	must(set.Add(SubspConst, func(m isa.Machine, ops map[string]byte) (bool, error) {
		m.SetSP(m.SP() - ops["val"])
		return false, nil
	}, isa.WithGroup("stack")))

	must(set.Add(Pusha, func(m isa.Machine, _ map[string]byte) (bool, error) {
		return false, m.Push(m.ALow())
	}, isa.WithGroup("stack")))

	must(set.Add(Popa, func(m isa.Machine, _ map[string]byte) (bool, error) {
		v, err := m.Pop()
		if err != nil {
			return false, err
		}
		m.SetALow(v)
		return false, nil
	}, isa.WithGroup("stack")))

	must(set.Add(CallConst, func(m isa.Machine, ops map[string]byte) (bool, error) {
		if err := m.Push(m.FP()); err != nil {
			return false, err
		}
		if err := m.Push(m.PC()); err != nil {
			return false, err
		}
		m.SetFP(m.SP())
		m.SetPC(ops["addr"])
		return false, nil
	}, isa.WithGroup("control flow")))

	must(set.Add(Ret, func(m isa.Machine, _ map[string]byte) (bool, error) {
		m.SetSP(m.FP())
		pc, err := m.Pop()
		if err != nil {
			return false, err
		}
		fp, err := m.Pop()
		if err != nil {
			return false, err
		}
		m.SetPC(pc)
		m.SetFP(fp)
		return false, nil
	}, isa.WithGroup("control flow")))

	must(set.Add(JmpConst, func(m isa.Machine, ops map[string]byte) (bool, error) {
		m.SetPC(ops["addr"])
		return false, nil
	}, isa.WithGroup("control flow")))

	must(set.Add(Tsta, func(m isa.Machine, _ map[string]byte) (bool, error) {
		m.SetZeroFlag(m.ALow() == 0)
		return false, nil
	}, isa.WithGroup("control flow")))

	must(set.Add(JmpzConst, func(m isa.Machine, ops map[string]byte) (bool, error) {
		if m.ZeroFlag() {
			m.SetPC(ops["addr"])
		}
		return false, nil
	}, isa.WithGroup("control flow")))

	return set
}

// must panics on a registration failure: the table above is fixed and
// internally consistent, so a failure here is a programming error in this
// package, not a runtime condition callers should handle.
func must(instr *isa.Instruction, err error) *isa.Instruction {
	if err != nil {
		panic(err)
	}
	return instr
}
