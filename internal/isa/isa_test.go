package isa_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wingez/gxpu/internal/isa"
)

func noop(m isa.Machine, _ map[string]byte) (bool, error) { return false, nil }

func TestAddDerivesVariableOrderFromTemplate(t *testing.T) {
	set := isa.NewSet()
	instr, err := set.Add("LDA FP, -#offset", noop)
	require.NoError(t, err)
	assert.Equal(t, []string{"offset"}, instr.VariableOrder)
	assert.Equal(t, 2, instr.Size)
}

func TestAddWithExplicitID(t *testing.T) {
	set := isa.NewSet()
	instr, err := set.Add("EXIT", noop, isa.WithID(5))
	require.NoError(t, err)
	assert.Equal(t, 5, instr.ID)
	assert.Same(t, instr, set.Lookup(5))
}

func TestAddDuplicateIDFails(t *testing.T) {
	set := isa.NewSet()
	_, err := set.Add("EXIT", noop, isa.WithID(5))
	require.NoError(t, err)
	_, err = set.Add("OUT", noop, isa.WithID(5))
	assert.Error(t, err)
}

func TestAddIDOutOfRangeFails(t *testing.T) {
	set := isa.NewSet()
	_, err := set.Add("EXIT", noop, isa.WithID(256))
	assert.Error(t, err)
}

func TestAddMismatchedVariableOrderFails(t *testing.T) {
	set := isa.NewSet()
	_, err := set.Add("LDA FP, -#offset", noop, isa.WithVariableOrder([]string{"val"}))
	assert.Error(t, err)
}

func TestBuildProducesIDFollowedByOperands(t *testing.T) {
	set := isa.NewSet()
	instr, err := set.Add("LDA #val", noop)
	require.NoError(t, err)

	b, err := instr.Build(map[string]byte{"val": 42})
	require.NoError(t, err)
	assert.Equal(t, []byte{byte(instr.ID), 42}, b)
	assert.Equal(t, len(b), 1+len(instr.VariableOrder))
	assert.Equal(t, instr.ID, int(b[0]))
}

func TestBuildMissingOperandFails(t *testing.T) {
	set := isa.NewSet()
	instr, err := set.Add("LDA #val", noop)
	require.NoError(t, err)
	_, err = instr.Build(map[string]byte{})
	assert.Error(t, err)
}

func TestBuildUnknownOperandFails(t *testing.T) {
	set := isa.NewSet()
	instr, err := set.Add("LDA #val", noop)
	require.NoError(t, err)
	_, err = instr.Build(map[string]byte{"val": 1, "extra": 2})
	assert.Error(t, err)
}

func TestDisassembleRendersTemplate(t *testing.T) {
	set := isa.NewSet()
	instr, err := set.Add("LDA FP, -#offset", noop)
	require.NoError(t, err)

	line, err := instr.Disassemble([]byte{7})
	require.NoError(t, err)
	assert.Equal(t, "LDA FP, -#7", line)
}

func TestInstructionSetFull(t *testing.T) {
	set := isa.NewSet()
	for i := 0; i < 256; i++ {
		_, err := set.Add("EXIT", noop, isa.WithID(i))
		require.NoError(t, err)
	}
	assert.Equal(t, -1, set.NextVacantID())

	_, err := set.Add("OUT", noop)
	assert.Error(t, err)
}

func TestAllSortsByGroupThenID(t *testing.T) {
	set := isa.NewSet()
	_, err := set.Add("EXIT", noop, isa.WithID(10), isa.WithGroup("control flow"))
	require.NoError(t, err)
	_, err = set.Add("OUT", noop, isa.WithID(5), isa.WithGroup("io"))
	require.NoError(t, err)
	_, err = set.Add("RET", noop, isa.WithID(1), isa.WithGroup("control flow"))
	require.NoError(t, err)

	all := set.All()
	require.Len(t, all, 3)
	assert.Equal(t, "RET", all[0].Mnemonic)
	assert.Equal(t, "EXIT", all[1].Mnemonic)
	assert.Equal(t, "OUT", all[2].Mnemonic)
}

func TestInsertionOrderPreservesAddOrder(t *testing.T) {
	set := isa.NewSet()
	_, err := set.Add("EXIT", noop, isa.WithGroup("control flow"))
	require.NoError(t, err)
	_, err = set.Add("OUT", noop, isa.WithGroup("io"))
	require.NoError(t, err)

	order := set.InsertionOrder()
	require.Len(t, order, 2)
	assert.Equal(t, "EXIT", order[0].Mnemonic)
	assert.Equal(t, "OUT", order[1].Mnemonic)
}

func TestByMnemonicLookup(t *testing.T) {
	set := isa.NewSet()
	_, err := set.Add("LDA #val", noop)
	require.NoError(t, err)
	assert.NotNil(t, set.ByMnemonic("LDA #val"))
	assert.Nil(t, set.ByMnemonic("missing"))
}

func TestDecodeOperands(t *testing.T) {
	values := isa.DecodeOperands([]string{"offset", "val"}, []byte{3, 9})
	assert.Equal(t, map[string]byte{"offset": 3, "val": 9}, values)
}
