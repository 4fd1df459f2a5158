package defaultisa_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wingez/gxpu/internal/defaultisa"
	"github.com/wingez/gxpu/internal/vm"
)

func TestNewRegistersInvalidAtZero(t *testing.T) {
	set := defaultisa.New()
	instr := set.Lookup(0)
	require.NotNil(t, instr)
	assert.Equal(t, defaultisa.Invalid, instr.Mnemonic)
}

func TestNewHasNoDuplicateMnemonics(t *testing.T) {
	set := defaultisa.New()
	seen := make(map[string]bool)
	for _, instr := range set.InsertionOrder() {
		assert.False(t, seen[instr.Mnemonic], "duplicate mnemonic %q", instr.Mnemonic)
		seen[instr.Mnemonic] = true
	}
}

func TestOutAppendsALowToOutput(t *testing.T) {
	set := defaultisa.New()
	emu := vm.New(set)
	emu.SetALow(68)

	outInstr := set.ByMnemonic(defaultisa.Out)
	halt, err := outInstr.Behavior(emu, map[string]byte{})
	require.NoError(t, err)
	assert.False(t, halt)
	assert.Equal(t, []byte{68}, emu.OutputBytes())
}

func TestExitHalts(t *testing.T) {
	set := defaultisa.New()
	emu := vm.New(set)
	exitInstr := set.ByMnemonic(defaultisa.Exit)
	halt, err := exitInstr.Behavior(emu, map[string]byte{})
	require.NoError(t, err)
	assert.True(t, halt)
}

func TestCallAndRetRoundTrip(t *testing.T) {
	set := defaultisa.New()
	emu := vm.New(set)
	emu.SetFP(0xff)
	emu.SetSP(0xff)
	emu.SetPC(0x10)

	callInstr := set.ByMnemonic(defaultisa.CallConst)
	_, err := callInstr.Behavior(emu, map[string]byte{"addr": 0x20})
	require.NoError(t, err)
	assert.Equal(t, uint8(0x20), emu.PC())
	assert.Equal(t, emu.FP(), emu.SP())

	retInstr := set.ByMnemonic(defaultisa.Ret)
	_, err = retInstr.Behavior(emu, map[string]byte{})
	require.NoError(t, err)
	assert.Equal(t, uint8(0x10), emu.PC())
	assert.Equal(t, uint8(0xff), emu.FP())
	assert.Equal(t, uint8(0xff), emu.SP())
}

func TestArithmeticWrapsModulo256(t *testing.T) {
	set := defaultisa.New()
	emu := vm.New(set)
	emu.SetALow(250)

	addInstr := set.ByMnemonic(defaultisa.AddaConst)
	_, err := addInstr.Behavior(emu, map[string]byte{"val": 10})
	require.NoError(t, err)
	assert.Equal(t, byte(4), emu.ALow())
}

func TestTstaSetsZeroFlag(t *testing.T) {
	set := defaultisa.New()
	emu := vm.New(set)
	emu.SetALow(0)

	tstaInstr := set.ByMnemonic(defaultisa.Tsta)
	_, err := tstaInstr.Behavior(emu, map[string]byte{})
	require.NoError(t, err)
	assert.True(t, emu.ZeroFlag())

	emu.SetALow(1)
	_, err = tstaInstr.Behavior(emu, map[string]byte{})
	require.NoError(t, err)
	assert.False(t, emu.ZeroFlag())
}
