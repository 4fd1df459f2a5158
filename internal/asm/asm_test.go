package asm_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wingez/gxpu/internal/asm"
	"github.com/wingez/gxpu/internal/defaultisa"
)

func TestAssembleMnemonicRoundTrip(t *testing.T) {
	set := defaultisa.New()

	b, err := asm.AssembleMnemonic(set, "LDA #68")
	require.NoError(t, err)

	ldaInstr := set.ByMnemonic(defaultisa.LdaConst)
	assert.Equal(t, []byte{byte(ldaInstr.ID), 68}, b)

	lines, err := asm.Disassemble(set, b)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "LDA #68", lines[0])

	reassembled, err := asm.AssembleMnemonic(set, lines[0])
	require.NoError(t, err)
	assert.Equal(t, b, reassembled)
}

func TestAssembleMnemonicBlankAndComment(t *testing.T) {
	set := defaultisa.New()

	b, err := asm.AssembleMnemonic(set, "")
	require.NoError(t, err)
	assert.Nil(t, b)

	b, err = asm.AssembleMnemonic(set, "# a comment")
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestAssembleMnemonicUnknownLineFails(t *testing.T) {
	set := defaultisa.New()
	_, err := asm.AssembleMnemonic(set, "NOPE")
	assert.Error(t, err)
}

func TestAssembleMnemonicFileConcatenates(t *testing.T) {
	set := defaultisa.New()
	src := "LDA #68\nOUT\nEXIT\n"

	program, err := asm.AssembleMnemonicFile(set, strings.NewReader(src))
	require.NoError(t, err)

	lines, err := asm.Disassemble(set, program)
	require.NoError(t, err)
	assert.Equal(t, []string{"LDA #68", "OUT", "EXIT"}, lines)
}

func TestDisassembleTruncatedInstructionFails(t *testing.T) {
	set := defaultisa.New()
	ldaInstr := set.ByMnemonic(defaultisa.LdaConst)
	_, err := asm.Disassemble(set, []byte{byte(ldaInstr.ID)})
	assert.Error(t, err)
}

func TestDisassembleUnknownOpcodeFails(t *testing.T) {
	set := defaultisa.New()
	_, err := asm.Disassemble(set, []byte{255})
	assert.Error(t, err)
}
