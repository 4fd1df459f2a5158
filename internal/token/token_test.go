package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wingez/gxpu/internal/token"
)

func TestToWordKeyword(t *testing.T) {
	tok, err := token.ToWord("while", token.Pos{Line: 1, Col: 1})
	require.NoError(t, err)
	assert.Equal(t, token.While, tok.Kind)
}

func TestToWordIdentifier(t *testing.T) {
	tok, err := token.ToWord("counter", token.Pos{Line: 1, Col: 1})
	require.NoError(t, err)
	assert.Equal(t, token.Identifier, tok.Kind)
	assert.Equal(t, "counter", tok.Name)
}

func TestToWordNumericConstant(t *testing.T) {
	tok, err := token.ToWord("68", token.Pos{Line: 1, Col: 1})
	require.NoError(t, err)
	assert.Equal(t, token.NumericConstant, tok.Kind)
	assert.Equal(t, byte(68), tok.Value)
}

func TestToWordNumericConstantOverflow(t *testing.T) {
	_, err := token.ToWord("256", token.Pos{Line: 1, Col: 1})
	assert.Error(t, err)
}

func TestToSymbol(t *testing.T) {
	tok, ok := token.ToSymbol("+", token.Pos{})
	require.True(t, ok)
	assert.Equal(t, token.Plus, tok.Kind)

	_, ok = token.ToSymbol("%", token.Pos{})
	assert.False(t, ok)
}

func TestKindIsExpressionSeparator(t *testing.T) {
	assert.True(t, token.EOL.IsExpressionSeparator())
	assert.True(t, token.Comma.IsExpressionSeparator())
	assert.True(t, token.RightParen.IsExpressionSeparator())
	assert.False(t, token.Plus.IsExpressionSeparator())
}

func TestKindIsSingleOperation(t *testing.T) {
	assert.True(t, token.Plus.IsSingleOperation())
	assert.True(t, token.Minus.IsSingleOperation())
	assert.False(t, token.Equals.IsSingleOperation())
}

func TestPosString(t *testing.T) {
	assert.Equal(t, "-", token.Pos{}.String())
	assert.Equal(t, "3:4", token.Pos{Line: 3, Col: 4}.String())
}
