package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wingez/gxpu/internal/types"
)

func TestRegistryBuiltins(t *testing.T) {
	r := types.NewRegistry()

	byteType, ok := r.Lookup("byte")
	require.True(t, ok)
	assert.Equal(t, 1, byteType.Size)

	voidType, ok := r.Lookup("void")
	require.True(t, ok)
	assert.Equal(t, 0, voidType.Size)
}

func TestDefineStruct(t *testing.T) {
	r := types.NewRegistry()

	dt, err := r.DefineStruct("point", []types.MemberDecl{
		{Name: "x", TypeName: "byte"},
		{Name: "y", TypeName: "byte"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, dt.Size)
	require.NotNil(t, dt.Struct)

	x, ok := dt.Struct.FieldByName("x")
	require.True(t, ok)
	assert.Equal(t, 0, x.Offset)

	y, ok := dt.Struct.FieldByName("y")
	require.True(t, ok)
	assert.Equal(t, 1, y.Offset)

	_, ok = dt.Struct.FieldByName("z")
	assert.False(t, ok)
}

func TestDefineStructDuplicateName(t *testing.T) {
	r := types.NewRegistry()
	_, err := r.DefineStruct("byte", nil)
	assert.Error(t, err)
}

func TestDefineStructUnknownMemberType(t *testing.T) {
	r := types.NewRegistry()
	_, err := r.DefineStruct("point", []types.MemberDecl{{Name: "x", TypeName: "nope"}})
	assert.Error(t, err)
}

func TestDefineStructNested(t *testing.T) {
	r := types.NewRegistry()
	_, err := r.DefineStruct("point", []types.MemberDecl{
		{Name: "x", TypeName: "byte"},
		{Name: "y", TypeName: "byte"},
	})
	require.NoError(t, err)

	line, err := r.DefineStruct("line", []types.MemberDecl{
		{Name: "from", TypeName: "point"},
		{Name: "to", TypeName: "point"},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, line.Size)

	to, ok := line.Struct.FieldByName("to")
	require.True(t, ok)
	assert.Equal(t, 2, to.Offset)
}
