package frame_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wingez/gxpu/internal/ast"
	"github.com/wingez/gxpu/internal/frame"
	"github.com/wingez/gxpu/internal/types"
)

func TestBuildEmptyFunction(t *testing.T) {
	registry := types.NewRegistry()
	fn := &ast.Function{Name: "main"}

	layout, err := frame.Build(fn, registry)
	require.NoError(t, err)
	assert.Equal(t, 0, layout.SizeOfReturn)
	assert.Equal(t, 0, layout.SizeOfParams)
	assert.Equal(t, 0, layout.SizeOfVars)
	assert.Equal(t, frame.MetaSize, layout.TotalSize)
}

func TestBuildWithParams(t *testing.T) {
	registry := types.NewRegistry()
	fn := &ast.Function{
		Name: "add",
		Params: []ast.AssignTarget{
			{Name: "a"},
			{Name: "b"},
		},
	}

	layout, err := frame.Build(fn, registry)
	require.NoError(t, err)
	assert.Equal(t, 2, layout.SizeOfParams)
	assert.Equal(t, frame.MetaSize+2, layout.TotalSize)

	aOff, ok := layout.OffsetOf("a")
	require.True(t, ok)
	bOff, ok := layout.OffsetOf("b")
	require.True(t, ok)
	assert.Greater(t, aOff, bOff)

	aAbove, ok := layout.AboveFP("a")
	require.True(t, ok)
	assert.False(t, aAbove)
	bAbove, ok := layout.AboveFP("b")
	require.True(t, ok)
	assert.False(t, bAbove)
}

func TestBuildWithLocalVar(t *testing.T) {
	registry := types.NewRegistry()
	fn := &ast.Function{
		Name: "main",
		Body: []ast.Statement{
			&ast.Assign{Target: ast.AssignTarget{Name: "a"}, Value: &ast.Constant{Value: 1}},
		},
	}

	layout, err := frame.Build(fn, registry)
	require.NoError(t, err)
	assert.Equal(t, 1, layout.SizeOfVars)
	assert.Equal(t, frame.MetaSize+1, layout.TotalSize)

	offset, ok := layout.OffsetOf("a")
	assert.True(t, ok)
	assert.Equal(t, 0, offset)

	above, ok := layout.AboveFP("a")
	require.True(t, ok)
	assert.True(t, above)
}

func TestBuildLocalsDiscoveredInsideIfAndWhile(t *testing.T) {
	registry := types.NewRegistry()
	fn := &ast.Function{
		Name: "main",
		Body: []ast.Statement{
			&ast.If{
				Cond: &ast.Constant{Value: 1},
				Body: []ast.Statement{
					&ast.Assign{Target: ast.AssignTarget{Name: "a"}, Value: &ast.Constant{Value: 1}},
				},
				ElseBody: []ast.Statement{
					&ast.Assign{Target: ast.AssignTarget{Name: "b"}, Value: &ast.Constant{Value: 2}},
				},
			},
			&ast.While{
				Cond: &ast.Constant{Value: 1},
				Body: []ast.Statement{
					&ast.Assign{Target: ast.AssignTarget{Name: "c"}, Value: &ast.Constant{Value: 3}},
				},
			},
		},
	}

	layout, err := frame.Build(fn, registry)
	require.NoError(t, err)
	assert.Equal(t, 3, layout.SizeOfVars)
	for _, name := range []string{"a", "b", "c"} {
		_, ok := layout.OffsetOf(name)
		assert.True(t, ok, "expected %q to be discovered as a local", name)
	}
}

func TestBuildReturnSlot(t *testing.T) {
	registry := types.NewRegistry()
	fn := &ast.Function{
		Name:           "get",
		ReturnTypeName: "byte",
		Body: []ast.Statement{
			&ast.Return{Value: &ast.Constant{Value: 1}},
		},
	}

	layout, err := frame.Build(fn, registry)
	require.NoError(t, err)
	assert.Equal(t, 1, layout.SizeOfReturn)

	resultOff, ok := layout.OffsetOf("result")
	require.True(t, ok)
	// With no locals, the frame's total size is exactly the boundary FP is
	// set to, so the result slot (the entry furthest below FP) sits at
	// offset TotalSize.
	assert.Equal(t, layout.TotalSize, resultOff)

	above, ok := layout.AboveFP("result")
	require.True(t, ok)
	assert.False(t, above)
}

func TestBuildUnknownReturnTypeFails(t *testing.T) {
	registry := types.NewRegistry()
	fn := &ast.Function{Name: "f", ReturnTypeName: "nope"}
	_, err := frame.Build(fn, registry)
	assert.Error(t, err)
}

func TestBuildStructLocal(t *testing.T) {
	registry := types.NewRegistry()
	_, err := registry.DefineStruct("point", []types.MemberDecl{
		{Name: "x", TypeName: "byte"},
		{Name: "y", TypeName: "byte"},
	})
	require.NoError(t, err)

	fn := &ast.Function{
		Name: "main",
		Body: []ast.Statement{
			&ast.Assign{
				Target: ast.AssignTarget{Name: "p", TypeName: "point", ExplicitNew: true},
				Value:  &ast.Constant{Value: 0},
			},
		},
	}

	layout, err := frame.Build(fn, registry)
	require.NoError(t, err)
	assert.Equal(t, 2, layout.SizeOfVars)

	typ, ok := layout.TypeOf("p")
	require.True(t, ok)
	assert.Equal(t, "point", typ.Name)
	assert.Equal(t, 2, typ.Size)
}

func TestDescriptionOrdersByAscendingOffset(t *testing.T) {
	registry := types.NewRegistry()
	fn := &ast.Function{
		Name:           "f",
		ReturnTypeName: "byte",
		Params:         []ast.AssignTarget{{Name: "arg"}},
		Body: []ast.Statement{
			&ast.Assign{Target: ast.AssignTarget{Name: "local"}, Value: &ast.Constant{Value: 1}},
		},
	}

	layout, err := frame.Build(fn, registry)
	require.NoError(t, err)

	lines := layout.Description()
	require.Len(t, lines, 3)

	prevOffset := -1
	for _, line := range lines {
		parts := strings.SplitN(line, ": ", 2)
		require.Len(t, parts, 2)
		offset, err := strconv.Atoi(parts[0])
		require.NoError(t, err)
		assert.GreaterOrEqual(t, offset, prevOffset)
		prevOffset = offset
	}
}
