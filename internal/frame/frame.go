// Package frame computes the per-function stack layout consumed by the code
// generator: FP-relative offsets for the return slot, parameters, saved
// frame metadata, and local variables.
package frame

import (
	"fmt"

	"github.com/dolthub/swiss"
	"golang.org/x/exp/slices"

	"github.com/wingez/gxpu/internal/ast"
	"github.com/wingez/gxpu/internal/compileerr"
	"github.com/wingez/gxpu/internal/types"
)

// MetaSize is the number of bytes of saved frame metadata pushed by CALL and
// popped by RET: the saved FP and the saved PC, one byte each.
const MetaSize = 2

// Field is one named slot of a Layout: its FP-relative offset and declared
// type. The result slot and parameters sit below the saved frame metadata
// CALL pushes, so they are reached as FP minus Offset; locals sit above it,
// reached as FP plus Offset. Above records which.
type Field struct {
	Offset int
	Above  bool
	Type   types.DataType
}

// Layout is the dense per-function record produced by Build. identifiers
// holds the actual lookup table; order preserves first-occurrence order
// (result, then parameters, then locals) since swiss.Map, like any hash
// map, does not iterate in a stable order.
type Layout struct {
	TotalSize    int
	SizeOfReturn int
	SizeOfParams int
	SizeOfMeta   int
	SizeOfVars   int

	identifiers *swiss.Map[string, Field]
	order       []string
}

// OffsetOf returns the FP-relative offset of name and true, or 0 and false
// if name was never discovered as a result slot, parameter or local.
func (l *Layout) OffsetOf(name string) (int, bool) {
	f, ok := l.identifiers.Get(name)
	return f.Offset, ok
}

// AboveFP reports whether name's slot is reached as FP plus its offset
// (a local) rather than FP minus its offset (the result slot or a
// parameter), and whether name was discovered at all.
func (l *Layout) AboveFP(name string) (bool, bool) {
	f, ok := l.identifiers.Get(name)
	return f.Above, ok
}

// TypeOf returns the declared type of name and true, or the zero DataType
// and false if name was never discovered as a result slot, parameter or
// local.
func (l *Layout) TypeOf(name string) (types.DataType, bool) {
	f, ok := l.identifiers.Get(name)
	return f.Type, ok
}

// Description renders every identifier as "offset: name: type", ordered by
// ascending offset, the way the original toolchain's frame layout dump
// read.
func (l *Layout) Description() []string {
	names := slices.Clone(l.order)
	slices.SortFunc(names, func(a, b string) int {
		fa, _ := l.identifiers.Get(a)
		fb, _ := l.identifiers.Get(b)
		return fa.Offset - fb.Offset
	})
	out := make([]string, len(names))
	for i, name := range names {
		f, _ := l.identifiers.Get(name)
		out[i] = fmt.Sprintf("%d: %s: %s", f.Offset, name, f.Type.Name)
	}
	return out
}

// entry is one named slot at a known distance-from-top, before the final
// total-size-relative conversion.
type entry struct {
	name string
	dist int
	typ  types.DataType
}

// Build lays out fn's frame: result slot (if fn returns non-void), then
// parameters in source order, then the fixed metadata gap, then locals in
// first-occurrence order as discovered by a tree walk over the body. The
// walk recurses into If/While bodies but never into nested definitions.
func Build(fn *ast.Function, registry *types.Registry) (*Layout, error) {
	var entries []entry
	distance := 0

	returnType := types.Void
	if fn.ReturnTypeName != "" {
		rt, ok := registry.Lookup(fn.ReturnTypeName)
		if !ok {
			return nil, compileerr.Newf(fn.Pos, "unknown return type %q for function %q", fn.ReturnTypeName, fn.Name)
		}
		returnType = rt
	}
	if returnType.Size > 0 {
		entries = append(entries, entry{name: "result", dist: distance, typ: returnType})
		distance += returnType.Size
	}

	paramsStart := distance
	for _, p := range fn.Params {
		typ, err := typeOfTarget(p, registry)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry{name: p.Name, dist: distance, typ: typ})
		distance += typ.Size
	}
	sizeOfParams := distance - paramsStart

	distance += MetaSize
	localsStart := distance

	known := make(map[string]bool, len(entries))
	for _, e := range entries {
		known[e.name] = true
	}

	locals, err := discoverLocals(fn.Body, registry, known)
	if err != nil {
		return nil, err
	}
	sizeOfVars := 0
	for _, loc := range locals {
		entries = append(entries, entry{name: loc.name, dist: distance, typ: loc.typ})
		distance += loc.typ.Size
		sizeOfVars += loc.typ.Size
	}

	totalSize := distance
	identifiers := swiss.NewMap[string, Field](uint32(len(entries)))
	order := make([]string, 0, len(entries))
	for _, e := range entries {
		// CALL's prologue sets FP to the boundary between the pushed
		// metadata (below) and the locals it then carves out above it
		// (see codegen.compileFunction): an entry below that boundary is
		// reached as FP-(localsStart-dist), one at or above it as
		// FP+(dist-localsStart).
		if e.dist < localsStart {
			identifiers.Put(e.name, Field{Offset: localsStart - e.dist, Above: false, Type: e.typ})
		} else {
			identifiers.Put(e.name, Field{Offset: e.dist - localsStart, Above: true, Type: e.typ})
		}
		order = append(order, e.name)
	}

	return &Layout{
		TotalSize:    totalSize,
		SizeOfReturn: returnType.Size,
		SizeOfParams: sizeOfParams,
		SizeOfMeta:   MetaSize,
		SizeOfVars:   sizeOfVars,
		identifiers:  identifiers,
		order:        order,
	}, nil
}

type local struct {
	name string
	typ  types.DataType
}

// discoverLocals walks stmts for Assign targets with no member chain that
// are not already known (parameters, or earlier locals), recursing into
// If/While bodies. It returns them in first-occurrence order.
func discoverLocals(stmts []ast.Statement, registry *types.Registry, known map[string]bool) ([]local, error) {
	var out []local
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.Assign:
			if len(s.Target.Modifiers) == 0 && !known[s.Target.Name] {
				typ, err := typeOfTarget(s.Target, registry)
				if err != nil {
					return nil, err
				}
				known[s.Target.Name] = true
				out = append(out, local{name: s.Target.Name, typ: typ})
			}
		case *ast.If:
			body, err := discoverLocals(s.Body, registry, known)
			if err != nil {
				return nil, err
			}
			out = append(out, body...)
			if s.ElseBody != nil {
				elseBody, err := discoverLocals(s.ElseBody, registry, known)
				if err != nil {
					return nil, err
				}
				out = append(out, elseBody...)
			}
		case *ast.While:
			body, err := discoverLocals(s.Body, registry, known)
			if err != nil {
				return nil, err
			}
			out = append(out, body...)
		}
	}
	return out, nil
}

// SizeOfParams returns the total byte size of params, the same quantity
// Build would compute as Layout.SizeOfParams, but without requiring a
// function's full body to have been walked. The code generator needs this
// at a call site to a function whose own body - and so whose Layout - has
// not been compiled yet.
func SizeOfParams(params []ast.AssignTarget, registry *types.Registry) (int, error) {
	size := 0
	for _, p := range params {
		typ, err := typeOfTarget(p, registry)
		if err != nil {
			return 0, err
		}
		size += typ.Size
	}
	return size, nil
}

// typeOfTarget resolves the declared type of an AssignTarget: its explicit
// type if annotated, or the default single-byte type otherwise.
func typeOfTarget(t ast.AssignTarget, registry *types.Registry) (types.DataType, error) {
	if !t.HasType() {
		return types.Byte, nil
	}
	dt, ok := registry.Lookup(t.TypeName)
	if !ok {
		return types.DataType{}, compileerr.Newf(t.Pos, "unknown type %q for %q", t.TypeName, t.Name)
	}
	return dt, nil
}
