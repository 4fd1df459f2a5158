// Package types implements the data type registry: the primitive byte/void
// types and user-defined struct types built from them.
package types

import "fmt"

// DataType describes a named, fixed-size type. Struct is set for
// user-defined record types; it is nil for Byte and Void.
type DataType struct {
	Name   string
	Size   int
	Struct *Struct
}

// Struct describes a user-defined record type as an ordered list of named
// fields, each with its own offset from the start of the struct.
type Struct struct {
	Name   string
	Fields []Field
}

// Field is one member of a Struct: its name, its type, and its byte offset
// from the start of the struct (the sum of the sizes of preceding fields).
type Field struct {
	Name   string
	Type   DataType
	Offset int
}

// FieldByName returns the field named name and true, or the zero Field and
// false if the struct has no such field.
func (s *Struct) FieldByName(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Byte is the single primitive value type: one byte wide.
var Byte = DataType{Name: "byte", Size: 1}

// Void is the absence of a value, used for parameterless returns.
var Void = DataType{Name: "void", Size: 0}

// Registry holds the types known to a compilation: the two built-ins plus
// every struct declared so far.
type Registry struct {
	byName map[string]DataType
}

// NewRegistry returns a Registry pre-populated with the built-in types.
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]DataType)}
	r.byName[Byte.Name] = Byte
	r.byName[Void.Name] = Void
	return r
}

// Lookup returns the type named name and true, or the zero DataType and
// false if no such type is registered.
func (r *Registry) Lookup(name string) (DataType, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// DefineStruct registers a new struct type named name with the given
// members, in order. Each member's offset is the sum of the sizes of the
// members before it. It is an error to redefine an existing type name or to
// reference an unknown member type.
func (r *Registry) DefineStruct(name string, members []MemberDecl) (DataType, error) {
	if _, exists := r.byName[name]; exists {
		return DataType{}, fmt.Errorf("type %q already defined", name)
	}

	fields := make([]Field, 0, len(members))
	offset := 0
	for _, m := range members {
		mt, ok := r.byName[m.TypeName]
		if !ok {
			return DataType{}, fmt.Errorf("unknown type %q for member %q of struct %q", m.TypeName, m.Name, name)
		}
		fields = append(fields, Field{Name: m.Name, Type: mt, Offset: offset})
		offset += mt.Size
	}

	st := &Struct{Name: name, Fields: fields}
	dt := DataType{Name: name, Size: offset, Struct: st}
	r.byName[name] = dt
	return dt, nil
}

// MemberDecl is one field of a struct declaration as seen by DefineStruct:
// a name and the name of its (already-registered) type.
type MemberDecl struct {
	Name     string
	TypeName string
}
