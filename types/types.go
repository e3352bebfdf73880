// Package types describes the resolved source types attached to the
// typed tree by semantic analysis.
package types

import "fmt"

// Names of the builtin types as written by the front end.
const (
	IntName      = "int"
	BooleanName  = "boolean"
	VoidName     = "void"
	StringName   = "String"
	InferredName = "inferred"
)

// Type is a source type. Arrays are one-dimensional, IsArray marks
// an array whose elements are of type Name.
type Type struct {
	Name    string `json:"name"`
	IsArray bool   `json:"isArray"`
}

func Int() Type      { return Type{Name: IntName} }
func Boolean() Type  { return Type{Name: BooleanName} }
func Void() Type     { return Type{Name: VoidName} }
func String() Type   { return Type{Name: StringName} }
func Inferred() Type { return Type{Name: InferredName} }

// Class returns the type of instances of the named class.
func Class(name string) Type { return Type{Name: name} }

// ArrayOf returns the array type with elements of type t.
func ArrayOf(t Type) Type { return Type{Name: t.Name, IsArray: true} }

// Elem returns the element type of an array type.
func (t Type) Elem() Type { return Type{Name: t.Name} }

func (t Type) IsInt() bool      { return !t.IsArray && t.Name == IntName }
func (t Type) IsBoolean() bool  { return !t.IsArray && (t.Name == BooleanName || t.Name == "bool") }
func (t Type) IsInferred() bool { return t.Name == InferredName }

// IsZero reports whether the type was never set.
func (t Type) IsZero() bool { return t.Name == "" }

// IsPrimitive reports whether values of t fit an int slot.
func (t Type) IsPrimitive() bool { return t.IsInt() || t.IsBoolean() }

// IsClass reports whether t names a (non-array) class type.
func (t Type) IsClass() bool {
	if t.IsArray || t.IsZero() {
		return false
	}
	switch t.Name {
	case IntName, BooleanName, "bool", VoidName, InferredName:
		return false
	}
	return true
}

func (t Type) Equals(other Type) bool {
	return t.Name == other.Name && t.IsArray == other.IsArray
}

// Compatible reports whether a value of type t may be used where other
// is expected. The inferred type acts as a wildcard on either side.
func (t Type) Compatible(other Type) bool {
	if t.IsInferred() || other.IsInferred() {
		return true
	}
	return t.Equals(other)
}

func (t Type) String() string {
	if t.IsArray {
		return fmt.Sprintf("%s[]", t.Name)
	}
	return t.Name
}

// Parse reads the textual form produced by String.
func Parse(s string) Type {
	if n := len(s); n > 2 && s[n-2:] == "[]" {
		return Type{Name: s[:n-2], IsArray: true}
	}
	if s == "bool" {
		return Boolean()
	}
	return Type{Name: s}
}
