package ir

import (
	"fmt"
	"github.com/c0depwn/jmmc/types"
	"strings"
)

// ElementType classifies the values of the IR.
type ElementType int

const (
	Int32 ElementType = iota
	Boolean
	ArrayRef
	ObjectRef
	ClassRef
	This
	String
	Void
)

func (k ElementType) String() string {
	switch k {
	case Int32:
		return "i32"
	case Boolean:
		return "bool"
	case ArrayRef:
		return "array"
	case ObjectRef:
		return "object"
	case ClassRef:
		return "class"
	case This:
		return "this"
	case String:
		return "String"
	case Void:
		return "V"
	default:
		panic(fmt.Errorf("unknown element type %d", int(k)))
	}
}

// Type is the type of an IR value. Elem is set for ArrayRef, ClassName is
// set for ObjectRef, ClassRef and This.
type Type struct {
	Kind      ElementType
	Elem      *Type
	ClassName string
}

var (
	Int32Type   = Type{Kind: Int32}
	BooleanType = Type{Kind: Boolean}
	StringType  = Type{Kind: String}
	VoidType    = Type{Kind: Void}
)

func ArrayOf(elem Type) Type         { return Type{Kind: ArrayRef, Elem: &elem} }
func ObjectOf(className string) Type { return Type{Kind: ObjectRef, ClassName: className} }
func ClassOf(className string) Type  { return Type{Kind: ClassRef, ClassName: className} }
func ThisOf(className string) Type   { return Type{Kind: This, ClassName: className} }

// FromSource maps a resolved source type onto the IR. Inferred types have
// no IR counterpart and map to void.
func FromSource(t types.Type) Type {
	var base Type
	switch {
	case t.IsInferred(), t.IsZero():
		return VoidType
	case t.Name == types.IntName:
		base = Int32Type
	case t.Name == types.BooleanName || t.Name == "bool":
		base = BooleanType
	case t.Name == types.VoidName:
		base = VoidType
	case t.Name == types.StringName:
		base = StringType
	default:
		base = ObjectOf(t.Name)
	}
	if t.IsArray {
		return ArrayOf(base)
	}
	return base
}

// IsReference reports whether values of t are stored with aload/astore.
func (t Type) IsReference() bool {
	switch t.Kind {
	case ArrayRef, ObjectRef, ClassRef, This, String:
		return true
	}
	return false
}

func (t Type) Equals(other Type) bool {
	if t.Kind != other.Kind || t.ClassName != other.ClassName {
		return false
	}
	if t.Kind == ArrayRef {
		return t.Elem != nil && other.Elem != nil && t.Elem.Equals(*other.Elem)
	}
	return true
}

// Suffix renders the type annotation appended to IR values, e.g. ".i32"
// or ".array.i32".
func (t Type) Suffix() string {
	return "." + t.String()
}

func (t Type) String() string {
	switch t.Kind {
	case ArrayRef:
		if t.Elem == nil {
			return "array"
		}
		return "array." + t.Elem.String()
	case ObjectRef, ClassRef, This:
		return t.ClassName
	default:
		return t.Kind.String()
	}
}

// ParseType reads a dotted suffix without the leading dot, e.g.
// "array.i32". Unknown names are classes.
func ParseType(parts []string) (Type, error) {
	if len(parts) == 0 {
		return Type{}, fmt.Errorf("missing type")
	}
	switch parts[0] {
	case "i32":
		return Int32Type, checkSingle(parts)
	case "bool":
		return BooleanType, checkSingle(parts)
	case "V":
		return VoidType, checkSingle(parts)
	case "String":
		return StringType, checkSingle(parts)
	case "array":
		elem, err := ParseType(parts[1:])
		if err != nil {
			return Type{}, fmt.Errorf("array element: %w", err)
		}
		return ArrayOf(elem), nil
	default:
		return ObjectOf(parts[0]), checkSingle(parts)
	}
}

func checkSingle(parts []string) error {
	if len(parts) > 1 {
		return fmt.Errorf("unexpected type suffix .%s", strings.Join(parts[1:], "."))
	}
	return nil
}
