package ir

import (
	"fmt"
	"github.com/c0depwn/jmmc/constant"
)

// Element is a value used by an instruction: a named operand, an array
// element or a literal.
type Element interface {
	Type() Type
	String() string

	// prevent external implementations
	anElement()
}

type element struct{}

func (element) anElement() {}

// Operand is a named variable, parameter, field, the receiver this or a
// class used as the target of a static call.
type Operand struct {
	element
	Name string
	T    Type
}

func NewOperand(name string, t Type) *Operand {
	return &Operand{Name: name, T: t}
}

func (o *Operand) Type() Type { return o.T }

func (o *Operand) String() string {
	switch o.T.Kind {
	case This, ClassRef:
		return o.Name
	default:
		return o.Name + o.T.Suffix()
	}
}

// ArrayOperand is the element Name[Index] of an array, T is the element type.
type ArrayOperand struct {
	element
	Name  string
	Index Element
	T     Type
}

func (a *ArrayOperand) Type() Type { return a.T }

func (a *ArrayOperand) String() string {
	return fmt.Sprintf("%s[%s]%s", a.Name, a.Index, a.T.Suffix())
}

// Literal is a constant integer, boolean or string.
type Literal struct {
	element
	Value constant.Value
	T     Type
}

func IntLiteral(v int32) *Literal {
	return &Literal{Value: constant.MakeInt(v), T: Int32Type}
}

func BoolLiteral(v bool) *Literal {
	return &Literal{Value: constant.MakeBool(v), T: BooleanType}
}

func StringLiteral(v string) *Literal {
	return &Literal{Value: constant.MakeString(v), T: StringType}
}

func (l *Literal) Type() Type { return l.T }

func (l *Literal) String() string {
	if l.T.Kind == String {
		return l.Value.String()
	}
	return l.Value.String() + l.T.Suffix()
}

// IsLiteral reports whether e is a literal, returning it.
func IsLiteral(e Element) (*Literal, bool) {
	l, ok := e.(*Literal)
	return l, ok
}
