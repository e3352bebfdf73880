package ast

import (
	"fmt"
	"github.com/c0depwn/jmmc/pkg/slices"
	"github.com/c0depwn/jmmc/types"
	"strconv"
	"strings"
)

type Expression interface {
	Node
	// Type returns the type resolved by semantic analysis.
	Type() types.Type
	aExpression()
}

type expression struct {
	node
}

func (expression) aExpression() {}

// BinaryExpression = Left Operator Right
type BinaryExpression struct {
	expression
	Operator    string
	Left, Right Expression

	T types.Type
}

func (b *BinaryExpression) Type() types.Type { return b.T }

func (*BinaryExpression) Kind() string { return KindBinaryOp }

func (b *BinaryExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Operator, b.Right)
}

// UnaryExpression = Operator Operand, the only operator is "!".
type UnaryExpression struct {
	expression
	Operator string
	Operand  Expression

	T types.Type
}

func (u *UnaryExpression) Type() types.Type { return u.T }

func (*UnaryExpression) Kind() string { return KindUnaryOp }

func (u *UnaryExpression) String() string {
	return fmt.Sprintf("%s(%s)", u.Operator, u.Operand)
}

type IntegerLiteral struct {
	expression
	Value int32

	T types.Type
}

func (l *IntegerLiteral) Type() types.Type { return l.T }

func (*IntegerLiteral) Kind() string { return KindInteger }

func (l *IntegerLiteral) String() string { return strconv.FormatInt(int64(l.Value), 10) }

type BooleanLiteral struct {
	expression
	Value bool

	T types.Type
}

func (l *BooleanLiteral) Type() types.Type { return l.T }

func (*BooleanLiteral) Kind() string { return KindBoolean }

func (l *BooleanLiteral) String() string { return strconv.FormatBool(l.Value) }

// Identifier references a local variable, parameter, field or,
// as the receiver of a call, an imported class.
type Identifier struct {
	expression
	Name string

	T types.Type
}

func (i *Identifier) Type() types.Type { return i.T }

func (*Identifier) Kind() string { return KindIdentifier }

func (i *Identifier) String() string { return i.Name }

type ThisExpression struct {
	expression

	T types.Type
}

func (e *ThisExpression) Type() types.Type { return e.T }

func (*ThisExpression) Kind() string { return KindThis }

func (*ThisExpression) String() string { return "this" }

// NewArrayExpression = "new" "int" "[" Size "]"
type NewArrayExpression struct {
	expression
	Size Expression

	T types.Type
}

func (n *NewArrayExpression) Type() types.Type { return n.T }

func (*NewArrayExpression) Kind() string { return KindNewArray }

func (n *NewArrayExpression) String() string {
	return fmt.Sprintf("new %s[%s]", n.T.Elem(), n.Size)
}

// IndexExpression = Array "[" Index "]"
type IndexExpression struct {
	expression
	Array Expression
	Index Expression

	T types.Type
}

func (i *IndexExpression) Type() types.Type { return i.T }

func (*IndexExpression) Kind() string { return KindIndex }

func (i *IndexExpression) String() string {
	return fmt.Sprintf("%s[%s]", i.Array, i.Index)
}

// LengthExpression = Array ".length"
type LengthExpression struct {
	expression
	Array Expression

	T types.Type
}

func (l *LengthExpression) Type() types.Type { return l.T }

func (*LengthExpression) Kind() string { return KindLength }

func (l *LengthExpression) String() string {
	return fmt.Sprintf("%s.length", l.Array)
}

// NewObjectExpression = "new" ClassName "(" ")"
type NewObjectExpression struct {
	expression
	ClassName string

	T types.Type
}

func (n *NewObjectExpression) Type() types.Type { return n.T }

func (*NewObjectExpression) Kind() string { return KindNewObject }

func (n *NewObjectExpression) String() string {
	return fmt.Sprintf("new %s()", n.ClassName)
}

// CallExpression = Receiver "." Method "(" Arguments ")"
type CallExpression struct {
	expression
	Receiver  Expression
	Method    string
	Arguments []Expression

	T types.Type
}

func (c *CallExpression) Type() types.Type { return c.T }

func (*CallExpression) Kind() string { return KindMethodCall }

func (c *CallExpression) String() string {
	args := slices.Map(c.Arguments, func(e Expression) string { return e.String() })
	return fmt.Sprintf("%s.%s(%s)", c.Receiver, c.Method, strings.Join(args, ", "))
}
