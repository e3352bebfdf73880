package ast

import (
	"fmt"
	"github.com/c0depwn/jmmc/pkg/slices"
	"github.com/c0depwn/jmmc/types"
	"strings"
)

type Statement interface {
	Node
	// Prevent external implementation
	aStatement()
}

type statement struct{ node }

func (statement) aStatement() {}

type Block struct {
	statement
	Statements []Statement
}

func (*Block) Kind() string { return KindBlock }

func (b *Block) String() string {
	strs := slices.Map(b.Statements, func(s Statement) string {
		return s.String()
	})
	if len(strs) == 0 {
		return "{}"
	}
	return fmt.Sprintf("{\n%s\n}", strings.Join(strs, "\n"))
}

// Assignment stores Value in the variable or field Name of type T.
type Assignment struct {
	statement
	Name  string
	T     types.Type
	Value Expression
}

func (*Assignment) Kind() string { return KindAssignment }

func (a *Assignment) String() string {
	return fmt.Sprintf("%s = %s;", a.Name, a.Value)
}

// ArrayAssignment stores Value at Name[Index].
type ArrayAssignment struct {
	statement
	Name  string
	Index Expression
	Value Expression
}

func (*ArrayAssignment) Kind() string { return KindArrayAssignment }

func (a *ArrayAssignment) String() string {
	return fmt.Sprintf("%s[%s] = %s;", a.Name, a.Index, a.Value)
}

type IfStatement struct {
	statement
	Condition   Expression
	Consequence Statement
	Alternative Statement
}

func (*IfStatement) Kind() string { return KindConditional }

func (i *IfStatement) String() string {
	return fmt.Sprintf("if (%s) %s else %s", i.Condition, i.Consequence, i.Alternative)
}

type WhileStatement struct {
	statement
	Condition Expression
	Body      Statement
}

func (*WhileStatement) Kind() string { return KindWhile }

func (w *WhileStatement) String() string {
	return fmt.Sprintf("while (%s) %s", w.Condition, w.Body)
}

type ExpressionStatement struct {
	statement
	Expression Expression
}

func (*ExpressionStatement) Kind() string { return KindExprStmt }

func (e *ExpressionStatement) String() string {
	return fmt.Sprintf("%s;", e.Expression)
}
