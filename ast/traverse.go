package ast

import "fmt"

// This is inspired by the go implementation of AST traversal.
// https://go.dev/src/go/ast/walk.go

type Visitor interface {
	Visit(node Node) Visitor
}

func Inspect(root Node, f func(Node) bool) {
	Walk(root, inspector(f))
}

type inspector func(Node) bool

func (v inspector) Visit(node Node) Visitor {
	if v(node) {
		return v
	}
	return nil
}

func Walk(root Node, v Visitor) {
	walker{v: v}.walk(root)
}

type walker struct {
	v Visitor
}

func (w walker) walk(n Node) {
	if n == nil {
		panic("walk received nil node")
	}

	w.v = w.v.Visit(n)
	if w.v == nil {
		return
	}

	switch node := n.(type) {
	// Declarations

	case *Program:
		for _, imp := range node.Imports {
			w.walk(imp)
		}
		if node.Class != nil {
			w.walk(node.Class)
		}

	case *ImportDeclaration: // leaf

	case *ClassDeclaration:
		for _, f := range node.Fields {
			w.walk(f)
		}
		for _, m := range node.Methods {
			w.walk(m)
		}

	case *VarDeclaration: // leaf

	case *Param: // leaf

	case *MethodDeclaration:
		for _, p := range node.Params {
			w.walk(p)
		}
		for _, l := range node.Locals {
			w.walk(l)
		}
		for _, s := range node.Body {
			w.walk(s)
		}
		if node.Return != nil {
			w.walk(node.Return)
		}

	// Statements

	case *Block:
		for _, stmt := range node.Statements {
			w.walk(stmt)
		}

	case *Assignment:
		w.walk(node.Value)

	case *ArrayAssignment:
		w.walk(node.Index)
		w.walk(node.Value)

	case *IfStatement:
		w.walk(node.Condition)
		w.walk(node.Consequence)
		if node.Alternative != nil {
			w.walk(node.Alternative)
		}

	case *WhileStatement:
		w.walk(node.Condition)
		w.walk(node.Body)

	case *ExpressionStatement:
		w.walk(node.Expression)

	// Expressions

	case *BinaryExpression:
		w.walk(node.Left)
		w.walk(node.Right)

	case *UnaryExpression:
		w.walk(node.Operand)

	case *IntegerLiteral, *BooleanLiteral, *Identifier, *ThisExpression, *NewObjectExpression: // leaf

	case *NewArrayExpression:
		w.walk(node.Size)

	case *IndexExpression:
		w.walk(node.Array)
		w.walk(node.Index)

	case *LengthExpression:
		w.walk(node.Array)

	case *CallExpression:
		w.walk(node.Receiver)
		for _, argument := range node.Arguments {
			w.walk(argument)
		}

	default:
		panic(fmt.Errorf("unhandled node type in walker: %T", node))
	}

	w.v.Visit(nil)
}
