// Package ast defines the typed tree produced by the front end: a parsed
// and semantically checked Java-- program in which every expression
// carries its resolved type.
package ast

import (
	"fmt"
	"github.com/c0depwn/jmmc/token"
	"strings"
)

// Kinds as tagged by the front end.
const (
	KindProgram         = "Program"
	KindImport          = "ImportDeclaration"
	KindClass           = "ClassDeclaration"
	KindVarDeclaration  = "VarDeclaration"
	KindMainMethod      = "MainMethod"
	KindInstanceMethod  = "InstanceMethod"
	KindParam           = "Param"
	KindType            = "Type"
	KindArray           = "Array"
	KindReturn          = "ReturnStmt"
	KindAssignment      = "Assignment"
	KindArrayAssignment = "ArrayAssignment"
	KindExprStmt        = "ExprStmt"
	KindBlock           = "StmtBlock"
	KindConditional     = "Conditional"
	KindWhile           = "WhileLoop"
	KindBinaryOp        = "BinaryOp"
	KindUnaryOp         = "UnaryOp"
	KindPrioExpr        = "PrioExpr"
	KindInteger         = "Integer"
	KindBoolean         = "BoolExpr"
	KindIdentifier      = "Identifier"
	KindThis            = "Reference"
	KindNewArray        = "ArrayInit"
	KindIndex           = "ArrayExpr"
	KindLength          = "Length"
	KindNewObject       = "Constructor"
	KindMethodCall      = "MethodCall"
	KindCall            = "Call"
)

type Node interface {
	// Position returns the position of the node in the source.
	Position() token.Position
	// Kind returns the tag of the node as produced by the front end.
	Kind() string
	String() string

	// prevent external implementations
	aNode()
}

type node struct {
	p token.Position
}

func (n *node) SetPosition(p token.Position) { n.p = p }
func (n *node) Position() token.Position     { return n.p }
func (*node) aNode()                         {}

// Program is the root of the tree.
type Program struct {
	node
	Imports []*ImportDeclaration
	Class   *ClassDeclaration
}

func (*Program) Kind() string { return KindProgram }

func (p *Program) String() string {
	sb := &strings.Builder{}
	for _, imp := range p.Imports {
		sb.WriteString(imp.String() + "\n")
	}
	if p.Class != nil {
		sb.WriteString(p.Class.String())
	}
	return sb.String()
}

// ImportDeclaration imports a class by its qualified Path, e.g. "java.util.List".
type ImportDeclaration struct {
	node
	Path string
}

func (*ImportDeclaration) Kind() string { return KindImport }

func (i *ImportDeclaration) String() string {
	return fmt.Sprintf("import %s;", i.Path)
}

// Name returns the simple name of the imported class.
func (i *ImportDeclaration) Name() string {
	if idx := strings.LastIndex(i.Path, "."); idx >= 0 {
		return i.Path[idx+1:]
	}
	return i.Path
}
