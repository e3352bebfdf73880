package ast

import (
	"fmt"
	"github.com/c0depwn/jmmc/pkg/slices"
	"github.com/c0depwn/jmmc/types"
	"strings"
)

type ClassDeclaration struct {
	node
	Name string
	// Super is empty when the class does not extend another class.
	Super   string
	Fields  []*VarDeclaration
	Methods []*MethodDeclaration
}

func (*ClassDeclaration) Kind() string { return KindClass }

func (c *ClassDeclaration) String() string {
	sb := &strings.Builder{}
	sb.WriteString("class " + c.Name)
	if c.Super != "" {
		sb.WriteString(" extends " + c.Super)
	}
	sb.WriteString(" {\n")
	for _, f := range c.Fields {
		sb.WriteString(f.String() + "\n")
	}
	for _, m := range c.Methods {
		sb.WriteString(m.String() + "\n")
	}
	sb.WriteString("}")
	return sb.String()
}

// VarDeclaration declares a field or a local variable.
type VarDeclaration struct {
	node
	Name string
	T    types.Type
}

func (*VarDeclaration) Kind() string { return KindVarDeclaration }

func (d *VarDeclaration) String() string {
	return fmt.Sprintf("%s %s;", d.T, d.Name)
}

// MethodDeclaration is either the static main method or an instance method.
// Instance methods always end with a Return expression, main has none.
type MethodDeclaration struct {
	node
	Name   string
	Static bool
	Result types.Type
	Params []*Param
	Locals []*VarDeclaration
	Body   []Statement
	Return Expression
}

func (m *MethodDeclaration) Kind() string {
	if m.Static {
		return KindMainMethod
	}
	return KindInstanceMethod
}

func (m *MethodDeclaration) String() string {
	sb := &strings.Builder{}

	params := slices.Map(m.Params, func(p *Param) string { return p.String() })
	modifiers := "public"
	if m.Static {
		modifiers += " static"
	}
	sb.WriteString(fmt.Sprintf("%s %s %s(%s) {\n", modifiers, m.Result, m.Name, strings.Join(params, ", ")))

	for _, l := range m.Locals {
		sb.WriteString(l.String() + "\n")
	}
	for _, s := range m.Body {
		sb.WriteString(s.String() + "\n")
	}
	if m.Return != nil {
		sb.WriteString(fmt.Sprintf("return %s;\n", m.Return))
	}
	sb.WriteString("}")
	return sb.String()
}

type Param struct {
	node
	Name string
	T    types.Type
}

func (*Param) Kind() string { return KindParam }

func (p *Param) String() string {
	return fmt.Sprintf("%s %s", p.T, p.Name)
}
