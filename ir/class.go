// Package ir defines the three-address intermediate representation
// between the typed tree and JVM assembly, together with its textual form.
package ir

import (
	"fmt"
	"github.com/c0depwn/jmmc/constant"
	"github.com/c0depwn/jmmc/pkg/slices"
	"strings"
)

type Access int

const (
	Default Access = iota
	Public
	Private
	Protected
)

func (a Access) String() string {
	switch a {
	case Public:
		return "public"
	case Private:
		return "private"
	case Protected:
		return "protected"
	default:
		return ""
	}
}

// Modifiers renders access, static and final as a space terminated
// prefix, the default access renders as nothing.
func Modifiers(a Access, static, final bool) string {
	sb := &strings.Builder{}
	if a != Default {
		sb.WriteString(a.String() + " ")
	}
	if static {
		sb.WriteString("static ")
	}
	if final {
		sb.WriteString("final ")
	}
	return sb.String()
}

// Class is one compilation unit.
type Class struct {
	Imports []string
	Name    string
	// Super is empty when the class has no explicit superclass.
	Super   string
	Access  Access
	Static  bool
	Final   bool
	Fields  []*Field
	Methods []*Method
}

type Field struct {
	Name   string
	T      Type
	Access Access
	Static bool
	Final  bool
	// Init is the optional initial value.
	Init constant.Value
}

// Statement is an instruction together with the labels placed before it.
type Statement struct {
	Labels []string
	Instr  Instruction
}

type Method struct {
	Name        string
	Access      Access
	Static      bool
	Final       bool
	Constructor bool
	Params      []*Operand
	// Locals are the declared local variables in declaration order. IR
	// text does not declare locals, methods read from it leave this empty.
	Locals []*Operand
	Return Type
	Body   []Statement
}

// Labels maps every label of the method to the index of the statement
// it is attached to.
func (m *Method) Labels() map[string]int {
	labels := make(map[string]int)
	for i, stmt := range m.Body {
		for _, l := range stmt.Labels {
			labels[l] = i
		}
	}
	return labels
}

// Instructions returns the instructions of the body in order.
func (m *Method) Instructions() []Instruction {
	return slices.Map(m.Body, func(s Statement) Instruction { return s.Instr })
}

// Printer renders the IR text of a class.
type Printer struct {
	Indent int
}

func (c *Class) String() string {
	return Printer{Indent: 4}.Print(c)
}

func (p Printer) Print(c *Class) string {
	indent := strings.Repeat(" ", p.Indent)
	sb := &strings.Builder{}

	for _, imp := range c.Imports {
		sb.WriteString(fmt.Sprintf("import %s;\n", imp))
	}
	if len(c.Imports) > 0 {
		sb.WriteString("\n")
	}

	sb.WriteString(Modifiers(c.Access, c.Static, c.Final) + c.Name)
	if c.Super != "" {
		sb.WriteString(" extends " + c.Super)
	}
	sb.WriteString(" {\n")

	for _, f := range c.Fields {
		sb.WriteString(indent + ".field " + Modifiers(f.Access, f.Static, f.Final))
		sb.WriteString(f.Name + f.T.Suffix())
		if f.Init != nil {
			sb.WriteString(" = " + f.Init.String())
		}
		sb.WriteString(";\n")
	}

	for _, m := range c.Methods {
		sb.WriteString("\n")
		p.method(sb, m, indent)
	}

	sb.WriteString("}\n")
	return sb.String()
}

func (p Printer) method(sb *strings.Builder, m *Method, indent string) {
	params := strings.Join(slices.Map(m.Params, func(o *Operand) string { return o.String() }), ", ")

	if m.Constructor {
		sb.WriteString(fmt.Sprintf("%s.construct %s(%s)%s {\n", indent, m.Name, params, m.Return.Suffix()))
	} else {
		sb.WriteString(fmt.Sprintf(
			"%s.method %s%s(%s)%s {\n",
			indent, Modifiers(m.Access, m.Static, m.Final), m.Name, params, m.Return.Suffix(),
		))
	}

	for _, stmt := range m.Body {
		for _, l := range stmt.Labels {
			sb.WriteString(fmt.Sprintf("%s%s:\n", indent, l))
		}
		sb.WriteString(fmt.Sprintf("%s%s%s;\n", indent, indent, stmt.Instr))
	}

	sb.WriteString(indent + "}\n")
}

// DefaultConstructor builds the constructor which only delegates to the
// superclass constructor.
func DefaultConstructor(class string) *Method {
	return &Method{
		Name:        class,
		Access:      Public,
		Constructor: true,
		Return:      VoidType,
		Body: []Statement{{Instr: &CallInstr{
			Invocation: InvokeSpecial,
			Caller:     NewOperand("this", ThisOf(class)),
			Method:     "<init>",
			Return:     VoidType,
		}}},
	}
}
