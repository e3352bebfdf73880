// Package symbols provides the symbol table of a compilation unit:
// imports, the class with its superclass and fields, and per method its
// return type, parameters and local variables.
package symbols

import (
	"github.com/c0depwn/jmmc/types"
	"strings"
)

// Symbol is a named and typed declaration.
type Symbol struct {
	Name string     `json:"name"`
	Type types.Type `json:"type"`
}

// Scope tells where a symbol was found by Lookup.
type Scope int

const (
	Local Scope = iota
	Parameter
	Field
)

func (s Scope) String() string {
	switch s {
	case Local:
		return "local"
	case Parameter:
		return "parameter"
	default:
		return "field"
	}
}

type Method struct {
	Name           string     `json:"name"`
	Static         bool       `json:"static,omitempty"`
	ReturnType     types.Type `json:"returnType"`
	Parameters     []Symbol   `json:"parameters"`
	LocalVariables []Symbol   `json:"localVariables"`
}

type Table struct {
	// Imports holds the qualified names of imported classes, e.g. "java.util.List".
	Imports    []string  `json:"imports"`
	ClassName  string    `json:"className"`
	SuperClass string    `json:"superClass,omitempty"`
	Fields     []Symbol  `json:"fields"`
	Methods    []*Method `json:"methods"`
}

// Method returns the signature of the named method.
func (t *Table) Method(name string) (*Method, bool) {
	for _, m := range t.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// MethodNames returns the names of all methods in declaration order.
func (t *Table) MethodNames() []string {
	names := make([]string, len(t.Methods))
	for i, m := range t.Methods {
		names[i] = m.Name
	}
	return names
}

// GetReturnType returns the return type of method, the zero type
// if the method is unknown.
func (t *Table) GetReturnType(method string) types.Type {
	if m, ok := t.Method(method); ok {
		return m.ReturnType
	}
	return types.Type{}
}

func (t *Table) GetParameters(method string) []Symbol {
	if m, ok := t.Method(method); ok {
		return m.Parameters
	}
	return nil
}

func (t *Table) GetLocalVariables(method string) []Symbol {
	if m, ok := t.Method(method); ok {
		return m.LocalVariables
	}
	return nil
}

// IsImported reports whether a class with the given simple name is imported.
func (t *Table) IsImported(name string) bool {
	_, ok := t.ResolveImport(name)
	return ok
}

// ResolveImport returns the internal name, e.g. "java/util/List", of the
// imported class whose last path segment is name.
func (t *Table) ResolveImport(name string) (string, bool) {
	for _, imp := range t.Imports {
		segments := strings.Split(imp, ".")
		if segments[len(segments)-1] == name {
			return strings.Join(segments, "/"), true
		}
	}
	return "", false
}

// Lookup resolves name within method. Locals shadow parameters which
// shadow fields.
func (t *Table) Lookup(method, name string) (Symbol, Scope, bool) {
	for _, s := range t.GetLocalVariables(method) {
		if s.Name == name {
			return s, Local, true
		}
	}
	for _, s := range t.GetParameters(method) {
		if s.Name == name {
			return s, Parameter, true
		}
	}
	for _, s := range t.Fields {
		if s.Name == name {
			return s, Field, true
		}
	}
	return Symbol{}, 0, false
}
