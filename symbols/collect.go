package symbols

import (
	"github.com/c0depwn/jmmc/ast"
)

// Collect builds the symbol table from the declarations of the program.
// This is used when the front end does not ship a table with the tree.
//
// Collect terminates on the first duplicate declaration it encounters.
func Collect(program *ast.Program) (*Table, error) {
	table := &Table{}

	for _, imp := range program.Imports {
		table.Imports = append(table.Imports, imp.Path)
	}

	var err error
	ast.Inspect(program, func(n ast.Node) bool {
		if err != nil || n == nil {
			return false
		}

		switch node := n.(type) {
		case *ast.ClassDeclaration:
			table.ClassName = node.Name
			table.SuperClass = node.Super
			for _, f := range node.Fields {
				if containsSymbol(table.Fields, f.Name) {
					err = newSymbolErrorF(duplicateErrFmt, "field", f.Name, node.Name)
					return false
				}
				table.Fields = append(table.Fields, Symbol{Name: f.Name, Type: f.T})
			}
			return true

		case *ast.MethodDeclaration:
			if _, ok := table.Method(node.Name); ok {
				err = newSymbolErrorF(duplicateErrFmt, "method", node.Name, table.ClassName)
				return false
			}
			err = registerMethod(table, node)
			// nothing below a method declares symbols
			return false
		}

		return true
	})

	if err != nil {
		return nil, err
	}
	return table, nil
}

func registerMethod(table *Table, decl *ast.MethodDeclaration) error {
	m := &Method{
		Name:       decl.Name,
		Static:     decl.Static,
		ReturnType: decl.Result,
	}

	for _, p := range decl.Params {
		if containsSymbol(m.Parameters, p.Name) {
			return newSymbolErrorF(duplicateErrFmt, "parameter", p.Name, decl.Name)
		}
		m.Parameters = append(m.Parameters, Symbol{Name: p.Name, Type: p.T})
	}

	for _, l := range decl.Locals {
		if containsSymbol(m.LocalVariables, l.Name) {
			return newSymbolErrorF(duplicateErrFmt, "variable", l.Name, decl.Name)
		}
		m.LocalVariables = append(m.LocalVariables, Symbol{Name: l.Name, Type: l.T})
	}

	table.Methods = append(table.Methods, m)
	return nil
}

func containsSymbol(symbols []Symbol, name string) bool {
	for _, s := range symbols {
		if s.Name == name {
			return true
		}
	}
	return false
}
