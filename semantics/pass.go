package semantics

import (
	"github.com/c0depwn/jmmc/ast"
	"github.com/c0depwn/jmmc/pkg/slices"
	"github.com/c0depwn/jmmc/report"
	"github.com/c0depwn/jmmc/symbols"
)

// Analyze ensures that the typed tree adheres to the following rules
// code generation relies on:
//   - exactly 1 static main method is present
//   - main is not called from within the program
//   - every expression other than this carries a type
//   - every method is known to the symbol table
//   - identifiers are declared or name an imported class
//   - assigned values are compatible with the assigned variable
//
// Violations are returned as error reports, expression statements whose
// value is discarded are reported as warnings.
func Analyze(program *ast.Program, table *symbols.Table) []report.Report {
	if program.Class == nil {
		return []report.Report{report.New(report.Error, report.Semantic, -1, -1, "missing class declaration")}
	}

	var reports []report.Report
	reports = append(reports, ensureMain(program.Class)...)

	for _, m := range program.Class.Methods {
		if _, ok := table.Method(m.Name); !ok {
			reports = append(reports, errorAt(m, "method %s is missing from the symbol table", m.Name))
			continue
		}
		reports = append(reports, checkMethod(m, table)...)
	}

	return reports
}

func ensureMain(class *ast.ClassDeclaration) []report.Report {
	mains := slices.Filter(class.Methods, func(m *ast.MethodDeclaration) bool {
		return m.Static && m.Name == "main"
	})
	switch len(mains) {
	case 1:
		return nil
	case 0:
		return []report.Report{errorAt(class, "missing main method in %s", class.Name)}
	default:
		return []report.Report{errorAt(mains[1], "main method declared %d times", len(mains))}
	}
}

func checkMethod(m *ast.MethodDeclaration, table *symbols.Table) []report.Report {
	var reports []report.Report

	ast.Inspect(m, func(n ast.Node) bool {
		if n == nil {
			return false
		}

		switch node := n.(type) {
		case *ast.ExpressionStatement:
			if _, ok := node.Expression.(*ast.CallExpression); !ok {
				reports = append(reports, report.New(report.Warning, report.Semantic,
					node.Position().Row, node.Position().Col, "value of %s is not used", node.Expression))
			}
		case *ast.ThisExpression:
			if m.Static {
				reports = append(reports, errorAt(node, "this used in static method %s", m.Name))
			}
			return true
		case *ast.Assignment:
			if s, _, ok := table.Lookup(m.Name, node.Name); ok && !node.Value.Type().IsZero() && !node.Value.Type().Compatible(s.Type) {
				reports = append(reports, errorAt(node, "cannot assign %s to %s of type %s", node.Value.Type(), node.Name, s.Type))
			}
		case *ast.CallExpression:
			if node.Method == "main" {
				reports = append(reports, errorAt(node, "cannot call main method"))
			}
		case *ast.Identifier:
			if _, _, ok := table.Lookup(m.Name, node.Name); !ok && !table.IsImported(node.Name) {
				reports = append(reports, errorAt(node, "undeclared identifier %s", node.Name))
			}
		}

		if e, ok := n.(ast.Expression); ok && e.Type().IsZero() {
			reports = append(reports, errorAt(n, "expression %s carries no type", e))
		}
		return true
	})

	return reports
}

func errorAt(n ast.Node, format string, args ...any) report.Report {
	p := n.Position()
	return report.New(report.Error, report.Semantic, p.Row, p.Col, format, args...)
}
