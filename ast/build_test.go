package ast

import (
	"fmt"
	"github.com/c0depwn/jmmc/types"
	"strings"
	"testing"
)

func raw(kind string, attrs map[string]string, children ...RawNode) RawNode {
	return RawNode{Kind: kind, Attributes: attrs, Children: children}
}

func attrs(kv ...string) map[string]string {
	m := make(map[string]string)
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i]] = kv[i+1]
	}
	return m
}

func sampleProgram() RawNode {
	return raw(KindProgram, nil,
		raw(KindImport, attrs("value", "io")),
		raw(KindImport, nil,
			raw(KindIdentifier, attrs("value", "java")),
			raw(KindIdentifier, attrs("value", "util")),
			raw(KindIdentifier, attrs("value", "List")),
		),
		raw(KindClass, attrs("className", "Simple", "parent", "Base"),
			raw(KindVarDeclaration, attrs("var", "a"),
				raw(KindArray, attrs("value", "int")),
			),
			raw(KindMainMethod, nil,
				raw(KindVarDeclaration, attrs("var", "x"), raw(KindType, attrs("value", "int"))),
				raw(KindAssignment, attrs("var", "x", "type", "int"),
					raw(KindPrioExpr, nil,
						raw(KindBinaryOp, attrs("op", "+", "type", "int"),
							raw(KindInteger, attrs("value", "1")),
							raw(KindInteger, attrs("value", "2")),
						),
					),
				),
				raw(KindExprStmt, nil,
					raw(KindMethodCall, attrs("type", "inferred"),
						raw(KindIdentifier, attrs("value", "io", "type", "io")),
						raw(KindCall, attrs("methodName", "println"),
							raw(KindIdentifier, attrs("value", "x", "type", "int")),
						),
					),
				),
			),
			raw(KindInstanceMethod, attrs("methodName", "get", "line", "7", "col", "3"),
				raw(KindType, attrs("value", "int")),
				raw(KindParam, attrs("name", "i"), raw(KindType, attrs("value", "int"))),
				raw(KindReturn, nil,
					raw(KindIndex, attrs("type", "int"),
						raw(KindIdentifier, attrs("value", "a", "type", "int", "isArray", "true")),
						raw(KindIdentifier, attrs("value", "i", "type", "int")),
					),
				),
			),
		),
	)
}

func TestBuild(t *testing.T) {
	program, err := Build(sampleProgram())
	if err != nil {
		t.Fatal(err)
	}

	if len(program.Imports) != 2 || program.Imports[1].Path != "java.util.List" {
		t.Fatalf("bad imports %v", program.Imports)
	}
	if program.Imports[1].Name() != "List" {
		t.Fatalf("expected simple name List, got %s", program.Imports[1].Name())
	}

	class := program.Class
	if class.Name != "Simple" || class.Super != "Base" {
		t.Fatalf("bad class %s extends %s", class.Name, class.Super)
	}
	if len(class.Fields) != 1 || !class.Fields[0].T.Equals(types.ArrayOf(types.Int())) {
		t.Fatalf("bad fields %v", class.Fields)
	}

	main := class.Methods[0]
	if !main.Static || main.Name != "main" || len(main.Params) != 1 || main.Params[0].Name != "args" {
		t.Fatalf("bad main %v", main)
	}
	if len(main.Locals) != 1 || len(main.Body) != 2 {
		t.Fatalf("expected 1 local and 2 statements, got %d and %d", len(main.Locals), len(main.Body))
	}

	assign := main.Body[0].(*Assignment)
	if _, ok := assign.Value.(*BinaryExpression); !ok {
		t.Fatalf("expected parentheses to be unwrapped, got %T", assign.Value)
	}

	call := main.Body[1].(*ExpressionStatement).Expression.(*CallExpression)
	if call.Method != "println" || len(call.Arguments) != 1 || !call.Type().IsInferred() {
		t.Fatalf("bad call %v", call)
	}

	get := class.Methods[1]
	if get.Static || !get.Result.IsInt() || len(get.Params) != 1 {
		t.Fatalf("bad method %v", get)
	}
	if _, ok := get.Return.(*IndexExpression); !ok {
		t.Fatalf("expected index return expression, got %T", get.Return)
	}
	if get.Position().Row != 7 || get.Position().Col != 3 {
		t.Fatalf("bad position %v", get.Position())
	}
}

func TestBuild_Errors(t *testing.T) {
	cases := []struct {
		root   RawNode
		expect string
	}{
		{
			root:   raw(KindClass, attrs("className", "A")),
			expect: "expected root of kind Program",
		},
		{
			root:   raw(KindProgram, nil),
			expect: "program does not declare a class",
		},
		{
			root: raw(KindProgram, nil,
				raw(KindClass, attrs("className", "A"),
					raw(KindInstanceMethod, attrs("methodName", "f"), raw(KindType, attrs("value", "int"))),
				),
			),
			expect: "method f does not end with a return",
		},
		{
			root: raw(KindProgram, nil,
				raw(KindClass, nil),
			),
			expect: `missing attribute "className"`,
		},
		{
			root: raw(KindProgram, nil,
				raw(KindClass, attrs("className", "A"),
					raw(KindMainMethod, nil, raw("Unknown", nil)),
				),
			),
			expect: "Unknown: unexpected statement",
		},
	}

	for id, tc := range cases {
		t.Run(fmt.Sprintf("case-%d", id), func(t *testing.T) {
			_, err := Build(tc.root)
			if err == nil {
				t.Fatal("expected error but got none")
			}
			if !strings.Contains(err.Error(), tc.expect) {
				t.Fatalf("expected error containing %q, got %q", tc.expect, err)
			}
		})
	}
}

func TestInspect(t *testing.T) {
	program, err := Build(sampleProgram())
	if err != nil {
		t.Fatal(err)
	}

	counts := make(map[string]int)
	Inspect(program, func(n Node) bool {
		if n != nil {
			counts[n.Kind()]++
		}
		return true
	})

	expect := map[string]int{
		KindProgram:        1,
		KindImport:         2,
		KindClass:          1,
		KindMainMethod:     1,
		KindInstanceMethod: 1,
		KindIdentifier:     4,
		KindInteger:        2,
		KindIndex:          1,
		KindMethodCall:     1,
	}
	for kind, n := range expect {
		if counts[kind] != n {
			t.Fatalf("expected %d nodes of kind %s, got %d", n, kind, counts[kind])
		}
	}
}
