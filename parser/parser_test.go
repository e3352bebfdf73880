package parser

import (
	"bytes"
	"fmt"
	"github.com/c0depwn/jmmc/ir"
	"github.com/c0depwn/jmmc/token"
	"strings"
	"testing"
)

const simpleClass = `import io;
import java.util.List;

Simple extends Base {
    .field public a.i32;
    .field private static final max.i32 = 10;

    .construct Simple().V {
        invokespecial(this, "<init>").V;
    }

    .method public static main(args.array.String).V {
        x.i32 :=.i32 1.i32 +.i32 2.i32;
        invokestatic(io, "println", x.i32).V;
        ret.V;
    }

    .method public foo(a.i32, b.array.i32).i32 {
        temp_0.i32 :=.i32 arraylength(b.array.i32).i32;
        if (a.i32 <.bool temp_0.i32) goto Then_0;
        temp_1.i32 :=.i32 -1.i32;
        goto End_0;
    Then_0:
        temp_1.i32 :=.i32 b[a.i32].i32;
    End_0:
        putfield(this, a.i32, temp_1.i32).V;
        ret.i32 temp_1.i32;
    }
}
`

func TestParse(t *testing.T) {
	class, err := Parse(strings.NewReader(simpleClass))
	if err != nil {
		t.Fatal(err)
	}

	if class.Name != "Simple" || class.Super != "Base" {
		t.Fatalf("bad class header %s extends %s", class.Name, class.Super)
	}
	if len(class.Imports) != 2 || class.Imports[1] != "java.util.List" {
		t.Fatalf("bad imports %v", class.Imports)
	}
	if len(class.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(class.Fields))
	}
	limit := class.Fields[1]
	if limit.Access != ir.Private || !limit.Static || !limit.Final || limit.Init == nil || limit.Init.String() != "10" {
		t.Fatalf("bad field %+v", limit)
	}
	if len(class.Methods) != 3 {
		t.Fatalf("expected 3 methods, got %d", len(class.Methods))
	}
	if !class.Methods[0].Constructor {
		t.Fatal("expected the first method to be the constructor")
	}

	main := class.Methods[1]
	if !main.Static || main.Name != "main" || len(main.Body) != 3 {
		t.Fatalf("bad main method %+v", main)
	}
	assign, ok := main.Body[0].Instr.(*ir.AssignInstr)
	if !ok {
		t.Fatalf("expected assignment, got %T", main.Body[0].Instr)
	}
	if _, ok := assign.RHS.(*ir.BinaryOpInstr); !ok {
		t.Fatalf("expected binary operation, got %T", assign.RHS)
	}
	call, ok := main.Body[1].Instr.(*ir.CallInstr)
	if !ok || call.Invocation != ir.InvokeStatic || call.Caller.Type().Kind != ir.ClassRef {
		t.Fatalf("bad static call %v", main.Body[1].Instr)
	}

	foo := class.Methods[2]
	labels := foo.Labels()
	if labels["Then_0"] != 4 || labels["End_0"] != 5 {
		t.Fatalf("bad labels %v", labels)
	}
	neg := foo.Body[2].Instr.(*ir.AssignInstr).RHS.(*ir.SingleOpInstr).Operand.(*ir.Literal)
	if neg.Value.String() != "-1" {
		t.Fatalf("expected -1, got %s", neg.Value)
	}
	if _, ok := foo.Body[6].Instr.(*ir.ReturnInstr); !ok {
		t.Fatalf("expected return, got %T", foo.Body[6].Instr)
	}
}

// TestParse_RoundTrip ensures printed IR can be read back unchanged.
func TestParse_RoundTrip(t *testing.T) {
	class, err := Parse(strings.NewReader(simpleClass))
	if err != nil {
		t.Fatal(err)
	}

	printed := class.String()
	again, err := Parse(strings.NewReader(printed))
	if err != nil {
		t.Fatalf("failed to parse printed IR: %v\n%s", err, printed)
	}
	if again.String() != printed {
		t.Fatalf("round trip changed the IR:\n%s\n---\n%s", printed, again.String())
	}
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		input  string
		expect string
	}{
		{
			input:  `A { .method public f().V { goto L } }`,
			expect: "expected ';'",
		},
		{
			input:  `A { .method public f().i32 { ret.i32; } }`,
			expect: "missing return value",
		},
		{
			input:  `A { .method public f().V { L: } }`,
			expect: "label L is not followed by an instruction",
		},
		{
			input:  `A { .blob x.i32; }`,
			expect: "unknown directive '.blob'",
		},
		{
			input:  `A { .method public f().V { x.i32 :=.i32 99999999999.i32; ret.V; } }`,
			expect: "does not fit in 32 bits",
		},
	}

	for id, tc := range cases {
		t.Run(fmt.Sprintf("case-%d", id), func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.input))
			if err == nil {
				t.Fatal("expected error but got none")
			}
			if !strings.Contains(err.Error(), tc.expect) {
				t.Fatalf("expected error containing %q, got %q", tc.expect, err)
			}
		})
	}
}

func TestParse_CollectErrors(t *testing.T) {
	var errs []error
	src := &sliceSource{tokens: []token.Token{
		{Type: token.Identifier, Literal: "A"},
		{Type: token.LBrace, Literal: "{"},
		{Type: token.Dot, Literal: "."},
		{Type: token.Identifier, Literal: "unknown"},
		{Type: token.RBrace, Literal: "}"},
	}}

	class, err := ParseClass(src, func(err error) { errs = append(errs, err) })
	if err != nil {
		t.Fatal(err)
	}
	if class == nil || class.Name != "A" {
		t.Fatalf("expected class A, got %+v", class)
	}
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
}

func TestParse_Trace(t *testing.T) {
	out := &bytes.Buffer{}
	if _, err := Parse(strings.NewReader(`A { }`), EnableTrace(out)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "> parse") || !strings.Contains(out.String(), "< parse") {
		t.Fatalf("unexpected trace %q", out.String())
	}
}

func TestParse_VariableNamedRet(t *testing.T) {
	class, err := Parse(strings.NewReader(`A { .method public f().i32 { ret.i32 :=.i32 1.i32; ret.i32 ret.i32; } }`))
	if err != nil {
		t.Fatal(err)
	}
	body := class.Methods[0].Body
	if _, ok := body[0].Instr.(*ir.AssignInstr); !ok {
		t.Fatalf("expected assignment, got %T", body[0].Instr)
	}
	r, ok := body[1].Instr.(*ir.ReturnInstr)
	if !ok || r.Operand.String() != "ret.i32" {
		t.Fatalf("expected return of ret, got %v", body[1].Instr)
	}
}
