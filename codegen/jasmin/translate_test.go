package jasmin

import (
	"errors"
	"fmt"
	"github.com/c0depwn/jmmc/ir"
	"reflect"
	"strings"
	"testing"
)

var (
	i32   = ir.Int32Type
	bool_ = ir.BooleanType
)

func op(name string, t ir.Type) *ir.Operand { return ir.NewOperand(name, t) }

func lit(v int32) *ir.Literal { return ir.IntLiteral(v) }

func this() *ir.Operand { return op("this", ir.ThisOf("Simple")) }

func assign(dest ir.Element, rhs ir.Instruction) *ir.AssignInstr {
	return &ir.AssignInstr{Dest: dest, T: dest.Type(), RHS: rhs}
}

func binary(o ir.Operation, l, r ir.Element) *ir.BinaryOpInstr {
	return &ir.BinaryOpInstr{Op: o, Left: l, Right: r}
}

func single(e ir.Element) *ir.SingleOpInstr { return &ir.SingleOpInstr{Operand: e} }

func ret(e ir.Element) *ir.ReturnInstr {
	if e == nil {
		return &ir.ReturnInstr{T: ir.VoidType}
	}
	return &ir.ReturnInstr{Operand: e, T: e.Type()}
}

func statements(instrs ...ir.Instruction) []ir.Statement {
	body := make([]ir.Statement, len(instrs))
	for i, instr := range instrs {
		body[i] = ir.Statement{Instr: instr}
	}
	return body
}

func mainMethod(instrs ...ir.Instruction) *ir.Method {
	return &ir.Method{
		Name:   "main",
		Access: ir.Public,
		Static: true,
		Params: []*ir.Operand{op("args", ir.ArrayOf(ir.StringType))},
		Return: ir.VoidType,
		Body:   statements(instrs...),
	}
}

func instanceMethod(name string, result ir.Type, params []*ir.Operand, instrs ...ir.Instruction) *ir.Method {
	return &ir.Method{
		Name:   name,
		Access: ir.Public,
		Params: params,
		Return: result,
		Body:   statements(instrs...),
	}
}

func testClass(methods ...*ir.Method) *ir.Class {
	return &ir.Class{
		Imports: []string{"io"},
		Name:    "Simple",
		Access:  ir.Public,
		Fields:  []*ir.Field{{Name: "count", T: i32, Access: ir.Private}},
		Methods: append([]*ir.Method{ir.DefaultConstructor("Simple")}, methods...),
	}
}

// methodLines returns the trimmed body of the named method without the
// .limit directives.
func methodLines(out, name string) []string {
	var lines []string
	inside := false
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, ".method") && strings.Contains(line, " "+name+"("):
			inside = true
		case line == ".end method":
			inside = false
		case inside && !strings.HasPrefix(line, ".limit"):
			lines = append(lines, line)
		}
	}
	return lines
}

// translate translates m within a test class, checks the stack limits
// with Verify and returns the body of m.
func translate(t *testing.T, m *ir.Method, opts ...Option) ([]string, MethodReport) {
	t.Helper()

	out, err := Translate(testClass(m), opts...)
	if err != nil {
		t.Fatal(err)
	}
	reports, err := Verify(out)
	if err != nil {
		t.Fatalf("%v\n%s", err, out)
	}

	for _, r := range reports {
		if r.Name != m.Name {
			continue
		}
		if r.MaxStack != r.LimitStack {
			t.Fatalf("stack limit %d, but the code reaches %d\n%s", r.LimitStack, r.MaxStack, out)
		}
		return methodLines(out, m.Name), r
	}
	t.Fatalf("method %s missing from output\n%s", m.Name, out)
	return nil, MethodReport{}
}

func expectLines(t *testing.T, expect, got []string) {
	t.Helper()
	if !reflect.DeepEqual(expect, got) {
		t.Fatalf("expected:\n%s\ngot:\n%s", strings.Join(expect, "\n"), strings.Join(got, "\n"))
	}
}

func TestPushInt(t *testing.T) {
	cases := []struct {
		v      int32
		expect string
	}{
		{-1, "iconst_m1"},
		{0, "iconst_0"},
		{5, "iconst_5"},
		{6, "bipush 6"},
		{-2, "bipush -2"},
		{127, "bipush 127"},
		{-128, "bipush -128"},
		{128, "sipush 128"},
		{-129, "sipush -129"},
		{32767, "sipush 32767"},
		{-32768, "sipush -32768"},
		{32768, "ldc 32768"},
		{-32769, "ldc -32769"},
	}

	for id, tc := range cases {
		t.Run(fmt.Sprintf("case-%d", id), func(t *testing.T) {
			if got := pushInt(tc.v); got != tc.expect {
				t.Fatalf("expected %s, got %s", tc.expect, got)
			}
		})
	}
}

func TestIsPowerOfTwo(t *testing.T) {
	cases := []struct {
		n  int32
		k  int
		ok bool
	}{
		{1, 0, true},
		{2, 1, true},
		{8, 3, true},
		{1 << 30, 30, true},
		{0, 0, false},
		{6, 0, false},
		{-4, 0, false},
		{-1 << 31, 0, false},
	}

	for id, tc := range cases {
		t.Run(fmt.Sprintf("case-%d", id), func(t *testing.T) {
			k, ok := isPowerOfTwo(tc.n)
			if ok != tc.ok || k != tc.k {
				t.Fatalf("expected (%d, %v), got (%d, %v)", tc.k, tc.ok, k, ok)
			}
		})
	}
}

func TestTranslate_TrivialMain(t *testing.T) {
	x := op("x", i32)
	m := mainMethod(assign(x, binary(ir.Add, lit(1), lit(2))), ret(nil))

	cases := []struct {
		opts   []Option
		expect []string
		stack  int
	}{
		{expect: []string{"iconst_3", "istore_1", "return"}, stack: 1},
		{
			opts:   []Option{WithOptimizations(Optimizations{})},
			expect: []string{"iconst_1", "iconst_2", "iadd", "istore_1", "return"},
			stack:  2,
		},
	}

	for id, tc := range cases {
		t.Run(fmt.Sprintf("case-%d", id), func(t *testing.T) {
			lines, report := translate(t, m, tc.opts...)
			expectLines(t, tc.expect, lines)
			// args and x
			if report.LimitLocals != 2 {
				t.Fatalf("expected 2 locals, got %d", report.LimitLocals)
			}
			if report.LimitStack != tc.stack {
				t.Fatalf("expected stack %d, got %d", tc.stack, report.LimitStack)
			}
		})
	}
}

func TestTranslate_Increment(t *testing.T) {
	x, tmp := op("x", i32), op("t", i32)

	cases := []struct {
		instrs []ir.Instruction
		opts   []Option
		expect []string
	}{
		{
			instrs: []ir.Instruction{assign(x, single(lit(0))), assign(x, binary(ir.Add, x, lit(5)))},
			expect: []string{"iconst_0", "istore_1", "iinc 1 5", "return"},
		},
		{
			instrs: []ir.Instruction{assign(x, single(lit(0))), assign(x, binary(ir.Add, lit(5), x))},
			expect: []string{"iconst_0", "istore_1", "iinc 1 5", "return"},
		},
		{
			instrs: []ir.Instruction{assign(x, single(lit(0))), assign(x, binary(ir.Sub, x, lit(3)))},
			expect: []string{"iconst_0", "istore_1", "iinc 1 -3", "return"},
		},
		{
			instrs: []ir.Instruction{assign(x, single(lit(0))), assign(x, binary(ir.Add, x, lit(200)))},
			expect: []string{"iconst_0", "istore_1", "iload_1", "sipush 200", "iadd", "istore_1", "return"},
		},
		{
			instrs: []ir.Instruction{
				assign(x, single(lit(0))),
				assign(tmp, binary(ir.Add, x, lit(1))),
				assign(x, single(tmp)),
			},
			expect: []string{"iconst_0", "istore_1", "iinc 1 1", "iload_1", "istore_2", "return"},
		},
		{
			instrs: []ir.Instruction{assign(x, single(lit(0))), assign(x, binary(ir.Add, x, lit(5)))},
			opts:   []Option{WithOptimizations(Optimizations{FoldConstants: true})},
			expect: []string{"iconst_0", "istore_1", "iload_1", "iconst_5", "iadd", "istore_1", "return"},
		},
	}

	for id, tc := range cases {
		t.Run(fmt.Sprintf("case-%d", id), func(t *testing.T) {
			lines, _ := translate(t, mainMethod(append(tc.instrs, ret(nil))...), tc.opts...)
			expectLines(t, tc.expect, lines)
		})
	}
}

func TestTranslate_StrengthReduction(t *testing.T) {
	x, y := op("x", i32), op("y", i32)

	cases := []struct {
		rhs    ir.Instruction
		opts   []Option
		expect []string
	}{
		{
			rhs:    binary(ir.Mul, x, lit(8)),
			expect: []string{"iload_1", "iconst_3", "ishl"},
		},
		{
			rhs:    binary(ir.Mul, lit(8), x),
			expect: []string{"iload_1", "iconst_3", "ishl"},
		},
		{
			rhs:    binary(ir.Mul, x, lit(1)),
			expect: []string{"iload_1"},
		},
		{
			// negative powers of two are not reduced
			rhs:    binary(ir.Mul, x, lit(-8)),
			expect: []string{"iload_1", "bipush -8", "imul"},
		},
		{
			rhs: binary(ir.Div, x, lit(4)),
			expect: []string{
				"iload_1", "dup", "bipush 31", "ishr", "bipush 30", "iushr", "iadd", "iconst_2", "ishr",
			},
		},
		{
			rhs:    binary(ir.Div, x, lit(-4)),
			expect: []string{"iload_1", "bipush -4", "idiv"},
		},
		{
			rhs:    binary(ir.Div, lit(4), x),
			expect: []string{"iconst_4", "iload_1", "idiv"},
		},
		{
			rhs:    binary(ir.Mul, x, lit(8)),
			opts:   []Option{WithOptimizations(Optimizations{FoldConstants: true, Increments: true})},
			expect: []string{"iload_1", "bipush 8", "imul"},
		},
	}

	for id, tc := range cases {
		t.Run(fmt.Sprintf("case-%d", id), func(t *testing.T) {
			m := instanceMethod("calc", i32, []*ir.Operand{x}, assign(y, tc.rhs), ret(y))
			lines, _ := translate(t, m, tc.opts...)
			expectLines(t, append(tc.expect, "istore_2", "iload_2", "ireturn"), lines)
		})
	}
}

// shiftDivide mirrors the emitted division sequence.
func shiftDivide(x int32, k int) int32 {
	bias := int32(uint32(x>>31) >> (32 - k))
	return (x + bias) >> k
}

func TestShiftDivisionMatchesIdiv(t *testing.T) {
	inputs := []int32{0, 1, -1, 7, -7, 8, -8, 9, -9, 1000, -1000, 1<<31 - 1, -1 << 31, -1<<31 + 1}
	for k := 1; k <= 30; k++ {
		for _, x := range inputs {
			if got, expect := shiftDivide(x, k), x/(int32(1)<<k); got != expect {
				t.Fatalf("%d / 2^%d: expected %d, got %d", x, k, expect, got)
			}
		}
	}
}

func TestTranslate_Comparison(t *testing.T) {
	x, y, b := op("x", i32), op("y", i32), op("b", bool_)

	cases := []struct {
		rhs    ir.Instruction
		expect []string
	}{
		{
			rhs: binary(ir.Lt, x, y),
			expect: []string{
				"iload_1", "iload_2", "if_icmplt CmpTrue_0", "iconst_0", "goto CmpEnd_0",
				"CmpTrue_0:", "iconst_1", "CmpEnd_0:",
			},
		},
		{
			rhs: binary(ir.Lt, x, lit(0)),
			expect: []string{
				"iload_1", "iflt CmpTrue_0", "iconst_0", "goto CmpEnd_0",
				"CmpTrue_0:", "iconst_1", "CmpEnd_0:",
			},
		},
		{
			rhs: binary(ir.Lt, lit(0), x),
			expect: []string{
				"iload_1", "ifgt CmpTrue_0", "iconst_0", "goto CmpEnd_0",
				"CmpTrue_0:", "iconst_1", "CmpEnd_0:",
			},
		},
		{
			rhs:    binary(ir.Ge, lit(3), lit(4)),
			expect: []string{"iconst_0"},
		},
		{
			rhs:    &ir.UnaryOpInstr{Op: ir.NotB, Operand: op("f", bool_)},
			expect: []string{"iload_3", "iconst_1", "ixor"},
		},
	}

	params := []*ir.Operand{x, y, op("f", bool_)}
	for id, tc := range cases {
		t.Run(fmt.Sprintf("case-%d", id), func(t *testing.T) {
			m := instanceMethod("less", bool_, params, assign(b, tc.rhs), ret(b))
			lines, _ := translate(t, m)
			expectLines(t, append(tc.expect, "istore 4", "iload 4", "ireturn"), lines)
		})
	}
}

func TestTranslate_LabelsAfterParsedIDs(t *testing.T) {
	x, b := op("x", i32), op("b", bool_)
	m := instanceMethod("less", bool_, []*ir.Operand{x})
	m.Body = []ir.Statement{
		{Instr: &ir.GotoInstr{Label: "Then_3"}},
		{Labels: []string{"Then_3"}, Instr: assign(b, binary(ir.Lt, x, lit(0)))},
		{Instr: ret(b)},
	}

	lines, _ := translate(t, m)
	expectLines(t, []string{
		"goto Then_3",
		"Then_3:", "iload_1", "iflt CmpTrue_4", "iconst_0", "goto CmpEnd_4",
		"CmpTrue_4:", "iconst_1", "CmpEnd_4:", "istore_2",
		"iload_2", "ireturn",
	}, lines)
}

func TestTranslate_AndShape(t *testing.T) {
	a, c, b := op("a", bool_), op("c", bool_), op("b", bool_)
	m := instanceMethod("both", bool_, []*ir.Operand{a, c}, assign(b, binary(ir.AndB, a, c)), ret(b))

	lines, report := translate(t, m)
	expectLines(t, []string{
		"iload_1", "ifeq AndFalse_0",
		"iload_2", "ifeq AndFalse_0",
		"iconst_1", "goto AndEnd_0",
		"AndFalse_0:", "iconst_0",
		"AndEnd_0:", "istore_3",
		"iload_3", "ireturn",
	}, lines)

	branches, joins := 0, 0
	for _, l := range lines {
		if strings.HasPrefix(l, "ifeq ") {
			branches++
		}
		if l == "AndEnd_0:" {
			joins++
		}
	}
	if branches != 2 || joins != 1 {
		t.Fatalf("expected 2 branches and 1 join, got %d and %d", branches, joins)
	}
	if report.LimitStack != 1 {
		t.Fatalf("expected stack 1, got %d", report.LimitStack)
	}
}

func TestTranslate_ShortCircuitLiterals(t *testing.T) {
	a, b := op("a", bool_), op("b", bool_)

	cases := []struct {
		rhs    ir.Instruction
		expect string
	}{
		{binary(ir.AndB, a, ir.BoolLiteral(true)), "iload_1"},
		{binary(ir.AndB, ir.BoolLiteral(false), a), "iconst_0"},
		{binary(ir.OrB, a, ir.BoolLiteral(true)), "iconst_1"},
		{binary(ir.OrB, ir.BoolLiteral(false), a), "iload_1"},
	}

	for id, tc := range cases {
		t.Run(fmt.Sprintf("case-%d", id), func(t *testing.T) {
			m := instanceMethod("f", bool_, []*ir.Operand{a}, assign(b, tc.rhs), ret(b))
			lines, _ := translate(t, m)
			expectLines(t, []string{tc.expect, "istore_2", "iload_2", "ireturn"}, lines)
		})
	}
}

func TestTranslate_Or(t *testing.T) {
	a, c, b := op("a", bool_), op("c", bool_), op("b", bool_)
	m := instanceMethod("either", bool_, []*ir.Operand{a, c}, assign(b, binary(ir.OrB, a, c)), ret(b))

	lines, _ := translate(t, m)
	expectLines(t, []string{
		"iload_1", "ifne OrTrue_0",
		"iload_2", "ifne OrTrue_0",
		"iconst_0", "goto OrEnd_0",
		"OrTrue_0:", "iconst_1",
		"OrEnd_0:", "istore_3",
		"iload_3", "ireturn",
	}, lines)
}

func TestTranslate_CondBranch(t *testing.T) {
	x, y, f := op("x", i32), op("y", i32), op("f", bool_)
	params := []*ir.Operand{x, y, f}

	cases := []struct {
		cond   ir.Instruction
		expect []string
	}{
		{cond: binary(ir.Lt, x, y), expect: []string{"iload_1", "iload_2", "if_icmplt L"}},
		{cond: binary(ir.Neq, x, lit(0)), expect: []string{"iload_1", "ifne L"}},
		{cond: single(f), expect: []string{"iload_3", "ifne L"}},
		{cond: &ir.UnaryOpInstr{Op: ir.NotB, Operand: f}, expect: []string{"iload_3", "ifeq L"}},
		{cond: single(ir.BoolLiteral(true)), expect: []string{"goto L"}},
		{cond: binary(ir.Gt, lit(1), lit(2)), expect: nil},
	}

	for id, tc := range cases {
		t.Run(fmt.Sprintf("case-%d", id), func(t *testing.T) {
			m := instanceMethod("branch", bool_, params)
			m.Body = []ir.Statement{
				{Instr: &ir.CondBranchInstr{Cond: tc.cond, Label: "L"}},
				{Instr: ret(ir.BoolLiteral(false))},
				{Labels: []string{"L"}, Instr: ret(ir.BoolLiteral(true))},
			}

			lines, _ := translate(t, m)
			expect := append(append([]string{}, tc.expect...), "iconst_0", "ireturn", "L:", "iconst_1", "ireturn")
			expectLines(t, expect, lines)
		})
	}
}

func TestTranslate_Calls(t *testing.T) {
	io := op("io", ir.ClassOf("io"))

	cases := []struct {
		method *ir.Method
		expect []string
	}{
		{
			method: mainMethod(
				&ir.CallInstr{Invocation: ir.InvokeStatic, Caller: io, Method: "println", Args: []ir.Element{lit(1)}, Return: ir.VoidType},
				ret(nil),
			),
			expect: []string{"iconst_1", "invokestatic io/println(I)V", "return"},
		},
		{
			method: instanceMethod("run", i32, nil,
				&ir.CallInstr{Invocation: ir.InvokeVirtual, Caller: this(), Method: "foo", Args: []ir.Element{lit(1), ir.BoolLiteral(true)}, Return: i32},
				ret(lit(0)),
			),
			expect: []string{"aload_0", "iconst_1", "iconst_1", "invokevirtual Simple/foo(IZ)I", "pop", "iconst_0", "ireturn"},
		},
		{
			method: mainMethod(
				assign(op("temp_0", ir.ObjectOf("Simple")), &ir.CallInstr{
					Invocation: ir.New, Caller: op("Simple", ir.ClassOf("Simple")), Return: ir.ObjectOf("Simple"),
				}),
				&ir.CallInstr{Invocation: ir.InvokeSpecial, Caller: op("temp_0", ir.ObjectOf("Simple")), Method: "<init>", Return: ir.VoidType},
				ret(nil),
			),
			expect: []string{"new Simple", "dup", "invokespecial Simple/<init>()V", "astore_1", "return"},
		},
		{
			method: mainMethod(
				assign(op("a", ir.ArrayOf(i32)), &ir.CallInstr{Invocation: ir.New, Args: []ir.Element{lit(3)}, Return: ir.ArrayOf(i32)}),
				assign(&ir.ArrayOperand{Name: "a", Index: lit(0), T: i32}, single(lit(5))),
				assign(op("x", i32), single(&ir.ArrayOperand{Name: "a", Index: lit(1), T: i32})),
				assign(op("n", i32), &ir.CallInstr{Invocation: ir.ArrayLength, Caller: op("a", ir.ArrayOf(i32)), Return: i32}),
				ret(nil),
			),
			expect: []string{
				"iconst_3", "newarray int", "astore_1",
				"aload_1", "iconst_0", "iconst_5", "iastore",
				"aload_1", "iconst_1", "iaload", "istore_2",
				"aload_1", "arraylength", "istore_3",
				"return",
			},
		},
		{
			method: instanceMethod("set", ir.VoidType, nil,
				&ir.PutFieldInstr{Object: this(), Field: op("count", i32), Value: lit(1)},
				assign(op("t", i32), &ir.GetFieldInstr{Object: this(), Field: op("count", i32)}),
				assign(op("t", i32), binary(ir.Add, op("t", i32), lit(1))),
				&ir.PutFieldInstr{Object: this(), Field: op("count", i32), Value: op("t", i32)},
				ret(nil),
			),
			expect: []string{
				"aload_0", "iconst_1", "putfield Simple/count I",
				"aload_0", "getfield Simple/count I", "istore_1",
				"iinc 1 1",
				"aload_0", "iload_1", "putfield Simple/count I",
				"return",
			},
		},
		{
			// a local named like the field count
			method: instanceMethod("shadow", i32, nil,
				assign(op("count", i32), single(lit(7))),
				ret(op("count", i32)),
			),
			expect: []string{"bipush 7", "istore_1", "iload_1", "ireturn"},
		},
		{
			method: &ir.Method{
				Name:   "main",
				Access: ir.Public,
				Static: true,
				Params: []*ir.Operand{op("args", ir.ArrayOf(ir.StringType))},
				Locals: []*ir.Operand{op("a", i32), op("b", i32), op("count", i32)},
				Return: ir.VoidType,
				Body: statements(
					assign(op("b", i32), single(lit(1))),
					assign(op("count", i32), single(lit(2))),
					ret(nil),
				),
			},
			expect: []string{"iconst_1", "istore_2", "iconst_2", "istore_3", "return"},
		},
	}

	for id, tc := range cases {
		t.Run(fmt.Sprintf("case-%d", id), func(t *testing.T) {
			lines, _ := translate(t, tc.method)
			expectLines(t, tc.expect, lines)
		})
	}
}

func TestTranslate_Class(t *testing.T) {
	class := testClass(mainMethod(ret(nil)))
	class.Super = "Base"
	class.Imports = []string{"pkg.Base"}

	out, err := Translate(class)
	if err != nil {
		t.Fatal(err)
	}

	expect := `.class public Simple
.super pkg/Base

.field private count I

.method public <init>()V
	aload_0
	invokespecial pkg/Base/<init>()V
	return
.end method

.method public static main([Ljava/lang/String;)V
	.limit stack 0
	.limit locals 1
	return
.end method
`
	if out != expect {
		t.Fatalf("expected:\n%s\ngot:\n%s", expect, out)
	}
}

func TestTranslate_Unsupported(t *testing.T) {
	cases := []*ir.Method{
		mainMethod(assign(op("x", i32), single(op("y", i32))), ret(nil)),
		mainMethod(&ir.PutFieldInstr{Object: this(), Field: op("count", i32), Value: lit(1)}, ret(nil)),
		mainMethod(assign(op("x", i32), &ir.CallInstr{
			Invocation: ir.InvokeStatic, Caller: op("io", ir.ClassOf("io")), Method: "f", Return: ir.VoidType,
		}), ret(nil)),
		instanceMethod("f", i32, nil, assign(op("x", i32), single(lit(1)))),
	}

	for id, m := range cases {
		t.Run(fmt.Sprintf("case-%d", id), func(t *testing.T) {
			out, err := Translate(testClass(m))
			if !errors.Is(err, ErrUnsupported) {
				t.Fatalf("expected ErrUnsupported, got %v", err)
			}
			if out != "" {
				t.Fatalf("expected no output, got\n%s", out)
			}
		})
	}
}
