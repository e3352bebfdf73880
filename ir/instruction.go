package ir

import (
	"fmt"
	"github.com/c0depwn/jmmc/pkg/slices"
	"strings"
)

// Instruction is a single three-address instruction. The set of
// instructions is closed, consumers dispatch with a type switch over:
//
//	*AssignInstr, *BinaryOpInstr, *UnaryOpInstr, *SingleOpInstr,
//	*CallInstr, *GetFieldInstr, *PutFieldInstr, *ReturnInstr,
//	*GotoInstr, *CondBranchInstr
type Instruction interface {
	String() string

	// prevent external implementations
	anInstruction()
}

type instruction struct{}

func (instruction) anInstruction() {}

// Operation is the operator of a BinaryOpInstr or UnaryOpInstr.
type Operation string

const (
	Add  Operation = "+"
	Sub  Operation = "-"
	Mul  Operation = "*"
	Div  Operation = "/"
	Lt   Operation = "<"
	Gt   Operation = ">"
	Le   Operation = "<="
	Ge   Operation = ">="
	Eq   Operation = "=="
	Neq  Operation = "!="
	AndB Operation = "&&"
	OrB  Operation = "||"
	NotB Operation = "!"
)

// IsComparison reports whether op compares two integers.
func (op Operation) IsComparison() bool {
	switch op {
	case Lt, Gt, Le, Ge, Eq, Neq:
		return true
	}
	return false
}

// IsArithmetic reports whether op is an integer arithmetic operator.
func (op Operation) IsArithmetic() bool {
	switch op {
	case Add, Sub, Mul, Div:
		return true
	}
	return false
}

// ResultType returns the type produced by op.
func (op Operation) ResultType() Type {
	if op.IsArithmetic() {
		return Int32Type
	}
	return BooleanType
}

// AssignInstr stores the value produced by RHS into Dest.
type AssignInstr struct {
	instruction
	Dest Element
	T    Type
	RHS  Instruction
}

func (a *AssignInstr) String() string {
	return fmt.Sprintf("%s :=%s %s", a.Dest, a.T.Suffix(), a.RHS)
}

type BinaryOpInstr struct {
	instruction
	Op          Operation
	Left, Right Element
}

func (b *BinaryOpInstr) String() string {
	return fmt.Sprintf("%s %s%s %s", b.Left, b.Op, b.Op.ResultType().Suffix(), b.Right)
}

type UnaryOpInstr struct {
	instruction
	Op      Operation
	Operand Element
}

func (u *UnaryOpInstr) String() string {
	return fmt.Sprintf("%s%s %s", u.Op, u.Op.ResultType().Suffix(), u.Operand)
}

// SingleOpInstr yields its operand unchanged.
type SingleOpInstr struct {
	instruction
	Operand Element
}

func (s *SingleOpInstr) String() string { return s.Operand.String() }

// InvocationKind selects the call form of a CallInstr.
type InvocationKind int

const (
	InvokeStatic InvocationKind = iota
	InvokeVirtual
	InvokeSpecial
	New
	Ldc
	ArrayLength
)

func (k InvocationKind) String() string {
	switch k {
	case InvokeStatic:
		return "invokestatic"
	case InvokeVirtual:
		return "invokevirtual"
	case InvokeSpecial:
		return "invokespecial"
	case New:
		return "new"
	case Ldc:
		return "ldc"
	case ArrayLength:
		return "arraylength"
	default:
		panic(fmt.Errorf("unknown invocation kind %d", int(k)))
	}
}

// CallInstr covers method invocations and the object creating
// instructions. Depending on Invocation:
//
//	InvokeStatic   Caller is the class, Method is set
//	InvokeVirtual  Caller is the receiver, Method is set
//	InvokeSpecial  Caller is the receiver, Method is "<init>"
//	New            Caller is the class, or nil for arrays with Args[0] the size
//	Ldc            Args[0] is the constant
//	ArrayLength    Caller is the array
type CallInstr struct {
	instruction
	Invocation InvocationKind
	Caller     Element
	Method     string
	Args       []Element
	Return     Type
}

func (c *CallInstr) String() string {
	var parts []string
	switch c.Invocation {
	case New:
		if c.Caller == nil {
			parts = append(parts, "array")
		} else {
			parts = append(parts, c.Caller.String())
		}
	case Ldc:
	default:
		parts = append(parts, c.Caller.String())
	}
	if c.Method != "" {
		parts = append(parts, fmt.Sprintf("%q", c.Method))
	}
	parts = append(parts, slices.Map(c.Args, func(e Element) string { return e.String() })...)

	return fmt.Sprintf("%s(%s)%s", c.Invocation, strings.Join(parts, ", "), c.Return.Suffix())
}

type GetFieldInstr struct {
	instruction
	Object Element
	Field  *Operand
}

func (g *GetFieldInstr) String() string {
	return fmt.Sprintf("getfield(%s, %s)%s", g.Object, g.Field, g.Field.T.Suffix())
}

type PutFieldInstr struct {
	instruction
	Object Element
	Field  *Operand
	Value  Element
}

func (p *PutFieldInstr) String() string {
	return fmt.Sprintf("putfield(%s, %s, %s).V", p.Object, p.Field, p.Value)
}

// ReturnInstr returns Operand, which is nil for void methods.
type ReturnInstr struct {
	instruction
	Operand Element
	T       Type
}

func (r *ReturnInstr) String() string {
	if r.Operand == nil {
		return "ret.V"
	}
	return fmt.Sprintf("ret%s %s", r.T.Suffix(), r.Operand)
}

type GotoInstr struct {
	instruction
	Label string
}

func (g *GotoInstr) String() string { return "goto " + g.Label }

// CondBranchInstr jumps to Label when Cond, a *BinaryOpInstr,
// *UnaryOpInstr or *SingleOpInstr, evaluates to true.
type CondBranchInstr struct {
	instruction
	Cond  Instruction
	Label string
}

func (c *CondBranchInstr) String() string {
	return fmt.Sprintf("if (%s) goto %s", c.Cond, c.Label)
}
