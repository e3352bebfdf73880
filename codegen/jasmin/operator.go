package jasmin

import (
	"fmt"
	"github.com/c0depwn/jmmc/constant"
	"github.com/c0depwn/jmmc/ir"
)

func (m *methodTranslator) binary(b *ir.BinaryOpInstr) {
	if m.opts.FoldConstants {
		if v, ok := fold(b); ok {
			m.pushConstant(v)
			return
		}
	}

	switch {
	case b.Op.IsArithmetic():
		m.arithmetic(b)
	case b.Op.IsComparison():
		m.compare(b)
	case b.Op == ir.AndB:
		m.and(b)
	case b.Op == ir.OrB:
		m.or(b)
	default:
		panic(fmt.Errorf("%w: binary operator '%s'", ErrUnsupported, b.Op))
	}
}

func (m *methodTranslator) unary(u *ir.UnaryOpInstr) {
	if u.Op != ir.NotB {
		panic(fmt.Errorf("%w: unary operator '%s'", ErrUnsupported, u.Op))
	}
	if lit, ok := ir.IsLiteral(u.Operand); ok && m.opts.FoldConstants {
		if v, ok := constant.FoldUnary(string(u.Op), lit.Value); ok {
			m.pushConstant(v)
			return
		}
	}

	m.load(u.Operand)
	m.op(0, 1, "iconst_1")
	m.op(2, 1, "ixor")
}

func (m *methodTranslator) pushConstant(v constant.Value) {
	i, err := constant.AsInt(v)
	if err != nil {
		panic(fmt.Errorf("%w: constant %s: %v", ErrUnsupported, v, err))
	}
	m.op(0, 1, pushInt(i))
}

func (m *methodTranslator) arithmetic(b *ir.BinaryOpInstr) {
	if m.opts.StrengthReduction {
		switch b.Op {
		case ir.Mul:
			if k, ok := powerOfTwo(b.Right); ok {
				m.shiftLeft(b.Left, k)
				return
			}
			if k, ok := powerOfTwo(b.Left); ok {
				m.shiftLeft(b.Right, k)
				return
			}
		case ir.Div:
			if k, ok := powerOfTwo(b.Right); ok {
				m.divide(b.Left, k)
				return
			}
		}
	}

	m.load(b.Left)
	m.load(b.Right)
	m.op(2, 1, arithmetic(b.Op))
}

// shiftLeft computes x * 2^k.
func (m *methodTranslator) shiftLeft(x ir.Element, k int) {
	m.load(x)
	if k == 0 {
		return
	}
	m.op(0, 1, pushInt(int32(k)))
	m.op(2, 1, "ishl")
}

// divide computes x / 2^k rounding toward zero like idiv. A negative x is
// biased by 2^k - 1 before the arithmetic shift:
//
//	x + ((x >> 31) >>> (32 - k)) >> k
func (m *methodTranslator) divide(x ir.Element, k int) {
	m.load(x)
	if k == 0 {
		return
	}
	m.op(1, 2, "dup")
	m.op(0, 1, pushInt(31))
	m.op(2, 1, "ishr")
	m.op(0, 1, pushInt(int32(32-k)))
	m.op(2, 1, "iushr")
	m.op(2, 1, "iadd")
	m.op(0, 1, pushInt(int32(k)))
	m.op(2, 1, "ishr")
}

// compare materializes a comparison as 0 or 1:
//
//	if_icmp<cond> CmpTrue_N
//	iconst_0
//	goto CmpEnd_N
//	CmpTrue_N:
//	iconst_1
//	CmpEnd_N:
func (m *methodTranslator) compare(b *ir.BinaryOpInstr) {
	labels := m.labels.Next("CmpTrue", "CmpEnd")
	trueLabel, endLabel := labels[0], labels[1]

	m.jumpIf(b.Op, b.Left, b.Right, trueLabel)
	m.op(0, 1, "iconst_0")
	m.op(0, 0, "goto %s", endLabel)
	// the true block is entered without the 0
	m.stack.pop(1)
	m.label(trueLabel)
	m.op(0, 1, "iconst_1")
	m.label(endLabel)
}

// jumpIf pushes the operands of a comparison and jumps to target if it
// holds. A literal 0 operand uses the single operand if<cond> form.
func (m *methodTranslator) jumpIf(op ir.Operation, left, right ir.Element, target string) {
	switch {
	case isZero(right) && !left.Type().IsReference():
		m.load(left)
		m.op(1, 0, "if%s %s", condition(op), target)
	case isZero(left) && !right.Type().IsReference():
		m.load(right)
		m.op(1, 0, "if%s %s", condition(mirror(op)), target)
	case left.Type().IsReference():
		if op != ir.Eq && op != ir.Neq {
			panic(fmt.Errorf("%w: '%s' on references", ErrUnsupported, op))
		}
		m.load(left)
		m.load(right)
		m.op(2, 0, "if_acmp%s %s", condition(op), target)
	default:
		m.load(left)
		m.load(right)
		m.op(2, 0, "if_icmp%s %s", condition(op), target)
	}
}

// and evaluates a && b:
//
//	ifeq AndFalse_N (a)
//	ifeq AndFalse_N (b)
//	iconst_1
//	goto AndEnd_N
//	AndFalse_N:
//	iconst_0
//	AndEnd_N:
func (m *methodTranslator) and(b *ir.BinaryOpInstr) {
	if m.opts.FoldConstants && m.shortCircuit(b.Left, b.Right, false) {
		return
	}

	labels := m.labels.Next("AndFalse", "AndEnd")
	falseLabel, endLabel := labels[0], labels[1]

	m.load(b.Left)
	m.op(1, 0, "ifeq %s", falseLabel)
	m.load(b.Right)
	m.op(1, 0, "ifeq %s", falseLabel)
	m.op(0, 1, "iconst_1")
	m.op(0, 0, "goto %s", endLabel)
	m.stack.pop(1)
	m.label(falseLabel)
	m.op(0, 1, "iconst_0")
	m.label(endLabel)
}

func (m *methodTranslator) or(b *ir.BinaryOpInstr) {
	if m.opts.FoldConstants && m.shortCircuit(b.Left, b.Right, true) {
		return
	}

	labels := m.labels.Next("OrTrue", "OrEnd")
	trueLabel, endLabel := labels[0], labels[1]

	m.load(b.Left)
	m.op(1, 0, "ifne %s", trueLabel)
	m.load(b.Right)
	m.op(1, 0, "ifne %s", trueLabel)
	m.op(0, 1, "iconst_0")
	m.op(0, 0, "goto %s", endLabel)
	m.stack.pop(1)
	m.label(trueLabel)
	m.op(0, 1, "iconst_1")
	m.label(endLabel)
}

// shortCircuit handles a literal operand of && (dominant false) and
// || (dominant true). The other operand is a plain value, dropping it
// has no effect.
func (m *methodTranslator) shortCircuit(left, right ir.Element, dominant bool) bool {
	for _, pair := range [][2]ir.Element{{left, right}, {right, left}} {
		lit, ok := ir.IsLiteral(pair[0])
		if !ok {
			continue
		}
		v, err := constant.AsBool(lit.Value)
		if err != nil {
			continue
		}
		if v == dominant {
			m.pushConstant(constant.MakeBool(dominant))
		} else {
			m.load(pair[1])
		}
		return true
	}
	return false
}

// condBranch jumps to the label of c when its condition holds, comparisons
// jump directly without materializing a boolean.
func (m *methodTranslator) condBranch(c *ir.CondBranchInstr) {
	switch cond := c.Cond.(type) {
	case *ir.BinaryOpInstr:
		if m.opts.FoldConstants {
			if v, ok := fold(cond); ok {
				m.jumpIfConstant(v, c.Label)
				return
			}
		}
		if cond.Op.IsComparison() {
			m.jumpIf(cond.Op, cond.Left, cond.Right, c.Label)
			return
		}
		m.binary(cond)
		m.op(1, 0, "ifne %s", c.Label)

	case *ir.UnaryOpInstr:
		if cond.Op != ir.NotB {
			panic(fmt.Errorf("%w: unary operator '%s'", ErrUnsupported, cond.Op))
		}
		if lit, ok := ir.IsLiteral(cond.Operand); ok && m.opts.FoldConstants {
			if v, ok := constant.FoldUnary(string(cond.Op), lit.Value); ok {
				m.jumpIfConstant(v, c.Label)
				return
			}
		}
		m.load(cond.Operand)
		m.op(1, 0, "ifeq %s", c.Label)

	case *ir.SingleOpInstr:
		if lit, ok := ir.IsLiteral(cond.Operand); ok && m.opts.FoldConstants {
			m.jumpIfConstant(lit.Value, c.Label)
			return
		}
		m.load(cond.Operand)
		m.op(1, 0, "ifne %s", c.Label)

	default:
		panic(fmt.Errorf("%w: branch condition %T", ErrUnsupported, c.Cond))
	}
}

func (m *methodTranslator) jumpIfConstant(v constant.Value, label string) {
	holds, err := constant.AsInt(v)
	if err != nil {
		panic(fmt.Errorf("%w: branch on %s: %v", ErrUnsupported, v, err))
	}
	if holds != 0 {
		m.op(0, 0, "goto %s", label)
	}
}

// increment emits iinc for x := x + c and x := x - c.
func (m *methodTranslator) increment(dest variable, a *ir.AssignInstr) bool {
	x, c, ok := m.incrementOf(a.RHS)
	if !ok || x.slot != dest.slot {
		return false
	}
	m.op(0, 0, "iinc %d %d", x.slot, c)
	return true
}

// incrementAndCopy fuses t := x + c followed by y := t, where y and x
// share a slot, into iinc and a copy of x into t.
func (m *methodTranslator) incrementAndCopy(t variable, a *ir.AssignInstr, next *ir.Statement) bool {
	if next == nil || len(next.Labels) > 0 {
		return false
	}
	x, c, ok := m.incrementOf(a.RHS)
	if !ok || x.slot == t.slot || t.t.Kind != ir.Int32 {
		return false
	}

	copyInstr, ok := next.Instr.(*ir.AssignInstr)
	if !ok {
		return false
	}
	dest, ok := copyInstr.Dest.(*ir.Operand)
	if !ok {
		return false
	}
	y, ok := m.frame.lookup(dest.Name)
	if !ok || y.slot != x.slot {
		return false
	}
	src, ok := copyInstr.RHS.(*ir.SingleOpInstr)
	if !ok {
		return false
	}
	if op, ok := src.Operand.(*ir.Operand); !ok || op.Name != a.Dest.(*ir.Operand).Name {
		return false
	}

	m.op(0, 0, "iinc %d %d", x.slot, c)
	m.op(0, 1, load(x))
	m.op(1, 0, store(t))
	return true
}

// incrementOf matches x + c, c + x and x - c with x an integer variable
// and c fitting iinc.
func (m *methodTranslator) incrementOf(rhs ir.Instruction) (variable, int32, bool) {
	b, ok := rhs.(*ir.BinaryOpInstr)
	if !ok || (b.Op != ir.Add && b.Op != ir.Sub) {
		return variable{}, 0, false
	}

	candidates := [][2]ir.Element{{b.Left, b.Right}}
	if b.Op == ir.Add {
		candidates = append(candidates, [2]ir.Element{b.Right, b.Left})
	}

	for _, pair := range candidates {
		op, ok := pair[0].(*ir.Operand)
		if !ok {
			continue
		}
		x, ok := m.frame.lookup(op.Name)
		if !ok || x.t.Kind != ir.Int32 {
			continue
		}
		lit, ok := ir.IsLiteral(pair[1])
		if !ok || lit.T.Kind != ir.Int32 {
			continue
		}
		c, err := constant.AsInt(lit.Value)
		if err != nil {
			continue
		}
		delta := int64(c)
		if b.Op == ir.Sub {
			delta = -delta
		}
		if delta < -128 || delta > 127 {
			continue
		}
		return x, int32(delta), true
	}
	return variable{}, 0, false
}

// fold evaluates an operator applied to two literals.
func fold(b *ir.BinaryOpInstr) (constant.Value, bool) {
	l, ok := ir.IsLiteral(b.Left)
	if !ok {
		return nil, false
	}
	r, ok := ir.IsLiteral(b.Right)
	if !ok {
		return nil, false
	}
	return constant.Fold(string(b.Op), l.Value, r.Value)
}

// powerOfTwo returns k for an integer literal 2^k.
func powerOfTwo(e ir.Element) (int, bool) {
	lit, ok := ir.IsLiteral(e)
	if !ok || lit.T.Kind != ir.Int32 {
		return 0, false
	}
	v, err := constant.AsInt(lit.Value)
	if err != nil {
		return 0, false
	}
	return isPowerOfTwo(v)
}

func isZero(e ir.Element) bool {
	lit, ok := ir.IsLiteral(e)
	if !ok || lit.T.Kind == ir.String {
		return false
	}
	v, err := constant.AsInt(lit.Value)
	return err == nil && v == 0
}
