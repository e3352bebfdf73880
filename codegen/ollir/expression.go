package ollir

import (
	"fmt"
	"github.com/c0depwn/jmmc/ast"
	"github.com/c0depwn/jmmc/ir"
	"github.com/c0depwn/jmmc/symbols"
)

// context is passed down while lowering an expression.
type context struct {
	// expected is the type the consumer of the value wants. Calls whose
	// type is inferred take it as their return type.
	expected ir.Type
	// branch is set while lowering the condition of a conditional jump.
	branch bool
}

// value lowers e into prefix code and the element holding its result.
// Anything other than a literal, this or a variable is stored in a
// fresh temporary.
func (g *Generator) value(e ast.Expression, ctx context) ([]ir.Instruction, ir.Element) {
	switch x := e.(type) {
	case *ast.IntegerLiteral:
		return nil, ir.IntLiteral(x.Value)
	case *ast.BooleanLiteral:
		return nil, ir.BoolLiteral(x.Value)
	case *ast.ThisExpression:
		return nil, g.env.this()
	case *ast.Identifier:
		if op, ok := g.env.variable(x.Name); ok {
			return nil, op
		}
	}

	// a value is needed, inferred calls without an expectation yield int
	if ctx.expected.Kind == ir.Void {
		ctx.expected = ir.Int32Type
	}
	ctx.branch = false

	prefix, instr := g.instruction(e, ctx)
	if single, ok := instr.(*ir.SingleOpInstr); ok {
		if _, element := single.Operand.(*ir.ArrayOperand); !element {
			return prefix, single.Operand
		}
	}

	t := typeOf(instr)
	tmp := g.env.temp(t)
	prefix = append(prefix, &ir.AssignInstr{Dest: tmp, T: t, RHS: instr})
	return prefix, tmp
}

// instruction lowers e into prefix code and a single instruction
// producing its value, ready to be the right side of an assignment. In a
// branch context only operators and plain operands are returned, other
// values are stored in a temporary first.
func (g *Generator) instruction(e ast.Expression, ctx context) ([]ir.Instruction, ir.Instruction) {
	prefix, instr := g.lower(e, ctx)
	if !ctx.branch {
		return prefix, instr
	}

	switch instr.(type) {
	case *ir.BinaryOpInstr, *ir.UnaryOpInstr, *ir.SingleOpInstr:
		return prefix, instr
	default:
		t := typeOf(instr)
		tmp := g.env.temp(t)
		prefix = append(prefix, &ir.AssignInstr{Dest: tmp, T: t, RHS: instr})
		return prefix, &ir.SingleOpInstr{Operand: tmp}
	}
}

func (g *Generator) lower(e ast.Expression, ctx context) ([]ir.Instruction, ir.Instruction) {
	switch x := e.(type) {
	case *ast.IntegerLiteral, *ast.BooleanLiteral, *ast.ThisExpression:
		prefix, v := g.value(x, ctx)
		return prefix, &ir.SingleOpInstr{Operand: v}
	case *ast.Identifier:
		return g.identifier(x)
	case *ast.BinaryExpression:
		return g.binary(x)
	case *ast.UnaryExpression:
		return g.unary(x)
	case *ast.NewArrayExpression:
		return g.newArray(x)
	case *ast.IndexExpression:
		return g.index(x)
	case *ast.LengthExpression:
		prefix, array := g.value(x.Array, context{expected: ir.FromSource(x.Array.Type())})
		return prefix, &ir.CallInstr{Invocation: ir.ArrayLength, Caller: array, Return: ir.Int32Type}
	case *ast.NewObjectExpression:
		return g.newObject(x)
	case *ast.CallExpression:
		return g.call(x, ctx)
	default:
		panic(fmt.Errorf("%w: expression %T", ErrUnsupported, e))
	}
}

func (g *Generator) identifier(id *ast.Identifier) ([]ir.Instruction, ir.Instruction) {
	symbol, scope, ok := g.env.lookup(id.Name)
	if !ok {
		panic(fmt.Errorf("%w: undeclared identifier %s in %s", ErrUnsupported, id.Name, g.env.method))
	}

	t := ir.FromSource(symbol.Type)
	if scope != symbols.Field {
		return nil, &ir.SingleOpInstr{Operand: ir.NewOperand(id.Name, t)}
	}

	g.env.mustBeInstance(id.Name)
	return nil, &ir.GetFieldInstr{Object: g.env.this(), Field: ir.NewOperand(id.Name, t)}
}

func (g *Generator) binary(b *ast.BinaryExpression) ([]ir.Instruction, ir.Instruction) {
	op := ir.Operation(b.Operator)

	var operands ir.Type
	switch {
	case op.IsArithmetic(), op == ir.Lt, op == ir.Gt, op == ir.Le, op == ir.Ge:
		operands = ir.Int32Type
	case op == ir.AndB, op == ir.OrB:
		operands = ir.BooleanType
	case op == ir.Eq, op == ir.Neq:
		operands = ir.FromSource(sourceType(b.Left))
	default:
		panic(fmt.Errorf("%w: binary operator '%s'", ErrUnsupported, b.Operator))
	}

	leftPrefix, left := g.value(b.Left, context{expected: operands})
	rightPrefix, right := g.value(b.Right, context{expected: operands})

	return append(leftPrefix, rightPrefix...), &ir.BinaryOpInstr{Op: op, Left: left, Right: right}
}

func (g *Generator) unary(u *ast.UnaryExpression) ([]ir.Instruction, ir.Instruction) {
	if ir.Operation(u.Operator) != ir.NotB {
		panic(fmt.Errorf("%w: unary operator '%s'", ErrUnsupported, u.Operator))
	}
	prefix, operand := g.value(u.Operand, context{expected: ir.BooleanType})
	return prefix, &ir.UnaryOpInstr{Op: ir.NotB, Operand: operand}
}

// newArray lowers new int[n] into the size held by a variable or
// temporary and the allocation itself.
func (g *Generator) newArray(n *ast.NewArrayExpression) ([]ir.Instruction, ir.Instruction) {
	t := ir.FromSource(n.T)
	if t.Kind != ir.ArrayRef {
		t = ir.ArrayOf(ir.Int32Type)
	}

	prefix, size := g.value(n.Size, context{expected: ir.Int32Type})
	if _, ok := ir.IsLiteral(size); ok {
		tmp := g.env.temp(ir.Int32Type)
		prefix = append(prefix, &ir.AssignInstr{Dest: tmp, T: ir.Int32Type, RHS: &ir.SingleOpInstr{Operand: size}})
		size = tmp
	}

	return prefix, &ir.CallInstr{Invocation: ir.New, Args: []ir.Element{size}, Return: t}
}

func (g *Generator) index(i *ast.IndexExpression) ([]ir.Instruction, ir.Instruction) {
	array, ok := g.arrayOperand(i.Array)
	if !ok {
		panic(fmt.Errorf("%w: indexing %s", ErrUnsupported, i.Array))
	}
	prefix := array.prefix

	indexPrefix, index := g.value(i.Index, context{expected: ir.Int32Type})
	prefix = append(prefix, indexPrefix...)

	return prefix, &ir.SingleOpInstr{Operand: &ir.ArrayOperand{Name: array.name, Index: index, T: array.elem()}}
}

// newObject lowers new C() into the allocation followed by the call of
// the constructor, the object is left in a temporary.
func (g *Generator) newObject(n *ast.NewObjectExpression) ([]ir.Instruction, ir.Instruction) {
	t := ir.ObjectOf(n.ClassName)
	tmp := g.env.temp(t)

	prefix := []ir.Instruction{
		&ir.AssignInstr{Dest: tmp, T: t, RHS: &ir.CallInstr{
			Invocation: ir.New,
			Caller:     ir.NewOperand(n.ClassName, ir.ClassOf(n.ClassName)),
			Return:     t,
		}},
		&ir.CallInstr{
			Invocation: ir.InvokeSpecial,
			Caller:     tmp,
			Method:     "<init>",
			Return:     ir.VoidType,
		},
	}

	return prefix, &ir.SingleOpInstr{Operand: tmp}
}

// call lowers a method call. A receiver naming an imported class which is
// not shadowed by a variable makes the call static, every other call is
// virtual.
func (g *Generator) call(c *ast.CallExpression, ctx context) ([]ir.Instruction, ir.Instruction) {
	var prefix []ir.Instruction
	call := &ir.CallInstr{Method: c.Method}

	own := false
	if class, ok := g.staticReceiver(c.Receiver); ok {
		call.Invocation = ir.InvokeStatic
		call.Caller = ir.NewOperand(class, ir.ClassOf(class))
	} else {
		recvPrefix, recv := g.value(c.Receiver, context{expected: ir.FromSource(sourceType(c.Receiver))})
		prefix = append(prefix, recvPrefix...)
		call.Invocation = ir.InvokeVirtual
		call.Caller = recv
		own = g.ownMethod(recv, c.Method)
	}

	var params []symbols.Symbol
	if own {
		params = g.table.GetParameters(c.Method)
	}
	for i, arg := range c.Arguments {
		expected := ir.FromSource(arg.Type())
		if i < len(params) {
			expected = ir.FromSource(params[i].Type)
		}
		argPrefix, v := g.value(arg, context{expected: expected})
		prefix = append(prefix, argPrefix...)
		call.Args = append(call.Args, v)
	}

	switch {
	case own:
		call.Return = ir.FromSource(g.table.GetReturnType(c.Method))
	case c.T.IsInferred() || c.T.IsZero():
		call.Return = ctx.expected
	default:
		call.Return = ir.FromSource(c.T)
	}

	return prefix, call
}

func (g *Generator) staticReceiver(recv ast.Expression) (string, bool) {
	id, ok := recv.(*ast.Identifier)
	if !ok {
		return "", false
	}
	if _, _, declared := g.env.lookup(id.Name); declared {
		return "", false
	}
	if !g.table.IsImported(id.Name) {
		panic(fmt.Errorf("%w: call on unknown class %s", ErrUnsupported, id.Name))
	}
	return id.Name, true
}

// ownMethod reports whether method is declared by the class being
// compiled and called on an instance of it.
func (g *Generator) ownMethod(recv ir.Element, method string) bool {
	t := recv.Type()
	if t.Kind != ir.This && (t.Kind != ir.ObjectRef || t.ClassName != g.env.class) {
		return false
	}
	_, ok := g.table.Method(method)
	return ok
}

type arrayRef struct {
	prefix []ir.Instruction
	name   string
	t      ir.Type
}

func (a arrayRef) elem() ir.Type {
	if a.t.Kind == ir.ArrayRef && a.t.Elem != nil {
		return *a.t.Elem
	}
	return ir.Int32Type
}

// arrayOperand provides the array of an element access as a named
// operand, fields are read into a temporary first.
func (g *Generator) arrayOperand(e ast.Expression) (arrayRef, bool) {
	if id, ok := e.(*ast.Identifier); ok {
		if _, _, declared := g.env.lookup(id.Name); !declared {
			return arrayRef{}, false
		}
	}

	prefix, v := g.value(e, context{expected: ir.ArrayOf(ir.Int32Type)})
	op, ok := v.(*ir.Operand)
	if !ok {
		return arrayRef{}, false
	}
	return arrayRef{prefix: prefix, name: op.Name, t: op.T}, true
}

// typeOf returns the type of the value produced by instr.
func typeOf(instr ir.Instruction) ir.Type {
	switch i := instr.(type) {
	case *ir.BinaryOpInstr:
		return i.Op.ResultType()
	case *ir.UnaryOpInstr:
		return i.Op.ResultType()
	case *ir.SingleOpInstr:
		return i.Operand.Type()
	case *ir.CallInstr:
		return i.Return
	case *ir.GetFieldInstr:
		return i.Field.T
	default:
		panic(fmt.Errorf("%w: %T produces no value", ErrUnsupported, instr))
	}
}
