package jasmin

import (
	"fmt"
	"github.com/c0depwn/jmmc/constant"
	"github.com/c0depwn/jmmc/ir"
	"github.com/c0depwn/jmmc/pkg/slices"
	"go.uber.org/zap"
)

// methodCode is the translated body of a method with its limits.
type methodCode struct {
	method *ir.Method
	stack  int
	locals int
	code   []string
}

// methodTranslator owns the frame and the stack counter of the method
// being translated. Both are discarded once the method is done.
type methodTranslator struct {
	*Translator
	method *ir.Method
	frame  *frame
	stack  stack
	code   []string
}

func (t *Translator) translateMethod(m *ir.Method) *methodCode {
	mt := &methodTranslator{
		Translator: t,
		method:     m,
		frame:      buildFrame(m),
	}

	for i := 0; i < len(m.Body); i++ {
		stmt := m.Body[i]
		for _, l := range stmt.Labels {
			mt.label(l)
		}

		var next *ir.Statement
		if i+1 < len(m.Body) {
			next = &m.Body[i+1]
		}
		if mt.statement(stmt.Instr, next) {
			i++
		}

		if mt.stack.current != 0 {
			panic(fmt.Errorf("operand stack holds %d values after '%s' in %s", mt.stack.current, stmt.Instr, m.Name))
		}
	}

	if !mt.terminated() {
		if m.Return.Kind != ir.Void {
			panic(fmt.Errorf("%w: %s ends without returning %s", ErrUnsupported, m.Name, m.Return))
		}
		mt.op(0, 0, "return")
	}

	t.log.Debug("translated method",
		zap.String("method", m.Name),
		zap.Int("stack", mt.stack.limit),
		zap.Int("locals", mt.frame.size),
		zap.Int("instructions", len(mt.code)),
	)

	return &methodCode{
		method: m,
		stack:  mt.stack.limit,
		locals: mt.frame.size,
		code:   mt.code,
	}
}

// op emits one instruction which pops and then pushes the given number
// of values.
func (m *methodTranslator) op(pops, pushes int, format string, args ...any) {
	m.stack.pop(pops)
	m.stack.push(pushes)
	m.code = append(m.code, "\t"+fmt.Sprintf(format, args...))
}

func (m *methodTranslator) label(l string) {
	m.code = append(m.code, l+":")
}

// terminated reports whether the code ends with an instruction which does
// not fall through.
func (m *methodTranslator) terminated() bool {
	if len(m.code) == 0 {
		return false
	}
	last := m.code[len(m.code)-1]
	switch {
	case last == "\treturn", last == "\tireturn", last == "\tareturn":
		return true
	case len(last) > 6 && last[:6] == "\tgoto ":
		return true
	}
	return false
}

// statement translates instr as a statement, the operand stack is empty
// before and after. It reports whether next was consumed as well.
func (m *methodTranslator) statement(instr ir.Instruction, next *ir.Statement) bool {
	switch i := instr.(type) {
	case *ir.AssignInstr:
		return m.assign(i, next)
	case *ir.CallInstr:
		if m.call(i) {
			m.op(1, 0, "pop")
		}
	case *ir.PutFieldInstr:
		m.putField(i.Object, i.Field, func() { m.load(i.Value) })
	case *ir.ReturnInstr:
		if i.Operand == nil || i.T.Kind == ir.Void {
			m.op(0, 0, "return")
		} else {
			m.load(i.Operand)
			m.op(1, 0, returnOf(i.T))
		}
	case *ir.GotoInstr:
		m.op(0, 0, "goto %s", i.Label)
	case *ir.CondBranchInstr:
		m.condBranch(i)
	case *ir.BinaryOpInstr, *ir.UnaryOpInstr, *ir.SingleOpInstr, *ir.GetFieldInstr:
		m.value(instr)
		m.op(1, 0, "pop")
	default:
		panic(fmt.Errorf("%w: instruction %T", ErrUnsupported, instr))
	}
	return false
}

func (m *methodTranslator) assign(a *ir.AssignInstr, next *ir.Statement) bool {
	switch dest := a.Dest.(type) {
	case *ir.ArrayOperand:
		m.loadArray(dest.Name)
		m.load(dest.Index)
		m.value(a.RHS)
		m.op(3, 0, arrayStore(dest.T))
		return false

	case *ir.Operand:
		// every assigned operand has a slot, fields are written with putfield
		v, ok := m.frame.lookup(dest.Name)
		if !ok {
			panic(fmt.Errorf("no slot for %s in %s", dest.Name, m.method.Name))
		}

		if m.opts.Increments {
			if m.increment(v, a) {
				return false
			}
			if m.incrementAndCopy(v, a, next) {
				return true
			}
		}
		if m.construct(v, a, next) {
			return true
		}

		m.value(a.RHS)
		m.op(1, 0, store(v))
		return false

	default:
		panic(fmt.Errorf("%w: assignment to %T", ErrUnsupported, a.Dest))
	}
}

// construct fuses t := new(C); invokespecial(t, "<init>") into
// new, dup, invokespecial and a single store.
func (m *methodTranslator) construct(v variable, a *ir.AssignInstr, next *ir.Statement) bool {
	alloc, ok := a.RHS.(*ir.CallInstr)
	if !ok || alloc.Invocation != ir.New || alloc.Caller == nil {
		return false
	}
	if next == nil || len(next.Labels) > 0 {
		return false
	}
	init, ok := next.Instr.(*ir.CallInstr)
	if !ok || init.Invocation != ir.InvokeSpecial || init.Method != "<init>" {
		return false
	}
	target, ok := init.Caller.(*ir.Operand)
	if !ok || target.Name != a.Dest.(*ir.Operand).Name {
		return false
	}

	owner := m.owner(alloc.Caller.Type())
	m.op(0, 1, "new %s", owner)
	m.op(0, 1, "dup")
	for _, arg := range init.Args {
		m.load(arg)
	}
	m.op(1+len(init.Args), 0, "invokespecial %s/<init>%s", owner, m.methodDescriptor(argTypes(init.Args), ir.VoidType))
	m.op(1, 0, store(v))
	return true
}

// value pushes the single value produced by instr.
func (m *methodTranslator) value(instr ir.Instruction) {
	switch i := instr.(type) {
	case *ir.SingleOpInstr:
		m.load(i.Operand)
	case *ir.BinaryOpInstr:
		m.binary(i)
	case *ir.UnaryOpInstr:
		m.unary(i)
	case *ir.CallInstr:
		if !m.call(i) {
			panic(fmt.Errorf("%w: value of void call '%s'", ErrUnsupported, i))
		}
	case *ir.GetFieldInstr:
		m.getField(i.Object, i.Field)
	default:
		panic(fmt.Errorf("%w: %T produces no value", ErrUnsupported, instr))
	}
}

// load pushes e. Names without a slot are fields of this.
func (m *methodTranslator) load(e ir.Element) {
	switch x := e.(type) {
	case *ir.Literal:
		m.constant(x)
	case *ir.Operand:
		if v, ok := m.frame.lookup(x.Name); ok {
			m.op(0, 1, load(v))
			return
		}
		if t, ok := m.fields[x.Name]; ok {
			m.getField(m.this(), ir.NewOperand(x.Name, t))
			return
		}
		panic(fmt.Errorf("%w: unknown variable %s in %s", ErrUnsupported, x.Name, m.method.Name))
	case *ir.ArrayOperand:
		m.loadArray(x.Name)
		m.load(x.Index)
		m.op(2, 1, arrayLoad(x.T))
	default:
		panic(fmt.Errorf("%w: element %T", ErrUnsupported, e))
	}
}

func (m *methodTranslator) loadArray(name string) {
	if v, ok := m.frame.lookup(name); ok {
		m.op(0, 1, load(v))
		return
	}
	if t, ok := m.fields[name]; ok {
		m.getField(m.this(), ir.NewOperand(name, t))
		return
	}
	panic(fmt.Errorf("%w: unknown array %s in %s", ErrUnsupported, name, m.method.Name))
}

func (m *methodTranslator) constant(l *ir.Literal) {
	if l.T.Kind == ir.String {
		m.op(0, 1, "ldc %s", l.Value)
		return
	}
	v, err := constant.AsInt(l.Value)
	if err != nil {
		panic(fmt.Errorf("%w: literal %s: %v", ErrUnsupported, l, err))
	}
	m.op(0, 1, pushInt(v))
}

func (m *methodTranslator) this() *ir.Operand {
	if m.method.Static {
		panic(fmt.Errorf("%w: this in static method %s", ErrUnsupported, m.method.Name))
	}
	return ir.NewOperand("this", ir.ThisOf(m.class.Name))
}

func (m *methodTranslator) getField(object ir.Element, field *ir.Operand) {
	m.load(object)
	m.op(1, 1, "getfield %s/%s %s", m.owner(object.Type()), field.Name, m.descriptor(field.T))
}

func (m *methodTranslator) putField(object ir.Element, field *ir.Operand, value func()) {
	m.load(object)
	value()
	m.op(2, 0, "putfield %s/%s %s", m.owner(object.Type()), field.Name, m.descriptor(field.T))
}

// call pushes the receiver and arguments, invokes and reports whether a
// result was pushed.
func (m *methodTranslator) call(c *ir.CallInstr) bool {
	switch c.Invocation {
	case ir.InvokeStatic:
		owner := m.class.Name
		if c.Caller != nil {
			owner = m.owner(c.Caller.Type())
		}
		return m.invoke("invokestatic", owner, c, 0)

	case ir.InvokeVirtual:
		m.load(c.Caller)
		return m.invoke("invokevirtual", m.owner(c.Caller.Type()), c, 1)

	case ir.InvokeSpecial:
		m.load(c.Caller)
		owner := m.owner(c.Caller.Type())
		if c.Caller.Type().Kind == ir.This && c.Method == "<init>" {
			owner = m.superName()
		}
		return m.invoke("invokespecial", owner, c, 1)

	case ir.New:
		if c.Caller != nil {
			m.op(0, 1, "new %s", m.owner(c.Caller.Type()))
			return true
		}
		if len(c.Args) != 1 || c.Return.Kind != ir.ArrayRef || c.Return.Elem == nil {
			panic(fmt.Errorf("%w: array allocation '%s'", ErrUnsupported, c))
		}
		m.load(c.Args[0])
		switch elem := *c.Return.Elem; {
		case elem.Kind == ir.Int32:
			m.op(1, 1, "newarray int")
		case elem.Kind == ir.Boolean:
			m.op(1, 1, "newarray boolean")
		case elem.Kind == ir.ArrayRef:
			m.op(1, 1, "anewarray %s", m.descriptor(elem))
		default:
			m.op(1, 1, "anewarray %s", m.owner(elem))
		}
		return true

	case ir.Ldc:
		if len(c.Args) != 1 {
			panic(fmt.Errorf("%w: ldc with %d arguments", ErrUnsupported, len(c.Args)))
		}
		m.load(c.Args[0])
		return true

	case ir.ArrayLength:
		m.load(c.Caller)
		m.op(1, 1, "arraylength")
		return true

	default:
		panic(fmt.Errorf("%w: invocation %s", ErrUnsupported, c.Invocation))
	}
}

// invoke pushes the arguments left to right and emits the call, receivers
// is the number of values already pushed for the receiver.
func (m *methodTranslator) invoke(mnemonic, owner string, c *ir.CallInstr, receivers int) bool {
	for _, arg := range c.Args {
		m.load(arg)
	}

	pushes := 0
	if c.Return.Kind != ir.Void {
		pushes = 1
	}
	m.op(receivers+len(c.Args), pushes, "%s %s/%s%s",
		mnemonic, owner, c.Method, m.methodDescriptor(argTypes(c.Args), c.Return))
	return pushes == 1
}

func argTypes(args []ir.Element) []ir.Type {
	return slices.Map(args, func(e ir.Element) ir.Type { return e.Type() })
}
