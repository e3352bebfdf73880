// Package ollir lowers the typed tree into the three-address IR.
package ollir

import (
	"errors"
	"fmt"
	"github.com/c0depwn/jmmc/ast"
	"github.com/c0depwn/jmmc/codegen"
	"github.com/c0depwn/jmmc/ir"
	"github.com/c0depwn/jmmc/pkg/ext"
	"github.com/c0depwn/jmmc/symbols"
	"github.com/c0depwn/jmmc/types"
	"go.uber.org/zap"
)

// ErrUnsupported is returned when the tree contains a construct the
// generator has no lowering for.
var ErrUnsupported = errors.New("unsupported construct")

type Option func(*Generator)

// WithLabels shares a label counter with later passes of the same unit.
func WithLabels(labels *codegen.Labels) Option {
	return func(g *Generator) {
		g.labels = labels
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(g *Generator) {
		g.log = log
	}
}

// Generate lowers program into an IR class. The method signatures are
// taken from table, when table is nil it is collected from the program.
func Generate(program *ast.Program, table *symbols.Table, opts ...Option) (class *ir.Class, err error) {
	if program == nil || program.Class == nil {
		return nil, fmt.Errorf("%w: program without class", ErrUnsupported)
	}
	if table == nil {
		if table, err = symbols.Collect(program); err != nil {
			return nil, err
		}
	}

	g := &Generator{
		table:  table,
		labels: codegen.NewLabels(),
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}

	err = ext.CatchPanic(func() {
		class = g.class(program.Class)
	})
	if err != nil {
		return nil, err
	}
	return class, nil
}

type Generator struct {
	table  *symbols.Table
	labels *codegen.Labels
	log    *zap.Logger

	// env is the environment of the method being lowered
	env *environment
}

func (g *Generator) class(decl *ast.ClassDeclaration) *ir.Class {
	class := &ir.Class{
		Imports: append([]string(nil), g.table.Imports...),
		Name:    g.table.ClassName,
		Super:   g.table.SuperClass,
		Access:  ir.Public,
	}
	if class.Name == "" {
		class.Name = decl.Name
	}

	for _, f := range g.table.Fields {
		class.Fields = append(class.Fields, &ir.Field{
			Name:   f.Name,
			T:      ir.FromSource(f.Type),
			Access: ir.Private,
		})
	}

	class.Methods = append(class.Methods, ir.DefaultConstructor(class.Name))
	for _, m := range decl.Methods {
		class.Methods = append(class.Methods, g.method(class.Name, m))
	}

	return class
}

func (g *Generator) method(className string, decl *ast.MethodDeclaration) *ir.Method {
	sig, ok := g.table.Method(decl.Name)
	if !ok {
		panic(fmt.Errorf("%w: method %s is missing from the symbol table", ErrUnsupported, decl.Name))
	}

	g.env = newEnvironment(className, decl.Name, sig.Static || decl.Static, g.table)
	defer func() { g.env = nil }()

	method := &ir.Method{
		Name:   decl.Name,
		Access: ir.Public,
		Static: g.env.static,
		Return: ir.FromSource(sig.ReturnType),
	}
	for _, p := range sig.Parameters {
		method.Params = append(method.Params, ir.NewOperand(p.Name, ir.FromSource(p.Type)))
	}
	for _, l := range sig.LocalVariables {
		method.Locals = append(method.Locals, ir.NewOperand(l.Name, ir.FromSource(l.Type)))
	}

	for _, s := range decl.Body {
		g.statement(s)
	}

	if decl.Return == nil || method.Return.Kind == ir.Void {
		g.env.emit(&ir.ReturnInstr{T: ir.VoidType})
	} else {
		prefix, value := g.value(decl.Return, context{expected: method.Return})
		g.env.emit(prefix...)
		g.env.emit(&ir.ReturnInstr{Operand: value, T: method.Return})
	}

	method.Body = g.env.body

	g.log.Debug("generated method",
		zap.String("method", method.Name),
		zap.Int("statements", len(method.Body)),
		zap.Int("temporaries", g.env.temps),
	)

	return method
}

func (g *Generator) statement(statement ast.Statement) {
	switch s := statement.(type) {
	case *ast.Block:
		for _, inner := range s.Statements {
			g.statement(inner)
		}
	case *ast.Assignment:
		g.assignment(s)
	case *ast.ArrayAssignment:
		g.arrayAssignment(s)
	case *ast.IfStatement:
		g.ifStatement(s)
	case *ast.WhileStatement:
		g.whileStatement(s)
	case *ast.ExpressionStatement:
		prefix, instr := g.instruction(s.Expression, context{expected: ir.VoidType})
		g.env.emit(prefix...)
		// only calls have an effect of their own, any other value is dropped
		if _, ok := instr.(*ir.CallInstr); ok {
			g.env.emit(instr)
		}
	default:
		panic(fmt.Errorf("%w: statement %T", ErrUnsupported, statement))
	}
}

// assignment lowers x = e. When x is a field the value is written with
// putfield, otherwise the right side is assigned directly to x.
func (g *Generator) assignment(a *ast.Assignment) {
	symbol, scope, ok := g.env.lookup(a.Name)
	if !ok {
		panic(fmt.Errorf("%w: assignment to undeclared %s", ErrUnsupported, a.Name))
	}
	t := ir.FromSource(symbol.Type)

	if scope == symbols.Field {
		g.env.mustBeInstance(a.Name)
		prefix, value := g.value(a.Value, context{expected: t})
		g.env.emit(prefix...)
		g.env.emit(&ir.PutFieldInstr{
			Object: g.env.this(),
			Field:  ir.NewOperand(a.Name, t),
			Value:  value,
		})
		return
	}

	prefix, rhs := g.instruction(a.Value, context{expected: t})
	g.env.emit(prefix...)
	g.env.emit(&ir.AssignInstr{Dest: ir.NewOperand(a.Name, t), T: t, RHS: rhs})
}

func (g *Generator) arrayAssignment(a *ast.ArrayAssignment) {
	array, ok := g.arrayOperand(&ast.Identifier{Name: a.Name})
	if !ok {
		panic(fmt.Errorf("%w: assignment to element of undeclared %s", ErrUnsupported, a.Name))
	}
	g.env.emit(array.prefix...)

	indexPrefix, index := g.value(a.Index, context{expected: ir.Int32Type})
	g.env.emit(indexPrefix...)

	elem := array.elem()
	valuePrefix, value := g.value(a.Value, context{expected: elem})
	g.env.emit(valuePrefix...)

	dest := &ir.ArrayOperand{Name: array.name, Index: index, T: elem}
	g.env.emit(&ir.AssignInstr{Dest: dest, T: elem, RHS: &ir.SingleOpInstr{Operand: value}})
}

// ifStatement lowers
//
//	if (c) then else alt
//
// into the false branch first layout
//
//	if (c) goto Then_N;
//	    alt
//	    goto End_N;
//	Then_N:
//	    then
//	End_N:
func (g *Generator) ifStatement(s *ast.IfStatement) {
	labels := g.labels.Next("Then", "End")
	thenLabel, endLabel := labels[0], labels[1]

	g.branch(s.Condition, thenLabel)

	if s.Alternative != nil {
		g.statement(s.Alternative)
	}
	g.env.emit(&ir.GotoInstr{Label: endLabel})

	g.env.label(thenLabel)
	if s.Consequence != nil {
		g.statement(s.Consequence)
	}
	g.env.label(endLabel)
}

// whileStatement lowers a loop. The condition including its prefix is
// re-evaluated on every iteration.
//
//	WhileCondition_N:
//	    if (c) goto WhileBody_N;
//	    goto WhileEnd_N;
//	WhileBody_N:
//	    body
//	    goto WhileCondition_N;
//	WhileEnd_N:
func (g *Generator) whileStatement(s *ast.WhileStatement) {
	labels := g.labels.Next("WhileCondition", "WhileBody", "WhileEnd")
	condLabel, bodyLabel, endLabel := labels[0], labels[1], labels[2]

	g.env.label(condLabel)
	g.branch(s.Condition, bodyLabel)
	g.env.emit(&ir.GotoInstr{Label: endLabel})

	g.env.label(bodyLabel)
	if s.Body != nil {
		g.statement(s.Body)
	}
	g.env.emit(&ir.GotoInstr{Label: condLabel})
	g.env.label(endLabel)
}

// branch emits the prefix of cond followed by a jump to target when cond
// holds. Operators are kept inside the branch, other values are
// materialized first.
func (g *Generator) branch(cond ast.Expression, target string) {
	prefix, instr := g.instruction(cond, context{expected: ir.BooleanType, branch: true})
	g.env.emit(prefix...)
	g.env.emit(&ir.CondBranchInstr{Cond: instr, Label: target})
}

// sourceType is a helper for nodes which may come without a type.
func sourceType(e ast.Expression) types.Type {
	if e == nil {
		return types.Type{}
	}
	return e.Type()
}
