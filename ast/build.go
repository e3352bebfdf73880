package ast

import (
	"fmt"
	"github.com/c0depwn/jmmc/pkg/ext"
	"github.com/c0depwn/jmmc/token"
	"github.com/c0depwn/jmmc/types"
	"strconv"
	"strings"
)

// RawNode is the generic form of the typed tree as exchanged with the
// front end: a kind tag, string attributes and ordered children.
type RawNode struct {
	Kind       string            `json:"kind"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Children   []RawNode         `json:"children,omitempty"`
}

func (r RawNode) attr(names ...string) (string, bool) {
	for _, name := range names {
		if v, ok := r.Attributes[name]; ok {
			return v, true
		}
	}
	return "", false
}

func (r RawNode) position() token.Position {
	line, _ := strconv.Atoi(r.Attributes["line"])
	col, _ := strconv.Atoi(r.Attributes["col"])
	return token.Position{Row: line, Col: col}
}

// Build converts the generic tree rooted at a Program node into the
// typed tree.
func Build(root RawNode) (program *Program, err error) {
	err = ext.CatchPanic(func() {
		program = buildProgram(root)
	})
	return program, err
}

func buildError(r RawNode, format string, args ...any) error {
	p := r.position()
	return fmt.Errorf("%d:%d: %s: %s", p.Row, p.Col, r.Kind, fmt.Sprintf(format, args...))
}

func mustAttr(r RawNode, names ...string) string {
	v, ok := r.attr(names...)
	if !ok {
		panic(buildError(r, "missing attribute %q", names[0]))
	}
	return v
}

func mustChildren(r RawNode, n int) {
	if len(r.Children) != n {
		panic(buildError(r, "expected %d children, got %d", n, len(r.Children)))
	}
}

func buildProgram(r RawNode) *Program {
	if r.Kind != KindProgram {
		panic(buildError(r, "expected root of kind %s", KindProgram))
	}

	p := new(Program)
	p.SetPosition(r.position())

	for _, child := range r.Children {
		switch child.Kind {
		case KindImport:
			p.Imports = append(p.Imports, buildImport(child))
		case KindClass:
			if p.Class != nil {
				panic(buildError(child, "only one class per program is supported"))
			}
			p.Class = buildClass(child)
		default:
			panic(buildError(child, "unexpected node in program"))
		}
	}

	if p.Class == nil {
		panic(buildError(r, "program does not declare a class"))
	}
	return p
}

func buildImport(r RawNode) *ImportDeclaration {
	imp := new(ImportDeclaration)
	imp.SetPosition(r.position())

	if path, ok := r.attr("path", "value"); ok {
		imp.Path = path
		return imp
	}

	// the path may be split into one identifier per segment
	parts := make([]string, 0, len(r.Children))
	for _, child := range r.Children {
		parts = append(parts, mustAttr(child, "value", "name"))
	}
	if len(parts) == 0 {
		panic(buildError(r, "missing import path"))
	}
	imp.Path = strings.Join(parts, ".")
	return imp
}

func buildClass(r RawNode) *ClassDeclaration {
	c := new(ClassDeclaration)
	c.SetPosition(r.position())
	c.Name = mustAttr(r, "className", "name")
	c.Super, _ = r.attr("parent", "extends")

	for _, child := range r.Children {
		switch child.Kind {
		case KindVarDeclaration:
			c.Fields = append(c.Fields, buildVarDeclaration(child))
		case KindMainMethod:
			c.Methods = append(c.Methods, buildMainMethod(child))
		case KindInstanceMethod:
			c.Methods = append(c.Methods, buildInstanceMethod(child))
		default:
			panic(buildError(child, "unexpected node in class %s", c.Name))
		}
	}
	return c
}

// declaredType reads the type of a declaration either from a Type/Array
// child or from the type attributes of the node itself.
func declaredType(r RawNode) (types.Type, bool) {
	for _, child := range r.Children {
		switch child.Kind {
		case KindType:
			return typeAttrs(child, "value", "type"), true
		case KindArray:
			t := typeAttrs(child, "value", "type")
			t.IsArray = true
			return t, true
		}
	}
	if _, ok := r.attr("type"); ok {
		return typeAttrs(r, "type"), true
	}
	return types.Type{}, false
}

func typeAttrs(r RawNode, names ...string) types.Type {
	t := types.Parse(mustAttr(r, names...))
	if isArray, _ := r.attr("isArray"); isArray == "true" {
		t.IsArray = true
	}
	return t
}

func buildVarDeclaration(r RawNode) *VarDeclaration {
	d := new(VarDeclaration)
	d.SetPosition(r.position())
	d.Name = mustAttr(r, "var", "name")

	t, ok := declaredType(r)
	if !ok {
		panic(buildError(r, "missing type of %s", d.Name))
	}
	d.T = t
	return d
}

func buildParam(r RawNode) *Param {
	p := new(Param)
	p.SetPosition(r.position())
	p.Name = mustAttr(r, "name", "var")

	t, ok := declaredType(r)
	if !ok {
		panic(buildError(r, "missing type of %s", p.Name))
	}
	p.T = t
	return p
}

func buildMainMethod(r RawNode) *MethodDeclaration {
	m := new(MethodDeclaration)
	m.SetPosition(r.position())
	m.Static = true
	m.Result = types.Void()
	m.Name = "main"
	if name, ok := r.attr("methodName"); ok {
		m.Name = name
	}

	argsName := "args"
	if name, ok := r.attr("param", "args"); ok {
		argsName = name
	}
	args := &Param{Name: argsName, T: types.ArrayOf(types.String())}
	args.SetPosition(m.Position())
	m.Params = []*Param{args}

	for _, child := range r.Children {
		switch child.Kind {
		case KindVarDeclaration:
			m.Locals = append(m.Locals, buildVarDeclaration(child))
		case KindParam:
			// an explicit parameter replaces the default one
			m.Params = []*Param{buildParam(child)}
		default:
			m.Body = append(m.Body, buildStatement(child))
		}
	}
	return m
}

func buildInstanceMethod(r RawNode) *MethodDeclaration {
	m := new(MethodDeclaration)
	m.SetPosition(r.position())
	m.Name = mustAttr(r, "methodName", "name")

	if t, ok := r.attr("returnType"); ok {
		m.Result = types.Parse(t)
	}

	children := r.Children
	if n := len(children); n > 0 {
		last := children[n-1]
		switch {
		case last.Kind == KindReturn:
			mustChildren(last, 1)
			m.Return = buildExpression(last.Children[0])
			children = children[:n-1]
		case isExpressionKind(last.Kind):
			m.Return = buildExpression(last)
			children = children[:n-1]
		}
	}
	if m.Return == nil {
		panic(buildError(r, "method %s does not end with a return", m.Name))
	}

	for _, child := range children {
		switch child.Kind {
		case KindType:
			m.Result = typeAttrs(child, "value", "type")
		case KindArray:
			m.Result = typeAttrs(child, "value", "type")
			m.Result.IsArray = true
		case KindParam:
			m.Params = append(m.Params, buildParam(child))
		case KindVarDeclaration:
			m.Locals = append(m.Locals, buildVarDeclaration(child))
		default:
			m.Body = append(m.Body, buildStatement(child))
		}
	}

	if m.Result.IsZero() {
		panic(buildError(r, "missing return type of %s", m.Name))
	}
	return m
}

func buildStatement(r RawNode) Statement {
	switch r.Kind {
	case KindBlock:
		b := new(Block)
		b.SetPosition(r.position())
		for _, child := range r.Children {
			b.Statements = append(b.Statements, buildStatement(child))
		}
		return b

	case KindConditional:
		if len(r.Children) != 2 && len(r.Children) != 3 {
			panic(buildError(r, "expected condition, then and else, got %d children", len(r.Children)))
		}
		s := new(IfStatement)
		s.SetPosition(r.position())
		s.Condition = buildExpression(r.Children[0])
		s.Consequence = buildStatement(r.Children[1])
		if len(r.Children) == 3 {
			s.Alternative = buildStatement(r.Children[2])
		} else {
			s.Alternative = &Block{}
		}
		return s

	case KindWhile:
		mustChildren(r, 2)
		s := new(WhileStatement)
		s.SetPosition(r.position())
		s.Condition = buildExpression(r.Children[0])
		s.Body = buildStatement(r.Children[1])
		return s

	case KindExprStmt:
		mustChildren(r, 1)
		s := new(ExpressionStatement)
		s.SetPosition(r.position())
		s.Expression = buildExpression(r.Children[0])
		return s

	case KindAssignment:
		mustChildren(r, 1)
		s := new(Assignment)
		s.SetPosition(r.position())
		s.Name = mustAttr(r, "var", "name")
		s.Value = buildExpression(r.Children[0])
		if _, ok := r.attr("type"); ok {
			s.T = typeAttrs(r, "type")
		} else {
			s.T = s.Value.Type()
		}
		return s

	case KindArrayAssignment:
		mustChildren(r, 2)
		s := new(ArrayAssignment)
		s.SetPosition(r.position())
		s.Name = mustAttr(r, "var", "name")
		s.Index = buildExpression(r.Children[0])
		s.Value = buildExpression(r.Children[1])
		return s

	default:
		panic(buildError(r, "unexpected statement"))
	}
}

func isExpressionKind(kind string) bool {
	switch kind {
	case KindBinaryOp, KindUnaryOp, KindPrioExpr, KindInteger, KindBoolean,
		KindIdentifier, KindThis, KindNewArray, KindIndex, KindLength,
		KindNewObject, KindMethodCall:
		return true
	}
	return false
}

// exprType reads the resolved type attributes of an expression,
// falling back to def when the front end did not annotate the node.
func exprType(r RawNode, def types.Type) types.Type {
	if _, ok := r.attr("type"); !ok {
		return def
	}
	return typeAttrs(r, "type")
}

func buildExpression(r RawNode) Expression {
	pos := r.position()

	switch r.Kind {
	case KindPrioExpr:
		mustChildren(r, 1)
		return buildExpression(r.Children[0])

	case KindBinaryOp:
		mustChildren(r, 2)
		e := &BinaryExpression{
			Operator: mustAttr(r, "op"),
			Left:     buildExpression(r.Children[0]),
			Right:    buildExpression(r.Children[1]),
		}
		def := types.Boolean()
		switch e.Operator {
		case "+", "-", "*", "/":
			def = types.Int()
		}
		e.T = exprType(r, def)
		e.SetPosition(pos)
		return e

	case KindUnaryOp:
		mustChildren(r, 1)
		op, ok := r.attr("op")
		if !ok || op == "not" {
			op = "!"
		}
		e := &UnaryExpression{Operator: op, Operand: buildExpression(r.Children[0])}
		e.T = exprType(r, types.Boolean())
		e.SetPosition(pos)
		return e

	case KindInteger:
		literal := mustAttr(r, "value")
		v, err := strconv.ParseInt(literal, 10, 32)
		if err != nil {
			panic(buildError(r, "invalid integer literal %s", literal))
		}
		e := &IntegerLiteral{Value: int32(v), T: types.Int()}
		e.SetPosition(pos)
		return e

	case KindBoolean:
		e := &BooleanLiteral{Value: mustAttr(r, "value") == "true", T: types.Boolean()}
		e.SetPosition(pos)
		return e

	case KindIdentifier:
		e := &Identifier{Name: mustAttr(r, "value", "name")}
		e.T = exprType(r, types.Inferred())
		e.SetPosition(pos)
		return e

	case KindThis:
		e := &ThisExpression{}
		e.T = exprType(r, types.Type{})
		e.SetPosition(pos)
		return e

	case KindNewArray:
		mustChildren(r, 1)
		e := &NewArrayExpression{Size: buildExpression(r.Children[0])}
		e.T = exprType(r, types.ArrayOf(types.Int()))
		e.SetPosition(pos)
		return e

	case KindIndex:
		mustChildren(r, 2)
		e := &IndexExpression{
			Array: buildExpression(r.Children[0]),
			Index: buildExpression(r.Children[1]),
		}
		e.T = exprType(r, e.Array.Type().Elem())
		e.SetPosition(pos)
		return e

	case KindLength:
		mustChildren(r, 1)
		e := &LengthExpression{Array: buildExpression(r.Children[0])}
		e.T = exprType(r, types.Int())
		e.SetPosition(pos)
		return e

	case KindNewObject:
		name := mustAttr(r, "className", "value", "name")
		e := &NewObjectExpression{ClassName: name}
		e.T = exprType(r, types.Class(name))
		e.SetPosition(pos)
		return e

	case KindMethodCall:
		return buildCall(r)

	default:
		panic(buildError(r, "unexpected expression"))
	}
}

// buildCall accepts both the nested form MethodCall(receiver, Call(args...))
// and the flat form MethodCall[methodName](receiver, args...).
func buildCall(r RawNode) *CallExpression {
	if len(r.Children) == 0 {
		panic(buildError(r, "missing receiver"))
	}

	e := new(CallExpression)
	e.SetPosition(r.position())
	e.Receiver = buildExpression(r.Children[0])

	args := r.Children[1:]
	if len(args) == 1 && args[0].Kind == KindCall {
		e.Method = mustAttr(args[0], "methodName", "name")
		args = args[0].Children
	} else {
		e.Method = mustAttr(r, "methodName", "name")
	}

	for _, arg := range args {
		e.Arguments = append(e.Arguments, buildExpression(arg))
	}

	e.T = exprType(r, types.Inferred())
	return e
}
