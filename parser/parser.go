package parser

import (
	"fmt"
	"github.com/c0depwn/jmmc/constant"
	"github.com/c0depwn/jmmc/ir"
	"github.com/c0depwn/jmmc/token"
	"slices"
	"strings"
)

// The parser produces an [*ir.Class] from the received tokens.
// It makes use of a top-down approach with a lookahead of 1 token.
// Every parse function consumes all tokens of its production, on return
// current is the first token after it.
// Any encountered errors are delegated to the configured ErrorHandler.
type parser struct {
	// tokens is the source which provides the next token to be parsed
	tokens TokenSource

	// errHandler decides what to do when an error is encountered during parsing
	errHandler ErrorHandler

	// current is the current token.Token which is being parsed
	current token.Token
	// next contains the next available token from tokens
	next token.Token

	// tracer is used to easily trace the parsing path
	tracer tracerI

	// class is the name of the class being parsed, it types this.
	class string
}

// callNames are the identifiers which start a call when followed by '('.
var callNames = []string{
	"invokestatic",
	"invokevirtual",
	"invokespecial",
	"new",
	"ldc",
	"arraylength",
	"getfield",
	"putfield",
}

// Class = { "import" QualifiedName ";" } Modifiers identifier [ "extends" QualifiedName ] "{" { Member } "}" .
func (p *parser) parse() *ir.Class {
	p.tracer.begin("parse")
	defer p.tracer.end("parse")

	class := new(ir.Class)

	for p.currentIs(token.Import) {
		p.advance()
		class.Imports = append(class.Imports, p.parseQualifiedName())
		p.expect(token.Semicolon)
	}

	class.Access, class.Static, class.Final = p.parseModifiers()
	class.Name = p.expect(token.Identifier).Literal
	p.class = class.Name

	if p.currentIs(token.Extends) {
		p.advance()
		class.Super = p.parseQualifiedName()
	}

	p.expect(token.LBrace)

	// Member = "." ( "field" Field | "construct" Constructor | "method" Method ) .
	for !p.currentIs(token.RBrace) && !p.currentIs(token.EOF) {
		p.expect(token.Dot)
		directive := p.expect(token.Identifier)

		switch directive.Literal {
		case "field":
			class.Fields = append(class.Fields, p.parseField())
		case "construct":
			class.Methods = append(class.Methods, p.parseConstructor())
		case "method":
			class.Methods = append(class.Methods, p.parseMethod())
		default:
			p.syntaxErrorAt(directive.Position, fmt.Sprintf("unknown directive '.%s'", directive.Literal))
		}
	}

	p.expect(token.RBrace)

	if !p.currentIs(token.EOF) {
		p.syntaxError(fmt.Sprintf("unexpected %s after class body", p.current.Type))
	}

	return class
}

// QualifiedName = identifier { "." identifier } .
func (p *parser) parseQualifiedName() string {
	parts := []string{p.expect(token.Identifier).Literal}
	for p.currentIs(token.Dot) && p.nextIs(token.Identifier) {
		p.advance()
		parts = append(parts, p.expect(token.Identifier).Literal)
	}
	return strings.Join(parts, ".")
}

// Modifiers = { "public" | "private" | "protected" | "static" | "final" } .
func (p *parser) parseModifiers() (access ir.Access, static, final bool) {
	for p.currentIs(token.Identifier) {
		switch p.current.Literal {
		case "public":
			access = ir.Public
		case "private":
			access = ir.Private
		case "protected":
			access = ir.Protected
		case "static":
			static = true
		case "final":
			final = true
		default:
			return
		}
		p.advance()
	}
	return
}

// Type = "." identifier { "." identifier } .
func (p *parser) parseType() ir.Type {
	pos := p.position()

	var parts []string
	for p.currentIs(token.Dot) && p.nextIs(token.Identifier) {
		p.advance()
		parts = append(parts, p.current.Literal)
		p.advance()
	}

	t, err := ir.ParseType(parts)
	if err != nil {
		p.syntaxErrorAt(pos, err.Error())
	}
	return t
}

// Field = Modifiers identifier Type [ "=" Literal ] ";" .
func (p *parser) parseField() *ir.Field {
	p.tracer.begin("parseField")
	defer p.tracer.end("parseField")

	f := new(ir.Field)
	f.Access, f.Static, f.Final = p.parseModifiers()
	f.Name = p.expect(token.Identifier).Literal
	f.T = p.parseType()

	if p.currentIs(token.EqSign) {
		p.advance()
		f.Init = p.parseLiteral().Value
	}

	p.expect(token.Semicolon)
	return f
}

// Constructor = identifier Params Type Body .
func (p *parser) parseConstructor() *ir.Method {
	p.tracer.begin("parseConstructor")
	defer p.tracer.end("parseConstructor")

	m := &ir.Method{Constructor: true, Access: ir.Public}
	m.Name = p.expect(token.Identifier).Literal
	m.Params = p.parseParams()
	m.Return = p.parseType()
	m.Body = p.parseBody()
	return m
}

// Method = Modifiers identifier Params Type Body .
func (p *parser) parseMethod() *ir.Method {
	p.tracer.begin("parseMethod")
	defer p.tracer.end("parseMethod")

	m := new(ir.Method)
	m.Access, m.Static, m.Final = p.parseModifiers()
	m.Name = p.expect(token.Identifier).Literal
	m.Params = p.parseParams()
	m.Return = p.parseType()
	m.Body = p.parseBody()
	return m
}

// Params = "(" [ identifier Type { "," identifier Type } ] ")" .
func (p *parser) parseParams() []*ir.Operand {
	p.expect(token.LParen)

	var params []*ir.Operand
	for !p.currentIs(token.RParen) && !p.currentIs(token.EOF) {
		if len(params) > 0 {
			p.expect(token.Comma)
		}
		name := p.expect(token.Identifier).Literal
		params = append(params, ir.NewOperand(name, p.parseType()))
	}

	p.expect(token.RParen)
	return params
}

// Body = "{" { identifier ":" | Instruction ";" } "}" .
func (p *parser) parseBody() []ir.Statement {
	p.tracer.begin("parseBody")
	defer p.tracer.end("parseBody")

	p.expect(token.LBrace)

	var (
		body   []ir.Statement
		labels []string
	)
	for !p.currentIs(token.RBrace) && !p.currentIs(token.EOF) {
		if p.currentIs(token.Identifier) && p.nextIs(token.Colon) {
			labels = append(labels, p.current.Literal)
			p.advance()
			p.advance()
			continue
		}

		instr := p.parseInstruction()
		p.expect(token.Semicolon)

		body = append(body, ir.Statement{Labels: labels, Instr: instr})
		labels = nil
	}

	if len(labels) > 0 {
		p.syntaxError(fmt.Sprintf("label %s is not followed by an instruction", labels[0]))
	}

	p.expect(token.RBrace)
	return body
}

//	Instruction = ( "goto" identifier
//	              | "if" "(" Operation ")" "goto" identifier
//	              | "ret" Type [ Element ]
//	              | Call
//	              | Element ":=" Type ( Call | Operation ) ) .
func (p *parser) parseInstruction() ir.Instruction {
	p.tracer.begin("parseInstruction")
	defer p.tracer.end("parseInstruction")

	switch {
	case p.currentIs(token.Goto):
		p.advance()
		return &ir.GotoInstr{Label: p.expect(token.Identifier).Literal}

	case p.currentIs(token.If):
		p.advance()
		p.expect(token.LParen)
		cond := p.parseOperation()
		p.expect(token.RParen)
		p.expect(token.Goto)
		return &ir.CondBranchInstr{Cond: cond, Label: p.expect(token.Identifier).Literal}

	case p.currentIs(token.Identifier) && p.current.Literal == "ret" && p.nextIs(token.Dot):
		pos := p.position()
		p.advance()
		t := p.parseType()

		// ret is a valid variable name
		if p.currentIs(token.Assign) {
			return p.parseAssignment(ir.NewOperand("ret", t))
		}

		if p.currentIs(token.Semicolon) {
			if t.Kind != ir.Void {
				p.syntaxErrorAt(pos, fmt.Sprintf("missing return value of type %s", t))
			}
			return &ir.ReturnInstr{T: t}
		}
		return &ir.ReturnInstr{Operand: p.parseElement(), T: t}

	case p.isCall():
		return p.parseCall()

	default:
		dest := p.parseElement()
		if !p.currentIs(token.Assign) {
			p.syntaxError(fmt.Sprintf("expected ':=' after %s, got %s", dest, p.current.Type))
		}
		return p.parseAssignment(dest)
	}
}

func (p *parser) parseAssignment(dest ir.Element) *ir.AssignInstr {
	p.expect(token.Assign)

	assign := &ir.AssignInstr{Dest: dest, T: p.parseType()}
	if p.isCall() {
		assign.RHS = p.parseCall()
	} else {
		assign.RHS = p.parseOperation()
	}
	return assign
}

// Operation = "!" Type Element | Element [ operator Type Element ] .
func (p *parser) parseOperation() ir.Instruction {
	p.tracer.begin("parseOperation")
	defer p.tracer.end("parseOperation")

	if p.currentIs(token.Excl) {
		p.advance()
		p.parseType()
		return &ir.UnaryOpInstr{Op: ir.NotB, Operand: p.parseElement()}
	}

	left := p.parseElement()
	if !token.IsBinaryOperator(p.current.Type) {
		return &ir.SingleOpInstr{Operand: left}
	}

	op := ir.Operation(p.current.Literal)
	p.advance()
	p.parseType()

	return &ir.BinaryOpInstr{Op: op, Left: left, Right: p.parseElement()}
}

func (p *parser) isCall() bool {
	return p.currentIs(token.Identifier) &&
		p.nextIs(token.LParen) &&
		slices.Contains(callNames, p.current.Literal)
}

// Call = name "(" arguments ")" Type .
func (p *parser) parseCall() ir.Instruction {
	p.tracer.begin("parseCall")
	defer p.tracer.end("parseCall")

	name := p.expect(token.Identifier)
	p.expect(token.LParen)

	switch name.Literal {
	case "getfield":
		object := p.parseElement()
		p.expect(token.Comma)
		field := p.parseFieldOperand()
		p.expect(token.RParen)
		p.parseType()
		return &ir.GetFieldInstr{Object: object, Field: field}

	case "putfield":
		object := p.parseElement()
		p.expect(token.Comma)
		field := p.parseFieldOperand()
		p.expect(token.Comma)
		value := p.parseElement()
		p.expect(token.RParen)
		p.parseType()
		return &ir.PutFieldInstr{Object: object, Field: field, Value: value}

	case "new":
		if p.currentIs(token.Identifier) && p.current.Literal == "array" && p.nextIs(token.Comma) {
			p.advance()
			p.advance()
			size := p.parseElement()
			p.expect(token.RParen)
			return &ir.CallInstr{Invocation: ir.New, Args: []ir.Element{size}, Return: p.parseType()}
		}
		class := p.parseQualifiedName()
		p.expect(token.RParen)
		return &ir.CallInstr{
			Invocation: ir.New,
			Caller:     ir.NewOperand(class, ir.ClassOf(class)),
			Return:     p.parseType(),
		}

	case "ldc":
		value := p.parseElement()
		p.expect(token.RParen)
		return &ir.CallInstr{Invocation: ir.Ldc, Args: []ir.Element{value}, Return: p.parseType()}

	case "arraylength":
		array := p.parseElement()
		p.expect(token.RParen)
		return &ir.CallInstr{Invocation: ir.ArrayLength, Caller: array, Return: p.parseType()}
	}

	call := new(ir.CallInstr)
	switch name.Literal {
	case "invokestatic":
		call.Invocation = ir.InvokeStatic
	case "invokevirtual":
		call.Invocation = ir.InvokeVirtual
	default:
		call.Invocation = ir.InvokeSpecial
	}

	call.Caller = p.parseElement()
	p.expect(token.Comma)
	call.Method = p.expect(token.StringLit).Literal

	for p.currentIs(token.Comma) {
		p.advance()
		call.Args = append(call.Args, p.parseElement())
	}

	p.expect(token.RParen)
	call.Return = p.parseType()
	return call
}

func (p *parser) parseFieldOperand() *ir.Operand {
	pos := p.position()
	op, ok := p.parseElement().(*ir.Operand)
	if !ok {
		p.syntaxErrorAt(pos, "field must be a named operand")
		return ir.NewOperand("_", ir.Int32Type)
	}
	return op
}

//	Element = Literal
//	        | string
//	        | "this" [ Type ]
//	        | identifier "[" Element "]" Type
//	        | identifier [ Type ] .
func (p *parser) parseElement() ir.Element {
	switch p.current.Type {
	case token.Sub, token.Integer:
		return p.parseLiteral()

	case token.StringLit:
		v := p.current.Literal
		p.advance()
		return ir.StringLiteral(v)

	case token.Identifier:
		name := p.current.Literal
		p.advance()

		switch {
		case name == "this":
			if p.currentIs(token.Dot) {
				p.parseType()
			}
			return ir.NewOperand("this", ir.ThisOf(p.class))

		case p.currentIs(token.LBracket):
			p.advance()
			index := p.parseElement()
			p.expect(token.RBracket)
			return &ir.ArrayOperand{Name: name, Index: index, T: p.parseType()}

		case p.currentIs(token.Dot):
			return ir.NewOperand(name, p.parseType())

		default:
			// a bare name is a class, e.g. the target of invokestatic
			return ir.NewOperand(name, ir.ClassOf(name))
		}
	}

	p.syntaxError(fmt.Sprintf("expected an operand, got %s", p.current.Type))
	p.advance()
	return ir.IntLiteral(0)
}

// Literal = [ "-" ] integer Type .
func (p *parser) parseLiteral() *ir.Literal {
	negative := false
	if p.currentIs(token.Sub) {
		negative = true
		p.advance()
	}

	tok := p.expect(token.Integer)

	var (
		v   constant.Value
		err error
	)
	if negative {
		v, err = constant.ParseInt("-" + tok.Literal)
	} else {
		v, err = constant.FromLiteral(tok)
	}
	if err != nil {
		p.syntaxErrorAt(tok.Position, err.Error())
		v = constant.MakeInt(0)
	}

	t := p.parseType()
	if t.Kind == ir.Boolean {
		b, _ := constant.AsBool(v)
		return ir.BoolLiteral(b)
	}
	return &ir.Literal{Value: v, T: t}
}

func (p *parser) currentIs(t token.Type) bool {
	return p.current.Type == t
}

func (p *parser) nextIs(t token.Type) bool {
	return p.next.Type == t
}

// advance advances the current token and populates the next token using the TokenSource.
func (p *parser) advance() {
	p.current = p.next
	p.next = p.tokens.Next()
}

// expect consumes the current token, reporting an error if it is not of type t.
func (p *parser) expect(t token.Type) token.Token {
	tok := p.current
	if tok.Type != t {
		p.syntaxError(fmt.Sprintf("expected '%s', got '%s'", t, tok.Literal))
	}
	p.advance()
	return tok
}

func (p *parser) position() token.Position {
	return p.current.Position
}

func (p *parser) syntaxError(message string) {
	p.syntaxErrorAt(p.position(), message)
}

func (p *parser) syntaxErrorAt(pos token.Position, message string) {
	p.errHandler(fmt.Errorf("%d:%d: syntax error: %s", pos.Row, pos.Col, message))
}
