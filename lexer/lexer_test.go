package lexer

import (
	"github.com/c0depwn/jmmc/token"
	"strings"
	"testing"
)

func TestLexer_Next(t *testing.T) {
	program := `
import io;
Simple extends Base {
	.method public foo(a.i32).i32 {
		t.i32 :=.i32 a.i32 +.i32 -5.i32;
		invokestatic(io, "println", t.i32).V;
		ret.i32 t.i32;
	}
}
`

	expect := []token.Token{
		{Type: token.Import, Literal: "import"},
		{Type: token.Identifier, Literal: "io"},
		{Type: token.Semicolon, Literal: ";"},

		{Type: token.Identifier, Literal: "Simple"},
		{Type: token.Extends, Literal: "extends"},
		{Type: token.Identifier, Literal: "Base"},
		{Type: token.LBrace, Literal: "{"},

		{Type: token.Dot, Literal: "."},
		{Type: token.Identifier, Literal: "method"},
		{Type: token.Identifier, Literal: "public"},
		{Type: token.Identifier, Literal: "foo"},
		{Type: token.LParen, Literal: "("},
		{Type: token.Identifier, Literal: "a"},
		{Type: token.Dot, Literal: "."},
		{Type: token.Identifier, Literal: "i32"},
		{Type: token.RParen, Literal: ")"},
		{Type: token.Dot, Literal: "."},
		{Type: token.Identifier, Literal: "i32"},
		{Type: token.LBrace, Literal: "{"},

		{Type: token.Identifier, Literal: "t"},
		{Type: token.Dot, Literal: "."},
		{Type: token.Identifier, Literal: "i32"},
		{Type: token.Assign, Literal: ":="},
		{Type: token.Dot, Literal: "."},
		{Type: token.Identifier, Literal: "i32"},
		{Type: token.Identifier, Literal: "a"},
		{Type: token.Dot, Literal: "."},
		{Type: token.Identifier, Literal: "i32"},
		{Type: token.Sum, Literal: "+"},
		{Type: token.Dot, Literal: "."},
		{Type: token.Identifier, Literal: "i32"},
		{Type: token.Sub, Literal: "-"},
		{Type: token.Integer, Literal: "5"},
		{Type: token.Dot, Literal: "."},
		{Type: token.Identifier, Literal: "i32"},
		{Type: token.Semicolon, Literal: ";"},

		{Type: token.Identifier, Literal: "invokestatic"},
		{Type: token.LParen, Literal: "("},
		{Type: token.Identifier, Literal: "io"},
		{Type: token.Comma, Literal: ","},
		{Type: token.StringLit, Literal: "println"},
		{Type: token.Comma, Literal: ","},
		{Type: token.Identifier, Literal: "t"},
		{Type: token.Dot, Literal: "."},
		{Type: token.Identifier, Literal: "i32"},
		{Type: token.RParen, Literal: ")"},
		{Type: token.Dot, Literal: "."},
		{Type: token.Identifier, Literal: "V"},
		{Type: token.Semicolon, Literal: ";"},

		{Type: token.Identifier, Literal: "ret"},
		{Type: token.Dot, Literal: "."},
		{Type: token.Identifier, Literal: "i32"},
		{Type: token.Identifier, Literal: "t"},
		{Type: token.Dot, Literal: "."},
		{Type: token.Identifier, Literal: "i32"},
		{Type: token.Semicolon, Literal: ";"},

		{Type: token.RBrace, Literal: "}"},
		{Type: token.RBrace, Literal: "}"},

		{Type: token.EOF, Literal: ""},
	}

	l := New(strings.NewReader(program))

	for i, test := range expect {
		next := l.Next()

		if next.Type != test.Type {
			t.Fatalf("#%d bad token type: expected %s, got %s", i, test.Type, next.Type)
		}
		if next.Literal != test.Literal {
			t.Fatalf("#%d bad token literal: expected %s, got %s", i, test.Literal, next.Literal)
		}
	}
}

func TestLexer_Empty(t *testing.T) {
	l := New(strings.NewReader(``))
	if next := l.Next(); next.Type != token.EOF {
		t.Fatalf("expected EOF, got '%v'", next)
	}
}

func TestLexer_OperatorTokens(t *testing.T) {
	cases := []struct {
		input  string
		expect token.Token
	}{
		{input: ":=", expect: token.Token{Type: token.Assign, Literal: ":="}},
		{input: ":", expect: token.Token{Type: token.Colon, Literal: ":"}},
		{input: "=", expect: token.Token{Type: token.EqSign, Literal: "="}},
		{input: "&&", expect: token.Token{Type: token.LogicalAnd, Literal: "&&"}},
		{input: "||", expect: token.Token{Type: token.LogicalOr, Literal: "||"}},
		{input: "!", expect: token.Token{Type: token.Excl, Literal: "!"}},
		{input: "<", expect: token.Token{Type: token.LessThan, Literal: "<"}},
		{input: "<=", expect: token.Token{Type: token.LessThanEqual, Literal: "<="}},
		{input: ">", expect: token.Token{Type: token.GreaterThan, Literal: ">"}},
		{input: ">=", expect: token.Token{Type: token.GreaterThanEqual, Literal: ">="}},
		{input: "==", expect: token.Token{Type: token.Equal, Literal: "=="}},
		{input: "!=", expect: token.Token{Type: token.NotEqual, Literal: "!="}},
		{input: "*", expect: token.Token{Type: token.Mul, Literal: "*"}},
		{input: "/", expect: token.Token{Type: token.Div, Literal: "/"}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			l := New(strings.NewReader(tc.input))
			expectSingleToken(t, l, tc.expect)
		})
	}
}

func TestLexer_Literals(t *testing.T) {
	cases := []struct {
		input  string
		expect token.Token
	}{
		{input: "0", expect: token.Token{Type: token.Integer, Literal: "0"}},
		{input: "32768", expect: token.Token{Type: token.Integer, Literal: "32768"}},
		{input: `"<init>"`, expect: token.Token{Type: token.StringLit, Literal: "<init>"}},
		{input: `"hello world"`, expect: token.Token{Type: token.StringLit, Literal: "hello world"}},
		{input: "temp_0", expect: token.Token{Type: token.Identifier, Literal: "temp_0"}},
		{input: "$a1", expect: token.Token{Type: token.Identifier, Literal: "$a1"}},
		{input: "ret", expect: token.Token{Type: token.Identifier, Literal: "ret"}},
		{input: "goto", expect: token.Token{Type: token.Goto, Literal: "goto"}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			l := New(strings.NewReader(tc.input))
			expectSingleToken(t, l, tc.expect)
		})
	}
}

func TestLexer_Illegal(t *testing.T) {
	cases := []string{"&", "|", "@", "#", `"unterminated`}

	for _, input := range cases {
		t.Run(input, func(t *testing.T) {
			l := New(strings.NewReader(input))
			if next := l.Next(); next.Type != token.Illegal {
				t.Fatalf("expected illegal token, got '%v'", next)
			}
		})
	}
}

func TestLexer_Comment(t *testing.T) {
	l := New(strings.NewReader("// header\ngoto L;"))

	tokens := l.All()
	if len(tokens) != 3 {
		t.Fatalf("expected 3 tokens, got %d: %v", len(tokens), tokens)
	}
	if tokens[0].Type != token.Goto {
		t.Fatalf("expected goto, got %v", tokens[0])
	}
}

func TestLexer_Position(t *testing.T) {
	l := New(strings.NewReader("a\n  b"))

	first := l.Next()
	if first.Position != (token.Position{Row: 1, Col: 1}) {
		t.Fatalf("bad position for %v", first)
	}
	second := l.Next()
	if second.Position != (token.Position{Row: 2, Col: 3}) {
		t.Fatalf("bad position for %v", second)
	}
}

func expectSingleToken(t *testing.T, l *Lexer, expect token.Token) {
	actualToken := l.Next()

	if actualToken.Type != expect.Type {
		t.Fatalf("expected '%+v', got '%+v", expect, actualToken)
	}

	if actualToken.Literal != expect.Literal {
		t.Fatalf("expected '%+v', got '%+v", expect, actualToken)
	}

	next := l.Next()
	if next.Type != token.EOF {
		t.Fatalf("expected EOF, got '%v'", next)
	}
}
