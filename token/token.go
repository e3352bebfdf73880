// Package token defines the lexical tokens of the textual IR.
package token

import (
	"fmt"
)

const (
	// CONTROL

	Illegal = "Illegal"
	EOF     = "EOF"

	// Identifiers & Literals

	Identifier = "Identifier"

	Integer   = "Integer"
	StringLit = "String"

	// Comments

	Comment = "Line Comment"

	// Assignment & Operators

	Assign = ":="
	EqSign = "="

	Mul        = "*"
	Div        = "/"
	Sum        = "+"
	Sub        = "-"
	LogicalOr  = "||"
	LogicalAnd = "&&"
	Excl       = "!"

	LessThan         = "<"
	GreaterThan      = ">"
	Equal            = "=="
	NotEqual         = "!="
	LessThanEqual    = "<="
	GreaterThanEqual = ">="

	// Delimiters

	Dot       = "."
	Colon     = ":"
	Comma     = ","
	Semicolon = ";"
	LParen    = "("
	RParen    = ")"
	LBrace    = "{"
	RBrace    = "}"
	LBracket  = "["
	RBracket  = "]"

	// Keywords

	Import  = "import"
	Extends = "extends"
	If      = "if"
	Goto    = "goto"
)

// Words such as ret, field or method are not reserved. They are valid
// variable names in the source language and are recognized by the parser
// from their position instead.
var keywords = map[string]Type{
	"import":  Import,
	"extends": Extends,
	"if":      If,
	"goto":    Goto,
}

type Type string

// Token defines a valid IR token.
// Literal contains the token's unchanged literal value as written in the IR text,
// string literals exclude the surrounding quotes.
type Token struct {
	Type     Type
	Literal  string
	Position Position
}

type Position struct {
	Row, Col int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Row, p.Col)
}

func (t Token) String() string {
	return fmt.Sprintf(
		"TypeID='%s', Literal='%s', Row='%d' Col='%d'",
		t.Type, t.Literal, t.Position.Row, t.Position.Col,
	)
}

// LookupIdentifier checks if the supplied identifier is a reserved keyword.
func LookupIdentifier(ident string) Type {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return Identifier
}

// BinaryOperators lists the operator tokens of binary IR instructions.
var BinaryOperators = []Type{
	Sum,
	Sub,
	Mul,
	Div,
	LessThan,
	GreaterThan,
	LessThanEqual,
	GreaterThanEqual,
	Equal,
	NotEqual,
	LogicalAnd,
	LogicalOr,
}

// IsBinaryOperator reports whether t is in BinaryOperators.
func IsBinaryOperator(t Type) bool {
	for _, op := range BinaryOperators {
		if op == t {
			return true
		}
	}
	return false
}
