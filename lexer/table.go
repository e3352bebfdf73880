package lexer

import (
	"github.com/c0depwn/jmmc/token"
)

// The following is a finite-state-machine used to detect tokens
// in IR text.
// The current state and the next character which is read
// is used to transition to the next using the transition functions.
//
// The state transitions are stored in the transitions array and initialized
// using the initTransitionTable function.
//
// The state resulting from the transition can be one of the following:
// - 0, which means that the subsequent state is invalid
// - a valid lexerState, which potentially results in a token.Token

type lexerState = uint

const (
	start lexerState = iota

	stateColon
	stateAssign
	stateNot

	stateMul
	stateDiv
	stateSum
	stateSub
	stateAmpersand
	statePipe
	stateLogicAnd
	stateLogicOr

	stateEqSign
	stateEq
	stateNotEq
	stateGreaterThan
	stateGreaterThanEq
	stateLessThan
	stateLessThanEq

	stateDot
	stateComma
	stateSemicolon
	stateLParen
	stateRParen
	stateLBrace
	stateRBrace
	stateLBracket
	stateRBracket

	stateIdentifier
	stateIntDecLiteral
	stateQuote
	statePartialStringLiteral
	stateStringLiteral

	stateComment
)

// MaxStates stores the maximum number of instances of lexerState
const (
	MaxStates = 48
	MaxChars  = 1 << 8
)

type (
	transitionTable = [MaxStates][MaxChars]uint
	stateTokenType  = [MaxStates]token.Type
)

var (
	// transitions stores the state transitions for the finite-state-machine
	// which is used to recognize tokens.
	transitions = initTransitionTable()
	// stateTokenTypeMap maps a lexerState to a token.Type
	stateTokenTypeMap = initStateTokenType()
)

// initTransitionTable initializes the state transition table
// for the finite-state-machine used to recognize tokens.
func initTransitionTable() transitionTable {
	transitions := transitionTable{}

	registerIdentifier(&transitions)
	registerIntLiteral(&transitions)
	registerStringLiteral(&transitions)
	registerComment(&transitions)

	transitions[start][':'] = stateColon
	transitions[start]['='] = stateEqSign
	transitions[start]['!'] = stateNot
	transitions[start]['*'] = stateMul
	transitions[start]['/'] = stateDiv
	transitions[start]['+'] = stateSum
	transitions[start]['-'] = stateSub
	transitions[start]['<'] = stateLessThan
	transitions[start]['>'] = stateGreaterThan
	transitions[start]['&'] = stateAmpersand
	transitions[start]['|'] = statePipe
	transitions[start]['.'] = stateDot
	transitions[start][','] = stateComma
	transitions[start][';'] = stateSemicolon
	transitions[start]['('] = stateLParen
	transitions[start][')'] = stateRParen
	transitions[start]['{'] = stateLBrace
	transitions[start]['}'] = stateRBrace
	transitions[start]['['] = stateLBracket
	transitions[start][']'] = stateRBracket

	transitions[stateColon]['='] = stateAssign
	transitions[stateAmpersand]['&'] = stateLogicAnd
	transitions[statePipe]['|'] = stateLogicOr

	transitions[stateEqSign]['='] = stateEq
	transitions[stateNot]['='] = stateNotEq
	transitions[stateLessThan]['='] = stateLessThanEq
	transitions[stateGreaterThan]['='] = stateGreaterThanEq

	return transitions
}

func initStateTokenType() stateTokenType {
	m := stateTokenType{}

	// control
	m[0] = token.EOF

	// id
	m[stateIdentifier] = token.Identifier

	// literals
	m[stateIntDecLiteral] = token.Integer
	m[stateStringLiteral] = token.StringLit

	// operators
	m[stateAssign] = token.Assign
	m[stateEqSign] = token.EqSign
	m[stateNot] = token.Excl
	m[stateMul] = token.Mul
	m[stateDiv] = token.Div
	m[stateSum] = token.Sum
	m[stateSub] = token.Sub
	m[stateLogicAnd] = token.LogicalAnd
	m[stateLogicOr] = token.LogicalOr

	// relational
	m[stateLessThan] = token.LessThan
	m[stateGreaterThan] = token.GreaterThan
	m[stateEq] = token.Equal
	m[stateLessThanEq] = token.LessThanEqual
	m[stateGreaterThanEq] = token.GreaterThanEqual
	m[stateNotEq] = token.NotEqual

	// delimiters
	m[stateColon] = token.Colon
	m[stateDot] = token.Dot
	m[stateComma] = token.Comma
	m[stateSemicolon] = token.Semicolon
	m[stateLParen] = token.LParen
	m[stateRParen] = token.RParen
	m[stateLBrace] = token.LBrace
	m[stateRBrace] = token.RBrace
	m[stateLBracket] = token.LBracket
	m[stateRBracket] = token.RBracket

	m[stateComment] = token.Comment

	return m
}

func fromState(
	state lexerState,
	literal string,
	r, c int,
) token.Token {
	tokenType := stateTokenTypeMap[state]

	// some identifiers are keywords
	if tokenType == token.Identifier {
		tokenType = token.LookupIdentifier(literal)
	}

	return token.Token{
		Type:     tokenType,
		Literal:  literal,
		Position: token.Position{Row: r, Col: c},
	}
}

func registerIdentifier(transitions *transitionTable) {
	// identifiers have the form /([a-zA-Z_$])([a-zA-Z0-9_$])*/,
	// the constructor name <init> only ever appears inside a string literal
	for i := 'a'; i <= 'z'; i++ {
		transitions[start][i] = stateIdentifier
		transitions[stateIdentifier][i] = stateIdentifier
	}

	for i := 'A'; i <= 'Z'; i++ {
		transitions[start][i] = stateIdentifier
		transitions[stateIdentifier][i] = stateIdentifier
	}

	for i := '0'; i <= '9'; i++ {
		transitions[stateIdentifier][i] = stateIdentifier
	}

	for _, c := range "_$" {
		transitions[start][c] = stateIdentifier
		transitions[stateIdentifier][c] = stateIdentifier
	}
}

func registerIntLiteral(transitions *transitionTable) {
	// decimal integer literals have the form /([0-9])+/,
	// the sign is a separate token
	for i := '0'; i <= '9'; i++ {
		transitions[start][i] = stateIntDecLiteral
		transitions[stateIntDecLiteral][i] = stateIntDecLiteral
	}
}

// string literals are not interpreted, there is no escaping using \.
func registerStringLiteral(transitions *transitionTable) {
	// begin with a double quote
	transitions[start]['"'] = stateQuote

	// any character (ascii) except newlines and the end of the input
	for i := 1; i <= 255; i++ {
		if i == '\n' {
			continue
		}
		transitions[stateQuote][i] = statePartialStringLiteral
		transitions[statePartialStringLiteral][i] = statePartialStringLiteral
	}

	// end with a double quote
	transitions[stateQuote]['"'] = stateStringLiteral
	transitions[statePartialStringLiteral]['"'] = stateStringLiteral
}

func registerComment(transitions *transitionTable) {
	// "//" is the comment delimiter
	transitions[stateDiv]['/'] = stateComment
	// any character can be in a comment
	for i := 0; i <= 127; i++ {
		transitions[stateComment][i] = stateComment
	}
	// a newline indicates the end of a comment
	transitions[stateComment]['\n'] = 0
	// as does the end of the input
	transitions[stateComment][0] = 0
}
