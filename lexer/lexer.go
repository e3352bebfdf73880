// Package lexer splits IR text into tokens.
package lexer

import (
	"bufio"
	"fmt"
	"github.com/c0depwn/jmmc/token"
	"io"
)

// The Lexer reads IR text and produces lexical tokens.
type Lexer struct {
	// char is the current character which is being examined
	char byte
	// src is the source from which the Lexer is reading the input
	src *bufio.Reader
	// row and column point to the beginning of the last read token.Token
	// in the source.
	row, column int
	// stack contains the characters consumed from the source
	// which are being matched to a token.
	stack *stack
}

// New creates and initializes the Lexer.
func New(src io.Reader) *Lexer {
	return &Lexer{
		src:    bufio.NewReader(src),
		char:   0,
		row:    1,
		column: 1,
		stack:  newStack(),
	}
}

// Next reads the underlying source until a token is discovered.
// When the underlying source has been read to completion a
// token.Token of token.Type token.EOF is returned.
// When the Lexer is unable to recognize a token.Token,
// a token.Token of token.Type token.Illegal is returned.
func (l *Lexer) Next() token.Token {
	l.skipWhitespace()

	state := start
	l.stack.clear()
	row, column := l.row, l.column

	for {
		next := l.peekChar()
		nextState := transitions[state][next]

		// if the next state is invalid, the current state is a potential
		// accepting state which can be mapped to a token.Token
		if nextState == 0 {
			// a character which cannot start any token
			if state == start && next != 0 {
				l.stack.push(l.readChar())
				return token.Token{
					Type:     token.Illegal,
					Literal:  l.stack.String(),
					Position: token.Position{Row: row, Col: column},
				}
			}
			break
		}

		l.readChar()

		// push current character onto stack for literal construction
		if !l.shouldExclude(state, l.char) {
			l.stack.push(l.char)
		}

		state = nextState
	}

	return constructToken(state, l.stack.String(), row, column)
}

// All reads tokens until EOF (exclusive). Comments are dropped.
func (l *Lexer) All() []token.Token {
	var tokens []token.Token
	for {
		t := l.Next()
		if t.Type == token.EOF {
			return tokens
		}
		if t.Type == token.Comment {
			continue
		}
		tokens = append(tokens, t)
	}
}

func constructToken(state lexerState, literal string, r, c int) token.Token {
	t := fromState(state, literal, r, c)

	if t.Type == "" {
		return token.Token{
			Type:     token.Illegal,
			Literal:  literal,
			Position: token.Position{Row: r, Col: c},
		}
	}

	return t
}

func (l *Lexer) readChar() byte {
	b, err := readASCIIChar(l.src)
	if err != nil {
		panic(err)
	}

	l.char = b
	l.row, l.column = updatePosition(b, l.row, l.column)

	return b
}

func (l *Lexer) peekChar() byte {
	buf, err := l.src.Peek(1)
	if err != nil && err != io.EOF {
		panic(fmt.Errorf("could not peek char: %v", err))
	}
	if err == io.EOF {
		return 0
	}

	return buf[0]
}

func (l *Lexer) skipWhitespace() {
	for p := l.peekChar(); isWhitespace(p); p = l.peekChar() {
		l.readChar()
	}
}

func updatePosition(char byte, row, col int) (int, int) {
	switch char {
	case '\n':
		return row + 1, 1
	case '\t':
		return row, col + 4
	}
	return row, col + 1
}

// shouldExclude decides whether the character should be added to the literal stack or not.
// The double quotes delimiting string literals are not part of the literal.
func (l *Lexer) shouldExclude(state lexerState, char byte) bool {
	return char == '"' && (state == start || state == stateQuote || state == statePartialStringLiteral)
}
