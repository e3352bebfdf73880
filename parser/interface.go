// Package parser reads IR text back into an [*ir.Class].
package parser

import (
	"errors"
	"github.com/c0depwn/jmmc/ir"
	"github.com/c0depwn/jmmc/lexer"
	"github.com/c0depwn/jmmc/pkg/ext"
	"io"
)

// The ErrorHandler decides what to do when an error is encountered during parsing.
type ErrorHandler func(err error)

// PanicErrHandler simply panics on the first error which is encountered during parsing.
func PanicErrHandler(err error) { panic(err) }

// LexerTokenSource provides a TokenSource which is implemented by the [lexer] package.
// Comments will automatically be ignored when using LexerTokenSource.
func LexerTokenSource(r io.Reader) TokenSource {
	return ignoreCommentsFrom(lexer.New(r))
}

// Option defines the type for parser customization options.
type Option func(*parser)

// EnableTrace writes a trace of the called parser functions to the provided io.Writer.
func EnableTrace(out io.Writer) Option {
	return func(p *parser) { p.tracer = newTracer(out) }
}

// ParseClass using the provided TokenSource and ErrorHandler.
func ParseClass(src TokenSource, errHandler ErrorHandler, opts ...Option) (c *ir.Class, err error) {
	if src == nil {
		return nil, errors.New("token source cannot be nil")
	}
	if errHandler == nil {
		return nil, errors.New("error handler cannot be nil")
	}

	p := newParser(src, errHandler)

	for _, option := range opts {
		option(p)
	}

	err = ext.CatchPanic(func() {
		c = p.parse()
	})

	return c, err
}

// Parse reads IR text from r, stopping at the first error.
func Parse(r io.Reader, opts ...Option) (*ir.Class, error) {
	return ParseClass(LexerTokenSource(r), PanicErrHandler, opts...)
}

func newParser(src TokenSource, errH ErrorHandler) *parser {
	p := new(parser)
	p.tokens = src
	p.errHandler = errH
	p.tracer = dummyTracer{}

	// pre-fill current and lookahead token
	p.advance()
	p.advance()

	return p
}
