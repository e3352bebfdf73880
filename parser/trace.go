package parser

import (
	"fmt"
	"io"
	"strings"
)

// tracerI defines the required functionality
// for trace generation within the parser.
type tracerI interface {
	begin(string)
	end(string)
}

const (
	traceIndent    = "  "
	traceMarkerBeg = ">"
	traceMarkerEnd = "<"
)

// tracer writes generated traces to the configured io.Writer.
type tracer struct {
	depth int
	out   io.Writer
}

func newTracer(out io.Writer) *tracer {
	return &tracer{out: out}
}

func (t *tracer) begin(msg string) {
	t.depth++
	t.write(traceMarkerBeg, msg)
}

func (t *tracer) end(msg string) {
	t.write(traceMarkerEnd, msg)
	t.depth--
}

func (t *tracer) write(marker, msg string) {
	_, _ = fmt.Fprintf(t.out, "%s%s %s\n", strings.Repeat(traceIndent, t.depth), marker, msg)
}

// dummyTracer ignores tracing.
type dummyTracer struct{}

func (dummyTracer) begin(_ string) {}

func (dummyTracer) end(_ string) {}
