// Package codegen holds the state shared by the code generation passes
// of one compilation unit.
package codegen

import "fmt"

// Labels hands out label ids which are unique within one compilation
// unit. The IR generator and the bytecode translator of a unit must
// share the same Labels.
type Labels struct {
	next int
}

func NewLabels() *Labels {
	return &Labels{}
}

// Next returns one label per prefix, all suffixed with the same fresh id,
// e.g. Next("Then", "End") yields Then_3 and End_3.
func (l *Labels) Next(prefixes ...string) []string {
	id := l.next
	l.next++

	labels := make([]string, len(prefixes))
	for i, p := range prefixes {
		labels[i] = fmt.Sprintf("%s_%d", p, id)
	}
	return labels
}

// SkipTo makes sure ids below id are not handed out anymore.
func (l *Labels) SkipTo(id int) {
	if id > l.next {
		l.next = id
	}
}

// Issued returns the number of ids handed out so far.
func (l *Labels) Issued() int { return l.next }
