package jasmin

import (
	"fmt"
	"github.com/c0depwn/jmmc/ir"
)

// variable describes the local slot of a parameter, local or temporary.
type variable struct {
	slot  int
	param bool
	t     ir.Type
}

// frame maps the names of a method to their local slots. It is built once
// before the method is translated and not changed afterwards.
type frame struct {
	vars map[string]variable
	// size is the number of slots, the .limit locals of the method
	size int
}

// buildFrame assigns slots: this at 0 for instance methods, the parameters
// and the declared locals in declaration order, then every other assigned
// name, i.e. the temporaries, in order of its first definition.
func buildFrame(m *ir.Method) *frame {
	f := &frame{vars: make(map[string]variable)}

	if !m.Static {
		f.add("this", true, ir.ThisOf(""))
	}
	for _, p := range m.Params {
		if _, exists := f.vars[p.Name]; exists {
			panic(fmt.Errorf("%w: parameter %s declared twice in %s", ErrUnsupported, p.Name, m.Name))
		}
		f.add(p.Name, true, p.T)
	}
	for _, l := range m.Locals {
		if _, exists := f.vars[l.Name]; exists {
			panic(fmt.Errorf("%w: local %s declared twice in %s", ErrUnsupported, l.Name, m.Name))
		}
		f.add(l.Name, false, l.T)
	}

	// fields are written with putfield, an assigned operand is always a
	// variable of the method
	for _, stmt := range m.Body {
		assign, ok := stmt.Instr.(*ir.AssignInstr)
		if !ok {
			continue
		}
		dest, ok := assign.Dest.(*ir.Operand)
		if !ok {
			continue
		}
		if _, exists := f.vars[dest.Name]; exists {
			continue
		}
		f.add(dest.Name, false, dest.T)
	}

	return f
}

func (f *frame) add(name string, param bool, t ir.Type) {
	f.vars[name] = variable{slot: f.size, param: param, t: t}
	f.size++
}

func (f *frame) lookup(name string) (variable, bool) {
	v, ok := f.vars[name]
	return v, ok
}

// stack tracks the operand stack depth of one method.
type stack struct {
	current int
	limit   int
}

func (s *stack) push(n int) {
	s.current += n
	if s.current > s.limit {
		s.limit = s.current
	}
}

func (s *stack) pop(n int) {
	s.current -= n
	if s.current < 0 {
		panic(fmt.Errorf("operand stack underflow, depth %d", s.current))
	}
}

// isPowerOfTwo returns k with 2^k == n for positive n.
func isPowerOfTwo(n int32) (int, bool) {
	if n <= 0 || n&(n-1) != 0 {
		return 0, false
	}
	k := 0
	for n > 1 {
		n >>= 1
		k++
	}
	return k, true
}
