package ollir

import (
	"fmt"
	"github.com/c0depwn/jmmc/ir"
	"github.com/c0depwn/jmmc/symbols"
)

// environment is the state of the method being lowered. Every method
// declaration uses a new environment, so temporaries restart at 0.
type environment struct {
	class  string
	method string
	static bool
	table  *symbols.Table

	temps int

	body []ir.Statement
	// pending labels are attached to the next emitted instruction
	pending []string
}

func newEnvironment(class, method string, static bool, table *symbols.Table) *environment {
	return &environment{
		class:  class,
		method: method,
		static: static,
		table:  table,
	}
}

func (e *environment) emit(instrs ...ir.Instruction) {
	for _, instr := range instrs {
		e.body = append(e.body, ir.Statement{Labels: e.pending, Instr: instr})
		e.pending = nil
	}
}

func (e *environment) label(l string) {
	e.pending = append(e.pending, l)
}

// temp provides a fresh temporary of type t. Names already declared by
// the program are skipped.
func (e *environment) temp(t ir.Type) *ir.Operand {
	for {
		name := fmt.Sprintf("temp_%d", e.temps)
		e.temps++
		if _, _, taken := e.lookup(name); !taken {
			return ir.NewOperand(name, t)
		}
	}
}

func (e *environment) lookup(name string) (symbols.Symbol, symbols.Scope, bool) {
	return e.table.Lookup(e.method, name)
}

// variable returns the operand of a local variable or parameter. Fields
// are not variables, they need an explicit getfield.
func (e *environment) variable(name string) (*ir.Operand, bool) {
	symbol, scope, ok := e.lookup(name)
	if !ok || scope == symbols.Field {
		return nil, false
	}
	return ir.NewOperand(name, ir.FromSource(symbol.Type)), true
}

func (e *environment) this() *ir.Operand {
	return ir.NewOperand("this", ir.ThisOf(e.class))
}

func (e *environment) mustBeInstance(field string) {
	if e.static {
		panic(fmt.Errorf("%w: field %s used in static method %s", ErrUnsupported, field, e.method))
	}
}
