// Package constant implements the compile-time values of the IR and
// the arithmetic used to fold them. Integers are 32 bit two's complement,
// matching the JVM int type.
package constant

import (
	"errors"
	"fmt"
	"github.com/c0depwn/jmmc/token"
	"math"
	"strconv"
)

type Type int

const (
	Illegal = Type(iota)
	Bool
	String
	Int
)

func (t Type) String() string {
	switch t {
	case Illegal:
		return "illegal"
	case Int:
		return "int"
	case String:
		return "string"
	case Bool:
		return "bool"
	default:
		panic("unknown type")
	}
}

type Value interface {
	// Type returns the Type of the Value.
	Type() Type
	// String returns the literal of the Value as it appears in IR text.
	String() string
}

// FromLiteral converts an integer or string literal token of the IR text.
func FromLiteral(literal token.Token) (Value, error) {
	switch literal.Type {
	case token.Integer:
		return ParseInt(literal.Literal)
	case token.StringLit:
		return MakeString(literal.Literal), nil
	default:
		return nil, fmt.Errorf("unexpected literal token type %s", literal.Type)
	}
}

// ParseInt parses a decimal literal. Values outside the int32 range
// are rejected rather than wrapped.
func ParseInt(literal string) (Value, error) {
	v, err := strconv.ParseInt(literal, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s is not a valid integer: %w", literal, err)
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return nil, fmt.Errorf("%s does not fit in 32 bits", literal)
	}
	return MakeInt(int32(v)), nil
}

func AsInt(value Value) (int32, error) {
	switch v := value.(type) {
	case intValue:
		return v.v, nil
	case boolValue:
		// booleans are ints on the JVM
		if v.v {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, errors.New("value is not an integer")
	}
}

func AsBool(value Value) (bool, error) {
	switch v := value.(type) {
	case boolValue:
		return v.v, nil
	case intValue:
		return v.v != 0, nil
	default:
		return false, errors.New("value is not a boolean")
	}
}

type boolValue struct {
	v bool
}

func (b boolValue) Type() Type { return Bool }

func (b boolValue) String() string {
	if b.v {
		return "1"
	}
	return "0"
}

type stringValue struct {
	v string
}

func (str stringValue) Type() Type     { return String }
func (str stringValue) String() string { return strconv.Quote(str.v) }

type intValue struct {
	v int32
}

func (iv intValue) Type() Type     { return Int }
func (iv intValue) String() string { return strconv.FormatInt(int64(iv.v), 10) }
