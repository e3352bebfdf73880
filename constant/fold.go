package constant

// Fold evaluates the binary operator op on two constants. The second
// result is false when the operation cannot be evaluated at compile time,
// either because op is unknown, the operands do not fit the operator or
// the operation would trap at run time (division by zero).
//
// Arithmetic wraps around on overflow and division truncates toward
// zero, exactly like iadd, isub, imul and idiv.
func Fold(op string, a, b Value) (Value, bool) {
	switch op {
	case "+", "-", "*", "/", "<", ">", "<=", ">=":
		x, errX := AsInt(a)
		y, errY := AsInt(b)
		if errX != nil || errY != nil {
			return nil, false
		}
		return foldInt(op, x, y)
	case "==", "!=":
		x, errX := AsInt(a)
		y, errY := AsInt(b)
		if errX != nil || errY != nil {
			return nil, false
		}
		return MakeBool((x == y) == (op == "==")), true
	case "&&", "||":
		x, errX := AsBool(a)
		y, errY := AsBool(b)
		if errX != nil || errY != nil {
			return nil, false
		}
		if op == "&&" {
			return MakeBool(x && y), true
		}
		return MakeBool(x || y), true
	}
	return nil, false
}

// FoldUnary evaluates the prefix operator op on a constant.
func FoldUnary(op string, a Value) (Value, bool) {
	switch op {
	case "!":
		v, err := AsBool(a)
		if err != nil {
			return nil, false
		}
		return MakeBool(!v), true
	case "-":
		v, err := AsInt(a)
		if err != nil {
			return nil, false
		}
		return MakeInt(-v), true
	}
	return nil, false
}

func foldInt(op string, x, y int32) (Value, bool) {
	switch op {
	case "+":
		return MakeInt(x + y), true
	case "-":
		return MakeInt(x - y), true
	case "*":
		return MakeInt(x * y), true
	case "/":
		if y == 0 {
			return nil, false
		}
		// MinInt32 / -1 overflows back to MinInt32 on the JVM
		if y == -1 {
			return MakeInt(-x), true
		}
		return MakeInt(x / y), true
	case "<":
		return MakeBool(x < y), true
	case ">":
		return MakeBool(x > y), true
	case "<=":
		return MakeBool(x <= y), true
	case ">=":
		return MakeBool(x >= y), true
	}
	return nil, false
}
