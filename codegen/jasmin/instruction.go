package jasmin

import (
	"fmt"
	"github.com/c0depwn/jmmc/ir"
)

// pushInt selects the shortest instruction pushing v.
func pushInt(v int32) string {
	switch {
	case v == -1:
		return "iconst_m1"
	case v >= 0 && v <= 5:
		return fmt.Sprintf("iconst_%d", v)
	case v >= -128 && v <= 127:
		return fmt.Sprintf("bipush %d", v)
	case v >= -32768 && v <= 32767:
		return fmt.Sprintf("sipush %d", v)
	default:
		return fmt.Sprintf("ldc %d", v)
	}
}

// slotInstr uses the short form for the slots 0 to 3, e.g. iload_2.
func slotInstr(mnemonic string, slot int) string {
	if slot <= 3 {
		return fmt.Sprintf("%s_%d", mnemonic, slot)
	}
	return fmt.Sprintf("%s %d", mnemonic, slot)
}

func load(v variable) string {
	if v.t.IsReference() {
		return slotInstr("aload", v.slot)
	}
	return slotInstr("iload", v.slot)
}

func store(v variable) string {
	if v.t.IsReference() {
		return slotInstr("astore", v.slot)
	}
	return slotInstr("istore", v.slot)
}

func arrayLoad(elem ir.Type) string {
	switch {
	case elem.IsReference():
		return "aaload"
	case elem.Kind == ir.Boolean:
		return "baload"
	default:
		return "iaload"
	}
}

func arrayStore(elem ir.Type) string {
	switch {
	case elem.IsReference():
		return "aastore"
	case elem.Kind == ir.Boolean:
		return "bastore"
	default:
		return "iastore"
	}
}

func returnOf(t ir.Type) string {
	switch {
	case t.Kind == ir.Void:
		return "return"
	case t.IsReference():
		return "areturn"
	default:
		return "ireturn"
	}
}

// condition returns the suffix of the if<cond> and if_icmp<cond> family.
func condition(op ir.Operation) string {
	switch op {
	case ir.Lt:
		return "lt"
	case ir.Gt:
		return "gt"
	case ir.Le:
		return "le"
	case ir.Ge:
		return "ge"
	case ir.Eq:
		return "eq"
	case ir.Neq:
		return "ne"
	default:
		panic(fmt.Errorf("%w: '%s' is not a comparison", ErrUnsupported, op))
	}
}

// mirror returns the comparison which holds for swapped operands,
// a < b is b > a.
func mirror(op ir.Operation) ir.Operation {
	switch op {
	case ir.Lt:
		return ir.Gt
	case ir.Gt:
		return ir.Lt
	case ir.Le:
		return ir.Ge
	case ir.Ge:
		return ir.Le
	default:
		return op
	}
}

func arithmetic(op ir.Operation) string {
	switch op {
	case ir.Add:
		return "iadd"
	case ir.Sub:
		return "isub"
	case ir.Mul:
		return "imul"
	case ir.Div:
		return "idiv"
	default:
		panic(fmt.Errorf("%w: '%s' is not arithmetic", ErrUnsupported, op))
	}
}
