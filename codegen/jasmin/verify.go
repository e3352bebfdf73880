package jasmin

import (
	"bufio"
	"fmt"
	"github.com/c0depwn/jmmc/pkg/ext"
	"strconv"
	"strings"
)

// MethodReport is the result of simulating the operand stack of one
// method.
type MethodReport struct {
	Name string
	// MaxStack is the deepest operand stack reached on any path.
	MaxStack    int
	LimitStack  int
	LimitLocals int
}

type asmInstr struct {
	line     int
	mnemonic string
	operands []string
}

type asmMethod struct {
	name   string
	limits map[string]int
	code   []asmInstr
	// labels maps a label to the index of the instruction following it
	labels map[string]int
}

// Verify replays the operand stack effect of every method in the Jasmin
// text along all branches. It fails when the depth becomes negative,
// differs between two paths joining at an instruction or exceeds the
// declared .limit stack.
func Verify(text string) ([]MethodReport, error) {
	methods, err := parseMethods(text)
	if err != nil {
		return nil, err
	}

	reports := make([]MethodReport, 0, len(methods))
	for _, m := range methods {
		deepest, err := m.simulate()
		if err != nil {
			return nil, fmt.Errorf("method %s: %w", m.name, err)
		}
		r := MethodReport{
			Name:        m.name,
			MaxStack:    deepest,
			LimitStack:  m.limits["stack"],
			LimitLocals: m.limits["locals"],
		}
		if r.MaxStack > r.LimitStack {
			return nil, fmt.Errorf("method %s: stack reaches %d, limit is %d", m.name, r.MaxStack, r.LimitStack)
		}
		reports = append(reports, r)
	}
	return reports, nil
}

func parseMethods(text string) ([]*asmMethod, error) {
	var methods []*asmMethod
	var current *asmMethod

	scanner := bufio.NewScanner(strings.NewReader(text))
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		fields := strings.Fields(line)

		switch {
		case fields[0] == ".method":
			if current != nil {
				return nil, fmt.Errorf("%d: nested .method", lineNo)
			}
			signature := fields[len(fields)-1]
			name := signature
			if idx := strings.Index(signature, "("); idx >= 0 {
				name = signature[:idx]
			}
			current = &asmMethod{name: name, limits: make(map[string]int), labels: make(map[string]int)}

		case fields[0] == ".end":
			if current == nil {
				return nil, fmt.Errorf("%d: .end outside of a method", lineNo)
			}
			methods = append(methods, current)
			current = nil

		case current == nil:
			// class level directive

		case fields[0] == ".limit":
			if len(fields) != 3 {
				return nil, fmt.Errorf("%d: malformed .limit", lineNo)
			}
			n, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, fmt.Errorf("%d: %w", lineNo, err)
			}
			current.limits[fields[1]] = n

		case strings.HasSuffix(line, ":") && len(fields) == 1:
			label := strings.TrimSuffix(line, ":")
			if _, exists := current.labels[label]; exists {
				return nil, fmt.Errorf("%d: label %s defined twice in %s", lineNo, label, current.name)
			}
			current.labels[label] = len(current.code)

		default:
			current.code = append(current.code, asmInstr{line: lineNo, mnemonic: fields[0], operands: fields[1:]})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if current != nil {
		return nil, fmt.Errorf("method %s is not terminated", current.name)
	}
	return methods, nil
}

// simulate walks the code with a worklist of (instruction, depth) pairs
// and returns the maximum depth.
func (m *asmMethod) simulate() (int, error) {
	type workItem struct {
		pos   int
		depth int
	}

	depths := make([]int, len(m.code))
	for i := range depths {
		depths[i] = -1
	}

	deepest := 0
	work := ext.Stack[workItem]{}
	if len(m.code) > 0 {
		work.Push(workItem{0, 0})
	}

	for !work.Empty() {
		item := work.Pop()
		pos, depth := item.pos, item.depth

		for pos < len(m.code) {
			if depths[pos] >= 0 {
				if depths[pos] != depth {
					return 0, fmt.Errorf("%d: depth %d joins depth %d", m.code[pos].line, depth, depths[pos])
				}
				break
			}
			depths[pos] = depth

			instr := m.code[pos]
			pops, pushes, err := stackEffect(instr)
			if err != nil {
				return 0, fmt.Errorf("%d: %w", instr.line, err)
			}
			if depth-pops < 0 {
				return 0, fmt.Errorf("%d: %s pops %d values from depth %d", instr.line, instr.mnemonic, pops, depth)
			}
			depth = depth - pops + pushes
			if depth > deepest {
				deepest = depth
			}

			switch {
			case instr.mnemonic == "goto":
				target, err := m.target(instr)
				if err != nil {
					return 0, err
				}
				work.Push(workItem{target, depth})
				pos = len(m.code)
			case strings.HasPrefix(instr.mnemonic, "if"):
				target, err := m.target(instr)
				if err != nil {
					return 0, err
				}
				work.Push(workItem{target, depth})
				pos++
			case isTerminal(instr.mnemonic):
				pos = len(m.code)
			default:
				pos++
			}
		}
	}

	return deepest, nil
}

func (m *asmMethod) target(instr asmInstr) (int, error) {
	if len(instr.operands) != 1 {
		return 0, fmt.Errorf("%d: %s expects a label", instr.line, instr.mnemonic)
	}
	target, ok := m.labels[instr.operands[0]]
	if !ok {
		return 0, fmt.Errorf("%d: undefined label %s", instr.line, instr.operands[0])
	}
	return target, nil
}

func isTerminal(mnemonic string) bool {
	switch mnemonic {
	case "return", "ireturn", "areturn", "athrow":
		return true
	}
	return false
}

// stackEffect returns the number of values popped and pushed by instr.
func stackEffect(instr asmInstr) (int, int, error) {
	mnemonic := instr.mnemonic
	// iload_1 behaves like iload 1
	if !strings.HasPrefix(mnemonic, "if_") {
		if base, _, found := strings.Cut(mnemonic, "_"); found {
			mnemonic = base
		}
	}

	switch mnemonic {
	case "iconst", "bipush", "sipush", "ldc", "iload", "aload", "new":
		return 0, 1, nil
	case "dup":
		return 1, 2, nil
	case "istore", "astore", "pop", "ireturn", "areturn", "athrow",
		"ifeq", "ifne", "iflt", "ifgt", "ifle", "ifge":
		return 1, 0, nil
	case "iadd", "isub", "imul", "idiv", "irem", "iand", "ior", "ixor", "ishl", "ishr", "iushr",
		"iaload", "baload", "aaload":
		return 2, 1, nil
	case "getfield", "arraylength", "newarray", "anewarray", "ineg":
		return 1, 1, nil
	case "putfield":
		return 2, 0, nil
	case "iastore", "bastore", "aastore":
		return 3, 0, nil
	case "iinc", "goto", "return", "nop":
		return 0, 0, nil
	case "invokestatic", "invokevirtual", "invokespecial":
		if len(instr.operands) != 1 {
			return 0, 0, fmt.Errorf("%s expects a method reference", instr.mnemonic)
		}
		args, ret, err := parseMethodRef(instr.operands[0])
		if err != nil {
			return 0, 0, err
		}
		if mnemonic != "invokestatic" {
			args++
		}
		return args, ret, nil
	}

	if strings.HasPrefix(mnemonic, "if_icmp") || strings.HasPrefix(mnemonic, "if_acmp") {
		return 2, 0, nil
	}
	return 0, 0, fmt.Errorf("unknown instruction %s", instr.mnemonic)
}

// parseMethodRef counts the arguments of a reference like
// Owner/name(I[ILjava/lang/String;)Z and whether it returns a value.
func parseMethodRef(ref string) (int, int, error) {
	open := strings.Index(ref, "(")
	closing := strings.LastIndex(ref, ")")
	if open < 0 || closing < open {
		return 0, 0, fmt.Errorf("malformed method reference %s", ref)
	}

	params := ref[open+1 : closing]
	args := 0
	for i := 0; i < len(params); i++ {
		switch params[i] {
		case '[':
			continue
		case 'L':
			end := strings.IndexByte(params[i:], ';')
			if end < 0 {
				return 0, 0, fmt.Errorf("malformed descriptor %s", params)
			}
			i += end
		}
		args++
	}

	ret := 1
	if ref[closing+1:] == "V" {
		ret = 0
	}
	return args, ret, nil
}
