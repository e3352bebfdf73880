package jasmin

import (
	"fmt"
	"github.com/c0depwn/jmmc/ir"
	"github.com/c0depwn/jmmc/pkg/slices"
	"strings"
)

// assemble renders the class header, the fields, the default constructor
// and the translated methods.
func (t *Translator) assemble(methods []*methodCode) string {
	sb := &strings.Builder{}

	c := t.class
	sb.WriteString(fmt.Sprintf(".class %s%s\n", ir.Modifiers(c.Access, c.Static, c.Final), c.Name))
	sb.WriteString(fmt.Sprintf(".super %s\n", t.superName()))

	if len(c.Fields) > 0 {
		sb.WriteString("\n")
	}
	for _, f := range c.Fields {
		sb.WriteString(fmt.Sprintf(".field %s%s %s", ir.Modifiers(f.Access, f.Static, f.Final), f.Name, t.descriptor(f.T)))
		if f.Init != nil {
			sb.WriteString(" = " + f.Init.String())
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n.method public <init>()V\n")
	sb.WriteString("\taload_0\n")
	sb.WriteString(fmt.Sprintf("\tinvokespecial %s/<init>()V\n", t.superName()))
	sb.WriteString("\treturn\n")
	sb.WriteString(".end method\n")

	for _, m := range methods {
		sb.WriteString("\n")
		t.emitMethod(sb, m)
	}

	return sb.String()
}

func (t *Translator) emitMethod(sb *strings.Builder, code *methodCode) {
	m := code.method
	params := slices.Map(m.Params, func(p *ir.Operand) ir.Type { return p.T })

	sb.WriteString(fmt.Sprintf(".method %s%s%s\n",
		ir.Modifiers(m.Access, m.Static, m.Final), m.Name, t.methodDescriptor(params, m.Return)))
	sb.WriteString(fmt.Sprintf("\t.limit stack %d\n", code.stack))
	sb.WriteString(fmt.Sprintf("\t.limit locals %d\n", code.locals))
	for _, line := range code.code {
		sb.WriteString(line + "\n")
	}
	sb.WriteString(".end method\n")
}
