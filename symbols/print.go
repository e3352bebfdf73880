package symbols

import (
	"fmt"
	"io"
	"strings"
)

const column = 16

// Print writes the table as ASCII tables, one for the class members and
// one per method.
func (t *Table) Print(w io.Writer) {
	line := fmt.Sprintf("+-%[1]s-+-%[1]s-+-%[1]s-+\n", strings.Repeat("-", column))
	row := func(a, b, c string) {
		_, _ = fmt.Fprintf(w, "| %-*s | %-*s | %-*s |\n", column, a, column, b, column, c)
	}

	_, _ = fmt.Fprintf(w, "class %s", t.ClassName)
	if t.SuperClass != "" {
		_, _ = fmt.Fprintf(w, " extends %s", t.SuperClass)
	}
	_, _ = fmt.Fprintln(w)
	for _, imp := range t.Imports {
		_, _ = fmt.Fprintf(w, "import %s\n", imp)
	}

	_, _ = io.WriteString(w, line)
	row("Name", "Kind", "Type")
	_, _ = io.WriteString(w, line)
	for _, f := range t.Fields {
		row(f.Name, Field.String(), f.Type.String())
	}
	for _, m := range t.Methods {
		row(m.Name, "method", m.ReturnType.String())
	}
	_, _ = io.WriteString(w, line)

	for _, m := range t.Methods {
		_, _ = fmt.Fprintf(w, "\nmethod %s\n", m.Name)
		_, _ = io.WriteString(w, line)
		for _, p := range m.Parameters {
			row(p.Name, Parameter.String(), p.Type.String())
		}
		for _, l := range m.LocalVariables {
			row(l.Name, Local.String(), l.Type.String())
		}
		_, _ = io.WriteString(w, line)
	}
}
