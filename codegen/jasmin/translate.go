// Package jasmin translates the three-address IR into Jasmin assembly
// for the JVM.
package jasmin

import (
	"errors"
	"fmt"
	"github.com/c0depwn/jmmc/codegen"
	"github.com/c0depwn/jmmc/ir"
	"github.com/c0depwn/jmmc/pkg/ext"
	"github.com/c0depwn/jmmc/symbols"
	"go.uber.org/zap"
	"strconv"
	"strings"
)

// ErrUnsupported is returned for IR the translator has no lowering for.
// Nothing is emitted for a class containing such IR.
var ErrUnsupported = errors.New("unsupported IR")

const objectClass = "java/lang/Object"

// Optimizations selects the peephole rewrites applied during translation.
type Optimizations struct {
	// FoldConstants evaluates operators on literals at compile time.
	FoldConstants bool
	// StrengthReduction turns multiplication and division by a power of
	// two into shifts.
	StrengthReduction bool
	// Increments uses iinc for x := x + c.
	Increments bool
}

func DefaultOptimizations() Optimizations {
	return Optimizations{
		FoldConstants:     true,
		StrengthReduction: true,
		Increments:        true,
	}
}

type Option func(*Translator)

func WithOptimizations(opts Optimizations) Option {
	return func(t *Translator) {
		t.opts = opts
	}
}

// WithLabels shares the label counter used by the IR generator of the
// same unit.
func WithLabels(labels *codegen.Labels) Option {
	return func(t *Translator) {
		t.labels = labels
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(t *Translator) {
		t.log = log
	}
}

type Translator struct {
	class *ir.Class
	// imports resolves simple class names to internal names
	imports *symbols.Table
	fields  map[string]ir.Type

	opts   Optimizations
	labels *codegen.Labels
	log    *zap.Logger
}

// Translate produces the Jasmin assembly of class.
func Translate(class *ir.Class, opts ...Option) (out string, err error) {
	if class == nil {
		return "", fmt.Errorf("%w: no class", ErrUnsupported)
	}

	t := &Translator{
		class:   class,
		imports: &symbols.Table{Imports: class.Imports, ClassName: class.Name},
		fields:  make(map[string]ir.Type),
		opts:    DefaultOptimizations(),
		labels:  codegen.NewLabels(),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	for _, f := range class.Fields {
		t.fields[f.Name] = f.T
	}
	// IR read from text may already use ids of a counter we don't share
	t.labels.SkipTo(highestLabelID(class) + 1)

	err = ext.CatchPanic(func() {
		var methods []*methodCode
		for _, m := range class.Methods {
			// the default constructor is synthesized by the emitter
			if m.Constructor {
				continue
			}
			methods = append(methods, t.translateMethod(m))
		}
		out = t.assemble(methods)
	})
	if err != nil {
		return "", err
	}
	return out, nil
}

// highestLabelID returns the largest numeric suffix of the labels placed in
// class, -1 if there is none.
func highestLabelID(class *ir.Class) int {
	highest := -1
	for _, m := range class.Methods {
		for label := range m.Labels() {
			idx := strings.LastIndexByte(label, '_')
			if idx < 0 {
				continue
			}
			if id, err := strconv.Atoi(label[idx+1:]); err == nil && id > highest {
				highest = id
			}
		}
	}
	return highest
}

// internalName resolves a class name through the imports, falling back
// to the class being compiled.
func (t *Translator) internalName(name string) string {
	if name == t.class.Name {
		return name
	}
	if resolved, ok := t.imports.ResolveImport(name); ok {
		return resolved
	}
	return strings.ReplaceAll(name, ".", "/")
}

func (t *Translator) superName() string {
	if t.class.Super == "" {
		return objectClass
	}
	return t.internalName(t.class.Super)
}

// owner returns the class declaring the members accessed through a value
// of type typ.
func (t *Translator) owner(typ ir.Type) string {
	switch typ.Kind {
	case ir.This:
		return t.class.Name
	case ir.ObjectRef, ir.ClassRef:
		return t.internalName(typ.ClassName)
	case ir.String:
		return "java/lang/String"
	default:
		panic(fmt.Errorf("%w: values of type %s have no members", ErrUnsupported, typ))
	}
}

func (t *Translator) descriptor(typ ir.Type) string {
	switch typ.Kind {
	case ir.Int32:
		return "I"
	case ir.Boolean:
		return "Z"
	case ir.Void:
		return "V"
	case ir.String:
		return "Ljava/lang/String;"
	case ir.ArrayRef:
		if typ.Elem == nil {
			panic(fmt.Errorf("%w: array without element type", ErrUnsupported))
		}
		return "[" + t.descriptor(*typ.Elem)
	case ir.ObjectRef, ir.ClassRef, ir.This:
		return "L" + t.owner(typ) + ";"
	default:
		panic(fmt.Errorf("%w: type %s", ErrUnsupported, typ))
	}
}

func (t *Translator) methodDescriptor(params []ir.Type, ret ir.Type) string {
	sb := &strings.Builder{}
	sb.WriteString("(")
	for _, p := range params {
		sb.WriteString(t.descriptor(p))
	}
	sb.WriteString(")")
	sb.WriteString(t.descriptor(ret))
	return sb.String()
}
