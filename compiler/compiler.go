// Package compiler runs the back end over the output of a Java-- front
// end: the typed tree is lowered to IR which is then translated to Jasmin.
package compiler

import (
	"fmt"
	"github.com/c0depwn/jmmc/ast"
	"github.com/c0depwn/jmmc/codegen"
	"github.com/c0depwn/jmmc/codegen/jasmin"
	"github.com/c0depwn/jmmc/codegen/ollir"
	"github.com/c0depwn/jmmc/ir"
	"github.com/c0depwn/jmmc/report"
	"github.com/c0depwn/jmmc/semantics"
	"github.com/c0depwn/jmmc/symbols"
	"github.com/segmentio/encoding/json"
	"go.uber.org/zap"
	"io"
)

// Input is the document produced by the front end.
type Input struct {
	Root        ast.RawNode     `json:"root"`
	// SymbolTable is collected from the tree when absent.
	SymbolTable *symbols.Table  `json:"symbolTable,omitempty"`
	Reports     []report.Report `json:"reports,omitempty"`
}

func ReadInput(r io.Reader) (*Input, error) {
	in := new(Input)
	if err := json.NewDecoder(r).Decode(in); err != nil {
		return nil, fmt.Errorf("failed to decode input: %w", err)
	}
	if in.Root.Kind == "" {
		return nil, fmt.Errorf("input has no root node")
	}
	return in, nil
}

type Result struct {
	Class   *ir.Class
	Ollir   string
	Jasmin  string
	// Reports holds the upstream reports followed by the reports of
	// this run.
	Reports []report.Report
}

type Option func(*Compiler)

func WithLogger(log *zap.Logger) Option {
	return func(c *Compiler) {
		c.log = log
	}
}

// WithIndent sets the indentation width of the IR text.
func WithIndent(n int) Option {
	return func(c *Compiler) {
		c.indent = n
	}
}

func WithOptimizations(opts jasmin.Optimizations) Option {
	return func(c *Compiler) {
		c.optimizations = opts
	}
}

// WithoutChecks skips the input contract checks.
func WithoutChecks() Option {
	return func(c *Compiler) {
		c.checks = false
	}
}

type Compiler struct {
	log           *zap.Logger
	indent        int
	optimizations jasmin.Optimizations
	checks        bool
}

// Compile lowers and translates the program carried by in. Error reports
// of earlier stages or of the input checks stop the run before any code
// is generated.
func Compile(in *Input, opts ...Option) (*Result, error) {
	c := &Compiler{
		log:           zap.NewNop(),
		indent:        4,
		optimizations: jasmin.DefaultOptimizations(),
		checks:        true,
	}
	for _, opt := range opts {
		opt(c)
	}

	result := &Result{Reports: append([]report.Report(nil), in.Reports...)}
	if err := report.Err(in.Reports); err != nil {
		return result, fmt.Errorf("front end reported errors: %w", err)
	}

	program, err := ast.Build(in.Root)
	if err != nil {
		return result, fmt.Errorf("failed to build tree: %w", err)
	}

	table := in.SymbolTable
	if table == nil {
		c.log.Debug("collecting symbol table from tree")
		if table, err = symbols.Collect(program); err != nil {
			return result, err
		}
	}

	if c.checks {
		reports := semantics.Analyze(program, table)
		result.Reports = append(result.Reports, reports...)
		if err := report.Err(reports); err != nil {
			return result, err
		}
	}

	return c.generate(program, table, result)
}

func (c *Compiler) generate(program *ast.Program, table *symbols.Table, result *Result) (*Result, error) {
	labels := codegen.NewLabels()

	class, err := ollir.Generate(program, table,
		ollir.WithLabels(labels),
		ollir.WithLogger(c.log.Named("ollir")),
	)
	if err != nil {
		return result, c.fail(result, err)
	}
	result.Class = class
	result.Ollir = ir.Printer{Indent: c.indent}.Print(class)
	c.log.Info("generated IR", zap.String("class", class.Name), zap.Int("methods", len(class.Methods)))

	out, err := jasmin.Translate(class,
		jasmin.WithLabels(labels),
		jasmin.WithOptimizations(c.optimizations),
		jasmin.WithLogger(c.log.Named("jasmin")),
	)
	if err != nil {
		return result, c.fail(result, err)
	}
	result.Jasmin = out
	c.log.Info("translated to jasmin", zap.String("class", class.Name), zap.Int("labels", labels.Issued()))

	result.Reports = append(result.Reports, report.New(report.Log, report.Generation, -1, -1,
		"generated %s with %d labels", class.Name, labels.Issued()))
	return result, nil
}

// fail records err as a generation report.
func (c *Compiler) fail(result *Result, err error) error {
	result.Reports = append(result.Reports, report.New(report.Error, report.Generation, -1, -1, "%v", err))
	return err
}
