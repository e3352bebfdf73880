// Package report holds the structured diagnostics passed between the
// compiler stages.
package report

import (
	"errors"
	"fmt"
	"go.uber.org/multierr"
	"strings"
)

type Type int

const (
	Error Type = iota
	Warning
	Log
	Debug
)

var typeNames = [...]string{
	Error:   "ERROR",
	Warning: "WARNING",
	Log:     "LOG",
	Debug:   "DEBUG",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

func (t Type) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Type) UnmarshalText(text []byte) error {
	for i, name := range typeNames {
		if strings.EqualFold(name, string(text)) {
			*t = Type(i)
			return nil
		}
	}
	return fmt.Errorf("unknown report type '%s'", text)
}

type Stage int

const (
	Syntactic Stage = iota
	Semantic
	Optimization
	Generation
)

var stageNames = [...]string{
	Syntactic:    "SYNTACTIC",
	Semantic:     "SEMANTIC",
	Optimization: "OPTIMIZATION",
	Generation:   "GENERATION",
}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

func (s Stage) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Stage) UnmarshalText(text []byte) error {
	for i, name := range stageNames {
		if strings.EqualFold(name, string(text)) {
			*s = Stage(i)
			return nil
		}
	}
	return fmt.Errorf("unknown report stage '%s'", text)
}

// Report is a single diagnostic. Line and Column are -1 when the
// diagnostic is not tied to a source location.
type Report struct {
	Type    Type   `json:"type"`
	Stage   Stage  `json:"stage"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
}

func New(t Type, stage Stage, line, col int, format string, args ...any) Report {
	return Report{
		Type:    t,
		Stage:   stage,
		Line:    line,
		Column:  col,
		Message: fmt.Sprintf(format, args...),
	}
}

func (r Report) String() string {
	if r.Line < 0 {
		return fmt.Sprintf("%s@%s: %s", r.Type, r.Stage, r.Message)
	}
	return fmt.Sprintf("%s@%s, line %d, col %d: %s", r.Type, r.Stage, r.Line, r.Column, r.Message)
}

// reportError exposes an error report through the error interface.
type reportError struct {
	Report
}

func (e reportError) Error() string { return e.String() }

// HasErrors reports whether any report has the Error type.
func HasErrors(reports []Report) bool {
	for _, r := range reports {
		if r.Type == Error {
			return true
		}
	}
	return false
}

// Err combines all error reports into a single error, nil when there are
// none.
func Err(reports []Report) error {
	var err error
	for _, r := range reports {
		if r.Type == Error {
			err = multierr.Append(err, reportError{r})
		}
	}
	return err
}

// AsReport returns the report carried by err, if any.
func AsReport(err error) (Report, bool) {
	var re reportError
	if errors.As(err, &re) {
		return re.Report, true
	}
	return Report{}, false
}

// Reports splits an error built by Err back into its reports.
func Reports(err error) []Report {
	var reports []Report
	for _, e := range multierr.Errors(err) {
		if r, ok := AsReport(e); ok {
			reports = append(reports, r)
		}
	}
	return reports
}
