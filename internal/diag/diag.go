// Package diag is the shared error/diagnostic vocabulary used by ir,
// compiler and the minicc command: one tagged kind, one taggable error
// interface, and one collector that either accumulates diagnostics or
// aborts on the first one, matching the "throw or collect" mode split
// described for error handling.
package diag

import "fmt"

// Severity is the error taxonomy: what kind of failure this is, not
// how severe it reads to a human.
type Severity int

const (
	Lexical Severity = iota
	Syntax
	Semantic
	Internal
)

func (s Severity) String() string {
	switch s {
	case Lexical:
		return "lexical"
	case Syntax:
		return "syntax"
	case Semantic:
		return "semantic"
	case Internal:
		return "internal"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Diagnostic is one reportable compiler message: where it happened and
// what went wrong.
type Diagnostic struct {
	Severity Severity
	Line     int
	Column   int
	Message  string
}

func (d Diagnostic) String() string {
	if d.Line == 0 {
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	}
	if d.Column == 0 {
		return fmt.Sprintf("%s:%d: %s", d.Severity, d.Line, d.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s", d.Severity, d.Line, d.Column, d.Message)
}

// Tagged is implemented by any compiler error that carries a Diagnostic,
// so callers can downgrade a thrown error into a collected one without
// losing its severity/position.
type Tagged interface {
	error
	Diagnostic() Diagnostic
}

// Error is the concrete Tagged implementation every component raises.
type Error struct {
	D Diagnostic
}

func New(sev Severity, line, column int, format string, args ...any) *Error {
	return &Error{D: Diagnostic{Severity: sev, Line: line, Column: column, Message: fmt.Sprintf(format, args...)}}
}

func (e *Error) Error() string          { return e.D.String() }
func (e *Error) Diagnostic() Diagnostic { return e.D }

// Collector accumulates diagnostics instead of aborting on the first
// one. In collecting mode every kind is appended, Semantic included (ir
// collects its semantic failures this way); keeping Semantic failures
// fatal is left to the caller, as compiler.Compile does after ir.
type Collector struct {
	Collect bool
	Items   []Diagnostic
}

// Report records d. In collecting mode it is appended and nil is
// returned so the caller can keep going; otherwise it is returned
// wrapped as an error to abort the current phase.
func (c *Collector) Report(d Diagnostic) error {
	if c.Collect {
		c.Items = append(c.Items, d)
		return nil
	}
	return &Error{D: d}
}

func (c *Collector) HasErrors() bool { return len(c.Items) > 0 }
