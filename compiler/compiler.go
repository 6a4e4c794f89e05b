// Package compiler orchestrates the full MiniC pipeline behind a single
// call: lex, parse, lower to IR, generate MIPS assembly, and (when any
// interrupt handler is declared) emit the vector table and wrapped
// handler file.
package compiler

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/projectdiscovery/gologger"

	"github.com/arcbound/minicc/codegen"
	"github.com/arcbound/minicc/internal/diag"
	"github.com/arcbound/minicc/interrupt"
	"github.com/arcbound/minicc/ir"
	"github.com/arcbound/minicc/lexer"
	"github.com/arcbound/minicc/parser"
)

// Options controls one Compile invocation.
type Options struct {
	// KeepGoing runs every collecting-capable stage in collecting mode:
	// lexical errors are skipped and syntax continues best-effort where
	// the stage supports it. Semantic errors remain fatal regardless.
	KeepGoing bool
	// Regenerate forces the cached MiniC DFA/LALR table to be rebuilt
	// from the rule/grammar definitions instead of reusing the
	// process-lifetime cache.
	Regenerate bool
	// Verbose turns on stage-by-stage gologger progress lines.
	Verbose bool
}

// Artifact is everything a successful Compile produces.
type Artifact struct {
	RunID  uuid.UUID
	Source string

	Assembly string

	HasInterrupts    bool
	InterruptEntry   string
	InterruptHandler string
}

// Compile runs the full pipeline over source. A non-nil error means a
// fatal diagnostic aborted compilation; Diagnostics still carries every
// diagnostic gathered before the abort. On success, Artifact is non-nil
// and Diagnostics may still be non-empty (non-fatal diagnostics
// collected under Options.KeepGoing).
func Compile(source string, opts Options) (*Artifact, []diag.Diagnostic, error) {
	runID := uuid.New()
	if opts.Verbose {
		gologger.Info().Msgf("[%s] compile starting (keepGoing=%v regenerate=%v)", runID, opts.KeepGoing, opts.Regenerate)
	}

	dfa, p, err := cache.get(opts.Regenerate)
	if err != nil {
		return nil, nil, fmt.Errorf("preparing MiniC tables: %w", err)
	}
	if opts.Verbose {
		gologger.Verbose().Msgf("[%s] MiniC DFA/LALR tables ready", runID)
	}

	var collector diag.Collector
	collector.Collect = opts.KeepGoing

	lx := lexer.New(dfa, source)
	lx.Collect = opts.KeepGoing
	tokens, err := lx.Tokenize()
	for _, lexErr := range lx.Errors {
		collector.Items = append(collector.Items, diag.Diagnostic{
			Severity: diag.Lexical, Line: lexErr.Line, Column: lexErr.Column,
			Message: lexErr.Error(),
		})
	}
	if err != nil {
		return nil, collector.Items, fmt.Errorf("lexing: %w", err)
	}
	if opts.Verbose {
		gologger.Verbose().Msgf("[%s] lexed %d tokens (%d lexical diagnostics)", runID, len(tokens), len(collector.Items))
	}

	filtered := parser.FilterTrivia(tokens)
	tree, err := p.Parse(filtered)
	if err != nil {
		collector.Items = append(collector.Items, syntaxDiagnostic(err))
		return nil, collector.Items, fmt.Errorf("parsing: %w", err)
	}
	if opts.Verbose {
		gologger.Verbose().Msgf("[%s] parse tree built", runID)
	}

	prog, irDiags, err := ir.Generate(tree, opts.KeepGoing)
	collector.Items = append(collector.Items, irDiags...)
	if err != nil {
		return nil, collector.Items, fmt.Errorf("generating IR: %w", err)
	}
	if hasFatal(irDiags) {
		return nil, collector.Items, fmt.Errorf("semantic errors: %d diagnostic(s)", len(irDiags))
	}
	if opts.Verbose {
		gologger.Verbose().Msgf("[%s] IR generated: %d functions, %d quadruples (%d diagnostics)",
			runID, len(prog.Functions), len(prog.Quads), len(collector.Items))
	}

	asm := codegen.Compile(prog)
	if opts.Verbose {
		gologger.Verbose().Msgf("[%s] assembly emitted", runID)
	}

	entry, handler, present := interrupt.Emit(prog)
	if present && opts.Verbose {
		gologger.Verbose().Msgf("[%s] interrupt vector/handler files emitted", runID)
	}

	artifact := &Artifact{
		RunID:            runID,
		Source:           source,
		Assembly:         asm,
		HasInterrupts:    present,
		InterruptEntry:   entry,
		InterruptHandler: handler,
	}
	if opts.Verbose {
		gologger.Info().Msgf("[%s] compile complete", runID)
	}
	return artifact, collector.Items, nil
}

// hasFatal reports whether any diagnostic is a kind that is always
// fatal regardless of collecting mode (semantic and internal errors
// never allow assembly writeout, per the error taxonomy).
func hasFatal(ds []diag.Diagnostic) bool {
	for _, d := range ds {
		if d.Severity == diag.Semantic || d.Severity == diag.Internal {
			return true
		}
	}
	return false
}

func syntaxDiagnostic(err error) diag.Diagnostic {
	if pe, ok := err.(*parser.ParseError); ok {
		return diag.Diagnostic{Severity: diag.Syntax, Line: pe.Token.Line, Message: pe.Error()}
	}
	return diag.Diagnostic{Severity: diag.Syntax, Message: err.Error()}
}
