package ir

import (
	"fmt"

	"github.com/arcbound/minicc/internal/diag"
	"github.com/arcbound/minicc/parser"
)

// loopContext supplies break/continue their jump targets while lowering
// a while body.
type loopContext struct {
	loopLabel, breakLabel string
}

// postCheck is a deferred semantic check, run once traversal completes
// (return-type mismatches and call arity/existence can't be fully
// verified until every function has been seen).
type postCheck func(g *Generator) error

// Generator owns every pool and all scope/labeling state for a single
// IR generation pass; nothing survives past Generate returning.
type Generator struct {
	quads []Quadruple

	vars  []*Variable
	arrs  []*Array
	funcs []*Function

	varByScope map[string]*Variable // "scopeKey/name" -> var, current-scope lookups
	arrGlobal  map[string]*Array
	funcByName map[string]*Function

	scopeCounter int
	scopePath    ScopePath

	varSeq, arrSeq, labelSeq int

	loopStack []loopContext
	curFunc   *Function

	postChecks []postCheck
	collector  diag.Collector
}

func New(collect bool) *Generator {
	g := &Generator{
		varByScope: make(map[string]*Variable),
		arrGlobal:  make(map[string]*Array),
		funcByName: make(map[string]*Function),
		scopePath:  GlobalScope,
	}
	g.collector.Collect = collect
	return g
}

func (g *Generator) emit(q Quadruple) { g.quads = append(g.quads, q) }

func (g *Generator) newVarID() string {
	g.varSeq++
	return fmt.Sprintf("_var_%d", g.varSeq)
}

func (g *Generator) newLabel(suffix string) string {
	g.labelSeq++
	return fmt.Sprintf("L%d_%s", g.labelSeq, suffix)
}

func (g *Generator) enterScope() {
	g.scopeCounter++
	g.scopePath = append(append(ScopePath{}, g.scopePath...), g.scopeCounter)
}

func (g *Generator) exitScope() {
	g.scopePath = g.scopePath[:len(g.scopePath)-1]
}

func scopeKey(p ScopePath, name string) string {
	return fmt.Sprintf("%v/%s", []int(p), name)
}

// declareVar adds name to the pool at the current scope. Redeclaration
// at the same scope is fatal; shadowing an outer scope is not.
func (g *Generator) declareVar(name string, typ VarType, line int, initialized bool) (*Variable, error) {
	key := scopeKey(g.scopePath, name)
	if _, exists := g.varByScope[key]; exists {
		return nil, g.fail(diag.Semantic, line, "redeclaration of %q in the same scope", name)
	}
	v := &Variable{ID: g.newVarID(), Name: name, Type: typ, Scope: append(ScopePath{}, g.scopePath...), IsInitialized: initialized}
	g.vars = append(g.vars, v)
	g.varByScope[key] = v
	if g.curFunc != nil {
		g.curFunc.LocalVars = append(g.curFunc.LocalVars, v)
	}
	return v, nil
}

func (g *Generator) declareGlobalArray(name string, elem VarType, length int, line int) (*Array, error) {
	if _, exists := g.arrGlobal[name]; exists {
		return nil, g.fail(diag.Semantic, line, "redeclaration of array %q", name)
	}
	g.arrSeq++
	a := &Array{ID: fmt.Sprintf("_arr_%d", g.arrSeq), Name: name, Elem: elem, Length: length, Scope: GlobalScope}
	g.arrs = append(g.arrs, a)
	g.arrGlobal[name] = a
	return a, nil
}

// lookupVar walks the current scope path leafward-to-rootward, trying
// progressively shorter prefixes, exactly as variable resolution is
// specified to behave.
func (g *Generator) lookupVar(name string) *Variable {
	for i := len(g.scopePath); i >= 1; i-- {
		if v, ok := g.varByScope[scopeKey(g.scopePath[:i], name)]; ok {
			return v
		}
	}
	return nil
}

func (g *Generator) lookupArray(name string) *Array {
	// Arrays only ever live at global scope, or as a param-list entry of
	// the current function (recorded as a pseudo-global-shaped Array with
	// IsParam set); both cases resolve by name alone.
	if a, ok := g.arrGlobal[name]; ok {
		return a
	}
	if g.curFunc != nil {
		for _, p := range g.curFunc.Params {
			if p.Array != nil && p.Array.Name == name {
				return p.Array
			}
		}
	}
	return nil
}

func (g *Generator) fail(sev diag.Severity, line int, format string, args ...any) error {
	return g.collector.Report(diag.Diagnostic{Severity: sev, Line: line, Message: fmt.Sprintf(format, args...)})
}

// Generate runs the full pass over root (the DeclList produced by the
// top-level grammar rule) and returns the assembled Program plus any
// diagnostics collected along the way. A non-nil error means a fatal
// (non-collected) failure aborted the pass.
func Generate(root *parser.SyntaxTreeNode, collect bool) (*Program, []diag.Diagnostic, error) {
	g := New(collect)
	if err := g.genDeclList(root); err != nil {
		return nil, g.collector.Items, err
	}
	if err := g.runPostChecks(); err != nil {
		return nil, g.collector.Items, err
	}
	g.foldAsm()
	blocks := partitionBlocks(g.quads)
	prog := &Program{Quads: g.quads, Blocks: blocks, Vars: g.vars, Arrays: g.arrs, Functions: g.funcs}
	return prog, g.collector.Items, nil
}

func (g *Generator) runPostChecks() error {
	if _, ok := g.funcByName["main"]; !ok {
		if err := g.fail(diag.Semantic, 0, "program has no main function"); err != nil {
			return err
		}
	}
	for _, f := range g.funcs {
		if f.ReturnType != TVoid && !f.HasReturn && !f.CalledFuncs["__asm"] {
			if err := g.fail(diag.Semantic, 0, "function %q must return a value or call __asm", f.Name); err != nil {
				return err
			}
		}
	}
	for _, check := range g.postChecks {
		if err := check(g); err != nil {
			return err
		}
	}
	return nil
}
