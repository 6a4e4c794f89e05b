package ir

import (
	"fmt"
	"strconv"

	"github.com/arcbound/minicc/internal/diag"
	"github.com/arcbound/minicc/parser"
)

func typeOf(typeNode *parser.SyntaxTreeNode) VarType {
	switch typeNode.Child(1).Name {
	case "INT":
		return TInt
	case "VOID":
		return TVoid
	case "STRING":
		return TString
	default:
		return TInt
	}
}

// genDeclList runs two passes over the top-level declaration list: the
// first registers every function's signature (so a call to a function
// declared later in the file resolves correctly - MiniC has no forward-
// declaration syntax, so the whole file must be visible before any body
// is lowered), the second actually lowers variable/array records and
// function bodies in source order.
func (g *Generator) genDeclList(root *parser.SyntaxTreeNode) error {
	decls := root.FlattenList("DeclList")
	for _, decl := range decls {
		if decl.Name == "FuncDecl" {
			if err := g.registerFuncSignature(decl); err != nil {
				return err
			}
		}
	}
	for _, decl := range decls {
		if err := g.genDecl(decl); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) genDecl(n *parser.SyntaxTreeNode) error {
	switch n.Name {
	case "VarDecl":
		return g.genVarDecl(n)
	case "ArrayDecl":
		return g.genArrayDecl(n)
	case "FuncDecl":
		return g.genFuncDecl(n)
	default:
		return fmt.Errorf("ir: unexpected top-level declaration node %q", n.Name)
	}
}

func (g *Generator) genVarDecl(n *parser.SyntaxTreeNode) error {
	typ := typeOf(n.Child(1))
	name := n.Child(2).Literal
	line := n.Line
	if typ == TVoid {
		return g.fail(diag.Semantic, line, "variable %q cannot have type void", name)
	}
	_, err := g.declareVar(name, typ, line, g.scopePath.Equal(GlobalScope))
	return err
}

func (g *Generator) genArrayDecl(n *parser.SyntaxTreeNode) error {
	if !g.scopePath.Equal(GlobalScope) {
		return g.fail(diag.Semantic, n.Line, "array %q must be declared at global scope", n.Child(2).Literal)
	}
	typ := typeOf(n.Child(1))
	name := n.Child(2).Literal
	length, err := strconv.Atoi(n.Child(3).Literal)
	if err != nil {
		return g.fail(diag.Internal, n.Line, "array %q has a non-numeric length literal %q", name, n.Child(3).Literal)
	}
	_, declErr := g.declareGlobalArray(name, typ, length, n.Line)
	return declErr
}

// registerFuncSignature pre-declares name/returnType/entryLabel/exitLabel
// so call sites anywhere in the file - including before this function's
// own declaration - can resolve against it; genFuncDecl fills in Params
// and lowers the body afterward.
func (g *Generator) registerFuncSignature(n *parser.SyntaxTreeNode) error {
	typ := typeOf(n.Child(1))
	name := n.Child(2).Literal
	if _, exists := g.funcByName[name]; exists {
		return g.fail(diag.Semantic, n.Line, "redeclaration of function %q", name)
	}
	isInterrupt := isInterruptName(name)
	if isInterrupt && typ != TVoid {
		return g.fail(diag.Semantic, n.Line, "interrupt handler %q must return void", name)
	}
	f := &Function{
		Name:        name,
		ReturnType:  typ,
		EntryLabel:  fmt.Sprintf("%s_entry", name),
		ExitLabel:   fmt.Sprintf("%s_exit", name),
		IsInterrupt: isInterrupt,
		CalledFuncs: make(map[string]bool),
	}
	g.funcByName[name] = f
	g.funcs = append(g.funcs, f)
	return nil
}

func (g *Generator) genFuncDecl(n *parser.SyntaxTreeNode) error {
	name := n.Child(2).Literal
	f := g.funcByName[name]
	isInterrupt := f.IsInterrupt
	g.curFunc = f

	g.enterScope()
	f.Scope = append(ScopePath{}, g.scopePath...)
	g.emit(Quadruple{Op: "set_label", Result: f.EntryLabel})

	params := n.Child(3).FlattenList("ParamList")
	if isInterrupt && len(params) != 0 {
		g.exitScope()
		return g.fail(diag.Semantic, n.Line, "interrupt handler %q must take no parameters", name)
	}
	for _, p := range params {
		if err := g.genParam(f, p); err != nil {
			g.exitScope()
			return err
		}
	}

	// The function body's top-level statement list shares the function's
	// own scope (no extra nesting level for the outermost braces).
	block := n.Child(4)
	for _, stmt := range block.Child(1).FlattenList("StmtList") {
		if err := g.genStmt(stmt); err != nil {
			g.exitScope()
			return err
		}
	}
	g.emit(Quadruple{Op: "set_label", Result: f.ExitLabel})
	g.exitScope()
	g.curFunc = nil

	if name == "main" && len(params) != 0 {
		return g.fail(diag.Semantic, n.Line, "main must take no parameters")
	}
	return nil
}

func isInterruptName(name string) bool {
	switch name {
	case "interruptServer0", "interruptServer1", "interruptServer2", "interruptServer3", "interruptServer4":
		return true
	default:
		return false
	}
}

func (g *Generator) genParam(f *Function, n *parser.SyntaxTreeNode) error {
	typ := typeOf(n.Child(1))
	name := n.Child(2).Literal
	switch n.Name {
	case "Param":
		if typ == TVoid {
			return g.fail(diag.Semantic, n.Line, "parameter %q cannot have type void", name)
		}
		v, err := g.declareVar(name, typ, n.Line, true)
		if err != nil {
			return err
		}
		v.IsParam = true
		f.Params = append(f.Params, Param{Variable: v})
	case "ArrayParam":
		g.arrSeq++
		a := &Array{ID: fmt.Sprintf("_arr_%d", g.arrSeq), Name: name, Elem: typ, Scope: append(ScopePath{}, g.scopePath...), IsParam: true}
		f.Params = append(f.Params, Param{Array: a})
	default:
		return fmt.Errorf("ir: unexpected parameter node %q", n.Name)
	}
	return nil
}
