package ir

import (
	"fmt"

	"github.com/arcbound/minicc/internal/diag"
	"github.com/arcbound/minicc/parser"
)

// opNames is the closed set of binary/unary operator node names the
// grammar ever produces; genExpr dispatches on arity (1 child = unary,
// 2 = binary) rather than needing a second table, since the node's own
// Name already equals the quadruple op string.
var opNames = map[string]bool{
	"OR_OP": true, "AND_OP": true, "BITOR_OP": true, "BITXOR_OP": true, "BITAND_OP": true,
	"EQ_OP": true, "NE_OP": true, "GT_OP": true, "LT_OP": true, "GE_OP": true, "LE_OP": true,
	"LEFT_OP": true, "RIGHT_OP": true, "PLUS": true, "MINUS": true, "MULTIPLY": true,
	"SLASH": true, "PERCENT": true, "NOT_OP": true, "BITINV_OP": true, "DOLLAR": true,
}

// newTemp records a compiler-generated, nameless temporary in the
// variable pool (every quadruple operand other than a label or literal
// must resolve to a pool entry, temporaries included) and returns its id.
func (g *Generator) newTemp(typ VarType) string {
	v := &Variable{ID: g.newVarID(), Type: typ, Scope: append(ScopePath{}, g.scopePath...), IsInitialized: true}
	g.vars = append(g.vars, v)
	return v.ID
}

func (g *Generator) genExpr(n *parser.SyntaxTreeNode) (string, error) {
	if opNames[n.Name] {
		return g.genOp(n)
	}
	switch n.Name {
	case "Number":
		t := g.newTemp(TInt)
		g.emit(Quadruple{Op: "=const", Arg1: n.Child(1).Literal, Result: t})
		return t, nil
	case "StringLit":
		// A string literal only has a lowering inside __asm("..."), which
		// genAsmCall handles directly without ever reaching here; reached
		// here it means one showed up as an ordinary expression (assigned,
		// compared, passed as an argument), which codegen has no string
		// type to back.
		return "", g.fail(diag.Semantic, n.Line, "string literal cannot be used outside __asm(...)")
	case "Ident":
		return g.genIdentRead(n)
	case "Paren":
		inner, err := g.genExpr(n.Child(1))
		if err != nil {
			return "", err
		}
		t := g.newTemp(TInt)
		g.emit(Quadruple{Op: "=var", Arg1: inner, Result: t})
		return t, nil
	case "Index":
		return g.genIndexRead(n)
	case "Assign":
		return g.genAssign(n)
	case "Call":
		return g.genCall(n)
	case "AsmCall":
		return g.genAsmCall(n)
	default:
		return "", fmt.Errorf("ir: unexpected expression node %q", n.Name)
	}
}

func (g *Generator) genOp(n *parser.SyntaxTreeNode) (string, error) {
	if len(n.Children) == 1 {
		operand, err := g.genExpr(n.Child(1))
		if err != nil {
			return "", err
		}
		t := g.newTemp(TInt)
		g.emit(Quadruple{Op: n.Name, Arg1: operand, Result: t})
		return t, nil
	}
	lhs, err := g.genExpr(n.Child(1))
	if err != nil {
		return "", err
	}
	rhs, err := g.genExpr(n.Child(2))
	if err != nil {
		return "", err
	}
	t := g.newTemp(TInt)
	g.emit(Quadruple{Op: n.Name, Arg1: lhs, Arg2: rhs, Result: t})
	return t, nil
}

func (g *Generator) genIdentRead(n *parser.SyntaxTreeNode) (string, error) {
	name := n.Child(1).Literal
	v := g.lookupVar(name)
	if v == nil {
		return "", g.fail(diag.Semantic, n.Line, "use of undeclared variable %q", name)
	}
	if !v.IsInitialized {
		return "", g.fail(diag.Semantic, n.Line, "use of uninitialized variable %q", name)
	}
	return v.ID, nil
}

func (g *Generator) resolveIndexBase(n *parser.SyntaxTreeNode) (*Array, error) {
	base := n.Child(1)
	if base.Name != "Ident" {
		return nil, g.fail(diag.Semantic, n.Line, "array indexing requires a plain array name")
	}
	name := base.Child(1).Literal
	a := g.lookupArray(name)
	if a == nil {
		return nil, g.fail(diag.Semantic, n.Line, "use of undeclared array %q", name)
	}
	return a, nil
}

func (g *Generator) genIndexRead(n *parser.SyntaxTreeNode) (string, error) {
	a, err := g.resolveIndexBase(n)
	if err != nil {
		return "", err
	}
	idx, err := g.genExpr(n.Child(2))
	if err != nil {
		return "", err
	}
	t := g.newTemp(a.Elem)
	g.emit(Quadruple{Op: "[]", Arg1: a.ID, Arg2: idx, Result: t})
	return t, nil
}

// genAssign lowers the right side first, then stores it through
// whichever lvalue shape the left side has: a plain variable, an array
// element, or a pointer dereference. The assignment's own value is the
// right-hand side, so a chained "a = b = c" keeps working.
func (g *Generator) genAssign(n *parser.SyntaxTreeNode) (string, error) {
	lhs, rhs := n.Child(1), n.Child(2)
	rhsVal, err := g.genExpr(rhs)
	if err != nil {
		return "", err
	}
	switch lhs.Name {
	case "Ident":
		name := lhs.Child(1).Literal
		v := g.lookupVar(name)
		if v == nil {
			return "", g.fail(diag.Semantic, lhs.Line, "assignment to undeclared variable %q", name)
		}
		v.IsInitialized = true
		g.emit(Quadruple{Op: "=var", Arg1: rhsVal, Result: v.ID})
		return v.ID, nil
	case "Index":
		a, err := g.resolveIndexBase(lhs)
		if err != nil {
			return "", err
		}
		idx, err := g.genExpr(lhs.Child(2))
		if err != nil {
			return "", err
		}
		g.emit(Quadruple{Op: "=[]", Arg1: idx, Arg2: rhsVal, Result: a.ID})
		return rhsVal, nil
	case "DOLLAR":
		addr, err := g.genExpr(lhs.Child(1))
		if err != nil {
			return "", err
		}
		g.emit(Quadruple{Op: "=$", Arg1: addr, Arg2: rhsVal})
		return rhsVal, nil
	default:
		return "", g.fail(diag.Semantic, lhs.Line, "invalid assignment target")
	}
}

func (g *Generator) genCall(n *parser.SyntaxTreeNode) (string, error) {
	name := n.Child(1).Literal
	if name == "main" {
		return "", g.fail(diag.Semantic, n.Line, "main cannot be called")
	}
	callee, ok := g.funcByName[name]
	if !ok {
		return "", g.fail(diag.Semantic, n.Line, "call to unknown function %q", name)
	}
	if g.curFunc != nil {
		g.curFunc.CalledFuncs[name] = true
	}

	args := n.Child(2).FlattenList("ArgList")
	argVals := make([]string, 0, len(args))
	for _, a := range args {
		v, err := g.genExpr(a)
		if err != nil {
			return "", err
		}
		argVals = append(argVals, v)
	}

	line, calleeName := n.Line, name
	g.postChecks = append(g.postChecks, func(g *Generator) error {
		if len(args) != len(callee.Params) {
			return g.fail(diag.Semantic, line, "call to %q passes %d argument(s), want %d", calleeName, len(args), len(callee.Params))
		}
		return nil
	})

	argList := ""
	for i, v := range argVals {
		if i > 0 {
			argList += " & "
		}
		argList += v
	}

	var result string
	if callee.ReturnType != TVoid {
		result = g.newTemp(callee.ReturnType)
	}
	g.emit(Quadruple{Op: "call", Arg1: name, Arg2: fmt.Sprintf("(%s)", argList), Result: result})
	if result == "" {
		return "", nil
	}
	return result, nil
}

// genAsmCall lowers __asm("...") as a regular call to a predeclared
// one-string-parameter function; foldAsm later collapses the resulting
// "=string; call __asm" pair into a single out_asm instruction.
func (g *Generator) genAsmCall(n *parser.SyntaxTreeNode) (string, error) {
	if g.curFunc != nil {
		g.curFunc.CalledFuncs["__asm"] = true
	}
	lit := n.Child(1).Literal
	t := g.newTemp(TString)
	g.emit(Quadruple{Op: "=string", Arg1: lit, Result: t})
	g.emit(Quadruple{Op: "call", Arg1: "__asm", Arg2: fmt.Sprintf("(%s)", t)})
	return "", nil
}
