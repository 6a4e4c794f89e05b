package ir

import (
	"fmt"

	"github.com/arcbound/minicc/internal/diag"
	"github.com/arcbound/minicc/parser"
)

func (g *Generator) genStmt(n *parser.SyntaxTreeNode) error {
	switch n.Name {
	case "VarDecl":
		return g.genVarDecl(n)
	case "Block":
		return g.genBlock(n)
	case "If":
		return g.genIf(n)
	case "IfElse":
		return g.genIfElse(n)
	case "While":
		return g.genWhile(n)
	case "Break":
		return g.genBreak(n)
	case "Continue":
		return g.genContinue(n)
	case "ReturnVoid":
		return g.genReturnVoid(n)
	case "ReturnExpr":
		return g.genReturnExpr(n)
	case "ExprStmt":
		_, err := g.genExpr(n.Child(1))
		return err
	default:
		return fmt.Errorf("ir: unexpected statement node %q", n.Name)
	}
}

func (g *Generator) genBlock(n *parser.SyntaxTreeNode) error {
	g.enterScope()
	defer g.exitScope()
	for _, stmt := range n.Child(1).FlattenList("StmtList") {
		if err := g.genStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) genIf(n *parser.SyntaxTreeNode) error {
	cond, err := g.genExpr(n.Child(1))
	if err != nil {
		return err
	}
	labelEnd := g.newLabel("if_end")
	g.emit(Quadruple{Op: "j_false", Arg1: cond, Result: labelEnd})
	if err := g.genStmt(n.Child(2)); err != nil {
		return err
	}
	g.emit(Quadruple{Op: "set_label", Result: labelEnd})
	return nil
}

func (g *Generator) genIfElse(n *parser.SyntaxTreeNode) error {
	cond, err := g.genExpr(n.Child(1))
	if err != nil {
		return err
	}
	labelFalse := g.newLabel("if_false")
	labelEnd := g.newLabel("if_end")
	g.emit(Quadruple{Op: "j_false", Arg1: cond, Result: labelFalse})
	if err := g.genStmt(n.Child(2)); err != nil {
		return err
	}
	g.emit(Quadruple{Op: "j", Result: labelEnd})
	g.emit(Quadruple{Op: "set_label", Result: labelFalse})
	if err := g.genStmt(n.Child(3)); err != nil {
		return err
	}
	g.emit(Quadruple{Op: "set_label", Result: labelEnd})
	return nil
}

func (g *Generator) genWhile(n *parser.SyntaxTreeNode) error {
	labelLoop := g.newLabel("while_loop")
	labelBreak := g.newLabel("while_break")
	g.emit(Quadruple{Op: "set_label", Result: labelLoop})
	cond, err := g.genExpr(n.Child(1))
	if err != nil {
		return err
	}
	g.emit(Quadruple{Op: "j_false", Arg1: cond, Result: labelBreak})

	g.loopStack = append(g.loopStack, loopContext{loopLabel: labelLoop, breakLabel: labelBreak})
	err = g.genStmt(n.Child(2))
	g.loopStack = g.loopStack[:len(g.loopStack)-1]
	if err != nil {
		return err
	}

	g.emit(Quadruple{Op: "j", Result: labelLoop})
	g.emit(Quadruple{Op: "set_label", Result: labelBreak})
	return nil
}

func (g *Generator) currentLoop(n *parser.SyntaxTreeNode, what string) (*loopContext, error) {
	if len(g.loopStack) == 0 {
		return nil, g.fail(diag.Semantic, n.Line, "%s used outside of a loop", what)
	}
	return &g.loopStack[len(g.loopStack)-1], nil
}

func (g *Generator) genBreak(n *parser.SyntaxTreeNode) error {
	lc, err := g.currentLoop(n, "break")
	if err != nil {
		return err
	}
	g.emit(Quadruple{Op: "j", Result: lc.breakLabel})
	return nil
}

func (g *Generator) genContinue(n *parser.SyntaxTreeNode) error {
	lc, err := g.currentLoop(n, "continue")
	if err != nil {
		return err
	}
	g.emit(Quadruple{Op: "j", Result: lc.loopLabel})
	return nil
}

func (g *Generator) genReturnVoid(n *parser.SyntaxTreeNode) error {
	f := g.curFunc
	f.HasReturn = true
	fn := f // capture for the deferred check
	g.postChecks = append(g.postChecks, func(g *Generator) error {
		if fn.ReturnType != TVoid {
			return g.fail(diag.Semantic, n.Line, "function %q must return a value", fn.Name)
		}
		return nil
	})
	g.emit(Quadruple{Op: "return_void", Result: f.ExitLabel})
	return nil
}

func (g *Generator) genReturnExpr(n *parser.SyntaxTreeNode) error {
	f := g.curFunc
	f.HasReturn = true
	v, err := g.genExpr(n.Child(1))
	if err != nil {
		return err
	}
	fn := f
	g.postChecks = append(g.postChecks, func(g *Generator) error {
		if fn.ReturnType == TVoid {
			return g.fail(diag.Semantic, n.Line, "function %q returning void cannot return a value", fn.Name)
		}
		return nil
	})
	g.emit(Quadruple{Op: "return_expr", Arg1: v, Result: f.ExitLabel})
	return nil
}
