// Package parser implements a table-driven LALR(1) parser: given a
// token stream and a precomputed grammar.Table, it runs the classic
// state/symbol-stack shift-reduce algorithm, executing each production's
// semantic action on reduce to assemble a concrete syntax tree.
package parser

import "github.com/arcbound/minicc/lexer"

// NodeKind tags whether a SyntaxTreeNode came from a shifted token or a
// reduced production.
type NodeKind int

const (
	TokenNode NodeKind = iota
	NonTerminalNode
)

// SyntaxTreeNode is the parser's single output type, per the data
// model: a name (token name, or production LHS name), its children in
// RHS order (1-indexed when referenced from a semantic action), literal
// text (meaningful only for TokenNode) and a source line inherited from
// the first child with a known one.
type SyntaxTreeNode struct {
	Name     string
	Kind     NodeKind
	Literal  string
	Children []*SyntaxTreeNode
	Line     int
}

// NewTokenNode wraps a lexer token as a leaf syntax-tree node.
func NewTokenNode(tok lexer.Token) *SyntaxTreeNode {
	return &SyntaxTreeNode{
		Name:    tok.Name,
		Kind:    TokenNode,
		Literal: tok.Literal,
		Line:    tok.Line,
	}
}

// NewNode builds a non-terminal node named name over the given children,
// inheriting Line from the first child that has one. This is exactly
// what the semantic action language's newNode(...) constructor calls.
func NewNode(name string, children ...*SyntaxTreeNode) *SyntaxTreeNode {
	n := &SyntaxTreeNode{Name: name, Kind: NonTerminalNode, Children: children}
	for _, c := range children {
		if c != nil && c.Line != 0 {
			n.Line = c.Line
			break
		}
	}
	return n
}

// FlattenList unwraps a "List -> ε | Item | List Item" tree back into a
// flat, in-order slice. Every MiniC list production follows this shape:
// the epsilon alternative's action is `newNode(listName)` (zero
// children), the single-item alternative's is `newNode(listName, item)`
// (one child, the item itself, not a nested list), and the recursive
// alternative's is `newNode(listName, $1, item)` (two children);
// FlattenList walks the resulting cons-list back out.
func (n *SyntaxTreeNode) FlattenList(listName string) []*SyntaxTreeNode {
	if n == nil || n.Name != listName {
		return nil
	}
	switch len(n.Children) {
	case 0:
		return nil
	case 1:
		return []*SyntaxTreeNode{n.Child(1)}
	default:
		return append(n.Child(1).FlattenList(listName), n.Children[len(n.Children)-1])
	}
}

// Child returns the i'th child using the grammar's 1-indexed convention,
// or nil if i is out of range (a convenience for semantic actions that
// reference optional children, e.g. an absent else-branch).
func (n *SyntaxTreeNode) Child(i int) *SyntaxTreeNode {
	if n == nil || i < 1 || i > len(n.Children) {
		return nil
	}
	return n.Children[i-1]
}
