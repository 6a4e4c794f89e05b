// Package lexer runs a compiled DFA over source text, producing a token
// stream using longest-match-with-rollback and lowest-order-wins tie
// breaking (the tie breaking itself already happened inside the DFA;
// see automata.Build).
package lexer

import "fmt"

// Token is a single lexical token: a name (the rule's "return TOKEN;"
// action resolved to TOKEN), the literal text matched, and its source
// position.
type Token struct {
	Name    string
	Literal string
	Line    int
	Column  int
}

// SPEnd is the synthetic token name appended at end of input.
const SPEnd = "SP_END"

// CommentToken and WhitespaceToken are the reserved names LexerGen rules
// must use for comments and whitespace so the parser knows to discard
// them (see parser.FilterTrivia).
const (
	CommentToken   = "_COMMENT"
	WhitespaceToken = "_WHITESPACE"
)

func (t Token) String() string {
	return fmt.Sprintf("%s(%q) at %d:%d", t.Name, t.Literal, t.Line, t.Column)
}

// Error is a lexical error: an unrecognized character at a position.
type Error struct {
	Line, Column int
	Char         rune
}

func (e *Error) Error() string {
	return fmt.Sprintf("lexical error at %d:%d: unrecognized character %q", e.Line, e.Column, e.Char)
}
