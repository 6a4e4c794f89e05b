package parser

import (
	"testing"

	"github.com/arcbound/minicc/grammar"
	"github.com/arcbound/minicc/lexer"
	"github.com/arcbound/minicc/lexgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exprGrammar builds the textbook left-recursive expression grammar
// (E -> E + T | T; T -> T * F | F; F -> ( E ) | id), wired with
// newNode-based semantic actions, to exercise the driver end to end.
func exprGrammar() *grammar.Grammar {
	E, T, F := grammar.NonTerminal("E"), grammar.NonTerminal("T"), grammar.NonTerminal("F")
	plus, star := grammar.Terminal("PLUS"), grammar.Terminal("STAR")
	lparen, rparen, id := grammar.Terminal("LPAREN"), grammar.Terminal("RPAREN"), grammar.Terminal("ID")

	return &grammar.Grammar{
		Start: E,
		Productions: []grammar.Production{
			{LHS: E, RHS: []grammar.Symbol{E, plus, T}, Action: `$$ = newNode("Add", $1, $3)`},
			{LHS: E, RHS: []grammar.Symbol{T}, Action: `$$ = $1`},
			{LHS: T, RHS: []grammar.Symbol{T, star, F}, Action: `$$ = newNode("Mul", $1, $3)`},
			{LHS: T, RHS: []grammar.Symbol{F}, Action: `$$ = $1`},
			{LHS: F, RHS: []grammar.Symbol{lparen, E, rparen}, Action: `$$ = $2`},
			{LHS: F, RHS: []grammar.Symbol{id}, Action: `$$ = newNode("Ident", $1)`},
		},
	}
}

func exprLexer(t *testing.T, src string) []lexer.Token {
	t.Helper()
	rules := []lexgen.Rule{
		{Name: "PLUS", Pattern: `\+`, Order: 0},
		{Name: "STAR", Pattern: `\*`, Order: 1},
		{Name: "LPAREN", Pattern: `\(`, Order: 2},
		{Name: "RPAREN", Pattern: `\)`, Order: 3},
		{Name: "ID", Pattern: `[a-z][a-z0-9]*`, Order: 4},
		{Name: lexer.WhitespaceToken, Pattern: `[ \t\n]+`, Order: 5},
	}
	dfa, err := lexgen.Build(rules)
	require.NoError(t, err)
	toks, err := lexer.New(dfa, src).Tokenize()
	require.NoError(t, err)
	return FilterTrivia(toks)
}

func TestParserBuildsExpectedTree(t *testing.T) {
	table, conflicts, err := grammar.BuildTable(exprGrammar())
	require.NoError(t, err)
	assert.Empty(t, conflicts)

	p, err := New(table)
	require.NoError(t, err)

	tree, err := p.Parse(exprLexer(t, "a + b * c"))
	require.NoError(t, err)

	require.Equal(t, "Add", tree.Name)
	require.Len(t, tree.Children, 2)
	assert.Equal(t, "Ident", tree.Child(1).Name)
	assert.Equal(t, "a", tree.Child(1).Child(1).Literal)

	mul := tree.Child(2)
	require.Equal(t, "Mul", mul.Name)
	assert.Equal(t, "b", mul.Child(1).Child(1).Literal)
	assert.Equal(t, "c", mul.Child(2).Child(1).Literal)
}

func TestParserHonorsParentheses(t *testing.T) {
	table, _, err := grammar.BuildTable(exprGrammar())
	require.NoError(t, err)
	p, err := New(table)
	require.NoError(t, err)

	tree, err := p.Parse(exprLexer(t, "(a + b) * c"))
	require.NoError(t, err)

	require.Equal(t, "Mul", tree.Name)
	add := tree.Child(1)
	require.Equal(t, "Add", add.Name)
	assert.Equal(t, "c", tree.Child(2).Child(1).Literal)
}

func TestParserReportsUnexpectedToken(t *testing.T) {
	table, _, err := grammar.BuildTable(exprGrammar())
	require.NoError(t, err)
	p, err := New(table)
	require.NoError(t, err)

	_, err = p.Parse(exprLexer(t, "a +"))
	require.Error(t, err)
}
