package lexer

import (
	"testing"

	"github.com/arcbound/minicc/lexgen"
)

func testDFA(t *testing.T) *Lexer {
	t.Helper()
	dfa, err := lexgen.Build([]lexgen.Rule{
		{Name: "IF", Pattern: "if", Order: 0},
		{Name: "IDENTIFIER", Pattern: "[a-zA-Z_][a-zA-Z0-9_]*", Order: 1},
		{Name: "INT_LITERAL", Pattern: "[0-9]+", Order: 2},
		{Name: WhitespaceToken, Pattern: "[ \t\n]+", Order: 3},
		{Name: "PLUS", Pattern: `\+`, Order: 4},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return &Lexer{dfa: dfa, line: 1, column: 1}
}

func tokenize(t *testing.T, src string) []Token {
	t.Helper()
	l := testDFA(t)
	l.src = []rune(src)
	toks, err := l.Tokenize()
	if err != nil {
		t.Fatalf("Tokenize(%q): %v", src, err)
	}
	return toks
}

func TestLongestMatchPrefersKeywordOverIdentifierOnTie(t *testing.T) {
	toks := tokenize(t, "if")
	if toks[0].Name != "IF" {
		t.Errorf("got %s, want IF (lowest order wins on equal-length match)", toks[0].Name)
	}
}

func TestLongestMatchDoesNotTruncateIdentifier(t *testing.T) {
	toks := tokenize(t, "ifconfig")
	if toks[0].Name != "IDENTIFIER" || toks[0].Literal != "ifconfig" {
		t.Errorf("got %s(%q), want IDENTIFIER(\"ifconfig\") by longest match", toks[0].Name, toks[0].Literal)
	}
}

func TestWhitespaceAndEOF(t *testing.T) {
	toks := tokenize(t, "a + 1")
	var names []string
	for _, tok := range toks {
		names = append(names, tok.Name)
	}
	want := []string{"IDENTIFIER", WhitespaceToken, "PLUS", WhitespaceToken, "INT_LITERAL", SPEnd}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, names[i], want[i])
		}
	}
}

func TestLinesAndColumns(t *testing.T) {
	toks := tokenize(t, "a\nbb")
	// a, \n (whitespace), bb, SP_END
	if toks[0].Line != 1 || toks[0].Column != 1 {
		t.Errorf("first token at %d:%d, want 1:1", toks[0].Line, toks[0].Column)
	}
	last := toks[len(toks)-2] // "bb"
	if last.Line != 2 || last.Column != 1 {
		t.Errorf("\"bb\" at %d:%d, want 2:1", last.Line, last.Column)
	}
}

func TestCollectModeSkipsBadCharacters(t *testing.T) {
	l := testDFA(t)
	l.Collect = true
	l.src = []rune("a$b")
	toks, err := l.Tokenize()
	if err != nil {
		t.Fatalf("Tokenize in collect mode should not return an error: %v", err)
	}
	if len(l.Errors) != 1 {
		t.Fatalf("got %d errors, want 1", len(l.Errors))
	}
	if l.Errors[0].Char != '$' {
		t.Errorf("got bad char %q, want '$'", l.Errors[0].Char)
	}
	var names []string
	for _, tok := range toks {
		names = append(names, tok.Name)
	}
	want := []string{"IDENTIFIER", "IDENTIFIER", SPEnd}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
}
