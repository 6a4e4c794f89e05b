// Package lexgen builds a single combined DFA from a set of regex rules,
// each carrying a priority and an action payload, mirroring a classic
// lex tool's rule table. The resulting automata.DFA is what lexer.Lexer
// runs over source text.
package lexgen

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/arcbound/minicc/automata"
)

// Rule is one lexical rule: a regex pattern, an action (interpreted as
// opaque text by the automata kernel, but understood here well enough to
// extract a token name), and a declaration order used to break ties
// between rules that match the same longest prefix.
type Rule struct {
	Name    string // token name, e.g. "IDENTIFIER", "_COMMENT", "_WHITESPACE"
	Pattern string // regex in the automata package's dialect
	Order   int    // lower wins on a tie; rules are normally numbered by declaration order
}

// actionText renders the action payload the way a generated lexer's
// source would: `return TOKEN;`. ExtractTokenName below parses this back
// out, matching real lex-tool output where actions are source snippets
// rather than a clean token-name field.
func actionText(name string) string {
	return fmt.Sprintf("return %s;", name)
}

var returnStmt = regexp.MustCompile(`^return\s+(\S+?)\s*;$`)

// ExtractTokenName recovers the token name from an action's source text
// of the form "return TOKEN;", stripping surrounding whitespace. This is
// how the lexer turns a DFA accept action back into a token type without
// the kernel needing to understand the action language.
func ExtractTokenName(action string) (string, error) {
	m := returnStmt.FindStringSubmatch(strings.TrimSpace(action))
	if m == nil {
		return "", fmt.Errorf("lexgen: action %q is not of the form \"return TOKEN;\"", action)
	}
	return m[1], nil
}

// Build compiles rules into a combined DFA. Each rule's pattern is
// Thompson-constructed independently (sharing one Alphabet), marked
// accepting with an action of the form "return <Name>;", then unioned
// and subset-constructed.
func Build(rules []Rule) (*automata.DFA, error) {
	alphabet := automata.NewAlphabet()
	fragments := make([]*automata.NFA, 0, len(rules))

	for _, r := range rules {
		nfa, err := automata.CompileRegex(alphabet, r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("lexgen: rule %s: %w", r.Name, err)
		}
		nfa.MarkAccept(nfa.Accept, automata.Action{Order: r.Order, Payload: actionText(r.Name)})
		fragments = append(fragments, nfa)
	}

	combined := automata.UnionAll(alphabet, fragments)
	return automata.Build(combined), nil
}
