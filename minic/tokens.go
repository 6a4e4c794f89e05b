// Package minic is the concrete language definition on top of the
// generic automata/lexgen/lexer/grammar/parser machinery: the MiniC
// token rule table, its LALR(1) grammar and semantic actions, and the
// reserved-word set shared between the two.
package minic

import (
	"fmt"

	"github.com/coregx/ahocorasick"

	"github.com/arcbound/minicc/lexer"
	"github.com/arcbound/minicc/lexgen"
)

// ReservedWords is every MiniC keyword, in source-declaration order. Each
// one is compiled as its own lexer rule at a lower Order than IDENTIFIER,
// so the DFA's longest-match tie-break prefers the keyword whenever a
// keyword and IDENTIFIER match the same text.
var ReservedWords = []string{
	"int", "void", "string", "if", "else", "while",
	"break", "continue", "return", "__asm",
}

// reservedWordFilter is an Aho-Corasick automaton over ReservedWords,
// built once. It is not on the lexer's hot path - the DFA remains the
// sole authority over what matches at runtime - it is a rule-table
// sanity check: every occurrence it reports of a reserved word's exact
// text is asserted, in checkReservedWordCoverage, to belong to a keyword
// rule of strictly lower priority than IDENTIFIER's.
var reservedWordFilter = ahocorasick.NewMatcher(ReservedWords)

// Rules returns the MiniC lexical rule table: keywords (lowest Order,
// highest priority), then identifiers/literals, then operators and
// punctuation, then comments and whitespace (highest Order, lowest
// priority, since nothing else should ever tie with them on length).
func Rules() []lexgen.Rule {
	order := 0
	next := func() int { o := order; order++; return o }

	var rules []lexgen.Rule
	kw := func(name, pattern string) {
		rules = append(rules, lexgen.Rule{Name: name, Pattern: pattern, Order: next()})
	}

	kw("INT", "int")
	kw("VOID", "void")
	kw("STRING", "string")
	kw("IF", "if")
	kw("ELSE", "else")
	kw("WHILE", "while")
	kw("BREAK", "break")
	kw("CONTINUE", "continue")
	kw("RETURN", "return")
	kw("ASM", "__asm")

	kw("IDENTIFIER", `[A-Za-z_][A-Za-z0-9_]*`)
	kw("NUMBER", `[0-9]+`)
	kw("STRING_LIT", `\"[^\"]*\"`)

	kw("OR_OP", `\|\|`)
	kw("AND_OP", "&&")
	kw("EQ_OP", "==")
	kw("NE_OP", "!=")
	kw("GE_OP", ">=")
	kw("LE_OP", "<=")
	kw("LEFT_OP", "<<")
	kw("RIGHT_OP", ">>")
	kw("GT_OP", ">")
	kw("LT_OP", "<")
	kw("ASSIGN", "=")
	kw("PLUS", `\+`)
	kw("MINUS", "-")
	kw("MULTIPLY", `\*`)
	kw("SLASH", "/")
	kw("PERCENT", "%")
	kw("BITAND_OP", "&")
	kw("BITOR_OP", `\|`)
	kw("BITXOR_OP", "^")
	kw("NOT_OP", "!")
	kw("BITINV_OP", "~")
	kw("DOLLAR", "$")

	kw("LBRACE", "{")
	kw("RBRACE", "}")
	kw("LPAREN", `\(`)
	kw("RPAREN", `\)`)
	kw("LBRACKET", `\[`)
	kw("RBRACKET", `\]`)
	kw("SEMI", ";")
	kw("COMMA", ",")

	kw(lexer.CommentToken, `//[^\n]*\n?`)
	kw(lexer.WhitespaceToken, `[ \t\r\n]+`)

	return rules
}

// checkReservedWordCoverage asserts, for every reserved word, that Rules
// assigned it a rule of lower Order than IDENTIFIER's - the consistency
// check the Aho-Corasick matcher exists to make cheap. It runs from
// this package's tests, not on the lexing hot path.
func checkReservedWordCoverage(rules []lexgen.Rule) error {
	orderByName := make(map[string]int, len(rules))
	for _, r := range rules {
		orderByName[r.Name] = r.Order
	}
	identOrder, ok := orderByName["IDENTIFIER"]
	if !ok {
		return fmt.Errorf("minic: rule table has no IDENTIFIER rule")
	}
	for _, word := range ReservedWords {
		if !reservedWordFilter.Match([]byte(word)) {
			return fmt.Errorf("minic: reserved word %q not recognized by keyword filter", word)
		}
		nameOrder, ok := orderByName[ruleNameFor(word)]
		if !ok {
			return fmt.Errorf("minic: reserved word %q has no corresponding rule", word)
		}
		if nameOrder >= identOrder {
			return fmt.Errorf("minic: reserved word %q's rule order %d does not precede IDENTIFIER's %d", word, nameOrder, identOrder)
		}
	}
	return nil
}

func ruleNameFor(reservedWord string) string {
	switch reservedWord {
	case "int":
		return "INT"
	case "void":
		return "VOID"
	case "string":
		return "STRING"
	case "if":
		return "IF"
	case "else":
		return "ELSE"
	case "while":
		return "WHILE"
	case "break":
		return "BREAK"
	case "continue":
		return "CONTINUE"
	case "return":
		return "RETURN"
	case "__asm":
		return "ASM"
	default:
		return ""
	}
}
