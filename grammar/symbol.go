// Package grammar defines grammar symbols and productions, builds
// LALR(1) ACTION/GOTO tables from them, and (de)serializes those tables
// to the wire format parser.Parser consumes. Table construction is kept
// here rather than in parser because the parser's contract, per the
// pipeline design, is "consume precomputed tables" - building them is a
// related but separate concern, same as a real yacc/bison front end.
package grammar

import "fmt"

// SymbolKind tags what a grammar Symbol stands for.
type SymbolKind int

const (
	TerminalSym SymbolKind = iota
	NonTerminalSym
	EndSym     // the synthetic end-of-input marker, "$"
	EpsilonSym // the empty-production marker, never itself shifted
)

func (k SymbolKind) String() string {
	switch k {
	case TerminalSym:
		return "terminal"
	case NonTerminalSym:
		return "nonTerminal"
	case EndSym:
		return "end"
	case EpsilonSym:
		return "epsilon"
	default:
		return fmt.Sprintf("SymbolKind(%d)", k)
	}
}

// Symbol is a tagged grammar symbol: a terminal token name, a
// non-terminal name, or one of the two special markers.
type Symbol struct {
	Kind SymbolKind
	Name string
}

func Terminal(name string) Symbol    { return Symbol{Kind: TerminalSym, Name: name} }
func NonTerminal(name string) Symbol { return Symbol{Kind: NonTerminalSym, Name: name} }

// End and Epsilon are the two fixed special symbols every Grammar
// implicitly carries.
var (
	End     = Symbol{Kind: EndSym, Name: "SP_END"}
	Epsilon = Symbol{Kind: EpsilonSym, Name: "ε"}
)

func (s Symbol) String() string { return s.Name }

func (s Symbol) IsTerminal() bool {
	return s.Kind == TerminalSym || s.Kind == EndSym
}
