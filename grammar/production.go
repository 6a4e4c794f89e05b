package grammar

import "fmt"

// Production is one grammar rule, LHS -> RHS, plus the semantic-action
// source the parser compiles and runs on reduce. Production indices are
// stable and are what ACTION-table reduce entries and
// Production._lhs/_rhs in the wire format reference.
type Production struct {
	LHS    Symbol
	RHS    []Symbol
	Action string // e.g. `$$ = newNode("IfStmt", $1, $3, $5)`
}

func (p Production) String() string {
	rhs := ""
	for i, s := range p.RHS {
		if i > 0 {
			rhs += " "
		}
		rhs += s.Name
	}
	if rhs == "" {
		rhs = "ε"
	}
	return fmt.Sprintf("%s -> %s", p.LHS.Name, rhs)
}

// Grammar is a symbol table plus production list plus a start symbol,
// the input to LALR(1) table construction.
type Grammar struct {
	Symbols     []Symbol
	Productions []Production
	Start       Symbol
}

// NonTerminals returns every distinct non-terminal appearing as some
// production's LHS, in first-seen order.
func (g *Grammar) NonTerminals() []Symbol {
	seen := make(map[string]bool)
	var out []Symbol
	for _, p := range g.Productions {
		if !seen[p.LHS.Name] {
			seen[p.LHS.Name] = true
			out = append(out, p.LHS)
		}
	}
	return out
}

// Terminals returns every distinct terminal referenced in any
// production's RHS, in first-seen order.
func (g *Grammar) Terminals() []Symbol {
	seen := make(map[string]bool)
	var out []Symbol
	for _, p := range g.Productions {
		for _, s := range p.RHS {
			if s.Kind == TerminalSym && !seen[s.Name] {
				seen[s.Name] = true
				out = append(out, s)
			}
		}
	}
	return out
}

// ProductionsFor returns the indices of every production whose LHS is lhs.
func (g *Grammar) ProductionsFor(lhs Symbol) []int {
	var out []int
	for i, p := range g.Productions {
		if p.LHS.Name == lhs.Name {
			out = append(out, i)
		}
	}
	return out
}
