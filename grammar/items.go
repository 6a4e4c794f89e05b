package grammar

import (
	"fmt"
	"sort"
	"strings"
)

// item is an LR(1) item: a production, how far the dot has advanced
// into its RHS, and one lookahead terminal. augmented()
// prepends a fresh start production so the augmented grammar always has
// a unique accepting item.
type item struct {
	prod      int
	dot       int
	lookahead string
}

func (it item) key() string {
	return fmt.Sprintf("%d.%d.%s", it.prod, it.dot, it.lookahead)
}

// itemSet is a set of items, keyed by item.key() for deduplication;
// coreKey derives the sorted key used to detect when two states share a core.
type itemSet struct {
	items map[string]item
}

func newItemSet() *itemSet { return &itemSet{items: make(map[string]item)} }

func (s *itemSet) add(it item) bool {
	k := it.key()
	if _, ok := s.items[k]; ok {
		return false
	}
	s.items[k] = it
	return true
}

func (s *itemSet) list() []item {
	out := make([]item, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key() < out[j].key() })
	return out
}

// coreKey identifies a set's LR(0) core (production+dot, ignoring
// lookaheads) - the basis on which LALR(1) merges distinct LR(1) states.
func (s *itemSet) coreKey() string {
	seen := make(map[string]bool)
	for _, it := range s.items {
		seen[fmt.Sprintf("%d.%d", it.prod, it.dot)] = true
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, "|")
}

// augmented returns a copy of g with a fresh production S' -> S prepended
// at index 0, and the index of that production.
func augmented(g *Grammar) (*Grammar, int) {
	startProd := Production{LHS: NonTerminal("__start__"), RHS: []Symbol{g.Start}}
	prods := append([]Production{startProd}, g.Productions...)
	return &Grammar{Symbols: g.Symbols, Productions: prods, Start: g.Start}, 0
}

// closure computes the LR(1) closure of a seed item set: repeatedly, for
// every item [A -> α . B β, a] with B a non-terminal, add [B -> .γ, b]
// for every production B -> γ and every b in FIRST(βa).
func closure(g *Grammar, fs *FirstSets, seed *itemSet) *itemSet {
	result := newItemSet()
	worklist := seed.list()
	for _, it := range worklist {
		result.add(it)
	}

	for len(worklist) > 0 {
		it := worklist[0]
		worklist = worklist[1:]

		prod := g.Productions[it.prod]
		if it.dot >= len(prod.RHS) {
			continue
		}
		b := prod.RHS[it.dot]
		if b.Kind != NonTerminalSym {
			continue
		}

		beyond := prod.RHS[it.dot+1:]
		lookaheadSet := fs.OfSequence(beyond, map[string]bool{it.lookahead: true})

		for _, pi := range g.ProductionsFor(b) {
			for la := range lookaheadSet {
				newItem := item{prod: pi, dot: 0, lookahead: la}
				if result.add(newItem) {
					worklist = append(worklist, newItem)
				}
			}
		}
	}
	return result
}

// gotoSet computes GOTO(items, X): advance the dot past X in every item
// that has X right after its dot, then close the result.
func gotoSet(g *Grammar, fs *FirstSets, items *itemSet, x Symbol) *itemSet {
	moved := newItemSet()
	for _, it := range items.list() {
		prod := g.Productions[it.prod]
		if it.dot < len(prod.RHS) && prod.RHS[it.dot].Name == x.Name && prod.RHS[it.dot].Kind == x.Kind {
			moved.add(item{prod: it.prod, dot: it.dot + 1, lookahead: it.lookahead})
		}
	}
	if len(moved.items) == 0 {
		return nil
	}
	return closure(g, fs, moved)
}

// nextSymbols returns the distinct grammar symbols immediately following
// the dot across every item in the set, in first-seen order.
func nextSymbols(g *Grammar, items *itemSet) []Symbol {
	seen := make(map[string]bool)
	var out []Symbol
	for _, it := range items.list() {
		prod := g.Productions[it.prod]
		if it.dot < len(prod.RHS) {
			sym := prod.RHS[it.dot]
			if !seen[sym.Name] {
				seen[sym.Name] = true
				out = append(out, sym)
			}
		}
	}
	return out
}
