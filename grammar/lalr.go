package grammar

import (
	"fmt"
	"sort"
)

// Conflict describes a shift/reduce or reduce/reduce ambiguity LALR(1)
// table construction had to resolve. BuildTable resolves every conflict
// (shift wins over reduce, earlier-declared production wins over later)
// so table construction itself never fails; conflicts are only reported
// for diagnostics.
type Conflict struct {
	State     int
	Symbol    string
	Kind      string // "shift/reduce" or "reduce/reduce"
	Resolved  string
}

// BuildTable constructs a LALR(1) ACTION/GOTO table for g using the
// standard "canonical LR(1), then merge same-core states" approach: it
// is less memory-efficient than Algorithm 4.63's direct lookahead
// propagation, but far simpler to get right, and table construction
// here runs once per compiler invocation over a grammar small enough
// that the difference doesn't matter.
func BuildTable(g *Grammar) (*Table, []Conflict, error) {
	ag, startProdIdx := augmented(g)
	fs := ComputeFirstSets(ag)

	startSeed := newItemSet()
	startSeed.add(item{prod: startProdIdx, dot: 0, lookahead: End.Name})
	startState := closure(ag, fs, startSeed)

	type state struct {
		items *itemSet
		core  string
	}

	states := []*state{{items: startState, core: startState.coreKey()}}
	coreToState := map[string]int{states[0].core: 0}
	transitions := map[int]map[string]int{} // state -> symbolName -> state

	queue := []int{0}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		cur := states[i]
		transitions[i] = make(map[string]int)
		for _, x := range nextSymbols(ag, cur.items) {
			target := gotoSet(ag, fs, cur.items, x)
			if target == nil {
				continue
			}
			core := target.coreKey()
			if existing, ok := coreToState[core]; ok {
				// Merge lookaheads into the existing same-core state -
				// this merge step is what turns canonical LR(1) into
				// LALR(1). A state that gained items is expanded again
				// so the new lookaheads reach its successors.
				grew := false
				for _, it := range target.list() {
					if states[existing].items.add(it) {
						grew = true
					}
				}
				if grew {
					queue = append(queue, existing)
				}
				transitions[i][x.Name] = existing
				continue
			}
			id := len(states)
			coreToState[core] = id
			states = append(states, &state{items: target, core: core})
			transitions[i][x.Name] = id
			queue = append(queue, id)
		}
	}

	// Build the symbol table: terminals, End, then non-terminals (the
	// augmented start symbol included, so GOTO has a column for it).
	var symbols []Symbol
	symIndex := make(map[string]int)
	addSym := func(s Symbol) {
		if _, ok := symIndex[s.Name]; ok {
			return
		}
		symIndex[s.Name] = len(symbols)
		symbols = append(symbols, s)
	}
	for _, t := range g.Terminals() {
		addSym(t)
	}
	addSym(End)
	addSym(NonTerminal("__start__"))
	for _, nt := range g.NonTerminals() {
		addSym(nt)
	}

	table := &Table{
		Symbols:     symbols,
		Productions: ag.Productions,
		StartState:  0,
	}
	table.reindex()

	table.Action = make([][]ActionEntry, len(states))
	table.Goto = make([][]int, len(states))
	for i := range states {
		table.Action[i] = make([]ActionEntry, len(symbols))
		for j := range table.Action[i] {
			table.Action[i][j] = ActionEntry{Kind: ActionNone}
		}
		table.Goto[i] = make([]int, len(symbols))
		for j := range table.Goto[i] {
			table.Goto[i][j] = -1
		}
	}

	var conflicts []Conflict

	setAction := func(state int, symName string, entry ActionEntry) {
		idx, ok := symIndex[symName]
		if !ok {
			return
		}
		existing := table.Action[state][idx]
		if existing.Kind == ActionNone {
			table.Action[state][idx] = entry
			return
		}
		if existing == entry {
			return
		}
		// Resolve: shift beats reduce; earlier production beats later.
		switch {
		case existing.Kind == ActionShift && entry.Kind == ActionReduce:
			conflicts = append(conflicts, Conflict{State: state, Symbol: symName, Kind: "shift/reduce", Resolved: "shift"})
		case existing.Kind == ActionReduce && entry.Kind == ActionShift:
			conflicts = append(conflicts, Conflict{State: state, Symbol: symName, Kind: "shift/reduce", Resolved: "shift"})
			table.Action[state][idx] = entry
		case existing.Kind == ActionReduce && entry.Kind == ActionReduce:
			resolved := existing.Data
			if entry.Data < existing.Data {
				resolved = entry.Data
				table.Action[state][idx] = entry
			}
			conflicts = append(conflicts, Conflict{
				State: state, Symbol: symName, Kind: "reduce/reduce",
				Resolved: fmt.Sprintf("reduce by production %d", resolved),
			})
		}
	}

	for i, st := range states {
		for _, it := range st.items.list() {
			prod := ag.Productions[it.prod]
			if it.dot < len(prod.RHS) {
				next := prod.RHS[it.dot]
				if next.IsTerminal() {
					if target, ok := transitions[i][next.Name]; ok {
						setAction(i, next.Name, ActionEntry{Kind: ActionShift, Data: target})
					}
				}
				continue
			}
			// Dot at end: reduce, or accept for the augmented start item.
			if it.prod == startProdIdx {
				setAction(i, End.Name, ActionEntry{Kind: ActionAccept})
				continue
			}
			setAction(i, it.lookahead, ActionEntry{Kind: ActionReduce, Data: it.prod})
		}
		for sym, target := range transitions[i] {
			if idx, ok := symIndex[sym]; ok && !symbols[idx].IsTerminal() {
				table.Goto[i][idx] = target
			}
		}
	}

	sort.Slice(conflicts, func(i, j int) bool { return conflicts[i].State < conflicts[j].State })
	return table, conflicts, nil
}
