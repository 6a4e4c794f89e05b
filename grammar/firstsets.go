package grammar

// FirstSets holds, for every grammar symbol, the set of terminals that
// can begin a string it derives, plus whether it can derive the empty
// string. It is computed once per Grammar and reused throughout LALR(1)
// table construction for item-set closures.
type FirstSets struct {
	sets     map[string]map[string]bool
	nullable map[string]bool
}

// ComputeFirstSets computes FIRST(X) for every symbol X in g by
// iterating the standard dataflow equations to a fixed point.
func ComputeFirstSets(g *Grammar) *FirstSets {
	fs := &FirstSets{
		sets:     make(map[string]map[string]bool),
		nullable: make(map[string]bool),
	}

	for _, t := range g.Terminals() {
		fs.sets[t.Name] = map[string]bool{t.Name: true}
	}
	fs.sets[End.Name] = map[string]bool{End.Name: true}
	for _, nt := range g.NonTerminals() {
		fs.sets[nt.Name] = make(map[string]bool)
	}

	changed := true
	for changed {
		changed = false
		for _, p := range g.Productions {
			lhsSet := fs.sets[p.LHS.Name]

			if len(p.RHS) == 0 {
				if !fs.nullable[p.LHS.Name] {
					fs.nullable[p.LHS.Name] = true
					changed = true
				}
				continue
			}

			allNullableSoFar := true
			for _, sym := range p.RHS {
				if sym.Kind == EpsilonSym {
					continue
				}
				for t := range fs.symbolFirst(sym) {
					if !lhsSet[t] {
						lhsSet[t] = true
						changed = true
					}
				}
				if !fs.isNullable(sym) {
					allNullableSoFar = false
					break
				}
			}
			if allNullableSoFar && !fs.nullable[p.LHS.Name] {
				fs.nullable[p.LHS.Name] = true
				changed = true
			}
		}
	}

	return fs
}

func (fs *FirstSets) symbolFirst(s Symbol) map[string]bool {
	if s.IsTerminal() {
		return map[string]bool{s.Name: true}
	}
	return fs.sets[s.Name]
}

func (fs *FirstSets) isNullable(s Symbol) bool {
	if s.Kind == EpsilonSym {
		return true
	}
	if s.IsTerminal() {
		return false
	}
	return fs.nullable[s.Name]
}

// OfSequence returns FIRST(X1 X2 ... Xn beyond) where beyond is the
// lookahead set to fall back to if the whole sequence is nullable -
// exactly the computation an LR(1) item closure needs for FIRST(βa).
func (fs *FirstSets) OfSequence(seq []Symbol, beyond map[string]bool) map[string]bool {
	result := make(map[string]bool)
	allNullable := true
	for _, sym := range seq {
		for t := range fs.symbolFirst(sym) {
			result[t] = true
		}
		if !fs.isNullable(sym) {
			allNullable = false
			break
		}
	}
	if allNullable {
		for t := range beyond {
			result[t] = true
		}
	}
	return result
}
