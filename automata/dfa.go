package automata

import (
	"sort"
	"strconv"
	"strings"
)

// DFAState is a deterministic automaton state. Trans holds explicit
// per-symbol transitions; OtherTarget (when >= 0) is the fallback used
// for any rune that doesn't have one of those explicit transitions and
// isn't a newline - the "any char except newline" collapse described in
// the kernel's data model.
type DFAState struct {
	ID          int
	Trans       map[int]int
	OtherTarget int // -1 if this state has no fallback edge
	Accept      *Action
}

// DFA is a deterministic finite automaton built by subset construction
// over an NFA sharing the same Alphabet.
type DFA struct {
	Alphabet *Alphabet
	Start    int
	States   map[int]*DFAState
}

// Build runs subset construction over nfa, producing a DFA. Accepting
// DFA states resolve ties between multiple collapsed NFA accept states
// by lowest Action.Order (see Action's doc comment).
func Build(nfa *NFA) *DFA {
	dfa := &DFA{Alphabet: nfa.Alphabet, States: make(map[int]*DFAState)}

	startSet := EpsilonClosure(nfa, map[int]bool{nfa.Start: true})
	setKeys := make(map[string]int) // canonical NFA-state-set key -> dfa state id
	nextID := 0

	type queued struct {
		set map[int]bool
		key string
	}
	startKey := setKey(startSet)
	dfa.Start = nextID
	setKeys[startKey] = nextID
	nextID++

	queue := []queued{{startSet, startKey}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		curID := setKeys[cur.key]

		// Gather concrete-symbol moves and the any-char move across
		// every NFA state in this subset.
		symTargets := make(map[int]map[int]bool) // symbol id -> raw target set
		anyTargets := make(map[int]bool)

		var accepts []*Action
		for nfaID := range cur.set {
			st := nfa.States[nfaID]
			if st.Accept != nil {
				accepts = append(accepts, st.Accept)
			}
			for sym, targets := range st.Trans {
				if symTargets[sym] == nil {
					symTargets[sym] = make(map[int]bool)
				}
				for t := range targets {
					symTargets[sym][t] = true
				}
			}
			for t := range st.AnyTrans {
				anyTargets[t] = true
			}
		}

		dstate := &DFAState{ID: curID, Trans: make(map[int]int), OtherTarget: -1}

		resolveOrEnqueue := func(raw map[int]bool) (int, bool) {
			closure := EpsilonClosure(nfa, raw)
			key := setKey(closure)
			if id, ok := setKeys[key]; ok {
				return id, false
			}
			id := nextID
			nextID++
			setKeys[key] = id
			queue = append(queue, queued{closure, key})
			return id, true
		}

		var anyID int
		haveAny := len(anyTargets) > 0
		if haveAny {
			id, _ := resolveOrEnqueue(anyTargets)
			anyID = id
			dstate.OtherTarget = anyID
		}

		for sym, raw := range symTargets {
			// move(set, sym) also follows every any-char edge of the
			// subset, except on newline.
			if haveAny && nfa.Alphabet.Rune(sym) != '\n' {
				for t := range anyTargets {
					raw[t] = true
				}
			}
			id, _ := resolveOrEnqueue(raw)
			// A concrete transition is redundant when it goes to the
			// exact same place the any-edge already goes to, and the
			// symbol isn't newline (the one rune the any-edge never
			// covers). Skip storing it explicitly; the Other fallback
			// already handles it.
			if haveAny && id == anyID && nfa.Alphabet.Rune(sym) != '\n' {
				continue
			}
			dstate.Trans[sym] = id
		}

		if len(accepts) > 0 {
			best := accepts[0]
			for _, a := range accepts[1:] {
				if a.Order < best.Order {
					best = a
				}
			}
			cp := *best
			dstate.Accept = &cp
		}

		dfa.States[curID] = dstate
	}

	return dfa
}

// Step returns the next state for (state, r), or -1 if there is none
// (the "any char except newline" fallback is applied automatically, and
// never for r == '\n').
func (d *DFA) Step(state int, r rune) int {
	st, ok := d.States[state]
	if !ok {
		return -1
	}
	if id, ok := d.Alphabet.lookup(r); ok {
		if target, ok := st.Trans[id]; ok {
			return target
		}
	}
	if r != '\n' && st.OtherTarget >= 0 {
		return st.OtherTarget
	}
	return -1
}

// IsAccepting reports whether state accepts, and its action if so.
func (d *DFA) IsAccepting(state int) (Action, bool) {
	st, ok := d.States[state]
	if !ok || st.Accept == nil {
		return Action{}, false
	}
	return *st.Accept, true
}

// lookup is the read-only counterpart of Intern: it reports the id of r
// only if it has already been interned, without allocating a new one.
func (a *Alphabet) lookup(r rune) (int, bool) {
	id, ok := a.toID[r]
	return id, ok
}

func setKey(states map[int]bool) string {
	ids := make([]int, 0, len(states))
	for id := range states {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(id))
	}
	return b.String()
}
