package automata

// Action is the opaque payload carried by an NFA/DFA accepting state. The
// kernel never interprets it; LexerGen stuffs regex-rule actions in here
// and the lexer pulls them back out once a DFA run lands on an accepting
// state. Order is the rule's declaration priority: on a tie between
// several NFA accept states collapsing into one DFA state, the state
// with the lowest Order wins (see Build).
type Action struct {
	Order   int
	Payload string
}

// State is an NFA state. States are identities, not values: two states
// with identical outgoing transitions are still distinct until subset
// construction merges them into DFA states.
type State struct {
	ID int
	// Trans holds ordinary alphabet-indexed transitions.
	Trans map[int]map[int]bool
	// AnyTrans holds "any char except newline" transitions (the '.' atom).
	AnyTrans map[int]bool
	// Eps holds epsilon transitions; DFA states never have these, they're
	// resolved away by EpsilonClosure during subset construction.
	Eps map[int]bool
	// Accept is non-nil if this state accepts, carrying the rule action.
	Accept *Action
}

func newState(id int) *State {
	return &State{
		ID:       id,
		Trans:    make(map[int]map[int]bool),
		AnyTrans: make(map[int]bool),
		Eps:      make(map[int]bool),
	}
}

// NFA is a nondeterministic finite automaton over a shared Alphabet.
type NFA struct {
	Alphabet *Alphabet
	Start    int
	Accept   int
	States   map[int]*State
	nextID   int
}

// New returns a two-state NFA fragment (start, accept) with no
// transitions between them, sharing alphabet a.
func New(a *Alphabet) *NFA {
	n := &NFA{Alphabet: a, States: make(map[int]*State)}
	n.Start = n.AddState()
	n.Accept = n.AddState()
	return n
}

// AddState allocates a fresh state and returns its id.
func (n *NFA) AddState() int {
	id := n.nextID
	n.nextID++
	n.States[id] = newState(id)
	return id
}

// AddRuneTransition adds a transition from->to on the interned symbol r.
func (n *NFA) AddRuneTransition(from int, r rune, to int) {
	n.AddSymbolTransition(from, n.Alphabet.Intern(r), to)
}

// AddSymbolTransition adds a transition from->to keyed by an already
// interned alphabet id.
func (n *NFA) AddSymbolTransition(from, symbol, to int) {
	st := n.States[from]
	if st.Trans[symbol] == nil {
		st.Trans[symbol] = make(map[int]bool)
	}
	st.Trans[symbol][to] = true
}

// AddAnyTransition adds a "match any char except newline" transition.
func (n *NFA) AddAnyTransition(from, to int) {
	n.States[from].AnyTrans[to] = true
}

// AddEpsilon adds an epsilon transition.
func (n *NFA) AddEpsilon(from, to int) {
	n.States[from].Eps[to] = true
}

// Merge copies every state of other into n, verbatim (other must already
// use ids disjoint from n's - callers renumber before merging). It
// returns nothing; other's Start/Accept are left for the caller to wire up.
func (n *NFA) Merge(other *NFA) {
	for id, st := range other.States {
		n.States[id] = st
		if id >= n.nextID {
			n.nextID = id + 1
		}
	}
}

// Renumber shifts every state id in n up by offset, rewriting all
// transition tables in place. Used before merging two fragments built
// independently so their state ids don't collide.
func (n *NFA) Renumber(offset int) {
	mapping := func(id int) int { return id + offset }

	newStates := make(map[int]*State, len(n.States))
	for id, st := range n.States {
		ns := &State{
			ID:       mapping(id),
			Trans:    make(map[int]map[int]bool, len(st.Trans)),
			AnyTrans: make(map[int]bool, len(st.AnyTrans)),
			Eps:      make(map[int]bool, len(st.Eps)),
			Accept:   st.Accept,
		}
		for sym, targets := range st.Trans {
			set := make(map[int]bool, len(targets))
			for t := range targets {
				set[mapping(t)] = true
			}
			ns.Trans[sym] = set
		}
		for t := range st.AnyTrans {
			ns.AnyTrans[mapping(t)] = true
		}
		for t := range st.Eps {
			ns.Eps[mapping(t)] = true
		}
		newStates[ns.ID] = ns
	}

	n.States = newStates
	n.Start = mapping(n.Start)
	n.Accept = mapping(n.Accept)
	if n.nextID > 0 {
		n.nextID = mapping(n.nextID - 1) + 1
	}
}

// MarkAccept records that reaching this state (with no further input)
// matches the rule described by action.
func (n *NFA) MarkAccept(state int, action Action) {
	a := action
	n.States[state].Accept = &a
}

// EpsilonClosure returns every state reachable from states using zero or
// more epsilon transitions, states itself included.
func EpsilonClosure(n *NFA, states map[int]bool) map[int]bool {
	closure := make(map[int]bool, len(states))
	stack := make([]int, 0, len(states))
	for s := range states {
		closure[s] = true
		stack = append(stack, s)
	}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for next := range n.States[cur].Eps {
			if !closure[next] {
				closure[next] = true
				stack = append(stack, next)
			}
		}
	}
	return closure
}
