package automata

import "testing"

// nfaAccepts simulates the NFA directly via repeated epsilon-closure/move,
// independent of subset construction, so TestDFAMatchesNFA has an oracle
// that doesn't share code with Build.
func nfaAccepts(n *NFA, s string) bool {
	current := EpsilonClosure(n, map[int]bool{n.Start: true})
	for _, r := range s {
		next := make(map[int]bool)
		for id := range current {
			st := n.States[id]
			if targets, ok := st.Trans[n.Alphabet.Intern(r)]; ok {
				for t := range targets {
					next[t] = true
				}
			}
			if r != '\n' {
				for t := range st.AnyTrans {
					next[t] = true
				}
			}
		}
		current = EpsilonClosure(n, next)
		if len(current) == 0 {
			return false
		}
	}
	for id := range current {
		if n.States[id].Accept != nil {
			return true
		}
	}
	return false
}

func dfaAccepts(d *DFA, s string) bool {
	state := d.Start
	for _, r := range s {
		state = d.Step(state, r)
		if state < 0 {
			return false
		}
	}
	_, ok := d.IsAccepting(state)
	return ok
}

func TestDFAMatchesNFA(t *testing.T) {
	cases := []struct {
		pattern string
		accept  []string
		reject  []string
	}{
		{"ab*c", []string{"ac", "abc", "abbbc"}, []string{"a", "abb", "abcd"}},
		{"(a|b)+", []string{"a", "b", "ab", "baba"}, []string{"", "c"}},
		{"[a-z][a-z0-9_]*", []string{"x", "x1", "foo_bar2"}, []string{"1x", "_x"}},
		{`\d+`, []string{"0", "123"}, []string{"", "1a"}},
		{"a?b", []string{"b", "ab"}, []string{"aab", "a"}},
	}

	for _, c := range cases {
		a := NewAlphabet()
		nfa, err := CompileRegex(a, c.pattern)
		if err != nil {
			t.Fatalf("compile %q: %v", c.pattern, err)
		}
		nfa.MarkAccept(nfa.Accept, Action{Order: 0, Payload: "TOK"})
		dfa := Build(nfa)

		for _, s := range c.accept {
			if !nfaAccepts(nfa, s) {
				t.Fatalf("oracle NFA should accept %q for pattern %q", s, c.pattern)
			}
			if !dfaAccepts(dfa, s) {
				t.Errorf("pattern %q: DFA rejected %q, NFA accepted it", c.pattern, s)
			}
		}
		for _, s := range c.reject {
			if dfaAccepts(dfa, s) {
				t.Errorf("pattern %q: DFA accepted %q, should have rejected", c.pattern, s)
			}
		}
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	a := NewAlphabet()
	nfa, err := CompileRegex(a, "[a-zA-Z_][a-zA-Z0-9_]*")
	if err != nil {
		t.Fatal(err)
	}
	nfa.MarkAccept(nfa.Accept, Action{Order: 1, Payload: "IDENTIFIER"})
	dfa := Build(nfa)

	data, err := dfa.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	reloaded, err := UnmarshalDFA(data)
	if err != nil {
		t.Fatal(err)
	}

	for _, s := range []string{"x", "foo_1", "_bar"} {
		if dfaAccepts(dfa, s) != dfaAccepts(reloaded, s) {
			t.Errorf("round-tripped DFA disagrees with original on %q", s)
		}
	}
	for _, s := range []string{"1x", "", "$"} {
		if dfaAccepts(reloaded, s) {
			t.Errorf("round-tripped DFA incorrectly accepted %q", s)
		}
	}
}
