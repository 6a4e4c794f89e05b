package grammar

import "encoding/json"

// ActionKind is the ACTION-table entry tag.
type ActionKind string

const (
	ActionShift  ActionKind = "shift"
	ActionReduce ActionKind = "reduce"
	ActionAccept ActionKind = "acc"
	ActionNone   ActionKind = "none"
)

// ActionEntry is one ACTION[state][terminal] cell: shift carries the
// target state in Data, reduce carries the production index, acc and
// none carry no payload.
type ActionEntry struct {
	Kind ActionKind
	Data int
}

// Table is a complete LALR(1) parse table: the symbol universe, the
// production list productions were built from, dense ACTION/GOTO arrays
// indexed [state][symbolIndex], and the automaton's start state.
type Table struct {
	Symbols     []Symbol
	Productions []Production
	Action      [][]ActionEntry // [state][symbolIndex]
	Goto        [][]int         // [state][symbolIndex], -1 = no entry
	StartState  int

	// symIndex maps a symbol name to its position in Symbols, so driver
	// code can translate a token/production name into a table column.
	symIndex map[string]int
}

func (t *Table) SymbolIndex(name string) (int, bool) {
	i, ok := t.symIndex[name]
	return i, ok
}

func (t *Table) reindex() {
	t.symIndex = make(map[string]int, len(t.Symbols))
	for i, s := range t.Symbols {
		t.symIndex[s.Name] = i
	}
}

// --- wire format ---

type wireSymbol struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type wireProducer struct {
	LHS    int    `json:"_lhs"`
	RHS    []int  `json:"_rhs"`
	Action string `json:"_action"`
}

type wireActionEntry struct {
	Type string `json:"type"`
	Data int    `json:"data"`
}

type wireDFARef struct {
	StartStateID int `json:"_startStateId"`
}

type wireTable struct {
	Desc       string              `json:"desc"`
	Symbols    []wireSymbol        `json:"symbols"`
	Producers  []wireProducer      `json:"producers"`
	ACTION     [][]wireActionEntry `json:"ACTIONTable"`
	GOTO       [][]int             `json:"GOTOTable"`
	DFA        wireDFARef          `json:"dfa"`
}

// MarshalJSON writes the table in the external wire format: a flat
// symbol list, a production list referencing symbol indices, and dense
// ACTION/GOTO arrays.
func (t *Table) MarshalJSON() ([]byte, error) {
	w := wireTable{
		Desc:    "minic LALR(1) parse table",
		DFA:     wireDFARef{StartStateID: t.StartState},
		Symbols: make([]wireSymbol, len(t.Symbols)),
	}
	for i, s := range t.Symbols {
		w.Symbols[i] = wireSymbol{Type: s.Kind.String(), Content: s.Name}
	}

	w.Producers = make([]wireProducer, len(t.Productions))
	for i, p := range t.Productions {
		lhsIdx, _ := t.SymbolIndex(p.LHS.Name)
		rhsIdx := make([]int, len(p.RHS))
		for j, s := range p.RHS {
			idx, _ := t.SymbolIndex(s.Name)
			rhsIdx[j] = idx
		}
		w.Producers[i] = wireProducer{LHS: lhsIdx, RHS: rhsIdx, Action: p.Action}
	}

	w.ACTION = make([][]wireActionEntry, len(t.Action))
	for i, row := range t.Action {
		wrow := make([]wireActionEntry, len(row))
		for j, e := range row {
			wrow[j] = wireActionEntry{Type: string(e.Kind), Data: e.Data}
		}
		w.ACTION[i] = wrow
	}
	w.GOTO = t.Goto

	return json.Marshal(w)
}

// UnmarshalTable loads a Table from the wire format produced by
// MarshalJSON (or an equivalent external table-building tool).
func UnmarshalTable(data []byte) (*Table, error) {
	var w wireTable
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}

	t := &Table{StartState: w.DFA.StartStateID}
	t.Symbols = make([]Symbol, len(w.Symbols))
	for i, s := range w.Symbols {
		kind := TerminalSym
		switch s.Type {
		case "nonTerminal":
			kind = NonTerminalSym
		case "end":
			kind = EndSym
		case "epsilon":
			kind = EpsilonSym
		}
		t.Symbols[i] = Symbol{Kind: kind, Name: s.Content}
	}
	t.reindex()

	t.Productions = make([]Production, len(w.Producers))
	for i, p := range w.Producers {
		rhs := make([]Symbol, len(p.RHS))
		for j, idx := range p.RHS {
			rhs[j] = t.Symbols[idx]
		}
		t.Productions[i] = Production{LHS: t.Symbols[p.LHS], RHS: rhs, Action: p.Action}
	}

	t.Action = make([][]ActionEntry, len(w.ACTION))
	for i, row := range w.ACTION {
		trow := make([]ActionEntry, len(row))
		for j, e := range row {
			trow[j] = ActionEntry{Kind: ActionKind(e.Type), Data: e.Data}
		}
		t.Action[i] = trow
	}
	t.Goto = w.GOTO

	return t, nil
}
