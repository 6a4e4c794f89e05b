package automata

import (
	"encoding/json"
	"fmt"
)

// wireAction is the JSON shape of an Action payload, shared by both
// serialization schemas.
type wireAction struct {
	Order   int    `json:"order"`
	Payload string `json:"payload"`
}

// --- new schema ---

type wireTransitionNew struct {
	InputSymbol      int `json:"inputSymbol"`
	TargetStateIndex int `json:"targetStateIndex"`
}

type wireAcceptNew struct {
	StateIndex int        `json:"stateIndex"`
	Action     wireAction `json:"action"`
}

type wireDFANew struct {
	Desc                   string              `json:"desc"`
	SymbolSet              []int32             `json:"symbolSet"`
	StateCount             int                 `json:"stateCount"`
	InitialStateIndices    []int               `json:"initialStateIndices"`
	AcceptingStateIndices  []int               `json:"acceptingStateIndices"`
	TransitionTable        [][]wireTransitionNew `json:"transitionTable"`
	AcceptingStateActions  []wireAcceptNew     `json:"acceptingStateActions"`
}

// --- legacy schema ---
//
// Field names (including the "accpetStateIndex" typo) are reproduced
// verbatim from the wire contract so legacy producers keep working.

type legacyTransition struct {
	Alpha  int `json:"alpha"`
	Target int `json:"target"`
}

type legacyAccept struct {
	AccpetStateIndex int        `json:"accpetStateIndex"`
	Action           wireAction `json:"action"`
}

type wireDFALegacy struct {
	Alphabet         []int32              `json:"alphabet"`
	StartStatesIndex int                  `json:"startStatesIndex"`
	AcceptStatesIndex []int               `json:"acceptStatesIndex"`
	TransformAdjList  [][]legacyTransition `json:"transformAdjList"`
	AcceptActionMap   []legacyAccept       `json:"acceptActionMap"`
}

// MarshalJSON serializes d using the new wire schema: description,
// alphabet, state count, initial/accepting indices, a transition table
// and an accepting-state action list.
func (d *DFA) MarshalJSON() ([]byte, error) {
	w := wireDFANew{
		Desc:                "minic lexical DFA",
		SymbolSet:           make([]int32, d.Alphabet.Len()),
		StateCount:          len(d.States),
		InitialStateIndices: []int{d.Start},
	}
	for id := range d.Alphabet.toRune {
		w.SymbolSet[id] = int32(d.Alphabet.toRune[id])
	}

	w.TransitionTable = make([][]wireTransitionNew, len(d.States))
	for id := 0; id < len(d.States); id++ {
		st := d.States[id]
		var row []wireTransitionNew
		for sym, target := range st.Trans {
			row = append(row, wireTransitionNew{InputSymbol: sym, TargetStateIndex: target})
		}
		if st.OtherTarget >= 0 {
			row = append(row, wireTransitionNew{InputSymbol: Other, TargetStateIndex: st.OtherTarget})
		}
		w.TransitionTable[id] = row

		if st.Accept != nil {
			w.AcceptingStateIndices = append(w.AcceptingStateIndices, id)
			w.AcceptingStateActions = append(w.AcceptingStateActions, wireAcceptNew{
				StateIndex: id,
				Action:     wireAction{Order: st.Accept.Order, Payload: st.Accept.Payload},
			})
		}
	}

	return json.Marshal(w)
}

// UnmarshalDFA loads a DFA from JSON, accepting either the current
// schema or the legacy one a producer might still emit; both must
// round-trip to an equivalent automaton.
func UnmarshalDFA(data []byte) (*DFA, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("automata: invalid DFA JSON: %w", err)
	}

	if _, isLegacy := probe["transformAdjList"]; isLegacy {
		var w wireDFALegacy
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("automata: invalid legacy DFA JSON: %w", err)
		}
		return dfaFromLegacy(w), nil
	}

	var w wireDFANew
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("automata: invalid DFA JSON: %w", err)
	}
	return dfaFromNew(w), nil
}

func buildAlphabet(runes []int32) *Alphabet {
	a := NewAlphabet()
	for _, r := range runes {
		a.Intern(rune(r))
	}
	return a
}

func dfaFromNew(w wireDFANew) *DFA {
	a := buildAlphabet(w.SymbolSet)
	d := &DFA{Alphabet: a, States: make(map[int]*DFAState)}
	if len(w.InitialStateIndices) > 0 {
		d.Start = w.InitialStateIndices[0]
	}
	for id, row := range w.TransitionTable {
		st := &DFAState{ID: id, Trans: make(map[int]int), OtherTarget: -1}
		for _, t := range row {
			if t.InputSymbol == Other {
				st.OtherTarget = t.TargetStateIndex
			} else {
				st.Trans[t.InputSymbol] = t.TargetStateIndex
			}
		}
		d.States[id] = st
	}
	for _, acc := range w.AcceptingStateActions {
		st, ok := d.States[acc.StateIndex]
		if !ok {
			st = &DFAState{ID: acc.StateIndex, Trans: make(map[int]int), OtherTarget: -1}
			d.States[acc.StateIndex] = st
		}
		st.Accept = &Action{Order: acc.Action.Order, Payload: acc.Action.Payload}
	}
	return d
}

func dfaFromLegacy(w wireDFALegacy) *DFA {
	a := buildAlphabet(w.Alphabet)
	d := &DFA{Alphabet: a, Start: w.StartStatesIndex, States: make(map[int]*DFAState)}
	for id, row := range w.TransformAdjList {
		st := &DFAState{ID: id, Trans: make(map[int]int), OtherTarget: -1}
		for _, t := range row {
			if t.Alpha == Other {
				st.OtherTarget = t.Target
			} else {
				st.Trans[t.Alpha] = t.Target
			}
		}
		d.States[id] = st
	}
	for _, acc := range w.AcceptActionMap {
		st, ok := d.States[acc.AccpetStateIndex]
		if !ok {
			st = &DFAState{ID: acc.AccpetStateIndex, Trans: make(map[int]int), OtherTarget: -1}
			d.States[acc.AccpetStateIndex] = st
		}
		st.Accept = &Action{Order: acc.Action.Order, Payload: acc.Action.Payload}
	}
	return d
}
