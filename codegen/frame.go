// Package codegen compiles one function at a time, in basic-block
// order, into Minisys (MIPS-family) assembly text: stack-frame layout,
// a register/address descriptor discipline with Aho-Sethi-Ullman
// register selection, per-quadruple instruction emission, and a
// peephole cleanup pass.
package codegen

import "github.com/arcbound/minicc/ir"

// StackFrameInfo is the per-function frame layout codegen computes once
// before emitting any instruction for that function.
type StackFrameInfo struct {
	IsLeaf        bool
	WordSize      int // total frame size in words, even
	OutgoingSlots int
	LocalData     int
	NumGPRsToSave int
	NumReturnAddr int // 0 or 1
}

// computeFrame follows §4.5's formula literally, double-counted
// NumGPRsToSave included: it is a preserved quirk (see SPEC_FULL.md §9), not
// a bug introduced here.
func computeFrame(f *ir.Function, quads []ir.Quadruple) StackFrameInfo {
	isLeaf := true
	maxArity := 0
	for _, q := range quads {
		if q.Op == "call" {
			isLeaf = false
			if n := argCount(q.Arg2); n > maxArity {
				maxArity = n
			}
		}
	}

	outgoing := 0
	if !isLeaf {
		outgoing = 4
		if maxArity > outgoing {
			outgoing = maxArity
		}
	}

	localData := 0
	paramNames := make(map[string]bool, len(f.Params))
	for _, p := range f.Params {
		paramNames[p.Name()] = true
	}
	for _, v := range f.LocalVars {
		if !paramNames[v.Name] {
			localData++
		}
	}

	numGPRs := 0
	switch {
	case f.Name == "main":
		numGPRs = 0
	case localData > 18:
		numGPRs = 8
	case localData > 10:
		numGPRs = localData - 8
	}

	numReturnAddr := 0
	if !isLeaf {
		numReturnAddr = 1
	}

	total := numReturnAddr + localData + numGPRs + outgoing + numGPRs
	if total%2 != 0 {
		total++
	}

	return StackFrameInfo{
		IsLeaf:        isLeaf,
		WordSize:      total,
		OutgoingSlots: outgoing,
		LocalData:     localData,
		NumGPRsToSave: numGPRs,
		NumReturnAddr: numReturnAddr,
	}
}

// argCount counts the " & "-joined entries in a call's
// "(a & b & c)" argument-list text, 0 for "()".
func argCount(argList string) int {
	inner := argList
	if len(inner) >= 2 {
		inner = inner[1 : len(inner)-1]
	}
	if inner == "" {
		return 0
	}
	n := 1
	for i := 0; i+2 < len(inner); i++ {
		if inner[i] == ' ' && inner[i+1] == '&' && inner[i+2] == ' ' {
			n++
		}
	}
	return n
}
