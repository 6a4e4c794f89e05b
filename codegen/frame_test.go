package codegen

import (
	"testing"

	"github.com/arcbound/minicc/ir"
)

func TestComputeFrameLeafFunctionHasNoReturnAddrSlot(t *testing.T) {
	fn := &ir.Function{Name: "helper"}
	quads := []ir.Quadruple{{Op: "return_expr", Arg1: "_var_1"}}
	frame := computeFrame(fn, quads)
	if !frame.IsLeaf {
		t.Error("expected a leaf function (no calls)")
	}
	if frame.NumReturnAddr != 0 {
		t.Errorf("leaf function should reserve no $ra slot, got %d", frame.NumReturnAddr)
	}
	if frame.OutgoingSlots != 0 {
		t.Errorf("leaf function should reserve no outgoing slots, got %d", frame.OutgoingSlots)
	}
}

func TestComputeFrameNonLeafReservesOutgoingAndReturnAddr(t *testing.T) {
	fn := &ir.Function{Name: "caller"}
	quads := []ir.Quadruple{
		{Op: "call", Arg1: "callee", Arg2: "(a & b & c & d & e)", Result: "_var_9"},
	}
	frame := computeFrame(fn, quads)
	if frame.IsLeaf {
		t.Error("expected a non-leaf function (it calls callee)")
	}
	if frame.NumReturnAddr != 1 {
		t.Errorf("non-leaf function must reserve the $ra slot, got %d", frame.NumReturnAddr)
	}
	// 5 args exceeds the 4-slot minimum, so outgoing must grow to fit.
	if frame.OutgoingSlots != 5 {
		t.Errorf("got %d outgoing slots, want 5 (max arity)", frame.OutgoingSlots)
	}
}

// TestComputeFrameDoubleCountsGPRSaveSlots locks in the preserved quirk
// documented in SPEC_FULL.md §9: the word-size formula adds numGPRsToSave
// twice. Changing this would change every emitted frame offset.
func TestComputeFrameDoubleCountsGPRSaveSlots(t *testing.T) {
	var vars []*ir.Variable
	for i := 0; i < 12; i++ {
		vars = append(vars, &ir.Variable{Name: "v"})
	}
	fn := &ir.Function{Name: "manyLocals", LocalVars: vars}
	frame := computeFrame(fn, nil)
	if frame.NumGPRsToSave != frame.LocalData-8 {
		t.Fatalf("got NumGPRsToSave=%d for LocalData=%d, want localData-8", frame.NumGPRsToSave, frame.LocalData)
	}
	want := frame.NumReturnAddr + frame.LocalData + frame.NumGPRsToSave + frame.OutgoingSlots + frame.NumGPRsToSave
	if want%2 != 0 {
		want++
	}
	if frame.WordSize != want {
		t.Errorf("got WordSize=%d, want %d (double-counted NumGPRsToSave)", frame.WordSize, want)
	}
}

func TestComputeFrameMainNeverSavesGPRs(t *testing.T) {
	var vars []*ir.Variable
	for i := 0; i < 20; i++ {
		vars = append(vars, &ir.Variable{Name: "v"})
	}
	fn := &ir.Function{Name: "main", LocalVars: vars}
	frame := computeFrame(fn, nil)
	if frame.NumGPRsToSave != 0 {
		t.Errorf("main must never reserve $s save slots, got %d", frame.NumGPRsToSave)
	}
}
