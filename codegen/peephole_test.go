package codegen

import (
	"reflect"
	"testing"
)

func TestPeepholeFoldsMoveIntoPrecedingWrite(t *testing.T) {
	in := []string{"add $t0, $t1, $t2", "move $t3, $t0"}
	got := peephole(in)
	want := []string{"add $t3, $t1, $t2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPeepholeDropsDegenerateSelfMove(t *testing.T) {
	in := []string{"add $t0, $t1, $t2", "move $t0, $t0"}
	got := peephole(in)
	want := []string{"add $t0, $t1, $t2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPeepholeLeavesMoveAfterStoreAlone(t *testing.T) {
	in := []string{"sw $t0, 0($sp)", "move $t1, $t0"}
	got := peephole(in)
	if !reflect.DeepEqual(got, in) {
		t.Errorf("got %v, want unchanged %v (a store has no destination register to fold into)", got, in)
	}
}

func TestPeepholeLeavesMoveAfterNopAlone(t *testing.T) {
	in := []string{"nop", "move $t1, $t0"}
	got := peephole(in)
	if !reflect.DeepEqual(got, in) {
		t.Errorf("got %v, want unchanged %v", got, in)
	}
}

func TestPeepholeIsIdempotent(t *testing.T) {
	in := []string{"add $t0, $t1, $t2", "move $t3, $t0", "move $t3, $t3"}
	once := peephole(in)
	twice := peephole(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("peephole not idempotent: once=%v twice=%v", once, twice)
	}
}

func TestPeepholeChainsThroughMultipleMoves(t *testing.T) {
	in := []string{"add $t0, $t1, $t2", "move $t3, $t0", "move $t4, $t3"}
	got := peephole(in)
	want := []string{"add $t4, $t1, $t2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
