package compiler

import (
	"strings"
	"testing"
)

func TestCompileSimpleProgram(t *testing.T) {
	artifact, diags, err := Compile(`int main(){ return 0; }`, Options{})
	if err != nil {
		t.Fatalf("Compile: %v (diags=%v)", err, diags)
	}
	if !strings.Contains(artifact.Assembly, "main:") {
		t.Errorf("expected a main label in the emitted assembly, got:\n%s", artifact.Assembly)
	}
	if artifact.HasInterrupts {
		t.Error("program declares no interruptServerN function, HasInterrupts should be false")
	}
}

func TestCompileFatalSemanticErrorReturnsNoArtifact(t *testing.T) {
	// No main function declared: a fatal semantic error.
	artifact, diags, err := Compile(`int helper(){ return 0; }`, Options{})
	if err == nil {
		t.Fatal("expected an error for a program with no main function")
	}
	if artifact != nil {
		t.Error("expected a nil artifact on fatal failure")
	}
	if len(diags) == 0 {
		t.Error("expected at least one diagnostic explaining the failure")
	}
}

func TestCompileWithInterruptHandlerEmitsInterruptFiles(t *testing.T) {
	artifact, diags, err := Compile(`
		int main(){ return 0; }
		void interruptServer0(){ }
	`, Options{})
	if err != nil {
		t.Fatalf("Compile: %v (diags=%v)", err, diags)
	}
	if !artifact.HasInterrupts {
		t.Fatal("expected HasInterrupts to be true")
	}
	if !strings.Contains(artifact.InterruptEntry, "interruptServer0") {
		t.Errorf("expected the vector table to reference interruptServer0, got:\n%s", artifact.InterruptEntry)
	}
	if !strings.Contains(artifact.InterruptHandler, "eret") {
		t.Errorf("expected the handler wrapper to end in eret, got:\n%s", artifact.InterruptHandler)
	}
}

func TestCompileRegenerateRebuildsTables(t *testing.T) {
	if _, _, err := Compile(`int main(){ return 0; }`, Options{Regenerate: true}); err != nil {
		t.Fatalf("Compile with Regenerate: %v", err)
	}
}
