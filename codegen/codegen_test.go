package codegen

import (
	"strings"
	"testing"

	"github.com/arcbound/minicc/grammar"
	"github.com/arcbound/minicc/ir"
	"github.com/arcbound/minicc/lexer"
	"github.com/arcbound/minicc/lexgen"
	"github.com/arcbound/minicc/minic"
	"github.com/arcbound/minicc/parser"
)

func compileSource(t *testing.T, src string) string {
	t.Helper()
	dfa, err := lexgen.Build(minic.Rules())
	if err != nil {
		t.Fatalf("lexgen.Build: %v", err)
	}
	tokens, err := lexer.New(dfa, src).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	table, _, err := grammar.BuildTable(minic.Grammar())
	if err != nil {
		t.Fatalf("BuildTable: %v", err)
	}
	p, err := parser.New(table)
	if err != nil {
		t.Fatalf("parser.New: %v", err)
	}
	tree, err := p.Parse(parser.FilterTrivia(tokens))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	prog, diags, err := ir.Generate(tree, false)
	if err != nil {
		t.Fatalf("Generate: %v (diags=%v)", err, diags)
	}
	return Compile(prog)
}

func TestCompileEmitsDataAndTextSections(t *testing.T) {
	asm := compileSource(t, `int g; int main(){ g = 1; return g; }`)
	if !strings.Contains(asm, ".data") || !strings.Contains(asm, ".text") {
		t.Fatalf("expected both .data and .text sections, got:\n%s", asm)
	}
	if !strings.Contains(asm, "g: .word 0x0") {
		t.Errorf("expected a global .word entry for g, got:\n%s", asm)
	}
	if !strings.Contains(asm, "main:") {
		t.Errorf("expected a main label, got:\n%s", asm)
	}
}

// TestCompileEveryLoadHasTwoDelaySlotNops confirms every lw is followed
// by two nops, per the load-use delay-slot convention.
func TestCompileEveryLoadHasTwoDelaySlotNops(t *testing.T) {
	asm := compileSource(t, `int g; int main(){ g = 1; return g; }`)
	lines := strings.Split(asm, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "lw ") {
			continue
		}
		if i+2 >= len(lines) {
			t.Fatalf("lw at line %d has no room for two delay-slot nops", i)
		}
		if strings.TrimSpace(lines[i+1]) != "nop" || strings.TrimSpace(lines[i+2]) != "nop" {
			t.Errorf("lw at line %d (%q) not followed by two nops: got %q, %q", i, trimmed, lines[i+1], lines[i+2])
		}
	}
}

// TestCompileReloadsParamBeforeFirstUse guards against a function
// parameter's first read silently returning whatever garbage its
// register happened to hold - its only write is the prologue spilling
// $aN to the stack, so a read has to reload from there.
func TestCompileReloadsParamBeforeFirstUse(t *testing.T) {
	asm := compileSource(t, `int f(int p){ return p + 1; } int main(){ return f(1); }`)
	found := false
	for _, line := range strings.Split(asm, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "lw ") && strings.Contains(trimmed, "-4($sp)") {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("expected p to be reloaded from its stack slot via lw, got:\n%s", asm)
	}
}

// TestCompileReloadsGlobalBeforeFirstAssignment guards against reading a
// global before it is ever assigned silently skipping its lw.
func TestCompileReloadsGlobalBeforeFirstAssignment(t *testing.T) {
	asm := compileSource(t, `int g; int main(){ return g; }`)
	found := false
	for _, line := range strings.Split(asm, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "lw ") && strings.Contains(trimmed, "g($0)") {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("expected g to be reloaded via lw before its first read, got:\n%s", asm)
	}
}

// TestCompileLowersUnaryMinus guards against unary MINUS being routed
// to the binary lowering (which would read a garbage second operand).
func TestCompileLowersUnaryMinus(t *testing.T) {
	asm := compileSource(t, `int main(){ int x; x = 5; return -x; }`)
	found := false
	for _, line := range strings.Split(asm, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "sub ") && strings.Contains(trimmed, "$zero") {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("expected unary minus to lower to sub reg, $zero, operand, got:\n%s", asm)
	}
}

// TestCompileLowersUnaryPlus guards against unary PLUS (a no-op) being
// routed to the binary lowering instead of emitUnary's identity case.
func TestCompileLowersUnaryPlus(t *testing.T) {
	asm := compileSource(t, `int main(){ int x; x = 5; return +x; }`)
	if !strings.Contains(asm, "main:") {
		t.Fatalf("expected a main label, got:\n%s", asm)
	}
	for _, line := range strings.Split(asm, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "add ") {
			t.Fatalf("unary plus lowered through the binary add (%q), got:\n%s", strings.TrimSpace(line), asm)
		}
	}
}

func TestCompileOrdersMainFirst(t *testing.T) {
	asm := compileSource(t, `
		int helper() { return 1; }
		int main() { return helper(); }
	`)
	mainIdx := strings.Index(asm, "main:")
	helperIdx := strings.Index(asm, "helper:")
	if mainIdx == -1 || helperIdx == -1 {
		t.Fatalf("expected both main: and helper: labels, got:\n%s", asm)
	}
	if mainIdx > helperIdx {
		t.Errorf("expected main to be emitted first, got main at %d, helper at %d", mainIdx, helperIdx)
	}
}
