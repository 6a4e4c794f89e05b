package minic

import (
	"testing"

	"github.com/arcbound/minicc/lexgen"
)

func TestCheckReservedWordCoverage(t *testing.T) {
	if err := checkReservedWordCoverage(Rules()); err != nil {
		t.Fatalf("checkReservedWordCoverage: %v", err)
	}
}

func TestCheckReservedWordCoverageCatchesDroppedKeywordRule(t *testing.T) {
	var pruned []lexgen.Rule
	for _, r := range Rules() {
		if r.Name != "IF" {
			pruned = append(pruned, r)
		}
	}
	if err := checkReservedWordCoverage(pruned); err == nil {
		t.Fatal("expected an error once the IF rule is missing, got nil")
	}
}

func TestCheckReservedWordCoverageCatchesReorderedKeyword(t *testing.T) {
	rules := Rules()
	for i := range rules {
		if rules[i].Name == "IDENTIFIER" {
			rules[i].Order = -1
			break
		}
	}
	if err := checkReservedWordCoverage(rules); err == nil {
		t.Fatal("expected an error once IDENTIFIER outranks every keyword, got nil")
	}
}

func TestRulesBuildsADFA(t *testing.T) {
	if _, err := lexgen.Build(Rules()); err != nil {
		t.Fatalf("lexgen.Build(Rules()): %v", err)
	}
}
