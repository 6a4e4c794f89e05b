package minic

import (
	"testing"

	"github.com/arcbound/minicc/grammar"
)

// TestGrammarBuildsCleanlyWithOnlyTheDocumentedConflicts confirms that
// every conflict BuildTable has to resolve is one of the documented
// shift/reduce kinds (dangling-else, empty DeclList/StmtList) - a
// reduce/reduce conflict appearing here would mean a grammar change
// introduced an undocumented ambiguity.
func TestGrammarBuildsCleanlyWithOnlyTheDocumentedConflicts(t *testing.T) {
	table, conflicts, err := grammar.BuildTable(Grammar())
	if err != nil {
		t.Fatalf("BuildTable: %v", err)
	}
	if table == nil {
		t.Fatal("BuildTable returned a nil table with no error")
	}
	if len(conflicts) == 0 {
		t.Fatal("expected the documented dangling-else/empty-list conflicts, got none")
	}
	for _, c := range conflicts {
		if c.Kind != "shift/reduce" {
			t.Errorf("unexpected conflict kind %q at state %d on %q; every documented conflict is shift/reduce", c.Kind, c.State, c.Symbol)
		}
	}
}

func TestGrammarStartSymbolIsDeclList(t *testing.T) {
	g := Grammar()
	if g.Start.Name != "DeclList" {
		t.Errorf("got start symbol %q, want DeclList", g.Start.Name)
	}
}
