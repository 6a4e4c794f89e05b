package compiler

import (
	"fmt"
	"sync"

	"github.com/arcbound/minicc/automata"
	"github.com/arcbound/minicc/grammar"
	"github.com/arcbound/minicc/lexgen"
	"github.com/arcbound/minicc/minic"
	"github.com/arcbound/minicc/parser"
)

// tableCache holds the process-lifetime MiniC DFA and LALR(1) table, and
// the Parser compiled over it. Building either is independent of any one
// source file, so every Compile call after the first reuses them unless
// Options.Regenerate asks for a rebuild.
type tableCache struct {
	mu     sync.Mutex
	built  bool
	dfa    *automata.DFA
	table  *grammar.Table
	parser *parser.Parser
}

var cache tableCache

func (c *tableCache) get(regenerate bool) (*automata.DFA, *parser.Parser, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.built && !regenerate {
		return c.dfa, c.parser, nil
	}

	dfa, err := lexgen.Build(minic.Rules())
	if err != nil {
		return nil, nil, fmt.Errorf("building MiniC lexical DFA: %w", err)
	}

	table, _, err := grammar.BuildTable(minic.Grammar())
	if err != nil {
		return nil, nil, fmt.Errorf("building MiniC LALR(1) table: %w", err)
	}

	p, err := parser.New(table)
	if err != nil {
		return nil, nil, fmt.Errorf("compiling MiniC semantic actions: %w", err)
	}

	c.dfa, c.table, c.parser, c.built = dfa, table, p, true
	return c.dfa, c.parser, nil
}
