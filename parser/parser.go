package parser

import (
	"fmt"

	"github.com/arcbound/minicc/grammar"
	"github.com/arcbound/minicc/lexer"
)

// DefaultMaxIterations bounds the driver loop so a malformed table (one
// that never shifts End off the stack) can't spin forever.
const DefaultMaxIterations = 1_000_000

// ParseError reports a token the table had no ACTION entry for.
type ParseError struct {
	Token  lexer.Token
	State  int
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: unexpected token %q (%s): %s", e.Token.Line, e.Token.Literal, e.Token.Name, e.Detail)
}

// Parser drives a grammar.Table over a token stream, executing each
// production's compiled semantic action on reduce.
type Parser struct {
	table         *grammar.Table
	actions       []actionExpr
	MaxIterations int
}

// New compiles every production's textual semantic action once and
// returns a reusable Parser bound to table.
func New(table *grammar.Table) (*Parser, error) {
	actions := make([]actionExpr, len(table.Productions))
	for i, p := range table.Productions {
		if p.Action == "" {
			// The augmented start production and any purely structural
			// production default to forwarding their sole child.
			actions[i] = actionExpr{isRef: true, ref: 1}
			continue
		}
		expr, err := parseAction(p.Action)
		if err != nil {
			return nil, fmt.Errorf("production %d (%s): %w", i, p.LHS.Name, err)
		}
		actions[i] = expr
	}
	return &Parser{table: table, actions: actions, MaxIterations: DefaultMaxIterations}, nil
}

// Parse runs the shift-reduce driver over tokens (which FilterTrivia has
// already stripped of comments/whitespace) and returns the single root
// SyntaxTreeNode produced by the accepting reduction.
func (p *Parser) Parse(tokens []lexer.Token) (*SyntaxTreeNode, error) {
	stateStack := []int{p.table.StartState}
	var symStack []*SyntaxTreeNode

	pos := 0
	peek := func() lexer.Token {
		if pos < len(tokens) {
			return tokens[pos]
		}
		return lexer.Token{Name: lexer.SPEnd}
	}

	for iter := 0; ; iter++ {
		if iter >= p.MaxIterations {
			return nil, fmt.Errorf("parser exceeded maximum iteration cap (%d); table is likely malformed", p.MaxIterations)
		}

		tok := peek()
		symIdx, ok := p.table.SymbolIndex(tok.Name)
		if !ok {
			return nil, &ParseError{Token: tok, State: stateStack[len(stateStack)-1], Detail: "token unknown to grammar symbol table"}
		}

		state := stateStack[len(stateStack)-1]
		action := p.table.Action[state][symIdx]

		switch action.Kind {
		case grammar.ActionShift:
			symStack = append(symStack, NewTokenNode(tok))
			stateStack = append(stateStack, action.Data)
			pos++

		case grammar.ActionReduce:
			prod := p.table.Productions[action.Data]
			r := len(prod.RHS)
			if r > len(symStack) {
				return nil, &ParseError{Token: tok, State: state, Detail: "stack underflow during reduce"}
			}
			children := symStack[len(symStack)-r:]
			// r is 1-indexed in the eval convention: stack[1..r].
			args := make([]*SyntaxTreeNode, r+1)
			copy(args[1:], children)

			result, err := p.actions[action.Data].eval(args)
			if err != nil {
				return nil, fmt.Errorf("line %d: semantic action for production %d failed: %w", tok.Line, action.Data, err)
			}
			if result.Name == "" {
				result.Name = prod.LHS.Name
			}

			symStack = symStack[:len(symStack)-r]
			stateStack = stateStack[:len(stateStack)-r]

			lhsIdx, ok := p.table.SymbolIndex(prod.LHS.Name)
			if !ok {
				return nil, fmt.Errorf("production %d: LHS %q missing from symbol table", action.Data, prod.LHS.Name)
			}
			nextState := stateStack[len(stateStack)-1]
			target := p.table.Goto[nextState][lhsIdx]
			if target < 0 {
				return nil, &ParseError{Token: tok, State: nextState, Detail: fmt.Sprintf("no GOTO entry for %s", prod.LHS.Name)}
			}

			symStack = append(symStack, result)
			stateStack = append(stateStack, target)

		case grammar.ActionAccept:
			if len(symStack) != 1 {
				return nil, fmt.Errorf("accept reached with %d symbol-stack entries, want 1", len(symStack))
			}
			return symStack[0], nil

		default:
			return nil, &ParseError{Token: tok, State: state, Detail: "no ACTION entry"}
		}
	}
}
