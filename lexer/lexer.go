package lexer

import (
	"strings"
	"unicode"

	"github.com/arcbound/minicc/automata"
	"github.com/arcbound/minicc/lexgen"
)

// Lexer tokenizes source text against a compiled DFA using longest
// match with trailing rollback. Comments and whitespace are emitted as
// ordinary tokens (named _COMMENT / _WHITESPACE by convention); it is
// the parser's job, not the lexer's, to discard them.
type Lexer struct {
	dfa          *automata.DFA
	src          []rune
	pos          int
	line, column int

	// Collect, when true, makes lexical errors accumulate in Errors
	// instead of aborting Tokenize on the first one.
	Collect bool
	Errors  []*Error
}

// New creates a Lexer over source, normalizing CRLF line endings to LF
// first so line/column accounting stays simple.
func New(dfa *automata.DFA, source string) *Lexer {
	normalized := strings.ReplaceAll(source, "\r\n", "\n")
	return &Lexer{
		dfa:    dfa,
		src:    []rune(normalized),
		line:   1,
		column: 1,
	}
}

// Tokenize runs the lexer to completion, returning every token including
// a trailing SP_END. In non-collecting mode it returns on the first
// lexical error; in collecting mode it skips the bad character and
// keeps going, leaving the errors in l.Errors.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for l.pos < len(l.src) {
		tok, err := l.next()
		if err != nil {
			if !l.Collect {
				return tokens, err
			}
			continue
		}
		if tok != nil {
			tokens = append(tokens, *tok)
		}
	}
	tokens = append(tokens, Token{Name: SPEnd, Line: l.line, Column: l.column})
	return tokens, nil
}

// next consumes and returns the next token, or (nil, nil) if a single
// whitespace byte with no match was silently discarded, or (nil, err)
// on a lexical error.
func (l *Lexer) next() (*Token, error) {
	startPos, startLine, startCol := l.pos, l.line, l.column

	state := l.dfa.Start
	haveAccept := false
	var acceptAction automata.Action
	acceptPos, acceptLine, acceptCol := 0, 0, 0

	pos, line, col := l.pos, l.line, l.column
	for pos < len(l.src) {
		r := l.src[pos]
		next := l.dfa.Step(state, r)
		if next < 0 {
			break
		}
		state = next
		pos++
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
		if action, ok := l.dfa.IsAccepting(state); ok {
			haveAccept = true
			acceptAction = action
			acceptPos, acceptLine, acceptCol = pos, line, col
		}
	}

	if haveAccept {
		literal := string(l.src[startPos:acceptPos])
		l.pos, l.line, l.column = acceptPos, acceptLine, acceptCol

		name, err := lexgen.ExtractTokenName(acceptAction.Payload)
		if err != nil {
			return nil, &Error{Line: startLine, Column: startCol, Char: l.src[startPos]}
		}
		return &Token{Name: name, Literal: literal, Line: startLine, Column: startCol}, nil
	}

	// No accept anywhere along the attempted run: either skip a stray
	// whitespace byte silently, or report a lexical error.
	bad := l.src[l.pos]
	if unicode.IsSpace(bad) {
		l.advanceOne()
		return nil, nil
	}

	lexErr := &Error{Line: l.line, Column: l.column, Char: bad}
	l.advanceOne()
	if l.Collect {
		l.Errors = append(l.Errors, lexErr)
	}
	return nil, lexErr
}

func (l *Lexer) advanceOne() {
	if l.src[l.pos] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos++
}
