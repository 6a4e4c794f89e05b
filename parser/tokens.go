package parser

import "github.com/arcbound/minicc/lexer"

// FilterTrivia applies the token-stream preprocessing the driver expects:
// every _COMMENT is dropped (a comment ending in a newline has already
// advanced the lexer's line counter, so no information is lost), and
// every _WHITESPACE is dropped too, newline-only or not, since the
// lexer already stamped each surviving token with its own correct line -
// the parser never sees whitespace or comments on its input stream.
func FilterTrivia(tokens []lexer.Token) []lexer.Token {
	out := make([]lexer.Token, 0, len(tokens))
	for _, tok := range tokens {
		switch tok.Name {
		case lexer.CommentToken, lexer.WhitespaceToken:
			continue
		default:
			out = append(out, tok)
		}
	}
	return out
}
