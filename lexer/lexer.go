package lexer

import (
	"math"
	"strconv"
	"strings"

	"reckon/operator"
	"reckon/token"
)

// Lexer splits a formula into tokens by longest match: at each position it
// extends a candidate substring as far as any prefix remains a valid
// bracket, whitespace run, operand, or operator symbol, then emits the
// longest valid prefix. This is what resolves "sin" against the single
// letters "s", "i", "n", and "A12" against "A", "12".
type Lexer struct {
	input    string
	position int
	ops      *operator.Catalog
}

func New(input string, ops *operator.Catalog) *Lexer {
	return &Lexer{input: input, ops: ops}
}

// NextToken returns the next token, a token.EOF at the end of input, or a
// token.ILLEGAL when no non-empty valid prefix exists at the current
// position.
func (l *Lexer) NextToken() token.Token {
	if l.position >= len(l.input) {
		return token.Token{Type: token.EOF, Offset: l.position}
	}
	start := l.position
	longest := ""
	var longestType token.TokenType
	for end := start + 1; end <= len(l.input); end++ {
		candidate := l.input[start:end]
		if t, ok := l.classify(candidate); ok {
			longest = candidate
			longestType = t
		}
	}
	if longest == "" {
		return token.Token{Type: token.ILLEGAL, Literal: string(l.input[start]), Offset: start}
	}
	l.position += len(longest)
	return token.Token{Type: longestType, Literal: longest, Offset: start}
}

// Tokenize consumes the whole input. The bool result reports success; on
// failure the last token is the ILLEGAL token at the offending offset.
func (l *Lexer) Tokenize() ([]token.Token, bool) {
	var tokens []token.Token
	for {
		tok := l.NextToken()
		switch tok.Type {
		case token.EOF:
			return tokens, true
		case token.ILLEGAL:
			return append(tokens, tok), false
		}
		tokens = append(tokens, tok)
	}
}

func (l *Lexer) classify(s string) (token.TokenType, bool) {
	if t, ok := token.LookupBracket(s); ok {
		return t, true
	}
	if isSpace(s) {
		return token.SPACE, true
	}
	if isNumber(s) {
		return token.NUMBER, true
	}
	if token.IsCellName(s) {
		return token.CELL, true
	}
	if token.IsRangeName(s) {
		return token.RANGE, true
	}
	if l.ops.IsSymbol(s) {
		return token.OP, true
	}
	return "", false
}

func isSpace(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
		default:
			return false
		}
	}
	return len(s) > 0
}

// isNumber reports whether s parses as a finite float with no leading sign
// and no surrounding whitespace. Signs are separate tokens.
func isNumber(s string) bool {
	if s == "" || strings.TrimSpace(s) != s {
		return false
	}
	if s[0] != '.' && (s[0] < '0' || s[0] > '9') {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c == '.' || c == 'e' || c == 'E' || c == '+' || c == '-' || c == '_':
		default:
			// Rules out hex float forms that ParseFloat would accept.
			return false
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return false
	}
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}
