// Copyright (c) 2026 Tushar Sadhwani.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package zlox

import (
	"fmt"
	"io"

	"github.com/tusharsadhwani/zlox/token"
)

// Scanner tokenizes source text into a flat token stream. Tokens reference
// the source buffer by byte offset and length; the buffer must outlive them.
type Scanner struct {
	src []byte
	pos int
}

// NewScanner creates a Scanner for src.
func NewScanner(src []byte) *Scanner {
	return &Scanner{src: src}
}

// ScanTokens scans the whole source and returns the tokens terminated by a
// single EOF token.
func (s *Scanner) ScanTokens() ([]token.Token, error) {
	var tokens []token.Token
	for {
		tok, err := s.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}

func (s *Scanner) next() (token.Token, error) {
	s.skipWhitespace()
	start := s.pos
	if s.pos >= len(s.src) {
		return token.Token{Type: token.EOF, Start: start}, nil
	}

	ch := s.src[s.pos]
	s.pos++
	switch {
	case isDigit(ch):
		return s.scanNumber(start), nil
	case isAlpha(ch):
		return s.scanIdentifier(start), nil
	case ch == '"':
		return s.scanString(start)
	}

	typ := token.Unknown
	switch ch {
	case '+':
		typ = token.Plus
	case '-':
		typ = token.Minus
	case '*':
		typ = token.Star
	case '/':
		typ = token.Slash
	case '=':
		typ = token.Equal
		if s.pos < len(s.src) && s.src[s.pos] == '=' {
			s.pos++
			typ = token.EqualEqual
		}
	case '>':
		typ = token.GreaterThan
	case '<':
		typ = token.LessThan
	case ';':
		typ = token.Semicolon
	case '{':
		typ = token.LBrace
	case '}':
		typ = token.RBrace
	}
	return token.Token{Type: typ, Start: start, Len: s.pos - start}, nil
}

func (s *Scanner) skipWhitespace() {
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case ' ', '\t', '\r', '\n':
			s.pos++
		case '/':
			// a lone slash is a token, only "//" starts a comment
			if s.pos+1 >= len(s.src) || s.src[s.pos+1] != '/' {
				return
			}
			for s.pos < len(s.src) && s.src[s.pos] != '\n' {
				s.pos++
			}
		default:
			return
		}
	}
}

func (s *Scanner) scanNumber(start int) token.Token {
	for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
		s.pos++
	}
	if s.pos+1 < len(s.src) && s.src[s.pos] == '.' && isDigit(s.src[s.pos+1]) {
		s.pos++
		for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
			s.pos++
		}
	}
	return token.Token{Type: token.Number, Start: start, Len: s.pos - start}
}

func (s *Scanner) scanIdentifier(start int) token.Token {
	for s.pos < len(s.src) && (isAlpha(s.src[s.pos]) || isDigit(s.src[s.pos])) {
		s.pos++
	}
	ident := s.src[start:s.pos]
	return token.Token{Type: token.Lookup(ident), Start: start, Len: s.pos - start}
}

// scanString scans until the closing quote. The token span includes both
// quote characters.
func (s *Scanner) scanString(start int) (token.Token, error) {
	for s.pos < len(s.src) {
		if s.src[s.pos] == '"' {
			s.pos++
			return token.Token{Type: token.String, Start: start, Len: s.pos - start}, nil
		}
		s.pos++
	}
	return token.Token{}, ErrUnterminatedString
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlpha(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '_'
}

// FprintTokens writes a token listing to given Writer in a human readable
// form. The CLI uses this for the debug trace.
func FprintTokens(w io.Writer, src []byte, tokens []token.Token) {
	_, _ = fmt.Fprintln(w, "Tokens")
	for _, tok := range tokens {
		_, _ = fmt.Fprintf(w, "%04d %-8s %s\n", tok.Start, tok.Type, tok.Lexeme(src))
	}
}
