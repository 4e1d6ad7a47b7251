package expression_parser

import (
	"fmt"

	"elc-go/packages/compiler/src/core"
)

// TokenType represents the type of a token
type TokenType int

const (
	TokenTypeCharacter TokenType = iota
	TokenTypeIdentifier
	TokenTypeKeyword
	TokenTypeString
	TokenTypeOperator
	TokenTypeNumber
	TokenTypeError
)

var keywords = map[string]bool{
	"var":        true,
	"let":        true,
	"const":      true,
	"as":         true,
	"null":       true,
	"undefined":  true,
	"true":       true,
	"false":      true,
	"if":         true,
	"else":       true,
	"this":       true,
	"typeof":     true,
	"void":       true,
	"in":         true,
	"of":         true,
	"new":        true,
	"function":   true,
	"return":     true,
	"instanceof": true,
}

// Token represents a token in an expression fragment
type Token struct {
	Index    int
	End      int
	Type     TokenType
	StrValue string
}

// NewToken creates a new Token
func NewToken(index, end int, tokenType TokenType, strValue string) *Token {
	return &Token{
		Index:    index,
		End:      end,
		Type:     tokenType,
		StrValue: strValue,
	}
}

// IsIdentifier checks if the token is an identifier
func (t *Token) IsIdentifier() bool {
	return t.Type == TokenTypeIdentifier
}

// IsOperator checks if the token is an operator with the given value
func (t *Token) IsOperator(operator string) bool {
	return t.Type == TokenTypeOperator && t.StrValue == operator
}

// IsError checks if the token is an error
func (t *Token) IsError() bool {
	return t.Type == TokenTypeError
}

// Tokenize splits an expression fragment into tokens. Identifier discovery is
// lexical; the scanner recognizes identifier, string, number, operator and
// punctuation tokens without building an expression grammar.
func Tokenize(text string) []*Token {
	s := &scanner{input: text}
	tokens := []*Token{}
	for {
		token := s.scanToken()
		if token == nil {
			break
		}
		tokens = append(tokens, token)
		if token.IsError() {
			break
		}
	}
	return tokens
}

type scanner struct {
	input string
	index int
}

func (s *scanner) peek() int {
	return s.peekAt(0)
}

func (s *scanner) peekAt(offset int) int {
	if s.index+offset >= len(s.input) {
		return core.CharEOF
	}
	return int(s.input[s.index+offset])
}

func (s *scanner) scanToken() *Token {
	for s.index < len(s.input) && core.IsWhitespace(s.peek()) {
		s.index++
	}
	if s.index >= len(s.input) {
		return nil
	}

	start := s.index
	cp := s.peek()
	switch {
	case core.IsIdentifierStart(cp):
		return s.scanIdentifier(start)
	case core.IsDigit(cp):
		return s.scanNumber(start)
	case core.IsQuote(cp):
		return s.scanString(start)
	}

	switch cp {
	case core.CharPERIOD:
		if core.IsDigit(s.peekAt(1)) {
			return s.scanNumber(start)
		}
		s.index++
		return NewToken(start, s.index, TokenTypeOperator, ".")
	case core.CharQUESTION:
		if s.peekAt(1) == core.CharPERIOD {
			s.index += 2
			return NewToken(start, s.index, TokenTypeOperator, "?.")
		}
		s.index++
		return NewToken(start, s.index, TokenTypeOperator, "?")
	case core.CharLPAREN, core.CharRPAREN, core.CharLBRACE, core.CharRBRACE,
		core.CharLBRACKET, core.CharRBRACKET, core.CharCOMMA, core.CharCOLON,
		core.CharSEMICOLON:
		s.index++
		return NewToken(start, s.index, TokenTypeCharacter, string(rune(cp)))
	case core.CharPLUS, core.CharMINUS, core.CharSTAR, core.CharSLASH,
		core.CharEQ, core.CharBANG, core.CharLT, core.CharGT, core.CharBAR,
		core.CharDollar:
		s.index++
		return NewToken(start, s.index, TokenTypeOperator, string(rune(cp)))
	case '&', '^', '~', '%':
		s.index++
		return NewToken(start, s.index, TokenTypeOperator, string(rune(cp)))
	}

	s.index++
	return NewToken(start, s.index, TokenTypeError,
		fmt.Sprintf("Unexpected character [%c]", rune(cp)))
}

func (s *scanner) scanIdentifier(start int) *Token {
	for s.index < len(s.input) && core.IsIdentifierPart(s.peek()) {
		s.index++
	}
	str := s.input[start:s.index]
	if keywords[str] {
		return NewToken(start, s.index, TokenTypeKeyword, str)
	}
	return NewToken(start, s.index, TokenTypeIdentifier, str)
}

func (s *scanner) scanNumber(start int) *Token {
	for s.index < len(s.input) {
		cp := s.peek()
		if !core.IsDigit(cp) && cp != core.CharPERIOD && cp != 'e' && cp != 'E' &&
			cp != core.CharUnderscore {
			break
		}
		s.index++
	}
	return NewToken(start, s.index, TokenTypeNumber, s.input[start:s.index])
}

func (s *scanner) scanString(start int) *Token {
	quote := s.peek()
	s.index++
	for s.index < len(s.input) {
		cp := s.peek()
		if cp == core.CharBACKSLASH {
			s.index += 2
			continue
		}
		s.index++
		if cp == quote {
			return NewToken(start, s.index, TokenTypeString, s.input[start:s.index])
		}
	}
	return NewToken(start, s.index, TokenTypeError, "Unterminated string literal")
}
