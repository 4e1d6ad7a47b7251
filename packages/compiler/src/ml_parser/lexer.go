package ml_parser

import (
	"strings"

	"elc-go/packages/compiler/src/core"
	"elc-go/packages/compiler/src/util"
)

// InterpolationStart and InterpolationEnd delimit embedded expressions inside
// text runs.
const (
	InterpolationStart = "{{"
	InterpolationEnd   = "}}"
)

// TokenizeResult represents the result of tokenization
type TokenizeResult struct {
	Tokens []*Token
	Errors []*util.ParseError
}

// Tokenize tokenizes template source into markup tokens
func Tokenize(source, url string) *TokenizeResult {
	t := newTokenizer(source, url)
	t.tokenize()
	return &TokenizeResult{Tokens: t.tokens, Errors: t.errors}
}

type tokenizer struct {
	file   *util.ParseSourceFile
	input  string
	index  int
	line   int
	column int
	tokens []*Token
	errors []*util.ParseError
}

func newTokenizer(source, url string) *tokenizer {
	return &tokenizer{
		file:  util.NewParseSourceFile(source, url),
		input: source,
	}
}

func (t *tokenizer) tokenize() {
	for t.index < len(t.input) {
		cp := t.peek()
		switch {
		case cp == core.CharLT && strings.HasPrefix(t.input[t.index:], "<!--"):
			t.consumeComment()
		case cp == core.CharLT && t.peekAt(1) == core.CharSLASH:
			t.consumeTagClose()
		case cp == core.CharLT && core.IsAsciiLetter(t.peekAt(1)):
			t.consumeTagOpen()
		case strings.HasPrefix(t.input[t.index:], InterpolationStart):
			t.consumeInterpolation()
		default:
			t.consumeText()
		}
	}
	t.emit(TokenTypeEOF, []string{}, t.location())
}

func (t *tokenizer) peek() int {
	return t.peekAt(0)
}

func (t *tokenizer) peekAt(offset int) int {
	if t.index+offset >= len(t.input) {
		return core.CharEOF
	}
	return int(t.input[t.index+offset])
}

func (t *tokenizer) advance() {
	if t.index >= len(t.input) {
		return
	}
	if t.input[t.index] == '\n' {
		t.line++
		t.column = 0
	} else {
		t.column++
	}
	t.index++
}

func (t *tokenizer) advanceN(n int) {
	for i := 0; i < n; i++ {
		t.advance()
	}
}

func (t *tokenizer) location() *util.ParseLocation {
	return util.NewParseLocation(t.file, t.index, t.line, t.column)
}

func (t *tokenizer) emit(tokenType TokenType, parts []string, start *util.ParseLocation) {
	span := util.NewParseSourceSpan(start, t.location())
	t.tokens = append(t.tokens, NewToken(tokenType, parts, span))
}

func (t *tokenizer) error(msg string, start *util.ParseLocation) {
	span := util.NewParseSourceSpan(start, t.location())
	t.errors = append(t.errors, util.NewParseError(span, msg))
}

func (t *tokenizer) consumeText() {
	start := t.location()
	textStart := t.index
	for t.index < len(t.input) {
		cp := t.peek()
		if cp == core.CharLT {
			next := t.peekAt(1)
			if next == core.CharSLASH || next == core.CharBANG || core.IsAsciiLetter(next) {
				break
			}
		}
		if strings.HasPrefix(t.input[t.index:], InterpolationStart) {
			break
		}
		t.advance()
	}
	if t.index > textStart {
		t.emit(TokenTypeTEXT, []string{t.input[textStart:t.index]}, start)
	}
}

func (t *tokenizer) consumeInterpolation() {
	start := t.location()
	t.advanceN(len(InterpolationStart))
	end := strings.Index(t.input[t.index:], InterpolationEnd)
	if end == -1 {
		rest := t.input[t.index:]
		t.advanceN(len(rest))
		t.error("Unterminated interpolation", start)
		return
	}
	expression := t.input[t.index : t.index+end]
	t.advanceN(end + len(InterpolationEnd))
	t.emit(TokenTypeINTERPOLATION, []string{expression}, start)
}

func (t *tokenizer) consumeComment() {
	start := t.location()
	t.advanceN(len("<!--"))
	end := strings.Index(t.input[t.index:], "-->")
	if end == -1 {
		rest := t.input[t.index:]
		t.advanceN(len(rest))
		t.error("Unterminated comment", start)
		return
	}
	value := t.input[t.index : t.index+end]
	t.advanceN(end + len("-->"))
	t.emit(TokenTypeCOMMENT, []string{value}, start)
}

func (t *tokenizer) consumeTagOpen() {
	start := t.location()
	t.advance() // '<'
	name := t.consumeName()
	t.emit(TokenTypeTAG_OPEN_START, []string{name}, start)

	for {
		t.skipWhitespace()
		cp := t.peek()
		switch {
		case cp == core.CharEOF:
			t.error("Unexpected end of input inside tag", start)
			return
		case cp == core.CharSLASH && t.peekAt(1) == core.CharGT:
			endStart := t.location()
			t.advanceN(2)
			t.emit(TokenTypeTAG_OPEN_END_VOID, []string{}, endStart)
			return
		case cp == core.CharGT:
			endStart := t.location()
			t.advance()
			t.emit(TokenTypeTAG_OPEN_END, []string{}, endStart)
			return
		default:
			t.consumeAttr()
		}
	}
}

func (t *tokenizer) consumeAttr() {
	start := t.location()
	nameStart := t.index
	for t.index < len(t.input) {
		cp := t.peek()
		if core.IsWhitespace(cp) || cp == core.CharEQ || cp == core.CharGT ||
			(cp == core.CharSLASH && t.peekAt(1) == core.CharGT) {
			break
		}
		t.advance()
	}
	name := t.input[nameStart:t.index]
	if name == "" {
		// Skip a stray character so tokenization always makes progress.
		t.error("Unexpected character in tag", start)
		t.advance()
		return
	}
	t.emit(TokenTypeATTR_NAME, []string{name}, start)

	t.skipWhitespace()
	if t.peek() != core.CharEQ {
		return
	}
	t.advance() // '='
	t.skipWhitespace()
	t.consumeAttrValue()
}

func (t *tokenizer) consumeAttrValue() {
	start := t.location()
	cp := t.peek()
	if cp == core.CharDQ || cp == core.CharSQ {
		quote := cp
		t.advance()
		valueStart := t.index
		for t.index < len(t.input) && t.peek() != quote {
			t.advance()
		}
		if t.index >= len(t.input) {
			t.error("Unterminated attribute value", start)
			return
		}
		value := t.input[valueStart:t.index]
		t.advance() // closing quote
		t.emit(TokenTypeATTR_VALUE, []string{value}, start)
		return
	}
	valueStart := t.index
	for t.index < len(t.input) {
		cp := t.peek()
		if core.IsWhitespace(cp) || cp == core.CharGT ||
			(cp == core.CharSLASH && t.peekAt(1) == core.CharGT) {
			break
		}
		t.advance()
	}
	t.emit(TokenTypeATTR_VALUE, []string{t.input[valueStart:t.index]}, start)
}

func (t *tokenizer) consumeTagClose() {
	start := t.location()
	t.advanceN(2) // '</'
	name := t.consumeName()
	t.skipWhitespace()
	if t.peek() == core.CharGT {
		t.advance()
	} else {
		t.error("Unexpected character in closing tag", start)
		for t.index < len(t.input) && t.peek() != core.CharGT {
			t.advance()
		}
		if t.index < len(t.input) {
			t.advance()
		}
	}
	t.emit(TokenTypeTAG_CLOSE, []string{name}, start)
}

func (t *tokenizer) consumeName() string {
	nameStart := t.index
	for t.index < len(t.input) {
		cp := t.peek()
		if !core.IsIdentifierPart(cp) && cp != core.CharMINUS && cp != core.CharCOLON {
			break
		}
		t.advance()
	}
	return t.input[nameStart:t.index]
}

func (t *tokenizer) skipWhitespace() {
	for t.index < len(t.input) && core.IsWhitespace(t.peek()) {
		t.advance()
	}
}
