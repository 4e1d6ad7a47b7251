package ml_parser

import "elc-go/packages/compiler/src/util"

// TokenType represents the type of a token
type TokenType int

const (
	TokenTypeTAG_OPEN_START TokenType = iota
	TokenTypeTAG_OPEN_END
	TokenTypeTAG_OPEN_END_VOID
	TokenTypeTAG_CLOSE
	TokenTypeTEXT
	TokenTypeINTERPOLATION
	TokenTypeATTR_NAME
	TokenTypeATTR_VALUE
	TokenTypeCOMMENT
	TokenTypeEOF
)

// Token represents a token in the template source
type Token struct {
	Type       TokenType
	Parts      []string
	SourceSpan *util.ParseSourceSpan
}

// NewToken creates a new Token
func NewToken(tokenType TokenType, parts []string, sourceSpan *util.ParseSourceSpan) *Token {
	return &Token{
		Type:       tokenType,
		Parts:      parts,
		SourceSpan: sourceSpan,
	}
}
