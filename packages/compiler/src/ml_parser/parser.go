package ml_parser

import (
	"fmt"
	"strings"

	"elc-go/packages/compiler/src/util"
)

// TreeError represents a tree parsing error (unbalanced markup)
type TreeError struct {
	*util.ParseError
	ElementName *string
}

// NewTreeError creates a new TreeError
func NewTreeError(elementName *string, span *util.ParseSourceSpan, msg string) *TreeError {
	return &TreeError{
		ParseError:  util.NewParseError(span, msg),
		ElementName: elementName,
	}
}

// ParseTreeResult represents the result of parsing a template
type ParseTreeResult struct {
	RootNodes []Node
	Errors    []*util.ParseError
}

// Parse parses template source into a tree of nodes. Whitespace-only text
// runs are dropped; all other text is preserved verbatim.
func Parse(source, url string) *ParseTreeResult {
	tokenizeResult := Tokenize(source, url)
	tb := newTreeBuilder(tokenizeResult.Tokens)
	tb.build()

	allErrors := tokenizeResult.Errors
	for _, err := range tb.errors {
		allErrors = append(allErrors, err.ParseError)
	}
	return &ParseTreeResult{RootNodes: tb.rootNodes, Errors: allErrors}
}

type treeBuilder struct {
	tokens    []*Token
	index     int
	stack     []*Element
	rootNodes []Node
	errors    []*TreeError
}

func newTreeBuilder(tokens []*Token) *treeBuilder {
	return &treeBuilder{tokens: tokens}
}

func (tb *treeBuilder) peek() *Token {
	if tb.index >= len(tb.tokens) {
		return nil
	}
	return tb.tokens[tb.index]
}

func (tb *treeBuilder) advance() *Token {
	token := tb.peek()
	if token != nil {
		tb.index++
	}
	return token
}

func (tb *treeBuilder) build() {
	for {
		token := tb.advance()
		if token == nil || token.Type == TokenTypeEOF {
			break
		}
		switch token.Type {
		case TokenTypeTAG_OPEN_START:
			tb.consumeStartTag(token)
		case TokenTypeTAG_CLOSE:
			tb.consumeEndTag(token)
		case TokenTypeTEXT:
			value := token.Parts[0]
			if strings.TrimSpace(value) != "" {
				tb.addToParent(NewText(value, token.SourceSpan))
			}
		case TokenTypeINTERPOLATION:
			tb.addToParent(NewInterpolation(strings.TrimSpace(token.Parts[0]), token.SourceSpan))
		case TokenTypeCOMMENT:
			// Comments carry document metadata only; they do not produce nodes.
		}
	}

	for i := len(tb.stack) - 1; i >= 0; i-- {
		el := tb.stack[i]
		tb.errors = append(tb.errors, NewTreeError(&el.Name, el.StartSourceSpan,
			fmt.Sprintf("Unclosed tag \"%s\"", el.Name)))
	}
}

func (tb *treeBuilder) consumeStartTag(startToken *Token) {
	name := startToken.Parts[0]
	attrs := []*Attribute{}
	directives := []*Directive{}
	selfClosing := false

	for {
		token := tb.peek()
		if token == nil || token.Type == TokenTypeEOF {
			break
		}
		if token.Type == TokenTypeATTR_NAME {
			tb.advance()
			attrName := token.Parts[0]
			attrValue := ""
			valueSpan := token.SourceSpan
			if next := tb.peek(); next != nil && next.Type == TokenTypeATTR_VALUE {
				tb.advance()
				attrValue = next.Parts[0]
				valueSpan = next.SourceSpan
			}
			if IsDirectiveAttr(attrName) {
				directives = append(directives, NewDirective(attrName, attrValue, valueSpan))
			} else {
				attrs = append(attrs, NewAttribute(attrName, attrValue, valueSpan))
			}
			continue
		}
		if token.Type == TokenTypeTAG_OPEN_END || token.Type == TokenTypeTAG_OPEN_END_VOID {
			tb.advance()
			selfClosing = token.Type == TokenTypeTAG_OPEN_END_VOID
		}
		break
	}

	el := NewElement(name, attrs, directives, []Node{}, startToken.SourceSpan)
	el.StartSourceSpan = startToken.SourceSpan
	el.IsSelfClosing = selfClosing
	el.IsVoid = IsVoidElement(name)

	tb.addToParent(el)
	if !el.IsSelfClosing && !el.IsVoid {
		tb.stack = append(tb.stack, el)
	}
}

func (tb *treeBuilder) consumeEndTag(token *Token) {
	name := token.Parts[0]
	if IsVoidElement(name) {
		tb.errors = append(tb.errors, NewTreeError(&name, token.SourceSpan,
			fmt.Sprintf("Void elements do not have end tags \"%s\"", name)))
		return
	}
	if len(tb.stack) == 0 || tb.stack[len(tb.stack)-1].Name != name {
		tb.errors = append(tb.errors, NewTreeError(&name, token.SourceSpan,
			fmt.Sprintf("Unexpected closing tag \"%s\". It may happen when the tag has already been closed by another tag or the opening tag is missing", name)))
		return
	}
	top := tb.stack[len(tb.stack)-1]
	top.EndSourceSpan = token.SourceSpan
	tb.stack = tb.stack[:len(tb.stack)-1]
}

func (tb *treeBuilder) addToParent(node Node) {
	if len(tb.stack) == 0 {
		tb.rootNodes = append(tb.rootNodes, node)
		return
	}
	parent := tb.stack[len(tb.stack)-1]
	parent.Children = append(parent.Children, node)
}
