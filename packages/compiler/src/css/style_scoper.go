package css

import (
	"regexp"
	"strings"
)

var commentRe = regexp.MustCompile(`/\*[\s\S]*?\*/`)

// At-rules whose bodies contain element rules; their inner selectors are
// scoped recursively.
var scopedAtRuleIdentifiers = []string{
	"@media",
	"@supports",
	"@document",
	"@layer",
	"@container",
	"@scope",
	"@starting-style",
}

// CssRule represents a CSS rule
type CssRule struct {
	Selector string
	Content  string
}

// NewCssRule creates a new CssRule
func NewCssRule(selector string, content string) *CssRule {
	return &CssRule{
		Selector: selector,
		Content:  content,
	}
}

// StyleScoper rewrites stylesheet selectors so they only match elements
// carrying a component's scope attribute.
type StyleScoper struct{}

// NewStyleScoper creates a new StyleScoper
func NewStyleScoper() *StyleScoper {
	return &StyleScoper{}
}

// ScopeCssText conjoins every top-level selector with [scopeAttr]. Each branch
// of a comma-separated selector list is scoped independently, and every
// compound in a combinator chain receives the attribute, matching the scope
// attribute the code generator sets on every generated element. Selectors
// inside @keyframes and other non-element at-rules pass through unscoped.
// Scoping is idempotent: a compound already carrying [scopeAttr] is left
// unchanged. Comments are stripped so they cannot be mistaken for selectors.
func (s *StyleScoper) ScopeCssText(cssText string, scopeAttr string) string {
	return s.scopeRules(commentRe.ReplaceAllString(cssText, ""), scopeAttr)
}

func (s *StyleScoper) scopeRules(cssText string, scopeAttr string) string {
	var sb strings.Builder
	i := 0
	for i < len(cssText) {
		wsStart := i
		for i < len(cssText) && isCssSpace(cssText[i]) {
			i++
		}
		sb.WriteString(cssText[wsStart:i])
		if i >= len(cssText) {
			break
		}

		preludeStart := i
		for i < len(cssText) && cssText[i] != '{' && cssText[i] != ';' {
			i = skipCssString(cssText, i)
		}
		prelude := cssText[preludeStart:i]

		if i >= len(cssText) {
			// Trailing text without a rule body passes through untouched.
			sb.WriteString(prelude)
			break
		}
		if cssText[i] == ';' {
			// At-statements like @import and @charset have no body to scope.
			sb.WriteString(prelude)
			sb.WriteByte(';')
			i++
			continue
		}

		content, end := matchBrace(cssText, i)
		if end == -1 {
			sb.WriteString(cssText[preludeStart:])
			break
		}

		trimmed := strings.TrimSpace(prelude)
		switch {
		case strings.HasPrefix(trimmed, "@") && s.isScopedAtRule(trimmed):
			sb.WriteString(prelude)
			sb.WriteByte('{')
			sb.WriteString(s.scopeRules(content, scopeAttr))
			sb.WriteByte('}')
		case strings.HasPrefix(trimmed, "@"):
			sb.WriteString(prelude)
			sb.WriteByte('{')
			sb.WriteString(content)
			sb.WriteByte('}')
		default:
			sb.WriteString(s.scopeSelectorList(prelude, scopeAttr))
			sb.WriteByte('{')
			sb.WriteString(content)
			sb.WriteByte('}')
		}
		i = end
	}
	return sb.String()
}

func (s *StyleScoper) isScopedAtRule(selector string) bool {
	for _, ident := range scopedAtRuleIdentifiers {
		if strings.HasPrefix(selector, ident) {
			return true
		}
	}
	return false
}

// scopeSelectorList scopes each comma-separated branch independently.
func (s *StyleScoper) scopeSelectorList(selector string, scopeAttr string) string {
	parts := splitTopLevel(selector, ',')
	for i, part := range parts {
		parts[i] = s.scopeSelectorPart(part, scopeAttr)
	}
	return strings.Join(parts, ",")
}

// scopeSelectorPart applies the scope attribute to every compound in a
// combinator chain, preserving the original spacing.
func (s *StyleScoper) scopeSelectorPart(selector string, scopeAttr string) string {
	var sb strings.Builder
	depth := 0
	compoundStart := -1
	flush := func(end int) {
		if compoundStart != -1 {
			sb.WriteString(applyScopeToCompound(selector[compoundStart:end], scopeAttr))
			compoundStart = -1
		}
	}
	i := 0
	for i < len(selector) {
		c := selector[i]
		switch {
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			depth--
		case c == '"' || c == '\'':
			next := skipCssString(selector, i)
			if compoundStart == -1 {
				compoundStart = i
			}
			i = next
			continue
		}
		if depth == 0 && (isCssSpace(c) || c == '>' || c == '+' || c == '~') {
			flush(i)
			sb.WriteByte(c)
		} else if compoundStart == -1 {
			compoundStart = i
		}
		i++
	}
	flush(len(selector))
	return sb.String()
}

// applyScopeToCompound conjoins one compound selector with [scopeAttr],
// inserting the attribute before any pseudo-class or pseudo-element suffix.
func applyScopeToCompound(compound string, scopeAttr string) string {
	if compound == "" {
		return compound
	}
	attrSelector := "[" + scopeAttr + "]"
	if strings.Contains(compound, attrSelector) {
		return compound
	}
	depth := 0
	for i := 0; i < len(compound); i++ {
		c := compound[i]
		switch {
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			depth--
		case c == ':' && depth == 0:
			return compound[:i] + attrSelector + compound[i:]
		case c == '"' || c == '\'':
			i = skipCssString(compound, i) - 1
		}
	}
	return compound + attrSelector
}

// splitTopLevel splits on a separator outside parens, brackets and strings.
func splitTopLevel(s string, sep byte) []string {
	parts := []string{}
	depth := 0
	start := 0
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			depth--
		case c == '"' || c == '\'':
			i = skipCssString(s, i)
			continue
		case c == sep && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
		i++
	}
	parts = append(parts, s[start:])
	return parts
}

// matchBrace returns the content of a brace-delimited block starting at the
// opening brace, and the index just past the matching closing brace.
func matchBrace(s string, open int) (string, int) {
	depth := 0
	i := open
	for i < len(s) {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[open+1 : i], i + 1
			}
		case '"', '\'':
			i = skipCssString(s, i)
			continue
		}
		i++
	}
	return "", -1
}

// skipCssString returns the index just past a quoted string starting at i, or
// i+1 when s[i] does not open a string.
func skipCssString(s string, i int) int {
	quote := s[i]
	if quote != '"' && quote != '\'' {
		return i + 1
	}
	i++
	for i < len(s) {
		if s[i] == '\\' {
			i += 2
			continue
		}
		if s[i] == quote {
			return i + 1
		}
		i++
	}
	return i
}

func isCssSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
