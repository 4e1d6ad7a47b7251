package expression_parser

import (
	"fmt"
	"sort"
	"strings"
)

// ContextVar is the name of the data-context parameter every free identifier
// is rewritten to read from in generated code.
const ContextVar = "$d"

// ImplicitLocals are identifiers that are always locally bound in generated
// code and never rewritten ($event in event handlers, $index in loop bodies).
var ImplicitLocals = map[string]bool{
	"$event": true,
	"$index": true,
}

// Resolved is the outcome of resolving an expression fragment against the
// component's data context.
type Resolved struct {
	// Code is the emittable expression with every free identifier rewritten
	// to read from ContextVar.
	Code string
	// Identifiers is the sorted, deduplicated set of free identifiers the
	// fragment references.
	Identifiers []string
}

// Resolve rewrites an expression fragment so that every free identifier reads
// from the component's data context, and collects the set of free identifiers
// for dependency wiring. Identifiers listed in locals (loop variables bound by
// an enclosing scope) are left unrewritten; property-access suffixes after "."
// or "?." are never treated as free identifiers. Resolution is deterministic:
// identical fragment text and locals always yield identical output.
func Resolve(source string, locals map[string]bool) (*Resolved, error) {
	tokens := Tokenize(source)
	if len(tokens) > 0 {
		if last := tokens[len(tokens)-1]; last.IsError() {
			return nil, fmt.Errorf("invalid expression %q: %s", source, last.StrValue)
		}
	}

	identSet := map[string]bool{}
	insertAt := []int{}
	var prev *Token
	for _, token := range tokens {
		if token.IsIdentifier() {
			propertyAccess := prev != nil && (prev.IsOperator(".") || prev.IsOperator("?."))
			if !propertyAccess && !locals[token.StrValue] && !ImplicitLocals[token.StrValue] {
				identSet[token.StrValue] = true
				insertAt = append(insertAt, token.Index)
			}
		}
		prev = token
	}

	var sb strings.Builder
	last := 0
	for _, offset := range insertAt {
		sb.WriteString(source[last:offset])
		sb.WriteString(ContextVar)
		sb.WriteString(".")
		last = offset
	}
	sb.WriteString(source[last:])

	identifiers := make([]string, 0, len(identSet))
	for ident := range identSet {
		identifiers = append(identifiers, ident)
	}
	sort.Strings(identifiers)

	return &Resolved{Code: sb.String(), Identifiers: identifiers}, nil
}
