package ml_parser

import "strings"

// Void elements terminate without a matching close tag.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement checks if a tag name is a void element
func IsVoidElement(tagName string) bool {
	return voidElements[strings.ToLower(tagName)]
}

// DirectivePrefix is the reserved attribute name prefix for directives.
const DirectivePrefix = "e-"

// BindingPrefix marks a dynamic (expression-backed) attribute binding.
const BindingPrefix = ":"

// EventPrefix marks an event-binding directive, e.g. e-on:click.
const EventPrefix = "e-on:"

// IsDirectiveAttr checks whether an attribute name uses a reserved directive
// convention. Unknown directive names still pass this check; they are carried
// as directives and fall back to plain attributes during code generation.
func IsDirectiveAttr(name string) bool {
	return strings.HasPrefix(name, DirectivePrefix) || strings.HasPrefix(name, BindingPrefix)
}
