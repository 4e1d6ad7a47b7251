package ml_parser

import "elc-go/packages/compiler/src/util"

// Node represents a node in the template tree. Children are owned exclusively
// by their parent; no node appears under two parents.
type Node interface {
	SourceSpan() *util.ParseSourceSpan
	Visit(visitor Visitor, context interface{}) interface{}
}

// NodeBase is the base implementation of Node
type NodeBase struct {
	sourceSpan *util.ParseSourceSpan
}

// SourceSpan returns the source span
func (n *NodeBase) SourceSpan() *util.ParseSourceSpan {
	return n.sourceSpan
}

// Text represents a literal text run
type Text struct {
	*NodeBase
	Value string
}

// NewText creates a new Text node
func NewText(value string, sourceSpan *util.ParseSourceSpan) *Text {
	return &Text{
		NodeBase: &NodeBase{sourceSpan: sourceSpan},
		Value:    value,
	}
}

// Visit implements the Node interface
func (t *Text) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitText(t, context)
}

// Interpolation represents an embedded expression inside text content
type Interpolation struct {
	*NodeBase
	Expression string
}

// NewInterpolation creates a new Interpolation node
func NewInterpolation(expression string, sourceSpan *util.ParseSourceSpan) *Interpolation {
	return &Interpolation{
		NodeBase:   &NodeBase{sourceSpan: sourceSpan},
		Expression: expression,
	}
}

// Visit implements the Node interface
func (i *Interpolation) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitInterpolation(i, context)
}

// Attribute represents a static element attribute
type Attribute struct {
	*NodeBase
	Name  string
	Value string
}

// NewAttribute creates a new Attribute node
func NewAttribute(name, value string, sourceSpan *util.ParseSourceSpan) *Attribute {
	return &Attribute{
		NodeBase: &NodeBase{sourceSpan: sourceSpan},
		Name:     name,
		Value:    value,
	}
}

// Directive represents a reserved-prefix attribute attached to an element.
// Name keeps the full attribute name (e.g. "e-if", "e-on:click", ":title");
// Value carries the raw expression fragment. Shape validation happens during
// code generation.
type Directive struct {
	*NodeBase
	Name  string
	Value string
}

// NewDirective creates a new Directive node
func NewDirective(name, value string, sourceSpan *util.ParseSourceSpan) *Directive {
	return &Directive{
		NodeBase: &NodeBase{sourceSpan: sourceSpan},
		Name:     name,
		Value:    value,
	}
}

// Element represents an element node
type Element struct {
	*NodeBase
	Name            string
	Attrs           []*Attribute
	Directives      []*Directive
	Children        []Node
	IsSelfClosing   bool
	IsVoid          bool
	StartSourceSpan *util.ParseSourceSpan
	EndSourceSpan   *util.ParseSourceSpan
}

// NewElement creates a new Element node
func NewElement(name string, attrs []*Attribute, directives []*Directive, children []Node, sourceSpan *util.ParseSourceSpan) *Element {
	return &Element{
		NodeBase:   &NodeBase{sourceSpan: sourceSpan},
		Name:       name,
		Attrs:      attrs,
		Directives: directives,
		Children:   children,
	}
}

// Visit implements the Node interface
func (e *Element) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitElement(e, context)
}

// Directive returns the directive with the given name, or nil
func (e *Element) Directive(name string) *Directive {
	for _, d := range e.Directives {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// Visitor visits template tree nodes
type Visitor interface {
	VisitElement(element *Element, context interface{}) interface{}
	VisitText(text *Text, context interface{}) interface{}
	VisitInterpolation(interpolation *Interpolation, context interface{}) interface{}
}

// VisitAll visits all nodes with the given visitor
func VisitAll(visitor Visitor, nodes []Node, context interface{}) []interface{} {
	results := []interface{}{}
	for _, node := range nodes {
		results = append(results, node.Visit(visitor, context))
	}
	return results
}
