package output

import (
	"fmt"
	"regexp"
	"strings"

	"elc-go/packages/compiler/src/expression_parser"
	"elc-go/packages/compiler/src/ml_parser"
	"elc-go/packages/compiler/src/util"
)

// DirectiveError represents a reserved directive used with an invalid shape
type DirectiveError struct {
	*util.ParseError
	DirectiveName string
}

// NewDirectiveError creates a new DirectiveError
func NewDirectiveError(directiveName string, span *util.ParseSourceSpan, msg string) *DirectiveError {
	return &DirectiveError{
		ParseError:    util.NewParseError(span, msg),
		DirectiveName: directiveName,
	}
}

// GenerateOptions configures code generation for one component
type GenerateOptions struct {
	// ScopeAttr is the scoping attribute set on every generated element, so
	// that scoped selectors match the component's DOM and nothing else.
	ScopeAttr string
}

// GenerateResult represents the result of code generation
type GenerateResult struct {
	// RenderSource is the component's _render method. It builds the DOM
	// depth-first into a document fragment and registers update bindings via
	// this._bind(identifiers, fn).
	RenderSource string
	// Helpers are the shared runtime helpers the render code relies on, in
	// canonical order.
	Helpers []RuntimeHelper
	// Errors holds directive-shape and expression errors; any error is fatal
	// for the component being compiled.
	Errors []*util.ParseError
}

var forDirectiveRe = regexp.MustCompile(`^\s*([A-Za-z_$][A-Za-z0-9_$]*)\s+in\s+(\S[\s\S]*)$`)

// Generate walks the template tree depth-first and emits the JavaScript
// render function plus its update wiring. Generation is deterministic:
// identical input trees produce identical output text.
func Generate(nodes []ml_parser.Node, opts GenerateOptions) *GenerateResult {
	g := &codeGenerator{
		ctx:     NewEmitterVisitorContext(1),
		opts:    opts,
		helpers: map[RuntimeHelper]bool{},
	}

	g.ctx.Println("_render($d) {")
	g.ctx.IncIndent()
	g.ctx.Println("const f = document.createDocumentFragment();")
	ml_parser.VisitAll(g, nodes, &genScope{target: "f", locals: map[string]bool{}})
	g.ctx.Println("return f;")
	g.ctx.DecIndent()
	g.ctx.Println("}")

	return &GenerateResult{
		RenderSource: g.ctx.ToSource(),
		Helpers:      SortHelpers(g.helpers),
		Errors:       g.errors,
	}
}

// genScope carries the enclosing container variable and the locally bound
// loop variables while walking the tree.
type genScope struct {
	target string
	locals map[string]bool
}

type codeGenerator struct {
	ctx     *EmitterVisitorContext
	opts    GenerateOptions
	counter int
	helpers map[RuntimeHelper]bool
	errors  []*util.ParseError
}

func (g *codeGenerator) nextVar(prefix string) string {
	g.counter++
	return fmt.Sprintf("%s%d", prefix, g.counter)
}

// VisitText implements the ml_parser.Visitor interface
func (g *codeGenerator) VisitText(text *ml_parser.Text, context interface{}) interface{} {
	scope := context.(*genScope)
	name := g.nextVar("t")
	g.helpers[HelperText] = true
	g.ctx.Println(fmt.Sprintf("const %s = $t('%s');", name, EscapeJsString(text.Value)))
	g.appendNode(scope, name)
	return nil
}

// VisitInterpolation implements the ml_parser.Visitor interface
func (g *codeGenerator) VisitInterpolation(interpolation *ml_parser.Interpolation, context interface{}) interface{} {
	scope := context.(*genScope)
	resolved, ok := g.resolve(interpolation.Expression, scope.locals, interpolation.SourceSpan())
	if !ok {
		return nil
	}
	name := g.nextVar("t")
	g.helpers[HelperText] = true
	g.ctx.Println(fmt.Sprintf("const %s = $t('');", name))
	g.bindLine(resolved.Identifiers, fmt.Sprintf("%s.data = (%s);", name, resolved.Code))
	g.appendNode(scope, name)
	return nil
}

// VisitElement implements the ml_parser.Visitor interface
func (g *codeGenerator) VisitElement(element *ml_parser.Element, context interface{}) interface{} {
	scope := context.(*genScope)
	if d := element.Directive("e-for"); d != nil {
		g.genFor(element, d, scope)
		return nil
	}
	g.genConditional(element, scope, false)
	return nil
}

// genConditional emits an e-if region around the element if present, else the
// element itself. inFor reports whether an enclosing e-for on the same
// element has already been handled.
func (g *codeGenerator) genConditional(el *ml_parser.Element, scope *genScope, inFor bool) {
	d := el.Directive("e-if")
	if d == nil {
		g.genElementCore(el, scope, inFor)
		return
	}

	if strings.TrimSpace(d.Value) == "" {
		g.directiveError("e-if", d, "e-if requires an expression")
		return
	}
	resolved, ok := g.resolve(d.Value, scope.locals, d.SourceSpan())
	if !ok {
		return
	}

	anchor := g.nextVar("a")
	state := g.nextVar("c")
	g.helpers[HelperAnchor] = true
	g.ctx.Println(fmt.Sprintf("const %s = $a();", anchor))
	g.appendNode(scope, anchor)
	g.ctx.Println(fmt.Sprintf("let %s = null;", state))

	g.bindOpen(resolved.Identifiers)
	g.ctx.Println(fmt.Sprintf("if ((%s)) {", resolved.Code))
	g.ctx.IncIndent()
	g.ctx.Println(fmt.Sprintf("if (%s === null) {", state))
	g.ctx.IncIndent()
	build := g.nextVar("b")
	g.ctx.Println(fmt.Sprintf("const %s = document.createDocumentFragment();", build))
	g.genElementCore(el, &genScope{target: build, locals: scope.locals}, inFor)
	g.ctx.Println(fmt.Sprintf("%s = Array.from(%s.childNodes);", state, build))
	g.ctx.Println(fmt.Sprintf("%s.before(%s);", anchor, build))
	g.ctx.DecIndent()
	g.ctx.Println("}")
	g.ctx.DecIndent()
	g.ctx.Println(fmt.Sprintf("} else if (%s !== null) {", state))
	g.ctx.IncIndent()
	// Destroy before any later recreate so repeated toggles never leak nodes.
	g.ctx.Println(fmt.Sprintf("for (const n of %s) n.remove();", state))
	g.ctx.Println(fmt.Sprintf("%s = null;", state))
	g.ctx.DecIndent()
	g.ctx.Println("}")
	g.bindClose()
}

func (g *codeGenerator) genFor(el *ml_parser.Element, d *ml_parser.Directive, scope *genScope) {
	m := forDirectiveRe.FindStringSubmatch(d.Value)
	if m == nil {
		g.directiveError("e-for", d, `e-for expects "<identifier> in <expression>"`)
		return
	}
	loopVar := m[1]
	iterResolved, ok := g.resolve(m[2], scope.locals, d.SourceSpan())
	if !ok {
		return
	}

	locals := map[string]bool{}
	for name := range scope.locals {
		locals[name] = true
	}
	locals[loopVar] = true

	identifiers := iterResolved.Identifiers
	keyFn := "null"
	if k := el.Directive("e-key"); k != nil {
		keyResolved, ok := g.resolve(k.Value, locals, k.SourceSpan())
		if !ok {
			return
		}
		keyFn = fmt.Sprintf("(%s, $index) => (%s)", loopVar, keyResolved.Code)
		identifiers = mergeIdentifiers(identifiers, keyResolved.Identifiers)
	}

	anchor := g.nextVar("a")
	state := g.nextVar("s")
	g.helpers[HelperAnchor] = true
	g.helpers[HelperList] = true
	g.ctx.Println(fmt.Sprintf("const %s = $a();", anchor))
	g.appendNode(scope, anchor)
	g.ctx.Println(fmt.Sprintf("const %s = new Map();", state))

	g.bindOpen(identifiers)
	g.ctx.Println(fmt.Sprintf("$list(%s, %s, (%s), %s, (%s, $index) => {",
		anchor, state, iterResolved.Code, keyFn, loopVar))
	g.ctx.IncIndent()
	build := g.nextVar("b")
	g.ctx.Println(fmt.Sprintf("const %s = document.createDocumentFragment();", build))
	g.genConditional(el, &genScope{target: build, locals: locals}, true)
	g.ctx.Println(fmt.Sprintf("return Array.from(%s.childNodes);", build))
	g.ctx.DecIndent()
	g.ctx.Println("});")
	g.bindClose()
}

// genElementCore emits the element itself: creation with its static
// attributes, children depth-first, then bindings and event listeners.
func (g *codeGenerator) genElementCore(el *ml_parser.Element, scope *genScope, inFor bool) {
	name := g.nextVar("e")
	g.helpers[HelperElement] = true

	props := []string{}
	if g.opts.ScopeAttr != "" {
		props = append(props, fmt.Sprintf("'%s': ''", g.opts.ScopeAttr))
	}
	for _, attr := range el.Attrs {
		props = append(props, fmt.Sprintf("'%s': '%s'",
			EscapeJsString(attr.Name), EscapeJsString(attr.Value)))
	}
	g.ctx.Println(fmt.Sprintf("const %s = $e('%s', {%s}, []);",
		name, EscapeJsString(el.Name), strings.Join(props, ", ")))

	childScope := &genScope{target: name, locals: scope.locals}
	ml_parser.VisitAll(g, el.Children, childScope)

	for _, d := range el.Directives {
		switch {
		case d.Name == "e-for" || d.Name == "e-if":
			// Structural; handled by the enclosing region.
		case d.Name == "e-key":
			if !inFor {
				g.directiveError("e-key", d, "e-key requires a companion e-for on the same element")
			}
		case strings.HasPrefix(d.Name, ml_parser.EventPrefix):
			g.genEventBinding(name, d, scope)
		case strings.HasPrefix(d.Name, ml_parser.BindingPrefix):
			g.genAttrBinding(name, d, scope)
		default:
			// Unknown directive names pass through as plain attributes.
			g.ctx.Println(fmt.Sprintf("%s.setAttribute('%s', '%s');",
				name, EscapeJsString(d.Name), EscapeJsString(d.Value)))
		}
	}

	g.appendNode(scope, name)
}

func (g *codeGenerator) genEventBinding(target string, d *ml_parser.Directive, scope *genScope) {
	event := d.Name[len(ml_parser.EventPrefix):]
	if event == "" {
		g.directiveError(d.Name, d, "e-on requires an event name, as in e-on:click")
		return
	}
	if strings.TrimSpace(d.Value) == "" {
		g.directiveError(d.Name, d, fmt.Sprintf("e-on:%s requires a handler expression", event))
		return
	}
	resolved, ok := g.resolve(d.Value, scope.locals, d.SourceSpan())
	if !ok {
		return
	}
	g.ctx.Println(fmt.Sprintf("%s.addEventListener('%s', ($event) => { %s; });",
		target, EscapeJsString(event), resolved.Code))
}

func (g *codeGenerator) genAttrBinding(target string, d *ml_parser.Directive, scope *genScope) {
	attr := d.Name[len(ml_parser.BindingPrefix):]
	if attr == "" {
		g.directiveError(d.Name, d, "attribute binding requires an attribute name, as in :title")
		return
	}
	if strings.TrimSpace(d.Value) == "" {
		g.directiveError(d.Name, d, fmt.Sprintf(":%s requires an expression", attr))
		return
	}
	resolved, ok := g.resolve(d.Value, scope.locals, d.SourceSpan())
	if !ok {
		return
	}
	g.bindLine(resolved.Identifiers, fmt.Sprintf("%s.setAttribute('%s', (%s));",
		target, EscapeJsString(attr), resolved.Code))
}

func (g *codeGenerator) appendNode(scope *genScope, name string) {
	g.ctx.Println(fmt.Sprintf("%s.append(%s);", scope.target, name))
}

func (g *codeGenerator) bindLine(identifiers []string, statement string) {
	g.ctx.Println(fmt.Sprintf("this._bind(%s, () => { %s });", identifierArray(identifiers), statement))
}

func (g *codeGenerator) bindOpen(identifiers []string) {
	g.ctx.Println(fmt.Sprintf("this._bind(%s, () => {", identifierArray(identifiers)))
	g.ctx.IncIndent()
}

func (g *codeGenerator) bindClose() {
	g.ctx.DecIndent()
	g.ctx.Println("});")
}

func (g *codeGenerator) resolve(source string, locals map[string]bool, span *util.ParseSourceSpan) (*expression_parser.Resolved, bool) {
	resolved, err := expression_parser.Resolve(source, locals)
	if err != nil {
		g.errors = append(g.errors, util.NewParseError(span, err.Error()))
		return nil, false
	}
	return resolved, true
}

func (g *codeGenerator) directiveError(name string, d *ml_parser.Directive, msg string) {
	g.errors = append(g.errors, NewDirectiveError(name, d.SourceSpan(), msg).ParseError)
}

func identifierArray(identifiers []string) string {
	if len(identifiers) == 0 {
		return "[]"
	}
	quoted := make([]string, len(identifiers))
	for i, ident := range identifiers {
		quoted[i] = "'" + EscapeJsString(ident) + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func mergeIdentifiers(a, b []string) []string {
	set := map[string]bool{}
	for _, ident := range a {
		set[ident] = true
	}
	for _, ident := range b {
		set[ident] = true
	}
	merged := make([]string, 0, len(set))
	for _, ident := range append(append([]string{}, a...), b...) {
		if set[ident] {
			merged = append(merged, ident)
			set[ident] = false
		}
	}
	return merged
}
