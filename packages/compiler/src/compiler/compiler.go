package compiler

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"elc-go/packages/compiler/src/css"
	"elc-go/packages/compiler/src/ml_parser"
	"elc-go/packages/compiler/src/output"
	"elc-go/packages/compiler/src/sass"
	"elc-go/packages/compiler/src/sfc"
)

// SourceDocument represents the raw text of one input file
type SourceDocument struct {
	Path    string
	Content string
}

// CompiledComponent is the durable output of compiling one SourceDocument
type CompiledComponent struct {
	// Name is the custom-element tag name the generated module registers.
	Name string
	// ScopeToken uniquely identifies the component within one build; the
	// scoping attribute is "data-" + ScopeToken.
	ScopeToken string
	// JSCode is the self-contained JavaScript module text.
	JSCode string
	// CSSCode is the scoped (and, when the processor is available, expanded
	// and minified) stylesheet text.
	CSSCode string
	// Helpers are the shared runtime helpers the render code needs.
	Helpers []output.RuntimeHelper
}

// ScopeAttr returns the scoping attribute for a scope token
func ScopeAttr(token string) string {
	return "data-" + token
}

// CompileDocument runs the whole single-file pipeline: split the document into
// blocks, parse the template, generate the render code, scope the stylesheet,
// and emit the final module text. The style processor is optional; its
// failure or unavailability degrades to the scoped-but-unprocessed CSS.
func CompileDocument(ctx context.Context, doc SourceDocument, scopeToken string, processor sass.Processor) (*CompiledComponent, error) {
	blocks, err := sfc.Split(doc.Content, doc.Path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", doc.Path, err)
	}

	templateText := ""
	if blocks.Template != nil {
		templateText = blocks.Template.Content
	}
	parseResult := ml_parser.Parse(templateText, doc.Path)
	if len(parseResult.Errors) > 0 {
		return nil, fmt.Errorf("%s: %w", doc.Path, parseResult.Errors[0])
	}

	genResult := output.Generate(parseResult.RootNodes, output.GenerateOptions{
		ScopeAttr: ScopeAttr(scopeToken),
	})
	if len(genResult.Errors) > 0 {
		return nil, fmt.Errorf("%s: %w", doc.Path, genResult.Errors[0])
	}

	cssCode := ""
	if blocks.Style != nil && strings.TrimSpace(blocks.Style.Content) != "" {
		scoper := css.NewStyleScoper()
		cssCode = scoper.ScopeCssText(blocks.Style.Content, ScopeAttr(scopeToken))
		if processor != nil {
			if processed, perr := processor.Process(ctx, cssCode); perr == nil {
				cssCode = processed
			}
		}
	}

	scriptText := ""
	if blocks.Script != nil {
		scriptText = blocks.Script.Content
	}

	name := componentName(blocks, doc.Path)
	jsCode := EmitModule(name, genResult.RenderSource, scriptText)

	return &CompiledComponent{
		Name:       name,
		ScopeToken: scopeToken,
		JSCode:     jsCode,
		CSSCode:    cssCode,
		Helpers:    genResult.Helpers,
	}, nil
}

var invalidNameCharsRe = regexp.MustCompile(`[^a-z0-9-]+`)

// componentName derives the custom-element tag name from the document's
// "name" metadata property, falling back to the file base name. Custom
// element names must contain a dash.
func componentName(blocks *sfc.ComponentBlocks, path string) string {
	name := blocks.Properties["name"]
	if name == "" {
		base := filepath.Base(path)
		name = strings.TrimSuffix(base, filepath.Ext(base))
		name = strings.TrimSuffix(name, ".component")
	}
	name = invalidNameCharsRe.ReplaceAllString(strings.ToLower(name), "-")
	name = strings.Trim(name, "-")
	if !strings.Contains(name, "-") {
		name = "elc-" + name
	}
	return name
}
