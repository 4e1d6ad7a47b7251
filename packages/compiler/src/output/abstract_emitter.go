package output

import "strings"

var indentWith = "  "

// EmittedLine represents a line being emitted
type EmittedLine struct {
	Parts  []string
	Indent int
}

// EmitterVisitorContext accumulates generated source text with indentation
type EmitterVisitorContext struct {
	indent int
	lines  []*EmittedLine
}

// NewEmitterVisitorContext creates a new EmitterVisitorContext
func NewEmitterVisitorContext(indent int) *EmitterVisitorContext {
	ctx := &EmitterVisitorContext{indent: indent}
	ctx.lines = []*EmittedLine{{Indent: indent}}
	return ctx
}

func (ctx *EmitterVisitorContext) currentLine() *EmittedLine {
	return ctx.lines[len(ctx.lines)-1]
}

// LineIsEmpty checks whether the current line has no parts
func (ctx *EmitterVisitorContext) LineIsEmpty() bool {
	return len(ctx.currentLine().Parts) == 0
}

// Print appends a part to the current line
func (ctx *EmitterVisitorContext) Print(part string) {
	if part != "" {
		ctx.currentLine().Parts = append(ctx.currentLine().Parts, part)
	}
}

// Println appends a part to the current line and terminates it
func (ctx *EmitterVisitorContext) Println(lastPart string) {
	ctx.Print(lastPart)
	ctx.lines = append(ctx.lines, &EmittedLine{Indent: ctx.indent})
}

// IncIndent increases the indentation level
func (ctx *EmitterVisitorContext) IncIndent() {
	ctx.indent++
	if ctx.LineIsEmpty() {
		ctx.currentLine().Indent = ctx.indent
	}
}

// DecIndent decreases the indentation level
func (ctx *EmitterVisitorContext) DecIndent() {
	ctx.indent--
	if ctx.LineIsEmpty() {
		ctx.currentLine().Indent = ctx.indent
	}
}

// ToSource returns the accumulated source text
func (ctx *EmitterVisitorContext) ToSource() string {
	var sb strings.Builder
	for i, line := range ctx.lines {
		if i == len(ctx.lines)-1 && len(line.Parts) == 0 {
			break
		}
		if len(line.Parts) > 0 {
			sb.WriteString(strings.Repeat(indentWith, line.Indent))
			for _, part := range line.Parts {
				sb.WriteString(part)
			}
		}
		sb.WriteString("\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// EscapeJsString escapes a string for embedding in single-quoted JS source
func EscapeJsString(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '\'':
			sb.WriteString(`\'`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
