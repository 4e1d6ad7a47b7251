package sfc

import (
	"fmt"
	"regexp"
	"strings"

	"elc-go/packages/compiler/src/util"
)

// BlockType represents the kind of a top-level block in a component document
type BlockType int

const (
	BlockTypeTemplate BlockType = iota
	BlockTypeScript
	BlockTypeStyle
)

// String returns the tag name delimiting the block kind
func (b BlockType) String() string {
	switch b {
	case BlockTypeTemplate:
		return "template"
	case BlockTypeScript:
		return "script"
	case BlockTypeStyle:
		return "style"
	}
	return "unknown"
}

// Block represents one top-level block of a component document. Content is
// captured verbatim between the opening and matching closing tag.
type Block struct {
	Type       BlockType
	Content    string
	Attrs      map[string]string
	SourceSpan *util.ParseSourceSpan
}

// ComponentBlocks represents the partition of a component document into its
// template, script and style blocks. Any block may be absent.
type ComponentBlocks struct {
	Template *Block
	Script   *Block
	Style    *Block
	// Properties holds key/value metadata parsed from leading HTML comments
	// of the form <!-- key value -->, up to the first blank line.
	Properties map[string]string
}

// Get returns the block of the given type, or nil
func (c *ComponentBlocks) Get(blockType BlockType) *Block {
	switch blockType {
	case BlockTypeTemplate:
		return c.Template
	case BlockTypeScript:
		return c.Script
	case BlockTypeStyle:
		return c.Style
	}
	return nil
}

// DocumentError represents a malformed component document
type DocumentError struct {
	*util.ParseError
	BlockName string
}

// NewDocumentError creates a new DocumentError
func NewDocumentError(blockName string, span *util.ParseSourceSpan, msg string) *DocumentError {
	return &DocumentError{
		ParseError: util.NewParseError(span, msg),
		BlockName:  blockName,
	}
}

var (
	openTagRe  = regexp.MustCompile(`<(template|script|style)(\s[^>]*)?>`)
	attrRe     = regexp.MustCompile(`([a-zA-Z_:][-a-zA-Z0-9_:]*)(?:\s*=\s*(?:"([^"]*)"|'([^']*)'))?`)
	propertyRe = regexp.MustCompile(`^<!-- (\w+) (.*?) -->$`)
)

// Split partitions a component document into its template, script and style
// blocks. Block boundaries are recognized only at the document's top nesting
// level; nested same-name tags inside a block's content do not terminate it.
// A repeated or unterminated block fails with a DocumentError.
func Split(content, url string) (*ComponentBlocks, error) {
	file := util.NewParseSourceFile(content, url)
	blocks := &ComponentBlocks{
		Properties: parseProperties(content),
	}

	pos := 0
	for {
		loc := openTagRe.FindStringSubmatchIndex(content[pos:])
		if loc == nil {
			break
		}
		openStart := pos + loc[0]
		openEnd := pos + loc[1]
		name := content[pos+loc[2] : pos+loc[3]]
		attrs := map[string]string{}
		if loc[4] != -1 {
			attrs = parseAttrs(content[pos+loc[4] : pos+loc[5]])
		}

		closeStart, closeEnd := findBlockEnd(content, openEnd, name)
		if closeStart == -1 {
			return nil, NewDocumentError(name, spanAt(file, openStart, openEnd),
				fmt.Sprintf("Unterminated <%s> block", name))
		}

		blockType, ok := blockTypeForName(name)
		if !ok {
			pos = closeEnd
			continue
		}
		if blocks.Get(blockType) != nil {
			return nil, NewDocumentError(name, spanAt(file, openStart, openEnd),
				fmt.Sprintf("Duplicated <%s> block", name))
		}

		block := &Block{
			Type:       blockType,
			Content:    content[openEnd:closeStart],
			Attrs:      attrs,
			SourceSpan: spanAt(file, openStart, closeEnd),
		}
		switch blockType {
		case BlockTypeTemplate:
			blocks.Template = block
		case BlockTypeScript:
			blocks.Script = block
		case BlockTypeStyle:
			blocks.Style = block
		}
		pos = closeEnd
	}

	return blocks, nil
}

// findBlockEnd locates the closing tag matching an open block tag, counting
// nested same-name open tags so they are not mistaken for the block boundary.
// It returns the start and end offsets of the closing tag, or -1, -1.
func findBlockEnd(content string, from int, name string) (int, int) {
	depth := 1
	openRe := regexp.MustCompile(`<` + name + `(\s[^>]*)?/?>`)
	closeRe := regexp.MustCompile(`</` + name + `\s*>`)
	pos := from
	for {
		closeLoc := closeRe.FindStringIndex(content[pos:])
		if closeLoc == nil {
			return -1, -1
		}
		openLoc := openRe.FindStringIndex(content[pos:])
		if openLoc != nil && openLoc[0] < closeLoc[0] {
			// A nested open tag before the next close; self-closing tags do
			// not open a nesting level.
			if !strings.HasSuffix(strings.TrimSpace(content[pos+openLoc[0]:pos+openLoc[1]]), "/>") {
				depth++
			}
			pos += openLoc[1]
			continue
		}
		depth--
		if depth == 0 {
			return pos + closeLoc[0], pos + closeLoc[1]
		}
		pos += closeLoc[1]
	}
}

func blockTypeForName(name string) (BlockType, bool) {
	switch name {
	case "template":
		return BlockTypeTemplate, true
	case "script":
		return BlockTypeScript, true
	case "style":
		return BlockTypeStyle, true
	}
	return 0, false
}

func parseAttrs(raw string) map[string]string {
	attrs := map[string]string{}
	for _, m := range attrRe.FindAllStringSubmatch(raw, -1) {
		value := m[2]
		if value == "" {
			value = m[3]
		}
		attrs[m[1]] = value
	}
	return attrs
}

// parseProperties parses key/value metadata from HTML comments preceding the
// first blank line of the document, as in <!-- name my-element -->.
func parseProperties(content string) map[string]string {
	properties := map[string]string{}
	head := strings.SplitN(content, "\n\n", 2)[0]
	for _, line := range strings.Split(head, "\n") {
		if m := propertyRe.FindStringSubmatch(strings.TrimRight(line, "\r")); m != nil {
			properties[m[1]] = m[2]
		}
	}
	return properties
}

func spanAt(file *util.ParseSourceFile, start, end int) *util.ParseSourceSpan {
	return util.NewParseSourceSpan(locationAt(file, start), locationAt(file, end))
}

func locationAt(file *util.ParseSourceFile, offset int) *util.ParseLocation {
	line := 0
	col := 0
	for i := 0; i < offset && i < len(file.Content); i++ {
		if file.Content[i] == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}
	return util.NewParseLocation(file, offset, line, col)
}
