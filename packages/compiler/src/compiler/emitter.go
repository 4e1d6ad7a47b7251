package compiler

import (
	"fmt"
	"strings"

	"elc-go/packages/compiler/src/output"
)

// EmitModule combines the generated render code and the pass-through script
// body into one self-contained JavaScript module that registers the component
// as a custom element. The script body becomes the tail of the constructor,
// after the data proxy is set up and before the initial render.
func EmitModule(name string, renderSource string, scriptSource string) string {
	ctx := output.NewEmitterVisitorContext(0)

	ctx.Println(fmt.Sprintf("customElements.define('%s', class extends HTMLElement {", output.EscapeJsString(name)))
	ctx.IncIndent()
	ctx.Println("constructor() {")
	ctx.IncIndent()
	ctx.Println("super();")
	ctx.Println("this._bindings = Object.create(null);")
	ctx.Println("this._data = Object.create(null);")
	ctx.Println("this.data = new Proxy(this._data, {")
	ctx.IncIndent()
	ctx.Println("set: (target, key, value) => {")
	ctx.IncIndent()
	ctx.Println("target[key] = value;")
	ctx.Println("for (const fn of this._bindings[key] || []) fn();")
	ctx.Println("return true;")
	ctx.DecIndent()
	ctx.Println("},")
	ctx.DecIndent()
	ctx.Println("});")
	for _, line := range scriptLines(scriptSource) {
		ctx.Println(line)
	}
	ctx.Println("this.append(this._render(this.data));")
	ctx.DecIndent()
	ctx.Println("}")
	ctx.Println("_bind(names, fn) {")
	ctx.IncIndent()
	ctx.Println("for (const n of names) (this._bindings[n] = this._bindings[n] || []).push(fn);")
	ctx.Println("fn();")
	ctx.DecIndent()
	ctx.Println("}")
	ctx.DecIndent()

	module := ctx.ToSource()
	// The render method is pre-indented one level by the code generator.
	module += "\n" + renderSource + "\n});"
	return module
}

// scriptLines trims the blank frame around the script block and normalizes
// its leading indentation so the body nests inside the constructor.
func scriptLines(scriptSource string) []string {
	lines := strings.Split(scriptSource, "\n")
	start := 0
	end := len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	lines = lines[start:end]

	common := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if common == -1 || indent < common {
			common = indent
		}
	}
	trimmed := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			trimmed = append(trimmed, "")
			continue
		}
		trimmed = append(trimmed, strings.TrimRight(line[common:], " \t"))
	}
	return trimmed
}
