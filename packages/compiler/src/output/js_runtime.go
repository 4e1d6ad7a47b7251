package output

// RuntimeHelper identifies one shared runtime helper used by generated render
// functions. Helpers are emitted exactly once per multi-file build.
type RuntimeHelper string

const (
	// HelperElement creates a DOM element with attributes and children.
	HelperElement RuntimeHelper = "$e"
	// HelperText creates a text node.
	HelperText RuntimeHelper = "$t"
	// HelperAnchor creates a comment node marking an insertion point.
	HelperAnchor RuntimeHelper = "$a"
	// HelperList reconciles the rendered items of a loop directive against an
	// end anchor, reusing DOM nodes by key when a key function is given and
	// rebuilding the whole list otherwise.
	HelperList RuntimeHelper = "$list"
)

// helperOrder fixes the emission order of helpers so that builds are
// reproducible regardless of which component claimed a helper first.
var helperOrder = []RuntimeHelper{HelperElement, HelperText, HelperAnchor, HelperList}

var helperSource = map[RuntimeHelper]string{
	HelperElement: `const $e = (t, p, c) => {
  const el = document.createElement(t);
  for (const k in p) el.setAttribute(k, p[k]);
  el.append(...c);
  return el;
};`,
	HelperText: `const $t = (s) => document.createTextNode(s);`,
	HelperAnchor: `const $a = () => document.createComment('');`,
	HelperList: `const $list = (end, state, items, keyOf, build) => {
  const next = new Map();
  const frag = document.createDocumentFragment();
  let i = 0;
  for (const item of items) {
    const k = keyOf ? keyOf(item, i) : i;
    let nodes = keyOf ? state.get(k) : undefined;
    if (nodes === undefined) nodes = build(item, i);
    else state.delete(k);
    next.set(k, nodes);
    frag.append(...nodes);
    i++;
  }
  for (const nodes of state.values()) for (const n of nodes) n.remove();
  state.clear();
  end.before(frag);
  for (const [k, v] of next) state.set(k, v);
};`,
}

// RuntimeSource returns the source of the given helpers in canonical order
func RuntimeSource(helpers []RuntimeHelper) string {
	requested := map[RuntimeHelper]bool{}
	for _, h := range helpers {
		requested[h] = true
	}
	src := ""
	for _, h := range helperOrder {
		if requested[h] {
			if src != "" {
				src += "\n"
			}
			src += helperSource[h]
		}
	}
	return src
}

// SortHelpers returns the helpers of the given set in canonical order
func SortHelpers(set map[RuntimeHelper]bool) []RuntimeHelper {
	helpers := []RuntimeHelper{}
	for _, h := range helperOrder {
		if set[h] {
			helpers = append(helpers, h)
		}
	}
	return helpers
}
