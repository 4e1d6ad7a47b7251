package css

import "testing"

func TestScopeCssText(t *testing.T) {
	scoper := NewStyleScoper()
	scope := func(css string) string {
		return scoper.ScopeCssText(css, "data-elc-abc123")
	}

	t.Run("should add the scope attribute to simple selectors", func(t *testing.T) {
		cases := []struct {
			css      string
			expected string
		}{
			{".box { color: red; }", ".box[data-elc-abc123] { color: red; }"},
			{"div { margin: 0; }", "div[data-elc-abc123] { margin: 0; }"},
			{"#main { top: 0; }", "#main[data-elc-abc123] { top: 0; }"},
			{"* { box-sizing: border-box; }", "*[data-elc-abc123] { box-sizing: border-box; }"},
		}
		for _, c := range cases {
			if got := scope(c.css); got != c.expected {
				t.Errorf("ScopeCssText(%q) = %q, want %q", c.css, got, c.expected)
			}
		}
	})

	t.Run("should scope every branch of a selector list", func(t *testing.T) {
		got := scope("h1, h2 { margin: 0; }")
		want := "h1[data-elc-abc123], h2[data-elc-abc123] { margin: 0; }"
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("should scope every compound in a combinator chain", func(t *testing.T) {
		cases := []struct {
			css      string
			expected string
		}{
			{".a .b { x: y; }", ".a[data-elc-abc123] .b[data-elc-abc123] { x: y; }"},
			{".a > .b { x: y; }", ".a[data-elc-abc123] > .b[data-elc-abc123] { x: y; }"},
			{".a + .b { x: y; }", ".a[data-elc-abc123] + .b[data-elc-abc123] { x: y; }"},
			{".a ~ .b { x: y; }", ".a[data-elc-abc123] ~ .b[data-elc-abc123] { x: y; }"},
		}
		for _, c := range cases {
			if got := scope(c.css); got != c.expected {
				t.Errorf("ScopeCssText(%q) = %q, want %q", c.css, got, c.expected)
			}
		}
	})

	t.Run("should insert the attribute before pseudo-classes", func(t *testing.T) {
		got := scope("a:hover { color: blue; }")
		want := "a[data-elc-abc123]:hover { color: blue; }"
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("should not split on commas inside functional selectors", func(t *testing.T) {
		got := scope(":is(h1, h2) { margin: 0; }")
		want := "[data-elc-abc123]:is(h1, h2) { margin: 0; }"
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("should keep attribute selectors intact", func(t *testing.T) {
		got := scope(`input[type="text"] { border: 0; }`)
		want := `input[type="text"][data-elc-abc123] { border: 0; }`
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("should recurse into conditional group rules", func(t *testing.T) {
		got := scope("@media (max-width: 600px) { .box { width: 100%; } }")
		want := "@media (max-width: 600px) { .box[data-elc-abc123] { width: 100%; } }"
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("should leave keyframe selectors unscoped", func(t *testing.T) {
		css := "@keyframes spin { from { transform: rotate(0); } to { transform: rotate(360deg); } }"
		if got := scope(css); got != css {
			t.Errorf("got %q, want %q", got, css)
		}
	})

	t.Run("should leave at-statements untouched", func(t *testing.T) {
		got := scope(`@import url("base.css");
.box { color: red; }`)
		want := `@import url("base.css");
.box[data-elc-abc123] { color: red; }`
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("should strip comments", func(t *testing.T) {
		got := scope("/* heading */ h1 { margin: 0; }")
		want := " h1[data-elc-abc123] { margin: 0; }"
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("should preserve declarations and whitespace", func(t *testing.T) {
		got := scope(".a {\n  color: red;\n  background: url('x,y.png');\n}\n")
		want := ".a[data-elc-abc123] {\n  color: red;\n  background: url('x,y.png');\n}\n"
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("should be idempotent", func(t *testing.T) {
		once := scope(".a .b, .c:hover { x: y; }")
		if twice := scope(once); twice != once {
			t.Errorf("Scoping is not idempotent:\n once: %q\ntwice: %q", once, twice)
		}
	})

	t.Run("should produce distinct output for distinct tokens", func(t *testing.T) {
		css := ".box { color: red; }"
		a := scoper.ScopeCssText(css, "data-elc-000001")
		b := scoper.ScopeCssText(css, "data-elc-000002")
		if a == b {
			t.Errorf("Expected distinct scoped output, both were %q", a)
		}
	})
}
