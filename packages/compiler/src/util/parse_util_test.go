package util

import (
	"strings"
	"testing"
)

func TestParseLocation(t *testing.T) {
	file := NewParseSourceFile("line one\nline two\nline three", "test.html")

	t.Run("should format as url@line:col", func(t *testing.T) {
		loc := NewParseLocation(file, 9, 1, 0)
		if got := loc.String(); got != "test.html@1:0" {
			t.Errorf("String() = %q", got)
		}
	})

	t.Run("should move forward across newlines", func(t *testing.T) {
		loc := NewParseLocation(file, 0, 0, 0)
		moved := loc.MoveBy(10)
		if moved.Line != 1 || moved.Col != 1 || moved.Offset != 10 {
			t.Errorf("MoveBy(10) = %+v", moved)
		}
	})

	t.Run("should produce context around the location", func(t *testing.T) {
		loc := NewParseLocation(file, 9, 1, 0)
		ctx := loc.GetContext(100, 3)
		if ctx == nil {
			t.Fatal("Expected a context")
		}
		if !strings.Contains(ctx.After, "line two") {
			t.Errorf("Unexpected context after: %q", ctx.After)
		}
	})
}

func TestParseError(t *testing.T) {
	file := NewParseSourceFile("<div><span></div>", "test.html")
	span := NewParseSourceSpan(NewParseLocation(file, 5, 0, 5), NewParseLocation(file, 11, 0, 11))

	t.Run("should include the location in the message", func(t *testing.T) {
		err := NewParseError(span, "Unclosed tag")
		if got := err.Error(); !strings.Contains(got, "test.html@0:5") {
			t.Errorf("Error() = %q", got)
		}
	})

	t.Run("should include surrounding source in the contextual message", func(t *testing.T) {
		err := NewParseError(span, "Unclosed tag")
		msg := err.ContextualMessage()
		if !strings.Contains(msg, "[ERROR ->]") || !strings.Contains(msg, "<div>") {
			t.Errorf("ContextualMessage() = %q", msg)
		}
	})

	t.Run("should fall back to the bare message without a span", func(t *testing.T) {
		err := NewParseError(nil, "boom")
		if got := err.Error(); got != "boom" {
			t.Errorf("Error() = %q", got)
		}
	})

	t.Run("should render the spanned source text", func(t *testing.T) {
		if got := span.String(); got != "<span>" {
			t.Errorf("span.String() = %q", got)
		}
	})
}
