package ml_parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func tokenizeAndHumanizeParts(t *testing.T, input string) [][]interface{} {
	t.Helper()
	result := Tokenize(input, "test.html")
	if len(result.Errors) > 0 {
		t.Fatalf("Unexpected errors: %v", result.Errors)
	}
	humanized := [][]interface{}{}
	for _, token := range result.Tokens {
		entry := []interface{}{token.Type}
		for _, part := range token.Parts {
			entry = append(entry, part)
		}
		humanized = append(humanized, entry)
	}
	return humanized
}

func tokenizeAndHumanizeErrors(input string) []string {
	result := Tokenize(input, "test.html")
	msgs := []string{}
	for _, err := range result.Errors {
		msgs = append(msgs, err.Msg)
	}
	return msgs
}

func TestTokenizeMarkup(t *testing.T) {
	t.Run("should tokenize a plain element", func(t *testing.T) {
		got := tokenizeAndHumanizeParts(t, "<div>Hi</div>")
		want := [][]interface{}{
			{TokenTypeTAG_OPEN_START, "div"},
			{TokenTypeTAG_OPEN_END},
			{TokenTypeTEXT, "Hi"},
			{TokenTypeTAG_CLOSE, "div"},
			{TokenTypeEOF},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Tokens mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should tokenize attributes with and without values", func(t *testing.T) {
		got := tokenizeAndHumanizeParts(t, `<input type="text" disabled>`)
		want := [][]interface{}{
			{TokenTypeTAG_OPEN_START, "input"},
			{TokenTypeATTR_NAME, "type"},
			{TokenTypeATTR_VALUE, "text"},
			{TokenTypeATTR_NAME, "disabled"},
			{TokenTypeTAG_OPEN_END},
			{TokenTypeEOF},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Tokens mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should tokenize single-quoted and unquoted attribute values", func(t *testing.T) {
		got := tokenizeAndHumanizeParts(t, `<a href='x' rel=nofollow></a>`)
		want := [][]interface{}{
			{TokenTypeTAG_OPEN_START, "a"},
			{TokenTypeATTR_NAME, "href"},
			{TokenTypeATTR_VALUE, "x"},
			{TokenTypeATTR_NAME, "rel"},
			{TokenTypeATTR_VALUE, "nofollow"},
			{TokenTypeTAG_OPEN_END},
			{TokenTypeTAG_CLOSE, "a"},
			{TokenTypeEOF},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Tokens mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should tokenize directive attributes like any other attribute", func(t *testing.T) {
		got := tokenizeAndHumanizeParts(t, `<li e-for="item in items" e-on:click="pick(item)"></li>`)
		want := [][]interface{}{
			{TokenTypeTAG_OPEN_START, "li"},
			{TokenTypeATTR_NAME, "e-for"},
			{TokenTypeATTR_VALUE, "item in items"},
			{TokenTypeATTR_NAME, "e-on:click"},
			{TokenTypeATTR_VALUE, "pick(item)"},
			{TokenTypeTAG_OPEN_END},
			{TokenTypeTAG_CLOSE, "li"},
			{TokenTypeEOF},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Tokens mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should tokenize a self-closing tag", func(t *testing.T) {
		got := tokenizeAndHumanizeParts(t, "<br/>")
		want := [][]interface{}{
			{TokenTypeTAG_OPEN_START, "br"},
			{TokenTypeTAG_OPEN_END_VOID},
			{TokenTypeEOF},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Tokens mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should tokenize interpolation inside text", func(t *testing.T) {
		got := tokenizeAndHumanizeParts(t, "Hello {{ user.name }}!")
		want := [][]interface{}{
			{TokenTypeTEXT, "Hello "},
			{TokenTypeINTERPOLATION, " user.name "},
			{TokenTypeTEXT, "!"},
			{TokenTypeEOF},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Tokens mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should tokenize comments", func(t *testing.T) {
		got := tokenizeAndHumanizeParts(t, "<!-- note -->")
		want := [][]interface{}{
			{TokenTypeCOMMENT, " note "},
			{TokenTypeEOF},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Tokens mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should keep a lone < inside text", func(t *testing.T) {
		got := tokenizeAndHumanizeParts(t, "a < b")
		want := [][]interface{}{
			{TokenTypeTEXT, "a < b"},
			{TokenTypeEOF},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Tokens mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should report an unterminated interpolation", func(t *testing.T) {
		got := tokenizeAndHumanizeErrors("{{ user.name")
		want := []string{"Unterminated interpolation"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Errors mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should report an unterminated comment", func(t *testing.T) {
		got := tokenizeAndHumanizeErrors("<!-- oops")
		want := []string{"Unterminated comment"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Errors mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should report an unterminated attribute value", func(t *testing.T) {
		got := tokenizeAndHumanizeErrors(`<div class="box`)
		want := []string{"Unterminated attribute value", "Unexpected end of input inside tag"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Errors mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should record source spans", func(t *testing.T) {
		result := Tokenize("<div>Hi</div>", "test.html")
		if len(result.Errors) > 0 {
			t.Fatalf("Unexpected errors: %v", result.Errors)
		}
		text := result.Tokens[2]
		if text.Type != TokenTypeTEXT {
			t.Fatalf("Expected a text token, got %v", text.Type)
		}
		if text.SourceSpan.Start.Offset != 5 || text.SourceSpan.End.Offset != 7 {
			t.Errorf("Unexpected span: %d..%d", text.SourceSpan.Start.Offset, text.SourceSpan.End.Offset)
		}
	})
}
