package compiler

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDocs(n int) []SourceDocument {
	docs := make([]SourceDocument, n)
	for i := range docs {
		docs[i] = SourceDocument{
			Path:    fmt.Sprintf("c%d.component.html", i),
			Content: fmt.Sprintf("<template><p>{{ v%d }}</p></template>", i),
		}
	}
	return docs
}

func TestBuild(t *testing.T) {
	t.Run("should return one result per document in input order", func(t *testing.T) {
		docs := buildDocs(5)
		session := NewBuildSession()
		results := session.Build(context.Background(), docs)
		require.Len(t, results, len(docs))
		for i, result := range results {
			assert.Equal(t, docs[i].Path, result.Path)
			require.NoError(t, result.Err)
		}
	})

	t.Run("should isolate a failing document", func(t *testing.T) {
		docs := []SourceDocument{
			{Path: "good.component.html", Content: "<template><p>ok</p></template>"},
			{Path: "bad.component.html", Content: "<template><div></template>"},
			{Path: "also-good.component.html", Content: "<template><p>ok</p></template>"},
		}
		session := NewBuildSession()
		results := session.Build(context.Background(), docs)
		require.Len(t, results, 3)
		assert.NoError(t, results[0].Err)
		assert.Error(t, results[1].Err)
		assert.NoError(t, results[2].Err)
	})

	t.Run("should emit the runtime helpers exactly once", func(t *testing.T) {
		docs := buildDocs(4)
		session := NewBuildSession()
		results := session.Build(context.Background(), docs)

		total := 0
		for _, result := range results {
			require.NoError(t, result.Err)
			total += strings.Count(result.Component.JSCode, "const $t =")
		}
		assert.Equal(t, 1, total)
		assert.Contains(t, results[0].Component.JSCode, "const $t =",
			"helpers belong to the first successful component")
	})

	t.Run("should expose the runtime source on the session", func(t *testing.T) {
		session := NewBuildSession()
		session.Build(context.Background(), buildDocs(2))
		assert.Contains(t, session.Runtime(), "const $e =")
		assert.Contains(t, session.Runtime(), "const $t =")
	})

	t.Run("should attach the helpers to the first successful component", func(t *testing.T) {
		docs := []SourceDocument{
			{Path: "bad.component.html", Content: "<template><div></template>"},
			{Path: "good.component.html", Content: "<template><p>ok</p></template>"},
		}
		session := NewBuildSession()
		results := session.Build(context.Background(), docs)
		require.Error(t, results[0].Err)
		require.NoError(t, results[1].Err)
		assert.Contains(t, results[1].Component.JSCode, "const $e =")
	})

	t.Run("should assign distinct scope tokens", func(t *testing.T) {
		docs := buildDocs(6)
		session := NewBuildSession()
		results := session.Build(context.Background(), docs)

		seen := map[string]bool{}
		for _, result := range results {
			require.NoError(t, result.Err)
			token := result.Component.ScopeToken
			assert.True(t, strings.HasPrefix(token, "elc-"), "token %q", token)
			assert.False(t, seen[token], "token %q reused", token)
			seen[token] = true
		}
	})

	t.Run("should suffix colliding tokens", func(t *testing.T) {
		session := NewBuildSession()
		first := session.claimScopeToken("same.component.html")
		second := session.claimScopeToken("same.component.html")
		assert.NotEqual(t, first, second)
		assert.Equal(t, first+"-2", second)
	})

	t.Run("should derive the same token for the same path across sessions", func(t *testing.T) {
		a := NewBuildSession().claimScopeToken("stable.component.html")
		b := NewBuildSession().claimScopeToken("stable.component.html")
		assert.Equal(t, a, b)
	})

	t.Run("should scope selectors and elements with the same attribute", func(t *testing.T) {
		docs := []SourceDocument{{
			Path:    "scoped.component.html",
			Content: "<template><div class=\"a\">x</div></template>\n<style>.a { color: red; }</style>",
		}}
		session := NewBuildSession()
		results := session.Build(context.Background(), docs)
		require.NoError(t, results[0].Err)
		component := results[0].Component
		attr := ScopeAttr(component.ScopeToken)
		assert.Contains(t, component.JSCode, "'"+attr+"': ''")
		assert.Contains(t, component.CSSCode, ".a["+attr+"]")
	})

	t.Run("should record cancellation for unscheduled documents", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		session := NewBuildSession(WithWorkers(1))
		results := session.Build(ctx, buildDocs(3))
		for _, result := range results {
			assert.ErrorIs(t, result.Err, context.Canceled)
		}
	})

	t.Run("should honor the worker bound", func(t *testing.T) {
		session := NewBuildSession(WithWorkers(2))
		results := session.Build(context.Background(), buildDocs(8))
		for _, result := range results {
			require.NoError(t, result.Err)
		}
	})
}
