package sass

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSasscProcessor(t *testing.T) {
	t.Run("should report a missing executable as unavailable", func(t *testing.T) {
		p := NewSasscProcessor(WithPath("sassc-definitely-not-installed"))
		assert.False(t, p.Available())
	})

	t.Run("should wrap a missing executable in ErrUnavailable", func(t *testing.T) {
		p := NewSasscProcessor(WithPath("sassc-definitely-not-installed"))
		_, err := p.Process(context.Background(), ".a { color: red; }")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("should probe availability only once", func(t *testing.T) {
		p := NewSasscProcessor(WithPath("sassc-definitely-not-installed"))
		first := p.Available()
		second := p.Available()
		assert.Equal(t, first, second)
	})

	t.Run("should compile a stylesheet when sassc is installed", func(t *testing.T) {
		p := NewSasscProcessor(WithTimeout(30 * time.Second))
		if !p.Available() {
			t.Skip("sassc not installed")
		}
		out, err := p.Process(context.Background(), ".a { .b { color: red; } }")
		require.NoError(t, err)
		assert.Contains(t, out, ".a .b")
		assert.NotContains(t, out, "\n")
	})

	t.Run("should honor context cancellation", func(t *testing.T) {
		p := NewSasscProcessor()
		if !p.Available() {
			t.Skip("sassc not installed")
		}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := p.Process(ctx, ".a { color: red; }")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}
