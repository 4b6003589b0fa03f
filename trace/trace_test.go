package trace

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var traceParentPattern = regexp.MustCompile(`^00-[0-9a-f]{32}-[0-9a-f]{16}-01$`)

func TestEnsureID(t *testing.T) {
	t.Run("uses existing", func(t *testing.T) {
		ctx := WithID(context.Background(), "existing-id")
		assert.Equal(t, "existing-id", EnsureID(ctx))
	})

	t.Run("generates when missing", func(t *testing.T) {
		got := EnsureID(context.Background())
		assert.Regexp(t, `^[a-f0-9\-]{36}$`, strings.ToLower(got))
	})

	t.Run("empty value counts as missing", func(t *testing.T) {
		ctx := WithID(context.Background(), "")
		_, ok := IDFromContext(ctx)
		assert.False(t, ok)
	})
}

func TestContextRoundTrips(t *testing.T) {
	in := "00-0123456789abcdef0123456789abcdef-0123456789abcdef-01"
	ctx := WithParent(context.Background(), in)
	out, ok := ParentFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, in, out)

	ctx = WithState(ctx, "vendor=a:b,c=d")
	state, ok := StateFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "vendor=a:b,c=d", state)

	_, ok = StateFromContext(context.Background())
	assert.False(t, ok)
}

func TestNewParentFormat(t *testing.T) {
	for range 20 {
		tp := NewParent()
		assert.Regexp(t, traceParentPattern, tp)
		parts := strings.Split(tp, "-")
		require.Len(t, parts, 4)
		assert.NotEqual(t, strings.Repeat("0", 32), parts[1])
		assert.NotEqual(t, strings.Repeat("0", 16), parts[2])
	}
}

func TestApply(t *testing.T) {
	t.Run("sets request id from context", func(t *testing.T) {
		h := http.Header{}
		id := Apply(WithID(context.Background(), "ctx-id"), h, HeaderOptions{})
		assert.Equal(t, "ctx-id", id)
		assert.Equal(t, "ctx-id", h.Get(HeaderRequestID))
		assert.Empty(t, h.Get(HeaderTraceParent))
	})

	t.Run("keeps existing header", func(t *testing.T) {
		h := http.Header{}
		h.Set(HeaderRequestID, "caller-id")
		id := Apply(WithID(context.Background(), "ctx-id"), h, HeaderOptions{})
		assert.Equal(t, "caller-id", id)
		assert.Equal(t, "caller-id", h.Get(HeaderRequestID))
	})

	t.Run("custom header and generator", func(t *testing.T) {
		h := http.Header{}
		id := Apply(context.Background(), h, HeaderOptions{
			IDHeader: "X-Correlation-ID",
			NewID:    func() string { return "generated" },
		})
		assert.Equal(t, "generated", id)
		assert.Equal(t, "generated", h.Get("X-Correlation-ID"))
		assert.Empty(t, h.Get(HeaderRequestID))
	})

	t.Run("w3c headers from context", func(t *testing.T) {
		tp := "00-0123456789abcdef0123456789abcdef-0123456789abcdef-01"
		ctx := WithState(WithParent(context.Background(), tp), "k=v")
		h := http.Header{}
		Apply(ctx, h, HeaderOptions{W3C: true})
		assert.Equal(t, tp, h.Get(HeaderTraceParent))
		assert.Equal(t, "k=v", h.Get(HeaderTraceState))
	})

	t.Run("w3c parent generated when absent", func(t *testing.T) {
		h := http.Header{}
		Apply(context.Background(), h, HeaderOptions{W3C: true})
		assert.Regexp(t, traceParentPattern, h.Get(HeaderTraceParent))
		assert.Empty(t, h.Get(HeaderTraceState))
	})
}
