// Package trace carries request correlation identifiers through a context
// and writes them onto outgoing request headers.
package trace

import (
	"context"
	crand "crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const (
	idKey     contextKey = "request_id"
	parentKey contextKey = "traceparent"
	stateKey  contextKey = "tracestate"
)

const (
	// HeaderRequestID is the default correlation header.
	HeaderRequestID = "X-Request-ID"
	// HeaderTraceParent is the W3C trace context header.
	HeaderTraceParent = "traceparent"
	// HeaderTraceState is the W3C vendor-specific trace state header.
	HeaderTraceState = "tracestate"
)

// WithID stores a request ID in ctx.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, idKey, id)
}

// IDFromContext returns the request ID stored in ctx, if any.
func IDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(idKey).(string)
	return id, ok && id != ""
}

// EnsureID returns the ID in ctx or a new random one.
func EnsureID(ctx context.Context) string {
	if id, ok := IDFromContext(ctx); ok {
		return id
	}
	return uuid.NewString()
}

// WithParent stores a traceparent value in ctx.
func WithParent(ctx context.Context, traceParent string) context.Context {
	return context.WithValue(ctx, parentKey, traceParent)
}

// ParentFromContext returns the traceparent stored in ctx, if any.
func ParentFromContext(ctx context.Context) (string, bool) {
	tp, ok := ctx.Value(parentKey).(string)
	return tp, ok && tp != ""
}

// WithState stores a tracestate value in ctx.
func WithState(ctx context.Context, traceState string) context.Context {
	return context.WithValue(ctx, stateKey, traceState)
}

// StateFromContext returns the tracestate stored in ctx, if any.
func StateFromContext(ctx context.Context) (string, bool) {
	ts, ok := ctx.Value(stateKey).(string)
	return ts, ok && ts != ""
}

// NewParent returns a sampled W3C traceparent: 00-<32 hex>-<16 hex>-01.
func NewParent() string {
	traceID := randomNonZero(16)
	spanID := randomNonZero(8)
	return "00-" + hex.EncodeToString(traceID) + "-" + hex.EncodeToString(spanID) + "-01"
}

func randomNonZero(n int) []byte {
	b := make([]byte, n)
	if _, err := crand.Read(b); err != nil {
		clear(b)
	}
	for _, v := range b {
		if v != 0 {
			return b
		}
	}
	// An all-zero ID is invalid in W3C trace context.
	b[n-1] = 0x01
	return b
}

// HeaderOptions controls which correlation headers Apply writes.
type HeaderOptions struct {
	// IDHeader defaults to HeaderRequestID.
	IDHeader string
	// NewID generates an ID when ctx has none. Defaults to a random UUID.
	NewID func() string
	// W3C also writes traceparent (generated when absent) and tracestate.
	W3C bool
}

// Apply sets correlation headers on h without replacing values already present.
// It returns the request ID that is in effect on h.
func Apply(ctx context.Context, h http.Header, opts HeaderOptions) string {
	idHeader := opts.IDHeader
	if idHeader == "" {
		idHeader = HeaderRequestID
	}

	id := h.Get(idHeader)
	if id == "" {
		var ok bool
		id, ok = IDFromContext(ctx)
		if !ok {
			if opts.NewID != nil {
				id = opts.NewID()
			} else {
				id = uuid.NewString()
			}
		}
		h.Set(idHeader, id)
	}

	if !opts.W3C {
		return id
	}
	if h.Get(HeaderTraceParent) == "" {
		tp, ok := ParentFromContext(ctx)
		if !ok {
			tp = NewParent()
		}
		h.Set(HeaderTraceParent, tp)
	}
	if h.Get(HeaderTraceState) == "" {
		if ts, ok := StateFromContext(ctx); ok {
			h.Set(HeaderTraceState, ts)
		}
	}
	return id
}
