// Package httpclient executes request specs over HTTP, resending a built
// descriptor for as long as its retry strategy asks.
package httpclient

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/gaborage/requestkit/request"
	"github.com/gaborage/requestkit/retry"
	rktrace "github.com/gaborage/requestkit/trace"
)

const (
	// HeaderXRequestID is the default correlation header.
	HeaderXRequestID = rktrace.HeaderRequestID
	// HeaderTraceParent is the W3C trace context header name.
	HeaderTraceParent = rktrace.HeaderTraceParent
	// HeaderTraceState is the W3C tracestate header name.
	HeaderTraceState = rktrace.HeaderTraceState
	// HeaderCacheControl carries the descriptor's cache policy.
	HeaderCacheControl = "Cache-Control"

	defaultMaxPayloadLogBytes = 1024
	defaultTimeout            = 30 * time.Second
)

// Client sends request specs.
type Client interface {
	// Do builds spec and sends it, retrying with spec.Retry(). A spec whose
	// session implements Authorizer is authorized on every attempt.
	Do(ctx context.Context, spec request.Spec) (*Response, error)
	// Execute sends an already built descriptor. A nil strategy falls back to
	// Config.Retry, then to no retries.
	Execute(ctx context.Context, d *request.Descriptor, strategy retry.Strategy) (*Response, error)
}

// Response is the outcome of the last attempt. It is also returned alongside
// an HTTP error so callers can inspect non-2xx bodies.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
	Stats      Stats
}

// Stats describes how the response was obtained.
type Stats struct {
	// ElapsedTime covers every attempt and retry wait.
	ElapsedTime time.Duration
	// CallCount is the client's lifetime number of sends.
	CallCount int64
	// Attempts is the number of sends for this request.
	Attempts int
}

// Authorizer is implemented by request sessions that add credentials.
type Authorizer interface {
	Authorize(ctx context.Context, req *http.Request) error
}

// RequestInterceptor is called before each send.
type RequestInterceptor func(ctx context.Context, req *http.Request) error

// ResponseInterceptor is called after each response is read.
type ResponseInterceptor func(ctx context.Context, req *http.Request, resp *http.Response) error

// Config holds the client configuration.
type Config struct {
	// Timeout applies to descriptors without their own timeout.
	Timeout time.Duration
	// Retry is used by Execute when no strategy is passed.
	Retry                retry.Strategy
	RequestInterceptors  []RequestInterceptor
	ResponseInterceptors []ResponseInterceptor
	// DefaultHeaders are added when the descriptor does not set them. Content-Type is never defaulted.
	DefaultHeaders map[string]string
	// LogPayloads enables debug-level logging of headers and body previews.
	LogPayloads bool
	// MaxPayloadLogBytes caps body previews (default 1024).
	MaxPayloadLogBytes int
	// TraceIDHeader names the correlation header (default X-Request-ID).
	TraceIDHeader string
	// NewTraceID generates a correlation ID when the context has none (default uuid).
	NewTraceID func() string
	// EnableW3CTrace writes traceparent and tracestate headers.
	EnableW3CTrace bool
	// RateLimit caps sends per second across the client. Zero disables limiting.
	RateLimit float64
	Burst     int
	// Transport defaults to http.DefaultTransport.
	Transport http.RoundTripper
	// TracerProvider defaults to the global provider.
	TracerProvider trace.TracerProvider
}

// WithTraceID stores a correlation ID for outgoing requests.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return rktrace.WithID(ctx, traceID)
}

// NewTraceIDInterceptor adds X-Request-ID when the request lacks it.
func NewTraceIDInterceptor() RequestInterceptor {
	return NewTraceIDInterceptorFor(HeaderXRequestID)
}

// NewTraceIDInterceptorFor adds the correlation ID under header. Empty means X-Request-ID.
func NewTraceIDInterceptorFor(header string) RequestInterceptor {
	if header == "" {
		header = HeaderXRequestID
	}
	return func(ctx context.Context, req *http.Request) error {
		if req.Header.Get(header) == "" {
			req.Header.Set(header, rktrace.EnsureID(ctx))
		}
		return nil
	}
}
