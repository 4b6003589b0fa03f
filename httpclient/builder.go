package httpclient

import (
	"maps"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/gaborage/requestkit/logger"
	"github.com/gaborage/requestkit/retry"
)

// Builder assembles a Client.
type Builder struct {
	config Config
	log    logger.Logger
}

// NewBuilder starts from default settings. A nil log discards client logs.
func NewBuilder(log logger.Logger) *Builder {
	if log == nil {
		log = logger.Nop()
	}
	return &Builder{
		config: Config{
			Timeout:            defaultTimeout,
			MaxPayloadLogBytes: defaultMaxPayloadLogBytes,
			TraceIDHeader:      HeaderXRequestID,
			DefaultHeaders:     map[string]string{},
		},
		log: log,
	}
}

// NewBuilderFromConfig starts from cfg. Unset fields take the builder defaults.
func NewBuilderFromConfig(log logger.Logger, cfg Config) *Builder {
	b := NewBuilder(log)
	defaults := b.config
	b.config = cfg
	b.config.DefaultHeaders = maps.Clone(cfg.DefaultHeaders)
	if b.config.DefaultHeaders == nil {
		b.config.DefaultHeaders = map[string]string{}
	}
	if b.config.Timeout <= 0 {
		b.config.Timeout = defaults.Timeout
	}
	if b.config.MaxPayloadLogBytes <= 0 {
		b.config.MaxPayloadLogBytes = defaults.MaxPayloadLogBytes
	}
	if b.config.TraceIDHeader == "" {
		b.config.TraceIDHeader = defaults.TraceIDHeader
	}
	return b
}

// WithTimeout sets the fallback per-attempt timeout.
func (b *Builder) WithTimeout(timeout time.Duration) *Builder {
	b.config.Timeout = timeout
	return b
}

// WithRetry sets the strategy Execute uses when given none.
func (b *Builder) WithRetry(strategy retry.Strategy) *Builder {
	b.config.Retry = strategy
	return b
}

func (b *Builder) WithDefaultHeader(key, value string) *Builder {
	b.config.DefaultHeaders[key] = value
	return b
}

func (b *Builder) WithRequestInterceptor(interceptor RequestInterceptor) *Builder {
	b.config.RequestInterceptors = append(b.config.RequestInterceptors, interceptor)
	return b
}

func (b *Builder) WithResponseInterceptor(interceptor ResponseInterceptor) *Builder {
	b.config.ResponseInterceptors = append(b.config.ResponseInterceptors, interceptor)
	return b
}

// WithPayloadLogging enables debug logging of bodies up to maxBytes.
func (b *Builder) WithPayloadLogging(maxBytes int) *Builder {
	b.config.LogPayloads = true
	if maxBytes > 0 {
		b.config.MaxPayloadLogBytes = maxBytes
	}
	return b
}

func (b *Builder) WithTraceIDHeader(header string) *Builder {
	if header != "" {
		b.config.TraceIDHeader = header
	}
	return b
}

func (b *Builder) WithTraceIDGenerator(gen func() string) *Builder {
	b.config.NewTraceID = gen
	return b
}

// WithW3CTracePropagation enables traceparent/tracestate headers.
func (b *Builder) WithW3CTracePropagation(enabled bool) *Builder {
	b.config.EnableW3CTrace = enabled
	return b
}

// WithRateLimit caps sends per second. A non-positive limit disables limiting.
func (b *Builder) WithRateLimit(perSecond float64, burst int) *Builder {
	b.config.RateLimit = perSecond
	b.config.Burst = burst
	return b
}

func (b *Builder) WithTransport(rt http.RoundTripper) *Builder {
	b.config.Transport = rt
	return b
}

func (b *Builder) WithTracerProvider(tp trace.TracerProvider) *Builder {
	b.config.TracerProvider = tp
	return b
}

// Build returns the client. The builder may be reused; later changes do not
// affect clients already built.
func (b *Builder) Build() Client {
	cfg := b.config
	cfg.DefaultHeaders = maps.Clone(b.config.DefaultHeaders)
	cfg.RequestInterceptors = append([]RequestInterceptor(nil), b.config.RequestInterceptors...)
	cfg.ResponseInterceptors = append([]ResponseInterceptor(nil), b.config.ResponseInterceptors...)

	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	c := &client{
		// Attempt deadlines come from the request context.
		httpClient: &http.Client{Transport: transport},
		config:     &cfg,
		logger:     b.log,
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return c
}
