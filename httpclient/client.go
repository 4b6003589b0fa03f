package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/gaborage/requestkit/httpclient/internal/tracking"
	"github.com/gaborage/requestkit/logger"
	"github.com/gaborage/requestkit/request"
	"github.com/gaborage/requestkit/retry"
	rktrace "github.com/gaborage/requestkit/trace"
)

const tracerName = "requestkit/httpclient"

type client struct {
	httpClient *http.Client
	config     *Config
	logger     logger.Logger
	limiter    *rate.Limiter
	callCount  atomic.Int64
}

var _ Client = (*client)(nil)

// Do builds spec and executes it. Build failures are returned as validation
// errors without sending anything.
func (c *client) Do(ctx context.Context, spec request.Spec) (*Response, error) {
	d, err := spec.Build()
	if err != nil {
		buildErr := newBuildError(err)
		c.logger.Warn().
			Str("endpoint", endpointDescription(spec)).
			Err(err).
			Msg("REST client request not built")
		return nil, buildErr
	}
	c.logger.Debug().
		Interface("request", spec.LogFields()).
		Msg(spec.LogDescription())
	return c.execute(ctx, d, spec.Retry(), spec.Session())
}

func (c *client) Execute(ctx context.Context, d *request.Descriptor, strategy retry.Strategy) (*Response, error) {
	if d == nil {
		return nil, NewValidationError("descriptor is nil", "")
	}
	if strategy == nil {
		strategy = c.config.Retry
	}
	return c.execute(ctx, d, strategy, nil)
}

func (c *client) execute(ctx context.Context, d *request.Descriptor, strategy retry.Strategy, session request.Session) (*Response, error) {
	if strategy == nil {
		strategy = retry.NoRetry{}
	}

	// One correlation ID for every attempt of this request.
	if _, ok := rktrace.IDFromContext(ctx); !ok {
		ctx = rktrace.WithID(ctx, c.newTraceID())
	}

	start := time.Now()
	for attempt := 1; ; attempt++ {
		resp, err := c.send(ctx, d, attempt, session)
		if resp != nil {
			resp.Stats.ElapsedTime = time.Since(start)
		}
		if err == nil {
			return resp, nil
		}
		if ctx.Err() != nil {
			return resp, err
		}

		failure := Classify(err)
		decision := strategy.Next(attempt, failure)
		if !decision.Retry() {
			return resp, err
		}

		c.logger.Warn().
			Str("method", d.Method().String()).
			Str("url", d.URL().String()).
			Int("attempt", attempt).
			Dur("wait", decision.Wait()).
			Str("failure", failure.String()).
			Err(err).
			Msg("REST client retry")
		tracking.RecordRetry(ctx, d.Method().String(), d.URL().Host, failure.String())

		if waitErr := sleep(ctx, decision.Wait()); waitErr != nil {
			return resp, contextError(waitErr, "retry wait interrupted", 0)
		}
	}
}

// send performs one attempt.
func (c *client) send(ctx context.Context, d *request.Descriptor, attempt int, session request.Session) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, contextError(err, "rate limiter wait", 0)
		}
	}

	timeout := d.Timeout()
	if timeout <= 0 {
		timeout = c.config.Timeout
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	method := d.Method().String()
	target := d.URL()
	attemptCtx, span := c.tracer().Start(attemptCtx, "HTTP "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.full", redactedURL(target.String())),
			attribute.String("server.address", target.Hostname()),
		),
	)
	defer span.End()
	if attempt > 1 {
		span.SetAttributes(attribute.Int("http.request.resend_count", attempt-1))
	}

	req, err := d.HTTPRequest(attemptCtx)
	if err != nil {
		return nil, c.fail(span, newBuildError(err))
	}
	c.applyDefaultHeaders(req.Header)
	applyCachePolicy(req.Header, d.CachePolicy())
	otel.GetTextMapPropagator().Inject(attemptCtx, propagation.HeaderCarrier(req.Header))
	requestID := rktrace.Apply(ctx, req.Header, rktrace.HeaderOptions{
		IDHeader: c.config.TraceIDHeader,
		NewID:    c.config.NewTraceID,
		W3C:      c.config.EnableW3CTrace,
	})

	if auth, ok := session.(Authorizer); ok {
		if err := auth.Authorize(attemptCtx, req); err != nil {
			return nil, c.fail(span, NewInterceptorError("session authorization failed", "session", err))
		}
	}
	for _, interceptor := range c.config.RequestInterceptors {
		if err := interceptor(attemptCtx, req); err != nil {
			return nil, c.fail(span, NewInterceptorError("request interceptor failed", "request", err))
		}
	}

	c.logRequest(req, d.Body(), requestID)

	metric := tracking.Attempt{Method: method, Server: target.Host}
	callStart := time.Now()
	callCount := c.callCount.Add(1)
	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		clientErr := transportError(err, timeout)
		metric.Duration = time.Since(callStart)
		metric.Error = clientErr.Type().String()
		tracking.RecordAttempt(ctx, metric)
		return nil, c.fail(span, clientErr)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	metric.Duration = time.Since(callStart)
	metric.Status = httpResp.StatusCode
	if err != nil {
		clientErr := transportError(err, timeout)
		metric.Error = clientErr.Type().String()
		tracking.RecordAttempt(ctx, metric)
		return nil, c.fail(span, clientErr)
	}
	span.SetAttributes(attribute.Int("http.response.status_code", httpResp.StatusCode))

	for _, interceptor := range c.config.ResponseInterceptors {
		if err := interceptor(attemptCtx, req, httpResp); err != nil {
			metric.Error = InterceptorError.String()
			tracking.RecordAttempt(ctx, metric)
			return nil, c.fail(span, NewInterceptorError("response interceptor failed", "response", err))
		}
	}

	response := &Response{
		StatusCode: httpResp.StatusCode,
		Body:       body,
		Headers:    httpResp.Header.Clone(),
		Stats: Stats{
			ElapsedTime: metric.Duration,
			CallCount:   callCount,
			Attempts:    attempt,
		},
	}
	c.logResponse(response, requestID)

	if !IsSuccessStatus(httpResp.StatusCode) {
		metric.Error = fmt.Sprintf("%d", httpResp.StatusCode)
		tracking.RecordAttempt(ctx, metric)
		return response, c.fail(span, NewHTTPError(
			fmt.Sprintf("%s %s returned %s", method, target.Host, http.StatusText(httpResp.StatusCode)),
			httpResp.StatusCode, body))
	}

	tracking.RecordAttempt(ctx, metric)
	return response, nil
}

func (c *client) fail(span trace.Span, err ClientError) ClientError {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Type().String())
	return err
}

func (c *client) tracer() trace.Tracer {
	tp := c.config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return tp.Tracer(tracerName)
}

func (c *client) newTraceID() string {
	if c.config.NewTraceID != nil {
		if id := c.config.NewTraceID(); id != "" {
			return id
		}
	}
	return rktrace.EnsureID(context.Background())
}

func (c *client) applyDefaultHeaders(h http.Header) {
	for k, v := range c.config.DefaultHeaders {
		if strings.EqualFold(k, "Content-Type") || h.Get(k) != "" {
			continue
		}
		h.Set(k, v)
	}
}

// applyCachePolicy translates the descriptor's cache policy into request
// directives unless the caller already set Cache-Control.
func applyCachePolicy(h http.Header, policy request.CachePolicy) {
	if h.Get(HeaderCacheControl) != "" {
		return
	}
	switch policy {
	case request.ReloadIgnoringLocalCacheData:
		h.Set(HeaderCacheControl, "no-cache")
	case request.ReturnCacheDataElseLoad:
		h.Set(HeaderCacheControl, "max-stale")
	case request.ReturnCacheDataDontLoad:
		h.Set(HeaderCacheControl, "max-stale, only-if-cached")
	}
}

func transportError(err error, timeout time.Duration) ClientError {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &timeoutError{message: "request timed out", timeout: timeout, err: err}
	}
	return contextError(err, "request failed", timeout)
}

// contextError keeps deadline failures distinguishable from other transport failures.
func contextError(err error, message string, timeout time.Duration) ClientError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &timeoutError{message: message, timeout: timeout, err: err}
	}
	return NewNetworkError(message, err)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func endpointDescription(spec request.Spec) string {
	if ep := spec.Endpoint(); ep != nil {
		return ep.Description()
	}
	return "<nil>"
}

// redactedURL drops user info from span attributes.
func redactedURL(raw string) string {
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return raw
	}
	hostEnd := strings.IndexAny(rest, "/?#")
	authority := rest
	if hostEnd >= 0 {
		authority = rest[:hostEnd]
	}
	at := strings.LastIndex(authority, "@")
	if at < 0 {
		return raw
	}
	return scheme + "://" + rest[at+1:]
}
