// Package tracking records OpenTelemetry metrics for outbound request attempts.
package tracking

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/gaborage/requestkit/observability"
)

const (
	meterName = "requestkit/httpclient"

	// Metric names follow the OpenTelemetry HTTP client conventions where one exists.
	metricRequestDuration = "http.client.request.duration" // Histogram in seconds
	metricAttempts        = "http.client.attempts"         // Counter, one per send
	metricRetries         = "http.client.retries"          // Counter, one per scheduled retry

	attrMethod     = "http.request.method"
	attrServer     = "server.address"
	attrStatusCode = "http.response.status_code"
	attrErrorType  = "error.type"
	attrFailure    = "retry.failure"
)

var (
	meter         metric.Meter
	meterOnce     sync.Once
	meterInitMu   sync.Mutex
	metricsInited bool

	requestDuration metric.Float64Histogram
	attemptCounter  metric.Int64Counter
	retryCounter    metric.Int64Counter
)

func logMetricError(metricName string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "WARNING: Failed to initialize httpclient metric %s: %v\n", metricName, err)
	}
}

func initMeter() {
	meterInitMu.Lock()
	defer meterInitMu.Unlock()

	if meter != nil {
		return
	}
	meter = otel.Meter(meterName)

	var err error
	requestDuration, err = observability.CreateHistogram(meter, metricRequestDuration,
		"Duration of outbound HTTP request attempts", metric.WithUnit("s"))
	logMetricError(metricRequestDuration, err)

	attemptCounter, err = observability.CreateCounter(meter, metricAttempts,
		"Number of outbound HTTP request attempts", metric.WithUnit("{attempt}"))
	logMetricError(metricAttempts, err)

	retryCounter, err = observability.CreateCounter(meter, metricRetries,
		"Number of retries scheduled by the retry strategy", metric.WithUnit("{retry}"))
	logMetricError(metricRetries, err)

	metricsInited = true
}

func ensureMeterInitialized() {
	meterOnce.Do(initMeter)
}

// Attempt describes one send of a request.
type Attempt struct {
	Method   string
	Server   string
	Status   int    // zero when no response arrived
	Error    string // empty on success
	Duration time.Duration
}

func (a Attempt) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, a.Method),
		attribute.String(attrServer, a.Server),
	}
	if a.Status > 0 {
		attrs = append(attrs, attribute.Int(attrStatusCode, a.Status))
	}
	if a.Error != "" {
		attrs = append(attrs, attribute.String(attrErrorType, a.Error))
	}
	return attrs
}

// RecordAttempt records the duration histogram and the attempt counter.
func RecordAttempt(ctx context.Context, a Attempt) {
	ensureMeterInitialized()

	opt := metric.WithAttributes(a.attributes()...)
	if requestDuration != nil {
		requestDuration.Record(ctx, a.Duration.Seconds(), opt)
	}
	if attemptCounter != nil {
		attemptCounter.Add(ctx, 1, opt)
	}
}

// RecordRetry counts a retry the strategy decided to make after failure.
func RecordRetry(ctx context.Context, method, server, failure string) {
	ensureMeterInitialized()

	if retryCounter != nil {
		retryCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String(attrMethod, method),
			attribute.String(attrServer, server),
			attribute.String(attrFailure, failure),
		))
	}
}

// IsInitialized reports whether the instruments were created.
func IsInitialized() bool {
	meterInitMu.Lock()
	defer meterInitMu.Unlock()
	return metricsInited
}

// ResetForTesting drops the instruments so the next record binds to the
// current global meter provider.
func ResetForTesting() {
	meterInitMu.Lock()
	defer meterInitMu.Unlock()

	meter = nil
	requestDuration = nil
	attemptCounter = nil
	retryCounter = nil
	metricsInited = false
	meterOnce = sync.Once{}
}
