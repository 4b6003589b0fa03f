// Package observability builds the OpenTelemetry trace and meter providers
// used by the request executor.
package observability

import (
	"fmt"
	"io"
	"maps"
	"time"
)

// Exporter names.
const (
	ExporterNone     = "none"
	ExporterStdout   = "stdout"
	ExporterOTLPHTTP = "otlp-http"
	ExporterOTLPGRPC = "otlp-grpc"
)

const (
	defaultServiceName    = "requestkit"
	defaultMetricInterval = 30 * time.Second
)

// Config selects where telemetry goes.
type Config struct {
	Enabled  bool
	Service  string
	Version  string
	Exporter string
	// Endpoint is host:port, or a full URL. Empty uses the exporter default.
	Endpoint string
	Insecure bool
	Headers  map[string]string
	// SampleRate is the trace sampling ratio. Zero means 1.0.
	SampleRate     float64
	MetricInterval time.Duration
	// Output receives stdout exporter data. Defaults to os.Stdout.
	Output io.Writer
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Service == "" {
		c.Service = defaultServiceName
	}
	if c.Exporter == "" {
		c.Exporter = ExporterNone
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1
	}
	if c.MetricInterval <= 0 {
		c.MetricInterval = defaultMetricInterval
	}
	c.Headers = maps.Clone(c.Headers)
}

// Validate checks an enabled configuration. Disabled configurations are always valid.
func (c *Config) Validate() error {
	if c == nil {
		return ErrNilConfig
	}
	if !c.Enabled {
		return nil
	}
	if c.Service == "" {
		return ErrMissingServiceName
	}
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return ErrInvalidSampleRate
	}
	switch c.Exporter {
	case ExporterNone, ExporterStdout, ExporterOTLPHTTP, ExporterOTLPGRPC:
		return nil
	default:
		return fmt.Errorf("exporter %q: %w", c.Exporter, ErrInvalidExporter)
	}
}
