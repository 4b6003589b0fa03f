package observability

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"google.golang.org/grpc/credentials/insecure"
)

func (p *provider) initMeterProvider(res *resource.Resource) error {
	exporter, err := p.createMetricExporter()
	if err != nil {
		return fmt.Errorf("failed to create metric exporter: %w", err)
	}
	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(p.config.MetricInterval))
	p.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	return nil
}

func (p *provider) createMetricExporter() (sdkmetric.Exporter, error) {
	switch p.config.Exporter {
	case ExporterStdout:
		out := p.config.Output
		if out == nil {
			out = os.Stdout
		}
		return stdoutmetric.New(stdoutmetric.WithWriter(out))
	case ExporterOTLPHTTP:
		opts := []otlpmetrichttp.Option{}
		if ep := p.config.Endpoint; isURL(ep) {
			opts = append(opts, otlpmetrichttp.WithEndpointURL(ep))
		} else if ep != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(ep))
		}
		if p.config.Insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		if len(p.config.Headers) > 0 {
			opts = append(opts, otlpmetrichttp.WithHeaders(p.config.Headers))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case ExporterOTLPGRPC:
		opts := []otlpmetricgrpc.Option{}
		if ep := p.config.Endpoint; isURL(ep) {
			opts = append(opts, otlpmetricgrpc.WithEndpointURL(ep))
		} else if ep != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(ep))
		}
		if p.config.Insecure {
			opts = append(opts, otlpmetricgrpc.WithTLSCredentials(insecure.NewCredentials()))
		}
		if len(p.config.Headers) > 0 {
			opts = append(opts, otlpmetricgrpc.WithHeaders(p.config.Headers))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("exporter %q: %w", p.config.Exporter, ErrInvalidExporter)
	}
}

// CreateCounter creates an Int64Counter with a description.
func CreateCounter(meter metric.Meter, name, description string, opts ...metric.Int64CounterOption) (metric.Int64Counter, error) {
	return meter.Int64Counter(
		name,
		append([]metric.Int64CounterOption{
			metric.WithDescription(description),
		}, opts...)...,
	)
}

// CreateHistogram creates a Float64Histogram with a description.
//
//	histogram, err := CreateHistogram(meter, "http.client.request.duration", "Request duration", metric.WithUnit("s"))
func CreateHistogram(meter metric.Meter, name, description string, opts ...metric.Float64HistogramOption) (metric.Float64Histogram, error) {
	return meter.Float64Histogram(
		name,
		append([]metric.Float64HistogramOption{
			metric.WithDescription(description),
		}, opts...)...,
	)
}
