// Package tracer provides OpenTelemetry tracing for etp.
package tracer

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// InstrumentationName names the tracer used for poll spans.
const InstrumentationName = "github.com/yndnr/etp-go"

// Config configures the tracer provider.
type Config struct {
	// Endpoint is the OTLP gRPC collector address (host:port).
	// Empty disables tracing.
	Endpoint string

	// Insecure disables TLS towards the collector.
	Insecure bool

	// SampleRatio is the fraction of polls traced, 0..1.
	SampleRatio float64

	// Headers are sent with every export (e.g. collector auth).
	Headers map[string]string

	// ServiceName and ServiceVersion identify the exporter in traces.
	ServiceName    string
	ServiceVersion string
}

// Provider owns the tracer provider lifecycle.
type Provider struct {
	tp       trace.TracerProvider
	tracer   trace.Tracer
	shutdown func(context.Context) error
	enabled  bool
}

// New creates a provider. With an empty endpoint it returns a no-op provider.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.Endpoint == "" {
		return Noop(), nil
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	if len(cfg.Headers) > 0 {
		opts = append(opts, otlptracegrpc.WithHeaders(cfg.Headers))
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}
	return NewWithExporter(exporter, cfg), nil
}

// NewWithExporter creates a provider exporting spans through exporter.
func NewWithExporter(exporter sdktrace.SpanExporter, cfg Config) *Provider {
	name := cfg.ServiceName
	if name == "" {
		name = "etp-exporter"
	}
	attrs := []attribute.KeyValue{attribute.String("service.name", name)}
	if cfg.ServiceVersion != "" {
		attrs = append(attrs, attribute.String("service.version", cfg.ServiceVersion))
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(attrs...)),
		sdktrace.WithSampler(sampler(cfg.SampleRatio)),
	)

	return &Provider{
		tp:       tp,
		tracer:   tp.Tracer(InstrumentationName),
		shutdown: tp.Shutdown,
		enabled:  true,
	}
}

// Noop returns a provider whose spans are discarded.
func Noop() *Provider {
	tp := noop.NewTracerProvider()
	return &Provider{
		tp:       tp,
		tracer:   tp.Tracer(InstrumentationName),
		shutdown: func(context.Context) error { return nil },
	}
}

func sampler(ratio float64) sdktrace.Sampler {
	switch {
	case ratio >= 1:
		return sdktrace.AlwaysSample()
	case ratio <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	}
}

// Tracer returns the tracer used for poll spans.
func (p *Provider) Tracer() trace.Tracer {
	return p.tracer
}

// Enabled reports whether spans are exported.
func (p *Provider) Enabled() bool {
	return p.enabled
}

// Shutdown flushes pending spans and stops the exporter.
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.shutdown(ctx)
}
