package tracer

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNew_NoEndpoint(t *testing.T) {
	p, err := New(context.Background(), Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if p.Enabled() {
		t.Error("provider without endpoint should be disabled")
	}

	_, span := p.Tracer().Start(context.Background(), "poll")
	if span.SpanContext().IsValid() {
		t.Error("noop span should have an invalid span context")
	}
	span.End()

	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNew_WithEndpoint(t *testing.T) {
	p, err := New(context.Background(), Config{Endpoint: "127.0.0.1:4317", Insecure: true, SampleRatio: 1})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !p.Enabled() {
		t.Error("provider with endpoint should be enabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = p.Shutdown(ctx)
}

func TestNewWithExporter_RecordsSpans(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	p := NewWithExporter(exp, Config{ServiceName: "etp-test", SampleRatio: 1})

	_, span := p.Tracer().Start(context.Background(), "poll http_ok_total")
	span.SetAttributes(attribute.Int64("etp.count", 42))
	span.End()

	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	spans := exp.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Name != "poll http_ok_total" {
		t.Errorf("span name = %q", spans[0].Name)
	}
}

func TestSampler(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{1, "AlwaysOnSampler"},
		{2, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{-1, "AlwaysOffSampler"},
	}
	for _, tt := range tests {
		if got := sampler(tt.ratio).Description(); got != tt.want {
			t.Errorf("sampler(%v) = %q, want %q", tt.ratio, got, tt.want)
		}
	}

	if got := sampler(0.5).Description(); got == "AlwaysOnSampler" || got == "AlwaysOffSampler" {
		t.Errorf("sampler(0.5) = %q, want ratio based", got)
	}
}
