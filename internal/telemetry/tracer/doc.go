// Package tracer provides OpenTelemetry tracing for etp.
//
// When an OTLP endpoint is configured every poll is recorded as a span
// carrying the task's metric name, period, the returned count or the
// backend error. Without an endpoint a no-op provider is used and tracing
// costs nothing.
package tracer
