// Package config defines the exporter configuration structure.
package config

import "time"

// ExporterConfig is the root configuration for etp-exporter.
type ExporterConfig struct {
	Tasks   []TaskSection  `koanf:"tasks"`
	Elk     ElkSection     `koanf:"elk"`
	Server  ServerSection  `koanf:"server"`
	Log     LogSection     `koanf:"log"`
	Tracing TracingSection `koanf:"tracing"`
}

// TaskSection configures one periodic count query.
type TaskSection struct {
	MetricName string `koanf:"metric_name"`

	// Period is in minutes. It is decoded signed so that a negative value
	// is reported instead of wrapping around.
	Period int64 `koanf:"period"`

	Description string `koanf:"description"`
	Environment string `koanf:"environment"`

	// Filter clauses must all match. A range clause over the task's window
	// is appended at startup.
	Filter []map[string]any `koanf:"filter"`

	// MustNot clauses exclude matching documents.
	MustNot []map[string]any `koanf:"must_not"`
}

// ElkSection configures the count backend.
type ElkSection struct {
	// URL is the full _count endpoint.
	URL string `koanf:"url"`

	// Authorization is sent verbatim as the Authorization header.
	Authorization string `koanf:"authorization"`

	Timeout        time.Duration `koanf:"timeout"`
	TimestampField string        `koanf:"timestamp_field"`

	// MaxRequestsPerSecond limits backend requests across tasks. 0 = off.
	MaxRequestsPerSecond float64 `koanf:"max_requests_per_second"`

	// CAFile is a PEM file or directory of extra trusted CAs for https URLs.
	CAFile             string `koanf:"ca_file"`
	InsecureSkipVerify bool   `koanf:"insecure_skip_verify"`
}

// ServerSection configures the metrics endpoint.
type ServerSection struct {
	Bind            string        `koanf:"bind"`
	MetricPath      string        `koanf:"metric_path"`
	RateLimit       float64       `koanf:"rate_limit"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// TrustProxyHeaders keys the rate limit on X-Forwarded-For/X-Real-IP
	// instead of the connection address.
	TrustProxyHeaders bool `koanf:"trust_proxy_headers"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// TracingSection configures OpenTelemetry export.
type TracingSection struct {
	// Endpoint is the OTLP gRPC collector address. Empty disables tracing.
	Endpoint    string  `koanf:"endpoint"`
	Insecure    bool    `koanf:"insecure"`
	SampleRatio float64 `koanf:"sample_ratio"`

	// Headers are sent as gRPC metadata with every export, e.g. an API key.
	Headers map[string]string `koanf:"headers"`
}
