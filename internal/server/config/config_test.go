package config

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/etp-go/internal/core/domain"
)

func validConfig() *ExporterConfig {
	cfg := Default()
	cfg.Elk.URL = "https://es.example.com:9200/logs-*/_count"
	cfg.Elk.Authorization = "Basic dXNlcjpwYXNz"
	cfg.Tasks = []TaskSection{
		{
			MetricName:  "http_ok_total",
			Period:      5,
			Description: "ok responses",
			Environment: "prod",
			Filter:      []map[string]any{{"term": map[string]any{"status": "ok"}}},
			MustNot:     []map[string]any{{"term": map[string]any{"path": "/health"}}},
		},
	}
	return cfg
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Bind != DefaultBind {
		t.Errorf("Server.Bind = %q, want %q", cfg.Server.Bind, DefaultBind)
	}
	if cfg.Server.MetricPath != DefaultMetricPath {
		t.Errorf("Server.MetricPath = %q, want %q", cfg.Server.MetricPath, DefaultMetricPath)
	}
	if cfg.Server.ShutdownTimeout != DefaultShutdownTimeout {
		t.Errorf("Server.ShutdownTimeout = %v, want %v", cfg.Server.ShutdownTimeout, DefaultShutdownTimeout)
	}
	if cfg.Elk.Timeout != DefaultElkTimeout {
		t.Errorf("Elk.Timeout = %v, want %v", cfg.Elk.Timeout, DefaultElkTimeout)
	}
	if cfg.Elk.TimestampField != DefaultTimestampField {
		t.Errorf("Elk.TimestampField = %q, want %q", cfg.Elk.TimestampField, DefaultTimestampField)
	}
	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, DefaultLogLevel)
	}
	if cfg.Tracing.Endpoint != "" {
		t.Error("tracing should be disabled by default")
	}
	if len(cfg.Tasks) != 0 {
		t.Error("default config should have no tasks")
	}
}

func TestVerify_Valid(t *testing.T) {
	if err := Verify(validConfig()); err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
}

func TestVerify_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ExporterConfig)
		want   error
	}{
		{"no tasks", func(c *ExporterConfig) { c.Tasks = nil }, domain.ErrConfigMissing},
		{"zero period", func(c *ExporterConfig) { c.Tasks[0].Period = 0 }, domain.ErrInvalidPeriod},
		{"negative period", func(c *ExporterConfig) { c.Tasks[0].Period = -1 }, domain.ErrInvalidPeriod},
		{"period above max", func(c *ExporterConfig) { c.Tasks[0].Period = domain.MaxPeriod + 1 }, domain.ErrInvalidPeriod},
		{"period beyond uint32", func(c *ExporterConfig) { c.Tasks[0].Period = 1 << 32 }, domain.ErrInvalidPeriod},
		{"metric name with spaces", func(c *ExporterConfig) { c.Tasks[0].MetricName = " http_ok_total" }, domain.ErrInvalidTask},
		{"bad metric name", func(c *ExporterConfig) { c.Tasks[0].MetricName = "http-ok" }, domain.ErrInvalidTask},
		{"duplicate metric", func(c *ExporterConfig) { c.Tasks = append(c.Tasks, c.Tasks[0]) }, domain.ErrDuplicateMetric},
		{"missing url", func(c *ExporterConfig) { c.Elk.URL = "" }, domain.ErrConfigMissing},
		{"bad scheme", func(c *ExporterConfig) { c.Elk.URL = "ftp://es/_count" }, domain.ErrConfigInvalid},
		{"no host", func(c *ExporterConfig) { c.Elk.URL = "http:///_count" }, domain.ErrConfigInvalid},
		{"negative timeout", func(c *ExporterConfig) { c.Elk.Timeout = -time.Second }, domain.ErrConfigInvalid},
		{"negative backend rate", func(c *ExporterConfig) { c.Elk.MaxRequestsPerSecond = -1 }, domain.ErrConfigInvalid},
		{"ca file over http", func(c *ExporterConfig) {
			c.Elk.URL = "http://es:9200/_count"
			c.Elk.CAFile = "/etc/ssl/es-ca.pem"
		}, domain.ErrConfigInvalid},
		{"missing bind", func(c *ExporterConfig) { c.Server.Bind = "" }, domain.ErrConfigMissing},
		{"bind without port", func(c *ExporterConfig) { c.Server.Bind = "localhost" }, domain.ErrConfigInvalid},
		{"bind port out of range", func(c *ExporterConfig) { c.Server.Bind = "127.0.0.1:70000" }, domain.ErrConfigInvalid},
		{"bind port not numeric", func(c *ExporterConfig) { c.Server.Bind = "127.0.0.1:http" }, domain.ErrConfigInvalid},
		{"empty metric path", func(c *ExporterConfig) { c.Server.MetricPath = "/" }, domain.ErrConfigMissing},
		{"negative rate limit", func(c *ExporterConfig) { c.Server.RateLimit = -1 }, domain.ErrConfigInvalid},
		{"unknown log level", func(c *ExporterConfig) { c.Log.Level = "loud" }, domain.ErrConfigInvalid},
		{"unknown log format", func(c *ExporterConfig) { c.Log.Format = "xml" }, domain.ErrConfigInvalid},
		{"sample ratio above one", func(c *ExporterConfig) { c.Tracing.SampleRatio = 1.5 }, domain.ErrConfigInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := Verify(cfg)
			if err == nil {
				t.Fatal("Verify() should fail")
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Verify() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestVerify_Nil(t *testing.T) {
	if err := Verify(nil); !errors.Is(err, domain.ErrConfigMissing) {
		t.Errorf("Verify(nil) error = %v", err)
	}
}

func TestVerify_AnyPort(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Bind = ":0"
	if err := Verify(cfg); err != nil {
		t.Errorf("Verify() error = %v", err)
	}
}

func TestSanitize(t *testing.T) {
	cfg := validConfig()
	original := cfg.Elk.Authorization

	sanitized := Sanitize(cfg)

	if cfg.Elk.Authorization != original {
		t.Error("original config should not be modified")
	}
	if sanitized.Elk.Authorization == original {
		t.Error("sanitized config should mask the authorization")
	}
	if !strings.HasPrefix(sanitized.Elk.Authorization, "Basic ") {
		t.Errorf("scheme should be kept, got %q", sanitized.Elk.Authorization)
	}
	if len(sanitized.Elk.Authorization) != len(original) {
		t.Errorf("masked length = %d, want %d", len(sanitized.Elk.Authorization), len(original))
	}
}

func TestSanitize_TracingHeaders(t *testing.T) {
	cfg := validConfig()
	cfg.Tracing.Headers = map[string]string{
		"authorization": "Bearer abcdefgh",
		"api-key":       "k1",
	}

	sanitized := Sanitize(cfg)

	if cfg.Tracing.Headers["api-key"] != "k1" {
		t.Error("original headers should not be modified")
	}
	if got := sanitized.Tracing.Headers["authorization"]; got != "Bearer ab****gh" {
		t.Errorf("authorization header = %q, want %q", got, "Bearer ab****gh")
	}
	if got := sanitized.Tracing.Headers["api-key"]; got != "****" {
		t.Errorf("api-key header = %q, want %q", got, "****")
	}
}

func TestSanitize_EmptyAuthorization(t *testing.T) {
	cfg := validConfig()
	cfg.Elk.Authorization = ""

	if got := Sanitize(cfg).Elk.Authorization; got != "" {
		t.Errorf("empty authorization should stay empty, got %q", got)
	}
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "****"},
		{"abc", "****"},
		{"abcd", "****"},
		{"abcdef", "ab**ef"},
		{"dXNlcjpwYXNz", "dX********Nz"},
	}
	for _, tt := range tests {
		if got := maskSecret(tt.in); got != tt.want {
			t.Errorf("maskSecret(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if got := maskCredential("tokenonly123"); got != "to********23" {
		t.Errorf("maskCredential without scheme = %q", got)
	}
}

func TestToTasks(t *testing.T) {
	cfg := validConfig()
	cfg.Tasks = append(cfg.Tasks, TaskSection{MetricName: "plain_total", Period: 1, MustNot: []map[string]any{}})

	tasks := ToTasks(cfg.Tasks)
	if len(tasks) != 2 {
		t.Fatalf("len = %d, want 2", len(tasks))
	}

	got := tasks[0]
	if got.MetricName != "http_ok_total" || got.Period != 5 || got.Environment != "prod" || got.Description != "ok responses" {
		t.Errorf("unexpected task: %+v", got)
	}
	if len(got.Filter) != 1 || len(got.MustNot) != 1 {
		t.Errorf("clauses not carried over: %+v", got)
	}
	if tasks[1].MustNot != nil {
		t.Error("empty must_not should be absent")
	}
}

func TestToTasks_PeriodOutOfRange(t *testing.T) {
	for _, period := range []int64{-1, 0, 1 << 32} {
		tasks := ToTasks([]TaskSection{{MetricName: "a_total", Period: period}})
		if tasks[0].Period != 0 {
			t.Errorf("period %d converted to %d, want 0", period, tasks[0].Period)
		}
		if err := tasks[0].Validate(); !errors.Is(err, domain.ErrInvalidPeriod) {
			t.Errorf("period %d: Validate() error = %v", period, err)
		}
	}
}

func TestToComponentConfigs(t *testing.T) {
	cfg := validConfig()
	cfg.Elk.MaxRequestsPerSecond = 2
	cfg.Log.Format = "json"
	cfg.Tracing.Endpoint = "otel:4317"
	cfg.Tracing.Headers = map[string]string{"api-key": "secret"}

	ec, err := ToElasticConfig(cfg)
	if err != nil {
		t.Fatalf("ToElasticConfig() error = %v", err)
	}
	if ec.URL != cfg.Elk.URL || ec.Authorization != cfg.Elk.Authorization || ec.RequestsPerSecond != 2 {
		t.Errorf("ToElasticConfig() = %+v", ec)
	}
	if ec.TLS != nil {
		t.Error("TLS should be unset without ca_file")
	}

	cfg.Elk.CAFile = "/nonexistent/ca.pem"
	if _, err := ToElasticConfig(cfg); err == nil {
		t.Error("expected error for missing ca_file")
	}

	lc := ToLoggerConfig(cfg)
	if lc.Level != "info" || lc.Format != "json" {
		t.Errorf("ToLoggerConfig() = %+v", lc)
	}

	tc := ToTracerConfig(cfg, "etp-exporter", "1.0.0")
	if tc.Endpoint != "otel:4317" || tc.ServiceName != "etp-exporter" || tc.ServiceVersion != "1.0.0" {
		t.Errorf("ToTracerConfig() = %+v", tc)
	}
	if tc.Headers["api-key"] != "secret" {
		t.Errorf("ToTracerConfig() headers = %v", tc.Headers)
	}
}
