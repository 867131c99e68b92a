package config

import (
	"fmt"
	"math"

	"github.com/yndnr/etp-go/internal/backend/elastic"
	"github.com/yndnr/etp-go/internal/core/domain"
	"github.com/yndnr/etp-go/internal/infra/buildinfo"
	"github.com/yndnr/etp-go/internal/infra/tlsroots"
	"github.com/yndnr/etp-go/internal/telemetry/logger"
	"github.com/yndnr/etp-go/internal/telemetry/tracer"
)

// ToTasks converts the configured tasks to domain tasks, in order. A period
// outside the uint32 range becomes 0, which task validation rejects.
func ToTasks(sections []TaskSection) []domain.Task {
	tasks := make([]domain.Task, 0, len(sections))
	for _, s := range sections {
		var period uint32
		if s.Period > 0 && s.Period <= math.MaxUint32 {
			period = uint32(s.Period)
		}
		t := domain.Task{
			MetricName:  s.MetricName,
			Period:      period,
			Description: s.Description,
			Environment: s.Environment,
			Filter:      s.Filter,
		}
		if len(s.MustNot) > 0 {
			t.MustNot = s.MustNot
		}
		tasks = append(tasks, t)
	}
	return tasks
}

// ToElasticConfig converts the elk section to a backend client config. It
// reads elk.ca_file when set.
func ToElasticConfig(cfg *ExporterConfig) (elastic.Config, error) {
	tlsConfig, err := tlsroots.ClientConfig(cfg.Elk.CAFile, cfg.Elk.InsecureSkipVerify)
	if err != nil {
		return elastic.Config{}, fmt.Errorf("elk.ca_file: %w", err)
	}
	return elastic.Config{
		URL:               cfg.Elk.URL,
		Authorization:     cfg.Elk.Authorization,
		Timeout:           cfg.Elk.Timeout,
		RequestsPerSecond: cfg.Elk.MaxRequestsPerSecond,
		UserAgent:         buildinfo.UserAgent(),
		TLS:               tlsConfig,
	}, nil
}

// ToLoggerConfig converts the log section to a logger config.
func ToLoggerConfig(cfg *ExporterConfig) logger.Config {
	lc := logger.DefaultConfig()
	if cfg.Log.Level != "" {
		lc.Level = cfg.Log.Level
	}
	if cfg.Log.Format != "" {
		lc.Format = cfg.Log.Format
	}
	return lc
}

// ToTracerConfig converts the tracing section to a tracer config.
func ToTracerConfig(cfg *ExporterConfig, serviceName, serviceVersion string) tracer.Config {
	return tracer.Config{
		Endpoint:       cfg.Tracing.Endpoint,
		Insecure:       cfg.Tracing.Insecure,
		SampleRatio:    cfg.Tracing.SampleRatio,
		Headers:        cfg.Tracing.Headers,
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
	}
}
