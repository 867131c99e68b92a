package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/yndnr/etp-go/internal/core/domain"
)

// Verify validates the configuration. Every error it returns is fatal.
func Verify(cfg *ExporterConfig) error {
	if cfg == nil {
		return domain.ErrConfigMissing
	}
	if err := verifyTasks(cfg.Tasks); err != nil {
		return err
	}
	if err := verifyElk(&cfg.Elk); err != nil {
		return err
	}
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyLog(&cfg.Log); err != nil {
		return err
	}
	return verifyTracing(&cfg.Tracing)
}

func verifyTasks(tasks []TaskSection) error {
	if len(tasks) == 0 {
		return domain.ErrConfigMissing.WithDetails("tasks: at least one task is required")
	}
	for i, t := range tasks {
		if t.Period < 1 || t.Period > domain.MaxPeriod {
			return fmt.Errorf("tasks[%d]: %w", i, domain.ErrInvalidPeriod.WithDetails(
				fmt.Sprintf("task %s: period %d is outside 1..%d minutes", t.MetricName, t.Period, domain.MaxPeriod)))
		}
	}
	return domain.ValidateTasks(ToTasks(tasks))
}

func verifyElk(cfg *ElkSection) error {
	if cfg.URL == "" {
		return domain.ErrConfigMissing.WithDetails("elk.url is required")
	}
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return domain.ErrConfigInvalid.WithDetails("elk.url").WithCause(err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return domain.ErrConfigInvalid.WithDetails(fmt.Sprintf("elk.url: unsupported scheme %q", u.Scheme))
	}
	if u.Host == "" {
		return domain.ErrConfigInvalid.WithDetails("elk.url: missing host")
	}
	if cfg.Timeout < 0 {
		return domain.ErrConfigInvalid.WithDetails("elk.timeout must not be negative")
	}
	if cfg.MaxRequestsPerSecond < 0 {
		return domain.ErrConfigInvalid.WithDetails("elk.max_requests_per_second must not be negative")
	}
	if (cfg.CAFile != "" || cfg.InsecureSkipVerify) && u.Scheme != "https" {
		return domain.ErrConfigInvalid.WithDetails("elk.ca_file and elk.insecure_skip_verify need an https url")
	}
	return nil
}

func verifyServer(cfg *ServerSection) error {
	if err := verifyBind(cfg.Bind); err != nil {
		return err
	}
	if strings.Trim(cfg.MetricPath, "/") == "" {
		return domain.ErrConfigMissing.WithDetails("server.metric_path is required")
	}
	if cfg.RateLimit < 0 {
		return domain.ErrConfigInvalid.WithDetails("server.rate_limit must not be negative")
	}
	if cfg.ShutdownTimeout < 0 {
		return domain.ErrConfigInvalid.WithDetails("server.shutdown_timeout must not be negative")
	}
	return nil
}

func verifyBind(bind string) error {
	if bind == "" {
		return domain.ErrConfigMissing.WithDetails("server.bind is required")
	}
	_, port, err := net.SplitHostPort(bind)
	if err != nil {
		return domain.ErrConfigInvalid.WithDetails("server.bind").WithCause(err)
	}
	if _, err := strconv.ParseUint(port, 10, 16); err != nil {
		return domain.ErrConfigInvalid.WithDetails(fmt.Sprintf("server.bind: invalid port %q", port))
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	switch strings.ToLower(cfg.Level) {
	case "", "trace", "debug", "info", "warn", "warning", "error":
	default:
		return domain.ErrConfigInvalid.WithDetails(fmt.Sprintf("log.level: unknown level %q", cfg.Level))
	}
	switch strings.ToLower(cfg.Format) {
	case "", "text", "json":
	default:
		return domain.ErrConfigInvalid.WithDetails(fmt.Sprintf("log.format: unknown format %q", cfg.Format))
	}
	return nil
}

func verifyTracing(cfg *TracingSection) error {
	if cfg.SampleRatio < 0 || cfg.SampleRatio > 1 {
		return domain.ErrConfigInvalid.WithDetails("tracing.sample_ratio must be within [0, 1]")
	}
	return nil
}
