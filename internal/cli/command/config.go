package command

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/etp-go/internal/infra/confloader"
	"github.com/yndnr/etp-go/internal/server/config"
)

// LogLevelEnv overrides log.level when set.
const LogLevelEnv = "LOGLEVEL"

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration management",
		Subcommands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "Show the merged configuration with secrets masked",
				ArgsUsage: "[CONFIG]",
				Action:    configShow,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	overrides, err := configOverrides(c)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(configPath(c), overrides)
	if err != nil {
		return err
	}

	flags := ParseGlobalFlags(c)
	format := flags.Output
	if format == "" || format == "table" {
		format = "yaml"
	}
	formatter, err := newFormatterFor(format, flags.Wide)
	if err != nil {
		return err
	}
	return formatter.Format(stdout(c), configView(config.Sanitize(cfg)))
}

// loadConfig loads configuration from the file, the environment and the
// --set overrides, applies the LOGLEVEL override and verifies the result.
func loadConfig(configFile string, overrides map[string]any) (*config.ExporterConfig, error) {
	// Start with defaults
	cfg := config.Default()

	loader := confloader.NewLoader(
		confloader.WithConfigFile(configFile),
		confloader.WithOverrides(overrides),
	)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if lvl := os.Getenv(LogLevelEnv); lvl != "" {
		cfg.Log.Level = strings.ToLower(lvl)
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// configView mirrors the configuration file layout for display.
func configView(cfg *config.ExporterConfig) map[string]any {
	tasks := make([]map[string]any, 0, len(cfg.Tasks))
	for _, t := range cfg.Tasks {
		task := map[string]any{
			"metric_name": t.MetricName,
			"period":      t.Period,
			"description": t.Description,
			"environment": t.Environment,
			"filter":      t.Filter,
		}
		if len(t.MustNot) > 0 {
			task["must_not"] = t.MustNot
		}
		tasks = append(tasks, task)
	}

	return map[string]any{
		"tasks": tasks,
		"elk": map[string]any{
			"url":                     cfg.Elk.URL,
			"authorization":           cfg.Elk.Authorization,
			"timeout":                 cfg.Elk.Timeout.String(),
			"timestamp_field":         cfg.Elk.TimestampField,
			"max_requests_per_second": cfg.Elk.MaxRequestsPerSecond,
			"ca_file":                 cfg.Elk.CAFile,
			"insecure_skip_verify":    cfg.Elk.InsecureSkipVerify,
		},
		"server": map[string]any{
			"bind":                cfg.Server.Bind,
			"metric_path":         cfg.Server.MetricPath,
			"rate_limit":          cfg.Server.RateLimit,
			"shutdown_timeout":    cfg.Server.ShutdownTimeout.String(),
			"trust_proxy_headers": cfg.Server.TrustProxyHeaders,
		},
		"log": map[string]any{
			"level":  cfg.Log.Level,
			"format": cfg.Log.Format,
		},
		"tracing": map[string]any{
			"endpoint":     cfg.Tracing.Endpoint,
			"insecure":     cfg.Tracing.Insecure,
			"sample_ratio": cfg.Tracing.SampleRatio,
			"headers":      cfg.Tracing.Headers,
		},
	}
}
