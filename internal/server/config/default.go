package config

import "time"

// Default configuration values.
const (
	DefaultBind            = "127.0.0.1:8080"
	DefaultMetricPath      = "metrics"
	DefaultShutdownTimeout = 15 * time.Second

	DefaultElkTimeout     = 30 * time.Second
	DefaultTimestampField = "@timestamp"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"

	DefaultSampleRatio = 1.0
)

// Default returns the default exporter configuration. It has no tasks and
// no backend URL; both must come from the configuration file.
func Default() *ExporterConfig {
	return &ExporterConfig{
		Elk: ElkSection{
			Timeout:        DefaultElkTimeout,
			TimestampField: DefaultTimestampField,
		},
		Server: ServerSection{
			Bind:            DefaultBind,
			MetricPath:      DefaultMetricPath,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Tracing: TracingSection{
			Insecure:    true,
			SampleRatio: DefaultSampleRatio,
		},
	}
}
