// Package confloader loads the exporter configuration.
//
// A Loader reads a YAML file and then environment variables through koanf.
// Environment variables override the file; their names take the ETP_ prefix
// and "__" between nesting levels:
//
//	ETP_ELK__URL=https://es:9200/logs-*/_count   -> elk.url
//	ETP_SERVER__METRIC_PATH=metrics              -> server.metric_path
//
// Overrides, typically from --set flags, are applied last:
//
//	--set server.bind=0.0.0.0:9100               -> server.bind
//
// A Watcher reports writes to the configuration file so the exporter can
// apply the settings that may change while it runs.
package confloader
