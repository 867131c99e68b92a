// Package config provides the exporter configuration.
//
// This package defines the configuration structure and its validation:
//
//   - spec.go: ExporterConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Validation of tasks, backend URL and bind address
//   - sanitize.go: Log sanitization (hide the backend credential)
//   - convert.go: Mapping to domain tasks and component configs
//
// Configuration is loaded via internal/infra/confloader from a YAML file
// with ETP_ environment overrides.
package config
