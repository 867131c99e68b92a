package config

import "strings"

// Sanitize returns a copy of the config with sensitive fields masked.
//
// This is used for logging configuration without exposing secrets.
func Sanitize(cfg *ExporterConfig) *ExporterConfig {
	sanitized := *cfg

	if sanitized.Elk.Authorization != "" {
		sanitized.Elk.Authorization = maskCredential(sanitized.Elk.Authorization)
	}

	if len(cfg.Tracing.Headers) > 0 {
		headers := make(map[string]string, len(cfg.Tracing.Headers))
		for k, v := range cfg.Tracing.Headers {
			headers[k] = maskCredential(v)
		}
		sanitized.Tracing.Headers = headers
	}

	return &sanitized
}

// maskCredential masks an Authorization value, keeping its scheme.
func maskCredential(s string) string {
	if scheme, secret, ok := strings.Cut(s, " "); ok {
		return scheme + " " + maskSecret(secret)
	}
	return maskSecret(s)
}

// maskSecret masks a secret value for safe logging.
func maskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
