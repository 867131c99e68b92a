// Package logger provides structured logging for etp.
package logger

import (
	"log/slog"
	"strings"
)

// Authorization schemes whose credentials are partially masked.
var credentialSchemes = []string{
	"Basic ",
	"Bearer ",
	"ApiKey ",
}

// Key fragments that mark an attribute as sensitive.
var sensitiveKeyPatterns = []string{
	"authorization",
	"password",
	"secret",
	"token",
	"credential",
	"apikey",
	"api_key",
}

const redactedValue = "***REDACTED***"

// redactSensitive masks credentials in a log attribute.
func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		strVal := a.Value.String()
		for _, scheme := range credentialSchemes {
			if strings.HasPrefix(strVal, scheme) {
				return slog.String(a.Key, scheme+"***")
			}
		}
		if strVal != "" && IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
	}

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	return a
}

// RedactString masks a credential, keeping only its scheme.
func RedactString(value string) string {
	for _, scheme := range credentialSchemes {
		if strings.HasPrefix(value, scheme) {
			return scheme + "***"
		}
	}
	if value == "" {
		return value
	}
	return redactedValue
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}
