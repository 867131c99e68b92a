// Package logger provides structured logging for etp.
//
//   - logger.go: slog setup (json/text), shared dynamic level
//   - context.go: context-carried logger and poll ids
//   - redact.go: credential masking applied to every attribute
//
// The backend credential travels through configuration and must never be
// written verbatim; the handler's ReplaceAttr masks Authorization-style
// values and any attribute whose key looks sensitive.
package logger
