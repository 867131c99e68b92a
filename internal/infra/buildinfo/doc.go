// Package buildinfo exposes the version the exporter was built as.
//
// Version, Commit and BuildTime are injected via ldflags; the Go version
// and platform come from the runtime.
package buildinfo
