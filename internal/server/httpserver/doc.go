// Package httpserver serves the metrics endpoint.
//
// The router has a single route, GET on the configured metric path, which
// renders the current counters in the Prometheus text format. It answers
// 200 even before the first poll has completed.
//
// Middleware chain: Recover, RequestID, optional per-client RateLimit,
// AccessLog.
//
// Server binds its address in Listen, before serving, so a bad or busy
// address fails startup instead of being replaced by a default.
package httpserver
