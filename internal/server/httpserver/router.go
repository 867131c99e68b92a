package httpserver

import (
	"log/slog"
	"net/http"
	"strings"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Metrics renders the counters.
	Metrics http.Handler

	// MetricPath is the path the counters are served on. A leading slash is
	// optional.
	MetricPath string

	// RateLimit is the per-client limit in requests/second. 0 disables it.
	RateLimit float64

	// TrustProxyHeaders identifies clients by X-Forwarded-For/X-Real-IP.
	// Set it only behind a reverse proxy that overwrites those headers.
	TrustProxyHeaders bool

	// Logger for request logging.
	Logger *slog.Logger
}

// NewRouter creates the handler serving the metrics path. Every other path
// answers 404, every other method 405.
func NewRouter(cfg *RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Order: Recover -> RequestID -> RateLimit -> AccessLog -> Handler
	middlewares := []Middleware{Recover(logger), RequestID()}
	if cfg.RateLimit > 0 {
		middlewares = append(middlewares, RateLimit(cfg.RateLimit, 0, cfg.TrustProxyHeaders))
	}
	middlewares = append(middlewares, AccessLog(logger, cfg.TrustProxyHeaders))

	mux := http.NewServeMux()
	mux.Handle("GET "+NormalizePath(cfg.MetricPath), cfg.Metrics)

	return Chain(mux, middlewares...)
}

// NormalizePath returns p with exactly one leading slash and no trailing
// slash.
func NormalizePath(p string) string {
	return "/" + strings.Trim(p, "/")
}
