// Package logger provides structured logging for etp.
package logger

import "context"

type contextKey string

const (
	loggerKey contextKey = "etp.logger"
	pollIDKey contextKey = "etp.poll_id"
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts the logger from context.
// Returns the default logger if none is set.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// WithPollID tags the context with the id of one poll.
func WithPollID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, pollIDKey, id)
}

// PollIDFromContext extracts the poll id from context.
func PollIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(pollIDKey).(string); ok {
		return id
	}
	return ""
}

// L returns the context logger enriched with the poll id, if any.
func L(ctx context.Context) Logger {
	l := FromContext(ctx)
	if id := PollIDFromContext(ctx); id != "" {
		l = l.With("poll_id", id)
	}
	return l
}
