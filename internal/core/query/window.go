package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Now is the backend's relative-time anchor.
const Now = "now"

// Window is a range clause over a timestamp field.
//
// GTE and LTE hold backend date-math expressions such as "now-5m" and "now".
type Window struct {
	Field string
	GTE   string
	LTE   string
}

// RelativeWindow returns the trailing window of period minutes ending at now.
func RelativeWindow(field string, period uint32) Window {
	return Window{
		Field: field,
		GTE:   Now + "-" + strconv.FormatUint(uint64(period), 10) + "m",
		LTE:   Now,
	}
}

// Clause returns the backend range clause for the window.
func (w Window) Clause() map[string]any {
	return map[string]any{
		"range": map[string]any{
			w.Field: map[string]any{
				"gte": w.GTE,
				"lte": w.LTE,
			},
		},
	}
}

// Width returns LTE minus GTE.
func (w Window) Width() (time.Duration, error) {
	lower, err := offset(w.GTE)
	if err != nil {
		return 0, fmt.Errorf("gte: %w", err)
	}
	upper, err := offset(w.LTE)
	if err != nil {
		return 0, fmt.Errorf("lte: %w", err)
	}
	return upper - lower, nil
}

// offset parses "now" or "now-<N><unit>" into a signed offset from now.
// Supported units: s, m, h, d.
func offset(expr string) (time.Duration, error) {
	if expr == Now {
		return 0, nil
	}
	rest, ok := strings.CutPrefix(expr, Now+"-")
	if !ok || len(rest) < 2 {
		return 0, fmt.Errorf("unsupported time expression %q", expr)
	}

	var unit time.Duration
	switch rest[len(rest)-1] {
	case 's':
		unit = time.Second
	case 'm':
		unit = time.Minute
	case 'h':
		unit = time.Hour
	case 'd':
		unit = 24 * time.Hour
	default:
		return 0, fmt.Errorf("unsupported time unit in %q", expr)
	}

	n, err := strconv.ParseUint(rest[:len(rest)-1], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid amount in %q: %w", expr, err)
	}
	return -time.Duration(n) * unit, nil
}
