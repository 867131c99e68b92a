// Package domain defines the core domain models for the exporter.
package domain

import (
	"fmt"
	"regexp"
	"time"
)

// Clause is a single backend-specific match clause, kept opaque.
//
// Example: {"term": {"status": "ok"}}
type Clause = map[string]any

// MaxPeriod is the longest accepted period in minutes (365 days).
const MaxPeriod = 365 * 24 * 60

// metricNamePattern is the Prometheus metric name grammar.
var metricNamePattern = regexp.MustCompile(`^[a-zA-Z_:][a-zA-Z0-9_:]*$`)

// Task describes one monitored metric.
//
// A Task is created once at startup and never mutated afterwards. Period is
// both the polling interval and the width of the queried time window.
type Task struct {
	// MetricName is the exported counter name.
	MetricName string

	// Period is the poll interval and window width in minutes.
	Period uint32

	// Description becomes the counter help text.
	Description string

	// Environment is attached to the counter as a const label.
	Environment string

	// Filter holds the match clauses, combined with AND.
	Filter []Clause

	// MustNot holds the optional negative-match clauses. Nil means absent.
	MustNot []Clause
}

// Interval returns the poll interval as a duration.
func (t Task) Interval() time.Duration {
	return time.Duration(t.Period) * time.Minute
}

// Validate checks the task definition. The metric name is checked as given,
// surrounding whitespace included.
func (t Task) Validate() error {
	if t.MetricName == "" {
		return ErrInvalidTask.WithDetails("metric_name is required")
	}
	if !metricNamePattern.MatchString(t.MetricName) {
		return ErrInvalidTask.WithDetails(fmt.Sprintf("metric_name %q is not a valid metric name", t.MetricName))
	}
	if t.Period == 0 {
		return ErrInvalidPeriod.WithDetails(fmt.Sprintf("task %s: period must be positive", t.MetricName))
	}
	if t.Period > MaxPeriod {
		return ErrInvalidPeriod.WithDetails(
			fmt.Sprintf("task %s: period %d exceeds %d minutes", t.MetricName, t.Period, MaxPeriod))
	}
	return nil
}

// ValidateTasks validates every task and rejects duplicate metric names.
func ValidateTasks(tasks []Task) error {
	seen := make(map[string]int, len(tasks))
	for i, t := range tasks {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("tasks[%d]: %w", i, err)
		}
		if j, ok := seen[t.MetricName]; ok {
			return ErrDuplicateMetric.WithDetails(
				fmt.Sprintf("%s (tasks[%d] and tasks[%d])", t.MetricName, j, i))
		}
		seen[t.MetricName] = i
	}
	return nil
}
