// Package domain defines the core domain models for the exporter.
//
// Domain models are pure values without any IO dependencies or
// framework coupling. This package contains:
//
//   - Task: one monitored metric (name, period, labels, filter clauses)
//   - Errors: coded domain errors for configuration, tasks and system faults
//
// Tasks are built once from configuration and treated as immutable for
// the lifetime of the process.
package domain
