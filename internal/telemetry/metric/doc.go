// Package metric provides the Prometheus counters exported by etp.
//
// A Registry is created once at startup and passed explicitly to every
// component that needs it: the poll scheduler increments counters, the
// exposition endpoint renders them. It wraps a private
// prometheus.Registry, so no global default registry is involved.
//
// Counters:
//
//   - one counter per task, named after the task's metric_name, with the
//     const labels period and environment, help text from description
//   - etp_bad_request, incremented once per failed poll of any task
//
// Lifecycle: Register (startup only) -> Seal -> concurrent Add/Inc and
// Snapshot/Handler for the rest of the process. Counters are never removed
// and reset only when the process restarts.
package metric
