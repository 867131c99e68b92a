// Package output renders command results.
//
// Formatters write the same data as an aligned table, JSON or YAML. The
// check command uses them for the task list and the built queries, and a
// ProgressBar while probing the backend.
package output
