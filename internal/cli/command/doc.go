// Package command provides the etp-exporter command line.
//
// Commands are defined with urfave/cli/v2:
//
//   - root.go: application, global flags, config path resolution
//   - run.go: the exporter process (default action)
//   - check.go: configuration check and backend probe
//   - config.go: loading and showing the configuration
//   - version.go: build information
package command
