// Package main provides the entry point for etp-exporter.
package main

import (
	"os"

	"github.com/yndnr/etp-go/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		command.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
