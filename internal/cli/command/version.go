package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/etp-go/internal/infra/buildinfo"
)

// VersionCommand returns the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:   "version",
		Usage:  "Show build information",
		Action: versionAction,
	}
}

func versionAction(c *cli.Context) error {
	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	return formatter.Format(stdout(c), buildinfo.Get())
}
