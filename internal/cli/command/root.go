package command

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/etp-go/internal/cli/output"
	"github.com/yndnr/etp-go/internal/core/domain"
	"github.com/yndnr/etp-go/internal/infra/buildinfo"
	"github.com/yndnr/etp-go/internal/infra/confloader"
)

// DefaultConfigFile is read when no path is given.
const DefaultConfigFile = "config.yml"

// App creates the CLI application. Without a command it runs the exporter.
func App() *cli.App {
	return &cli.App{
		Name:      buildinfo.Program,
		Usage:     "Export periodic Elasticsearch count queries as Prometheus counters",
		Version:   buildinfo.String(),
		ArgsUsage: "[CONFIG]",
		Flags:     globalFlags(),
		Action:    runAction,

		// --set values may contain commas.
		DisableSliceFlagSeparator: true,
		Commands: []*cli.Command{
			RunCommand(),
			CheckCommand(),
			ConfigCommand(),
			VersionCommand(),
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the configuration file",
			EnvVars: []string{"ETP_CONFIG"},
			Value:   DefaultConfigFile,
		},
		&cli.StringSliceFlag{
			Name:  "set",
			Usage: "Override a configuration key, e.g. --set server.bind=:9100 (repeatable)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   string(output.FormatTable),
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Config string
	Set    []string
	Output string
	Wide   bool
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		Config: configPath(c),
		Set:    c.StringSlice("set"),
		Output: c.String("output"),
		Wide:   c.Bool("wide"),
	}
}

// configPath resolves the configuration file. An explicit --config or
// ETP_CONFIG wins, then the first positional argument, then the default.
func configPath(c *cli.Context) string {
	if c.IsSet("config") {
		return c.String("config")
	}
	if arg := c.Args().First(); arg != "" {
		return arg
	}
	return c.String("config")
}

// configOverrides returns the --set values as a loader override map.
func configOverrides(c *cli.Context) (map[string]any, error) {
	return confloader.ParseOverrides(c.StringSlice("set"))
}

// newFormatter returns the formatter selected by the global flags.
func newFormatter(c *cli.Context) (output.Formatter, error) {
	flags := ParseGlobalFlags(c)
	return newFormatterFor(flags.Output, flags.Wide)
}

func newFormatterFor(name string, wide bool) (output.Formatter, error) {
	format, err := output.ParseFormat(name)
	if err != nil {
		return nil, err
	}
	return output.NewFormatter(format, wide), nil
}

func stdout(c *cli.Context) io.Writer {
	if c.App.Writer != nil {
		return c.App.Writer
	}
	return os.Stdout
}

func stderr(c *cli.Context) io.Writer {
	if c.App.ErrWriter != nil {
		return c.App.ErrWriter
	}
	return os.Stderr
}

// PrintError writes err to w, tagged with its error code when it has one.
func PrintError(w io.Writer, err error) {
	if code := domain.GetErrorCode(err); code != "" {
		fmt.Fprintf(w, "error [%s]: %v\n", code, err)
		return
	}
	fmt.Fprintf(w, "error: %v\n", err)
}
