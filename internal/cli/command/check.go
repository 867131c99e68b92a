package command

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/etp-go/internal/backend/elastic"
	"github.com/yndnr/etp-go/internal/cli/output"
	"github.com/yndnr/etp-go/internal/core/query"
	"github.com/yndnr/etp-go/internal/server/config"
)

// CheckCommand returns the check command.
func CheckCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Verify the configuration and print each task's query",
		ArgsUsage: "[CONFIG]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "probe",
				Usage: "Send each query to the backend once and report the count",
			},
		},
		Action: checkAction,
	}
}

// taskReport is one row of check output.
type taskReport struct {
	MetricName  string         `json:"metric_name" yaml:"metric_name"`
	Period      uint32         `json:"period" yaml:"period"`
	Environment string         `json:"environment" yaml:"environment"`
	Description string         `json:"description" yaml:"description" table:"wide"`
	Window      string         `json:"window" yaml:"window" table:"wide"`
	Count       *uint64        `json:"count,omitempty" yaml:"count,omitempty"`
	Error       string         `json:"error,omitempty" yaml:"error,omitempty"`
	Body        map[string]any `json:"body" yaml:"body" table:"-"`

	doc *query.Document
}

func checkAction(c *cli.Context) error {
	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}

	overrides, err := configOverrides(c)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(configPath(c), overrides)
	if err != nil {
		return err
	}

	reports, err := buildReports(cfg)
	if err != nil {
		return err
	}

	var failed int
	if c.Bool("probe") {
		failed, err = probe(c.Context, cfg, reports, output.NewProgressBar(stderr(c), "probing", len(reports)))
		if err != nil {
			return err
		}
	}

	w := stdout(c)
	if err := formatter.Format(w, reports); err != nil {
		return err
	}
	if _, ok := formatter.(*output.TableFormatter); ok {
		queries := &output.JSONFormatter{}
		for _, r := range reports {
			fmt.Fprintf(w, "\n# %s\n", r.MetricName)
			if err := queries.Format(w, r.Body); err != nil {
				return err
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("probe: %d of %d tasks failed", failed, len(reports))
	}
	return nil
}

func buildReports(cfg *config.ExporterConfig) ([]*taskReport, error) {
	tasks := config.ToTasks(cfg.Tasks)
	reports := make([]*taskReport, 0, len(tasks))
	for _, t := range tasks {
		doc, err := query.ForTask(t, query.WithTimestampField(cfg.Elk.TimestampField))
		if err != nil {
			return nil, err
		}
		w := doc.Window()
		reports = append(reports, &taskReport{
			MetricName:  t.MetricName,
			Period:      t.Period,
			Environment: t.Environment,
			Description: t.Description,
			Window:      w.GTE + ".." + w.LTE,
			Body:        doc.Body(),
			doc:         doc,
		})
	}
	return reports, nil
}

// probe runs every query once. It returns the number of failed tasks.
func probe(ctx context.Context, cfg *config.ExporterConfig, reports []*taskReport, bar *output.ProgressBar) (int, error) {
	ec, err := config.ToElasticConfig(cfg)
	if err != nil {
		return 0, err
	}
	client, err := elastic.New(ec)
	if err != nil {
		return 0, err
	}

	timeout := cfg.Elk.Timeout
	if timeout <= 0 {
		timeout = elastic.DefaultTimeout
	}

	var failed int
	for _, r := range reports {
		reqCtx, cancel := context.WithTimeout(ctx, timeout+time.Second)
		n, err := client.Count(reqCtx, r.doc)
		cancel()
		if err != nil {
			r.Error = err.Error()
			failed++
		} else {
			r.Count = &n
		}
		bar.Increment(1)
	}
	bar.Finish()
	return failed, nil
}
