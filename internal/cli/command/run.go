package command

import (
	"context"
	"fmt"
	"os"
	"reflect"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/yndnr/etp-go/internal/backend/elastic"
	"github.com/yndnr/etp-go/internal/core/poller"
	"github.com/yndnr/etp-go/internal/infra/buildinfo"
	"github.com/yndnr/etp-go/internal/infra/confloader"
	"github.com/yndnr/etp-go/internal/infra/shutdown"
	"github.com/yndnr/etp-go/internal/server/config"
	"github.com/yndnr/etp-go/internal/server/httpserver"
	"github.com/yndnr/etp-go/internal/telemetry/logger"
	"github.com/yndnr/etp-go/internal/telemetry/metric"
	"github.com/yndnr/etp-go/internal/telemetry/tracer"
)

// RunCommand returns the run command. It is also the default action.
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Poll the configured tasks and serve the metrics endpoint",
		ArgsUsage: "[CONFIG]",
		Action:    runAction,
	}
}

func runAction(c *cli.Context) error {
	configFile := configPath(c)
	overrides, err := configOverrides(c)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(configFile, overrides)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	e, err := newExporter(c.Context, cfg, configFile)
	if err != nil {
		return err
	}
	e.overrides = overrides
	return e.run(c.Context)
}

// exporter holds the running components.
type exporter struct {
	cfg        *config.ExporterConfig
	configFile string
	overrides  map[string]any

	log       logger.Logger
	tp        *tracer.Provider
	registry  *metric.Registry
	scheduler *poller.Scheduler
	server    *httpserver.Server
	watcher   *confloader.Watcher
}

// newExporter builds every component and binds the listen address. A bind
// failure is returned before any task polls.
func newExporter(ctx context.Context, cfg *config.ExporterConfig, configFile string) (*exporter, error) {
	log, err := initLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("starting "+buildinfo.Program,
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"config", configFile,
		"tasks", len(cfg.Tasks))
	log.Debug("configuration loaded",
		"elk_url", cfg.Elk.URL,
		"timestamp_field", cfg.Elk.TimestampField)

	tp, err := tracer.New(ctx, config.ToTracerConfig(cfg, buildinfo.Program, buildinfo.Version))
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	if tp.Enabled() {
		log.Info("tracing enabled",
			"endpoint", cfg.Tracing.Endpoint,
			"sample_ratio", cfg.Tracing.SampleRatio)
	}

	e := &exporter{
		cfg:        cfg,
		configFile: configFile,
		log:        log,
		tp:         tp,
		registry:   metric.NewRegistry(),
	}

	if err := e.init(); err != nil {
		_ = tp.Shutdown(context.Background())
		return nil, err
	}
	return e, nil
}

func (e *exporter) init() error {
	ec, err := config.ToElasticConfig(e.cfg)
	if err != nil {
		return err
	}
	client, err := elastic.New(ec)
	if err != nil {
		return fmt.Errorf("init backend: %w", err)
	}

	e.scheduler, err = poller.New(config.ToTasks(e.cfg.Tasks), client, e.registry,
		poller.WithLogger(e.log),
		poller.WithTracer(e.tp.Tracer()),
		poller.WithTimestampField(e.cfg.Elk.TimestampField),
	)
	if err != nil {
		return fmt.Errorf("init tasks: %w", err)
	}

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Metrics:    e.registry.Handler(),
		MetricPath: e.cfg.Server.MetricPath,
		RateLimit:  e.cfg.Server.RateLimit,
		Logger:     e.log.Slog(),

		TrustProxyHeaders: e.cfg.Server.TrustProxyHeaders,
	})
	e.server = httpserver.New(e.cfg.Server.Bind, router, e.log.Slog())
	if err := e.server.Listen(); err != nil {
		return err
	}

	e.watcher = e.watchConfig()
	return nil
}

// run polls and serves until a shutdown signal arrives or ctx is done.
func (e *exporter) run(ctx context.Context) error {
	sh := shutdown.NewHandler(e.cfg.Server.ShutdownTimeout, shutdown.WithLogger(e.log.Slog()))

	// Register shutdown hooks (reverse order of startup)
	sh.OnShutdown("tracer", e.tp.Shutdown)
	sh.OnShutdown("http server", e.server.Shutdown)
	sh.OnShutdown("scheduler", e.scheduler.Stop)
	if e.watcher != nil {
		sh.OnShutdown("config watcher", func(context.Context) error {
			return e.watcher.Stop()
		})
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := e.server.Serve(); err != nil {
			return fmt.Errorf("serve metrics: %w", err)
		}
		return nil
	})

	if err := e.scheduler.Start(gctx); err != nil {
		_ = sh.Shutdown()
		_ = g.Wait()
		return err
	}

	g.Go(func() error {
		return sh.Wait(gctx)
	})

	e.log.Info("exporter started",
		"addr", e.server.Addr(),
		"path", httpserver.NormalizePath(e.cfg.Server.MetricPath))

	err := g.Wait()

	for _, st := range e.scheduler.Status() {
		e.log.Info("task summary",
			"metric", st.MetricName,
			"polls", st.Polls,
			"failures", st.Failures,
			"last_count", st.LastCount)
	}

	if err != nil {
		return err
	}
	e.log.Info("exporter stopped")
	return nil
}

// watchConfig applies log level changes from the configuration file while
// running. Other changes need a restart.
func (e *exporter) watchConfig() *confloader.Watcher {
	if e.configFile == "" {
		return nil
	}

	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(e.log.Slog()))
	if err != nil {
		e.log.Warn("config watcher disabled", "error", err)
		return nil
	}
	if err := w.Watch(e.configFile); err != nil {
		e.log.Warn("config watcher disabled", "error", err)
		_ = w.Stop()
		return nil
	}
	w.OnChange(e.reload)
	w.StartAsync()
	return w
}

func (e *exporter) reload(path string) {
	next, err := loadConfig(path, e.overrides)
	if err != nil {
		e.log.Warn("ignoring configuration change", "file", path, "error", err)
		return
	}

	if os.Getenv(LogLevelEnv) == "" && next.Log.Level != logger.GetLevel() {
		logger.SetLevel(next.Log.Level)
		e.log.Info("log level changed", "level", next.Log.Level)
	}

	next.Log = e.cfg.Log
	if !reflect.DeepEqual(next, e.cfg) {
		e.log.Warn("configuration changed, restart required", "file", path)
	}
}

// initLogger initializes the structured logger and makes it the default.
func initLogger(cfg *config.ExporterConfig) (logger.Logger, error) {
	log, err := logger.New(config.ToLoggerConfig(cfg))
	if err != nil {
		return nil, err
	}
	logger.SetDefault(log)
	return log, nil
}
