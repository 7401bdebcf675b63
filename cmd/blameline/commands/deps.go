// Package commands implements the blameline CLI subcommands.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/blameline/blameline/internal/blame"
	"github.com/blameline/blameline/internal/config"
	"github.com/blameline/blameline/internal/format"
	"github.com/blameline/blameline/internal/observability"
	"github.com/blameline/blameline/internal/vcs"
	"github.com/blameline/blameline/pkg/version"
)

// Verbosity flags bound to the root command's persistent flags.
var (
	Verbose bool
	Quiet   bool
)

// appDeps bundles the wired collaborators every subcommand needs.
type appDeps struct {
	cfg       *config.Config
	providers observability.Providers
	backend   vcs.Backend
	formatter *format.Formatter
	author    string
}

// initDeps loads config, initializes observability, and wires the backend
// and formatter. The current author is resolved once here and handed to the
// formatter, never read from ambient state afterwards.
func initDeps(configPath string, mode observability.AppMode) (*appDeps, error) {
	cfg, cfgErr := config.Load(configPath)
	if cfgErr != nil {
		return nil, cfgErr
	}

	providers, obsErr := initObservability(mode)
	if obsErr != nil {
		return nil, obsErr
	}

	metrics, metricsErr := vcs.NewMetrics(providers.Meter)
	if metricsErr != nil {
		return nil, metricsErr
	}

	backend, backendErr := vcs.Select(cfg.VCS, vcs.Deps{
		Runner:           &vcs.ExecRunner{},
		Store:            blame.NewStore(),
		Logger:           providers.Logger,
		Tracer:           providers.Tracer,
		Metrics:          metrics,
		IgnoreWhitespace: cfg.Blame.IgnoreWhitespace,
	})
	if backendErr != nil {
		return nil, backendErr
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Remote.CommandTimeout)
	defer cancel()

	author, authorErr := backend.CurrentAuthor(ctx)
	if authorErr != nil {
		providers.Logger.Debug("current author lookup failed", "error", authorErr)
	}

	formatter := format.New(format.Options{
		Template:         cfg.Blame.Template,
		DateFormat:       cfg.Blame.DateFormat,
		MaxSummaryLength: cfg.Blame.MaxSummaryLength,
		CurrentAuthor:    author,
	})

	return &appDeps{
		cfg:       cfg,
		providers: providers,
		backend:   backend,
		formatter: formatter,
		author:    author,
	}, nil
}

// overrideTemplate swaps the formatter for one using tpl instead of the
// configured template. A no-op for the empty string.
func (d *appDeps) overrideTemplate(tpl string) {
	if tpl == "" {
		return
	}

	d.formatter = format.New(format.Options{
		Template:         tpl,
		DateFormat:       d.cfg.Blame.DateFormat,
		MaxSummaryLength: d.cfg.Blame.MaxSummaryLength,
		CurrentAuthor:    d.author,
	})
}

// shutdown flushes telemetry before process exit.
func (d *appDeps) shutdown() {
	shutdownErr := d.providers.Shutdown(context.Background())
	if shutdownErr != nil {
		d.providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
	}
}

// commandContext returns a context bounded by the configured command timeout.
func (d *appDeps) commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d.cfg.Remote.CommandTimeout)
}

func initObservability(mode observability.AppMode) (observability.Providers, error) {
	cfg := observability.DefaultConfig()
	cfg.ServiceVersion = version.Version
	cfg.Mode = mode
	cfg.OTLPEndpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	cfg.OTLPInsecure = os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") == "true"

	if mode == observability.ModeMCP {
		cfg.LogJSON = true
	}

	switch {
	case Verbose:
		cfg.LogLevel = slog.LevelDebug
	case Quiet:
		cfg.LogLevel = slog.LevelError
	}

	providers, initErr := observability.Init(cfg)
	if initErr != nil {
		return observability.Providers{}, fmt.Errorf("init observability: %w", initErr)
	}

	return providers, nil
}

// waitLoaded is a convenience over vcs.LoadAndWait with the configured
// timeout already applied.
func (d *appDeps) waitLoaded(path string) error {
	ctx, cancel := d.commandContext()
	defer cancel()

	start := time.Now()

	loadErr := vcs.LoadAndWait(ctx, d.backend, path)
	if loadErr != nil {
		return fmt.Errorf("load blame: %w", loadErr)
	}

	d.providers.Logger.Debug("blame ready", "path", path, "elapsed", time.Since(start))

	return nil
}
