package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/Belphemur/MediaFinder/internal/client"
	"github.com/Belphemur/MediaFinder/internal/config"
	"github.com/Belphemur/MediaFinder/internal/dialogue"
	"github.com/Belphemur/MediaFinder/internal/metrics"
	"github.com/Belphemur/MediaFinder/internal/reporting"
	"github.com/Belphemur/MediaFinder/internal/services"
	"github.com/Belphemur/MediaFinder/internal/social"
)

// configSource returns the loaded configuration.
type configSource func() *config.Config

// app holds the wired components of one process.
type app struct {
	cfg       *config.Config
	catalog   client.Client
	extractor *social.Extractor
	machine   *dialogue.Machine
	reporter  *reporting.SentryReporter
}

func newApp(cfg *config.Config) (*app, error) {
	if cfg == nil {
		return nil, errors.New("configuration is not loaded")
	}
	reporter, err := reporting.Init(cfg, version)
	if err != nil {
		logger := config.GetLogger()
		logger.Warn().Err(err).Msg("Failed to initialise Sentry, continuing without error reporting")
		reporter = nil
	}

	catalog := client.NewClient(cfg)
	extractor := social.NewExtractorFromConfig(cfg)
	fetcher := services.NewMediaFetcher(catalog, client.NewDownloaderFromConfig(cfg), cfg.ScratchDir, cfg.PreviewPosterCount)

	deps := dialogue.Deps{
		Catalog:    catalog,
		Fetcher:    fetcher,
		Extractor:  extractor,
		ScratchDir: cfg.ScratchDir,
	}
	if reporter != nil {
		deps.Reporter = reporter
	}

	return &app{
		cfg:       cfg,
		catalog:   catalog,
		extractor: extractor,
		machine:   dialogue.NewMachine(deps),
		reporter:  reporter,
	}, nil
}

func (a *app) Close() {
	if err := a.catalog.Close(); err != nil {
		logger := config.GetLogger()
		logger.Warn().Err(err).Msg("Failed to close catalog client")
	}
	a.reporter.Flush()
}

// startMetrics serves /metrics when enabled and returns the shutdown func.
func (a *app) startMetrics() func() {
	if !a.cfg.Metrics.Enabled {
		return func() {}
	}
	return metrics.Start(metrics.NewHTTPServer(a.cfg.Metrics.Address, a.cfg.Metrics.Port))
}

// acquireLock takes the single-instance lock. The returned func releases it.
func acquireLock(path string) (func(), error) {
	if path == "" {
		path = filepath.Join(os.TempDir(), "mediafinder.lock")
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another mediafinder instance holds %s", path)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			logger := config.GetLogger()
			logger.Warn().Err(err).Str("lock", path).Msg("Failed to release instance lock")
		}
	}, nil
}
