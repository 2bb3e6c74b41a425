package server

import (
	"context"

	icache "Astrolabe/internal/service/cache"
	"Astrolabe/internal/usecase"
	"Astrolabe/pkg/config"
	applogger "Astrolabe/pkg/logger"
	"Astrolabe/pkg/metrics"
)

// App owns the wired dependencies of one process run.
type App struct {
	cfg      *config.Config
	log      *applogger.Logger
	recorder *metrics.Recorder
	memo     *icache.TTLCache
	charts   *usecase.ChartBuilder
	batch    *usecase.BatchRunner
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	recorder *metrics.Recorder,
	memo *icache.TTLCache,
	charts *usecase.ChartBuilder,
	batch *usecase.BatchRunner,
) *App {
	return &App{
		cfg:      cfg,
		log:      log,
		recorder: recorder,
		memo:     memo,
		charts:   charts,
		batch:    batch,
	}
}

func (a *App) Config() *config.Config        { return a.cfg }
func (a *App) Logger() *applogger.Logger     { return a.log }
func (a *App) Charts() *usecase.ChartBuilder { return a.charts }
func (a *App) Batch() *usecase.BatchRunner   { return a.batch }
func (a *App) Metrics() *metrics.Recorder    { return a.recorder }

// Shutdown logs cache statistics and flushes metrics to the configured textfile.
func (a *App) Shutdown(_ context.Context) error {
	if a.memo != nil {
		s := a.memo.Stats()
		a.log.Debug("ephemeris cache",
			applogger.Int("size", s.Size),
			applogger.Int("hits", int(s.Hits)),
			applogger.Int("misses", int(s.Misses)),
			applogger.Int("evictions", int(s.Evictions)),
		)
	}

	if !a.cfg.Metrics.Enabled || a.cfg.Metrics.Textfile == "" {
		return nil
	}
	if err := a.recorder.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
		a.log.Warn("metrics flush failed", applogger.Error(err))
		return err
	}
	a.log.Debug("metrics flushed", applogger.String("path", a.cfg.Metrics.Textfile))
	return nil
}
