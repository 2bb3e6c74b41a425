package di

import (
	"fmt"
	"strings"

	"Astrolabe/internal/domain/models"
	"Astrolabe/internal/domain/repository"
	domsvc "Astrolabe/internal/domain/service"
	icache "Astrolabe/internal/service/cache"
	"Astrolabe/internal/services/arcsolver"
	"Astrolabe/internal/services/ephemeris"
	"Astrolabe/internal/services/houses"
	"Astrolabe/internal/services/wheel"
	"Astrolabe/internal/usecase"
	"Astrolabe/pkg/config"
	"Astrolabe/pkg/logger"
	"Astrolabe/pkg/metrics"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: cfg.Log.TimeFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() *metrics.Recorder {
	return metrics.New()
}

// ProvideMemoCache creates the ephemeris memo cache.
func ProvideMemoCache(cfg *config.Config) *icache.TTLCache {
	return icache.NewTTLCache(cfg.Cache.MaxSize)
}

// ProvideEphemeris stacks the analytic provider with memoization and call metrics as configured.
func ProvideEphemeris(cfg *config.Config, memo *icache.TTLCache, m repository.Metrics) domsvc.Ephemeris {
	var eph domsvc.Ephemeris = ephemeris.NewMeeus()
	if cfg.Cache.Enabled {
		eph = ephemeris.NewCached(eph, memo, cfg.Cache.TTL)
	}
	if cfg.Metrics.Enabled {
		eph = ephemeris.NewInstrumented(eph, m)
	}
	return eph
}

// ProvideSolver creates the design arc solver.
func ProvideSolver(cfg *config.Config) *arcsolver.Solver {
	d := cfg.Design
	return arcsolver.New(arcsolver.Options{
		MeanDailyMotion: d.MeanDailyMotion,
		Margin:          days(d.MarginDays),
		Step:            days(d.BracketStepDays),
		MaxRetries:      d.MaxRetries,
		MaxIterations:   d.MaxIterations,
		Tolerance:       d.ToleranceDeg,
		TimeTolerance:   d.TimeTolerance,
	})
}

// ProvideChartOptions maps the chart and design config sections.
func ProvideChartOptions(cfg *config.Config) (usecase.ChartOptions, error) {
	system, err := houses.ParseSystem(cfg.Chart.HouseSystem)
	if err != nil {
		return usecase.ChartOptions{}, fmt.Errorf("chart.house_system: %w", err)
	}
	fallback, err := houses.ParseSystem(cfg.Chart.FallbackHouseSystem)
	if err != nil {
		return usecase.ChartOptions{}, fmt.Errorf("chart.fallback_house_system: %w", err)
	}
	conv, err := wheel.ParseConvention(cfg.Chart.WheelConvention)
	if err != nil {
		return usecase.ChartOptions{}, fmt.Errorf("chart.wheel_convention: %w", err)
	}

	bodies := make([]models.Body, 0, len(cfg.Chart.Bodies))
	for _, name := range cfg.Chart.Bodies {
		if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
			bodies = append(bodies, models.Body(name))
		}
	}

	return usecase.ChartOptions{
		Bodies:         bodies,
		Flags:          models.Flags(cfg.Chart.Flags),
		HouseSystem:    system,
		FallbackSystem: fallback,
		Convention:     conv,
		DesignEnabled:  cfg.Design.Enabled,
		SolarArc:       cfg.Design.SolarArc,
	}, nil
}

// ProvideBatchRunner creates the batch runner with the configured worker count.
func ProvideBatchRunner(cfg *config.Config, builder *usecase.ChartBuilder, l *logger.Logger) *usecase.BatchRunner {
	return usecase.NewBatchRunner(builder, cfg.Batch.Workers, l)
}
