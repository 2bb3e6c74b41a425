//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"Astrolabe/internal/domain/repository"
	"Astrolabe/internal/services/timeresolve"
	"Astrolabe/internal/usecase"
	"Astrolabe/pkg/config"
	"Astrolabe/pkg/metrics"
	"Astrolabe/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,
		wire.Bind(new(repository.Metrics), new(*metrics.Recorder)),

		// Ephemeris
		ProvideMemoCache,
		ProvideEphemeris,

		// Chart core
		timeresolve.New,
		ProvideSolver,
		ProvideChartOptions,

		// Use cases
		usecase.NewChartBuilder,
		ProvideBatchRunner,

		// Application
		server.New,
	)
	return &server.App{}, nil
}
