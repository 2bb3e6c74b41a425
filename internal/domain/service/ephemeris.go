package service

import (
	"context"
	"errors"

	"Astrolabe/internal/domain/models"
)

var (
	// ErrUnsupportedBody is returned for bodies a provider cannot position.
	ErrUnsupportedBody = errors.New("ephemeris: unsupported body")
	// ErrHouseSystemUnavailable is returned when a provider cannot compute a house system at a location.
	ErrHouseSystemUnavailable = errors.New("ephemeris: house system unavailable")
)

// Ephemeris provides planetary positions and house cusps. Implementations are pure functions of their inputs.
type Ephemeris interface {
	// JulianDay converts a UTC civil date and fractional hour to a Julian day number.
	JulianDay(year, month, day int, hour float64) float64
	// BodyPosition returns a body's ecliptic position at jd.
	BodyPosition(ctx context.Context, jd float64, body models.Body, flags models.Flags) (models.Position, error)
	// HouseCusps returns the cusps, Ascendant and Midheaven for jd at a geographic location (east longitude positive).
	HouseCusps(ctx context.Context, jd, lat, lon float64, system models.HouseSystem) (models.Houses, error)
}
