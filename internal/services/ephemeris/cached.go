package ephemeris

import (
	"context"
	"fmt"
	"time"

	"Astrolabe/internal/domain/models"
	"Astrolabe/internal/domain/repository"
	domsvc "Astrolabe/internal/domain/service"
	"Astrolabe/internal/service/cache"
)

// Cached memoizes a provider's positions and cusps. The wrapped provider must be pure.
type Cached struct {
	next  domsvc.Ephemeris
	cache *cache.TTLCache
	ttl   time.Duration
}

// NewCached wraps next with the given cache.
func NewCached(next domsvc.Ephemeris, c *cache.TTLCache, ttl time.Duration) *Cached {
	return &Cached{next: next, cache: c, ttl: ttl}
}

func (c *Cached) JulianDay(year, month, day int, hour float64) float64 {
	return c.next.JulianDay(year, month, day, hour)
}

func (c *Cached) BodyPosition(ctx context.Context, jd float64, body models.Body, flags models.Flags) (models.Position, error) {
	key := fmt.Sprintf("pos|%s|%.9f|%d", body, jd, flags)
	if v, ok := c.cache.Get(key); ok {
		return v.(models.Position), nil
	}
	pos, err := c.next.BodyPosition(ctx, jd, body, flags)
	if err != nil {
		return pos, err
	}
	c.cache.Set(key, pos, c.ttl)
	return pos, nil
}

func (c *Cached) HouseCusps(ctx context.Context, jd, lat, lon float64, system models.HouseSystem) (models.Houses, error) {
	key := fmt.Sprintf("houses|%s|%.9f|%.6f|%.6f", system, jd, lat, lon)
	if v, ok := c.cache.Get(key); ok {
		return cloneHouses(v.(models.Houses)), nil
	}
	h, err := c.next.HouseCusps(ctx, jd, lat, lon, system)
	if err != nil {
		return h, err
	}
	c.cache.Set(key, cloneHouses(h), c.ttl)
	return h, nil
}

func cloneHouses(h models.Houses) models.Houses {
	h.Cusps = append([]float64(nil), h.Cusps...)
	return h
}

// Instrumented reports every provider call to a metrics sink.
type Instrumented struct {
	next    domsvc.Ephemeris
	metrics repository.Metrics
}

// NewInstrumented wraps next so each call is recorded on m.
func NewInstrumented(next domsvc.Ephemeris, m repository.Metrics) *Instrumented {
	return &Instrumented{next: next, metrics: m}
}

func (i *Instrumented) JulianDay(year, month, day int, hour float64) float64 {
	return i.next.JulianDay(year, month, day, hour)
}

func (i *Instrumented) BodyPosition(ctx context.Context, jd float64, body models.Body, flags models.Flags) (models.Position, error) {
	pos, err := i.next.BodyPosition(ctx, jd, body, flags)
	i.metrics.RecordEphemerisCall("body_position", err)
	return pos, err
}

func (i *Instrumented) HouseCusps(ctx context.Context, jd, lat, lon float64, system models.HouseSystem) (models.Houses, error) {
	h, err := i.next.HouseCusps(ctx, jd, lat, lon, system)
	i.metrics.RecordEphemerisCall("house_cusps", err)
	return h, err
}

var (
	_ domsvc.Ephemeris = (*Cached)(nil)
	_ domsvc.Ephemeris = (*Instrumented)(nil)
)
