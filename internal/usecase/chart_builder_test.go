package usecase

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Astrolabe/internal/domain/models"
	"Astrolabe/internal/services/arcsolver"
	"Astrolabe/internal/services/ephemeris"
	"Astrolabe/internal/services/timeresolve"
	"Astrolabe/pkg/angle"
	"Astrolabe/pkg/logger"
)

type metricsSpy struct {
	mu       sync.Mutex
	charts   map[string]int
	degraded map[string]int
	solves   int
}

func newMetricsSpy() *metricsSpy {
	return &metricsSpy{charts: map[string]int{}, degraded: map[string]int{}}
}

func (m *metricsSpy) RecordChart(status string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.charts[status]++
}

func (m *metricsSpy) RecordDegraded(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.degraded[kind]++
}

func (m *metricsSpy) RecordSolver(int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.solves++
}

func (m *metricsSpy) RecordEphemerisCall(string, error) {}

func newBuilder(f *ephemeris.Fake, opts ChartOptions) (*ChartBuilder, *metricsSpy) {
	spy := newMetricsSpy()
	solver := arcsolver.New(arcsolver.Options{TimeTolerance: time.Second})
	return NewChartBuilder(f, timeresolve.New(), solver, spy, logger.Nop(), opts), spy
}

func ptr[T any](v T) *T { return &v }

func j2000Request() models.ChartRequest {
	return models.ChartRequest{
		ID:           "req-1",
		TimestampUTC: "2000-01-01T12:00:00Z",
		Latitude:     ptr(0.0),
		Longitude:    ptr(15.0),
	}
}

func TestBuildNatalChart(t *testing.T) {
	b, spy := newBuilder(ephemeris.NewFake(), ChartOptions{})
	chart, err := b.Build(context.Background(), j2000Request())
	require.NoError(t, err)

	assert.Equal(t, "req-1", chart.ID)
	assert.Equal(t, models.ModeISOUTC, chart.Mode)
	assert.Equal(t, time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC), chart.DatetimeUTC)
	assert.InDelta(t, ephemeris.J2000, chart.JulianDay, 1e-9)
	assert.Equal(t, models.Placidus, chart.Settings.HouseSystem)
	assert.Equal(t, models.ConventionStandard, chart.Settings.Convention)
	assert.Equal(t, models.DefaultFlags, chart.Settings.Flags)

	assert.InDelta(t, 295.46, chart.Houses.Midheaven, 1e-9)
	assert.InDelta(t, 25.46, chart.Houses.Ascendant, 1e-9)
	assert.InDelta(t, 25.46, chart.Houses.Cusps[0], 1e-9)

	require.Len(t, chart.Planets, len(models.DefaultBodies))
	sun := chart.Planets["sun"]
	assert.InDelta(t, 280.46, sun.Longitude, 1e-9)
	assert.Equal(t, "Capricorn", sun.Sign)
	assert.Equal(t, 9, sun.House)
	assert.False(t, sun.HouseFallback)
	require.NotNil(t, sun.Wheel)
	assert.Equal(t, models.ConventionStandard, sun.Wheel.Convention)

	moon := chart.Planets["moon"]
	assert.Equal(t, "Scorpio", moon.Sign)
	assert.Equal(t, 7, moon.House)

	assert.False(t, chart.Degraded.Any())
	assert.Empty(t, chart.Warnings)
	assert.Nil(t, chart.Design)
	assert.Nil(t, chart.Debug)
	assert.Equal(t, 1, spy.charts["ok"])
}

func TestBuildAssignsID(t *testing.T) {
	b, _ := newBuilder(ephemeris.NewFake(), ChartOptions{})
	req := j2000Request()
	req.ID = ""
	chart, err := b.Build(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, chart.ID, 36)
}

func TestBuildEveryLongitudeGetsAHouse(t *testing.T) {
	f := ephemeris.NewFake()
	b, _ := newBuilder(f, ChartOptions{})
	for _, stamp := range []any{0, 946728000.5, "1987-04-10 19:21:00", 1700000000} {
		req := j2000Request()
		req.TimestampUTC = stamp
		chart, err := b.Build(context.Background(), req)
		require.NoError(t, err)
		for name, p := range chart.Planets {
			assert.GreaterOrEqual(t, p.House, 1, name)
			assert.LessOrEqual(t, p.House, 12, name)
			assert.False(t, p.HouseFallback, name)
			assert.GreaterOrEqual(t, p.Longitude, 0.0)
			assert.Less(t, p.Longitude, 360.0)
		}
	}
}

func TestBuildBodyFailureIsNonFatal(t *testing.T) {
	f := ephemeris.NewFake()
	f.FailBodies = map[models.Body]bool{models.Mars: true}
	b, spy := newBuilder(f, ChartOptions{})

	req := j2000Request()
	req.Debug = true
	chart, err := b.Build(context.Background(), req)
	require.NoError(t, err)

	assert.Contains(t, chart.Warnings, "mars_calc_failed")
	assert.NotEmpty(t, chart.Planets["mars"].Error)
	assert.Equal(t, 0, chart.Planets["mars"].House)
	assert.Equal(t, 1, chart.Degraded.BodyFailures)
	require.NotNil(t, chart.Debug)
	assert.Equal(t, []string{"mars"}, chart.Debug.FailedBodies)
	assert.Equal(t, 1, spy.charts["degraded"])
	assert.Equal(t, 1, spy.degraded["body_failure"])
}

func TestBuildLogsSummary(t *testing.T) {
	var buf bytes.Buffer
	log, err := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, &buf)
	require.NoError(t, err)
	f := ephemeris.NewFake()
	f.FailBodies = map[models.Body]bool{models.Mars: true}
	solver := arcsolver.New(arcsolver.Options{TimeTolerance: time.Second})
	b := NewChartBuilder(f, timeresolve.New(), solver, newMetricsSpy(), log, ChartOptions{})

	_, err = b.Build(context.Background(), j2000Request())
	require.NoError(t, err)

	var summary map[string]any
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &line))
		if line["message"] == "chart computed" {
			summary = line
		}
	}
	require.NotNil(t, summary)
	assert.Equal(t, "req-1", summary["request_id"])
	assert.Equal(t, "degraded", summary["status"])
	assert.Equal(t, false, summary["design"])
	assert.Equal(t, "mars_calc_failed", summary["warnings"])
	assert.Equal(t, 1.0, summary["degraded"].(map[string]any)["body_failures"])
}

func TestBuildHouseSystemFallback(t *testing.T) {
	f := ephemeris.NewFake()
	f.Unavailable = map[models.HouseSystem]bool{models.Placidus: true}
	b, spy := newBuilder(f, ChartOptions{})

	chart, err := b.Build(context.Background(), j2000Request())
	require.NoError(t, err)
	assert.Equal(t, []string{"houses_system_fallback_to_W"}, chart.Warnings)
	assert.True(t, chart.Degraded.HouseSystemFallback)
	assert.Equal(t, models.WholeSign, chart.Houses.System)
	assert.Equal(t, models.WholeSign, chart.Settings.HouseSystem)
	assert.Equal(t, 1, spy.degraded["house_system_fallback"])
}

func TestBuildFallbackFailureIsEphemerisError(t *testing.T) {
	f := ephemeris.NewFake()
	f.Unavailable = map[models.HouseSystem]bool{models.Placidus: true, models.WholeSign: true}
	b, spy := newBuilder(f, ChartOptions{})

	_, err := b.Build(context.Background(), j2000Request())
	assert.ErrorIs(t, err, models.ErrEphemeris)
	assert.Equal(t, 1, spy.charts["error"])

	req := j2000Request()
	req.HouseSystem = "w"
	_, err = b.Build(context.Background(), req)
	assert.ErrorIs(t, err, models.ErrEphemeris)
}

func TestBuildDegenerateCusps(t *testing.T) {
	f := ephemeris.NewFake()
	f.Cusps = []float64{1, 2, 3, 4, 5}
	b, _ := newBuilder(f, ChartOptions{})
	_, err := b.Build(context.Background(), j2000Request())
	assert.ErrorIs(t, err, models.ErrDegenerateCuspData)

	f.Cusps = make([]float64, 12)
	for i := range f.Cusps {
		f.Cusps[i] = 42
	}
	chart, err := b.Build(context.Background(), j2000Request())
	require.NoError(t, err)
	assert.True(t, chart.Degraded.HouseFallback)
	assert.Equal(t, 12, chart.Planets["sun"].House)
	assert.True(t, chart.Planets["sun"].HouseFallback)
	assert.Contains(t, chart.Warnings, "sun_house_fallback")
}

func TestBuildOneBasedCusps(t *testing.T) {
	f := ephemeris.NewFake()
	f.OneBased = true
	b, _ := newBuilder(f, ChartOptions{})

	req := j2000Request()
	req.Debug = true
	chart, err := b.Build(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 13, chart.Debug.CuspsLen)
	assert.InDelta(t, 25.46, chart.Houses.Cusps[0], 1e-9)
	assert.InDelta(t, 25.46, chart.Debug.AscMCRaw[0], 1e-9)
	assert.InDelta(t, 295.46, chart.Debug.AscMCRaw[1], 1e-9)
}

func TestBuildRejectsBadInput(t *testing.T) {
	b, _ := newBuilder(ephemeris.NewFake(), ChartOptions{})
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*models.ChartRequest)
		want   error
		field  string
	}{
		{"house system", func(r *models.ChartRequest) { r.HouseSystem = "Z" }, models.ErrInvalidHouseSystem, "houses_system"},
		{"convention", func(r *models.ChartRequest) { r.Convention = "sideways" }, models.ErrInvalidWheelConvention, "wheel_convention"},
		{"missing latitude", func(r *models.ChartRequest) { r.Latitude = nil }, models.ErrValidation, "latitude"},
		{"latitude range", func(r *models.ChartRequest) { r.Latitude = ptr(91.0) }, models.ErrValidation, "latitude"},
		{"longitude range", func(r *models.ChartRequest) { r.Longitude = ptr(-180.5) }, models.ErrValidation, "longitude"},
		{"missing time", func(r *models.ChartRequest) { r.TimestampUTC = nil }, models.ErrMissingTimeInput, ""},
		{"bad timestamp", func(r *models.ChartRequest) { r.TimestampUTC = "yesterday" }, models.ErrInvalidTimeFormat, ""},
		{"missing zone", func(r *models.ChartRequest) {
			r.TimestampUTC = nil
			r.Date, r.Time = "1.1.2000", "12:00"
		}, models.ErrMissingTimezoneInput, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := j2000Request()
			tt.mutate(&req)
			_, err := b.Build(ctx, req)
			require.ErrorIs(t, err, tt.want)
			if tt.field != "" {
				var ce *models.CoreError
				require.ErrorAs(t, err, &ce)
				assert.Equal(t, tt.field, ce.Field)
			}
		})
	}
}

func TestBuildLocalZoneAdjustment(t *testing.T) {
	b, _ := newBuilder(ephemeris.NewFake(), ChartOptions{})
	req := j2000Request()
	req.TimestampUTC = nil
	req.Date, req.Time, req.Timezone = "29.10.2023", "02:30", "Europe/Berlin"

	chart, err := b.Build(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, models.ModeLocalZone, chart.Mode)
	assert.Equal(t, models.AdjustAmbiguous, chart.Adjustment)
	assert.Equal(t, time.Date(2023, 10, 29, 0, 30, 0, 0, time.UTC), chart.DatetimeUTC)
}

func TestBuildUsesConfiguredDefaults(t *testing.T) {
	b, _ := newBuilder(ephemeris.NewFake(), ChartOptions{
		HouseSystem: models.Porphyry,
		Convention:  models.ConventionAlternate,
		Bodies:      []models.Body{models.Sun, models.Moon},
	})
	chart, err := b.Build(context.Background(), j2000Request())
	require.NoError(t, err)
	assert.Equal(t, models.Porphyry, chart.Settings.HouseSystem)
	assert.Equal(t, models.ConventionAlternate, chart.Settings.Convention)
	assert.Len(t, chart.Planets, 2)
	assert.Equal(t, models.ConventionAlternate, chart.Planets["sun"].Wheel.Convention)
}

func TestBuildSouthNode(t *testing.T) {
	b, _ := newBuilder(ephemeris.NewFake(), ChartOptions{Bodies: []models.Body{models.TrueNode, models.SouthNode}})
	chart, err := b.Build(context.Background(), j2000Request())
	require.NoError(t, err)
	north, south := chart.Planets["true_node"], chart.Planets["south_node"]
	assert.InDelta(t, 180, angle.Normalize(south.Longitude-north.Longitude), 1e-9)
	assert.InDelta(t, north.Speed, south.Speed, 1e-12)
}

func TestBuildDesign(t *testing.T) {
	b, spy := newBuilder(ephemeris.NewFake(), ChartOptions{DesignEnabled: true})
	req := j2000Request()
	req.Design = true

	chart, err := b.Build(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, chart.Design)

	natal := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
	days := 88 / ephemeris.DefaultMotions[models.Sun].Rate
	want := natal.Add(-time.Duration(days * float64(24*time.Hour)))
	assert.WithinDuration(t, want, chart.Design.DatetimeUTC, 2*time.Second)

	assert.Equal(t, DefaultSolarArc, chart.Design.SolarArc)
	assert.InDelta(t, 192.46, chart.Design.Solver.Target, 1e-9)
	assert.True(t, chart.Design.Solver.Converged)
	assert.False(t, chart.Design.Solver.Degraded)
	assert.InDelta(t, 192.46, chart.Design.Planets["sun"].Longitude, 1e-3)
	assert.Len(t, chart.Design.Planets, len(models.DefaultBodies))
	assert.Equal(t, 1, spy.solves)
}

func TestBuildDesignDisabled(t *testing.T) {
	b, _ := newBuilder(ephemeris.NewFake(), ChartOptions{})
	req := j2000Request()
	req.Design = true

	chart, err := b.Build(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, chart.Design)
	assert.Equal(t, []string{"design_disabled"}, chart.Warnings)
}

func TestBuildDesignSunFailure(t *testing.T) {
	f := ephemeris.NewFake()
	f.FailBodies = map[models.Body]bool{models.Sun: true}
	b, _ := newBuilder(f, ChartOptions{DesignEnabled: true})
	req := j2000Request()
	req.Design = true

	_, err := b.Build(context.Background(), req)
	assert.ErrorIs(t, err, models.ErrEphemeris)
}

func TestResolve(t *testing.T) {
	b, _ := newBuilder(ephemeris.NewFake(), ChartOptions{})
	res, err := b.Resolve(models.ChartRequest{TimestampUTC: 946728000})
	require.NoError(t, err)
	assert.Equal(t, models.ModeUnixUTC, res.Mode)
	assert.Equal(t, time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC), res.Instant)
}
