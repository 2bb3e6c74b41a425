package arcsolver

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Astrolabe/pkg/angle"
)

var epoch = time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)

func days(t time.Time) float64 {
	return t.Sub(epoch).Hours() / 24
}

// constantRate moves at rate degrees per day from 280° at epoch.
func constantRate(rate float64) LongitudeFunc {
	return func(_ context.Context, t time.Time) (float64, error) {
		return angle.Normalize(280 + rate*days(t)), nil
	}
}

// eccentric adds a yearly speed variation similar to the Sun's.
func eccentric(_ context.Context, t time.Time) (float64, error) {
	d := days(t)
	return angle.Normalize(280 + 0.9856*d + 1.9*math.Sin(2*math.Pi*d/365.25)), nil
}

func TestFindPriorInstantConstantRate(t *testing.T) {
	lonAt := constantRate(0.9856)
	ref := time.Date(2024, 6, 21, 8, 30, 0, 0, time.UTC)

	res, err := New(DefaultOptions()).FindPriorInstant(context.Background(), ref, 88, lonAt)
	require.NoError(t, err)

	refLon, _ := lonAt(context.Background(), ref)
	target := angle.Normalize(refLon - 88)
	got, _ := lonAt(context.Background(), res.Instant)

	assert.InDelta(t, 0, angle.SignedDiff(got, target), 1e-6)
	assert.InDelta(t, target, res.Target, 1e-12)
	assert.True(t, res.Instant.Before(ref))
	assert.True(t, res.Converged)
	assert.False(t, res.Degraded)
	assert.Equal(t, 0, res.Retries)

	want := ref.Add(-time.Duration(88 / 0.9856 * float64(24*time.Hour)))
	assert.WithinDuration(t, want, res.Instant, time.Second)
}

func TestFindPriorInstantTinyArcStaysBeforeReference(t *testing.T) {
	ref := time.Date(2024, 6, 21, 8, 30, 0, 0, time.UTC)
	for _, arc := range []float64{1e-9, 1e-4} {
		res, err := New(DefaultOptions()).FindPriorInstant(context.Background(), ref, arc, constantRate(0.9856))
		require.NoError(t, err)
		assert.True(t, res.Instant.Before(ref), "arc %g gave %v", arc, res.Instant)
		assert.True(t, res.Converged)
	}
}

func TestFindPriorInstantVaryingSpeed(t *testing.T) {
	ref := time.Date(1985, 3, 7, 14, 0, 0, 0, time.UTC)
	res, err := New(DefaultOptions()).FindPriorInstant(context.Background(), ref, 88, eccentric)
	require.NoError(t, err)

	refLon, _ := eccentric(context.Background(), ref)
	got, _ := eccentric(context.Background(), res.Instant)
	assert.InDelta(t, 88, angle.Normalize(refLon-got), 1e-6)
	assert.True(t, res.Instant.Before(ref))
	assert.False(t, res.Degraded)
}

func TestFindPriorInstantWrapsAcrossZero(t *testing.T) {
	// reference longitude just past 0°, so the target sits near 272°
	lonAt := func(_ context.Context, t time.Time) (float64, error) {
		return angle.Normalize(0.9856 * days(t)), nil
	}
	ref := epoch.Add(time.Duration(3.0 / 0.9856 * float64(24*time.Hour)))

	res, err := New(DefaultOptions()).FindPriorInstant(context.Background(), ref, 88, lonAt)
	require.NoError(t, err)
	assert.InDelta(t, 275, res.Target, 1e-6)
	got, _ := lonAt(context.Background(), res.Instant)
	assert.InDelta(t, 0, angle.SignedDiff(got, res.Target), 1e-6)
}

func TestFindPriorInstantWidensBracket(t *testing.T) {
	opts := DefaultOptions()
	// wrong mean motion puts the first bracket ~45 days too late
	opts.MeanDailyMotion = 2.0
	opts.Step = 5 * 24 * time.Hour

	lonAt := constantRate(0.9856)
	ref := time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)
	res, err := New(opts).FindPriorInstant(context.Background(), ref, 88, lonAt)
	require.NoError(t, err)

	assert.Greater(t, res.Retries, 0)
	assert.LessOrEqual(t, res.Retries, opts.MaxRetries)
	assert.False(t, res.Degraded)
	got, _ := lonAt(context.Background(), res.Instant)
	assert.InDelta(t, 0, angle.SignedDiff(got, res.Target), 1e-6)
}

func TestFindPriorInstantDegradedWhenNoCrossing(t *testing.T) {
	stuck := func(context.Context, time.Time) (float64, error) { return 42, nil }
	ref := time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)

	opts := DefaultOptions()
	opts.MaxRetries = 3
	res, err := New(opts).FindPriorInstant(context.Background(), ref, 88, stuck)
	require.NoError(t, err)

	assert.True(t, res.Degraded)
	assert.False(t, res.Converged)
	assert.Equal(t, 3, res.Retries)
	assert.InDelta(t, 88, res.Residual, 1e-9)
	assert.True(t, res.Instant.Before(ref))
}

func TestFindPriorInstantBoundedEvaluations(t *testing.T) {
	opts := DefaultOptions()
	calls := 0
	lonAt := func(ctx context.Context, t time.Time) (float64, error) {
		calls++
		return eccentric(ctx, t)
	}
	res, err := New(opts).FindPriorInstant(context.Background(), time.Date(2001, 9, 9, 1, 46, 40, 0, time.UTC), 88, lonAt)
	require.NoError(t, err)

	assert.Equal(t, calls, res.Evaluations)
	assert.LessOrEqual(t, res.Evaluations, 3+2*opts.MaxRetries+opts.MaxIterations)
	assert.LessOrEqual(t, res.Iterations, opts.MaxIterations)
}

func TestFindPriorInstantTimeTolerance(t *testing.T) {
	opts := DefaultOptions()
	opts.Tolerance = 1e-12
	opts.TimeTolerance = time.Second

	lonAt := constantRate(0.9856)
	ref := time.Date(2024, 6, 21, 8, 30, 0, 0, time.UTC)
	res, err := New(opts).FindPriorInstant(context.Background(), ref, 88, lonAt)
	require.NoError(t, err)

	assert.True(t, res.Converged)
	want := ref.Add(-time.Duration(88 / 0.9856 * float64(24*time.Hour)))
	assert.WithinDuration(t, want, res.Instant, time.Second)
}

func TestFindPriorInstantPropagatesErrors(t *testing.T) {
	boom := errors.New("ephemeris offline")
	calls := 0
	lonAt := func(context.Context, time.Time) (float64, error) {
		calls++
		if calls > 1 {
			return 0, boom
		}
		return 100, nil
	}
	_, err := New(DefaultOptions()).FindPriorInstant(context.Background(), time.Now(), 88, lonAt)
	assert.ErrorIs(t, err, boom)
}

func TestFindPriorInstantHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(DefaultOptions()).FindPriorInstant(ctx, time.Now(), 88, constantRate(0.9856))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWithDefaults(t *testing.T) {
	s := New(Options{})
	assert.Equal(t, DefaultOptions(), s.Options())
}

func TestBracketed(t *testing.T) {
	assert.True(t, bracketed(-1, 1))
	assert.True(t, bracketed(0, 5))
	assert.False(t, bracketed(2, 5))
	assert.False(t, bracketed(179, -179))
}
