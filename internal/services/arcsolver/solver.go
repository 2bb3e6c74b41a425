// Package arcsolver finds the instant before a reference time at which a moving
// body's longitude sat a fixed arc behind its reference longitude.
package arcsolver

import (
	"context"
	"fmt"
	"math"
	"time"

	"Astrolabe/pkg/angle"
)

const day = 24 * time.Hour

// LongitudeFunc returns a body's ecliptic longitude in degrees at t.
type LongitudeFunc func(ctx context.Context, t time.Time) (float64, error)

// Options tunes the search. Zero values take the defaults below.
type Options struct {
	// MeanDailyMotion is the body's mean motion in degrees per day; it places the first bracket.
	MeanDailyMotion float64
	// Margin widens the first bracket on both sides of the expected crossing.
	Margin time.Duration
	// Step is how far each retry widens the bracket.
	Step time.Duration
	// MaxRetries bounds bracket widening.
	MaxRetries int
	// MaxIterations bounds bisection.
	MaxIterations int
	// Tolerance stops bisection once |error| falls below it, in degrees.
	Tolerance float64
	// TimeTolerance stops bisection once the bracket is this narrow. Zero means run to
	// Tolerance or the clock's resolution.
	TimeTolerance time.Duration
}

// DefaultOptions suits the Sun.
func DefaultOptions() Options {
	return Options{
		MeanDailyMotion: 0.9856,
		Margin:          5 * day,
		Step:            2 * day,
		MaxRetries:      10,
		MaxIterations:   60,
		Tolerance:       1e-6,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MeanDailyMotion <= 0 {
		o.MeanDailyMotion = d.MeanDailyMotion
	}
	if o.Margin <= 0 {
		o.Margin = d.Margin
	}
	if o.Step <= 0 {
		o.Step = d.Step
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = d.MaxRetries
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = d.MaxIterations
	}
	if o.Tolerance <= 0 {
		o.Tolerance = d.Tolerance
	}
	return o
}

// Result is the outcome of a search.
type Result struct {
	Instant time.Time
	// Target is the longitude being solved for.
	Target float64
	// Residual is the signed angular error at Instant.
	Residual    float64
	Iterations  int
	Evaluations int
	Retries     int
	// Converged is set when bisection reached Tolerance or TimeTolerance.
	Converged bool
	// Degraded is set when no sign change was bracketed and the better endpoint was returned.
	Degraded bool
}

// Solver runs prior-instant searches with fixed options.
type Solver struct {
	opts Options
}

// New creates a Solver.
func New(opts Options) *Solver {
	return &Solver{opts: opts.withDefaults()}
}

// Options returns the effective options.
func (s *Solver) Options() Options { return s.opts }

// FindPriorInstant finds t < ref with longitudeAt(t) ≈ normalize(longitudeAt(ref) - arc).
//
// The crossing is bracketed around ref - arc/meanMotion days, the bracket widened
// until the signed error changes sign, then bisected. If no sign change is found
// within MaxRetries, the endpoint with the smaller error is returned with Degraded set.
func (s *Solver) FindPriorInstant(ctx context.Context, ref time.Time, arc float64, longitudeAt LongitudeFunc) (Result, error) {
	o := s.opts
	res := Result{}

	eval := func(t time.Time) (float64, error) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		res.Evaluations++
		lon, err := longitudeAt(ctx, t)
		if err != nil {
			return 0, fmt.Errorf("longitude at %s: %w", t.Format(time.RFC3339), err)
		}
		return angle.SignedDiff(lon, res.Target), nil
	}

	refLon, err := longitudeAt(ctx, ref)
	if err != nil {
		return res, fmt.Errorf("reference longitude: %w", err)
	}
	res.Evaluations++
	res.Target = angle.Normalize(refLon - arc)

	// the result must be strictly earlier than ref
	latest := ref.Add(-time.Nanosecond)
	expected := time.Duration(arc / o.MeanDailyMotion * float64(day))
	lo := ref.Add(-expected - o.Margin)
	hi := ref.Add(-expected + o.Margin)
	if hi.After(latest) {
		hi = latest
	}

	eLo, err := eval(lo)
	if err != nil {
		return res, err
	}
	eHi, err := eval(hi)
	if err != nil {
		return res, err
	}

	for !bracketed(eLo, eHi) {
		if res.Retries >= o.MaxRetries {
			res.Degraded = true
			if math.Abs(eLo) <= math.Abs(eHi) {
				res.Instant, res.Residual = lo, eLo
			} else {
				res.Instant, res.Residual = hi, eHi
			}
			return res, nil
		}
		res.Retries++
		lo = lo.Add(-o.Step)
		if eLo, err = eval(lo); err != nil {
			return res, err
		}
		if next := hi.Add(o.Step); !next.After(latest) {
			hi = next
			if eHi, err = eval(hi); err != nil {
				return res, err
			}
		}
	}

	for res.Iterations < o.MaxIterations {
		if math.Abs(eLo) <= o.Tolerance || math.Abs(eHi) <= o.Tolerance {
			res.Converged = true
			break
		}
		span := hi.Sub(lo)
		if span <= time.Nanosecond || (o.TimeTolerance > 0 && span <= o.TimeTolerance) {
			res.Converged = true
			break
		}
		res.Iterations++
		mid := lo.Add(span / 2)
		eMid, err := eval(mid)
		if err != nil {
			return res, err
		}
		if bracketed(eLo, eMid) {
			hi, eHi = mid, eMid
		} else {
			lo, eLo = mid, eMid
		}
	}

	if math.Abs(eLo) <= math.Abs(eHi) {
		res.Instant, res.Residual = lo, eLo
	} else {
		res.Instant, res.Residual = hi, eHi
	}
	if math.Abs(res.Residual) <= o.Tolerance {
		res.Converged = true
	}
	return res, nil
}

// bracketed reports whether a root lies between errors a and b. A sign flip across
// the ±180° seam of the error metric is not a root.
func bracketed(a, b float64) bool {
	if math.Abs(a-b) >= 180 {
		return false
	}
	return (a <= 0 && b >= 0) || (a >= 0 && b <= 0)
}
