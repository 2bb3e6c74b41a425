// Package timeresolve turns the accepted time inputs into one canonical UTC instant.
package timeresolve

import (
	"fmt"
	"math"
	"time"

	"Astrolabe/internal/domain/models"
	"Astrolabe/pkg/util"
)

// clockSuffixes are stripped from local clock values ("14:30 Uhr").
var clockSuffixes = []string{"uhr", "o'clock", "o’clock", "h"}

// Epoch seconds of 0001-01-01 and 10000-01-01 UTC; unix input must fall in between.
const (
	minUnixSeconds = -62135596800
	maxUnixSeconds = 253402300800
)

// Resolver resolves time inputs. Zone lookups go through LoadLocation so tests can pin tzdata.
type Resolver struct {
	LoadLocation func(name string) (*time.Location, error)
}

// New creates a Resolver backed by the system/embedded zone database.
func New() *Resolver {
	return &Resolver{LoadLocation: time.LoadLocation}
}

// ResolveFields classifies f and resolves the resulting input.
func (r *Resolver) ResolveFields(f models.TimeFields) (models.Resolution, error) {
	in, err := Classify(f)
	if err != nil {
		return models.Resolution{}, err
	}
	return r.Resolve(in)
}

// Resolve converts in to a UTC instant.
func (r *Resolver) Resolve(in Input) (models.Resolution, error) {
	switch v := in.(type) {
	case UnixInput:
		if math.IsNaN(v.Seconds) || v.Seconds < minUnixSeconds || v.Seconds >= maxUnixSeconds {
			return models.Resolution{}, models.InvalidTimeFormatf("timestamp_utc",
				"timestamp_utc %v is outside years 1-9999", v.Seconds)
		}
		return models.Resolution{Instant: util.UnixToUTC(v.Seconds), Mode: v.Mode()}, nil

	case ISOInput:
		t, _, err := util.ParseISO(v.Text)
		if err != nil {
			return models.Resolution{}, models.InvalidTimeFormatf("timestamp_utc",
				"timestamp_utc %q is neither unix seconds nor ISO-8601", v.Text).WithError(err)
		}
		return models.Resolution{Instant: t.UTC(), Mode: v.Mode()}, nil

	case ZonedInput:
		wall, err := parseWall(v.Date, v.Clock)
		if err != nil {
			return models.Resolution{}, err
		}
		load := r.LoadLocation
		if load == nil {
			load = time.LoadLocation
		}
		loc, err := load(v.Zone)
		if err != nil {
			return models.Resolution{}, models.NewCoreError(models.CodeMissingTimezoneInput, "timezone",
				fmt.Sprintf("timezone %q cannot be resolved", v.Zone)).WithError(err)
		}
		local, adj := Localize(wall, loc)
		_, off := local.Zone()
		return models.Resolution{
			Instant:       local.UTC(),
			Mode:          v.Mode(),
			Adjustment:    adj,
			OffsetSeconds: off,
			Zone:          loc.String(),
		}, nil

	case OffsetInput:
		wall, err := parseWall(v.Date, v.Clock)
		if err != nil {
			return models.Resolution{}, err
		}
		off := v.StandardOffset + v.DaylightOffset
		return models.Resolution{
			Instant:       wall.Add(-time.Duration(off) * time.Second),
			Mode:          v.Mode(),
			OffsetSeconds: off,
		}, nil

	default:
		return models.Resolution{}, models.InvalidTimeFormatf("", "unsupported time input %T", in)
	}
}

// parseWall reads a D.M.YYYY date and H:MM clock into a naive wall-clock value carried in UTC.
func parseWall(date, clock string) (time.Time, error) {
	date = util.NormalizeText(date)
	clock = util.TrimSuffixFold(util.NormalizeText(clock), clockSuffixes...)

	y, mo, d, err := util.ParseDayMonthYear(date)
	if err != nil {
		return time.Time{}, models.InvalidTimeFormatf("date", "%v", err).WithError(err)
	}
	h, mi, s, err := util.ParseClock(clock)
	if err != nil {
		return time.Time{}, models.InvalidTimeFormatf("time", "%v", err).WithError(err)
	}
	return time.Date(y, mo, d, h, mi, s, 0, time.UTC), nil
}
