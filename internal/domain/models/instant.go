package models

import "time"

// ResolutionMode tags how an Instant was derived from the caller's input.
type ResolutionMode string

const (
	ModeUnixUTC     ResolutionMode = "utc_unix"
	ModeISOUTC      ResolutionMode = "utc_iso"
	ModeLocalZone   ResolutionMode = "local_zone"
	ModeLocalOffset ResolutionMode = "local_offset"
)

// LocalAdjustment records how a wall-clock value was disambiguated during localization.
type LocalAdjustment string

const (
	AdjustNone        LocalAdjustment = ""
	AdjustAmbiguous   LocalAdjustment = "ambiguous_prefer_dst"
	AdjustNonExistent LocalAdjustment = "nonexistent_shifted_dst"
)

// TimeFields is the loosely typed time input as it arrives from a request.
// Timestamp holds a number, a numeric string or an ISO-8601 string; nil when absent.
type TimeFields struct {
	Timestamp any
	Date      string
	Time      string
	Zone      string
	RawOffset *int
	DSTOffset *int
}

// Resolution is a canonical UTC instant together with how it was obtained.
type Resolution struct {
	// Instant is always in time.UTC.
	Instant    time.Time
	Mode       ResolutionMode
	Adjustment LocalAdjustment
	// OffsetSeconds is the UTC offset that was removed from a local wall-clock value.
	OffsetSeconds int
	Zone          string
}

// FractionalHour returns hour + minute/60 + second/3600 of the instant, the form the ephemeris expects.
func (r Resolution) FractionalHour() float64 {
	t := r.Instant
	return float64(t.Hour()) + float64(t.Minute())/60 + (float64(t.Second())+float64(t.Nanosecond())/1e9)/3600
}
