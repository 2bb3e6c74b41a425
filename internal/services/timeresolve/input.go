package timeresolve

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"Astrolabe/internal/domain/models"
	"Astrolabe/pkg/util"
)

// Input is one of the closed set of time input shapes. Resolution paths are
// added by adding a variant here and a case in Resolve.
type Input interface {
	Mode() models.ResolutionMode
	isInput()
}

// UnixInput is an epoch timestamp in seconds.
type UnixInput struct {
	Seconds float64
}

// ISOInput is an ISO-8601 civil timestamp, naive values being read as UTC.
type ISOInput struct {
	Text string
}

// ZonedInput is a local date and clock time in a named IANA zone.
type ZonedInput struct {
	Date  string
	Clock string
	Zone  string
}

// OffsetInput is a local date and clock time with an explicit offset split into
// a standard part and a daylight adjustment, both in seconds east of UTC.
type OffsetInput struct {
	Date           string
	Clock          string
	StandardOffset int
	DaylightOffset int
}

func (UnixInput) Mode() models.ResolutionMode   { return models.ModeUnixUTC }
func (ISOInput) Mode() models.ResolutionMode    { return models.ModeISOUTC }
func (ZonedInput) Mode() models.ResolutionMode  { return models.ModeLocalZone }
func (OffsetInput) Mode() models.ResolutionMode { return models.ModeLocalOffset }

func (UnixInput) isInput()   {}
func (ISOInput) isInput()    {}
func (ZonedInput) isInput()  {}
func (OffsetInput) isInput() {}

// Classify picks the resolution path for loosely typed fields. First match wins:
// numeric timestamp, ISO timestamp, local time with zone name, local time with offset.
func Classify(f models.TimeFields) (Input, error) {
	if in, ok, err := classifyTimestamp(f.Timestamp); ok || err != nil {
		return in, err
	}

	date := strings.TrimSpace(f.Date)
	clock := strings.TrimSpace(f.Time)
	if date == "" && clock == "" {
		return nil, models.NewCoreError(models.CodeMissingTimeInput, "timestamp_utc",
			"timestamp_utc or date and time are required")
	}
	if date == "" || clock == "" {
		field := "date"
		if clock == "" {
			field = "time"
		}
		return nil, models.NewCoreError(models.CodeMissingTimeInput, field,
			"local date and time must be given together")
	}

	if zone := strings.TrimSpace(f.Zone); zone != "" {
		return ZonedInput{Date: date, Clock: clock, Zone: zone}, nil
	}
	if f.RawOffset != nil || f.DSTOffset != nil {
		in := OffsetInput{Date: date, Clock: clock}
		if f.RawOffset != nil {
			in.StandardOffset = *f.RawOffset
		}
		if f.DSTOffset != nil {
			in.DaylightOffset = *f.DSTOffset
		}
		return in, nil
	}
	return nil, models.NewCoreError(models.CodeMissingTimezoneInput, "timezone",
		"local date and time need a timezone name or raw_offset/dst_offset")
}

func classifyTimestamp(v any) (Input, bool, error) {
	switch ts := v.(type) {
	case nil:
		return nil, false, nil
	case float64:
		return UnixInput{Seconds: ts}, true, nil
	case float32:
		return UnixInput{Seconds: float64(ts)}, true, nil
	case int:
		return UnixInput{Seconds: float64(ts)}, true, nil
	case int64:
		return UnixInput{Seconds: float64(ts)}, true, nil
	case uint64:
		return UnixInput{Seconds: float64(ts)}, true, nil
	case json.Number:
		f, err := ts.Float64()
		if err != nil {
			return nil, false, models.InvalidTimeFormatf("timestamp_utc", "timestamp_utc %q is not a number", ts.String())
		}
		return UnixInput{Seconds: f}, true, nil
	case time.Time:
		return ISOInput{Text: ts.Format(time.RFC3339Nano)}, true, nil
	case string:
		s := strings.TrimSpace(ts)
		if s == "" {
			return nil, false, nil
		}
		if util.IsNumeric(s) {
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, false, models.InvalidTimeFormatf("timestamp_utc", "timestamp_utc %q is not a number", s).WithError(err)
			}
			return UnixInput{Seconds: f}, true, nil
		}
		return ISOInput{Text: s}, true, nil
	default:
		return nil, false, models.InvalidTimeFormatf("timestamp_utc", "timestamp_utc has an unsupported type %T", v)
	}
}
