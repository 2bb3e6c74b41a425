package util

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	numericRe = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)$`)
	dmyRe     = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{4})$`)
	clockRe   = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)
)

// isoOffsetLayouts carry an explicit UTC offset; isoNaiveLayouts do not.
// Fractional seconds are accepted after the seconds field without being in the layout.
var (
	isoOffsetLayouts = []string{
		"2006-01-02T15:04:05-07:00",
		"2006-01-02T15:04-07:00",
		"2006-01-02T15:04:05-0700",
		"2006-01-02T15:04-0700",
	}
	isoNaiveLayouts = []string{
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02T15",
		"2006-01-02",
	}
)

// IsNumeric reports whether s consists solely of digits with at most one decimal point.
func IsNumeric(s string) bool {
	return numericRe.MatchString(s)
}

// UnixToUTC converts epoch seconds to a UTC time rounded to the microsecond.
func UnixToUTC(sec float64) time.Time {
	whole, frac := math.Modf(sec)
	us := math.Round(frac * 1e6)
	return time.Unix(int64(whole), int64(us)*int64(time.Microsecond)).UTC()
}

// ParseISO parses an ISO-8601 civil timestamp. Whitespace is read as the date/time separator
// and a trailing Z as +00:00. hasOffset reports whether the text carried an explicit offset;
// naive values are returned as UTC.
func ParseISO(s string) (t time.Time, hasOffset bool, err error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "T")
	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	}
	for _, layout := range isoOffsetLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true, nil
		}
	}
	for _, layout := range isoNaiveLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), false, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("not an ISO-8601 timestamp: %q", s)
}

// ParseDayMonthYear parses a calendar date written as day.month.year.
func ParseDayMonthYear(s string) (year int, month time.Month, day int, err error) {
	m := dmyRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, 0, fmt.Errorf("date %q is not in D.M.YYYY form", s)
	}
	day, _ = strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	year, _ = strconv.Atoi(m[3])
	month = time.Month(mo)

	probe := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if probe.Day() != day || probe.Month() != month || probe.Year() != year {
		return 0, 0, 0, fmt.Errorf("date %q does not exist", s)
	}
	return year, month, day, nil
}

// ParseClock parses a 24-hour H:MM or H:MM:SS clock value.
func ParseClock(s string) (hour, minute, second int, err error) {
	m := clockRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, 0, fmt.Errorf("time %q is not in H:MM form", s)
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	if m[3] != "" {
		second, _ = strconv.Atoi(m[3])
	}
	if hour > 23 || minute > 59 || second > 59 {
		return 0, 0, 0, fmt.Errorf("time %q is out of range", s)
	}
	return hour, minute, second, nil
}
