package timeresolve

import (
	"sort"
	"time"

	"Astrolabe/internal/domain/models"
)

// Localize interprets wall (a naive wall-clock value carried in UTC) in loc.
//
// A wall-clock value repeated at a fall-back transition resolves to its daylight-saving
// reading, the earlier UTC instant. A value skipped at a spring-forward transition is moved
// one hour later and read as daylight-saving time.
func Localize(wall time.Time, loc *time.Location) (time.Time, models.LocalAdjustment) {
	cands := candidates(wall, loc)
	switch len(cands) {
	case 1:
		return cands[0], models.AdjustNone
	case 0:
		shifted := candidates(wall.Add(time.Hour), loc)
		if len(shifted) == 0 {
			// gap wider than an hour; fall back to the zone's offset after the transition
			u := wall.Add(-time.Duration(offsetAt(wall.Add(48*time.Hour), loc)) * time.Second)
			return u.In(loc), models.AdjustNonExistent
		}
		return preferDST(shifted), models.AdjustNonExistent
	default:
		return preferDST(cands), models.AdjustAmbiguous
	}
}

// candidates returns every instant whose wall clock in loc equals wall, earliest first.
func candidates(wall time.Time, loc *time.Location) []time.Time {
	offsets := map[int]struct{}{}
	for _, probe := range []time.Duration{-48 * time.Hour, 0, 48 * time.Hour} {
		offsets[offsetAt(wall.Add(probe), loc)] = struct{}{}
	}

	var out []time.Time
	for off := range offsets {
		u := wall.Add(-time.Duration(off) * time.Second)
		local := u.In(loc)
		if _, got := local.Zone(); got != off {
			continue
		}
		if sameWall(local, wall) {
			out = append(out, local)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func offsetAt(t time.Time, loc *time.Location) int {
	_, off := t.In(loc).Zone()
	return off
}

func sameWall(local, wall time.Time) bool {
	y1, m1, d1 := local.Date()
	y2, m2, d2 := wall.Date()
	return y1 == y2 && m1 == m2 && d1 == d2 &&
		local.Hour() == wall.Hour() && local.Minute() == wall.Minute() && local.Second() == wall.Second()
}

// preferDST picks the daylight-saving candidate, or the earliest one when none is flagged.
func preferDST(cands []time.Time) time.Time {
	for _, c := range cands {
		if c.IsDST() {
			return c
		}
	}
	return cands[0]
}
