// Package houses classifies longitudes into the twelve houses of a chart.
package houses

import (
	"Astrolabe/internal/domain/models"
	"Astrolabe/pkg/angle"
)

// FallbackHouse is returned when no cusp interval contains the longitude.
const FallbackHouse = 12

// HouseOf returns the 1-based house containing lon.
//
// Each cusp pair is treated as its own arc, since Placidus-family cusps need not increase
// from house 1 to house 12 once they wrap past 0°. A longitude on a cusp belongs to the house
// that starts there. ok is false when no arc matched and FallbackHouse was returned.
func HouseOf(lon float64, cusps [12]float64) (house int, ok bool) {
	var edges [13]float64
	copy(edges[:12], cusps[:])
	// cusp 13 is cusp 1 one turn later; the lift below supplies the turn
	edges[12] = cusps[0]

	l := angle.Normalize(lon)
	for i := 0; i < 12; i++ {
		start := angle.Normalize(edges[i])
		end := angle.Normalize(edges[i+1])
		if end < start {
			end += angle.FullCircle
		}
		lifted := l
		if lifted < start {
			lifted += angle.FullCircle
		}
		if start <= lifted && lifted < end {
			return i + 1, true
		}
	}
	return FallbackHouse, false
}

// CuspsTo12 reduces provider cusps to house 1..12 order. A 13-value slice is
// index-1-based (element 0 unused); a 12-value slice is used as is.
func CuspsTo12(raw []float64) ([12]float64, error) {
	var out [12]float64
	switch {
	case len(raw) == 13:
		copy(out[:], raw[1:13])
	case len(raw) == 12:
		copy(out[:], raw)
	default:
		return out, models.NewCoreError(models.CodeDegenerateCuspData, "cusps",
			"provider returned an unexpected number of cusps").WithParam("count", len(raw))
	}
	return out, nil
}
