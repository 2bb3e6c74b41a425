// Package angle holds the circular arithmetic shared by every chart component.
package angle

import "math"

// FullCircle is the number of degrees in one turn.
const FullCircle = 360.0

// SignSpan is the width of one zodiac sign.
const SignSpan = 30.0

// Signs lists the zodiac signs in longitude order starting at 0° Aries.
var Signs = [12]string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// Normalize maps x into [0, 360).
func Normalize(x float64) float64 {
	x = math.Mod(x, FullCircle)
	if x < 0 {
		x += FullCircle
	}
	// -0 and values that round up to a full turn after the shift
	if x == 0 || x >= FullCircle {
		return 0
	}
	return x
}

// SignedDiff returns the shortest signed distance a-b on the circle, in (-180, 180].
func SignedDiff(a, b float64) float64 {
	d := Normalize(a - b)
	if d > FullCircle/2 {
		d -= FullCircle
	}
	return d
}

// SignIndex returns the 0-based zodiac sign index of lon.
func SignIndex(lon float64) int {
	return int(math.Floor(Normalize(lon)/SignSpan)) % len(Signs)
}

// SignFromLongitude returns the zodiac sign name that contains lon.
func SignFromLongitude(lon float64) string {
	return Signs[SignIndex(lon)]
}
