// Package wheel encodes ecliptic longitudes onto the 64-gate wheel with its
// line, color, tone and base subdivisions.
package wheel

import (
	"fmt"
	"math"
	"strings"

	"Astrolabe/internal/domain/models"
	"Astrolabe/pkg/angle"
)

const (
	Gates  = 64
	Lines  = 6
	Colors = 6
	Tones  = 6
	Bases  = 5

	GateSize  = angle.FullCircle / Gates
	LineSize  = GateSize / Lines
	ColorSize = LineSize / Colors
	ToneSize  = ColorSize / Tones
	BaseSize  = ToneSize / Bases
)

// StartOffset is the longitude where gate index 0 begins.
var StartOffset = angle.Normalize(330 + 28.25)

// GateTable maps gate index (increasing longitude from StartOffset) to gate number.
var GateTable = [Gates]int{
	25, 17, 21, 51, 42, 3, 27, 24, 2, 23, 8, 20, 16, 35, 45, 12,
	15, 52, 39, 53, 62, 56, 31, 33, 7, 4, 29, 59, 40, 64, 47, 6,
	46, 18, 48, 57, 32, 50, 28, 44, 1, 43, 14, 34, 9, 5, 26, 11,
	10, 58, 38, 54, 61, 60, 41, 19, 13, 49, 30, 55, 37, 63, 22, 36,
}

// ParseConvention validates a convention name. Empty input yields the standard convention.
func ParseConvention(s string) (models.WheelConvention, error) {
	switch models.WheelConvention(strings.ToLower(strings.TrimSpace(s))) {
	case "", models.ConventionStandard:
		return models.ConventionStandard, nil
	case models.ConventionAlternate:
		return models.ConventionAlternate, nil
	default:
		return "", models.NewCoreError(models.CodeInvalidWheelConvention, "wheel_convention",
			fmt.Sprintf("wheel_convention %q must be standard or alternate", s))
	}
}

// Encode returns the wheel coordinate of lon in the given convention.
func Encode(lon float64, conv models.WheelConvention) models.WheelCoordinate {
	delta := angle.Normalize(angle.Normalize(lon) - StartOffset)

	gi, rem := split(delta, GateSize, Gates)
	li, rem := split(rem, LineSize, Lines)
	ci, rem := split(rem, ColorSize, Colors)
	colorFrac := rem / ColorSize
	ti, rem := split(rem, ToneSize, Tones)
	toneFrac := rem / ToneSize
	bi, rem := split(rem, BaseSize, Bases)
	baseFrac := rem / BaseSize

	c := models.WheelCoordinate{
		GateIndex:  gi,
		Gate:       GateTable[gi],
		Line:       li + 1,
		Color:      ci + 1,
		Tone:       ti + 1,
		Base:       bi + 1,
		ColorFrac:  colorFrac,
		ToneFrac:   toneFrac,
		BaseFrac:   baseFrac,
		Convention: models.ConventionStandard,
	}
	return Convert(c, conv)
}

// split returns the zero-based index of x within n intervals of size and the remainder inside it.
// The remainder always lands in [0, size) so fractions stay below 1.
func split(x, size float64, n int) (int, float64) {
	i := int(math.Floor(x / size))
	if i < 0 {
		i = 0
	}
	if i > n-1 {
		i = n - 1
	}
	rem := x - float64(i)*size
	if rem >= size && i < n-1 {
		i++
		rem -= size
	}
	if rem < 0 {
		rem = 0
	}
	if rem >= size {
		rem = math.Nextafter(size, 0)
	}
	return i, rem
}

// Convert renumbers color, tone and base of c into the target convention.
// The alternate convention shifts color forward by one and tone and base back by one.
func Convert(c models.WheelCoordinate, to models.WheelConvention) models.WheelCoordinate {
	if c.Convention == to {
		return c
	}
	switch to {
	case models.ConventionAlternate:
		c.Color = cycle(c.Color, +1, Colors)
		c.Tone = cycle(c.Tone, -1, Tones)
		c.Base = cycle(c.Base, -1, Bases)
	case models.ConventionStandard:
		c.Color = cycle(c.Color, -1, Colors)
		c.Tone = cycle(c.Tone, +1, Tones)
		c.Base = cycle(c.Base, +1, Bases)
	default:
		return c
	}
	c.Convention = to
	return c
}

// cycle shifts the 1-based value v by step within 1..n.
func cycle(v, step, n int) int {
	return ((v-1+step)%n+n)%n + 1
}

// Longitude returns the lowest longitude encoded as gate/line in the standard convention.
func Longitude(gate, line int) (float64, bool) {
	if line < 1 || line > Lines {
		return 0, false
	}
	for i, g := range GateTable {
		if g == gate {
			return angle.Normalize(StartOffset + float64(i)*GateSize + float64(line-1)*LineSize), true
		}
	}
	return 0, false
}
