package ephemeris

import (
	"context"
	"fmt"

	"Astrolabe/internal/domain/models"
	domsvc "Astrolabe/internal/domain/service"
	"Astrolabe/pkg/angle"
)

// J2000 is the Julian day of 2000-01-01 12:00 UTC.
const J2000 = 2451545.0

// siderealRate is the Earth's rotation in degrees per day.
const siderealRate = 360.98564736629

// Motion is a body's longitude at J2000 and its constant daily motion.
type Motion struct {
	Phase float64
	Rate  float64
}

// DefaultMotions approximates the mean motions of the chart bodies.
var DefaultMotions = map[models.Body]Motion{
	models.Sun:      {Phase: 280.46, Rate: 0.9856474},
	models.Moon:     {Phase: 218.32, Rate: 13.176396},
	models.Mercury:  {Phase: 252.25, Rate: 4.0923344},
	models.Venus:    {Phase: 181.98, Rate: 1.6021302},
	models.Mars:     {Phase: 355.43, Rate: 0.5240208},
	models.Jupiter:  {Phase: 34.35, Rate: 0.0830853},
	models.Saturn:   {Phase: 50.08, Rate: 0.0334442},
	models.Uranus:   {Phase: 314.06, Rate: 0.0117331},
	models.Neptune:  {Phase: 304.35, Rate: 0.0059810},
	models.Pluto:    {Phase: 238.93, Rate: 0.0039640},
	models.Chiron:   {Phase: 251.50, Rate: 0.0194000},
	models.TrueNode: {Phase: 125.04, Rate: -0.0529538},
	models.Lilith:   {Phase: 263.35, Rate: 0.1114040},
}

// Fake is a deterministic provider with constant-rate bodies and equal cusps, for tests.
type Fake struct {
	Motions map[models.Body]Motion
	// FailBodies makes BodyPosition fail for the listed bodies.
	FailBodies map[models.Body]bool
	// Unavailable makes HouseCusps fail for the listed systems.
	Unavailable map[models.HouseSystem]bool
	// OneBased returns 13 cusp values with element 0 unused.
	OneBased bool
	// Cusps overrides the computed cusps when set.
	Cusps []float64
}

// NewFake creates a Fake with DefaultMotions.
func NewFake() *Fake {
	return &Fake{Motions: DefaultMotions}
}

// JulianDay uses the integer Gregorian day-number algorithm.
func (f *Fake) JulianDay(year, month, day int, hour float64) float64 {
	a := (14 - month) / 12
	y := year + 4800 - a
	m := month + 12*a - 3
	jdn := day + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045
	return float64(jdn) - 0.5 + hour/24
}

func (f *Fake) BodyPosition(_ context.Context, jd float64, body models.Body, flags models.Flags) (models.Position, error) {
	if f.FailBodies[body] {
		return models.Position{}, fmt.Errorf("fake: %s is configured to fail", body)
	}
	mo, ok := f.Motions[body]
	if !ok {
		return models.Position{}, fmt.Errorf("%w: %s", domsvc.ErrUnsupportedBody, body)
	}
	pos := models.Position{Longitude: mo.Phase + mo.Rate*(jd-J2000)}
	if flags&models.FlagSpeed != 0 {
		pos.Speed = mo.Rate
	}
	return pos, nil
}

func (f *Fake) HouseCusps(_ context.Context, jd, lat, lon float64, system models.HouseSystem) (models.Houses, error) {
	if f.Unavailable[system] {
		return models.Houses{}, fmt.Errorf("%w: %s", domsvc.ErrHouseSystemUnavailable, system)
	}
	mc := angle.Normalize(280.46 + siderealRate*(jd-J2000) + lon)
	asc := angle.Normalize(mc + 90)

	cusps := f.Cusps
	if cusps == nil {
		cusps = make([]float64, 12)
		for i := range cusps {
			cusps[i] = angle.Normalize(asc + float64(i)*30)
		}
	}
	if f.OneBased {
		cusps = append([]float64{0}, cusps...)
	}
	return models.Houses{Cusps: cusps, Ascendant: asc, Midheaven: mc}, nil
}

var _ domsvc.Ephemeris = (*Fake)(nil)
