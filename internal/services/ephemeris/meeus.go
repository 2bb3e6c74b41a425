// Package ephemeris provides Ephemeris implementations for the chart pipeline.
package ephemeris

import (
	"context"
	"fmt"
	"math"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"
	pe "github.com/soniakeys/meeus/v3/planetelements"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/meeus/v3/solar"

	"Astrolabe/internal/domain/models"
	domsvc "Astrolabe/internal/domain/service"
	"Astrolabe/pkg/angle"
)

// speedStep is the half-width, in days, of the central difference used for speeds.
const speedStep = 0.5

// Meeus computes body positions and house cusps from the analytic series in
// github.com/soniakeys/meeus: Sun, Moon, true node and mean apogee from the solar and
// lunar theories, Mercury to Neptune from mean orbital elements, Pluto from its periodic
// terms. Chiron has no analytic theory there and is unsupported. Julian days are treated
// as both UT and dynamical time; the difference is far below the chart's display precision.
type Meeus struct{}

// NewMeeus creates the analytic provider.
func NewMeeus() *Meeus { return &Meeus{} }

// JulianDay converts a Gregorian UTC date and fractional hour to a Julian day.
func (m *Meeus) JulianDay(year, month, day int, hour float64) float64 {
	return julian.CalendarGregorianToJD(year, month, float64(day)+hour/24)
}

// BodyPosition returns the geocentric ecliptic position of a supported body.
func (m *Meeus) BodyPosition(ctx context.Context, jd float64, body models.Body, flags models.Flags) (models.Position, error) {
	if err := ctx.Err(); err != nil {
		return models.Position{}, err
	}
	lonLat, ok := bodies[body]
	if !ok {
		return models.Position{}, fmt.Errorf("%w: %s", domsvc.ErrUnsupportedBody, body)
	}

	lon, lat := lonLat(jd)
	pos := models.Position{Longitude: lon, Latitude: lat}
	if flags&models.FlagSpeed != 0 {
		before, _ := lonLat(jd - speedStep)
		after, _ := lonLat(jd + speedStep)
		pos.Speed = angle.SignedDiff(after, before) / (2 * speedStep)
	}
	return pos, nil
}

var bodies = map[models.Body]func(jd float64) (lon, lat float64){
	models.Sun:      sunPosition,
	models.Moon:     moonPosition,
	models.Mercury:  geocentric(orbit(pe.Mercury)),
	models.Venus:    geocentric(orbit(pe.Venus)),
	models.Mars:     geocentric(orbit(pe.Mars)),
	models.Jupiter:  geocentric(orbit(pe.Jupiter)),
	models.Saturn:   geocentric(orbit(pe.Saturn)),
	models.Uranus:   geocentric(orbit(pe.Uranus)),
	models.Neptune:  geocentric(orbit(pe.Neptune)),
	models.Pluto:    geocentric(plutoOrbit),
	models.TrueNode: trueNodePosition,
	models.Lilith:   meanApogeePosition,
}

func sunPosition(jd float64) (float64, float64) {
	return solar.ApparentLongitude(base.J2000Century(jd)).Deg(), 0
}

func moonPosition(jd float64) (float64, float64) {
	lon, lat, _ := moonposition.Position(jd)
	return lon.Deg(), lat.Deg()
}

func trueNodePosition(jd float64) (float64, float64) {
	return moonposition.TrueNode(jd).Deg(), 0
}

// meanApogeePosition is the mean lunar apogee, opposite the mean perigee.
func meanApogeePosition(jd float64) (float64, float64) {
	return angle.Normalize(moonposition.Perigee(jd).Deg() + 180), 0
}

// HouseCusps computes cusps for the Placidus, Porphyry, Equal and Whole Sign systems.
// Other systems return ErrHouseSystemUnavailable.
func (m *Meeus) HouseCusps(ctx context.Context, jd, lat, lon float64, system models.HouseSystem) (models.Houses, error) {
	if err := ctx.Err(); err != nil {
		return models.Houses{}, err
	}
	ramc := angle.Normalize(float64(sidereal.Apparent(jd))/240 + lon)
	eps := trueObliquity(jd)

	frame := newAngles(ramc, eps, lat)
	cusps, err := frame.cusps(system)
	if err != nil {
		return models.Houses{}, err
	}
	return models.Houses{
		Cusps:     cusps[:],
		Ascendant: frame.asc,
		Midheaven: frame.mc,
	}, nil
}

// trueObliquity returns the obliquity of the ecliptic including nutation, in degrees.
func trueObliquity(jd float64) float64 {
	_, dEps := nutation.Nutation(jd)
	return nutation.MeanObliquity(jd).Deg() + dEps.Deg()
}

func deg(rad float64) float64 { return rad * 180 / math.Pi }
func rad(deg float64) float64 { return deg * math.Pi / 180 }

var _ domsvc.Ephemeris = (*Meeus)(nil)
