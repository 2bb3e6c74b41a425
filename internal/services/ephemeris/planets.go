package ephemeris

import (
	"math"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/kepler"
	"github.com/soniakeys/meeus/v3/nutation"
	pe "github.com/soniakeys/meeus/v3/planetelements"
	"github.com/soniakeys/meeus/v3/pluto"
	"github.com/soniakeys/unit"

	"Astrolabe/pkg/angle"
)

const (
	// lightDaysPerAU is the light time across one astronomical unit.
	lightDaysPerAU = 0.0057755183
	// precessionPerCentury is the general precession in longitude, degrees per Julian century.
	precessionPerCentury = 1.3969713
)

// vec is a heliocentric ecliptic position in AU.
type vec struct{ x, y, z float64 }

func (v vec) sub(w vec) vec { return vec{v.x - w.x, v.y - w.y, v.z - w.z} }

func (v vec) length() float64 { return math.Sqrt(v.x*v.x + v.y*v.y + v.z*v.z) }

// heliocentricFunc places a body on the ecliptic and equinox of date.
type heliocentricFunc func(jd float64) vec

// orbit positions a planet from its mean orbital elements, without perturbations.
func orbit(planet int) heliocentricFunc {
	return func(jd float64) vec {
		var e pe.Elements
		pe.Mean(planet, jd, &e)
		ea := kepler.Kepler3(e.Ecc, (e.Lon - e.Peri).Mod1())
		nu := kepler.True(ea, e.Ecc)
		r := kepler.Radius(ea, e.Ecc, e.Axis)

		su, cu := math.Sincos((e.Peri - e.Node + nu).Rad())
		sn, cn := math.Sincos(e.Node.Rad())
		si, ci := math.Sincos(e.Inc.Rad())
		return vec{
			x: r * (cn*cu - sn*su*ci),
			y: r * (sn*cu + cn*su*ci),
			z: r * su * si,
		}
	}
}

// plutoOrbit uses the periodic terms of pluto.Heliocentric (J2000 ecliptic)
// precessed in longitude to the equinox of date.
func plutoOrbit(jd float64) vec {
	l, b, r := pluto.Heliocentric(jd)
	l += unit.AngleFromDeg(precessionPerCentury * base.J2000Century(jd))
	sl, cl := math.Sincos(l.Rad())
	sb, cb := math.Sincos(b.Rad())
	return vec{x: r * cb * cl, y: r * cb * sl, z: r * sb}
}

var earthOrbit = orbit(pe.Earth)

// geocentric converts a heliocentric position into apparent geocentric longitude and
// latitude, correcting for light time and nutation in longitude.
func geocentric(body heliocentricFunc) func(jd float64) (lon, lat float64) {
	return func(jd float64) (float64, float64) {
		earth := earthOrbit(jd)
		var d vec
		tau := 0.0
		for i := 0; i < 2; i++ {
			d = body(jd - tau).sub(earth)
			tau = lightDaysPerAU * d.length()
		}
		dPsi, _ := nutation.Nutation(jd)
		lon := deg(math.Atan2(d.y, d.x)) + dPsi.Deg()
		lat := deg(math.Atan2(d.z, math.Hypot(d.x, d.y)))
		return angle.Normalize(lon), lat
	}
}
