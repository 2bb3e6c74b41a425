package ephemeris

import (
	"fmt"
	"math"

	"Astrolabe/internal/domain/models"
	domsvc "Astrolabe/internal/domain/service"
	"Astrolabe/pkg/angle"
)

const (
	placidusMaxIter = 200
	placidusEps     = 1e-10
)

// angles holds the sky frame for one instant and place. Angles in degrees.
type angles struct {
	ramc float64
	eps  float64
	lat  float64
	asc  float64
	mc   float64
}

func newAngles(ramc, eps, lat float64) angles {
	r, e, phi := rad(ramc), rad(eps), rad(lat)
	a := angles{ramc: ramc, eps: eps, lat: lat}
	a.mc = angle.Normalize(deg(eclipticFromRA(r, e)))
	a.asc = angle.Normalize(deg(math.Atan2(math.Cos(r), -(math.Sin(r)*math.Cos(e) + math.Tan(phi)*math.Sin(e)))))
	return a
}

// eclipticFromRA returns the ecliptic longitude of the ecliptic point with right ascension ra.
func eclipticFromRA(ra, eps float64) float64 {
	return math.Atan2(math.Sin(ra), math.Cos(ra)*math.Cos(eps))
}

func (a angles) cusps(system models.HouseSystem) ([12]float64, error) {
	switch system {
	case models.Equal:
		return a.equal(a.asc), nil
	case models.WholeSign:
		return a.equal(math.Floor(a.asc/angle.SignSpan) * angle.SignSpan), nil
	case models.Porphyry:
		return a.porphyry(), nil
	case models.Placidus:
		return a.placidus()
	default:
		return [12]float64{}, fmt.Errorf("%w: %s", domsvc.ErrHouseSystemUnavailable, system)
	}
}

func (a angles) equal(first float64) [12]float64 {
	var c [12]float64
	for i := range c {
		c[i] = angle.Normalize(first + float64(i)*angle.SignSpan)
	}
	return c
}

// porphyry trisects each quadrant between the angles.
func (a angles) porphyry() [12]float64 {
	var c [12]float64
	upper := angle.Normalize(a.asc - a.mc)
	lower := angle.FullCircle/2 - upper

	c[0] = a.asc
	c[1] = a.asc + lower/3
	c[2] = a.asc + 2*lower/3
	c[9] = a.mc
	c[10] = a.mc + upper/3
	c[11] = a.mc + 2*upper/3
	return opposite(c)
}

// placidus trisects the semi-arcs of each cusp's own declination, iterating from the
// meridian-based first guess. It is undefined inside the polar circles.
func (a angles) placidus() ([12]float64, error) {
	if math.Abs(a.lat) >= 90-a.eps {
		return [12]float64{}, fmt.Errorf("%w: placidus undefined at latitude %.2f", domsvc.ErrHouseSystemUnavailable, a.lat)
	}

	ramc, e, phi := rad(a.ramc), rad(a.eps), rad(a.lat)
	cusp := func(offset, frac float64) (float64, error) {
		ra := ramc + rad(offset)
		for i := 0; i < placidusMaxIter; i++ {
			decl := math.Asin(math.Sin(e) * math.Sin(eclipticFromRA(ra, e)))
			x := math.Tan(phi) * math.Tan(decl)
			if math.Abs(x) > 1 {
				return 0, fmt.Errorf("%w: placidus cusp circumpolar", domsvc.ErrHouseSystemUnavailable)
			}
			next := ramc + rad(offset) + frac*math.Asin(x)
			if math.Abs(next-ra) < placidusEps {
				ra = next
				break
			}
			ra = next
		}
		return angle.Normalize(deg(eclipticFromRA(ra, e))), nil
	}

	var c [12]float64
	var err error
	c[0] = a.asc
	c[9] = a.mc
	for _, spec := range []struct {
		idx    int
		offset float64
		frac   float64
	}{
		{10, 30, 1.0 / 3},
		{11, 60, 2.0 / 3},
		{1, 120, 2.0 / 3},
		{2, 150, 1.0 / 3},
	} {
		if c[spec.idx], err = cusp(spec.offset, spec.frac); err != nil {
			return [12]float64{}, err
		}
	}
	return opposite(c), nil
}

// opposite fills houses 4..9 from houses 10..3 and normalizes all cusps.
func opposite(c [12]float64) [12]float64 {
	for _, i := range []int{9, 10, 11, 0, 1, 2} {
		c[i] = angle.Normalize(c[i])
		c[(i+6)%12] = angle.Normalize(c[i] + angle.FullCircle/2)
	}
	return c
}
