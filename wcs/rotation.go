// Public domain.

package wcs

import (
	"math"

	"github.com/soniakeys/coord"
	"github.com/soniakeys/unit"
)

// Rotation turns native spherical coordinates into celestial ones.
type Rotation struct {
	Ref  coord.Sphr // celestial position of the reference point, CRVALi
	PhiP unit.Angle // native longitude of the celestial pole
}

// RotationFromHeader reads CRVAL1 and CRVAL2. CTYPE1 and CTYPE2 select the
// projection, which fixes PhiP.
func RotationFromHeader(h Header) (*Rotation, error) {
	p, err := ProjectionFromHeader(h)
	if err != nil {
		return nil, err
	}
	f, err := h.floats(KeyCRVal1, KeyCRVal2)
	if err != nil {
		return nil, err
	}
	return &Rotation{
		Ref:  coord.Sphr{Lon: unit.AngleFromDeg(f[0]), Lat: unit.AngleFromDeg(f[1])},
		PhiP: p.PhiP(),
	}, nil
}

// Forward rotates native coordinates to celestial (C&G02 eq. 2).
// Longitude is returned in [0, 2π).
func (r *Rotation) Forward(n Native) coord.Sphr {
	lon, lat := rotate(n.Phi, n.Theta, r.PhiP, r.Ref.Lat, r.Ref.Lon)
	return coord.Sphr{Lon: lon, Lat: lat}
}

// Inverse rotates celestial coordinates to native (C&G02 eq. 5).
// Phi is returned in [0, 2π).
func (r *Rotation) Inverse(c coord.Sphr) Native {
	phi, theta := rotate(c.Lon, c.Lat, r.Ref.Lon, r.Ref.Lat, r.PhiP)
	return Native{Phi: phi, Theta: theta}
}

// rotate moves (lon, lat) into a frame whose pole sits at latitude lat0 of
// the old frame, with lon0 and lonP the matching pole longitudes.
//
// Latitude is taken with atan2 rather than asin. Near the pole asin
// loses half the significant digits and its argument can round past 1.
func rotate(lon, lat, lon0, lat0, lonP unit.Angle) (unit.Angle, unit.Angle) {
	sLat, cLat := lat.Sincos()
	sLat0, cLat0 := lat0.Sincos()
	sd, cd := (lon - lon0).Sincos()
	y := -cLat * sd
	x := sLat*cLat0 - cLat*sLat0*cd
	z := sLat*sLat0 + cLat*cLat0*cd
	return normalize(lonP + unit.Angle(math.Atan2(y, x))),
		unit.Angle(math.Atan2(z, math.Hypot(x, y)))
}
