// Public domain.

// Package wcs converts between pixel and celestial coordinates following
// the FITS World Coordinate System papers of Greisen & Calabretta (2002)
// and Calabretta & Greisen (2002).
//
// The conversion is a chain of three stages:
//
//	pixel <-> projection plane <-> native spherical <-> celestial spherical
//
// Linear handles the first, a Projection the second and Rotation the third.
// Only the gnomonic (TAN) projection is implemented.
//
// Functions taking float64 work in degrees. Functions ending in S take
// slices of equal length and convert element by element.
package wcs

import (
	"math"

	"github.com/soniakeys/coord"
	"github.com/soniakeys/unit"
)

// WCS holds the three stages read from one header.
type WCS struct {
	Linear     *Linear
	Projection Projection
	Rotation   *Rotation
	CoordSys   [2]string // from CTYPE1, CTYPE2, e.g. "RA", "DEC"
}

// New reads every keyword the full pipeline needs from h.
func New(h Header) (*WCS, error) {
	l, err := LinearFromHeader(h)
	if err != nil {
		return nil, err
	}
	p, err := ProjectionFromHeader(h)
	if err != nil {
		return nil, err
	}
	r, err := RotationFromHeader(h)
	if err != nil {
		return nil, err
	}
	s1, s2, err := h.CoordSys()
	if err != nil {
		return nil, err
	}
	return &WCS{Linear: l, Projection: p, Rotation: r, CoordSys: [2]string{s1, s2}}, nil
}

// PixelToWorld converts a pixel to celestial coordinates.
func (w *WCS) PixelToWorld(p Pixel) (coord.Sphr, error) {
	n, err := w.Projection.Forward(w.Linear.Forward(p))
	if err != nil {
		return coord.Sphr{}, err
	}
	return w.Rotation.Forward(n), nil
}

// WorldToPixel converts celestial coordinates to a pixel. The reference
// point CRVAL maps to CRPIX, although the projection alone is singular at
// the native pole.
func (w *WCS) WorldToPixel(c coord.Sphr) (Pixel, error) {
	n := w.Rotation.Inverse(c)
	if math.Pi/2-n.Theta.Rad() <= poleTol {
		return w.Linear.Inverse(Plane{})
	}
	q, err := w.Projection.Inverse(n)
	if err != nil {
		return Pixel{}, err
	}
	return w.Linear.Inverse(q)
}

// pairFunc converts one coordinate pair in degrees (or pixels).
type pairFunc func(a, b float64) (float64, float64, error)

// stage builds a pairFunc from a header.
type stage func(h Header) (pairFunc, error)

func call(s stage, h Header, a, b float64) (float64, float64, error) {
	f, err := s(h)
	if err != nil {
		return 0, 0, err
	}
	return f(a, b)
}

func callS(s stage, h Header, a, b []float64) ([]float64, []float64, error) {
	if len(a) != len(b) {
		return nil, nil, &LengthError{len(a), len(b)}
	}
	f, err := s(h)
	if err != nil {
		return nil, nil, err
	}
	ra := make([]float64, len(a))
	rb := make([]float64, len(b))
	for i := range a {
		if ra[i], rb[i], err = f(a[i], b[i]); err != nil {
			return nil, nil, err
		}
	}
	return ra, rb, nil
}

func pixToProj(h Header) (pairFunc, error) {
	l, err := LinearFromHeader(h)
	if err != nil {
		return nil, err
	}
	return func(x, y float64) (float64, float64, error) {
		q := l.Forward(Pixel{x, y})
		return q.U, q.V, nil
	}, nil
}

func projToPix(h Header) (pairFunc, error) {
	l, err := LinearFromHeader(h)
	if err != nil {
		return nil, err
	}
	return func(u, v float64) (float64, float64, error) {
		p, err := l.Inverse(Plane{u, v})
		return p.X, p.Y, err
	}, nil
}

func projToNatSph(h Header) (pairFunc, error) {
	p, err := ProjectionFromHeader(h)
	if err != nil {
		return nil, err
	}
	return func(u, v float64) (float64, float64, error) {
		n, err := p.Forward(Plane{u, v})
		return n.Phi.Deg(), n.Theta.Deg(), err
	}, nil
}

func natSphToProj(h Header) (pairFunc, error) {
	p, err := ProjectionFromHeader(h)
	if err != nil {
		return nil, err
	}
	return func(phi, theta float64) (float64, float64, error) {
		q, err := p.Inverse(native(phi, theta))
		return q.U, q.V, err
	}, nil
}

func natSphToCelSph(h Header) (pairFunc, error) {
	r, err := RotationFromHeader(h)
	if err != nil {
		return nil, err
	}
	return func(phi, theta float64) (float64, float64, error) {
		c := r.Forward(native(phi, theta))
		return c.Lon.Deg(), c.Lat.Deg(), nil
	}, nil
}

func celSphToNatSph(h Header) (pairFunc, error) {
	r, err := RotationFromHeader(h)
	if err != nil {
		return nil, err
	}
	return func(lon, lat float64) (float64, float64, error) {
		n := r.Inverse(celestial(lon, lat))
		return n.Phi.Deg(), n.Theta.Deg(), nil
	}, nil
}

func pixelToWorld(h Header) (pairFunc, error) {
	w, err := New(h)
	if err != nil {
		return nil, err
	}
	return func(x, y float64) (float64, float64, error) {
		c, err := w.PixelToWorld(Pixel{x, y})
		return c.Lon.Deg(), c.Lat.Deg(), err
	}, nil
}

func worldToPixel(h Header) (pairFunc, error) {
	w, err := New(h)
	if err != nil {
		return nil, err
	}
	return func(lon, lat float64) (float64, float64, error) {
		p, err := w.WorldToPixel(celestial(lon, lat))
		return p.X, p.Y, err
	}, nil
}

func native(phi, theta float64) Native {
	return Native{Phi: unit.AngleFromDeg(phi), Theta: unit.AngleFromDeg(theta)}
}

func celestial(lon, lat float64) coord.Sphr {
	return coord.Sphr{Lon: unit.AngleFromDeg(lon), Lat: unit.AngleFromDeg(lat)}
}

// PixToProj converts pixel coordinates to projection plane coordinates.
func PixToProj(x, y float64, h Header) (u, v float64, err error) {
	return call(pixToProj, h, x, y)
}

// ProjToPix converts projection plane coordinates to pixel coordinates.
func ProjToPix(u, v float64, h Header) (x, y float64, err error) {
	return call(projToPix, h, u, v)
}

// ProjToNatSph converts projection plane coordinates to native longitude
// phi and latitude theta.
func ProjToNatSph(u, v float64, h Header) (phi, theta float64, err error) {
	return call(projToNatSph, h, u, v)
}

// NatSphToProj converts native spherical coordinates to the projection
// plane.
func NatSphToProj(phi, theta float64, h Header) (u, v float64, err error) {
	return call(natSphToProj, h, phi, theta)
}

// NatSphToCelSph converts native spherical coordinates to celestial
// longitude and latitude.
func NatSphToCelSph(phi, theta float64, h Header) (lon, lat float64, err error) {
	return call(natSphToCelSph, h, phi, theta)
}

// CelSphToNatSph converts celestial coordinates to native spherical
// coordinates.
func CelSphToNatSph(lon, lat float64, h Header) (phi, theta float64, err error) {
	return call(celSphToNatSph, h, lon, lat)
}

// PixelToWorld converts pixel coordinates to celestial longitude and
// latitude.
func PixelToWorld(x, y float64, h Header) (lon, lat float64, err error) {
	return call(pixelToWorld, h, x, y)
}

// WorldToPixel converts celestial longitude and latitude to pixel
// coordinates.
func WorldToPixel(lon, lat float64, h Header) (x, y float64, err error) {
	return call(worldToPixel, h, lon, lat)
}

// PixToProjS is the slice form of PixToProj.
func PixToProjS(x, y []float64, h Header) (u, v []float64, err error) {
	return callS(pixToProj, h, x, y)
}

// ProjToPixS is the slice form of ProjToPix.
func ProjToPixS(u, v []float64, h Header) (x, y []float64, err error) {
	return callS(projToPix, h, u, v)
}

// ProjToNatSphS is the slice form of ProjToNatSph.
func ProjToNatSphS(u, v []float64, h Header) (phi, theta []float64, err error) {
	return callS(projToNatSph, h, u, v)
}

// NatSphToProjS is the slice form of NatSphToProj.
func NatSphToProjS(phi, theta []float64, h Header) (u, v []float64, err error) {
	return callS(natSphToProj, h, phi, theta)
}

// NatSphToCelSphS is the slice form of NatSphToCelSph.
func NatSphToCelSphS(phi, theta []float64, h Header) (lon, lat []float64, err error) {
	return callS(natSphToCelSph, h, phi, theta)
}

// CelSphToNatSphS is the slice form of CelSphToNatSph.
func CelSphToNatSphS(lon, lat []float64, h Header) (phi, theta []float64, err error) {
	return callS(celSphToNatSph, h, lon, lat)
}

// PixelToWorldS is the slice form of PixelToWorld. It stops at the first
// element that fails.
func PixelToWorldS(x, y []float64, h Header) (lon, lat []float64, err error) {
	return callS(pixelToWorld, h, x, y)
}

// WorldToPixelS is the slice form of WorldToPixel.
func WorldToPixelS(lon, lat []float64, h Header) (x, y []float64, err error) {
	return callS(worldToPixel, h, lon, lat)
}
