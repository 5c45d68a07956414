// Public domain.

package wcs

import (
	"math"

	"github.com/soniakeys/unit"
)

// Native is a position in native spherical coordinates.
type Native struct {
	Phi   unit.Angle // longitude
	Theta unit.Angle // latitude
}

// Projection maps between the projection plane and native spherical
// coordinates (Calabretta & Greisen 2002).
type Projection interface {
	// Code is the projection code found at the end of CTYPEi.
	Code() string
	Forward(q Plane) (Native, error)
	Inverse(n Native) (Plane, error)
	// PhiP is the native longitude of the celestial pole.
	PhiP() unit.Angle
}

// LookupProjection returns the projection for a CTYPE projection code.
// Only TAN is implemented.
func LookupProjection(code string) (Projection, error) {
	switch code {
	case "TAN":
		return Gnomonic{}, nil
	}
	return nil, &UnsupportedProjectionError{Code: code}
}

// ProjectionFromHeader looks up the projection named by CTYPE1 and CTYPE2.
func ProjectionFromHeader(h Header) (Projection, error) {
	code, err := h.projectionCode()
	if err != nil {
		return nil, err
	}
	return LookupProjection(code)
}

// Gnomonic is the zenithal tangent-plane projection, TAN.
type Gnomonic struct{}

// poleTol absorbs the rounding of 90° to radians.
const poleTol = 1e-15

func (Gnomonic) Code() string { return "TAN" }

func (Gnomonic) PhiP() unit.Angle { return math.Pi }

// Forward maps the projection plane to the sphere. The plane origin maps
// to the native pole, theta = 90°.
func (Gnomonic) Forward(q Plane) (Native, error) {
	u := unit.AngleFromDeg(q.U).Rad()
	v := unit.AngleFromDeg(q.V).Rad()
	phi := unit.Angle(math.Atan2(u, -v)) // C&G02 eq. 14
	r := math.Hypot(u, v)                // eq. 15
	if r == 0 {
		return Native{Phi: normalize(phi), Theta: math.Pi / 2}, nil
	}
	return Native{
		Phi:   normalize(phi),
		Theta: unit.Angle(math.Atan(1 / r)), // eq. 55
	}, nil
}

// Inverse maps the sphere to the projection plane. It fails at the native
// pole, where 1/tan(theta) is undefined, and for theta <= 0.
func (Gnomonic) Inverse(n Native) (Plane, error) {
	t := n.Theta.Rad()
	if math.Pi/2-math.Abs(t) <= poleTol {
		return Plane{}, &PoleSingularityError{Theta: n.Theta.Deg()}
	}
	if t <= 0 {
		return Plane{}, &HorizonError{Theta: n.Theta.Deg()}
	}
	st, ct := n.Theta.Sincos()
	r := ct / st // eq. 54
	sp, cp := n.Phi.Sincos()
	return Plane{
		U: unit.Angle(r * sp).Deg(),  // eq. 12
		V: unit.Angle(-r * cp).Deg(), // eq. 13
	}, nil
}

// normalize wraps a longitude into [0, 2π).
func normalize(a unit.Angle) unit.Angle {
	if a = a.Mod1(); a >= 2*math.Pi {
		a = 0
	}
	return a
}
