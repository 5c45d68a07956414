// Public domain.

// Package sparea computes the area of polygons on a sphere.
//
// The method follows Chamberlain & Duquette, "Some algorithms for polygons
// on a sphere" (JPL, 2007): each edge forms a spherical triangle with the
// south pole, L'Huilier's theorem gives the triangle's spherical excess,
// and the signed excesses sum to the polygon area.
package sparea

import (
	"fmt"
	"math"

	"github.com/soniakeys/coord"
	"github.com/soniakeys/unit"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/floats"
)

// Units selects the angular unit of vertex coordinates and of the result.
type Units int

const (
	Degrees Units = iota // vertices in degrees, area in square degrees
	Radians              // vertices in radians, area in steradians times R²
)

// InvalidPolygonError reports a polygon Area cannot measure.
type InvalidPolygonError struct {
	Reason string
}

func (e *InvalidPolygonError) Error() string {
	return "sparea: invalid polygon: " + e.Reason
}

// GCDist returns the great circle distance between two points.
func GCDist(lon1, lat1, lon2, lat2 unit.Angle) unit.Angle {
	var a, b, n coord.Cart
	a.FromSphr(&coord.Sphr{Lon: lon1, Lat: lat1})
	b.FromSphr(&coord.Sphr{Lon: lon2, Lat: lat2})
	n.Cross(&a, &b)
	return unit.Angle(math.Atan2(math.Sqrt(n.Square()), a.Dot(&b)))
}

// Area returns the area of the polygon with vertices lon, lat on a sphere
// of radius r.
//
// The polygon may be given closed, with the first vertex repeated at the
// end, or open. It must not contain a pole. Area checks for a vertex at a
// pole and for edges winding once around a pole, but the check is not
// exhaustive.
//
// The result does not depend on vertex order. Edges are taken the short
// way around in longitude.
func Area(lon, lat []float64, r float64, u Units) (float64, error) {
	if len(lon) != len(lat) {
		return 0, &InvalidPolygonError{fmt.Sprintf("%d longitudes, %d latitudes", len(lon), len(lat))}
	}
	if !(r > 0) {
		return 0, fmt.Errorf("sparea: radius %g is not positive", r)
	}
	if len(lon) == 0 {
		return 0, &InvalidPolygonError{"no vertices"}
	}
	lon, lat = slices.Clone(lon), slices.Clone(lat)
	if u == Degrees {
		for i := range lon {
			lon[i] = unit.AngleFromDeg(lon[i]).Rad()
			lat[i] = unit.AngleFromDeg(lat[i]).Rad()
		}
	}
	lon, lat = distinct(lon, lat)
	if len(lon) < 3 {
		return 0, &InvalidPolygonError{fmt.Sprintf("%d distinct vertices", len(lon))}
	}
	if err := checkPoles(lon, lat); err != nil {
		return 0, err
	}
	if greatCircle(lon, lat) {
		return 0, &InvalidPolygonError{"vertices lie on one great circle"}
	}
	lon = append(lon, lon[0])
	lat = append(lat, lat[0])

	e := make([]float64, len(lon)-1)
	for i := range e {
		e[i] = excess(lon[i], lat[i], lon[i+1], lat[i+1])
	}
	a := math.Abs(floats.Sum(e)) * r * r
	if u == Degrees {
		d := unit.Angle(1).Deg()
		a *= d * d
	}
	return a, nil
}

// excess returns the signed spherical excess of the triangle formed by an
// edge and the south pole. Sign is positive when longitude decreases along
// the edge.
func excess(lon1, lat1, lon2, lat2 float64) float64 {
	l := GCDist(unit.Angle(lon1), unit.Angle(lat1), unit.Angle(lon2), unit.Angle(lat2)).Rad()
	// sides are l and the two polar distances pi/2 + lat
	s := .5 * (l + math.Pi + lat1 + lat2)
	// rounding can leave these slightly negative
	t1 := math.Max(0, (s-(math.Pi/2+lat1))/2)
	t2 := math.Max(0, (s-(math.Pi/2+lat2))/2)
	p := math.Tan(s/2) * math.Tan((s-l)/2) * math.Tan(t1) * math.Tan(t2)
	e := 4 * math.Atan(math.Sqrt(math.Max(0, p)))
	if dLon(lon1, lon2) < 0 {
		return e
	}
	return -e
}

// dLon returns lon2 - lon1 wrapped to [-π, π].
func dLon(lon1, lon2 float64) float64 {
	return math.Remainder(lon2-lon1, 2*math.Pi)
}

// same reports whether two vertices, in radians, are the same point.
func same(lon1, lat1, lon2, lat2 float64) bool {
	return lat1 == lat2 && (dLon(lon1, lon2) == 0 || math.Abs(lat1) == math.Pi/2)
}

// distinct drops repeated consecutive vertices, including a closing vertex
// equal to the first. It filters in place.
func distinct(lon, lat []float64) ([]float64, []float64) {
	n := 0
	for i := range lon {
		if n > 0 && same(lon[n-1], lat[n-1], lon[i], lat[i]) {
			continue
		}
		lon[n], lat[n] = lon[i], lat[i]
		n++
	}
	for n > 1 && same(lon[n-1], lat[n-1], lon[0], lat[0]) {
		n--
	}
	return lon[:n], lat[:n]
}

// greatCircle reports whether all vertices lie on one great circle, which
// leaves the polygon without interior.
func greatCircle(lon, lat []float64) bool {
	v := make([]coord.Cart, len(lon))
	for i := range v {
		v[i].FromSphr(&coord.Sphr{Lon: unit.Angle(lon[i]), Lat: unit.Angle(lat[i])})
	}
	// normal from the vertex farthest from parallel to the first
	var n, c coord.Cart
	for i := 1; i < len(v); i++ {
		if c.Cross(&v[0], &v[i]); c.Square() > n.Square() {
			n = c
		}
	}
	if n.Square() == 0 {
		return true
	}
	n.MulScalar(&n, 1/math.Sqrt(n.Square()))
	for i := range v {
		if math.Abs(n.Dot(&v[i])) > 1e-14 {
			return false
		}
	}
	return true
}

// checkPoles takes an open polygon in radians.
func checkPoles(lon, lat []float64) error {
	var wind float64
	for i := range lat {
		if math.IsNaN(lon[i]) || math.IsNaN(lat[i]) {
			return &InvalidPolygonError{fmt.Sprintf("vertex %d is NaN", i)}
		}
		if math.Abs(lat[i]) >= math.Pi/2 {
			return &InvalidPolygonError{fmt.Sprintf("vertex %d is at a pole", i)}
		}
		wind += dLon(lon[i], lon[(i+1)%len(lon)])
	}
	// wind is 0 for a polygon clear of the poles, ±2π around one.
	if math.Abs(wind) > math.Pi {
		return &InvalidPolygonError{"polygon contains a pole"}
	}
	return nil
}
