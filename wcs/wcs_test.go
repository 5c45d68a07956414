// Public domain.

package wcs_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/jesaerys/skygeom/wcs"
)

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// angleNear compares longitudes modulo 360.
func angleNear(a, b, tol float64) bool {
	d := math.Mod(a-b, 360)
	return math.Abs(d) <= tol || math.Abs(math.Abs(d)-360) <= tol
}

func m31() wcs.Header {
	return wcs.Header{
		"CTYPE1": "RA---TAN", "CTYPE2": "DEC--TAN",
		"CRPIX1": 512.0, "CRPIX2": 256.0,
		"CRVAL1": 10.684708, "CRVAL2": 41.26875,
		"CD1_1": -2.8e-4, "CD1_2": 0.0,
		"CD2_1": 0.0, "CD2_2": 2.8e-4,
	}
}

var headers = map[string]wcs.Header{
	"m31": m31(),
	"southPole": {
		"CTYPE1": "RA---TAN", "CTYPE2": "DEC--TAN",
		"CRPIX1": 100.5, "CRPIX2": -20.0,
		"CRVAL1": 359.9, "CRVAL2": -89.5,
		"CD1_1": -1e-3, "CD1_2": 2e-4,
		"CD2_1": 3e-4, "CD2_2": 1.1e-3,
	},
	"galactic": {
		"CTYPE1": "GLON-TAN", "CTYPE2": "GLAT-TAN",
		"CRPIX1": 0, "CRPIX2": 0,
		"CRVAL1": 0, "CRVAL2": 0,
		"CD1_1": 0.01, "CD1_2": 0.005,
		"CD2_1": -0.005, "CD2_2": 0.01,
	},
}

var pixels = []wcs.Pixel{
	{0, 0}, {1, 1}, {1000, -300}, {513, 257}, {-250, 1200}, {10, 5000},
}

func TestRoundTrip(t *testing.T) {
	for name, h := range headers {
		crpix1, _ := h.Float("CRPIX1")
		crpix2, _ := h.Float("CRPIX2")
		for _, p := range pixels {
			if p.X == crpix1 && p.Y == crpix2 {
				continue
			}
			lon, lat, err := wcs.PixelToWorld(p.X, p.Y, h)
			if err != nil {
				t.Fatalf("%s %v: %v", name, p, err)
			}
			x, y, err := wcs.WorldToPixel(lon, lat, h)
			if err != nil {
				t.Fatalf("%s %v: %v", name, p, err)
			}
			if !near(x, p.X, 1e-9) || !near(y, p.Y, 1e-9) {
				t.Errorf("%s: %v -> (%.12f, %.12f) -> (%.12f, %.12f)",
					name, p, lon, lat, x, y)
			}
		}
	}
}

func TestLinearInverse(t *testing.T) {
	for name, h := range headers {
		for _, p := range pixels {
			u, v, err := wcs.PixToProj(p.X, p.Y, h)
			if err != nil {
				t.Fatal(err)
			}
			x, y, err := wcs.ProjToPix(u, v, h)
			if err != nil {
				t.Fatal(err)
			}
			if !near(x, p.X, 1e-9) || !near(y, p.Y, 1e-9) {
				t.Errorf("%s: %v -> (%g, %g)", name, p, x, y)
			}
		}
	}
}

func TestLinearNeedsNoCType(t *testing.T) {
	h := wcs.Header{
		"CRPIX1": 1, "CRPIX2": 1,
		"CD1_1": 2, "CD1_2": 0, "CD2_1": 0, "CD2_2": 3,
	}
	u, v, err := wcs.PixToProj(2, 3, h)
	if err != nil {
		t.Fatal(err)
	}
	if u != 2 || v != 6 {
		t.Errorf("got (%g, %g), want (2, 6)", u, v)
	}
}

func TestTangentPoint(t *testing.T) {
	h := m31()
	u, v, err := wcs.PixToProj(512, 256, h)
	if err != nil {
		t.Fatal(err)
	}
	if u != 0 || v != 0 {
		t.Fatalf("reference pixel projects to (%g, %g)", u, v)
	}
	_, theta, err := wcs.ProjToNatSph(u, v, h)
	if err != nil {
		t.Fatal(err)
	}
	if theta != 90 {
		t.Errorf("theta = %v, want 90", theta)
	}
	lon, lat, err := wcs.PixelToWorld(512, 256, h)
	if err != nil {
		t.Fatal(err)
	}
	if !near(lon, 10.684708, 1e-12) || !near(lat, 41.26875, 1e-12) {
		t.Errorf("reference pixel maps to (%v, %v)", lon, lat)
	}
}

func TestKnownValue(t *testing.T) {
	// One degree west of the tangent point along the equator.
	h := wcs.Header{
		"CTYPE1": "RA---TAN", "CTYPE2": "DEC--TAN",
		"CRPIX1": 0, "CRPIX2": 0, "CRVAL1": 0, "CRVAL2": 0,
		"CD1_1": -1, "CD1_2": 0, "CD2_1": 0, "CD2_2": 1,
	}
	lon, lat, err := wcs.PixelToWorld(1, 0, h)
	if err != nil {
		t.Fatal(err)
	}
	want := 360 - math.Atan(math.Pi/180)*180/math.Pi
	if !near(lon, want, 1e-12) || !near(lat, 0, 1e-12) {
		t.Errorf("got (%v, %v), want (%v, 0)", lon, lat, want)
	}
}

func TestLongitudeRange(t *testing.T) {
	h := headers["southPole"]
	for _, p := range pixels {
		lon, _, err := wcs.PixelToWorld(p.X, p.Y, h)
		if err != nil {
			t.Fatal(err)
		}
		if lon < 0 || lon >= 360 {
			t.Errorf("%v: longitude %v out of range", p, lon)
		}
		phi, _, err := wcs.CelSphToNatSph(lon, -89, h)
		if err != nil {
			t.Fatal(err)
		}
		if phi < 0 || phi >= 360 {
			t.Errorf("%v: phi %v out of range", p, phi)
		}
	}
}

func TestStagesCompose(t *testing.T) {
	h := m31()
	u, v, _ := wcs.PixToProj(700, 100, h)
	phi, theta, err := wcs.ProjToNatSph(u, v, h)
	if err != nil {
		t.Fatal(err)
	}
	lon, lat, err := wcs.NatSphToCelSph(phi, theta, h)
	if err != nil {
		t.Fatal(err)
	}
	lon2, lat2, err := wcs.PixelToWorld(700, 100, h)
	if err != nil {
		t.Fatal(err)
	}
	if !angleNear(lon, lon2, 1e-12) || !near(lat, lat2, 1e-12) {
		t.Errorf("stages give (%v, %v), pipeline (%v, %v)", lon, lat, lon2, lat2)
	}
	phi2, theta2, err := wcs.CelSphToNatSph(lon, lat, h)
	if err != nil {
		t.Fatal(err)
	}
	if !angleNear(phi, phi2, 1e-9) || !near(theta, theta2, 1e-9) {
		t.Errorf("native (%v, %v) came back as (%v, %v)", phi, theta, phi2, theta2)
	}
	u2, v2, err := wcs.NatSphToProj(phi2, theta2, h)
	if err != nil {
		t.Fatal(err)
	}
	if !near(u, u2, 1e-12) || !near(v, v2, 1e-12) {
		t.Errorf("plane (%v, %v) came back as (%v, %v)", u, v, u2, v2)
	}
}

func TestUnsupportedProjection(t *testing.T) {
	h := m31()
	h["CTYPE1"] = "RA---SIN"
	h["CTYPE2"] = "DEC--SIN"
	_, _, err := wcs.PixelToWorld(1, 1, h)
	var ue *wcs.UnsupportedProjectionError
	if !errors.As(err, &ue) {
		t.Fatalf("got %v, want UnsupportedProjectionError", err)
	}
	if ue.Code != "SIN" {
		t.Errorf("code = %q, want SIN", ue.Code)
	}
	if _, _, err = wcs.NatSphToProj(0, 45, h); !errors.As(err, &ue) {
		t.Errorf("NatSphToProj: got %v", err)
	}
}

func TestProjectionMismatch(t *testing.T) {
	h := m31()
	h["CTYPE2"] = "DEC--SIN"
	_, _, err := wcs.ProjToNatSph(0.1, 0.1, h)
	var me *wcs.ProjectionMismatchError
	if !errors.As(err, &me) {
		t.Fatalf("got %v, want ProjectionMismatchError", err)
	}
	if me.Axis1 != "TAN" || me.Axis2 != "SIN" {
		t.Errorf("got %+v", me)
	}
}

func TestMissingKey(t *testing.T) {
	h := m31()
	delete(h, "CD1_1")
	_, _, err := wcs.PixelToWorld(1, 1, h)
	var mk *wcs.MissingKeyError
	if !errors.As(err, &mk) {
		t.Fatalf("got %v, want MissingKeyError", err)
	}
	if mk.Key != "CD1_1" {
		t.Errorf("key = %q, want CD1_1", mk.Key)
	}
}

func TestSingular(t *testing.T) {
	h := m31()
	h["CD1_1"], h["CD1_2"] = 1.0, 2.0
	h["CD2_1"], h["CD2_2"] = 2.0, 4.0
	var se *wcs.SingularTransformError
	if _, _, err := wcs.ProjToPix(0.1, 0.2, h); !errors.As(err, &se) {
		t.Fatalf("ProjToPix: got %v, want SingularTransformError", err)
	}
	if se.Det != 0 {
		t.Errorf("det = %v", se.Det)
	}
	if _, _, err := wcs.WorldToPixel(10.7, 41.3, h); !errors.As(err, &se) {
		t.Errorf("WorldToPixel: got %v, want SingularTransformError", err)
	}
}

func TestPoleSingularity(t *testing.T) {
	h := m31()
	var pe *wcs.PoleSingularityError
	for _, theta := range []float64{90, -90} {
		if _, _, err := wcs.NatSphToProj(30, theta, h); !errors.As(err, &pe) {
			t.Errorf("theta %v: got %v, want PoleSingularityError", theta, err)
		}
	}
	// The reference point is the native pole, yet the pipeline inverts it.
	x, y, err := wcs.WorldToPixel(10.684708, 41.26875, h)
	if err != nil || x != 512 || y != 256 {
		t.Errorf("WorldToPixel at CRVAL = %v, %v, %v", x, y, err)
	}
	lon, lat, err := wcs.PixelToWorld(512, 256, h)
	if err != nil {
		t.Fatal(err)
	}
	if x, y, err = wcs.WorldToPixel(lon, lat, h); err != nil || !near(x, 512, 1e-9) || !near(y, 256, 1e-9) {
		t.Errorf("CRPIX round trip = %v, %v, %v", x, y, err)
	}
	var he *wcs.HorizonError
	if _, _, err := wcs.NatSphToProj(30, -10, h); !errors.As(err, &he) {
		t.Errorf("got %v, want HorizonError", err)
	}
}

func TestCaseInsensitive(t *testing.T) {
	lower := wcs.Header{}
	for k, v := range m31() {
		lower[k] = v
	}
	for _, k := range []string{"CD1_1", "CD2_2", "CRVAL1", "CRPIX2", "CTYPE1"} {
		v := lower[k]
		delete(lower, k)
		lower[strings.ToLower(k)] = v
	}
	lon1, lat1, err := wcs.PixelToWorld(10, 20, m31())
	if err != nil {
		t.Fatal(err)
	}
	lon2, lat2, err := wcs.PixelToWorld(10, 20, lower)
	if err != nil {
		t.Fatal(err)
	}
	if lon1 != lon2 || lat1 != lat2 {
		t.Errorf("(%v, %v) != (%v, %v)", lon1, lat1, lon2, lat2)
	}
}

func TestAmbiguousKey(t *testing.T) {
	h := m31()
	delete(h, "CD1_1")
	h["cd1_1"] = -2.8e-4
	h["Cd1_1"] = 2.8e-4
	var be *wcs.BadKeyError
	for i := 0; i < 10; i++ {
		_, err := h.Float("CD1_1")
		if !errors.As(err, &be) || !errors.Is(err, wcs.ErrAmbiguousKey) {
			t.Fatalf("got %v, want ambiguous BadKeyError", err)
		}
	}
	if _, _, err := wcs.PixelToWorld(1, 1, h); !errors.Is(err, wcs.ErrAmbiguousKey) {
		t.Errorf("PixelToWorld: got %v", err)
	}
	// An exact match wins over case variants.
	if f, err := h.Float("cd1_1"); err != nil || f != -2.8e-4 {
		t.Errorf("cd1_1 = %v, %v", f, err)
	}
}

func TestHeaderValues(t *testing.T) {
	h := wcs.Header{"CRPIX1": "512", "CRPIX2": int64(3), "CD1_1": "abc"}
	if f, err := h.Float("crpix1"); err != nil || f != 512 {
		t.Errorf("CRPIX1 = %v, %v", f, err)
	}
	if f, err := h.Float("CRPIX2"); err != nil || f != 3 {
		t.Errorf("CRPIX2 = %v, %v", f, err)
	}
	var be *wcs.BadKeyError
	if _, err := h.Float("CD1_1"); !errors.As(err, &be) {
		t.Errorf("got %v, want BadKeyError", err)
	}
	u1, u2 := wcs.Header{"CUNIT1": "deg"}.Units()
	if u1 != "deg" || u2 != "" {
		t.Errorf("units %q %q", u1, u2)
	}
}

func TestParseCType(t *testing.T) {
	for _, c := range []struct{ in, sys, proj string }{
		{"RA---TAN", "RA", "TAN"},
		{"DEC--TAN", "DEC", "TAN"},
		{"GLON-SIN", "GLON", "SIN"},
		{" RA---TAN ", "RA", "TAN"},
	} {
		sys, proj := wcs.ParseCType(c.in)
		if sys != c.sys || proj != c.proj {
			t.Errorf("%q: got %q %q", c.in, sys, proj)
		}
	}
}

func TestSlices(t *testing.T) {
	h := m31()
	x := []float64{0, 100, 1000}
	y := []float64{0, 900, -50}
	lon, lat, err := wcs.PixelToWorldS(x, y, h)
	if err != nil {
		t.Fatal(err)
	}
	for i := range x {
		l1, l2, _ := wcs.PixelToWorld(x[i], y[i], h)
		if lon[i] != l1 || lat[i] != l2 {
			t.Errorf("element %d differs", i)
		}
	}
	x2, y2, err := wcs.WorldToPixelS(lon, lat, h)
	if err != nil {
		t.Fatal(err)
	}
	for i := range x {
		if !near(x2[i], x[i], 1e-9) || !near(y2[i], y[i], 1e-9) {
			t.Errorf("element %d: (%v, %v)", i, x2[i], y2[i])
		}
	}
	var le *wcs.LengthError
	if _, _, err := wcs.PixToProjS(x, y[:2], h); !errors.As(err, &le) {
		t.Errorf("got %v, want LengthError", err)
	}
	var pe *wcs.PoleSingularityError
	if _, _, err := wcs.NatSphToProjS([]float64{0, 0}, []float64{45, 90}, h); !errors.As(err, &pe) {
		t.Errorf("got %v, want PoleSingularityError", err)
	}
}

func TestNew(t *testing.T) {
	w, err := wcs.New(m31())
	if err != nil {
		t.Fatal(err)
	}
	if w.CoordSys != [2]string{"RA", "DEC"} {
		t.Errorf("coordinate systems %v", w.CoordSys)
	}
	if w.Projection.Code() != "TAN" {
		t.Errorf("projection %s", w.Projection.Code())
	}
	c, err := w.PixelToWorld(wcs.Pixel{X: 600, Y: 300})
	if err != nil {
		t.Fatal(err)
	}
	p, err := w.WorldToPixel(c)
	if err != nil {
		t.Fatal(err)
	}
	if !near(p.X, 600, 1e-9) || !near(p.Y, 300, 1e-9) {
		t.Errorf("got %v", p)
	}
}
