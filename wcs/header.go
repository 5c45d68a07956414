// Public domain.

package wcs

import (
	"strings"

	"github.com/spf13/cast"
	"golang.org/x/exp/slices"
)

// Header keywords read by this package.
const (
	KeyCRPix1 = "CRPIX1"
	KeyCRPix2 = "CRPIX2"
	KeyCD11   = "CD1_1"
	KeyCD12   = "CD1_2"
	KeyCD21   = "CD2_1"
	KeyCD22   = "CD2_2"
	KeyCRVal1 = "CRVAL1"
	KeyCRVal2 = "CRVAL2"
	KeyCType1 = "CTYPE1"
	KeyCType2 = "CTYPE2"
	KeyCUnit1 = "CUNIT1"
	KeyCUnit2 = "CUNIT2"
)

// Header maps image header keywords to values. Keywords match without
// regard to case, so both "CD1_1" and "cd1_1" work. Numeric values may be
// any type cast can convert to float64, including numeric strings.
// A keyword present under two case variants, neither exact, is an error.
type Header map[string]interface{}

// lookup prefers an exact match. Otherwise key must match exactly one
// keyword without regard to case.
func (h Header) lookup(key string) (interface{}, error) {
	if v, ok := h[key]; ok {
		return v, nil
	}
	var found []string
	for k := range h {
		if strings.EqualFold(k, key) {
			found = append(found, k)
		}
	}
	switch len(found) {
	case 0:
		return nil, &MissingKeyError{Key: key}
	case 1:
		return h[found[0]], nil
	}
	slices.Sort(found)
	return nil, &BadKeyError{Key: key, Value: found, Err: ErrAmbiguousKey}
}

// Float returns the numeric value of key.
func (h Header) Float(key string) (float64, error) {
	v, err := h.lookup(key)
	if err != nil {
		return 0, err
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, &BadKeyError{Key: key, Value: v, Err: err}
	}
	return f, nil
}

// String returns the string value of key with surrounding blanks removed.
func (h Header) String(key string) (string, error) {
	v, err := h.lookup(key)
	if err != nil {
		return "", err
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", &BadKeyError{Key: key, Value: v, Err: err}
	}
	return strings.TrimSpace(s), nil
}

// floats reads several numeric keywords, stopping at the first error.
func (h Header) floats(keys ...string) ([]float64, error) {
	f := make([]float64, len(keys))
	for i, k := range keys {
		var err error
		if f[i], err = h.Float(k); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Units returns CUNIT1 and CUNIT2, blank where absent.
//
// BUG: units are not applied. The CD matrix is taken to be in degrees per
// pixel and CRVAL in degrees whatever CUNIT says.
func (h Header) Units() (unit1, unit2 string) {
	unit1, _ = h.String(KeyCUnit1)
	unit2, _ = h.String(KeyCUnit2)
	return
}

// ParseCType splits a CTYPEi value such as "RA---TAN" into its coordinate
// system ("RA") and projection code ("TAN").
func ParseCType(ctype string) (coordSys, proj string) {
	parts := strings.Split(strings.TrimSpace(ctype), "-")
	return parts[0], parts[len(parts)-1]
}

// CoordSys returns the coordinate system names of both axes.
func (h Header) CoordSys() (sys1, sys2 string, err error) {
	ct1, err := h.String(KeyCType1)
	if err != nil {
		return "", "", err
	}
	ct2, err := h.String(KeyCType2)
	if err != nil {
		return "", "", err
	}
	sys1, _ = ParseCType(ct1)
	sys2, _ = ParseCType(ct2)
	return sys1, sys2, nil
}

// projectionCode returns the projection code shared by CTYPE1 and CTYPE2.
func (h Header) projectionCode() (string, error) {
	ct1, err := h.String(KeyCType1)
	if err != nil {
		return "", err
	}
	ct2, err := h.String(KeyCType2)
	if err != nil {
		return "", err
	}
	_, p1 := ParseCType(ct1)
	_, p2 := ParseCType(ct2)
	if p1 != p2 {
		return "", &ProjectionMismatchError{Axis1: p1, Axis2: p2}
	}
	return p1, nil
}
