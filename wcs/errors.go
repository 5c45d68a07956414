// Public domain.

package wcs

import (
	"errors"
	"fmt"
)

// ErrAmbiguousKey is wrapped by BadKeyError when a header holds one
// keyword under more than one case variant and none matches exactly.
var ErrAmbiguousKey = errors.New("keyword appears in more than one case")

// MissingKeyError reports a required header keyword that is absent.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("wcs: missing header keyword %s", e.Key)
}

// BadKeyError reports a header keyword whose value has the wrong type.
type BadKeyError struct {
	Key   string
	Value interface{}
	Err   error
}

func (e *BadKeyError) Error() string {
	return fmt.Sprintf("wcs: bad value %v for header keyword %s: %v", e.Value, e.Key, e.Err)
}

func (e *BadKeyError) Unwrap() error { return e.Err }

// SingularTransformError reports a CD matrix with zero determinant.
type SingularTransformError struct {
	Det float64
	CD  [2][2]float64
}

func (e *SingularTransformError) Error() string {
	return fmt.Sprintf("wcs: CD matrix %v is singular (determinant %g)", e.CD, e.Det)
}

// PoleSingularityError reports a native latitude at a pole, where the
// inverse gnomonic projection is undefined.
type PoleSingularityError struct {
	Theta float64 // degrees
}

func (e *PoleSingularityError) Error() string {
	return fmt.Sprintf("wcs: native latitude %g is at the pole", e.Theta)
}

// HorizonError reports a native latitude on or beyond the horizon of the
// tangent plane. Such points have no gnomonic projection.
type HorizonError struct {
	Theta float64 // degrees
}

func (e *HorizonError) Error() string {
	return fmt.Sprintf("wcs: native latitude %g is not above the horizon", e.Theta)
}

// UnsupportedProjectionError names a projection code other than TAN.
type UnsupportedProjectionError struct {
	Code string
}

func (e *UnsupportedProjectionError) Error() string {
	return fmt.Sprintf("wcs: unsupported projection %q", e.Code)
}

// ProjectionMismatchError reports CTYPE1 and CTYPE2 naming different
// projections.
type ProjectionMismatchError struct {
	Axis1, Axis2 string
}

func (e *ProjectionMismatchError) Error() string {
	return fmt.Sprintf("wcs: CTYPE1 projection %q does not match CTYPE2 projection %q",
		e.Axis1, e.Axis2)
}

// LengthError reports coordinate slices of unequal length.
type LengthError struct {
	Len1, Len2 int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("wcs: coordinate slices have lengths %d and %d", e.Len1, e.Len2)
}
