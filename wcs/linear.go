// Public domain.

package wcs

// Pixel is a position in pixel coordinates.
type Pixel struct {
	X, Y float64
}

// Plane is a position on the projection plane, in degrees.
type Plane struct {
	U, V float64
}

// Linear is the affine map between pixel coordinates and the projection
// plane (Greisen & Calabretta 2002, eq. 3).
type Linear struct {
	CRPix Pixel         // reference pixel
	CD    [2][2]float64 // degrees per pixel
}

// LinearFromHeader reads CRPIX1, CRPIX2 and the CDi_j matrix.
func LinearFromHeader(h Header) (*Linear, error) {
	f, err := h.floats(KeyCRPix1, KeyCRPix2, KeyCD11, KeyCD12, KeyCD21, KeyCD22)
	if err != nil {
		return nil, err
	}
	return &Linear{
		CRPix: Pixel{f[0], f[1]},
		CD:    [2][2]float64{{f[2], f[3]}, {f[4], f[5]}},
	}, nil
}

// Det returns the determinant of the CD matrix.
func (l *Linear) Det() float64 {
	return l.CD[0][0]*l.CD[1][1] - l.CD[0][1]*l.CD[1][0]
}

// Forward maps a pixel to the projection plane.
func (l *Linear) Forward(p Pixel) Plane {
	dx := p.X - l.CRPix.X
	dy := p.Y - l.CRPix.Y
	return Plane{
		U: l.CD[0][0]*dx + l.CD[0][1]*dy,
		V: l.CD[1][0]*dx + l.CD[1][1]*dy,
	}
}

// Inverse maps a projection plane position back to a pixel.
// It fails with SingularTransformError if the CD matrix has no inverse.
func (l *Linear) Inverse(q Plane) (Pixel, error) {
	c := l.Det()
	if c == 0 {
		return Pixel{}, &SingularTransformError{Det: c, CD: l.CD}
	}
	return Pixel{
		X: (l.CD[1][1]*q.U-l.CD[0][1]*q.V)/c + l.CRPix.X,
		Y: (-l.CD[1][0]*q.U+l.CD[0][0]*q.V)/c + l.CRPix.Y,
	}, nil
}
