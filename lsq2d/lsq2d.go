// Public domain.

// Package lsq2d fits the bilinear model z = a*x + b*y to scattered samples
// by least squares.
package lsq2d

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrNoSolution is returned when the samples do not determine a unique
// a and b.
var ErrNoSolution = errors.New("lsq2d: no unique solution")

// LengthError reports sample slices of unequal length.
type LengthError struct {
	Lens []int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("lsq2d: sample slices have lengths %v", e.Lens)
}

func checkLen(s ...[]float64) error {
	for _, s1 := range s[1:] {
		if len(s1) != len(s[0]) {
			e := &LengthError{}
			for _, s2 := range s {
				e.Lens = append(e.Lens, len(s2))
			}
			return e
		}
	}
	return nil
}

// usable returns copies of the samples with x != y. w may be nil.
func usable(x, y, z, w []float64) (xs, ys, zs, ws []float64) {
	for i := range x {
		if x[i] == y[i] {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
		zs = append(zs, z[i])
		if w != nil {
			ws = append(ws, w[i])
		}
	}
	return
}

// Fit returns a and b minimizing sum((z - (a*x + b*y))^2).
//
// Samples with x == y are ignored. ErrNoSolution is returned when no
// samples remain or the normal equations are singular.
func Fit(x, y, z []float64) (a, b float64, err error) {
	if err = checkLen(x, y, z); err != nil {
		return
	}
	x, y, z, _ = usable(x, y, z, nil)
	if len(x) == 0 {
		return 0, 0, ErrNoSolution
	}
	// normal equations:
	//   a*sx  + b*sxy = sxz
	//   a*sxy + b*sy  = syz
	sx, sxy, sxz := floats.Dot(x, x), floats.Dot(x, y), floats.Dot(x, z)
	sy, syz := floats.Dot(y, y), floats.Dot(y, z)
	if sy == 0 || sxy == 0 {
		return 0, 0, ErrNoSolution
	}
	d := sx - sxy*sxy/sy
	if d == 0 {
		return 0, 0, ErrNoSolution
	}
	a = (sxz - sxy*syz/sy) / d
	b = (sxz - a*sx) / sxy
	if !finite(a) || !finite(b) {
		return 0, 0, ErrNoSolution
	}
	return a, b, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Solution represents a weighted fit of z = A*x + B*y.
// It keeps the samples used so it can report residuals.
type Solution struct {
	A, B float64
	// Cov is the covariance of (A, B), the inverse of the weighted
	// normal matrix.
	Cov *mat.Dense

	x, y, z, w []float64
}

// FitWeighted minimizes sum(w * (z - (a*x + b*y))^2).
//
// As with Fit, samples with x == y are ignored. Weights must not be
// negative. A nil w weights every sample equally.
func FitWeighted(x, y, z, w []float64) (*Solution, error) {
	if w == nil {
		w = make([]float64, len(x))
		for i := range w {
			w[i] = 1
		}
	}
	if err := checkLen(x, y, z, w); err != nil {
		return nil, err
	}
	if i := slices.IndexFunc(w, func(v float64) bool { return !(v >= 0) }); i >= 0 {
		return nil, fmt.Errorf("lsq2d: invalid weight %g for sample %d", w[i], i)
	}
	x, y, z, w = usable(x, y, z, w)
	n := len(x)
	if n == 0 {
		return nil, ErrNoSolution
	}

	// (G^t W G) p = G^t W z
	G := mat.NewDense(n, 2, nil)
	G.SetCol(0, x)
	G.SetCol(1, y)
	var WG mat.Dense
	WG.Mul(mat.NewDiagDense(n, w), G)
	var A mat.Dense
	A.Mul(G.T(), &WG)
	var b mat.VecDense
	b.MulVec(WG.T(), mat.NewVecDense(n, z))

	var p mat.VecDense
	if err := p.SolveVec(&A, &b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSolution, err)
	}
	var cov mat.Dense
	if err := cov.Inverse(&A); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSolution, err)
	}
	return &Solution{
		A: p.AtVec(0), B: p.AtVec(1),
		Cov: &cov,
		x:   x, y: y, z: z, w: w,
	}, nil
}

// Z evaluates the fitted model at (x, y).
func (s *Solution) Z(x, y float64) float64 {
	return s.A*x + s.B*y
}

// Res returns residuals, observed minus computed, for the samples used in
// the fit.
func (s *Solution) Res() []float64 {
	res := make([]float64, len(s.z))
	for i, z1 := range s.z {
		res[i] = z1 - s.Z(s.x[i], s.y[i])
	}
	return res
}

// RmsRes returns the weighted rms of the residuals along with the
// residuals themselves.
func (s *Solution) RmsRes() (float64, []float64) {
	res := s.Res()
	sq := make([]float64, len(res))
	for i, r1 := range res {
		sq[i] = r1 * r1
	}
	return math.Sqrt(floats.Dot(s.w, sq) / floats.Sum(s.w)), res
}

// Rms returns just the rms, as documented at RmsRes.
func (s *Solution) Rms() float64 {
	rms, _ := s.RmsRes()
	return rms
}
