package geometry

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrInsufficientPoints is returned by Kabsch when fewer than three point
// pairs are available or the two sets differ in length.
var ErrInsufficientPoints = errors.New("geometry: insufficient points for alignment")

// Alignment is the rigid transform produced by Kabsch: for a source point x,
// the superposed position is R·(x − SourceCentroid) + TargetCentroid.
//
// Citation: Kabsch, W. (1976). "A solution for the best rotation to relate
// two sets of vectors." Acta Cryst. A32: 922-923.
type Alignment struct {
	R              *mat.Dense // 3x3 proper rotation, det(R) = +1
	TargetCentroid r3.Vec
	SourceCentroid r3.Vec
}

// Apply transforms a single point through the alignment.
func (a *Alignment) Apply(p r3.Vec) r3.Vec {
	return r3.Add(mulVec(a.R, r3.Sub(p, a.SourceCentroid)), a.TargetCentroid)
}

// ApplyAll transforms a set of points through the alignment.
func (a *Alignment) ApplyAll(points []r3.Vec) []r3.Vec {
	out := make([]r3.Vec, len(points))
	for i, p := range points {
		out[i] = a.Apply(p)
	}
	return out
}

// Kabsch computes the optimal rigid superposition of source onto target,
// minimizing RMSD. Both sets must have the same length, N >= 3.
//
// The covariance H = Pc^T·Qc is decomposed by SVD; if the resulting rotation
// is improper (det < 0, a reflection) the last right-singular vector is
// negated and the rotation recomputed, guaranteeing det(R) = +1.
func Kabsch(source, target []r3.Vec) (*Alignment, error) {
	if len(source) != len(target) {
		return nil, fmt.Errorf("%w: %d vs %d points", ErrInsufficientPoints, len(source), len(target))
	}
	if len(source) < 3 {
		return nil, fmt.Errorf("%w: %d points", ErrInsufficientPoints, len(source))
	}

	cs := Centroid(source)
	ct := Centroid(target)

	// Covariance of the centered sets.
	h := mat.NewDense(3, 3, nil)
	for i := range source {
		p := r3.Sub(source[i], cs)
		q := r3.Sub(target[i], ct)
		pc := [3]float64{p.X, p.Y, p.Z}
		qc := [3]float64{q.X, q.Y, q.Z}
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				h.Set(r, c, h.At(r, c)+pc[r]*qc[c])
			}
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(h, mat.SVDFull); !ok {
		return nil, fmt.Errorf("geometry: SVD of covariance failed")
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	// Column-vector convention: with H = U·S·V^T, the rotation taking the
	// centered source onto the centered target is R = V·U^T, x' = R·x.
	var rot mat.Dense
	rot.Mul(&v, u.T())

	if mat.Det(&rot) < 0 {
		for r := 0; r < 3; r++ {
			v.Set(r, 2, -v.At(r, 2))
		}
		rot.Mul(&v, u.T())
	}

	return &Alignment{R: mat.DenseCopyOf(&rot), TargetCentroid: ct, SourceCentroid: cs}, nil
}

// RMSD returns the root-mean-square deviation between two equal-length point
// sets, without superposition. The result is undefined for empty input; this
// implementation returns NaN in that case.
func RMSD(p, q []r3.Vec) float64 {
	if len(p) == 0 || len(p) != len(q) {
		return math.NaN()
	}
	var sum float64
	for i := range p {
		d := r3.Sub(p[i], q[i])
		sum += r3.Dot(d, d)
	}
	return math.Sqrt(sum / float64(len(p)))
}

// Superpose aligns source onto target and returns the residual RMSD along
// with the alignment used.
func Superpose(source, target []r3.Vec) (*Alignment, float64, error) {
	a, err := Kabsch(source, target)
	if err != nil {
		return nil, math.Inf(1), err
	}
	return a, RMSD(a.ApplyAll(source), target), nil
}

// mulVec applies a 3x3 matrix to an r3.Vec.
func mulVec(m *mat.Dense, v r3.Vec) r3.Vec {
	return r3.Vec{
		X: m.At(0, 0)*v.X + m.At(0, 1)*v.Y + m.At(0, 2)*v.Z,
		Y: m.At(1, 0)*v.X + m.At(1, 1)*v.Y + m.At(1, 2)*v.Z,
		Z: m.At(2, 0)*v.X + m.At(2, 1)*v.Y + m.At(2, 2)*v.Z,
	}
}
