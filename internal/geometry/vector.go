// Package geometry provides the vector and rigid-alignment primitives used
// throughout base-pair identification: unit-vector operations, rotation about
// an arbitrary axis, and SVD-based optimal superposition (Kabsch).
//
// All positions and directions are gonum r3.Vec values with coordinates in
// Angstroms. Angles cross package boundaries in degrees.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// degenerateNorm is the vector length below which normalization is a no-op.
const degenerateNorm = 1e-10

// Normalize returns v scaled to unit length. Vectors shorter than 1e-10 are
// returned unchanged so that degenerate geometry propagates as zero vectors
// rather than NaNs.
func Normalize(v r3.Vec) r3.Vec {
	if r3.Norm(v) < degenerateNorm {
		return v
	}
	return r3.Unit(v)
}

// AngleBetween returns the angle between u and v in degrees, in [0, 180].
// The dot product is clamped to [-1, 1] before the arccos so that rounding
// on nearly parallel vectors cannot produce NaN.
func AngleBetween(u, v r3.Vec) float64 {
	dot := r3.Dot(Normalize(u), Normalize(v))
	return math.Acos(clamp(dot, -1, 1)) * 180 / math.Pi
}

// RotateAboutAxis rotates v by deg degrees about the given axis using the
// Rodrigues rotation (via gonum's quaternion-backed r3.Rotation). The axis
// need not be unit length.
func RotateAboutAxis(v, axis r3.Vec, deg float64) r3.Vec {
	rot := r3.NewRotation(deg*math.Pi/180, axis)
	return rot.Rotate(v)
}

// Centroid returns the mean of the given points. An empty slice yields NaN
// components; callers are expected to have checked point counts already.
func Centroid(points []r3.Vec) r3.Vec {
	var sum r3.Vec
	for _, p := range points {
		sum = r3.Add(sum, p)
	}
	return r3.Scale(1/float64(len(points)), sum)
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b r3.Vec) float64 {
	return r3.Norm(r3.Sub(a, b))
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
