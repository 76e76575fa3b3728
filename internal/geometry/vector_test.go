package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestNormalize(t *testing.T) {
	v := Normalize(r3.Vec{X: 3, Y: 4, Z: 0})
	assert.InDelta(t, 1.0, r3.Norm(v), 1e-12)
	assert.InDelta(t, 0.6, v.X, 1e-12)
	assert.InDelta(t, 0.8, v.Y, 1e-12)
}

func TestNormalizeIdempotent(t *testing.T) {
	v := r3.Vec{X: -2.3, Y: 0.7, Z: 5.1}
	once := Normalize(v)
	twice := Normalize(once)
	assert.InDelta(t, 0, r3.Norm(r3.Sub(once, twice)), 1e-12)
}

func TestNormalizeDegenerate(t *testing.T) {
	// Below the degeneracy threshold the vector passes through unchanged.
	v := r3.Vec{X: 1e-12, Y: 0, Z: 0}
	assert.Equal(t, v, Normalize(v))
}

func TestAngleBetween(t *testing.T) {
	x := r3.Vec{X: 1}
	y := r3.Vec{Y: 1}

	assert.InDelta(t, 90, AngleBetween(x, y), 1e-9)
	assert.InDelta(t, 0, AngleBetween(x, x), 1e-9)
	assert.InDelta(t, 180, AngleBetween(x, r3.Scale(-1, x)), 1e-9)

	// Nearly parallel vectors must not produce NaN from arccos rounding.
	almost := r3.Vec{X: 1, Y: 1e-13, Z: 0}
	got := AngleBetween(x, almost)
	assert.False(t, math.IsNaN(got))
	assert.InDelta(t, 0, got, 1e-5)
}

func TestRotateAboutAxis(t *testing.T) {
	v := r3.Vec{X: 1}
	z := r3.Vec{Z: 1}

	rotated := RotateAboutAxis(v, z, 90)
	assert.InDelta(t, 0, rotated.X, 1e-12)
	assert.InDelta(t, 1, rotated.Y, 1e-12)

	// 120 degree rotations mirror the sp2 amino slot construction.
	r120 := RotateAboutAxis(v, z, 120)
	assert.InDelta(t, 120, AngleBetween(v, r120), 1e-9)
}

func TestRotateAboutAxisRoundTrip(t *testing.T) {
	v := r3.Vec{X: 0.3, Y: -1.2, Z: 2.5}
	axis := r3.Vec{X: 1, Y: 1, Z: -0.5}

	back := RotateAboutAxis(RotateAboutAxis(v, axis, 73.4), axis, -73.4)
	assert.InDelta(t, 0, r3.Norm(r3.Sub(v, back)), 1e-9)
}

func TestCentroid(t *testing.T) {
	c := Centroid([]r3.Vec{{X: 1}, {X: 3}, {Y: 2}, {Y: -2}})
	assert.InDelta(t, 1, c.X, 1e-12)
	assert.InDelta(t, 0, c.Y, 1e-12)
	assert.InDelta(t, 0, c.Z, 1e-12)
}
