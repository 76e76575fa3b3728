// Package frame derives per-residue reference frames by least-squares
// fitting the standard base geometry onto the measured ring atoms.
//
// The frame origin is the measured ring-atom centroid; the fitted rotation's
// columns are the frame axes, with the z-axis normal to the base plane. The
// residual fit RMSD is retained as a quality metric.
package frame

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jyesselm/basepairs/internal/chem"
	"github.com/jyesselm/basepairs/internal/geometry"
	"github.com/jyesselm/basepairs/internal/parser"
)

// ErrDegenerateRing is returned when a residue has fewer than three ring
// atoms, which is not enough to define a plane.
var ErrDegenerateRing = errors.New("frame: fewer than three ring atoms")

// Frame is a residue reference frame: an origin and an orthonormal rotation
// whose columns are the x, y, z axes.
type Frame struct {
	Origin   r3.Vec
	Rotation *mat.Dense // 3x3, axes as columns
	// FitRMSD is the residual of the standard-base fit in Angstroms.
	FitRMSD float64
}

// XAxis returns the first frame axis.
func (f *Frame) XAxis() r3.Vec { return f.axis(0) }

// YAxis returns the second frame axis.
func (f *Frame) YAxis() r3.Vec { return f.axis(1) }

// ZAxis returns the third frame axis, the base-plane normal.
func (f *Frame) ZAxis() r3.Vec { return f.axis(2) }

func (f *Frame) axis(col int) r3.Vec {
	return r3.Vec{X: f.Rotation.At(0, col), Y: f.Rotation.At(1, col), Z: f.Rotation.At(2, col)}
}

// Extract computes the reference frame of a residue by Kabsch-aligning the
// standard base geometry onto the residue's measured ring atoms. Residues
// with fewer than three ring atoms yield ErrDegenerateRing; unknown base
// types yield an error as well.
func Extract(res *parser.Residue) (*Frame, error) {
	standard := chem.StandardRingCoords(res.BaseType)
	if standard == nil {
		return nil, fmt.Errorf("frame: no standard geometry for base %q", res.BaseType)
	}

	names, measured := res.RingCoords()
	var source, target []r3.Vec
	for i, name := range names {
		std, ok := standard[name]
		if !ok {
			continue
		}
		source = append(source, std)
		target = append(target, measured[i])
	}
	if len(source) < 3 {
		return nil, fmt.Errorf("%w: %s has %d", ErrDegenerateRing, res.ID, len(source))
	}

	align, rmsd, err := geometry.Superpose(source, target)
	if err != nil {
		return nil, fmt.Errorf("frame: fitting %s: %w", res.ID, err)
	}

	return &Frame{
		Origin:   geometry.Centroid(target),
		Rotation: align.R,
		FitRMSD:  rmsd,
	}, nil
}

// ExtractAll computes frames for every residue of a structure, keyed by
// residue ID. Residues that cannot produce a frame are skipped.
func ExtractAll(s *parser.Structure) map[string]*Frame {
	frames := make(map[string]*Frame, len(s.Residues))
	for id, res := range s.Residues {
		f, err := Extract(res)
		if err != nil {
			continue
		}
		frames[id] = f
	}
	return frames
}
