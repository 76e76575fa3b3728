package hbond

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jyesselm/basepairs/internal/parser"
)

// Standard-frame base coordinates (ring plus the exocyclic pairing atoms).
// A Watson-Crick partner is produced by flipping (y, z) -> (-y, -z), which
// places the two glycosidic bonds in the canonical anti-parallel geometry.
var stdG = map[string]r3.Vec{
	"N9": {X: -1.289, Y: 4.551}, "C8": {X: 0.023, Y: 4.962}, "N7": {X: 0.870, Y: 3.969},
	"C5": {X: 0.071, Y: 2.833}, "C6": {X: 0.424, Y: 1.460}, "N1": {X: -0.700, Y: 0.641},
	"C2": {X: -1.999, Y: 1.087}, "N3": {X: -2.342, Y: 2.364}, "C4": {X: -1.265, Y: 3.177},
	"O6": {X: 1.554, Y: 0.955}, "N2": {X: -2.949, Y: 0.139},
}

var stdC = map[string]r3.Vec{
	"N1": {X: -1.285, Y: 4.542}, "C2": {X: -1.472, Y: 3.158}, "N3": {X: -0.391, Y: 2.344},
	"C4": {X: 0.837, Y: 2.868}, "C5": {X: 1.056, Y: 4.275}, "C6": {X: -0.023, Y: 5.068},
	"O2": {X: -2.628, Y: 2.709}, "N4": {X: 1.875, Y: 2.027},
}

var stdA = map[string]r3.Vec{
	"N9": {X: -1.291, Y: 4.498}, "C8": {X: 0.024, Y: 4.897}, "N7": {X: 0.877, Y: 3.902},
	"C5": {X: 0.071, Y: 2.771}, "C6": {X: 0.369, Y: 1.398}, "N1": {X: -0.668, Y: 0.532},
	"C2": {X: -1.912, Y: 1.023}, "N3": {X: -2.320, Y: 2.290}, "C4": {X: -1.267, Y: 3.124},
	"N6": {X: 1.611, Y: 0.909},
}

var stdU = map[string]r3.Vec{
	"N1": {X: -1.284, Y: 4.500}, "C2": {X: -1.462, Y: 3.131}, "N3": {X: -0.302, Y: 2.397},
	"C4": {X: 0.989, Y: 2.884}, "C5": {X: 1.089, Y: 4.311}, "C6": {X: -0.024, Y: 5.053},
	"O2": {X: -2.563, Y: 2.608}, "O4": {X: 1.935, Y: 2.094},
}

func makeResidue(id, base string, atoms map[string]r3.Vec, transform func(r3.Vec) r3.Vec) *parser.Residue {
	res := &parser.Residue{ID: id, BaseType: base, Code: base, Atoms: make(map[string]r3.Vec, len(atoms))}
	for name, p := range atoms {
		if transform != nil {
			p = transform(p)
		}
		res.Atoms[name] = p
	}
	return res
}

// wcFlip maps a standard-frame base onto its Watson-Crick partner position.
func wcFlip(p r3.Vec) r3.Vec { return r3.Vec{X: p.X, Y: -p.Y, Z: -p.Z} }

// wcFlipShift flips and then translates by dy along y (positive dy stretches
// the pair apart).
func wcFlipShift(dy float64) func(r3.Vec) r3.Vec {
	return func(p r3.Vec) r3.Vec {
		f := wcFlip(p)
		f.Y -= dy
		return f
	}
}

// idealGC returns a G and C in idealized cWW geometry, donor-acceptor
// distances near 2.9-3.0 Angstroms.
func idealGC() (*parser.Residue, *parser.Residue) {
	g := makeResidue("A-G-1", "G", stdG, nil)
	c := makeResidue("A-C-2", "C", stdC, wcFlip)
	return g, c
}
