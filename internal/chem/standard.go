package chem

import "gonum.org/v1/gonum/spatial/r3"

// Standard base geometry in the standard reference frame, used as the fit
// target when deriving per-residue frames. Coordinates are for the base in
// its own frame: the ring lies in the z = 0 plane, so the fitted rotation's
// third column is the base normal. The coordinates are not centered on the
// ring; the fit centers both point sets before aligning them.
//
// Citation: Olson, W. K., et al. (2001). "A standard reference frame for the
// description of nucleic acid base-pair geometry." J. Mol. Biol. 313: 229-237.
var standardBases = map[string]map[string]r3.Vec{
	Adenine: {
		"N9": {X: -1.291, Y: 4.498, Z: 0.000},
		"C8": {X: 0.024, Y: 4.897, Z: 0.000},
		"N7": {X: 0.877, Y: 3.902, Z: 0.000},
		"C5": {X: 0.071, Y: 2.771, Z: 0.000},
		"C6": {X: 0.369, Y: 1.398, Z: 0.000},
		"N1": {X: -0.668, Y: 0.532, Z: 0.000},
		"C2": {X: -1.912, Y: 1.023, Z: 0.000},
		"N3": {X: -2.320, Y: 2.290, Z: 0.000},
		"C4": {X: -1.267, Y: 3.124, Z: 0.000},
	},
	Guanine: {
		"N9": {X: -1.289, Y: 4.551, Z: 0.000},
		"C8": {X: 0.023, Y: 4.962, Z: 0.000},
		"N7": {X: 0.870, Y: 3.969, Z: 0.000},
		"C5": {X: 0.071, Y: 2.833, Z: 0.000},
		"C6": {X: 0.424, Y: 1.460, Z: 0.000},
		"N1": {X: -0.700, Y: 0.641, Z: 0.000},
		"C2": {X: -1.999, Y: 1.087, Z: 0.000},
		"N3": {X: -2.342, Y: 2.364, Z: 0.001},
		"C4": {X: -1.265, Y: 3.177, Z: 0.000},
	},
	Cytosine: {
		"N1": {X: -1.285, Y: 4.542, Z: 0.000},
		"C2": {X: -1.472, Y: 3.158, Z: 0.000},
		"N3": {X: -0.391, Y: 2.344, Z: 0.000},
		"C4": {X: 0.837, Y: 2.868, Z: 0.000},
		"C5": {X: 1.056, Y: 4.275, Z: 0.000},
		"C6": {X: -0.023, Y: 5.068, Z: 0.000},
	},
	Uracil: {
		"N1": {X: -1.284, Y: 4.500, Z: 0.000},
		"C2": {X: -1.462, Y: 3.131, Z: 0.000},
		"N3": {X: -0.302, Y: 2.397, Z: 0.000},
		"C4": {X: 0.989, Y: 2.884, Z: 0.000},
		"C5": {X: 1.089, Y: 4.311, Z: 0.000},
		"C6": {X: -0.024, Y: 5.053, Z: 0.000},
	},
	Thymine: {
		"N1": {X: -1.284, Y: 4.500, Z: 0.000},
		"C2": {X: -1.462, Y: 3.135, Z: 0.000},
		"N3": {X: -0.298, Y: 2.407, Z: 0.000},
		"C4": {X: 0.994, Y: 2.897, Z: 0.000},
		"C5": {X: 1.106, Y: 4.338, Z: 0.000},
		"C6": {X: -0.024, Y: 5.057, Z: 0.000},
	},
}

// standardParent maps base variants onto the standard geometry they share.
var standardParent = map[string]string{
	Inosine:        Guanine,
	Pseudouridine:  Uracil,
	DeoxyAdenine:   Adenine,
	DeoxyGuanine:   Guanine,
	DeoxyCytosine:  Cytosine,
	DeoxyThymidine: Thymine,
}

// StandardRingCoords returns the standard-frame ring-atom coordinates for
// the base, or nil for an unknown base letter. Variants (I, P, DNA bases)
// resolve to their parent geometry.
func StandardRingCoords(base string) map[string]r3.Vec {
	b := normBase(base)
	if parent, ok := standardParent[b]; ok {
		b = parent
	}
	return standardBases[b]
}
