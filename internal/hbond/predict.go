package hbond

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jyesselm/basepairs/internal/chem"
	"github.com/jyesselm/basepairs/internal/geometry"
)

// normalRingAtoms are the ring positions tried when deriving the base-plane
// normal; C2, C4 and C6 exist in every base.
var normalRingAtoms = []string{"C2", "C4", "C6", "N1", "N3"}

// fallbackNormal is used when fewer than three ring atoms are present.
var fallbackNormal = r3.Vec{Z: 1}

// BaseNormal computes the unit normal of the base plane from ring atoms.
// The first three available ring positions span the plane; with fewer than
// three, the world z-axis is returned as a last resort so downstream slot
// prediction can still proceed.
func BaseNormal(atoms map[string]r3.Vec) r3.Vec {
	var positions []r3.Vec
	for _, name := range normalRingAtoms {
		if p, ok := atoms[name]; ok {
			positions = append(positions, p)
			if len(positions) == 3 {
				break
			}
		}
	}
	if len(positions) < 3 {
		return fallbackNormal
	}
	v1 := r3.Sub(positions[1], positions[0])
	v2 := r3.Sub(positions[2], positions[0])
	return geometry.Normalize(r3.Cross(v1, v2))
}

// PredictHSlots derives the hydrogen slots of a donor atom from its bonded
// antecedents and the base normal. An atom with no donor-capacity entry, a
// missing position, or missing antecedents yields no slots.
//
// sp2 amino nitrogens (capacity 2, one antecedent) place two hydrogens at
// ±120° from the antecedent bond about the base normal; imino nitrogens
// (capacity 1, two antecedents) place one hydrogen opposite the ring.
func PredictHSlots(base, atom string, atoms map[string]r3.Vec, baseNormal r3.Vec) []*Slot {
	capacity, ok := chem.DonorCapacity(base, atom)
	if !ok {
		return nil
	}
	donorPos, ok := atoms[atom]
	if !ok {
		return nil
	}
	antecedents := antecedentPositions(base, atom, atoms)
	if len(antecedents) == 0 {
		return nil
	}

	switch {
	case capacity == 2 && len(antecedents) == 1:
		// sp2 NH2: two hydrogens in the base plane at ±120° from the C-N bond.
		along := geometry.Normalize(r3.Sub(donorPos, antecedents[0]))
		return []*Slot{
			{Direction: geometry.RotateAboutAxis(along, baseNormal, 120), MaxBonds: 2},
			{Direction: geometry.RotateAboutAxis(along, baseNormal, -120), MaxBonds: 2},
		}
	case capacity == 1 && len(antecedents) == 2:
		// sp2 imino N-H: hydrogen points away from the ring.
		avg := r3.Scale(0.5, r3.Add(antecedents[0], antecedents[1]))
		return []*Slot{
			{Direction: geometry.Normalize(r3.Sub(donorPos, avg)), MaxBonds: 2},
		}
	case capacity == 1 && len(antecedents) == 1:
		// Hydroxyl and other single-antecedent donors.
		return []*Slot{
			{Direction: geometry.Normalize(r3.Sub(donorPos, antecedents[0])), MaxBonds: 2},
		}
	}
	return nil
}

// PredictLPSlots derives the lone-pair slots of an acceptor atom.
//
// Phosphate oxygens use the isotropic model: three axis-aligned slots with
// capacity 3. Sugar oxygens get two in-plane directions perpendicular to the
// base normal. sp2 carbonyl oxygens place two lone pairs at ±120° from the
// C=O bond; sp2 ring nitrogens place a single in-plane lone pair that never
// bifurcates.
func PredictLPSlots(base, atom string, atoms map[string]r3.Vec, baseNormal r3.Vec) []*Slot {
	capacity, ok := chem.AcceptorCapacity(base, atom)
	if !ok {
		return nil
	}
	acceptorPos, ok := atoms[atom]
	if !ok {
		return nil
	}

	if chem.IsPhosphateOxygen(atom) {
		return []*Slot{
			{Direction: r3.Vec{X: 1}, MaxBonds: 3},
			{Direction: r3.Vec{Y: 1}, MaxBonds: 3},
			{Direction: r3.Vec{Z: 1}, MaxBonds: 3},
		}
	}

	if chem.IsRiboseOxygen(atom) {
		// sp3 with flexible geometry: two orthogonal directions in the plane
		// perpendicular to the base normal.
		perp1 := r3.Cross(baseNormal, r3.Vec{X: 1})
		if r3.Norm(perp1) < 0.1 {
			perp1 = r3.Cross(baseNormal, r3.Vec{Y: 1})
		}
		perp1 = geometry.Normalize(perp1)
		perp2 := r3.Cross(baseNormal, perp1)
		return []*Slot{
			{Direction: perp1, MaxBonds: 2},
			{Direction: perp2, MaxBonds: 2},
		}
	}

	antecedents := antecedentPositions(base, atom, atoms)
	if len(antecedents) == 0 {
		// Isotropic fallback when the antecedent atoms are missing.
		slots := []*Slot{{Direction: r3.Vec{X: 1}, MaxBonds: 2}}
		if capacity >= 2 {
			slots = append(slots, &Slot{Direction: r3.Vec{Y: 1}, MaxBonds: 2})
		}
		return slots
	}

	switch {
	case capacity == 2 && len(antecedents) == 1:
		// sp2 carbonyl: lone pairs at ±120° from C=O in the base plane.
		along := geometry.Normalize(r3.Sub(acceptorPos, antecedents[0]))
		return []*Slot{
			{Direction: geometry.RotateAboutAxis(along, baseNormal, 120), MaxBonds: 2},
			{Direction: geometry.RotateAboutAxis(along, baseNormal, -120), MaxBonds: 2},
		}
	case capacity == 1 && len(antecedents) == 2:
		// sp2 ring nitrogen: single in-plane lone pair, no bifurcation.
		avg := r3.Scale(0.5, r3.Add(antecedents[0], antecedents[1]))
		return []*Slot{
			{Direction: geometry.Normalize(r3.Sub(acceptorPos, avg)), MaxBonds: 1},
		}
	case capacity == 1 && len(antecedents) == 1:
		return []*Slot{
			{Direction: geometry.Normalize(r3.Sub(acceptorPos, antecedents[0])), MaxBonds: 2},
		}
	}
	return nil
}

func antecedentPositions(base, atom string, atoms map[string]r3.Vec) []r3.Vec {
	var positions []r3.Vec
	for _, name := range chem.Connectivity(base, atom) {
		if p, ok := atoms[name]; ok {
			positions = append(positions, p)
		}
	}
	return positions
}
