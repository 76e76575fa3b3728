// Package hbond implements slot-based hydrogen-bond detection between
// nucleic-acid residues.
//
// Each donor atom exposes hydrogen slots and each acceptor atom lone-pair
// slots, oriented from the local covalent geometry. Detection enumerates
// donor→acceptor candidates within a distance cutoff, scores how well each
// candidate lines up with the available slots, and greedily commits bonds
// while tracking per-slot saturation. A slot may host a second (bifurcated)
// bond only when the two bond directions are angularly well separated.
package hbond

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jyesselm/basepairs/internal/geometry"
)

// Slot is one hydrogen seat on a donor atom or one lone-pair seat on an
// acceptor atom. Direction points from the host atom toward the hydrogen
// (or outward along the lone pair) and is unit length.
type Slot struct {
	Direction r3.Vec
	// MaxBonds is the slot capacity: 1 for a ring-nitrogen lone pair,
	// 3 for the isotropic phosphate model, 2 otherwise.
	MaxBonds int
	// BondDirections records the unit directions of bonds already committed
	// to this slot, for bifurcation angle checks.
	BondDirections []r3.Vec
}

// Available reports whether the slot can still host a bond.
func (s *Slot) Available() bool { return len(s.BondDirections) < s.MaxBonds }

// Saturated reports whether the slot is at capacity.
func (s *Slot) Saturated() bool { return !s.Available() }

// CanAddBond reports whether a bond in newDirection may be added: the slot
// must have spare capacity and the new direction must be at least minAngle
// degrees away from every bond already on the slot. A bond on an empty slot
// is always allowed.
func (s *Slot) CanAddBond(newDirection r3.Vec, minAngle float64) bool {
	if len(s.BondDirections) == 0 {
		return true
	}
	if !s.Available() {
		return false
	}
	for _, existing := range s.BondDirections {
		if geometry.AngleBetween(existing, newDirection) < minAngle {
			return false
		}
	}
	return true
}

// AddBond commits a bond direction to the slot.
func (s *Slot) AddBond(direction r3.Vec) {
	s.BondDirections = append(s.BondDirections, geometry.Normalize(direction))
}
