package hbond

import (
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jyesselm/basepairs/internal/chem"
	"github.com/jyesselm/basepairs/internal/geometry"
	"github.com/jyesselm/basepairs/internal/parser"
)

// Extended-search defaults: a pair with clean overall geometry but sparse
// H-bond coverage is re-scanned with a longer reach and a near-zero
// alignment floor to recover stretched bonds.
const (
	ExtendedMaxDistance  = 5.0
	ExtendedMinAlignment = 0.1
)

// FindExtended re-scans the Watson-Crick edges of two residues with relaxed
// thresholds. Only WC edge donors (N1, N2, N3, N4, N6) and acceptors
// (N1, N3, O2, O4, O6) participate, each contact is scored independently
// (no slot saturation), and returned bonds are marked Extended.
func FindExtended(res1, res2 *parser.Residue, maxDistance, minAlignment float64) []Bond {
	normal1 := BaseNormal(res1.Atoms)
	normal2 := BaseNormal(res2.Atoms)

	bonds := extendedDirectional(nil, res1, res2, normal1, normal2, maxDistance, minAlignment)
	bonds = extendedDirectional(bonds, res2, res1, normal2, normal1, maxDistance, minAlignment)

	// Same ordering rules as the standard scan, for deterministic output.
	sort.Slice(bonds, func(i, j int) bool {
		a, b := bonds[i], bonds[j]
		if a.Distance != b.Distance {
			return a.Distance < b.Distance
		}
		if a.DonorResID != b.DonorResID {
			return a.DonorResID < b.DonorResID
		}
		if a.DonorAtom != b.DonorAtom {
			return a.DonorAtom < b.DonorAtom
		}
		if a.AcceptorResID != b.AcceptorResID {
			return a.AcceptorResID < b.AcceptorResID
		}
		return a.AcceptorAtom < b.AcceptorAtom
	})
	return bonds
}

func extendedDirectional(bonds []Bond, donorRes, acceptorRes *parser.Residue, donorNormal, acceptorNormal r3.Vec, maxDistance, minAlignment float64) []Bond {
	for donorAtom, donorPos := range donorRes.Atoms {
		if !chem.IsWCDonorAtom(donorAtom) || !chem.IsDonor(donorRes.BaseType, donorAtom) {
			continue
		}
		for acceptorAtom, acceptorPos := range acceptorRes.Atoms {
			if !chem.IsWCAcceptorAtom(acceptorAtom) || !chem.IsAcceptor(acceptorRes.BaseType, acceptorAtom) {
				continue
			}
			dist := geometry.Distance(donorPos, acceptorPos)
			if dist > maxDistance {
				continue
			}

			hSlots := PredictHSlots(donorRes.BaseType, donorAtom, donorRes.Atoms, donorNormal)
			lpSlots := PredictLPSlots(acceptorRes.BaseType, acceptorAtom, acceptorRes.Atoms, acceptorNormal)

			var hIdx, lpIdx int
			var alignment float64
			if len(hSlots) > 0 && len(lpSlots) > 0 {
				hIdx, lpIdx, alignment = scoreAlignment(donorPos, acceptorPos, hSlots, lpSlots)
			}
			if alignment < minAlignment {
				continue
			}

			bonds = append(bonds, Bond{
				DonorResID:    donorRes.ID,
				AcceptorResID: acceptorRes.ID,
				DonorAtom:     donorAtom,
				AcceptorAtom:  acceptorAtom,
				Distance:      dist,
				HSlotIdx:      hIdx,
				LPSlotIdx:     lpIdx,
				Alignment:     alignment,
				Context:       ContextBaseBase,
				Extended:      true,
			})
		}
	}
	return bonds
}

// MergeExtended appends to existing those extended bonds whose
// (donor atom, acceptor atom) pairing is not already present.
func MergeExtended(existing, extended []Bond) []Bond {
	seen := make(map[[2]string]bool, len(existing))
	for _, b := range existing {
		seen[[2]string{b.DonorAtom, b.AcceptorAtom}] = true
	}
	merged := existing
	for _, b := range extended {
		key := [2]string{b.DonorAtom, b.AcceptorAtom}
		if !seen[key] {
			seen[key] = true
			merged = append(merged, b)
		}
	}
	return merged
}
