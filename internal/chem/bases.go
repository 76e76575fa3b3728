// Package chem holds the chemistry-aware lookup tables for nucleic-acid
// bases: donor/acceptor capacities, bonded-neighbor connectivity, ring-atom
// sets, glycosidic nitrogens, standard base geometry, and the
// modified-nucleotide registry.
//
// All tables are keyed by (base letter, atom name). Base variants
// (pseudouridine P, inosine I, and the DNA bases DA/DG/DC/DT) are additional
// keys rather than subtypes. Tables are built once at package load and are
// read-only thereafter, so they are safe to share across goroutines.
package chem

import "strings"

// Base letters recognized by the tables.
const (
	Adenine        = "A"
	Guanine        = "G"
	Cytosine       = "C"
	Uracil         = "U"
	Thymine        = "T"
	Pseudouridine  = "P"
	Inosine        = "I"
	DeoxyAdenine   = "DA"
	DeoxyGuanine   = "DG"
	DeoxyCytosine  = "DC"
	DeoxyThymidine = "DT"
)

var purines = map[string]bool{
	Adenine: true, Guanine: true, Inosine: true,
	DeoxyAdenine: true, DeoxyGuanine: true,
}

var pyrimidines = map[string]bool{
	Cytosine: true, Uracil: true, Thymine: true, Pseudouridine: true,
	DeoxyCytosine: true, DeoxyThymidine: true,
}

// IsPurine reports whether the base letter names a purine (A, G, I and the
// DNA variants).
func IsPurine(base string) bool { return purines[normBase(base)] }

// IsPyrimidine reports whether the base letter names a pyrimidine
// (C, U, T, P and the DNA variants).
func IsPyrimidine(base string) bool { return pyrimidines[normBase(base)] }

// GlycosidicN returns the name of the glycosidic nitrogen: N9 for purines,
// N1 for pyrimidines. The empty string is returned for unknown bases.
func GlycosidicN(base string) string {
	switch {
	case IsPurine(base):
		return "N9"
	case IsPyrimidine(base):
		return "N1"
	default:
		return ""
	}
}

// PurineRingAtoms and PyrimidineRingAtoms are the ring-atom names used for
// frame fitting, in a fixed order so point sets built from them line up.
var (
	PurineRingAtoms     = []string{"N9", "C8", "N7", "C5", "C6", "N1", "C2", "N3", "C4"}
	PyrimidineRingAtoms = []string{"N1", "C2", "N3", "C4", "C5", "C6"}
)

// RingAtoms returns the ordered ring-atom names for the base, or nil for an
// unknown base letter.
func RingAtoms(base string) []string {
	switch {
	case IsPurine(base):
		return PurineRingAtoms
	case IsPyrimidine(base):
		return PyrimidineRingAtoms
	default:
		return nil
	}
}

// CommonRingAtoms is the union ring-atom set used for template alignment;
// the intersection with a candidate pair's atoms drives the Kabsch fit.
var CommonRingAtoms = []string{"C2", "C4", "C5", "C6", "N1", "N3", "N7", "C8", "N9"}

// baseEdgeAtoms are the base nitrogens/oxygens that sit on the base edges.
// Two such atoms of the same residue are covalently related, never H-bonded.
var baseEdgeAtoms = map[string]bool{
	"N1": true, "N2": true, "N3": true, "N4": true, "N6": true,
	"N7": true, "N9": true, "O2": true, "O4": true, "O6": true,
}

// IsBaseAtom reports whether the atom name is a base nitrogen or oxygen.
func IsBaseAtom(atom string) bool { return baseEdgeAtoms[strings.TrimSpace(atom)] }

// Watson-Crick edge atoms, used by the extended H-bond search to restrict
// recovery to the pairing edge.
var (
	wcDonorAtoms    = map[string]bool{"N1": true, "N2": true, "N3": true, "N4": true, "N6": true}
	wcAcceptorAtoms = map[string]bool{"N1": true, "N3": true, "O2": true, "O4": true, "O6": true}
)

// IsWCDonorAtom reports whether the atom name can donate on the WC edge.
func IsWCDonorAtom(atom string) bool { return wcDonorAtoms[strings.TrimSpace(atom)] }

// IsWCAcceptorAtom reports whether the atom name can accept on the WC edge.
func IsWCAcceptorAtom(atom string) bool { return wcAcceptorAtoms[strings.TrimSpace(atom)] }

// AtomContext classifies an atom name as base, sugar, or phosphate.
type AtomContext int

const (
	ContextBase AtomContext = iota
	ContextSugar
	ContextPhosphate
)

// ClassifyAtom returns the structural context of an atom name. Primed names
// are sugar atoms; OP1/OP2 (and legacy O1P/O2P) and P are phosphate; the
// rest are base atoms.
func ClassifyAtom(atom string) AtomContext {
	atom = strings.TrimSpace(atom)
	switch atom {
	case "P", "OP1", "OP2", "OP3", "O1P", "O2P", "O3P":
		return ContextPhosphate
	}
	if strings.HasSuffix(atom, "'") || strings.HasSuffix(atom, "*") {
		return ContextSugar
	}
	return ContextBase
}

// IsPhosphateOxygen reports whether the atom is a non-bridging phosphate
// oxygen (modern or legacy name).
func IsPhosphateOxygen(atom string) bool {
	switch strings.TrimSpace(atom) {
	case "OP1", "OP2", "O1P", "O2P":
		return true
	}
	return false
}

// IsRiboseOxygen reports whether the atom is a sugar hydroxyl or ring oxygen.
func IsRiboseOxygen(atom string) bool {
	switch strings.TrimSpace(atom) {
	case "O2'", "O3'", "O4'", "O5'":
		return true
	}
	return false
}

func normBase(base string) string {
	return strings.ToUpper(strings.TrimSpace(base))
}
