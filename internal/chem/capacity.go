package chem

import "strings"

// The capacity tables record, per (base, atom), how many hydrogens an atom
// can donate and how many lone pairs it can offer, together with the bonded
// antecedent atoms used to orient the corresponding slots.
//
// Donors are N-H and O-H only; C-H contacts are not treated as hydrogen
// bonds. Phosphate oxygens carry three lone pairs (isotropic model), sugar
// hydroxyls two, carbonyl oxygens two, ring nitrogens one.

type atomKey struct {
	base string
	atom string
}

var (
	donorCapacity    = map[atomKey]int{}
	acceptorCapacity = map[atomKey]int{}
	connectivity     = map[atomKey][]string{}
)

func init() {
	buildDonorTable()
	buildAcceptorTable()
	buildConnectivityTable()
}

func buildDonorTable() {
	add := func(base, atom string, n int) { donorCapacity[atomKey{base, atom}] = n }

	// Amino NH2 groups donate two hydrogens, imino NH one.
	add(Adenine, "N6", 2)
	add(Guanine, "N1", 1)
	add(Guanine, "N2", 2)
	add(Cytosine, "N4", 2)
	add(Uracil, "N3", 1)
	add(Thymine, "N3", 1)

	// Pseudouridine is C-glycosidic at C5, freeing N1 to donate.
	add(Pseudouridine, "N1", 1)
	add(Pseudouridine, "N3", 1)

	// Inosine is guanine without the N2 amino group.
	add(Inosine, "N1", 1)

	// The 2'-hydroxyl donates one hydrogen on every ribonucleotide.
	for _, base := range []string{Adenine, Guanine, Cytosine, Uracil, Thymine, Pseudouridine, Inosine} {
		add(base, "O2'", 1)
	}

	// DNA bases: same base-edge donors, no 2'-hydroxyl.
	add(DeoxyAdenine, "N6", 2)
	add(DeoxyGuanine, "N1", 1)
	add(DeoxyGuanine, "N2", 2)
	add(DeoxyCytosine, "N4", 2)
	add(DeoxyThymidine, "N3", 1)
}

func buildAcceptorTable() {
	add := func(base, atom string, n int) { acceptorCapacity[atomKey{base, atom}] = n }
	addPhosphates := func(base string) {
		for _, atom := range []string{"OP1", "OP2", "O1P", "O2P"} {
			add(base, atom, 3)
		}
	}
	addRibose := func(base string) {
		add(base, "O2'", 2)
		add(base, "O4'", 1)
	}

	// Adenine: ring nitrogens only on the base.
	add(Adenine, "N1", 1)
	add(Adenine, "N3", 1)
	add(Adenine, "N7", 1)
	addRibose(Adenine)
	addPhosphates(Adenine)

	// Guanine: carbonyl O6 plus ring nitrogens.
	add(Guanine, "O6", 2)
	add(Guanine, "N3", 1)
	add(Guanine, "N7", 1)
	addRibose(Guanine)
	addPhosphates(Guanine)

	// Cytosine.
	add(Cytosine, "O2", 2)
	add(Cytosine, "N3", 1)
	addRibose(Cytosine)
	addPhosphates(Cytosine)

	// Uracil.
	add(Uracil, "O2", 2)
	add(Uracil, "O4", 2)
	addRibose(Uracil)
	addPhosphates(Uracil)

	// Thymine: carbonyls and the sugar ring oxygen only.
	add(Thymine, "O2", 2)
	add(Thymine, "O4", 2)
	add(Thymine, "O4'", 1)

	// Pseudouridine mirrors uracil.
	add(Pseudouridine, "O2", 2)
	add(Pseudouridine, "O4", 2)
	addRibose(Pseudouridine)
	addPhosphates(Pseudouridine)

	// Inosine mirrors guanine.
	add(Inosine, "O6", 2)
	add(Inosine, "N3", 1)
	add(Inosine, "N7", 1)
	addRibose(Inosine)
	addPhosphates(Inosine)

	// DNA bases: as the parents, minus the 2'-hydroxyl.
	add(DeoxyAdenine, "N1", 1)
	add(DeoxyAdenine, "N3", 1)
	add(DeoxyAdenine, "N7", 1)
	add(DeoxyAdenine, "O4'", 1)
	addPhosphates(DeoxyAdenine)

	add(DeoxyGuanine, "O6", 2)
	add(DeoxyGuanine, "N3", 1)
	add(DeoxyGuanine, "N7", 1)
	add(DeoxyGuanine, "O4'", 1)
	addPhosphates(DeoxyGuanine)

	add(DeoxyCytosine, "O2", 2)
	add(DeoxyCytosine, "N3", 1)
	add(DeoxyCytosine, "O4'", 1)
	addPhosphates(DeoxyCytosine)

	add(DeoxyThymidine, "O2", 2)
	add(DeoxyThymidine, "O4", 2)
	add(DeoxyThymidine, "O4'", 1)
}

func buildConnectivityTable() {
	add := func(base, atom string, antecedents ...string) {
		connectivity[atomKey{base, atom}] = antecedents
	}
	addSugar := func(base string, deoxy bool) {
		if !deoxy {
			add(base, "O2'", "C2'")
		}
		add(base, "O4'", "C1'", "C4'")
		add(base, "O3'", "C3'")
		add(base, "O5'", "C5'")
	}

	add(Adenine, "N6", "C6")
	add(Adenine, "N1", "C2", "C6")
	add(Adenine, "N3", "C2", "C4")
	add(Adenine, "N7", "C5", "C8")
	addSugar(Adenine, false)

	add(Guanine, "N1", "C2", "C6")
	add(Guanine, "N2", "C2")
	add(Guanine, "O6", "C6")
	add(Guanine, "N3", "C2", "C4")
	add(Guanine, "N7", "C5", "C8")
	addSugar(Guanine, false)

	add(Cytosine, "N4", "C4")
	add(Cytosine, "N3", "C2", "C4")
	add(Cytosine, "O2", "C2")
	addSugar(Cytosine, false)

	add(Uracil, "N3", "C2", "C4")
	add(Uracil, "O2", "C2")
	add(Uracil, "O4", "C4")
	addSugar(Uracil, false)

	add(Thymine, "N3", "C2", "C4")
	add(Thymine, "O2", "C2")
	add(Thymine, "O4", "C4")
	addSugar(Thymine, false)

	add(Pseudouridine, "N1", "C2", "C6")
	add(Pseudouridine, "N3", "C2", "C4")
	add(Pseudouridine, "O2", "C2")
	add(Pseudouridine, "O4", "C4")
	addSugar(Pseudouridine, false)

	add(Inosine, "N1", "C2", "C6")
	add(Inosine, "O6", "C6")
	add(Inosine, "N3", "C2", "C4")
	add(Inosine, "N7", "C5", "C8")
	addSugar(Inosine, false)

	add(DeoxyAdenine, "N6", "C6")
	add(DeoxyAdenine, "N1", "C2", "C6")
	add(DeoxyAdenine, "N3", "C2", "C4")
	add(DeoxyAdenine, "N7", "C5", "C8")
	addSugar(DeoxyAdenine, true)

	add(DeoxyGuanine, "N1", "C2", "C6")
	add(DeoxyGuanine, "N2", "C2")
	add(DeoxyGuanine, "O6", "C6")
	add(DeoxyGuanine, "N3", "C2", "C4")
	add(DeoxyGuanine, "N7", "C5", "C8")
	addSugar(DeoxyGuanine, true)

	add(DeoxyCytosine, "N4", "C4")
	add(DeoxyCytosine, "N3", "C2", "C4")
	add(DeoxyCytosine, "O2", "C2")
	addSugar(DeoxyCytosine, true)

	add(DeoxyThymidine, "N3", "C2", "C4")
	add(DeoxyThymidine, "O2", "C2")
	add(DeoxyThymidine, "O4", "C4")
	addSugar(DeoxyThymidine, true)
}

// DonorCapacity returns the number of donatable hydrogens for (base, atom)
// and whether the atom is a donor at all.
func DonorCapacity(base, atom string) (int, bool) {
	n, ok := donorCapacity[atomKey{normBase(base), trimAtom(atom)}]
	return n, ok
}

// AcceptorCapacity returns the number of accepting lone pairs for
// (base, atom) and whether the atom is an acceptor at all.
func AcceptorCapacity(base, atom string) (int, bool) {
	n, ok := acceptorCapacity[atomKey{normBase(base), trimAtom(atom)}]
	return n, ok
}

// IsDonor reports whether (base, atom) has a donor-capacity entry.
func IsDonor(base, atom string) bool {
	_, ok := DonorCapacity(base, atom)
	return ok
}

// IsAcceptor reports whether (base, atom) has an acceptor-capacity entry.
func IsAcceptor(base, atom string) bool {
	_, ok := AcceptorCapacity(base, atom)
	return ok
}

// Connectivity returns the ordered antecedent atoms bonded to (base, atom),
// or nil when none are tabulated. The returned slice must not be mutated.
func Connectivity(base, atom string) []string {
	return connectivity[atomKey{normBase(base), trimAtom(atom)}]
}

// trimAtom strips the space padding that fixed-column PDB records leave on
// atom names.
func trimAtom(atom string) string { return strings.TrimSpace(atom) }
