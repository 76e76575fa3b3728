package hbond

// AtomPair names an expected contact. DonorAtom holds the atom on the first
// residue of the sequence, which is the acceptor for carbonyl-side entries.
type AtomPair struct {
	DonorAtom    string
	AcceptorAtom string
}

// cwwPatterns is the canonical Watson-Crick bonding pattern per sequence.
// Atom names follow PDB nomenclature; the first atom of each entry belongs
// to the first base of the sequence.
var cwwPatterns = map[string][]AtomPair{
	"GC": {{"N1", "N3"}, {"N2", "O2"}, {"O6", "N4"}},
	"CG": {{"N4", "O6"}, {"N3", "N1"}, {"O2", "N2"}},
	"AU": {{"N6", "O4"}, {"N1", "N3"}},
	"UA": {{"O4", "N6"}, {"N3", "N1"}},
	"AT": {{"N6", "O4"}, {"N1", "N3"}},
	"TA": {{"O4", "N6"}, {"N3", "N1"}},
}

// CWWPattern returns the canonical cWW donor/acceptor pairs for a
// two-letter sequence, or nil for non-canonical sequences. Note that the
// pattern lists each contact once, from the perspective of the sequence
// order; carbonyl-side entries name the acceptor on the first base.
func CWWPattern(sequence string) []AtomPair {
	return cwwPatterns[sequence]
}

// MissingFromPattern returns the expected cWW contacts that do not appear
// among the found bonds, matching on the unordered atom-name pair so that
// donor direction does not matter.
func MissingFromPattern(sequence string, found []Bond) []AtomPair {
	pattern := CWWPattern(sequence)
	if pattern == nil {
		return nil
	}

	seen := make(map[[2]string]bool, len(found))
	for _, b := range found {
		seen[orderedAtoms(b.DonorAtom, b.AcceptorAtom)] = true
	}

	var missing []AtomPair
	for _, p := range pattern {
		if !seen[orderedAtoms(p.DonorAtom, p.AcceptorAtom)] {
			missing = append(missing, p)
		}
	}
	return missing
}

func orderedAtoms(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}
