package chem

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Registry maps 3-letter residue codes (5MC, PSU, 1MA, ...) to their parent
// base letter so that modified nucleotides inherit the parent's donor and
// acceptor chemistry. Construct one at startup with NewRegistry (optionally
// overlaying a JSON file) and pass it by reference; the registry is
// read-only after construction.
type Registry struct {
	parent   map[string]string
	isPurine map[string]bool
}

// builtinParents covers the standard residues plus the modified nucleotides
// that occur frequently in the PDB. A JSON overlay extends or overrides it.
var builtinParents = map[string]string{
	// Standard residues, modern and legacy naming.
	"A": "A", "G": "G", "C": "C", "U": "U", "T": "T", "I": "I",
	"ADE": "A", "GUA": "G", "CYT": "C", "URA": "U", "URI": "U", "THY": "T",
	"DA": "DA", "DG": "DG", "DC": "DC", "DT": "DT", "DU": "U",

	// Common modified purines.
	"1MA": "A", "2MA": "A", "6MA": "A", "MIA": "A", "T6A": "A", "RIA": "A",
	"1MG": "G", "2MG": "G", "7MG": "G", "M2G": "G", "OMG": "G", "YG": "G",
	"G7M": "G", "QUO": "G",

	// Common modified pyrimidines.
	"5MC": "C", "OMC": "C", "4OC": "C", "M4C": "C",
	"5MU": "U", "H2U": "U", "4SU": "U", "OMU": "U", "UR3": "U", "DHU": "U",
	"5BU": "U",

	// Bases that keep their own identity in the capacity tables.
	"PSU": "P", "PU": "P",
	"INO": "I", "2PR": "I",
}

// NewRegistry returns a registry seeded with the built-in table.
func NewRegistry() *Registry {
	r := &Registry{
		parent:   make(map[string]string, len(builtinParents)),
		isPurine: make(map[string]bool, len(builtinParents)),
	}
	for code, parent := range builtinParents {
		r.parent[code] = parent
		r.isPurine[code] = IsPurine(parent)
	}
	return r
}

// registryFile is the JSON overlay format: a code -> parent map under the
// "modified_nucleotides" key.
type registryFile struct {
	ModifiedNucleotides map[string]string `json:"modified_nucleotides"`
}

// NewRegistryFromFile returns a registry seeded with the built-in table and
// extended by the JSON overlay at path.
func NewRegistryFromFile(path string) (*Registry, error) {
	r := NewRegistry()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("chem: reading registry overlay: %w", err)
	}
	var file registryFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("chem: parsing registry overlay: %w", err)
	}
	for code, parent := range file.ModifiedNucleotides {
		code = strings.ToUpper(strings.TrimSpace(code))
		parent = strings.ToUpper(strings.TrimSpace(parent))
		r.parent[code] = parent
		r.isPurine[code] = IsPurine(parent)
	}
	return r, nil
}

// ParentBase returns the single-letter parent base for a residue code, and
// whether the code is known.
func (r *Registry) ParentBase(code string) (string, bool) {
	parent, ok := r.parent[normBase(code)]
	return parent, ok
}

// NormalizeBaseType resolves a raw residue name to a base letter usable as a
// capacity-table key. Unknown codes fall back to the first character when it
// names a standard base, otherwise the normalized code is returned as-is.
func (r *Registry) NormalizeBaseType(residueName string) string {
	name := normBase(residueName)
	if parent, ok := r.parent[name]; ok {
		return parent
	}
	if len(name) > 0 {
		first := string(name[0])
		if purines[first] || pyrimidines[first] {
			return first
		}
	}
	return name
}

// IsKnown reports whether the residue code has a parent mapping.
func (r *Registry) IsKnown(code string) bool {
	_, ok := r.parent[normBase(code)]
	return ok
}

// IsModified reports whether the code is a known modified nucleotide, i.e.
// known to the registry but not one of the standard residue names.
func (r *Registry) IsModified(code string) bool {
	code = normBase(code)
	switch code {
	case "A", "C", "G", "U", "T", "DA", "DC", "DG", "DT", "DU",
		"ADE", "CYT", "GUA", "URA", "THY":
		return false
	}
	return r.IsKnown(code)
}

// Count returns the number of registered residue codes.
func (r *Registry) Count() int { return len(r.parent) }
