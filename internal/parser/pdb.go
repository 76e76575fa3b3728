// Package parser reads nucleic-acid structures and base-pair templates from
// PDB-format files into the residue model consumed by the pair-identification
// pipeline.
//
// Parsing follows the fixed-column PDB convention: ATOM and HETATM records
// only, one conformer per atom (blank or 'A' alternate location), reading stops
// at END/ENDMDL so multi-model files contribute a single model. Malformed
// lines are skipped rather than failing the whole structure.
package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jyesselm/basepairs/internal/chem"
)

// Residue is a nucleotide with its atom coordinates. Atomic content is
// immutable after parsing; identification pipelines attach their own caches
// externally rather than mutating the residue.
type Residue struct {
	// ID is the canonical residue identifier "chain-base-seq[ins]",
	// e.g. "A-G-1" or "A-C-10A".
	ID string
	// BaseType is the single-letter parent base (A, G, C, U, T, P, I or a
	// DNA variant), resolved through the modified-nucleotide registry.
	BaseType string
	// Code is the raw residue name from the file (e.g. "5MC", "PSU").
	Code string
	// Atoms maps PDB atom names to positions in Angstroms.
	Atoms map[string]r3.Vec
}

// Pos returns the position of the named atom.
func (r *Residue) Pos(name string) (r3.Vec, bool) {
	p, ok := r.Atoms[strings.TrimSpace(name)]
	return p, ok
}

// GlycosidicN returns the position of the glycosidic nitrogen (N9 for
// purines, N1 for pyrimidines).
func (r *Residue) GlycosidicN() (r3.Vec, bool) {
	name := chem.GlycosidicN(r.BaseType)
	if name == "" {
		return r3.Vec{}, false
	}
	return r.Pos(name)
}

// RingCoords returns the names and positions of the residue's ring atoms
// that are present, in the canonical ring order.
func (r *Residue) RingCoords() ([]string, []r3.Vec) {
	var names []string
	var points []r3.Vec
	for _, name := range chem.RingAtoms(r.BaseType) {
		if p, ok := r.Atoms[name]; ok {
			names = append(names, name)
			points = append(points, p)
		}
	}
	return names, points
}

// Sequence1 returns the residue's one-letter name for sequence strings.
// DNA variants keep their parent letter (DG pairs as G).
func (r *Residue) Sequence1() string {
	if len(r.BaseType) == 2 && r.BaseType[0] == 'D' {
		return r.BaseType[1:]
	}
	return r.BaseType
}

// Structure is a parsed set of residues keyed by ID, with insertion order
// preserved for deterministic iteration.
type Structure struct {
	Name     string
	Residues map[string]*Residue
	Order    []string
}

// ParsePDB parses the file at path into a Structure. Residues whose code the
// registry cannot resolve to a nucleic-acid base (waters, ions, protein) are
// dropped.
func ParsePDB(path string, reg *chem.Registry) (*Structure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("parser: opening structure: %w", err)
	}
	defer f.Close()

	s, err := Parse(f, reg)
	if err != nil {
		return nil, err
	}
	s.Name = strings.TrimSuffix(strings.ToUpper(baseName(path)), ".PDB")
	return s, nil
}

// Parse reads PDB records from r into a Structure.
func Parse(r io.Reader, reg *chem.Registry) (*Structure, error) {
	s := &Structure{Residues: make(map[string]*Residue)}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "END") {
			// END or ENDMDL: only the first model is read.
			break
		}
		if !isAtomRecord(line) {
			continue
		}
		rec, ok := parseAtomLine(line)
		if !ok {
			continue
		}
		if rec.altLoc != "" && rec.altLoc != "A" {
			continue
		}

		base := rec.resName
		if reg != nil {
			if parent, known := reg.ParentBase(rec.resName); known {
				base = parent
			} else if !chem.IsPurine(rec.resName) && !chem.IsPyrimidine(rec.resName) {
				continue
			}
		}

		seq := rec.resSeq
		if rec.iCode != "" {
			seq += rec.iCode
		}
		id := fmt.Sprintf("%s-%s-%s", rec.chainID, base, seq)

		res, exists := s.Residues[id]
		if !exists {
			res = &Residue{
				ID:       id,
				BaseType: base,
				Code:     rec.resName,
				Atoms:    make(map[string]r3.Vec),
			}
			s.Residues[id] = res
			s.Order = append(s.Order, id)
		}
		if _, dup := res.Atoms[rec.name]; !dup {
			res.Atoms[rec.name] = rec.pos
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("parser: reading structure: %w", err)
	}
	return s, nil
}

// ParseTemplatePDB parses a two-residue base-pair template. Template files
// number residue 1 and residue 2; atoms of each are returned as coordinate
// maps.
func ParseTemplatePDB(path string) (res1, res2 map[string]r3.Vec, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("parser: opening template: %w", err)
	}
	defer f.Close()

	res1 = make(map[string]r3.Vec)
	res2 = make(map[string]r3.Vec)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !isAtomRecord(line) {
			continue
		}
		rec, ok := parseAtomLine(line)
		if !ok {
			continue
		}
		switch rec.resSeq {
		case "1":
			res1[rec.name] = rec.pos
		case "2":
			res2[rec.name] = rec.pos
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("parser: reading template: %w", err)
	}
	return res1, res2, nil
}

type atomRecord struct {
	name    string
	altLoc  string
	resName string
	chainID string
	resSeq  string
	iCode   string
	pos     r3.Vec
}

func isAtomRecord(line string) bool {
	return strings.HasPrefix(line, "ATOM") || strings.HasPrefix(line, "HETATM")
}

// parseAtomLine extracts the fields of a fixed-column ATOM/HETATM record.
//
// ATOM      1  N1    G A   1      11.104   6.134  -6.504  1.00  0.00           N
// Cols: 13-16 name, 17 altLoc, 18-20 resName, 22 chainID, 23-26 resSeq,
// 27 iCode, 31-38 x, 39-46 y, 47-54 z.
func parseAtomLine(line string) (atomRecord, bool) {
	if len(line) < 54 {
		return atomRecord{}, false
	}
	for len(line) < 80 {
		line += " "
	}

	x, errX := strconv.ParseFloat(strings.TrimSpace(line[30:38]), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(line[38:46]), 64)
	z, errZ := strconv.ParseFloat(strings.TrimSpace(line[46:54]), 64)
	if errX != nil || errY != nil || errZ != nil {
		return atomRecord{}, false
	}

	chain := strings.TrimSpace(line[21:22])
	if chain == "" {
		chain = "A"
	}

	return atomRecord{
		name:    normalizeAtomName(line[12:16]),
		altLoc:  strings.TrimSpace(line[16:17]),
		resName: strings.TrimSpace(line[17:20]),
		chainID: chain,
		resSeq:  strings.TrimSpace(line[22:26]),
		iCode:   strings.TrimSpace(line[26:27]),
		pos:     r3.Vec{X: x, Y: y, Z: z},
	}, true
}

// normalizeAtomName trims padding and rewrites legacy star names (O2*) to
// the primed convention (O2').
func normalizeAtomName(raw string) string {
	return strings.ReplaceAll(strings.TrimSpace(raw), "*", "'")
}

func baseName(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}
