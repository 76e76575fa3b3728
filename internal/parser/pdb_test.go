package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jyesselm/basepairs/internal/chem"
)

// pdbLine formats a fixed-column ATOM record; name occupies columns 13-16.
func pdbLine(serial int, name, resName, chain, resSeq string, x, y, z float64) string {
	return atomLine(serial, name, " ", resName, chain, resSeq, x, y, z)
}

func atomLine(serial int, name, altLoc, resName, chain, resSeq string, x, y, z float64) string {
	nameField := fmt.Sprintf(" %-3s", name)
	if len(name) >= 4 {
		nameField = name[:4]
	}
	return fmt.Sprintf("ATOM  %5d %4s%1s%3s %1s%4s%1s   %8.3f%8.3f%8.3f  1.00  0.00",
		serial, nameField, altLoc, resName, chain, resSeq, " ", x, y, z)
}

func TestParseStructure(t *testing.T) {
	lines := []string{
		pdbLine(1, "N1", "G", "A", "1", 1.0, 2.0, 3.0),
		pdbLine(2, "C2", "G", "A", "1", 2.0, 2.0, 3.0),
		pdbLine(3, "O2*", "G", "A", "1", 3.0, 2.0, 3.0),  // legacy star name
		pdbLine(4, "N3", "5MC", "A", "2", 4.0, 2.0, 3.0), // modified cytosine
		pdbLine(5, "O", "HOH", "A", "3", 9.0, 9.0, 9.0),  // water, dropped
		"END",
		pdbLine(6, "N1", "G", "A", "4", 0.0, 0.0, 0.0), // after END, ignored
	}

	s, err := Parse(strings.NewReader(strings.Join(lines, "\n")), chem.NewRegistry())
	require.NoError(t, err)

	require.Len(t, s.Residues, 2)
	assert.Equal(t, []string{"A-G-1", "A-C-2"}, s.Order)

	g := s.Residues["A-G-1"]
	require.NotNil(t, g)
	assert.Equal(t, "G", g.BaseType)
	assert.Equal(t, "G", g.Code)
	assert.Len(t, g.Atoms, 3)

	// Star names are rewritten to the primed convention.
	_, ok := g.Pos("O2'")
	assert.True(t, ok)

	mc := s.Residues["A-C-2"]
	require.NotNil(t, mc)
	assert.Equal(t, "C", mc.BaseType)
	assert.Equal(t, "5MC", mc.Code)
}

func TestParseAlternateLocations(t *testing.T) {
	// Conformer A kept, conformer B dropped.
	lineA := atomLine(1, "N1", "A", "G", "A", "1", 1.0, 0.0, 0.0)
	lineB := atomLine(2, "N1", "B", "G", "A", "1", 5.0, 0.0, 0.0)

	s, err := Parse(strings.NewReader(lineA+"\n"+lineB), chem.NewRegistry())
	require.NoError(t, err)

	g := s.Residues["A-G-1"]
	require.NotNil(t, g)
	p, ok := g.Pos("N1")
	require.True(t, ok)
	assert.InDelta(t, 1.0, p.X, 1e-9)
}

func TestParseMalformedLinesSkipped(t *testing.T) {
	lines := []string{
		"ATOM      1  N1", // truncated record
		pdbLine(2, "N1", "G", "A", "1", 1.0, 2.0, 3.0),
	}
	s, err := Parse(strings.NewReader(strings.Join(lines, "\n")), chem.NewRegistry())
	require.NoError(t, err)
	assert.Len(t, s.Residues, 1)
}

func TestResidueHelpers(t *testing.T) {
	lines := []string{
		pdbLine(1, "N9", "G", "A", "1", 0.0, 0.0, 0.0),
		pdbLine(2, "C8", "G", "A", "1", 1.0, 0.0, 0.0),
		pdbLine(3, "N7", "G", "A", "1", 2.0, 0.5, 0.0),
	}
	s, err := Parse(strings.NewReader(strings.Join(lines, "\n")), chem.NewRegistry())
	require.NoError(t, err)

	g := s.Residues["A-G-1"]
	require.NotNil(t, g)

	gly, ok := g.GlycosidicN()
	require.True(t, ok)
	assert.InDelta(t, 0.0, gly.X, 1e-9)

	names, points := g.RingCoords()
	assert.Equal(t, []string{"N9", "C8", "N7"}, names)
	assert.Len(t, points, 3)

	assert.Equal(t, "G", g.Sequence1())
	dg := &Residue{BaseType: "DG"}
	assert.Equal(t, "G", dg.Sequence1())
}

func TestParseInsertionCodes(t *testing.T) {
	line := fmt.Sprintf("ATOM  %5d %4s%1s%3s %1s%4s%1s   %8.3f%8.3f%8.3f  1.00  0.00",
		1, " N1 ", " ", "  C", "A", "  10", "A", 1.0, 2.0, 3.0)

	s, err := Parse(strings.NewReader(line), chem.NewRegistry())
	require.NoError(t, err)
	_, ok := s.Residues["A-C-10A"]
	assert.True(t, ok, "insertion code should be folded into the residue ID")
}

func TestParseTemplatePDB(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "GC.pdb")
	lines := []string{
		pdbLine(1, "N1", "G", "A", "1", 0.0, 0.0, 0.0),
		pdbLine(2, "C2", "G", "A", "1", 1.0, 0.0, 0.0),
		pdbLine(3, "N3", "C", "A", "2", 5.0, 0.0, 0.0),
		"END",
	}
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644))

	res1, res2, err := ParseTemplatePDB(path)
	require.NoError(t, err)
	assert.Len(t, res1, 2)
	assert.Len(t, res2, 1)
	assert.InDelta(t, 5.0, res2["N3"].X, 1e-9)
}
