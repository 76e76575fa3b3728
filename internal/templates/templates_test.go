package templates

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jyesselm/basepairs/internal/geometry"
	"github.com/jyesselm/basepairs/internal/parser"
)

// Standard-frame ring coordinates for G and C; the Watson-Crick partner is
// the (y, z) flip.
var tmplG = map[string]r3.Vec{
	"N9": {X: -1.289, Y: 4.551}, "C8": {X: 0.023, Y: 4.962}, "N7": {X: 0.870, Y: 3.969},
	"C5": {X: 0.071, Y: 2.833}, "C6": {X: 0.424, Y: 1.460}, "N1": {X: -0.700, Y: 0.641},
	"C2": {X: -1.999, Y: 1.087}, "N3": {X: -2.342, Y: 2.364}, "C4": {X: -1.265, Y: 3.177},
}

var tmplC = map[string]r3.Vec{
	"N1": {X: -1.285, Y: 4.542}, "C2": {X: -1.472, Y: 3.158}, "N3": {X: -0.391, Y: 2.344},
	"C4": {X: 0.837, Y: 2.868}, "C5": {X: 1.056, Y: 4.275}, "C6": {X: -0.023, Y: 5.068},
}

func wcFlip(p r3.Vec) r3.Vec { return r3.Vec{X: p.X, Y: -p.Y, Z: -p.Z} }

func transformed(atoms map[string]r3.Vec, f func(r3.Vec) r3.Vec) map[string]r3.Vec {
	out := make(map[string]r3.Vec, len(atoms))
	for k, v := range atoms {
		if f != nil {
			v = f(v)
		}
		out[k] = v
	}
	return out
}

func writeTemplate(t *testing.T, path string, res1, res2 map[string]r3.Vec, name1, name2 string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	var lines string
	serial := 1
	write := func(atoms map[string]r3.Vec, resName string, resSeq int) {
		for name, p := range atoms {
			lines += fmt.Sprintf("ATOM  %5d  %-3s %3s A%4d    %8.3f%8.3f%8.3f  1.00  0.00\n",
				serial, name, resName, resSeq, p.X, p.Y, p.Z)
			serial++
		}
	}
	write(res1, name1, 1)
	write(res2, name2, 2)
	lines += "END\n"
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))
}

func residue(id, base string, atoms map[string]r3.Vec) *parser.Residue {
	return &parser.Residue{ID: id, BaseType: base, Code: base, Atoms: atoms}
}

// gcPair returns a G-C candidate rigidly moved away from the standard frame.
func gcPair() (*parser.Residue, *parser.Residue) {
	move := func(p r3.Vec) r3.Vec {
		return r3.Add(geometry.RotateAboutAxis(p, r3.Vec{X: 1, Y: 0.3, Z: 2}, 40), r3.Vec{X: 20, Y: 5, Z: -3})
	}
	g := residue("A-G-1", "G", transformed(tmplG, move))
	c := residue("A-C-2", "C", transformed(tmplC, func(p r3.Vec) r3.Vec { return move(wcFlip(p)) }))
	return g, c
}

func newTestRepo(t *testing.T) (*Repository, string, string) {
	t.Helper()
	idealized := t.TempDir()
	exemplar := t.TempDir()
	return NewRepository(idealized, exemplar), idealized, exemplar
}

func TestRepositoryFindIdealizedFirst(t *testing.T) {
	repo, idealized, exemplar := newTestRepo(t)

	writeTemplate(t, filepath.Join(idealized, "cWW", "GC.pdb"), tmplG, transformed(tmplC, wcFlip), "G", "C")
	writeTemplate(t, filepath.Join(exemplar, "G-C-cWW.pdb"), tmplG, transformed(tmplC, wcFlip), "G", "C")

	tmpl, err := repo.Find("GC", "cWW")
	require.NoError(t, err)
	assert.Contains(t, tmpl.Path, "cWW")
	assert.Contains(t, tmpl.Path, "GC.pdb")
	assert.Len(t, tmpl.Res1, len(tmplG))
	assert.Len(t, tmpl.Res2, len(tmplC))
}

func TestRepositoryFindUnderscoreAndExemplarPatterns(t *testing.T) {
	repo, idealized, exemplar := newTestRepo(t)

	writeTemplate(t, filepath.Join(idealized, "tWH", "G_c.pdb"), tmplG, transformed(tmplC, wcFlip), "G", "C")
	tmpl, err := repo.Find("GC", "tWH")
	require.NoError(t, err)
	assert.Contains(t, tmpl.Path, "G_c.pdb")

	writeTemplate(t, filepath.Join(exemplar, "GplusC-cWS.pdb"), tmplG, transformed(tmplC, wcFlip), "G", "C")
	tmpl, err = repo.Find("GC", "cWS")
	require.NoError(t, err)
	assert.Contains(t, tmpl.Path, "GplusC-cWS.pdb")
}

func TestRepositoryNotFound(t *testing.T) {
	repo, _, _ := newTestRepo(t)
	_, err := repo.Find("GC", "cWW")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestRepositoryCaches(t *testing.T) {
	repo, idealized, _ := newTestRepo(t)
	writeTemplate(t, filepath.Join(idealized, "cWW", "GC.pdb"), tmplG, transformed(tmplC, wcFlip), "G", "C")

	first, err := repo.Find("GC", "cWW")
	require.NoError(t, err)
	second, err := repo.Find("GC", "cWW")
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestAlignPairPerfectMatch(t *testing.T) {
	repo, idealized, _ := newTestRepo(t)
	writeTemplate(t, filepath.Join(idealized, "cWW", "GC.pdb"), tmplG, transformed(tmplC, wcFlip), "G", "C")

	g, c := gcPair()
	aligner := NewAligner(repo)

	rmsd, n, err := aligner.AlignPair(g, c, "GC", "cWW")
	require.NoError(t, err)
	assert.InDelta(t, 0, rmsd, 1e-6)
	assert.Equal(t, 15, n) // 9 purine + 6 pyrimidine ring atoms
}

func TestAlignPairMissingTemplate(t *testing.T) {
	repo, _, _ := newTestRepo(t)
	g, c := gcPair()

	rmsd, n, err := NewAligner(repo).AlignPair(g, c, "GC", "cWW")
	assert.True(t, math.IsInf(rmsd, 1))
	assert.Zero(t, n)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestAlignPairTooFewAtoms(t *testing.T) {
	repo, idealized, _ := newTestRepo(t)
	// Template with only three usable ring atoms in total.
	writeTemplate(t, filepath.Join(idealized, "cWW", "GC.pdb"),
		map[string]r3.Vec{"N1": tmplG["N1"], "C2": tmplG["C2"]},
		map[string]r3.Vec{"N3": wcFlip(tmplC["N3"])},
		"G", "C")

	g, c := gcPair()
	rmsd, n, err := NewAligner(repo).AlignPair(g, c, "GC", "cWW")
	assert.True(t, math.IsInf(rmsd, 1))
	assert.Zero(t, n)
	assert.Error(t, err)
}

func TestClassifyPicksBestClass(t *testing.T) {
	repo, idealized, _ := newTestRepo(t)

	// Correct cWW geometry, plus a decoy tWW whose partner is shifted.
	writeTemplate(t, filepath.Join(idealized, "cWW", "GC.pdb"), tmplG, transformed(tmplC, wcFlip), "G", "C")
	writeTemplate(t, filepath.Join(idealized, "tWW", "GC.pdb"), tmplG,
		transformed(tmplC, func(p r3.Vec) r3.Vec {
			f := wcFlip(p)
			f.X += 2.5
			f.Z += 1.0
			return f
		}), "G", "C")

	g, c := gcPair()
	result := NewAligner(repo).Classify(g, c, nil)

	assert.Equal(t, "GC", result.Sequence)
	assert.Equal(t, "cWW", result.BestLW)
	assert.InDelta(t, 0, result.BestRMSD, 1e-6)
	assert.Equal(t, "tWW", result.SecondLW)
	assert.Greater(t, result.SecondRMSD, 0.3)
	assert.InDelta(t, 1.0, result.Confidence(), 1e-9)
}

func TestClassifyReversedOrientation(t *testing.T) {
	repo, idealized, _ := newTestRepo(t)
	writeTemplate(t, filepath.Join(idealized, "cWW", "GC.pdb"), tmplG, transformed(tmplC, wcFlip), "G", "C")

	// Candidate given as (C, G): only the reversed trial matches.
	g, c := gcPair()
	result := NewAligner(repo).Classify(c, g, nil)

	assert.Equal(t, "CG", result.Sequence)
	assert.Equal(t, "cWW", result.BestLW)
	require.NotEmpty(t, result.Results)
	assert.True(t, result.Results[0].Reversed)
	assert.InDelta(t, 0, result.BestRMSD, 1e-6)
}

func TestClassifyNoTemplates(t *testing.T) {
	repo, _, _ := newTestRepo(t)
	g, c := gcPair()

	result := NewAligner(repo).Classify(g, c, nil)
	assert.Equal(t, "unknown", result.BestLW)
	assert.True(t, math.IsInf(result.BestRMSD, 1))
	assert.InDelta(t, 1.0, result.Confidence(), 1e-9)
}

func TestAlignmentResultScorePenalty(t *testing.T) {
	full := AlignmentResult{RMSD: 0.2, NumAtoms: 12}
	assert.InDelta(t, 0.2, full.Score(), 1e-12)

	sparse := AlignmentResult{RMSD: 0.01, NumAtoms: 6}
	// 4 atoms short of 10: penalty 2.0.
	assert.InDelta(t, 2.01, sparse.Score(), 1e-12)
	assert.Greater(t, sparse.Score(), full.Score())
}
