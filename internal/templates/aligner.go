package templates

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jyesselm/basepairs/internal/chem"
	"github.com/jyesselm/basepairs/internal/geometry"
	"github.com/jyesselm/basepairs/internal/parser"
)

// minAlignmentAtoms is the smallest ring-atom intersection that still gives
// a meaningful superposition.
const minAlignmentAtoms = 4

// fullAtomTarget is the atom count below which the ranking score adds a
// penalty; a near-perfect RMSD over six atoms is less trustworthy than a
// modest RMSD over fifteen.
const fullAtomTarget = 10

// AlignmentResult is one template trial during classification.
type AlignmentResult struct {
	LWClass  string
	Sequence string
	RMSD     float64
	NumAtoms int
	// Reversed marks trials where the candidate residues were swapped to
	// match the template orientation.
	Reversed bool
	Path     string
}

// Score ranks trials: RMSD plus 0.5 per atom short of the full-atom target.
func (a AlignmentResult) Score() float64 {
	if a.NumAtoms < fullAtomTarget {
		return a.RMSD + float64(fullAtomTarget-a.NumAtoms)*0.5
	}
	return a.RMSD
}

// Classification is the outcome of trying all LW classes on a pair.
type Classification struct {
	Sequence   string
	BestLW     string
	BestRMSD   float64
	SecondLW   string
	SecondRMSD float64
	Results    []AlignmentResult
}

// Confidence estimates classification reliability from the gap between the
// best and second-best RMSD; a 0.5 Å gap saturates to 1.0.
func (c Classification) Confidence() float64 {
	if c.SecondLW == "" {
		return 1.0
	}
	gap := c.SecondRMSD - c.BestRMSD
	if gap > 0.5 {
		return 1.0
	}
	if gap < 0 {
		return 0.0
	}
	return gap / 0.5
}

// Aligner aligns candidate pairs onto templates from a repository.
type Aligner struct {
	repo *Repository
}

// NewAligner returns an aligner over the repository.
func NewAligner(repo *Repository) *Aligner {
	return &Aligner{repo: repo}
}

// AlignPair aligns (res1, res2) onto the template for (sequence, lwClass)
// and returns the residual RMSD and the number of atoms aligned. A missing
// template or a ring-atom intersection smaller than four yields +Inf.
func (a *Aligner) AlignPair(res1, res2 *parser.Residue, sequence, lwClass string) (float64, int, error) {
	tmpl, err := a.repo.Find(sequence, lwClass)
	if err != nil {
		return math.Inf(1), 0, err
	}
	return AlignToTemplate(res1, res2, tmpl)
}

// AlignToTemplate superposes the template onto the candidate pair over the
// common ring atoms and returns the residual RMSD.
func AlignToTemplate(res1, res2 *parser.Residue, tmpl *Template) (float64, int, error) {
	var templatePoints, targetPoints []r3.Vec
	collect := func(tmplAtoms map[string]r3.Vec, res *parser.Residue) {
		for _, name := range chem.CommonRingAtoms {
			tp, inTemplate := tmplAtoms[name]
			rp, inTarget := res.Atoms[name]
			if inTemplate && inTarget {
				templatePoints = append(templatePoints, tp)
				targetPoints = append(targetPoints, rp)
			}
		}
	}
	collect(tmpl.Res1, res1)
	collect(tmpl.Res2, res2)

	if len(templatePoints) < minAlignmentAtoms {
		return math.Inf(1), 0, geometry.ErrInsufficientPoints
	}

	_, rmsd, err := geometry.Superpose(templatePoints, targetPoints)
	if err != nil {
		return math.Inf(1), 0, err
	}
	return rmsd, len(templatePoints), nil
}

// Classify tries every LW class on the pair, in both orientations, and
// returns the trials ranked by score. With no usable template at all the
// best class is "unknown" with +Inf RMSD.
func (a *Aligner) Classify(res1, res2 *parser.Residue, lwClasses []string) Classification {
	if lwClasses == nil {
		lwClasses = LWClasses
	}
	sequence := res1.Sequence1() + res2.Sequence1()
	reversed := res2.Sequence1() + res1.Sequence1()

	var results []AlignmentResult
	for _, lw := range lwClasses {
		if tmpl, err := a.repo.Find(sequence, lw); err == nil {
			if rmsd, n, err := AlignToTemplate(res1, res2, tmpl); err == nil {
				results = append(results, AlignmentResult{
					LWClass: lw, Sequence: sequence, RMSD: rmsd, NumAtoms: n, Path: tmpl.Path,
				})
			}
		}
		if tmpl, err := a.repo.Find(reversed, lw); err == nil {
			if rmsd, n, err := AlignToTemplate(res2, res1, tmpl); err == nil {
				results = append(results, AlignmentResult{
					LWClass: lw, Sequence: reversed, RMSD: rmsd, NumAtoms: n, Reversed: true, Path: tmpl.Path,
				})
			}
		}
	}

	sort.Slice(results, func(i, j int) bool {
		si, sj := results[i].Score(), results[j].Score()
		if si != sj {
			return si < sj
		}
		if results[i].LWClass != results[j].LWClass {
			return results[i].LWClass < results[j].LWClass
		}
		return !results[i].Reversed && results[j].Reversed
	})

	c := Classification{Sequence: sequence, BestLW: "unknown", BestRMSD: math.Inf(1), Results: results}
	if len(results) > 0 {
		c.BestLW = results[0].LWClass
		c.BestRMSD = results[0].RMSD
	}
	if len(results) > 1 {
		c.SecondLW = results[1].LWClass
		c.SecondRMSD = results[1].RMSD
	}
	return c
}
