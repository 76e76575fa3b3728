// Package selection chooses a final non-overlapping set of base pairs from
// scored candidates. The primary strategy is mutual-best: a pair is kept
// only when each residue's best-scoring partner is the other residue.
package selection

import (
	"sort"

	"github.com/jyesselm/basepairs/internal/frame"
	"github.com/jyesselm/basepairs/internal/hbond"
	"github.com/jyesselm/basepairs/internal/validation"
)

// Rejection reason codes surfaced in diagnostics.
const (
	ReasonResidueAlreadyUsed = "residue_already_used"
	ReasonNotMutualBest      = "not_mutual_best"
	ReasonInsufficientScore  = "insufficient_score"
)

// Candidate is a validated pair with its assigned quality score.
type Candidate struct {
	ResID1   string
	ResID2   string
	ResName1 string
	ResName2 string

	Frame1     *frame.Frame
	Frame2     *frame.Frame
	Validation *validation.Result

	// QualityScore is the scorer's 0-1 composite; HIGHER is better.
	QualityScore float64
	// LWClass is the Leontis-Westhof classification when one was made.
	LWClass string
	// HBonds are the detected hydrogen bonds for the pair.
	HBonds []hbond.Bond
}

// Sequence returns the two-letter sequence code of the pair.
func (c *Candidate) Sequence() string { return c.ResName1 + c.ResName2 }

// SamePair reports whether two candidates join the same two residues, in
// either order.
func (c *Candidate) SamePair(o *Candidate) bool {
	if o == nil {
		return false
	}
	return (c.ResID1 == o.ResID1 && c.ResID2 == o.ResID2) ||
		(c.ResID1 == o.ResID2 && c.ResID2 == o.ResID1)
}

// Rejection pairs a discarded candidate with its reason code.
type Rejection struct {
	Candidate *Candidate
	Reason    string
}

// Result is the outcome of a selection run.
type Result struct {
	Selected     []*Candidate
	Rejected     []Rejection
	UsedResidues map[string]bool
}

// Strategy selects pairs from scored candidates.
type Strategy interface {
	Select(candidates []*Candidate) *Result
}

// MutualBest implements greedy score-ordered selection with the
// mutual-partner constraint.
type MutualBest struct {
	// MinScore filters candidates below this quality score.
	MinScore float64
	// RequireMutual disables the mutual check when false, reducing the
	// strategy to plain greedy selection.
	RequireMutual bool
}

// NewMutualBest returns the default strategy: mutual checking on, no score
// floor.
func NewMutualBest() *MutualBest {
	return &MutualBest{MinScore: 0.0, RequireMutual: true}
}

// Select runs the strategy over the candidates.
func (m *MutualBest) Select(candidates []*Candidate) *Result {
	result := &Result{UsedResidues: make(map[string]bool)}

	valid := filterValid(candidates, m.MinScore, &result.Rejected)
	sortByScore(valid)

	// best[res] is the top-ranked candidate containing res.
	best := make(map[string]*Candidate)
	for _, c := range valid {
		if _, ok := best[c.ResID1]; !ok {
			best[c.ResID1] = c
		}
		if _, ok := best[c.ResID2]; !ok {
			best[c.ResID2] = c
		}
	}

	for _, c := range valid {
		if result.UsedResidues[c.ResID1] || result.UsedResidues[c.ResID2] {
			result.Rejected = append(result.Rejected, Rejection{c, ReasonResidueAlreadyUsed})
			continue
		}
		if m.RequireMutual && !(c.SamePair(best[c.ResID1]) && c.SamePair(best[c.ResID2])) {
			result.Rejected = append(result.Rejected, Rejection{c, ReasonNotMutualBest})
			continue
		}

		result.Selected = append(result.Selected, c)
		result.UsedResidues[c.ResID1] = true
		result.UsedResidues[c.ResID2] = true
		delete(best, c.ResID1)
		delete(best, c.ResID2)
	}
	return result
}

// GreedyBest selects pairs in descending score order without the mutual
// constraint.
type GreedyBest struct {
	MinScore float64
}

// Select runs plain greedy selection.
func (g *GreedyBest) Select(candidates []*Candidate) *Result {
	m := &MutualBest{MinScore: g.MinScore, RequireMutual: false}
	return m.Select(candidates)
}

// filterValid keeps candidates with valid geometry and sufficient score,
// recording score rejections.
func filterValid(candidates []*Candidate, minScore float64, rejected *[]Rejection) []*Candidate {
	var valid []*Candidate
	for _, c := range candidates {
		if c.Validation != nil && !c.Validation.IsValid {
			continue
		}
		if c.QualityScore < minScore {
			*rejected = append(*rejected, Rejection{c, ReasonInsufficientScore})
			continue
		}
		valid = append(valid, c)
	}
	return valid
}

// sortByScore orders candidates by descending score, with ties broken by
// the ordered residue-ID pair so selection is deterministic.
func sortByScore(candidates []*Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.QualityScore != b.QualityScore {
			return a.QualityScore > b.QualityScore
		}
		if a.ResID1 != b.ResID1 {
			return a.ResID1 < b.ResID1
		}
		return a.ResID2 < b.ResID2
	})
}
