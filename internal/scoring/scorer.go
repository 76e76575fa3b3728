// Package scoring produces the composite 0-1 quality score used to rank
// candidate base pairs. The score blends three components: RMSD to the
// canonical template, hydrogen-bond coverage against the count expected for
// the sequence, and the geometric quality of the found hydrogen bonds.
// Higher is better, in contrast to the validator's metric.
package scoring

import (
	"math"

	"github.com/jyesselm/basepairs/internal/hbond"
	"github.com/jyesselm/basepairs/internal/parser"
	"github.com/jyesselm/basepairs/internal/validation"
)

// Default component weights.
const (
	DefaultRMSDWeight     = 0.3
	DefaultCoverageWeight = 0.4
	DefaultQualityWeight  = 0.3
)

// Ideal hydrogen-bond distance band in Angstroms.
const (
	idealDistanceMin = 2.7
	idealDistanceMax = 3.2
)

// extendedBondWeight is the coverage credit of a bond recovered by the
// extended search; stretched bonds are real but count below a clean one.
const extendedBondWeight = 0.85

// expectedHBondCount maps a pair sequence to its canonical base-base
// hydrogen-bond count. Unlisted sequences default to 2.
var expectedHBondCount = map[string]int{
	"GC": 3, "CG": 3,
	"AU": 2, "UA": 2,
	"GU": 2, "UG": 2,
}

// ExpectedHBonds returns the canonical H-bond count for a two-letter
// sequence.
func ExpectedHBonds(sequence string) int {
	if n, ok := expectedHBondCount[sequence]; ok {
		return n
	}
	return 2
}

// Components breaks a pair score into its weighted parts, each in [0, 1].
type Components struct {
	RMSD     float64
	Coverage float64
	Quality  float64
	// ExtendedSearch marks that the relaxed re-search contributed bonds.
	ExtendedSearch bool
}

// Scorer computes composite pair scores.
type Scorer struct {
	rmsdWeight     float64
	coverageWeight float64
	qualityWeight  float64
}

// NewScorer returns a scorer with the given component weights.
func NewScorer(rmsdWeight, coverageWeight, qualityWeight float64) *Scorer {
	return &Scorer{
		rmsdWeight:     rmsdWeight,
		coverageWeight: coverageWeight,
		qualityWeight:  qualityWeight,
	}
}

// NewDefaultScorer returns a scorer with the standard 0.3/0.4/0.3 blend.
func NewDefaultScorer() *Scorer {
	return NewScorer(DefaultRMSDWeight, DefaultCoverageWeight, DefaultQualityWeight)
}

// Score computes the pair score from the validation result, the sequence,
// the template RMSD, and the detected hydrogen bonds. Invalid geometry
// scores zero outright. Only base-base bonds participate.
func (s *Scorer) Score(result *validation.Result, sequence string, rmsd float64, bonds []hbond.Bond) (float64, Components) {
	if result != nil && !result.IsValid {
		return 0, Components{}
	}
	return s.ScorePair(sequence, rmsd, filterBaseBase(bonds))
}

// ScorePair computes the composite score over base-base bonds.
func (s *Scorer) ScorePair(sequence string, rmsd float64, baseBonds []hbond.Bond) (float64, Components) {
	expected := ExpectedHBonds(sequence)

	comp := Components{
		RMSD:     rmsdScore(rmsd),
		Coverage: coverageScore(baseBonds, expected),
		Quality:  hbondQualityScore(baseBonds, rmsd),
	}
	for _, b := range baseBonds {
		if b.Extended {
			comp.ExtendedSearch = true
			break
		}
	}

	total := s.rmsdWeight*comp.RMSD + s.coverageWeight*comp.Coverage + s.qualityWeight*comp.Quality
	return round3(total), Components{
		RMSD:           round3(comp.RMSD),
		Coverage:       round3(comp.Coverage),
		Quality:        round3(comp.Quality),
		ExtendedSearch: comp.ExtendedSearch,
	}
}

// ScoreWithRecovery scores the pair, first re-running the relaxed H-bond
// search when the geometry is clean (template RMSD < 1 Å, inter-plane angle
// < 30°) but fewer base-base bonds were found than the sequence expects.
// Recovered bonds merge into the bond list and are marked Extended.
func (s *Scorer) ScoreWithRecovery(result *validation.Result, res1, res2 *parser.Residue, rmsd float64, bonds []hbond.Bond) (float64, Components, []hbond.Bond) {
	if result != nil && !result.IsValid {
		return 0, Components{}, bonds
	}

	sequence := res1.Sequence1() + res2.Sequence1()
	baseBonds := filterBaseBase(bonds)

	planeAngle := 0.0
	if result != nil {
		planeAngle = result.PlaneAngle
	}
	if rmsd < 1.0 && planeAngle < 30.0 && len(baseBonds) < ExpectedHBonds(sequence) {
		extended := hbond.FindExtended(res1, res2, hbond.ExtendedMaxDistance, hbond.ExtendedMinAlignment)
		if len(extended) > 0 {
			baseBonds = hbond.MergeExtended(baseBonds, filterBaseBase(extended))
		}
	}

	total, comp := s.ScorePair(sequence, rmsd, baseBonds)
	return total, comp, baseBonds
}

// rmsdScore maps template RMSD onto [0, 1]: 1.0 at or below 0.3 Å, 0.0 at
// or above 1.0 Å, linear between.
func rmsdScore(rmsd float64) float64 {
	switch {
	case rmsd <= 0.3:
		return 1.0
	case rmsd >= 1.0:
		return 0.0
	default:
		return 1.0 - (rmsd-0.3)/0.7
	}
}

// coverageScore is the fraction of expected bonds found, capped at 1.
// Extended-search bonds earn partial credit.
func coverageScore(bonds []hbond.Bond, expected int) float64 {
	if expected == 0 {
		return 0.0
	}
	var effective float64
	for _, b := range bonds {
		if b.Extended {
			effective += extendedBondWeight
		} else {
			effective += 1.0
		}
	}
	return math.Min(effective/float64(expected), 1.0)
}

// geometryLeniency widens the acceptable H-bond distance band when the
// template fit is clean: full leniency at RMSD <= 0.5 Å, none at >= 0.8 Å.
func geometryLeniency(rmsd float64) float64 {
	switch {
	case rmsd <= 0.5:
		return 1.0
	case rmsd >= 0.8:
		return 0.0
	default:
		return 1.0 - (rmsd-0.5)/0.3
	}
}

// hbondQualityScore averages the per-bond quality (70% distance, 30%
// alignment) over the found bonds; zero when none were found.
func hbondQualityScore(bonds []hbond.Bond, rmsd float64) float64 {
	if len(bonds) == 0 {
		return 0.0
	}
	leniency := geometryLeniency(rmsd)
	var sum float64
	for _, b := range bonds {
		sum += 0.7*distanceScore(b.Distance, leniency) + 0.3*alignmentScore(b.Alignment)
	}
	return sum / float64(len(bonds))
}

// distanceScore scores a bond distance against the ideal band. Short
// contacts decay toward 0.5; long contacts are forgiven up to one extra
// Angstrom scaled by the leniency, then decay to zero over 0.5 Å.
func distanceScore(dist, leniency float64) float64 {
	if dist >= idealDistanceMin && dist <= idealDistanceMax {
		return 1.0
	}
	if dist < idealDistanceMin {
		return math.Max(0.5, 1.0-(idealDistanceMin-dist)/0.5)
	}
	lenientMax := idealDistanceMax + 1.0*leniency
	if dist <= lenientMax {
		return 1.0
	}
	return math.Max(0.0, 1.0-(dist-lenientMax)/0.5)
}

// alignmentScore maps a bond's slot alignment onto [0, 1]. Bonds carry the
// raw slot score in [-2, 2] where HIGHER is better; the misalignment
// m = 2 − raw is scored: m <= 1 earns 1.0, m >= 2 earns 0.0, linear
// between.
func alignmentScore(rawAlignment float64) float64 {
	m := 2.0 - rawAlignment
	switch {
	case m <= 1.0:
		return 1.0
	case m >= 2.0:
		return 0.0
	default:
		return 1.0 - (m - 1.0)
	}
}

// Grade maps a score onto a diagnostic letter grade.
func Grade(score float64) string {
	switch {
	case score >= 0.9:
		return "A"
	case score >= 0.8:
		return "B"
	case score >= 0.7:
		return "C"
	case score >= 0.6:
		return "D"
	default:
		return "F"
	}
}

func filterBaseBase(bonds []hbond.Bond) []hbond.Bond {
	var out []hbond.Bond
	for _, b := range bonds {
		if b.Context == hbond.ContextBaseBase {
			out = append(out, b)
		}
	}
	return out
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
