// Package finder orchestrates the full pair-identification pipeline over a
// structure: frame extraction, KD-tree neighbor search over frame origins,
// geometric validation, hydrogen-bond detection, template alignment and
// scoring, and final mutual-best selection.
package finder

import (
	"math"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/jyesselm/basepairs/internal/frame"
	"github.com/jyesselm/basepairs/internal/hbond"
	"github.com/jyesselm/basepairs/internal/parser"
	"github.com/jyesselm/basepairs/internal/scoring"
	"github.com/jyesselm/basepairs/internal/selection"
	"github.com/jyesselm/basepairs/internal/templates"
	"github.com/jyesselm/basepairs/internal/validation"
)

// Config collects every tunable of the pipeline.
type Config struct {
	// MaxPairDistance is the neighbor-search radius between frame origins.
	MaxPairDistance float64
	// MinScore is the selection floor on the 0-1 quality score.
	MinScore float64
	// RequireMutual enables the mutual-best constraint.
	RequireMutual bool
	// Classify runs the 12-class LW classification on every geometrically
	// valid candidate.
	Classify bool

	Thresholds validation.Thresholds
	Detector   hbond.Config

	RMSDWeight     float64
	CoverageWeight float64
	QualityWeight  float64
}

// DefaultConfig returns the standard pipeline settings.
func DefaultConfig() Config {
	return Config{
		MaxPairDistance: 15.0,
		MinScore:        0.0,
		RequireMutual:   true,
		Classify:        true,
		Thresholds:      validation.DefaultThresholds(),
		Detector:        hbond.DefaultConfig(),
		RMSDWeight:      scoring.DefaultRMSDWeight,
		CoverageWeight:  scoring.DefaultCoverageWeight,
		QualityWeight:   scoring.DefaultQualityWeight,
	}
}

// Pair is one selected base pair in the final output.
type Pair struct {
	ResID1     string             `json:"res_id1"`
	ResID2     string             `json:"res_id2"`
	Sequence   string             `json:"sequence"`
	LWClass    string             `json:"lw_class,omitempty"`
	Score      float64            `json:"score"`
	Grade      string             `json:"grade"`
	Validation *validation.Result `json:"validation"`
	HBonds     []hbond.Bond       `json:"hbonds"`
}

// RejectionDiagnostic records why a candidate was discarded.
type RejectionDiagnostic struct {
	ResID1 string  `json:"res_id1"`
	ResID2 string  `json:"res_id2"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// Result is the outcome of running the pipeline on one structure.
type Result struct {
	Name            string                `json:"name"`
	Pairs           []Pair                `json:"pairs"`
	CandidatesTotal int                   `json:"candidates_total"`
	CandidatesValid int                   `json:"candidates_valid"`
	Rejections      []RejectionDiagnostic `json:"rejections"`
}

// Finder runs the pipeline. It is safe for concurrent FindPairs calls: the
// per-run mutable state (detector slot caches) is created per call, the
// template repository serializes its cache internally, and the remaining
// collaborators are read-only.
type Finder struct {
	cfg    Config
	repo   *templates.Repository // nil disables template alignment
	logger *zap.Logger

	validator *validation.Validator
	scorer    *scoring.Scorer
}

// New returns a finder. repo may be nil, in which case template RMSD falls
// back to the validator's composite metric scaled down, and classification
// is skipped. logger may be nil for silence.
func New(cfg Config, repo *templates.Repository, logger *zap.Logger) *Finder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Finder{
		cfg:       cfg,
		repo:      repo,
		logger:    logger,
		validator: validation.NewValidator(cfg.Thresholds),
		scorer:    scoring.NewScorer(cfg.RMSDWeight, cfg.CoverageWeight, cfg.QualityWeight),
	}
}

// FindPairs runs the pipeline on one structure.
func (f *Finder) FindPairs(s *parser.Structure) *Result {
	log := f.logger.With(zap.String("structure", s.Name))

	frames := frame.ExtractAll(s)
	log.Debug("extracted frames",
		zap.Int("residues", len(s.Residues)),
		zap.Int("frames", len(frames)))

	candidates := f.collectCandidates(s, frames, log)

	valid := 0
	for _, c := range candidates {
		if c.Validation.IsValid {
			valid++
		}
	}

	strategy := &selection.MutualBest{MinScore: f.cfg.MinScore, RequireMutual: f.cfg.RequireMutual}
	selResult := strategy.Select(candidates)

	result := &Result{
		Name:            s.Name,
		CandidatesTotal: len(candidates),
		CandidatesValid: valid,
	}
	for _, c := range selResult.Selected {
		if c.LWClass == "cWW" {
			if missing := hbond.MissingFromPattern(c.Sequence(), c.HBonds); len(missing) > 0 {
				log.Debug("canonical pair missing expected contacts",
					zap.String("res_id1", c.ResID1),
					zap.String("res_id2", c.ResID2),
					zap.Int("missing", len(missing)))
			}
		}
		result.Pairs = append(result.Pairs, Pair{
			ResID1:     c.ResID1,
			ResID2:     c.ResID2,
			Sequence:   c.Sequence(),
			LWClass:    c.LWClass,
			Score:      c.QualityScore,
			Grade:      scoring.Grade(c.QualityScore),
			Validation: c.Validation,
			HBonds:     c.HBonds,
		})
	}
	for _, r := range selResult.Rejected {
		result.Rejections = append(result.Rejections, RejectionDiagnostic{
			ResID1: r.Candidate.ResID1,
			ResID2: r.Candidate.ResID2,
			Score:  r.Candidate.QualityScore,
			Reason: r.Reason,
		})
	}
	for _, c := range candidates {
		if !c.Validation.IsValid {
			result.Rejections = append(result.Rejections, RejectionDiagnostic{
				ResID1: c.ResID1,
				ResID2: c.ResID2,
				Reason: c.Validation.RejectionReason,
			})
		}
	}

	log.Info("pair finding complete",
		zap.Int("candidates", len(candidates)),
		zap.Int("valid", valid),
		zap.Int("selected", len(result.Pairs)),
		zap.Int("rejected", len(result.Rejections)))
	return result
}

// collectCandidates queries frame-origin neighbors and validates, scores,
// and annotates each unordered residue pair once.
func (f *Finder) collectCandidates(s *parser.Structure, frames map[string]*frame.Frame, log *zap.Logger) []*selection.Candidate {
	ids := make([]string, 0, len(frames))
	for id := range frames {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	ord := make(map[string]int, len(ids))
	for i, id := range ids {
		ord[id] = i
	}

	index := newOriginIndex(ids, frames)
	detector := hbond.NewDetector(f.cfg.Detector)
	aligner := f.aligner()

	var candidates []*selection.Candidate
	for _, id1 := range ids {
		for _, id2 := range index.neighborsWithin(id1, frames[id1].Origin, f.cfg.MaxPairDistance) {
			if ord[id2] <= ord[id1] {
				continue
			}
			c := f.buildCandidate(s, frames, detector, aligner, id1, id2)
			if c != nil {
				candidates = append(candidates, c)
			}
		}
	}
	log.Debug("candidate collection complete", zap.Int("candidates", len(candidates)))
	return candidates
}

func (f *Finder) aligner() *templates.Aligner {
	if f.repo == nil {
		return nil
	}
	return templates.NewAligner(f.repo)
}

func (f *Finder) buildCandidate(s *parser.Structure, frames map[string]*frame.Frame, detector *hbond.Detector, aligner *templates.Aligner, id1, id2 string) *selection.Candidate {
	res1, res2 := s.Residues[id1], s.Residues[id2]
	if res1 == nil || res2 == nil {
		return nil
	}
	gly1, ok1 := res1.GlycosidicN()
	gly2, ok2 := res2.GlycosidicN()
	if !ok1 || !ok2 {
		return nil
	}

	valResult := f.validator.Validate(frames[id1], frames[id2], gly1, gly2)
	candidate := &selection.Candidate{
		ResID1:     id1,
		ResID2:     id2,
		ResName1:   res1.Sequence1(),
		ResName2:   res2.Sequence1(),
		Frame1:     frames[id1],
		Frame2:     frames[id2],
		Validation: valResult,
	}
	if !valResult.IsValid {
		// No downstream work for geometric rejects.
		return candidate
	}

	bonds := detector.FindBetween(res1, res2)

	sequence := candidate.Sequence()
	rmsd := math.Inf(1)
	if aligner != nil {
		if r, _, err := aligner.AlignPair(res1, res2, sequence, "cWW"); err == nil {
			rmsd = r
		}
	}
	if math.IsInf(rmsd, 1) {
		// No template available: fall back to the scaled validator metric.
		rmsd = valResult.QualityMetric / 10.0
	}

	score, _, scoredBonds := f.scorer.ScoreWithRecovery(valResult, res1, res2, rmsd, bonds)
	candidate.QualityScore = score
	candidate.HBonds = mergeScored(bonds, scoredBonds)

	if f.cfg.Classify && aligner != nil {
		classification := aligner.Classify(res1, res2, nil)
		if classification.BestLW != "unknown" {
			candidate.LWClass = classification.BestLW
		}
	}
	return candidate
}

// mergeScored recombines the non-base bonds from detection with the
// (possibly extended) base-base bonds used in scoring.
func mergeScored(detected, scoredBase []hbond.Bond) []hbond.Bond {
	var merged []hbond.Bond
	for _, b := range detected {
		if b.Context != hbond.ContextBaseBase {
			merged = append(merged, b)
		}
	}
	return append(merged, scoredBase...)
}

// FindPairsBatch runs the pipeline over independent structures with a
// bounded worker pool. Results are keyed by structure name; structures
// share no mutable state.
func (f *Finder) FindPairsBatch(structures []*parser.Structure, workers int) map[string]*Result {
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan *parser.Structure)
	var mu sync.Mutex
	results := make(map[string]*Result, len(structures))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for s := range jobs {
				r := f.FindPairs(s)
				mu.Lock()
				results[s.Name] = r
				mu.Unlock()
			}
		}()
	}
	for _, s := range structures {
		jobs <- s
	}
	close(jobs)
	wg.Wait()
	return results
}
