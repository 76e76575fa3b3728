package hbond

import (
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jyesselm/basepairs/internal/chem"
	"github.com/jyesselm/basepairs/internal/geometry"
	"github.com/jyesselm/basepairs/internal/parser"
)

// Config holds the detection thresholds.
type Config struct {
	// MaxDistance is the donor-acceptor distance cutoff in Angstroms.
	MaxDistance float64
	// MinAlignment is the minimum summed slot alignment (0-2 scale) for a
	// non-bifurcated bond, enforced only at or beyond
	// ShortDistanceThreshold.
	MinAlignment float64
	// MinBifurcationAngle is the angular separation in degrees required
	// between two bonds sharing one slot.
	MinBifurcationAngle float64
	// MinBifurcationAlignment is the stricter alignment floor applied when
	// either chosen slot already carries a bond.
	MinBifurcationAlignment float64
	// ShortDistanceThreshold waives the alignment floor below this distance;
	// contacts that close are accepted on geometry alone.
	ShortDistanceThreshold float64
}

// DefaultConfig returns the standard detection thresholds.
func DefaultConfig() Config {
	return Config{
		MaxDistance:             4.0,
		MinAlignment:            0.3,
		MinBifurcationAngle:     45.0,
		MinBifurcationAlignment: 0.5,
		ShortDistanceThreshold:  3.2,
	}
}

// Candidate is a provisional donor→acceptor pairing within the distance
// cutoff. Slot indices and alignment are filled during scoring.
type Candidate struct {
	DonorResID    string
	AcceptorResID string
	DonorAtom     string
	AcceptorAtom  string
	Distance      float64
	DonorPos      r3.Vec
	AcceptorPos   r3.Vec

	HSlotIdx  int
	LPSlotIdx int
	// Alignment is the summed slot alignment in [-2, 2]; higher is better.
	Alignment float64
}

// Bond is an accepted hydrogen bond with its frozen slot assignment.
type Bond struct {
	DonorResID    string  `json:"donor_res_id"`
	AcceptorResID string  `json:"acceptor_res_id"`
	DonorAtom     string  `json:"donor_atom"`
	AcceptorAtom  string  `json:"acceptor_atom"`
	Distance      float64 `json:"distance"`
	HSlotIdx      int     `json:"h_slot"`
	LPSlotIdx     int     `json:"lp_slot"`
	// Alignment is the raw summed slot score in [-2, 2], HIGHER is better.
	// The quality scorer converts this to a misalignment (2 − Alignment)
	// before applying its 0-1 sub-score.
	Alignment float64 `json:"alignment"`
	// Context labels the structural elements joined by the bond, e.g.
	// "base_base" or "base_sugar". Pair scoring counts base_base bonds only.
	Context string `json:"context"`
	// Extended marks bonds recovered by the relaxed re-search; they are
	// down-weighted in coverage scoring.
	Extended bool `json:"extended,omitempty"`
}

// Detector finds hydrogen bonds between residues. It owns the per-residue
// slot caches; the caches are reset at the start of every selection run so
// repeated calls are idempotent. A Detector is not safe for concurrent use.
type Detector struct {
	cfg   Config
	slots map[string]*residueSlots
}

// NewDetector returns a detector with the given thresholds.
func NewDetector(cfg Config) *Detector {
	return &Detector{cfg: cfg, slots: make(map[string]*residueSlots)}
}

// Config returns the detector's thresholds.
func (d *Detector) Config() Config { return d.cfg }

// residueSlots caches slot predictions for one residue. The base normal is
// computed once on first use.
type residueSlots struct {
	baseType string
	atoms    map[string]r3.Vec
	normal   *r3.Vec
	hSlots   map[string][]*Slot
	lpSlots  map[string][]*Slot
}

func (rs *residueSlots) baseNormal() r3.Vec {
	if rs.normal == nil {
		n := BaseNormal(rs.atoms)
		rs.normal = &n
	}
	return *rs.normal
}

func (rs *residueSlots) h(atom string) []*Slot {
	if slots, ok := rs.hSlots[atom]; ok {
		return slots
	}
	slots := PredictHSlots(rs.baseType, atom, rs.atoms, rs.baseNormal())
	rs.hSlots[atom] = slots
	return slots
}

func (rs *residueSlots) lp(atom string) []*Slot {
	if slots, ok := rs.lpSlots[atom]; ok {
		return slots
	}
	slots := PredictLPSlots(rs.baseType, atom, rs.atoms, rs.baseNormal())
	rs.lpSlots[atom] = slots
	return slots
}

func (rs *residueSlots) clear() {
	rs.hSlots = make(map[string][]*Slot)
	rs.lpSlots = make(map[string][]*Slot)
}

func (d *Detector) residueSlotsFor(res *parser.Residue) *residueSlots {
	if rs, ok := d.slots[res.ID]; ok {
		return rs
	}
	rs := &residueSlots{
		baseType: res.BaseType,
		atoms:    res.Atoms,
		hSlots:   make(map[string][]*Slot),
		lpSlots:  make(map[string][]*Slot),
	}
	d.slots[res.ID] = rs
	return rs
}

// FindBetween finds the hydrogen bonds between two residues (or within one,
// when both arguments are the same residue). It never fails: missing atoms
// or underivable slots simply yield fewer bonds.
func (d *Detector) FindBetween(res1, res2 *parser.Residue) []Bond {
	candidates := d.FindCandidates(res1, res2)
	residues := map[string]*parser.Residue{res1.ID: res1, res2.ID: res2}
	return d.SelectOptimal(candidates, residues)
}

// FindCandidates enumerates all donor→acceptor pairings between the two
// residues within MaxDistance, in both directions. Base-to-base contacts
// within a single residue are excluded as covalent.
func (d *Detector) FindCandidates(res1, res2 *parser.Residue) []*Candidate {
	candidates := d.appendDirectional(nil, res1, res2)
	if res1.ID != res2.ID {
		// Intra-residue scans need only the single pass above.
		candidates = d.appendDirectional(candidates, res2, res1)
	}
	return candidates
}

func (d *Detector) appendDirectional(candidates []*Candidate, donorRes, acceptorRes *parser.Residue) []*Candidate {
	for donorAtom, donorPos := range donorRes.Atoms {
		if !chem.IsDonor(donorRes.BaseType, donorAtom) {
			continue
		}
		for acceptorAtom, acceptorPos := range acceptorRes.Atoms {
			if !chem.IsAcceptor(acceptorRes.BaseType, acceptorAtom) {
				continue
			}
			if isIntraBasePair(donorRes.ID, acceptorRes.ID, donorAtom, acceptorAtom) {
				continue
			}
			dist := geometry.Distance(donorPos, acceptorPos)
			if dist > d.cfg.MaxDistance {
				continue
			}
			candidates = append(candidates, &Candidate{
				DonorResID:    donorRes.ID,
				AcceptorResID: acceptorRes.ID,
				DonorAtom:     donorAtom,
				AcceptorAtom:  acceptorAtom,
				Distance:      dist,
				DonorPos:      donorPos,
				AcceptorPos:   acceptorPos,
				HSlotIdx:      -1,
				LPSlotIdx:     -1,
			})
		}
	}
	return candidates
}

// isIntraBasePair reports whether both atoms are base nitrogens/oxygens of
// the same residue; such contacts are covalently related, not H-bonds.
func isIntraBasePair(res1ID, res2ID, atom1, atom2 string) bool {
	if res1ID != res2ID {
		return false
	}
	return chem.IsBaseAtom(atom1) && chem.IsBaseAtom(atom2)
}

// SelectOptimal runs the greedy slot-aware selection over the candidates.
// Slot state for every involved residue is reset first, alignments are
// scored, candidates are processed shortest-distance first (ties broken by
// residue and atom names for determinism), and each accepted bond commits
// its directions to the chosen slots.
func (d *Detector) SelectOptimal(candidates []*Candidate, residues map[string]*parser.Residue) []Bond {
	if len(candidates) == 0 {
		return nil
	}

	d.resetSlots(candidates)
	d.scoreAlignments(candidates, residues)

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Distance != b.Distance {
			return a.Distance < b.Distance
		}
		if a.DonorResID != b.DonorResID {
			return a.DonorResID < b.DonorResID
		}
		if a.DonorAtom != b.DonorAtom {
			return a.DonorAtom < b.DonorAtom
		}
		if a.AcceptorResID != b.AcceptorResID {
			return a.AcceptorResID < b.AcceptorResID
		}
		return a.AcceptorAtom < b.AcceptorAtom
	})

	var selected []Bond
	for _, c := range candidates {
		donorRes, ok := residues[c.DonorResID]
		if !ok {
			continue
		}
		acceptorRes, ok := residues[c.AcceptorResID]
		if !ok {
			continue
		}

		hSlots := d.residueSlotsFor(donorRes).h(c.DonorAtom)
		lpSlots := d.residueSlotsFor(acceptorRes).lp(c.AcceptorAtom)

		if !d.trySelect(c, hSlots, lpSlots) {
			continue
		}

		selected = append(selected, Bond{
			DonorResID:    c.DonorResID,
			AcceptorResID: c.AcceptorResID,
			DonorAtom:     c.DonorAtom,
			AcceptorAtom:  c.AcceptorAtom,
			Distance:      c.Distance,
			HSlotIdx:      c.HSlotIdx,
			LPSlotIdx:     c.LPSlotIdx,
			Alignment:     c.Alignment,
			Context:       contextLabel(c.DonorAtom, c.AcceptorAtom),
		})
	}
	return selected
}

func (d *Detector) resetSlots(candidates []*Candidate) {
	involved := make(map[string]bool)
	for _, c := range candidates {
		involved[c.DonorResID] = true
		involved[c.AcceptorResID] = true
	}
	for id := range involved {
		if rs, ok := d.slots[id]; ok {
			rs.clear()
		}
	}
}

func (d *Detector) scoreAlignments(candidates []*Candidate, residues map[string]*parser.Residue) {
	for _, c := range candidates {
		donorRes, ok := residues[c.DonorResID]
		if !ok {
			continue
		}
		acceptorRes, ok := residues[c.AcceptorResID]
		if !ok {
			continue
		}
		hSlots := d.residueSlotsFor(donorRes).h(c.DonorAtom)
		lpSlots := d.residueSlotsFor(acceptorRes).lp(c.AcceptorAtom)
		if len(hSlots) == 0 || len(lpSlots) == 0 {
			continue
		}
		hIdx, lpIdx, score := scoreAlignment(c.DonorPos, c.AcceptorPos, hSlots, lpSlots)
		c.HSlotIdx = hIdx
		c.LPSlotIdx = lpIdx
		c.Alignment = score
	}
}

// scoreAlignment picks the H slot and LP slot whose directions best match
// the donor→acceptor axis. The returned score is the sum of the two dot
// products, at most 2 for perfect alignment.
func scoreAlignment(donorPos, acceptorPos r3.Vec, hSlots, lpSlots []*Slot) (hIdx, lpIdx int, score float64) {
	toAcceptor := geometry.Normalize(r3.Sub(acceptorPos, donorPos))
	toDonor := r3.Scale(-1, toAcceptor)

	bestH := -2.0
	for i, s := range hSlots {
		if a := r3.Dot(s.Direction, toAcceptor); a > bestH {
			bestH = a
			hIdx = i
		}
	}
	bestLP := -2.0
	for i, s := range lpSlots {
		if a := r3.Dot(s.Direction, toDonor); a > bestLP {
			bestLP = a
			lpIdx = i
		}
	}
	return hIdx, lpIdx, bestH + bestLP
}

// trySelect attempts to commit the candidate onto its chosen slots,
// falling back to a scan over all slot combinations when the chosen ones
// cannot take another bond. Returns true and records the bond directions on
// success.
func (d *Detector) trySelect(c *Candidate, hSlots, lpSlots []*Slot) bool {
	if len(hSlots) == 0 || len(lpSlots) == 0 {
		return false
	}
	if c.HSlotIdx < 0 || c.HSlotIdx >= len(hSlots) || c.LPSlotIdx < 0 || c.LPSlotIdx >= len(lpSlots) {
		return false
	}

	hSlot := hSlots[c.HSlotIdx]
	lpSlot := lpSlots[c.LPSlotIdx]

	toAcceptor := geometry.Normalize(r3.Sub(c.AcceptorPos, c.DonorPos))
	toDonor := r3.Scale(-1, toAcceptor)

	hOK := hSlot.CanAddBond(toAcceptor, d.cfg.MinBifurcationAngle)
	lpOK := lpSlot.CanAddBond(toDonor, d.cfg.MinBifurcationAngle)
	bifurcated := len(hSlot.BondDirections) > 0 || len(lpSlot.BondDirections) > 0

	if !(hOK && lpOK) {
		if !d.findAlternativeSlots(c, hSlots, lpSlots, toAcceptor, toDonor) {
			return false
		}
		hSlot = hSlots[c.HSlotIdx]
		lpSlot = lpSlots[c.LPSlotIdx]
		bifurcated = len(hSlot.BondDirections) > 0 || len(lpSlot.BondDirections) > 0
	}

	// Below the short-distance threshold the contact is accepted on
	// geometry alone; otherwise the applicable alignment floor must hold.
	if c.Distance >= d.cfg.ShortDistanceThreshold {
		minAlign := d.cfg.MinAlignment
		if bifurcated {
			minAlign = d.cfg.MinBifurcationAlignment
		}
		if c.Alignment < minAlign {
			return false
		}
	}

	hSlot.AddBond(toAcceptor)
	lpSlot.AddBond(toDonor)
	return true
}

// findAlternativeSlots scans every (H slot, LP slot) combination for one
// that can still take a bond and whose summed alignment meets the floor
// applicable to that combination. On success the candidate's slot indices
// and alignment are rewritten.
func (d *Detector) findAlternativeSlots(c *Candidate, hSlots, lpSlots []*Slot, toAcceptor, toDonor r3.Vec) bool {
	for hi, hs := range hSlots {
		if !hs.CanAddBond(toAcceptor, d.cfg.MinBifurcationAngle) {
			continue
		}
		for li, ls := range lpSlots {
			if !ls.CanAddBond(toDonor, d.cfg.MinBifurcationAngle) {
				continue
			}
			score := r3.Dot(hs.Direction, toAcceptor) + r3.Dot(ls.Direction, toDonor)
			minAlign := d.cfg.MinAlignment
			if len(hs.BondDirections) > 0 || len(ls.BondDirections) > 0 {
				minAlign = d.cfg.MinBifurcationAlignment
			}
			if score >= minAlign {
				c.HSlotIdx = hi
				c.LPSlotIdx = li
				c.Alignment = score
				return true
			}
		}
	}
	return false
}

// contextLabel names the structural elements joined by a bond, with the two
// sides ordered base < sugar < phosphate for stable labels.
func contextLabel(donorAtom, acceptorAtom string) string {
	a := chem.ClassifyAtom(donorAtom)
	b := chem.ClassifyAtom(acceptorAtom)
	if b < a {
		a, b = b, a
	}
	names := map[chem.AtomContext]string{
		chem.ContextBase:      "base",
		chem.ContextSugar:     "sugar",
		chem.ContextPhosphate: "phosphate",
	}
	return names[a] + "_" + names[b]
}

// ContextBaseBase is the context label for bonds joining two base edges.
const ContextBaseBase = "base_base"
