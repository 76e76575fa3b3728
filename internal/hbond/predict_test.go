package hbond

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jyesselm/basepairs/internal/geometry"
)

func TestBaseNormal(t *testing.T) {
	// Planar ring in z=0: normal must be the z-axis (either sign).
	atoms := map[string]r3.Vec{
		"C2": {X: 1, Y: 0}, "C4": {X: 0, Y: 1}, "C6": {X: -1, Y: 0},
	}
	n := BaseNormal(atoms)
	assert.InDelta(t, 1.0, r3.Norm(n), 1e-9)
	assert.InDelta(t, 1.0, absf(n.Z), 1e-9)
}

func TestBaseNormalFallback(t *testing.T) {
	// Fewer than three ring atoms: world z-axis fallback.
	atoms := map[string]r3.Vec{"C2": {X: 1}, "C4": {X: 2}}
	assert.Equal(t, r3.Vec{Z: 1}, BaseNormal(atoms))
}

func TestPredictHSlotsAmino(t *testing.T) {
	// A sp2 NH2 donor: two slots at ±120° from the C-N bond, unit length.
	g, _ := idealGC()
	normal := BaseNormal(g.Atoms)

	slots := PredictHSlots("G", "N2", g.Atoms, normal)
	require.Len(t, slots, 2)
	for _, s := range slots {
		assert.InDelta(t, 1.0, r3.Norm(s.Direction), 1e-9)
		assert.Equal(t, 2, s.MaxBonds)
	}
	// The two hydrogen directions are 120° apart.
	assert.InDelta(t, 120, geometry.AngleBetween(slots[0].Direction, slots[1].Direction), 1e-6)

	// Each slot sits 120° from the antecedent-to-donor axis.
	along := geometry.Normalize(r3.Sub(g.Atoms["N2"], g.Atoms["C2"]))
	assert.InDelta(t, 120, geometry.AngleBetween(along, slots[0].Direction), 1e-6)
}

func TestPredictHSlotsImino(t *testing.T) {
	// G.N1 has two antecedents (C2, C6): one slot pointing out of the ring.
	g, _ := idealGC()
	normal := BaseNormal(g.Atoms)

	slots := PredictHSlots("G", "N1", g.Atoms, normal)
	require.Len(t, slots, 1)
	assert.InDelta(t, 1.0, r3.Norm(slots[0].Direction), 1e-9)

	// Pointing away from the ring centroid, i.e. roughly -y in the
	// standard frame.
	assert.Less(t, slots[0].Direction.Y, 0.0)
}

func TestPredictHSlotsMissingAntecedent(t *testing.T) {
	// Donor present but its antecedent is missing: no slots, no panic.
	atoms := map[string]r3.Vec{"N2": {X: 1}}
	slots := PredictHSlots("G", "N2", atoms, r3.Vec{Z: 1})
	assert.Empty(t, slots)
}

func TestPredictHSlotsNonDonor(t *testing.T) {
	g, _ := idealGC()
	assert.Empty(t, PredictHSlots("G", "C8", g.Atoms, r3.Vec{Z: 1}))
}

func TestPredictLPSlotsCarbonyl(t *testing.T) {
	g, _ := idealGC()
	normal := BaseNormal(g.Atoms)

	slots := PredictLPSlots("G", "O6", g.Atoms, normal)
	require.Len(t, slots, 2)
	for _, s := range slots {
		assert.InDelta(t, 1.0, r3.Norm(s.Direction), 1e-9)
		assert.Equal(t, 2, s.MaxBonds)
	}
	assert.InDelta(t, 120, geometry.AngleBetween(slots[0].Direction, slots[1].Direction), 1e-6)
}

func TestPredictLPSlotsRingNitrogen(t *testing.T) {
	// Ring N lone pair: exactly one slot and no bifurcation allowed.
	g, _ := idealGC()
	normal := BaseNormal(g.Atoms)

	slots := PredictLPSlots("G", "N7", g.Atoms, normal)
	require.Len(t, slots, 1)
	assert.Equal(t, 1, slots[0].MaxBonds)
	assert.InDelta(t, 1.0, r3.Norm(slots[0].Direction), 1e-9)
}

func TestPredictLPSlotsPhosphate(t *testing.T) {
	atoms := map[string]r3.Vec{"OP1": {X: 5, Y: 5, Z: 5}}
	slots := PredictLPSlots("A", "OP1", atoms, r3.Vec{Z: 1})
	require.Len(t, slots, 3)
	for _, s := range slots {
		assert.Equal(t, 3, s.MaxBonds)
		assert.InDelta(t, 1.0, r3.Norm(s.Direction), 1e-9)
	}
	// Isotropic model: the three slots are the world axes.
	assert.InDelta(t, 90, geometry.AngleBetween(slots[0].Direction, slots[1].Direction), 1e-9)
	assert.InDelta(t, 90, geometry.AngleBetween(slots[1].Direction, slots[2].Direction), 1e-9)
}

func TestPredictLPSlotsRibose(t *testing.T) {
	atoms := map[string]r3.Vec{"O2'": {X: 1, Y: 2, Z: 3}, "C2'": {X: 0, Y: 2, Z: 3}}
	normal := r3.Vec{Z: 1}
	slots := PredictLPSlots("A", "O2'", atoms, normal)
	require.Len(t, slots, 2)
	for _, s := range slots {
		assert.InDelta(t, 1.0, r3.Norm(s.Direction), 1e-9)
		// In-plane: perpendicular to the base normal.
		assert.InDelta(t, 0, r3.Dot(s.Direction, normal), 1e-9)
	}
	assert.InDelta(t, 90, geometry.AngleBetween(slots[0].Direction, slots[1].Direction), 1e-6)
}

func TestSlotBifurcation(t *testing.T) {
	s := &Slot{Direction: r3.Vec{X: 1}, MaxBonds: 2}

	first := r3.Vec{X: 1}
	assert.True(t, s.CanAddBond(first, 45))
	s.AddBond(first)

	// A second bond only 10° away is stacking, not bifurcation.
	tooClose := geometry.RotateAboutAxis(first, r3.Vec{Z: 1}, 10)
	assert.False(t, s.CanAddBond(tooClose, 45))

	// 60° separation is allowed.
	apart := geometry.RotateAboutAxis(first, r3.Vec{Z: 1}, 60)
	assert.True(t, s.CanAddBond(apart, 45))
	s.AddBond(apart)

	// The slot is now saturated regardless of angle.
	assert.True(t, s.Saturated())
	assert.False(t, s.CanAddBond(geometry.RotateAboutAxis(first, r3.Vec{Z: 1}, 120), 45))
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
