package hbond

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCWWPattern(t *testing.T) {
	gc := CWWPattern("GC")
	require.Len(t, gc, 3)
	assert.Equal(t, AtomPair{"N1", "N3"}, gc[0])

	au := CWWPattern("AU")
	require.Len(t, au, 2)

	assert.Nil(t, CWWPattern("GA"))
	assert.Nil(t, CWWPattern(""))
}

func TestMissingFromPattern(t *testing.T) {
	found := []Bond{
		{DonorAtom: "N1", AcceptorAtom: "N3", Context: ContextBaseBase},
		// O6-N4 recorded with the donor on the cytosine side; direction
		// must not matter for pattern matching.
		{DonorAtom: "N4", AcceptorAtom: "O6", Context: ContextBaseBase},
	}

	missing := MissingFromPattern("GC", found)
	require.Len(t, missing, 1)
	assert.Equal(t, AtomPair{"N2", "O2"}, missing[0])

	// Full coverage leaves nothing missing.
	full := append(found, Bond{DonorAtom: "N2", AcceptorAtom: "O2", Context: ContextBaseBase})
	assert.Empty(t, MissingFromPattern("GC", full))

	// Non-canonical sequences have no pattern to miss.
	assert.Nil(t, MissingFromPattern("GA", found))
}
