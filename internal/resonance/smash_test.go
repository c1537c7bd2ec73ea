package resonance

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/cigol/internal/lattice"
	"github.com/talgya/cigol/internal/signature"
)

func TestIndexLookupModuloLaw(t *testing.T) {
	lat := defaultLattice(t)
	n := big.NewInt(int64(lat.Len()))

	inputs := []string{"", "ATGC", "ATGG", "secure_channel_protocol_v1.0_axiomatic", "torus"}
	for _, s := range inputs {
		sig := signature.OfString(s)
		want := new(big.Int).Mod(sig, n).Int64()
		assert.Equal(t, int(want), IndexLookup(sig, lat), "slot of %q", s)
	}

	// Signatures equal mod N land in the same slot.
	a := big.NewInt(7)
	b := new(big.Int).Add(a, new(big.Int).Mul(n, big.NewInt(1_000_003)))
	assert.Equal(t, IndexLookup(a, lat), IndexLookup(b, lat))

	assert.Equal(t, 155, IndexLookup(signature.OfString("abc"), lat))
	assert.Equal(t, -1, IndexLookup(a, lattice.FromPoints(nil)))
}

func TestResonantNodeSensitivity(t *testing.T) {
	lat := defaultLattice(t)
	k := DefaultKernel()
	tab := signature.DefaultNucleotides()

	m1 := k.ResonantNode(tab.Fold("ATGC", true), lat)
	m2 := k.ResonantNode(tab.Fold("ATGG", true), lat)

	require.GreaterOrEqual(t, m1.Index, 0)
	require.GreaterOrEqual(t, m2.Index, 0)
	assert.NotEqual(t, m1.Node, m2.Node, "one nucleotide of difference must move the match")

	// The winning nodes sit on distinct shells around the origin node.
	origin := lat.Origin()
	assert.InDelta(t, 23.6036, m1.Node.Distance(origin), 1e-3)
	assert.InDelta(t, 60.1222, m2.Node.Distance(origin), 1e-3)
	assert.LessOrEqual(t, m1.Score, 1.0)
}

func TestResonantNodeRepeatable(t *testing.T) {
	lat := defaultLattice(t)
	k := DefaultKernel()

	sig := signature.OfString("A novel algorithm for prime number distribution analysis")
	a := k.ResonantNode(sig, lat)
	b := k.ResonantNode(sig, lat)
	assert.Equal(t, a, b)
	assert.False(t, math.IsNaN(a.Score))
}

func TestResonantNodeArgMax(t *testing.T) {
	// With Ratio 1 the score of a node at distance d is cos(sig*d).
	k := Kernel{Ratio: 1, Epsilon: 1e-9}
	lat := lattice.FromPoints([]lattice.Point{
		{},               // origin
		{X: math.Pi},     // cos(π) = -1
		{X: 2 * math.Pi}, // cos(2π) = 1
		{X: 1.5},
	})

	m := k.ResonantNode(big.NewInt(1), lat)
	assert.Equal(t, 2, m.Index)
	assert.Equal(t, lat.Node(2), m.Node)
	assert.InDelta(t, 1.0, m.Score, 1e-12)
}

func TestResonantNodeFirstMaxWins(t *testing.T) {
	k := Kernel{Ratio: 1, Epsilon: 1e-9}
	lat := lattice.FromPoints([]lattice.Point{
		{},
		{X: 2},
		{Y: 2}, // same distance, same score
		{Z: -2},
	})

	m := k.ResonantNode(big.NewInt(3), lat)
	assert.Equal(t, 1, m.Index)

	// Signature zero scores every node cos(0) = 1: the first candidate wins.
	m = k.ResonantNode(new(big.Int), lat)
	assert.Equal(t, 1, m.Index)
}

func TestResonantNodeDegenerate(t *testing.T) {
	k := DefaultKernel()

	// Every node coincides with the origin: fall back to node 0 at the sentinel.
	same := lattice.FromPoints([]lattice.Point{{X: 1}, {X: 1}, {X: 1}})
	m := k.ResonantNode(big.NewInt(42), same)
	assert.Equal(t, 0, m.Index)
	assert.Equal(t, DegenerateScore, m.Score)

	// Seam nodes that fold onto the origin never win over real candidates.
	lat := defaultLattice(t)
	m = k.ResonantNode(big.NewInt(115), lat)
	assert.Greater(t, m.Node.Distance(lat.Origin()), k.Epsilon)

	assert.Equal(t, -1, k.ResonantNode(big.NewInt(1), lattice.FromPoints(nil)).Index)
	assert.Equal(t, -1, k.ResonantNode(big.NewInt(1), lattice.FromPoints([]lattice.Point{{X: math.NaN()}})).Index)
}
