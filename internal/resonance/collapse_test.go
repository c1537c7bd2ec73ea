package resonance

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/cigol/internal/lattice"
	"github.com/talgya/cigol/internal/phi"
)

func TestCollapseOriginMatchesIndependentSum(t *testing.T) {
	lat := defaultLattice(t)
	k := DefaultKernel()

	got, err := k.Collapse(context.Background(), []lattice.Point{{}}, lat)
	require.NoError(t, err)
	require.Len(t, got, 1)

	want := 0.0
	for _, n := range lat.Nodes() {
		d := math.Sqrt(n.X*n.X + n.Y*n.Y + n.Z*n.Z)
		require.NotZero(t, d, "no node of the default lattice sits on the origin")
		want += phi.Phi / (d + 1e-9)
	}
	assert.InEpsilon(t, want, got[0], 1e-12)
}

func TestCollapseLengthPreserved(t *testing.T) {
	lat := defaultLattice(t)
	k := DefaultKernel()

	for _, n := range []int{0, 1, 5, 17, 300} {
		pts := make([]lattice.Point, n)
		for i := range pts {
			pts[i] = lattice.Unfold(float64(i))
		}
		out, err := k.Collapse(context.Background(), pts, lat)
		require.NoError(t, err)
		assert.Len(t, out, n)
		assert.NotNil(t, out)
	}
}

func TestCollapseMatchesSerialTotals(t *testing.T) {
	lat := defaultLattice(t)
	k := DefaultKernel()

	pts := lattice.UnfoldBytes([]byte("This is a top secret message for the public SDK."))
	pts = append(pts, lat.Node(3), lat.Node(1009))

	out, err := k.Collapse(context.Background(), pts, lat)
	require.NoError(t, err)

	for i, p := range pts {
		assert.Equal(t, k.Total(p, lat), out[i], "slot %d", i)
		assert.GreaterOrEqual(t, out[i], 0.0)
		assert.False(t, math.IsInf(out[i], 0))
	}
}

func TestCollapseRejectsNonFinite(t *testing.T) {
	lat := defaultLattice(t)

	_, err := DefaultKernel().Collapse(context.Background(), []lattice.Point{{}, {Y: math.NaN()}}, lat)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNonFinitePoint)
	assert.Contains(t, err.Error(), "index 1")
}

func TestCollapseHonorsCancellation(t *testing.T) {
	lat := defaultLattice(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DefaultKernel().Collapse(ctx, make([]lattice.Point, 64), lat)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCollapse32(t *testing.T) {
	lat := defaultLattice(t)
	k := DefaultKernel()
	pts := lattice.UnfoldFloats([]float64{0.1, 0.5, 0.9})

	wide, err := k.Collapse(context.Background(), pts, lat)
	require.NoError(t, err)
	narrow, err := k.Collapse32(context.Background(), pts, lat)
	require.NoError(t, err)

	require.Len(t, narrow, len(wide))
	for i := range wide {
		assert.Equal(t, float32(wide[i]), narrow[i])
	}

	_, err = k.Collapse32(context.Background(), []lattice.Point{{Z: math.Inf(1)}}, lat)
	assert.ErrorIs(t, err, ErrNonFinitePoint)
}

func TestPrecisionSize(t *testing.T) {
	assert.Equal(t, 80, Full.Size(10))
	assert.Equal(t, 40, Compact.Size(10))
	assert.Equal(t, "float64", Full.String())
	assert.Equal(t, "float32", Compact.String())
}

// BenchmarkCollapseDNA collapses a synthetic 10k-nucleotide manifold, each
// letter unfolded from its byte value.
func BenchmarkCollapseDNA(b *testing.B) {
	lat, err := lattice.Build(lattice.DefaultParams())
	require.NoError(b, err)

	rng := rand.New(rand.NewSource(42))
	seq := make([]byte, 10_000)
	for i := range seq {
		seq[i] = "ATCG"[rng.Intn(4)]
	}
	pts := lattice.UnfoldBytes(seq)
	k := DefaultKernel()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := k.Collapse(context.Background(), pts, lat); err != nil {
			b.Fatal(err)
		}
	}
}
