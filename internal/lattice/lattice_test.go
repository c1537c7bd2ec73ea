package lattice

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/cigol/internal/phi"
)

func TestBuildDeterminism(t *testing.T) {
	a, err := Build(DefaultParams())
	require.NoError(t, err)
	b, err := Build(DefaultParams())
	require.NoError(t, err)

	assert.Equal(t, 1010, a.Len())
	assert.Equal(t, a.Nodes(), b.Nodes(), "identical params must give identical lattices")
}

func TestBuildRowMajorOrder(t *testing.T) {
	p := Params{ThetaSteps: 5, PhiSteps: 3, MajorRadius: 2, MinorRadius: 1}
	lat, err := Build(p)
	require.NoError(t, err)
	require.Equal(t, 15, lat.Len())

	// Origin is theta=0, ring=0: (R+r, 0, 0).
	assert.Equal(t, Point{X: 3, Y: 0, Z: 0}, lat.Origin())

	// Index i*PhiSteps+j holds (theta_i, ring_j).
	theta := 2 * math.Pi * (1.0 / 4.0)
	ring := 2 * math.Pi * (1.0 / 2.0)
	want := p.surface(theta, ring)
	assert.Equal(t, want, lat.Node(1*3+1))

	// Node 1 advances the ring angle, node PhiSteps advances the tube angle.
	assert.InDelta(t, 0.0, lat.Node(1).Z, 1e-12)
	assert.InDelta(t, 1.0, lat.Node(3).Z, 1e-12)
}

func TestBuildOnTorusSurface(t *testing.T) {
	p := DefaultParams()
	lat, err := Build(p)
	require.NoError(t, err)

	lat.Each(func(i int, pt Point) {
		// Distance from the ring circle equals the minor radius.
		rho := math.Hypot(pt.X, pt.Y) - p.MajorRadius
		assert.InDelta(t, p.MinorRadius, math.Hypot(rho, pt.Z), 1e-9, "node %d", i)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		field  string
	}{
		{"theta too small", Params{ThetaSteps: 1, PhiSteps: 10, MajorRadius: 1, MinorRadius: 1}, "theta_steps"},
		{"phi too small", Params{ThetaSteps: 10, PhiSteps: 0, MajorRadius: 1, MinorRadius: 1}, "phi_steps"},
		{"major NaN", Params{ThetaSteps: 10, PhiSteps: 10, MajorRadius: math.NaN(), MinorRadius: 1}, "major_radius"},
		{"minor Inf", Params{ThetaSteps: 10, PhiSteps: 10, MajorRadius: 1, MinorRadius: math.Inf(-1)}, "minor_radius"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.params)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidParams)
			assert.Contains(t, err.Error(), tt.field)

			_, err = BuildKeyed(tt.params, 7)
			assert.ErrorIs(t, err, ErrInvalidParams)
		})
	}

	assert.NoError(t, DefaultParams().Validate())
	assert.NoError(t, PinchedParams().Validate())
}

func TestBuildKeyedDeterminism(t *testing.T) {
	a, err := BuildKeyed(PinchedParams(), 12345)
	require.NoError(t, err)
	b, err := BuildKeyed(PinchedParams(), 12345)
	require.NoError(t, err)
	c, err := BuildKeyed(PinchedParams(), 12346)
	require.NoError(t, err)

	assert.Equal(t, 1010, a.Len())
	assert.Equal(t, a.Nodes(), b.Nodes())
	assert.NotEqual(t, a.Nodes(), c.Nodes())

	seed, keyed := a.Keyed()
	assert.True(t, keyed)
	assert.Equal(t, uint32(12345), seed)

	_, keyed = FromPoints(nil).Keyed()
	assert.False(t, keyed)
}

func TestBuildKeyedStaysOnSurface(t *testing.T) {
	p := PinchedParams()
	lat, err := BuildKeyed(p, 99)
	require.NoError(t, err)

	lat.Each(func(i int, pt Point) {
		require.True(t, pt.Finite())
		// |z| never exceeds the tube radius.
		assert.LessOrEqual(t, math.Abs(pt.Z), phi.Phi+1e-12, "node %d", i)
	})
}

func TestNodesReturnsCopy(t *testing.T) {
	lat, err := Build(DefaultParams())
	require.NoError(t, err)

	nodes := lat.Nodes()
	nodes[0] = Point{X: -1}
	assert.NotEqual(t, nodes[0], lat.Node(0))

	src := []Point{{X: 1}, {X: 2}}
	fp := FromPoints(src)
	src[0] = Point{X: 9}
	assert.Equal(t, Point{X: 1}, fp.Origin())
	assert.Equal(t, Point{}, FromPoints(nil).Origin())
}

func TestMemoBuildsOnce(t *testing.T) {
	m := NewMemo(DefaultParams())

	var wg sync.WaitGroup
	got := make([]*Lattice, 8)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			lat, err := m.Get()
			assert.NoError(t, err)
			got[i] = lat
		}(i)
	}
	wg.Wait()

	for _, lat := range got {
		assert.Same(t, got[0], lat)
	}

	_, err := NewMemo(Params{}).Get()
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestUnfold(t *testing.T) {
	assert.Equal(t, Point{X: 10, Y: 10 * 1.1, Z: 10 * 0.9}, Unfold(10))

	pts := UnfoldBytes([]byte{0, 255})
	require.Len(t, pts, 2)
	assert.Equal(t, Point{}, pts[0])
	assert.Equal(t, 255.0, pts[1].X)

	assert.Empty(t, UnfoldBytes(nil))
	assert.Len(t, UnfoldFloats([]float64{0.5, 0.25}), 2)
}

func TestDistance(t *testing.T) {
	assert.Equal(t, 5.0, Point{X: 3, Y: 4}.Distance(Point{}))
	assert.Equal(t, 0.0, Point{X: 1, Y: 2, Z: 3}.Distance(Point{X: 1, Y: 2, Z: 3}))
	assert.False(t, Point{X: math.NaN()}.Finite())
}
