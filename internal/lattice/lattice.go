// Package lattice samples fixed-size point lattices on a torus surface.
// A lattice is a pure function of its parameters (and seed, for keyed
// lattices) and is never mutated after construction.
package lattice

import (
	"math"
	"math/rand"
	"sync"
)

// Lattice is an immutable ordered set of nodes. Node 0 is the origin node.
type Lattice struct {
	params Params
	keyed  bool
	seed   uint32
	nodes  []Point
}

// Build samples the torus row-major: tube angle outer, ring angle inner.
func Build(p Params) (*Lattice, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	nodes := make([]Point, 0, p.NodeCount())
	for i := 0; i < p.ThetaSteps; i++ {
		theta := 2 * math.Pi * (float64(i) / float64(p.ThetaSteps-1))
		for j := 0; j < p.PhiSteps; j++ {
			ring := 2 * math.Pi * (float64(j) / float64(p.PhiSteps-1))
			nodes = append(nodes, p.surface(theta, ring))
		}
	}

	return &Lattice{params: p, nodes: nodes}, nil
}

// BuildKeyed samples the same number of nodes as Build, but with both angles
// drawn uniformly from [0, 2π) by a generator seeded with seed.
func BuildKeyed(p Params, seed uint32) (*Lattice, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(int64(seed)))
	n := p.NodeCount()
	nodes := make([]Point, 0, n)
	for k := 0; k < n; k++ {
		theta := rng.Float64() * 2 * math.Pi
		ring := rng.Float64() * 2 * math.Pi
		nodes = append(nodes, p.surface(theta, ring))
	}

	return &Lattice{params: p, keyed: true, seed: seed, nodes: nodes}, nil
}

// FromPoints wraps an explicit node list. The slice is copied.
// Used for latent lattices and tests that need hand-placed nodes.
func FromPoints(pts []Point) *Lattice {
	nodes := make([]Point, len(pts))
	copy(nodes, pts)
	return &Lattice{nodes: nodes}
}

// Len returns the node count.
func (l *Lattice) Len() int { return len(l.nodes) }

// Node returns node i.
func (l *Lattice) Node(i int) Point { return l.nodes[i] }

// Origin returns node 0, the reference point for resonance search.
// An empty lattice has the zero point as origin.
func (l *Lattice) Origin() Point {
	if len(l.nodes) == 0 {
		return Point{}
	}
	return l.nodes[0]
}

// Nodes returns a copy of all nodes in lattice order.
func (l *Lattice) Nodes() []Point {
	out := make([]Point, len(l.nodes))
	copy(out, l.nodes)
	return out
}

// Each calls fn for every node in order without copying.
func (l *Lattice) Each(fn func(i int, p Point)) {
	for i, p := range l.nodes {
		fn(i, p)
	}
}

// Params returns the construction parameters. Zero for FromPoints lattices.
func (l *Lattice) Params() Params { return l.params }

// Keyed reports whether the lattice was built from a seed, and the seed.
func (l *Lattice) Keyed() (uint32, bool) { return l.seed, l.keyed }

// Memo builds a lattice lazily, once, and shares it read-only afterwards.
type Memo struct {
	params Params

	once sync.Once
	lat  *Lattice
	err  error
}

// NewMemo returns a memo that will build a lattice from p on first use.
func NewMemo(p Params) *Memo {
	return &Memo{params: p}
}

// Get returns the memoized lattice, building it on the first call.
func (m *Memo) Get() (*Lattice, error) {
	m.once.Do(func() {
		m.lat, m.err = Build(m.params)
	})
	return m.lat, m.err
}
