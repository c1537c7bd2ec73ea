package resonance

import (
	"context"
	"math/big"

	"github.com/talgya/cigol/internal/lattice"
	"github.com/talgya/cigol/internal/signature"
)

// Engine binds a kernel to one lattice. It is read-only after construction
// and safe to share across goroutines.
type Engine struct {
	kernel      Kernel
	lat         *lattice.Lattice
	pinch       lattice.Params
	nucleotides signature.NucleotideTable
	observer    Observer
}

// Option configures an Engine.
type Option func(*Engine)

// WithKernel replaces the default Φ kernel.
func WithKernel(k Kernel) Option {
	return func(e *Engine) { e.kernel = k }
}

// WithObserver attaches an event observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// WithNucleotides replaces the nucleotide fold table.
func WithNucleotides(t signature.NucleotideTable) Option {
	return func(e *Engine) { e.nucleotides = t }
}

// WithPinchParams replaces the torus used for keyed lattices.
func WithPinchParams(p lattice.Params) Option {
	return func(e *Engine) { e.pinch = p }
}

// sharedDefault is shared by every engine over the default parameters.
var sharedDefault = lattice.NewMemo(lattice.DefaultParams())

// NewEngine builds the lattice for p and returns an engine over it.
func NewEngine(p lattice.Params, opts ...Option) (*Engine, error) {
	build := lattice.Build
	if p == lattice.DefaultParams() {
		build = func(lattice.Params) (*lattice.Lattice, error) { return sharedDefault.Get() }
	}
	lat, err := build(p)
	if err != nil {
		return nil, err
	}
	return NewEngineFromLattice(lat, opts...)
}

// NewEngineFromLattice returns an engine over an existing lattice.
func NewEngineFromLattice(lat *lattice.Lattice, opts ...Option) (*Engine, error) {
	e := &Engine{
		kernel:      DefaultKernel(),
		lat:         lat,
		pinch:       lattice.PinchedParams(),
		nucleotides: signature.DefaultNucleotides(),
		observer:    nopObserver{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.kernel.Validate(); err != nil {
		return nil, err
	}
	if err := e.pinch.Validate(); err != nil {
		return nil, err
	}

	e.observer.Observe(Event{Kind: EventLatticeBuilt, Nodes: lat.Len(), Point: lat.Origin()})
	return e, nil
}

// Lattice returns the engine's lattice.
func (e *Engine) Lattice() *lattice.Lattice { return e.lat }

// Kernel returns the engine's kernel.
func (e *Engine) Kernel() Kernel { return e.kernel }

// Nucleotides returns the engine's fold table.
func (e *Engine) Nucleotides() signature.NucleotideTable { return e.nucleotides }

// Observer returns the attached observer (a no-op when none was set).
func (e *Engine) Observer() Observer { return e.observer }

// IndexLookup returns sig mod the lattice size.
func (e *Engine) IndexLookup(sig *big.Int) int {
	idx := IndexLookup(sig, e.lat)
	if idx >= 0 {
		e.observer.Observe(Event{Kind: EventSlotResolved, Index: idx, Point: e.lat.Node(idx)})
	}
	return idx
}

// Slot folds a nucleotide string (skipping unknown letters) and returns its
// lattice slot.
func (e *Engine) Slot(seq string) int {
	return e.IndexLookup(e.nucleotides.Fold(seq, true))
}

// ResonantNode runs the resonance search for sig.
func (e *Engine) ResonantNode(sig *big.Int) Match {
	m := e.kernel.ResonantNode(sig, e.lat)
	e.observer.Observe(Event{Kind: EventNodeMatched, Index: m.Index, Point: m.Node, Score: m.Score})
	return m
}

// SequenceSmash maps a nucleotide string to its point of highest resonance.
// A sequence that folds to zero, including the empty one and one with no
// known letters, maps to the origin node.
func (e *Engine) SequenceSmash(seq string) Match {
	sig := e.nucleotides.Fold(seq, true)
	if sig.Sign() == 0 {
		m := Match{Index: 0, Node: e.lat.Origin(), Score: DegenerateScore}
		e.observer.Observe(Event{Kind: EventNodeMatched, Point: m.Node, Score: m.Score, Detail: "zero signature"})
		return m
	}
	return e.ResonantNode(sig)
}

// SmashBytes maps arbitrary bytes to a node through their SHA-256 signature.
func (e *Engine) SmashBytes(data []byte) Match {
	return e.ResonantNode(signature.Of(data))
}

// Total returns the total resonance of p against the engine's lattice.
func (e *Engine) Total(p lattice.Point) float64 {
	return e.kernel.Total(p, e.lat)
}

// Collapse reduces points to a full-precision vector stream.
func (e *Engine) Collapse(ctx context.Context, points []lattice.Point) ([]float64, error) {
	out, err := e.kernel.Collapse(ctx, points, e.lat)
	if err != nil {
		return nil, err
	}
	e.observer.Observe(Event{Kind: EventCollapseCompleted, Count: len(points), Nodes: e.lat.Len()})
	return out, nil
}
