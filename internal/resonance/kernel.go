// Package resonance scores points against a lattice with a golden-ratio
// inverse-distance kernel, and builds the engine operations on top of it:
// slot lookup, resonance search, collapse, and the keyed pinch protocol.
package resonance

import (
	"errors"
	"fmt"
	"math"

	"github.com/talgya/cigol/internal/lattice"
	"github.com/talgya/cigol/internal/phi"
)

// ErrInvalidKernel is returned for kernels with non-positive constants.
var ErrInvalidKernel = errors.New("invalid resonance kernel")

// Kernel holds the constants of the resonance function Ratio / (d + Epsilon).
type Kernel struct {
	Ratio   float64 `yaml:"ratio" json:"ratio"`
	Epsilon float64 `yaml:"epsilon" json:"epsilon"`
}

// DefaultKernel returns the Φ / (d + 1e-9) kernel.
func DefaultKernel() Kernel {
	return Kernel{Ratio: phi.Phi, Epsilon: phi.Epsilon}
}

// Validate rejects kernels that could produce negative or non-finite scores.
func (k Kernel) Validate() error {
	if !(k.Ratio > 0) || math.IsInf(k.Ratio, 0) {
		return fmt.Errorf("%w: ratio %v must be positive and finite", ErrInvalidKernel, k.Ratio)
	}
	if !(k.Epsilon > 0) || math.IsInf(k.Epsilon, 0) {
		return fmt.Errorf("%w: epsilon %v must be positive and finite", ErrInvalidKernel, k.Epsilon)
	}
	return nil
}

// MaxScore is the score of a point sitting exactly on a node.
func (k Kernel) MaxScore() float64 {
	return k.Ratio / k.Epsilon
}

// Score returns the resonance between a and b. Coincident points score
// MaxScore instead of dividing by zero.
func (k Kernel) Score(a, b lattice.Point) float64 {
	d := a.Distance(b)
	if d == 0 {
		return k.MaxScore()
	}
	return k.Ratio / (d + k.Epsilon)
}

// Total sums Score(p, n) over every node n, in lattice order.
func (k Kernel) Total(p lattice.Point, lat *lattice.Lattice) float64 {
	total := 0.0
	lat.Each(func(_ int, n lattice.Point) {
		total += k.Score(p, n)
	})
	return total
}

// Frequency returns Ratio / d, the resonant frequency of a node at distance
// d from the reference. ok is false when d is within Epsilon of zero.
func (k Kernel) Frequency(d float64) (freq float64, ok bool) {
	if d <= k.Epsilon {
		return 0, false
	}
	return k.Ratio / d, true
}
