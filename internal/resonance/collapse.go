package resonance

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/talgya/cigol/internal/lattice"
)

// ErrNonFinitePoint is returned when a collapse input holds NaN or Inf.
var ErrNonFinitePoint = errors.New("non-finite point")

// Precision selects the element width of a vector stream.
type Precision int

const (
	// Full keeps float64 elements. Used by the pinch protocol and the API.
	Full Precision = iota
	// Compact narrows to float32. Used where stream byte size is reported
	// against a block budget.
	Compact
)

// ElemSize returns the byte width of one stream element.
func (p Precision) ElemSize() int {
	if p == Compact {
		return 4
	}
	return 8
}

// Size returns the byte size of an n-element stream.
func (p Precision) Size(n int) int {
	return n * p.ElemSize()
}

func (p Precision) String() string {
	if p == Compact {
		return "float32"
	}
	return "float64"
}

// minBatch keeps tiny collapses on one goroutine.
const minBatch = 16

// Collapse reduces each point to its total resonance against lat. The output
// has one element per input point, in input order. Points are split into
// batches scored in parallel; each point's sum runs serially in lattice order,
// so results match a single-threaded computation bit for bit.
func (k Kernel) Collapse(ctx context.Context, points []lattice.Point, lat *lattice.Lattice) ([]float64, error) {
	out := make([]float64, len(points))
	if len(points) == 0 {
		return out, nil
	}

	for i, p := range points {
		if !p.Finite() {
			return nil, fmt.Errorf("%w at index %d: %v", ErrNonFinitePoint, i, p)
		}
	}

	workers := runtime.GOMAXPROCS(0)
	batch := (len(points) + workers - 1) / workers
	if batch < minBatch {
		batch = minBatch
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for lo := 0; lo < len(points); lo += batch {
		hi := min(lo+batch, len(points))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				out[i] = k.Total(points[i], lat)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Collapse32 is Collapse narrowed to the Compact precision.
func (k Kernel) Collapse32(ctx context.Context, points []lattice.Point, lat *lattice.Lattice) ([]float32, error) {
	wide, err := k.Collapse(ctx, points, lat)
	if err != nil {
		return nil, err
	}
	out := make([]float32, len(wide))
	for i, v := range wide {
		out[i] = float32(v)
	}
	return out, nil
}
