package mirror

import (
	"context"
	"math"
	"math/big"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/cigol/internal/lattice"
	"github.com/talgya/cigol/internal/phi"
	"github.com/talgya/cigol/internal/resonance"
	"github.com/talgya/cigol/internal/signature"
)

// Patch sizing and block budget.
const (
	MinPatchSize   = 100
	PatchSizeRange = 500
	BlockSize      = 64 * 1024
	LatentNodes    = 1010
)

// fractal layers simplex octaves along one axis, each octave at twice the
// frequency and persistence times the amplitude of the last.
type fractal struct {
	noise       opensimplex.Noise
	octaves     int
	frequency   float64
	persistence float64
}

// patchShape is the noise shape of a generated patch.
func patchShape(seed uint32) fractal {
	return fractal{
		noise:       opensimplex.NewNormalized(int64(seed)),
		octaves:     4,
		frequency:   0.05,
		persistence: 0.5,
	}
}

// at returns the normalized fractal value at position x, in [0, 1].
func (f fractal) at(x float64) float64 {
	var sum, norm float64
	amp, freq := 1.0, f.frequency
	for range f.octaves {
		sum += f.noise.Eval2(x*freq, 0) * amp
		norm += amp
		amp *= f.persistence
		freq *= 2
	}
	return sum / norm
}

// GeneratePatch returns a deterministic vector of (sig mod 500)+100 values in
// [0, 1), drawn from simplex noise seeded with sig mod 2³².
func GeneratePatch(sig *big.Int) []float64 {
	size := MinPatchSize + int(new(big.Int).Mod(sig, big.NewInt(PatchSizeRange)).Int64())
	shape := patchShape(signature.SeedOf(sig))

	out := make([]float64, size)
	for k := range out {
		out[k] = math.Min(math.Max(shape.at(float64(k)), 0), math.Nextafter(1, 0))
	}
	return out
}

// LatentLattice returns LatentNodes points drawn uniformly from the unit cube
// by a generator seeded with seed. Patches live in [0, 1), so the compressor
// scores them against nodes in the same region.
func LatentLattice(seed uint32) *lattice.Lattice {
	rng := rand.New(rand.NewSource(int64(seed)))
	pts := make([]lattice.Point, LatentNodes)
	for i := range pts {
		pts[i] = lattice.Point{X: rng.Float64(), Y: rng.Float64(), Z: rng.Float64()}
	}
	return lattice.FromPoints(pts)
}

// Compressed is a patch after the compact collapse.
type Compressed struct {
	Stream    []float32 `json:"-"`
	Bytes     int       `json:"bytes"`
	FitsBlock bool      `json:"fits_block"`
	Stability float64   `json:"stability"`
}

// Compress unfolds patch into points (v, 1.1v, 0.9v) and collapses them at
// Compact precision against lat.
func Compress(ctx context.Context, k resonance.Kernel, patch []float64, lat *lattice.Lattice) (Compressed, error) {
	stream, err := k.Collapse32(ctx, lattice.UnfoldFloats(patch), lat)
	if err != nil {
		return Compressed{}, err
	}
	size := resonance.Compact.Size(len(stream))
	return Compressed{
		Stream:    stream,
		Bytes:     size,
		FitsBlock: size <= BlockSize,
		Stability: Stability(stream),
	}, nil
}

// Stability is the Φ-alignment of the stream's mean; 0 for an empty stream.
func Stability(stream []float32) float64 {
	if len(stream) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range stream {
		sum += float64(v)
	}
	return phi.Alignment(sum / float64(len(stream)))
}
