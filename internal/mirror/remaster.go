package mirror

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/talgya/cigol/internal/resonance"
	"github.com/talgya/cigol/internal/signature"
)

// AlignedStability is the stability above which a patch counts as aligned.
const AlignedStability = 0.95

// Sensory is the UI state attached to a remastering stage.
type Sensory struct {
	State       string  `json:"state"`
	Resistance  float64 `json:"resistance"`
	Brightness  float64 `json:"brightness"`
	ShadowColor string  `json:"shadowColor"`
	Label       string  `json:"label,omitempty"`
}

var (
	frictionState = Sensory{State: "inflammation", Resistance: 85.4, Brightness: 0.6, ShadowColor: "rgba(255, 50, 50, 0.7)"}
	alignedState  = Sensory{State: "patch_aligned", Resistance: 0, Brightness: 1.5, ShadowColor: "rgba(0, 206, 209, 0.9)", Label: "PATCH ALIGNED"}
	driftState    = Sensory{State: "patch_drift", Resistance: 42.7, Brightness: 0.9, ShadowColor: "rgba(255, 165, 0, 0.7)", Label: "PATCH DRIFT"}
)

// Report summarizes one remastering run.
type Report struct {
	Distortion      string     `json:"distortion"`
	DistortionSig   string     `json:"distortion_signature"`
	HealthySig      string     `json:"healthy_signature"`
	Glome           [4]int64   `json:"glome"`
	PatchSize       int        `json:"patch_size"`
	Compressed      Compressed `json:"compressed"`
	CompressedHuman string     `json:"compressed_human"`
	RawBytes        int        `json:"raw_bytes"`
	Ratio           float64    `json:"ratio"`
	Before          Sensory    `json:"before"`
	After           Sensory    `json:"after"`
}

// Remaster runs the full pipeline: signature, mirror, glome mapping, patch
// generation, and compact compression against a latent lattice seeded by the
// healthy signature. Raw bytes count the patch as float64 triples.
func Remaster(ctx context.Context, k resonance.Kernel, distortion string) (Report, error) {
	sig := signature.OfString(distortion)
	healthy := Healthy(sig)
	patch := GeneratePatch(healthy)

	comp, err := Compress(ctx, k, patch, LatentLattice(signature.SeedOf(healthy)))
	if err != nil {
		return Report{}, fmt.Errorf("compress patch: %w", err)
	}

	raw := resonance.Full.Size(3 * len(patch))
	after := driftState
	if comp.Stability > AlignedStability {
		after = alignedState
	}

	return Report{
		Distortion:      distortion,
		DistortionSig:   sig.String(),
		HealthySig:      healthy.String(),
		Glome:           Glome(healthy),
		PatchSize:       len(patch),
		Compressed:      comp,
		CompressedHuman: humanize.Bytes(uint64(comp.Bytes)),
		RawBytes:        raw,
		Ratio:           float64(raw) / float64(comp.Bytes),
		Before:          frictionState,
		After:           after,
	}, nil
}
