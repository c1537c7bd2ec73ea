package resonance

import (
	"context"

	"github.com/talgya/cigol/internal/lattice"
	"github.com/talgya/cigol/internal/signature"
)

// Metadata accompanies a pinched stream. The sensory fields describe the
// "locked" state a UI would render; the rest are for ratio reporting.
type Metadata struct {
	State       string  `json:"state"`
	Brightness  float64 `json:"brightness"`
	ShadowColor string  `json:"shadowColor"`
	Label       string  `json:"label"`

	Seed        uint32 `json:"seed"`
	Nodes       int    `json:"nodes"`
	Precision   string `json:"precision"`
	InputBytes  int    `json:"input_bytes"`
	OutputBytes int    `json:"output_bytes"`
}

func lockedMetadata() Metadata {
	return Metadata{
		State:       "locked",
		Brightness:  1.2,
		ShadowColor: "rgba(255, 215, 0, 0.8)",
		Label:       "LOCKED",
	}
}

// KeyedLattice builds the one-time lattice for key on the engine's pinch torus.
func (e *Engine) KeyedLattice(key string) (*lattice.Lattice, error) {
	lat, err := lattice.BuildKeyed(e.pinch, signature.Seed([]byte(key)))
	if err != nil {
		return nil, err
	}
	seed, _ := lat.Keyed()
	e.observer.Observe(Event{Kind: EventLatticeBuilt, Nodes: lat.Len(), Seed: seed, Point: lat.Origin(), Detail: "keyed"})
	return lat, nil
}

// PinchProtocol projects packet through a lattice keyed by key. Each byte b
// becomes the point (b, 1.1b, 0.9b) and is collapsed against the keyed
// lattice at full precision.
//
// This is a deterministic keyed transform, not a cipher: there is no inverse
// and it provides no confidentiality.
func (e *Engine) PinchProtocol(ctx context.Context, packet []byte, key string) ([]float64, Metadata, error) {
	lat, err := e.KeyedLattice(key)
	if err != nil {
		return nil, Metadata{}, err
	}

	stream, err := e.kernel.Collapse(ctx, lattice.UnfoldBytes(packet), lat)
	if err != nil {
		return nil, Metadata{}, err
	}

	seed, _ := lat.Keyed()
	meta := lockedMetadata()
	meta.Seed = seed
	meta.Nodes = lat.Len()
	meta.Precision = Full.String()
	meta.InputBytes = len(packet)
	meta.OutputBytes = Full.Size(len(stream))

	e.observer.Observe(Event{Kind: EventPinchCompleted, Count: len(packet), Nodes: lat.Len(), Seed: seed})
	return stream, meta, nil
}
