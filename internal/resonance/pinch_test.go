package resonance

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/cigol/internal/lattice"
	"github.com/talgya/cigol/internal/signature"
)

func TestPinchProtocolDeterministic(t *testing.T) {
	e := newTestEngine(t)
	packet := []byte("This is a top secret message for the public SDK.")

	a, metaA, err := e.PinchProtocol(context.Background(), packet, "1700000000.123")
	require.NoError(t, err)
	b, metaB, err := e.PinchProtocol(context.Background(), packet, "1700000000.123")
	require.NoError(t, err)

	assert.Equal(t, a, b, "same packet and key must give identical streams")
	assert.Equal(t, metaA, metaB)
	assert.Len(t, a, len(packet))

	for _, v := range a {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.False(t, math.IsInf(v, 0) || math.IsNaN(v))
	}
}

func TestPinchProtocolKeySensitivity(t *testing.T) {
	e := newTestEngine(t)
	packet := []byte("payload")

	a, _, err := e.PinchProtocol(context.Background(), packet, "key-one")
	require.NoError(t, err)
	b, _, err := e.PinchProtocol(context.Background(), packet, "key-two")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestPinchProtocolMetadata(t *testing.T) {
	e := newTestEngine(t)

	stream, meta, err := e.PinchProtocol(context.Background(), []byte{1, 2, 3}, "k")
	require.NoError(t, err)
	require.Len(t, stream, 3)

	assert.Equal(t, "locked", meta.State)
	assert.Equal(t, "LOCKED", meta.Label)
	assert.Equal(t, 1010, meta.Nodes)
	assert.Equal(t, signature.Seed([]byte("k")), meta.Seed)
	assert.Equal(t, 3, meta.InputBytes)
	assert.Equal(t, 24, meta.OutputBytes)
	assert.Equal(t, "float64", meta.Precision)
}

func TestPinchProtocolMatchesManualPipeline(t *testing.T) {
	e := newTestEngine(t)
	packet := []byte{0, 7, 255}

	got, _, err := e.PinchProtocol(context.Background(), packet, "manual")
	require.NoError(t, err)

	lat, err := lattice.BuildKeyed(lattice.PinchedParams(), signature.Seed([]byte("manual")))
	require.NoError(t, err)
	for i, b := range packet {
		assert.Equal(t, e.Kernel().Total(lattice.Unfold(float64(b)), lat), got[i])
	}
}

func TestPinchProtocolEmptyPacket(t *testing.T) {
	rec := &recorder{}
	e := newTestEngine(t, WithObserver(rec))

	stream, meta, err := e.PinchProtocol(context.Background(), nil, "")
	require.NoError(t, err)
	assert.Empty(t, stream)
	assert.Equal(t, 0, meta.OutputBytes)
	assert.Contains(t, rec.kinds(), EventPinchCompleted)
}
