package pulse

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/cigol/internal/resonance"
)

type captured struct {
	mu     sync.Mutex
	events []resonance.Event
}

func (c *captured) Observe(e resonance.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

const discovery = "The final equation for unified consciousness."

func TestDefaultInterval(t *testing.T) {
	assert.Equal(t, 618033988*time.Nanosecond, DefaultInterval)
}

func TestProcessDiscovery(t *testing.T) {
	obs := &captured{}
	c := NewCore(obs)
	assert.Equal(t, "0", c.State().String())
	assert.True(t, c.Synchronized())

	sig := c.ProcessDiscovery(discovery)
	want := "95859323700064145771486067719088721581949069614233088000134763660270789643424"
	assert.Equal(t, want, sig.String())
	assert.Equal(t, want, c.State().String())
	assert.True(t, c.Synchronized())

	for _, s := range Sectors {
		v, ok := c.SectorState(s)
		require.True(t, ok, s)
		assert.Equal(t, want, v.String(), s)
	}
	_, ok := c.SectorState("Core")
	assert.False(t, ok)

	// Returned values are copies.
	sig.SetInt64(1)
	assert.Equal(t, want, c.State().String())

	require.Len(t, obs.events, 1)
	assert.Equal(t, resonance.EventStateTransferred, obs.events[0].Kind)
	assert.Equal(t, 4, obs.events[0].Count)
}

func TestBreathFor(t *testing.T) {
	assert.Equal(t, Breath{Pulse: "inhale", Brightness: 1.1, Scale: 1.02}, BreathFor(1))
	assert.Equal(t, Breath{Pulse: "exhale", Brightness: 1.0, Scale: 1.0}, BreathFor(2))
	assert.Equal(t, "inhale", BreathFor(5).Pulse)
}

func TestHeartbeat(t *testing.T) {
	obs := &captured{}
	c := NewCore(obs)
	c.ProcessDiscovery("hello")

	var got []Beat
	err := c.Heartbeat(context.Background(), time.Millisecond, 5, func(b Beat) { got = append(got, b) })
	require.NoError(t, err)

	require.Len(t, got, 5)
	for i, b := range got {
		assert.Equal(t, i+1, b.N)
		assert.Equal(t, BreathFor(i+1), b.Breath)
		assert.Equal(t, c.State().String(), b.Signature)
	}
	assert.Len(t, obs.events, 6)
	assert.Equal(t, resonance.EventPulse, obs.events[1].Kind)
	assert.Equal(t, "inhale", obs.events[1].Detail)
}

func TestHeartbeatCancel(t *testing.T) {
	c := NewCore(nil)
	ctx, cancel := context.WithCancel(context.Background())

	n := 0
	err := c.Heartbeat(ctx, time.Millisecond, 0, func(b Beat) {
		n = b.N
		if b.N == 3 {
			cancel()
		}
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.GreaterOrEqual(t, n, 3)
}

func TestHeartbeatRejectsInterval(t *testing.T) {
	assert.Error(t, NewCore(nil).Heartbeat(context.Background(), 0, 1, nil))
}
