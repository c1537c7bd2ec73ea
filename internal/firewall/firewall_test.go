package firewall

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/cigol/internal/phi"
	"github.com/talgya/cigol/internal/resonance"
)

type captured struct{ events []resonance.Event }

func (c *captured) Observe(e resonance.Event) { c.events = append(c.events, e) }

func TestCheckAccess(t *testing.T) {
	obs := &captured{}
	f := New(rand.NewSource(1), obs)

	assert.True(t, f.CheckAccess("1.61803398875"))
	assert.False(t, f.CheckAccess("wrong_key"))
	assert.False(t, f.CheckAccess(""))
	assert.False(t, f.CheckAccess("1.6180339887"))

	require.Len(t, obs.events, 4)
	assert.Equal(t, resonance.EventAccessChecked, obs.events[0].Kind)
	assert.Equal(t, "granted", obs.events[0].Detail)
	assert.Equal(t, "denied", obs.events[1].Detail)
}

func TestActiveSensory(t *testing.T) {
	s := ActiveSensory()
	assert.Equal(t, "firewall_active", s.State)
	assert.Equal(t, 0.1, s.Brightness)
	assert.Equal(t, "rgba(255, 20, 20, 0.7)", s.ShadowColor)
	assert.Equal(t, "SOVEREIGN SYNC", s.Label)
	assert.False(t, s.Interactive)
}

func TestMask(t *testing.T) {
	f := New(rand.NewSource(7), nil)
	seen := map[float64]bool{}
	for i := 0; i < 1000; i++ {
		m := f.Mask()
		assert.InDelta(t, phi.Phi, m, MaskJitter)
		seen[m] = true
	}
	assert.Greater(t, len(seen), 900, "masked values vary")

	// Same seed, same sequence.
	a, b := New(rand.NewSource(3), nil), New(rand.NewSource(3), nil)
	assert.Equal(t, a.Mask(), b.Mask())
}

func TestDeadMan(t *testing.T) {
	obs := &captured{}
	f := New(rand.NewSource(42), obs)

	noise := f.DeadMan("public_sdk/omega.go", 0)
	assert.Len(t, noise, NoiseLength)
	for _, r := range noise {
		assert.True(t, strings.ContainsRune(noiseAlphabet, r), "unexpected %q", r)
	}
	assert.Len(t, f.DeadMan("x", 16), 16)

	require.Len(t, obs.events, 2)
	assert.Equal(t, resonance.EventDeadMan, obs.events[0].Kind)
	assert.Equal(t, NoiseLength, obs.events[0].Count)
	assert.Equal(t, "public_sdk/omega.go", obs.events[0].Detail)

	assert.Equal(t, 94, len(noiseAlphabet))
}
