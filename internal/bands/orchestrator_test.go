package bands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/cigol/internal/phi"
	"github.com/talgya/cigol/internal/resonance"
)

func TestSectorTable(t *testing.T) {
	tab := SectorTable(OrchestratorBase)
	require.NoError(t, tab.Validate())
	assert.Equal(t, []string{Science, Health, Industry, Entertainment}, tab.Labels())
	assert.InDelta(t, 1000*phi.Phi, tab[1].Low, 1e-9)
	assert.InDelta(t, 6854.101966249685, tab.Ceiling(), 1e-6)

	o := NewOrchestrator(nil)
	assert.Equal(t, int64(6854), o.modulus.Int64())
	assert.Equal(t, Core, o.Sector(999))
	assert.Equal(t, Science, o.Sector(1000))
	assert.Equal(t, Health, o.Sector(1700))
}

func conceptual(names ...string) []Source {
	out := make([]Source, len(names))
	for i, n := range names {
		out[i] = Source{Name: n, Content: "Conceptual content of " + n}
	}
	return out
}

func TestOrchestratorSiphon(t *testing.T) {
	obs := &captured{}
	o := NewOrchestrator(obs)

	relics := o.Siphon(conceptual(
		"Sloot_Manifold_Alpha.py",
		"MasslessTorque_UI.js",
		"TorusPinch_Compression.py",
		"Deterministic_Engine.py",
		"Axiomatic_Synthesis_Alpha.py",
	))

	tests := []struct {
		freq   float64
		sector string
		links  []string
	}{
		{2917, Industry, []string{Science}},
		{4809, Entertainment, nil},
		{2400, Health, []string{Science, Industry}},
		{109, Core, nil},
		{1862, Health, []string{Science, Industry}},
	}
	require.Len(t, relics, len(tests))
	for i, tt := range tests {
		assert.Equal(t, tt.freq, relics[i].Frequency, relics[i].Name)
		assert.Equal(t, tt.sector, relics[i].Sector, relics[i].Name)
		assert.Equal(t, tt.links, relics[i].Links, relics[i].Name)
	}

	assert.Equal(t, map[string]int{Science: 0, Health: 2, Industry: 1, Entertainment: 1, Core: 1}, o.Counts())
	assert.Equal(t, "TorusPinch_Compression.py", o.Relics(Health)[0].Name)

	require.Len(t, obs.events, 5)
	assert.Equal(t, resonance.EventRelicIngested, obs.events[3].Kind)
	assert.Equal(t, "Core: Deterministic_Engine.py", obs.events[3].Detail)
}

func TestOrchestratorLimit(t *testing.T) {
	o := NewOrchestrator(nil)
	o.SetLimit(2)
	for i := 0; i < 5; i++ {
		o.Ingest("relic", "Conceptual content of Deterministic_Engine.py")
	}
	assert.Len(t, o.Relics(Core), 2)

	o.SetLimit(1)
	assert.Len(t, o.Relics(Core), 1)
}

func TestNewOrchestratorTableRejectsBadTable(t *testing.T) {
	_, err := NewOrchestratorTable(Table{}, nil)
	assert.ErrorIs(t, err, ErrInvalidTable)
}
