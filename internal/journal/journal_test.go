package journal

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/cigol/internal/lattice"
	"github.com/talgya/cigol/internal/resonance"
)

func openTest(t *testing.T) *Journal {
	t.Helper()
	j, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRecordAndRecent(t *testing.T) {
	j := openTest(t)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	j.now = func() time.Time { return fixed }

	id, err := j.Record(resonance.Event{
		Kind:  resonance.EventNodeMatched,
		Index: 88,
		Point: lattice.Point{X: 1, Y: 2, Z: 3},
		Score: 0.5,
		Nodes: 1010,
	})
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err)

	j.Observe(resonance.Event{Kind: resonance.EventPinchCompleted, Count: 4, Seed: 4060091821, Detail: "locked"})

	entries, err := j.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, string(resonance.EventPinchCompleted), entries[0].Kind)
	assert.Equal(t, 4, entries[0].Count)
	assert.Equal(t, int64(4060091821), entries[0].Seed)
	assert.Equal(t, "locked", entries[0].Detail)

	assert.Equal(t, id, entries[1].ID)
	assert.Equal(t, 88, entries[1].Index)
	assert.Equal(t, 3.0, entries[1].Z)
	assert.True(t, fixed.Equal(entries[1].Recorded))
}

func TestRecentLimitAndCounts(t *testing.T) {
	j := openTest(t)
	for i := 0; i < 5; i++ {
		j.Observe(resonance.Event{Kind: resonance.EventSlotResolved, Index: i})
	}
	j.Observe(resonance.Event{Kind: resonance.EventLatticeBuilt, Nodes: 1010})

	entries, err := j.Recent(3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, string(resonance.EventLatticeBuilt), entries[0].Kind)
	assert.Equal(t, 4, entries[1].Index)

	counts, err := j.Counts()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"slot_resolved": 5, "lattice_built": 1}, counts)
}

func TestEmptyJournal(t *testing.T) {
	j := openTest(t)
	entries, err := j.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NotNil(t, entries)
}

func TestEngineWiring(t *testing.T) {
	j := openTest(t)
	e, err := resonance.NewEngine(lattice.DefaultParams(), resonance.WithObserver(j))
	require.NoError(t, err)
	e.SequenceSmash("ATGC")

	counts, err := j.Counts()
	require.NoError(t, err)
	assert.Equal(t, 1, counts[string(resonance.EventLatticeBuilt)])
	assert.Positive(t, counts[string(resonance.EventNodeMatched)])
}

func TestRetention(t *testing.T) {
	j, err := Open("", WithRetention(3))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })

	for i := 0; i < 10; i++ {
		j.Observe(resonance.Event{Kind: resonance.EventSlotResolved, Index: i})
	}

	n, err := j.Len()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	entries, err := j.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, []int{9, 8, 7}, []int{entries[0].Index, entries[1].Index, entries[2].Index})
}

func TestUnlimitedRetention(t *testing.T) {
	j, err := Open("", WithRetention(0))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })

	for i := 0; i < 5; i++ {
		j.Observe(resonance.Event{Kind: resonance.EventSlotResolved})
	}
	n, err := j.Len()
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, DefaultRetention, openTest(t).retain)
}
