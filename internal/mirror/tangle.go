package mirror

import (
	"math/big"
	"sync"

	"github.com/talgya/cigol/internal/resonance"
)

// HealthMemory pairs a disease sequence with the cure derived from it.
type HealthMemory struct {
	Disease string `json:"disease"`
	Cure    string `json:"cure"`
	Slot    int    `json:"slot"`
}

// KnotDensity is the length of the disease sequence.
func (h HealthMemory) KnotDensity() int { return len(h.Disease) }

// UnknottedDensity is the length of the cure sequence.
func (h HealthMemory) UnknottedDensity() int { return len(h.Cure) }

// Manifold stores disease/cure pairs at lattice slots. A later disease that
// lands on an occupied slot replaces the earlier pair.
type Manifold struct {
	engine *resonance.Engine

	mu   sync.RWMutex
	grid map[int]HealthMemory
}

// NewManifold returns an empty manifold over engine's lattice.
func NewManifold(engine *resonance.Engine) *Manifold {
	return &Manifold{engine: engine, grid: make(map[int]HealthMemory)}
}

// Cure folds disease (unknown letters count as 0), mirrors the result through
// Φ and spells it back out in base 4. Digits without a letter become 'A'.
func (m *Manifold) Cure(disease string) string {
	tab := m.engine.Nucleotides()
	n := Healthy(tab.Fold(disease, false))

	var letters []rune
	four := big.NewInt(4)
	digit := new(big.Int)
	for n.Sign() > 0 {
		n.QuoRem(n, four, digit)
		letters = append(letters, tab.Letter(digit.Int64(), 'A'))
	}
	for i, j := 0, len(letters)-1; i < j; i, j = i+1, j-1 {
		letters[i], letters[j] = letters[j], letters[i]
	}
	return string(letters)
}

// AddDisease derives the cure for disease and files the pair at the disease's
// slot.
func (m *Manifold) AddDisease(disease string) HealthMemory {
	mem := HealthMemory{
		Disease: disease,
		Cure:    m.Cure(disease),
		Slot:    m.engine.Slot(disease),
	}

	m.mu.Lock()
	m.grid[mem.Slot] = mem
	m.mu.Unlock()
	return mem
}

// Memory returns the pair stored at disease's slot.
func (m *Manifold) Memory(disease string) (HealthMemory, bool) {
	slot := m.engine.Slot(disease)

	m.mu.RLock()
	defer m.mu.RUnlock()
	mem, ok := m.grid[slot]
	return mem, ok
}

// Len returns the number of occupied slots.
func (m *Manifold) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.grid)
}
