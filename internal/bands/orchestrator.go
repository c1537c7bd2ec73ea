package bands

import (
	"math"
	"math/big"
	"sync"

	"github.com/talgya/cigol/internal/phi"
	"github.com/talgya/cigol/internal/resonance"
	"github.com/talgya/cigol/internal/signature"
)

// Sector labels used only by the orchestrator.
const (
	Health = "Health"
	// Core holds relics whose frequency falls below every band.
	Core = "Core"
)

// OrchestratorBase is the low edge of the orchestrator's first band.
const OrchestratorBase = 1000.0

// SectorTable returns four consecutive bands [base·Φᵏ, base·Φᵏ⁺¹) for
// k = 0..3: Science, Health, Industry, Entertainment.
func SectorTable(base float64) Table {
	labels := []string{Science, Health, Industry, Entertainment}
	t := make(Table, len(labels))
	for k, l := range labels {
		t[k] = Band{Label: l, Low: base * math.Pow(phi.Phi, float64(k)), High: base * math.Pow(phi.Phi, float64(k+1))}
	}
	return t
}

// subMemories links a sector to the sectors its relics descend from.
var subMemories = map[string][]string{
	Health:   {Science, Industry},
	Industry: {Science},
}

// Relic is one ingested source.
type Relic struct {
	Name      string   `json:"name"`
	Frequency float64  `json:"frequency"`
	Sector    string   `json:"sector"`
	Links     []string `json:"links,omitempty"`
}

// Orchestrator ingests named content into sectors by the content's SHA-256
// signature reduced modulo ⌊Ceiling⌋. Unlike Palace it needs no lattice.
type Orchestrator struct {
	table    Table
	modulus  *big.Int
	observer resonance.Observer

	mu     sync.Mutex
	memory map[string][]Relic
	limit  int
}

// NewOrchestrator returns an orchestrator over SectorTable(OrchestratorBase).
// obs may be nil.
func NewOrchestrator(obs resonance.Observer) *Orchestrator {
	o, _ := NewOrchestratorTable(SectorTable(OrchestratorBase), obs)
	return o
}

// NewOrchestratorTable returns an orchestrator over table.
func NewOrchestratorTable(table Table, obs resonance.Observer) (*Orchestrator, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	if obs == nil {
		obs = resonance.ObserverFunc(func(resonance.Event) {})
	}
	mod := int64(math.Floor(table.Ceiling()))
	if mod < 1 {
		mod = 1
	}
	return &Orchestrator{
		table:    table,
		modulus:  big.NewInt(mod),
		observer: obs,
		memory:   make(map[string][]Relic),
		limit:    DefaultMemoryLimit,
	}, nil
}

// Frequency returns the content's signature modulo the frequency ceiling.
func (o *Orchestrator) Frequency(content string) float64 {
	r := new(big.Int).Mod(signature.OfString(content), o.modulus)
	return float64(r.Int64())
}

// Sector classifies freq, falling back to Core.
func (o *Orchestrator) Sector(freq float64) string {
	s := o.table.Classify(freq)
	if s == Unclassified {
		return Core
	}
	return s
}

// Ingest files content under name and returns the relic with its sub-memory
// links.
func (o *Orchestrator) Ingest(name, content string) Relic {
	freq := o.Frequency(content)
	r := Relic{Name: name, Frequency: freq, Sector: o.Sector(freq)}
	if links := subMemories[r.Sector]; len(links) > 0 {
		r.Links = append([]string(nil), links...)
	}

	o.mu.Lock()
	items := append(o.memory[r.Sector], r)
	if o.limit > 0 && len(items) > o.limit {
		items = append([]Relic(nil), items[len(items)-o.limit:]...)
	}
	o.memory[r.Sector] = items
	o.mu.Unlock()

	o.observer.Observe(resonance.Event{
		Kind:   resonance.EventRelicIngested,
		Score:  freq,
		Detail: r.Sector + ": " + name,
	})
	return r
}

// Source is a named piece of content to ingest.
type Source struct {
	Name    string
	Content string
}

// Siphon ingests every source in order and returns the relics.
func (o *Orchestrator) Siphon(sources []Source) []Relic {
	out := make([]Relic, len(sources))
	for i, s := range sources {
		out[i] = o.Ingest(s.Name, s.Content)
	}
	return out
}

// Relics returns a copy of the relics filed under sector.
func (o *Orchestrator) Relics(sector string) []Relic {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Relic(nil), o.memory[sector]...)
}

// Counts returns the number of relics per sector, including empty sectors
// and Core.
func (o *Orchestrator) Counts() map[string]int {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := map[string]int{Core: len(o.memory[Core])}
	for _, l := range o.table.Labels() {
		out[l] = len(o.memory[l])
	}
	return out
}

// SetLimit caps each sector at the newest n relics. n <= 0 removes the cap.
func (o *Orchestrator) SetLimit(n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.limit = n
	if n <= 0 {
		return
	}
	for k, items := range o.memory {
		if len(items) > n {
			o.memory[k] = append([]Relic(nil), items[len(items)-n:]...)
		}
	}
}
