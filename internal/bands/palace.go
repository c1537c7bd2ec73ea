package bands

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
	"sync"

	"github.com/talgya/cigol/internal/lattice"
	"github.com/talgya/cigol/internal/phi"
	"github.com/talgya/cigol/internal/resonance"
)

// Item is one filed datum.
type Item struct {
	Data      string  `json:"data"`
	Stability float64 `json:"stability"`
	Frequency float64 `json:"frequency"`
}

// Placement is the outcome of Categorize.
type Placement struct {
	Sector    string  `json:"sector"`
	Frequency float64 `json:"frequency"`
	Bridged   bool    `json:"bridged"` // Science item at a stability peak
	Theme     Theme   `json:"theme"`
}

// Theme is the sensory styling of a sector.
type Theme struct {
	Sector     string `json:"sector"`
	ThemeColor string `json:"theme_color"`
	Label      string `json:"label"`
}

var themes = map[string]Theme{
	Science:       {Sector: Science, ThemeColor: "rgba(0, 150, 255, 0.6)", Label: "SCIENCE FREQ"},
	Industry:      {Sector: Industry, ThemeColor: "rgba(0, 255, 100, 0.6)", Label: "INDUSTRY FREQ"},
	Entertainment: {Sector: Entertainment, ThemeColor: "rgba(200, 100, 255, 0.6)", Label: "ENTERTAINMENT FREQ"},
}

// ThemeFor returns the sector's theme; unknown sectors get a grey theme.
func ThemeFor(sector string) Theme {
	if th, ok := themes[sector]; ok {
		return th
	}
	return Theme{Sector: sector, ThemeColor: "rgba(128, 128, 128, 0.5)", Label: "UNCATEGORIZED"}
}

// DefaultMemoryLimit is the number of newest items kept per sector.
const DefaultMemoryLimit = 1000

// Palace files data strings into sectors by their intrinsic frequency against
// an engine's lattice.
type Palace struct {
	engine *resonance.Engine
	table  Table
	extent float64

	mu     sync.Mutex
	memory map[string][]Item
	limit  int
}

// NewPalace returns a palace over engine classifying with table.
func NewPalace(engine *resonance.Engine, table Table) (*Palace, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}

	extent := 0.0
	engine.Lattice().Each(func(_ int, p lattice.Point) {
		extent = math.Max(extent, math.Max(math.Abs(p.X), math.Max(math.Abs(p.Y), math.Abs(p.Z))))
	})

	return &Palace{
		engine: engine,
		table:  table,
		extent: extent,
		memory: make(map[string][]Item),
		limit:  DefaultMemoryLimit,
	}, nil
}

// SetLimit caps each sector at the newest n items. n <= 0 removes the cap.
func (p *Palace) SetLimit(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.limit = n
	if n > 0 {
		for k, items := range p.memory {
			p.memory[k] = trim(items, n)
		}
	}
}

// trim drops the oldest items beyond n, copying so the dropped prefix can be
// collected.
func trim(items []Item, n int) []Item {
	if len(items) <= n {
		return items
	}
	out := make([]Item, n, n+n/4)
	copy(out, items[len(items)-n:])
	return out
}

// Locate maps data to a point inside the lattice's bounding cube. The axes are
// three overlapping big-endian 4-byte windows of the SHA-256 digest at offsets
// 0, 1 and 2, scaled from [0, 2³²) to [-extent, extent).
func (p *Palace) Locate(data string) lattice.Point {
	h := sha256.Sum256([]byte(data))
	axis := func(off int) float64 {
		w := float64(binary.BigEndian.Uint32(h[off : off+4]))
		return (w/(1<<32)*2 - 1) * p.extent
	}
	return lattice.Point{X: axis(0), Y: axis(1), Z: axis(2)}
}

// Frequency returns the total resonance of data's located point, reduced
// modulo the table ceiling.
func (p *Palace) Frequency(data string) float64 {
	return math.Mod(p.engine.Total(p.Locate(data)), p.table.Ceiling())
}

// Categorize files data under its sector. A Science item whose stability is
// at a peak crosses the resonance bridge, which is reported to the engine's
// observer.
func (p *Palace) Categorize(data string, stability float64) Placement {
	freq := p.Frequency(data)
	sector := p.table.Classify(freq)

	p.mu.Lock()
	items := append(p.memory[sector], Item{Data: data, Stability: stability, Frequency: freq})
	if p.limit > 0 {
		items = trim(items, p.limit)
	}
	p.memory[sector] = items
	p.mu.Unlock()

	bridged := sector == Science && phi.IsStabilityPeak(stability)
	if bridged {
		p.engine.Observer().Observe(resonance.Event{
			Kind:   resonance.EventBridgeTriggered,
			Point:  p.Locate(data),
			Score:  stability,
			Detail: "capital logic: " + Science + " -> " + Industry,
		})
	}

	return Placement{Sector: sector, Frequency: freq, Bridged: bridged, Theme: ThemeFor(sector)}
}

// Memory returns a copy of the items filed under sector.
func (p *Palace) Memory(sector string) []Item {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Item, len(p.memory[sector]))
	copy(out, p.memory[sector])
	return out
}

// Counts returns the number of items per sector.
func (p *Palace) Counts() map[string]int {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]int, len(p.memory))
	for k, v := range p.memory {
		out[k] = len(v)
	}
	return out
}
