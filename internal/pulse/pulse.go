// Package pulse keeps a single global state signature that every sector
// shares, and drives a breathing heartbeat at a 1/Φ second interval.
package pulse

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/talgya/cigol/internal/bands"
	"github.com/talgya/cigol/internal/phi"
	"github.com/talgya/cigol/internal/resonance"
	"github.com/talgya/cigol/internal/signature"
)

// DefaultInterval is 1/Φ seconds.
var DefaultInterval = time.Duration(float64(time.Second) * phi.Matter)

// Sectors receive every state transfer, in this order.
var Sectors = []string{bands.Science, bands.Health, bands.Industry, bands.Entertainment}

// Breath is the sensory output of one beat.
type Breath struct {
	Pulse      string  `json:"pulse"`
	Brightness float64 `json:"brightness"`
	Scale      float64 `json:"scale"`
}

// BreathFor returns the breath of beat n (1-based). Odd beats inhale.
func BreathFor(n int) Breath {
	if n%2 != 0 {
		return Breath{Pulse: "inhale", Brightness: 1.1, Scale: 1.02}
	}
	return Breath{Pulse: "exhale", Brightness: 1.0, Scale: 1.0}
}

// Beat is delivered to Heartbeat callbacks.
type Beat struct {
	N         int    `json:"n"`
	Breath    Breath `json:"breath"`
	Signature string `json:"signature"`
}

// Core holds the global state signature and each sector's copy of it.
type Core struct {
	observer resonance.Observer

	mu      sync.RWMutex
	global  *big.Int
	sectors map[string]*big.Int
}

// NewCore returns a core whose global state is zero. obs may be nil.
func NewCore(obs resonance.Observer) *Core {
	if obs == nil {
		obs = resonance.ObserverFunc(func(resonance.Event) {})
	}
	c := &Core{observer: obs, global: new(big.Int), sectors: make(map[string]*big.Int, len(Sectors))}
	for _, s := range Sectors {
		c.sectors[s] = new(big.Int)
	}
	return c
}

// ProcessDiscovery sets the global state to data's SHA-256 signature and
// transfers it to every sector.
func (c *Core) ProcessDiscovery(data string) *big.Int {
	sig := signature.OfString(data)

	c.mu.Lock()
	c.global = sig
	for _, s := range Sectors {
		c.sectors[s] = new(big.Int).Set(sig)
	}
	c.mu.Unlock()

	c.observer.Observe(resonance.Event{
		Kind:   resonance.EventStateTransferred,
		Count:  len(Sectors),
		Detail: sig.String(),
	})
	return new(big.Int).Set(sig)
}

// State returns a copy of the global signature.
func (c *Core) State() *big.Int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return new(big.Int).Set(c.global)
}

// SectorState returns a copy of sector's signature.
func (c *Core) SectorState(sector string) (*big.Int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.sectors[sector]
	if !ok {
		return nil, false
	}
	return new(big.Int).Set(v), true
}

// Synchronized reports whether every sector holds the global signature.
func (c *Core) Synchronized() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, v := range c.sectors {
		if v.Cmp(c.global) != 0 {
			return false
		}
	}
	return true
}

// Heartbeat emits beats every interval until beats have been sent or ctx is
// done. beats <= 0 runs until ctx is done. fn may be nil. It returns nil
// after the last beat and ctx.Err() on cancellation.
func (c *Core) Heartbeat(ctx context.Context, interval time.Duration, beats int, fn func(Beat)) error {
	if interval <= 0 {
		return fmt.Errorf("heartbeat interval %s: must be positive", interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for n := 1; beats <= 0 || n <= beats; n++ {
		b := Beat{N: n, Breath: BreathFor(n), Signature: c.State().String()}
		c.observer.Observe(resonance.Event{
			Kind:   resonance.EventPulse,
			Index:  n,
			Score:  b.Breath.Brightness,
			Detail: b.Breath.Pulse,
		})
		if fn != nil {
			fn(b)
		}
		if beats > 0 && n == beats {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}
