// Package firewall guards the lattice behind the Φ unlock key. It masks the
// golden ratio for public consumers and, on a breach, replaces a payload with
// high-entropy noise.
package firewall

import (
	"crypto/subtle"
	"math/rand"
	"sync"
	"time"

	"github.com/talgya/cigol/internal/phi"
	"github.com/talgya/cigol/internal/resonance"
)

// UnlockKey opens the firewall.
const UnlockKey = phi.SaltText

// MaskJitter bounds the offset applied by Mask.
const MaskJitter = 1e-4

// NoiseLength is the number of characters the dead-man handshake emits.
const NoiseLength = 500

// noiseAlphabet is ASCII letters, digits and punctuation.
const noiseAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"0123456789" +
	"!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Sensory is the UI state shown while the firewall is up.
type Sensory struct {
	State       string  `json:"state"`
	Brightness  float64 `json:"brightness"`
	ShadowColor string  `json:"shadowColor"`
	Label       string  `json:"label"`
	Interactive bool    `json:"interactive"`
}

// ActiveSensory returns the locked-down UI state.
func ActiveSensory() Sensory {
	return Sensory{
		State:       "firewall_active",
		Brightness:  0.1,
		ShadowColor: "rgba(255, 20, 20, 0.7)",
		Label:       "SOVEREIGN SYNC",
	}
}

// Firewall checks keys and produces masked constants and breach noise.
// It is safe for concurrent use.
type Firewall struct {
	observer resonance.Observer

	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a firewall drawing from src. A nil src seeds from the clock.
// obs may be nil.
func New(src rand.Source, obs resonance.Observer) *Firewall {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	if obs == nil {
		obs = resonance.ObserverFunc(func(resonance.Event) {})
	}
	return &Firewall{observer: obs, rng: rand.New(src)}
}

// CheckAccess reports whether key equals UnlockKey. The comparison is
// constant-time.
func (f *Firewall) CheckAccess(key string) bool {
	ok := subtle.ConstantTimeCompare([]byte(key), []byte(UnlockKey)) == 1
	detail := "denied"
	if ok {
		detail = "granted"
	}
	f.observer.Observe(resonance.Event{Kind: resonance.EventAccessChecked, Detail: detail})
	return ok
}

// Mask returns Φ offset by a uniform draw from [-MaskJitter, MaskJitter).
func (f *Firewall) Mask() float64 {
	f.mu.Lock()
	u := f.rng.Float64()
	f.mu.Unlock()
	return phi.Phi + (2*u-1)*MaskJitter
}

// DeadMan collapses target into n characters of noise. n <= 0 means
// NoiseLength.
func (f *Firewall) DeadMan(target string, n int) string {
	if n <= 0 {
		n = NoiseLength
	}
	buf := make([]byte, n)
	f.mu.Lock()
	for i := range buf {
		buf[i] = noiseAlphabet[f.rng.Intn(len(noiseAlphabet))]
	}
	f.mu.Unlock()

	f.observer.Observe(resonance.Event{Kind: resonance.EventDeadMan, Count: n, Detail: target})
	return string(buf)
}
