// Package siphon holds a state open until a candidate's byte geometry lines
// up with Φ, then absorbs that candidate.
package siphon

import (
	"math"
	"sync"

	"github.com/talgya/cigol/internal/phi"
)

// DefaultTolerance is the snap radius around Φ.
const DefaultTolerance = 0.005

// Alignment measures a byte stream's mass (sum of bytes) against its flow
// (sum of absolute deltas between neighbours), scales by ln(n)/2 and folds the
// result into [1, 2]. Empty input scores 0; one byte or a flat stream scores 1.
func Alignment(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}
	if len(data) < 2 {
		return 1
	}

	var mass, flow float64
	mass = float64(data[0])
	for i := 1; i < len(data); i++ {
		mass += float64(data[i])
		flow += math.Abs(float64(data[i]) - float64(data[i-1]))
	}
	if flow == 0 {
		return 1
	}

	raw := (mass / flow) * (math.Log(float64(len(data))) / 2)
	return phi.Fold(raw)
}

// Siphon keeps the last absorbed candidate.
type Siphon struct {
	Tolerance float64

	mu    sync.Mutex
	state string
	held  bool
}

// New returns a siphon with the given tolerance (DefaultTolerance if <= 0).
func New(tolerance float64) *Siphon {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Siphon{Tolerance: tolerance}
}

// Absorb scans candidates in order and takes the first whose alignment is
// within Tolerance of Φ. It returns the index absorbed, or -1 when none
// aligned, in which case the previous state is kept.
func (s *Siphon) Absorb(candidates []string) int {
	for i, c := range candidates {
		if math.Abs(Alignment([]byte(c))-phi.Phi) <= s.Tolerance {
			s.mu.Lock()
			s.state = c
			s.held = true
			s.mu.Unlock()
			return i
		}
	}
	return -1
}

// State returns the absorbed candidate and whether one has been absorbed.
func (s *Siphon) State() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.held
}
