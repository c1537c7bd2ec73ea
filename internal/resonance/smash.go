package resonance

import (
	"math"
	"math/big"

	"github.com/talgya/cigol/internal/lattice"
	"github.com/talgya/cigol/internal/signature"
)

// DegenerateScore is the score given to nodes that coincide with the origin
// node. They carry no signature information and only win a search when every
// node is degenerate.
const DegenerateScore = 1.0

// IndexLookup maps sig to a stable slot: sig mod lat.Len().
// Returns -1 for an empty lattice.
func IndexLookup(sig *big.Int, lat *lattice.Lattice) int {
	n := lat.Len()
	if n == 0 {
		return -1
	}
	m := new(big.Int).Mod(sig, big.NewInt(int64(n)))
	return int(m.Int64())
}

// Match is the outcome of a resonance search.
type Match struct {
	Index int           `json:"index"`
	Node  lattice.Point `json:"node"`
	Score float64       `json:"score"`
}

// ResonantNode scans every node in lattice order and returns the one with the
// greatest cos(sig / frequency), where frequency is the node's resonant
// frequency relative to the origin node. Ties keep the first node seen.
//
// Nodes within Epsilon of the origin (node 0 itself, and the seam nodes at
// 2π that fold back onto it) score DegenerateScore and are skipped as
// candidates; the first of them is returned only when no other node exists.
func (k Kernel) ResonantNode(sig *big.Int, lat *lattice.Lattice) Match {
	if lat.Len() == 0 {
		return Match{Index: -1}
	}

	origin := lat.Origin()
	s := signature.Float(sig)

	best := Match{Index: -1, Score: math.Inf(-1)}
	fallback := -1
	lat.Each(func(i int, node lattice.Point) {
		freq, ok := k.Frequency(node.Distance(origin))
		if !ok {
			if fallback < 0 {
				fallback = i
			}
			return
		}
		score := math.Cos(s / freq)
		if score > best.Score {
			best = Match{Index: i, Node: node, Score: score}
		}
	})

	if best.Index < 0 {
		if fallback < 0 {
			return Match{Index: -1}
		}
		return Match{Index: fallback, Node: lat.Node(fallback), Score: DegenerateScore}
	}
	return best
}
