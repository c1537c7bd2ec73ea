// Package bands classifies resonance frequencies into named sectors using an
// ordered table of half-open ranges.
package bands

import (
	"errors"
	"fmt"
	"math"

	"github.com/talgya/cigol/internal/phi"
)

// Unclassified is the label returned when no band contains a value.
const Unclassified = "Uncategorized"

// ErrInvalidTable is returned for tables with empty or overlapping bands.
var ErrInvalidTable = errors.New("invalid band table")

// Band is the range [Low, High).
type Band struct {
	Label string  `yaml:"label" json:"label"`
	Low   float64 `yaml:"low" json:"low"`
	High  float64 `yaml:"high" json:"high"`
}

// Contains reports whether Low <= v < High.
func (b Band) Contains(v float64) bool {
	return b.Low <= v && v < b.High
}

// Table is an ordered list of bands. The first matching band wins.
type Table []Band

// Sector labels of the default table.
const (
	Science       = "Science"
	Industry      = "Industry"
	Entertainment = "Entertainment"
)

// DefaultBase is the lower edge of the default table: 100·Φ⁻³.
var DefaultBase = 100 * phi.Agnosis

// PhiTable returns three consecutive bands [base·Φᵏ, base·Φᵏ⁺¹) for k = 0..2.
func PhiTable(base float64) Table {
	return Table{
		{Label: Science, Low: base, High: base * phi.Phi},
		{Label: Industry, Low: base * phi.Phi, High: base * math.Pow(phi.Phi, 2)},
		{Label: Entertainment, Low: base * math.Pow(phi.Phi, 2), High: base * math.Pow(phi.Phi, 3)},
	}
}

// DefaultTable returns PhiTable(DefaultBase).
func DefaultTable() Table {
	return PhiTable(DefaultBase)
}

// Validate checks that every band is non-empty and bands do not overlap.
func (t Table) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: no bands", ErrInvalidTable)
	}
	for i, b := range t {
		if b.Label == "" {
			return fmt.Errorf("%w: band %d has no label", ErrInvalidTable, i)
		}
		if !(b.Low < b.High) {
			return fmt.Errorf("%w: band %q is empty [%v, %v)", ErrInvalidTable, b.Label, b.Low, b.High)
		}
		for _, o := range t[:i] {
			if b.Low < o.High && o.Low < b.High {
				return fmt.Errorf("%w: band %q overlaps %q", ErrInvalidTable, b.Label, o.Label)
			}
		}
	}
	return nil
}

// Classify returns the label of the first band containing v, or Unclassified.
func (t Table) Classify(v float64) string {
	for _, b := range t {
		if b.Contains(v) {
			return b.Label
		}
	}
	return Unclassified
}

// Ceiling returns the largest High in the table.
func (t Table) Ceiling() float64 {
	top := math.Inf(-1)
	for _, b := range t {
		top = math.Max(top, b.High)
	}
	return top
}

// Labels returns the band labels in table order.
func (t Table) Labels() []string {
	out := make([]string, len(t))
	for i, b := range t {
		out[i] = b.Label
	}
	return out
}
