package signature

import (
	"math/big"
	"unicode"
)

// NucleotideTable maps nucleotide letters to base-4 digits. Lookups are
// case-insensitive. The zero value maps nothing.
type NucleotideTable struct {
	values map[rune]int64
	order  []rune // letter for each value, index = value
}

// DefaultNucleotides returns the A,T,C,G → 1,2,3,4 table.
func DefaultNucleotides() NucleotideTable {
	return NewNucleotideTable(map[rune]int64{'A': 1, 'T': 2, 'C': 3, 'G': 4})
}

// NewNucleotideTable builds a table from upper-case letters to values.
// The map is copied.
func NewNucleotideTable(m map[rune]int64) NucleotideTable {
	t := NucleotideTable{values: make(map[rune]int64, len(m))}
	var hi int64
	for r, v := range m {
		t.values[unicode.ToUpper(r)] = v
		if v > hi {
			hi = v
		}
	}
	t.order = make([]rune, hi+1)
	for r, v := range t.values {
		if v >= 0 {
			t.order[v] = r
		}
	}
	return t
}

// Value returns the digit for r and whether r is a known letter.
func (t NucleotideTable) Value(r rune) (int64, bool) {
	v, ok := t.values[unicode.ToUpper(r)]
	return v, ok
}

// Letter returns the letter mapped to v, or fallback when none is.
func (t NucleotideTable) Letter(v int64, fallback rune) rune {
	if v < 0 || v >= int64(len(t.order)) || t.order[v] == 0 {
		return fallback
	}
	return t.order[v]
}

// Fold folds s into an integer with acc = acc*4 + value. Unknown characters
// are skipped when skipUnknown is set, and contribute 0 otherwise.
func (t NucleotideTable) Fold(s string, skipUnknown bool) *big.Int {
	acc := new(big.Int)
	four := big.NewInt(4)
	digit := new(big.Int)
	for _, r := range s {
		v, ok := t.Value(r)
		if !ok {
			if skipUnknown {
				continue
			}
			v = 0
		}
		acc.Mul(acc, four)
		acc.Add(acc, digit.SetInt64(v))
	}
	return acc
}
