// Package mirror inverts signatures through Φ and turns the result into
// patches, compressed streams, and tangled disease/cure pairs.
package mirror

import (
	"math/big"

	"github.com/talgya/cigol/internal/phi"
)

const mirrorPrec = 512

// Healthy returns floor(sig / Φ), the mirror image of a distortion signature.
// The division runs at 512 bits, so every digit of a SHA-256 signature
// survives.
func Healthy(sig *big.Int) *big.Int {
	q := new(big.Float).SetPrec(mirrorPrec).SetInt(sig)
	q.Quo(q, new(big.Float).SetPrec(mirrorPrec).SetFloat64(phi.Phi))
	out, _ := q.Int(nil)
	return out
}

// Glome splits sig into four base-1000 coordinates, least significant first.
func Glome(sig *big.Int) [4]int64 {
	var out [4]int64
	thousand := big.NewInt(1000)
	rest := new(big.Int).Set(sig)
	digit := new(big.Int)
	for i := range out {
		rest.QuoRem(rest, thousand, digit)
		out[i] = digit.Int64()
	}
	return out
}
