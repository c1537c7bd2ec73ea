// Package signature turns bytes into deterministic integer signatures.
// The primary signature is the big-endian value of a SHA-256 digest; a legacy
// nucleotide fold produces much smaller, non-cryptographic signatures for
// modulo slot lookup.
package signature

import (
	"crypto/sha256"
	"math/big"
)

// Width is the signature width in bits.
const Width = sha256.Size * 8

// Of returns the big-endian integer value of the SHA-256 digest of data.
// Empty input hashes the empty sequence.
func Of(data []byte) *big.Int {
	sum := sha256.Sum256(data)
	return new(big.Int).SetBytes(sum[:])
}

// OfString is Of over the UTF-8 bytes of s.
func OfString(s string) *big.Int {
	return Of([]byte(s))
}

// Seed returns Of(data) mod 2^32.
func Seed(data []byte) uint32 {
	return SeedOf(Of(data))
}

// SeedOf reduces any non-negative signature mod 2^32.
// The low 32 bits of the magnitude are exactly the residue.
func SeedOf(sig *big.Int) uint32 {
	words := sig.Bits()
	if len(words) == 0 {
		return 0
	}
	return uint32(words[0])
}

// Float returns sig as the nearest float64. Signatures wider than 1024 bits
// saturate to +Inf, which a SHA-256 signature never reaches.
func Float(sig *big.Int) float64 {
	f, _ := new(big.Float).SetInt(sig).Float64()
	return f
}
