// Package omega derives the permanent 15-digit key tied to an identity.
// It is a pure digest transform and does not touch the lattice.
package omega

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/talgya/cigol/internal/phi"
)

// KeyLength is the number of decimal digits in a derived key.
const KeyLength = 15

// DeriveKey hashes identity + Φ salt + password with SHA-256 and keeps the
// first KeyLength decimal digits of the lowercase hex digest, in order. The
// result is shorter only if the digest holds fewer digits.
func DeriveKey(identity, password string) string {
	sum := sha256.Sum256([]byte(identity + phi.SaltText + password))
	hexDigest := hex.EncodeToString(sum[:])

	key := make([]byte, 0, KeyLength)
	for i := 0; i < len(hexDigest) && len(key) < KeyLength; i++ {
		if c := hexDigest[i]; c >= '0' && c <= '9' {
			key = append(key, c)
		}
	}
	return string(key)
}
