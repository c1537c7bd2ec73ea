// Package entropy supplies one-time keys for the pinch protocol when the
// caller does not bring its own. Keys come from crypto/rand, falling back to
// the wall clock if the system source fails.
package entropy

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"strconv"
	"time"
)

// KeyBytes is the number of random bytes behind a one-time key.
const KeyBytes = 16

// Source produces one-time keys. The zero value reads crypto/rand.
type Source struct {
	// Read fills b with random bytes. Nil means crypto/rand.Read.
	Read func(b []byte) (int, error)
	// Now is the clock used by the fallback. Nil means time.Now.
	Now func() time.Time
}

// OneTimeKey returns a fresh hex key. If the random source fails, the key is
// the current Unix time with nanoseconds, "seconds.nanos".
func (s Source) OneTimeKey() string {
	read := s.Read
	if read == nil {
		read = rand.Read
	}

	buf := make([]byte, KeyBytes)
	if _, err := read(buf); err != nil {
		slog.Debug("random source failed, using clock key", "error", err)
		return s.clockKey()
	}
	return hex.EncodeToString(buf)
}

func (s Source) clockKey() string {
	now := s.Now
	if now == nil {
		now = time.Now
	}
	t := now()
	return strconv.FormatInt(t.Unix(), 10) + "." + strconv.Itoa(t.Nanosecond())
}

// OneTimeKey returns a key from the default source.
func OneTimeKey() string {
	return Source{}.OneTimeKey()
}
