package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterWindow(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"))
	assert.Equal(t, 61, rl.RetryAfter("1.2.3.4"))

	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.Zero(t, rl.RetryAfter("9.9.9.9"))
}

func TestClientIP(t *testing.T) {
	res := IPResolver{Trusted: []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}}

	tests := []struct {
		name   string
		remote string
		xff    string
		want   string
	}{
		{"untrusted peer ignores header", "203.0.113.9:4000", "198.51.100.1", "203.0.113.9"},
		{"no header", "10.0.0.1:5555", "", "10.0.0.1"},
		{"trusted proxy", "10.0.0.1:5555", "198.51.100.7", "198.51.100.7"},
		{"rightmost untrusted hop", "10.0.0.1:5555", "1.1.1.1, 198.51.100.7, 10.0.0.2", "198.51.100.7"},
		{"garbage hop", "10.0.0.1:5555", "not-an-ip", "10.0.0.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			assert.Equal(t, tt.want, res.ClientIP(r))
		})
	}
}

func TestRotatingForwardedForStillLimited(t *testing.T) {
	rl := NewRateLimiter(2, time.Hour)
	h := RateLimitMiddleware(rl, IPResolver{}, func(w http.ResponseWriter, r *http.Request) {})

	served := 0
	for i := 0; i < 50; i++ {
		r := httptest.NewRequest("POST", "/api/v1/collapse", nil)
		r.RemoteAddr = "203.0.113.9:4000"
		r.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i))
		rec := httptest.NewRecorder()
		h(rec, r)
		if rec.Code == http.StatusOK {
			served++
		}
	}
	assert.Equal(t, 2, served)
}
