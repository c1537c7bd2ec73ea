// Package config loads engine and server settings from YAML, with
// environment overrides for deployment.
package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/talgya/cigol/internal/bands"
	"github.com/talgya/cigol/internal/journal"
	"github.com/talgya/cigol/internal/lattice"
	"github.com/talgya/cigol/internal/resonance"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid config")

// Config holds all tunables.
type Config struct {
	Lattice lattice.Params `yaml:"lattice"`
	Pinch   lattice.Params `yaml:"pinch"`
	Epsilon float64        `yaml:"epsilon"`
	// BandBase is the low edge of the first frequency band.
	BandBase float64 `yaml:"band_base"`

	Server  ServerConfig `yaml:"server"`
	Journal string       `yaml:"journal"`
	// JournalRetention is the number of newest events the journal keeps;
	// zero keeps everything.
	JournalRetention int `yaml:"journal_retention"`
	// PalaceLimit caps the items kept per sector; zero removes the cap.
	PalaceLimit int `yaml:"palace_limit"`
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Port        int           `yaml:"port"`
	RateLimit   int           `yaml:"rate_limit"` // Requests per RateWindow per IP
	RateWindow  time.Duration `yaml:"rate_window"`
	CORSOrigins []string      `yaml:"cors_origins"`
	// TrustedProxies lists addresses or CIDR ranges whose X-Forwarded-For
	// header is believed. Everyone else is keyed on the socket peer.
	TrustedProxies []string `yaml:"trusted_proxies"`
}

// Proxies parses TrustedProxies. Bare addresses become single-host prefixes.
func (s ServerConfig) Proxies() ([]netip.Prefix, error) {
	out := make([]netip.Prefix, 0, len(s.TrustedProxies))
	for _, entry := range s.TrustedProxies {
		entry = strings.TrimSpace(entry)
		if strings.Contains(entry, "/") {
			pfx, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("%w: trusted proxy %q: %v", ErrInvalid, entry, err)
			}
			out = append(out, pfx.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("%w: trusted proxy %q: %v", ErrInvalid, entry, err)
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Lattice:  lattice.DefaultParams(),
		Pinch:    lattice.PinchedParams(),
		Epsilon:  resonance.DefaultKernel().Epsilon,
		BandBase: bands.DefaultBase,
		Server: ServerConfig{
			Port:       8080,
			RateLimit:  60,
			RateWindow: time.Minute,
		},
		Journal:          journal.MemoryDSN,
		JournalRetention: journal.DefaultRetention,
		PalaceLimit:      bands.DefaultMemoryLimit,
	}
}

// Load reads path over the defaults and applies environment overrides.
// An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("CIGOL_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Server.Port = n
		}
	}
	if v := os.Getenv("CIGOL_JOURNAL"); v != "" {
		c.Journal = v
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				c.Server.CORSOrigins = append(c.Server.CORSOrigins, origin)
			}
		}
	}
	if env := os.Getenv("TRUSTED_PROXIES"); env != "" {
		for _, p := range strings.Split(env, ",") {
			if p = strings.TrimSpace(p); p != "" {
				c.Server.TrustedProxies = append(c.Server.TrustedProxies, p)
			}
		}
	}
}

// Kernel returns the resonance kernel for the configured epsilon.
func (c Config) Kernel() resonance.Kernel {
	k := resonance.DefaultKernel()
	k.Epsilon = c.Epsilon
	return k
}

// Bands returns the band table for the configured base.
func (c Config) Bands() bands.Table {
	return bands.PhiTable(c.BandBase)
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Lattice.Validate(); err != nil {
		return fmt.Errorf("lattice: %w", err)
	}
	if err := c.Pinch.Validate(); err != nil {
		return fmt.Errorf("pinch: %w", err)
	}
	if err := c.Kernel().Validate(); err != nil {
		return err
	}
	if err := c.Bands().Validate(); err != nil {
		return err
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: port %d", ErrInvalid, c.Server.Port)
	}
	if c.Server.RateLimit <= 0 || c.Server.RateWindow <= 0 {
		return fmt.Errorf("%w: rate limit %d per %s", ErrInvalid, c.Server.RateLimit, c.Server.RateWindow)
	}
	if _, err := c.Server.Proxies(); err != nil {
		return err
	}
	if c.JournalRetention < 0 || c.PalaceLimit < 0 {
		return fmt.Errorf("%w: journal retention %d, palace limit %d", ErrInvalid, c.JournalRetention, c.PalaceLimit)
	}
	return nil
}
