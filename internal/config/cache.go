package config

import (
	"strings"
	"time"
)

// CacheConfig configures the Redis response cache in front of the public
// slot listings.  The TTL is deliberately short: cached responses carry
// current_bookings counts, and a participant should not stare at a stale
// "slot full" for long.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool
	TTL          time.Duration
	KeyStrategy  string
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads CACHE_* variables with defaults.
func LoadCacheConfig() CacheConfig {
	cfg := CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      parseMethods(envStr("CACHE_METHODS", "GET")),
		TTL:          envDur("CACHE_TTL", 10*time.Second),
		KeyStrategy:  envStr("CACHE_KEY_STRATEGY", "route_query"),
		Prefix:       envStr("CACHE_PREFIX", "cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 10 * time.Second
	}
	return cfg
}

func parseMethods(s string) map[string]bool {
	m := make(map[string]bool)
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(strings.ToUpper(p)); p != "" {
			m[p] = true
		}
	}
	return m
}
