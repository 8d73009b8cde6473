package config

import (
	"testing"
	"time"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_BOOL", "yes")
	t.Setenv("X_INT", "7")
	t.Setenv("X_DUR", "250ms")
	t.Setenv("X_BAD", "not-a-number")

	if !envBool("X_BOOL", false) {
		t.Error("envBool: yes not treated as true")
	}
	if got := envInt("X_INT", 1); got != 7 {
		t.Errorf("envInt = %d, want 7", got)
	}
	if got := envDur("X_DUR", time.Second); got != 250*time.Millisecond {
		t.Errorf("envDur = %v, want 250ms", got)
	}
	if got := envInt("X_BAD", 3); got != 3 {
		t.Errorf("envInt on garbage = %d, want default 3", got)
	}
	if got := envStr("X_UNSET", "fallback"); got != "fallback" {
		t.Errorf("envStr = %q, want fallback", got)
	}
}

func TestLoadRateLimitConfigFloors(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	if cfg.Capacity != 1 {
		t.Errorf("capacity = %d, want floor of 1", cfg.Capacity)
	}
	if cfg.TTL < 5*cfg.RefillInterval {
		t.Errorf("ttl = %v, want at least %v", cfg.TTL, 5*cfg.RefillInterval)
	}
}

func TestLoadCacheConfig(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")
	t.Setenv("CACHE_TTL", "0s")

	cfg := LoadCacheConfig()
	if !cfg.Methods["GET"] || !cfg.Methods["HEAD"] {
		t.Errorf("methods = %v, want GET and HEAD", cfg.Methods)
	}
	if cfg.TTL <= 0 {
		t.Errorf("ttl = %v, want positive fallback", cfg.TTL)
	}
}
