package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port == "" {
		t.Error("port should have a default")
	}
	if cfg.JWTTTL <= 0 {
		t.Error("jwt ttl should have a default")
	}
	if !cfg.Ledger.PlatformFeePercent.Equal(decimal.RequireFromString("5")) {
		t.Errorf("platform fee default = %s, want 5", cfg.Ledger.PlatformFeePercent)
	}
	if !cfg.Ledger.MinWithdrawal.Equal(decimal.RequireFromString("10")) {
		t.Errorf("min withdrawal default = %s, want 10", cfg.Ledger.MinWithdrawal)
	}
	if !cfg.Ledger.MaxWithdrawal.Equal(decimal.RequireFromString("10000")) {
		t.Errorf("max withdrawal default = %s, want 10000", cfg.Ledger.MaxWithdrawal)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("JWT_TTL", "1h")
	t.Setenv("PLATFORM_FEE_PERCENTAGE", "7.5")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg := Load()

	if cfg.Port != "9999" {
		t.Errorf("port = %q, want 9999", cfg.Port)
	}
	if cfg.JWTTTL != time.Hour {
		t.Errorf("jwt ttl = %s, want 1h", cfg.JWTTTL)
	}
	if !cfg.Ledger.PlatformFeePercent.Equal(decimal.RequireFromString("7.5")) {
		t.Errorf("platform fee = %s, want 7.5", cfg.Ledger.PlatformFeePercent)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("allowed origins = %v", cfg.AllowedOrigins)
	}
}

func TestBadValuesFallBack(t *testing.T) {
	t.Setenv("JWT_TTL", "not-a-duration")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "lots")
	t.Setenv("MINIMUM_WITHDRAWAL", "ten")

	cfg := Load()

	if cfg.JWTTTL != 168*time.Hour {
		t.Errorf("jwt ttl = %s, want default 168h", cfg.JWTTTL)
	}
	if cfg.RateLimitPerMinute != 120 {
		t.Errorf("rate limit = %d, want default 120", cfg.RateLimitPerMinute)
	}
	if !cfg.Ledger.MinWithdrawal.Equal(decimal.RequireFromString("10")) {
		t.Errorf("min withdrawal = %s, want default 10", cfg.Ledger.MinWithdrawal)
	}
}
