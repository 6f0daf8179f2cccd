package configs

import "testing"

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"ENVIRONMENT", "PORT", "STATIC_DIR", "ALLOWED_ORIGINS", "WS_CONN_RATE", "WS_CONN_BURST"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Environment != "development" {
		t.Fatalf("expected development default, got %q", cfg.Environment)
	}
	if cfg.Port != 3000 {
		t.Fatalf("expected default port 3000, got %d", cfg.Port)
	}
	if cfg.StaticDir != "public" {
		t.Fatalf("expected default static dir, got %q", cfg.StaticDir)
	}
	if len(cfg.AllowedOrigins) != 0 {
		t.Fatalf("expected no default origins, got %#v", cfg.AllowedOrigins)
	}
	if cfg.ConnRate != 0.2 || cfg.ConnBurst != 5 {
		t.Fatalf("unexpected rate limit defaults: %v/%d", cfg.ConnRate, cfg.ConnBurst)
	}
}

func TestLoadConfigInvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "not-a-number")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for invalid port")
	}

	t.Setenv("PORT", "80")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for privileged port")
	}
}

func TestLoadConfigAllowedOrigins(t *testing.T) {
	clearEnv(t)
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com ,")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cfg.AllowedOrigins) != 2 ||
		cfg.AllowedOrigins[0] != "https://a.example.com" ||
		cfg.AllowedOrigins[1] != "https://b.example.com" {
		t.Fatalf("unexpected origins: %#v", cfg.AllowedOrigins)
	}
}

func TestLoadConfigInvalidRateLimit(t *testing.T) {
	clearEnv(t)
	t.Setenv("WS_CONN_RATE", "-1")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for negative rate")
	}

	t.Setenv("WS_CONN_RATE", "0.5")
	t.Setenv("WS_CONN_BURST", "0")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for zero burst")
	}
}
