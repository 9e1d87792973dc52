package config

import (
	"os"
	"strings"
	"testing"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	os.Setenv(key, value)
	t.Cleanup(func() {
		if had {
			os.Setenv(key, old)
		} else {
			os.Unsetenv(key)
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, "DATABASE_URL", "postgres://localhost:5432/clinic")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("expected default env development, got %s", cfg.Env)
	}
	if cfg.DBMaxConns != 20 {
		t.Errorf("expected default max conns 20, got %d", cfg.DBMaxConns)
	}
	if cfg.Currency != "PHP" {
		t.Errorf("expected default currency PHP, got %s", cfg.Currency)
	}
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	setEnv(t, "DATABASE_URL", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing DATABASE_URL")
	}
	if !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestLoad_CORSOriginsSplit(t *testing.T) {
	setEnv(t, "DATABASE_URL", "postgres://localhost:5432/clinic")
	setEnv(t, "CORS_ORIGINS", "http://a.example,http://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Fatalf("expected 2 origins, got %d", len(cfg.CORSOrigins))
	}
	if cfg.CORSOrigins[1] != "http://b.example" {
		t.Errorf("unexpected second origin: %s", cfg.CORSOrigins[1])
	}
}

func TestValidate_ProductionRequiresSecret(t *testing.T) {
	cfg := &Config{Env: "production"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing AUTH_SECRET in production")
	}
}

func TestValidate_ShortSecretRejected(t *testing.T) {
	cfg := &Config{Env: "production", AuthSecret: "short"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for short AUTH_SECRET")
	}
}

func TestValidate_DevWithoutSecret(t *testing.T) {
	cfg := &Config{Env: "development"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestIsDev(t *testing.T) {
	if !(&Config{Env: "development"}).IsDev() {
		t.Error("expected IsDev true")
	}
	if (&Config{Env: "production"}).IsDev() {
		t.Error("expected IsDev false")
	}
	if !(&Config{Env: "production"}).IsProduction() {
		t.Error("expected IsProduction true")
	}
}
