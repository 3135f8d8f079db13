package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "no-such-config.yaml"))
	if err != nil {
		t.Fatalf("Load with missing file should fall back to defaults: %v", err)
	}
	if c.Server.Addr != ":8080" {
		t.Fatalf("expected default addr, got %q", c.Server.Addr)
	}
	if c.TokenTTL() != 168*time.Hour {
		t.Fatalf("expected 7d default token ttl, got %v", c.TokenTTL())
	}
	if c.Rate.Login.Limit != 10 {
		t.Fatalf("expected default login limit, got %d", c.Rate.Login.Limit)
	}
}

func TestLoadYAMLAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  addr: ":9090"
auth:
  jwt_secret: from-yaml
  token_ttl: 24h
`
	if err := os.WriteFile(path, []byte(yaml), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("JWT_SECRET", "from-env")

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Server.Addr != ":9090" {
		t.Fatalf("expected yaml addr, got %q", c.Server.Addr)
	}
	if c.Auth.JWTSecret != "from-env" {
		t.Fatalf("env must override yaml, got %q", c.Auth.JWTSecret)
	}
	if c.TokenTTL() != 24*time.Hour {
		t.Fatalf("expected 24h ttl, got %v", c.TokenTTL())
	}
}

func TestTokenTTLInvalid(t *testing.T) {
	c := &Config{}
	c.Auth.TokenTTL = "not-a-duration"
	if c.TokenTTL() != 168*time.Hour {
		t.Fatalf("invalid ttl must fall back to 7d, got %v", c.TokenTTL())
	}
}
