package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWithEnvSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ListenPort != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.ListenPort)
	}
	if cfg.PrivilegedRole != "treasurer" {
		t.Errorf("expected default role treasurer, got %q", cfg.PrivilegedRole)
	}
	if cfg.JWTSecret != "test-secret" {
		t.Errorf("env secret not applied, got %q", cfg.JWTSecret)
	}
}

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlBody := `
listenPort: 9090
dbPath: /tmp/test.db
jwtSecret: from-file
smtp:
  host: smtp.example.com
  from: Test <test@example.com>
`
	if err := os.WriteFile(path, []byte(yamlBody), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("LISTEN_PORT", "9191")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ListenPort != 9191 {
		t.Errorf("env should override file: expected 9191, got %d", cfg.ListenPort)
	}
	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("dbPath: got %q", cfg.DBPath)
	}
	if cfg.SMTP.Host != "smtp.example.com" {
		t.Errorf("smtp host: got %q", cfg.SMTP.Host)
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Error("expected error when jwtSecret is unset")
	}
}
