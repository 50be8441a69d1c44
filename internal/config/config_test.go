package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("STREAKR_VAULT", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.FlagField != "habit" {
		t.Fatalf("expected default flag field, got %q", cfg.FlagField)
	}
	if cfg.RolloverSeconds != 60 {
		t.Fatalf("expected 60s rollover, got %d", cfg.RolloverSeconds)
	}
	if !cfg.DailyLog || cfg.LogFolder != "Logs" {
		t.Fatalf("unexpected daily log defaults: %v %q", cfg.DailyLog, cfg.LogFolder)
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv("STREAKR_VAULT", "")
	path := filepath.Join(t.TempDir(), "config.yml")
	text := "vault_dir: /tmp/notes\nflag_field: tracked\ndaily_log: false\nrollover_seconds: 5\n"
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.VaultDir != "/tmp/notes" {
		t.Fatalf("expected /tmp/notes, got %q", cfg.VaultDir)
	}
	if cfg.FlagField != "tracked" {
		t.Fatalf("expected tracked, got %q", cfg.FlagField)
	}
	if cfg.DailyLog {
		t.Fatal("expected daily log disabled")
	}
	if cfg.RolloverInterval() != 5*time.Second {
		t.Fatalf("expected 5s interval, got %v", cfg.RolloverInterval())
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(": not yaml ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

func TestEnvOverridesVaultDir(t *testing.T) {
	t.Setenv("STREAKR_VAULT", "/elsewhere/vault")

	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("vault_dir: /tmp/notes\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.VaultDir != "/elsewhere/vault" {
		t.Fatalf("env override ignored, got %q", cfg.VaultDir)
	}
}

func TestBadValuesFallBack(t *testing.T) {
	t.Setenv("STREAKR_VAULT", "")
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("flag_field: \"\"\nrollover_seconds: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.FlagField != "habit" || cfg.RolloverSeconds != 60 {
		t.Fatalf("bad values not corrected: %q %d", cfg.FlagField, cfg.RolloverSeconds)
	}
}
