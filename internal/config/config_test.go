package config

import (
	"os"
	"path/filepath"
	"testing"
)

// isolate points the config path at an empty temp dir and clears the env
// knobs so each test starts from pure defaults.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{
		"SAFECOMMIT_PROVIDER", "SAFECOMMIT_MODEL", "SAFECOMMIT_PORT",
		"SAFECOMMIT_SERVER_URL", "SAFECOMMIT_MAX_DIFF_BYTES",
		"SAFECOMMIT_TIMEOUT_MS", "SAFECOMMIT_FAIL_ON", "SAFECOMMIT_FORMAT",
		"SAFECOMMIT_LOG_FILE", "SAFECOMMIT_DEBUG",
	} {
		t.Setenv(k, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Provider != "anthropic" {
		t.Errorf("Provider = %q", cfg.Provider)
	}
	if cfg.Port != 8787 {
		t.Errorf("Port = %d", cfg.Port)
	}
	if cfg.MaxDiffBytes != 200000 {
		t.Errorf("MaxDiffBytes = %d", cfg.MaxDiffBytes)
	}
	if cfg.TimeoutMs != 60000 {
		t.Errorf("TimeoutMs = %d", cfg.TimeoutMs)
	}
	if cfg.FailOn != "warning" {
		t.Errorf("FailOn = %q", cfg.FailOn)
	}
	if !cfg.Cache.Enabled || cfg.Cache.TTLSeconds != 3600 {
		t.Errorf("cache defaults: %+v", cfg.Cache)
	}
	if !cfg.Privacy.RedactSecrets {
		t.Error("secret redaction should default on")
	}
}

func TestLoad_DefaultsOnly(t *testing.T) {
	isolate(t)
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	if cfg.Provider != want.Provider || cfg.Model != want.Model ||
		cfg.Port != want.Port || cfg.MaxDiffBytes != want.MaxDiffBytes ||
		cfg.TimeoutMs != want.TimeoutMs || cfg.FailOn != want.FailOn {
		t.Errorf("Load(nil) diverged from defaults: %+v", cfg)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	isolate(t)
	if err := Save(Config{Provider: "openai", Model: "gpt-4o", Port: 9999}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != "openai" || cfg.Model != "gpt-4o" || cfg.Port != 9999 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	// Fields the file left zero keep their defaults.
	if cfg.MaxDiffBytes != 200000 || cfg.FailOn != "warning" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)
	if err := Save(Config{Provider: "openai"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	t.Setenv("SAFECOMMIT_PROVIDER", "anthropic")
	t.Setenv("SAFECOMMIT_MAX_DIFF_BYTES", "1234")
	t.Setenv("SAFECOMMIT_DEBUG", "true")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != "anthropic" {
		t.Errorf("env should override file: Provider = %q", cfg.Provider)
	}
	if cfg.MaxDiffBytes != 1234 {
		t.Errorf("MaxDiffBytes = %d, want 1234", cfg.MaxDiffBytes)
	}
	if !cfg.Debug {
		t.Error("Debug should be set from env")
	}
}

func TestLoad_OverridesWin(t *testing.T) {
	isolate(t)
	t.Setenv("SAFECOMMIT_TIMEOUT_MS", "5000")

	cfg, err := Load(map[string]string{"timeoutMs": "250", "failOn": "critical"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TimeoutMs != 250 {
		t.Errorf("flag should override env: TimeoutMs = %d", cfg.TimeoutMs)
	}
	if cfg.FailOn != "critical" {
		t.Errorf("FailOn = %q, want critical", cfg.FailOn)
	}
}

func TestLoadFile_MissingIsZero(t *testing.T) {
	isolate(t)
	cfg, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile on missing file: %v", err)
	}
	if cfg.Provider != "" {
		t.Errorf("expected zero config, got %+v", cfg)
	}
}

func TestLoadFile_BadJSON(t *testing.T) {
	isolate(t)
	path, err := ConfigPath()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(); err == nil {
		t.Error("expected error for malformed config file")
	}
}

func TestSetField(t *testing.T) {
	cfg := Default()

	if err := SetField(&cfg, "model", "gpt-4o"); err != nil {
		t.Fatalf("SetField model: %v", err)
	}
	if cfg.Model != "gpt-4o" {
		t.Errorf("Model = %q", cfg.Model)
	}

	if err := SetField(&cfg, "port", "1234"); err != nil {
		t.Fatalf("SetField port: %v", err)
	}
	if cfg.Port != 1234 {
		t.Errorf("Port = %d", cfg.Port)
	}

	if err := SetField(&cfg, "port", "abc"); err == nil {
		t.Error("expected error for non-integer port")
	}
	if err := SetField(&cfg, "nope", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
}
