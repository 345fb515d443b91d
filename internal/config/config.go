package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
)

// Config represents the safecommit configuration, shared by the serve
// backend and the review/hook client.
type Config struct {
	Provider     string        `json:"provider"`
	Model        string        `json:"model"`
	Port         int           `json:"port"`
	ServerURL    string        `json:"serverUrl"`
	MaxDiffBytes int           `json:"maxDiffBytes"`
	TimeoutMs    int           `json:"timeoutMs"`
	Debug        bool          `json:"debug"`
	FailOn       string        `json:"failOn"`
	Format       string        `json:"format"`
	LogFile      string        `json:"logFile,omitempty"`
	Include      []string      `json:"include"`
	Exclude      []string      `json:"exclude"`
	Cache        CacheConfig   `json:"cache"`
	Privacy      PrivacyConfig `json:"privacy"`
}

// CacheConfig controls client-side response caching.
type CacheConfig struct {
	Enabled    bool   `json:"enabled"`
	Dir        string `json:"dir,omitempty"`
	TTLSeconds int    `json:"ttlSeconds"`
}

// PrivacyConfig controls secret redaction before diffs leave the machine.
type PrivacyConfig struct {
	RedactSecrets bool `json:"redactSecrets"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Provider:     "anthropic",
		Model:        "claude-sonnet-4-20250514",
		Port:         8787,
		ServerURL:    "http://127.0.0.1:8787",
		MaxDiffBytes: 200000,
		TimeoutMs:    60000,
		FailOn:       "warning",
		Format:       "text",
		Include:      []string{"**/*"},
		Exclude:      []string{"vendor/**", "**/*.gen.go", "**/dist/**"},
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: 3600,
		},
		Privacy: PrivacyConfig{
			RedactSecrets: true,
		},
	}
}

// ConfigDir returns the platform-appropriate config directory.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "safecommit"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "safecommit"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "safecommit"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "safecommit"), nil
	default:
		return filepath.Join(home, ".config", "safecommit"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadFile loads config from the config file. Returns zero Config and nil
// error if the file doesn't exist.
func LoadFile() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-zero values should be set).
func Load(overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	mergeEnv(&cfg)
	mergeOverrides(&cfg, overrides)

	return cfg, nil
}

func mergeFile(dst *Config, src Config) {
	if src.Provider != "" {
		dst.Provider = src.Provider
	}
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.Port > 0 {
		dst.Port = src.Port
	}
	if src.ServerURL != "" {
		dst.ServerURL = src.ServerURL
	}
	if src.MaxDiffBytes > 0 {
		dst.MaxDiffBytes = src.MaxDiffBytes
	}
	if src.TimeoutMs > 0 {
		dst.TimeoutMs = src.TimeoutMs
	}
	if src.FailOn != "" {
		dst.FailOn = src.FailOn
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.LogFile != "" {
		dst.LogFile = src.LogFile
	}
	if len(src.Include) > 0 {
		dst.Include = src.Include
	}
	if len(src.Exclude) > 0 {
		dst.Exclude = src.Exclude
	}
	if src.Cache.Dir != "" {
		dst.Cache.Dir = src.Cache.Dir
	}
	if src.Cache.TTLSeconds > 0 {
		dst.Cache.TTLSeconds = src.Cache.TTLSeconds
	}
	dst.Cache.Enabled = src.Cache.Enabled || dst.Cache.Enabled
	dst.Debug = src.Debug || dst.Debug
}

func mergeEnv(cfg *Config) {
	if v := os.Getenv("SAFECOMMIT_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("SAFECOMMIT_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("SAFECOMMIT_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Port = n
		}
	}
	if v := os.Getenv("SAFECOMMIT_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("SAFECOMMIT_MAX_DIFF_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxDiffBytes = n
		}
	}
	if v := os.Getenv("SAFECOMMIT_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("SAFECOMMIT_FAIL_ON"); v != "" {
		cfg.FailOn = v
	}
	if v := os.Getenv("SAFECOMMIT_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("SAFECOMMIT_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("SAFECOMMIT_DEBUG"); v == "1" || v == "true" {
		cfg.Debug = true
	}
}

func mergeOverrides(cfg *Config, overrides map[string]string) {
	if overrides == nil {
		return
	}
	if v, ok := overrides["provider"]; ok && v != "" {
		cfg.Provider = v
	}
	if v, ok := overrides["model"]; ok && v != "" {
		cfg.Model = v
	}
	if v, ok := overrides["port"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Port = n
		}
	}
	if v, ok := overrides["serverUrl"]; ok && v != "" {
		cfg.ServerURL = v
	}
	if v, ok := overrides["maxDiffBytes"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxDiffBytes = n
		}
	}
	if v, ok := overrides["timeoutMs"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.TimeoutMs = n
		}
	}
	if v, ok := overrides["failOn"]; ok && v != "" {
		cfg.FailOn = v
	}
	if v, ok := overrides["format"]; ok && v != "" {
		cfg.Format = v
	}
	if v, ok := overrides["debug"]; ok && (v == "1" || v == "true") {
		cfg.Debug = true
	}
}

// SetField sets a single config field by key name. Returns an error if the
// key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "provider":
		cfg.Provider = value
	case "model":
		cfg.Model = value
	case "serverUrl":
		cfg.ServerURL = value
	case "failOn":
		cfg.FailOn = value
	case "format":
		cfg.Format = value
	case "port":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("port must be an integer: %w", err)
		}
		cfg.Port = n
	case "maxDiffBytes":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("maxDiffBytes must be an integer: %w", err)
		}
		cfg.MaxDiffBytes = n
	case "timeoutMs":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("timeoutMs must be an integer: %w", err)
		}
		cfg.TimeoutMs = n
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}
