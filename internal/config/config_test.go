package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.FetchTimeoutSec != DefaultFetchTimeoutSec {
		t.Errorf("FetchTimeoutSec = %d, want %d", cfg.FetchTimeoutSec, DefaultFetchTimeoutSec)
	}
	if cfg.Insights.TTLSec != 3600 {
		t.Errorf("Insights.TTLSec = %d, want 3600", cfg.Insights.TTLSec)
	}
	if cfg.Insights.MaxCards != 5 {
		t.Errorf("Insights.MaxCards = %d, want 5", cfg.Insights.MaxCards)
	}
	if cfg.Gemini.Model != "gemini-2.0-flash" {
		t.Errorf("Gemini.Model = %q", cfg.Gemini.Model)
	}
	if !cfg.Output.Color {
		t.Error("Output.Color should default to true")
	}
	if strings.HasPrefix(cfg.LogDir, "~") {
		t.Errorf("LogDir = %q, want expanded", cfg.LogDir)
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `log_dir: /srv/teamlens/logs
fetch_timeout_sec: 90
insights:
  ttl_sec: 600
  max_cards: 3
gemini:
  model: gemini-1.5-pro
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.LogDir != "/srv/teamlens/logs" {
		t.Errorf("LogDir = %q", cfg.LogDir)
	}
	if cfg.FetchTimeoutSec != 90 {
		t.Errorf("FetchTimeoutSec = %d, want 90", cfg.FetchTimeoutSec)
	}
	if cfg.Insights.TTLSec != 600 || cfg.Insights.MaxCards != 3 {
		t.Errorf("Insights = %+v", cfg.Insights)
	}
	if cfg.Gemini.Model != "gemini-1.5-pro" {
		t.Errorf("Gemini.Model = %q", cfg.Gemini.Model)
	}
	// Unset keys keep their defaults.
	if cfg.Gemini.TimeoutSec != DefaultGemini.TimeoutSec {
		t.Errorf("Gemini.TimeoutSec = %d, want the default", cfg.Gemini.TimeoutSec)
	}
}

func TestLoad_EnvAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key-123")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Gemini.APIKey != "test-key-123" {
		t.Errorf("Gemini.APIKey = %q, want the env value", cfg.Gemini.APIKey)
	}
}

func TestLoad_EnvLogDir(t *testing.T) {
	t.Setenv("TEAMLENS_LOG_DIR", "/var/log/teamlens")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogDir != "/var/log/teamlens" {
		t.Errorf("LogDir = %q, want the env value", cfg.LogDir)
	}
}

func TestCachePaths(t *testing.T) {
	cfg := &Config{DataDir: "/data"}

	if got := cfg.TeamCachePath(); got != filepath.Join("/data", "insights-cache.json") {
		t.Errorf("TeamCachePath = %q", got)
	}
	if got := cfg.UserCachePath(); got != filepath.Join("/data", "user-insights-cache.json") {
		t.Errorf("UserCachePath = %q", got)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	if got := expandPath("~/x"); got != filepath.Join(home, "x") {
		t.Errorf("expandPath(~/x) = %q", got)
	}
	if got := expandPath("/abs/path"); got != "/abs/path" {
		t.Errorf("expandPath(/abs/path) = %q", got)
	}
}
