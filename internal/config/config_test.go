package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaultsWhenFileMissing(t *testing.T) {
	t.Setenv("OPENPROJECT_URL", "")
	t.Setenv("OPENPROJECT_API_KEY", "")
	t.Setenv("PORT", "")

	cfg, info, err := LoadConfigWithInfo(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadConfigWithInfo failed: %v", err)
	}
	if info.FileFound || info.PortSpecified {
		t.Fatalf("unexpected info: %+v", info)
	}
	if cfg.Server.Port != 20262 {
		t.Fatalf("port=%d, want default", cfg.Server.Port)
	}
	if cfg.Excel.Anchor != "I9" || cfg.Excel.DurationCell != "D5" {
		t.Fatalf("unexpected excel defaults: %+v", cfg.Excel)
	}
	if err := cfg.OpenProject.Validate(); err == nil {
		t.Fatalf("expected validation error without url/key")
	}
}

func TestLoadConfigFromTomlAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
port = 9000

[openproject]
url = "https://op.example.com/"
api_key = "from-file"
page_size = 50

[excel]
sheet = "Recursos"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("OPENPROJECT_URL", "")
	t.Setenv("OPENPROJECT_API_KEY", "from-env")
	t.Setenv("CALCULADORA_EXCEL_TEMPLATE_PATH", "/tmp/plantilla.xlsx")
	t.Setenv("PORT", "")

	cfg, info, err := LoadConfigWithInfo(path)
	if err != nil {
		t.Fatalf("LoadConfigWithInfo failed: %v", err)
	}
	if !info.FileFound || !info.PortSpecified {
		t.Fatalf("unexpected info: %+v", info)
	}
	if cfg.Server.Port != 9000 {
		t.Fatalf("port=%d, want 9000", cfg.Server.Port)
	}
	if cfg.OpenProject.URL != "https://op.example.com" {
		t.Fatalf("url=%q, trailing slash should be trimmed", cfg.OpenProject.URL)
	}
	if cfg.OpenProject.APIKey != "from-env" {
		t.Fatalf("api key=%q, env should win", cfg.OpenProject.APIKey)
	}
	if cfg.OpenProject.PageSize != 50 || cfg.OpenProject.TimeoutSeconds != 30 {
		t.Fatalf("unexpected openproject section: %+v", cfg.OpenProject)
	}
	opts := cfg.Excel.EmitterOptions()
	if opts.TemplatePath != "/tmp/plantilla.xlsx" || opts.Sheet != "Recursos" || opts.Anchor != "I9" {
		t.Fatalf("unexpected emitter options: %+v", opts)
	}
	if err := cfg.OpenProject.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestLoadConfigRejectsBrokenToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[server\nport = "), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestPortEnvOverride(t *testing.T) {
	t.Setenv("PORT", "7777")
	cfg, info, err := LoadConfigWithInfo(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("LoadConfigWithInfo failed: %v", err)
	}
	if cfg.Server.Port != 7777 || !info.PortSpecified {
		t.Fatalf("port=%d specified=%v", cfg.Server.Port, info.PortSpecified)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("OPENPROJECT_URL", "")
	t.Setenv("OPENPROJECT_API_KEY", "")
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	cfg.OpenProject.URL = "https://op.example.com"
	cfg.Data.DataDir = t.TempDir()
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if got.OpenProject.URL != cfg.OpenProject.URL || got.Data.DataDir != cfg.Data.DataDir {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	dir, err := EnsureDataDir(got)
	if err != nil {
		t.Fatalf("EnsureDataDir failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "exports")); err != nil {
		t.Fatalf("exports dir missing: %v", err)
	}
}
