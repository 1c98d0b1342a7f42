package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDefaults(t *testing.T) {
	cfg := New()
	if cfg.LLM.Model != "claude-sonnet-4-20250514" {
		t.Errorf("default model = %q", cfg.LLM.Model)
	}
	if cfg.LLM.MaxTokens != 64000 {
		t.Errorf("default max tokens = %d", cfg.LLM.MaxTokens)
	}
	if !cfg.Storage.Persist {
		t.Error("persistence should default on")
	}
	if cfg.Limits.MaxIterations != 100 {
		t.Errorf("default max iterations = %d", cfg.Limits.MaxIterations)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)
	content := `
[agent]
name = "researcher"

[llm]
model = "claude-3-5-haiku-latest"
max_tokens = 8192

[storage]
path = "/tmp/agents"
persist = false

[limits]
max_iterations = 25
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Agent.Name != "researcher" {
		t.Errorf("agent name = %q", cfg.Agent.Name)
	}
	if cfg.LLM.Model != "claude-3-5-haiku-latest" || cfg.LLM.MaxTokens != 8192 {
		t.Errorf("llm config = %+v", cfg.LLM)
	}
	if cfg.Storage.Persist {
		t.Error("persist override not applied")
	}
	if cfg.Limits.MaxIterations != 25 {
		t.Errorf("max iterations = %d", cfg.Limits.MaxIterations)
	}
	// Unset sections keep defaults.
	if cfg.Telemetry.Protocol != "noop" {
		t.Errorf("telemetry protocol = %q", cfg.Telemetry.Protocol)
	}
}

func TestLoadFileInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)
	if err := os.WriteFile(path, []byte("not [valid toml"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestGetAPIKey(t *testing.T) {
	cfg := New()

	t.Setenv("ANTHROPIC_API_KEY", "sk-default")
	if got := cfg.GetAPIKey("anthropic"); got != "sk-default" {
		t.Errorf("GetAPIKey = %q", got)
	}

	cfg.LLM.APIKeyEnv = "CUSTOM_KEY"
	t.Setenv("CUSTOM_KEY", "sk-custom")
	if got := cfg.GetAPIKey("anthropic"); got != "sk-custom" {
		t.Errorf("GetAPIKey with override = %q", got)
	}
}

func TestStoragePathExpandsHome(t *testing.T) {
	cfg := New()
	cfg.Storage.Path = "~/agents"
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := cfg.StoragePath(); got != filepath.Join(home, "agents") {
		t.Errorf("StoragePath = %q", got)
	}

	cfg.Storage.Path = "/abs/path"
	if got := cfg.StoragePath(); got != "/abs/path" {
		t.Errorf("StoragePath = %q", got)
	}
}
