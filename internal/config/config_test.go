package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Server.Port != 38800 {
		t.Errorf("port = %d, want 38800", cfg.Server.Port)
	}
	if cfg.LLM.Provider != "openai" {
		t.Errorf("provider = %q, want openai", cfg.LLM.Provider)
	}
	if cfg.Decay.DebounceMinutes != 60 {
		t.Errorf("debounce = %d, want 60", cfg.Decay.DebounceMinutes)
	}
	if cfg.Social.InteractionChance != 0.25 {
		t.Errorf("interaction chance = %v, want 0.25", cfg.Social.InteractionChance)
	}
	if cfg.Social.RetentionDays != 30 {
		t.Errorf("retention = %d, want 30", cfg.Social.RetentionDays)
	}
	if addr := cfg.ListenAddr(); addr != "127.0.0.1:38800" {
		t.Errorf("addr = %q", addr)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ayuni.toml")
	data := `
[server]
port = 9000

[llm]
provider = "ollama"
ollama_model = "llama3.2"

[social]
interaction_chance = 0.5
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.LLM.Provider != "ollama" {
		t.Errorf("provider = %q, want ollama", cfg.LLM.Provider)
	}
	if cfg.Social.InteractionChance != 0.5 {
		t.Errorf("interaction chance = %v, want 0.5", cfg.Social.InteractionChance)
	}
	// Sections the file omits keep their defaults.
	if cfg.Decay.IntervalHours != 1 {
		t.Errorf("interval = %d, want default 1", cfg.Decay.IntervalHours)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test-123")
	t.Setenv("AYUNI_AVATAR_KEY", "av-test-456")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.APIKey != "sk-test-123" {
		t.Errorf("llm api key = %q", cfg.LLM.APIKey)
	}
	if cfg.Avatar.APIKey != "av-test-456" {
		t.Errorf("avatar api key = %q", cfg.Avatar.APIKey)
	}
}
