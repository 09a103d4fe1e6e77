package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all ayuni configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	LLM      LLMConfig      `toml:"llm"`
	Decay    DecayConfig    `toml:"decay"`
	Social   SocialConfig   `toml:"social"`
	Avatar   AvatarConfig   `toml:"avatar"`
}

type ServerConfig struct {
	Bind string `toml:"bind"`
	Port int    `toml:"port"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type LLMConfig struct {
	Provider    string `toml:"provider"` // "openai", "ollama", "mock"
	Model       string `toml:"model"`
	APIKey      string `toml:"api_key"`
	BaseURL     string `toml:"base_url"` // OpenAI-compatible endpoints
	OllamaURL   string `toml:"ollama_url"`
	OllamaModel string `toml:"ollama_model"`
}

type DecayConfig struct {
	IntervalHours   int `toml:"interval_hours"`   // periodic batch cadence
	DebounceMinutes int `toml:"debounce_minutes"` // schedule throttle window
}

type SocialConfig struct {
	InteractionChance float64 `toml:"interaction_chance"` // per-AEI chance per batch run
	RetentionDays     int     `toml:"retention_days"`     // interaction cleanup window
}

type AvatarConfig struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
	Dir     string `toml:"dir"` // where generated images are stored
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 38800,
		},
		Database: DatabaseConfig{
			Path: "", // resolved at runtime via store.DefaultDBPath()
		},
		LLM: LLMConfig{
			Provider: "openai",
			Model:    "gpt-4o-mini",
		},
		Decay: DecayConfig{
			IntervalHours:   1,
			DebounceMinutes: 60,
		},
		Social: SocialConfig{
			InteractionChance: 0.25,
			RetentionDays:     30,
		},
		Avatar: AvatarConfig{
			Dir: "avatars",
		},
	}
}

// Load reads a TOML config file over the defaults. Environment variables
// OPENAI_API_KEY and AYUNI_AVATAR_KEY override the corresponding file
// values so secrets can stay out of the config file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.LLM.APIKey = key
	}
	if key := os.Getenv("AYUNI_AVATAR_KEY"); key != "" {
		cfg.Avatar.APIKey = key
	}

	return cfg, nil
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}
