package llm

import (
	"context"
	"fmt"

	"github.com/ayuni-ai/ayuni/internal/config"
)

// Client is the interface for text-generation providers.
type Client interface {
	Complete(ctx context.Context, prompt string) (*Response, error)
}

// Response holds the result of a completion.
type Response struct {
	Content    string
	Provider   string
	TokensUsed int
}

// NewClient creates a text-generation client based on the config provider.
func NewClient(cfg config.LLMConfig) (Client, error) {
	switch cfg.Provider {
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai provider requires OPENAI_API_KEY or config")
		}
		model := cfg.Model
		if model == "" {
			model = "gpt-4o-mini"
		}
		return NewOpenAI(cfg.APIKey, model, cfg.BaseURL), nil
	case "ollama":
		url := cfg.OllamaURL
		if url == "" {
			url = "http://localhost:11434"
		}
		model := cfg.OllamaModel
		if model == "" {
			model = "llama3.2"
		}
		return NewOllama(url, model), nil
	case "mock":
		return &MockClient{Response: &Response{Content: "{}", Provider: "mock"}}, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
}
