package llm

import (
	"context"
	"strings"
	"testing"

	"github.com/ayuni-ai/ayuni/internal/config"
)

func TestNewClientProviders(t *testing.T) {
	if _, err := NewClient(config.LLMConfig{Provider: "openai"}); err == nil {
		t.Error("openai without api key should fail")
	}

	c, err := NewClient(config.LLMConfig{Provider: "openai", APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("openai: %v", err)
	}
	if _, ok := c.(*OpenAI); !ok {
		t.Errorf("openai client type = %T", c)
	}

	c, err = NewClient(config.LLMConfig{Provider: "ollama"})
	if err != nil {
		t.Fatalf("ollama: %v", err)
	}
	if _, ok := c.(*Ollama); !ok {
		t.Errorf("ollama client type = %T", c)
	}

	if _, err := NewClient(config.LLMConfig{Provider: "bard"}); err == nil {
		t.Error("unknown provider should fail")
	}
}

func TestMockClientRecordsCalls(t *testing.T) {
	mock := &MockClient{Response: &Response{Content: "hello", Provider: "mock"}}

	resp, err := mock.Complete(context.Background(), "say hello")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != "hello" {
		t.Errorf("content = %q", resp.Content)
	}
	if calls := mock.Calls(); len(calls) != 1 || calls[0] != "say hello" {
		t.Errorf("calls = %v", calls)
	}
}

func TestDialogPromptMentionsParticipants(t *testing.T) {
	p := DialogPrompt("Luna", "Gentle stargazer.", "Mira", "friend", "Chatty barista.", "contact")
	for _, want := range []string{"Luna", "Mira", "friend", "turns", "thoughts"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestProactivePromptMentionsAbsence(t *testing.T) {
	p := ProactivePrompt("Luna", "Gentle stargazer.", 72.4, 0.8, 0.5)
	if !strings.Contains(p, "Luna") {
		t.Error("prompt missing companion name")
	}
	if !strings.Contains(p, "72") {
		t.Error("prompt missing inactivity hours")
	}
}
