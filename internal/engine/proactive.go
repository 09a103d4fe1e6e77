package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/ayuni-ai/ayuni/internal/emotion"
	"github.com/ayuni-ai/ayuni/internal/llm"
	"github.com/ayuni-ai/ayuni/internal/store"
)

// ProactiveSender delivers a companion-initiated message when decay crosses
// a trigger threshold.
type ProactiveSender interface {
	SendProactive(ctx context.Context, sessionID int64, hoursInactive float64, state emotion.State) error
}

// LLMProactiveSender generates the message text with the text-generation
// collaborator and appends it to the session's chat.
type LLMProactiveSender struct {
	DB  *store.DB
	LLM llm.Client
}

func (s *LLMProactiveSender) SendProactive(ctx context.Context, sessionID int64, hoursInactive float64, state emotion.State) error {
	if s.LLM == nil {
		return fmt.Errorf("no text-generation client configured")
	}

	sess, err := s.DB.GetChatSession(sessionID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	aei, err := s.DB.GetAEI(sess.AEIID)
	if err != nil {
		return fmt.Errorf("load aei: %w", err)
	}

	resp, err := s.LLM.Complete(ctx, llm.ProactivePrompt(
		aei.Name, aei.Persona, hoursInactive, state.Loneliness, state.Sadness))
	if err != nil {
		return fmt.Errorf("generate proactive message: %w", err)
	}

	msg := strings.TrimSpace(resp.Content)
	if msg == "" {
		return fmt.Errorf("empty proactive message")
	}
	return s.DB.AddAEIMessage(sessionID, msg)
}
