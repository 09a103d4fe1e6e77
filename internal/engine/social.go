package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ayuni-ai/ayuni/internal/llm"
	"github.com/ayuni-ai/ayuni/internal/store"
)

// starterContacts seeds a new companion's social environment.
var starterContacts = []store.SocialContact{
	{Name: "Mira", Relationship: "friend", Persona: "Warm, chatty barista who loves gossip and baking.", Closeness: 0.7},
	{Name: "Theo", Relationship: "coworker", Persona: "Dry-humored colleague, always buried in a side project.", Closeness: 0.5},
	{Name: "Sana", Relationship: "neighbor", Persona: "Retired teacher with strong opinions about the weather.", Closeness: 0.4},
}

// InitializeSocialEnvironment creates the starter contact set for a
// companion that has none. Returns (false, nil) when already initialized;
// unknown companions yield store.ErrNotFound.
func (e *Engine) InitializeSocialEnvironment(ctx context.Context, aeiID string) (bool, error) {
	if _, err := e.DB.GetAEI(aeiID); err != nil {
		return false, err
	}

	count, err := e.DB.CountContacts(aeiID)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	for _, seed := range starterContacts {
		c := seed
		c.AEIID = aeiID
		c.Active = true
		if err := e.DB.CreateContact(&c); err != nil {
			return false, fmt.Errorf("seed contact %s: %w", c.Name, err)
		}
	}
	return true, nil
}

// ProcessAEI possibly generates one simulated interaction for a companion.
// The cadence is probabilistic (SocialChance per run); companions without
// active contacts are skipped. Returns the number of interactions generated.
func (e *Engine) ProcessAEI(ctx context.Context, aeiID string) (int, error) {
	aei, err := e.DB.GetAEI(aeiID)
	if err != nil {
		return 0, err
	}

	contacts, err := e.DB.ListActiveContacts(aeiID)
	if err != nil {
		return 0, err
	}
	if len(contacts) == 0 {
		return 0, nil
	}

	if e.roll() >= e.SocialChance {
		return 0, nil
	}

	contact := contacts[e.pick(len(contacts))]
	initiatedBy := "contact"
	if e.roll() < 0.4 {
		initiatedBy = "aei"
	}

	if e.LLM == nil {
		return 0, fmt.Errorf("no text-generation client configured")
	}
	resp, err := e.LLM.Complete(ctx, llm.DialogPrompt(
		aei.Name, aei.Persona,
		contact.Name, contact.Relationship, contact.Persona,
		initiatedBy))
	if err != nil {
		return 0, fmt.Errorf("generate dialog: %w", err)
	}

	payload, err := parseDialogResponse(resp.Content)
	if err != nil {
		return 0, fmt.Errorf("parse dialog: %w", err)
	}

	it := &store.ContactInteraction{
		AEIID:         aeiID,
		ContactID:     contact.ID,
		InitiatedBy:   initiatedBy,
		DialogHistory: payload.Turns,
		AEIThoughts:   payload.Thoughts,
	}
	if err := e.DB.CreateInteraction(it); err != nil {
		return 0, err
	}
	return 1, nil
}

// ProcessAllSocial runs ProcessAEI for every active companion. Per-companion
// failures are recorded in the report and skipped, never propagated.
func (e *Engine) ProcessAllSocial(ctx context.Context) (*BatchReport, error) {
	if !e.socialMu.TryLock() {
		return nil, ErrBusy
	}
	defer e.socialMu.Unlock()

	aeis, err := e.DB.ListActiveAEIs()
	if err != nil {
		return nil, fmt.Errorf("list aeis: %w", err)
	}

	report := &BatchReport{}
	for _, aei := range aeis {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		n, err := e.ProcessAEI(ctx, aei.ID)
		if err != nil {
			report.Fail(fmt.Sprintf("aei %s", aei.ID), err)
			continue
		}
		report.Processed++
		report.Generated += n
	}
	return report, nil
}

// CleanupInteractions deletes interactions older than the retention window
// and returns the exact number removed.
func (e *Engine) CleanupInteractions(ctx context.Context) (int, error) {
	cutoff := time.Now().AddDate(0, 0, -e.RetentionDays)
	return e.DB.DeleteInteractionsBefore(cutoff)
}

type dialogPayload struct {
	Turns    []store.DialogTurn `json:"turns"`
	Thoughts string             `json:"thoughts"`
}

// parseDialogResponse decodes the collaborator's JSON payload, tolerating
// markdown code fences around it.
func parseDialogResponse(content string) (*dialogPayload, error) {
	s := strings.TrimSpace(content)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}

	var p dialogPayload
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		return nil, fmt.Errorf("decode dialog payload: %w", err)
	}
	if len(p.Turns) == 0 {
		return nil, fmt.Errorf("dialog payload has no turns")
	}
	return &p, nil
}
