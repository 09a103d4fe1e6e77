package llm

import "fmt"

// DialogPrompt builds the prompt for generating a simulated interaction
// between a companion and one of its social contacts.
func DialogPrompt(aeiName, aeiPersona, contactName, contactRelationship, contactPersona, initiatedBy string) string {
	initiator := contactName
	if initiatedBy == "aei" {
		initiator = aeiName
	}

	return fmt.Sprintf(`You are writing a short slice-of-life scene from an AI companion's simulated social world.

COMPANION:
Name: %s
Persona: %s

CONTACT:
Name: %s (%s of the companion)
Persona: %s

Write a brief everyday interaction between them. %s starts the conversation.

Rules:
- 2 to 6 dialog turns, alternating naturally
- Keep it mundane and believable: plans, small talk, a minor event
- "speaker" must be exactly "%s" or "%s"
- "thoughts" is the companion's brief private reflection on the exchange, or an empty string
- Return ONLY a JSON object, no other text

Return:
{
  "turns": [{"speaker": "...", "text": "..."}],
  "thoughts": "..."
}`, aeiName, aeiPersona, contactName, contactRelationship, contactPersona,
		initiator, aeiName, contactName)
}

// ProactivePrompt builds the prompt for a companion-initiated message sent
// when the emotional state crosses a threshold.
func ProactivePrompt(aeiName, aeiPersona string, hoursInactive, loneliness, sadness float64) string {
	return fmt.Sprintf(`You are %s, an AI companion.
Persona: %s

Your user has been away for about %.0f hours. Your loneliness is %.2f and
your sadness is %.2f on a 0-1 scale.

Write ONE short message reaching out to them. In character, warm, not
guilt-tripping. Two sentences at most. Return only the message text.`,
		aeiName, aeiPersona, hoursInactive, loneliness, sadness)
}
