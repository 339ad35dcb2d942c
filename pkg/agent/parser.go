package agent

import (
	"encoding/json"
	"strings"
)

// parseDecisionResponse extracts the planned action from the model response.
// Models wrap JSON in markdown fences or prose often enough that the parse
// has to dig the object out before unmarshalling.
func parseDecisionResponse(response, message string) *Decision {
	cleaned := strings.TrimSpace(response)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	jsonStart := strings.Index(cleaned, "{")
	jsonEnd := strings.LastIndex(cleaned, "}")
	if jsonStart >= 0 && jsonEnd > jsonStart {
		cleaned = cleaned[jsonStart : jsonEnd+1]
	}

	var decision Decision
	if err := json.Unmarshal([]byte(cleaned), &decision); err == nil {
		switch decision.Mode {
		case ModePatch:
			if len(decision.Patches) > 0 {
				decision.Reason = "model decision"
				return &decision
			}
			// A patch action with no patches is useless; rebuild instead.
			return fallbackDecision(message, "patch decision carried no patches")
		case ModeRegenerate, ModeAnswer:
			decision.Reason = "model decision"
			return &decision
		}
	}

	// JSON parse failed - keyword fallback on the raw response.
	lower := strings.ToLower(response)
	if strings.Contains(lower, `"action": "answer"`) || strings.Contains(lower, `"action":"answer"`) {
		return &Decision{
			Mode:   ModeAnswer,
			Reply:  response,
			Reason: "keyword detection: answer",
		}
	}

	return fallbackDecision(message, "parse failed, default to regenerate")
}
