// Package agent decides how the assistant should act on a chat message about
// an existing estimate: apply targeted patches, regenerate the whole
// document, or just answer.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"contractor-estimate-be/internal/constant"
	"contractor-estimate-be/internal/entity"
	"contractor-estimate-be/pkg/llm"
)

const (
	ModePatch      = "patch"
	ModeRegenerate = "regenerate"
	ModeAnswer     = "answer"
)

// Decision is the planned handling for one chat message.
type Decision struct {
	Mode    string      `json:"action"`
	Patches []PatchPlan `json:"patches,omitempty"`
	Reply   string      `json:"reply,omitempty"`
	Reason  string      `json:"-"`
}

// PatchPlan mirrors the wire shape of an edit request as the model emits it.
type PatchPlan struct {
	JSONPath  string      `json:"json_path"`
	Operation string      `json:"operation"`
	NewValue  interface{} `json:"new_value,omitempty"`
}

type Agent struct {
	provider llm.LLMProvider
}

func NewAgent(provider llm.LLMProvider) *Agent {
	return &Agent{provider: provider}
}

// Plan asks the model what to do with the message. On any model or parse
// failure the decision degrades to regenerate, which is always safe: a full
// rebuild honors the request even when the cheap path is unavailable.
func (a *Agent) Plan(ctx context.Context, doc *entity.Estimate, history []llm.Message, message string) *Decision {
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return fallbackDecision(message, "document serialization failed")
	}

	prompt := fmt.Sprintf(constant.EstimateDecisionPrompt,
		string(docJSON), buildHistoryString(history), message)

	response, err := a.provider.Generate(ctx, prompt,
		llm.WithTemperature(0.1), llm.WithMaxTokens(2048))
	if err != nil {
		return fallbackDecision(message, "model call failed")
	}

	return parseDecisionResponse(response, message)
}

// buildHistoryString renders recent turns for the prompt; long messages are
// truncated since the decision only needs the gist.
func buildHistoryString(history []llm.Message) string {
	var sb strings.Builder
	for _, msg := range history {
		role := "User"
		if msg.Role == "model" || msg.Role == "assistant" {
			role = "Assistant"
		}
		chat := msg.Content
		if len(chat) > 200 {
			chat = chat[:200] + "..."
		}
		sb.WriteString(fmt.Sprintf("%s: %s\n", role, chat))
	}
	return sb.String()
}

func fallbackDecision(message, reason string) *Decision {
	return &Decision{
		Mode:   ModeRegenerate,
		Reply:  message,
		Reason: reason,
	}
}
