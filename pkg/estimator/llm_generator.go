package estimator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"contractor-estimate-be/internal/constant"
	"contractor-estimate-be/internal/entity"
	"contractor-estimate-be/pkg/llm"
	"contractor-estimate-be/pkg/patch"
)

type LLMGenerator struct {
	provider llm.LLMProvider
}

var _ Generator = &LLMGenerator{}

func NewLLMGenerator(provider llm.LLMProvider) *LLMGenerator {
	return &LLMGenerator{provider: provider}
}

func (g *LLMGenerator) Generate(ctx context.Context, input GenerationInput) (*entity.Estimate, error) {
	prompt := fmt.Sprintf(constant.EstimateGenerationPrompt,
		input.ProjectDescription,
		buildFileContext(input.Files),
		input.RequestedChanges)

	response, err := g.provider.Generate(ctx, prompt,
		llm.WithTemperature(0.3), llm.WithMaxTokens(4096))
	if err != nil {
		return nil, fmt.Errorf("estimate generation failed: %w", err)
	}

	return parseGeneratedEstimate(response, input.ProjectDescription)
}

// buildFileContext concatenates the extracted text of processed files.
// Unprocessed files and files without text content contribute only their
// name so the model still knows they exist.
func buildFileContext(files []*entity.ProjectFile) string {
	if len(files) == 0 {
		return "(none)"
	}

	var sb strings.Builder
	for _, f := range files {
		if f.Content != "" {
			sb.WriteString(fmt.Sprintf("--- %s ---\n%s\n\n", f.Name, f.Content))
			continue
		}
		sb.WriteString(fmt.Sprintf("--- %s (%s, content not extracted) ---\n\n", f.Name, f.MimeType))
	}
	return sb.String()
}

// generatedEstimate is the wire shape the model replies with. Totals are
// absent on purpose; they are derived, never trusted from the model.
type generatedEstimate struct {
	ProjectDescription string        `json:"project_description"`
	EstimatedDuration  string        `json:"estimated_duration"`
	ConfidenceLevel    string        `json:"confidence_level"`
	EstimateItems      []interface{} `json:"estimate_items"`
	KeyConsiderations  []string      `json:"key_considerations"`
	NextSteps          []string      `json:"next_steps"`
	MissingInformation []string      `json:"missing_information"`
	RiskFactors        []string      `json:"risk_factors"`
}

func parseGeneratedEstimate(response, fallbackDescription string) (*entity.Estimate, error) {
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

	var generated generatedEstimate
	if err := json.Unmarshal([]byte(cleaned), &generated); err != nil {
		return nil, fmt.Errorf("model response is not a valid estimate: %w", err)
	}

	// Each item goes through the same normalization as a patched-in item:
	// required fields enforced, uid assigned when the model left it out.
	items := make([]entity.EstimateItem, 0, len(generated.EstimateItems))
	for i, raw := range generated.EstimateItems {
		item, err := patch.NormalizeItem(raw)
		if err != nil {
			return nil, fmt.Errorf("generated item %d is malformed: %w", i, err)
		}
		items = append(items, *item)
	}

	description := generated.ProjectDescription
	if description == "" {
		description = fallbackDescription
	}

	doc := &entity.Estimate{
		ProjectDescription: description,
		EstimatedDuration:  generated.EstimatedDuration,
		ConfidenceLevel:    generated.ConfidenceLevel,
		EstimateItems:      items,
		KeyConsiderations:  generated.KeyConsiderations,
		NextSteps:          generated.NextSteps,
		MissingInformation: generated.MissingInformation,
		RiskFactors:        generated.RiskFactors,
	}
	patch.RecalculateTotals(doc)
	return doc, nil
}
