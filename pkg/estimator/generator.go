// Package estimator turns a project description and its uploaded documents
// into a complete estimate via the configured model.
package estimator

import (
	"context"

	"contractor-estimate-be/internal/entity"
)

// GenerationInput is everything the generator may draw on. RequestedChanges
// is filled on regeneration, when the user asked for changes too broad for
// targeted patching.
type GenerationInput struct {
	ProjectDescription string
	Files              []*entity.ProjectFile
	RequestedChanges   string
}

// Generator produces a full estimate document. Implementations assign a uid
// to every line item and derive the totals before returning.
type Generator interface {
	Generate(ctx context.Context, input GenerationInput) (*entity.Estimate, error)
}
