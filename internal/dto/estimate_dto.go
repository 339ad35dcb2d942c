package dto

import (
	"time"

	"github.com/google/uuid"

	"contractor-estimate-be/internal/entity"
	"contractor-estimate-be/pkg/patch"
)

// ApplyPatchesRequest carries an ordered batch of edits for one estimate.
// Order matters: later requests see the document as left by earlier ones.
type ApplyPatchesRequest struct {
	EstimateId uuid.UUID       `json:"estimate_id"`
	Patches    []patch.Request `json:"patches" validate:"required,min=1,dive"`
}

type PatchOutcomeDTO struct {
	Success      bool   `json:"success"`
	ErrorMessage string `json:"error_message,omitempty"`
}

type ApplyPatchesResponse struct {
	Estimate EstimateDTO       `json:"estimate"`
	Outcomes []PatchOutcomeDTO `json:"outcomes"`
}

type EstimateItemDTO struct {
	Uid             string   `json:"uid"`
	Description     string   `json:"description"`
	Category        string   `json:"category"`
	Subcategory     string   `json:"subcategory,omitempty"`
	CostRangeMin    float64  `json:"cost_range_min"`
	CostRangeMax    float64  `json:"cost_range_max"`
	Unit            string   `json:"unit,omitempty"`
	Quantity        *float64 `json:"quantity,omitempty"`
	Assumptions     string   `json:"assumptions,omitempty"`
	ConfidenceLevel string   `json:"confidence_level,omitempty"`
	Notes           string   `json:"notes,omitempty"`
}

type EstimateDTO struct {
	Id                 uuid.UUID         `json:"id"`
	ProjectId          uuid.UUID         `json:"project_id"`
	ProjectDescription string            `json:"project_description"`
	EstimatedTotalMin  float64           `json:"estimated_total_min"`
	EstimatedTotalMax  float64           `json:"estimated_total_max"`
	EstimatedDuration  string            `json:"estimated_duration,omitempty"`
	ConfidenceLevel    string            `json:"confidence_level,omitempty"`
	EstimateItems      []EstimateItemDTO `json:"estimate_items"`
	KeyConsiderations  []string          `json:"key_considerations,omitempty"`
	NextSteps          []string          `json:"next_steps,omitempty"`
	MissingInformation []string          `json:"missing_information,omitempty"`
	RiskFactors        []string          `json:"risk_factors,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          *time.Time        `json:"updated_at,omitempty"`
}

// UpdateEstimateDetailsRequest edits top-level fields directly, without going
// through the chat agent. Nil fields are left untouched.
type UpdateEstimateDetailsRequest struct {
	EstimateId         uuid.UUID `json:"estimate_id"`
	ProjectDescription *string   `json:"project_description"`
	EstimatedDuration  *string   `json:"estimated_duration"`
	ConfidenceLevel    *string   `json:"confidence_level"`
}

type UpdateEstimateDetailsResponse struct {
	Estimate EstimateDTO `json:"estimate"`
}

type RegenerateEstimateRequest struct {
	ProjectId        uuid.UUID `json:"project_id" validate:"required"`
	RequestedChanges string    `json:"requested_changes"`
}

type RegenerateEstimateResponse struct {
	Estimate EstimateDTO `json:"estimate"`
}

func EstimateToDTO(e *entity.Estimate) EstimateDTO {
	items := make([]EstimateItemDTO, 0, len(e.EstimateItems))
	for _, item := range e.EstimateItems {
		items = append(items, EstimateItemDTO(item))
	}
	return EstimateDTO{
		Id:                 e.Id,
		ProjectId:          e.ProjectId,
		ProjectDescription: e.ProjectDescription,
		EstimatedTotalMin:  e.EstimatedTotalMin,
		EstimatedTotalMax:  e.EstimatedTotalMax,
		EstimatedDuration:  e.EstimatedDuration,
		ConfidenceLevel:    e.ConfidenceLevel,
		EstimateItems:      items,
		KeyConsiderations:  e.KeyConsiderations,
		NextSteps:          e.NextSteps,
		MissingInformation: e.MissingInformation,
		RiskFactors:        e.RiskFactors,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}
