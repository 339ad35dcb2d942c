package entity

import (
	"time"

	"github.com/google/uuid"
)

// EstimateItem is one line item inside an estimate. The Uid is assigned once
// when the item is created and is the only stable way to address the item from
// outside; array position shifts as items are added or removed.
type EstimateItem struct {
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

type Estimate struct {
	Id                 uuid.UUID      `json:"id"`
	ProjectId          uuid.UUID      `json:"project_id"`
	UserId             uuid.UUID      `json:"user_id"`
	ProjectDescription string         `json:"project_description"`
	EstimatedTotalMin  float64        `json:"estimated_total_min"`
	EstimatedTotalMax  float64        `json:"estimated_total_max"`
	EstimatedDuration  string         `json:"estimated_duration,omitempty"`
	ConfidenceLevel    string         `json:"confidence_level,omitempty"`
	EstimateItems      []EstimateItem `json:"estimate_items"`
	KeyConsiderations  []string       `json:"key_considerations,omitempty"`
	NextSteps          []string       `json:"next_steps,omitempty"`
	MissingInformation []string       `json:"missing_information,omitempty"`
	RiskFactors        []string       `json:"risk_factors,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          *time.Time     `json:"updated_at,omitempty"`
}

// Clone returns a deep copy. Patch application works on copies so a failed
// operation never leaves a half-modified document behind.
func (e *Estimate) Clone() *Estimate {
	if e == nil {
		return nil
	}
	c := *e
	c.EstimateItems = make([]EstimateItem, len(e.EstimateItems))
	copy(c.EstimateItems, e.EstimateItems)
	c.KeyConsiderations = cloneStrings(e.KeyConsiderations)
	c.NextSteps = cloneStrings(e.NextSteps)
	c.MissingInformation = cloneStrings(e.MissingInformation)
	c.RiskFactors = cloneStrings(e.RiskFactors)
	if e.UpdatedAt != nil {
		t := *e.UpdatedAt
		c.UpdatedAt = &t
	}
	return &c
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
