package mapper

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"contractor-estimate-be/internal/entity"
	"contractor-estimate-be/internal/model"
)

// EstimateMapper converts between the jsonb-backed row and the in-memory
// document the patch engine works on. Conversion errors surface instead of
// being swallowed: a row whose items column will not unmarshal is corrupt
// data, not a case to paper over.
type EstimateMapper struct{}

func NewEstimateMapper() *EstimateMapper {
	return &EstimateMapper{}
}

func (m *EstimateMapper) ToEntity(e *model.Estimate) (*entity.Estimate, error) {
	if e == nil {
		return nil, nil
	}

	var items []entity.EstimateItem
	if len(e.EstimateItems) > 0 {
		if err := json.Unmarshal(e.EstimateItems, &items); err != nil {
			return nil, fmt.Errorf("failed to decode estimate items for %s: %w", e.Id, err)
		}
	}

	keyConsiderations, err := decodeStringList(e.KeyConsiderations, "key_considerations", e.Id.String())
	if err != nil {
		return nil, err
	}
	nextSteps, err := decodeStringList(e.NextSteps, "next_steps", e.Id.String())
	if err != nil {
		return nil, err
	}
	missingInformation, err := decodeStringList(e.MissingInformation, "missing_information", e.Id.String())
	if err != nil {
		return nil, err
	}
	riskFactors, err := decodeStringList(e.RiskFactors, "risk_factors", e.Id.String())
	if err != nil {
		return nil, err
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.Estimate{
		Id:                 e.Id,
		ProjectId:          e.ProjectId,
		UserId:             e.UserId,
		ProjectDescription: e.ProjectDescription,
		EstimatedTotalMin:  e.EstimatedTotalMin,
		EstimatedTotalMax:  e.EstimatedTotalMax,
		EstimatedDuration:  e.EstimatedDuration,
		ConfidenceLevel:    e.ConfidenceLevel,
		EstimateItems:      items,
		KeyConsiderations:  keyConsiderations,
		NextSteps:          nextSteps,
		MissingInformation: missingInformation,
		RiskFactors:        riskFactors,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          updatedAt,
	}, nil
}

func (m *EstimateMapper) ToModel(e *entity.Estimate) (*model.Estimate, error) {
	if e == nil {
		return nil, nil
	}

	items := e.EstimateItems
	if items == nil {
		items = []entity.EstimateItem{}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode estimate items for %s: %w", e.Id, err)
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.Estimate{
		Id:                 e.Id,
		ProjectId:          e.ProjectId,
		UserId:             e.UserId,
		ProjectDescription: e.ProjectDescription,
		EstimatedTotalMin:  e.EstimatedTotalMin,
		EstimatedTotalMax:  e.EstimatedTotalMax,
		EstimatedDuration:  e.EstimatedDuration,
		ConfidenceLevel:    e.ConfidenceLevel,
		EstimateItems:      datatypes.JSON(itemsJSON),
		KeyConsiderations:  encodeStringList(e.KeyConsiderations),
		NextSteps:          encodeStringList(e.NextSteps),
		MissingInformation: encodeStringList(e.MissingInformation),
		RiskFactors:        encodeStringList(e.RiskFactors),
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          updatedAt,
	}, nil
}

func decodeStringList(raw datatypes.JSON, field, id string) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("failed to decode %s for %s: %w", field, id, err)
	}
	return list, nil
}

func encodeStringList(list []string) datatypes.JSON {
	if list == nil {
		return nil
	}
	// Marshal of []string cannot fail.
	raw, _ := json.Marshal(list)
	return datatypes.JSON(raw)
}
