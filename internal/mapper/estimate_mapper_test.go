package mapper

import (
	"testing"
	"time"

	"contractor-estimate-be/internal/entity"
	"contractor-estimate-be/internal/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

func TestEstimateMapperRoundTrip(t *testing.T) {
	m := NewEstimateMapper()

	qty := 3.5
	now := time.Now()
	doc := &entity.Estimate{
		Id:                 uuid.New(),
		ProjectId:          uuid.New(),
		UserId:             uuid.New(),
		ProjectDescription: "Deck replacement",
		EstimatedTotalMin:  4000,
		EstimatedTotalMax:  6500,
		EstimatedDuration:  "2-3 weeks",
		EstimateItems: []entity.EstimateItem{
			{
				Uid:          "abc123",
				Description:  "Demolish old deck",
				Category:     "Demolition",
				CostRangeMin: 500,
				CostRangeMax: 900,
				Quantity:     &qty,
			},
			{
				Uid:          "def456",
				Description:  "Build new frame",
				Category:     "Carpentry",
				CostRangeMin: 3500,
				CostRangeMax: 5600,
			},
		},
		RiskFactors: []string{"Rotten joists"},
		CreatedAt:   now,
		UpdatedAt:   &now,
	}

	row, err := m.ToModel(doc)
	if err != nil {
		t.Fatalf("ToModel: %v", err)
	}

	back, err := m.ToEntity(row)
	if err != nil {
		t.Fatalf("ToEntity: %v", err)
	}

	if back.Id != doc.Id {
		t.Errorf("id changed: %s != %s", back.Id, doc.Id)
	}
	if len(back.EstimateItems) != 2 {
		t.Fatalf("expected 2 items, got %d", len(back.EstimateItems))
	}
	if back.EstimateItems[0].Uid != "abc123" {
		t.Errorf("uid lost in round trip: %q", back.EstimateItems[0].Uid)
	}
	if back.EstimateItems[0].Quantity == nil || *back.EstimateItems[0].Quantity != 3.5 {
		t.Errorf("quantity lost in round trip: %v", back.EstimateItems[0].Quantity)
	}
	if back.EstimateItems[1].Quantity != nil {
		t.Errorf("expected nil quantity, got %v", *back.EstimateItems[1].Quantity)
	}
	if len(back.RiskFactors) != 1 || back.RiskFactors[0] != "Rotten joists" {
		t.Errorf("risk factors lost: %v", back.RiskFactors)
	}
	if back.UpdatedAt == nil {
		t.Error("updated_at lost in round trip")
	}
}

func TestEstimateMapperNilItemsBecomeEmptyArray(t *testing.T) {
	m := NewEstimateMapper()

	row, err := m.ToModel(&entity.Estimate{Id: uuid.New(), CreatedAt: time.Now()})
	if err != nil {
		t.Fatalf("ToModel: %v", err)
	}
	if string(row.EstimateItems) != "[]" {
		t.Errorf("expected [] for nil items, got %q", string(row.EstimateItems))
	}
}

func TestEstimateMapperCorruptItemsColumn(t *testing.T) {
	m := NewEstimateMapper()

	row := &model.Estimate{
		Id:            uuid.New(),
		EstimateItems: datatypes.JSON([]byte(`{not json`)),
	}
	if _, err := m.ToEntity(row); err == nil {
		t.Fatal("expected error for corrupt items column")
	}
}
