package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Estimate stores the document head columns relationally and the item list
// plus advisory lists as jsonb. Items are addressed by uid, not by a child
// table row id, so a jsonb blob keeps reads and writes to a single row.
type Estimate struct {
	Id                 uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProjectId          uuid.UUID      `gorm:"type:uuid;not null;index"`
	UserId             uuid.UUID      `gorm:"type:uuid;not null;index"`
	ProjectDescription string         `gorm:"type:text;not null"`
	EstimatedTotalMin  float64        `gorm:"not null;default:0"`
	EstimatedTotalMax  float64        `gorm:"not null;default:0"`
	EstimatedDuration  string         `gorm:"type:varchar(255)"`
	ConfidenceLevel    string         `gorm:"type:varchar(50)"`
	EstimateItems      datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"`
	KeyConsiderations  datatypes.JSON `gorm:"type:jsonb"`
	NextSteps          datatypes.JSON `gorm:"type:jsonb"`
	MissingInformation datatypes.JSON `gorm:"type:jsonb"`
	RiskFactors        datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt          time.Time      `gorm:"autoCreateTime"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime"`
	DeletedAt          gorm.DeletedAt `gorm:"index"`
}

func (Estimate) TableName() string {
	return "estimates"
}
