package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByProjectID struct {
	ProjectID uuid.UUID
}

func (s ByProjectID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("project_id = ?", s.ProjectID)
}

// UserOwnedBy scopes a query to rows the given user owns. Every read that
// serves an authenticated request should carry this.
type UserOwnedBy struct {
	UserID uuid.UUID
}

func (s UserOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// Unprocessed selects files the background processor has not handled yet.
type Unprocessed struct{}

func (s Unprocessed) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("processed = ?", false)
}
