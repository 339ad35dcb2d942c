package model

import (
	"time"

	"github.com/google/uuid"
)

type ProjectFile struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProjectId   uuid.UUID `gorm:"type:uuid;not null;index"`
	UserId      uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"type:varchar(255);not null"`
	MimeType    string    `gorm:"type:varchar(100);not null"`
	Description string    `gorm:"type:text"`
	DownloadURL string    `gorm:"type:text;not null"`
	Content     string    `gorm:"type:text"`
	Processed   bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (ProjectFile) TableName() string {
	return "project_files"
}
