package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProjectFile is an uploaded source file for a project. Content holds the
// extracted text once the background processor has run; it stays empty for
// file types the processor cannot turn into text.
type ProjectFile struct {
	Id          uuid.UUID
	ProjectId   uuid.UUID
	UserId      uuid.UUID
	Name        string
	MimeType    string
	Description string
	DownloadURL string
	Content     string
	Processed   bool
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
