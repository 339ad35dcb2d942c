package dto

import (
	"time"

	"github.com/google/uuid"
)

type RegisterFileRequest struct {
	ProjectId   uuid.UUID `json:"project_id" validate:"required"`
	Name        string    `json:"name" validate:"required"`
	MimeType    string    `json:"mime_type" validate:"required"`
	Description string    `json:"description"`
	DownloadURL string    `json:"download_url" validate:"required,url"`
}

type RegisterFileResponse struct {
	Id uuid.UUID `json:"id"`
}

// PublishProcessFileMessage is the payload queued for the background file
// processor.
type PublishProcessFileMessage struct {
	FileId uuid.UUID `json:"file_id"`
}

type ShowFileResponse struct {
	Id          uuid.UUID  `json:"id"`
	ProjectId   uuid.UUID  `json:"project_id"`
	Name        string     `json:"name"`
	MimeType    string     `json:"mime_type"`
	Description string     `json:"description"`
	Processed   bool       `json:"processed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}
