package mapper

import (
	"time"

	"contractor-estimate-be/internal/entity"
	"contractor-estimate-be/internal/model"
)

type FileMapper struct{}

func NewFileMapper() *FileMapper {
	return &FileMapper{}
}

func (m *FileMapper) ToEntity(f *model.ProjectFile) *entity.ProjectFile {
	if f == nil {
		return nil
	}

	var updatedAt *time.Time
	if !f.UpdatedAt.IsZero() {
		t := f.UpdatedAt
		updatedAt = &t
	}

	return &entity.ProjectFile{
		Id:          f.Id,
		ProjectId:   f.ProjectId,
		UserId:      f.UserId,
		Name:        f.Name,
		MimeType:    f.MimeType,
		Description: f.Description,
		DownloadURL: f.DownloadURL,
		Content:     f.Content,
		Processed:   f.Processed,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *FileMapper) ToModel(f *entity.ProjectFile) *model.ProjectFile {
	if f == nil {
		return nil
	}

	var updatedAt time.Time
	if f.UpdatedAt != nil {
		updatedAt = *f.UpdatedAt
	}

	return &model.ProjectFile{
		Id:          f.Id,
		ProjectId:   f.ProjectId,
		UserId:      f.UserId,
		Name:        f.Name,
		MimeType:    f.MimeType,
		Description: f.Description,
		DownloadURL: f.DownloadURL,
		Content:     f.Content,
		Processed:   f.Processed,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *FileMapper) ToEntities(files []*model.ProjectFile) []*entity.ProjectFile {
	entities := make([]*entity.ProjectFile, len(files))
	for i, f := range files {
		entities[i] = m.ToEntity(f)
	}
	return entities
}
