package mapper

import (
	"time"

	"contractor-estimate-be/internal/entity"
	"contractor-estimate-be/internal/model"

	"gorm.io/gorm"
)

type ProjectMapper struct{}

func NewProjectMapper() *ProjectMapper {
	return &ProjectMapper{}
}

func (m *ProjectMapper) ToEntity(p *model.Project) *entity.Project {
	if p == nil {
		return nil
	}

	var deletedAt *time.Time
	if p.DeletedAt.Valid {
		t := p.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	return &entity.Project{
		Id:          p.Id,
		Name:        p.Name,
		Description: p.Description,
		UserId:      p.UserId,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
		IsDeleted:   p.DeletedAt.Valid,
	}
}

func (m *ProjectMapper) ToModel(p *entity.Project) *model.Project {
	if p == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if p.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *p.DeletedAt, Valid: true}
	} else if p.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	return &model.Project{
		Id:          p.Id,
		Name:        p.Name,
		Description: p.Description,
		UserId:      p.UserId,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
	}
}

func (m *ProjectMapper) ToEntities(projects []*model.Project) []*entity.Project {
	entities := make([]*entity.Project, len(projects))
	for i, p := range projects {
		entities[i] = m.ToEntity(p)
	}
	return entities
}
