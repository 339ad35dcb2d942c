package contract

import (
	"context"

	"contractor-estimate-be/internal/entity"
	"contractor-estimate-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ProjectFileRepository interface {
	Create(ctx context.Context, file *entity.ProjectFile) error
	Update(ctx context.Context, file *entity.ProjectFile) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ProjectFile, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ProjectFile, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
