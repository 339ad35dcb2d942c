package contract

import (
	"context"

	"contractor-estimate-be/internal/entity"
	"contractor-estimate-be/internal/repository/specification"

	"github.com/google/uuid"
)

type EstimateRepository interface {
	Create(ctx context.Context, estimate *entity.Estimate) error
	Update(ctx context.Context, estimate *entity.Estimate) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Estimate, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Estimate, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
