package implementation

import (
	"context"
	"errors"

	"contractor-estimate-be/internal/entity"
	"contractor-estimate-be/internal/mapper"
	"contractor-estimate-be/internal/model"
	"contractor-estimate-be/internal/repository/contract"
	"contractor-estimate-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EstimateRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.EstimateMapper
}

func NewEstimateRepository(db *gorm.DB) contract.EstimateRepository {
	return &EstimateRepositoryImpl{
		db:     db,
		mapper: mapper.NewEstimateMapper(),
	}
}

func (r *EstimateRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *EstimateRepositoryImpl) Create(ctx context.Context, estimate *entity.Estimate) error {
	m, err := r.mapper.ToModel(estimate)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	e, err := r.mapper.ToEntity(m)
	if err != nil {
		return err
	}
	*estimate = *e
	return nil
}

func (r *EstimateRepositoryImpl) Update(ctx context.Context, estimate *entity.Estimate) error {
	m, err := r.mapper.ToModel(estimate)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	e, err := r.mapper.ToEntity(m)
	if err != nil {
		return err
	}
	*estimate = *e
	return nil
}

func (r *EstimateRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Estimate{}, id).Error
}

func (r *EstimateRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Estimate, error) {
	var m model.Estimate
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m)
}

func (r *EstimateRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Estimate, error) {
	var models []*model.Estimate
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Estimate, len(models))
	for i, m := range models {
		e, err := r.mapper.ToEntity(m)
		if err != nil {
			return nil, err
		}
		entities[i] = e
	}
	return entities, nil
}

func (r *EstimateRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Estimate{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
