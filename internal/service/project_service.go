package service

import (
	"context"
	"fmt"
	"time"

	"contractor-estimate-be/internal/dto"
	"contractor-estimate-be/internal/entity"
	"contractor-estimate-be/internal/repository/specification"
	"contractor-estimate-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IProjectService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateProjectRequest) (*dto.CreateProjectResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowProjectResponse, error)
	GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.ShowProjectResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type projectService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewProjectService(uowFactory unitofwork.RepositoryFactory) IProjectService {
	return &projectService{
		uowFactory: uowFactory,
	}
}

func (s *projectService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateProjectRequest) (*dto.CreateProjectResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	project := entity.Project{
		Id:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		UserId:      userId,
		CreatedAt:   time.Now(),
	}
	if err := uow.ProjectRepository().Create(ctx, &project); err != nil {
		return nil, err
	}

	return &dto.CreateProjectResponse{Id: project.Id}, nil
}

func (s *projectService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowProjectResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	project, err := uow.ProjectRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("project not found")
	}

	return projectToDTO(project), nil
}

func (s *projectService) GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.ShowProjectResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	projects, err := uow.ProjectRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ShowProjectResponse, len(projects))
	for i, project := range projects {
		res[i] = projectToDTO(project)
	}
	return res, nil
}

func (s *projectService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	project, err := uow.ProjectRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if project == nil {
		return fmt.Errorf("project not found")
	}

	return uow.ProjectRepository().Delete(ctx, id)
}

func projectToDTO(p *entity.Project) *dto.ShowProjectResponse {
	return &dto.ShowProjectResponse{
		Id:          p.Id,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
