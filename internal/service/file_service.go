package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"contractor-estimate-be/internal/dto"
	"contractor-estimate-be/internal/entity"
	"contractor-estimate-be/internal/pkg/logger"
	"contractor-estimate-be/internal/repository/specification"
	"contractor-estimate-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IFileService interface {
	Register(ctx context.Context, userId uuid.UUID, req *dto.RegisterFileRequest) (*dto.RegisterFileResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowFileResponse, error)
	ListByProject(ctx context.Context, userId uuid.UUID, projectId uuid.UUID) ([]*dto.ShowFileResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type fileService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewFileService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	log logger.ILogger,
) IFileService {
	return &fileService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		logger:           log,
	}
}

// Register records an uploaded file and queues it for content extraction.
// The request returns immediately; extraction happens in the background
// consumer.
func (s *fileService) Register(ctx context.Context, userId uuid.UUID, req *dto.RegisterFileRequest) (*dto.RegisterFileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	project, err := uow.ProjectRepository().FindOne(ctx,
		specification.ByID{ID: req.ProjectId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("project not found")
	}

	file := entity.ProjectFile{
		Id:          uuid.New(),
		ProjectId:   req.ProjectId,
		UserId:      userId,
		Name:        req.Name,
		MimeType:    req.MimeType,
		Description: req.Description,
		DownloadURL: req.DownloadURL,
		CreatedAt:   time.Now(),
	}
	if err := uow.ProjectFileRepository().Create(ctx, &file); err != nil {
		return nil, err
	}

	msgPayload := dto.PublishProcessFileMessage{FileId: file.Id}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return nil, err
	}
	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		return nil, err
	}

	s.logger.Info("FileService", "File registered for processing", map[string]interface{}{
		"file_id":   file.Id,
		"mime_type": file.MimeType,
	})

	return &dto.RegisterFileResponse{Id: file.Id}, nil
}

func (s *fileService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowFileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	file, err := uow.ProjectFileRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, fmt.Errorf("file not found")
	}

	return fileToDTO(file), nil
}

func (s *fileService) ListByProject(ctx context.Context, userId uuid.UUID, projectId uuid.UUID) ([]*dto.ShowFileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	files, err := uow.ProjectFileRepository().FindAll(ctx,
		specification.ByProjectID{ProjectID: projectId},
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ShowFileResponse, len(files))
	for i, file := range files {
		res[i] = fileToDTO(file)
	}
	return res, nil
}

func (s *fileService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	file, err := uow.ProjectFileRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if file == nil {
		return fmt.Errorf("file not found")
	}

	return uow.ProjectFileRepository().Delete(ctx, id)
}

func fileToDTO(f *entity.ProjectFile) *dto.ShowFileResponse {
	return &dto.ShowFileResponse{
		Id:          f.Id,
		ProjectId:   f.ProjectId,
		Name:        f.Name,
		MimeType:    f.MimeType,
		Description: f.Description,
		Processed:   f.Processed,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}
