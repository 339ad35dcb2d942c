package service

import (
	"context"
	"fmt"
	"time"

	"contractor-estimate-be/internal/dto"
	"contractor-estimate-be/internal/pkg/logger"
	"contractor-estimate-be/internal/repository/memory"
	"contractor-estimate-be/internal/repository/specification"
	"contractor-estimate-be/internal/repository/unitofwork"
	"contractor-estimate-be/internal/websocket"
	"contractor-estimate-be/pkg/estimator"
	"contractor-estimate-be/pkg/events"
	pkgNats "contractor-estimate-be/pkg/nats"
	"contractor-estimate-be/pkg/patch"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type IEstimateService interface {
	Show(ctx context.Context, userId uuid.UUID, estimateId uuid.UUID) (*dto.EstimateDTO, error)
	ShowByProject(ctx context.Context, userId uuid.UUID, projectId uuid.UUID) (*dto.EstimateDTO, error)
	ApplyPatches(ctx context.Context, userId uuid.UUID, req *dto.ApplyPatchesRequest) (*dto.ApplyPatchesResponse, error)
	UpdateDetails(ctx context.Context, userId uuid.UUID, req *dto.UpdateEstimateDetailsRequest) (*dto.UpdateEstimateDetailsResponse, error)
	Regenerate(ctx context.Context, userId uuid.UUID, req *dto.RegenerateEstimateRequest) (*dto.RegenerateEstimateResponse, error)
}

type estimateService struct {
	uowFactory     unitofwork.RepositoryFactory
	runner         *patch.Runner
	generator      estimator.Generator
	cache          *memory.EstimateCache
	rdb            *redis.Client
	eventPublisher *pkgNats.Publisher
	hub            *websocket.Hub
	logger         logger.ILogger
}

func NewEstimateService(
	uowFactory unitofwork.RepositoryFactory,
	generator estimator.Generator,
	cache *memory.EstimateCache,
	rdb *redis.Client,
	eventPublisher *pkgNats.Publisher,
	hub *websocket.Hub,
	log logger.ILogger,
) IEstimateService {
	return &estimateService{
		uowFactory:     uowFactory,
		runner:         patch.NewRunner(),
		generator:      generator,
		cache:          cache,
		rdb:            rdb,
		eventPublisher: eventPublisher,
		hub:            hub,
		logger:         log,
	}
}

func (s *estimateService) Show(ctx context.Context, userId uuid.UUID, estimateId uuid.UUID) (*dto.EstimateDTO, error) {
	if cached, found := s.cache.Get(estimateId); found && cached.UserId == userId {
		res := dto.EstimateToDTO(cached)
		return &res, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.EstimateRepository().FindOne(ctx,
		specification.ByID{ID: estimateId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("estimate not found")
	}

	s.cache.Save(doc)
	res := dto.EstimateToDTO(doc)
	return &res, nil
}

func (s *estimateService) ShowByProject(ctx context.Context, userId uuid.UUID, projectId uuid.UUID) (*dto.EstimateDTO, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.EstimateRepository().FindOne(ctx,
		specification.ByProjectID{ProjectID: projectId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("estimate not found")
	}

	s.cache.Save(doc)
	res := dto.EstimateToDTO(doc)
	return &res, nil
}

// ApplyPatches runs one edit batch against the estimate. The only fatal
// condition is a missing document: individual bad patches are reported in
// the outcomes and never abort the batch. The document is written back once,
// after the whole batch has been folded.
func (s *estimateService) ApplyPatches(ctx context.Context, userId uuid.UUID, req *dto.ApplyPatchesRequest) (*dto.ApplyPatchesResponse, error) {
	release, err := s.lockDocument(ctx, req.EstimateId)
	if err != nil {
		return nil, err
	}
	defer release()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.EstimateRepository().FindOne(ctx,
		specification.ByID{ID: req.EstimateId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("estimate not found")
	}

	result := s.runner.Run(doc, req.Patches)

	now := time.Now()
	result.Document.UpdatedAt = &now
	if err := uow.EstimateRepository().Update(ctx, result.Document); err != nil {
		return nil, err
	}
	s.cache.Save(result.Document)

	applied := result.Applied()
	rejected := len(result.Outcomes) - applied
	s.logger.Info("EstimateService", "Patch batch applied", map[string]interface{}{
		"estimate_id": req.EstimateId,
		"applied":     applied,
		"rejected":    rejected,
	})

	s.publishEvent(ctx, events.NewEstimatePatched(req.EstimateId, userId, applied, rejected))

	response := &dto.ApplyPatchesResponse{
		Estimate: dto.EstimateToDTO(result.Document),
		Outcomes: outcomesToDTO(result.Outcomes),
	}
	if s.hub != nil {
		s.hub.Push(userId, "estimate_patched", response)
	}
	return response, nil
}

// UpdateDetails edits top-level fields directly. It shares the write lock
// with the patch path so a manual edit never interleaves with a batch.
func (s *estimateService) UpdateDetails(ctx context.Context, userId uuid.UUID, req *dto.UpdateEstimateDetailsRequest) (*dto.UpdateEstimateDetailsResponse, error) {
	release, err := s.lockDocument(ctx, req.EstimateId)
	if err != nil {
		return nil, err
	}
	defer release()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.EstimateRepository().FindOne(ctx,
		specification.ByID{ID: req.EstimateId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("estimate not found")
	}

	if req.ProjectDescription != nil {
		doc.ProjectDescription = *req.ProjectDescription
	}
	if req.EstimatedDuration != nil {
		doc.EstimatedDuration = *req.EstimatedDuration
	}
	if req.ConfidenceLevel != nil {
		doc.ConfidenceLevel = *req.ConfidenceLevel
	}

	now := time.Now()
	doc.UpdatedAt = &now
	if err := uow.EstimateRepository().Update(ctx, doc); err != nil {
		return nil, err
	}
	s.cache.Save(doc)

	return &dto.UpdateEstimateDetailsResponse{
		Estimate: dto.EstimateToDTO(doc),
	}, nil
}

// Regenerate rebuilds the estimate for a project from scratch, feeding the
// project description, the processed files, and the user's requested changes
// to the generator. An existing estimate is replaced in place so its id
// stays stable.
func (s *estimateService) Regenerate(ctx context.Context, userId uuid.UUID, req *dto.RegenerateEstimateRequest) (*dto.RegenerateEstimateResponse, error) {
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

	files, err := uow.ProjectFileRepository().FindAll(ctx,
		specification.ByProjectID{ProjectID: req.ProjectId},
	)
	if err != nil {
		return nil, err
	}

	existing, err := uow.EstimateRepository().FindOne(ctx,
		specification.ByProjectID{ProjectID: req.ProjectId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}

	description := project.Description
	if existing != nil && existing.ProjectDescription != "" {
		description = existing.ProjectDescription
	}

	generated, err := s.generator.Generate(ctx, estimator.GenerationInput{
		ProjectDescription: description,
		Files:              files,
		RequestedChanges:   req.RequestedChanges,
	})
	if err != nil {
		return nil, err
	}

	generated.ProjectId = req.ProjectId
	generated.UserId = userId

	if existing != nil {
		release, err := s.lockDocument(ctx, existing.Id)
		if err != nil {
			return nil, err
		}
		defer release()

		generated.Id = existing.Id
		generated.CreatedAt = existing.CreatedAt
		now := time.Now()
		generated.UpdatedAt = &now
		if err := uow.EstimateRepository().Update(ctx, generated); err != nil {
			return nil, err
		}
	} else {
		generated.Id = uuid.New()
		generated.CreatedAt = time.Now()
		if err := uow.EstimateRepository().Create(ctx, generated); err != nil {
			return nil, err
		}
	}
	s.cache.Save(generated)

	s.logger.Info("EstimateService", "Estimate regenerated", map[string]interface{}{
		"estimate_id": generated.Id,
		"project_id":  req.ProjectId,
		"items":       len(generated.EstimateItems),
	})

	s.publishEvent(ctx, events.NewEstimateRegenerated(generated.Id, userId))

	response := &dto.RegenerateEstimateResponse{
		Estimate: dto.EstimateToDTO(generated),
	}
	if s.hub != nil {
		s.hub.Push(userId, "estimate_regenerated", response)
	}
	return response, nil
}

// lockDocument serializes writers on one estimate through Redis. Without
// Redis the instance runs unlocked, which is fine for a single process; the
// lock is there for multi-instance deployments.
func (s *estimateService) lockDocument(ctx context.Context, id uuid.UUID) (func(), error) {
	if s.rdb == nil {
		return func() {}, nil
	}

	key := "estimate_lock:" + id.String()
	for attempt := 0; attempt < 50; attempt++ {
		ok, err := s.rdb.SetNX(ctx, key, "1", 10*time.Second).Result()
		if err != nil {
			// Redis being down should not block estimate edits.
			s.logger.Warn("EstimateService", "Redis lock unavailable, proceeding unlocked", map[string]interface{}{
				"estimate_id": id,
				"error":       err.Error(),
			})
			return func() {}, nil
		}
		if ok {
			return func() {
				s.rdb.Del(context.Background(), key)
			}, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
	return nil, fmt.Errorf("estimate is locked by another request")
}

func (s *estimateService) publishEvent(ctx context.Context, evt events.Event) {
	if s.eventPublisher == nil {
		return
	}
	// Events feed auxiliary consumers; a bus outage must not fail the request.
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("EstimateService", "Failed to publish event", map[string]interface{}{
			"event": evt.EventType(),
			"error": err.Error(),
		})
	}
}

func outcomesToDTO(outcomes []patch.Outcome) []dto.PatchOutcomeDTO {
	res := make([]dto.PatchOutcomeDTO, len(outcomes))
	for i, o := range outcomes {
		res[i] = dto.PatchOutcomeDTO{
			Success:      o.Success,
			ErrorMessage: o.ErrorMessage,
		}
	}
	return res
}
