package unitofwork

import (
	"context"

	"contractor-estimate-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ProjectRepository() contract.ProjectRepository
	EstimateRepository() contract.EstimateRepository
	ProjectFileRepository() contract.ProjectFileRepository

	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
}
