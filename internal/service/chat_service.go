package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"contractor-estimate-be/internal/constant"
	"contractor-estimate-be/internal/dto"
	"contractor-estimate-be/internal/entity"
	"contractor-estimate-be/internal/pkg/logger"
	"contractor-estimate-be/internal/repository/specification"
	"contractor-estimate-be/internal/repository/unitofwork"
	"contractor-estimate-be/pkg/agent"
	"contractor-estimate-be/pkg/llm"
	"contractor-estimate-be/pkg/patch"

	"github.com/google/uuid"
)

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"

	defaultSessionTitle = "New chat"
)

type IChatService interface {
	CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error)
	GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error)
	SendChat(ctx context.Context, userId uuid.UUID, req *dto.SendChatRequest) (*dto.SendChatResponse, error)
	DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error
}

type chatService struct {
	uowFactory      unitofwork.RepositoryFactory
	planner         *agent.Agent
	estimateService IEstimateService
	llmProvider     llm.LLMProvider
	logger          logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	planner *agent.Agent,
	estimateService IEstimateService,
	llmProvider llm.LLMProvider,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:      uowFactory,
		planner:         planner,
		estimateService: estimateService,
		llmProvider:     llmProvider,
		logger:          log,
	}
}

func (s *chatService) CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
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

	session := entity.ChatSession{
		Id:        uuid.New(),
		ProjectId: req.ProjectId,
		UserId:    userId,
		Title:     defaultSessionTitle,
		CreatedAt: time.Now(),
	}
	if err := uow.ChatSessionRepository().Create(ctx, &session); err != nil {
		return nil, err
	}

	return &dto.CreateSessionResponse{Id: session.Id}, nil
}

func (s *chatService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.GetAllSessionsResponse, len(sessions))
	for i, session := range sessions {
		res[i] = &dto.GetAllSessionsResponse{
			Id:        session.Id,
			ProjectId: session.ProjectId,
			Title:     session.Title,
			CreatedAt: session.CreatedAt,
			UpdatedAt: session.UpdatedAt,
		}
	}
	return res, nil
}

func (s *chatService) GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("chat session not found")
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.GetChatHistoryResponse, len(messages))
	for i, msg := range messages {
		res[i] = &dto.GetChatHistoryResponse{
			Id:        msg.Id,
			Role:      msg.Role,
			Chat:      msg.Chat,
			CreatedAt: msg.CreatedAt,
		}
	}
	return res, nil
}

// SendChat runs the full conversational flow: store the user message, let
// the planner decide between patching, regenerating and answering, execute
// the decision, and store the assistant reply.
func (s *chatService) SendChat(ctx context.Context, userId uuid.UUID, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: req.ChatSessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("chat session not found")
	}

	history, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: req.ChatSessionId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	sent := entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          req.Chat,
		Role:          ChatRoleUser,
		ChatSessionId: req.ChatSessionId,
		CreatedAt:     time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, &sent); err != nil {
		return nil, err
	}

	doc, err := uow.EstimateRepository().FindOne(ctx,
		specification.ByProjectID{ProjectID: session.ProjectId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}

	response := &dto.SendChatResponse{
		ChatSessionId: req.ChatSessionId,
		Sent:          messageToDTO(&sent),
	}

	var replyText string
	if doc == nil {
		// Nothing to patch yet; the first message always triggers a full
		// generation.
		replyText, err = s.regenerate(ctx, userId, session.ProjectId, req.Chat, response)
	} else {
		decision := s.planner.Plan(ctx, doc, historyToMessages(history), req.Chat)
		s.logger.Info("ChatService", "Planner decision", map[string]interface{}{
			"session_id": req.ChatSessionId,
			"mode":       decision.Mode,
			"patches":    len(decision.Patches),
			"reason":     decision.Reason,
		})

		switch decision.Mode {
		case agent.ModePatch:
			replyText, err = s.applyPlannedPatches(ctx, userId, doc.Id, decision, response)
		case agent.ModeRegenerate:
			changes := decision.Reply
			if changes == "" {
				changes = req.Chat
			}
			replyText, err = s.regenerate(ctx, userId, session.ProjectId, changes, response)
		default:
			response.Mode = agent.ModeAnswer
			replyText = decision.Reply
		}
	}
	if err != nil {
		return nil, err
	}

	reply := entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          replyText,
		Role:          ChatRoleAssistant,
		ChatSessionId: req.ChatSessionId,
		CreatedAt:     time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, &reply); err != nil {
		return nil, err
	}
	response.Reply = messageToDTO(&reply)

	if session.Title == defaultSessionTitle {
		s.retitleSession(ctx, uow, session, req.Chat)
	}

	return response, nil
}

func (s *chatService) DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if session == nil {
		return fmt.Errorf("chat session not found")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().DeleteAllBySessionId(ctx, sessionId); err != nil {
		return err
	}
	if err := uow.ChatSessionRepository().Delete(ctx, sessionId); err != nil {
		return err
	}
	return uow.Commit()
}

func (s *chatService) applyPlannedPatches(ctx context.Context, userId uuid.UUID, estimateId uuid.UUID, decision *agent.Decision, response *dto.SendChatResponse) (string, error) {
	patchReq := &dto.ApplyPatchesRequest{
		EstimateId: estimateId,
		Patches:    plansToRequests(decision.Patches),
	}

	result, err := s.estimateService.ApplyPatches(ctx, userId, patchReq)
	if err != nil {
		return "", err
	}

	response.Mode = agent.ModePatch
	response.Estimate = &result.Estimate
	response.Outcomes = result.Outcomes

	if decision.Reply != "" {
		return decision.Reply, nil
	}
	applied := 0
	for _, o := range result.Outcomes {
		if o.Success {
			applied++
		}
	}
	return fmt.Sprintf("Applied %d of %d requested changes to the estimate.", applied, len(result.Outcomes)), nil
}

func (s *chatService) regenerate(ctx context.Context, userId uuid.UUID, projectId uuid.UUID, requestedChanges string, response *dto.SendChatResponse) (string, error) {
	result, err := s.estimateService.Regenerate(ctx, userId, &dto.RegenerateEstimateRequest{
		ProjectId:        projectId,
		RequestedChanges: requestedChanges,
	})
	if err != nil {
		return "", err
	}

	response.Mode = agent.ModeRegenerate
	response.Estimate = &result.Estimate
	return "I rebuilt the estimate with your requested changes.", nil
}

// retitleSession gives the session a real title after its first message.
// Title generation is cosmetic, so every failure path degrades to a
// truncated copy of the message.
func (s *chatService) retitleSession(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.ChatSession, message string) {
	title, err := s.llmProvider.Generate(ctx,
		fmt.Sprintf(constant.SessionTitlePrompt, message),
		llm.WithTemperature(0.2), llm.WithMaxTokens(30))
	if err != nil || strings.TrimSpace(title) == "" {
		title = message
	}
	title = strings.TrimSpace(strings.Trim(strings.TrimSpace(title), `"`))
	if len(title) > 80 {
		title = title[:80]
	}

	session.Title = title
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		s.logger.Warn("ChatService", "Failed to update session title", map[string]interface{}{
			"session_id": session.Id,
			"error":      err.Error(),
		})
	}
}

func historyToMessages(history []*entity.ChatMessage) []llm.Message {
	messages := make([]llm.Message, len(history))
	for i, msg := range history {
		messages[i] = llm.Message{
			Role:    msg.Role,
			Content: msg.Chat,
		}
	}
	return messages
}

func messageToDTO(msg *entity.ChatMessage) *dto.SendChatResponseChat {
	return &dto.SendChatResponseChat{
		Id:        msg.Id,
		Chat:      msg.Chat,
		Role:      msg.Role,
		CreatedAt: msg.CreatedAt,
	}
}

func plansToRequests(plans []agent.PatchPlan) []patch.Request {
	requests := make([]patch.Request, len(plans))
	for i, p := range plans {
		requests[i] = patch.Request{
			JSONPath:  p.JSONPath,
			Operation: patch.Operation(p.Operation),
			NewValue:  p.NewValue,
		}
	}
	return requests
}
