package service

import (
	"context"
	"fmt"

	"contractor-estimate-be/internal/pkg/logger"
	"contractor-estimate-be/internal/websocket"
	"contractor-estimate-be/pkg/events"
	pkgNats "contractor-estimate-be/pkg/nats"

	"github.com/google/uuid"
)

// IEventRelayService bridges bus events back to connected clients. File
// processing finishes out of band, so the browser only learns about it
// through this relay.
type IEventRelayService interface {
	Start() error
}

type eventRelayService struct {
	subscriber *pkgNats.Subscriber
	hub        *websocket.Hub
	logger     logger.ILogger
}

func NewEventRelayService(subscriber *pkgNats.Subscriber, hub *websocket.Hub, log logger.ILogger) IEventRelayService {
	return &eventRelayService{
		subscriber: subscriber,
		hub:        hub,
		logger:     log,
	}
}

func (s *eventRelayService) Start() error {
	subject := fmt.Sprintf("events.%s", events.TypeFileProcessed)
	return s.subscriber.Subscribe(subject, "ws-file-relay", s.handleFileProcessed)
}

func (s *eventRelayService) handleFileProcessed(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	userIdStr, ok := payload["user_id"].(string)
	if !ok {
		s.logger.Warn("EventRelayService", "Event missing user_id, dropping", map[string]interface{}{
			"event": event.EventType(),
		})
		return nil
	}
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		s.logger.Warn("EventRelayService", "Event carries invalid user_id, dropping", map[string]interface{}{
			"user_id": userIdStr,
		})
		return nil
	}

	s.hub.Push(userId, "file_processed", payload)
	return nil
}
