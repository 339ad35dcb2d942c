package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"contractor-estimate-be/internal/dto"
	"contractor-estimate-be/internal/pkg/logger"
	"contractor-estimate-be/internal/repository/specification"
	"contractor-estimate-be/internal/repository/unitofwork"
	"contractor-estimate-be/pkg/events"
	pkgNats "contractor-estimate-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// maxFileContentBytes caps how much extracted text a single file may
// contribute to the generation context.
const maxFileContentBytes = 512 * 1024

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pkgNats.Publisher
	httpClient     *http.Client
	logger         logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher *pkgNats.Publisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:         pubSub,
		topicName:      topicName,
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		httpClient:     &http.Client{Timeout: 60 * time.Second},
		logger:         log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage extracts text content for one registered file. Files whose
// mime type we cannot read as text (PDFs, videos, images) are still marked
// processed so the estimate generator knows about them by name; only their
// content stays empty.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishProcessFileMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal message", map[string]interface{}{
			"error": err.Error(),
		})
		// Malformed payloads never become valid; retrying would loop forever.
		msg.Ack()
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	file, err := uow.ProjectFileRepository().FindOne(ctx, specification.ByID{ID: payload.FileId})
	if err != nil {
		cs.logger.Error("ConsumerService", "Failed to load file", map[string]interface{}{
			"file_id": payload.FileId,
			"error":   err.Error(),
		})
		msg.Nack()
		return
	}
	if file == nil {
		// Deleted before processing ran.
		msg.Ack()
		return
	}
	if file.Processed {
		msg.Ack()
		return
	}

	extracted := false
	if isTextMime(file.MimeType) {
		content, err := cs.downloadText(ctx, file.DownloadURL)
		if err != nil {
			cs.logger.Error("ConsumerService", "Failed to download file content", map[string]interface{}{
				"file_id": file.Id,
				"error":   err.Error(),
			})
			msg.Nack()
			return
		}
		file.Content = content
		extracted = true
	} else {
		cs.logger.Warn("ConsumerService", "Unsupported mime type, skipping content extraction", map[string]interface{}{
			"file_id":   file.Id,
			"mime_type": file.MimeType,
		})
	}

	file.Processed = true
	now := time.Now()
	file.UpdatedAt = &now

	if err := uow.Begin(ctx); err != nil {
		msg.Nack()
		return
	}
	defer uow.Rollback()

	if err := uow.ProjectFileRepository().Update(ctx, file); err != nil {
		cs.logger.Error("ConsumerService", "Failed to update file", map[string]interface{}{
			"file_id": file.Id,
			"error":   err.Error(),
		})
		msg.Nack()
		return
	}
	if err := uow.Commit(); err != nil {
		msg.Nack()
		return
	}

	cs.logger.Info("ConsumerService", "File processed", map[string]interface{}{
		"file_id":       file.Id,
		"extracted":     extracted,
		"content_bytes": len(file.Content),
	})

	if cs.eventPublisher != nil {
		evt := events.NewFileProcessed(file.Id, file.ProjectId, file.UserId, extracted)
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			cs.logger.Warn("ConsumerService", "Failed to publish event", map[string]interface{}{
				"event": evt.EventType(),
				"error": err.Error(),
			})
		}
	}

	msg.Ack()
}

func (cs *consumerService) downloadText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := cs.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFileContentBytes))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func isTextMime(mimeType string) bool {
	if strings.HasPrefix(mimeType, "text/") {
		return true
	}
	switch mimeType {
	case "application/json", "application/xml", "application/csv":
		return true
	}
	return false
}
