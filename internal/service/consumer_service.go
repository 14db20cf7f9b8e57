package service

import (
	"context"
	"encoding/json"

	"dr-vain-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IConsumerService drains the in-process event bus in the background.
type IConsumerService interface {
	Consume(ctx context.Context) error
}

// archivedPayload mirrors the session-archived event body.
type archivedPayload struct {
	SessionId string `json:"session_id"`
	Messages  int    `json:"messages"`
}

type consumerService struct {
	pubSub        *gochannel.GoChannel
	topicName     string
	reportService IReportService
	logger        logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	reportService IReportService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:        pubSub,
		topicName:     topicName,
		reportService: reportService,
		logger:        log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var payload archivedPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("consumer", "Failed to unmarshal archive event", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.logger.Info("consumer", "Recomputing report statistics", map[string]interface{}{
		"session_id": payload.SessionId,
		"messages":   payload.Messages,
	})

	cs.reportService.RefreshStats()
	msg.Ack()
}
