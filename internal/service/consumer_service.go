package service

import (
	"context"
	"encoding/json"

	"cloudnotes-be/internal/dto"
	"cloudnotes-be/internal/pkg/logger"
	"cloudnotes-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// EventForwarder ships events off-process, e.g. to NATS JetStream.
type EventForwarder interface {
	Publish(ctx context.Context, evt events.Event) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	forwarder  EventForwarder
	logger     logger.ILogger
}

// NewConsumerService drains the note event topic. forwarder may be nil.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	forwarder EventForwarder,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		forwarder:  forwarder,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
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

// processMessage always acks: there are no retries for note events.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var payload dto.EventMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("EVENTS", "Failed to unmarshal event", map[string]interface{}{
			"MessageId": msg.UUID,
			"error":     err.Error(),
		})
		return
	}

	cs.logger.Info("EVENTS", "Note event received", map[string]interface{}{
		"Type": payload.Type,
		"Data": payload.Data,
	})

	if cs.forwarder == nil {
		return
	}

	evt := events.BaseEvent{Type: payload.Type, Data: payload.Data, OccurredAt: payload.OccurredAt}
	if err := cs.forwarder.Publish(ctx, evt); err != nil {
		cs.logger.Warn("EVENTS", "Failed to forward event", map[string]interface{}{
			"Type":  payload.Type,
			"error": err.Error(),
		})
	}
}
