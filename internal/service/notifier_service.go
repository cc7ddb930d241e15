package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"ai-playground-be/internal/pkg/logger"
	pktNats "ai-playground-be/pkg/nats"

	"ai-playground-be/internal/websocket"
	"ai-playground-be/pkg/events"
)

// INotifierService drains the in-process bus and fans autosave confirmations
// out to connected websocket clients, relaying a copy to NATS when available.
type INotifierService interface {
	Start(ctx context.Context) error
}

type notifierService struct {
	pubSub         *gochannel.GoChannel
	hub            *websocket.Hub
	eventPublisher *pktNats.Publisher
	log            logger.ILogger
}

func NewNotifierService(pubSub *gochannel.GoChannel, hub *websocket.Hub, eventPublisher *pktNats.Publisher, log logger.ILogger) INotifierService {
	return &notifierService{
		pubSub:         pubSub,
		hub:            hub,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func (s *notifierService) Start(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, TopicSessionSaved)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *notifierService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var payload SessionSavedPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		s.log.Warn("notifier", "dropping malformed session saved event", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	notice, _ := json.Marshal(map[string]interface{}{
		"type":      "session_saved",
		"sessionId": payload.SessionId,
		"name":      payload.Name,
		"savedAt":   payload.SavedAt,
	})
	s.hub.SendToUser(payload.UserId.String(), notice)

	if s.eventPublisher != nil {
		event := events.BaseEvent{
			Type: events.TypeSessionSaved,
			Data: map[string]interface{}{
				"user_id":    payload.UserId,
				"session_id": payload.SessionId,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.log.Warn("notifier", "failed to relay event to NATS", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}
