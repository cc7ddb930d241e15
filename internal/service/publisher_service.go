package service

import (
	"encoding/json"
	"log"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// TopicSessionSaved carries autosave confirmations on the in-process bus.
const TopicSessionSaved = "session.saved"

type SessionSavedPayload struct {
	UserId    uuid.UUID `json:"user_id"`
	SessionId uuid.UUID `json:"session_id"`
	Name      string    `json:"name"`
	SavedAt   time.Time `json:"saved_at"`
}

type IPublisherService interface {
	PublishSessionSaved(userId, sessionId uuid.UUID, name string)
}

type publisherService struct {
	pubSub *gochannel.GoChannel
}

func NewPublisherService(pubSub *gochannel.GoChannel) IPublisherService {
	return &publisherService{pubSub: pubSub}
}

func (s *publisherService) PublishSessionSaved(userId, sessionId uuid.UUID, name string) {
	payload := SessionSavedPayload{
		UserId:    userId,
		SessionId: sessionId,
		Name:      name,
		SavedAt:   time.Now(),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[WARN] Failed to marshal session saved event: %v", err)
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	if err := s.pubSub.Publish(TopicSessionSaved, msg); err != nil {
		log.Printf("[WARN] Failed to publish session saved event: %v", err)
	}
}
