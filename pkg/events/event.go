package events

import "time"

// Event subjects published on the internal bus and relayed to NATS.
const (
	TypeUserLogin    = "USER_LOGIN"
	TypeUserSignup   = "USER_SIGNUP"
	TypeSessionSaved = "SESSION_SAVED"
)

// Event defines the contract for all system events.
type Event interface {
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
