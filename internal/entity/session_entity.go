package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session is a named workspace: the chat history plus the generated JSX and
// CSS for one user. Updates replace the whole mutable document; the last
// writer wins.
type Session struct {
	Id        uuid.UUID
	UserId    uuid.UUID // immutable after creation
	Name      string
	Chat      []ChatMessage
	Jsx       string
	Css       string
	UiState   map[string]interface{}
	CreatedAt time.Time
	UpdatedAt time.Time
}
