package dto

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessageDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type CreateSessionRequest struct {
	Name    string                 `json:"name"`
	Chat    []ChatMessageDTO       `json:"chat"`
	Jsx     string                 `json:"jsx"`
	Css     string                 `json:"css"`
	UiState map[string]interface{} `json:"uiState"`
}

// UpdateSessionRequest replaces every mutable field; the client always sends
// the whole document.
type UpdateSessionRequest struct {
	Name    string                 `json:"name" validate:"required"`
	Chat    []ChatMessageDTO       `json:"chat"`
	Jsx     string                 `json:"jsx"`
	Css     string                 `json:"css"`
	UiState map[string]interface{} `json:"uiState"`
}

type SessionResponse struct {
	Id        uuid.UUID              `json:"id"`
	Name      string                 `json:"name"`
	Chat      []ChatMessageDTO       `json:"chat"`
	Jsx       string                 `json:"jsx"`
	Css       string                 `json:"css"`
	UiState   map[string]interface{} `json:"uiState"`
	CreatedAt time.Time              `json:"createdAt"`
	UpdatedAt time.Time              `json:"updatedAt"`
}

type DeleteSessionResponse struct {
	Success bool `json:"success"`
}
