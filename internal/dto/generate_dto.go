package dto

import "encoding/json"

type GenerateRequest struct {
	Prompt string           `json:"prompt" validate:"required"`
	Chat   []ChatMessageDTO `json:"chat"`
	Code   string           `json:"code"`
}

// GenerateResponse relays the provider's body untouched under "result".
type GenerateResponse struct {
	Result json.RawMessage `json:"result"`
}
