package service

import (
	"context"

	"ai-playground-be/internal/dto"
	"ai-playground-be/internal/pkg/apperrors"
	"ai-playground-be/internal/pkg/serverutils"
	"ai-playground-be/pkg/llm"
)

// maxGenerationTokens bounds the token budget of every upstream call.
const maxGenerationTokens = 1024

type IGenerationService interface {
	Generate(ctx context.Context, req *dto.GenerateRequest) (*dto.GenerateResponse, error)
}

type generationService struct {
	provider llm.LLMProvider
}

func NewGenerationService(provider llm.LLMProvider) IGenerationService {
	return &generationService{provider: provider}
}

// Generate forwards the conversation plus the new prompt upstream and relays
// the raw reply. The current code field is accepted for request-shape parity
// with the client but is not sent to the provider; the conversation already
// carries the generated code. Failures are not retried here.
func (s *generationService) Generate(ctx context.Context, req *dto.GenerateRequest) (*dto.GenerateResponse, error) {
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}

	history := make([]llm.Message, 0, len(req.Chat)+1)
	for _, m := range req.Chat {
		history = append(history, llm.Message{Role: m.Role, Content: m.Content})
	}
	history = append(history, llm.Message{Role: "user", Content: req.Prompt})

	raw, err := s.provider.ChatRaw(ctx, history, llm.WithMaxTokens(maxGenerationTokens))
	if err != nil {
		return nil, apperrors.Upstream("AI request failed", err.Error(), err)
	}

	return &dto.GenerateResponse{Result: raw}, nil
}
