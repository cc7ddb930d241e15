package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"

	"ai-playground-be/internal/entity"
	"ai-playground-be/internal/model"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) ToEntity(s *model.Session) *entity.Session {
	if s == nil {
		return nil
	}

	var chat []entity.ChatMessage
	if len(s.Chat) > 0 {
		_ = json.Unmarshal(s.Chat, &chat)
	}
	if chat == nil {
		chat = []entity.ChatMessage{}
	}

	var uiState map[string]interface{}
	if len(s.UiState) > 0 {
		_ = json.Unmarshal(s.UiState, &uiState)
	}
	if uiState == nil {
		uiState = map[string]interface{}{}
	}

	return &entity.Session{
		Id:        s.Id,
		UserId:    s.UserId,
		Name:      s.Name,
		Chat:      chat,
		Jsx:       s.Jsx,
		Css:       s.Css,
		UiState:   uiState,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func (m *SessionMapper) ToModel(s *entity.Session) *model.Session {
	if s == nil {
		return nil
	}

	chat := s.Chat
	if chat == nil {
		chat = []entity.ChatMessage{}
	}
	chatJSON, _ := json.Marshal(chat)

	uiState := s.UiState
	if uiState == nil {
		uiState = map[string]interface{}{}
	}
	uiStateJSON, _ := json.Marshal(uiState)

	return &model.Session{
		Id:        s.Id,
		UserId:    s.UserId,
		Name:      s.Name,
		Chat:      datatypes.JSON(chatJSON),
		Jsx:       s.Jsx,
		Css:       s.Css,
		UiState:   datatypes.JSON(uiStateJSON),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func (m *SessionMapper) ToEntities(models []*model.Session) []*entity.Session {
	entities := make([]*entity.Session, len(models))
	for i, s := range models {
		entities[i] = m.ToEntity(s)
	}
	return entities
}
