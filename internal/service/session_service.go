package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"ai-playground-be/internal/dto"
	"ai-playground-be/internal/entity"
	"ai-playground-be/internal/pkg/apperrors"
	"ai-playground-be/internal/pkg/serverutils"
	"ai-playground-be/internal/repository/specification"
	"ai-playground-be/internal/repository/unitofwork"
	"ai-playground-be/pkg/cache"
)

const sessionListTTL = 60 * time.Second

type ISessionService interface {
	List(ctx context.Context, userId uuid.UUID) ([]*dto.SessionResponse, error)
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	Get(ctx context.Context, userId, id uuid.UUID) (*dto.SessionResponse, error)
	Update(ctx context.Context, userId, id uuid.UUID, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error)
	Delete(ctx context.Context, userId, id uuid.UUID) error
}

type sessionService struct {
	uowFactory unitofwork.RepositoryFactory
	cacheStore cache.Store
	publisher  IPublisherService
}

func NewSessionService(uowFactory unitofwork.RepositoryFactory, cacheStore cache.Store, publisher IPublisherService) ISessionService {
	return &sessionService{
		uowFactory: uowFactory,
		cacheStore: cacheStore,
		publisher:  publisher,
	}
}

func listCacheKey(userId uuid.UUID) string {
	return "sessions:" + userId.String()
}

func (s *sessionService) List(ctx context.Context, userId uuid.UUID) ([]*dto.SessionResponse, error) {
	if cached, ok := s.cacheStore.Get(ctx, listCacheKey(userId)); ok {
		var out []*dto.SessionResponse
		if err := json.Unmarshal(cached, &out); err == nil {
			return out, nil
		}
		// Corrupt cache entry: drop it and fall through to the store.
		s.cacheStore.Delete(ctx, listCacheKey(userId))
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.SessionRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, apperrors.Internal("failed to list sessions", err)
	}

	out := make([]*dto.SessionResponse, len(sessions))
	for i, session := range sessions {
		out[i] = sessionToResponse(session)
	}

	if encoded, err := json.Marshal(out); err == nil {
		s.cacheStore.Set(ctx, listCacheKey(userId), encoded, sessionListTTL)
	}

	return out, nil
}

func (s *sessionService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	name := req.Name
	if name == "" {
		name = "Untitled"
	}

	session := &entity.Session{
		Id:        uuid.New(),
		UserId:    userId,
		Name:      name,
		Chat:      chatFromDTO(req.Chat),
		Jsx:       req.Jsx,
		Css:       req.Css,
		UiState:   req.UiState,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.SessionRepository().Create(ctx, session); err != nil {
		return nil, apperrors.Internal("failed to create session", err)
	}

	s.afterWrite(ctx, session)
	return sessionToResponse(session), nil
}

func (s *sessionService) Get(ctx context.Context, userId, id uuid.UUID) (*dto.SessionResponse, error) {
	session, err := s.findOwned(ctx, userId, id)
	if err != nil {
		return nil, err
	}
	return sessionToResponse(session), nil
}

func (s *sessionService) Update(ctx context.Context, userId, id uuid.UUID, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error) {
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}

	session, err := s.findOwned(ctx, userId, id)
	if err != nil {
		return nil, err
	}

	// Full-document replace of the mutable fields; last write wins.
	session.Name = req.Name
	session.Chat = chatFromDTO(req.Chat)
	session.Jsx = req.Jsx
	session.Css = req.Css
	session.UiState = req.UiState
	session.UpdatedAt = time.Now()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.SessionRepository().Update(ctx, session); err != nil {
		return nil, apperrors.Internal("failed to update session", err)
	}

	s.afterWrite(ctx, session)
	return sessionToResponse(session), nil
}

func (s *sessionService) Delete(ctx context.Context, userId, id uuid.UUID) error {
	session, err := s.findOwned(ctx, userId, id)
	if err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.SessionRepository().Delete(ctx, session.Id); err != nil {
		return apperrors.Internal("failed to delete session", err)
	}

	s.cacheStore.Delete(ctx, listCacheKey(userId))
	return nil
}

// findOwned resolves a session scoped to its owner. Absent and foreign-owned
// records return the same NotFound; existence is never leaked.
func (s *sessionService) findOwned(ctx context.Context, userId, id uuid.UUID) (*entity.Session, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.SessionRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, apperrors.Internal("failed to load session", err)
	}
	if session == nil {
		return nil, apperrors.NotFound("Not found")
	}
	return session, nil
}

func (s *sessionService) afterWrite(ctx context.Context, session *entity.Session) {
	s.cacheStore.Delete(ctx, listCacheKey(session.UserId))
	if s.publisher != nil {
		s.publisher.PublishSessionSaved(session.UserId, session.Id, session.Name)
	}
}

func chatFromDTO(chat []dto.ChatMessageDTO) []entity.ChatMessage {
	out := make([]entity.ChatMessage, len(chat))
	for i, m := range chat {
		out[i] = entity.ChatMessage{Role: m.Role, Content: m.Content}
	}
	return out
}

func chatToDTO(chat []entity.ChatMessage) []dto.ChatMessageDTO {
	out := make([]dto.ChatMessageDTO, len(chat))
	for i, m := range chat {
		out[i] = dto.ChatMessageDTO{Role: m.Role, Content: m.Content}
	}
	return out
}

func sessionToResponse(session *entity.Session) *dto.SessionResponse {
	uiState := session.UiState
	if uiState == nil {
		uiState = map[string]interface{}{}
	}
	return &dto.SessionResponse{
		Id:        session.Id,
		Name:      session.Name,
		Chat:      chatToDTO(session.Chat),
		Jsx:       session.Jsx,
		Css:       session.Css,
		UiState:   uiState,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
}
