package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"ai-playground-be/internal/config"
	"ai-playground-be/internal/dto"
	"ai-playground-be/internal/entity"
	"ai-playground-be/internal/pkg/apperrors"
	"ai-playground-be/internal/pkg/serverutils"
	"ai-playground-be/internal/repository/specification"
	"ai-playground-be/internal/repository/unitofwork"
	"ai-playground-be/pkg/events"
	pktNats "ai-playground-be/pkg/nats"
)

const tokenExpiry = 7 * 24 * time.Hour

type IAuthService interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.SignupResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	cfg            *config.Config
	eventPublisher *pktNats.Publisher
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, cfg *config.Config, eventPublisher *pktNats.Publisher) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		cfg:            cfg,
		eventPublisher: eventPublisher,
	}
}

func (s *authService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.SignupResponse, error) {
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}
	if len(req.Password) < s.cfg.Auth.MinPasswordLength {
		return nil, apperrors.InvalidInput(fmt.Sprintf("Password must be at least %d characters long", s.cfg.Auth.MinPasswordLength))
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, apperrors.Internal("failed to look up user", err)
	}
	if existing != nil {
		return nil, apperrors.Conflict("Email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}
	hashStr := string(hash)

	user := &entity.User{
		Id:           uuid.New(),
		Email:        req.Email,
		PasswordHash: &hashStr,
		Provider:     entity.ProviderLocal,
		CreatedAt:    time.Now(),
	}

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, apperrors.Internal("failed to create user", err)
	}

	s.publish(ctx, events.TypeUserSignup, map[string]interface{}{
		"user_id": user.Id,
		"email":   user.Email,
	})

	return &dto.SignupResponse{Success: true}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, apperrors.Internal("failed to look up user", err)
	}

	// Unknown email, OAuth-only account and wrong password are deliberately
	// indistinguishable to the caller.
	if user == nil || user.PasswordHash == nil {
		return nil, apperrors.Unauthorized("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.Unauthorized("Invalid credentials")
	}

	token, err := SignToken(s.cfg.Auth.JwtSecret, user.Id, user.Email)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.TypeUserLogin, map[string]interface{}{
		"user_id": user.Id,
		"time":    time.Now().Format(time.RFC822),
	})

	return &dto.LoginResponse{Token: token}, nil
}

func (s *authService) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	event := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		fmt.Printf("[WARN] Failed to publish %s event: %v\n", eventType, err)
	}
}

// SignToken issues the bearer token carrying {userId, email, exp}. Startup
// refuses to run without a secret; the guard here is the fail-closed backstop.
func SignToken(secret string, userId uuid.UUID, email string) (string, error) {
	if secret == "" {
		return "", apperrors.Internal("server configuration error: signing secret not set", nil)
	}

	claims := jwt.MapClaims{
		"userId": userId.String(),
		"email":  email,
		"exp":    time.Now().Add(tokenExpiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", apperrors.Internal("failed to sign token", err)
	}
	return signed, nil
}
