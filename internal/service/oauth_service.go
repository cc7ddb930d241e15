package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"ai-playground-be/internal/config"
	"ai-playground-be/internal/dto"
	"ai-playground-be/internal/entity"
	"ai-playground-be/internal/pkg/apperrors"
	"ai-playground-be/internal/repository/specification"
	"ai-playground-be/internal/repository/unitofwork"
	"ai-playground-be/pkg/cache"
)

// stateTTL bounds how long a login URL stays redeemable.
const stateTTL = 10 * time.Minute

type IOAuthService interface {
	GetLoginURL(ctx context.Context, provider string) (string, error)
	HandleCallback(ctx context.Context, provider, code, state string) (*dto.LoginResponse, error)
}

type oauthService struct {
	uowFactory unitofwork.RepositoryFactory
	cfg        *config.Config
	googleConf *oauth2.Config
	states     cache.Store
}

func NewOAuthService(uowFactory unitofwork.RepositoryFactory, cfg *config.Config, states cache.Store) IOAuthService {
	conf := &oauth2.Config{
		ClientID:     cfg.OAuth.GoogleClientID,
		ClientSecret: cfg.OAuth.GoogleClientSecret,
		RedirectURL:  cfg.OAuth.GoogleRedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
		},
		Endpoint: google.Endpoint,
	}

	return &oauthService{
		uowFactory: uowFactory,
		cfg:        cfg,
		googleConf: conf,
		states:     states,
	}
}

func (s *oauthService) enabled() bool {
	return s.googleConf.ClientID != ""
}

func (s *oauthService) GetLoginURL(ctx context.Context, provider string) (string, error) {
	if provider != entity.ProviderGoogle || !s.enabled() {
		return "", apperrors.NotFound("Unsupported provider")
	}

	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", apperrors.Internal("failed to generate state", err)
	}
	state := base64.URLEncoding.EncodeToString(b)
	s.states.Set(ctx, stateCacheKey(state), []byte{1}, stateTTL)

	return s.googleConf.AuthCodeURL(state), nil
}

func (s *oauthService) HandleCallback(ctx context.Context, provider, code, state string) (*dto.LoginResponse, error) {
	if provider != entity.ProviderGoogle || !s.enabled() {
		return nil, apperrors.NotFound("Unsupported provider")
	}

	// States are single use: consume before the code exchange so a replayed
	// callback fails even if the exchange would still succeed.
	if _, ok := s.states.Get(ctx, stateCacheKey(state)); !ok {
		return nil, apperrors.Unauthorized("invalid state")
	}
	s.states.Delete(ctx, stateCacheKey(state))

	token, err := s.googleConf.Exchange(ctx, code)
	if err != nil {
		return nil, apperrors.Unauthorized("code exchange failed")
	}

	info, err := s.fetchUserInfo(ctx, token.AccessToken)
	if err != nil {
		return nil, apperrors.Upstream("failed getting user info", err.Error(), err)
	}

	user, err := s.findOrCreateUser(ctx, info)
	if err != nil {
		return nil, err
	}

	signed, err := SignToken(s.cfg.Auth.JwtSecret, user.Id, user.Email)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{Token: signed}, nil
}

func stateCacheKey(state string) string {
	return "oauth:state:" + state
}

type googleUserInfo struct {
	Id    string `json:"id"`
	Email string `json:"email"`
}

func (s *oauthService) fetchUserInfo(ctx context.Context, accessToken string) (*googleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, "GET",
		"https://www.googleapis.com/oauth2/v2/userinfo?access_token="+accessToken, nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, err
	}
	if info.Id == "" || info.Email == "" {
		return nil, fmt.Errorf("userinfo response missing id or email")
	}
	return &info, nil
}

// findOrCreateUser resolves the callback identity: a returning OAuth user,
// an existing local account to link, or a brand-new user.
func (s *oauthService) findOrCreateUser(ctx context.Context, info *googleUserInfo) (*entity.User, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	users := uow.UserRepository()

	user, err := users.FindOne(ctx, specification.ByOAuthId{OAuthId: info.Id})
	if err != nil {
		return nil, apperrors.Internal("failed to look up user", err)
	}
	if user != nil {
		return user, nil
	}

	user, err = users.FindOne(ctx, specification.ByEmail{Email: info.Email})
	if err != nil {
		return nil, apperrors.Internal("failed to look up user", err)
	}
	if user != nil {
		// Link the provider identity to the existing local account.
		oauthId := info.Id
		user.OAuthId = &oauthId
		user.Provider = entity.ProviderGoogle
		if err := users.Update(ctx, user); err != nil {
			return nil, apperrors.Internal("failed to link provider", err)
		}
		return user, nil
	}

	oauthId := info.Id
	user = &entity.User{
		Id:        uuid.New(),
		Email:     info.Email,
		OAuthId:   &oauthId,
		Provider:  entity.ProviderGoogle,
		CreatedAt: time.Now(),
	}
	if err := users.Create(ctx, user); err != nil {
		return nil, apperrors.Internal("failed to create user", err)
	}
	return user, nil
}
