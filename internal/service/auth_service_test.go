package service

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-playground-be/internal/config"
	"ai-playground-be/internal/dto"
	"ai-playground-be/internal/entity"
	"ai-playground-be/internal/pkg/apperrors"
)

const testSecret = "test-secret"

func newTestAuthService() (IAuthService, *fakeFactory) {
	factory := newFakeFactory()
	cfg := &config.Config{}
	cfg.Auth.JwtSecret = testSecret
	cfg.Auth.MinPasswordLength = 6
	return NewAuthService(factory, cfg, nil), factory
}

func TestSignupAndLogin(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	res, err := svc.Signup(ctx, &dto.SignupRequest{Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.True(t, res.Success)

	login, err := svc.Login(ctx, &dto.LoginRequest{Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.NotEmpty(t, login.Token)

	// The token carries identity claims, verifiable with the same secret.
	token, err := jwt.Parse(login.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "alice@example.com", claims["email"])
	assert.NotEmpty(t, claims["userId"])
	assert.NotNil(t, claims["exp"])
}

func TestSignupShortPassword(t *testing.T) {
	svc, _ := newTestAuthService()

	_, err := svc.Signup(context.Background(), &dto.SignupRequest{Email: "alice@example.com", Password: "123"})
	require.Error(t, err)

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindInvalidInput, appErr.Kind)
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, &dto.SignupRequest{Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, &dto.SignupRequest{Email: "alice@example.com", Password: "othersecret"})
	require.Error(t, err)

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindConflict, appErr.Kind)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, factory := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, &dto.SignupRequest{Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)

	// OAuth-only account: present, but no password hash.
	oauthID := "google-123"
	oauthOnly := &entity.User{
		Id:       uuid.New(),
		Email:    "bob@example.com",
		OAuthId:  &oauthID,
		Provider: entity.ProviderGoogle,
	}
	require.NoError(t, factory.uow.users.Create(ctx, oauthOnly))

	cases := []struct {
		name string
		req  dto.LoginRequest
	}{
		{"unknown email", dto.LoginRequest{Email: "nobody@example.com", Password: "secret123"}},
		{"wrong password", dto.LoginRequest{Email: "alice@example.com", Password: "wrong-password"}},
		{"oauth-only account", dto.LoginRequest{Email: "bob@example.com", Password: "secret123"}},
	}

	var messages []string
	for _, tc := range cases {
		_, err := svc.Login(ctx, &tc.req)
		require.Error(t, err, tc.name)

		appErr, ok := apperrors.As(err)
		require.True(t, ok, tc.name)
		assert.Equal(t, apperrors.KindUnauthorized, appErr.Kind, tc.name)
		messages = append(messages, appErr.Message)
	}

	// Same message for every failure mode; nothing leaks which part failed.
	require.Len(t, messages, 3)
	assert.Equal(t, messages[0], messages[1])
	assert.Equal(t, messages[1], messages[2])
}

func TestSignTokenWithoutSecret(t *testing.T) {
	_, err := SignToken("", uuid.New(), "alice@example.com")
	require.Error(t, err)

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindInternal, appErr.Kind)
}
