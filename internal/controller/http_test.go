package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-playground-be/internal/config"
	"ai-playground-be/internal/dto"
	"ai-playground-be/internal/pkg/apperrors"
	"ai-playground-be/internal/pkg/serverutils"
	"ai-playground-be/internal/service"
)

const testSecret = "test-secret"

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeAuthService struct{}

func (fakeAuthService) Signup(_ context.Context, req *dto.SignupRequest) (*dto.SignupResponse, error) {
	if req.Email == "taken@example.com" {
		return nil, apperrors.Conflict("Email already registered")
	}
	return &dto.SignupResponse{Success: true}, nil
}

func (fakeAuthService) Login(_ context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	if req.Password != "secret123" {
		return nil, apperrors.Unauthorized("Invalid credentials")
	}
	token, err := service.SignToken(testSecret, uuid.New(), req.Email)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token}, nil
}

type fakeSessionService struct {
	sessions map[uuid.UUID]*dto.SessionResponse
}

func (s *fakeSessionService) List(_ context.Context, _ uuid.UUID) ([]*dto.SessionResponse, error) {
	out := make([]*dto.SessionResponse, 0, len(s.sessions))
	for _, session := range s.sessions {
		out = append(out, session)
	}
	return out, nil
}

func (s *fakeSessionService) Create(_ context.Context, _ uuid.UUID, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	session := &dto.SessionResponse{Id: uuid.New(), Name: req.Name}
	s.sessions[session.Id] = session
	return session, nil
}

func (s *fakeSessionService) Get(_ context.Context, _ uuid.UUID, id uuid.UUID) (*dto.SessionResponse, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, apperrors.NotFound("Not found")
	}
	return session, nil
}

func (s *fakeSessionService) Update(_ context.Context, _ uuid.UUID, id uuid.UUID, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, apperrors.NotFound("Not found")
	}
	session.Name = req.Name
	return session, nil
}

func (s *fakeSessionService) Delete(_ context.Context, _ uuid.UUID, id uuid.UUID) error {
	if _, ok := s.sessions[id]; !ok {
		return apperrors.NotFound("Not found")
	}
	delete(s.sessions, id)
	return nil
}

type fakeOAuthService struct{}

func (fakeOAuthService) GetLoginURL(_ context.Context, provider string) (string, error) {
	if provider != "google" {
		return "", apperrors.NotFound("Unknown provider")
	}
	return "https://accounts.example.com/auth?client_id=test", nil
}

func (fakeOAuthService) HandleCallback(_ context.Context, provider, code, state string) (*dto.LoginResponse, error) {
	if provider != "google" {
		return nil, apperrors.NotFound("Unknown provider")
	}
	return &dto.LoginResponse{Token: "oauth-token"}, nil
}

func passGate(ctx *fiber.Ctx) error { return ctx.Next() }

func closedGate(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error":      "Database connection error. Please try again in a few seconds.",
		"retryAfter": 5,
	})
}

func newTestApp(gate fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware(nopLogger{}, true))

	jwtMiddleware := serverutils.NewJwtMiddleware(testSecret)
	NewAuthController(fakeAuthService{}, gate).RegisterRoutes(app)
	cfg := &config.Config{}
	cfg.App.ClientURL = "http://localhost:3000"
	NewOAuthController(fakeOAuthService{}, cfg, gate).RegisterRoutes(app)
	NewSessionController(&fakeSessionService{sessions: map[uuid.UUID]*dto.SessionResponse{}}, jwtMiddleware, gate).RegisterRoutes(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]json.RawMessage) {
	t.Helper()
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	fields := map[string]json.RawMessage{}
	json.Unmarshal(data, &fields)
	return resp, fields
}

func loginToken(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp, fields := doJSON(t, app, "POST", "/auth/login", "", dto.LoginRequest{Email: "alice@example.com", Password: "secret123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var token string
	require.NoError(t, json.Unmarshal(fields["token"], &token))
	require.NotEmpty(t, token)
	return token
}

func TestLoginResponseShape(t *testing.T) {
	app := newTestApp(passGate)

	resp, fields := doJSON(t, app, "POST", "/auth/login", "", dto.LoginRequest{Email: "alice@example.com", Password: "secret123"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	// The body is exactly {token}; no envelope.
	assert.Contains(t, fields, "token")
	assert.Len(t, fields, 1)
}

func TestLoginInvalidCredentials(t *testing.T) {
	app := newTestApp(passGate)

	resp, fields := doJSON(t, app, "POST", "/auth/login", "", dto.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.JSONEq(t, `"Invalid credentials"`, string(fields["error"]))
}

func TestSignupConflict(t *testing.T) {
	app := newTestApp(passGate)

	resp, _ := doJSON(t, app, "POST", "/auth/signup", "", dto.SignupRequest{Email: "fresh@example.com", Password: "secret123"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, fields := doJSON(t, app, "POST", "/auth/signup", "", dto.SignupRequest{Email: "taken@example.com", Password: "secret123"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, fields, "error")
}

func TestSessionsRequireToken(t *testing.T) {
	app := newTestApp(passGate)

	resp, fields := doJSON(t, app, "GET", "/sessions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, fields, "error")

	resp, _ = doJSON(t, app, "GET", "/sessions", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSessionListIsBareArray(t *testing.T) {
	app := newTestApp(passGate)
	token := loginToken(t, app)

	req := httptest.NewRequest("GET", "/sessions", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var list []json.RawMessage
	require.NoError(t, json.Unmarshal(data, &list), "body should be a bare array, got %s", data)
}

func TestSessionCrudOverHTTP(t *testing.T) {
	app := newTestApp(passGate)
	token := loginToken(t, app)

	resp, fields := doJSON(t, app, "POST", "/sessions", token, dto.CreateSessionRequest{Name: "Counter"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var id string
	require.NoError(t, json.Unmarshal(fields["id"], &id))

	resp, _ = doJSON(t, app, "GET", "/sessions/"+id, token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, fields = doJSON(t, app, "PUT", "/sessions/"+id, token, dto.UpdateSessionRequest{Name: "Renamed"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `"Renamed"`, string(fields["name"]))

	resp, fields = doJSON(t, app, "DELETE", "/sessions/"+id, token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `true`, string(fields["success"]))

	resp, fields = doJSON(t, app, "GET", "/sessions/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `"Not found"`, string(fields["error"]))
}

func TestDeleteSessionResponseShape(t *testing.T) {
	app := newTestApp(passGate)
	token := loginToken(t, app)

	_, fields := doJSON(t, app, "POST", "/sessions", token, dto.CreateSessionRequest{})
	var id string
	require.NoError(t, json.Unmarshal(fields["id"], &id))

	resp, fields := doJSON(t, app, "DELETE", "/sessions/"+id, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, fields, 1)
	assert.JSONEq(t, `true`, string(fields["success"]))
}

func TestMalformedSessionIdIsNotFound(t *testing.T) {
	app := newTestApp(passGate)
	token := loginToken(t, app)

	resp, _ := doJSON(t, app, "GET", "/sessions/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGateReturns503WithRetryHint(t *testing.T) {
	app := newTestApp(closedGate)

	// Gated before authentication: the database being down blocks login too.
	resp, fields := doJSON(t, app, "POST", "/auth/login", "", dto.LoginRequest{Email: "alice@example.com", Password: "secret123"})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, fields, "error")
	assert.JSONEq(t, `5`, string(fields["retryAfter"]))

	// OAuth needs the user table just like password auth does.
	resp, fields = doJSON(t, app, "GET", "/auth/oauth/google/login", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.JSONEq(t, `5`, string(fields["retryAfter"]))
}

func TestOAuthLoginRedirects(t *testing.T) {
	app := newTestApp(passGate)

	resp, _ := doJSON(t, app, "GET", "/auth/oauth/google/login", "", nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Location"), "accounts.example.com")
}

func TestOAuthCallbackRedirectsWithToken(t *testing.T) {
	app := newTestApp(passGate)

	resp, _ := doJSON(t, app, "GET", "/auth/oauth/google/callback?code=abc", "", nil)
	assert.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
	assert.Equal(t, "http://localhost:3000/?token=oauth-token", resp.Header.Get("Location"))

	resp, fields := doJSON(t, app, "GET", "/auth/oauth/google/callback", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `"Missing code"`, string(fields["error"]))
}
