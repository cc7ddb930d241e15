// Package client is a typed Go client for the playground API plus a sync
// controller that keeps an in-memory editing session consistent with the
// server copy.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// ErrAuthRequired is returned after the server rejects the stored token. The
// client clears its token; the caller must log in again.
var ErrAuthRequired = errors.New("authentication required")

// APIError carries the server's error payload for non-2xx responses.
type APIError struct {
	StatusCode int
	Message    string
	RetryAfter int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session is the client-side copy of a workspace document.
type Session struct {
	Id        string                 `json:"id"`
	Name      string                 `json:"name"`
	Chat      []ChatMessage          `json:"chat"`
	Jsx       string                 `json:"jsx"`
	Css       string                 `json:"css"`
	UiState   map[string]interface{} `json:"uiState"`
	CreatedAt time.Time              `json:"createdAt"`
	UpdatedAt time.Time              `json:"updatedAt"`
}

type SessionPayload struct {
	Name    string                 `json:"name"`
	Chat    []ChatMessage          `json:"chat"`
	Jsx     string                 `json:"jsx"`
	Css     string                 `json:"css"`
	UiState map[string]interface{} `json:"uiState"`
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type generateRequest struct {
	Prompt string        `json:"prompt"`
	Chat   []ChatMessage `json:"chat"`
	Code   string        `json:"code"`
}

type generateResponse struct {
	Result json.RawMessage `json:"result"`
}

type errorResponse struct {
	Error      string `json:"error"`
	RetryAfter int    `json:"retryAfter"`
}

// Client talks to the playground API. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the stored bearer token, empty after a 401.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Signup(ctx context.Context, email, password string) error {
	return c.do(ctx, http.MethodPost, "/auth/signup", signupRequest{Email: email, Password: password}, nil)
}

// Login stores the returned token for subsequent requests.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var res loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", signupRequest{Email: email, Password: password}, &res); err != nil {
		return err
	}
	c.setToken(res.Token)
	return nil
}

func (c *Client) ListSessions(ctx context.Context) ([]Session, error) {
	var res []Session
	if err := c.do(ctx, http.MethodGet, "/sessions", nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) CreateSession(ctx context.Context, payload SessionPayload) (*Session, error) {
	var res Session
	if err := c.do(ctx, http.MethodPost, "/sessions", payload, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) GetSession(ctx context.Context, id string) (*Session, error) {
	var res Session
	if err := c.do(ctx, http.MethodGet, "/sessions/"+id, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) UpdateSession(ctx context.Context, id string, payload SessionPayload) (*Session, error) {
	var res Session
	if err := c.do(ctx, http.MethodPut, "/sessions/"+id, payload, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) DeleteSession(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/sessions/"+id, nil, nil)
}

// Generate relays a prompt plus chat history and returns the provider's raw
// reply JSON.
func (c *Client) Generate(ctx context.Context, prompt string, chat []ChatMessage, code string) (json.RawMessage, error) {
	var res generateResponse
	if err := c.do(ctx, http.MethodPost, "/ai/generate", generateRequest{Prompt: prompt, Chat: chat, Code: code}, &res); err != nil {
		return nil, err
	}
	return res.Result, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.setToken("")
		return ErrAuthRequired
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errRes errorResponse
		data, _ := io.ReadAll(resp.Body)
		if err := json.Unmarshal(data, &errRes); err != nil || errRes.Error == "" {
			errRes.Error = string(data)
		}
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    errRes.Error,
			RetryAfter: errRes.RetryAfter,
		}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
