package client

import (
	"context"
	"errors"
	"sync"

	"ai-playground-be/pkg/codeblock"
)

// ErrNoActiveSession is returned by mutations issued before a session has
// been selected or created.
var ErrNoActiveSession = errors.New("no active session")

// SyncController keeps one active session copy consistent with the server.
// Every mutation triggers a write-through save of the full document, so the
// server always holds the last applied state. Saves are last-writer-wins;
// there is no merge.
type SyncController struct {
	api *Client

	mu       sync.Mutex
	sessions []Session
	active   *Session
}

func NewSyncController(api *Client) *SyncController {
	return &SyncController{api: api}
}

// Refresh reloads the session list from the server. The active copy is left
// untouched.
func (sc *SyncController) Refresh(ctx context.Context) ([]Session, error) {
	sessions, err := sc.api.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	sc.mu.Lock()
	sc.sessions = sessions
	sc.mu.Unlock()
	return sessions, nil
}

// Sessions returns the last fetched session list.
func (sc *SyncController) Sessions() []Session {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	out := make([]Session, len(sc.sessions))
	copy(out, sc.sessions)
	return out
}

// Active returns a copy of the active session, or nil when none is selected.
func (sc *SyncController) Active() *Session {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.active == nil {
		return nil
	}
	copied := *sc.active
	return &copied
}

// NewSession creates a session server-side and makes it the active copy.
func (sc *SyncController) NewSession(ctx context.Context, name string) (*Session, error) {
	created, err := sc.api.CreateSession(ctx, SessionPayload{Name: name})
	if err != nil {
		return nil, err
	}
	sc.mu.Lock()
	sc.active = created
	sc.mu.Unlock()
	return created, nil
}

// SelectSession replaces the active copy wholesale with the server's
// authoritative version. Unsaved local edits are discarded; the last
// write-through before the switch is the only guarded save point.
func (sc *SyncController) SelectSession(ctx context.Context, id string) (*Session, error) {
	session, err := sc.api.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	sc.mu.Lock()
	sc.active = session
	sc.mu.Unlock()
	return session, nil
}

// AppendMessage adds a chat turn to the active session and saves.
func (sc *SyncController) AppendMessage(ctx context.Context, role, content string) error {
	return sc.mutate(ctx, func(s *Session) {
		s.Chat = append(s.Chat, ChatMessage{Role: role, Content: content})
	})
}

// SetMarkup replaces the generated markup and saves.
func (sc *SyncController) SetMarkup(ctx context.Context, jsx string) error {
	return sc.mutate(ctx, func(s *Session) {
		s.Jsx = jsx
	})
}

// SetStyle replaces the generated stylesheet and saves.
func (sc *SyncController) SetStyle(ctx context.Context, css string) error {
	return sc.mutate(ctx, func(s *Session) {
		s.Css = css
	})
}

// Rename changes the session name and saves.
func (sc *SyncController) Rename(ctx context.Context, name string) error {
	return sc.mutate(ctx, func(s *Session) {
		s.Name = name
	})
}

// ApplyReply records an assistant reply, extracts any fenced code it
// carries, and saves once. Markup and style keep their prior values when the
// reply has no matching block.
func (sc *SyncController) ApplyReply(ctx context.Context, reply string) error {
	return sc.mutate(ctx, func(s *Session) {
		s.Chat = append(s.Chat, ChatMessage{Role: "assistant", Content: reply})
		s.Jsx, s.Css = codeblock.Apply(reply, s.Jsx, s.Css)
	})
}

// mutate applies fn to the active copy and writes the full document through
// to the server, adopting the server's echo (timestamps) on success.
func (sc *SyncController) mutate(ctx context.Context, fn func(*Session)) error {
	sc.mu.Lock()
	if sc.active == nil {
		sc.mu.Unlock()
		return ErrNoActiveSession
	}
	fn(sc.active)
	id := sc.active.Id
	payload := SessionPayload{
		Name:    sc.active.Name,
		Chat:    sc.active.Chat,
		Jsx:     sc.active.Jsx,
		Css:     sc.active.Css,
		UiState: sc.active.UiState,
	}
	sc.mu.Unlock()

	saved, err := sc.api.UpdateSession(ctx, id, payload)
	if err != nil {
		return err
	}

	sc.mu.Lock()
	// A SelectSession racing this save wins; only adopt the echo when the
	// active session is still the one we saved.
	if sc.active != nil && sc.active.Id == saved.Id {
		sc.active.CreatedAt = saved.CreatedAt
		sc.active.UpdatedAt = saved.UpdatedAt
	}
	sc.mu.Unlock()
	return nil
}
