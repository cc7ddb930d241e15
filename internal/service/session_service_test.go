package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-playground-be/internal/dto"
	"ai-playground-be/internal/pkg/apperrors"
	"ai-playground-be/pkg/cache"
)

func newTestSessionService() (ISessionService, *fakeFactory) {
	factory := newFakeFactory()
	return NewSessionService(factory, cache.NewMemoryStore(time.Minute), nil), factory
}

func TestSessionCreateDefaults(t *testing.T) {
	svc, _ := newTestSessionService()
	userID := uuid.New()

	res, err := svc.Create(context.Background(), userID, &dto.CreateSessionRequest{})
	require.NoError(t, err)

	assert.Equal(t, "Untitled", res.Name)
	assert.NotEqual(t, uuid.Nil, res.Id)
	assert.Empty(t, res.Chat)
	assert.NotNil(t, res.UiState)
}

func TestSessionRoundTrip(t *testing.T) {
	svc, _ := newTestSessionService()
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, &dto.CreateSessionRequest{
		Name: "Counter",
		Chat: []dto.ChatMessageDTO{{Role: "user", Content: "build a counter"}},
		Jsx:  "<App/>",
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, userID, created.Id)
	require.NoError(t, err)
	assert.Equal(t, created.Id, got.Id)
	assert.Equal(t, "Counter", got.Name)
	assert.Equal(t, "<App/>", got.Jsx)
	require.Len(t, got.Chat, 1)
	assert.Equal(t, "user", got.Chat[0].Role)
}

func TestSessionUpdateReplacesDocument(t *testing.T) {
	svc, _ := newTestSessionService()
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, &dto.CreateSessionRequest{
		Name: "Counter",
		Chat: []dto.ChatMessageDTO{{Role: "user", Content: "first"}},
		Jsx:  "<Old/>",
		Css:  ".old {}",
	})
	require.NoError(t, err)

	// Full replace: fields omitted from the update are cleared, not merged.
	updated, err := svc.Update(ctx, userID, created.Id, &dto.UpdateSessionRequest{
		Name: "Renamed",
		Chat: []dto.ChatMessageDTO{
			{Role: "user", Content: "first"},
			{Role: "assistant", Content: "reply"},
		},
		Jsx: "<New/>",
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "<New/>", updated.Jsx)
	assert.Empty(t, updated.Css)
	assert.Len(t, updated.Chat, 2)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
}

func TestSessionOwnershipIsolation(t *testing.T) {
	svc, _ := newTestSessionService()
	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()

	created, err := svc.Create(ctx, owner, &dto.CreateSessionRequest{Name: "Private"})
	require.NoError(t, err)

	// Foreign-owned records look exactly like absent ones.
	_, err = svc.Get(ctx, stranger, created.Id)
	requireNotFound(t, err)

	_, err = svc.Update(ctx, stranger, created.Id, &dto.UpdateSessionRequest{Name: "Hijack"})
	requireNotFound(t, err)

	err = svc.Delete(ctx, stranger, created.Id)
	requireNotFound(t, err)

	// The owner still sees the untouched session.
	got, err := svc.Get(ctx, owner, created.Id)
	require.NoError(t, err)
	assert.Equal(t, "Private", got.Name)
}

func TestSessionListScopedAndOrdered(t *testing.T) {
	svc, factory := newTestSessionService()
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	first, err := svc.Create(ctx, alice, &dto.CreateSessionRequest{Name: "older"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, bob, &dto.CreateSessionRequest{Name: "other user"})
	require.NoError(t, err)

	// Force distinct timestamps, then touch the first session.
	stored := factory.uow.sessions.sessions[first.Id]
	stored.UpdatedAt = stored.UpdatedAt.Add(-time.Minute)

	second, err := svc.Create(ctx, alice, &dto.CreateSessionRequest{Name: "newer"})
	require.NoError(t, err)

	list, err := svc.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.Id, list[0].Id)
	assert.Equal(t, first.Id, list[1].Id)
}

func TestSessionListCacheInvalidatedOnWrite(t *testing.T) {
	svc, _ := newTestSessionService()
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, &dto.CreateSessionRequest{Name: "one"})
	require.NoError(t, err)

	// Prime the cache.
	list, err := svc.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	// A write invalidates the cached list; the next read reflects it.
	_, err = svc.Update(ctx, userID, created.Id, &dto.UpdateSessionRequest{Name: "renamed"})
	require.NoError(t, err)

	list, err = svc.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "renamed", list[0].Name)
}

func TestSessionDelete(t *testing.T) {
	svc, _ := newTestSessionService()
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, &dto.CreateSessionRequest{Name: "doomed"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, userID, created.Id))

	_, err = svc.Get(ctx, userID, created.Id)
	requireNotFound(t, err)

	// Deleting again reports NotFound rather than succeeding silently.
	err = svc.Delete(ctx, userID, created.Id)
	requireNotFound(t, err)
}

func requireNotFound(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	require.Equal(t, apperrors.KindNotFound, appErr.Kind)
}
