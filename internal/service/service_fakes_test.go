package service

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"ai-playground-be/internal/entity"
	"ai-playground-be/internal/repository/contract"
	"ai-playground-be/internal/repository/specification"
	"ai-playground-be/internal/repository/unitofwork"
)

// In-memory repository fakes. They interpret the same specifications the
// gorm implementations translate to SQL, so service code is exercised
// unchanged.

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*entity.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	copied := *user
	r.users[user.Id] = &copied
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	copied := *user
	r.users[user.Id] = &copied
	return nil
}

func (r *fakeUserRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.User, error) {
	for _, user := range r.users {
		if userMatches(user, specs) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func userMatches(user *entity.User, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if user.Id != s.ID {
				return false
			}
		case specification.ByEmail:
			if user.Email != s.Email {
				return false
			}
		case specification.ByOAuthId:
			if user.OAuthId == nil || *user.OAuthId != s.OAuthId {
				return false
			}
		}
	}
	return true
}

type fakeSessionRepo struct {
	sessions map[uuid.UUID]*entity.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[uuid.UUID]*entity.Session{}}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *entity.Session) error {
	copied := *session
	r.sessions[session.Id] = &copied
	return nil
}

func (r *fakeSessionRepo) Update(_ context.Context, session *entity.Session) error {
	copied := *session
	r.sessions[session.Id] = &copied
	return nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.sessions, id)
	return nil
}

func (r *fakeSessionRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Session, error) {
	for _, session := range r.sessions {
		if sessionMatches(session, specs) {
			copied := *session
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Session, error) {
	var out []*entity.Session
	for _, session := range r.sessions {
		if sessionMatches(session, specs) {
			copied := *session
			out = append(out, &copied)
		}
	}
	for _, spec := range specs {
		if order, ok := spec.(specification.OrderBy); ok && order.Field == "updated_at" && order.Desc {
			sort.Slice(out, func(i, j int) bool {
				return out[i].UpdatedAt.After(out[j].UpdatedAt)
			})
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) Count(_ context.Context, specs ...specification.Specification) (int64, error) {
	sessions, _ := r.FindAll(context.Background(), specs...)
	return int64(len(sessions)), nil
}

func sessionMatches(session *entity.Session, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if session.Id != s.ID {
				return false
			}
		case specification.OwnedBy:
			if session.UserId != s.UserID {
				return false
			}
		}
	}
	return true
}

type fakeUnitOfWork struct {
	users    *fakeUserRepo
	sessions *fakeSessionRepo
}

func (u *fakeUnitOfWork) Begin(_ context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                 { return nil }
func (u *fakeUnitOfWork) Rollback() error               { return nil }

func (u *fakeUnitOfWork) UserRepository() contract.UserRepository {
	return u.users
}

func (u *fakeUnitOfWork) SessionRepository() contract.SessionRepository {
	return u.sessions
}

type fakeFactory struct {
	uow *fakeUnitOfWork
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{uow: &fakeUnitOfWork{
		users:    newFakeUserRepo(),
		sessions: newFakeSessionRepo(),
	}}
}

func (f *fakeFactory) NewUnitOfWork(_ context.Context) unitofwork.UnitOfWork {
	return f.uow
}
