package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

type ByOAuthId struct {
	OAuthId string
}

func (s ByOAuthId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("o_auth_id = ?", s.OAuthId)
}

// OwnedBy scopes a query to one user's records. Every session query carries
// this; absent and foreign-owned records are indistinguishable by design.
type OwnedBy struct {
	UserID uuid.UUID
}

func (s OwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}
