package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

// User holds exactly one of PasswordHash (local signup) or OAuthId (OAuth
// signup); linkage can later set both, never clear both.
type User struct {
	Id           uuid.UUID
	Email        string
	PasswordHash *string
	OAuthId      *string
	Provider     string
	CreatedAt    time.Time
}
