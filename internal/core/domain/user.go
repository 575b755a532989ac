package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                uuid.UUID  `json:"id"`
	Email             string     `json:"email"`
	HashedPassword    string     `json:"-"`
	FullName          string     `json:"full_name"`
	IsActive          bool       `json:"is_active"`
	IsSuperuser       bool       `json:"is_superuser"`
	CreatedAt         time.Time  `json:"created_at"`
	ResetToken        *string    `json:"-"`
	ResetTokenExpires *time.Time `json:"-"`
}

// BlacklistedToken is a bearer token revoked by logout. A row is inert once
// expires_at has passed and is eligible for purging.
type BlacklistedToken struct {
	ID        int64     `json:"id"`
	Token     string    `json:"-"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
